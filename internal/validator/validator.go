package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/qpaper-backend/internal/config"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// catalogRule ties a struct tag to a catalog lookup and its error message.
type catalogRule struct {
	tag     string
	allowed func(*config.Catalog, string) bool
	message string
}

var catalogRules = []catalogRule{
	{"subject", (*config.Catalog).HasSubject, "{0} must be a known subject"},
	{"standard", (*config.Catalog).HasStandard, "{0} must be a known standard"},
	{"exam_track", (*config.Catalog).HasExamTrack, "{0} must be one of the exam tracks"},
	{"question_type", (*config.Catalog).HasQuestionType, "{0} must be a supported question type"},
	{"answer_key", (*config.Catalog).HasAnswerKey, "{0} must be one of a, b, c, d"},
	{"font", (*config.Catalog).HasFont, "{0} must be one of the offered fonts"},
	{"font_size", (*config.Catalog).HasFontSize, "{0} must be one of the offered font sizes"},
}

// Setup registers the validator with English translations on Gin's binding
// engine, plus the catalog-backed tags listed in catalogRules.
// Call once during application startup.
func Setup(catalog *config.Catalog) error {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}

	// Use JSON tag name (or form tag for query structs) in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return fmt.Errorf("register translations: %w", err)
	}

	for _, rule := range catalogRules {
		if err := v.RegisterValidation(rule.tag, func(fl govalidator.FieldLevel) bool {
			return rule.allowed(catalog, fl.Field().String())
		}); err != nil {
			return fmt.Errorf("register %s: %w", rule.tag, err)
		}

		if err := v.RegisterTranslation(rule.tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(rule.tag, rule.message, true)
			},
			func(ut ut.Translator, fe govalidator.FieldError) string {
				msg, _ := ut.T(fe.Tag(), fe.Field())
				return msg
			},
		); err != nil {
			return fmt.Errorf("translate %s: %w", rule.tag, err)
		}
	}
	return nil
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldPath(fe)] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// fieldPath drops the top-level struct name so nested fields read "options.font".
func fieldPath(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindQuery is Bind for query strings.
func BindQuery(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindQuery(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
