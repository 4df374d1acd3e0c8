package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the fixed vocabulary of the question bank: which subjects,
// standards and exam tracks exist, which fonts a paper may use, and the
// paper defaults. It is loaded once at boot and never mutated afterwards,
// so it is safe to share between goroutines without locking.
type Catalog struct {
	Subjects      []string      `yaml:"subjects" json:"subjects"`
	Standards     []string      `yaml:"standards" json:"standards"`
	ExamTracks    []string      `yaml:"exam_tracks" json:"examTracks"`
	QuestionTypes []string      `yaml:"question_types" json:"questionTypes"`
	AnswerKeys    []string      `yaml:"answer_keys" json:"answerKeys"`
	Fonts         []string      `yaml:"fonts" json:"fonts"`
	FontSizes     []string      `yaml:"font_sizes" json:"fontSizes"`
	Defaults      PaperDefaults `yaml:"paper_defaults" json:"paperDefaults"`

	// Chapters maps subject -> standard -> chapter names. Used for seeding only.
	Chapters map[string]map[string][]string `yaml:"chapters" json:"-"`
}

// PaperDefaults are the initial settings of a new paper session.
type PaperDefaults struct {
	MaxQuestions     int    `yaml:"max_questions" json:"maxQuestions"`
	MarksPerQuestion int    `yaml:"marks_per_question" json:"marksPerQuestion"`
	Font             string `yaml:"font" json:"font"`
	FontSize         string `yaml:"font_size" json:"fontSize"`
}

// SeedChapter is one catalog chapter entry.
type SeedChapter struct {
	Subject  string
	Standard string
	Name     string
}

// LoadCatalog reads the catalog from path, or the embedded default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = b
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	switch {
	case len(c.Subjects) == 0:
		return errors.New("catalog: subjects must not be empty")
	case len(c.Standards) == 0:
		return errors.New("catalog: standards must not be empty")
	case len(c.ExamTracks) == 0:
		return errors.New("catalog: exam_tracks must not be empty")
	case len(c.Fonts) == 0 || len(c.FontSizes) == 0:
		return errors.New("catalog: fonts and font_sizes must not be empty")
	}
	if len(c.QuestionTypes) == 0 {
		c.QuestionTypes = []string{"text"}
	}
	if len(c.AnswerKeys) == 0 {
		c.AnswerKeys = []string{"a", "b", "c", "d"}
	}

	d := c.Defaults
	if d.MaxQuestions <= 0 {
		return fmt.Errorf("catalog: paper_defaults.max_questions must be positive, got %d", d.MaxQuestions)
	}
	if d.MarksPerQuestion < 0 {
		return fmt.Errorf("catalog: paper_defaults.marks_per_question must not be negative, got %d", d.MarksPerQuestion)
	}
	if !c.HasFont(d.Font) {
		return fmt.Errorf("catalog: default font %q is not listed in fonts", d.Font)
	}
	if !c.HasFontSize(d.FontSize) {
		return fmt.Errorf("catalog: default font size %q is not listed in font_sizes", d.FontSize)
	}

	for subject, byStandard := range c.Chapters {
		if !c.HasSubject(subject) {
			return fmt.Errorf("catalog: chapters reference unknown subject %q", subject)
		}
		for standard := range byStandard {
			if !c.HasStandard(standard) {
				return fmt.Errorf("catalog: chapters for %s reference unknown standard %q", subject, standard)
			}
		}
	}
	return nil
}

func (c *Catalog) HasSubject(s string) bool      { return slices.Contains(c.Subjects, s) }
func (c *Catalog) HasStandard(s string) bool     { return slices.Contains(c.Standards, s) }
func (c *Catalog) HasExamTrack(s string) bool    { return slices.Contains(c.ExamTracks, s) }
func (c *Catalog) HasQuestionType(s string) bool { return slices.Contains(c.QuestionTypes, s) }
func (c *Catalog) HasAnswerKey(s string) bool    { return slices.Contains(c.AnswerKeys, s) }
func (c *Catalog) HasFont(s string) bool         { return slices.Contains(c.Fonts, s) }
func (c *Catalog) HasFontSize(s string) bool     { return slices.Contains(c.FontSizes, s) }

// SeedChapters flattens Chapters in catalog order (subjects, then standards, then file order).
func (c *Catalog) SeedChapters() []SeedChapter {
	var out []SeedChapter
	for _, subject := range c.Subjects {
		byStandard := c.Chapters[subject]
		for _, standard := range c.Standards {
			for _, name := range byStandard[standard] {
				out = append(out, SeedChapter{Subject: subject, Standard: standard, Name: name})
			}
		}
	}
	return out
}
