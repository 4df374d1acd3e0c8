package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation   ErrCode = "VALIDATION_ERROR"
	ErrInvalidID    ErrCode = "INVALID_ID"
	ErrInvalidQuery ErrCode = "INVALID_QUERY"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrQuestionNotFound ErrCode = "QUESTION_NOT_FOUND"

	// ─── Paper ─────────────────────────────────────────────────────────
	ErrPaperSessionNotFound ErrCode = "PAPER_SESSION_NOT_FOUND"
	ErrSelectionLimit       ErrCode = "SELECTION_LIMIT_REACHED"
	ErrRenderFailed         ErrCode = "RENDER_FAILED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal           ErrCode = "INTERNAL_ERROR"
	ErrServiceUnavailable ErrCode = "SERVICE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidQuery:
		return "Invalid query parameters."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrQuestionNotFound:
		return "Question not found."

	// ─── Paper ─────────────────────────────────────────────────────────
	case ErrPaperSessionNotFound:
		return "Paper session not found or expired."
	case ErrSelectionLimit:
		return "The maximum number of questions is already selected."
	case ErrRenderFailed:
		return "The paper could not be rendered."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "No file uploaded."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File exceeds the size limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	case ErrServiceUnavailable:
		return "A backing service is unavailable."
	default:
		return "An unexpected error occurred."
	}
}
