package apierrors

import "fmt"

// Issue is one field-level problem reported by a ValidationError.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the error type every component boundary returns. Component
// code should construct one of these via the New* helpers rather than
// fmt.Errorf, so the httpapi and mcpapi layers can map Kind to a response
// shape without string matching.
type APIError struct {
	Kind    Kind
	Code    Code
	Message string
	Issues  []Issue // populated only for KindValidation
	Details string  // raw underlying error text, for KindSearchError
	cause   error
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

// NewValidationError builds a 400-class error carrying one or more issues.
func NewValidationError(code Code, message string, issues ...Issue) *APIError {
	return &APIError{Kind: KindValidation, Code: code, Message: message, Issues: issues}
}

// NewNotFoundError builds a 404-class error for a missing engineer or job id.
func NewNotFoundError(code Code, message string) *APIError {
	return &APIError{Kind: KindNotFound, Code: code, Message: message}
}

// NewSearchError wraps an underlying graph-driver failure as a 500-class
// error. The session must still be released by the caller before this
// propagates.
func NewSearchError(cause error) *APIError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &APIError{
		Kind:    KindSearchError,
		Code:    CodeSearchError,
		Message: "graph query failed",
		Details: details,
		cause:   cause,
	}
}

// NewInferenceWarning builds a non-fatal warning folded into queryMetadata
// rather than returned as an HTTP error.
func NewInferenceWarning(message string) *APIError {
	return &APIError{Kind: KindInferenceWarning, Code: CodeInferenceWarning, Message: message}
}

// NewAdvisorDegraded builds a non-fatal warning attached to Advice.Degraded.
func NewAdvisorDegraded(message string) *APIError {
	return &APIError{Kind: KindAdvisorDegraded, Code: CodeAdvisorDegraded, Message: message}
}

// IsNotFound reports whether err is an APIError of KindNotFound.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Kind == KindNotFound
}

// IsValidation reports whether err is an APIError of KindValidation.
func IsValidation(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Kind == KindValidation
}
