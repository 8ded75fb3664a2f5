package apierror

// Error represents a structured API error. The dispatch endpoint answers
// every outcome with HTTP 200, so errors carry a machine code for logs and
// tests plus the human-readable message that ends up in the envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// NotFound reports a missing table or record.
func NotFound(message string) *Error {
	if message == "" {
		message = "resource not found"
	}
	return &Error{
		Code:    "NOT_FOUND",
		Message: message,
	}
}

// InvalidInput reports a malformed or missing required parameter.
func InvalidInput(message string) *Error {
	return &Error{
		Code:    "INVALID_INPUT",
		Message: message,
	}
}

// UnknownAction reports an action name the dispatcher does not recognize.
func UnknownAction(action string) *Error {
	return &Error{
		Code:    "UNKNOWN_ACTION",
		Message: "unknown action: " + action,
	}
}

// Internal reports an unexpected failure.
func Internal(message string) *Error {
	if message == "" {
		message = "an unexpected error occurred"
	}
	return &Error{
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
}

// CodeOf extracts the machine code from an error, defaulting to
// INTERNAL_ERROR for plain errors.
func CodeOf(err error) string {
	if apiErr, ok := err.(*Error); ok {
		return apiErr.Code
	}
	return "INTERNAL_ERROR"
}
