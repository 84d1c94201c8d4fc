package workflow

// ValidationError reports a missing or out-of-range field that blocks a
// stage transition. The session stays in its current stage.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missingField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
