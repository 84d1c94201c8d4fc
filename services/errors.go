package services

// ServiceError is a non-success response from an external quote, shipping
// rate or checkout call. Where the server supplied a message, it is surfaced
// verbatim; otherwise the caller falls back to a generic one.
type ServiceError struct {
	Service string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Service + " request failed"
}

// NewServiceError builds a ServiceError, tolerating an empty server message.
func NewServiceError(service, message string) *ServiceError {
	return &ServiceError{Service: service, Message: message}
}
