package proposal

// ValidationError reports a request that cannot be sent to the provider.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
