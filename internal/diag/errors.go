package diag

import "errors"

// WarningCarryingError reports a failure that should surface as a warning at
// the document boundary, e.g. a file that could not be parsed.
type WarningCarryingError struct {
	Warning Warning
	cause   error
}

// NewWarningCarryingError wraps w (and an optional cause) into an error.
func NewWarningCarryingError(w Warning, cause error) *WarningCarryingError {
	return &WarningCarryingError{Warning: w, cause: cause}
}

func (e *WarningCarryingError) Error() string {
	if e.cause != nil {
		return e.Warning.Message + ": " + e.cause.Error()
	}
	return e.Warning.Message
}

func (e *WarningCarryingError) Unwrap() error { return e.cause }

// AsWarning extracts the carried warning from err, if any.
func AsWarning(err error) (Warning, bool) {
	var carrier *WarningCarryingError
	if errors.As(err, &carrier) {
		return carrier.Warning, true
	}
	return Warning{}, false
}
