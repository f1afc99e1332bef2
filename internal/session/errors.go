package session

import "errors"

// ErrBusy is returned when a state-transitioning operation (login, register,
// logout) is attempted while another one is still in flight.
var ErrBusy = errors.New("another authentication operation is in progress")

// ValidationError reports a local, pre-network input problem. It never
// touches the network and never mutates session state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is a local input validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
