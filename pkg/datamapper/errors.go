package datamapper

import "errors"

// DecodeError reports a payload that could not be read as an InputRecord at all.
type DecodeError struct {
	reason error
}

func NewDecodeError(reason error) DecodeError {
	return DecodeError{reason: reason}
}

func (e DecodeError) Error() string {
	return e.reason.Error()
}

func (e DecodeError) Unwrap() error {
	return e.reason
}

func IsDecodeError(err error) bool {
	var de DecodeError
	return errors.As(err, &de)
}
