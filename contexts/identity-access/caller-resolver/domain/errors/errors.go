package errors

import "errors"

var (
	ErrUnauthenticated = errors.New("caller credential missing or unknown")
)
