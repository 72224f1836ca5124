package core

import "errors"

var (
	ErrBadArguments       = errors.New("arguments are not acceptable")
	ErrNotFound           = errors.New("resource is not found")
	ErrServiceUnavailable = errors.New("service is currently unavailable")
)
