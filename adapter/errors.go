package adapter

import "errors"

var (
	// ErrNotInitialized is returned by operations called before Initialize.
	ErrNotInitialized = errors.New("storage not initialized")

	// ErrNotImplemented is returned by every operation of an unimplemented backend.
	ErrNotImplemented = errors.New("backend not implemented")

	// ErrUnsupportedBackend is returned by New for an unknown backend type.
	ErrUnsupportedBackend = errors.New("unsupported backend type")
)
