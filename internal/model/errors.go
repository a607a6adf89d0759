package model

import "errors"

// Backend transport errors. Services map these to API errors.
var (
	ErrBackendTimeout     = errors.New("backend timeout")
	ErrBackendUnavailable = errors.New("backend unavailable")
)
