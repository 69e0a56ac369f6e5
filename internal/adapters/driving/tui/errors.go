package tui

import "errors"

// ErrMissingAnswerer is returned when the answer service is not provided.
var ErrMissingAnswerer = errors.New("tui: answer service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
