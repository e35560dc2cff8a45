package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrInvalidColor indicates a theme color string that does not parse.
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidSetting indicates a setting value outside its allowed range.
	ErrInvalidSetting = errors.New("invalid setting")
)
