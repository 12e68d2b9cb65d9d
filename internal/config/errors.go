package config

import (
	"errors"
)

// Sentinel error kinds for configuration loading and validation.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
