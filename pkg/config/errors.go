package config

import "errors"

var (
	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("config: nil pointer passed to Load")
	// ErrParsingConfig wraps errors from parsing environment variables.
	ErrParsingConfig = errors.New("config: failed to parse environment variables")
	// ErrConfigNotLoaded indicates the cached value vanished between parse and read.
	ErrConfigNotLoaded = errors.New("config: configuration was not loaded")
	// ErrLoadingEnvFile wraps errors from reading .env files.
	ErrLoadingEnvFile = errors.New("config: failed to load env file")
)
