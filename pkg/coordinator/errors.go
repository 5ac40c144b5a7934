package coordinator

import "errors"

var (
	ErrNilClient     = errors.New("coordinator: client is required")
	ErrNilConnection = errors.New("coordinator: connection is required")
)
