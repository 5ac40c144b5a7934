package redistransport

import "errors"

var (
	ErrFailedToParseEndpoint = errors.New("failed to parse redis endpoint URL")
	ErrRedisNotReady         = errors.New("redis did not respond to ping")
	ErrChannelRequired       = errors.New("pub/sub channel is required")
	ErrSubscriptionClosed    = errors.New("pub/sub subscription closed")
)
