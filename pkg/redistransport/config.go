package redistransport

import "time"

type Config struct {
	Channel        string        `env:"PUSH_REDIS_CHANNEL" envDefault:"notifications:push"` // Channel is the pub/sub channel carrying push payloads.
	ConnectTimeout time.Duration `env:"PUSH_REDIS_CONNECT_TIMEOUT" envDefault:"10s"`        // ConnectTimeout bounds the initial ping. It should be in the format "10s" for 10 seconds.
}
