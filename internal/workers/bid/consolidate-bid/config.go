// internal/workers/bid/consolidate-bid/config.go
package consolidatebid

import "time"

type Config struct {
	Timeout time.Duration
}

func (c *Config) timeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return 60 * time.Second
	}
	return c.Timeout
}
