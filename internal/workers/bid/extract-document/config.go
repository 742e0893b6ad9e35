// internal/workers/bid/extract-document/config.go
package extractdocument

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
