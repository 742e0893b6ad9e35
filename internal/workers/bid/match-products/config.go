// internal/workers/bid/match-products/config.go
package matchproducts

import "time"

type Config struct {
	Timeout    time.Duration
	TopMatches int
}

func (c *Config) topMatches() int {
	if c == nil || c.TopMatches <= 0 {
		return 3
	}
	return c.TopMatches
}
