// internal/workers/bid/price-items/config.go
package priceitems

import "time"

type Config struct {
	Timeout time.Duration
}
