// internal/workers/bid/parse-requirements/config.go
package parserequirements

import "time"

type Config struct {
	Timeout time.Duration
}
