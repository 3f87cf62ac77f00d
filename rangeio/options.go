package rangeio

import (
	"github.com/michaelkirk/geomedea/format"
	"github.com/michaelkirk/geomedea/internal/options"
)

type config struct {
	coalesceGap uint64
}

func defaultConfig() *config {
	return &config{coalesceGap: format.CoalesceGap}
}

// Option configures an HTTPReader at Open time.
type Option = options.Option[*config]

// WithCoalesceGap overrides the maximum gap, in bytes, the planner will
// bridge with a single request rather than issue a second one for.
// Defaults to format.CoalesceGap.
func WithCoalesceGap(bytes uint64) Option {
	return options.NoError(func(c *config) {
		c.coalesceGap = bytes
	})
}
