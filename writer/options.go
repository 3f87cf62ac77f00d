package writer

import (
	"fmt"

	"github.com/michaelkirk/geomedea/format"
	"github.com/michaelkirk/geomedea/internal/options"
)

// config holds a Writer's tunables. Defaults are the reference values from
// the format's own constants, so a caller that supplies no Option at all
// gets the same page budget and branching factor a conforming reader
// expects.
type config struct {
	compression         format.CompressionKind
	pageBudget          int
	rejectOversizePages bool
}

func defaultConfig() *config {
	return &config{
		compression: format.CompressionZstd,
		pageBudget:  format.PageBudget,
	}
}

// Option configures a Writer at construction time.
type Option = options.Option[*config]

// WithCompression selects the page compression kind. Defaults to
// format.CompressionZstd.
func WithCompression(kind format.CompressionKind) Option {
	return options.New(func(c *config) error {
		if !kind.Valid() {
			return fmt.Errorf("writer: unknown compression kind %d", kind)
		}
		c.compression = kind
		return nil
	})
}

// WithPageBudget overrides the target uncompressed page size in bytes.
// Defaults to format.PageBudget.
func WithPageBudget(bytes int) Option {
	return options.New(func(c *config) error {
		if bytes <= 0 {
			return fmt.Errorf("writer: page budget must be positive, got %d", bytes)
		}
		c.pageBudget = bytes
		return nil
	})
}

// WithRejectOversizePages makes AddFeature return errs.ErrPageOverflow for a
// feature that alone exceeds the page budget, instead of giving it a
// dedicated page. Off by default, matching the reference policy that an
// oversize feature always gets its own page.
func WithRejectOversizePages(reject bool) Option {
	return options.NoError(func(c *config) {
		c.rejectOversizePages = reject
	})
}
