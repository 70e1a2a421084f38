package reader

import "github.com/go-tagbuf/tagbuf/internal/options"

// config holds the compiled-in limits for a Reader. Zero means "disabled".
// The per-depth counter stack is allocated only when maxArrayLength or
// maxObjectSize is set; with both disabled, each container entry costs one
// boolean test instead of a counter update and compare.
type config struct {
	maxDepth        int
	maxBytesLength  int
	maxArrayLength  int
	maxObjectSize   int
}

// Option configures a Reader at construction time.
type Option = options.Option[*config]

// WithMaxDepth rejects values nested deeper than n with errs.ErrMaxDepthExceeded.
func WithMaxDepth(n int) Option {
	return options.NoError(func(c *config) { c.maxDepth = n })
}

// WithMaxBytesLength rejects any byte payload longer than n with errs.ErrBytesTooLong.
func WithMaxBytesLength(n int) Option {
	return options.NoError(func(c *config) { c.maxBytesLength = n })
}

// WithMaxArrayLength rejects arrays with more than n elements with errs.ErrArrayTooLarge.
func WithMaxArrayLength(n int) Option {
	return options.NoError(func(c *config) { c.maxArrayLength = n })
}

// WithMaxObjectSize rejects objects with more than n key/value pairs with errs.ErrObjectTooLarge.
func WithMaxObjectSize(n int) Option {
	return options.NoError(func(c *config) { c.maxObjectSize = n })
}
