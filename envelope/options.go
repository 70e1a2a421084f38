package envelope

import (
	"github.com/go-tagbuf/tagbuf/format"
	"github.com/go-tagbuf/tagbuf/internal/options"
)

type config struct {
	compression format.CompressionType
	checksum    bool
}

// Option configures Wrap.
type Option = options.Option[*config]

// WithCompression selects the algorithm Wrap uses to compress the payload.
// The default, if this option is omitted, is format.CompressionNone.
func WithCompression(kind format.CompressionType) Option {
	return options.NoError(func(c *config) { c.compression = kind })
}

// WithChecksum enables or disables the xxhash64 integrity checksum. It
// defaults to enabled; pass false to skip hashing large payloads that
// already carry their own integrity check downstream.
func WithChecksum(enabled bool) Option {
	return options.NoError(func(c *config) { c.checksum = enabled })
}

func defaultConfig() *config {
	return &config{
		compression: format.CompressionNone,
		checksum:    true,
	}
}
