// Package envelope wraps a complete encoded tagbuf document with a small
// fixed header naming its compression algorithm and carrying an integrity
// checksum, so a buffer can be handed to disk or a wire without the reader
// having to guess how it was produced.
//
// tagbuf's core Reader never sees this header: it always expects a tag
// byte at position zero. Wrap/Unwrap sit at the boundary, the same way the
// teacher library's section package frames a columnar payload before any
// core bytes appear.
package envelope

import (
	"fmt"

	"github.com/go-tagbuf/tagbuf/compress"
	"github.com/go-tagbuf/tagbuf/errs"
	"github.com/go-tagbuf/tagbuf/format"
	"github.com/go-tagbuf/tagbuf/internal/hash"
	"github.com/go-tagbuf/tagbuf/internal/options"
	"github.com/go-tagbuf/tagbuf/internal/pool"
)

// Wrap compresses (if requested) and frames core, a complete tagbuf-encoded
// buffer, behind a fixed header. The returned slice is freshly allocated
// and owned by the caller.
func Wrap(core []byte, opts ...Option) ([]byte, error) {
	cfg := defaultConfig()
	_ = options.Apply(cfg, opts...)

	h := header{rawLen: uint64(len(core))}

	payload := core
	if cfg.compression != format.CompressionNone {
		codec, err := compress.GetCodec(cfg.compression)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrUnsupportedCompression, err)
		}

		compressed, err := codec.Compress(core)
		if err != nil {
			return nil, err
		}

		payload = compressed
		h.flags |= flagCompressed
		h.compression = cfg.compression
	}

	if cfg.checksum {
		h.checksum = hash.Checksum64(core)
		h.flags |= flagChecksumed
	}

	buf := pool.GetEnvelopeBuffer()
	defer pool.PutEnvelopeBuffer(buf)

	buf.MustWrite(h.bytes())
	buf.MustWrite(payload)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// Unwrap validates buf's header, decompresses the payload if flagged, and
// returns the original core bytes a Reader can consume unmodified.
func Unwrap(buf []byte) ([]byte, error) {
	h, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}

	payload := buf[HeaderSize:]

	core := payload
	if h.compressed() {
		codec, err := compress.GetCodec(h.compression)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrUnsupportedCompression, err)
		}

		decompressed, err := codec.Decompress(payload)
		if err != nil {
			return nil, err
		}

		core = decompressed
	}

	if uint64(len(core)) != h.rawLen {
		return nil, errs.ErrChecksumMismatch
	}

	if h.checksummed() {
		if hash.Checksum64(core) != h.checksum {
			return nil, errs.ErrChecksumMismatch
		}
	}

	return core, nil
}
