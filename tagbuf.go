// Package tagbuf provides a compact, schemaless, self-describing binary
// encoding for JSON-like documents.
//
// # Core Features
//
//   - A single tag byte (5-bit kind + 3-bit inline data) fronts every value
//   - Small integers, bytes and containers inline their payload in the tag
//   - A zero-copy, zero-allocation streaming Reader with configurable limits
//   - A JS-property-style path grammar for single and batch value lookup
//   - A single-pass patch engine that rewrites a buffer without a full decode
//   - An optional envelope layer adding compression and an integrity checksum
//
// # Basic Usage
//
// Encoding a document:
//
//	import "github.com/go-tagbuf/tagbuf"
//
//	var buf bytes.Buffer
//	w := writer.New(&buf)
//	w.StartObject()
//	w.WriteSmallBytes([]byte("name"))
//	w.WriteBytesAny([]byte("gopher"))
//	w.EndContainer()
//
// Reading it back:
//
//	r := reader.New(buf.Bytes())
//	v, found, err := r.ReadPath([]byte("name"))
//
// Printing it as JSON, or wrapping it for disk/wire transfer with
// compression and a checksum, uses the top-level helpers this package
// exposes below. For advanced usage and fine-grained control over limits,
// compression, or patch semantics, use the reader/writer/envelope/patch
// packages directly.
package tagbuf

import (
	"bytes"

	"github.com/go-tagbuf/tagbuf/envelope"
	"github.com/go-tagbuf/tagbuf/jsonpp"
	"github.com/go-tagbuf/tagbuf/patch"
	"github.com/go-tagbuf/tagbuf/reader"
	"github.com/go-tagbuf/tagbuf/writer"
)

// ToJSON renders the single value at the start of buf as JSON text.
func ToJSON(buf []byte) ([]byte, error) {
	r := reader.New(buf)

	var out bytes.Buffer
	if err := jsonpp.Write(&out, r); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// Wrap frames buf, a complete tagbuf-encoded document, behind an envelope
// header for disk or wire transfer. opts configure compression and the
// integrity checksum; see the envelope package for details.
func Wrap(buf []byte, opts ...envelope.Option) ([]byte, error) {
	return envelope.Wrap(buf, opts...)
}

// Unwrap reverses Wrap, returning the original tagbuf-encoded document.
func Unwrap(buf []byte) ([]byte, error) {
	return envelope.Unwrap(buf)
}

// Patch applies updates to src and returns the rewritten document. It is a
// convenience wrapper around patch.ApplyUpdates for callers who don't need
// to stream the result to their own Sink.
func Patch(src []byte, updates []*patch.Update) ([]byte, error) {
	var buf bytes.Buffer
	if err := patch.ApplyUpdates(src, &buf, updates); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// NewWriter constructs a Writer that appends to sink. It is a convenience
// re-export of writer.New for callers who only import the root package.
func NewWriter(sink writer.Sink) *writer.Writer {
	return writer.New(sink)
}

// NewReader constructs a Reader over buf with the given limit options. It is
// a convenience re-export of reader.New for callers who only import the
// root package.
func NewReader(buf []byte, opts ...reader.Option) *reader.Reader {
	return reader.New(buf, opts...)
}
