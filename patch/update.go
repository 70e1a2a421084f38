// Package patch implements apply_updates, the single-pass patch engine that
// applies a batch of path-addressed updates against an existing tagbuf
// buffer: leaf replacement, object/array upsert at container close, and
// in-place typed-array element patching. Subtrees untouched by any update
// are copied byte-for-byte from the source.
package patch

import (
	"github.com/go-tagbuf/tagbuf/path"
	"github.com/go-tagbuf/tagbuf/writer"
)

// Update is a single path-addressed patch. WriteFn emits the replacement
// value to w; Ctx is opaque to the engine and passed back to WriteFn
// unchanged. After ApplyUpdates returns, Applied reports whether this
// update's path resolved within the buffer.
type Update struct {
	Path    []byte
	Ctx     any
	WriteFn func(w *writer.Writer, ctx any) error
	Applied bool
}

// NewUpdate builds an Update whose WriteFn dispatches v through WriteAny,
// the canonical-kind encoding write_any uses.
func NewUpdate(p []byte, v any) *Update {
	return &Update{
		Path: p,
		Ctx:  v,
		WriteFn: func(w *writer.Writer, ctx any) error {
			return WriteAny(w, ctx)
		},
	}
}

// pendingUpdate pairs an Update with its parsed path segments, computed
// once up front so traversal never re-parses a path.
type pendingUpdate struct {
	upd  *Update
	segs []path.Segment
}
