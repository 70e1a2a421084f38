package reader

import (
	"bytes"

	"github.com/go-tagbuf/tagbuf/errs"
	"github.com/go-tagbuf/tagbuf/kind"
	"github.com/go-tagbuf/tagbuf/path"
)

// ReadPath resolves a single path against the value at the Reader's current
// position and returns it without mutating the Reader's cursor.
func (r *Reader) ReadPath(p []byte) (Value, bool, error) {
	segs, ok := path.Segments(p)
	if !ok {
		return Value{}, false, errs.ErrMalformedPath
	}

	snap := r.snapshot()
	defer r.restore(snap)

	root, err := r.Read()
	if err != nil {
		return Value{}, false, err
	}

	return r.descend(root, segs)
}

func (r *Reader) descend(v Value, segs []path.Segment) (Value, bool, error) {
	if len(segs) == 0 {
		return v, true, nil
	}

	seg := segs[0]
	switch {
	case v.Kind == kind.Object && seg.Kind == path.KeySegment:
		for {
			key, val, more, err := r.NextObjectEntry()
			if err != nil {
				return Value{}, false, err
			}
			if !more {
				return Value{}, false, nil
			}
			if bytes.Equal(key, seg.Key) {
				return r.descend(val, segs[1:])
			}
			if (val.Kind == kind.Object || val.Kind == kind.Array) {
				if err := r.skipOpen(); err != nil {
					return Value{}, false, err
				}
			}
		}
	case v.Kind == kind.Array && seg.Kind == path.IndexSegment:
		idx := uint64(0)
		for {
			val, more, err := r.NextArrayElement()
			if err != nil {
				return Value{}, false, err
			}
			if !more {
				return Value{}, false, nil
			}
			if idx == seg.Index {
				return r.descend(val, segs[1:])
			}
			if val.Kind == kind.Object || val.Kind == kind.Array {
				if err := r.skipOpen(); err != nil {
					return Value{}, false, err
				}
			}
			idx++
		}
	default:
		return Value{}, false, nil
	}
}

// PathQuery is one entry of a ReadPaths batch. Value and Found are filled
// in by ReadPaths; the original slice order and index are preserved.
type PathQuery struct {
	Path  []byte
	Value Value
	Found bool
}

// ReadPaths resolves every query in a single forward pass over the value at
// the Reader's current position, preserving each query's original index
// and restoring cursor state on return.
func (r *Reader) ReadPaths(queries []PathQuery) error {
	pending := make([]pendingQuery, 0, len(queries))
	for i := range queries {
		segs, ok := path.Segments(queries[i].Path)
		if !ok {
			return errs.ErrMalformedPath
		}
		pending = append(pending, pendingQuery{idx: i, segs: segs})
	}

	snap := r.snapshot()
	defer r.restore(snap)

	root, err := r.Read()
	if err != nil {
		return err
	}

	_, err = r.descendMulti(root, pending, queries)

	return err
}

type pendingQuery struct {
	idx  int
	segs []path.Segment
}

// descendMulti resolves pending queries rooted at v. It returns whether the
// cursor has already been advanced past v's own ContainerEnd (when v is a
// container); callers that recursed into a matched child use this to decide
// whether the child's unconsumed remainder still needs to be skipped.
func (r *Reader) descendMulti(v Value, pending []pendingQuery, out []PathQuery) (bool, error) {
	if len(pending) == 0 {
		return false, nil
	}

	var leaves []pendingQuery
	keyGroups := make(map[string][]pendingQuery)
	idxGroups := make(map[uint64][]pendingQuery)

	for _, pq := range pending {
		if len(pq.segs) == 0 {
			leaves = append(leaves, pq)
			continue
		}
		seg := pq.segs[0]
		if seg.Kind == path.KeySegment {
			k := string(seg.Key)
			keyGroups[k] = append(keyGroups[k], pendingQuery{idx: pq.idx, segs: pq.segs[1:]})
		} else {
			idxGroups[seg.Index] = append(idxGroups[seg.Index], pendingQuery{idx: pq.idx, segs: pq.segs[1:]})
		}
	}

	for _, pq := range leaves {
		out[pq.idx].Value = v
		out[pq.idx].Found = true
	}

	switch v.Kind {
	case kind.Object:
		for len(keyGroups) > 0 {
			key, val, more, err := r.NextObjectEntry()
			if err != nil {
				return false, err
			}
			if !more {
				return true, nil
			}
			if group, ok := keyGroups[string(key)]; ok {
				closed, err := r.descendMulti(val, group, out)
				if err != nil {
					return false, err
				}
				if !closed && (val.Kind == kind.Object || val.Kind == kind.Array) {
					if err := r.skipOpen(); err != nil {
						return false, err
					}
				}
				delete(keyGroups, string(key))
				continue
			}
			if val.Kind == kind.Object || val.Kind == kind.Array {
				if err := r.skipOpen(); err != nil {
					return false, err
				}
			}
		}
	case kind.Array:
		idx := uint64(0)
		for len(idxGroups) > 0 {
			val, more, err := r.NextArrayElement()
			if err != nil {
				return false, err
			}
			if !more {
				return true, nil
			}
			if group, ok := idxGroups[idx]; ok {
				closed, err := r.descendMulti(val, group, out)
				if err != nil {
					return false, err
				}
				if !closed && (val.Kind == kind.Object || val.Kind == kind.Array) {
					if err := r.skipOpen(); err != nil {
						return false, err
					}
				}
				delete(idxGroups, idx)
			} else if val.Kind == kind.Object || val.Kind == kind.Array {
				if err := r.skipOpen(); err != nil {
					return false, err
				}
			}
			idx++
		}
	default:
		// v is a scalar but there are unresolved key/index groups under
		// it: none of them can match, leave Found=false for all.
	}

	return false, nil
}
