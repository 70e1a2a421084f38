package patch

import (
	"sort"

	"github.com/go-tagbuf/tagbuf/errs"
	"github.com/go-tagbuf/tagbuf/kind"
	"github.com/go-tagbuf/tagbuf/path"
	"github.com/go-tagbuf/tagbuf/reader"
	"github.com/go-tagbuf/tagbuf/tag"
	"github.com/go-tagbuf/tagbuf/writer"
)

// ApplyUpdates rewrites src into sink with updates applied. It validates
// every path, sorts updates into segment-wise order, then makes a single
// forward pass over src: untouched subtrees are copied verbatim, leaf
// updates replace the source value at their path, and updates whose path
// doesn't exist in src are upserted when their enclosing container closes.
//
// src and sink must not alias each other.
func ApplyUpdates(src []byte, sink writer.Sink, updates []*Update) error {
	for _, u := range updates {
		u.Applied = false
	}
	for _, u := range updates {
		if !path.Validate(u.Path) {
			return errs.ErrMalformedPath
		}
	}

	sort.SliceStable(updates, func(i, j int) bool {
		return path.Compare(updates[i].Path, updates[j].Path) < 0
	})

	for _, u := range updates {
		if len(u.Path) == 0 {
			if len(updates) != 1 {
				return errs.ErrConflictingUpdates
			}

			return applyRootReplacement(src, sink, u)
		}
	}

	r := reader.New(src)
	rootVal, err := r.Read()
	if err != nil {
		return err
	}
	if rootVal.Kind != kind.Object && rootVal.Kind != kind.Array {
		return errs.ErrInvalidRoot
	}

	pend := make([]pendingUpdate, len(updates))
	for i, u := range updates {
		segs, _ := path.Segments(u.Path)
		pend[i] = pendingUpdate{upd: u, segs: segs}
	}

	w := writer.New(sink)

	switch rootVal.Kind {
	case kind.Object:
		if err := w.StartObject(); err != nil {
			return err
		}

		return processObject(r, w, pend, 0)
	default:
		if err := w.StartArray(); err != nil {
			return err
		}

		return processArray(r, w, pend, 0)
	}
}

func applyRootReplacement(src []byte, sink writer.Sink, u *Update) error {
	r := reader.New(src)
	if err := r.Skip(); err != nil {
		return err
	}

	w := writer.New(sink)
	if err := u.WriteFn(w, u.Ctx); err != nil {
		return err
	}
	u.Applied = true

	return nil
}

// atEnd reports whether the cursor is positioned at a ContainerEnd,
// consuming it (and the Reader's matching depth decrement) if so.
func atEnd(r *reader.Reader) (bool, error) {
	if r.Pos() >= len(r.Buf()) {
		return false, errs.ErrUnexpectedEOF
	}
	k, _ := tag.Decode(r.Buf()[r.Pos()])
	if k != kind.ContainerEnd {
		return false, nil
	}
	if _, err := r.Read(); err != nil {
		return false, err
	}

	return true, nil
}

func groupObjectByKey(active []pendingUpdate, depth int) (map[string][]pendingUpdate, error) {
	groups := make(map[string][]pendingUpdate)
	for _, p := range active {
		seg := p.segs[depth]
		if seg.Kind != path.KeySegment {
			return nil, errs.ErrPathTypeMismatch
		}
		k := string(seg.Key)
		groups[k] = append(groups[k], p)
	}

	return groups, nil
}

func groupArrayByIndex(active []pendingUpdate, depth int) (map[uint64][]pendingUpdate, error) {
	groups := make(map[uint64][]pendingUpdate)
	for _, p := range active {
		seg := p.segs[depth]
		if seg.Kind != path.IndexSegment {
			return nil, errs.ErrPathTypeMismatch
		}
		groups[seg.Index] = append(groups[seg.Index], p)
	}

	return groups, nil
}

// orderedObjectKeys returns the distinct keys addressed at depth, in their
// first-occurrence order within active (which is already segment-order
// sorted), so upserted keys are emitted deterministically.
func orderedObjectKeys(active []pendingUpdate, depth int) []string {
	seen := make(map[string]bool, len(active))
	keys := make([]string, 0, len(active))
	for _, p := range active {
		k := string(p.segs[depth].Key)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	return keys
}

// partitionGroup splits updates sharing the same segment at depth into
// leaf updates (path ends here) and child updates (path continues past
// here). Both present is ConflictingUpdates. Multiple leaves are all
// returned; the caller applies only the last (sorted order) but marks
// every one Applied.
func partitionGroup(group []pendingUpdate, depth int) (leaves, child []pendingUpdate, err error) {
	for _, p := range group {
		if len(p.segs) == depth+1 {
			leaves = append(leaves, p)
		} else {
			child = append(child, p)
		}
	}
	if len(leaves) > 0 && len(child) > 0 {
		return nil, nil, errs.ErrConflictingUpdates
	}

	return leaves, child, nil
}

func applyLeaf(w *writer.Writer, leaves []pendingUpdate) error {
	last := leaves[len(leaves)-1]
	if err := last.upd.WriteFn(w, last.upd.Ctx); err != nil {
		return err
	}
	for _, p := range leaves {
		p.upd.Applied = true
	}

	return nil
}

func emitLeafOrChild(w *writer.Writer, leaves, child []pendingUpdate, depth int) error {
	switch {
	case len(leaves) > 0:
		return applyLeaf(w, leaves)
	case len(child) > 0:
		return emitContainerFromUpdates(w, child, depth+1)
	default:
		return w.WriteNull()
	}
}

func recurseIntoValue(r *reader.Reader, w *writer.Writer, val reader.Value, child []pendingUpdate, depth int) error {
	switch val.Kind {
	case kind.Object:
		if err := w.StartObject(); err != nil {
			return err
		}

		return processObject(r, w, child, depth)
	case kind.Array:
		if err := w.StartArray(); err != nil {
			return err
		}

		return processArray(r, w, child, depth)
	case kind.TypedArray:
		return patchTypedArray(w, val, child, depth)
	default:
		return errs.ErrPathTypeMismatch
	}
}

// processObject consumes the body of an object whose open tag has already
// been read, re-emitting it to w with active's updates applied, then
// upserts any update whose key never appeared in the source.
func processObject(r *reader.Reader, w *writer.Writer, active []pendingUpdate, depth int) error {
	groups, err := groupObjectByKey(active, depth)
	if err != nil {
		return err
	}
	consumed := make(map[string]bool, len(groups))

	for {
		done, err := atEnd(r)
		if err != nil {
			return err
		}
		if done {
			break
		}

		keyStart := r.Pos()
		keyVal, err := r.Read()
		if err != nil {
			return err
		}
		keyEnd := r.Pos()
		k := string(keyVal.Bytes)
		consumed[k] = true

		leaves, child, err := partitionGroup(groups[k], depth)
		if err != nil {
			return err
		}
		// Only the first occurrence of a duplicate key is matched; drop
		// the group so later occurrences fall through to a verbatim copy.
		delete(groups, k)

		if err := w.WriteRaw(r.Buf()[keyStart:keyEnd]); err != nil {
			return err
		}

		switch {
		case len(leaves) > 0:
			if err := r.Skip(); err != nil {
				return err
			}
			if err := applyLeaf(w, leaves); err != nil {
				return err
			}
		case len(child) > 0:
			val, err := r.Read()
			if err != nil {
				return err
			}
			if err := recurseIntoValue(r, w, val, child, depth+1); err != nil {
				return err
			}
		default:
			valStart := r.Pos()
			if err := r.Skip(); err != nil {
				return err
			}
			if err := w.WriteRaw(r.Buf()[valStart:r.Pos()]); err != nil {
				return err
			}
		}
	}

	for _, k := range orderedObjectKeys(active, depth) {
		if consumed[k] {
			continue
		}

		leaves, child, err := partitionGroup(groups[k], depth)
		if err != nil {
			return err
		}
		if err := w.WriteStringAny(k); err != nil {
			return err
		}
		if err := emitLeafOrChild(w, leaves, child, depth); err != nil {
			return err
		}
	}

	return w.EndContainer()
}

// processArray consumes the body of an array whose open tag has already
// been read, re-emitting it with active's updates applied, then fills any
// gap between the source's length and the highest upserted index with
// null, emitting upserted values at their index.
func processArray(r *reader.Reader, w *writer.Writer, active []pendingUpdate, depth int) error {
	groups, err := groupArrayByIndex(active, depth)
	if err != nil {
		return err
	}
	consumed := make(map[uint64]bool, len(groups))
	idx := uint64(0)

	for {
		done, err := atEnd(r)
		if err != nil {
			return err
		}
		if done {
			break
		}

		consumed[idx] = true
		leaves, child, err := partitionGroup(groups[idx], depth)
		if err != nil {
			return err
		}

		switch {
		case len(leaves) > 0:
			if err := r.Skip(); err != nil {
				return err
			}
			if err := applyLeaf(w, leaves); err != nil {
				return err
			}
		case len(child) > 0:
			val, err := r.Read()
			if err != nil {
				return err
			}
			if err := recurseIntoValue(r, w, val, child, depth+1); err != nil {
				return err
			}
		default:
			valStart := r.Pos()
			if err := r.Skip(); err != nil {
				return err
			}
			if err := w.WriteRaw(r.Buf()[valStart:r.Pos()]); err != nil {
				return err
			}
		}

		idx++
	}

	var maxIdx uint64
	hasUnconsumed := false
	for i := range groups {
		if consumed[i] {
			continue
		}
		hasUnconsumed = true
		if i > maxIdx {
			maxIdx = i
		}
	}

	if hasUnconsumed {
		for i := idx; i <= maxIdx; i++ {
			leaves, child, err := partitionGroup(groups[i], depth)
			if err != nil {
				return err
			}
			if err := emitLeafOrChild(w, leaves, child, depth); err != nil {
				return err
			}
		}
	}

	return w.EndContainer()
}

// emitContainerFromUpdates emits a whole container built purely from
// upserted updates (the source has nothing at this path). It infers
// object vs array from the first update's segment kind at depth, per the
// upsert rule.
func emitContainerFromUpdates(w *writer.Writer, updates []pendingUpdate, depth int) error {
	if len(updates) == 0 {
		return w.WriteNull()
	}

	if updates[0].segs[depth].Kind == path.IndexSegment {
		if err := w.StartArray(); err != nil {
			return err
		}

		return emitArrayFromUpdates(w, updates, depth)
	}

	if err := w.StartObject(); err != nil {
		return err
	}

	return emitObjectFromUpdates(w, updates, depth)
}

func emitObjectFromUpdates(w *writer.Writer, updates []pendingUpdate, depth int) error {
	groups, err := groupObjectByKey(updates, depth)
	if err != nil {
		return err
	}

	for _, k := range orderedObjectKeys(updates, depth) {
		leaves, child, err := partitionGroup(groups[k], depth)
		if err != nil {
			return err
		}
		if err := w.WriteStringAny(k); err != nil {
			return err
		}
		if err := emitLeafOrChild(w, leaves, child, depth); err != nil {
			return err
		}
	}

	return w.EndContainer()
}

func emitArrayFromUpdates(w *writer.Writer, updates []pendingUpdate, depth int) error {
	groups, err := groupArrayByIndex(updates, depth)
	if err != nil {
		return err
	}

	var maxIdx uint64
	for idx := range groups {
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	for i := uint64(0); i <= maxIdx; i++ {
		leaves, child, err := partitionGroup(groups[i], depth)
		if err != nil {
			return err
		}
		if err := emitLeafOrChild(w, leaves, child, depth); err != nil {
			return err
		}
	}

	return w.EndContainer()
}
