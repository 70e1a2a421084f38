// Package reader implements the tagbuf streaming Reader: a forward cursor
// over a byte slice that reads or skips one value at a time, iterates
// containers, and resolves path queries in a single pass. The Reader never
// allocates on its hot path; every byte-slice payload it yields is a
// zero-copy view into the caller's buffer.
package reader

import (
	"math"

	"github.com/go-tagbuf/tagbuf/errs"
	"github.com/go-tagbuf/tagbuf/internal/options"
	"github.com/go-tagbuf/tagbuf/kind"
	"github.com/go-tagbuf/tagbuf/tag"
)

// Reader is a cursor (buffer, pos, depth) plus an optional per-depth
// iteration-count stack. Its limits are fixed at construction.
//
// Reader is NOT thread-safe; use one instance from a single goroutine at a
// time. Reader is NOT reusable across independently-addressed buffers — use
// Reset to rebind it to a new buffer instead of constructing a fresh one if
// you want to reuse the counter-stack allocation.
type Reader struct {
	buf   []byte
	pos   int
	depth int

	cfg             config
	countersEnabled bool
	counters        []int
}

// New constructs a Reader over buf with the given limit options. With no
// options, all limits are disabled and the Reader carries no counter stack.
func New(buf []byte, opts ...Option) *Reader {
	r := &Reader{buf: buf}
	_ = options.Apply(&r.cfg, opts...)
	r.countersEnabled = r.cfg.maxArrayLength > 0 || r.cfg.maxObjectSize > 0

	return r
}

// Reset rebinds r to a new buffer and clears cursor state, keeping the
// configured limits and reusing the counter-stack allocation.
func (r *Reader) Reset(buf []byte) {
	r.buf = buf
	r.pos = 0
	r.depth = 0
	r.counters = r.counters[:0]
}

// Pos returns the current byte offset of the cursor.
func (r *Reader) Pos() int { return r.pos }

// Depth returns the current container nesting depth.
func (r *Reader) Depth() int { return r.depth }

// Buf returns the Reader's source buffer.
func (r *Reader) Buf() []byte { return r.buf }

// snapshot captures cursor state for save/restore around a non-mutating
// path query.
type snapshot struct {
	pos      int
	depth    int
	counters []int
}

func (r *Reader) snapshot() snapshot {
	return snapshot{pos: r.pos, depth: r.depth, counters: append([]int(nil), r.counters...)}
}

func (r *Reader) restore(s snapshot) {
	r.pos = s.pos
	r.depth = s.depth
	r.counters = s.counters
}

// Read advances the cursor past one value and returns its decoded kind and
// payload. For Object/Array it consumes only the open tag; the caller must
// iterate (NextObjectEntry/NextArrayElement) or Skip to its ContainerEnd.
func (r *Reader) Read() (Value, error) {
	if r.pos >= len(r.buf) {
		return Value{}, errs.ErrUnexpectedEOF
	}

	tagByte := r.buf[r.pos]
	k, data := tag.Decode(tagByte)
	if !k.Valid() {
		return Value{}, errs.ErrInvalidTag
	}
	r.pos++

	switch k {
	case kind.Object, kind.Array:
		return r.openContainer(k)
	case kind.ContainerEnd:
		return r.closeContainer()
	case kind.Null:
		return Value{Kind: kind.Null}, nil
	case kind.Bool:
		return Value{Kind: kind.Bool, Bool: data&0x1 != 0}, nil
	case kind.Uint8:
		return r.readFixedUint(k, 1)
	case kind.Uint16:
		return r.readFixedUint(k, 2)
	case kind.Uint32:
		return r.readFixedUint(k, 4)
	case kind.Uint64:
		return r.readFixedUint(k, 8)
	case kind.Int8:
		return r.readFixedInt(k, 1)
	case kind.Int16:
		return r.readFixedInt(k, 2)
	case kind.Int32:
		return r.readFixedInt(k, 4)
	case kind.Int64:
		return r.readFixedInt(k, 8)
	case kind.Float16:
		return r.readFloat16()
	case kind.Float32:
		return r.readFloat32()
	case kind.Float64:
		return r.readFloat64()
	case kind.SmallUint:
		return Value{Kind: k, U64: uint64(data)}, nil
	case kind.SmallIntPositive:
		if data == 0 {
			return Value{}, errs.ErrInvalidTag
		}

		return Value{Kind: k, I64: int64(data)}, nil
	case kind.SmallIntNegative:
		if data == 0 {
			return Value{}, errs.ErrInvalidTag
		}

		return Value{Kind: k, I64: -int64(data)}, nil
	case kind.VarIntUnsigned:
		return r.readVarUnsigned(int(data) + 1)
	case kind.VarIntSignedPositive:
		return r.readVarSignedPositive(int(data) + 1)
	case kind.VarIntSignedNegative:
		return r.readVarSignedNegative(int(data) + 1)
	case kind.Bytes:
		return r.readBytes()
	case kind.VarIntBytes:
		return r.readVarIntBytes(int(data) + 1)
	case kind.SmallBytes:
		return r.readSmallBytes(int(data))
	case kind.TypedArray:
		return r.readTypedArray()
	default:
		return Value{}, errs.ErrInvalidTag
	}
}

func (r *Reader) openContainer(k kind.Kind) (Value, error) {
	r.depth++
	if r.cfg.maxDepth > 0 && r.depth > r.cfg.maxDepth {
		return Value{}, errs.ErrMaxDepthExceeded
	}

	if r.countersEnabled {
		for len(r.counters) < r.depth {
			r.counters = append(r.counters, 0)
		}
		r.counters[r.depth-1] = 0
	}

	return Value{Kind: k}, nil
}

func (r *Reader) closeContainer() (Value, error) {
	if r.depth == 0 {
		return Value{}, errs.ErrUnexpectedContainerEnd
	}
	r.depth--

	return Value{Kind: kind.ContainerEnd}, nil
}

func (r *Reader) need(n int) error {
	if n < 0 || n > len(r.buf)-r.pos {
		return errs.ErrUnexpectedEOF
	}

	return nil
}

func (r *Reader) readFixedUint(k kind.Kind, n int) (Value, error) {
	if err := r.need(n); err != nil {
		return Value{}, err
	}
	v := tag.GetVarint(r.buf[r.pos:r.pos+n], n)
	r.pos += n

	return Value{Kind: k, U64: v}, nil
}

func (r *Reader) readFixedInt(k kind.Kind, n int) (Value, error) {
	if err := r.need(n); err != nil {
		return Value{}, err
	}
	u := tag.GetVarint(r.buf[r.pos:r.pos+n], n)
	r.pos += n

	var v int64
	switch n {
	case 1:
		v = int64(int8(u))
	case 2:
		v = int64(int16(u))
	case 4:
		v = int64(int32(u))
	default:
		v = int64(u)
	}

	return Value{Kind: k, I64: v}, nil
}

func (r *Reader) readFloat16() (Value, error) {
	if err := r.need(2); err != nil {
		return Value{}, err
	}
	bits := uint16(tag.GetVarint(r.buf[r.pos:r.pos+2], 2))
	r.pos += 2

	return Value{Kind: kind.Float16, F64: float16ToFloat64(bits)}, nil
}

func (r *Reader) readFloat32() (Value, error) {
	if err := r.need(4); err != nil {
		return Value{}, err
	}
	bits := uint32(tag.GetVarint(r.buf[r.pos:r.pos+4], 4))
	r.pos += 4

	return Value{Kind: kind.Float32, F64: float64(math.Float32frombits(bits))}, nil
}

func (r *Reader) readFloat64() (Value, error) {
	if err := r.need(8); err != nil {
		return Value{}, err
	}
	bits := tag.GetVarint(r.buf[r.pos:r.pos+8], 8)
	r.pos += 8

	return Value{Kind: kind.Float64, F64: math.Float64frombits(bits)}, nil
}

func (r *Reader) readVarUnsigned(n int) (Value, error) {
	if err := r.need(n); err != nil {
		return Value{}, err
	}
	v := tag.GetVarint(r.buf[r.pos:r.pos+n], n)
	r.pos += n

	return Value{Kind: kind.VarIntUnsigned, U64: v}, nil
}

func (r *Reader) readVarSignedPositive(n int) (Value, error) {
	if err := r.need(n); err != nil {
		return Value{}, err
	}
	mag := tag.GetVarint(r.buf[r.pos:r.pos+n], n)
	r.pos += n
	if mag > math.MaxInt64 {
		return Value{}, errs.ErrInvalidTag
	}

	return Value{Kind: kind.VarIntSignedPositive, I64: int64(mag)}, nil
}

func (r *Reader) readVarSignedNegative(n int) (Value, error) {
	if err := r.need(n); err != nil {
		return Value{}, err
	}
	mag := tag.GetVarint(r.buf[r.pos:r.pos+n], n)
	r.pos += n
	if mag == 0 || mag > (uint64(1)<<63) {
		return Value{}, errs.ErrInvalidTag
	}

	return Value{Kind: kind.VarIntSignedNegative, I64: tag.FromNegMagnitude(mag)}, nil
}

// lengthLimit validates a decoded byte-payload length against the
// configured max and the remaining buffer, before it is ever added to pos.
func (r *Reader) lengthLimit(length uint64) (int, error) {
	if r.cfg.maxBytesLength > 0 && length > uint64(r.cfg.maxBytesLength) {
		return 0, errs.ErrBytesTooLong
	}
	if length > uint64(len(r.buf)-r.pos) {
		return 0, errs.ErrUnexpectedEOF
	}

	return int(length), nil
}

func (r *Reader) readBytes() (Value, error) {
	if err := r.need(8); err != nil {
		return Value{}, err
	}
	length := tag.GetVarint(r.buf[r.pos:r.pos+8], 8)
	r.pos += 8

	n, err := r.lengthLimit(length)
	if err != nil {
		return Value{}, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n

	return Value{Kind: kind.Bytes, Bytes: b}, nil
}

func (r *Reader) readVarIntBytes(lenOfLen int) (Value, error) {
	if err := r.need(lenOfLen); err != nil {
		return Value{}, err
	}
	length := tag.GetVarint(r.buf[r.pos:r.pos+lenOfLen], lenOfLen)
	r.pos += lenOfLen

	n, err := r.lengthLimit(length)
	if err != nil {
		return Value{}, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n

	return Value{Kind: kind.VarIntBytes, Bytes: b}, nil
}

func (r *Reader) readSmallBytes(n int) (Value, error) {
	if err := r.need(n); err != nil {
		return Value{}, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n

	return Value{Kind: kind.SmallBytes, Bytes: b}, nil
}

// readTypedArray reads [elem-type byte][count-len-1 byte][count-len LE
// count][packed payload]. The count is encoded with the same minimal
// little-endian form as every other tagbuf varint, fronted by an explicit
// length-of-length byte since a typed array's count has no surrounding tag
// to stash that nibble in.
func (r *Reader) readTypedArray() (Value, error) {
	if err := r.need(2); err != nil {
		return Value{}, err
	}
	elemType := kind.ElemType(r.buf[r.pos])
	if !elemType.Valid() {
		return Value{}, errs.ErrInvalidTag
	}
	r.pos++

	countLen := int(r.buf[r.pos]) + 1
	r.pos++
	if err := r.need(countLen); err != nil {
		return Value{}, err
	}
	count := tag.GetVarint(r.buf[r.pos:r.pos+countLen], countLen)
	r.pos += countLen

	elemSize := uint64(elemType.Size())
	totalLen := count * elemSize
	n, err := r.lengthLimit(totalLen)
	if err != nil {
		return Value{}, err
	}
	if uint64(n) != totalLen {
		return Value{}, errs.ErrInvalidTypedArrayLen
	}

	raw := r.buf[r.pos : r.pos+n]
	r.pos += n

	return Value{Kind: kind.TypedArray, ElemType: elemType, Count: int(count), Raw: raw}, nil
}

// Skip advances the cursor past one complete value, including every nested
// element of a container down to its matching ContainerEnd. It never
// allocates: nesting is tracked with a single int, not a recursive call
// stack.
func (r *Reader) Skip() error {
	v, err := r.Read()
	if err != nil {
		return err
	}
	if v.Kind != kind.Object && v.Kind != kind.Array {
		return nil
	}

	return r.skipOpen()
}

// skipOpen consumes the remainder of a container whose open tag has
// already been read (nesting starts at 1).
func (r *Reader) skipOpen() error {
	nesting := 1
	for nesting > 0 {
		v, err := r.Read()
		if err != nil {
			return err
		}
		switch v.Kind {
		case kind.Object, kind.Array:
			nesting++
		case kind.ContainerEnd:
			nesting--
		}
	}

	return nil
}

// NextObjectEntry yields the next (key, value) pair of an object whose open
// tag has already been consumed by Read, or more=false at ContainerEnd. For
// container-kind values the caller must itself recurse or Skip before
// calling NextObjectEntry again.
func (r *Reader) NextObjectEntry() (key []byte, val Value, more bool, err error) {
	if r.pos >= len(r.buf) {
		return nil, Value{}, false, errs.ErrUnexpectedEOF
	}
	if k, _ := tag.Decode(r.buf[r.pos]); k == kind.ContainerEnd {
		if _, err := r.Read(); err != nil {
			return nil, Value{}, false, err
		}

		return nil, Value{}, false, nil
	}

	keyVal, err := r.Read()
	if err != nil {
		return nil, Value{}, false, err
	}
	if err := r.bumpCounter(false); err != nil {
		return nil, Value{}, false, err
	}

	val, err = r.Read()
	if err != nil {
		return nil, Value{}, false, err
	}

	return keyVal.Bytes, val, true, nil
}

// NextArrayElement yields the next element of an array whose open tag has
// already been consumed by Read, or more=false at ContainerEnd.
func (r *Reader) NextArrayElement() (val Value, more bool, err error) {
	if r.pos >= len(r.buf) {
		return Value{}, false, errs.ErrUnexpectedEOF
	}
	if k, _ := tag.Decode(r.buf[r.pos]); k == kind.ContainerEnd {
		if _, err := r.Read(); err != nil {
			return Value{}, false, err
		}

		return Value{}, false, nil
	}

	if err := r.bumpCounter(true); err != nil {
		return Value{}, false, err
	}

	val, err = r.Read()
	if err != nil {
		return Value{}, false, err
	}

	return val, true, nil
}

func (r *Reader) bumpCounter(isArray bool) error {
	if !r.countersEnabled {
		return nil
	}
	idx := r.depth - 1
	r.counters[idx]++
	if isArray {
		if r.cfg.maxArrayLength > 0 && r.counters[idx] > r.cfg.maxArrayLength {
			return errs.ErrArrayTooLarge
		}
	} else {
		if r.cfg.maxObjectSize > 0 && r.counters[idx] > r.cfg.maxObjectSize {
			return errs.ErrObjectTooLarge
		}
	}

	return nil
}
