// Package writer implements the tagbuf Writer primitives: single-value
// emission, container open/close, and the write_any canonical-kind
// dispatch rule. The Writer appends to a caller-owned Sink and never owns
// byte storage. Scalar and container writes allocate nothing beyond what
// the Sink itself does; the typed-array writers other than
// WriteTypedArrayU8 and WriteTypedArrayRaw build each little-endian payload
// in a newly allocated slice before passing it to the Sink.
package writer

import (
	"encoding/binary"
	"math"

	"github.com/go-tagbuf/tagbuf/errs"
	"github.com/go-tagbuf/tagbuf/internal/half"
	"github.com/go-tagbuf/tagbuf/kind"
	"github.com/go-tagbuf/tagbuf/tag"
)

// Writer wraps a byte Sink and exposes the tagbuf primitive write
// operations.
//
// Writer is NOT thread-safe; use one instance from a single goroutine at a
// time.
type Writer struct {
	sink Sink
	tmp  [8]byte
}

// New constructs a Writer that appends to sink.
func New(sink Sink) *Writer {
	return &Writer{sink: sink}
}

func (w *Writer) writeByte(b byte) error {
	if err := w.sink.WriteByte(b); err != nil {
		return errs.ErrSinkFailed
	}

	return nil
}

func (w *Writer) writeAll(p []byte) error {
	if _, err := w.sink.Write(p); err != nil {
		return errs.ErrSinkFailed
	}

	return nil
}

// StartObject emits an Object container-open tag.
func (w *Writer) StartObject() error { return w.writeByte(tag.Encode(kind.Object, 0)) }

// StartArray emits an Array container-open tag.
func (w *Writer) StartArray() error { return w.writeByte(tag.Encode(kind.Array, 0)) }

// EndContainer emits the ContainerEnd sentinel.
func (w *Writer) EndContainer() error { return w.writeByte(tag.Encode(kind.ContainerEnd, 0)) }

// WriteNull emits a Null value.
func (w *Writer) WriteNull() error { return w.writeByte(tag.Encode(kind.Null, 0)) }

// WriteBool emits a Bool value with its value inlined in the tag.
func (w *Writer) WriteBool(v bool) error {
	var data uint8
	if v {
		data = 1
	}

	return w.writeByte(tag.Encode(kind.Bool, data))
}

func (w *Writer) writeFixed(k kind.Kind, u uint64, n int) error {
	if err := w.writeByte(tag.Encode(k, 0)); err != nil {
		return err
	}
	tag.PutVarint(w.tmp[:n], u)

	return w.writeAll(w.tmp[:n])
}

// WriteUint8/16/32/64 emit the corresponding fixed-width kind, explicitly
// requested by the caller (write_any never chooses these).
func (w *Writer) WriteUint8(v uint8) error   { return w.writeFixed(kind.Uint8, uint64(v), 1) }
func (w *Writer) WriteUint16(v uint16) error { return w.writeFixed(kind.Uint16, uint64(v), 2) }
func (w *Writer) WriteUint32(v uint32) error { return w.writeFixed(kind.Uint32, uint64(v), 4) }
func (w *Writer) WriteUint64(v uint64) error { return w.writeFixed(kind.Uint64, v, 8) }

// WriteInt8/16/32/64 emit the corresponding fixed-width kind.
func (w *Writer) WriteInt8(v int8) error   { return w.writeFixed(kind.Int8, uint64(uint8(v)), 1) }
func (w *Writer) WriteInt16(v int16) error { return w.writeFixed(kind.Int16, uint64(uint16(v)), 2) }
func (w *Writer) WriteInt32(v int32) error { return w.writeFixed(kind.Int32, uint64(uint32(v)), 4) }
func (w *Writer) WriteInt64(v int64) error { return w.writeFixed(kind.Int64, uint64(v), 8) }

// WriteFloat16 emits a Float16 value, converting v to IEEE 754 binary16.
func (w *Writer) WriteFloat16(v float64) error {
	return w.writeFixed(kind.Float16, uint64(half.FromFloat64(v)), 2)
}

// WriteFloat32 emits a Float32 value.
func (w *Writer) WriteFloat32(v float32) error {
	return w.writeFixed(kind.Float32, uint64(math.Float32bits(v)), 4)
}

// WriteFloat64 emits a Float64 value.
func (w *Writer) WriteFloat64(v float64) error {
	return w.writeFixed(kind.Float64, math.Float64bits(v), 8)
}

// WriteSmallUint emits a SmallUint value. v must be in [0,7].
func (w *Writer) WriteSmallUint(v uint8) error {
	return w.writeByte(tag.Encode(kind.SmallUint, v&0x7))
}

// WriteSmallIntPositive emits a SmallIntPositive value. v must be in [1,7].
func (w *Writer) WriteSmallIntPositive(v uint8) error {
	return w.writeByte(tag.Encode(kind.SmallIntPositive, v&0x7))
}

// WriteSmallIntNegative emits a SmallIntNegative value holding magnitude v,
// which must be in [1,7].
func (w *Writer) WriteSmallIntNegative(magnitude uint8) error {
	return w.writeByte(tag.Encode(kind.SmallIntNegative, magnitude&0x7))
}

// WriteVarIntUnsigned emits a VarIntUnsigned value using the minimal
// little-endian byte count for v.
func (w *Writer) WriteVarIntUnsigned(v uint64) error {
	n := tag.VarintLen(v)
	if err := w.writeByte(tag.Encode(kind.VarIntUnsigned, uint8(n-1))); err != nil {
		return err
	}
	tag.PutVarint(w.tmp[:n], v)

	return w.writeAll(w.tmp[:n])
}

// WriteVarIntSigned emits a VarIntSignedPositive or VarIntSignedNegative
// value for v, using the minimal byte count for its magnitude. This is the
// canonical way to emit any signed integer that doesn't fit the small-int
// inline forms.
func (w *Writer) WriteVarIntSigned(v int64) error {
	if v >= 0 {
		mag := uint64(v)
		n := tag.VarintLen(mag)
		if err := w.writeByte(tag.Encode(kind.VarIntSignedPositive, uint8(n-1))); err != nil {
			return err
		}
		tag.PutVarint(w.tmp[:n], mag)

		return w.writeAll(w.tmp[:n])
	}

	mag := tag.NegMagnitude(v)
	n := tag.VarintLen(mag)
	if err := w.writeByte(tag.Encode(kind.VarIntSignedNegative, uint8(n-1))); err != nil {
		return err
	}
	tag.PutVarint(w.tmp[:n], mag)

	return w.writeAll(w.tmp[:n])
}

// WriteBytes emits the explicit Bytes kind: tag + 8-byte LE length +
// payload. Used for payloads >= 2^56 or when the caller wants the
// fixed-width length form regardless of size.
func (w *Writer) WriteBytes(b []byte) error {
	if err := w.writeByte(tag.Encode(kind.Bytes, 0)); err != nil {
		return err
	}
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
	if err := w.writeAll(lenBuf[:]); err != nil {
		return err
	}

	return w.writeAll(b)
}

// WriteVarIntBytes emits the explicit VarIntBytes kind: tag data holds
// length-of-length-1, payload is that many LE length bytes then the
// content.
func (w *Writer) WriteVarIntBytes(b []byte) error {
	n := tag.VarintLen(uint64(len(b)))
	if err := w.writeByte(tag.Encode(kind.VarIntBytes, uint8(n-1))); err != nil {
		return err
	}
	tag.PutVarint(w.tmp[:n], uint64(len(b)))
	if err := w.writeAll(w.tmp[:n]); err != nil {
		return err
	}

	return w.writeAll(b)
}

// WriteSmallBytes emits the explicit SmallBytes kind. len(b) must be <= 7.
func (w *Writer) WriteSmallBytes(b []byte) error {
	if err := w.writeByte(tag.Encode(kind.SmallBytes, uint8(len(b)))); err != nil {
		return err
	}

	return w.writeAll(b)
}

// WriteRaw appends b to the sink unmodified. The patch engine uses this to
// copy an untouched source subtree verbatim rather than re-encoding it
// through the canonical-kind rules.
func (w *Writer) WriteRaw(b []byte) error {
	return w.writeAll(b)
}
