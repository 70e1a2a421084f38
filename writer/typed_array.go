package writer

import (
	"encoding/binary"
	"math"

	"github.com/go-tagbuf/tagbuf/internal/half"
	"github.com/go-tagbuf/tagbuf/kind"
	"github.com/go-tagbuf/tagbuf/tag"
)

// writeTypedArrayHeader emits the tag, element-type byte, and
// length-of-length-prefixed count shared by every typed-array writer.
func (w *Writer) writeTypedArrayHeader(elem kind.ElemType, count int) error {
	if err := w.writeByte(tag.Encode(kind.TypedArray, 0)); err != nil {
		return err
	}
	if err := w.writeByte(byte(elem)); err != nil {
		return err
	}

	n := tag.VarintLen(uint64(count))
	if err := w.writeByte(byte(n - 1)); err != nil {
		return err
	}
	tag.PutVarint(w.tmp[:n], uint64(count))

	return w.writeAll(w.tmp[:n])
}

// WriteTypedArrayRaw emits a TypedArray value from a caller-packed,
// already-little-endian payload. This is the path envelope/patch code uses
// when re-emitting bytes copied verbatim from a source buffer.
func (w *Writer) WriteTypedArrayRaw(elem kind.ElemType, count int, payload []byte) error {
	if err := w.writeTypedArrayHeader(elem, count); err != nil {
		return err
	}

	return w.writeAll(payload)
}

// WriteTypedArrayU8 emits a TypedArray of U8 elements. A byte slice needs
// no endianness conversion regardless of host order.
func (w *Writer) WriteTypedArrayU8(v []uint8) error {
	if err := w.writeTypedArrayHeader(kind.ElemU8, len(v)); err != nil {
		return err
	}

	return w.writeAll(v)
}

// WriteTypedArrayI8 emits a TypedArray of I8 elements.
func (w *Writer) WriteTypedArrayI8(v []int8) error {
	if err := w.writeTypedArrayHeader(kind.ElemI8, len(v)); err != nil {
		return err
	}
	buf := make([]byte, len(v))
	for i, e := range v {
		buf[i] = byte(e)
	}

	return w.writeAll(buf)
}

// WriteTypedArrayU16 emits a TypedArray of U16 elements, little-endian.
func (w *Writer) WriteTypedArrayU16(v []uint16) error {
	if err := w.writeTypedArrayHeader(kind.ElemU16, len(v)); err != nil {
		return err
	}
	buf := make([]byte, len(v)*2)
	for i, e := range v {
		binary.LittleEndian.PutUint16(buf[i*2:], e)
	}

	return w.writeAll(buf)
}

// WriteTypedArrayI16 emits a TypedArray of I16 elements, little-endian.
func (w *Writer) WriteTypedArrayI16(v []int16) error {
	if err := w.writeTypedArrayHeader(kind.ElemI16, len(v)); err != nil {
		return err
	}
	buf := make([]byte, len(v)*2)
	for i, e := range v {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(e))
	}

	return w.writeAll(buf)
}

// WriteTypedArrayU32 emits a TypedArray of U32 elements, little-endian.
func (w *Writer) WriteTypedArrayU32(v []uint32) error {
	if err := w.writeTypedArrayHeader(kind.ElemU32, len(v)); err != nil {
		return err
	}
	buf := make([]byte, len(v)*4)
	for i, e := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], e)
	}

	return w.writeAll(buf)
}

// WriteTypedArrayI32 emits a TypedArray of I32 elements, little-endian.
func (w *Writer) WriteTypedArrayI32(v []int32) error {
	if err := w.writeTypedArrayHeader(kind.ElemI32, len(v)); err != nil {
		return err
	}
	buf := make([]byte, len(v)*4)
	for i, e := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(e))
	}

	return w.writeAll(buf)
}

// WriteTypedArrayU64 emits a TypedArray of U64 elements, little-endian.
func (w *Writer) WriteTypedArrayU64(v []uint64) error {
	if err := w.writeTypedArrayHeader(kind.ElemU64, len(v)); err != nil {
		return err
	}
	buf := make([]byte, len(v)*8)
	for i, e := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], e)
	}

	return w.writeAll(buf)
}

// WriteTypedArrayI64 emits a TypedArray of I64 elements, little-endian.
func (w *Writer) WriteTypedArrayI64(v []int64) error {
	if err := w.writeTypedArrayHeader(kind.ElemI64, len(v)); err != nil {
		return err
	}
	buf := make([]byte, len(v)*8)
	for i, e := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(e))
	}

	return w.writeAll(buf)
}

// WriteTypedArrayF16 emits a TypedArray of Float16 elements converted from
// float64 inputs.
func (w *Writer) WriteTypedArrayF16(v []float64) error {
	if err := w.writeTypedArrayHeader(kind.ElemF16, len(v)); err != nil {
		return err
	}
	buf := make([]byte, len(v)*2)
	for i, e := range v {
		binary.LittleEndian.PutUint16(buf[i*2:], half.FromFloat64(e))
	}

	return w.writeAll(buf)
}

// WriteTypedArrayF32 emits a TypedArray of Float32 elements.
func (w *Writer) WriteTypedArrayF32(v []float32) error {
	if err := w.writeTypedArrayHeader(kind.ElemF32, len(v)); err != nil {
		return err
	}
	buf := make([]byte, len(v)*4)
	for i, e := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(e))
	}

	return w.writeAll(buf)
}

// WriteTypedArrayF64 emits a TypedArray of Float64 elements.
func (w *Writer) WriteTypedArrayF64(v []float64) error {
	if err := w.writeTypedArrayHeader(kind.ElemF64, len(v)); err != nil {
		return err
	}
	buf := make([]byte, len(v)*8)
	for i, e := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(e))
	}

	return w.writeAll(buf)
}
