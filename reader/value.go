package reader

import "github.com/go-tagbuf/tagbuf/kind"

// Value is one decoded tagbuf value. Only the fields relevant to Kind are
// populated; the rest are zero. Bytes, when set, is a zero-copy slice into
// the Reader's source buffer and is valid for as long as that buffer is.
type Value struct {
	Kind kind.Kind

	Bool bool
	U64  uint64 // SmallUint, VarIntUnsigned, Uint8/16/32/64
	I64  int64  // SmallIntPositive/Negative, VarIntSignedPositive/Negative, Int8/16/32/64
	F64  float64 // Float16/32/64, promoted to float64

	Bytes []byte // Bytes, VarIntBytes, SmallBytes

	ElemType kind.ElemType // TypedArray
	Count    int           // TypedArray
	Raw      []byte        // TypedArray packed little-endian payload, zero-copy
}
