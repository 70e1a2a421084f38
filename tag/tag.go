// Package tag implements the tagbuf tag-byte codec and the varint
// magnitude encoding shared by every on-wire value kind.
//
// A tag byte packs a 5-bit kind.Kind in bits 0..4 and 3 bits of
// kind-specific inline data in bits 5..7. Encoding and decoding are
// branchless bit operations; neither allocates.
package tag

import "github.com/go-tagbuf/tagbuf/kind"

const (
	kindMask = 0x1F // bits 0..4
	dataMask = 0x07 // bits 5..7, pre-shift
	dataShift = 5
)

// Encode packs k and data (0..7) into a single tag byte. data bits beyond
// the low 3 are silently truncated; callers are expected to pass a value
// already in range.
func Encode(k kind.Kind, data uint8) byte {
	return byte(k)&kindMask | (data&dataMask)<<dataShift
}

// Decode splits a tag byte into its kind.Kind and 3-bit inline data.
func Decode(b byte) (k kind.Kind, data uint8) {
	return kind.Kind(b & kindMask), (b >> dataShift) & dataMask
}

// VarintLen returns the number of bytes (1..8) needed to hold the minimal
// little-endian encoding of v. Mirrors the fast inline ladder used for
// uvarint length estimation, generalized from LEB128's 7-bit steps to the
// tagbuf varint's whole-byte steps.
func VarintLen(v uint64) int {
	switch {
	case v <= 0xFF:
		return 1
	case v <= 0xFFFF:
		return 2
	case v <= 0xFFFFFF:
		return 3
	case v <= 0xFFFFFFFF:
		return 4
	case v <= 0xFFFFFFFFFF:
		return 5
	case v <= 0xFFFFFFFFFFFF:
		return 6
	case v <= 0xFFFFFFFFFFFFFF:
		return 7
	default:
		return 8
	}
}

// PutVarint writes the minimal little-endian encoding of v into dst, which
// must have length >= n where n = VarintLen(v). It returns n.
func PutVarint(dst []byte, v uint64) int {
	n := VarintLen(v)
	for i := 0; i < n; i++ {
		dst[i] = byte(v >> (8 * i))
	}

	return n
}

// GetVarint reads an n-byte little-endian magnitude from src. src must have
// length >= n and n must be in 1..8.
func GetVarint(src []byte, n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		v |= uint64(src[i]) << (8 * i)
	}

	return v
}
