// Package hash provides the non-cryptographic hash helper used by the
// envelope layer to detect accidental corruption or truncation.
package hash

import "github.com/cespare/xxhash/v2"

// Checksum64 computes the xxHash64 of an envelope's uncompressed payload.
// The envelope header stores this value so Unwrap can detect truncation
// or corruption before handing the payload to a Reader. This is not a
// cryptographic integrity check.
func Checksum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}
