package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum64_Deterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	assert.Equal(t, Checksum64(data), Checksum64(append([]byte(nil), data...)))
}

func TestChecksum64_DiffersOnMutation(t *testing.T) {
	a := []byte("payload-a")
	b := []byte("payload-b")
	assert.NotEqual(t, Checksum64(a), Checksum64(b))
}

func TestChecksum64_EmptyInput(t *testing.T) {
	assert.NotPanics(t, func() { Checksum64(nil) })
}
