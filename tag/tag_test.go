package tag

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-tagbuf/tagbuf/kind"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, k := range []kind.Kind{kind.Object, kind.Array, kind.ContainerEnd, kind.Null, kind.Bool, kind.SmallUint, kind.TypedArray} {
		for data := uint8(0); data < 8; data++ {
			b := Encode(k, data)
			gotKind, gotData := Decode(b)
			require.Equal(t, k, gotKind)
			require.Equal(t, data, gotData)
		}
	}
}

func TestEncode_TruncatesDataBits(t *testing.T) {
	b := Encode(kind.SmallUint, 0xFF)
	_, data := Decode(b)
	require.Equal(t, uint8(0x07), data)
}

func TestVarintLen(t *testing.T) {
	cases := []struct {
		v    uint64
		want int
	}{
		{0, 1},
		{0xFF, 1},
		{0x100, 2},
		{512, 2},
		{0xFFFF, 2},
		{0x10000, 3},
		{0xFFFFFFFF, 4},
		{0x100000000, 5},
		{^uint64(0), 8},
	}
	for _, c := range cases {
		require.Equal(t, c.want, VarintLen(c.v), "v=%d", c.v)
	}
}

func TestPutGetVarint_RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 255, 256, 512, 65535, 65536, 1 << 40, ^uint64(0)}
	for _, v := range values {
		n := VarintLen(v)
		buf := make([]byte, n)
		written := PutVarint(buf, v)
		require.Equal(t, n, written)
		require.Equal(t, v, GetVarint(buf, n))
	}
}

func TestPutVarint_512(t *testing.T) {
	// Scenario 9 from the spec: varint encoding of 512 yields payload
	// bytes [0x00, 0x02] with size-minus-one tag data of 1.
	n := VarintLen(512)
	require.Equal(t, 2, n)

	buf := make([]byte, n)
	PutVarint(buf, 512)
	require.Equal(t, []byte{0x00, 0x02}, buf)
	require.Equal(t, uint8(n-1), uint8(1))
}
