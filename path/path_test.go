package path

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegments_Basic(t *testing.T) {
	segs, ok := Segments([]byte("a.b.c"))
	require.True(t, ok)
	require.Len(t, segs, 3)
	require.Equal(t, KeySegment, segs[0].Kind)
	require.Equal(t, "a", string(segs[0].Key))
	require.Equal(t, "b", string(segs[1].Key))
	require.Equal(t, "c", string(segs[2].Key))
}

func TestSegments_EmptyPathIsRoot(t *testing.T) {
	segs, ok := Segments(nil)
	require.True(t, ok)
	require.Empty(t, segs)
}

func TestSegments_ArrayIndex(t *testing.T) {
	segs, ok := Segments([]byte("arr[3]"))
	require.True(t, ok)
	require.Len(t, segs, 2)
	require.Equal(t, KeySegment, segs[0].Kind)
	require.Equal(t, IndexSegment, segs[1].Kind)
	require.Equal(t, uint64(3), segs[1].Index)
}

func TestSegments_BracketedQuotedKey(t *testing.T) {
	segs, ok := Segments([]byte("items[1]['name with space']"))
	require.True(t, ok)
	require.Len(t, segs, 3)
	require.Equal(t, "items", string(segs[0].Key))
	require.Equal(t, uint64(1), segs[1].Index)
	require.Equal(t, "name with space", string(segs[2].Key))
}

func TestSegments_TopLevelQuotedKey(t *testing.T) {
	segs, ok := Segments([]byte(`'a key'.b`))
	require.True(t, ok)
	require.Len(t, segs, 2)
	require.Equal(t, "a key", string(segs[0].Key))
	require.Equal(t, "b", string(segs[1].Key))
}

func TestSegments_Malformed(t *testing.T) {
	cases := []string{
		"a[",
		".a",
		"a.",
		"a['unterminated",
		"a[x]",
		"a['b'",
	}
	for _, c := range cases {
		_, ok := Segments([]byte(c))
		require.False(t, ok, "path=%q should be malformed", c)
	}
}

func TestValidate(t *testing.T) {
	require.True(t, Validate([]byte("a.b[0]")))
	require.False(t, Validate([]byte("a[")))
}

func TestSegmentAtDepth(t *testing.T) {
	seg, ok := SegmentAtDepth([]byte("a.b[2]"), 1)
	require.True(t, ok)
	require.Equal(t, KeySegment, seg.Kind)
	require.Equal(t, "b", string(seg.Key))

	_, ok = SegmentAtDepth([]byte("a.b"), 5)
	require.False(t, ok)
}

func TestCompare_KeyBeforeIndex(t *testing.T) {
	require.Negative(t, Compare([]byte("a.key"), []byte("a[0]")))
	require.Positive(t, Compare([]byte("a[0]"), []byte("a.key")))
}

func TestCompare_KeyLexicographic(t *testing.T) {
	require.Negative(t, Compare([]byte("a.aaa"), []byte("a.bbb")))
}

func TestCompare_IndexNumeric(t *testing.T) {
	require.Negative(t, Compare([]byte("a[2]"), []byte("a[10]")))
}

func TestCompare_ShorterBeforeLonger(t *testing.T) {
	require.Negative(t, Compare([]byte("a"), []byte("a.b")))
	require.Positive(t, Compare([]byte("a.b"), []byte("a")))
}

func TestCompare_MalformedFallsBackToByteCompare(t *testing.T) {
	require.Equal(t, -1, Compare([]byte("a["), []byte("b[")))
}
