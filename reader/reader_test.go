package reader_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-tagbuf/tagbuf/errs"
	"github.com/go-tagbuf/tagbuf/kind"
	"github.com/go-tagbuf/tagbuf/reader"
	"github.com/go-tagbuf/tagbuf/writer"
)

func encode(t *testing.T, build func(w *writer.Writer)) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := writer.New(&buf)
	build(w)

	return buf.Bytes()
}

func TestReader_ReadScalars(t *testing.T) {
	buf := encode(t, func(w *writer.Writer) {
		require.NoError(t, w.WriteNull())
		require.NoError(t, w.WriteBool(true))
		require.NoError(t, w.WriteVarIntUnsigned(42))
		require.NoError(t, w.WriteVarIntSigned(-7))
		require.NoError(t, w.WriteFloat64(3.25))
		require.NoError(t, w.WriteSmallBytes([]byte("hi")))
	})

	r := reader.New(buf)

	v, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, kind.Null, v.Kind)

	v, err = r.Read()
	require.NoError(t, err)
	require.Equal(t, kind.Bool, v.Kind)
	require.True(t, v.Bool)

	v, err = r.Read()
	require.NoError(t, err)
	require.Equal(t, kind.VarIntUnsigned, v.Kind)
	require.Equal(t, uint64(42), v.U64)

	v, err = r.Read()
	require.NoError(t, err)
	require.Equal(t, kind.VarIntSignedNegative, v.Kind)
	require.Equal(t, int64(-7), v.I64)

	v, err = r.Read()
	require.NoError(t, err)
	require.Equal(t, kind.Float64, v.Kind)
	require.Equal(t, 3.25, v.F64)

	v, err = r.Read()
	require.NoError(t, err)
	require.Equal(t, kind.SmallBytes, v.Kind)
	require.Equal(t, []byte("hi"), v.Bytes)
}

func TestReader_ReadUnexpectedEOF(t *testing.T) {
	r := reader.New(nil)
	_, err := r.Read()
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

func TestReader_IterateObject(t *testing.T) {
	buf := encode(t, func(w *writer.Writer) {
		require.NoError(t, w.StartObject())
		require.NoError(t, w.WriteSmallBytes([]byte("a")))
		require.NoError(t, w.WriteVarIntUnsigned(1))
		require.NoError(t, w.WriteSmallBytes([]byte("b")))
		require.NoError(t, w.WriteVarIntUnsigned(2))
		require.NoError(t, w.EndContainer())
	})

	r := reader.New(buf)
	v, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, kind.Object, v.Kind)

	key, val, more, err := r.NextObjectEntry()
	require.NoError(t, err)
	require.True(t, more)
	require.Equal(t, []byte("a"), key)
	require.Equal(t, uint64(1), val.U64)

	key, val, more, err = r.NextObjectEntry()
	require.NoError(t, err)
	require.True(t, more)
	require.Equal(t, []byte("b"), key)
	require.Equal(t, uint64(2), val.U64)

	_, _, more, err = r.NextObjectEntry()
	require.NoError(t, err)
	require.False(t, more)
}

func TestReader_IterateArray(t *testing.T) {
	buf := encode(t, func(w *writer.Writer) {
		require.NoError(t, w.StartArray())
		require.NoError(t, w.WriteVarIntUnsigned(10))
		require.NoError(t, w.WriteVarIntUnsigned(20))
		require.NoError(t, w.EndContainer())
	})

	r := reader.New(buf)
	_, err := r.Read()
	require.NoError(t, err)

	v, more, err := r.NextArrayElement()
	require.NoError(t, err)
	require.True(t, more)
	require.Equal(t, uint64(10), v.U64)

	v, more, err = r.NextArrayElement()
	require.NoError(t, err)
	require.True(t, more)
	require.Equal(t, uint64(20), v.U64)

	_, more, err = r.NextArrayElement()
	require.NoError(t, err)
	require.False(t, more)
}

func TestReader_Skip_NestedContainer(t *testing.T) {
	buf := encode(t, func(w *writer.Writer) {
		require.NoError(t, w.StartObject())
		require.NoError(t, w.WriteSmallBytes([]byte("nested")))
		require.NoError(t, w.StartArray())
		require.NoError(t, w.WriteVarIntUnsigned(1))
		require.NoError(t, w.StartObject())
		require.NoError(t, w.WriteSmallBytes([]byte("x")))
		require.NoError(t, w.WriteVarIntUnsigned(2))
		require.NoError(t, w.EndContainer())
		require.NoError(t, w.EndContainer())
		require.NoError(t, w.WriteSmallBytes([]byte("after")))
		require.NoError(t, w.WriteBool(true))
		require.NoError(t, w.EndContainer())
	})

	r := reader.New(buf)
	_, err := r.Read()
	require.NoError(t, err)

	key, val, more, err := r.NextObjectEntry()
	require.NoError(t, err)
	require.True(t, more)
	require.Equal(t, []byte("nested"), key)
	require.Equal(t, kind.Array, val.Kind)
	require.NoError(t, r.Skip())

	key, val, more, err = r.NextObjectEntry()
	require.NoError(t, err)
	require.True(t, more)
	require.Equal(t, []byte("after"), key)
	require.True(t, val.Bool)
}

func TestReader_MaxDepthExceeded(t *testing.T) {
	buf := encode(t, func(w *writer.Writer) {
		require.NoError(t, w.StartObject())
		require.NoError(t, w.WriteSmallBytes([]byte("a")))
		require.NoError(t, w.StartArray())
		require.NoError(t, w.EndContainer())
		require.NoError(t, w.EndContainer())
	})

	r := reader.New(buf, reader.WithMaxDepth(1))
	_, err := r.Read() // Object, depth 1, ok
	require.NoError(t, err)

	_, _, _, err = r.NextObjectEntry() // reads key then attempts the Array open at depth 2
	require.ErrorIs(t, err, errs.ErrMaxDepthExceeded)
}

func TestReader_BytesTooLong(t *testing.T) {
	buf := encode(t, func(w *writer.Writer) {
		require.NoError(t, w.WriteVarIntBytes([]byte("this is too long")))
	})

	r := reader.New(buf, reader.WithMaxBytesLength(4))
	_, err := r.Read()
	require.ErrorIs(t, err, errs.ErrBytesTooLong)
}

func TestReader_ArrayTooLarge(t *testing.T) {
	buf := encode(t, func(w *writer.Writer) {
		require.NoError(t, w.StartArray())
		require.NoError(t, w.WriteVarIntUnsigned(1))
		require.NoError(t, w.WriteVarIntUnsigned(2))
		require.NoError(t, w.WriteVarIntUnsigned(3))
		require.NoError(t, w.EndContainer())
	})

	r := reader.New(buf, reader.WithMaxArrayLength(2))
	_, err := r.Read()
	require.NoError(t, err)

	_, _, err = r.NextArrayElement()
	require.NoError(t, err)
	_, _, err = r.NextArrayElement()
	require.NoError(t, err)
	_, _, err = r.NextArrayElement()
	require.ErrorIs(t, err, errs.ErrArrayTooLarge)
}

func TestReader_ReadPath_QuotedBracketKey(t *testing.T) {
	buf := encode(t, func(w *writer.Writer) {
		require.NoError(t, w.StartObject())
		require.NoError(t, w.WriteSmallBytes([]byte("a.b")))
		require.NoError(t, w.WriteVarIntUnsigned(99))
		require.NoError(t, w.WriteSmallBytes([]byte("plain")))
		require.NoError(t, w.WriteVarIntUnsigned(1))
		require.NoError(t, w.EndContainer())
	})

	r := reader.New(buf)
	v, found, err := r.ReadPath([]byte(`['a.b']`))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(99), v.U64)

	// Cursor must be unaffected by the query: a second independent read
	// over the same buffer resolves the same way.
	v, found, err = r.ReadPath([]byte(`plain`))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(1), v.U64)
}

func TestReader_ReadPath_NestedAndMissing(t *testing.T) {
	buf := encode(t, func(w *writer.Writer) {
		require.NoError(t, w.StartObject())
		require.NoError(t, w.WriteSmallBytes([]byte("items")))
		require.NoError(t, w.StartArray())
		require.NoError(t, w.StartObject())
		require.NoError(t, w.WriteSmallBytes([]byte("name")))
		require.NoError(t, w.WriteSmallBytes([]byte("first")))
		require.NoError(t, w.EndContainer())
		require.NoError(t, w.StartObject())
		require.NoError(t, w.WriteSmallBytes([]byte("name")))
		require.NoError(t, w.WriteSmallBytes([]byte("second")))
		require.NoError(t, w.EndContainer())
		require.NoError(t, w.EndContainer())
		require.NoError(t, w.EndContainer())
	})

	r := reader.New(buf)
	v, found, err := r.ReadPath([]byte("items[1].name"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("second"), v.Bytes)

	_, found, err = r.ReadPath([]byte("items[5].name"))
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = r.ReadPath([]byte("missing"))
	require.NoError(t, err)
	require.False(t, found)
}

func TestReader_ReadPaths_Batch(t *testing.T) {
	buf := encode(t, func(w *writer.Writer) {
		require.NoError(t, w.StartObject())
		require.NoError(t, w.WriteSmallBytes([]byte("a")))
		require.NoError(t, w.WriteVarIntUnsigned(1))
		require.NoError(t, w.WriteSmallBytes([]byte("b")))
		require.NoError(t, w.WriteVarIntUnsigned(2))
		require.NoError(t, w.WriteSmallBytes([]byte("c")))
		require.NoError(t, w.WriteVarIntUnsigned(3))
		require.NoError(t, w.EndContainer())
	})

	r := reader.New(buf)
	queries := []reader.PathQuery{
		{Path: []byte("c")},
		{Path: []byte("a")},
		{Path: []byte("missing")},
	}
	require.NoError(t, r.ReadPaths(queries))

	require.True(t, queries[0].Found)
	require.Equal(t, uint64(3), queries[0].Value.U64)
	require.True(t, queries[1].Found)
	require.Equal(t, uint64(1), queries[1].Value.U64)
	require.False(t, queries[2].Found)
}

func TestReader_ReadPaths_Batch_NestedContainer(t *testing.T) {
	buf := encode(t, func(w *writer.Writer) {
		require.NoError(t, w.StartObject())
		require.NoError(t, w.WriteSmallBytes([]byte("a")))
		require.NoError(t, w.StartObject())
		require.NoError(t, w.WriteSmallBytes([]byte("x")))
		require.NoError(t, w.WriteVarIntUnsigned(1))
		require.NoError(t, w.WriteSmallBytes([]byte("y")))
		require.NoError(t, w.WriteVarIntUnsigned(2))
		require.NoError(t, w.EndContainer())
		require.NoError(t, w.WriteSmallBytes([]byte("b")))
		require.NoError(t, w.WriteVarIntUnsigned(3))
		require.NoError(t, w.EndContainer())
	})

	r := reader.New(buf)
	queries := []reader.PathQuery{
		{Path: []byte("a.x")},
		{Path: []byte("b")},
	}
	require.NoError(t, r.ReadPaths(queries))

	require.True(t, queries[0].Found)
	require.Equal(t, uint64(1), queries[0].Value.U64)
	require.True(t, queries[1].Found)
	require.Equal(t, uint64(3), queries[1].Value.U64)
}

func TestReader_TypedArray(t *testing.T) {
	buf := encode(t, func(w *writer.Writer) {
		require.NoError(t, w.WriteTypedArrayF32([]float32{1, 2, 3}))
	})

	r := reader.New(buf)
	v, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, kind.TypedArray, v.Kind)
	require.Equal(t, kind.ElemF32, v.ElemType)
	require.Equal(t, 3, v.Count)
	require.Len(t, v.Raw, 12)
}

func TestReader_Reset(t *testing.T) {
	buf1 := encode(t, func(w *writer.Writer) { require.NoError(t, w.WriteNull()) })
	buf2 := encode(t, func(w *writer.Writer) { require.NoError(t, w.WriteBool(true)) })

	r := reader.New(buf1)
	v, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, kind.Null, v.Kind)

	r.Reset(buf2)
	require.Equal(t, 0, r.Pos())
	v, err = r.Read()
	require.NoError(t, err)
	require.Equal(t, kind.Bool, v.Kind)
}
