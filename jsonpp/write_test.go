package jsonpp_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-tagbuf/tagbuf/errs"
	"github.com/go-tagbuf/tagbuf/jsonpp"
	"github.com/go-tagbuf/tagbuf/reader"
	"github.com/go-tagbuf/tagbuf/writer"
)

func TestWrite_ScalarKinds(t *testing.T) {
	var buf bytes.Buffer
	w := writer.New(&buf)
	require.NoError(t, w.StartObject())
	require.NoError(t, w.WriteSmallBytes([]byte("n")))
	require.NoError(t, w.WriteNull())
	require.NoError(t, w.WriteSmallBytes([]byte("b")))
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteSmallBytes([]byte("i")))
	require.NoError(t, w.WriteIntAny(-42))
	require.NoError(t, w.WriteSmallBytes([]byte("u")))
	require.NoError(t, w.WriteUintAny(42))
	require.NoError(t, w.WriteSmallBytes([]byte("f")))
	require.NoError(t, w.WriteFloat64(3.5))
	require.NoError(t, w.WriteSmallBytes([]byte("s")))
	require.NoError(t, w.WriteSmallBytes([]byte("hi")))
	require.NoError(t, w.EndContainer())

	r := reader.New(buf.Bytes())

	var out bytes.Buffer
	require.NoError(t, jsonpp.Write(&out, r))

	require.JSONEq(t, `{"n":null,"b":true,"i":-42,"u":42,"f":3.5,"s":"hi"}`, out.String())
}

func TestWrite_NestedContainers(t *testing.T) {
	var buf bytes.Buffer
	w := writer.New(&buf)
	require.NoError(t, w.StartObject())
	require.NoError(t, w.WriteSmallBytes([]byte("arr")))
	require.NoError(t, w.StartArray())
	require.NoError(t, w.WriteUintAny(1))
	require.NoError(t, w.WriteUintAny(2))
	require.NoError(t, w.StartObject())
	require.NoError(t, w.WriteSmallBytes([]byte("x")))
	require.NoError(t, w.WriteUintAny(3))
	require.NoError(t, w.EndContainer())
	require.NoError(t, w.EndContainer())
	require.NoError(t, w.EndContainer())

	r := reader.New(buf.Bytes())

	var out bytes.Buffer
	require.NoError(t, jsonpp.Write(&out, r))
	require.JSONEq(t, `{"arr":[1,2,{"x":3}]}`, out.String())
}

func TestWrite_ControlCharacterEscaping(t *testing.T) {
	var buf bytes.Buffer
	w := writer.New(&buf)
	require.NoError(t, w.WriteBytesAny([]byte("a\x00b\x1fc\td\ne")))

	r := reader.New(buf.Bytes())

	var out bytes.Buffer
	require.NoError(t, jsonpp.Write(&out, r))
	require.Equal(t, "\"a\\u0000b\\u001fc\\td\\ne\"", out.String())
}

func TestWrite_InvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	w := writer.New(&buf)
	require.NoError(t, w.WriteBytesAny([]byte{0xFF, 0xFE}))

	r := reader.New(buf.Bytes())

	var out bytes.Buffer
	err := jsonpp.Write(&out, r)
	require.ErrorIs(t, err, errs.ErrInvalidUTF8)
}

func TestWrite_NonFiniteFloat(t *testing.T) {
	var buf bytes.Buffer
	w := writer.New(&buf)
	require.NoError(t, w.WriteFloat64(math.NaN()))

	r := reader.New(buf.Bytes())

	var out bytes.Buffer
	err := jsonpp.Write(&out, r)
	require.ErrorIs(t, err, errs.ErrNonFiniteFloat)
}

func TestWrite_TypedArray(t *testing.T) {
	var buf bytes.Buffer
	w := writer.New(&buf)
	require.NoError(t, w.WriteTypedArrayF32([]float32{1.5, -2, 0}))

	r := reader.New(buf.Bytes())

	var out bytes.Buffer
	require.NoError(t, jsonpp.Write(&out, r))
	require.JSONEq(t, `[1.5,-2,0]`, out.String())
}
