// Package jsonpp projects a tagbuf value as JSON text. It is a thin,
// read-only consumer of reader.Reader — never part of the core wire
// format — and exists so a complete repo ships the projection its own
// documentation shows.
package jsonpp

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/go-tagbuf/tagbuf/errs"
	"github.com/go-tagbuf/tagbuf/internal/half"
	"github.com/go-tagbuf/tagbuf/kind"
	"github.com/go-tagbuf/tagbuf/reader"
)

// Write reads one value from r and writes its JSON text representation to
// w. Byte strings are UTF-8-validated (errs.ErrInvalidUTF8 on failure) and
// control characters are \u-escaped; non-finite floats are rejected with
// errs.ErrNonFiniteFloat since JSON has no literal for them.
func Write(w io.Writer, r *reader.Reader) error {
	v, err := r.Read()
	if err != nil {
		return err
	}

	return writeValue(w, r, v)
}

func writeValue(w io.Writer, r *reader.Reader, v reader.Value) error {
	switch v.Kind {
	case kind.Object:
		return writeObject(w, r)
	case kind.Array:
		return writeArray(w, r)
	case kind.Null:
		return writeRaw(w, "null")
	case kind.Bool:
		if v.Bool {
			return writeRaw(w, "true")
		}
		return writeRaw(w, "false")
	case kind.Uint8, kind.Uint16, kind.Uint32, kind.Uint64,
		kind.SmallUint, kind.VarIntUnsigned:
		return writeRaw(w, strconv.FormatUint(v.U64, 10))
	case kind.Int8, kind.Int16, kind.Int32, kind.Int64,
		kind.SmallIntPositive, kind.SmallIntNegative,
		kind.VarIntSignedPositive, kind.VarIntSignedNegative:
		return writeRaw(w, strconv.FormatInt(v.I64, 10))
	case kind.Float16, kind.Float32, kind.Float64:
		return writeFloat(w, v.F64)
	case kind.Bytes, kind.VarIntBytes, kind.SmallBytes:
		return writeString(w, v.Bytes)
	case kind.TypedArray:
		return writeTypedArray(w, v)
	default:
		return errs.ErrInvalidTag
	}
}

func writeObject(w io.Writer, r *reader.Reader) error {
	if err := writeRaw(w, "{"); err != nil {
		return err
	}

	first := true
	for {
		key, val, more, err := r.NextObjectEntry()
		if err != nil {
			return err
		}
		if !more {
			break
		}

		if !first {
			if err := writeRaw(w, ","); err != nil {
				return err
			}
		}
		first = false

		if err := writeString(w, key); err != nil {
			return err
		}
		if err := writeRaw(w, ":"); err != nil {
			return err
		}
		if err := writeValue(w, r, val); err != nil {
			return err
		}
	}

	return writeRaw(w, "}")
}

func writeArray(w io.Writer, r *reader.Reader) error {
	if err := writeRaw(w, "["); err != nil {
		return err
	}

	first := true
	for {
		val, more, err := r.NextArrayElement()
		if err != nil {
			return err
		}
		if !more {
			break
		}

		if !first {
			if err := writeRaw(w, ","); err != nil {
				return err
			}
		}
		first = false

		if err := writeValue(w, r, val); err != nil {
			return err
		}
	}

	return writeRaw(w, "]")
}

func writeTypedArray(w io.Writer, v reader.Value) error {
	if err := writeRaw(w, "["); err != nil {
		return err
	}

	size := v.ElemType.Size()
	for i := 0; i < v.Count; i++ {
		if i > 0 {
			if err := writeRaw(w, ","); err != nil {
				return err
			}
		}

		off := i * size
		elem := v.Raw[off : off+size]

		s, err := formatTypedElem(v.ElemType, elem)
		if err != nil {
			return err
		}
		if err := writeRaw(w, s); err != nil {
			return err
		}
	}

	return writeRaw(w, "]")
}

func formatTypedElem(elem kind.ElemType, b []byte) (string, error) {
	switch elem {
	case kind.ElemU8:
		return strconv.FormatUint(uint64(b[0]), 10), nil
	case kind.ElemI8:
		return strconv.FormatInt(int64(int8(b[0])), 10), nil
	case kind.ElemU16:
		return strconv.FormatUint(uint64(binary.LittleEndian.Uint16(b)), 10), nil
	case kind.ElemI16:
		return strconv.FormatInt(int64(int16(binary.LittleEndian.Uint16(b))), 10), nil
	case kind.ElemU32:
		return strconv.FormatUint(uint64(binary.LittleEndian.Uint32(b)), 10), nil
	case kind.ElemI32:
		return strconv.FormatInt(int64(int32(binary.LittleEndian.Uint32(b))), 10), nil
	case kind.ElemU64:
		return strconv.FormatUint(binary.LittleEndian.Uint64(b), 10), nil
	case kind.ElemI64:
		return strconv.FormatInt(int64(binary.LittleEndian.Uint64(b)), 10), nil
	case kind.ElemF16:
		return formatFloatString(half.ToFloat64(binary.LittleEndian.Uint16(b)))
	case kind.ElemF32:
		bits := binary.LittleEndian.Uint32(b)
		return formatFloatString(float64(math.Float32frombits(bits)))
	default:
		bits := binary.LittleEndian.Uint64(b)
		return formatFloatString(math.Float64frombits(bits))
	}
}

func writeFloat(w io.Writer, f float64) error {
	s, err := formatFloatString(f)
	if err != nil {
		return err
	}
	return writeRaw(w, s)
}

func formatFloatString(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", errs.ErrNonFiniteFloat
	}

	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

var hexDigits = "0123456789abcdef"

func writeString(w io.Writer, b []byte) error {
	if !utf8.Valid(b) {
		return errs.ErrInvalidUTF8
	}

	if err := writeRaw(w, `"`); err != nil {
		return err
	}

	for _, c := range b {
		switch c {
		case '"':
			if err := writeRaw(w, `\"`); err != nil {
				return err
			}
		case '\\':
			if err := writeRaw(w, `\\`); err != nil {
				return err
			}
		case '\b':
			if err := writeRaw(w, `\b`); err != nil {
				return err
			}
		case '\f':
			if err := writeRaw(w, `\f`); err != nil {
				return err
			}
		case '\n':
			if err := writeRaw(w, `\n`); err != nil {
				return err
			}
		case '\r':
			if err := writeRaw(w, `\r`); err != nil {
				return err
			}
		case '\t':
			if err := writeRaw(w, `\t`); err != nil {
				return err
			}
		default:
			if c < 0x20 {
				esc := []byte{'\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF]}
				if err := writeRawBytes(w, esc); err != nil {
					return err
				}
				continue
			}
			if err := writeRawBytes(w, []byte{c}); err != nil {
				return err
			}
		}
	}

	return writeRaw(w, `"`)
}

func writeRaw(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	if err != nil {
		return fmt.Errorf("tagbuf: jsonpp: %w", err)
	}

	return nil
}

func writeRawBytes(w io.Writer, b []byte) error {
	_, err := w.Write(b)
	if err != nil {
		return fmt.Errorf("tagbuf: jsonpp: %w", err)
	}

	return nil
}
