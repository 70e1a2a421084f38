package patch

import (
	"github.com/go-tagbuf/tagbuf/errs"
	"github.com/go-tagbuf/tagbuf/writer"
)

// WriteAny writes v using the write_any canonical-kind dispatch rule: the
// narrowest inline or varint form for v's concrete type. Integers route
// through Writer.WriteIntAny/WriteUintAny, byte strings through
// WriteBytesAny/WriteStringAny; floats always use the explicit Float64
// kind since no inline float form exists.
func WriteAny(w *writer.Writer, v any) error {
	switch val := v.(type) {
	case nil:
		return w.WriteNull()
	case bool:
		return w.WriteBool(val)
	case string:
		return w.WriteStringAny(val)
	case []byte:
		return w.WriteBytesAny(val)
	case float32:
		return w.WriteFloat64(float64(val))
	case float64:
		return w.WriteFloat64(val)
	case int:
		return w.WriteIntAny(int64(val))
	case int8:
		return w.WriteIntAny(int64(val))
	case int16:
		return w.WriteIntAny(int64(val))
	case int32:
		return w.WriteIntAny(int64(val))
	case int64:
		return w.WriteIntAny(val)
	case uint:
		return w.WriteUintAny(uint64(val))
	case uint8:
		return w.WriteUintAny(uint64(val))
	case uint16:
		return w.WriteUintAny(uint64(val))
	case uint32:
		return w.WriteUintAny(uint64(val))
	case uint64:
		return w.WriteUintAny(val)
	default:
		return errs.ErrUnsupportedHostType
	}
}
