package patch

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"

	"github.com/go-tagbuf/tagbuf/errs"
	"github.com/go-tagbuf/tagbuf/internal/half"
	"github.com/go-tagbuf/tagbuf/kind"
	"github.com/go-tagbuf/tagbuf/path"
	"github.com/go-tagbuf/tagbuf/reader"
	"github.com/go-tagbuf/tagbuf/writer"
)

// patchTypedArray rewrites val's packed payload with child's updates
// applied in place: every update must target a single element index (a
// further child path is PathTypeMismatch, an index beyond Count is
// IndexOutOfRange — typed arrays never upsert). Untouched spans of the
// payload are copied verbatim.
func patchTypedArray(w *writer.Writer, val reader.Value, child []pendingUpdate, depth int) error {
	patches := make(map[uint64]*pendingUpdate, len(child))
	for i := range child {
		p := &child[i]
		seg := p.segs[depth]
		if seg.Kind != path.IndexSegment || len(p.segs) != depth+1 {
			return errs.ErrPathTypeMismatch
		}
		if int(seg.Index) >= val.Count {
			return errs.ErrIndexOutOfRange
		}
		patches[seg.Index] = p
	}

	indices := make([]uint64, 0, len(patches))
	for idx := range patches {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	elemSize := val.ElemType.Size()
	var out bytes.Buffer
	cursor := 0
	for _, idx := range indices {
		p := patches[idx]
		off := int(idx) * elemSize
		out.Write(val.Raw[cursor:off])

		elemBytes, err := encodeScalarAs(val.ElemType, p.upd)
		if err != nil {
			return err
		}
		out.Write(elemBytes)
		p.upd.Applied = true

		cursor = off + elemSize
	}
	out.Write(val.Raw[cursor:])

	return w.WriteTypedArrayRaw(val.ElemType, val.Count, out.Bytes())
}

// encodeScalarAs runs upd's write_fn into a scratch Writer, decodes the
// resulting tagged scalar back out, and narrows it to elem's on-wire
// width. This is how a patch.Update (which only knows how to write a
// tagged value) supplies a raw typed-array element.
func encodeScalarAs(elem kind.ElemType, upd *Update) ([]byte, error) {
	var buf bytes.Buffer
	tmpW := writer.New(&buf)
	if err := upd.WriteFn(tmpW, upd.Ctx); err != nil {
		return nil, err
	}

	tmpR := reader.New(buf.Bytes())
	v, err := tmpR.Read()
	if err != nil {
		return nil, err
	}

	return narrowTo(elem, v)
}

func isFloatKind(k kind.Kind) bool {
	return k == kind.Float16 || k == kind.Float32 || k == kind.Float64
}

func isFloatElem(e kind.ElemType) bool {
	return e == kind.ElemF16 || e == kind.ElemF32 || e == kind.ElemF64
}

func narrowTo(elem kind.ElemType, v reader.Value) ([]byte, error) {
	if isFloatElem(elem) != isFloatKind(v.Kind) {
		return nil, errs.ErrUnsupportedElemCast
	}

	out := make([]byte, elem.Size())
	if isFloatElem(elem) {
		switch elem {
		case kind.ElemF16:
			binary.LittleEndian.PutUint16(out, half.FromFloat64(v.F64))
		case kind.ElemF32:
			binary.LittleEndian.PutUint32(out, math.Float32bits(float32(v.F64)))
		default:
			binary.LittleEndian.PutUint64(out, math.Float64bits(v.F64))
		}

		return out, nil
	}

	var u uint64
	switch v.Kind {
	case kind.SmallUint, kind.VarIntUnsigned, kind.Uint8, kind.Uint16, kind.Uint32, kind.Uint64:
		u = v.U64
	case kind.SmallIntPositive, kind.SmallIntNegative, kind.VarIntSignedPositive, kind.VarIntSignedNegative,
		kind.Int8, kind.Int16, kind.Int32, kind.Int64:
		u = uint64(v.I64)
	default:
		return nil, errs.ErrUnsupportedElemCast
	}

	switch elem {
	case kind.ElemU8, kind.ElemI8:
		out[0] = byte(u)
	case kind.ElemU16, kind.ElemI16:
		binary.LittleEndian.PutUint16(out, uint16(u))
	case kind.ElemU32, kind.ElemI32:
		binary.LittleEndian.PutUint32(out, uint32(u))
	default:
		binary.LittleEndian.PutUint64(out, u)
	}

	return out, nil
}
