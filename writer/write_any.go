package writer

// WriteUintAny emits v using the canonical-kind rule: values in [0,7] use
// the inline SmallUint form; otherwise the narrowest VarIntUnsigned form.
func (w *Writer) WriteUintAny(v uint64) error {
	if v <= 7 {
		return w.WriteSmallUint(uint8(v))
	}

	return w.WriteVarIntUnsigned(v)
}

// WriteIntAny emits v using the canonical-kind rule: positive integers in
// [1,7] use SmallIntPositive, negative integers with magnitude in [1,7] use
// SmallIntNegative, zero uses SmallUint, otherwise the narrowest
// VarIntSigned* form.
func (w *Writer) WriteIntAny(v int64) error {
	switch {
	case v == 0:
		return w.WriteSmallUint(0)
	case v >= 1 && v <= 7:
		return w.WriteSmallIntPositive(uint8(v))
	case v <= -1 && v >= -7:
		return w.WriteSmallIntNegative(uint8(-v))
	default:
		return w.WriteVarIntSigned(v)
	}
}

// WriteBytesAny emits b using the canonical-kind rule: length <= 7 uses the
// inline SmallBytes form; otherwise VarIntBytes.
func (w *Writer) WriteBytesAny(b []byte) error {
	if len(b) <= 7 {
		return w.WriteSmallBytes(b)
	}

	return w.WriteVarIntBytes(b)
}

// WriteStringAny emits s as a byte string using the canonical-kind rule.
func (w *Writer) WriteStringAny(s string) error {
	return w.WriteBytesAny([]byte(s))
}
