package reader

import "github.com/go-tagbuf/tagbuf/internal/half"

func float16ToFloat64(bits uint16) float64 { return half.ToFloat64(bits) }
