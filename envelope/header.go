package envelope

import (
	"github.com/go-tagbuf/tagbuf/endian"
	"github.com/go-tagbuf/tagbuf/errs"
	"github.com/go-tagbuf/tagbuf/format"
)

const (
	magic   uint16 = 0x7A4B
	version uint8  = 1

	flagCompressed = 0x01
	flagChecksumed = 0x02

	// HeaderSize is the fixed on-wire size of an envelope header in bytes.
	HeaderSize = 24
)

// header is the fixed-size prefix written ahead of every envelope payload.
//
//	offset 0-1   magic            uint16
//	offset 2     version          uint8
//	offset 3     flags            uint8
//	offset 4     compression kind uint8
//	offset 5-7   reserved         3 bytes, must be zero
//	offset 8-15  uncompressed len uint64
//	offset 16-23 checksum         uint64
type header struct {
	flags       uint8
	compression format.CompressionType
	rawLen      uint64
	checksum    uint64
}

func (h header) compressed() bool {
	return h.flags&flagCompressed != 0
}

func (h header) checksummed() bool {
	return h.flags&flagChecksumed != 0
}

// bytes serializes h into a fresh HeaderSize-byte slice.
func (h header) bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := endian.GetLittleEndianEngine()

	engine.PutUint16(b[0:2], magic)
	b[2] = version
	b[3] = h.flags
	b[4] = uint8(h.compression)
	// b[5:8] reserved, left zero
	engine.PutUint64(b[8:16], h.rawLen)
	engine.PutUint64(b[16:24], h.checksum)

	return b
}

// parseHeader parses the fixed header from the front of buf.
func parseHeader(buf []byte) (header, error) {
	if len(buf) < HeaderSize {
		return header{}, errs.ErrEnvelopeTooShort
	}

	engine := endian.GetLittleEndianEngine()

	if engine.Uint16(buf[0:2]) != magic {
		return header{}, errs.ErrInvalidMagicNumber
	}
	if buf[2] != version {
		return header{}, errs.ErrInvalidEnvelopeVersion
	}

	h := header{
		flags:       buf[3],
		compression: format.CompressionType(buf[4]),
		rawLen:      engine.Uint64(buf[8:16]),
		checksum:    engine.Uint64(buf[16:24]),
	}

	return h, nil
}
