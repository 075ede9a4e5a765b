package packet

import (
	"errors"

	"github.com/SiegeEngine/siege-net/internal/bin"
)

// HeaderLen is the fixed wire size of a Header, in bytes.
const HeaderLen = 4 + 4 + 4 + 2 + 1 + 1

// MaxRecvWindowSize is the largest legal recv_window_size value: the MTU the
// protocol is designed against.
const MaxRecvWindowSize = 1500

// ErrInvalidHeader is returned by Header.Validate when recv_window_size
// exceeds MaxRecvWindowSize or reserved is non-zero.
var ErrInvalidHeader = errors.New("packet: invalid header")

// Header is serialized exactly as laid out here: six fields, little-endian,
// fixed HeaderLen bytes. Field order on the wire matches field order here.
type Header struct {
	Timestamp      Timestamp
	SequenceNumber uint32
	InReplyTo      uint32
	RecvWindowSize uint16
	Flags          Flags
	reserved       uint8
}

// NewHeader builds a Header with the protocol-default Flags (FIRST|LAST)
// and reserved=0. inReplyTo of 0 means "none".
func NewHeader(ts Timestamp, seq uint32, inReplyTo uint32, recvWindowSize uint16) Header {
	return Header{
		Timestamp:      ts,
		SequenceNumber: seq,
		InReplyTo:      inReplyTo,
		RecvWindowSize: recvWindowSize,
		Flags:          NewFlags(),
		reserved:       0,
	}
}

// Validate reports whether the header satisfies the wire invariants:
// recv_window_size <= MaxRecvWindowSize and reserved == 0.
func (h Header) Validate() error {
	if h.RecvWindowSize > MaxRecvWindowSize {
		return ErrInvalidHeader
	}
	if h.reserved != 0 {
		return ErrInvalidHeader
	}
	return nil
}

// Encode appends the header's wire bytes to dst and returns the result.
func (h Header) Encode(dst []byte) []byte {
	var buf [HeaderLen]byte
	bin.PutU32LE(buf[0:4], uint32(h.Timestamp))
	bin.PutU32LE(buf[4:8], h.SequenceNumber)
	bin.PutU32LE(buf[8:12], h.InReplyTo)
	bin.PutU16LE(buf[12:14], h.RecvWindowSize)
	buf[14] = uint8(h.Flags)
	buf[15] = h.reserved
	return append(dst, buf[:]...)
}

// DecodeHeader reads a Header from the front of src, returning the number of
// bytes consumed. It does not validate; call Validate separately.
func DecodeHeader(src []byte) (Header, int, error) {
	if len(src) < HeaderLen {
		return Header{}, 0, ErrInvalidHeader
	}
	h := Header{
		Timestamp:      Timestamp(bin.U32LE(src[0:4])),
		SequenceNumber: bin.U32LE(src[4:8]),
		InReplyTo:      bin.U32LE(src[8:12]),
		RecvWindowSize: bin.U16LE(src[12:14]),
		Flags:          Flags(src[14]),
		reserved:       src[15],
	}
	return h, HeaderLen, nil
}
