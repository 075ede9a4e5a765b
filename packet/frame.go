package packet

import "github.com/SiegeEngine/siege-net/internal/bin"

// MagicAndVersionLen is the size, in bytes, of the combined magic+version
// word at the front of every datagram.
const MagicAndVersionLen = 4

// MagicMask covers the high 20 bits of the combined word, where MAGIC lives.
const MagicMask uint32 = 0xFFFFF000

// VersionMask covers the low 12 bits of the combined word, where VERSION lives.
const VersionMask uint32 = 0x00000FFF

// MagicResult is the outcome of validating a datagram's magic+version word,
// before any decryption is attempted.
type MagicResult int

const (
	// MagicOK means magic and version both matched.
	MagicOK MagicResult = iota
	// MagicWrongVersion means magic matched but version differed.
	MagicWrongVersion
	// MagicInvalid means the datagram is too short or magic did not match;
	// it is not a Siege-net packet at all.
	MagicInvalid
)

// EncodeMagicAndVersion packs the combined wire word. Per this
// implementation's convention (see DESIGN.md), magic is supplied
// pre-shifted into the high 20 bits (e.g. 0xFF00000), and version occupies
// the low 12 bits; the two are simply OR-ed together.
func EncodeMagicAndVersion(magic, version uint32) []byte {
	word := (magic & MagicMask) | (version & VersionMask)
	buf := make([]byte, MagicAndVersionLen)
	bin.PutU32LE(buf, word)
	return buf
}

// ValidateMagicAndVersion reads the first 4 bytes of b and classifies them
// against expectedMagic (pre-shifted into the high 20 bits) and
// expectedVersion (occupying the low 12 bits). This check runs before
// decryption and never touches the session key.
func ValidateMagicAndVersion(b []byte, expectedMagic, expectedVersion uint32) MagicResult {
	if len(b) < MagicAndVersionLen {
		return MagicInvalid
	}
	word := bin.U32LE(b[:MagicAndVersionLen])
	magic := word & MagicMask
	version := word & VersionMask
	if magic != (expectedMagic & MagicMask) {
		return MagicInvalid
	}
	if version != (expectedVersion & VersionMask) {
		return MagicWrongVersion
	}
	return MagicOK
}
