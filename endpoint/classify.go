package endpoint

import "github.com/SiegeEngine/siege-net/packet"

// ClassifyMagicVersion turns the result of packet.ValidateMagicAndVersion
// into the error a caller should act on before attempting to open the
// datagram: nil on MagicOK, KindUpgradeRequired (carrying the version the
// remote is running) on MagicWrongVersion, and KindInvalidPacket otherwise.
func ClassifyMagicVersion(result packet.MagicResult, version uint32) error {
	switch result {
	case packet.MagicOK:
		return nil
	case packet.MagicWrongVersion:
		return NewUpgradeRequired(version)
	default:
		return newError(KindInvalidPacket, nil)
	}
}
