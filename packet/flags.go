package packet

// Flags is the one-byte header bitfield. The zero value is not a valid
// Flags; use NewFlags for the protocol default (FIRST|LAST set).
type Flags uint8

const (
	flagFirst    uint8 = 0x01
	flagLast     uint8 = 0x02
	flagMultiple uint8 = 0x04
	flagInOrder  uint8 = 0x08
	flagAck      uint8 = 0x10
)

// NewFlags returns the default Flags: FIRST and LAST set, everything else clear.
func NewFlags() Flags {
	return Flags(flagFirst | flagLast)
}

func (f Flags) isset(bit uint8) bool { return uint8(f)&bit != 0 }
func (f Flags) set(bit uint8) Flags  { return Flags(uint8(f) | bit) }
func (f Flags) unset(bit uint8) Flags {
	return Flags(uint8(f) &^ bit)
}

func (f Flags) SetFirst() Flags   { return f.set(flagFirst) }
func (f Flags) UnsetFirst() Flags { return f.unset(flagFirst) }
func (f Flags) IsFirst() bool     { return f.isset(flagFirst) }

func (f Flags) SetLast() Flags   { return f.set(flagLast) }
func (f Flags) UnsetLast() Flags { return f.unset(flagLast) }
func (f Flags) IsLast() bool     { return f.isset(flagLast) }

func (f Flags) SetMultiple() Flags   { return f.set(flagMultiple) }
func (f Flags) UnsetMultiple() Flags { return f.unset(flagMultiple) }
func (f Flags) IsMultiple() bool     { return f.isset(flagMultiple) }

func (f Flags) SetInOrder() Flags   { return f.set(flagInOrder) }
func (f Flags) UnsetInOrder() Flags { return f.unset(flagInOrder) }
func (f Flags) IsInOrder() bool     { return f.isset(flagInOrder) }

func (f Flags) SetAck() Flags   { return f.set(flagAck) }
func (f Flags) UnsetAck() Flags { return f.unset(flagAck) }
func (f Flags) IsAck() bool     { return f.isset(flagAck) }

// String renders the five flag bits as a fixed-width F/L/M/O/A indicator,
// using "_" for a clear bit.
func (f Flags) String() string {
	b := [5]byte{'_', '_', '_', '_', '_'}
	if f.IsFirst() {
		b[0] = 'F'
	}
	if f.IsLast() {
		b[1] = 'L'
	}
	if f.IsMultiple() {
		b[2] = 'M'
	}
	if f.IsInOrder() {
		b[3] = 'O'
	}
	if f.IsAck() {
		b[4] = 'A'
	}
	return string(b[:])
}
