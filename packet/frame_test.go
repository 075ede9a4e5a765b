package packet

import "testing"

func TestValidateMagicAndVersion(t *testing.T) {
	const magic = 0xFF000 // pre-shifted into the high 20 bits
	const version = 0x18

	ok := EncodeMagicAndVersion(magic, version)
	if r := ValidateMagicAndVersion(ok, magic, version); r != MagicOK {
		t.Fatalf("got %v, want MagicOK", r)
	}

	wrongVersion := EncodeMagicAndVersion(magic, 0x0FE)
	if r := ValidateMagicAndVersion(wrongVersion, magic, version); r != MagicWrongVersion {
		t.Fatalf("got %v, want MagicWrongVersion", r)
	}

	invalid := EncodeMagicAndVersion(0, 0)
	if r := ValidateMagicAndVersion(invalid, magic, version); r != MagicInvalid {
		t.Fatalf("got %v, want MagicInvalid", r)
	}

	if r := ValidateMagicAndVersion([]byte{1, 2, 3}, magic, version); r != MagicInvalid {
		t.Fatalf("short buffer: got %v, want MagicInvalid", r)
	}
}
