package bignum

import (
	"bytes"
	"math/big"
	"testing"
)

func TestRoundTripBigEndian(t *testing.T) {
	v := big.NewInt(0x01020304)
	enc := ToBytes(v, 8, false)
	got := FromBytes(enc, false)
	if got.Cmp(v) != 0 {
		t.Fatalf("round trip mismatch: got %s want %s", got, v)
	}
}

func TestRoundTripLittleEndian(t *testing.T) {
	v := big.NewInt(0x01020304)
	enc := ToBytes(v, 8, true)
	// little-endian: low byte first
	if enc[0] != 0x04 || enc[1] != 0x03 {
		t.Fatalf("unexpected little-endian encoding: % x", enc)
	}
	got := FromBytes(enc, true)
	if got.Cmp(v) != 0 {
		t.Fatalf("round trip mismatch: got %s want %s", got, v)
	}
}

func TestToBytesPadsRight(t *testing.T) {
	v := big.NewInt(1)
	enc := ToBytes(v, 4, true)
	if !bytes.Equal(enc, []byte{1, 0, 0, 0}) {
		t.Fatalf("expected right-padded little-endian, got % x", enc)
	}
}

func TestToBytesStripsLeadingZero(t *testing.T) {
	// A value whose natural big-endian form has no leading zero byte
	// should round-trip exactly through req_size == natural length.
	v := new(big.Int).Lsh(big.NewInt(1), 255) // top bit set in a 32-byte field
	enc := ToBytes(v, 32, false)
	if len(enc) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(enc))
	}
	if FromBytes(enc, false).Cmp(v) != 0 {
		t.Fatalf("round trip mismatch for high-bit value")
	}
}

func TestRandBytesLength(t *testing.T) {
	b := RandBytes(19)
	if len(b) != 19 {
		t.Fatalf("expected 19 random bytes, got %d", len(b))
	}
}
