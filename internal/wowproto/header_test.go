package wowproto

import "testing"

// Property law 5: parse(build(size, opcode, body)) round-trips, and the
// extended header is used iff payload+opcode exceeds 0x7FFF.
func TestServerHeaderRoundTripShort(t *testing.T) {
	h := BuildServerHeader(10, 0x0051)
	if len(h) != 4 {
		t.Fatalf("expected short 4-byte header, got %d bytes", len(h))
	}
	got, err := ParseServerHeader(h)
	if err != nil {
		t.Fatal(err)
	}
	if got.Size != 10 || got.Opcode != 0x0051 {
		t.Fatalf("got %+v", got)
	}
}

// Scenario C: payload length 0x00C000 and opcode 0x01AB.
func TestServerHeaderScenarioCExtended(t *testing.T) {
	payload := 0x00C000 - 2 // BuildServerHeader adds +2 back, so undo it here
	h := BuildServerHeader(payload, 0x01AB)
	if len(h) != 5 {
		t.Fatalf("expected extended 5-byte header, got %d bytes", len(h))
	}
	got, err := ParseServerHeader(h)
	if err != nil {
		t.Fatal(err)
	}
	if got.Size != 0x00BFFE {
		t.Fatalf("size = 0x%X, want 0x00BFFE", got.Size)
	}
	if got.Opcode != 0x01AB {
		t.Fatalf("opcode = 0x%X, want 0x01AB", got.Opcode)
	}
}

func TestServerHeaderShortFormBoundary(t *testing.T) {
	// payload+2 == 0x7FFF is still short form; 0x8000 tips into extended.
	h := BuildServerHeader(0x7FFF-2, 0x0001)
	if len(h) != 4 {
		t.Fatalf("boundary case should stay short form, got %d bytes", len(h))
	}
	h2 := BuildServerHeader(0x8000-2, 0x0001)
	if len(h2) != 5 {
		t.Fatalf("just past boundary should use extended form, got %d bytes", len(h2))
	}
}

func TestClientHeaderWotLK(t *testing.T) {
	h := BuildClientHeader(WotLK, 8, 0x01ED)
	if len(h) != 4 {
		t.Fatalf("WotLK client header must be 4 bytes, got %d", len(h))
	}
	size := int(h[0])<<8 | int(h[1])
	if size != 8+2 {
		t.Fatalf("size = %d, want %d", size, 10)
	}
	opcode := uint16(h[3])<<8 | uint16(h[2])
	if opcode != 0x01ED {
		t.Fatalf("opcode = 0x%X, want 0x01ED", opcode)
	}
}

func TestClientHeaderPreWotLK(t *testing.T) {
	h := BuildClientHeader(Vanilla, 8, 0x37)
	if len(h) != 6 {
		t.Fatalf("pre-WotLK client header must be 6 bytes, got %d", len(h))
	}
	size := int(h[0])<<8 | int(h[1])
	if size != 8+4 {
		t.Fatalf("size = %d, want %d", size, 12)
	}
}

func TestIsExtendedServerHeader(t *testing.T) {
	if IsExtendedServerHeader(0x00) {
		t.Fatal("0x00 must not be extended")
	}
	if !IsExtendedServerHeader(0x80) {
		t.Fatal("0x80 must be extended")
	}
}
