package wowproto

import "testing"

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.U8(0xAB).U16LE(0x1234).U16BE(0x1234).U32LE(0xDEADBEEF).U32BE(0xDEADBEEF).
		U64LE(0x0102030405060708).F32LE(3.5).CString("hello").Zero(2).RawBytes([]byte{1, 2, 3})

	r := NewReader(w.Bytes())

	if v, err := r.U8(); err != nil || v != 0xAB {
		t.Fatalf("U8: %v %v", v, err)
	}
	if v, err := r.U16LE(); err != nil || v != 0x1234 {
		t.Fatalf("U16LE: %v %v", v, err)
	}
	if v, err := r.U16BE(); err != nil || v != 0x1234 {
		t.Fatalf("U16BE: %v %v", v, err)
	}
	if v, err := r.U32LE(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("U32LE: %v %v", v, err)
	}
	if v, err := r.U32BE(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("U32BE: %v %v", v, err)
	}
	if v, err := r.U64LE(); err != nil || v != 0x0102030405060708 {
		t.Fatalf("U64LE: %v %v", v, err)
	}
	if v, err := r.F32LE(); err != nil || v != 3.5 {
		t.Fatalf("F32LE: %v %v", v, err)
	}
	if v, err := r.CString(); err != nil || v != "hello" {
		t.Fatalf("CString: %v %v", v, err)
	}
	if err := r.Skip(2); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	rest, err := r.Bytes(3)
	if err != nil || string(rest) != "\x01\x02\x03" {
		t.Fatalf("Bytes: %v %v", rest, err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected reader exhausted, %d bytes left", r.Len())
	}
}

func TestReaderShortReadErrors(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.U32LE(); err == nil {
		t.Fatal("expected short-read error")
	}
}

func TestCStringUnterminated(t *testing.T) {
	r := NewReader([]byte("no-terminator"))
	if _, err := r.CString(); err == nil {
		t.Fatal("expected unterminated-cstring error")
	}
}
