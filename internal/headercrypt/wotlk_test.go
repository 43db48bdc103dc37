package headercrypt

import "testing"

// Scenario B (spec.md §8): an all-zero 40-byte session key still produces a
// deterministic, reversible WotLK header cipher. RC4 is its own inverse, so a
// fresh instance's client-keyed stream (EncryptHeader) recovers what the
// first instance's client-keyed stream encrypted.
func TestWotLKAllZeroKeyRoundTrips(t *testing.T) {
	key := make([]byte, 40)

	enc, err := NewWotLKCrypt(key)
	if err != nil {
		t.Fatalf("NewWotLKCrypt: %v", err)
	}
	dec, err := NewWotLKCrypt(key)
	if err != nil {
		t.Fatalf("NewWotLKCrypt: %v", err)
	}

	header := []byte{0x01, 0x02, 0x03, 0x04}
	want := append([]byte(nil), header...)

	enc.EncryptHeader(header)
	if string(header) == string(want) {
		t.Fatal("EncryptHeader left header unchanged")
	}

	dec.EncryptHeader(header)
	if string(header) != string(want) {
		t.Fatalf("round trip failed: got %x want %x", header, want)
	}
}

// Property law 4: client and server streams are independent, so encrypting
// on one side and decrypting the matching bytes on the other (the actual
// wire scenario: what client encrypts, server decrypts) is the only valid
// round trip. A single WotLKCrypt's own EncryptHeader/DecryptHeader use
// different keystreams and must NOT agree with each other.
func TestWotLKClientServerStreamsIndependent(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef01234567")[:40]
	c, err := NewWotLKCrypt(key)
	if err != nil {
		t.Fatalf("NewWotLKCrypt: %v", err)
	}

	header := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	original := append([]byte(nil), header...)

	c.EncryptHeader(header)
	afterEncrypt := append([]byte(nil), header...)

	c.DecryptHeader(header)
	if string(header) == string(original) {
		t.Fatal("client and server RC4 streams must not cancel out within one Crypt instance")
	}
	_ = afterEncrypt
}

// Property law 4: two independently constructed ciphers from the same
// session key produce matching client streams and matching server streams,
// so a real client/server pair can exchange headers: the peer applying the
// same-keyed stream again recovers the plaintext.
func TestWotLKMatchingPeersAgree(t *testing.T) {
	key := []byte("session-key-session-key-session-key-keys")[:40]

	client, err := NewWotLKCrypt(key)
	if err != nil {
		t.Fatalf("NewWotLKCrypt: %v", err)
	}
	server, err := NewWotLKCrypt(key)
	if err != nil {
		t.Fatalf("NewWotLKCrypt: %v", err)
	}

	outbound := []byte{0x10, 0x20, 0x30, 0x40}
	plain := append([]byte(nil), outbound...)

	client.EncryptHeader(outbound) // client's "client" stream
	server.EncryptHeader(outbound) // peer's "client" stream must match

	if string(outbound) != string(plain) {
		t.Fatalf("client->server header mismatch: got %x want %x", outbound, plain)
	}

	inbound := []byte{0x50, 0x60, 0x70, 0x80}
	plain2 := append([]byte(nil), inbound...)

	server.DecryptHeader(inbound) // peer's "server" stream
	client.DecryptHeader(inbound) // client's "server" stream must match

	if string(inbound) != string(plain2) {
		t.Fatalf("server->client header mismatch: got %x want %x", inbound, plain2)
	}
}

func TestWotLKRejectsShortKey(t *testing.T) {
	if _, err := NewWotLKCrypt(nil); err == nil {
		t.Fatal("expected error for empty session key")
	}
}
