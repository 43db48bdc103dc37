package headercrypt

import "testing"

// Property law 3: for any key and any sequence of header-sized chunks,
// decrypting an encrypted chunk on a fresh receive state yields the
// original bytes, and send/receive state are tracked independently.
func TestLegacyRoundTrip(t *testing.T) {
	key := make([]byte, 40)
	for i := range key {
		key[i] = byte(i * 7)
	}

	sender := NewLegacyCrypt(key)
	receiver := NewLegacyCrypt(key)

	chunks := [][]byte{
		{0x00, 0x01, 0x02, 0x03},
		{0xAA, 0xBB, 0xCC, 0xDD, 0xEE},
		{0x10, 0x20, 0x30, 0x40},
	}

	for i, chunk := range chunks {
		original := append([]byte(nil), chunk...)
		sender.EncryptHeader(chunk)
		receiver.DecryptHeader(chunk)
		for j := range chunk {
			if chunk[j] != original[j] {
				t.Fatalf("chunk %d byte %d: got %#x, want %#x", i, j, chunk[j], original[j])
			}
		}
	}
}

func TestLegacySendReceiveStatesIndependent(t *testing.T) {
	key := []byte{1, 2, 3, 4, 5}
	c := NewLegacyCrypt(key)

	c.EncryptHeader([]byte{0x00, 0x00, 0x00, 0x00})
	c.EncryptHeader([]byte{0x00, 0x00, 0x00, 0x00})

	if c.sendIndex != 8 {
		t.Fatalf("sendIndex = %d, want 8 after two 4-byte headers", c.sendIndex)
	}
	if c.recvIndex != 0 {
		t.Fatalf("recvIndex = %d, want 0: receive state must not move on encrypt", c.recvIndex)
	}

	c.DecryptHeader([]byte{0x00, 0x00, 0x00, 0x00})
	if c.recvIndex != 4 {
		t.Fatalf("recvIndex = %d, want 4 after one decrypted header", c.recvIndex)
	}
	if c.sendIndex != 8 {
		t.Fatalf("sendIndex = %d, want unchanged at 8: send state must not move on decrypt", c.sendIndex)
	}
}
