package headercrypt

import (
	"crypto/hmac"
	"crypto/rc4"
	"crypto/sha1"
	"fmt"
)

// serverSeed and clientSeed are the fixed HMAC keys the WotLK-and-later
// header cipher derives its two RC4 streams from.
var (
	serverSeed = []byte{0xCC, 0x98, 0xAE, 0x04, 0xE8, 0x97, 0xEA, 0xCA, 0x12, 0xDD, 0xC0, 0x93, 0x42, 0x91, 0x53, 0x57}
	clientSeed = []byte{0xC2, 0xB3, 0x72, 0x3C, 0xC6, 0xAE, 0xD9, 0xB5, 0x34, 0x3C, 0x53, 0xEE, 0x2F, 0x43, 0x67, 0xCE}
)

const rc4WarmupBytes = 1024

// WotLKCrypt is the WotLK-and-later header cipher: two independent RC4
// streams, each keyed by HMAC-SHA1(seed, sessionKey) and pre-advanced by
// 1024 bytes of discarded keystream immediately after keying.
type WotLKCrypt struct {
	client *rc4.Cipher // outbound headers
	server *rc4.Cipher // inbound headers
}

// NewWotLKCrypt keys both RC4 streams from the 40-byte SRP6 session key.
// A key of any other length is rejected.
func NewWotLKCrypt(sessionKey []byte) (*WotLKCrypt, error) {
	if len(sessionKey) != 40 {
		return nil, fmt.Errorf("headercrypt: session key must be 40 bytes, got %d", len(sessionKey))
	}
	clientKey := hmacSHA1(clientSeed, sessionKey)
	serverKey := hmacSHA1(serverSeed, sessionKey)

	clientRC4, err := rc4.NewCipher(clientKey)
	if err != nil {
		return nil, err
	}
	serverRC4, err := rc4.NewCipher(serverKey)
	if err != nil {
		return nil, err
	}

	warmup := make([]byte, rc4WarmupBytes)
	clientRC4.XORKeyStream(warmup, warmup)
	warmup = make([]byte, rc4WarmupBytes)
	serverRC4.XORKeyStream(warmup, warmup)

	return &WotLKCrypt{client: clientRC4, server: serverRC4}, nil
}

func hmacSHA1(seed, key []byte) []byte {
	mac := hmac.New(sha1.New, seed)
	mac.Write(key)
	return mac.Sum(nil)
}

// EncryptHeader runs header through the client-keyed RC4 stream.
func (c *WotLKCrypt) EncryptHeader(header []byte) {
	c.client.XORKeyStream(header, header)
}

// DecryptHeader runs header through the server-keyed RC4 stream.
func (c *WotLKCrypt) DecryptHeader(header []byte) {
	c.server.XORKeyStream(header, header)
}
