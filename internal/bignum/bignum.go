// Package bignum implements the fixed-width big-integer byte conventions
// used by the realm SRP6 handshake: values are carried as non-negative
// big.Int but serialized as byte arrays in a pinned endianness, the way
// the wire protocol expects rather than the way math/big prints them.
package bignum

import (
	"crypto/rand"
	"math/big"
)

// FromBytes decodes b as a non-negative integer. When reverse is true, b is
// treated as little-endian (the wire's native order for A/B/N/g/s) and is
// byte-reversed before the standard big-endian math/big decode.
func FromBytes(b []byte, reverse bool) *big.Int {
	if !reverse {
		return new(big.Int).SetBytes(b)
	}
	rev := make([]byte, len(b))
	for i, c := range b {
		rev[len(b)-1-i] = c
	}
	return new(big.Int).SetBytes(rev)
}

// ToBytes renders v as its minimal big-endian byte string and zero-pads it
// to reqSize. With reverse set this is the as_byte_array(req_size, reverse)
// convention: natural big-endian representation, leading zeros already
// stripped by math/big, reversed to little-endian, then padded on the
// right. Without reverse the padding goes on the left, so the result stays
// a fixed-width big-endian number that FromBytes decodes back to v.
func ToBytes(v *big.Int, reqSize int, reverse bool) []byte {
	raw := v.Bytes()
	out := make([]byte, len(raw))
	copy(out, raw)
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if len(out) < reqSize {
		padded := make([]byte, reqSize)
		if reverse {
			copy(padded, out)
		} else {
			copy(padded[reqSize-len(out):], out)
		}
		out = padded
	}
	return out
}

// RandBytes returns n cryptographically random bytes.
func RandBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("bignum: random source failed: " + err.Error())
	}
	return b
}

// RandInt returns a non-negative integer built from n cryptographically
// random bytes, interpreted big-endian (no wire byte order implied — the
// value is only ever used as a private exponent, never serialized).
func RandInt(n int) *big.Int {
	return new(big.Int).SetBytes(RandBytes(n))
}
