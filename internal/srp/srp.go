// Package srp implements the client half of the non-standard SRP6 variant
// used by the realm logon handshake: little-endian byte order throughout,
// k = 3 fixed, and an interleaved-SHA1 session key derivation. It is not
// interoperable with RFC 5054 SRP-6a implementations — the byte order and
// interleaving are protocol-specific.
package srp

import (
	"crypto/sha1"
	"math/big"
	"strings"

	"wowbridge/internal/bignum"
)

// multiplier k from the legacy SRP-6 construction (not SRP-6a's H(N,g)).
var multiplier = big.NewInt(3)

// aBytes is the length of the client's private ephemeral a.
const aBytes = 19

// fieldSize is the fixed width (in bytes) of A, B, N and s on the wire.
const fieldSize = 32

// Client holds the client's private ephemeral across step1.
type Client struct {
	a *big.Int
}

// NewClient draws a fresh 19-byte private ephemeral.
func NewClient() *Client {
	return &Client{a: bignum.RandInt(aBytes)}
}

// Result is everything step1 derives: the public ephemeral, the session
// key, the client's proof, and the server proof the client expects back.
type Result struct {
	A                   *big.Int
	SessionKey          [40]byte
	M1                  [20]byte
	ExpectedServerProof [20]byte
}

// Step1 performs the full SRP6 key agreement described in spec §4.1 steps
// 1-8, given the server's challenge (B, g, N, s) and the account/password.
// account is the upper-cased ASCII account name as sent on the wire.
func (c *Client) Step1(account []byte, password string, B, g, N, s *big.Int) Result {
	A := new(big.Int).Exp(g, c.a, N)

	// u = SHA1(A_le32 || B_le32), little-endian integer
	h := sha1.New()
	h.Write(bignum.ToBytes(A, fieldSize, true))
	h.Write(bignum.ToBytes(B, fieldSize, true))
	u := bignum.FromBytes(h.Sum(nil), true)

	// p = SHA1(account ":" UPPER(password))
	h = sha1.New()
	h.Write(account)
	h.Write([]byte(":"))
	h.Write([]byte(strings.ToUpper(password)))
	p := h.Sum(nil)

	// x = SHA1(s_le32 || p), little-endian integer
	h = sha1.New()
	h.Write(bignum.ToBytes(s, fieldSize, true))
	h.Write(p)
	x := bignum.FromBytes(h.Sum(nil), true)

	// S = (B - (g^x mod N)*k)^(a + u*x) mod N
	gx := new(big.Int).Exp(g, x, N)
	gx.Mul(gx, multiplier)
	base := new(big.Int).Sub(B, gx)
	base.Mod(base, N)
	exp := new(big.Int).Add(c.a, new(big.Int).Mul(u, x))
	S := new(big.Int).Exp(base, exp, N)

	sessionKey := interleaveSessionKey(S)

	M1 := clientProof(account, N, g, s, A, B, sessionKey)
	expected := serverProof(A, M1, sessionKey)

	return Result{A: A, SessionKey: sessionKey, M1: M1, ExpectedServerProof: expected}
}

// interleaveSessionKey splits S's 32-byte little-endian form into even and
// odd indexed halves, hashes each with SHA1, and interleaves the two
// 20-byte digests into a 40-byte session key (spec §4.1 step 6).
func interleaveSessionKey(S *big.Int) [40]byte {
	t := bignum.ToBytes(S, fieldSize, true)
	var t1, t2 [16]byte
	for i := 0; i < 16; i++ {
		t1[i] = t[i*2]
		t2[i] = t[i*2+1]
	}
	h1 := sha1.Sum(t1[:])
	h2 := sha1.Sum(t2[:])
	var k [40]byte
	for i := 0; i < 20; i++ {
		k[i*2] = h1[i]
		k[i*2+1] = h2[i]
	}
	return k
}

// clientProof computes M1 = SHA1((hN xor hG) || SHA1(account) || s || A || B || K).
func clientProof(account []byte, N, g, s, A, B *big.Int, sessionKey [40]byte) [20]byte {
	hN := sha1.Sum(bignum.ToBytes(N, fieldSize, true))
	hG := sha1.Sum(bignum.ToBytes(g, 1, false))
	var hNxorG [20]byte
	for i := range hNxorG {
		hNxorG[i] = hN[i] ^ hG[i]
	}
	hAccount := sha1.Sum(account)

	h := sha1.New()
	h.Write(hNxorG[:])
	h.Write(hAccount[:])
	h.Write(bignum.ToBytes(s, fieldSize, true))
	h.Write(bignum.ToBytes(A, fieldSize, true))
	h.Write(bignum.ToBytes(B, fieldSize, true))
	h.Write(sessionKey[:])

	var m1 [20]byte
	copy(m1[:], h.Sum(nil))
	return m1
}

// serverProof computes the server proof the client expects:
// SHA1(A || M1 || K).
func serverProof(A *big.Int, M1 [20]byte, sessionKey [40]byte) [20]byte {
	h := sha1.New()
	h.Write(bignum.ToBytes(A, fieldSize, true))
	h.Write(M1[:])
	h.Write(sessionKey[:])
	var proof [20]byte
	copy(proof[:], h.Sum(nil))
	return proof
}

// GenerateLogonProofHash recomputes the expected server proof
// SHA1(A || M1 || K) from its inputs, the same construction Step1 uses for
// Result.ExpectedServerProof. It is not the CRC hash LOGON_PROOF submits,
// which internal/realm computes as SHA1(A || crc_bytes).
func GenerateLogonProofHash(A *big.Int, M1 [20]byte, sessionKey [40]byte) [20]byte {
	return serverProof(A, M1, sessionKey)
}
