package world

import (
	"crypto/sha1"

	"wowbridge/internal/identity"
	"wowbridge/internal/wowproto"
)

// wotlkAddonBlob is the fixed 215-byte compressed-addons payload every
// WotLK CMSG_AUTH_CHALLENGE carries; it is opaque to the core and reused
// verbatim for every connection.
var wotlkAddonBlob = []byte{
	0x9E, 0x02, 0x00, 0x00, 0x78, 0x9C, 0x75, 0xD2, 0xC1, 0x6A, 0xC3, 0x30, 0x0C, 0xC6, 0x71, 0xEF,
	0x29, 0x76, 0xE9, 0x9B, 0xEC, 0xB4, 0xB4, 0x50, 0xC2, 0xEA, 0xCB, 0xE2, 0x9E, 0x8B, 0x62, 0x7F,
	0x4B, 0x44, 0x6C, 0x39, 0x38, 0x4E, 0xB7, 0xF6, 0x3D, 0xFA, 0xBE, 0x65, 0xB7, 0x0D, 0x94, 0xF3,
	0x4F, 0x48, 0xF0, 0x47, 0xAF, 0xC6, 0x98, 0x26, 0xF2, 0xFD, 0x4E, 0x25, 0x5C, 0xDE, 0xFD, 0xC8,
	0xB8, 0x22, 0x41, 0xEA, 0xB9, 0x35, 0x2F, 0xE9, 0x7B, 0x77, 0x32, 0xFF, 0xBC, 0x40, 0x48, 0x97,
	0xD5, 0x57, 0xCE, 0xA2, 0x5A, 0x43, 0xA5, 0x47, 0x59, 0xC6, 0x3C, 0x6F, 0x70, 0xAD, 0x11, 0x5F,
	0x8C, 0x18, 0x2C, 0x0B, 0x27, 0x9A, 0xB5, 0x21, 0x96, 0xC0, 0x32, 0xA8, 0x0B, 0xF6, 0x14, 0x21,
	0x81, 0x8A, 0x46, 0x39, 0xF5, 0x54, 0x4F, 0x79, 0xD8, 0x34, 0x87, 0x9F, 0xAA, 0xE0, 0x01, 0xFD,
	0x3A, 0xB8, 0x9C, 0xE3, 0xA2, 0xE0, 0xD1, 0xEE, 0x47, 0xD2, 0x0B, 0x1D, 0x6D, 0xB7, 0x96, 0x2B,
	0x6E, 0x3A, 0xC6, 0xDB, 0x3C, 0xEA, 0xB2, 0x72, 0x0C, 0x0D, 0xC9, 0xA4, 0x6A, 0x2B, 0xCB, 0x0C,
	0xAF, 0x1F, 0x6C, 0x2B, 0x52, 0x97, 0xFD, 0x84, 0xBA, 0x95, 0xC7, 0x92, 0x2F, 0x59, 0x95, 0x4F,
	0xE2, 0xA0, 0x82, 0xFB, 0x2D, 0xAA, 0xDF, 0x73, 0x9C, 0x60, 0x49, 0x68, 0x80, 0xD6, 0xDB, 0xE5,
	0x09, 0xFA, 0x13, 0xB8, 0x42, 0x01, 0xDD, 0xC4, 0x31, 0x6E, 0x31, 0x0B, 0xCA, 0x5F, 0x7B, 0x7B,
	0x1C, 0x3E, 0x9E, 0xE1, 0x93, 0xC8, 0x8D,
}

// authChallengeDigest computes the proof SHA1 embedded in every era's
// CMSG_AUTH_CHALLENGE: account || 4 zero bytes || client_seed_be ||
// server_seed_be || session_key.
func authChallengeDigest(account []byte, clientSeed, serverSeed uint32, sessionKey []byte) []byte {
	h := sha1.New()
	h.Write(account)
	h.Write([]byte{0, 0, 0, 0})
	w := wowproto.NewWriter()
	w.U32BE(clientSeed)
	h.Write(w.Bytes())
	w = wowproto.NewWriter()
	w.U32BE(serverSeed)
	h.Write(w.Bytes())
	h.Write(sessionKey)
	return h.Sum(nil)
}

// BuildAuthChallengeBody constructs the era-specific CMSG_AUTH_CHALLENGE
// body (everything after the opcode). The WotLK field ordering — build,
// unknown, account, two BE fields, two LE zero fields, realm_id, a LE64
// constant — is pinned from a reference implementation per the documented
// open question (see DESIGN.md); Cataclysm and MoP reuse the WotLK shape
// since no other published layout was available to derive from.
func BuildAuthChallengeBody(ident identity.Session, clientSeed, serverSeed uint32, realmID uint8, sessionKey []byte) []byte {
	digest := authChallengeDigest(ident.Account, clientSeed, serverSeed, sessionKey)

	switch ident.Expansion {
	case wowproto.Vanilla, wowproto.TBC:
		w := wowproto.NewWriter()
		w.U32LE(uint32(ident.GameBuild))
		w.CString(string(ident.Account))
		w.U32BE(clientSeed)
		w.U32BE(serverSeed)
		w.RawBytes(digest)
		w.RawBytes(wotlkAddonBlob)
		return w.Bytes()

	default: // WotLK, Cataclysm, MoP
		w := wowproto.NewWriter()
		w.U16LE(0) // size placeholder, unused by this field-order variant
		w.U32LE(uint32(ident.GameBuild))
		w.U32LE(0) // unknown
		w.CString(string(ident.Account))
		w.U32BE(0)
		w.U32BE(clientSeed)
		w.U32LE(0)
		w.U32LE(0)
		w.U32LE(uint32(realmID))
		w.U64LE(3)
		w.RawBytes(digest)
		w.RawBytes(wotlkAddonBlob)
		return w.Bytes()
	}
}
