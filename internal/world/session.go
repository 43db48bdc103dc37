package world

import (
	"encoding/binary"

	"wowbridge/internal/bignum"
	"wowbridge/internal/headercrypt"
)

// State is the world client's position in the post-connect handshake.
// Transitions are driven solely by received opcodes (property law 6).
type State int

const (
	Connecting State = iota
	AwaitingChallenge
	AwaitingAuthResponse
	EnumeratingChars
	LoggingIn
	InWorld
	Closing
)

// sessionState is everything owned exclusively by one world session's
// goroutine: never read or written from any other goroutine.
type sessionState struct {
	sessionKey    []byte
	serverSeed    uint32
	clientSeed    uint32
	characterGUID uint64
	inWorld       bool
	headerCrypt   headercrypt.Crypt

	names    *NameCache
	channels map[string]bool
	roster   []RosterMember
	pending  *pendingRequests
}

func newSessionState(sessionKey []byte) *sessionState {
	return &sessionState{
		sessionKey: sessionKey,
		clientSeed: randomClientSeed(),
		names:      NewNameCache(),
		channels:   make(map[string]bool),
		pending:    newPendingRequests(),
	}
}

// randomClientSeed draws a 31-bit non-negative seed from a cryptographically
// secure source, matching the server's expectation that the top bit is
// never set.
func randomClientSeed() uint32 {
	return binary.BigEndian.Uint32(bignum.RandBytes(4)) & 0x7FFFFFFF
}
