package realm

import (
	"bufio"
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"math/big"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wowbridge/internal/bignum"
	"wowbridge/internal/identity"
	"wowbridge/internal/srp"
	"wowbridge/internal/wowerr"
	"wowbridge/internal/wowproto"
)

// State is the realm client's position in the logon handshake. Transitions
// are driven solely by received commands; an unexpected command in any
// state logs and closes (property law 6).
type State int

const (
	Connecting State = iota
	ChallengeSent
	ProofSent
	RealmListRequested
	HandingOff
	Done
)

// HandoffResult is everything the world client needs to continue the
// session: the chosen world address and the session key derived on this
// leg. The realm client discards its SRP6 state and does not retain a
// reference to whatever connects next.
type HandoffResult struct {
	Host       string
	Port       uint16
	RealmName  string
	RealmID    uint8
	SessionKey []byte
}

// Client drives one realm-server connection through the full handshake.
type Client struct {
	conn                net.Conn
	r                    *bufio.Reader
	ident                identity.Session
	log                  zerolog.Logger
	state                State
	expectedServerProof  [20]byte
}

// Dial connects to the realm host:port named in ident and returns a Client
// ready to run the handshake.
func Dial(ctx context.Context, ident identity.Session, log zerolog.Logger) (*Client, error) {
	addr := net.JoinHostPort(ident.RealmHost, strconv.Itoa(int(ident.RealmPort)))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, wowerr.Wrap(wowerr.TransportError, "dial realm server", err)
	}
	return &Client{conn: conn, r: bufio.NewReader(conn), ident: ident, log: log, state: Connecting}, nil
}

// Close releases the underlying socket.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Run executes the handshake to completion and returns the hand-off
// result, or a classified error on failure.
func (c *Client) Run(ctx context.Context) (HandoffResult, error) {
	_ = c.conn.SetDeadline(time.Now().Add(idleTimeout))

	if err := c.sendLogonChallenge(); err != nil {
		return HandoffResult{}, err
	}
	c.state = ChallengeSent

	sessionKey, err := c.readLogonChallengeAndSendProof()
	if err != nil {
		return HandoffResult{}, err
	}
	c.state = ProofSent

	if err := c.readLogonProof(sessionKey); err != nil {
		return HandoffResult{}, err
	}
	c.state = RealmListRequested

	if err := c.requestRealmList(); err != nil {
		return HandoffResult{}, err
	}

	result, err := c.readRealmList(sessionKey)
	if err != nil {
		return HandoffResult{}, err
	}
	c.state = HandingOff
	_ = c.Close()
	c.state = Done
	return result, nil
}

func (c *Client) sendLogonChallenge() error {
	account := c.ident.Account
	size := 30 + len(account)

	protocolVersion := uint8(8)
	if c.ident.Expansion == wowproto.Vanilla {
		protocolVersion = 3
	}

	version := strings.Split(c.ident.Version, ".")
	var v0, v1, v2 uint8
	if len(version) == 3 {
		if n, err := strconv.Atoi(version[0]); err == nil {
			v0 = uint8(n)
		}
		if n, err := strconv.Atoi(version[1]); err == nil {
			v1 = uint8(n)
		}
		if n, err := strconv.Atoi(version[2]); err == nil {
			v2 = uint8(n)
		}
	}

	w := wowproto.NewWriter()
	w.U8(protocolVersion)
	w.U16LE(uint16(size))
	w.RawBytes(padTag("WoW", 4))
	w.U8(v0).U8(v1).U8(v2)
	w.U16LE(c.ident.RealmBuild)
	w.RawBytes(padTag("x86", 4))
	w.RawBytes(padTag(c.ident.Platform.String(), 4))
	w.RawBytes(padTag(c.ident.Locale, 4))
	w.U32LE(0) // timezone
	w.RawBytes([]byte{127, 0, 0, 1})
	w.U8(uint8(len(account)))
	w.RawBytes(account)

	packet := append([]byte{cmdAuthLogonChallenge}, w.Bytes()...)
	_, err := c.conn.Write(packet)
	if err != nil {
		return wowerr.Wrap(wowerr.TransportError, "send LOGON_CHALLENGE", err)
	}
	return nil
}

// padTag right-pads an ASCII tag with zero bytes to width n.
func padTag(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

func (c *Client) readCommand(expect uint8) error {
	id, err := c.r.ReadByte()
	if err != nil {
		return wowerr.Wrap(wowerr.TransportError, "read realm command", err)
	}
	if id != expect {
		return wowerr.New(wowerr.ProtocolError, fmt.Sprintf("unexpected realm command 0x%02X, want 0x%02X", id, expect))
	}
	return nil
}

func (c *Client) readLogonChallengeAndSendProof() ([]byte, error) {
	if err := c.readCommand(cmdAuthLogonChallenge); err != nil {
		return nil, err
	}

	head := make([]byte, 2)
	if _, err := io.ReadFull(c.r, head); err != nil {
		return nil, wowerr.Wrap(wowerr.TransportError, "read LOGON_CHALLENGE head", err)
	}
	result := head[1]
	if !isSuccess(result) {
		kind := wowerr.AuthTransient
		if isFatalAuthResult(result) {
			kind = wowerr.AuthFatal
		}
		return nil, wowerr.New(kind, authResultMessage(result))
	}

	Bbytes := make([]byte, 32)
	if _, err := io.ReadFull(c.r, Bbytes); err != nil {
		return nil, wowerr.Wrap(wowerr.TransportError, "read B", err)
	}
	B := bignum.FromBytes(Bbytes, true)

	gLenB := make([]byte, 1)
	if _, err := io.ReadFull(c.r, gLenB); err != nil {
		return nil, wowerr.Wrap(wowerr.TransportError, "read g_len", err)
	}
	gBytes := make([]byte, gLenB[0])
	if _, err := io.ReadFull(c.r, gBytes); err != nil {
		return nil, wowerr.Wrap(wowerr.TransportError, "read g", err)
	}
	g := bignum.FromBytes(gBytes, true)

	nLenB := make([]byte, 1)
	if _, err := io.ReadFull(c.r, nLenB); err != nil {
		return nil, wowerr.Wrap(wowerr.TransportError, "read N_len", err)
	}
	nBytes := make([]byte, nLenB[0])
	if _, err := io.ReadFull(c.r, nBytes); err != nil {
		return nil, wowerr.Wrap(wowerr.TransportError, "read N", err)
	}
	N := bignum.FromBytes(nBytes, true)

	saltBytes := make([]byte, 32)
	if _, err := io.ReadFull(c.r, saltBytes); err != nil {
		return nil, wowerr.Wrap(wowerr.TransportError, "read salt", err)
	}
	salt := bignum.FromBytes(saltBytes, true)

	skipBuf := make([]byte, 16)
	if _, err := io.ReadFull(c.r, skipBuf); err != nil {
		return nil, wowerr.Wrap(wowerr.TransportError, "read challenge padding", err)
	}

	secFlagB := make([]byte, 1)
	if _, err := io.ReadFull(c.r, secFlagB); err != nil {
		return nil, wowerr.Wrap(wowerr.TransportError, "read security flag", err)
	}
	if secFlagB[0] != 0x00 {
		return nil, wowerr.New(wowerr.AuthFatal, "two-factor authentication is not supported")
	}

	client := srp.NewClient()
	res := client.Step1(c.ident.Account, c.ident.Password, B, g, N, salt)

	crc := crcHashFor(c.ident.RealmBuild, c.ident.Platform == identity.Windows)

	w := wowproto.NewWriter()
	w.RawBytes(bignum.ToBytes(res.A, 32, true))
	w.RawBytes(res.M1[:])
	w.RawBytes(logonProofCRC(res.A, crc))
	w.U8(0)
	w.U8(secFlagB[0])

	packet := append([]byte{cmdAuthLogonProof}, w.Bytes()...)
	if _, err := c.conn.Write(packet); err != nil {
		return nil, wowerr.Wrap(wowerr.TransportError, "send LOGON_PROOF", err)
	}

	c.expectedServerProof = res.ExpectedServerProof
	return res.SessionKey[:], nil
}

// logonProofCRC computes the CRC-validation hash LOGON_PROOF submits
// alongside M1: SHA1(A_le32 || crc_bytes).
func logonProofCRC(A *big.Int, crc []byte) []byte {
	h := sha1.New()
	h.Write(bignum.ToBytes(A, 32, true))
	h.Write(crc)
	return h.Sum(nil)
}

func (c *Client) readLogonProof(sessionKey []byte) error {
	if err := c.readCommand(cmdAuthLogonProof); err != nil {
		return err
	}
	resultB := make([]byte, 1)
	if _, err := io.ReadFull(c.r, resultB); err != nil {
		return wowerr.Wrap(wowerr.TransportError, "read LOGON_PROOF result", err)
	}
	if !isSuccess(resultB[0]) {
		kind := wowerr.AuthTransient
		if isFatalAuthResult(resultB[0]) {
			kind = wowerr.AuthFatal
		}
		return wowerr.New(kind, authResultMessage(resultB[0]))
	}

	serverProof := make([]byte, 20)
	if _, err := io.ReadFull(c.r, serverProof); err != nil {
		return wowerr.Wrap(wowerr.TransportError, "read server proof", err)
	}

	// Not fatal: the realm-list request proceeds regardless (spec §4.1).
	if string(serverProof) != string(c.expectedServerProof[:]) {
		c.log.Warn().Err(wowerr.New(wowerr.CryptoError, "SRP server proof mismatch")).Msg("realm handshake")
	}
	return nil
}

func (c *Client) requestRealmList() error {
	w := wowproto.NewWriter()
	w.U32LE(0)
	packet := append([]byte{cmdRealmList}, w.Bytes()...)
	if _, err := c.conn.Write(packet); err != nil {
		return wowerr.Wrap(wowerr.TransportError, "send REALM_LIST", err)
	}
	return nil
}

func (c *Client) readRealmList(sessionKey []byte) (HandoffResult, error) {
	if err := c.readCommand(cmdRealmList); err != nil {
		return HandoffResult{}, err
	}
	sizeB := make([]byte, 2)
	if _, err := io.ReadFull(c.r, sizeB); err != nil {
		return HandoffResult{}, wowerr.Wrap(wowerr.TransportError, "read realm list size", err)
	}
	size := int(sizeB[0]) | int(sizeB[1])<<8

	payload := make([]byte, size)
	if _, err := io.ReadFull(c.r, payload); err != nil {
		return HandoffResult{}, wowerr.Wrap(wowerr.TransportError, "read realm list payload", err)
	}

	return parseRealmList(payload, c.ident.RealmName, sessionKey)
}

// parseRealmList scans a REALM_LIST response payload for the first entry
// whose name matches wantRealm case-insensitively. It has no socket
// dependency so the realm-selection logic (Scenario D) can be tested
// directly against a hand-built payload.
func parseRealmList(payload []byte, wantRealm string, sessionKey []byte) (HandoffResult, error) {
	r := wowproto.NewReader(payload)
	if _, err := r.U32LE(); err != nil {
		return HandoffResult{}, wowerr.Wrap(wowerr.ProtocolError, "realm list header", err)
	}
	numRealms, err := r.U8()
	if err != nil {
		return HandoffResult{}, wowerr.Wrap(wowerr.ProtocolError, "realm list count", err)
	}

	for i := uint8(0); i < numRealms; i++ {
		if err := r.Skip(3); err != nil {
			return HandoffResult{}, wowerr.Wrap(wowerr.ProtocolError, "realm entry type", err)
		}
		if _, err := r.U8(); err != nil { // flags
			return HandoffResult{}, wowerr.Wrap(wowerr.ProtocolError, "realm entry flags", err)
		}
		name, err := r.CString()
		if err != nil {
			return HandoffResult{}, wowerr.Wrap(wowerr.ProtocolError, "realm entry name", err)
		}
		address, err := r.CString()
		if err != nil {
			return HandoffResult{}, wowerr.Wrap(wowerr.ProtocolError, "realm entry address", err)
		}
		if err := r.Skip(4 + 1 + 1); err != nil { // population, characters, timezone
			return HandoffResult{}, wowerr.Wrap(wowerr.ProtocolError, "realm entry tail", err)
		}
		realmID, err := r.U8()
		if err != nil {
			return HandoffResult{}, wowerr.Wrap(wowerr.ProtocolError, "realm entry id", err)
		}

		if strings.EqualFold(wantRealm, name) {
			host, portStr, ok := strings.Cut(address, ":")
			if !ok {
				return HandoffResult{}, wowerr.New(wowerr.ProtocolError, "realm address missing port")
			}
			port, _ := strconv.Atoi(portStr)
			return HandoffResult{
				Host:       host,
				Port:       uint16(port & 0xFFFF),
				RealmName:  name,
				RealmID:    realmID,
				SessionKey: sessionKey,
			}, nil
		}
	}

	return HandoffResult{}, wowerr.New(wowerr.AuthFatal, fmt.Sprintf("realm %q not found in realm list", wantRealm))
}

// idleTimeout bounds the whole realm handshake: Run sets one deadline this
// far ahead when it starts, after which reads and writes fail and the
// reconnect controller retries.
const idleTimeout = 60 * time.Second
