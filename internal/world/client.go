package world

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"wowbridge/internal/bridge"
	"wowbridge/internal/headercrypt"
	"wowbridge/internal/identity"
	"wowbridge/internal/realm"
	"wowbridge/internal/wowerr"
	"wowbridge/internal/wowproto"
)

// pingInterval is the cadence of outbound CMSG_PING once InWorld.
const pingInterval = 30 * time.Second

// idleTimeout closes the session if no packet arrives for this long.
const idleTimeout = 60 * time.Second

// Client drives one world-server connection from CMSG_AUTH_CHALLENGE
// through the steady-state chat/guild loop. Protocol state (the handshake
// State plus sessionState) is touched only from Run's goroutine; other goroutines
// interact exclusively through the intents channel.
type Client struct {
	conn  net.Conn
	r     *bufio.Reader
	ident identity.Session
	hand  realm.HandoffResult
	host  bridge.Host
	log   zerolog.Logger
	state State
	sess  *sessionState

	intents chan func(*Client)
	done    chan struct{}
}

// Dial connects to the world server named in hand and returns a Client
// ready to run the post-login handshake.
func Dial(ctx context.Context, ident identity.Session, hand realm.HandoffResult, host bridge.Host, log zerolog.Logger) (*Client, error) {
	addr := net.JoinHostPort(hand.Host, strconv.Itoa(int(hand.Port)))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, wowerr.Wrap(wowerr.TransportError, "dial world server", err)
	}
	return &Client{
		conn:    conn,
		r:       bufio.NewReader(conn),
		ident:   ident,
		hand:    hand,
		host:    host,
		log:     log,
		state:   Connecting,
		sess:    newSessionState(hand.SessionKey),
		intents: make(chan func(*Client), 16),
		done:    make(chan struct{}),
	}, nil
}

// Close releases the underlying socket and unblocks Run.
func (c *Client) Close() error {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	return c.conn.Close()
}

// Run executes the full handshake and then the steady-state loop until the
// connection closes or Shutdown is called.
func (c *Client) Run(ctx context.Context) error {
	_ = c.conn.SetReadDeadline(time.Now().Add(idleTimeout))
	c.state = AwaitingChallenge

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	var pingSeq uint32

	for {
		select {
		case <-c.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-c.intents:
			fn(c)
			continue
		case <-ping.C:
			if c.sess.inWorld {
				pingSeq++
				if err := c.sendPing(pingSeq); err != nil {
					return err
				}
			}
			continue
		default:
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(idleTimeout))
		opcode, body, err := c.readPacket()
		if err != nil {
			if c.state == Closing {
				return nil
			}
			return err
		}

		if err := c.dispatch(opcode, body); err != nil {
			kind, _ := errKind(err)
			switch kind {
			case wowerr.AuthFatal:
				// Surfaced to host, no reconnect.
				c.host.OnDisconnected(err)
				return err
			case wowerr.AuthTransient:
				// Reconnect after the controller's fixed delay.
				c.log.Warn().Err(err).Msg("auth transient, ending session for reconnect")
				return err
			case wowerr.ProtocolError:
				// Logs and closes the session; recoverable.
				c.log.Error().Err(err).Msg("protocol error, closing session")
				return err
			case wowerr.RequestTimeout:
				// Contained to the request callback; the session stays up.
				c.log.Debug().Err(err).Msg("request timed out")
				continue
			default:
				// TransportError/CryptoError and anything unclassified
				// invalidate the session per the propagation rule.
				c.log.Error().Err(err).Msg("session error, closing session")
				return err
			}
		}
	}
}

func errKind(err error) (wowerr.Kind, bool) {
	if e, ok := err.(*wowerr.Error); ok {
		return e.Kind, true
	}
	return 0, false
}

// enqueue marshals fn onto the session goroutine, per the single-threaded
// cooperative concurrency model: any goroutine may call this, but fn only
// ever runs on Run's goroutine.
func (c *Client) enqueue(fn func(*Client)) {
	select {
	case c.intents <- fn:
	case <-c.done:
	}
}

func (c *Client) readPacket() (uint16, []byte, error) {
	headerLen := 4
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(c.r, header); err != nil {
		return 0, nil, wowerr.Wrap(wowerr.TransportError, "read world header", err)
	}

	if c.sess.headerCrypt != nil {
		c.sess.headerCrypt.DecryptHeader(header)
	}

	if wowproto.IsExtendedServerHeader(header[0]) {
		extra := make([]byte, 1)
		if _, err := io.ReadFull(c.r, extra); err != nil {
			return 0, nil, wowerr.Wrap(wowerr.TransportError, "read extended header byte", err)
		}
		if c.sess.headerCrypt != nil {
			c.sess.headerCrypt.DecryptHeader(extra)
		}
		header = append(header, extra[0])
	}

	parsed, err := wowproto.ParseServerHeader(header)
	if err != nil {
		return 0, nil, wowerr.Wrap(wowerr.ProtocolError, "parse world header", err)
	}

	var body []byte
	if parsed.Size > 0 {
		body = make([]byte, parsed.Size)
		if _, err := io.ReadFull(c.r, body); err != nil {
			return 0, nil, wowerr.Wrap(wowerr.TransportError, "read world body", err)
		}
	}
	return parsed.Opcode, body, nil
}

func (c *Client) send(opcode uint32, payload []byte) error {
	header := wowproto.BuildClientHeader(c.ident.Expansion, len(payload), opcode)
	if c.sess.headerCrypt != nil {
		c.sess.headerCrypt.EncryptHeader(header)
	}
	if _, err := c.conn.Write(header); err != nil {
		return wowerr.Wrap(wowerr.TransportError, "write world header", err)
	}
	if _, err := c.conn.Write(payload); err != nil {
		return wowerr.Wrap(wowerr.TransportError, "write world body", err)
	}
	return nil
}

// sendUnencryptedFirstHeader sends CMSG_AUTH_CHALLENGE with its header in
// the clear even though the cipher is already initialized: the server
// expects the very first outbound header unencrypted (documented protocol
// quirk, preserved exactly).
func (c *Client) sendUnencryptedFirstHeader(opcode uint32, payload []byte) error {
	header := wowproto.BuildClientHeader(c.ident.Expansion, len(payload), opcode)
	if _, err := c.conn.Write(header); err != nil {
		return wowerr.Wrap(wowerr.TransportError, "write auth challenge header", err)
	}
	if _, err := c.conn.Write(payload); err != nil {
		return wowerr.Wrap(wowerr.TransportError, "write auth challenge body", err)
	}
	return nil
}

func (c *Client) dispatch(opcode uint16, body []byte) error {
	handler, ok := dispatchTable[opcode]
	if !ok {
		return nil // unhandled opcodes are ignored, not fatal
	}
	return handler(c, body)
}

type handlerFunc func(*Client, []byte) error

var dispatchTable = map[uint16]handlerFunc{
	SMsgAuthChallenge:    (*Client).handleAuthChallenge,
	SMsgAuthResponse:     (*Client).handleAuthResponse,
	SMsgCharEnum:         (*Client).handleCharEnum,
	SMsgLoginVerifyWorld: (*Client).handleLoginVerifyWorld,
	SMsgMessageChat:      (*Client).handleMessageChat,
	SMsgChannelNotify:    (*Client).handleChannelNotify,
	SMsgNameQuery:        (*Client).handleNameQuery,
	SMsgGuildQuery:       (*Client).handleGuildQuery,
	SMsgGuildRoster:      (*Client).handleGuildRoster,
	SMsgGuildEvent:       (*Client).handleGuildEvent,
	SMsgWho:              (*Client).handleWho,
	SMsgNotification:     (*Client).handleNotification,
	SMsgServerMessage:    (*Client).handleNotification,
	SMsgTimeSyncReq:      (*Client).handleTimeSyncReq,
	SMsgWardenData:       (*Client).handleWardenData,
	SMsgInvalidatePlayer: (*Client).handleInvalidatePlayer,
}

func (c *Client) handleAuthChallenge(body []byte) error {
	r := wowproto.NewReader(body)
	if _, err := r.U32LE(); err != nil { // unused
		return wowerr.Wrap(wowerr.ProtocolError, "auth challenge unused field", err)
	}
	serverSeed, err := r.U32BE()
	if err != nil {
		return wowerr.Wrap(wowerr.ProtocolError, "auth challenge server seed", err)
	}
	c.sess.serverSeed = serverSeed

	respBody := BuildAuthChallengeBody(c.ident, c.sess.clientSeed, serverSeed, c.hand.RealmID, c.sess.sessionKey)

	// Initialize the header cipher immediately before sending
	// CMSG_AUTH_CHALLENGE, but the packet's own header still goes out
	// unencrypted: the server expects the first header in clear.
	if c.ident.Expansion.UsesWotLKHeaderCrypt() {
		crypt, err := headercrypt.NewWotLKCrypt(c.sess.sessionKey)
		if err != nil {
			return wowerr.Wrap(wowerr.CryptoError, "init WotLK header cipher", err)
		}
		c.sess.headerCrypt = crypt
	} else {
		c.sess.headerCrypt = headercrypt.NewLegacyCrypt(c.sess.sessionKey)
	}

	if err := c.sendUnencryptedFirstHeader(CMsgAuthChallenge, respBody); err != nil {
		return err
	}
	c.state = AwaitingAuthResponse
	return nil
}

func (c *Client) handleAuthResponse(body []byte) error {
	if len(body) == 0 {
		return wowerr.New(wowerr.ProtocolError, "empty auth response")
	}
	code := AuthResponseCode(body[0])
	if code.IsSuccess() {
		c.state = EnumeratingChars
		return c.send(CMsgCharEnum, nil)
	}
	kind := wowerr.AuthTransient
	if code.IsFatal() {
		kind = wowerr.AuthFatal
	}
	return wowerr.New(kind, code.Message())
}

func (c *Client) handleCharEnum(body []byte) error {
	chars, err := ParseCharEnum(body, c.ident.Expansion.UsesWotLKHeaderCrypt())
	if err != nil {
		return err
	}
	found, ok := FindCharacter(chars, c.ident.Character)
	if !ok {
		return wowerr.New(wowerr.AuthFatal, fmt.Sprintf("character %q not found", c.ident.Character))
	}
	c.sess.characterGUID = found.GUID
	c.state = LoggingIn

	w := wowproto.NewWriter()
	w.U64LE(found.GUID)
	return c.send(CMsgPlayerLogin, w.Bytes())
}

func (c *Client) handleLoginVerifyWorld(body []byte) error {
	if c.sess.inWorld {
		return nil // property law 7: fires exactly once
	}
	c.sess.inWorld = true
	c.state = InWorld
	c.host.OnPresenceChange(bridge.Online, c.hand.RealmName)
	c.host.OnConnected(c.hand.RealmName)
	return nil
}

func (c *Client) handleMessageChat(body []byte) error {
	msg, err := DecodeMessageChat(body)
	if err != nil {
		return err
	}
	if !c.ident.AcceptsLanguage(msg.Lang) {
		return nil
	}
	sender, _ := c.sess.names.Get(msg.SenderGUID)
	c.host.OnChatReceived(bridge.ChatKind(msg.Type), sender, msg.Channel, msg.Text, msg.Lang)
	return nil
}

func (c *Client) handleChannelNotify(body []byte) error {
	r := wowproto.NewReader(body)
	notifyType, err := r.U8()
	if err != nil {
		return wowerr.Wrap(wowerr.ProtocolError, "channel notify type", err)
	}
	channel, err := r.CString()
	if err != nil {
		return wowerr.Wrap(wowerr.ProtocolError, "channel notify name", err)
	}
	const notifyJoined = 0x00
	const notifyLeft = 0x01
	switch notifyType {
	case notifyJoined:
		c.sess.channels[channel] = true
	case notifyLeft:
		delete(c.sess.channels, channel)
	}
	return nil
}

func (c *Client) handleNameQuery(body []byte) error {
	r := wowproto.NewReader(body)
	guid, err := r.U64LE()
	if err != nil {
		return wowerr.Wrap(wowerr.ProtocolError, "name query guid", err)
	}
	name, err := r.CString()
	if err != nil {
		return wowerr.Wrap(wowerr.ProtocolError, "name query name", err)
	}
	c.sess.names.Put(guid, name)
	c.host.OnNameResolved(guid, name)
	return nil
}

func (c *Client) handleGuildQuery(body []byte) error {
	// Guild name/rank cache is consulted only by the guild-MOTD query path;
	// the body's guild name cstring starts right after the guild GUID.
	r := wowproto.NewReader(body)
	if _, err := r.U32LE(); err != nil {
		return wowerr.Wrap(wowerr.ProtocolError, "guild query guid", err)
	}
	motd, err := r.CString()
	if err != nil {
		return wowerr.Wrap(wowerr.ProtocolError, "guild query motd", err)
	}
	c.sess.pending.resolveGuildMOTD(motd)
	return nil
}

func (c *Client) handleGuildRoster(body []byte) error {
	roster, err := DecodeGuildRoster(body)
	if err != nil {
		return err
	}
	online, offline := DiffRoster(c.sess.roster, roster)
	c.sess.roster = roster
	for _, m := range online {
		c.host.OnGuildEvent(bridge.GuildOnline, m.Name, "", "", "")
	}
	for _, m := range offline {
		c.host.OnGuildEvent(bridge.GuildOffline, m.Name, "", "", "")
	}
	return nil
}

func (c *Client) handleGuildEvent(body []byte) error {
	ev, err := DecodeGuildEvent(body)
	if err != nil {
		return err
	}
	kind, ok := guildEventKind(ev.Code)
	if !ok {
		return nil
	}
	var user, target, rank, message string
	if len(ev.Strings) > 0 {
		user = ev.Strings[0]
	}
	if len(ev.Strings) > 1 {
		target = ev.Strings[1]
	}
	if len(ev.Strings) > 2 {
		rank = ev.Strings[2]
	}
	if kind == bridge.GuildMOTD && len(ev.Strings) > 0 {
		message = ev.Strings[0]
		user, target, rank = "", "", ""
	}
	c.host.OnGuildEvent(kind, user, target, rank, message)
	return nil
}

func guildEventKind(code uint8) (bridge.GuildEventKind, bool) {
	switch code {
	case gePromotion:
		return bridge.GuildPromoted, true
	case geDemotion:
		return bridge.GuildDemoted, true
	case geJoined:
		return bridge.GuildJoined, true
	case geLeft:
		return bridge.GuildLeft, true
	case geRemoved:
		return bridge.GuildRemoved, true
	case geMOTD:
		return bridge.GuildMOTD, true
	case geSignedOn:
		return bridge.GuildOnline, true
	case geSignedOff:
		return bridge.GuildOffline, true
	default:
		return 0, false
	}
}

func (c *Client) handleWho(body []byte) error {
	r := wowproto.NewReader(body)
	if _, err := r.U32LE(); err != nil { // listed count
		return wowerr.Wrap(wowerr.ProtocolError, "who listed count", err)
	}
	total, err := r.U32LE()
	if err != nil {
		return wowerr.Wrap(wowerr.ProtocolError, "who total count", err)
	}
	entries := make([]bridge.WhoEntry, 0, total)
	for i := uint32(0); i < total; i++ {
		name, err := r.CString()
		if err != nil {
			break
		}
		if _, err := r.CString(); err != nil { // guild name
			break
		}
		level, _ := r.U32LE()
		class, _ := r.U32LE()
		race, _ := r.U32LE()
		_ = race
		zone, _ := r.U32LE()
		entries = append(entries, bridge.WhoEntry{Name: name, Level: level, Class: class, Zone: fmt.Sprintf("%d", zone)})
	}
	c.sess.pending.resolveWho(entries)
	return nil
}

func (c *Client) handleNotification(body []byte) error {
	if !c.ident.ServerMOTD {
		return nil
	}
	r := wowproto.NewReader(body)
	text, err := r.CString()
	if err != nil {
		return nil
	}
	c.host.OnChatReceived(bridge.ChatKind(0xFF), "", "", text, 0)
	return nil
}

func (c *Client) handleTimeSyncReq(body []byte) error {
	r := wowproto.NewReader(body)
	counter, err := r.U32LE()
	if err != nil {
		return wowerr.Wrap(wowerr.ProtocolError, "time sync counter", err)
	}
	w := wowproto.NewWriter()
	w.U32LE(counter)
	w.U32LE(uint32(time.Now().UnixMilli()))
	return c.send(CMsgTimeSyncResp, w.Bytes())
}

func (c *Client) handleWardenData(body []byte) error {
	// Acknowledge with an empty response; the bridge never attempts to
	// solve warden challenges.
	return c.send(CMsgWardenData, nil)
}

func (c *Client) handleInvalidatePlayer(body []byte) error {
	r := wowproto.NewReader(body)
	guid, err := r.U64LE()
	if err != nil {
		return wowerr.Wrap(wowerr.ProtocolError, "invalidate player guid", err)
	}
	c.sess.names.Invalidate(guid)
	return nil
}

func (c *Client) sendPing(seq uint32) error {
	w := wowproto.NewWriter()
	w.U32LE(seq)
	w.U32LE(0) // latency ms, unmeasured
	return c.send(CMsgPing, w.Bytes())
}

// SendChat implements bridge.Core: marshals onto the session goroutine and
// encodes CMSG_MESSAGECHAT.
func (c *Client) SendChat(kind bridge.ChatKind, channel, text string) error {
	errCh := make(chan error, 1)
	c.enqueue(func(cl *Client) {
		errCh <- cl.send(CMsgMessageChat, EncodeMessageChat(kind, channel, text))
	})
	select {
	case err := <-errCh:
		return err
	case <-c.done:
		return wowerr.New(wowerr.TransportError, "session closed")
	}
}

// QueryWho implements bridge.Core.
func (c *Client) QueryWho(ctx context.Context, namePrefix string) ([]bridge.WhoEntry, error) {
	return c.sess.pending.awaitWho(ctx, func(ch chan []bridge.WhoEntry) {
		c.enqueue(func(cl *Client) {
			cl.sess.pending.who = ch
			w := wowproto.NewWriter()
			w.U32LE(0).U32LE(0).CString(namePrefix).CString("").Zero(4) // level range + zones placeholder
			_ = cl.send(CMsgWho, w.Bytes())
		})
	})
}

// QueryGuildMOTD implements bridge.Core.
func (c *Client) QueryGuildMOTD(ctx context.Context) (string, error) {
	return c.sess.pending.awaitGuildMOTD(ctx, func(ch chan string) {
		c.enqueue(func(cl *Client) {
			cl.sess.pending.guildMOTD = ch
			w := wowproto.NewWriter()
			w.U32LE(0)
			_ = cl.send(CMsgGuildQuery, w.Bytes())
		})
	})
}

// Shutdown implements bridge.Core: closes the session at its next
// suspension point.
func (c *Client) Shutdown() {
	c.enqueue(func(cl *Client) {
		cl.state = Closing
		_ = cl.Close()
	})
}
