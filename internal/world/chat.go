package world

import (
	"wowbridge/internal/bridge"
	"wowbridge/internal/wowerr"
	"wowbridge/internal/wowproto"
)

// ChatMessage is a decoded SMSG_MESSAGECHAT/SMSG_GM_MESSAGECHAT body.
type ChatMessage struct {
	Type       uint8
	Lang       uint32
	SenderGUID uint64
	TargetGUID uint64
	Channel    string
	Text       string
	Tag        uint8
}

// DecodeMessageChat parses an incoming chat packet body. The presence of
// the channel-name field and the exact field order depends on Type, per
// the classic MESSAGECHAT layout: say/yell and the other public types carry
// just the sender GUID and flags before the text, channel messages add a
// channel-name cstring and a second GUID, and whispers add a target GUID.
func DecodeMessageChat(body []byte) (ChatMessage, error) {
	r := wowproto.NewReader(body)
	var m ChatMessage
	var err error

	if m.Type, err = r.U8(); err != nil {
		return m, wowerr.Wrap(wowerr.ProtocolError, "chat type", err)
	}
	if m.Lang, err = r.U32LE(); err != nil {
		return m, wowerr.Wrap(wowerr.ProtocolError, "chat lang", err)
	}

	const chatChannel = uint8(bridge.ChatChannel)
	const chatWhisper = uint8(bridge.ChatWhisper)

	switch m.Type {
	case chatChannel:
		if m.SenderGUID, err = r.U64LE(); err != nil {
			return m, wowerr.Wrap(wowerr.ProtocolError, "chat sender guid", err)
		}
		if err := r.Skip(4); err != nil { // flags
			return m, wowerr.Wrap(wowerr.ProtocolError, "chat flags", err)
		}
		if m.Channel, err = r.CString(); err != nil {
			return m, wowerr.Wrap(wowerr.ProtocolError, "chat channel name", err)
		}
		if err := r.Skip(8); err != nil { // unknown guid
			return m, wowerr.Wrap(wowerr.ProtocolError, "chat unknown guid", err)
		}
	case chatWhisper:
		if m.SenderGUID, err = r.U64LE(); err != nil {
			return m, wowerr.Wrap(wowerr.ProtocolError, "chat sender guid", err)
		}
		if err := r.Skip(4); err != nil { // flags
			return m, wowerr.Wrap(wowerr.ProtocolError, "chat flags", err)
		}
		if m.TargetGUID, err = r.U64LE(); err != nil {
			return m, wowerr.Wrap(wowerr.ProtocolError, "chat target guid", err)
		}
	default:
		if m.SenderGUID, err = r.U64LE(); err != nil {
			return m, wowerr.Wrap(wowerr.ProtocolError, "chat sender guid", err)
		}
		if err := r.Skip(4); err != nil { // flags
			return m, wowerr.Wrap(wowerr.ProtocolError, "chat flags", err)
		}
	}

	textLen, err := r.U32LE()
	if err != nil {
		return m, wowerr.Wrap(wowerr.ProtocolError, "chat text length", err)
	}
	textBytes, err := r.Bytes(int(textLen))
	if err != nil {
		return m, wowerr.Wrap(wowerr.ProtocolError, "chat text", err)
	}
	m.Text = stripTrailingNull(textBytes)

	if m.Tag, err = r.U8(); err != nil {
		return m, wowerr.Wrap(wowerr.ProtocolError, "chat tag", err)
	}
	return m, nil
}

func stripTrailingNull(b []byte) string {
	if n := len(b); n > 0 && b[n-1] == 0 {
		b = b[:n-1]
	}
	return string(b)
}

// EncodeMessageChat builds a CMSG_MESSAGECHAT body: type, lang, optional
// channel-name cstring (only for channel-type chat), then the text
// cstring. Text is passed through verbatim; truncation is the host's
// responsibility.
func EncodeMessageChat(kind bridge.ChatKind, channel, text string) []byte {
	w := wowproto.NewWriter()
	w.U32LE(uint32(kind))
	w.U32LE(0) // language 0: universal
	if kind == bridge.ChatChannel {
		w.CString(channel)
	}
	w.CString(text)
	return w.Bytes()
}
