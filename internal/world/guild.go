package world

import (
	"wowbridge/internal/wowerr"
	"wowbridge/internal/wowproto"
)

// RosterMember is one SMSG_GUILD_ROSTER entry the bridge tracks for
// online/offline diffing.
type RosterMember struct {
	GUID   uint64
	Name   string
	Online bool
	Rank   uint32
}

// DecodeGuildRoster parses the subset of SMSG_GUILD_ROSTER the bridge
// needs: a leading u32 (read and ignored), the member count, then per
// member the GUID, online flag, name and rank, skipping the remaining
// per-member fields (class, area, level, public note, officer note) this
// bridge does not surface.
func DecodeGuildRoster(body []byte) ([]RosterMember, error) {
	r := wowproto.NewReader(body)
	count, err := r.U32LE()
	if err != nil {
		return nil, wowerr.Wrap(wowerr.ProtocolError, "guild roster count", err)
	}
	// The leading u32 is not used, and no MOTD or rank-info block is
	// parsed between it and the member count.
	_ = count

	memberCount, err := r.U32LE()
	if err != nil {
		return nil, wowerr.Wrap(wowerr.ProtocolError, "guild roster member count", err)
	}

	members := make([]RosterMember, 0, memberCount)
	for i := uint32(0); i < memberCount; i++ {
		var m RosterMember
		if m.GUID, err = r.U64LE(); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "roster guid", err)
		}
		onlineFlag, err := r.U8()
		if err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "roster online flag", err)
		}
		m.Online = onlineFlag != 0
		if m.Name, err = r.CString(); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "roster name", err)
		}
		if m.Rank, err = r.U32LE(); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "roster rank", err)
		}
		// class(1) area(4) level(1) public_note(cstring) officer_note(cstring)
		if err := r.Skip(1 + 4 + 1); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "roster member tail", err)
		}
		if _, err := r.CString(); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "roster public note", err)
		}
		if _, err := r.CString(); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "roster officer note", err)
		}
		members = append(members, m)
	}
	return members, nil
}

// DiffRoster compares a previous and current roster snapshot and returns
// the members that transitioned online and those that transitioned offline.
func DiffRoster(prev, curr []RosterMember) (wentOnline, wentOffline []RosterMember) {
	prevOnline := make(map[uint64]bool, len(prev))
	for _, m := range prev {
		prevOnline[m.GUID] = m.Online
	}
	for _, m := range curr {
		was, existed := prevOnline[m.GUID]
		if m.Online && (!existed || !was) {
			wentOnline = append(wentOnline, m)
		} else if !m.Online && existed && was {
			wentOffline = append(wentOffline, m)
		}
	}
	return wentOnline, wentOffline
}

// GuildEvent is a decoded SMSG_GUILD_EVENT occurrence.
type GuildEvent struct {
	Code    uint8
	Strings []string
}

// Guild event type codes (subset the bridge maps to bridge.GuildEventKind).
const (
	geMOTD        = 0x00
	gePromotion   = 0x01
	geDemotion    = 0x02
	geJoined      = 0x04
	geLeft        = 0x05
	geRemoved     = 0x06
	geSignedOn    = 0x0C
	geSignedOff   = 0x0D
)

// DecodeGuildEvent parses the event code and following cstring arguments.
func DecodeGuildEvent(body []byte) (GuildEvent, error) {
	r := wowproto.NewReader(body)
	code, err := r.U8()
	if err != nil {
		return GuildEvent{}, wowerr.Wrap(wowerr.ProtocolError, "guild event code", err)
	}
	var strs []string
	for r.Len() > 0 {
		s, err := r.CString()
		if err != nil {
			break
		}
		strs = append(strs, s)
	}
	return GuildEvent{Code: code, Strings: strs}, nil
}
