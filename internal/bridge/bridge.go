// Package bridge defines the narrow, outbound-only surface between the
// game-protocol core and the host application. The core never imports a
// host package; the host implements Host and is handed a Core to drive the
// session from outside the world client's own goroutine.
package bridge

import "context"

// ChatKind distinguishes the wow chat type a message was sent/received on.
type ChatKind uint32

const (
	ChatSay ChatKind = iota
	ChatParty
	ChatGuild
	ChatOfficer
	ChatYell
	ChatWhisper
	ChatChannel
	ChatRaid
	ChatEmote
)

// GuildEventKind classifies one SMSG_GUILD_EVENT occurrence.
type GuildEventKind int

const (
	GuildPromoted GuildEventKind = iota
	GuildDemoted
	GuildOnline
	GuildOffline
	GuildJoined
	GuildLeft
	GuildRemoved
	GuildMOTD
	GuildAchievement
)

// PresenceState is the bot character's own connectivity, reported once it
// first enters the world.
type PresenceState int

const (
	Offline PresenceState = iota
	Online
)

// WhoEntry is one result row for a CMSG_WHO query.
type WhoEntry struct {
	Name  string
	Level uint32
	Class uint32
	Zone  string
}

// Host receives events from the core. Implementations must not block:
// long-running work should be enqueued and the callback should return
// immediately, since these are invoked synchronously from the world
// session's own goroutine.
type Host interface {
	OnConnected(realmName string)
	OnDisconnected(reason error)
	OnChatReceived(kind ChatKind, sender, channel, text string, lang uint32)
	OnGuildEvent(kind GuildEventKind, user, target, rank, message string)
	OnPresenceChange(state PresenceState, realmName string)
	OnNameResolved(guid uint64, name string)
}

// Core is the inbound-only surface the host drives the session through.
// Every method may be called from any goroutine; the core marshals the
// call onto its own session goroutine before touching session state.
type Core interface {
	SendChat(kind ChatKind, channel, text string) error
	QueryWho(ctx context.Context, namePrefix string) ([]WhoEntry, error)
	QueryGuildMOTD(ctx context.Context) (string, error)
	Shutdown()
}
