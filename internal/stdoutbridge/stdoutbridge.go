// Package stdoutbridge implements bridge.Host by logging every callback
// with zerolog and printing received chat to stdout. It stands in for a
// real messaging-platform client in cmd/wowbridge.
package stdoutbridge

import (
	"fmt"

	"github.com/rs/zerolog"

	"wowbridge/internal/bridge"
)

// Bridge is a minimal bridge.Host that logs every event and prints each
// received chat message to stdout. It is not told about outbound SendChat
// calls, which go from reconnect.Controller straight to the world client.
type Bridge struct {
	log zerolog.Logger
}

// New returns a Bridge that logs through log.
func New(log zerolog.Logger) *Bridge {
	return &Bridge{log: log}
}

func (b *Bridge) OnConnected(realmName string) {
	b.log.Info().Str("realm", realmName).Msg("connected to world server")
}

func (b *Bridge) OnDisconnected(reason error) {
	b.log.Warn().Err(reason).Msg("session ended")
}

func (b *Bridge) OnChatReceived(kind bridge.ChatKind, sender, channel, text string, lang uint32) {
	b.log.Info().
		Str("kind", chatKindName(kind)).
		Str("sender", sender).
		Str("channel", channel).
		Uint32("lang", lang).
		Msg(text)
	fmt.Printf("[%s] %s: %s\n", chatKindName(kind), sender, text)
}

func (b *Bridge) OnGuildEvent(kind bridge.GuildEventKind, user, target, rank, message string) {
	b.log.Info().
		Str("kind", guildEventKindName(kind)).
		Str("user", user).
		Str("target", target).
		Str("rank", rank).
		Msg(message)
}

func (b *Bridge) OnPresenceChange(state bridge.PresenceState, realmName string) {
	b.log.Info().Str("realm", realmName).Bool("online", state == bridge.Online).Msg("presence changed")
}

func (b *Bridge) OnNameResolved(guid uint64, name string) {
	b.log.Debug().Uint64("guid", guid).Str("name", name).Msg("name resolved")
}

func chatKindName(kind bridge.ChatKind) string {
	switch kind {
	case bridge.ChatSay:
		return "say"
	case bridge.ChatParty:
		return "party"
	case bridge.ChatGuild:
		return "guild"
	case bridge.ChatOfficer:
		return "officer"
	case bridge.ChatYell:
		return "yell"
	case bridge.ChatWhisper:
		return "whisper"
	case bridge.ChatChannel:
		return "channel"
	case bridge.ChatRaid:
		return "raid"
	case bridge.ChatEmote:
		return "emote"
	default:
		return "system"
	}
}

func guildEventKindName(kind bridge.GuildEventKind) string {
	switch kind {
	case bridge.GuildPromoted:
		return "promoted"
	case bridge.GuildDemoted:
		return "demoted"
	case bridge.GuildOnline:
		return "online"
	case bridge.GuildOffline:
		return "offline"
	case bridge.GuildJoined:
		return "joined"
	case bridge.GuildLeft:
		return "left"
	case bridge.GuildRemoved:
		return "removed"
	case bridge.GuildMOTD:
		return "motd"
	case bridge.GuildAchievement:
		return "achievement"
	default:
		return "unknown"
	}
}
