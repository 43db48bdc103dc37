// Package config loads the host-owned configuration the core is built
// from: identity, routing tables, and guild-notification policy. The core
// itself never reads files; cmd/wowbridge owns this package and passes the
// parsed identity.Session into the bridge.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"wowbridge/internal/identity"
)

// GuildNotification controls whether and how one guild-event kind is
// relayed to the host.
type GuildNotification struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"`
	Channel string `yaml:"channel"`
}

// defaultGuildNotifications mirrors the source's baked-in defaults: most
// event kinds on, online/offline presence off by default (noisy).
func defaultGuildNotifications() map[string]GuildNotification {
	return map[string]GuildNotification{
		"promoted":    {Enabled: true, Format: "[%user] has promoted [%target] to [%rank]."},
		"demoted":     {Enabled: true, Format: "[%user] has demoted [%target] to [%rank]."},
		"online":      {Enabled: false, Format: "[%user] has come online."},
		"offline":     {Enabled: false, Format: "[%user] has gone offline."},
		"joined":      {Enabled: true, Format: "[%user] has joined the guild."},
		"left":        {Enabled: true, Format: "[%user] has left the guild."},
		"removed":     {Enabled: true, Format: "[%target] has been kicked out of the guild by [%user]."},
		"motd":        {Enabled: true, Format: "Guild Message of the Day: %message"},
		"achievement": {Enabled: true, Format: "%user has earned the achievement %achievement!"},
	}
}

// ChannelRoute maps one platform channel to one wow (type, channel-name)
// pair, or vice versa, depending on Direction.
type ChannelRoute struct {
	Direction      string // "both", "wow_to_platform", "platform_to_wow"
	PlatformChannel string
	WowType        uint32
	WowChannel     string
}

// Config is everything the core needs from the host, plus the routing
// tables and guild policy the bridge.Host implementation consults.
type Config struct {
	Identity identity.Session

	GuildNotifications map[string]GuildNotification
	Channels           []ChannelRoute
}

type rawDoc struct {
	Account           string            `yaml:"account"`
	Password          string            `yaml:"password"`
	Character         string            `yaml:"character"`
	Realm             string            `yaml:"realm"`
	Realmlist         string            `yaml:"realmlist"`
	RealmPort         int               `yaml:"realm_port"`
	Version           string            `yaml:"version"`
	Build             int               `yaml:"build"`
	RealmBuild        int               `yaml:"realm_build"`
	GameBuild         int               `yaml:"game_build"`
	Locale            string            `yaml:"locale"`
	Platform          string            `yaml:"platform"`
	EnableServerMotd  *bool             `yaml:"enable_server_motd"`
	Language          *uint32           `yaml:"language"`
	Guild             map[string]rawGuildEntry `yaml:"guild"`
	Channels          []rawChannel      `yaml:"channels"`
}

type rawGuildEntry struct {
	Enabled *bool  `yaml:"enabled"`
	Format  string `yaml:"format"`
	Channel string `yaml:"channel"`
}

type rawChannel struct {
	Direction string `yaml:"direction"`
	Wow       struct {
		Type    string `yaml:"type"`
		Channel string `yaml:"channel"`
	} `yaml:"wow"`
	Discord struct {
		Channel string `yaml:"channel"`
	} `yaml:"discord"`
}

// Load parses a YAML configuration file at path into a Config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var doc rawDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if doc.Account == "" || doc.Password == "" || doc.Character == "" {
		return Config{}, fmt.Errorf("config: account, password and character are required")
	}
	if doc.Version == "" {
		doc.Version = "3.3.5"
	}
	if doc.Locale == "" {
		doc.Locale = "enUS"
	}
	if doc.Realmlist == "" {
		doc.Realmlist = "127.0.0.1"
	}

	host, port := splitRealmlist(doc.Realmlist, doc.RealmPort)

	platform := identity.ParsePlatform(doc.Platform)

	realmBuild := doc.RealmBuild
	if realmBuild == 0 {
		realmBuild = doc.Build
	}
	gameBuild := doc.GameBuild
	if gameBuild == 0 {
		gameBuild = doc.Build
	}

	serverMOTD := true
	if doc.EnableServerMotd != nil {
		serverMOTD = *doc.EnableServerMotd
	}

	language := identity.CommonLanguage
	if doc.Language != nil {
		language = *doc.Language
	}

	sess, err := identity.New(
		doc.Account, doc.Password, doc.Character, doc.Realm, host, port,
		doc.Version, uint16(realmBuild), uint16(gameBuild),
		doc.Locale, platform, serverMOTD, language,
	)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	notifications := defaultGuildNotifications()
	for kind, entry := range doc.Guild {
		n := notifications[kind]
		if entry.Enabled != nil {
			n.Enabled = *entry.Enabled
		}
		if entry.Format != "" {
			n.Format = entry.Format
		}
		n.Channel = entry.Channel
		notifications[kind] = n
	}

	var channels []ChannelRoute
	for _, c := range doc.Channels {
		wowType, _ := strconv.ParseUint(c.Wow.Type, 10, 32)
		channels = append(channels, ChannelRoute{
			Direction:       c.Direction,
			PlatformChannel: c.Discord.Channel,
			WowType:         uint32(wowType),
			WowChannel:      c.Wow.Channel,
		})
	}

	return Config{
		Identity:           sess,
		GuildNotifications: notifications,
		Channels:           channels,
	}, nil
}

func splitRealmlist(realmlist string, portOverride int) (string, uint16) {
	if portOverride != 0 {
		return realmlist, uint16(portOverride)
	}
	if host, portStr, ok := strings.Cut(realmlist, ":"); ok {
		if p, err := strconv.Atoi(portStr); err == nil {
			return host, uint16(p)
		}
	}
	return realmlist, 3724
}
