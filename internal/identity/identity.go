// Package identity holds the immutable session identity a core client is
// constructed from: account credentials, character/realm selection, and the
// version/build/locale/platform tuple that determines protocol framing.
package identity

import (
	"strings"

	"wowbridge/internal/wowproto"
)

// Platform is the client platform advertised during the realm logon
// challenge; it selects the CRC-hash row used in LOGON_PROOF.
type Platform int

const (
	Windows Platform = iota
	Mac
)

func (p Platform) String() string {
	if p == Windows {
		return "Win"
	}
	return "OSX"
}

// ParsePlatform accepts "windows"/"win" (case-insensitive) as Windows and
// anything else as Mac, matching the source's lenient default-to-Mac
// behavior.
func ParsePlatform(s string) Platform {
	switch strings.ToLower(s) {
	case "win", "windows":
		return Windows
	default:
		return Mac
	}
}

// Session is the immutable identity a realm/world client pair is built
// from. It is constructed once from configuration and never mutated.
type Session struct {
	Account      []byte // upper-cased ASCII, as sent on the wire
	Password     string
	Character    string
	RealmName    string
	RealmHost    string
	RealmPort    uint16
	Version      string
	RealmBuild   uint16
	GameBuild    uint16
	Locale       string
	Platform     Platform
	Expansion    wowproto.Era
	ServerMOTD   bool
	Language     uint32
}

// CommonLanguage is the wire language code for the default human-readable
// chat language ("Common"/"Orcish" depending on faction). It is the default
// accepted language when configuration leaves Language unset.
const CommonLanguage uint32 = 7

// New derives RealmBuild/GameBuild/Expansion from version when the
// corresponding overrides are zero, and upper-cases account.
func New(account, password, character, realmName, realmHost string, realmPort uint16,
	version string, realmBuildOverride, gameBuildOverride uint16,
	locale string, platform Platform, serverMOTD bool, language uint32) (Session, error) {

	era, err := wowproto.EraFromVersion(version)
	if err != nil {
		return Session{}, err
	}

	realmBuild := realmBuildOverride
	gameBuild := gameBuildOverride
	if realmBuild == 0 || gameBuild == 0 {
		b, err := wowproto.BuildFromVersion(version)
		if err != nil {
			return Session{}, err
		}
		if realmBuild == 0 {
			realmBuild = b
		}
		if gameBuild == 0 {
			gameBuild = b
		}
	}

	return Session{
		Account:    []byte(strings.ToUpper(account)),
		Password:   password,
		Character:  character,
		RealmName:  realmName,
		RealmHost:  realmHost,
		RealmPort:  realmPort,
		Version:    version,
		RealmBuild: realmBuild,
		GameBuild:  gameBuild,
		Locale:     locale,
		Platform:   platform,
		Expansion:  era,
		ServerMOTD: serverMOTD,
		Language:   language,
	}, nil
}

// AcceptsLanguage reports whether an incoming chat message's language code
// should be relayed to the host: messages in the configured language, plus
// universal (language-less) messages such as emotes.
func (s Session) AcceptsLanguage(lang uint32) bool {
	return lang == 0 || lang == s.Language
}

// MatchesCharacter reports whether name is this session's target character,
// case-insensitively.
func (s Session) MatchesCharacter(name string) bool {
	return strings.EqualFold(s.Character, name)
}

// MatchesRealm reports whether name is this session's target realm,
// case-insensitively.
func (s Session) MatchesRealm(name string) bool {
	return strings.EqualFold(s.RealmName, name)
}
