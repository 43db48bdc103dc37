// Package wowproto implements the world-server wire codec: primitive
// readers/writers and the era-dependent packet header framing described for
// the realm and world connections. It has no knowledge of specific opcodes
// or packet bodies; those live in internal/realm and internal/world.
package wowproto

import (
	"fmt"
	"strings"
)

// Era identifies the expansion release that determines header framing and
// header-cipher selection.
type Era int

const (
	Vanilla Era = iota
	TBC
	WotLK
	Cataclysm
	MoP
)

func (e Era) String() string {
	switch e {
	case Vanilla:
		return "Vanilla"
	case TBC:
		return "TBC"
	case WotLK:
		return "WotLK"
	case Cataclysm:
		return "Cataclysm"
	case MoP:
		return "MoP"
	default:
		return "Unknown"
	}
}

// EraFromVersion classifies a dotted version triple into its expansion era.
func EraFromVersion(version string) (Era, error) {
	switch {
	case strings.HasPrefix(version, "1."):
		return Vanilla, nil
	case strings.HasPrefix(version, "2."):
		return TBC, nil
	case strings.HasPrefix(version, "3."):
		return WotLK, nil
	case version == "4.3.4":
		return Cataclysm, nil
	case version == "5.4.8":
		return MoP, nil
	default:
		return 0, fmt.Errorf("wowproto: unsupported version %q", version)
	}
}

// UsesWotLKHeaderCrypt reports whether this era uses the RC4/HMAC header
// cipher (WotLK and later) rather than the legacy additive-XOR cipher.
func (e Era) UsesWotLKHeaderCrypt() bool {
	return e >= WotLK
}

// ClientHeaderLen is the length, in bytes, of a client->server world packet
// header for this era: 6 bytes (u32 opcode) before WotLK, 4 bytes from
// WotLK onward.
func (e Era) ClientHeaderLen() int {
	if e >= WotLK {
		return 4
	}
	return 6
}

// buildFromVersion maps a dotted version string to its numeric client build,
// used when a config does not pin an explicit build override.
var buildFromVersion = map[string]uint16{
	"1.6.1":  4544,
	"1.6.2":  4565,
	"1.6.3":  4620,
	"1.7.1":  4695,
	"1.8.4":  4878,
	"1.9.4":  5086,
	"1.10.2": 5302,
	"1.11.2": 5464,
	"1.12.1": 5875,
	"1.12.2": 6005,
	"1.12.3": 6141,
	"2.4.3":  8606,
	"3.2.2":  10505,
	"3.3.0":  11159,
	"3.3.2":  11403,
	"3.3.3":  11723,
	"3.3.5":  12340,
	"4.3.4":  15595,
	"5.4.8":  18414,
}

// BuildFromVersion looks up the numeric client build for a dotted version
// string, the same table used by both realm and world logon challenges.
func BuildFromVersion(version string) (uint16, error) {
	b, ok := buildFromVersion[version]
	if !ok {
		return 0, fmt.Errorf("wowproto: build %q not supported", version)
	}
	return b, nil
}
