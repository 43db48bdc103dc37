package realm

import (
	"testing"

	"wowbridge/internal/wowproto"
)

// buildRealmListPayload encodes a minimal REALM_LIST body (sans the u16
// size prefix, which the caller strips before parsing) containing the
// given (name, address, id) entries.
func buildRealmListPayload(entries []struct {
	name, address string
	id            uint8
}) []byte {
	w := wowproto.NewWriter()
	w.U32LE(0) // unused
	w.U8(uint8(len(entries)))
	for _, e := range entries {
		w.Zero(3)   // type
		w.U8(0)     // flags
		w.CString(e.name)
		w.CString(e.address)
		w.Zero(4) // population
		w.U8(0)   // characters
		w.U8(0)   // timezone
		w.U8(e.id)
	}
	return w.Bytes()
}

// Scenario D: realms {"Alpha", "Beta", "Gamma"} in order, configured name
// "beta" (case-insensitive) selects the second entry.
func TestParseRealmListScenarioD(t *testing.T) {
	payload := buildRealmListPayload([]struct {
		name, address string
		id            uint8
	}{
		{"Alpha", "10.0.0.1:8085", 1},
		{"Beta", "10.0.0.2:8085", 2},
		{"Gamma", "10.0.0.3:8085", 3},
	})

	result, err := parseRealmList(payload, "beta", []byte("sessionkey"))
	if err != nil {
		t.Fatal(err)
	}
	if result.RealmID != 2 {
		t.Fatalf("RealmID = %d, want 2", result.RealmID)
	}
	if result.Host != "10.0.0.2" || result.Port != 8085 {
		t.Fatalf("got host=%s port=%d", result.Host, result.Port)
	}
}

func TestParseRealmListNoMatch(t *testing.T) {
	payload := buildRealmListPayload([]struct {
		name, address string
		id            uint8
	}{{"Alpha", "10.0.0.1:8085", 1}})

	if _, err := parseRealmList(payload, "nonexistent", nil); err == nil {
		t.Fatal("expected error for unmatched realm name")
	}
}

func TestCRCHashKnownAndUnknownBuild(t *testing.T) {
	known := crcHashFor(12340, true)
	if len(known) != 20 {
		t.Fatalf("expected 20-byte CRC hash, got %d", len(known))
	}
	var allZero = true
	for _, b := range known {
		if b != 0 {
			allZero = false
		}
	}
	if allZero {
		t.Fatal("known build/platform combo should not be all-zero")
	}

	unknown := crcHashFor(99999, true)
	for _, b := range unknown {
		if b != 0 {
			t.Fatal("unknown build/platform combo must fall back to zero bytes")
		}
	}
}

// Scenario E: 0x16 (incorrect password) is fatal; 0x1B maps via
// AuthResponseCodes in the world package, but the realm side's own fatal
// classification follows the same shape for its analogous codes.
func TestAuthResultClassification(t *testing.T) {
	if !isFatalAuthResult(authFailIncorrectPass) {
		t.Fatal("incorrect password must be fatal")
	}
	if isFatalAuthResult(authFailDBBusy) {
		t.Fatal("db busy must not be fatal")
	}
	if !isSuccess(authSuccess) || !isSuccess(authSuccessSurvey) {
		t.Fatal("both success codes must report success")
	}
}
