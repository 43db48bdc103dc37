package world

import (
	"strings"

	"wowbridge/internal/wowerr"
	"wowbridge/internal/wowproto"
)

// Character is one SMSG_CHAR_ENUM entry. The bridge consumes only GUID and
// Name; the other fields are kept for completeness, and the remaining wire
// fields are skipped to advance the cursor.
type Character struct {
	GUID   uint64
	Name   string
	Race   uint8
	Class  uint8
	Level  uint8
	Zone   uint32
	Map    uint32
}

// ParseCharEnum decodes an SMSG_CHAR_ENUM body; when wotlkOrLater is set it
// also reads the char_flags and first_login fields absent pre-WotLK. The
// equipment-slot layout (19 slots of display/inv_type/enchant plus one bag
// slot, 9 bytes per slot) follows the wire description directly rather
// than a simplified reference skip-count, since it is the only place the
// two sources disagree and the wire description is unambiguous.
func ParseCharEnum(body []byte, wotlkOrLater bool) ([]Character, error) {
	r := wowproto.NewReader(body)
	count, err := r.U8()
	if err != nil {
		return nil, wowerr.Wrap(wowerr.ProtocolError, "char enum count", err)
	}

	chars := make([]Character, 0, count)
	for i := uint8(0); i < count; i++ {
		var c Character
		var err error

		if c.GUID, err = r.U64LE(); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char guid", err)
		}
		if c.Name, err = r.CString(); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char name", err)
		}
		if c.Race, err = r.U8(); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char race", err)
		}
		if c.Class, err = r.U8(); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char class", err)
		}
		if err := r.Skip(1); err != nil { // gender
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char gender", err)
		}
		if err := r.Skip(4); err != nil { // skin, face, hair style, hair color
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char appearance", err)
		}
		if err := r.Skip(1); err != nil { // facial hair
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char facial hair", err)
		}
		if c.Level, err = r.U8(); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char level", err)
		}
		if c.Zone, err = r.U32LE(); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char zone", err)
		}
		if c.Map, err = r.U32LE(); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char map", err)
		}
		if err := r.Skip(12); err != nil { // x, y, z
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char position", err)
		}
		if err := r.Skip(4); err != nil { // guild guid
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char guild guid", err)
		}
		if err := r.Skip(4); err != nil { // character flags
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char flags", err)
		}
		if wotlkOrLater {
			if err := r.Skip(4); err != nil { // char_flags (WotLK+)
				return nil, wowerr.Wrap(wowerr.ProtocolError, "char wotlk flags", err)
			}
			if err := r.Skip(1); err != nil { // first_login
				return nil, wowerr.Wrap(wowerr.ProtocolError, "char first login", err)
			}
		}
		if err := r.Skip(4 + 4 + 4); err != nil { // pet display, pet level, pet family
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char pet info", err)
		}

		const equipmentSlots = 19
		const bagSlots = 1
		const slotWidth = 4 + 1 + 4 // display u32, inv_type u8, enchant u32
		if err := r.Skip((equipmentSlots + bagSlots) * slotWidth); err != nil {
			return nil, wowerr.Wrap(wowerr.ProtocolError, "char equipment", err)
		}

		chars = append(chars, c)
	}
	return chars, nil
}

// FindCharacter returns the first character whose name matches target
// case-insensitively.
func FindCharacter(chars []Character, target string) (Character, bool) {
	for _, c := range chars {
		if strings.EqualFold(c.Name, target) {
			return c, true
		}
	}
	return Character{}, false
}
