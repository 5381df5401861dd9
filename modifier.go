package selgo

// Modifier identifies the modifier combination qualifying a selection gesture.
//
// The engine recognizes exactly four combinations. Raw input-device state
// (bitwise-combinable key flags) must be mapped to this closed enumeration at
// the gesture source via NormalizeModifiers; the engine itself rejects
// anything outside the enumeration.
type Modifier uint8

const (
	// ModNone starts a fresh partition: all groups are cleared and every hit
	// point becomes group 1.
	ModNone Modifier = iota
	// ModShift opens a new numbered group for hit points that are not yet
	// selected. Points already in a group are left untouched.
	ModShift
	// ModAlt removes hit points from whatever group they belong to. It never
	// renumbers the remaining groups.
	ModAlt
	// ModShiftCtrl extends the last group with hit points that are not yet
	// selected. With no existing group it creates group 1.
	ModShiftCtrl
)

// String returns the string representation of the Modifier.
func (m Modifier) String() string {
	switch m {
	case ModNone:
		return "None"
	case ModShift:
		return "Shift"
	case ModAlt:
		return "Alt"
	case ModShiftCtrl:
		return "Shift+Ctrl"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is one of the recognized modifier combinations.
func (m Modifier) Valid() bool {
	return m <= ModShiftCtrl
}

// RawModifiers is a bitwise combination of raw modifier key flags as reported
// by an input device.
type RawModifiers uint32

const (
	// RawShift is the raw Shift key flag.
	RawShift RawModifiers = 1 << iota
	// RawCtrl is the raw Ctrl key flag.
	RawCtrl
	// RawAlt is the raw Alt key flag.
	RawAlt
)

// NormalizeModifiers maps a raw modifier flag combination to the closed
// Modifier enumeration.
//
// Shift alone maps to ModShift, Alt alone to ModAlt and Shift+Ctrl to
// ModShiftCtrl. Ctrl alone is not distinguished and every other combination
// is treated as an unmodified gesture, so the engine never sees an
// unsupported value.
func NormalizeModifiers(raw RawModifiers) Modifier {
	switch raw {
	case RawShift:
		return ModShift
	case RawAlt:
		return ModAlt
	case RawShift | RawCtrl:
		return ModShiftCtrl
	default:
		return ModNone
	}
}
