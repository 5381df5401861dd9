package selgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModifier_String(t *testing.T) {
	assert.Equal(t, "None", ModNone.String())
	assert.Equal(t, "Shift", ModShift.String())
	assert.Equal(t, "Alt", ModAlt.String())
	assert.Equal(t, "Shift+Ctrl", ModShiftCtrl.String())
	assert.Equal(t, "Unknown", Modifier(42).String())
}

func TestModifier_Valid(t *testing.T) {
	for _, m := range []Modifier{ModNone, ModShift, ModAlt, ModShiftCtrl} {
		assert.True(t, m.Valid(), m.String())
	}
	assert.False(t, Modifier(4).Valid())
	assert.False(t, Modifier(255).Valid())
}

func TestNormalizeModifiers(t *testing.T) {
	tests := []struct {
		name string
		raw  RawModifiers
		want Modifier
	}{
		{"none", 0, ModNone},
		{"shift", RawShift, ModShift},
		{"alt", RawAlt, ModAlt},
		{"shift+ctrl", RawShift | RawCtrl, ModShiftCtrl},
		{"ctrl alone is not distinguished", RawCtrl, ModNone},
		{"ctrl+alt", RawCtrl | RawAlt, ModNone},
		{"shift+alt", RawShift | RawAlt, ModNone},
		{"all", RawShift | RawCtrl | RawAlt, ModNone},
		{"unknown high bits", RawModifiers(1 << 12), ModNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeModifiers(tt.raw))
		})
	}
}
