package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStyle(t *testing.T) {
	for _, s := range Styles() {
		assert.Equal(t, s, ParseStyle(string(s)))
	}
	assert.Equal(t, StyleClassic, ParseStyle(""))
	assert.Equal(t, StyleClassic, ParseStyle("bogus"))
	assert.Equal(t, StyleClassic, ParseStyle("SPIN"))
	assert.Equal(t, StyleGravity, ParseStyle(" gravity "))
}

func TestStylesAreClosedSet(t *testing.T) {
	styles := Styles()
	assert.Len(t, styles, 8)
	seen := map[Style]bool{}
	for _, s := range styles {
		assert.True(t, s.Valid())
		assert.False(t, seen[s], "duplicate %s", s)
		seen[s] = true
		assert.NotEmpty(t, s.Info().Label)
	}
	assert.False(t, Style("bogus").Valid())
	assert.Equal(t, "Ghost", StyleInvisibility.Info().Label)
}

func TestEffectFor_UnanchoredIsPlain(t *testing.T) {
	for _, s := range Styles() {
		e := EffectFor(s, 0, false)
		assert.Equal(t, 1.0, e.Scale, s)
		assert.Equal(t, 1.0, e.Opacity, s)
		assert.Zero(t, e.Rotate, s)
		assert.False(t, e.FadeIn, s)
	}
}

func TestEffectFor_Styles(t *testing.T) {
	assert.Equal(t, 720.0, EffectFor(StyleSpin, 1, true).Rotate)

	tp := EffectFor(StyleTeleport, 1, true)
	assert.True(t, tp.FadeIn)
	assert.Equal(t, 0.5, tp.FromScale)
	assert.Equal(t, 200, tp.Motion.DurationMs)

	assert.InDelta(t, 0.85, EffectFor(StyleShrink, 1, true).Scale, 1e-9)
	assert.InDelta(t, 0.2, EffectFor(StyleShrink, 6, true).Scale, 1e-9)
	assert.Equal(t, 0.2, EffectFor(StyleShrink, 50, true).Scale)

	assert.InDelta(t, 0.8, EffectFor(StyleInvisibility, 1, true).Opacity, 1e-9)
	assert.Equal(t, 0.1, EffectFor(StyleInvisibility, 9, true).Opacity)

	assert.Equal(t, "linear", EffectFor(StyleMagnetic, 3, true).Motion.Easing)
	assert.Greater(t, EffectFor(StyleGravity, 1, true).Motion.DurationMs, EffectFor(StyleClassic, 1, true).Motion.DurationMs)
}
