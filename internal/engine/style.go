package engine

import (
	"math"
	"strings"
)

// Style selects how the "No" button runs away.
type Style string

const (
	StyleClassic      Style = "classic"
	StyleTeleport     Style = "teleport"
	StyleSpin         Style = "spin"
	StyleShrink       Style = "shrink"
	StyleMultiply     Style = "multiply"
	StyleGravity      Style = "gravity"
	StyleMagnetic     Style = "magnetic"
	StyleInvisibility Style = "invisibility"
)

// Styles returns every style in picker order.
func Styles() []Style {
	return []Style{
		StyleClassic,
		StyleTeleport,
		StyleSpin,
		StyleShrink,
		StyleMultiply,
		StyleGravity,
		StyleMagnetic,
		StyleInvisibility,
	}
}

// Valid reports whether s is one of the known styles.
func (s Style) Valid() bool {
	switch s {
	case StyleClassic, StyleTeleport, StyleSpin, StyleShrink,
		StyleMultiply, StyleGravity, StyleMagnetic, StyleInvisibility:
		return true
	}
	return false
}

// ParseStyle maps a tag to a Style, falling back to classic.
func ParseStyle(tag string) Style {
	s := Style(strings.TrimSpace(tag))
	if !s.Valid() {
		return StyleClassic
	}
	return s
}

// Info describes a style on the picker.
type Info struct {
	Label   string
	Blurb   string
	Icon    string
	Popular bool
}

// Info returns picker metadata for the style.
func (s Style) Info() Info {
	switch s {
	case StyleTeleport:
		return Info{Label: "Teleport", Blurb: "Instantly vanishes", Icon: "⚡", Popular: true}
	case StyleSpin:
		return Info{Label: "Spin", Blurb: "Spins away", Icon: "🌀"}
	case StyleShrink:
		return Info{Label: "Shrink", Blurb: "Gets smaller", Icon: "🔍"}
	case StyleMultiply:
		return Info{Label: "Multiply", Blurb: "Creates clones", Icon: "👯", Popular: true}
	case StyleGravity:
		return Info{Label: "Gravity", Blurb: "Falls & bounces", Icon: "⚓"}
	case StyleMagnetic:
		return Info{Label: "Magnetic", Blurb: "Repels cursor", Icon: "🧲"}
	case StyleInvisibility:
		return Info{Label: "Ghost", Blurb: "Fades out", Icon: "👻"}
	default:
		return Info{Label: "Classic", Blurb: "Jumps randomly", Icon: "🎯"}
	}
}

// Motion is the CSS transition applied while the button travels.
type Motion struct {
	DurationMs int
	Easing     string
}

// Effect is the visual treatment of one move. Position is not part of it:
// every style lands on the same engine-computed spot.
type Effect struct {
	Rotate    float64
	Scale     float64
	Opacity   float64
	FadeIn    bool
	FromScale float64
	Motion    Motion
}

var (
	springMotion  = Motion{DurationMs: 450, Easing: "cubic-bezier(0.34, 1.3, 0.64, 1)"}
	spinMotion    = Motion{DurationMs: 600, Easing: "cubic-bezier(0.3, 1.2, 0.6, 1)"}
	gravityMotion = Motion{DurationMs: 750, Easing: "cubic-bezier(0.5, 1.8, 0.5, 0.8)"}
	cutMotion     = Motion{DurationMs: 200, Easing: "ease-out"}
	glideMotion   = Motion{DurationMs: 200, Easing: "linear"}
)

// EffectFor returns the visual effect for a style after attempts evasions.
// An unanchored button is always drawn plainly.
func EffectFor(s Style, attempts int, anchored bool) Effect {
	e := Effect{Scale: 1, Opacity: 1, FromScale: 1, Motion: motionFor(s)}
	if !anchored {
		return e
	}
	n := float64(attempts)
	switch s {
	case StyleTeleport:
		e.FadeIn = true
		e.FromScale = 0.5
	case StyleSpin:
		e.Rotate = 720
	case StyleShrink:
		e.Scale = math.Max(0.2, 1-n*0.15)
	case StyleInvisibility:
		e.Opacity = math.Max(0.1, 1-n*0.2)
	}
	return e
}

func motionFor(s Style) Motion {
	switch s {
	case StyleTeleport:
		return cutMotion
	case StyleSpin:
		return spinMotion
	case StyleGravity:
		return gravityMotion
	case StyleMagnetic:
		return glideMotion
	default:
		return springMotion
	}
}
