// Package engine computes where the "No" button runs to.
//
// The engine is pure apart from its random source: callers own the State
// and pass it back in on every evasion.
package engine

const (
	DefaultPadding       = 40.0
	DefaultMaxDecoys     = 6
	DefaultDecoysPerMove = 2
)

// Rand is the random source used for placement. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Size is a width/height pair in CSS pixels.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (s Size) positive() bool {
	return s.W > 0 && s.H > 0
}

// Position is where the button is drawn. Anchored is false while the button
// still sits in normal document flow.
type Position struct {
	X        float64
	Y        float64
	Anchored bool
}

// Decoy is a fake "No" button spawned by the multiply style.
type Decoy struct {
	ID int64
	X  float64
	Y  float64
}

// State is the evasion state of one prank-screen mount.
type State struct {
	Attempts    int
	Position    Position
	Decoys      []Decoy
	NextDecoyID int64
}

// Stage returns the stage for the current attempt count.
func (s State) Stage() Stage {
	return StageAt(s.Attempts)
}

// Engine places the button. It is not safe for concurrent use; the random
// source is shared between calls.
type Engine struct {
	rng           Rand
	padding       float64
	maxDecoys     int
	decoysPerMove int
}

// Option configures an Engine.
type Option func(*Engine)

// WithPadding overrides the distance kept from the viewport edges.
func WithPadding(p float64) Option {
	return func(e *Engine) {
		if p >= 0 {
			e.padding = p
		}
	}
}

// WithDecoys overrides the multiply style's spawn count and cap.
func WithDecoys(perMove, max int) Option {
	return func(e *Engine) {
		if perMove >= 0 {
			e.decoysPerMove = perMove
		}
		if max >= 0 {
			e.maxDecoys = max
		}
	}
}

// New returns an engine drawing from rng.
func New(rng Rand, opts ...Option) *Engine {
	e := &Engine{
		rng:           rng,
		padding:       DefaultPadding,
		maxDecoys:     DefaultMaxDecoys,
		decoysPerMove: DefaultDecoysPerMove,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Padding returns the edge distance in use.
func (e *Engine) Padding() float64 {
	return e.padding
}

// Evade moves the button once. It returns the input state unchanged and false
// when either size is unknown or non-positive.
func (e *Engine) Evade(st State, style Style, viewport, button Size) (State, bool) {
	if !viewport.positive() || !button.positive() {
		return st, false
	}
	xr := e.axis(viewport.W, button.W)
	yr := e.axis(viewport.H, button.H)

	next := st
	next.Position = Position{X: xr.draw(e.rng), Y: yr.draw(e.rng), Anchored: true}
	next.Attempts = st.Attempts + 1

	if style == StyleMultiply && e.decoysPerMove > 0 {
		decoys := make([]Decoy, 0, len(st.Decoys)+e.decoysPerMove)
		decoys = append(decoys, st.Decoys...)
		for i := 0; i < e.decoysPerMove; i++ {
			decoys = append(decoys, Decoy{ID: next.NextDecoyID, X: xr.draw(e.rng), Y: yr.draw(e.rng)})
			next.NextDecoyID++
		}
		if len(decoys) > e.maxDecoys {
			decoys = decoys[len(decoys)-e.maxDecoys:]
		}
		next.Decoys = decoys
	}
	return next, true
}

// SafeRange returns the allowed coordinate range along one axis.
func (e *Engine) SafeRange(viewport, button float64) (lo, hi float64) {
	r := e.axis(viewport, button)
	return r.lo, r.hi
}

type span struct {
	lo, hi float64
}

func (e *Engine) axis(viewport, button float64) span {
	lo := e.padding
	hi := viewport - button - e.padding
	if hi < lo {
		hi = lo
	}
	return span{lo: lo, hi: hi}
}

func (s span) draw(rng Rand) float64 {
	f := rng.Float64()
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return s.lo + f*(s.hi-s.lo)
}
