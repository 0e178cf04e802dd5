package engine

import (
	"context"
	"math"
	"sync"
)

// DefaultRepelRadius is how close the pointer may get to the button center
// before a magnetic button jumps.
const DefaultRepelRadius = 150.0

// Point is a pointer or button-center coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Repels reports whether a pointer at p pushes away a button centered at c.
func Repels(p, c Point, radius float64) bool {
	return Distance(p, c) < radius
}

// TriggerState is the magnetic trigger's state.
type TriggerState int

const (
	TriggerIdle TriggerState = iota
	TriggerArmed
)

func (t TriggerState) String() string {
	if t == TriggerArmed {
		return "armed"
	}
	return "idle"
}

// Magnet samples pointer positions while armed and calls repel whenever the
// pointer comes within the radius of the button center.
type Magnet struct {
	radius float64

	mu      sync.Mutex
	state   TriggerState
	samples chan Point
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewMagnet returns an idle magnet. A non-positive radius uses the default.
func NewMagnet(radius float64) *Magnet {
	if radius <= 0 {
		radius = DefaultRepelRadius
	}
	return &Magnet{radius: radius}
}

// Radius returns the repulsion radius.
func (m *Magnet) Radius() float64 {
	return m.radius
}

// State returns the current trigger state.
func (m *Magnet) State() TriggerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Arm starts the sampler. center reports the current button center and false
// when it is unknown. Arm on an armed magnet is a no-op. The sampler stops on
// Disarm or when ctx is done.
func (m *Magnet) Arm(ctx context.Context, center func() (Point, bool), repel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == TriggerArmed {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	samples := make(chan Point, 1)
	done := make(chan struct{})
	m.state = TriggerArmed
	m.samples = samples
	m.cancel = cancel
	m.done = done

	go func() {
		defer close(done)
		defer m.release(samples)
		for {
			select {
			case <-ctx.Done():
				return
			case p := <-samples:
				c, ok := center()
				if !ok {
					continue
				}
				if Repels(p, c, m.radius) {
					repel()
				}
			}
		}
	}()
}

// release returns the magnet to idle after its context ended on its own.
func (m *Magnet) release(samples chan Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.samples != samples {
		return
	}
	m.cancel()
	m.state = TriggerIdle
	m.samples = nil
	m.cancel = nil
	m.done = nil
}

// Offer hands a pointer sample to the sampler. Samples are dropped when the
// magnet is idle or the previous sample has not been consumed yet; only the
// latest pointer position matters.
func (m *Magnet) Offer(p Point) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != TriggerArmed {
		return false
	}
	select {
	case m.samples <- p:
		return true
	default:
		return false
	}
}

// Disarm stops the sampler and waits for it to exit. It must not be called
// from inside center or repel.
func (m *Magnet) Disarm() {
	m.mu.Lock()
	if m.state != TriggerArmed {
		m.mu.Unlock()
		return
	}
	cancel, done := m.cancel, m.done
	m.state = TriggerIdle
	m.samples = nil
	m.cancel = nil
	m.done = nil
	m.mu.Unlock()

	cancel()
	<-done
}
