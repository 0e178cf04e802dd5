package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"bemine/internal/engine"
	"bemine/internal/screen"
)

// ErrGone is returned for actions on a prank screen that is no longer shown.
var ErrGone = errors.New("prank screen is no longer mounted")

// Event names published on a prank's broadcaster.
type Event string

const (
	EventEvade     Event = "evade"
	EventConfirmed Event = "confirmed"
)

// Trigger says what made the button move.
type Trigger string

const (
	TriggerClick  Trigger = "click"
	TriggerTouch  Trigger = "touch"
	TriggerMagnet Trigger = "magnet"
)

// ParseTrigger maps a client-supplied trigger; anything unknown is a click.
func ParseTrigger(s string) Trigger {
	if Trigger(s) == TriggerTouch {
		return TriggerTouch
	}
	return TriggerClick
}

// Move is the outcome of one evasion as the browser needs it.
type Move struct {
	Evaded   bool
	Trigger  Trigger
	Attempts int
	Position engine.Position
	Stage    engine.Stage
	Decoys   []engine.Decoy
	Effect   engine.Effect
	Magnet   engine.TriggerState
}

// Snapshot is a consistent copy of a prank's state.
type Snapshot struct {
	ID       string
	Screen   screen.State
	Move     Move
	LastSeen time.Time
	Mounted  bool
}

// Prank is one mount of the prank screen: the evasion state, the magnetic
// trigger and the screen state for a single page view.
type Prank struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	screen    screen.State
	evasion   engine.State
	viewport  engine.Size
	button    engine.Size
	lastMove  Move
	lastSeen  time.Time
	unmounted bool

	eng     *engine.Engine
	magnet  *engine.Magnet
	ctx     context.Context
	cancel  context.CancelFunc
	publish func(Event)
	now     func() time.Time
}

func newPrank(id string, st screen.State, eng *engine.Engine, magnet *engine.Magnet, now func() time.Time) *Prank {
	ctx, cancel := context.WithCancel(context.Background())
	created := now()
	p := &Prank{
		ID:        id,
		CreatedAt: created,
		screen:    st,
		lastSeen:  created,
		eng:       eng,
		magnet:    magnet,
		ctx:       ctx,
		cancel:    cancel,
		publish:   func(Event) {},
		now:       now,
	}
	p.lastMove = p.moveLocked(false, "")
	return p
}

// Name returns the partner name.
func (p *Prank) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.screen.Name
}

// Style returns the prank style.
func (p *Prank) Style() engine.Style {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.screen.Style
}

// Screen returns the screen state.
func (p *Prank) Screen() screen.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.screen
}

// Evade moves the "No" button after a click or tap. Sizes are the browser's
// current measurements; unknown sizes leave the button where it is and the
// returned move reports Evaded false.
func (p *Prank) Evade(viewport, button engine.Size, trigger Trigger) (Move, error) {
	p.mu.Lock()
	if err := p.activeLocked(); err != nil {
		p.mu.Unlock()
		return Move{}, err
	}
	p.lastSeen = p.now()
	if viewport.W > 0 && viewport.H > 0 {
		p.viewport = viewport
	}
	if button.W > 0 && button.H > 0 {
		p.button = button
	}
	next, ok := p.eng.Evade(p.evasion, p.screen.Style, viewport, button)
	if ok {
		p.evasion = next
	}
	arm := ok && p.screen.Style == engine.StyleMagnetic && trigger != TriggerMagnet
	move := p.moveLocked(ok, trigger)
	p.lastMove = move
	p.mu.Unlock()

	if arm && p.magnet.State() == engine.TriggerIdle {
		p.magnet.Arm(p.ctx, p.center, p.repel)
		move.Magnet = engine.TriggerArmed
		// A confirm or unmount may have slipped in while unlocked.
		p.mu.Lock()
		gone := p.activeLocked() != nil
		p.mu.Unlock()
		if gone {
			p.magnet.Disarm()
			move.Magnet = engine.TriggerIdle
		}
	}
	return move, nil
}

// Pointer feeds a pointer sample to the magnetic trigger. It reports whether
// the sample was taken; non-magnetic pranks and an idle trigger ignore it.
func (p *Prank) Pointer(pt engine.Point) (bool, error) {
	p.mu.Lock()
	if err := p.activeLocked(); err != nil {
		p.mu.Unlock()
		return false, err
	}
	p.lastSeen = p.now()
	magnetic := p.screen.Style == engine.StyleMagnetic
	p.mu.Unlock()

	if !magnetic {
		return false, nil
	}
	return p.magnet.Offer(pt), nil
}

// Confirm handles the "Yes" click. It reports whether this call moved the
// screen to the confirmation; repeated calls return false.
func (p *Prank) Confirm() (bool, error) {
	p.mu.Lock()
	if p.unmounted {
		p.mu.Unlock()
		return false, ErrGone
	}
	p.lastSeen = p.now()
	next := screen.Reduce(p.screen, screen.Confirm{})
	changed := next.Mode != p.screen.Mode
	p.screen = next
	p.mu.Unlock()

	if changed {
		// The prank screen is gone once confirmed.
		p.magnet.Disarm()
		p.publish(EventConfirmed)
	}
	return changed, nil
}

// Snapshot returns a copy of the current state.
func (p *Prank) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	move := p.lastMove
	move.Magnet = p.magnet.State()
	move.Decoys = append([]engine.Decoy(nil), move.Decoys...)
	return Snapshot{
		ID:       p.ID,
		Screen:   p.screen,
		Move:     move,
		LastSeen: p.lastSeen,
		Mounted:  !p.unmounted,
	}
}

// LastSeen returns the time of the last interaction.
func (p *Prank) LastSeen() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

// touch marks the prank as seen at t.
func (p *Prank) touch(t time.Time) {
	p.mu.Lock()
	if t.After(p.lastSeen) {
		p.lastSeen = t
	}
	p.mu.Unlock()
}

// Mounted reports whether the prank is still live.
func (p *Prank) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.unmounted
}

func (p *Prank) unmount() {
	p.mu.Lock()
	if p.unmounted {
		p.mu.Unlock()
		return
	}
	p.unmounted = true
	p.cancel()
	p.mu.Unlock()
	p.magnet.Disarm()
}

func (p *Prank) activeLocked() error {
	if p.unmounted || p.screen.Mode != screen.ModePrank {
		return ErrGone
	}
	return nil
}

// center reports the button center for the magnet.
func (p *Prank) center() (engine.Point, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos := p.evasion.Position
	if !pos.Anchored || p.button.W <= 0 || p.button.H <= 0 {
		return engine.Point{}, false
	}
	return engine.Point{X: pos.X + p.button.W/2, Y: pos.Y + p.button.H/2}, true
}

// repel is the magnet's callback: move again with the last known sizes.
func (p *Prank) repel() {
	p.mu.Lock()
	if p.activeLocked() != nil {
		p.mu.Unlock()
		return
	}
	next, ok := p.eng.Evade(p.evasion, p.screen.Style, p.viewport, p.button)
	if !ok {
		p.mu.Unlock()
		return
	}
	p.evasion = next
	p.lastMove = p.moveLocked(true, TriggerMagnet)
	p.mu.Unlock()
	p.publish(EventEvade)
}

func (p *Prank) moveLocked(evaded bool, trigger Trigger) Move {
	st := p.evasion
	return Move{
		Evaded:   evaded,
		Trigger:  trigger,
		Attempts: st.Attempts,
		Position: st.Position,
		Stage:    st.Stage(),
		Decoys:   append([]engine.Decoy(nil), st.Decoys...),
		Effect:   engine.EffectFor(p.screen.Style, st.Attempts, st.Position.Anchored),
		Magnet:   p.magnet.State(),
	}
}
