package session

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"bemine/internal/engine"
	"bemine/internal/screen"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	viewport = engine.Size{W: 1280, H: 800}
	button   = engine.Size{W: 150, H: 60}
)

func seeded() Option {
	return WithRandSource(func() engine.Rand { return rand.New(rand.NewSource(1)) })
}

func prankState(style engine.Style) screen.State {
	return screen.State{Mode: screen.ModePrank, Name: "Sam", Style: style}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStore_MountGet(t *testing.T) {
	s := NewStore(seeded())
	defer s.Close()

	p, err := s.Mount(prankState(engine.StyleSpin))
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Sam", p.Name())
	assert.Equal(t, engine.StyleSpin, p.Style())
	assert.Equal(t, 1, s.Len())

	got, ok := s.Get(p.ID)
	require.True(t, ok)
	assert.Same(t, p, got)

	_, ok = s.Get("nonexistent")
	assert.False(t, ok)

	other, err := s.Mount(prankState(engine.StyleSpin))
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, other.ID)
}

func TestStore_MountRejectsOtherScreens(t *testing.T) {
	s := NewStore()
	defer s.Close()
	_, err := s.Mount(screen.State{Mode: screen.ModeEntry})
	assert.Error(t, err)
	_, err = s.Mount(screen.State{Mode: screen.ModeConfirmed, Name: "Sam"})
	assert.Error(t, err)
	assert.Zero(t, s.Len())
}

func TestPrank_EvadeAdvancesStages(t *testing.T) {
	s := NewStore(seeded())
	defer s.Close()
	p, _ := s.Mount(prankState(engine.StyleShrink))

	initial := p.Snapshot().Move
	assert.False(t, initial.Position.Anchored)
	assert.Equal(t, "No", initial.Stage.Text)

	for i := 1; i <= 12; i++ {
		move, err := p.Evade(viewport, button, TriggerClick)
		require.NoError(t, err)
		assert.True(t, move.Evaded)
		assert.Equal(t, i, move.Attempts)
		assert.True(t, move.Position.Anchored)
		assert.Equal(t, engine.StageAt(i), move.Stage)
		assert.Equal(t, engine.EffectFor(engine.StyleShrink, i, true), move.Effect)
	}
	assert.Equal(t, 12, p.Snapshot().Move.Attempts)
}

func TestPrank_EvadeWithUnknownSizeDoesNotMove(t *testing.T) {
	s := NewStore(seeded())
	defer s.Close()
	p, _ := s.Mount(prankState(engine.StyleClassic))

	move, err := p.Evade(viewport, engine.Size{}, TriggerClick)
	require.NoError(t, err)
	assert.False(t, move.Evaded)
	assert.Zero(t, move.Attempts)
	assert.False(t, move.Position.Anchored)
}

func TestPrank_MultiplyKeepsSixDecoys(t *testing.T) {
	s := NewStore(seeded())
	defer s.Close()
	p, _ := s.Mount(prankState(engine.StyleMultiply))
	var move Move
	for i := 0; i < 8; i++ {
		move, _ = p.Evade(viewport, button, TriggerTouch)
	}
	require.Len(t, move.Decoys, 6)
	assert.Equal(t, int64(10), move.Decoys[0].ID)
	assert.Equal(t, int64(15), move.Decoys[5].ID)
}

func TestPrank_ConfirmIsIdempotent(t *testing.T) {
	s := NewStore(seeded())
	defer s.Close()
	p, _ := s.Mount(prankState(engine.StyleClassic))
	hub, ok := s.Broadcaster(p.ID)
	require.True(t, ok)
	events := hub.Subscribe()
	defer hub.Unsubscribe(events)

	changed, err := p.Confirm()
	require.NoError(t, err)
	assert.True(t, changed)
	for i := 0; i < 3; i++ {
		changed, err = p.Confirm()
		require.NoError(t, err)
		assert.False(t, changed)
	}
	assert.Equal(t, screen.ModeConfirmed, p.Screen().Mode)

	assert.Equal(t, EventConfirmed, <-events)
	select {
	case e := <-events:
		t.Fatalf("unexpected second event %q", e)
	case <-time.After(20 * time.Millisecond):
	}

	_, err = p.Evade(viewport, button, TriggerClick)
	assert.ErrorIs(t, err, ErrGone)
}

func TestPrank_MagneticArmsOnFirstClick(t *testing.T) {
	s := NewStore(seeded())
	defer s.Close()
	p, _ := s.Mount(prankState(engine.StyleMagnetic))

	taken, err := p.Pointer(engine.Point{X: 10, Y: 10})
	require.NoError(t, err)
	assert.False(t, taken, "idle magnet must ignore the pointer")
	assert.Equal(t, engine.TriggerIdle, p.Snapshot().Move.Magnet)

	move, err := p.Evade(viewport, button, TriggerClick)
	require.NoError(t, err)
	assert.Equal(t, engine.TriggerArmed, move.Magnet)
	assert.Equal(t, engine.TriggerArmed, p.Snapshot().Move.Magnet)
}

func TestPrank_MagneticRepelsNearPointer(t *testing.T) {
	s := NewStore(seeded())
	defer s.Close()
	p, _ := s.Mount(prankState(engine.StyleMagnetic))
	hub, _ := s.Broadcaster(p.ID)
	events := hub.Subscribe()
	defer hub.Unsubscribe(events)

	move, err := p.Evade(viewport, button, TriggerClick)
	require.NoError(t, err)
	center := engine.Point{X: move.Position.X + button.W/2, Y: move.Position.Y + button.H/2}
	near := engine.Point{X: center.X + 100, Y: center.Y}

	require.Eventually(t, func() bool {
		_, _ = p.Pointer(near)
		return p.Snapshot().Move.Attempts >= 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, EventEvade, <-events)
	last := p.Snapshot().Move
	assert.Equal(t, TriggerMagnet, last.Trigger)
	assert.True(t, last.Evaded)
}

func TestPrank_MagneticIgnoresFarPointer(t *testing.T) {
	s := NewStore(seeded())
	defer s.Close()
	p, _ := s.Mount(prankState(engine.StyleMagnetic))

	move, _ := p.Evade(viewport, button, TriggerClick)
	center := engine.Point{X: move.Position.X + button.W/2, Y: move.Position.Y + button.H/2}
	far := engine.Point{X: center.X + 151, Y: center.Y}
	for i := 0; i < 30; i++ {
		_, _ = p.Pointer(far)
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 1, p.Snapshot().Move.Attempts)
}

func TestPrank_NonMagneticIgnoresPointer(t *testing.T) {
	s := NewStore(seeded())
	defer s.Close()
	p, _ := s.Mount(prankState(engine.StyleClassic))
	_, _ = p.Evade(viewport, button, TriggerClick)
	taken, err := p.Pointer(engine.Point{X: 0, Y: 0})
	require.NoError(t, err)
	assert.False(t, taken)
	assert.Equal(t, engine.TriggerIdle, p.Snapshot().Move.Magnet)
}

func TestStore_UnmountStopsMagnet(t *testing.T) {
	s := NewStore(seeded())
	defer s.Close()
	p, _ := s.Mount(prankState(engine.StyleMagnetic))
	_, _ = p.Evade(viewport, button, TriggerClick)
	require.Equal(t, engine.TriggerArmed, p.Snapshot().Move.Magnet)

	hub, _ := s.Broadcaster(p.ID)
	events := hub.Subscribe()

	assert.True(t, s.Unmount(p.ID))
	assert.False(t, s.Unmount(p.ID))
	assert.False(t, p.Mounted())
	assert.Equal(t, engine.TriggerIdle, p.Snapshot().Move.Magnet)
	_, open := <-events
	assert.False(t, open, "unmount closes subscribers")

	_, err := p.Pointer(engine.Point{})
	assert.ErrorIs(t, err, ErrGone)
	_, err = p.Confirm()
	assert.ErrorIs(t, err, ErrGone)
	_, ok := s.Get(p.ID)
	assert.False(t, ok)
}

func TestStore_ConfirmStopsMagnet(t *testing.T) {
	s := NewStore(seeded())
	defer s.Close()
	p, _ := s.Mount(prankState(engine.StyleMagnetic))
	_, _ = p.Evade(viewport, button, TriggerClick)
	_, _ = p.Confirm()
	assert.Equal(t, engine.TriggerIdle, p.Snapshot().Move.Magnet)
	_, err := p.Pointer(engine.Point{})
	assert.ErrorIs(t, err, ErrGone)
}

func TestStore_IdlePranksExpire(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)}
	s := NewStore(seeded(), WithClock(clock.Now), WithIdleTTL(time.Minute))
	defer s.Close()

	stale, _ := s.Mount(prankState(engine.StyleClassic))
	clock.Advance(40 * time.Second)
	fresh, _ := s.Mount(prankState(engine.StyleClassic))
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, s.Sweep())
	assert.False(t, stale.Mounted())
	assert.True(t, fresh.Mounted())
	_, ok := s.Get(fresh.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStore_OpenStreamKeepsPrankAlive(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)}
	s := NewStore(seeded(), WithClock(clock.Now), WithIdleTTL(time.Minute))
	defer s.Close()

	p, _ := s.Mount(prankState(engine.StyleSpin))
	hub, ok := s.Broadcaster(p.ID)
	require.True(t, ok)
	events := hub.Subscribe()

	clock.Advance(10 * time.Minute)
	assert.Zero(t, s.Sweep())
	assert.True(t, p.Mounted())
	assert.Equal(t, clock.Now(), p.LastSeen())

	// The TTL runs again from the moment the stream went away.
	hub.Unsubscribe(events)
	clock.Advance(59 * time.Second)
	assert.Zero(t, s.Sweep())
	clock.Advance(time.Second)
	assert.Equal(t, 1, s.Sweep())
	assert.False(t, p.Mounted())
}

func TestStore_MaxMountsEvictsLeastRecentlySeen(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)}
	s := NewStore(seeded(), WithClock(clock.Now), WithMaxMounts(2))
	defer s.Close()

	first, _ := s.Mount(prankState(engine.StyleClassic))
	clock.Advance(time.Second)
	second, _ := s.Mount(prankState(engine.StyleClassic))
	clock.Advance(time.Second)
	_, err := first.Evade(viewport, button, TriggerClick)
	require.NoError(t, err)
	clock.Advance(time.Second)

	third, err := s.Mount(prankState(engine.StyleClassic))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.True(t, first.Mounted())
	assert.False(t, second.Mounted())
	assert.True(t, third.Mounted())
}

func TestStore_MaxMountsPrefersExpired(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)}
	s := NewStore(seeded(), WithClock(clock.Now), WithMaxMounts(3), WithIdleTTL(time.Minute))
	defer s.Close()

	a, _ := s.Mount(prankState(engine.StyleClassic))
	b, _ := s.Mount(prankState(engine.StyleClassic))
	clock.Advance(2 * time.Minute)
	c, _ := s.Mount(prankState(engine.StyleClassic))
	d, _ := s.Mount(prankState(engine.StyleClassic))

	assert.False(t, a.Mounted())
	assert.False(t, b.Mounted())
	assert.True(t, c.Mounted())
	assert.True(t, d.Mounted())
	assert.Equal(t, 2, s.Len())
}

func TestStore_CloseUnmountsEverything(t *testing.T) {
	s := NewStore(seeded())
	var pranks []*Prank
	for _, style := range engine.Styles() {
		p, err := s.Mount(prankState(style))
		require.NoError(t, err)
		_, _ = p.Evade(viewport, button, TriggerClick)
		pranks = append(pranks, p)
	}
	s.Close()
	assert.Zero(t, s.Len())
	for _, p := range pranks {
		assert.False(t, p.Mounted())
	}
}

func TestParseTrigger(t *testing.T) {
	assert.Equal(t, TriggerTouch, ParseTrigger("touch"))
	assert.Equal(t, TriggerClick, ParseTrigger("click"))
	assert.Equal(t, TriggerClick, ParseTrigger("magnet"))
	assert.Equal(t, TriggerClick, ParseTrigger(""))
}
