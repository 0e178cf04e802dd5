// Package session keeps one Prank per mounted prank screen.
package session

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bemine/internal/engine"
	"bemine/internal/screen"
	"bemine/pkg/realtime"
)

const (
	// DefaultIdleTTL is how long a prank screen lives without any interaction.
	// A screen with an open event stream counts as active.
	DefaultIdleTTL = 30 * time.Minute
	// DefaultMaxMounts caps live pranks; the least recently seen one is
	// evicted to make room.
	DefaultMaxMounts = 1000
)

// Store holds pranks and delegates to realtime.RoomStore for lookup and broadcast.
type Store struct {
	r       *realtime.RoomStore[*Prank, Event]
	newRand func() engine.Rand
	engOpts []engine.Option
	radius  float64
	ttl     time.Duration
	max     int
	now     func() time.Time
	log     *zap.Logger

	mountMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithRandSource sets the factory for each prank's random source.
func WithRandSource(f func() engine.Rand) Option {
	return func(s *Store) { s.newRand = f }
}

// WithEngineOptions passes options to every prank's engine.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Store) { s.engOpts = append(s.engOpts, opts...) }
}

// WithRepelRadius sets the magnetic repulsion radius.
func WithRepelRadius(r float64) Option {
	return func(s *Store) { s.radius = r }
}

// WithIdleTTL sets how long an untouched prank stays mounted.
func WithIdleTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithMaxMounts caps the number of live pranks. Zero or less means no cap.
func WithMaxMounts(n int) Option {
	return func(s *Store) { s.max = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates an in-memory prank store with SSE broadcasters.
func NewStore(opts ...Option) *Store {
	s := &Store{
		r: realtime.NewRoomStore[*Prank, Event](),
		newRand: func() engine.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		radius: engine.DefaultRepelRadius,
		ttl:    DefaultIdleTTL,
		max:    DefaultMaxMounts,
		now:    func() time.Time { return time.Now().UTC() },
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount creates a prank for a screen state that is on the prank screen.
func (s *Store) Mount(st screen.State) (*Prank, error) {
	if st.Mode != screen.ModePrank {
		return nil, fmt.Errorf("mount prank: screen is %s", st.Mode)
	}
	s.mountMu.Lock()
	defer s.mountMu.Unlock()
	s.makeRoom()

	id := uuid.NewString()
	eng := engine.New(s.newRand(), s.engOpts...)
	p := newPrank(id, st, eng, engine.NewMagnet(s.radius), s.now)
	p.publish = func(e Event) { s.r.Publish(id, e) }
	s.r.Create(id, p)
	s.ensureIdleLoop(id)
	s.log.Debug("prank mounted", zap.String("prank_id", id), zap.String("style", string(st.Style)))
	return p, nil
}

// Get returns a mounted prank by ID.
func (s *Store) Get(id string) (*Prank, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// Unmount stops a prank's background work and forgets it.
func (s *Store) Unmount(id string) bool {
	p, ok := s.Get(id)
	if !ok {
		return false
	}
	p.unmount()
	s.r.Delete(id)
	s.log.Debug("prank unmounted", zap.String("prank_id", id))
	return true
}

// Broadcaster returns the SSE broadcaster for a prank.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster[Event], bool) {
	return s.r.Broadcaster(id)
}

// Len returns the number of mounted pranks.
func (s *Store) Len() int {
	return s.r.Len()
}

// Close unmounts every prank and waits for background loops to stop.
func (s *Store) Close() {
	for _, id := range s.r.IDs() {
		s.Unmount(id)
	}
	s.r.Close()
}

// ensureIdleLoop unmounts the prank once it has been idle for the TTL.
func (s *Store) ensureIdleLoop(id string) {
	getState := func() *Prank {
		p, _ := s.Get(id)
		return p
	}
	tick := func(p *Prank, now time.Time) (time.Time, []Event, bool) {
		if p == nil || !p.Mounted() {
			return time.Time{}, nil, true
		}
		remaining, expired := s.idle(p)
		if expired {
			s.log.Debug("prank expired", zap.String("prank_id", id), zap.Duration("ttl", s.ttl))
			s.Unmount(id)
			return time.Time{}, nil, true
		}
		return now.Add(remaining), nil, false
	}
	s.r.RunLoop(id, getState, tick)
}

// idle reports how long p has left and whether it has expired. A prank with
// a connected event stream is still on someone's screen, so it is touched
// instead of expired.
func (s *Store) idle(p *Prank) (time.Duration, bool) {
	now := s.now()
	if hub, ok := s.r.Broadcaster(p.ID); ok && hub.Subscribers() > 0 {
		p.touch(now)
		return s.ttl, false
	}
	remaining := p.LastSeen().Add(s.ttl).Sub(now)
	return remaining, remaining <= 0
}

// Sweep unmounts every expired prank now and returns how many it removed.
func (s *Store) Sweep() int {
	removed := 0
	for _, id := range s.r.IDs() {
		p, ok := s.Get(id)
		if !ok {
			continue
		}
		if _, expired := s.idle(p); expired && s.Unmount(id) {
			s.log.Debug("prank expired", zap.String("prank_id", id), zap.Duration("ttl", s.ttl))
			removed++
		}
	}
	return removed
}

// makeRoom keeps Mount under the cap: expired pranks go first, then the
// least recently seen one. Callers hold mountMu.
func (s *Store) makeRoom() {
	if s.max <= 0 || s.r.Len() < s.max {
		return
	}
	s.Sweep()
	for s.r.Len() >= s.max {
		var oldest *Prank
		for _, id := range s.r.IDs() {
			p, ok := s.Get(id)
			if !ok {
				continue
			}
			if oldest == nil || p.LastSeen().Before(oldest.LastSeen()) {
				oldest = p
			}
		}
		if oldest == nil {
			return
		}
		s.log.Info("prank evicted", zap.String("prank_id", oldest.ID), zap.Int("max_mounts", s.max))
		s.Unmount(oldest.ID)
	}
}
