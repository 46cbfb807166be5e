package events

import (
	"sync"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/metrics"
)

// RingCapacity bounds each per-(chain, contract) event buffer.
const RingCapacity = 1000

// Ring is a fixed-capacity FIFO event buffer. Appends serialize on the
// ring's own mutex; once full, the oldest entry is evicted first.
type Ring struct {
	mu   sync.Mutex
	buf  []domain.ContractEvent
	head int // index of the oldest entry
	size int
}

func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]domain.ContractEvent, capacity)}
}

func (r *Ring) Append(ev domain.ContractEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = ev
		r.size++
		return
	}

	// full: overwrite the oldest and advance
	r.buf[r.head] = ev
	r.head = (r.head + 1) % len(r.buf)
	metrics.RingEvictions.WithLabelValues(string(ev.Chain)).Inc()
}

func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Snapshot returns a copy of the buffer contents, oldest first. Callers
// get their own slice; the ring is never aliased out.
func (r *Ring) Snapshot() []domain.ContractEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.ContractEvent, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Store holds one ring per (chain, contract address) key. The store map is
// guarded separately from the rings so concurrent appends to different
// contracts never contend.
type Store struct {
	mu       sync.RWMutex
	rings    map[string]*Ring
	capacity int
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = RingCapacity
	}
	return &Store{
		rings:    make(map[string]*Ring),
		capacity: capacity,
	}
}

func storeKey(chainID domain.Chain, address string) string {
	return string(chainID) + ":" + domain.NormalizeAddress(chainID, address)
}

func (s *Store) ring(chainID domain.Chain, address string) *Ring {
	key := storeKey(chainID, address)

	s.mu.RLock()
	r, ok := s.rings[key]
	s.mu.RUnlock()
	if ok {
		return r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rings[key]; ok {
		return r
	}
	r = NewRing(s.capacity)
	s.rings[key] = r
	return r
}

// Append records an event in its contract's ring.
func (s *Store) Append(ev domain.ContractEvent) {
	s.ring(ev.Chain, ev.Contract).Append(ev)
}

// Events returns a copy of a contract's buffered events, oldest first.
func (s *Store) Events(chainID domain.Chain, address string) []domain.ContractEvent {
	s.mu.RLock()
	r, ok := s.rings[storeKey(chainID, address)]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return r.Snapshot()
}
