package audit

import (
	"context"
	"sync"
)

// MemoryPublisher keeps every event in process, indexed by fingerprint.
type MemoryPublisher struct {
	mu            sync.RWMutex
	events        []Event
	byFingerprint map[string][]int
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{byFingerprint: make(map[string][]int)}
}

func (p *MemoryPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byFingerprint[e.Fingerprint] = append(p.byFingerprint[e.Fingerprint], len(p.events))
	p.events = append(p.events, e)
	return nil
}

// All returns a copy of the events in publish order.
func (p *MemoryPublisher) All() []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *MemoryPublisher) ListByFingerprint(fingerprint string) []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	idx := p.byFingerprint[fingerprint]
	out := make([]Event, 0, len(idx))
	for _, i := range idx {
		out = append(out, p.events[i])
	}
	return out
}

// Last returns the most recent event, or false when none was published.
func (p *MemoryPublisher) Last() (Event, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.events) == 0 {
		return Event{}, false
	}
	return p.events[len(p.events)-1], true
}

func (p *MemoryPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
	p.byFingerprint = make(map[string][]int)
}
