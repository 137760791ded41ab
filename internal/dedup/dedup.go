// Package dedup suppresses duplicate webhook deliveries for a bounded window.
package dedup

import (
	"sync"
	"time"
)

// DefaultTTL is how long a key stays suppressed after first admission.
const DefaultTTL = 5 * time.Minute

// Deduplicator is a TTL-bounded membership set keyed by (repository, PR).
// It is per-instance best effort: entries do not survive a restart.
type Deduplicator struct {
	mu   sync.Mutex
	seen map[string]time.Time // key → expiry
	ttl  time.Duration
	done chan struct{}
	once sync.Once
}

// New creates a Deduplicator and starts its background sweep.
func New(ttl time.Duration) *Deduplicator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	d := &Deduplicator{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go d.sweep()
	return d
}

// Admit reports whether the key is seen for the first time within the TTL
// window. The first call for a key returns true; subsequent calls return
// false until the TTL elapses. Safe for concurrent use: the check-and-insert
// is done under one lock so overlapping redeliveries admit exactly once.
func (d *Deduplicator) Admit(key string) bool {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if expiry, ok := d.seen[key]; ok && now.Before(expiry) {
		return false
	}
	d.seen[key] = now.Add(d.ttl)
	return true
}

// Stop terminates the background sweep. Admit remains usable after Stop;
// expired entries are then only reclaimed lazily.
func (d *Deduplicator) Stop() {
	d.once.Do(func() { close(d.done) })
}

func (d *Deduplicator) sweep() {
	ticker := time.NewTicker(d.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-d.done:
			return
		case now := <-ticker.C:
			d.mu.Lock()
			for key, expiry := range d.seen {
				if now.After(expiry) {
					delete(d.seen, key)
				}
			}
			d.mu.Unlock()
		}
	}
}
