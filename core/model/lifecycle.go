package model

import (
	"sync"
)

// Phase is the lifecycle phase of a mutable-then-read-only container.
type Phase int

const (
	// Building allows mutation; evaluation has not started yet.
	Building Phase = iota
	// Frozen forbids mutation; readers may share the container without locks.
	Frozen
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case Building:
		return "building"
	case Frozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// Lifecycle guards a one-way Building -> Frozen transition.
//
// Mutations run under Mutate, which holds the write lock and refuses to run
// once frozen. Freeze is idempotent.
type Lifecycle struct {
	mu    sync.RWMutex
	phase Phase
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.phase
}

// IsFrozen reports whether Freeze has been called.
func (l *Lifecycle) IsFrozen() bool {
	return l.Phase() == Frozen
}

// Freeze moves the lifecycle to Frozen. It reports whether this call made the
// transition.
func (l *Lifecycle) Freeze() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.phase == Frozen {
		return false
	}
	l.phase = Frozen
	return true
}

// Mutate runs fn while holding the write lock if the lifecycle is still
// Building. It returns false without calling fn once frozen.
func (l *Lifecycle) Mutate(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.phase == Frozen {
		return false
	}
	fn()
	return true
}

// View runs fn while holding the read lock, so fn observes a consistent
// container in either phase.
func (l *Lifecycle) View(fn func()) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn()
}
