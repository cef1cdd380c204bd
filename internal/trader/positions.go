package trader

import "sync"

// PositionBook tracks which outcomes the trader has already entered, keyed by
// market ID. It is the guard that keeps the poll loop from re-buying the same
// market: once any outcome of a market is marked acquired, the whole market is
// skipped until it rotates out of the watch list.
type PositionBook struct {
	mu        sync.RWMutex
	positions map[string]map[string]struct{} // marketID → set of outcomes
}

// NewPositionBook creates an empty position book.
func NewPositionBook() *PositionBook {
	return &PositionBook{positions: make(map[string]map[string]struct{})}
}

// HasPosition reports whether the given outcome of the market is held.
func (b *PositionBook) HasPosition(marketID, outcome string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.positions[marketID][outcome]
	return ok
}

// HasAny reports whether any outcome of the market is held.
func (b *PositionBook) HasAny(marketID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.positions[marketID]) > 0
}

// MarkAcquired records an entry on the given outcome. Idempotent.
func (b *PositionBook) MarkAcquired(marketID, outcome string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.positions[marketID]
	if !ok {
		set = make(map[string]struct{})
		b.positions[marketID] = set
	}
	set[outcome] = struct{}{}
}

// Forget drops all state for a market. Called when the market leaves the
// watch list so the book does not grow unbounded across 15-minute windows.
func (b *PositionBook) Forget(marketID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.positions, marketID)
}

// Len returns the number of markets with at least one held outcome.
func (b *PositionBook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.positions)
}
