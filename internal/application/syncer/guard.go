package syncer

import (
	"fmt"
	"sync"

	"taskdeck/internal/domain/entity"
)

// Guard tracks which task ids have an operation in flight
type Guard struct {
	mu       sync.Mutex
	inflight map[string]string // id -> operation
}

// NewGuard creates an empty guard
func NewGuard() *Guard {
	return &Guard{inflight: make(map[string]string)}
}

// Acquire marks id as busy for op. It fails without waiting when another
// operation already holds the id. The returned release func is idempotent.
func (g *Guard) Acquire(id, op string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if current, busy := g.inflight[id]; busy {
		return nil, fmt.Errorf("%w: %s is running for task %q", entity.ErrOperationInFlight, current, id)
	}
	g.inflight[id] = op

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inflight, id)
			g.mu.Unlock()
		})
	}, nil
}

// Busy reports whether id has an operation in flight
func (g *Guard) Busy(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inflight[id]
	return busy
}
