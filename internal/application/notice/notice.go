package notice

import (
	"sync"
	"time"

	"taskdeck/internal/infrastructure/config"
)

// Level distinguishes confirmations from failures
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notice is a transient message shown to the user
type Notice struct {
	ID        int
	Level     Level
	Message   string
	ExpiresAt time.Time
}

// Notifier receives notices from the sync engine
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Board keeps the currently visible notices and drops them once they expire.
// It is safe for concurrent use.
type Board struct {
	mu       sync.Mutex
	notices  []Notice
	nextID   int
	infoTTL  time.Duration
	errorTTL time.Duration
	now      func() time.Time
}

var _ Notifier = (*Board)(nil)

// NewBoard creates a notice board with the configured lifetimes
func NewBoard(cfg config.NoticesConfig) *Board {
	infoTTL, errorTTL := cfg.InfoTTL, cfg.ErrorTTL
	if infoTTL <= 0 {
		infoTTL = 2 * time.Second
	}
	if errorTTL <= 0 {
		errorTTL = 5 * time.Second
	}
	return &Board{
		infoTTL:  infoTTL,
		errorTTL: errorTTL,
		now:      time.Now,
	}
}

// Info posts a confirmation
func (b *Board) Info(msg string) {
	b.post(LevelInfo, msg, b.infoTTL)
}

// Error posts a failure
func (b *Board) Error(msg string) {
	b.post(LevelError, msg, b.errorTTL)
}

func (b *Board) post(level Level, msg string, ttl time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.notices = append(b.notices, Notice{
		ID:        b.nextID,
		Level:     level,
		Message:   msg,
		ExpiresAt: b.now().Add(ttl),
	})
}

// Active drops expired notices and returns the rest, oldest first
func (b *Board) Active() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	kept := b.notices[:0]
	for _, n := range b.notices {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	b.notices = kept
	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}

// Discard is a Notifier that drops everything
type Discard struct{}

func (Discard) Info(string)  {}
func (Discard) Error(string) {}
