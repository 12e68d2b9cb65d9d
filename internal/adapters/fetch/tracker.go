package fetch

import (
	"sync"

	"github.com/google/uuid"

	"github.com/respiview/respiview/pkg/metrics"
)

// Tag identifies one in-flight fetch within a scope.
type Tag struct {
	Scope string
	ID    string
}

// Tracker guards against out-of-order fetch completions. Each new fetch for
// a scope supersedes the previous one; a completion carrying a superseded
// tag must be discarded by the caller.
type Tracker struct {
	mu      sync.Mutex
	current map[string]string
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{current: make(map[string]string)}
}

// Begin registers a new fetch for scope and returns its tag. Any tag
// previously issued for the scope becomes stale.
func (t *Tracker) Begin(scope string) Tag {
	id := uuid.New().String()
	t.mu.Lock()
	t.current[scope] = id
	t.mu.Unlock()
	return Tag{Scope: scope, ID: id}
}

// Current reports the id of the latest fetch begun for scope.
func (t *Tracker) Current(scope string) (string, bool) {
	t.mu.Lock()
	id, ok := t.current[scope]
	t.mu.Unlock()
	return id, ok
}

// Stale reports whether tag has been superseded by a later Begin for the
// same scope. Stale completions are counted and must not be applied.
func (t *Tracker) Stale(tag Tag) bool {
	t.mu.Lock()
	id, ok := t.current[tag.Scope]
	t.mu.Unlock()
	if ok && id == tag.ID {
		return false
	}
	metrics.RecordStaleResponseDropped()
	return true
}

// Forget drops tracking state for scope.
func (t *Tracker) Forget(scope string) {
	t.mu.Lock()
	delete(t.current, scope)
	t.mu.Unlock()
}
