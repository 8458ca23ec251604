package merchant

import (
	"fmt"
	"strings"
	"sync"
)

// Sessions is the keyed store of per-conversation histories. A session is
// created lazily on first append and lives until reset or destroy; there is
// no implicit global registry.
//
// While a voice task is in flight only the background worker appends; the
// main loop reads snapshots that tolerate being one frame stale, so a
// read-write mutex is all the coordination needed.
type Sessions struct {
	mu   sync.RWMutex
	byID map[string][]Turn
}

// NewSessions creates an empty store.
func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string][]Turn)}
}

// SessionID derives the stable conversation key for a shop visit.
// The visitor name defaults to "traveler" when blank.
func SessionID(namespace, visitor string) string {
	name := strings.ToLower(strings.TrimSpace(visitor))
	if name == "" {
		name = "traveler"
	}
	return fmt.Sprintf("%s:shop:%s", namespace, name)
}

// Append adds one turn to the session, creating it if needed.
func (s *Sessions) Append(id string, role Role, text string) Turn {
	turn := newTurn(role, text)
	s.mu.Lock()
	s.byID[id] = append(s.byID[id], turn)
	s.mu.Unlock()
	return turn
}

// History returns a snapshot of the session's turns in conversation order.
func (s *Sessions) History(id string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.byID[id]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Len returns the number of turns in the session.
func (s *Sessions) Len(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID[id])
}

// Reset clears one session's history, leaving all others untouched.
func (s *Sessions) Reset(id string) {
	s.mu.Lock()
	s.byID[id] = nil
	s.mu.Unlock()
}

// Destroy removes the session entirely. Called when the owning scene is
// torn down.
func (s *Sessions) Destroy(id string) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
}
