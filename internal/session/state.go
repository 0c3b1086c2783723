package session

import (
	"sync"
	"time"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

// Snapshot is what the dashboard sees for one user: the last loaded data,
// whether a load is in flight and the last load error.
type Snapshot struct {
	UserData  *domain.UserData `json:"userData"`
	Loading   bool             `json:"loading"`
	Err       error            `json:"-"`
	Error     string           `json:"error,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// SnapshotOf wraps data from a successful load. Handlers answer with it
// instead of rereading State, which another request may have changed.
func SnapshotOf(data *domain.UserData) Snapshot {
	snap := Snapshot{UserData: data}
	if data != nil {
		snap.UpdatedAt = data.LoadedAt
	}
	return snap
}

// State owns the per-user session snapshots. It is the single writer of
// Snapshot values; callers only ever get copies.
type State struct {
	mu    sync.RWMutex
	users map[string]Snapshot
	now   func() time.Time
}

// NewState creates an empty state.
func NewState() *State {
	return &State{users: make(map[string]Snapshot), now: time.Now}
}

// Get returns the snapshot for userID (zero value when never loaded).
func (s *State) Get(userID string) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[userID]
}

func (s *State) begin(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.users[userID]
	snap.Loading = true
	snap.UpdatedAt = s.now()
	s.users[userID] = snap
}

// finish records a load outcome. A failed load clears the data:
// the dashboard never renders a partial or stale snapshot after an error.
func (s *State) finish(userID string, data *domain.UserData, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{UserData: data, Err: err, UpdatedAt: s.now()}
	if err != nil {
		snap.UserData = nil
		snap.Error = domain.BackendMessage(err)
	}
	s.users[userID] = snap
}

// Clear drops everything held for userID (sign-out).
func (s *State) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}
