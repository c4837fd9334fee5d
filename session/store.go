package session

import "sync"

// Store is the mutex-guarded single record of auth state. A Store starts
// anonymous with every flow at its initial stage and is re-created per
// process; it never persists itself.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore returns an anonymous Store with all flows at their initial stage.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a copy of the current state. Pointer fields are cloned so
// callers can never mutate the store through a snapshot.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Epoch returns the current logout epoch. Operations that rehydrate the user
// record capture it before their network call and hand it back with the
// resulting transition.
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Epoch
}

// Begin marks an operation in flight: it sets Loading and clears any stale
// error in one atomic step. It returns false, without mutating anything, when
// an operation is already in flight.
func (s *Store) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Loading {
		return false
	}
	s.state.Loading = true
	s.state.Err = ""
	return true
}

// Apply runs a single transition atomically.
func (s *Store) Apply(t Transition) {
	if t == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.apply(&s.state)
}

func cloneState(st State) State {
	out := st
	if st.User != nil {
		u := *st.User
		out.User = &u
	}
	if st.RestoreInfo != nil {
		r := *st.RestoreInfo
		out.RestoreInfo = &r
	}
	return out
}
