// Package navigator tracks which surface of the client the user is on. The
// API client uses it to send the user to the login surface when the backend
// rejects the session.
package navigator

import "sync"

// Surface names a screen of the interactive client.
type Surface string

const (
	Login     Surface = "login"
	Library   Surface = "library"
	Favorites Surface = "favorites"
	Wallet    Surface = "wallet"
	Account   Surface = "account"
	Admin     Surface = "admin"
)

// Navigator is the part of the UI the API client depends on.
type Navigator interface {
	Current() Surface
	At(s Surface) bool
	Navigate(s Surface)
}

// Tracker is an in-memory Navigator. It records every navigation so callers
// can tell how often the user was redirected.
type Tracker struct {
	mu      sync.RWMutex
	current Surface
	visits  map[Surface]int
	history []Surface
}

func NewTracker(start Surface) *Tracker {
	return &Tracker{current: start, visits: map[Surface]int{}}
}

func (t *Tracker) Current() Surface {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

func (t *Tracker) At(s Surface) bool {
	return t.Current() == s
}

// Navigate moves to s. Moving to the current surface is still recorded.
func (t *Tracker) Navigate(s Surface) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = s
	t.visits[s]++
	t.history = append(t.history, s)
}

// Visits returns how many times s was navigated to.
func (t *Tracker) Visits(s Surface) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.visits[s]
}

func (t *Tracker) History() []Surface {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Surface(nil), t.history...)
}
