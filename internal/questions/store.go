package questions

import (
	"strings"
	"sync"
)

// Store holds the ordered question list a wizard asks.
// Blank entries may be stored; they are dropped by ActiveQuestions.
type Store struct {
	mu        sync.Mutex
	questions []string
}

// NewStore returns a store seeded with a copy of initial.
func NewStore(initial []string) *Store {
	return &Store{questions: clone(initial)}
}

// Edit replaces the list wholesale.
func (s *Store) Edit(list []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = clone(list)
}

// Questions returns a copy of the stored list, blanks included.
func (s *Store) Questions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.questions)
}

// ActiveQuestions returns the non-blank entries in stored order.
// It is recomputed on every call.
func (s *Store) ActiveQuestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Active(s.questions)
}

// Active filters out entries whose trimmed form is empty.
func Active(list []string) []string {
	out := make([]string, 0, len(list))
	for _, q := range list {
		if strings.TrimSpace(q) != "" {
			out = append(out, q)
		}
	}
	return out
}

func clone(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}
