package service

import (
	"context"
	"errors"
	"sync"

	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/hierarchy"
	"github.com/mbelozerov/caseline/internal/repository"
)

// Session holds the state shared by the interactive surfaces of one process:
// the logged-in user, the current remote selections and the suite tree cache.
// Selecting a project clears the plan and suite; selecting a plan clears the
// suite. The cache is owned here so every consumer sees one copy per process.
type Session struct {
	mu      sync.Mutex
	user    *domain.User
	project string
	planID  int64
	suiteID *int64
	cache   *hierarchy.Cache
	store   repository.SelectionStore
}

func NewSession() *Session {
	return &Session{cache: hierarchy.NewCache()}
}

// NewPersistentSession backs the selection with a store so it survives
// between process invocations.
func NewPersistentSession(store repository.SelectionStore) *Session {
	s := NewSession()
	s.store = store
	return s
}

func (s *Session) SetUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) SelectProject(project string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = project
	s.planID = 0
	s.suiteID = nil
}

func (s *Session) SelectPlan(planID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planID = planID
	s.suiteID = nil
}

func (s *Session) SelectSuite(suiteID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suiteID = &suiteID
}

// Selection returns the current project, plan and suite. The suite is nil
// when none is selected.
func (s *Session) Selection() (string, int64, *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project, s.planID, s.suiteID
}

func (s *Session) Cache() *hierarchy.Cache {
	return s.cache
}

// Persist writes the current selection to the store. A Session without a
// store, as used in tests, persists nothing.
func (s *Session) Persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	project, planID, suiteID := s.Selection()
	return s.store.SaveSelection(ctx, project, planID, suiteID)
}

// Restore loads the persisted selection, if any.
func (s *Session) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	project, planID, suiteID, err := s.store.GetSelection(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = project
	s.planID = planID
	s.suiteID = suiteID
	return nil
}
