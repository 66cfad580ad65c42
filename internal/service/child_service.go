package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"spellmaster/internal/credentials"
	"spellmaster/internal/models"
	"spellmaster/internal/storage"
)

var ErrNoActiveChild = errors.New("no active child selected")

// ChildService manages child profiles and tracks which child is
// currently active. The active selection is in-memory state; profiles
// themselves are persisted.
type ChildService struct {
	store *storage.Store

	mu        sync.RWMutex
	activeID  string
	listeners []func(models.ChildProfile)
}

// NewChildService creates a new child service
func NewChildService(store *storage.Store) *ChildService {
	return &ChildService{store: store}
}

// Init loads the stored profiles and selects the first one as active
// when no selection exists yet. Called once at startup.
func (s *ChildService) Init(ctx context.Context) error {
	children, _, err := storage.Get[[]models.ChildProfile](ctx, s.store, storage.KeyChildProfiles)
	if err != nil {
		return &StorageError{Op: "load", Key: storage.KeyChildProfiles, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == "" && len(children) > 0 {
		s.activeID = children[0].ID
	}
	return nil
}

// ListChildren returns all child profiles, empty when none exist
func (s *ChildService) ListChildren(ctx context.Context) ([]models.ChildProfile, error) {
	children, _, err := storage.Get[[]models.ChildProfile](ctx, s.store, storage.KeyChildProfiles)
	if err != nil {
		return nil, &StorageError{Op: "load", Key: storage.KeyChildProfiles, Err: err}
	}
	if children == nil {
		children = []models.ChildProfile{}
	}
	return children, nil
}

// CreateChild adds a child profile. An empty name gets a generated
// display name. The first child created becomes active automatically.
func (s *ChildService) CreateChild(ctx context.Context, name string) (models.ChildProfile, error) {
	if name == "" {
		generated, err := credentials.GenerateDisplayName()
		if err != nil {
			return models.ChildProfile{}, fmt.Errorf("failed to generate display name: %w", err)
		}
		name = generated
	}

	color, err := credentials.PickAvatarColor()
	if err != nil {
		return models.ChildProfile{}, fmt.Errorf("failed to pick avatar color: %w", err)
	}

	child := models.ChildProfile{
		ID:          uuid.New().String(),
		Name:        name,
		Level:       ResolveLevel(0).ID,
		XP:          0,
		AvatarColor: color,
		CreatedAt:   time.Now(),
	}

	children, _, err := storage.Get[[]models.ChildProfile](ctx, s.store, storage.KeyChildProfiles)
	if err != nil {
		return models.ChildProfile{}, &StorageError{Op: "load", Key: storage.KeyChildProfiles, Err: err}
	}
	children = append(children, child)
	if err := storage.Set(ctx, s.store, storage.KeyChildProfiles, children); err != nil {
		return models.ChildProfile{}, &StorageError{Op: "save", Key: storage.KeyChildProfiles, Err: err}
	}

	s.mu.Lock()
	if s.activeID == "" {
		s.activeID = child.ID
	}
	s.mu.Unlock()
	return child, nil
}

// ActiveChild returns the currently selected child profile
func (s *ChildService) ActiveChild(ctx context.Context) (models.ChildProfile, error) {
	s.mu.RLock()
	activeID := s.activeID
	s.mu.RUnlock()

	if activeID == "" {
		return models.ChildProfile{}, ErrNoActiveChild
	}

	children, err := s.ListChildren(ctx)
	if err != nil {
		return models.ChildProfile{}, err
	}
	for _, child := range children {
		if child.ID == activeID {
			return child, nil
		}
	}
	return models.ChildProfile{}, ErrNoActiveChild
}

// SetActiveChild switches the active selection and notifies
// subscribers with the newly active profile. An empty ID clears the
// selection so the parent plays directly; subscribers then receive a
// zero profile.
func (s *ChildService) SetActiveChild(ctx context.Context, childID string) error {
	if childID == "" {
		s.setActive("", models.ChildProfile{})
		return nil
	}

	children, err := s.ListChildren(ctx)
	if err != nil {
		return err
	}

	for _, child := range children {
		if child.ID == childID {
			s.setActive(childID, child)
			return nil
		}
	}
	return fmt.Errorf("child %q not found", childID)
}

func (s *ChildService) setActive(id string, child models.ChildProfile) {
	s.mu.Lock()
	s.activeID = id
	listeners := make([]func(models.ChildProfile), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, notify := range listeners {
		notify(child)
	}
}

// Subscribe registers a callback invoked whenever the active child
// changes. Callbacks run on the switching goroutine and must not block.
func (s *ChildService) Subscribe(fn func(models.ChildProfile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
