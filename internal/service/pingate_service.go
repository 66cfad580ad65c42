package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"spellmaster/internal/models"
	"spellmaster/internal/repository"
	"spellmaster/internal/security"
	"spellmaster/internal/storage"
)

// PinGateState is the current position of the parental gate
type PinGateState string

const (
	PinGateUnchecked            PinGateState = "unchecked"
	PinGateNoPinConfigured      PinGateState = "no_pin_configured"
	PinGateAwaitingVerification PinGateState = "awaiting_verification"
	PinGateVerified             PinGateState = "verified"
	PinGateDenied               PinGateState = "denied"
)

const pinCredentialName = "parent_pin"

var (
	ErrPinFormat        = errors.New("pin must be at least four digits")
	ErrPinMismatch      = errors.New("pin and confirmation do not match")
	ErrPinIncorrect     = errors.New("incorrect pin")
	ErrPinLockedOut     = errors.New("too many failed attempts")
	ErrPinNotConfigured = errors.New("no pin configured")
)

// CredentialStore is the slice of the credential repository the gate
// needs
type CredentialStore interface {
	GetDigest(name string) (string, error)
	SetDigest(name, digest string) error
	Delete(name string) error
	Exists(name string) (bool, error)
}

// PinGateService guards parent-only screens behind a PIN. It is a
// state machine: Check moves from Unchecked to one of the resting
// states, VerifyPin and Dismiss move between them, and every
// transition notifies subscribers.
type PinGateService struct {
	credentials   CredentialStore
	store         *storage.Store
	maxAttempts   int
	lockoutWindow time.Duration

	mu        sync.Mutex
	state     PinGateState
	listeners []func(PinGateState)
}

// NewPinGateService creates a new PIN gate
func NewPinGateService(credentials CredentialStore, store *storage.Store, maxAttempts int, lockoutWindow time.Duration) *PinGateService {
	return &PinGateService{
		credentials:   credentials,
		store:         store,
		maxAttempts:   maxAttempts,
		lockoutWindow: lockoutWindow,
		state:         PinGateUnchecked,
	}
}

// State returns the gate's current state
func (s *PinGateService) State() PinGateState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a callback invoked on every state transition.
// Callbacks run on the transitioning goroutine and must not block.
func (s *PinGateService) Subscribe(fn func(PinGateState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *PinGateService) transition(next PinGateState) {
	s.mu.Lock()
	if s.state == next {
		s.mu.Unlock()
		return
	}
	s.state = next
	listeners := make([]func(PinGateState), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, notify := range listeners {
		notify(next)
	}
}

// Check evaluates the gate for a piece of content: unprotected content
// passes immediately, no configured PIN passes straight through, an
// already verified session stays verified, anything else awaits
// verification.
func (s *PinGateService) Check(ctx context.Context, protected bool) (PinGateState, error) {
	if !protected {
		s.transition(PinGateVerified)
		return PinGateVerified, nil
	}

	exists, err := s.credentials.Exists(pinCredentialName)
	if err != nil {
		return s.State(), fmt.Errorf("failed to check pin: %w", err)
	}
	if !exists {
		s.transition(PinGateNoPinConfigured)
		return PinGateNoPinConfigured, nil
	}

	verified, found, err := storage.Get[bool](ctx, s.store, storage.KeyPinVerified)
	if err != nil {
		return s.State(), err
	}
	if found && verified {
		s.transition(PinGateVerified)
		return PinGateVerified, nil
	}

	s.transition(PinGateAwaitingVerification)
	return PinGateAwaitingVerification, nil
}

// SetupPin configures the parental PIN. The PIN must be at least four
// digits and match its confirmation. The parent just proved they know
// the PIN by choosing it, so setup leaves the session verified.
func (s *PinGateService) SetupPin(ctx context.Context, pin, confirmation string) error {
	if !security.ValidPinFormat(pin) {
		return ErrPinFormat
	}
	if pin != confirmation {
		return ErrPinMismatch
	}

	digest, err := security.HashSecret(pin)
	if err != nil {
		return err
	}
	if err := s.credentials.SetDigest(pinCredentialName, digest); err != nil {
		return err
	}
	if err := storage.Set(ctx, s.store, storage.KeyPinVerified, true); err != nil {
		return err
	}

	s.transition(PinGateVerified)
	return nil
}

// VerifyPin checks a PIN entry against the stored digest. Failed
// attempts accumulate inside a rolling window; hitting the limit locks
// verification out for the remainder of the window.
func (s *PinGateService) VerifyPin(ctx context.Context, pin string) error {
	digest, err := s.credentials.GetDigest(pinCredentialName)
	if errors.Is(err, repository.ErrCredentialNotFound) {
		return ErrPinNotConfigured
	}
	if err != nil {
		return err
	}

	attempts, _, err := storage.Get[models.PinAttempts](ctx, s.store, storage.KeyPinAttempts)
	if err != nil {
		return err
	}
	now := time.Now()
	if now.Before(attempts.LockedUntil) {
		return ErrPinLockedOut
	}
	if now.Sub(attempts.WindowStart) >= s.lockoutWindow {
		attempts = models.PinAttempts{WindowStart: now}
	}

	if !security.CheckSecret(pin, digest) {
		attempts.Count++
		if attempts.Count >= s.maxAttempts {
			attempts.LockedUntil = now.Add(s.lockoutWindow)
		}
		if err := storage.Set(ctx, s.store, storage.KeyPinAttempts, attempts); err != nil {
			return err
		}
		if attempts.Count >= s.maxAttempts {
			return ErrPinLockedOut
		}
		return ErrPinIncorrect
	}

	if err := s.store.Remove(ctx, storage.KeyPinAttempts); err != nil {
		return err
	}
	if err := storage.Set(ctx, s.store, storage.KeyPinVerified, true); err != nil {
		return err
	}
	s.transition(PinGateVerified)
	return nil
}

// Dismiss abandons verification without entering a PIN
func (s *PinGateService) Dismiss(ctx context.Context) error {
	if err := storage.Set(ctx, s.store, storage.KeyPinVerified, false); err != nil {
		return err
	}
	s.transition(PinGateDenied)
	return nil
}

// Lock drops session verification so the next Check asks for the PIN
// again
func (s *PinGateService) Lock(ctx context.Context) error {
	if err := s.store.Remove(ctx, storage.KeyPinVerified); err != nil {
		return err
	}
	s.transition(PinGateAwaitingVerification)
	return nil
}

// Reset removes the PIN entirely, clearing session verification and
// any lockout. Used after an emailed reset code is confirmed.
func (s *PinGateService) Reset(ctx context.Context) error {
	if err := s.credentials.Delete(pinCredentialName); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, storage.KeyPinVerified); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, storage.KeyPinAttempts); err != nil {
		return err
	}
	s.transition(PinGateNoPinConfigured)
	return nil
}
