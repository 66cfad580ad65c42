package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellmaster/internal/models"
	"spellmaster/internal/repository"
	"spellmaster/internal/security"
	"spellmaster/internal/storage"
)

// fakeCredentials is an in-memory CredentialStore
type fakeCredentials struct {
	digests map[string]string
}

func newFakeCredentials() *fakeCredentials {
	return &fakeCredentials{digests: make(map[string]string)}
}

func (f *fakeCredentials) GetDigest(name string) (string, error) {
	digest, ok := f.digests[name]
	if !ok {
		return "", repository.ErrCredentialNotFound
	}
	return digest, nil
}

func (f *fakeCredentials) SetDigest(name, digest string) error {
	f.digests[name] = digest
	return nil
}

func (f *fakeCredentials) Delete(name string) error {
	delete(f.digests, name)
	return nil
}

func (f *fakeCredentials) Exists(name string) (bool, error) {
	_, ok := f.digests[name]
	return ok, nil
}

func newTestGate(t *testing.T) (*PinGateService, *fakeCredentials, *storage.Store) {
	t.Helper()
	store, _ := newTestStore()
	creds := newFakeCredentials()
	gate := NewPinGateService(creds, store, 5, 5*time.Minute)
	return gate, creds, store
}

func TestPinGateCheckWithoutPin(t *testing.T) {
	gate, _, _ := newTestGate(t)

	assert.Equal(t, PinGateUnchecked, gate.State())

	state, err := gate.Check(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, PinGateNoPinConfigured, state)
}

func TestPinGateCheckUnprotected(t *testing.T) {
	gate, _, _ := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.SetupPin(ctx, "1234", "1234"))
	require.NoError(t, gate.Lock(ctx))

	// unprotected content never asks for the PIN
	state, err := gate.Check(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, PinGateVerified, state)
}

func TestPinGateSetupValidation(t *testing.T) {
	gate, _, _ := newTestGate(t)
	ctx := context.Background()

	assert.ErrorIs(t, gate.SetupPin(ctx, "12", "12"), ErrPinFormat)
	assert.ErrorIs(t, gate.SetupPin(ctx, "12ab", "12ab"), ErrPinFormat)
	assert.ErrorIs(t, gate.SetupPin(ctx, "1234", "4321"), ErrPinMismatch)

	require.NoError(t, gate.SetupPin(ctx, "1234", "1234"))
	assert.Equal(t, PinGateVerified, gate.State())
}

func TestPinGateVerifyFlow(t *testing.T) {
	gate, _, _ := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.SetupPin(ctx, "1234", "1234"))
	require.NoError(t, gate.Lock(ctx))

	var transitions []PinGateState
	gate.Subscribe(func(state PinGateState) {
		transitions = append(transitions, state)
	})

	assert.ErrorIs(t, gate.VerifyPin(ctx, "9999"), ErrPinIncorrect)
	require.NoError(t, gate.VerifyPin(ctx, "1234"))
	assert.Equal(t, PinGateVerified, gate.State())
	assert.Equal(t, []PinGateState{PinGateVerified}, transitions)

	// verification survives a fresh Check through the session flag
	state, err := gate.Check(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, PinGateVerified, state)

	// locking drops the session flag
	require.NoError(t, gate.Lock(ctx))
	state, err = gate.Check(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, PinGateAwaitingVerification, state)
}

func TestPinGateVerifyWithoutPin(t *testing.T) {
	gate, _, _ := newTestGate(t)

	assert.ErrorIs(t, gate.VerifyPin(context.Background(), "1234"), ErrPinNotConfigured)
}

func TestPinGateLockout(t *testing.T) {
	gate, _, store := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.SetupPin(ctx, "1234", "1234"))

	for i := 0; i < 4; i++ {
		assert.ErrorIs(t, gate.VerifyPin(ctx, "0000"), ErrPinIncorrect)
	}
	// the fifth failure trips the lockout
	assert.ErrorIs(t, gate.VerifyPin(ctx, "0000"), ErrPinLockedOut)

	// even the right PIN is rejected while locked out
	assert.ErrorIs(t, gate.VerifyPin(ctx, "1234"), ErrPinLockedOut)

	attempts, found, err := storage.Get[models.PinAttempts](ctx, store, storage.KeyPinAttempts)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 5, attempts.Count)
	assert.True(t, attempts.LockedUntil.After(time.Now().Add(4*time.Minute)))
}

func TestPinGateLockoutRunsFullWindow(t *testing.T) {
	gate, _, store := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.SetupPin(ctx, "1234", "1234"))

	// four failures already near the end of the window; the lock from
	// the fifth still lasts the whole window from now
	seeded := models.PinAttempts{
		Count:       4,
		WindowStart: time.Now().Add(-4*time.Minute - 59*time.Second),
	}
	require.NoError(t, storage.Set(ctx, store, storage.KeyPinAttempts, seeded))

	assert.ErrorIs(t, gate.VerifyPin(ctx, "0000"), ErrPinLockedOut)

	attempts, found, err := storage.Get[models.PinAttempts](ctx, store, storage.KeyPinAttempts)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, attempts.LockedUntil.After(time.Now().Add(4*time.Minute)))
}

func TestPinGateLockoutExpires(t *testing.T) {
	gate, _, store := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.SetupPin(ctx, "1234", "1234"))

	// a lockout whose window has already passed
	stale := models.PinAttempts{
		Count:       5,
		WindowStart: time.Now().Add(-10 * time.Minute),
		LockedUntil: time.Now().Add(-5 * time.Minute),
	}
	require.NoError(t, storage.Set(ctx, store, storage.KeyPinAttempts, stale))

	require.NoError(t, gate.VerifyPin(ctx, "1234"))
	assert.Equal(t, PinGateVerified, gate.State())

	// success clears the attempt record
	_, found, err := storage.Get[models.PinAttempts](ctx, store, storage.KeyPinAttempts)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPinGateDismiss(t *testing.T) {
	gate, _, _ := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.SetupPin(ctx, "1234", "1234"))
	require.NoError(t, gate.Dismiss(ctx))
	assert.Equal(t, PinGateDenied, gate.State())

	// dismissal drops the session flag along with the state
	state, err := gate.Check(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, PinGateAwaitingVerification, state)
}

func TestPinGateReset(t *testing.T) {
	gate, creds, _ := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.SetupPin(ctx, "1234", "1234"))
	require.NoError(t, gate.VerifyPin(ctx, "1234"))

	require.NoError(t, gate.Reset(ctx))
	assert.Equal(t, PinGateNoPinConfigured, gate.State())

	exists, err := creds.Exists("parent_pin")
	require.NoError(t, err)
	assert.False(t, exists)

	state, err := gate.Check(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, PinGateNoPinConfigured, state)
}

func TestPinDigestIsHashed(t *testing.T) {
	gate, creds, _ := newTestGate(t)

	require.NoError(t, gate.SetupPin(context.Background(), "1234", "1234"))
	digest, err := creds.GetDigest("parent_pin")
	require.NoError(t, err)
	assert.NotEqual(t, "1234", digest)
	assert.True(t, security.CheckSecret("1234", digest))
}
