package auth

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func testUsers(t *testing.T) *StaticUsers {
	t.Helper()
	users, err := newStaticUsers(bcrypt.MinCost, []Account{
		{Email: "admin@example.com", Password: "admin-pass", Role: RoleAdmin, RequiresCode: true},
		{Email: "editor@example.com", Password: "editor-pass", Role: RoleEditor},
	})
	require.NoError(t, err)
	return users
}

func newTestGate(t *testing.T, clock *fakeClock, opts ...GateOption) *Gate {
	t.Helper()
	opts = append([]GateOption{WithClock(clock.Now), WithTickInterval(5 * time.Millisecond)}, opts...)
	g := NewGate(testUsers(t), opts...)
	t.Cleanup(g.Close)
	return g
}

func TestLoginWithoutSecondFactor(t *testing.T) {
	g := newTestGate(t, newFakeClock())

	stage, err := g.Login("Editor@Example.com ", "editor-pass")
	require.NoError(t, err)
	assert.Equal(t, StageAuthenticated, stage)

	st := g.Status()
	assert.True(t, st.Authenticated)
	assert.Equal(t, RoleEditor, st.Role)
	assert.Equal(t, 0, st.Failures)
}

func TestLoginWithSecondFactor(t *testing.T) {
	g := newTestGate(t, newFakeClock())

	stage, err := g.Login("admin@example.com", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, StageCode, stage)
	assert.False(t, g.Status().Authenticated)

	stage, err = g.VerifyCode("111111")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Equal(t, StageCode, stage)
	assert.False(t, g.Status().Authenticated)

	stage, err = g.VerifyCode("000000")
	require.NoError(t, err)
	assert.Equal(t, StageAuthenticated, stage)
	st := g.Status()
	assert.True(t, st.Authenticated)
	assert.Equal(t, RoleAdmin, st.Role)
}

func TestBothCodesAccepted(t *testing.T) {
	for _, code := range DefaultCodes {
		t.Run(code, func(t *testing.T) {
			g := newTestGate(t, newFakeClock())
			_, err := g.Login("admin@example.com", "admin-pass")
			require.NoError(t, err)
			_, err = g.VerifyCode(code)
			require.NoError(t, err)
		})
	}
}

func TestVerifyCodeWithoutPendingLogin(t *testing.T) {
	g := newTestGate(t, newFakeClock())
	_, err := g.VerifyCode("000000")
	assert.ErrorIs(t, err, ErrNoPendingCode)
}

func TestCancelCode(t *testing.T) {
	g := newTestGate(t, newFakeClock())
	_, err := g.Login("admin@example.com", "admin-pass")
	require.NoError(t, err)
	g.CancelCode()
	assert.Equal(t, StageLogin, g.Status().Stage)
	_, err = g.VerifyCode("000000")
	assert.ErrorIs(t, err, ErrNoPendingCode)
}

func TestFailuresCountAndReset(t *testing.T) {
	g := newTestGate(t, newFakeClock())

	_, err := g.Login("editor@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = g.Login("nobody@example.com", "editor-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 2, g.Status().Failures)

	_, err = g.Login("editor@example.com", "editor-pass")
	require.NoError(t, err)
	assert.Equal(t, 0, g.Status().Failures)
}

func TestLockoutRejectsValidCredentialsUntilExpiry(t *testing.T) {
	clock := newFakeClock()
	g := newTestGate(t, clock)

	for i := 0; i < MaxFailures-1; i++ {
		_, err := g.Login("editor@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := g.Login("editor@example.com", "wrong")
	require.ErrorIs(t, err, ErrLocked)

	st := g.Status()
	assert.Equal(t, 0, st.Failures, "counter resets when the lock starts")
	assert.Equal(t, clock.Now().Add(LockoutDuration), st.LockedUntil)

	_, err = g.Login("editor@example.com", "editor-pass")
	assert.ErrorIs(t, err, ErrLocked)
	assert.False(t, g.Status().Authenticated)

	clock.Advance(LockoutDuration - time.Second)
	_, err = g.Login("editor@example.com", "editor-pass")
	assert.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, time.Second, g.LockRemaining())

	clock.Advance(time.Second)
	_, err = g.Login("editor@example.com", "editor-pass")
	require.NoError(t, err)
	assert.True(t, g.Status().Authenticated)
}

func TestLockoutBlocksCodeStage(t *testing.T) {
	clock := newFakeClock()
	g := newTestGate(t, clock)

	_, err := g.Login("admin@example.com", "admin-pass")
	require.NoError(t, err)
	for i := 0; i < MaxFailures; i++ {
		_, _ = g.Login("admin@example.com", "wrong")
	}
	_, err = g.VerifyCode("000000")
	assert.ErrorIs(t, err, ErrLocked)
}

func TestLockoutCancelsPendingCode(t *testing.T) {
	clock := newFakeClock()
	g := newTestGate(t, clock)

	stage, err := g.Login("admin@example.com", "admin-pass")
	require.NoError(t, err)
	require.Equal(t, StageCode, stage)

	stage, err = g.Login("admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, StageLogin, stage, "a failed login abandons the pending code")
	assert.Empty(t, g.Status().Email)

	for i := 1; i < MaxFailures; i++ {
		_, _ = g.Login("admin@example.com", "wrong")
	}
	clock.Advance(LockoutDuration)

	_, err = g.VerifyCode("000000")
	assert.ErrorIs(t, err, ErrNoPendingCode)
	st := g.Status()
	assert.False(t, st.Authenticated)
	assert.Equal(t, StageLogin, st.Stage)
}

func TestUnlockHookFiresWhenRequestSeesExpiry(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newFakeClock()
	var locks, unlocks atomic.Int32
	g := NewGate(testUsers(t),
		WithClock(clock.Now),
		WithTickInterval(time.Hour),
		OnLock(func(time.Time) { locks.Add(1) }),
		OnUnlock(func() { unlocks.Add(1) }),
	)
	defer g.Close()

	for i := 0; i < MaxFailures; i++ {
		_, _ = g.Login("editor@example.com", "wrong")
	}
	assert.Equal(t, int32(1), locks.Load())

	clock.Advance(LockoutDuration)
	assert.Zero(t, g.LockRemaining())
	assert.Equal(t, int32(1), unlocks.Load())

	// Later reads see no transition.
	g.Status()
	assert.Equal(t, int32(1), unlocks.Load())
}

func TestRelockAfterExpiryReportsUnlockFirst(t *testing.T) {
	clock := newFakeClock()
	var mu sync.Mutex
	var events []string
	g := newTestGate(t, clock,
		WithTickInterval(time.Hour),
		OnLock(func(time.Time) {
			mu.Lock()
			events = append(events, "lock")
			mu.Unlock()
		}),
		OnUnlock(func() {
			mu.Lock()
			events = append(events, "unlock")
			mu.Unlock()
		}),
	)

	for i := 0; i < MaxFailures; i++ {
		_, _ = g.Login("editor@example.com", "wrong")
	}
	clock.Advance(LockoutDuration)
	for i := 0; i < MaxFailures; i++ {
		_, _ = g.Login("editor@example.com", "wrong")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"lock", "unlock", "lock"}, events)
}

func TestLogoutKeepsLockout(t *testing.T) {
	clock := newFakeClock()
	g := newTestGate(t, clock)
	for i := 0; i < MaxFailures; i++ {
		_, _ = g.Login("editor@example.com", "wrong")
	}
	g.Logout()
	assert.True(t, g.Status().Locked(clock.Now()))
}

func TestWatcherClearsLockoutAndExits(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newFakeClock()
	var unlocked atomic.Int32
	var lockedUntil time.Time
	g := NewGate(testUsers(t),
		WithClock(clock.Now),
		WithTickInterval(2*time.Millisecond),
		OnLock(func(until time.Time) { lockedUntil = until }),
		OnUnlock(func() { unlocked.Add(1) }),
	)
	defer g.Close()

	for i := 0; i < MaxFailures; i++ {
		_, _ = g.Login("editor@example.com", "wrong")
	}
	assert.False(t, lockedUntil.IsZero())

	g.mu.Lock()
	running := g.watching
	g.mu.Unlock()
	require.True(t, running)

	clock.Advance(LockoutDuration)
	require.Eventually(t, func() bool { return unlocked.Load() == 1 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		return !g.watching
	}, time.Second, time.Millisecond)
	assert.True(t, g.Status().LockedUntil.IsZero())
}

func TestCloseStopsWatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := NewGate(testUsers(t), WithClock(newFakeClock().Now), WithTickInterval(time.Hour))
	for i := 0; i < MaxFailures; i++ {
		_, _ = g.Login("editor@example.com", "wrong")
	}
	g.Close()
	g.Close()
}

func TestCustomCodes(t *testing.T) {
	g := newTestGate(t, newFakeClock(), WithCodes("424242"))
	_, err := g.Login("admin@example.com", "admin-pass")
	require.NoError(t, err)
	_, err = g.VerifyCode("000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = g.VerifyCode("424242")
	require.NoError(t, err)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "login", StageLogin.String())
	assert.Equal(t, "code", StageCode.String())
	assert.Equal(t, "authenticated", StageAuthenticated.String())
}
