// Package auth implements the admin panel's mock login gate: a credential
// check against an injected user lookup, a fixed second-factor code and a
// global lockout after repeated failures.
package auth

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"
)

const (
	// MaxFailures is the number of consecutive failed logins that triggers
	// a lockout.
	MaxFailures = 3
	// LockoutDuration is how long every login attempt is rejected once
	// MaxFailures is reached.
	LockoutDuration = 5 * time.Minute
)

// DefaultCodes are the second-factor codes accepted by a Gate.
var DefaultCodes = []string{"000000", "123456"}

var (
	ErrLocked             = errors.New("auth: too many failed attempts, login is locked")
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrInvalidCode        = errors.New("auth: invalid verification code")
	ErrNoPendingCode      = errors.New("auth: no login is waiting for a code")
)

// Stage is the position of the gate's state machine.
type Stage int

const (
	StageLogin Stage = iota
	StageCode
	StageAuthenticated
)

func (s Stage) String() string {
	switch s {
	case StageLogin:
		return "login"
	case StageCode:
		return "code"
	case StageAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Status is a snapshot of the gate.
type Status struct {
	Stage         Stage
	Role          Role
	Authenticated bool
	Email         string
	Failures      int
	LockedUntil   time.Time
}

// Locked reports whether logins are rejected at now.
func (s Status) Locked(now time.Time) bool {
	return now.Before(s.LockedUntil)
}

// Gate is the login state machine: login -> code -> authenticated, with
// login -> login on failure and a time-gated lock that overrides both
// stages. It is safe for concurrent use.
type Gate struct {
	users    UserLookup
	now      func() time.Time
	tick     time.Duration
	codes    []string
	logger   *slog.Logger
	onLock   func(until time.Time)
	onUnlock func()

	mu          sync.Mutex
	stage       Stage
	cred        Credential
	failures    int
	lockedUntil time.Time
	watching    bool
	// lock transitions seen under mu, reported by release
	lockEvent   time.Time
	unlockEvent bool
	closed      bool
	stop        chan struct{}
	wg          sync.WaitGroup
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// WithTickInterval sets how often the lockout watcher re-evaluates expiry
// (default one second).
func WithTickInterval(d time.Duration) GateOption {
	return func(g *Gate) { g.tick = d }
}

// WithCodes replaces DefaultCodes.
func WithCodes(codes ...string) GateOption {
	return func(g *Gate) { g.codes = codes }
}

// WithLogger sets the logger used for lockout events.
func WithLogger(l *slog.Logger) GateOption {
	return func(g *Gate) { g.logger = l }
}

// OnLock registers a hook called when a lockout starts. Hooks run after
// the gate's mutex is released.
func OnLock(fn func(until time.Time)) GateOption {
	return func(g *Gate) { g.onLock = fn }
}

// OnUnlock registers a hook called once per lockout when it expires,
// whether the watcher or a request notices first.
func OnUnlock(fn func()) GateOption {
	return func(g *Gate) { g.onUnlock = fn }
}

// NewGate returns a gate in StageLogin backed by users.
func NewGate(users UserLookup, opts ...GateOption) *Gate {
	g := &Gate{
		users:  users,
		now:    time.Now,
		tick:   time.Second,
		codes:  DefaultCodes,
		logger: slog.Default(),
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login checks email and password. On success it returns StageCode for
// accounts that require a second factor and StageAuthenticated otherwise.
// While locked it returns ErrLocked without looking at the credentials.
func (g *Gate) Login(email, password string) (Stage, error) {
	g.mu.Lock()
	defer g.release()

	now := g.now()
	if g.lockedLocked(now) {
		g.abandonCodeLocked()
		return g.stage, ErrLocked
	}

	cred, ok := g.users.Lookup(email)
	if !ok || !cred.Matches(password) {
		return g.failLocked(now)
	}

	g.cred = cred
	if cred.RequiresCode {
		g.stage = StageCode
		return g.stage, nil
	}
	g.authenticateLocked()
	return g.stage, nil
}

// VerifyCode completes a login waiting in StageCode.
func (g *Gate) VerifyCode(code string) (Stage, error) {
	g.mu.Lock()
	defer g.release()

	if g.lockedLocked(g.now()) {
		g.abandonCodeLocked()
		return g.stage, ErrLocked
	}
	if g.stage != StageCode {
		return g.stage, ErrNoPendingCode
	}
	if !slices.Contains(g.codes, code) {
		return g.stage, ErrInvalidCode
	}
	g.authenticateLocked()
	return g.stage, nil
}

// CancelCode abandons a login waiting for its code.
func (g *Gate) CancelCode() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.abandonCodeLocked()
}

// Logout returns the gate to StageLogin. Failures and lockout are kept.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stage = StageLogin
	g.cred = Credential{}
}

// Status returns a snapshot of the gate.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.release()
	g.lockedLocked(g.now())
	st := Status{
		Stage:       g.stage,
		Failures:    g.failures,
		LockedUntil: g.lockedUntil,
		Email:       g.cred.Email,
	}
	if g.stage == StageAuthenticated {
		st.Role = g.cred.Role
		st.Authenticated = true
	}
	return st
}

// LockRemaining returns how long the current lockout still lasts.
func (g *Gate) LockRemaining() time.Duration {
	g.mu.Lock()
	defer g.release()
	now := g.now()
	if !g.lockedLocked(now) {
		return 0
	}
	return g.lockedUntil.Sub(now)
}

// Close stops the lockout watcher and waits for it to exit.
func (g *Gate) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	close(g.stop)
	g.mu.Unlock()
	g.wg.Wait()
}

func (g *Gate) authenticateLocked() {
	g.stage = StageAuthenticated
	g.failures = 0
}

// abandonCodeLocked drops a login waiting for its code.
func (g *Gate) abandonCodeLocked() {
	if g.stage == StageCode {
		g.stage = StageLogin
		g.cred = Credential{}
	}
}

// failLocked counts a failed login. A failure abandons a pending code.
func (g *Gate) failLocked(now time.Time) (Stage, error) {
	g.abandonCodeLocked()
	g.failures++
	if g.failures < MaxFailures {
		return g.stage, ErrInvalidCredentials
	}
	g.failures = 0
	g.lockedUntil = now.Add(LockoutDuration)
	g.lockEvent = g.lockedUntil
	g.startWatcherLocked()
	return g.stage, ErrLocked
}

// lockedLocked reports whether the gate is locked at now, clearing an
// expired lockout the watcher has not seen yet. The unlock is reported by
// release.
func (g *Gate) lockedLocked(now time.Time) bool {
	if g.lockedUntil.IsZero() {
		return false
	}
	if now.Before(g.lockedUntil) {
		return true
	}
	g.lockedUntil = time.Time{}
	g.unlockEvent = true
	return false
}

// release unlocks mu, then logs and runs the hooks for lock transitions
// recorded while it was held. An unlock is reported before a lock that
// replaced it.
func (g *Gate) release() {
	unlocked, until := g.unlockEvent, g.lockEvent
	g.unlockEvent, g.lockEvent = false, time.Time{}
	onLock, onUnlock := g.onLock, g.onUnlock
	g.mu.Unlock()

	if unlocked {
		g.logger.Info("admin login unlocked", "category", "auth")
		if onUnlock != nil {
			onUnlock()
		}
	}
	if !until.IsZero() {
		g.logger.Warn("admin login locked",
			"category", "auth",
			"until", until,
		)
		if onLock != nil {
			onLock(until)
		}
	}
}

func (g *Gate) startWatcherLocked() {
	if g.watching || g.closed {
		return
	}
	g.watching = true
	g.wg.Add(1)
	go g.watch()
}

// watch re-evaluates the lockout on every tick and exits once no lockout
// is pending.
func (g *Gate) watch() {
	defer g.wg.Done()
	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()
	for {
		select {
		case <-g.stop:
			g.mu.Lock()
			g.watching = false
			g.mu.Unlock()
			return
		case <-ticker.C:
			if g.expire() {
				return
			}
		}
	}
}

// expire clears an elapsed lockout and reports whether the watcher is done.
func (g *Gate) expire() bool {
	g.mu.Lock()
	defer g.release()
	locked := g.lockedLocked(g.now())
	if !locked {
		g.watching = false
	}
	return !locked
}
