// Package editor holds the admin session: the login gate, the content with
// its undo/redo history, the panel preferences, and their persistence.
package editor

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/landing/auth"
	"github.com/eringen/landing/content"
	"github.com/eringen/landing/history"
)

// View is a consistent snapshot of the session for rendering.
type View struct {
	Content     content.State
	Preferences Preferences
	Auth        auth.Status
	CanUndo     bool
	CanRedo     bool
	UndoDepth   int
	RedoDepth   int
	UpdatedAt   time.Time
}

// Session serializes every operation behind one mutex, so each edit, undo or
// preference change runs to completion before the next starts.
type Session struct {
	gate      *auth.Gate
	persister *Persister
	now       func() time.Time

	mu        sync.Mutex
	content   *history.Manager[content.State]
	prefs     Preferences
	updatedAt time.Time
}

// NewSession returns a session seeded with the bundled defaults. Call Load
// to seed it from persisted state; until then nothing is written.
func NewSession(gate *auth.Gate, persister *Persister) *Session {
	s := &Session{
		gate:      gate,
		persister: persister,
		now:       time.Now,
		content:   history.New(content.Default(), history.DefaultLimit),
		prefs:     DefaultPreferences(),
	}
	s.updatedAt = s.now()
	return s
}

// Load replaces content and preferences with the persisted values (or the
// defaults) and clears the undo/redo stacks.
func (s *Session) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persister == nil {
		return
	}
	c, prefs := s.persister.Load(ctx)
	s.content.Reset(c)
	s.prefs = prefs
	s.updatedAt = s.now()
}

// Gate returns the login gate.
func (s *Session) Gate() *auth.Gate { return s.gate }

// Login forwards to the gate. See auth.Gate.Login.
func (s *Session) Login(email, password string) (auth.Stage, error) {
	return s.gate.Login(email, password)
}

// VerifyCode completes a login waiting for its second factor.
func (s *Session) VerifyCode(code string) (auth.Stage, error) {
	return s.gate.VerifyCode(code)
}

// CancelCode abandons a pending second factor.
func (s *Session) CancelCode() { s.gate.CancelCode() }

// Logout ends the authenticated session. The lockout survives.
func (s *Session) Logout() { s.gate.Logout() }

// Auth returns the gate status.
func (s *Session) Auth() auth.Status { return s.gate.Status() }

// Content returns a copy of the current content.
func (s *Session) Content() content.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.Current()
}

// Edit applies m to a copy of the content. The result must still be a
// complete document; otherwise the edit is discarded and the error returned.
func (s *Session) Edit(ctx context.Context, m content.Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.content.Apply(func(st *content.State) error {
		if err := m(st); err != nil {
			return err
		}
		return st.Validate()
	})
	if err != nil {
		return err
	}
	s.contentChangedLocked(ctx)
	return nil
}

// Undo steps back one edit. It reports false when there is nothing to undo.
func (s *Session) Undo(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.content.Undo() {
		return false
	}
	s.contentChangedLocked(ctx)
	return true
}

// Redo re-applies the last undone edit.
func (s *Session) Redo(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.content.Redo() {
		return false
	}
	s.contentChangedLocked(ctx)
	return true
}

// ResetContent replaces the content with the bundled default as an
// ordinary, undoable edit.
func (s *Session) ResetContent(ctx context.Context) error {
	return s.Edit(ctx, content.Replace(content.Default()))
}

// Preferences returns a copy of the panel preferences.
func (s *Session) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.Clone()
}

// UpdatePreferences runs fn on a copy of the preferences and installs the
// normalized result. Preference changes are not part of the undo history.
func (s *Session) UpdatePreferences(ctx context.Context, fn func(*Preferences) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.prefs.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	next.normalize()
	s.prefs = next
	if s.persister != nil {
		s.persister.SavePreferences(ctx, next.Clone())
	}
	return nil
}

// View returns a snapshot of everything the admin panel renders.
func (s *Session) View() View {
	st := s.gate.Status()

	s.mu.Lock()
	defer s.mu.Unlock()
	past, future := s.content.Depth()
	return View{
		Content:     s.content.Current(),
		Preferences: s.prefs.Clone(),
		Auth:        st,
		CanUndo:     past > 0,
		CanRedo:     future > 0,
		UndoDepth:   past,
		RedoDepth:   future,
		UpdatedAt:   s.updatedAt,
	}
}

// UpdatedAt returns when the content last changed.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) contentChangedLocked(ctx context.Context) {
	s.updatedAt = s.now()
	if s.persister != nil {
		s.persister.SaveContent(ctx, s.content.Current())
	}
}
