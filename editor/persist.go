package editor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/eringen/landing/content"
	"github.com/eringen/landing/kv"
)

// Keys under which the snapshot and the admin preferences are stored.
const (
	ContentKey = "landing:content"
	AdminKey   = "landing:admin"
)

// Persister syncs the content snapshot and the admin preferences to a
// kv.Store. Writes are best effort: failures are logged and dropped. Nothing
// is written until Load has run, so seeding never echoes back to storage.
type Persister struct {
	store  kv.Store
	logger *slog.Logger
	loaded bool
}

// NewPersister returns a Persister writing to store. A nil logger means
// slog.Default().
func NewPersister(store kv.Store, logger *slog.Logger) *Persister {
	if logger == nil {
		logger = slog.Default()
	}
	return &Persister{store: store, logger: logger}
}

// Load returns the persisted content and preferences. A value that is
// absent, does not parse or is incomplete is replaced by its default.
func (p *Persister) Load(ctx context.Context) (content.State, Preferences) {
	defer func() { p.loaded = true }()
	return p.loadContent(ctx), p.loadPreferences(ctx)
}

func (p *Persister) loadContent(ctx context.Context) content.State {
	raw, err := p.store.Get(ctx, ContentKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			p.logger.Warn("reading persisted content", "category", "persist", "error", err)
		}
		return content.Default()
	}
	var s content.State
	if err := json.Unmarshal(raw, &s); err != nil {
		p.logger.Debug("persisted content does not parse, using default", "category", "persist", "error", err)
		return content.Default()
	}
	if err := s.Validate(); err != nil {
		p.logger.Debug("persisted content is incomplete, using default", "category", "persist", "error", err)
		return content.Default()
	}
	return s
}

func (p *Persister) loadPreferences(ctx context.Context) Preferences {
	raw, err := p.store.Get(ctx, AdminKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			p.logger.Warn("reading persisted preferences", "category", "persist", "error", err)
		}
		return DefaultPreferences()
	}
	prefs := DefaultPreferences()
	if err := json.Unmarshal(raw, &prefs); err != nil {
		p.logger.Debug("persisted preferences do not parse, using defaults", "category", "persist", "error", err)
		return DefaultPreferences()
	}
	prefs.normalize()
	return prefs
}

// SaveContent writes the content snapshot.
func (p *Persister) SaveContent(ctx context.Context, s content.State) {
	p.save(ctx, ContentKey, s)
}

// SavePreferences writes the preferences. Authentication state and the
// undo/redo stacks are not part of Preferences and are never written.
func (p *Persister) SavePreferences(ctx context.Context, prefs Preferences) {
	p.save(ctx, AdminKey, prefs)
}

func (p *Persister) save(ctx context.Context, key string, v any) {
	if !p.loaded {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		p.logger.Error("encoding persisted state", "category", "persist", "key", key, "error", err)
		return
	}
	if err := p.store.Set(ctx, key, raw); err != nil {
		p.logger.Error("writing persisted state", "category", "persist", "key", key, "error", err)
	}
}
