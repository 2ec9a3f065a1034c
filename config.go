package landing

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/eringen/landing/auth"
	"github.com/eringen/landing/contact"
	"github.com/eringen/landing/kv"
)

// SiteConfig holds all configuration for a landing site. LoadConfig fills it
// from LANDING_* environment variables; programmatic callers may set fields
// directly and rely on setDefaults.
type SiteConfig struct {
	Name        string `env:"LANDING_SITE_NAME"`        // Site name (default "Landing")
	URL         string `env:"LANDING_SITE_URL"`         // Canonical URL (default "http://localhost:3000")
	Description string `env:"LANDING_SITE_DESCRIPTION"` // Meta description

	Addr      string `env:"LANDING_ADDR"`  // Listen address (default ":3000")
	StorePath string `env:"LANDING_STORE"` // kv store address, see kv.Open (default "data/landing.db")

	AdminEmail     string `env:"LANDING_ADMIN_EMAIL"`    // default "admin@example.com"
	AdminPassword  string `env:"LANDING_ADMIN_PASSWORD"` // Required; the admin account also needs a code
	EditorEmail    string `env:"LANDING_EDITOR_EMAIL"`   // default "editor@example.com"
	EditorPassword string `env:"LANDING_EDITOR_PASSWORD"`

	SessionSecret string `env:"LANDING_SESSION_SECRET"` // Required: session encryption secret
	CookieSecure  bool   `env:"LANDING_COOKIE_SECURE"`  // Set true for HTTPS

	ContactEndpoint   string        `env:"LANDING_CONTACT_ENDPOINT"`    // URL the contact form posts to
	ContactRateLimit  int           `env:"LANDING_CONTACT_RATE_LIMIT"`  // Submissions per window per IP (default 5)
	ContactRateWindow time.Duration `env:"LANDING_CONTACT_RATE_WINDOW"` // default 1m

	MetricsEnabled bool `env:"LANDING_METRICS" envDefault:"true"`
}

// LoadConfig reads SiteConfig from the environment and applies defaults.
func LoadConfig() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Landing"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StorePath == "" {
		c.StorePath = "data/landing.db"
	}
	if c.AdminEmail == "" {
		c.AdminEmail = "admin@example.com"
	}
	if c.EditorEmail == "" {
		c.EditorEmail = "editor@example.com"
	}
	if c.ContactRateLimit == 0 {
		c.ContactRateLimit = 5
	}
	if c.ContactRateWindow == 0 {
		c.ContactRateWindow = time.Minute
	}
}

// accounts returns the two mock accounts: the admin, who must also enter
// a code, and the editor, who does not. An account without a password is
// left out.
func (c SiteConfig) accounts() []auth.Account {
	return []auth.Account{
		{Email: c.AdminEmail, Password: c.AdminPassword, Role: auth.RoleAdmin, RequiresCode: true},
		{Email: c.EditorEmail, Password: c.EditorPassword, Role: auth.RoleEditor},
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithStore uses store instead of opening Config.StorePath.
func WithStore(store kv.Store) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithUserLookup replaces the accounts built from the config.
func WithUserLookup(users auth.UserLookup) Option {
	return func(a *App) {
		a.users = users
	}
}

// WithGateOptions passes options to the login gate, e.g. a test clock.
func WithGateOptions(opts ...auth.GateOption) Option {
	return func(a *App) {
		a.gateOpts = append(a.gateOpts, opts...)
	}
}

// WithContactClient replaces the client built from Config.ContactEndpoint.
func WithContactClient(c *contact.Client) Option {
	return func(a *App) {
		a.contact = c
	}
}
