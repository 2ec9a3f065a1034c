// Package landing is a marketing landing page engine built with Go, Echo,
// and templ. It serves a single page whose sections (hero, features,
// services, gallery, contact, footer, navigation) are editable from an
// embedded admin panel with undo/redo, a mock two-factor login and a
// key-value persistence port.
//
// Users provide their own templ templates via the ViewFuncs struct, and
// landing handles the handler logic, middleware, and state.
package landing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/landing/auth"
	"github.com/eringen/landing/contact"
	"github.com/eringen/landing/editor"
	"github.com/eringen/landing/kv"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	Home           func(page HomePage) templ.Component
	Gallery        func(g GalleryView) templ.Component
	ContactStatus  func(v ContactView) templ.Component
	AdminLogin     func(page LoginPage) templ.Component
	AdminCode      func(page LoginPage) templ.Component
	AdminDashboard func(page DashboardPage) templ.Component
	LockNotice     func(remaining time.Duration) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central landing application. It wires together the store,
// admin session, handlers, middleware, and user-provided templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Session *editor.Session
	Views   ViewFuncs

	store         kv.Store
	users         auth.UserLookup
	gate          *auth.Gate
	gateOpts      []auth.GateOption
	contact       *contact.Client
	contactLimits *RateLimiter
	metrics       *metrics
	customRoutes  []func(*App)
	staticDir     string
	initialized   bool
}

// New creates a new landing App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store, loads persisted state and registers middleware and
// routes. Start calls it; tests call it directly and drive a.Echo.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if a.users == nil && a.Config.AdminPassword == "" {
		return fmt.Errorf("landing: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("landing: SessionSecret is required")
	}

	if a.store == nil {
		store, err := kv.Open(a.Config.StorePath)
		if err != nil {
			return fmt.Errorf("landing: open store: %w", err)
		}
		a.store = store
	}

	if a.users == nil {
		users, err := auth.NewStaticUsers(a.Config.accounts()...)
		if err != nil {
			return fmt.Errorf("landing: init users: %w", err)
		}
		a.users = users
	}

	a.metrics = newMetrics()
	gateOpts := append([]auth.GateOption{
		auth.OnLock(func(time.Time) { a.metrics.locked(true) }),
		auth.OnUnlock(func() { a.metrics.locked(false) }),
	}, a.gateOpts...)
	a.gate = auth.NewGate(a.users, gateOpts...)

	a.Session = editor.NewSession(a.gate, editor.NewPersister(a.store, nil))
	a.Session.Load(context.Background())

	if a.contact == nil {
		a.contact = contact.NewClient(a.Config.ContactEndpoint)
	}
	a.contactLimits = NewRateLimiter(a.Config.ContactRateLimit, a.Config.ContactRateWindow)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start initializes the app and starts the server. It returns nil after
// Shutdown.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/healthz", handleHealth)
	if a.Config.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(a.metrics.handler()))
	}

	// Public routes
	e.GET("/", a.handleHome)
	e.GET("/gallery/", a.handleGallery)
	e.POST("/contact/", a.handleContact)

	// Admin login
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/code/", a.handleAdminCode)
	e.POST("/admin/code/cancel/", a.handleAdminCodeCancel)
	e.POST("/admin/logout/", a.handleAdminLogout)
	e.GET("/admin/lock/", a.handleAdminLock)

	// Content editing, any authenticated role
	edit := e.Group("/admin", a.requireRole(auth.Role.CanEdit))
	edit.POST("/content/:section/", a.handleContentEdit)
	edit.POST("/gallery/items/", a.handleGalleryAdd)
	edit.DELETE("/gallery/items/:id/", a.handleGalleryDelete)
	edit.POST("/undo/", a.handleUndo)
	edit.POST("/redo/", a.handleRedo)
	edit.POST("/reset/", a.handleReset)
	edit.POST("/preferences/", a.handlePreferences)
	edit.GET("/api/state/", a.handleState)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.contactLimits != nil {
		a.contactLimits.Close()
	}
	if a.gate != nil {
		a.gate.Close()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
