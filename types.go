package landing

import (
	"time"

	"github.com/eringen/landing/auth"
	"github.com/eringen/landing/contact"
	"github.com/eringen/landing/content"
	"github.com/eringen/landing/editor"
)

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website"
	JSONLD      string
}

// GalleryView is the filtered gallery grid.
type GalleryView struct {
	Categories []string
	Active     string
	Items      []content.GalleryItem
}

// ContactView is the contact section form and its submission status.
type ContactView struct {
	Info    content.Contact
	Fields  []editor.FormField
	Status  contact.Status
	Message string
	CSRF    string
}

// HomePage is everything the landing page template renders. Admin is
// non-nil only when admin mode was requested by URL.
type HomePage struct {
	Site        SiteConfig
	Meta        PageMeta
	Content     content.State
	Preferences editor.Preferences
	Gallery     GalleryView
	Contact     ContactView
	Admin       *AdminPanel
}

// AdminPanel is the editing overlay. Exactly one of Login and Dashboard is set.
type AdminPanel struct {
	Login     *LoginPage
	Dashboard *DashboardPage
}

// LoginPage renders the credential or code form. Error is the inline
// message; a lockout message replaces any credential message.
type LoginPage struct {
	Site          SiteConfig
	Email         string
	Error         string
	Locked        bool
	LockRemaining time.Duration
	CSRF          string
}

// DashboardPage renders the editing panel.
type DashboardPage struct {
	Site     SiteConfig
	View     editor.View
	Role     auth.Role
	Sections []content.Section
	Message  string
	CSRF     string
}
