// Package views is the bundled theme: templ components backed by embedded
// html/template files. Sites that want their own markup pass their own
// landing.ViewFuncs instead.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/landing"
)

//go:embed templates/*.html
var files embed.FS

var tmpl = template.Must(template.New("views").Funcs(funcs).ParseFS(files, "templates/*.html"))

// page executes the named template as a templ component.
func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return tmpl.ExecuteTemplate(w, name, data)
	})
}

// Default returns the bundled theme.
func Default() landing.ViewFuncs {
	return landing.ViewFuncs{
		Home: func(p landing.HomePage) templ.Component {
			return page("home", p)
		},
		Gallery: func(g landing.GalleryView) templ.Component {
			return page("gallery", g)
		},
		ContactStatus: func(v landing.ContactView) templ.Component {
			return page("contact", v)
		},
		AdminLogin: func(p landing.LoginPage) templ.Component {
			return page("admin-login-page", p)
		},
		AdminCode: func(p landing.LoginPage) templ.Component {
			return page("admin-code-page", p)
		},
		AdminDashboard: func(p landing.DashboardPage) templ.Component {
			return page("admin-dashboard-page", p)
		},
		LockNotice: func(remaining time.Duration) templ.Component {
			return page("lock-notice", remaining)
		},
		NotFound: func() templ.Component {
			return page("not-found", nil)
		},
		ServerError: func() templ.Component {
			return page("server-error", nil)
		},
	}
}
