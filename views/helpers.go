package views

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/eringen/landing/content"
	"github.com/eringen/landing/editor"
)

var funcs = template.FuncMap{
	"markdown":      content.RenderMarkdown,
	"jsonld":        func(s string) template.JS { return template.JS(s) },
	"safeURL":       safeURL,
	"telURL":        telURL,
	"queryEscape":   url.QueryEscape,
	"pathEscape":    url.PathEscape,
	"categoryClass": CategoryClass,
	"sectionOn":     sectionOn,
	"previewClass":  previewClass,
	"countdown":     countdown,
	"sectionJSON":   sectionJSON,
	"year":          func() int { return time.Now().Year() },
	"sections":      func() []content.Section { return content.Sections },
	"previewModes": func() []editor.PreviewMode {
		return []editor.PreviewMode{editor.PreviewDesktop, editor.PreviewTablet, editor.PreviewMobile}
	},
}

// CategoryClass returns CSS classes for a gallery filter pill, with active variant.
func CategoryClass(active bool) string {
	base := "inline-flex items-center rounded-full border border-ink px-4 py-1.5 text-xs font-semibold uppercase tracking-[0.12em] transition hover:-translate-y-0.5"
	if active {
		base += " bg-ink text-white"
	}
	return base
}

// safeURL passes hrefs content edits accept (http(s), mailto, tel,
// relative paths and anchors) and replaces anything else with "#".
func safeURL(href string) template.URL {
	if !content.SafeHref(href) {
		return "#"
	}
	return template.URL(href)
}

func telURL(phone string) template.URL {
	var b strings.Builder
	b.WriteString("tel:")
	for _, r := range phone {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return template.URL(b.String())
}

func sectionOn(prefs editor.Preferences, name string) bool {
	return prefs.SectionEnabled(content.Section(name))
}

func previewClass(m editor.PreviewMode) string {
	switch m {
	case editor.PreviewTablet:
		return "preview preview-tablet"
	case editor.PreviewMobile:
		return "preview preview-mobile"
	}
	return "preview preview-desktop"
}

// countdown formats a lockout as m:ss.
func countdown(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// sectionJSON returns the current value of a section, indented, for the
// dashboard's raw editors.
func sectionJSON(s content.State, section content.Section) string {
	var v any
	switch section {
	case content.SectionHero:
		v = s.Hero
	case content.SectionFeatures:
		v = s.Features
	case content.SectionServices:
		v = s.Services
	case content.SectionGallery:
		v = s.Gallery
	case content.SectionContact:
		v = s.Contact
	case content.SectionFooter:
		v = s.Footer
	case content.SectionNavigation:
		v = s.Navigation
	default:
		return "null"
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(b)
}
