package editor

import (
	"slices"
	"strings"

	"github.com/eringen/landing/content"
)

// PreviewMode is the viewport the admin panel previews the page in.
type PreviewMode string

const (
	PreviewDesktop PreviewMode = "desktop"
	PreviewTablet  PreviewMode = "tablet"
	PreviewMobile  PreviewMode = "mobile"
)

// Valid reports whether m is a known preview mode.
func (m PreviewMode) Valid() bool {
	return m == PreviewDesktop || m == PreviewTablet || m == PreviewMobile
}

// Animations controls page transitions in the preview.
type Animations struct {
	Enabled    bool `json:"enabled" form:"animations"`
	Reduced    bool `json:"reduced" form:"reducedMotion"`
	DurationMS int  `json:"durationMs" form:"durationMs"`
}

// FormField configures one field of the contact form.
type FormField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Visible  bool   `json:"visible"`
	Required bool   `json:"required"`
}

// coreFields are always shown and required: the contact endpoint rejects
// submissions without them.
var coreFields = []string{"name", "email", "message"}

// Preferences are the admin panel settings that survive a restart.
type Preferences struct {
	PreviewMode PreviewMode              `json:"previewMode"`
	Animations  Animations               `json:"animations"`
	Sections    map[content.Section]bool `json:"sections"`
	FormFields  []FormField              `json:"formFields"`
	Recipients  []string                 `json:"recipients"`
}

// DefaultPreferences returns the settings used when nothing is persisted.
func DefaultPreferences() Preferences {
	sections := make(map[content.Section]bool, len(content.Sections))
	for _, s := range content.Sections {
		sections[s] = true
	}
	return Preferences{
		PreviewMode: PreviewDesktop,
		Animations:  Animations{Enabled: true, DurationMS: 600},
		Sections:    sections,
		FormFields: []FormField{
			{Name: "name", Label: "Имя", Visible: true, Required: true},
			{Name: "email", Label: "Email", Visible: true, Required: true},
			{Name: "phone", Label: "Телефон", Visible: false},
			{Name: "company", Label: "Компания", Visible: false},
			{Name: "message", Label: "Сообщение", Visible: true, Required: true},
		},
	}
}

// Clone returns a deep copy of p.
func (p Preferences) Clone() Preferences {
	out := p
	if p.Sections != nil {
		out.Sections = make(map[content.Section]bool, len(p.Sections))
		for k, v := range p.Sections {
			out.Sections[k] = v
		}
	}
	out.FormFields = slices.Clone(p.FormFields)
	out.Recipients = slices.Clone(p.Recipients)
	return out
}

// SectionEnabled reports whether s is rendered. Sections missing from the
// map are enabled.
func (p Preferences) SectionEnabled(s content.Section) bool {
	enabled, ok := p.Sections[s]
	return !ok || enabled
}

// Field returns the configuration for the named form field.
func (p Preferences) Field(name string) (FormField, bool) {
	i := slices.IndexFunc(p.FormFields, func(f FormField) bool { return f.Name == name })
	if i < 0 {
		return FormField{}, false
	}
	return p.FormFields[i], true
}

// VisibleFields returns the form fields shown on the page, in order.
func (p Preferences) VisibleFields() []FormField {
	var out []FormField
	for _, f := range p.FormFields {
		if f.Visible {
			out = append(out, f)
		}
	}
	return out
}

// normalize repairs values a hand-edited or older blob may carry.
func (p *Preferences) normalize() {
	if !p.PreviewMode.Valid() {
		p.PreviewMode = PreviewDesktop
	}
	if p.Animations.DurationMS < 0 {
		p.Animations.DurationMS = 0
	}
	if p.Sections == nil {
		p.Sections = make(map[content.Section]bool)
	}
	for k := range p.Sections {
		if !slices.Contains(content.Sections, k) {
			delete(p.Sections, k)
		}
	}

	defaults := DefaultPreferences().FormFields
	for _, d := range defaults {
		if _, ok := p.Field(d.Name); !ok {
			p.FormFields = append(p.FormFields, d)
		}
	}
	for i := range p.FormFields {
		if slices.Contains(coreFields, p.FormFields[i].Name) {
			p.FormFields[i].Visible = true
			p.FormFields[i].Required = true
		}
		if !p.FormFields[i].Visible {
			p.FormFields[i].Required = false
		}
	}

	var recipients []string
	for _, r := range p.Recipients {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" || !strings.Contains(r, "@") || slices.Contains(recipients, r) {
			continue
		}
		recipients = append(recipients, r)
	}
	p.Recipients = recipients
}
