package landing

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/landing/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AdminRequested reports whether the URL asks for the admin panel: any path
// under /admin, or an admin query flag of 1, true or yes.
func AdminRequested(c echo.Context) bool {
	if p := c.Request().URL.Path; p == "/admin" || strings.HasPrefix(p, "/admin/") {
		return true
	}
	switch strings.ToLower(c.QueryParam("admin")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// OrganizationJsonLD returns a JSON-LD string for an Organization schema
// built from the site config and the editable contact block.
func OrganizationJsonLD(cfg SiteConfig, s content.State) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "Organization",
		"name":        s.Navigation.Brand,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if s.Navigation.Brand == "" {
		data["name"] = cfg.Name
	}
	if s.Contact.Email != "" {
		data["email"] = s.Contact.Email
	}
	if s.Contact.Phone != "" {
		data["telephone"] = s.Contact.Phone
	}
	if s.Contact.Address != "" {
		data["address"] = s.Contact.Address
	}
	var sameAs []string
	for _, l := range s.Footer.Socials {
		if strings.HasPrefix(l.Href, "http") {
			sameAs = append(sameAs, l.Href)
		}
	}
	if len(sameAs) > 0 {
		data["sameAs"] = sameAs
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
