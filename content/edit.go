package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Mutation edits a State in place. A mutation that returns an error must
// be discarded by the caller.
type Mutation func(*State) error

// Section names an editable sub-tree of State.
type Section string

const (
	SectionHero       Section = "hero"
	SectionFeatures   Section = "features"
	SectionServices   Section = "services"
	SectionGallery    Section = "gallery"
	SectionContact    Section = "contact"
	SectionFooter     Section = "footer"
	SectionNavigation Section = "navigation"
)

// Sections lists every section in page order.
var Sections = []Section{
	SectionHero,
	SectionFeatures,
	SectionServices,
	SectionGallery,
	SectionContact,
	SectionFooter,
	SectionNavigation,
}

var (
	ErrUnknownSection = errors.New("content: unknown section")
	ErrInvalidEdit    = errors.New("content: invalid edit")
	ErrItemNotFound   = errors.New("content: gallery item not found")
)

// ParseSection maps a section name to a Section.
func ParseSection(name string) (Section, error) {
	s := Section(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Sections, s) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	return s, nil
}

var strict = bluemonday.StrictPolicy()

// cleanText strips markup from admin input. StrictPolicy escapes entities,
// templates escape again on output, so the entities are decoded here.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// cleanHref keeps relative links, anchors and http(s)/mailto/tel URLs.
func cleanHref(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "mailto:"), strings.HasPrefix(lower, "tel:"):
		return s
	case strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//"), strings.HasPrefix(s, "#"):
		return s
	}
	return ""
}

// SafeHref reports whether href is a non-empty link edits would accept.
func SafeHref(href string) bool {
	return href != "" && cleanHref(href) == href
}

func cleanLinks(in []Link) []Link {
	out := make([]Link, 0, len(in))
	for _, l := range in {
		l.Label = cleanText(l.Label)
		l.Href = cleanHref(l.Href)
		if l.Label == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func ensureID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

// SetHero replaces the hero section.
func SetHero(h Hero) Mutation {
	return func(s *State) error {
		h.Title = cleanText(h.Title)
		h.Subtitle = cleanText(h.Subtitle)
		h.CTALabel = cleanText(h.CTALabel)
		h.CTAHref = cleanHref(h.CTAHref)
		h.Background = cleanHref(h.Background)
		if h.Title == "" {
			return fmt.Errorf("%w: hero title is required", ErrInvalidEdit)
		}
		s.Hero = h
		return nil
	}
}

// SetFeatures replaces the feature list.
func SetFeatures(features []Feature) Mutation {
	return func(s *State) error {
		out := make([]Feature, 0, len(features))
		for _, f := range features {
			f.ID = ensureID(f.ID)
			f.Icon = cleanText(f.Icon)
			f.Title = cleanText(f.Title)
			f.Description = cleanText(f.Description)
			if f.Title == "" {
				return fmt.Errorf("%w: feature title is required", ErrInvalidEdit)
			}
			out = append(out, f)
		}
		s.Features = out
		return nil
	}
}

// SetServices replaces the service list.
func SetServices(services []Service) Mutation {
	return func(s *State) error {
		out := make([]Service, 0, len(services))
		for _, svc := range services {
			svc.ID = ensureID(svc.ID)
			svc.Title = cleanText(svc.Title)
			svc.Description = cleanText(svc.Description)
			svc.Price = cleanText(svc.Price)
			bullets := make([]string, 0, len(svc.Bullets))
			for _, b := range svc.Bullets {
				if b = cleanText(b); b != "" {
					bullets = append(bullets, b)
				}
			}
			svc.Bullets = bullets
			if svc.Title == "" {
				return fmt.Errorf("%w: service title is required", ErrInvalidEdit)
			}
			out = append(out, svc)
		}
		s.Services = out
		return nil
	}
}

func cleanItem(it GalleryItem) (GalleryItem, error) {
	it.ID = ensureID(it.ID)
	it.Title = cleanText(it.Title)
	it.Category = cleanText(it.Category)
	it.ImageURL = cleanHref(it.ImageURL)
	it.Description = cleanText(it.Description)
	if it.Category == "" || it.Category == AllCategory {
		return it, fmt.Errorf("%w: gallery item needs a concrete category", ErrInvalidEdit)
	}
	return it, nil
}

// SetGallery replaces the gallery. Item categories missing from the
// category list are appended to it.
func SetGallery(g Gallery) Mutation {
	return func(s *State) error {
		items := make([]GalleryItem, 0, len(g.Items))
		categories := slices.Clone(g.Categories)
		for _, it := range g.Items {
			it, err := cleanItem(it)
			if err != nil {
				return err
			}
			items = append(items, it)
			categories = append(categories, it.Category)
		}
		s.Gallery = Gallery{
			Categories: NormalizeCategories(categories),
			Items:      items,
		}
		return nil
	}
}

// AddGalleryItem appends one item to the gallery.
func AddGalleryItem(it GalleryItem) Mutation {
	return func(s *State) error {
		it, err := cleanItem(it)
		if err != nil {
			return err
		}
		s.Gallery.Items = append(s.Gallery.Items, it)
		s.Gallery.Categories = NormalizeCategories(append(s.Gallery.Categories, it.Category))
		return nil
	}
}

// RemoveGalleryItem deletes the item with the given id.
func RemoveGalleryItem(id string) Mutation {
	return func(s *State) error {
		i := slices.IndexFunc(s.Gallery.Items, func(it GalleryItem) bool { return it.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrItemNotFound, id)
		}
		s.Gallery.Items = slices.Delete(s.Gallery.Items, i, i+1)
		return nil
	}
}

// SetContact replaces the contact details.
func SetContact(c Contact) Mutation {
	return func(s *State) error {
		c.Email = cleanText(c.Email)
		c.Phone = cleanText(c.Phone)
		c.Address = cleanText(c.Address)
		c.Hours = cleanText(c.Hours)
		if c.Email != "" && !strings.Contains(c.Email, "@") {
			return fmt.Errorf("%w: contact email %q", ErrInvalidEdit, c.Email)
		}
		s.Contact = c
		return nil
	}
}

// SetFooter replaces the footer.
func SetFooter(f Footer) Mutation {
	return func(s *State) error {
		f.Copyright = cleanText(f.Copyright)
		f.Links = cleanLinks(f.Links)
		f.Socials = cleanLinks(f.Socials)
		s.Footer = f
		return nil
	}
}

// SetNavigation replaces the navigation bar.
func SetNavigation(n Navigation) Mutation {
	return func(s *State) error {
		n.Brand = cleanText(n.Brand)
		n.Links = cleanLinks(n.Links)
		if n.Brand == "" {
			return fmt.Errorf("%w: navigation brand is required", ErrInvalidEdit)
		}
		s.Navigation = n
		return nil
	}
}

// Replace installs a whole document, e.g. a reset to defaults.
func Replace(next State) Mutation {
	return func(s *State) error {
		if err := next.Validate(); err != nil {
			return err
		}
		*s = next.Clone()
		return nil
	}
}

// Import installs a whole document from outside the panel, cleaning every
// section the way the individual edits do.
func Import(next State) Mutation {
	return func(s *State) error {
		out := next.Clone()
		for _, m := range []Mutation{
			SetHero(next.Hero),
			SetFeatures(next.Features),
			SetServices(next.Services),
			SetGallery(next.Gallery),
			SetContact(next.Contact),
			SetFooter(next.Footer),
			SetNavigation(next.Navigation),
		} {
			if err := m(&out); err != nil {
				return err
			}
		}
		if err := out.Validate(); err != nil {
			return err
		}
		*s = out
		return nil
	}
}

// DecodeSection decodes a JSON body holding the new value of section and
// returns the mutation that installs it.
func DecodeSection(section Section, body []byte) (Mutation, error) {
	var (
		m   Mutation
		err error
	)
	switch section {
	case SectionHero:
		var v Hero
		err = json.Unmarshal(body, &v)
		m = SetHero(v)
	case SectionFeatures:
		var v []Feature
		err = json.Unmarshal(body, &v)
		m = SetFeatures(v)
	case SectionServices:
		var v []Service
		err = json.Unmarshal(body, &v)
		m = SetServices(v)
	case SectionGallery:
		var v Gallery
		err = json.Unmarshal(body, &v)
		m = SetGallery(v)
	case SectionContact:
		var v Contact
		err = json.Unmarshal(body, &v)
		m = SetContact(v)
	case SectionFooter:
		var v Footer
		err = json.Unmarshal(body, &v)
		m = SetFooter(v)
	case SectionNavigation:
		var v Navigation
		err = json.Unmarshal(body, &v)
		m = SetNavigation(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidEdit, section, err)
	}
	return m, nil
}
