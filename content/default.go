package content

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/content.yaml
var defaultDocument []byte

var bundled = mustParseDefault(defaultDocument)

func mustParseDefault(b []byte) State {
	var s State
	if err := yaml.Unmarshal(b, &s); err != nil {
		panic(fmt.Sprintf("content: bundled default document: %v", err))
	}
	if err := s.Validate(); err != nil {
		panic(fmt.Sprintf("content: bundled default document: %v", err))
	}
	return s
}

// Default returns a fresh copy of the bundled default document.
func Default() State {
	return bundled.Clone()
}

// ErrIncomplete is returned by Validate when a required part of the
// document is missing.
var ErrIncomplete = errors.New("content: incomplete document")

// Validate reports whether s is fully defined.
func (s State) Validate() error {
	switch {
	case s.Hero.Title == "":
		return fmt.Errorf("%w: hero title is empty", ErrIncomplete)
	case s.Navigation.Brand == "":
		return fmt.Errorf("%w: navigation brand is empty", ErrIncomplete)
	case !slices.Contains(s.Gallery.Categories, AllCategory):
		return fmt.Errorf("%w: gallery categories must include %q", ErrIncomplete, AllCategory)
	}
	return nil
}
