package content

import (
	"slices"
	"strings"
)

// FilterGallery returns the items shown for category. AllCategory (or an
// empty category) returns every item; any other value returns the items
// whose Category matches it exactly. The result never aliases items.
func FilterGallery(items []GalleryItem, category string) []GalleryItem {
	if category == "" || category == AllCategory {
		return slices.Clone(items)
	}
	var out []GalleryItem
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// NormalizeCategories trims and dedupes categories and makes sure
// AllCategory comes first.
func NormalizeCategories(categories []string) []string {
	out := []string{AllCategory}
	seen := map[string]struct{}{AllCategory: {}}
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
