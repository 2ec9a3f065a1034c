// Package content defines the editable landing page document and the
// mutations the admin panel applies to it.
package content

// AllCategory is the gallery filter value that matches every item.
const AllCategory = "Все"

// State is the whole landing page document. It is always fully defined:
// edits replace whole sub-trees, never leave a section partially set.
type State struct {
	Hero       Hero       `json:"hero" yaml:"hero"`
	Features   []Feature  `json:"features" yaml:"features"`
	Services   []Service  `json:"services" yaml:"services"`
	Gallery    Gallery    `json:"gallery" yaml:"gallery"`
	Contact    Contact    `json:"contact" yaml:"contact"`
	Footer     Footer     `json:"footer" yaml:"footer"`
	Navigation Navigation `json:"navigation" yaml:"navigation"`
}

// Hero is the banner at the top of the page with its call to action.
type Hero struct {
	Title      string `json:"title" yaml:"title" form:"title"`
	Subtitle   string `json:"subtitle" yaml:"subtitle" form:"subtitle"`
	CTALabel   string `json:"ctaLabel" yaml:"ctaLabel" form:"ctaLabel"`
	CTAHref    string `json:"ctaHref" yaml:"ctaHref" form:"ctaHref"`
	Background string `json:"background" yaml:"background" form:"background"`
}

// Feature is one card of the features strip. Icon is an icon name.
type Feature struct {
	ID          string `json:"id" yaml:"id"`
	Icon        string `json:"icon" yaml:"icon"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Service is a priced offering. Description is markdown.
type Service struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Price       string   `json:"price" yaml:"price"`
	Bullets     []string `json:"bullets" yaml:"bullets"`
}

// Gallery holds the filter categories and the items shown in the grid.
// Categories[0] is conventionally AllCategory.
type Gallery struct {
	Categories []string      `json:"categories" yaml:"categories"`
	Items      []GalleryItem `json:"items" yaml:"items"`
}

// GalleryItem is one project in the gallery. Category should be one of
// Gallery.Categories.
type GalleryItem struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title" form:"title"`
	Category    string `json:"category" yaml:"category" form:"category"`
	ImageURL    string `json:"imageUrl" yaml:"imageUrl" form:"imageUrl"`
	Description string `json:"description" yaml:"description" form:"description"`
}

// Contact holds the studio's public contact details.
type Contact struct {
	Email   string `json:"email" yaml:"email" form:"email"`
	Phone   string `json:"phone" yaml:"phone" form:"phone"`
	Address string `json:"address" yaml:"address" form:"address"`
	Hours   string `json:"hours" yaml:"hours" form:"hours"`
}

// Footer is the page footer with its link columns.
type Footer struct {
	Copyright string `json:"copyright" yaml:"copyright" form:"copyright"`
	Links     []Link `json:"links" yaml:"links"`
	Socials   []Link `json:"socials" yaml:"socials"`
}

// Navigation is the top bar: the brand and its links.
type Navigation struct {
	Brand string `json:"brand" yaml:"brand" form:"brand"`
	Links []Link `json:"links" yaml:"links"`
}

// Link is a label/href pair used by navigation and footer.
type Link struct {
	Label string `json:"label" yaml:"label"`
	Href  string `json:"href" yaml:"href"`
}
