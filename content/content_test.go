package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.NotEmpty(t, s.Features)
	assert.NotEmpty(t, s.Services)
	assert.Equal(t, AllCategory, s.Gallery.Categories[0])
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Hero.Title = "changed"
	a.Features[0].Title = "changed"
	a.Services[0].Bullets[0] = "changed"

	b := Default()
	assert.NotEqual(t, "changed", b.Hero.Title)
	assert.NotEqual(t, "changed", b.Features[0].Title)
	assert.NotEqual(t, "changed", b.Services[0].Bullets[0])
}

func TestCloneIsDeep(t *testing.T) {
	orig := Default()
	cp := orig.Clone()
	require.Equal(t, orig, cp)

	cp.Features[0].Title = "x"
	cp.Services[0].Bullets[0] = "x"
	cp.Gallery.Items[0].Title = "x"
	cp.Gallery.Categories[1] = "x"
	cp.Footer.Links[0].Label = "x"
	cp.Footer.Socials[0].Label = "x"
	cp.Navigation.Links[0].Label = "x"

	assert.NotEqual(t, "x", orig.Features[0].Title)
	assert.NotEqual(t, "x", orig.Services[0].Bullets[0])
	assert.NotEqual(t, "x", orig.Gallery.Items[0].Title)
	assert.NotEqual(t, "x", orig.Gallery.Categories[1])
	assert.NotEqual(t, "x", orig.Footer.Links[0].Label)
	assert.NotEqual(t, "x", orig.Footer.Socials[0].Label)
	assert.NotEqual(t, "x", orig.Navigation.Links[0].Label)
}

func TestCloneKeepsNilSlices(t *testing.T) {
	var s State
	cp := s.Clone()
	assert.Nil(t, cp.Features)
	assert.Nil(t, cp.Services)
	assert.Nil(t, cp.Gallery.Items)
}

func TestFilterGallery(t *testing.T) {
	items := []GalleryItem{
		{ID: "1", Category: "Квартиры"},
		{ID: "2", Category: "Дома"},
		{ID: "3", Category: "Квартиры"},
		{ID: "4", Category: "квартиры"},
	}

	assert.Len(t, FilterGallery(items, AllCategory), 4)
	assert.Len(t, FilterGallery(items, ""), 4)

	got := FilterGallery(items, "Квартиры")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	assert.Empty(t, FilterGallery(items, "Офисы"))

	all := FilterGallery(items, AllCategory)
	all[0].Category = "Офисы"
	assert.Equal(t, "Квартиры", items[0].Category)
}

func TestNormalizeCategories(t *testing.T) {
	got := NormalizeCategories([]string{" Дома ", "Офисы", AllCategory, "Дома", ""})
	assert.Equal(t, []string{AllCategory, "Дома", "Офисы"}, got)
}

func TestValidate(t *testing.T) {
	s := Default()
	s.Hero.Title = ""
	assert.ErrorIs(t, s.Validate(), ErrIncomplete)

	s = Default()
	s.Gallery.Categories = []string{"Дома"}
	assert.ErrorIs(t, s.Validate(), ErrIncomplete)
}

func TestSetHeroSanitizes(t *testing.T) {
	s := Default()
	err := SetHero(Hero{
		Title:   `<script>alert(1)</script>Новый & лучший`,
		CTAHref: "javascript:alert(1)",
	})(&s)
	require.NoError(t, err)
	assert.Equal(t, "Новый & лучший", s.Hero.Title)
	assert.Empty(t, s.Hero.CTAHref)
}

func TestSetHeroRequiresTitle(t *testing.T) {
	s := Default()
	before := s.Hero
	err := SetHero(Hero{Title: "  "})(&s)
	assert.ErrorIs(t, err, ErrInvalidEdit)
	assert.Equal(t, before, s.Hero)
}

func TestSetFeaturesAssignsIDs(t *testing.T) {
	s := Default()
	require.NoError(t, SetFeatures([]Feature{{Title: "Быстро"}, {ID: "keep", Title: "Надёжно"}})(&s))
	require.Len(t, s.Features, 2)
	assert.NotEmpty(t, s.Features[0].ID)
	assert.Equal(t, "keep", s.Features[1].ID)
}

func TestSetServicesDropsEmptyBullets(t *testing.T) {
	s := Default()
	require.NoError(t, SetServices([]Service{{Title: "Замер", Bullets: []string{"", "Выезд", " "}}})(&s))
	assert.Equal(t, []string{"Выезд"}, s.Services[0].Bullets)
}

func TestGalleryItemEdits(t *testing.T) {
	s := Default()
	n := len(s.Gallery.Items)

	require.NoError(t, AddGalleryItem(GalleryItem{Title: "Баня", Category: "Бани"})(&s))
	require.Len(t, s.Gallery.Items, n+1)
	added := s.Gallery.Items[n]
	assert.NotEmpty(t, added.ID)
	assert.Contains(t, s.Gallery.Categories, "Бани")

	require.NoError(t, RemoveGalleryItem(added.ID)(&s))
	assert.Len(t, s.Gallery.Items, n)

	assert.ErrorIs(t, RemoveGalleryItem("missing")(&s), ErrItemNotFound)
	assert.ErrorIs(t, AddGalleryItem(GalleryItem{Title: "x", Category: AllCategory})(&s), ErrInvalidEdit)
}

func TestSetGalleryKeepsAllCategoryFirst(t *testing.T) {
	s := Default()
	require.NoError(t, SetGallery(Gallery{
		Categories: []string{"Дома"},
		Items:      []GalleryItem{{ID: "a", Title: "A", Category: "Офисы"}},
	})(&s))
	assert.Equal(t, []string{AllCategory, "Дома", "Офисы"}, s.Gallery.Categories)
	require.NoError(t, s.Validate())
}

func TestSetContactRejectsBadEmail(t *testing.T) {
	s := Default()
	assert.ErrorIs(t, SetContact(Contact{Email: "nope"})(&s), ErrInvalidEdit)
	require.NoError(t, SetContact(Contact{Email: "team@example.com"})(&s))
	assert.Equal(t, "team@example.com", s.Contact.Email)
}

func TestSetNavigationFiltersLinks(t *testing.T) {
	s := Default()
	require.NoError(t, SetNavigation(Navigation{
		Brand: "Бренд",
		Links: []Link{{Label: "Ok", Href: "#ok"}, {Label: "", Href: "#x"}, {Label: "Bad", Href: "//evil.example"}},
	})(&s))
	require.Len(t, s.Navigation.Links, 2)
	assert.Equal(t, "#ok", s.Navigation.Links[0].Href)
	assert.Empty(t, s.Navigation.Links[1].Href)
}

func TestParseSection(t *testing.T) {
	got, err := ParseSection(" Hero ")
	require.NoError(t, err)
	assert.Equal(t, SectionHero, got)

	_, err = ParseSection("pricing")
	assert.True(t, errors.Is(err, ErrUnknownSection))
}

func TestDecodeSection(t *testing.T) {
	s := Default()
	m, err := DecodeSection(SectionContact, []byte(`{"email":"a@b.c","phone":"1"}`))
	require.NoError(t, err)
	require.NoError(t, m(&s))
	assert.Equal(t, "a@b.c", s.Contact.Email)

	_, err = DecodeSection(SectionFeatures, []byte(`{"not":"a list"}`))
	assert.ErrorIs(t, err, ErrInvalidEdit)

	_, err = DecodeSection(Section("pricing"), []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestReplaceValidates(t *testing.T) {
	s := Default()
	assert.ErrorIs(t, Replace(State{})(&s), ErrIncomplete)

	next := Default()
	next.Hero.Title = "Другой"
	require.NoError(t, Replace(next)(&s))
	assert.Equal(t, "Другой", s.Hero.Title)
}

func TestRenderMarkdown(t *testing.T) {
	out := string(RenderMarkdown("Более **300** проектов <script>alert(1)</script>"))
	assert.Contains(t, out, "<strong>300</strong>")
	assert.False(t, strings.Contains(out, "<script>"))
}

func TestSafeHref(t *testing.T) {
	for _, ok := range []string{"https://example.com", "mailto:a@b.c", "tel:+79000000000", "/public/x.jpg", "#contact"} {
		assert.True(t, SafeHref(ok), ok)
	}
	for _, bad := range []string{"", "javascript:alert(1)", "//evil.example", " https://example.com", "data:text/html,x"} {
		assert.False(t, SafeHref(bad), bad)
	}
}

func TestImportCleansEverySection(t *testing.T) {
	next := Default()
	next.Hero.Title = "<i>Новый</i>"
	next.Navigation.Links = []Link{{Label: "Плохо", Href: "javascript:void(0)"}}
	next.Gallery.Categories = nil

	s := Default()
	require.NoError(t, Import(next)(&s))
	assert.Equal(t, "Новый", s.Hero.Title)
	assert.Empty(t, s.Navigation.Links[0].Href)
	assert.Equal(t, AllCategory, s.Gallery.Categories[0])

	bad := Default()
	bad.Navigation.Brand = ""
	before := Default()
	assert.ErrorIs(t, Import(bad)(&before), ErrInvalidEdit)
	assert.Equal(t, Default(), before)
}
