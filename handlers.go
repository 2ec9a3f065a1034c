package landing

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/landing/contact"
	"github.com/eringen/landing/content"
	"github.com/eringen/landing/editor"
)

func (a *App) galleryView(s content.State, category string) GalleryView {
	categories := content.NormalizeCategories(s.Gallery.Categories)
	category = strings.TrimSpace(category)
	if category == "" {
		category = content.AllCategory
	}
	return GalleryView{
		Categories: categories,
		Active:     category,
		Items:      content.FilterGallery(s.Gallery.Items, category),
	}
}

func (a *App) homePage(c echo.Context, s content.State, prefs editor.Preferences) HomePage {
	return HomePage{
		Site: a.Config,
		Meta: PageMeta{
			Title:       s.Hero.Title,
			Description: a.Config.Description,
			URL:         BuildURL(a.Config.URL),
			OGType:      "website",
			JSONLD:      OrganizationJsonLD(a.Config, s),
		},
		Content:     s,
		Preferences: prefs,
		Gallery:     a.galleryView(s, c.QueryParam("category")),
		Contact: ContactView{
			Info:   s.Contact,
			Fields: prefs.VisibleFields(),
			Status: contact.StatusIdle,
			CSRF:   CsrfToken(c),
		},
	}
}

func (a *App) handleHome(c echo.Context) error {
	view := a.Session.View()
	if isHTMX(c) && c.QueryParam("partial") == "gallery" {
		return Render(c, a.Views.Gallery(a.galleryView(view.Content, c.QueryParam("category"))))
	}
	page := a.homePage(c, view.Content, view.Preferences)
	if AdminRequested(c) {
		page.Admin = a.adminPanel(c, "")
	}
	return Render(c, a.Views.Home(page))
}

func (a *App) handleGallery(c echo.Context) error {
	return Render(c, a.Views.Gallery(a.galleryView(a.Session.Content(), c.QueryParam("category"))))
}

func (a *App) handleContact(c echo.Context) error {
	view := a.Session.View()
	cv := ContactView{
		Info:   view.Content.Contact,
		Fields: view.Preferences.VisibleFields(),
		CSRF:   CsrfToken(c),
	}

	if !a.contactLimits.Allow(c.RealIP()) {
		cv.Status = contact.StatusFailed
		cv.Message = "Слишком много заявок. Попробуйте позже."
		a.metrics.contact(cv.Status)
		return a.renderContact(c, http.StatusTooManyRequests, cv, view)
	}

	var sub contact.Submission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	sub.Trim()
	var required []string
	for _, f := range cv.Fields {
		if f.Required {
			required = append(required, f.Name)
		}
	}
	if err := sub.Validate(required...); err != nil {
		cv.Status = contact.StatusFailed
		cv.Message = "Заполните обязательные поля."
		return a.renderContact(c, http.StatusUnprocessableEntity, cv, view)
	}
	sub.Recipients = view.Preferences.Recipients

	if err := a.contact.Submit(c.Request().Context(), sub); err != nil {
		c.Logger().Errorf("contact submission: %v", err)
		cv.Status = contact.StatusFailed
		cv.Message = "Не удалось отправить сообщение. Попробуйте ещё раз."
	} else {
		cv.Status = contact.StatusSent
		cv.Message = "Спасибо! Мы свяжемся с вами."
	}
	a.metrics.contact(cv.Status)
	return a.renderContact(c, http.StatusOK, cv, view)
}

// renderContact answers HTMX with the form fragment and plain posts with
// the whole page.
func (a *App) renderContact(c echo.Context, code int, cv ContactView, view editor.View) error {
	if isHTMX(c) {
		return RenderStatus(c, code, a.Views.ContactStatus(cv))
	}
	page := a.homePage(c, view.Content, view.Preferences)
	page.Contact = cv
	return RenderStatus(c, code, a.Views.Home(page))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Session.UpdatedAt())
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound && !wantsJSON(c) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		if !wantsJSON(c) {
			_ = RenderStatus(c, code, a.Views.ServerError())
			return
		}
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
