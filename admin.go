package landing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/landing/auth"
	"github.com/eringen/landing/content"
	"github.com/eringen/landing/editor"
)

const maxEditBody = 1 << 20

// adminPanel builds the overlay for the current browser: the dashboard
// once signed in, otherwise the login or code form.
func (a *App) adminPanel(c echo.Context, msg string) *AdminPanel {
	if role := a.currentRole(c); role.CanEdit() {
		return &AdminPanel{Dashboard: a.dashboardPage(c, role, msg)}
	}
	return &AdminPanel{Login: a.loginPage(c, "", msg)}
}

func (a *App) loginPage(c echo.Context, email, msg string) *LoginPage {
	page := &LoginPage{
		Site:  a.Config,
		Email: email,
		Error: msg,
		CSRF:  CsrfToken(c),
	}
	if remaining := a.Session.Gate().LockRemaining(); remaining > 0 {
		page.Locked = true
		page.LockRemaining = remaining
		page.Error = lockMessage(remaining)
	}
	return page
}

func (a *App) dashboardPage(c echo.Context, role auth.Role, msg string) *DashboardPage {
	return &DashboardPage{
		Site:     a.Config,
		View:     a.Session.View(),
		Role:     role,
		Sections: content.Sections,
		Message:  msg,
		CSRF:     CsrfToken(c),
	}
}

func lockMessage(remaining time.Duration) string {
	minutes := int(remaining.Round(time.Second).Minutes())
	seconds := int(remaining.Round(time.Second).Seconds()) % 60
	return fmt.Sprintf("Слишком много попыток. Вход заблокирован на %d:%02d.", minutes, seconds)
}

// awaitingCode reports whether this browser is at the code step of a
// login the gate is still waiting on.
func (a *App) awaitingCode(c echo.Context) bool {
	return pendingCode(c) && a.Session.Auth().Stage == auth.StageCode
}

func (a *App) handleAdmin(c echo.Context) error {
	if role := a.currentRole(c); role.CanEdit() {
		return a.renderDashboard(c, http.StatusOK, c.QueryParam("msg"))
	}
	if a.awaitingCode(c) {
		return Render(c, a.Views.AdminCode(*a.loginPage(c, "", "")))
	}
	return Render(c, a.Views.AdminLogin(*a.loginPage(c, "", "")))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	stage, err := a.Session.Login(email, c.FormValue("password"))
	switch {
	case errors.Is(err, auth.ErrLocked):
		a.metrics.login("locked")
		return Render(c, a.Views.AdminLogin(*a.loginPage(c, email, "")))
	case err != nil:
		a.metrics.login("failed")
		return Render(c, a.Views.AdminLogin(*a.loginPage(c, email, "Неверный email или пароль.")))
	}

	if stage == auth.StageCode {
		a.metrics.login("code")
		if err := setPendingCode(c, email); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.metrics.login("ok")
	if err := setAuthSession(c, a.Session.Auth().Role); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminCode(c echo.Context) error {
	if !pendingCode(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	_, err := a.Session.VerifyCode(strings.TrimSpace(c.FormValue("code")))
	switch {
	case errors.Is(err, auth.ErrInvalidCode):
		a.metrics.login("bad_code")
		return Render(c, a.Views.AdminCode(*a.loginPage(c, "", "Неверный код подтверждения.")))
	case errors.Is(err, auth.ErrLocked):
		if err := clearAuthSession(c); err != nil {
			return err
		}
		return Render(c, a.Views.AdminLogin(*a.loginPage(c, "", "")))
	case errors.Is(err, auth.ErrNoPendingCode):
		if err := clearAuthSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	case err != nil:
		return err
	}
	a.metrics.login("ok")
	if err := setAuthSession(c, a.Session.Auth().Role); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminCodeCancel(c echo.Context) error {
	if a.awaitingCode(c) {
		a.Session.CancelCode()
	}
	if err := clearAuthSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if a.currentRole(c) != auth.RoleNone {
		a.Session.Logout()
	}
	if err := clearAuthSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// handleAdminLock serves the lockout countdown, polled by the login form.
func (a *App) handleAdminLock(c echo.Context) error {
	remaining := a.Session.Gate().LockRemaining()
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, map[string]any{
			"locked":           remaining > 0,
			"remainingSeconds": int(remaining.Round(time.Second).Seconds()),
		})
	}
	if remaining == 0 && isHTMX(c) {
		c.Response().Header().Set("HX-Refresh", "true")
	}
	return Render(c, a.Views.LockNotice(remaining))
}

func (a *App) handleContentEdit(c echo.Context) error {
	section, err := content.ParseSection(c.Param("section"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	m, err := decodeEdit(c, section)
	if err != nil {
		return a.editFailed(c, err)
	}
	return a.applyEdit(c, m, "Сохранено.")
}

func (a *App) handleGalleryAdd(c echo.Context) error {
	var item content.GalleryItem
	if err := c.Bind(&item); err != nil {
		return a.editFailed(c, fmt.Errorf("%w: %v", content.ErrInvalidEdit, err))
	}
	return a.applyEdit(c, content.AddGalleryItem(item), "Работа добавлена.")
}

func (a *App) handleGalleryDelete(c echo.Context) error {
	return a.applyEdit(c, content.RemoveGalleryItem(c.Param("id")), "Работа удалена.")
}

func (a *App) handleUndo(c echo.Context) error {
	if !a.Session.Undo(c.Request().Context()) {
		return a.respondEdit(c, http.StatusConflict, "Нечего отменять.")
	}
	a.metrics.edit("undo")
	return a.respondEdit(c, http.StatusOK, "Изменение отменено.")
}

func (a *App) handleRedo(c echo.Context) error {
	if !a.Session.Redo(c.Request().Context()) {
		return a.respondEdit(c, http.StatusConflict, "Нечего повторять.")
	}
	a.metrics.edit("redo")
	return a.respondEdit(c, http.StatusOK, "Изменение возвращено.")
}

func (a *App) handleReset(c echo.Context) error {
	if err := a.Session.ResetContent(c.Request().Context()); err != nil {
		return err
	}
	a.metrics.edit("reset")
	return a.respondEdit(c, http.StatusOK, "Содержимое сброшено.")
}

func (a *App) handlePreferences(c echo.Context) error {
	patch, err := decodePreferences(c)
	if err != nil {
		return a.respondEdit(c, http.StatusBadRequest, "Некорректные настройки.")
	}
	if patch.touchesSettings() && !a.currentRole(c).CanManageSettings() {
		return a.respondEdit(c, http.StatusForbidden, "Недостаточно прав.")
	}
	if err := a.Session.UpdatePreferences(c.Request().Context(), patch.apply); err != nil {
		return a.respondEdit(c, http.StatusUnprocessableEntity, err.Error())
	}
	return a.respondEdit(c, http.StatusOK, "Настройки сохранены.")
}

func (a *App) handleState(c echo.Context) error {
	return c.JSON(http.StatusOK, newStateResponse(a.Session.View(), ""))
}

func (a *App) applyEdit(c echo.Context, m content.Mutation, okMsg string) error {
	if err := a.Session.Edit(c.Request().Context(), m); err != nil {
		return a.editFailed(c, err)
	}
	a.metrics.edit("edit")
	return a.respondEdit(c, http.StatusOK, okMsg)
}

func (a *App) editFailed(c echo.Context, err error) error {
	switch {
	case errors.Is(err, content.ErrItemNotFound):
		return a.respondEdit(c, http.StatusNotFound, "Работа не найдена.")
	case errors.Is(err, content.ErrInvalidEdit),
		errors.Is(err, content.ErrIncomplete),
		errors.Is(err, content.ErrUnknownSection):
		return a.respondEdit(c, http.StatusUnprocessableEntity, err.Error())
	}
	return err
}

// respondEdit answers an admin action with the state as JSON or with the
// re-rendered dashboard.
func (a *App) respondEdit(c echo.Context, code int, msg string) error {
	if wantsJSON(c) || isJSONBody(c) {
		return c.JSON(code, newStateResponse(a.Session.View(), msg))
	}
	return a.renderDashboard(c, code, msg)
}

func (a *App) renderDashboard(c echo.Context, code int, msg string) error {
	return RenderStatus(c, code, a.Views.AdminDashboard(*a.dashboardPage(c, a.currentRole(c), msg)))
}

type stateResponse struct {
	Content     content.State      `json:"content"`
	Preferences editor.Preferences `json:"preferences"`
	CanUndo     bool               `json:"canUndo"`
	CanRedo     bool               `json:"canRedo"`
	UndoDepth   int                `json:"undoDepth"`
	RedoDepth   int                `json:"redoDepth"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Message     string             `json:"message,omitempty"`
}

func newStateResponse(v editor.View, msg string) stateResponse {
	return stateResponse{
		Content:     v.Content,
		Preferences: v.Preferences,
		CanUndo:     v.CanUndo,
		CanRedo:     v.CanRedo,
		UndoDepth:   v.UndoDepth,
		RedoDepth:   v.RedoDepth,
		UpdatedAt:   v.UpdatedAt,
		Message:     msg,
	}
}

// decodeEdit reads the new value of section from a JSON body, from a
// "payload" form field holding JSON, or, for the flat sections, from
// plain form fields.
func decodeEdit(c echo.Context, section content.Section) (content.Mutation, error) {
	if isJSONBody(c) {
		body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxEditBody))
		if err != nil {
			return nil, err
		}
		return content.DecodeSection(section, body)
	}
	if payload := c.FormValue("payload"); payload != "" {
		return content.DecodeSection(section, []byte(payload))
	}
	switch section {
	case content.SectionHero:
		var h content.Hero
		if err := c.Bind(&h); err != nil {
			return nil, fmt.Errorf("%w: %v", content.ErrInvalidEdit, err)
		}
		return content.SetHero(h), nil
	case content.SectionContact:
		var ct content.Contact
		if err := c.Bind(&ct); err != nil {
			return nil, fmt.Errorf("%w: %v", content.ErrInvalidEdit, err)
		}
		return content.SetContact(ct), nil
	}
	return nil, fmt.Errorf("%w: %s needs a JSON payload", content.ErrInvalidEdit, section)
}

// preferencesPatch is a partial update; nil fields are left unchanged.
type preferencesPatch struct {
	PreviewMode *editor.PreviewMode      `json:"previewMode"`
	Animations  *editor.Animations       `json:"animations"`
	Sections    map[content.Section]bool `json:"sections"`
	FormFields  []editor.FormField       `json:"formFields"`
	Recipients  []string                 `json:"recipients"`
}

// touchesSettings reports whether the patch changes what only an admin
// may change.
func (p preferencesPatch) touchesSettings() bool {
	return p.Sections != nil || p.FormFields != nil || p.Recipients != nil
}

func (p preferencesPatch) apply(prefs *editor.Preferences) error {
	if p.PreviewMode != nil {
		if !p.PreviewMode.Valid() {
			return fmt.Errorf("unknown preview mode %q", *p.PreviewMode)
		}
		prefs.PreviewMode = *p.PreviewMode
	}
	if p.Animations != nil {
		prefs.Animations = *p.Animations
	}
	if p.Sections != nil && prefs.Sections == nil {
		prefs.Sections = make(map[content.Section]bool, len(p.Sections))
	}
	for name, on := range p.Sections {
		s, err := content.ParseSection(string(name))
		if err != nil {
			return err
		}
		prefs.Sections[s] = on
	}
	for _, f := range p.FormFields {
		i := -1
		for j := range prefs.FormFields {
			if prefs.FormFields[j].Name == f.Name {
				i = j
				break
			}
		}
		if i < 0 {
			return fmt.Errorf("unknown form field %q", f.Name)
		}
		if f.Label == "" {
			f.Label = prefs.FormFields[i].Label
		}
		prefs.FormFields[i] = f
	}
	if p.Recipients != nil {
		prefs.Recipients = FilterEmpty(p.Recipients)
	}
	return nil
}

// decodePreferences accepts a JSON patch or the panel's settings form.
// Form keys: previewMode, animations, reducedMotion, durationMs,
// section.<name>, field.<name>.visible, field.<name>.required, recipients
// (comma separated). Checkbox groups are only read when their marker
// field (sections, fields) is present.
func decodePreferences(c echo.Context) (preferencesPatch, error) {
	var p preferencesPatch
	if isJSONBody(c) {
		err := json.NewDecoder(io.LimitReader(c.Request().Body, maxEditBody)).Decode(&p)
		return p, err
	}
	form, err := c.FormParams()
	if err != nil {
		return p, err
	}
	if v := form.Get("previewMode"); v != "" {
		mode := editor.PreviewMode(v)
		p.PreviewMode = &mode
	}
	if form.Has("durationMs") {
		d, err := strconv.Atoi(form.Get("durationMs"))
		if err != nil {
			return p, err
		}
		p.Animations = &editor.Animations{
			Enabled:    form.Get("animations") != "",
			Reduced:    form.Get("reducedMotion") != "",
			DurationMS: d,
		}
	}
	if form.Has("sections") {
		p.Sections = make(map[content.Section]bool, len(content.Sections))
		for _, s := range content.Sections {
			p.Sections[s] = form.Get("section."+string(s)) != ""
		}
	}
	if form.Has("fields") {
		for _, name := range FilterEmpty(strings.Split(form.Get("fields"), ",")) {
			p.FormFields = append(p.FormFields, editor.FormField{
				Name:     name,
				Visible:  form.Get("field."+name+".visible") != "",
				Required: form.Get("field."+name+".required") != "",
			})
		}
	}
	if form.Has("recipients") {
		p.Recipients = FilterEmpty(strings.Split(form.Get("recipients"), ","))
		if p.Recipients == nil {
			p.Recipients = []string{}
		}
	}
	return p, nil
}
