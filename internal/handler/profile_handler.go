package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/eduportal/internal/authctx"
	"github.com/hitoshi/eduportal/internal/model"
	"github.com/hitoshi/eduportal/internal/view"
)

const profilePath = "/dashboard/profile"

var (
	profileTabs      = []string{"personal", "account", "notifications"}
	profileTabLabels = []string{"Personal Information", "Account Settings", "Notifications"}
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	Load(ctx context.Context, u *model.User) model.Profile
	Save(ctx context.Context, u *model.User, p model.Profile) (model.Profile, error)
}

// ProfileHandler はプロフィール画面のHTTPハンドラー。
type ProfileHandler struct {
	service  ProfileServiceInterface
	pages    PageRenderer
	validate *formValidator
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface, pages PageRenderer) *ProfileHandler {
	return &ProfileHandler{
		service:  service,
		pages:    pages,
		validate: newFormValidator(),
	}
}

// Profile はプロフィールを表示する。edit=1 で編集モード。
// GET /dashboard/profile?tab=personal|account|notifications
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	q := r.URL.Query()
	tabs, active := view.Tabs(profilePath, q.Get("tab"), profileTabs, profileTabLabels)
	data := view.ProfileData{
		Profile: h.service.Load(r.Context(), st.User),
		Editing: q.Get("edit") == "1",
		Tab:     active,
		Tabs:    tabs,
		Saved:   q.Get("saved") == "1",
	}
	h.pages.Render(w, http.StatusOK, view.PageProfile, newPage(r, st, "Profile", view.NavProfile, data))
}

// UpdateProfile はプロフィールを保存する。
// POST /dashboard/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	form := profileForm{
		Name:        r.PostFormValue("name"),
		Bio:         r.PostFormValue("bio"),
		Department:  r.PostFormValue("department"),
		Phone:       r.PostFormValue("phone"),
		NotifyEmail: r.PostFormValue("notify_email") == "on",
		NotifyPush:  r.PostFormValue("notify_push") == "on",
		Tab:         r.PostFormValue("tab"),
	}
	tabs, active := view.Tabs(profilePath, form.Tab, profileTabs, profileTabLabels)

	p := model.Profile{
		Name:          form.Name,
		Email:         st.User.Email,
		Bio:           form.Bio,
		Department:    form.Department,
		Phone:         form.Phone,
		Notifications: model.Notifications{Email: form.NotifyEmail, Push: form.NotifyPush},
	}

	if msg := h.validate.Check(form); msg != "" {
		h.renderEditError(w, r, st, http.StatusBadRequest, p, active, tabs, msg)
		return
	}

	if _, err := h.service.Save(r.Context(), st.User, p); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeInvalidProfile {
			h.renderEditError(w, r, st, http.StatusBadRequest, p, active, tabs, apiErr.Message)
			return
		}
		slog.Error("failed to save profile",
			slog.String("user_id", st.User.ID),
			slog.String("error", err.Error()),
		)
		h.renderEditError(w, r, st, http.StatusBadGateway, p, active, tabs, model.NewUpstreamFailedError().Message)
		return
	}

	target := profilePath + "?saved=1"
	if active != profileTabs[0] {
		target += "&tab=" + active
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *ProfileHandler) renderEditError(w http.ResponseWriter, r *http.Request, st *authctx.State, status int, p model.Profile, tab string, tabs []view.Tab, msg string) {
	data := view.ProfileData{
		Profile: p,
		Editing: true,
		Tab:     tab,
		Tabs:    tabs,
		Error:   msg,
	}
	h.pages.Render(w, status, view.PageProfile, newPage(r, st, "Profile", view.NavProfile, data))
}
