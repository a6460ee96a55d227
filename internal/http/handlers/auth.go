package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/datatable"
	"mondedesparfum.com/admin/internal/http/flash"
	"mondedesparfum.com/admin/internal/http/middleware"
	"mondedesparfum.com/admin/internal/http/render"
	"mondedesparfum.com/admin/internal/http/validation"
	"mondedesparfum.com/admin/internal/modules/auth"
	"mondedesparfum.com/admin/internal/shared/apperr"
	"mondedesparfum.com/admin/pkg/view"
)

const afterLogin = "/admin"

// NormalizeReturnTo keeps only local absolute paths.
func NormalizeReturnTo(s string) string {
	if s == "" {
		return ""
	}
	if len(s) < 1 || s[0] != '/' {
		return ""
	}
	// protocol-relative, e.g. "//evil.com"
	if len(s) >= 2 && (s[0:2] == "//" || s[0:2] == "/\\") {
		return ""
	}
	if containsScheme(s) {
		return ""
	}
	return s
}

func containsScheme(s string) bool {
	for i := 0; i+2 < len(s); i++ {
		if s[i] == ':' && s[i+1] == '/' && s[i+2] == '/' {
			return true
		}
	}
	return false
}

// AuthHandlers contains handlers for authentication routes.
type AuthHandlers struct {
	api    *apiclient.Client
	flash  *flash.Codec
	tables *datatable.Registry
	log    *slog.Logger
}

func NewAuthHandlers(api *apiclient.Client, flashCodec *flash.Codec, tables *datatable.Registry, l *slog.Logger) *AuthHandlers {
	return &AuthHandlers{api: api, flash: flashCodec, tables: tables, log: l}
}

// LoginGet renders the login page.
func (h *AuthHandlers) LoginGet(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, NormalizeReturnTo(c.Query("return_to")), "", nil)
}

// LoginPost exchanges the credentials for a token and stores the session.
func (h *AuthHandlers) LoginPost(c *gin.Context) {
	returnTo := NormalizeReturnTo(c.PostForm("return_to"))

	var in auth.Credentials
	if err := c.ShouldBind(&in); err != nil {
		h.renderLogin(c, http.StatusBadRequest, returnTo, in.Username,
			validation.FromBindError(err, &in, auth.CredentialMessages))
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	if errs := validation.Struct(&in, auth.CredentialMessages); len(errs) > 0 {
		h.renderLogin(c, http.StatusUnprocessableEntity, returnTo, in.Username, errs)
		return
	}

	user, token, err := auth.NewService(h.api).Login(c.Request.Context(), in)
	if err != nil {
		h.log.LogAttrs(c.Request.Context(), slog.LevelWarn, "login_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("username", in.Username),
			slog.Any("err", err),
		)

		var fieldErrs validation.FieldErrors
		if ae, ok := apiclient.AsError(err); ok {
			fieldErrs = validation.FieldErrors{}
			for k, msgs := range ae.FieldErrors() {
				if (k == "username" || k == "password") && len(msgs) > 0 {
					fieldErrs[k] = msgs[0]
				}
			}
		}
		middleware.SetFlash(c, view.Flash{Kind: view.FlashError, Title: "Account Login", Message: auth.LoginFailedMsg})
		status := http.StatusUnauthorized
		if ae, ok := apiclient.AsError(err); !ok || ae.Status == 0 || ae.Status >= 500 {
			status = http.StatusBadGateway
		}
		h.renderLogin(c, status, returnTo, in.Username, fieldErrs)
		return
	}

	st := middleware.CurrentSession(c)
	if st == nil {
		middleware.Fail(c, apperr.Wrap(errors.New("session middleware not installed")))
		return
	}
	if err := st.Login(user, token); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	h.log.LogAttrs(c.Request.Context(), slog.LevelInfo, "login_succeeded",
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("user_id", user.ID.String()),
	)

	dest := afterLogin
	if returnTo != "" {
		dest = returnTo
	}
	render.RedirectWithFlash(c, h.flash, dest, view.FlashSuccess, "Welcome back, "+user.DisplayName()+".")
}

// Logout revokes the token best-effort and always clears the session.
func (h *AuthHandlers) Logout(c *gin.Context) {
	st := middleware.CurrentSession(c)
	if st != nil && st.LoggedIn() {
		if err := auth.NewService(Backend(c, h.api)).Logout(c.Request.Context()); err != nil {
			h.log.LogAttrs(c.Request.Context(), slog.LevelWarn, "logout_upstream_failed",
				slog.String("request_id", middleware.GetRequestID(c)),
				slog.Any("err", err),
			)
		}
		h.tables.Forget(st.Owner())
		st.Logout()
	}
	render.RedirectWithFlash(c, h.flash, "/login", view.FlashInfo, "You have been logged out.")
}

func (h *AuthHandlers) renderLogin(c *gin.Context, status int, returnTo, username string, errs validation.FieldErrors) {
	render.Page(c, status, "login", view.LoginPage{
		Layout:   render.Layout(c, "Login", ""),
		ReturnTo: returnTo,
		Username: username,
		Errors:   errs,
	})
}
