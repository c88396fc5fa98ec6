package api

import (
	"errors"
	"net/http"
	"strings"

	"wpconn-dashboard/internal/notify"
	"wpconn-dashboard/internal/session"
	"wpconn-dashboard/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	*Base
	Auth         session.Authenticator
	Mode         string
	APIKey       string
	DefaultScope string
}

func NewAuthHandler(base *Base, auth session.Authenticator, mode, apiKey, defaultScope string) *AuthHandler {
	return &AuthHandler{Base: base, Auth: auth, Mode: mode, APIKey: apiKey, DefaultScope: defaultScope}
}

type loginView struct {
	Error    string
	Username string
	Mode     string
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	if _, ok := h.Sessions.Current(c); ok {
		redirect(c, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, web.PageLogin, "", "Sign in", loginView{Mode: h.Mode})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, web.PageLogin, "", "Sign in", loginView{Error: bindMessage(err), Username: form.Username, Mode: h.Mode})
		return
	}

	username := strings.TrimSpace(form.Username)
	ident, err := h.Auth.Authenticate(c.Request.Context(), username, form.Password)
	if err != nil {
		h.countLogin("failure")
		status, msg := http.StatusUnauthorized, "Invalid credentials"
		switch {
		case errors.Is(err, session.ErrInvalidCredentials):
		case errors.Is(err, session.ErrInactiveUser):
			msg = "This account is inactive"
		default:
			h.Logger.Error("login failed", zap.String("component", "auth"), zap.Error(err))
			status, msg = http.StatusBadGateway, "Login is unavailable, please try again later"
		}
		h.render(c, status, web.PageLogin, "", "Sign in", loginView{Error: msg, Username: username, Mode: h.Mode})
		return
	}

	sess, err := h.Sessions.Start(c, ident, h.APIKey, h.DefaultScope)
	if err != nil {
		h.countLogin("error")
		h.Logger.Error("failed starting session", zap.String("component", "auth"), zap.Error(err))
		h.render(c, http.StatusInternalServerError, web.PageLogin, "", "Sign in", loginView{Error: "Could not start a session", Username: username, Mode: h.Mode})
		return
	}

	h.countLogin("success")
	h.Notices.Push(sess.ID, notify.LevelSuccess, "Welcome, "+displayName(ident))
	redirect(c, "/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Sessions.End(c)
	redirect(c, "/login")
}

func (h *AuthHandler) countLogin(outcome string) {
	if h.Metrics != nil {
		h.Metrics.Logins.WithLabelValues(outcome).Inc()
	}
}

func displayName(ident session.Identity) string {
	if ident.Name != "" {
		return ident.Name
	}
	return ident.Email
}
