package handlers

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"golang.org/x/oauth2"

	"csdash/internal/config"
	"csdash/internal/middleware"
	"csdash/internal/models"
	"csdash/internal/validation"
)

// AuthHandler handles the password login gate and the optional OIDC flow.
type AuthHandler struct {
	cfg          *config.Config
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// NewAuthHandler creates a new auth handler. OIDC discovery only runs when
// an issuer is configured.
func NewAuthHandler(ctx context.Context, cfg *config.Config) (*AuthHandler, error) {
	h := &AuthHandler{cfg: cfg}
	if !cfg.IsOIDCEnabled() {
		return h, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	h.provider = provider
	h.oauth2Config = oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	h.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})
	return h, nil
}

// LoginPage renders the login form. Users who are already logged in go
// straight to the dashboard.
func (h *AuthHandler) LoginPage(c fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect().To("/")
	}
	return h.renderLogin(c, fiber.StatusOK, "")
}

// LoginSubmit checks the shared password.
func (h *AuthHandler) LoginSubmit(c fiber.Ctx) error {
	if !h.cfg.IsPasswordEnabled() {
		return h.renderLogin(c, fiber.StatusForbidden, "Login med adgangskode er ikke slået til.")
	}

	password := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.AppPassword)) != 1 {
		slog.Warn("failed password login", "ip", c.IP())
		return h.renderLogin(c, fiber.StatusUnauthorized, "Forkert adgangskode!")
	}

	return h.completeLogin(c, &models.User{Method: models.LoginPassword})
}

// Login initiates the OIDC login flow.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	if h.provider == nil {
		return fiber.NewError(fiber.StatusNotFound, "OIDC login is not configured")
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	state := generateState()
	sess.Set("oauth_state", state)

	return c.Redirect().To(h.oauth2Config.AuthCodeURL(state))
}

// Callback handles the OIDC callback after authentication.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	if h.provider == nil {
		return fiber.NewError(fiber.StatusNotFound, "OIDC login is not configured")
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	savedState, _ := sess.Get("oauth_state").(string)
	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete("oauth_state")

	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token")
	}

	claims := make(map[string]any)
	if err := idToken.Claims(&claims); err != nil {
		return err
	}

	// Some providers only put the subject in the ID token.
	userInfo, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(oauth2Token))
	if err == nil {
		var extra map[string]any
		if err := userInfo.Claims(&extra); err == nil {
			for k, v := range extra {
				claims[k] = v
			}
		}
	} else {
		slog.Warn("failed to fetch userinfo", "error", err)
	}

	user := &models.User{Method: models.LoginOIDC}
	user.Sub, _ = claims["sub"].(string)
	user.Email, _ = claims["email"].(string)
	user.Name, _ = claims["name"].(string)

	return h.completeLogin(c, user)
}

// Logout clears the user session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		if err := sess.Destroy(); err != nil {
			slog.Error("failed to destroy session", "error", err)
		}
	}
	return c.Redirect().To("/login")
}

func (h *AuthHandler) completeLogin(c fiber.Ctx, user *models.User) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	redirect, _ := sess.Get(middleware.SessionRedirectAfter).(string)
	sess.Delete(middleware.SessionRedirectAfter)
	if err := sess.Regenerate(); err != nil {
		return err
	}
	middleware.Login(sess, user)

	slog.Info("user logged in", "method", user.Method, "user", user.DisplayName())
	return c.Redirect().To(validation.SafeRedirect(redirect))
}

func (h *AuthHandler) renderLogin(c fiber.Ctx, status int, errMsg string) error {
	return c.Status(status).Render("login", pageData(c, h.cfg, fiber.Map{
		"Title":           "Login",
		"Error":           errMsg,
		"PasswordEnabled": h.cfg.IsPasswordEnabled(),
		"OIDCEnabled":     h.provider != nil,
	}))
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
