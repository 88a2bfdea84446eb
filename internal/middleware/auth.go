package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"csdash/internal/models"
)

// Session keys
const (
	sessionMethod        = "user_method"
	sessionSub           = "user_sub"
	sessionEmail         = "user_email"
	sessionName          = "user_name"
	SessionRedirectAfter = "redirect_after_login"
)

// AuthMiddleware gates pages behind a logged-in session.
type AuthMiddleware struct{}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{}
}

// RequireAuth ensures the user is authenticated, redirecting to /login if not.
// The requested page is remembered so login can return to it.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	user := userFromSession(sess)
	if user == nil {
		if c.Method() == fiber.MethodGet {
			sess.Set(SessionRedirectAfter, c.OriginalURL())
		}
		if c.Get("HX-Request") == "true" {
			c.Set("HX-Redirect", "/login")
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Redirect().To("/login")
	}

	c.Locals("user", user)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		if user := userFromSession(sess); user != nil {
			c.Locals("user", user)
		}
	}
	return c.Next()
}

// Login stores user in the session.
func Login(sess *session.Middleware, user *models.User) {
	sess.Set(sessionMethod, user.Method)
	sess.Set(sessionSub, user.Sub)
	sess.Set(sessionEmail, user.Email)
	sess.Set(sessionName, user.Name)
}

// CurrentUser returns the user set by RequireAuth or OptionalAuth.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

func userFromSession(sess *session.Middleware) *models.User {
	method, _ := sess.Get(sessionMethod).(string)
	if method == "" {
		return nil
	}
	sub, _ := sess.Get(sessionSub).(string)
	email, _ := sess.Get(sessionEmail).(string)
	name, _ := sess.Get(sessionName).(string)
	return &models.User{Method: method, Sub: sub, Email: email, Name: name}
}
