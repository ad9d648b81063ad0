package server

import (
	"errors"
	"strings"
	"time"

	"quill/internal/auth"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LoginForm handles GET /auth/login.
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return s.renderer.Render(c, "users/login", fiber.Map{
		"next": c.Query("next", "/"),
	})
}

// SignupForm handles GET /auth/signup.
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return s.renderer.Render(c, "users/signup", fiber.Map{
		"form": fiber.Map{"username": "", "email": ""},
	})
}

// Signup handles POST /auth/signup: registers an account and starts a session.
func (s *Server) Signup(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	fields := map[string]string{}
	if username == "" {
		fields["username"] = "Username is required"
	}
	if email == "" || !strings.Contains(email, "@") {
		fields["email"] = "A valid email is required"
	}
	if len(password) < 8 {
		fields["password"] = "Password must be at least 8 characters"
	}
	if len(fields) > 0 {
		return s.renderer.Render(c, "users/signup", fiber.Map{
			"form":   fiber.Map{"username": username, "email": email},
			"errors": fields,
		})
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return s.failRequest(c, models.NewInternalError(err))
	}

	user := &models.User{Username: username, Email: email, Password: hashed}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeUniqueViolation {
			return s.renderer.Render(c, "users/signup", fiber.Map{
				"form":   fiber.Map{"username": username, "email": email},
				"errors": map[string]string{"username": "Username or email already taken"},
			})
		}
		return s.failRequest(c, err)
	}

	return s.startSession(c, user, "/profile/"+user.Username)
}

// Login handles POST /auth/login: verifies credentials and starts a session.
func (s *Server) Login(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	next := c.FormValue("next", "/")

	user, err := s.userRepo.GetByUsername(c.Context(), username)
	if err != nil || !auth.CheckPassword(user.Password, password) {
		return s.renderer.Render(c, "users/login", fiber.Map{
			"next":   next,
			"errors": map[string]string{"__all__": "Invalid username or password"},
		})
	}

	return s.startSession(c, user, next)
}

// Logout handles POST /auth/logout: revokes the session token and clears the
// cookie.
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(auth.SessionCookie); token != "" {
		if err := s.sessions.Revoke(c.Context(), token); err != nil {
			return s.failRequest(c, err)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.Redirect("/")
}

func (s *Server) startSession(c *fiber.Ctx, user *models.User, next string) error {
	token, err := s.sessions.Issue(user.ID, user.Username)
	if err != nil {
		return s.failRequest(c, models.NewInternalError(err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	return c.Redirect(next)
}
