package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"

	"github.com/taskforge/taskforge"
)

// Login handles POST /auth/token. The body is a form with username
// and password; the response carries a fresh bearer token. A missing
// user and a wrong password are indistinguishable.
func (s *Server) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	if username == "" || password == "" {
		return taskforge.ErrIncorrectCredentials
	}

	user, err := s.repo.Users().GetByUsername(c.Context(), username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return taskforge.ErrIncorrectCredentials
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to load user for login")
	}

	if err := taskforge.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return taskforge.ErrIncorrectCredentials
	}

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		return err
	}

	s.logger.Debug("issued access token", "username", user.Username)

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// RefreshToken handles POST /auth/refresh_token: a valid bearer token
// buys a fresh one for the same subject.
func (s *Server) RefreshToken(c *fiber.Ctx) error {
	principal, err := s.currentUser(c)
	if err != nil {
		return err
	}

	token, err := s.tokens.Generate(principal.Username)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
