package rest

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/taskforge/taskforge"
)

// RequireAuth extracts the bearer token from the Authorization header,
// resolves it to a principal, and stores the user under the context
// key. Any failure is the one uniform credential error; the handler
// never learns why.
func (s *Server) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := s.extractToken(c)
		if err != nil {
			c.Set(fiber.HeaderWWWAuthenticate, s.authScheme)
			return err
		}

		principal, err := s.resolver.Resolve(c.Context(), raw)
		if err != nil {
			c.Set(fiber.HeaderWWWAuthenticate, s.authScheme)
			return err
		}

		c.Locals(s.contextKey, principal)

		return c.Next()
	}
}

func (s *Server) extractToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", taskforge.ErrCouldNotValidate
	}

	scheme := s.authScheme + " "
	if len(header) <= len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", taskforge.ErrCouldNotValidate
	}

	token := strings.TrimSpace(header[len(scheme):])
	if token == "" {
		return "", taskforge.ErrCouldNotValidate
	}

	return token, nil
}

// currentUser pulls the principal the middleware stored. Routes behind
// RequireAuth always have one; a missing value means a wiring bug.
func (s *Server) currentUser(c *fiber.Ctx) (*taskforge.User, error) {
	user, ok := c.Locals(s.contextKey).(*taskforge.User)
	if !ok || user == nil {
		return nil, taskforge.ErrCouldNotValidate
	}
	return user, nil
}
