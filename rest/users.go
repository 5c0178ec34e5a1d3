package rest

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/taskforge/taskforge"
)

// CreateUser handles POST /users.
func (s *Server) CreateUser(c *fiber.Ctx) error {
	payload := new(UserRequest)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "Invalid request body").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	user, err := s.register.Execute(c.Context(), taskforge.RegisterUserMessage{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return err
	}

	s.logger.Info("user created", "username", user.Username)

	return c.Status(fiber.StatusCreated).JSON(NewUserPublic(user))
}

// ListUsers handles GET /users with limit/skip pagination. An empty
// page is a 404.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	skip := c.QueryInt("skip", 0)

	users, err := s.repo.Users().ListPage(c.Context(), limit, skip)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}

	if len(users) == 0 {
		return taskforge.ErrUsersPageEmpty
	}

	return c.Status(fiber.StatusOK).JSON(NewUserListResponse(users))
}

// GetUser handles GET /users/:id.
func (s *Server) GetUser(c *fiber.Ctx) error {
	raw := c.Params("id")

	id, err := uuid.Parse(raw)
	if err != nil {
		return taskforge.NewUserNotFound(raw)
	}

	user, err := s.repo.Users().GetByID(c.Context(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return taskforge.NewUserNotFound(raw)
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to load user")
	}

	return c.Status(fiber.StatusOK).JSON(NewUserPublic(user))
}

// UpdateUser handles PUT /users/:id. The ownership check runs against
// the path id before any lookup, so a non-existent target is 403, not
// 404.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	principal, err := s.currentUser(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		// an unparseable id can never equal the principal's
		return taskforge.ErrNotResourceOwner
	}

	if err := taskforge.RequireSelf(principal, id); err != nil {
		return err
	}

	payload := new(UserRequest)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "Invalid request body").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	user, err := s.update.Execute(c.Context(), taskforge.UpdateUserMessage{
		UserID:   id,
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(NewUserPublic(user))
}

// DeleteUser handles DELETE /users/:id, guarded the same way as
// UpdateUser.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	principal, err := s.currentUser(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return taskforge.ErrNotResourceOwner
	}

	if err := taskforge.RequireSelf(principal, id); err != nil {
		return err
	}

	err = s.repo.RunInTx(c.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.repo.Users().DeleteByIDTx(ctx, tx, id); err != nil {
			if repository.IsRecordNotFound(err) {
				return taskforge.NewUserNotFound(id.String())
			}
			return errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted", "id", id.String())

	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: "User deleted successfully"})
}
