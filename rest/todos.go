package rest

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/taskforge/taskforge"
)

// CreateTodo handles POST /todos. The new item is owned by the
// authenticated principal.
func (s *Server) CreateTodo(c *fiber.Ctx) error {
	principal, err := s.currentUser(c)
	if err != nil {
		return err
	}

	payload := new(TodoCreateRequest)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "Invalid request body").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	todo := &taskforge.Todo{
		Title:       payload.Title,
		Description: payload.Description,
		State:       payload.State,
		UserID:      principal.ID,
	}

	err = s.repo.RunInTx(c.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := s.repo.Todos().CreateTx(ctx, tx, todo)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to create todo")
		}
		todo = created
		return nil
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(NewTodoPublic(todo))
}

// ListTodos handles GET /todos. Filters are optional query params;
// an empty result is a 200 with an empty list.
func (s *Server) ListTodos(c *fiber.Ctx) error {
	principal, err := s.currentUser(c)
	if err != nil {
		return err
	}

	filter := taskforge.TodoFilter{
		Title:       c.Query("title"),
		Description: c.Query("description"),
		State:       c.Query("state"),
		Limit:       c.QueryInt("limit", 10),
		Offset:      c.QueryInt("offset", 0),
	}

	if filter.State != "" && !taskforge.IsValidTodoState(filter.State) {
		return errors.New("Invalid todo state", errors.CategoryValidation).
			WithMetadata(map[string]any{"state": filter.State})
	}

	records, err := s.repo.Todos().ListOwned(c.Context(), principal.ID, filter)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to list todos")
	}

	return c.Status(fiber.StatusOK).JSON(NewTodoListResponse(records))
}

// UpdateTodo handles PATCH /todos/:id. Only provided fields change;
// the lookup is owner scoped, so another user's todo reads as absent.
func (s *Server) UpdateTodo(c *fiber.Ctx) error {
	principal, err := s.currentUser(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return taskforge.ErrTodoNotFound
	}

	payload := new(TodoUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "Invalid request body").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	var todo *taskforge.Todo

	err = s.repo.RunInTx(c.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.repo.Todos().GetOwnedTx(ctx, tx, id, principal.ID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return taskforge.ErrTodoNotFound
			}
			return errors.Wrap(err, errors.CategoryInternal, "failed to load todo")
		}

		if payload.Title != nil {
			record.Title = *payload.Title
		}
		if payload.Description != nil {
			record.Description = *payload.Description
		}
		if payload.State != nil {
			record.State = *payload.State
		}

		now := time.Now().UTC()
		record.UpdatedAt = &now

		updated, err := s.repo.Todos().UpdateTx(ctx, tx, record,
			repository.UpdateByID(record.ID.String()),
		)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return taskforge.ErrTodoNotFound
			}
			return errors.Wrap(err, errors.CategoryInternal, "failed to update todo")
		}

		todo = updated
		return nil
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(NewTodoPublic(todo))
}

// DeleteTodo handles DELETE /todos/:id and answers 204 on success.
func (s *Server) DeleteTodo(c *fiber.Ctx) error {
	principal, err := s.currentUser(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return taskforge.ErrTodoNotFound
	}

	err = s.repo.RunInTx(c.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.repo.Todos().DeleteOwnedTx(ctx, tx, id, principal.ID); err != nil {
			if repository.IsRecordNotFound(err) {
				return taskforge.ErrTodoNotFound
			}
			return errors.Wrap(err, errors.CategoryInternal, "failed to delete todo")
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
