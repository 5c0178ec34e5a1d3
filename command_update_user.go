package taskforge

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UpdateUserMessage is a full rewrite of the principal's own row:
// username, email, and password are all replaced. No uniqueness
// re-check runs here; the caller only ever rewrites its own record.
type UpdateUserMessage struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
}

func (e UpdateUserMessage) Type() string { return "user.update" }

type UpdateUserHandler struct {
	repo RepositoryManager
}

func NewUpdateUserHandler(repo RepositoryManager) *UpdateUserHandler {
	return &UpdateUserHandler{repo: repo}
}

func (h *UpdateUserHandler) Execute(ctx context.Context, event UpdateUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdateUserHandler) execute(ctx context.Context, event UpdateUserMessage) (*User, error) {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		now := time.Now()
		record := &User{
			ID:           event.UserID,
			Username:     event.Username,
			Email:        event.Email,
			PasswordHash: hash,
			UpdatedAt:    &now,
		}

		user, err = h.repo.Users().UpdateTx(ctx, tx, record, repository.UpdateByID(event.UserID.String()))
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return NewUserNotFound(event.UserID.String())
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not update user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user update transaction failed")
	}

	return user, nil
}
