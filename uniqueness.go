package taskforge

import (
	"context"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// EnsureUniqueCredentials checks a candidate username/email pair
// against existing rows before an insert. When a row collides on both
// fields the username message wins. The check races with concurrent
// creates; the unique constraints on the table are the backstop.
func EnsureUniqueCredentials(ctx context.Context, users Users, username, email string) error {
	return EnsureUniqueCredentialsTx(ctx, nil, users, username, email)
}

// EnsureUniqueCredentialsTx is EnsureUniqueCredentials inside an open
// transaction.
func EnsureUniqueCredentialsTx(ctx context.Context, tx bun.IDB, users Users, username, email string) error {
	var existing *User
	var err error

	if tx != nil {
		existing, err = users.FindByUsernameOrEmailTx(ctx, tx, username, email)
	} else {
		existing, err = users.FindByUsernameOrEmail(ctx, username, email)
	}

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil
		}
		return errors.Wrap(err, errors.CategoryInternal, "uniqueness lookup failed")
	}

	if existing.Username == username {
		return ErrUsernameTaken
	}

	return ErrEmailTaken
}
