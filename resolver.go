package taskforge

import (
	"context"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// PrincipalResolver maps a raw bearer token to the user record acting
// as the request's authenticated principal.
type PrincipalResolver struct {
	tokens TokenService
	users  Users
	logger Logger
}

// NewPrincipalResolver returns a resolver backed by the given token
// service and user store.
func NewPrincipalResolver(tokens TokenService, users Users) *PrincipalResolver {
	return &PrincipalResolver{
		tokens: tokens,
		users:  users,
		logger: defLogger{},
	}
}

func (r *PrincipalResolver) WithLogger(logger Logger) *PrincipalResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Resolve validates the token and loads the user named by its subject.
// A bad token and a user deleted after issuance surface identically:
// callers only ever see ErrCouldNotValidate.
func (r *PrincipalResolver) Resolve(ctx context.Context, rawToken string) (*User, error) {
	claims, err := r.tokens.Validate(rawToken)
	if err != nil {
		return nil, ErrCouldNotValidate
	}

	subject := claims.Subject()
	if subject == "" {
		r.logger.Debug("Resolve rejected token with empty subject")
		return nil, ErrCouldNotValidate
	}

	user, err := r.users.GetByUsername(ctx, subject)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			r.logger.Debug("Resolve found no user for subject", "subject", subject)
			return nil, ErrCouldNotValidate
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load principal")
	}

	return user, nil
}
