package taskforge

import (
	"fmt"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds     = "auth_invalid_credentials"
	TextCodeCredentialsCheck = "auth_could_not_validate"
	TextCodeEmptyPassword    = "auth_empty_password"
	TextCodeNotOwner         = "auth_not_resource_owner"
	TextCodeInvalidClaims    = "auth_invalid_claims"
	TextCodeUsernameTaken    = "users_username_taken"
	TextCodeEmailTaken       = "users_email_taken"
	TextCodeUserNotFound     = "users_not_found"
	TextCodeUsersPageEmpty   = "users_page_empty"
	TextCodeTodoNotFound     = "todos_not_found"
)

// ErrIncorrectCredentials is returned by the login flow for a bad
// username/password pair. The message is deliberately ambiguous.
var ErrIncorrectCredentials = errors.New("Incorrect username or password.", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrCouldNotValidate is the single error every protected-route
// failure collapses into: bad signature, malformed token, expired
// token, missing subject, or a user deleted after issuance.
var ErrCouldNotValidate = errors.New("Could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeCredentialsCheck).
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is returned when a cleartext password
// does not match its stored hash.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrInvalidClaims rejects token issuing with an empty claim set.
var ErrInvalidClaims = errors.New("token claims must not be empty", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidClaims).
	WithCode(errors.CodeBadRequest)

// ErrNotResourceOwner is returned when an authenticated principal
// targets a user id other than its own, before any existence check.
var ErrNotResourceOwner = errors.New("You do not have permission to update this user.", errors.CategoryAuthz).
	WithTextCode(TextCodeNotOwner).
	WithCode(errors.CodeForbidden)

// ErrUsernameTaken reports a username collision. Duplicates surface on
// the wire as 400, not 409.
var ErrUsernameTaken = errors.New("Username already exists.", errors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeBadRequest)

// ErrEmailTaken reports an email collision. Only reported when the
// username does not also collide.
var ErrEmailTaken = errors.New("Email already exists.", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeBadRequest)

// ErrUsersPageEmpty is returned when a paginated user listing matches
// no rows at all.
var ErrUsersPageEmpty = errors.New("Not Found.", errors.CategoryNotFound).
	WithTextCode(TextCodeUsersPageEmpty).
	WithCode(errors.CodeNotFound)

// ErrTodoNotFound covers both a missing todo and a todo owned by
// someone else; the lookup is owner-scoped so the two are one outcome.
var ErrTodoNotFound = errors.New("Todo not found or not owned by user", errors.CategoryNotFound).
	WithTextCode(TextCodeTodoNotFound).
	WithCode(errors.CodeNotFound)

// NewUserNotFound builds the not-found error for a user id.
func NewUserNotFound(id string) *errors.Error {
	return errors.New(fmt.Sprintf("User with ID %s not found.", id), errors.CategoryNotFound).
		WithTextCode(TextCodeUserNotFound).
		WithCode(errors.CodeNotFound).
		WithMetadata(map[string]any{"id": id})
}
