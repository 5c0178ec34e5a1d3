package taskforge

import "github.com/google/uuid"

// RequireSelf enforces row ownership for user-resource mutations: the
// authenticated principal may only target its own id. The check runs
// against the path-supplied id before any existence lookup, so a
// non-existent target yields the same forbidden outcome as someone
// else's row.
func RequireSelf(principal *User, target uuid.UUID) error {
	if principal == nil {
		return ErrCouldNotValidate
	}
	if principal.ID != target {
		return ErrNotResourceOwner
	}
	return nil
}
