package taskforge

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TodoState is the lifecycle label of a todo item. The set is an
// unordered enumeration; any state may be set to any other.
type TodoState = string

const (
	TodoStateDraft TodoState = "draft"
	TodoStateTodo  TodoState = "todo"
	TodoStateDoing TodoState = "doing"
	TodoStateDone  TodoState = "done"
	TodoStateTrash TodoState = "trash"
)

// TodoStates lists every valid state, in declaration order.
var TodoStates = []TodoState{
	TodoStateDraft,
	TodoStateTodo,
	TodoStateDoing,
	TodoStateDone,
	TodoStateTrash,
}

// IsValidTodoState reports membership; validity is membership-only.
func IsValidTodoState(s string) bool {
	for _, state := range TodoStates {
		if s == state {
			return true
		}
	}
	return false
}

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Todo is the todo item model. Every todo belongs to exactly one user.
type Todo struct {
	bun.BaseModel `bun:"table:todos,alias:todo"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title"`
	Description   string     `bun:"description,notnull" json:"description"`
	State         TodoState  `bun:"state,notnull" json:"state"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
