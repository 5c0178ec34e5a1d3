package rest

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/taskforge/taskforge"
)

// MessageResponse is the plain {"message": ...} envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is the login/refresh payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserRequest is the create/update payload for a user. All three
// fields are required; updates are full rewrites.
type UserRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (r UserRequest) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Username, validation.Required),
			validation.Field(&r.Email, validation.Required, is.Email),
			validation.Field(&r.Password, validation.Required),
		)
	}, "Invalid user payload")
}

// UserPublic is the serialized user view. The password hash is never
// part of any response.
type UserPublic struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

func NewUserPublic(user *taskforge.User) UserPublic {
	return UserPublic{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

type UserListResponse struct {
	Users []UserPublic `json:"users"`
}

func NewUserListResponse(users []*taskforge.User) UserListResponse {
	out := UserListResponse{Users: make([]UserPublic, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, NewUserPublic(u))
	}
	return out
}

// TodoCreateRequest is the create payload for a todo item.
type TodoCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	State       string `json:"state"`
}

func (r TodoCreateRequest) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Title, validation.Required),
			validation.Field(&r.State, validation.Required, validation.In(todoStateValues()...)),
		)
	}, "Invalid todo payload")
}

// TodoUpdateRequest is the partial-update payload. Nil fields are
// left untouched.
type TodoUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	State       *string `json:"state"`
}

func (r TodoUpdateRequest) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		// nil fields are skipped; only a provided state is checked.
		return validation.ValidateStruct(&r,
			validation.Field(&r.State, validation.In(todoStateValues()...)),
		)
	}, "Invalid todo payload")
}

func todoStateValues() []any {
	values := make([]any, 0, len(taskforge.TodoStates))
	for _, s := range taskforge.TodoStates {
		values = append(values, s)
	}
	return values
}

// TodoPublic is the serialized todo view, timestamps included.
type TodoPublic struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	State       string     `json:"state"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func NewTodoPublic(todo *taskforge.Todo) TodoPublic {
	return TodoPublic{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		State:       todo.State,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

type TodoListResponse struct {
	Todos []TodoPublic `json:"todos"`
}

func NewTodoListResponse(todos []*taskforge.Todo) TodoListResponse {
	out := TodoListResponse{Todos: make([]TodoPublic, 0, len(todos))}
	for _, t := range todos {
		out.Todos = append(out.Todos, NewTodoPublic(t))
	}
	return out
}
