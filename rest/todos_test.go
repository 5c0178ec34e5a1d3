package rest_test

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge/rest"
)

func TestCreateTodo(t *testing.T) {
	env := setupEnv(t)
	env.mustCreateUser(t, "alice", "alice@example.com", "secret-password")
	token := env.mustLogin(t, "alice", "secret-password")

	t.Run("requires a token", func(t *testing.T) {
		res, _ := env.request(t, fiber.MethodPost, "/todos/", "", map[string]string{
			"title": "Buy milk",
			"state": "todo",
		})
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("creates a todo for the principal", func(t *testing.T) {
		res, raw := env.request(t, fiber.MethodPost, "/todos/", token, map[string]string{
			"title":       "Buy milk",
			"description": "two liters",
			"state":       "todo",
		})
		require.Equal(t, fiber.StatusCreated, res.StatusCode, "body: %s", raw)

		var todo rest.TodoPublic
		require.NoError(t, json.Unmarshal(raw, &todo))
		assert.NotEqual(t, uuid.Nil, todo.ID)
		assert.Equal(t, "Buy milk", todo.Title)
		assert.Equal(t, "two liters", todo.Description)
		assert.Equal(t, "todo", todo.State)
	})

	t.Run("rejects an unknown state", func(t *testing.T) {
		res, _ := env.request(t, fiber.MethodPost, "/todos/", token, map[string]string{
			"title": "Buy milk",
			"state": "archived",
		})
		assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)
	})

	t.Run("rejects a missing title", func(t *testing.T) {
		res, _ := env.request(t, fiber.MethodPost, "/todos/", token, map[string]string{
			"state": "todo",
		})
		assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)
	})
}

func TestListTodos(t *testing.T) {
	env := setupEnv(t)
	env.mustCreateUser(t, "alice", "alice@example.com", "secret-password")
	env.mustCreateUser(t, "bob", "bob@example.com", "secret-password")
	aliceToken := env.mustLogin(t, "alice", "secret-password")
	bobToken := env.mustLogin(t, "bob", "secret-password")

	env.mustCreateTodo(t, aliceToken, "Write report", "quarterly numbers", "doing")
	env.mustCreateTodo(t, aliceToken, "Review report", "numbers again", "done")
	env.mustCreateTodo(t, aliceToken, "Plan offsite", "pick a venue", "todo")
	env.mustCreateTodo(t, bobToken, "Write novel", "chapter one", "doing")

	listTodos := func(t *testing.T, token, query string) rest.TodoListResponse {
		t.Helper()
		res, raw := env.request(t, fiber.MethodGet, "/todos/"+query, token, nil)
		require.Equal(t, fiber.StatusOK, res.StatusCode, "body: %s", raw)

		var body rest.TodoListResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		return body
	}

	t.Run("lists only the principal's todos", func(t *testing.T) {
		body := listTodos(t, aliceToken, "")
		assert.Len(t, body.Todos, 3)

		body = listTodos(t, bobToken, "")
		assert.Len(t, body.Todos, 1)
	})

	t.Run("filters by state", func(t *testing.T) {
		body := listTodos(t, aliceToken, "?state=done")
		require.Len(t, body.Todos, 1)
		assert.Equal(t, "Review report", body.Todos[0].Title)
	})

	t.Run("filters by title substring", func(t *testing.T) {
		body := listTodos(t, aliceToken, "?title=REPORT")
		assert.Len(t, body.Todos, 2)
	})

	t.Run("filters by description substring", func(t *testing.T) {
		body := listTodos(t, aliceToken, "?description=venue")
		require.Len(t, body.Todos, 1)
		assert.Equal(t, "Plan offsite", body.Todos[0].Title)
	})

	t.Run("pages with limit and offset", func(t *testing.T) {
		body := listTodos(t, aliceToken, "?limit=2")
		assert.Len(t, body.Todos, 2)

		body = listTodos(t, aliceToken, "?limit=2&offset=2")
		assert.Len(t, body.Todos, 1)
	})

	t.Run("no matches is an empty list, not an error", func(t *testing.T) {
		body := listTodos(t, aliceToken, "?title=no-such-title")
		assert.Empty(t, body.Todos)
	})

	t.Run("unknown state filter is rejected like the body enum", func(t *testing.T) {
		res, _ := env.request(t, fiber.MethodGet, "/todos/?state=archived", aliceToken, nil)
		assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)

		res, _ = env.request(t, fiber.MethodPost, "/todos/", aliceToken, map[string]string{
			"title": "Sort the backlog",
			"state": "archived",
		})
		assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)
	})
}

func TestUpdateTodo(t *testing.T) {
	env := setupEnv(t)
	env.mustCreateUser(t, "alice", "alice@example.com", "secret-password")
	env.mustCreateUser(t, "bob", "bob@example.com", "secret-password")
	aliceToken := env.mustLogin(t, "alice", "secret-password")
	bobToken := env.mustLogin(t, "bob", "secret-password")

	todo := env.mustCreateTodo(t, aliceToken, "Ship release", "cut the tag", "doing")

	t.Run("patches only the provided fields", func(t *testing.T) {
		res, raw := env.request(t, fiber.MethodPatch, "/todos/"+todo.ID.String(), aliceToken, map[string]string{
			"state": "done",
		})
		require.Equal(t, fiber.StatusOK, res.StatusCode, "body: %s", raw)

		var updated rest.TodoPublic
		require.NoError(t, json.Unmarshal(raw, &updated))
		assert.Equal(t, "done", updated.State)
		assert.Equal(t, "Ship release", updated.Title)
		assert.Equal(t, "cut the tag", updated.Description)
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		res, raw := env.request(t, fiber.MethodPatch, "/todos/"+todo.ID.String(), aliceToken, map[string]string{})
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		var updated rest.TodoPublic
		require.NoError(t, json.Unmarshal(raw, &updated))
		assert.Equal(t, "Ship release", updated.Title)
	})

	t.Run("rejects an unknown state", func(t *testing.T) {
		res, _ := env.request(t, fiber.MethodPatch, "/todos/"+todo.ID.String(), aliceToken, map[string]string{
			"state": "archived",
		})
		assert.Equal(t, fiber.StatusUnprocessableEntity, res.StatusCode)
	})

	t.Run("someone else's todo reads as missing", func(t *testing.T) {
		res, raw := env.request(t, fiber.MethodPatch, "/todos/"+todo.ID.String(), bobToken, map[string]string{
			"state": "trash",
		})
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
		assert.Equal(t, "Todo not found or not owned by user", detail(t, raw))
	})

	t.Run("unknown id is missing", func(t *testing.T) {
		res, _ := env.request(t, fiber.MethodPatch, "/todos/"+uuid.NewString(), aliceToken, map[string]string{
			"state": "done",
		})
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	})

	t.Run("malformed id is missing", func(t *testing.T) {
		res, _ := env.request(t, fiber.MethodPatch, "/todos/not-a-uuid", aliceToken, map[string]string{
			"state": "done",
		})
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	})
}

func TestDeleteTodo(t *testing.T) {
	env := setupEnv(t)
	env.mustCreateUser(t, "alice", "alice@example.com", "secret-password")
	env.mustCreateUser(t, "bob", "bob@example.com", "secret-password")
	aliceToken := env.mustLogin(t, "alice", "secret-password")
	bobToken := env.mustLogin(t, "bob", "secret-password")

	todo := env.mustCreateTodo(t, aliceToken, "Buy milk", "", "todo")

	t.Run("someone else's todo reads as missing", func(t *testing.T) {
		res, raw := env.request(t, fiber.MethodDelete, "/todos/"+todo.ID.String(), bobToken, nil)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
		assert.Equal(t, "Todo not found or not owned by user", detail(t, raw))
	})

	t.Run("owner deletes with no content", func(t *testing.T) {
		res, _ := env.request(t, fiber.MethodDelete, "/todos/"+todo.ID.String(), aliceToken, nil)
		assert.Equal(t, fiber.StatusNoContent, res.StatusCode)
	})

	t.Run("deleting again is missing", func(t *testing.T) {
		res, _ := env.request(t, fiber.MethodDelete, "/todos/"+todo.ID.String(), aliceToken, nil)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	})
}
