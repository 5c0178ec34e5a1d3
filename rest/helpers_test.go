package rest_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"

	"github.com/taskforge/taskforge"
	"github.com/taskforge/taskforge/config"
	"github.com/taskforge/taskforge/migrations"
	"github.com/taskforge/taskforge/rest"
)

var dbSequence int

type testEnv struct {
	app    *fiber.App
	repo   taskforge.RepositoryManager
	tokens taskforge.TokenService
}

func setupEnv(t *testing.T) *testEnv {
	return setupEnvExpiry(t, 30*time.Minute)
}

// setupEnvExpiry wires a full server against a fresh in-memory
// database. The expiry knob lets tests mint short-lived tokens.
func setupEnvExpiry(t *testing.T, expiry time.Duration) *testEnv {
	t.Helper()

	dbSequence++
	dsn := fmt.Sprintf("file:rest_test_%d?mode=memory&cache=shared", dbSequence)

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.RegisterModel((*taskforge.User)(nil), (*taskforge.Todo)(nil))

	ctx := context.Background()
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))

	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	repo := taskforge.NewRepositoryManager(db)
	tokens := taskforge.NewTokenService([]byte("test-signing-key"), expiry, "", nil)

	cfg := config.Auth{
		ContextKey: "current_user",
		AuthScheme: "Bearer",
	}

	srv := rest.NewServer(cfg, repo, tokens)

	return &testEnv{
		app:    srv.App(),
		repo:   repo,
		tokens: tokens,
	}
}

// request fires a JSON request through the fiber test harness. A
// non-empty token becomes a bearer Authorization header.
func (e *testEnv) request(t *testing.T, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)

	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	res, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	return res, raw
}

// login posts the form-encoded credential pair and returns the raw
// response.
func (e *testEnv) login(t *testing.T, username, password string) (*http.Response, []byte) {
	t.Helper()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequest(fiber.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	res, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	return res, raw
}

// mustLogin returns a working bearer token for the given credentials.
func (e *testEnv) mustLogin(t *testing.T, username, password string) string {
	t.Helper()

	res, raw := e.login(t, username, password)
	require.Equal(t, fiber.StatusOK, res.StatusCode, "login failed: %s", raw)

	var body rest.TokenResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotEmpty(t, body.AccessToken)

	return body.AccessToken
}

func (e *testEnv) mustCreateUser(t *testing.T, username, email, password string) rest.UserPublic {
	t.Helper()

	res, raw := e.request(t, fiber.MethodPost, "/users", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, fiber.StatusCreated, res.StatusCode, "create user failed: %s", raw)

	var user rest.UserPublic
	require.NoError(t, json.Unmarshal(raw, &user))

	return user
}

func (e *testEnv) mustCreateTodo(t *testing.T, token, title, description, state string) rest.TodoPublic {
	t.Helper()

	res, raw := e.request(t, fiber.MethodPost, "/todos/", token, map[string]string{
		"title":       title,
		"description": description,
		"state":       state,
	})
	require.Equal(t, fiber.StatusCreated, res.StatusCode, "create todo failed: %s", raw)

	var todo rest.TodoPublic
	require.NoError(t, json.Unmarshal(raw, &todo))

	return todo
}

// detail pulls the "detail" field from an error response body.
func detail(t *testing.T, raw []byte) string {
	t.Helper()

	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))

	return body.Detail
}
