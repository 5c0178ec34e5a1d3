package taskforge_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"

	"github.com/taskforge/taskforge"
	"github.com/taskforge/taskforge/migrations"
)

var dbSequence int

// setupDB opens a fresh in-memory sqlite database and runs the
// migrations against it. Each call gets its own database.
func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	dbSequence++
	dsn := fmt.Sprintf("file:test_%d?mode=memory&cache=shared", dbSequence)

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

	return db
}

func mustCreateUser(t *testing.T, repo taskforge.RepositoryManager, username, email, password string) *taskforge.User {
	t.Helper()

	handler := taskforge.NewRegisterUserHandler(repo)
	user, err := handler.Execute(context.Background(), taskforge.RegisterUserMessage{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	return user
}

func mustCreateTodo(t *testing.T, repo taskforge.RepositoryManager, owner *taskforge.User, title, description, state string) *taskforge.Todo {
	t.Helper()

	ctx := context.Background()
	todo, err := repo.Todos().Create(ctx, &taskforge.Todo{
		Title:       title,
		Description: description,
		State:       state,
		UserID:      owner.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, todo)

	return todo
}
