package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/taskforge/taskforge"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().
			Model((*taskforge.User)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateTable().
			Model((*taskforge.Todo)(nil)).
			IfNotExists().
			ForeignKey(`("user_id") REFERENCES "users" ("id")`).
			Exec(ctx); err != nil {
			return err
		}

		// Owner-scoped listings always filter on user_id.
		if _, err := db.NewCreateIndex().
			Model((*taskforge.Todo)(nil)).
			Index("idx_todos_user_id").
			IfNotExists().
			Column("user_id").
			Exec(ctx); err != nil {
			return err
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewDropTable().
			Model((*taskforge.Todo)(nil)).
			IfExists().
			Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewDropTable().
			Model((*taskforge.User)(nil)).
			IfExists().
			Exec(ctx); err != nil {
			return err
		}

		return nil
	})
}
