package taskforge

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the user repository.
type Users interface {
	repository.Repository[*User]

	GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string, criteria ...repository.SelectCriteria) (*User, error)

	FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	FindByUsernameOrEmailTx(ctx context.Context, tx bun.IDB, username, email string) (*User, error)

	ListPage(ctx context.Context, limit, offset int) ([]*User, error)
	ListPageTx(ctx context.Context, tx bun.IDB, limit, offset int) ([]*User, error)

	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username, criteria...)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string, criteria ...repository.SelectCriteria) (*User, error) {
	record := &User{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.username = ?", username).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"username": username,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error) {
	return a.FindByUsernameOrEmailTx(ctx, a.db, username, email)
}

// FindByUsernameOrEmailTx returns the first row colliding with either
// identifier. Used by the uniqueness check ahead of inserts.
func (a *users) FindByUsernameOrEmailTx(ctx context.Context, tx bun.IDB, username, email string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().Model(record).
		Where("?TableAlias.username = ? OR ?TableAlias.email = ?", username, email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"username": username,
					"email":    email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) ListPage(ctx context.Context, limit, offset int) ([]*User, error) {
	return a.ListPageTx(ctx, a.db, limit, offset)
}

func (a *users) ListPageTx(ctx context.Context, tx bun.IDB, limit, offset int) ([]*User, error) {
	var records []*User

	err := tx.NewSelect().Model(&records).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *users) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return a.DeleteByIDTx(ctx, a.db, id)
}

func (a *users) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewDelete().Model((*User)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}
