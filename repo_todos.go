package taskforge

import (
	"context"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TodoFilter narrows an owner-scoped listing. Title and Description
// match case-insensitive substrings; State matches exactly. Zero
// values mean "no filter".
type TodoFilter struct {
	Title       string
	Description string
	State       TodoState
	Limit       int
	Offset      int
}

// Todos is the todo repository. Every lookup that mutates or reads an
// individual row is scoped to the owning user id, collapsing "not
// found" and "not owned" into one outcome.
type Todos interface {
	repository.Repository[*Todo]

	GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*Todo, error)
	GetOwnedTx(ctx context.Context, tx bun.IDB, id, ownerID uuid.UUID) (*Todo, error)

	ListOwned(ctx context.Context, ownerID uuid.UUID, filter TodoFilter) ([]*Todo, error)
	ListOwnedTx(ctx context.Context, tx bun.IDB, ownerID uuid.UUID, filter TodoFilter) ([]*Todo, error)

	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
	DeleteOwnedTx(ctx context.Context, tx bun.IDB, id, ownerID uuid.UUID) error
}

type todos struct {
	repository.Repository[*Todo]
	db *bun.DB
}

var (
	_ Todos                        = (*todos)(nil)
	_ repository.Repository[*Todo] = (*todos)(nil)
)

func NewTodosRepository(db *bun.DB) Todos {
	repo := repository.NewRepository[*Todo](db, repository.ModelHandlers[*Todo]{
		NewRecord: func() *Todo { return &Todo{} },
		GetID: func(t *Todo) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Todo, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
	})

	return &todos{
		Repository: repo,
		db:         db,
	}
}

func (a *todos) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*Todo, error) {
	return a.GetOwnedTx(ctx, a.db, id, ownerID)
}

func (a *todos) GetOwnedTx(ctx context.Context, tx bun.IDB, id, ownerID uuid.UUID) (*Todo, error) {
	record := &Todo{}

	err := tx.NewSelect().Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", ownerID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id":      id.String(),
					"user_id": ownerID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *todos) ListOwned(ctx context.Context, ownerID uuid.UUID, filter TodoFilter) ([]*Todo, error) {
	return a.ListOwnedTx(ctx, a.db, ownerID, filter)
}

func (a *todos) ListOwnedTx(ctx context.Context, tx bun.IDB, ownerID uuid.UUID, filter TodoFilter) ([]*Todo, error) {
	var records []*Todo

	q := tx.NewSelect().Model(&records).
		Where("?TableAlias.user_id = ?", ownerID)

	// lower(...) LIKE keeps substring matching case-insensitive on
	// both sqlite and postgres.
	if filter.Title != "" {
		q = q.Where("lower(?TableAlias.title) LIKE ?", "%"+strings.ToLower(filter.Title)+"%")
	}
	if filter.Description != "" {
		q = q.Where("lower(?TableAlias.description) LIKE ?", "%"+strings.ToLower(filter.Description)+"%")
	}
	if filter.State != "" {
		q = q.Where("?TableAlias.state = ?", filter.State)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	err := q.
		Order("created_at ASC").
		Limit(limit).
		Offset(filter.Offset).
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *todos) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	return a.DeleteOwnedTx(ctx, a.db, id, ownerID)
}

func (a *todos) DeleteOwnedTx(ctx context.Context, tx bun.IDB, id, ownerID uuid.UUID) error {
	res, err := tx.NewDelete().Model((*Todo)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", ownerID).
		Exec(ctx)

	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id":      id.String(),
				"user_id": ownerID.String(),
			})
	}

	return nil
}
