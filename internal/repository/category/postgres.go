package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/logger"
)

type postgresRepo struct {
	db  *backend.Pool
	log *logger.Logger
}

// NewPostgres returns the pooled store. A nil pool yields a store whose
// every call fails with a connection error.
func NewPostgres(db *backend.Pool, log *logger.Logger) Repository {
	if log == nil {
		log = logger.Nop()
	}
	return &postgresRepo{db: db, log: log.Named("category_store")}
}

const columns = `id, name, icon, created_at, updated_at`

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *postgresRepo) GetAll(ctx context.Context) ([]domain.Category, error) {
	result := make([]domain.Category, 0)
	err := r.db.Run(ctx, func(ctx context.Context, q backend.Querier) error {
		rows, err := q.Query(ctx, `SELECT `+columns+` FROM categories ORDER BY name ASC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCategory(rows)
			if err != nil {
				return err
			}
			result = append(result, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Category, error) {
	var out domain.Category
	err := r.db.Run(ctx, func(ctx context.Context, q backend.Querier) error {
		var err error
		out, err = scanCategory(q.QueryRow(ctx, `SELECT `+columns+` FROM categories WHERE id = $1`, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (id, name, icon)
VALUES ($1, $2, $3)
RETURNING ` + columns
	var out domain.Category
	err := r.db.Run(ctx, func(ctx context.Context, db backend.Querier) error {
		var err error
		out, err = scanCategory(db.QueryRow(ctx, q, c.ID, c.Name, c.Icon))
		return err
	})
	if backend.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: category %q", domain.ErrDuplicateKey, c.ID)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, p domain.CategoryPatch) (*domain.Category, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	if p.Name != nil {
		args = append(args, *p.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if p.Icon != nil {
		args = append(args, *p.Icon)
		sets = append(sets, fmt.Sprintf("icon = $%d", len(args)))
	}
	q := `UPDATE categories SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + columns

	var out domain.Category
	err := r.db.Run(ctx, func(ctx context.Context, db backend.Querier) error {
		var err error
		out, err = scanCategory(db.QueryRow(ctx, q, args...))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	return r.db.Run(ctx, func(ctx context.Context, q backend.Querier) error {
		tag, err := q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			r.log.Debug().Str("id", id).Msg("delete of missing category ignored")
		}
		return nil
	})
}

func (r *postgresRepo) UpsertMany(ctx context.Context, cs []domain.Category) error {
	if len(cs) == 0 {
		return nil
	}
	const q = `
INSERT INTO categories (id, name, icon)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    icon = EXCLUDED.icon,
    updated_at = NOW()`

	return r.db.Transaction(ctx, func(ctx context.Context, tx backend.Querier) error {
		batch := &pgx.Batch{}
		for _, c := range cs {
			batch.Queue(q, c.ID, c.Name, c.Icon)
		}
		br := tx.SendBatch(ctx, batch)
		for _, c := range cs {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("upsert category %q: %w", c.ID, err)
			}
		}
		return br.Close()
	})
}
