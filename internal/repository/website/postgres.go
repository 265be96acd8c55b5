package website

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

func NewPostgres(db *backend.Pool, log *logger.Logger) Repository {
	if log == nil {
		log = logger.Nop()
	}
	return &postgresRepo{db: db, log: log.Named("website_store")}
}

const columns = `id, name, url, description, category, COALESCE(icon, ''), COALESCE(color, ''), created_at, updated_at`

func scanWebsite(row pgx.Row) (domain.Website, error) {
	var w domain.Website
	err := row.Scan(&w.ID, &w.Name, &w.URL, &w.Description, &w.Category, &w.Icon, &w.Color, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (r *postgresRepo) GetAll(ctx context.Context) ([]domain.Website, error) {
	result := make([]domain.Website, 0)
	err := r.db.Run(ctx, func(ctx context.Context, q backend.Querier) error {
		rows, err := q.Query(ctx, `SELECT `+columns+` FROM websites ORDER BY name ASC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			w, err := scanWebsite(rows)
			if err != nil {
				return err
			}
			result = append(result, w)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Website, error) {
	var out domain.Website
	err := r.db.Run(ctx, func(ctx context.Context, q backend.Querier) error {
		var err error
		out, err = scanWebsite(q.QueryRow(ctx, `SELECT `+columns+` FROM websites WHERE id = $1`, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Create(ctx context.Context, w domain.Website) (*domain.Website, error) {
	const q = `
INSERT INTO websites (id, name, url, description, category, icon, color)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
RETURNING ` + columns
	var out domain.Website
	err := r.db.Run(ctx, func(ctx context.Context, db backend.Querier) error {
		var err error
		out, err = scanWebsite(db.QueryRow(ctx, q, w.ID, w.Name, w.URL, w.Description, w.Category, w.Icon, w.Color))
		return err
	})
	if backend.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: website %q", domain.ErrDuplicateKey, w.ID)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, p domain.WebsitePatch) (*domain.Website, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	set := func(column string, v *string, nullable bool) {
		if v == nil {
			return
		}
		args = append(args, *v)
		if nullable {
			sets = append(sets, fmt.Sprintf("%s = NULLIF($%d, '')", column, len(args)))
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	set("name", p.Name, false)
	set("url", p.URL, false)
	set("description", p.Description, false)
	set("category", p.Category, false)
	set("icon", p.Icon, true)
	set("color", p.Color, true)
	q := `UPDATE websites SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + columns

	var out domain.Website
	err := r.db.Run(ctx, func(ctx context.Context, db backend.Querier) error {
		var err error
		out, err = scanWebsite(db.QueryRow(ctx, q, args...))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	return r.db.Run(ctx, func(ctx context.Context, q backend.Querier) error {
		tag, err := q.Exec(ctx, `DELETE FROM websites WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			r.log.Debug().Str("id", id).Msg("delete of missing website ignored")
		}
		return nil
	})
}

// UpsertMany overwrites every column of existing rows, clearing icon and
// color when the incoming record omits them.
func (r *postgresRepo) UpsertMany(ctx context.Context, ws []domain.Website) error {
	if len(ws) == 0 {
		return nil
	}
	const q = `
INSERT INTO websites (id, name, url, description, category, icon, color)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    url = EXCLUDED.url,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    icon = EXCLUDED.icon,
    color = EXCLUDED.color,
    updated_at = NOW()`

	return r.db.Transaction(ctx, func(ctx context.Context, tx backend.Querier) error {
		batch := &pgx.Batch{}
		for _, w := range ws {
			batch.Queue(q, w.ID, w.Name, w.URL, w.Description, w.Category, w.Icon, w.Color)
		}
		br := tx.SendBatch(ctx, batch)
		for _, w := range ws {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("upsert website %q: %w", w.ID, err)
			}
		}
		return br.Close()
	})
}
