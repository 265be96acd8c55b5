package setting

import (
	"context"
	"fmt"

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
	return &postgresRepo{db: db, log: log.Named("settings_store")}
}

const columns = `key, value, created_at, updated_at`

func scanSetting(row pgx.Row) (domain.Setting, error) {
	var s domain.Setting
	err := row.Scan(&s.Key, &s.Value, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *postgresRepo) GetAll(ctx context.Context) ([]domain.Setting, error) {
	result := make([]domain.Setting, 0)
	err := r.db.Run(ctx, func(ctx context.Context, q backend.Querier) error {
		rows, err := q.Query(ctx, `SELECT `+columns+` FROM settings ORDER BY key ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			s, err := scanSetting(rows)
			if err != nil {
				return err
			}
			result = append(result, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, key, value string) (*domain.Setting, error) {
	var out domain.Setting
	err := r.db.Run(ctx, func(ctx context.Context, q backend.Querier) error {
		var err error
		out, err = scanSetting(q.QueryRow(ctx, `INSERT INTO settings (key, value) VALUES ($1, $2) RETURNING `+columns, key, value))
		return err
	})
	if backend.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: setting %q", domain.ErrDuplicateKey, key)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Update(ctx context.Context, key, value string) (*domain.Setting, error) {
	var out domain.Setting
	err := r.db.Run(ctx, func(ctx context.Context, q backend.Querier) error {
		var err error
		out, err = scanSetting(q.QueryRow(ctx,
			`UPDATE settings SET value = $2, updated_at = NOW() WHERE key = $1 RETURNING `+columns, key, value))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) GetMultiple(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	err := r.db.Run(ctx, func(ctx context.Context, q backend.Querier) error {
		rows, err := q.Query(ctx, `SELECT key, value FROM settings WHERE key = ANY($1)`, keys)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var k, v string
			if err := rows.Scan(&k, &v); err != nil {
				return err
			}
			out[k] = v
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) SetMultiple(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	const q = `
INSERT INTO settings (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = NOW()`

	keys := sortedKeys(values)
	return r.db.Transaction(ctx, func(ctx context.Context, tx backend.Querier) error {
		batch := &pgx.Batch{}
		for _, k := range keys {
			batch.Queue(q, k, values[k])
		}
		br := tx.SendBatch(ctx, batch)
		for _, k := range keys {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("upsert setting %q: %w", k, err)
			}
		}
		return br.Close()
	})
}
