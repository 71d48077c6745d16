package promo

import (
	"context"
	"errors"
	"io"
	"log"

	"freshmarket/internal/domain"
	"freshmarket/internal/pricing"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*Record, error) {
	const q = `
SELECT code, kind, value, active, created_at
FROM promo_codes
WHERE code = $1
`
	var rec Record
	var kind string
	err := r.pool.QueryRow(ctx, q, code).Scan(&rec.Code, &kind, &rec.Value, &rec.Active, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("promo repo: get code=%s error=%v", code, err)
		return nil, err
	}
	rec.Kind = pricing.RuleKind(kind)
	return &rec, nil
}

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]Record, error) {
	q := `SELECT code, kind, value, active, created_at FROM promo_codes ORDER BY code`
	if activeOnly {
		q = `SELECT code, kind, value, active, created_at FROM promo_codes WHERE active ORDER BY code`
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("promo repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var rec Record
		var kind string
		if err := rows.Scan(&rec.Code, &kind, &rec.Value, &rec.Active, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Kind = pricing.RuleKind(kind)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, rec Record) error {
	const q = `
INSERT INTO promo_codes (code, kind, value, active)
VALUES ($1, $2, $3, $4)
ON CONFLICT (code) DO UPDATE SET
    kind = EXCLUDED.kind,
    value = EXCLUDED.value,
    active = EXCLUDED.active
`
	if _, err := r.pool.Exec(ctx, q, rec.Code, string(rec.Kind), rec.Value, rec.Active); err != nil {
		r.logger.Printf("promo repo: upsert code=%s error=%v", rec.Code, err)
		return err
	}
	return nil
}
