package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"freshmarket/internal/domain"
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

const orderColumns = `
id::text, customer_name, phone, email, address, COALESCE(landmark, ''), city, state, pincode,
slot_id, payment_method_id, COALESCE(promo_code, ''), items,
subtotal, delivery_fee, slot_fee, payment_fee, taxes, discount, total, status, created_at`

func (r *postgresRepo) Insert(ctx context.Context, o domain.Order) (*domain.Order, error) {
	const q = `
INSERT INTO orders (customer_name, phone, email, address, landmark, city, state, pincode,
                    slot_id, payment_method_id, promo_code, items,
                    subtotal, delivery_fee, slot_fee, payment_fee, taxes, discount, total, status)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, NULLIF($11, ''), $12,
        $13, $14, $15, $16, $17, $18, $19, $20)
RETURNING id::text, created_at
`
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}
	if o.Status == "" {
		o.Status = domain.OrderPlaced
	}
	err = r.pool.QueryRow(ctx, q,
		o.Address.Name, o.Address.Phone, o.Address.Email, o.Address.Address, o.Address.Landmark,
		o.Address.City, o.Address.State, o.Address.Pincode,
		o.SlotID, o.PaymentMethodID, o.PromoCode, items,
		o.Pricing.Subtotal, o.Pricing.DeliveryFee, o.Pricing.SlotFee, o.Pricing.PaymentFee,
		o.Pricing.Taxes, o.Pricing.Discount, o.Pricing.Total, o.Status,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		r.logger.Printf("order repo: insert error=%v", err)
		return nil, err
	}
	r.logger.Printf("order repo: inserted id=%s total=%d", o.ID, o.Pricing.Total)
	return &o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	row := r.pool.QueryRow(ctx, q, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) List(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("order repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	const q = `UPDATE orders SET status = $1 WHERE id = $2`
	tag, err := r.pool.Exec(ctx, q, status, id)
	if err != nil {
		r.logger.Printf("order repo: set status id=%s error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o     domain.Order
		items []byte
	)
	if err := row.Scan(
		&o.ID, &o.Address.Name, &o.Address.Phone, &o.Address.Email, &o.Address.Address,
		&o.Address.Landmark, &o.Address.City, &o.Address.State, &o.Address.Pincode,
		&o.SlotID, &o.PaymentMethodID, &o.PromoCode, &items,
		&o.Pricing.Subtotal, &o.Pricing.DeliveryFee, &o.Pricing.SlotFee, &o.Pricing.PaymentFee,
		&o.Pricing.Taxes, &o.Pricing.Discount, &o.Pricing.Total, &o.Status, &o.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items for order %s: %w", o.ID, err)
		}
	}
	return &o, nil
}
