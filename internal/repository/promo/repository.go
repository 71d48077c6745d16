package promo

import (
	"context"
	"time"

	"freshmarket/internal/pricing"
)

// Record is a promo code as stored in the catalog table.
type Record struct {
	Code      string           `json:"code"`
	Kind      pricing.RuleKind `json:"kind"`
	Value     int64            `json:"value"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"createdAt"`
}

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Record, error)
	List(ctx context.Context, activeOnly bool) ([]Record, error)
	Upsert(ctx context.Context, rec Record) error
}
