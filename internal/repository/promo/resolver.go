package promo

import (
	"context"
	"errors"

	"freshmarket/internal/domain"
	"freshmarket/internal/pricing"
)

// Resolver adapts the promo repository to pricing.Resolver so the checkout
// workflow resolves discounts against the persistent catalog. Unknown and
// inactive codes both surface as pricing.ErrUnknownCode.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

func (r *Resolver) ResolveDiscount(ctx context.Context, code string, subtotal int64) (int64, error) {
	rec, err := r.repo.GetByCode(ctx, pricing.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, pricing.ErrUnknownCode
		}
		return 0, err
	}
	if !rec.Active {
		return 0, pricing.ErrUnknownCode
	}
	rule := pricing.Rule{Kind: rec.Kind, Value: rec.Value}
	return rule.Amount(subtotal), nil
}
