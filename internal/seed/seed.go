package seed

import (
	"context"
	"fmt"

	"freshmarket/internal/pricing"
	promorepo "freshmarket/internal/repository/promo"
)

// Apply upserts the built-in promo catalog so a fresh database resolves the
// same codes the static table does. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, repo promorepo.Repository) error {
	for code, rule := range pricing.NewStaticCatalog().Rules() {
		rec := promorepo.Record{
			Code:   code,
			Kind:   rule.Kind,
			Value:  rule.Value,
			Active: true,
		}
		if err := repo.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("upsert promo %s: %w", code, err)
		}
	}
	return nil
}
