package pricing

import (
	"context"
	"errors"
	"strings"
)

// ErrUnknownCode is returned when a promo code is not in the catalog (or is
// inactive). Callers keep the previously applied discount in that case.
var ErrUnknownCode = errors.New("invalid promo code")

// Resolver resolves a promo code into a discount amount for a given subtotal.
// The discount is fixed at the moment of application; it is not re-resolved
// when the subtotal later changes.
type Resolver interface {
	ResolveDiscount(ctx context.Context, code string, subtotal int64) (int64, error)
}

type RuleKind string

const (
	KindFlat    RuleKind = "flat"
	KindPercent RuleKind = "percent"
)

// Rule describes how a promo code maps to a discount: a flat amount or a
// percentage of the subtotal.
type Rule struct {
	Kind  RuleKind
	Value int64
}

// Amount computes the discount this rule yields for the given subtotal.
func (r Rule) Amount(subtotal int64) int64 {
	if r.Kind == KindPercent {
		return percentOf(subtotal, r.Value)
	}
	return r.Value
}

// StaticCatalog is the built-in promo table. It backs the resolver when no
// database catalog is wired in, and seeds the persistent one.
type StaticCatalog struct {
	rules map[string]Rule
}

// NewStaticCatalog returns the fixed marketplace promo table.
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{rules: map[string]Rule{
		"FRESH10":  {Kind: KindPercent, Value: 10},
		"SAVE50":   {Kind: KindFlat, Value: 50},
		"NEWUSER":  {Kind: KindPercent, Value: 15},
		"FARMER20": {Kind: KindPercent, Value: 20},
	}}
}

// Rules returns the catalog contents keyed by code.
func (c *StaticCatalog) Rules() map[string]Rule {
	out := make(map[string]Rule, len(c.rules))
	for code, rule := range c.rules {
		out[code] = rule
	}
	return out
}

func (c *StaticCatalog) ResolveDiscount(_ context.Context, code string, subtotal int64) (int64, error) {
	rule, ok := c.rules[NormalizeCode(code)]
	if !ok {
		return 0, ErrUnknownCode
	}
	return rule.Amount(subtotal), nil
}

// NormalizeCode canonicalizes user-entered promo codes.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
