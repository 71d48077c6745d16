package session

import (
	"context"

	"freshmarket/internal/domain"
)

// snapshotCart is the per-session cart collaborator: a snapshot of the
// storefront cart taken when the session was opened. Checkout delegates to
// the order service with the session's current selections.
type snapshotCart struct {
	items   []domain.CartItem
	cleared bool
	place   func(ctx context.Context, items []domain.CartItem) (*domain.Order, error)
}

func (c *snapshotCart) Items() []domain.CartItem {
	if c.cleared {
		return nil
	}
	return c.items
}

func (c *snapshotCart) Clear() { c.cleared = true }

func (c *snapshotCart) Checkout(ctx context.Context) (*domain.Order, error) {
	return c.place(ctx, c.items)
}

// recordingNav captures navigation pushes so the API can hand the redirect
// target back to the storefront.
type recordingNav struct {
	paths []string
}

func (n *recordingNav) Push(path string) { n.paths = append(n.paths, path) }

func (n *recordingNav) Last() string {
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

// recordingNotifier captures the blocking confirmation message.
type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Confirm(msg string) { n.messages = append(n.messages, msg) }

func (n *recordingNotifier) Last() string {
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}
