package cart

import "context"

// Storage is the persistence port for cart snapshots. The full line list is
// replaced on every save; there is no incremental patch format. Load returns
// an empty slice for an unknown cart id.
type Storage interface {
	Save(ctx context.Context, cartID string, items []LineItem) error
	Load(ctx context.Context, cartID string) ([]LineItem, error)
	Delete(ctx context.Context, cartID string) error
}
