package cart

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Store owns the line items of one cart session. It is single-writer: one
// client session mutates its own cart, there is no cross-session sharing.
// Every mutation replaces the persisted snapshot; persistence failures are
// logged and swallowed because cart state is not safety-critical.
type Store struct {
	cartID  string
	storage Storage
	items   []LineItem
	now     func() time.Time
}

// NewStore rehydrates the cart snapshot for cartID before accepting any
// mutation. A failed or corrupt load degrades to an empty cart.
func NewStore(ctx context.Context, storage Storage, cartID string) *Store {
	s := &Store{
		cartID:  cartID,
		storage: storage,
		now:     time.Now,
	}
	items, err := storage.Load(ctx, cartID)
	if err != nil {
		log.Warn().Err(err).Str("cart_id", cartID).Msg("cart: failed to load snapshot, starting empty")
		items = []LineItem{}
	}
	s.items = items
	return s
}

// Items returns a copy of the current line items.
func (s *Store) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Add puts a selection into the cart. A line with the same (productId,
// volume) pair already present gets its quantity bumped by one and keeps its
// original price snapshot; otherwise a new line with quantity 1 is created.
func (s *Store) Add(ctx context.Context, sel Selection) LineItem {
	for i := range s.items {
		if s.items[i].ProductID == sel.ProductID && s.items[i].Volume == sel.Volume {
			s.items[i].Quantity++
			s.persist(ctx)
			return s.items[i]
		}
	}

	item := LineItem{
		ID:             newLineID(sel.ProductID, sel.Volume, s.now()),
		ProductID:      sel.ProductID,
		Name:           sel.Name,
		Category:       sel.Category,
		Volume:         sel.Volume,
		FragranceNotes: sel.FragranceNotes,
		Price:          sel.Price,
		Image:          sel.Image,
		Quantity:       1,
	}
	s.items = append(s.items, item)
	s.persist(ctx)
	return item
}

// Remove deletes the line with the given id. Removing an absent line is a
// no-op, not an error.
func (s *Store) Remove(ctx context.Context, lineID string) {
	for i := range s.items {
		if s.items[i].ID == lineID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// Update merges a patch into the line with the given id and reports whether
// the line existed. The store does not clamp quantity: callers must route a
// quantity below one to Remove instead.
func (s *Store) Update(ctx context.Context, lineID string, patch Patch) bool {
	for i := range s.items {
		if s.items[i].ID != lineID {
			continue
		}
		if patch.Quantity != nil {
			s.items[i].Quantity = *patch.Quantity
		}
		s.persist(ctx)
		return true
	}
	return false
}

// Clear empties the cart. Called after a successful order submission.
func (s *Store) Clear(ctx context.Context) {
	s.items = []LineItem{}
	if err := s.storage.Delete(ctx, s.cartID); err != nil {
		log.Warn().Err(err).Str("cart_id", s.cartID).Msg("cart: failed to delete snapshot")
	}
}

// TotalPrice returns the sum of price times quantity over all lines, in the
// same unit as the catalog price.
func (s *Store) TotalPrice() int64 {
	var total int64
	for _, item := range s.items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// TotalItems returns the sum of quantities over all lines.
func (s *Store) TotalItems() int {
	var total int
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

func (s *Store) persist(ctx context.Context) {
	if err := s.storage.Save(ctx, s.cartID, s.items); err != nil {
		log.Warn().Err(err).Str("cart_id", s.cartID).Msg("cart: failed to save snapshot")
	}
}
