package cart

import (
	"fmt"
	"time"

	"github.com/abdougarali/Perfume-Order-Store/internal/catalog"
)

// LineItem is a single cart line. Name, fragrance notes and price are
// snapshots taken when the item was added; later catalog changes never
// flow back into an existing line.
type LineItem struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"productId"`
	Name           string           `json:"name"`
	Category       catalog.Category `json:"category"`
	Volume         string           `json:"volume,omitempty"`
	FragranceNotes string           `json:"fragranceNotes,omitempty"`
	Price          int64            `json:"price"`
	Image          string           `json:"image,omitempty"`
	Quantity       int              `json:"quantity"`
}

// Selection carries everything needed to add one product (in one volume)
// to a cart. Price is already volume-adjusted by the caller.
type Selection struct {
	ProductID      string
	Name           string
	Category       catalog.Category
	Volume         string
	FragranceNotes string
	Price          int64
	Image          string
}

// Patch is a partial line-item update. Nil fields are left untouched.
// Volume is part of a line's identity, so it cannot be patched; changing
// it means removing the line and adding the product again.
type Patch struct {
	Quantity *int
}

func newLineID(productID, volume string, now time.Time) string {
	if volume == "" {
		volume = "no-volume"
	}
	return fmt.Sprintf("%s-%s-%d", productID, volume, now.UnixNano())
}
