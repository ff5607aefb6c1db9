package order

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/abdougarali/Perfume-Order-Store/internal/catalog"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusCanceled  Status = "canceled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// OrderProduct is a frozen copy of a cart line at submission time. It is
// intentionally decoupled from the live catalog: later price or name changes
// never alter a historical order.
type OrderProduct struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Category       catalog.Category `json:"category"`
	Volume         string           `json:"volume,omitempty"`
	FragranceNotes string           `json:"fragranceNotes,omitempty"`
	Price          int64            `json:"price"`
	Image          string           `json:"image,omitempty"`
	Quantity       int              `json:"quantity"`
}

type Order struct {
	ID              uuid.UUID      `json:"id"`
	CustomerName    string         `json:"customerName"`
	CustomerPhone   string         `json:"customerPhone"`
	CustomerAddress string         `json:"customerAddress"`
	Products        []OrderProduct `json:"products"`
	TotalPrice      int64          `json:"totalPrice"`
	Status          Status         `json:"status"`
	Notes           string         `json:"notes,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
