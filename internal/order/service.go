package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

// allowedTransitions is the order lifecycle state machine. Delivered and
// canceled are terminal. A same-status update is a no-op, handled before the
// table is consulted.
var allowedTransitions = map[Status]map[Status]bool{
	StatusNew: {
		StatusConfirmed: true,
		StatusCanceled:  true,
	},
	StatusConfirmed: {
		StatusDelivered: true,
		StatusCanceled:  true,
	},
	StatusDelivered: {},
	StatusCanceled:  {},
}

var (
	ErrMissingContactFields    = errors.New("customer name, phone and address are required")
	ErrEmptyOrder              = errors.New("order must contain at least one product")
	ErrInvalidTotal            = errors.New("order total must be greater than zero")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// SubmitInput is a checkout request: customer contact details plus the cart
// lines being purchased. Item prices are snapshots carried over from the
// cart, never re-read from the catalog here.
type SubmitInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Notes           string
	Items           []OrderProduct
}

type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, status *Status, page, pageSize int) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status) (*Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Paging bounds, shared with the transport layer so the pagination envelope
// always reflects the page size actually used.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Submit validates a checkout request and creates the order with status new.
// Validation fails fast: contact fields first, then a non-empty item list,
// then a positive recomputed total. The total is always computed here; the
// client is not trusted with arithmetic.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*Order, error) {
	name := strings.TrimSpace(input.CustomerName)
	phone := strings.TrimSpace(input.CustomerPhone)
	address := strings.TrimSpace(input.CustomerAddress)

	if name == "" || phone == "" || address == "" {
		log.Warn().Msg("service: order submission with missing contact fields")
		return nil, ErrMissingContactFields
	}

	if len(input.Items) == 0 {
		log.Warn().Str("customer", name).Msg("service: order submission with empty cart")
		return nil, ErrEmptyOrder
	}

	var total int64
	products := make([]OrderProduct, len(input.Items))
	for i, item := range input.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %s has quantity %d", ErrInvalidTotal, item.ID, item.Quantity)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("%w: product %s has negative price", ErrInvalidTotal, item.ID)
		}
		products[i] = item
		total += item.Price * int64(item.Quantity)
	}
	if total <= 0 {
		return nil, ErrInvalidTotal
	}

	ord := &Order{
		CustomerName:    name,
		CustomerPhone:   phone,
		CustomerAddress: address,
		Products:        products,
		TotalPrice:      total,
		Status:          StatusNew,
		Notes:           strings.TrimSpace(input.Notes),
	}

	if _, err := s.repo.Create(ctx, ord); err != nil {
		log.Error().Err(err).Msg("service: failed to create order in repository")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().Stringer("order_id", ord.ID).Int64("total_price", total).Int("products", len(products)).Msg("service: order created")

	return ord, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	ord, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to fetch order by id")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}
	return ord, nil
}

// List normalizes paging (page >= 1, pageSize defaulted and capped) and
// delegates to the repository.
func (s *service) List(ctx context.Context, status *Status, page, pageSize int) ([]Order, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	orders, total, err := s.repo.List(ctx, status, page, pageSize)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders")
		return nil, 0, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus applies the lifecycle state machine before touching storage.
// Setting the current status again is a no-op; any transition outside the
// table is rejected with ErrInvalidStatusTransition.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status) (*Order, error) {
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Stringer("order_id", id).Str("new_status", string(newStatus)).Msg("service: order not found, cannot update status")
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to get order for status update")
		return nil, fmt.Errorf("service: failed to get order for status update: %w", err)
	}

	if current.Status == newStatus {
		log.Info().Stringer("order_id", id).Str("status", string(newStatus)).Msg("service: order status unchanged, no update needed")
		return current, nil
	}

	if !allowedTransitions[current.Status][newStatus] {
		log.Warn().
			Stringer("order_id", id).
			Str("current_status", string(current.Status)).
			Str("new_status", string(newStatus)).
			Msg("service: invalid status transition attempt")
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, current.Status, newStatus)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Str("new_status", string(newStatus)).Msg("service: failed to update order status")
		return nil, fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().Stringer("order_id", id).Str("old_status", string(current.Status)).Str("new_status", string(newStatus)).Msg("service: order status updated")

	return updated, nil
}
