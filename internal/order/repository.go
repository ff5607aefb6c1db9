package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

type Repository interface {
	Create(ctx context.Context, order *Order) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// List returns one page of orders, most recent first, together with the
	// total count for the same filter. A nil status means all statuses.
	List(ctx context.Context, status *Status, page, pageSize int) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status) (*Order, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, order *Order) (uuid.UUID, error) {
	orderID, err := uuid.NewV4()
	if err != nil {
		log.Error().Err(err).Msg("repository: failed to generate order ID")
		return uuid.Nil, fmt.Errorf("repository: failed to generate order ID: %w", err)
	}

	productsJSON, err := json.Marshal(order.Products)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to marshal order products: %w", err)
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO orders (id, customer_name, customer_phone, customer_address, products, total_price, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.Exec(ctx, query,
		orderID,
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerAddress,
		productsJSON,
		order.TotalPrice,
		string(order.Status),
		order.Notes,
		now,
		now,
	)
	if err != nil {
		if isCheckViolation(err) {
			return uuid.Nil, ErrInvalidStatus
		}
		return uuid.Nil, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	order.ID = orderID
	order.CreatedAt = now
	order.UpdatedAt = now

	return orderID, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := `
		SELECT id, customer_name, customer_phone, customer_address, products, total_price, status, notes, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	ord, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}

	return ord, nil
}

func (r *postgresRepository) List(ctx context.Context, status *Status, page, pageSize int) ([]Order, int, error) {
	offset := (page - 1) * pageSize

	var (
		total int
		rows  pgx.Rows
		err   error
	)

	if status != nil {
		countQuery := `SELECT COUNT(*) FROM orders WHERE status = $1`
		if err = r.db.QueryRow(ctx, countQuery, string(*status)).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("repository: failed to count orders: %w", err)
		}

		listQuery := `
			SELECT id, customer_name, customer_phone, customer_address, products, total_price, status, notes, created_at, updated_at
			FROM orders
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		rows, err = r.db.Query(ctx, listQuery, string(*status), pageSize, offset)
	} else {
		countQuery := `SELECT COUNT(*) FROM orders`
		if err = r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("repository: failed to count orders: %w", err)
		}

		listQuery := `
			SELECT id, customer_name, customer_phone, customer_address, products, total_price, status, notes, created_at, updated_at
			FROM orders
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`
		rows, err = r.db.Query(ctx, listQuery, pageSize, offset)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, *ord)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	return orders, total, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status) (*Order, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, customer_name, customer_phone, customer_address, products, total_price, status, notes, created_at, updated_at
	`

	ord, err := scanOrder(r.db.QueryRow(ctx, query, string(newStatus), time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn().Stringer("order_id", id).Str("new_status", string(newStatus)).Msg("repository: order not found for status update")
			return nil, ErrOrderNotFound
		}
		if isCheckViolation(err) {
			return nil, ErrInvalidStatus
		}
		log.Error().Err(err).Stringer("order_id", id).Str("new_status", string(newStatus)).Msg("repository: failed to update order status")
		return nil, fmt.Errorf("repository: failed to update order status %s: %w", id, err)
	}

	return ord, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		ord          Order
		productsJSON []byte
	)
	err := row.Scan(
		&ord.ID,
		&ord.CustomerName,
		&ord.CustomerPhone,
		&ord.CustomerAddress,
		&productsJSON,
		&ord.TotalPrice,
		&ord.Status,
		&ord.Notes,
		&ord.CreatedAt,
		&ord.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(productsJSON, &ord.Products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order products: %w", err)
	}
	return &ord, nil
}

// isCheckViolation matches the CHECK constraint on the status column, so an
// unknown status value surfaces as ErrInvalidStatus instead of a raw pg error.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation
}
