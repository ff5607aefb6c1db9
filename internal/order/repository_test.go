package order_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdougarali/Perfume-Order-Store/internal/catalog"
	"github.com/abdougarali/Perfume-Order-Store/internal/order"
)

var testPool *pgxpool.Pool

// Repository tests run against a real database. Set TEST_DATABASE_URL to a
// Postgres DSN with the orders migration applied; without it they are
// skipped.
func TestMain(m *testing.M) {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		pool, err := pgxpool.New(context.Background(), dsn)
		if err != nil {
			log.Fatalf("failed to connect to test database: %v", err)
		}
		testPool = pool
	}

	exitCode := m.Run()

	if testPool != nil {
		testPool.Close()
	}

	os.Exit(exitCode)
}

func requireDB(t *testing.T) order.Repository {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL not set, skipping repository tests")
	}
	_, err := testPool.Exec(context.Background(), "TRUNCATE orders")
	require.NoError(t, err)
	return order.NewRepository(testPool)
}

func testOrder(name string) *order.Order {
	return &order.Order{
		CustomerName:    name,
		CustomerPhone:   "+1-555-0100",
		CustomerAddress: "12 Main St",
		Products: []order.OrderProduct{
			{
				ID:             "edp-1",
				Name:           "Elegant Noir Eau de Parfum",
				Category:       catalog.CategoryEauDeParfum,
				Volume:         "50ml",
				FragranceNotes: "Top: Bergamot | Base: Amber",
				Price:          120000,
				Quantity:       1,
			},
		},
		TotalPrice: 120000,
		Status:     order.StatusNew,
	}
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	repo := requireDB(t)
	ctx := context.Background()

	ord := testOrder("Jane Doe")
	id, err := repo.Create(ctx, ord)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, id, ord.ID)
	assert.False(t, ord.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.CustomerName)
	assert.Equal(t, order.StatusNew, got.Status)
	assert.Equal(t, int64(120000), got.TotalPrice)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "edp-1", got.Products[0].ID)
	assert.Equal(t, "Top: Bergamot | Base: Amber", got.Products[0].FragranceNotes)
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	repo := requireDB(t)

	id, _ := uuid.NewV4()
	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo := requireDB(t)
	ctx := context.Background()

	ord := testOrder("Jane Doe")
	id, err := repo.Create(ctx, ord)
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, id, order.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	// the snapshot and totals survive a status change untouched
	assert.Equal(t, ord.TotalPrice, updated.TotalPrice)
	require.Len(t, updated.Products, 1)
	assert.Equal(t, "edp-1", updated.Products[0].ID)
}

func TestRepository_UpdateStatusNotFound(t *testing.T) {
	repo := requireDB(t)

	id, _ := uuid.NewV4()
	_, err := repo.UpdateStatus(context.Background(), id, order.StatusConfirmed)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestRepository_UpdateStatusRejectsUnknownValue(t *testing.T) {
	repo := requireDB(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testOrder("Jane Doe"))
	require.NoError(t, err)

	// the CHECK constraint on the status column backs up the service guard
	_, err = repo.UpdateStatus(ctx, id, order.Status("shipped"))
	assert.ErrorIs(t, err, order.ErrInvalidStatus)
}

func TestRepository_ListPagination(t *testing.T) {
	repo := requireDB(t)
	ctx := context.Background()

	const n = 9
	for i := 0; i < n; i++ {
		_, err := repo.Create(ctx, testOrder(fmt.Sprintf("Customer %d", i)))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond) // distinct created_at for a stable sort
	}

	// page 1 and 2 are full, page 3 holds the remainder, page 4 is empty
	page1, total, err := repo.List(ctx, nil, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, n, total)
	assert.Len(t, page1, 4)

	page3, total, err := repo.List(ctx, nil, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, n, total)
	assert.Len(t, page3, 1)

	page4, total, err := repo.List(ctx, nil, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, n, total)
	assert.Empty(t, page4)

	// newest first
	assert.Equal(t, "Customer 8", page1[0].CustomerName)
	assert.Equal(t, "Customer 0", page3[0].CustomerName)
}

func TestRepository_ListFiltersByStatus(t *testing.T) {
	repo := requireDB(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, testOrder("Jane Doe"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, testOrder("John Roe"))
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, first, order.StatusConfirmed)
	require.NoError(t, err)

	confirmed := order.StatusConfirmed
	orders, total, err := repo.List(ctx, &confirmed, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "Jane Doe", orders[0].CustomerName)

	delivered := order.StatusDelivered
	orders, total, err = repo.List(ctx, &delivered, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, orders)
}
