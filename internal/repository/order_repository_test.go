package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"krubolab/internal/model"
	"krubolab/internal/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(number, name, email string, createdAt time.Time, items ...model.OrderItem) (*model.Order, []model.OrderItem) {
	order := &model.Order{
		ID:          uuid.New(),
		OrderNumber: number,
		Customer: model.Customer{
			Email:                email,
			FullName:             name,
			IdentificationType:   model.DefaultIdentificationType,
			IdentificationNumber: "1020304050",
			Phone:                "3001234567",
			Department:           "Antioquia",
			City:                 "Medellín",
			Locality:             "El Poblado",
			Street:               "Calle 10 # 43-12",
		},
		Status:    model.OrderPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	var subtotal money.Amount
	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrderID = order.ID
		subtotal += items[i].LineTotal()
	}
	order.Subtotal = subtotal

	return order, items
}

func insertOrder(t *testing.T, pool *pgxpool.Pool, repo OrderRepository, order *model.Order, items []model.OrderItem) {
	t.Helper()
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Commit(ctx))
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	order, items := newTestOrder("KRU-1", "Ana Gómez", "ana@example.com", now,
		model.OrderItem{ProductID: "P001", Name: "Lámpara", Price: 85000, Quantity: 2, Color: "Negro"},
		model.OrderItem{ProductID: "P002", Name: "Repisa", Price: 60000, Quantity: 1, Size: "60cm"},
	)
	insertOrder(t, pool, repo, order, items)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "KRU-1", got.OrderNumber)
	assert.Equal(t, order.Customer, got.Customer)
	assert.Equal(t, money.Amount(230000), got.Subtotal)
	assert.Equal(t, model.OrderPending, got.Status)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "P001", got.Items[0].ProductID)
	assert.Equal(t, "Negro", got.Items[0].Color)
	assert.Equal(t, "60cm", got.Items[1].Size)

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepository_RollbackDiscardsOrder(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order, _ := newTestOrder("KRU-2", "Ana", "ana@example.com", time.Now())

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))

	// Quantity zero violates the check constraint.
	bad := []model.OrderItem{{ID: uuid.New(), OrderID: order.ID, ProductID: "P001", Name: "x", Price: 1, Quantity: 0}}
	require.Error(t, repo.CreateOrderItems(ctx, tx, bad))
	require.NoError(t, tx.Rollback(ctx))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrderRepository_DuplicateOrderNumber(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	first, _ := newTestOrder("KRU-7", "Ana", "ana@example.com", time.Now())
	insertOrder(t, pool, repo, first, nil)

	second, _ := newTestOrder("KRU-7", "Luis", "luis@example.com", time.Now())
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	err = repo.CreateOrder(ctx, tx, second)

	assert.ErrorIs(t, err, model.ErrDuplicateRecord)
	require.NoError(t, tx.Rollback(ctx))
}

func TestOrderRepository_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	for i := 1; i <= 12; i++ {
		order, items := newTestOrder(
			fmt.Sprintf("KRU-%03d", i),
			fmt.Sprintf("Cliente %02d", i),
			fmt.Sprintf("cliente%02d@example.com", i),
			base.Add(time.Duration(i)*time.Hour),
			model.OrderItem{ProductID: "P001", Name: "Lámpara", Price: 1000, Quantity: i},
		)
		insertOrder(t, pool, repo, order, items)
	}
	special, items := newTestOrder("KRU-100", "María 50%_off", "maria@example.com", base,
		model.OrderItem{ProductID: "P009", Name: "Reloj de pared", Price: 5000, Quantity: 1},
	)
	insertOrder(t, pool, repo, special, items)

	tests := []struct {
		name     string
		query    model.OrderListQuery
		total    int
		count    int
		firstNum string
	}{
		{
			name:     "first page newest first",
			query:    model.OrderListQuery{SortBy: model.OrderSortCreatedAt, SortDesc: true, Page: 1, PerPage: 10},
			total:    13,
			count:    10,
			firstNum: "KRU-012",
		},
		{
			name:     "second page",
			query:    model.OrderListQuery{SortBy: model.OrderSortCreatedAt, SortDesc: true, Page: 2, PerPage: 10},
			total:    13,
			count:    3,
			firstNum: "KRU-002",
		},
		{
			name:     "search by item name",
			query:    model.OrderListQuery{Search: "reloj", Page: 1, PerPage: 10},
			total:    1,
			count:    1,
			firstNum: "KRU-100",
		},
		{
			name:     "search treats wildcards literally",
			query:    model.OrderListQuery{Search: "50%_", Page: 1, PerPage: 10},
			total:    1,
			count:    1,
			firstNum: "KRU-100",
		},
		{
			name:     "search by email",
			query:    model.OrderListQuery{Search: "cliente07@", Page: 1, PerPage: 10},
			total:    1,
			count:    1,
			firstNum: "KRU-007",
		},
		{
			name:     "sort by item count",
			query:    model.OrderListQuery{SortBy: model.OrderSortItems, SortDesc: true, Page: 1, PerPage: 10},
			total:    13,
			count:    10,
			firstNum: "KRU-012",
		},
		{
			name:     "sort by subtotal ascending",
			query:    model.OrderListQuery{SortBy: model.OrderSortSubtotal, Page: 1, PerPage: 10},
			total:    13,
			count:    10,
			firstNum: "KRU-001",
		},
		{
			name:     "unknown sort falls back to creation date",
			query:    model.OrderListQuery{SortBy: "drop table", Page: 1, PerPage: 5},
			total:    13,
			count:    5,
			firstNum: "KRU-100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, total, err := repo.List(ctx, tt.query)
			require.NoError(t, err)

			assert.Equal(t, tt.total, total)
			require.Len(t, orders, tt.count)
			assert.Equal(t, tt.firstNum, orders[0].OrderNumber)
			assert.NotEmpty(t, orders[0].Items)
		})
	}
}

func TestOrderRepository_UpdateStatusAndDelete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order, items := newTestOrder("KRU-3", "Ana", "ana@example.com", time.Now(),
		model.OrderItem{ProductID: "P001", Name: "Lámpara", Price: 1000, Quantity: 1},
	)
	insertOrder(t, pool, repo, order, items)

	found, err := repo.UpdateStatus(ctx, order.ID, model.OrderShipped)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, got.Status)

	found, err = repo.UpdateStatus(ctx, uuid.New(), model.OrderShipped)
	require.NoError(t, err)
	assert.False(t, found)

	deleted, err := repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var remaining int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, order.ID).Scan(&remaining))
	assert.Zero(t, remaining)
}
