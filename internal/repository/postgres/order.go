package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vpay/internal/domain"
	"vpay/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// NewOrderRepositoryWithTx creates an order repository using a transaction.
func NewOrderRepositoryWithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{q: tx}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, total, currency, billing_email, status, stock_reduced, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		order.ID,
		order.Total,
		order.Currency,
		order.BillingEmail,
		order.Status,
		order.StockReduced,
		order.CreatedAt,
	)

	return err
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, total, currency, billing_email, status, stock_reduced, created_at, paid_at
		FROM orders WHERE id = $1
	`

	var order domain.Order
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.Total,
		&order.Currency,
		&order.BillingEmail,
		&order.Status,
		&order.StockReduced,
		&order.CreatedAt,
		&order.PaidAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetAll retrieves all orders.
func (r *OrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT id, total, currency, billing_email, status, stock_reduced, created_at, paid_at
		FROM orders ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.Total,
			&order.Currency,
			&order.BillingEmail,
			&order.Status,
			&order.StockReduced,
			&order.CreatedAt,
			&order.PaidAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, &order)
	}

	return orders, rows.Err()
}

// MarkPaid transitions an order to PAID and records the payment time.
func (r *OrderRepository) MarkPaid(ctx context.Context, id string) error {
	query := `UPDATE orders SET status = $1, paid_at = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, domain.OrderStatusPaid, time.Now(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ReduceStock releases the stock reserved for the order's lines.
func (r *OrderRepository) ReduceStock(ctx context.Context, id string) error {
	query := `UPDATE orders SET stock_reduced = TRUE WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
