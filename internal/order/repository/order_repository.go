package repository

import (
	"context"
	"database/sql"
	"fmt"

	"phonestore/internal/domain"
	"phonestore/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error) {
	query := `INSERT INTO orders (user_id, order_status) VALUES (?, ?)`

	result, err := tx.ExecContext(ctx, query, order.UserID, order.Status)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `
		SELECT order_id, user_id, order_status, created_at, updated_at
		FROM orders
		WHERE order_id = ?`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d was not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}

func (r *MySQLOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT order_id, user_id, order_status, created_at, updated_at
		FROM orders
		ORDER BY order_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *MySQLOrderRepository) FindByUsername(ctx context.Context, username string) ([]domain.Order, error) {
	query := `
		SELECT o.order_id, o.user_id, o.order_status, o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.user_id = o.user_id
		WHERE u.username = ?
		ORDER BY o.order_id`

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("querying orders by username: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// OwnerUsername resolves the username owning an order, for route-level
// ownership checks.
func (r *MySQLOrderRepository) OwnerUsername(ctx context.Context, id uint) (string, error) {
	query := `
		SELECT u.username
		FROM orders o
		JOIN users u ON u.user_id = o.user_id
		WHERE o.order_id = ?`

	var username string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&username)
	if err == sql.ErrNoRows {
		return "", errors.NewNotFoundError(fmt.Sprintf("order with id %d was not found", id))
	}
	if err != nil {
		return "", fmt.Errorf("querying order owner: %w", err)
	}

	return username, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	query := `UPDATE orders SET order_status = ? WHERE order_id = ?`

	if _, err := r.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) Delete(ctx context.Context, id uint) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE order_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d was not found", id))
	}

	return nil
}

func collectOrders(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}
