package repository

import (
	"context"
	"database/sql"
	"fmt"

	"phonestore/internal/domain"
	"phonestore/internal/errors"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

func (r *MySQLOrderItemRepository) Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error) {
	query := `INSERT INTO order_items (order_id, phone_id, quantity) VALUES (?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, item.OrderID, item.PhoneID, item.Quantity)
	if err != nil {
		return 0, fmt.Errorf("inserting order item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderItemRepository) FindByID(ctx context.Context, id uint) (*domain.OrderItem, error) {
	query := `
		SELECT order_item_id, order_id, phone_id, quantity
		FROM order_items
		WHERE order_item_id = ?`

	var item domain.OrderItem
	err := r.db.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.OrderID, &item.PhoneID, &item.Quantity)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order item with id %d does not exist", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order item by id: %w", err)
	}

	return &item, nil
}

// FindByIDForUpdate locks the item row until the transaction ends. The
// reconcile/release paths read the stored quantity through this, so a
// concurrent writer cannot slip a stale quantity into the delta.
func (r *MySQLOrderItemRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.OrderItem, error) {
	query := `
		SELECT order_item_id, order_id, phone_id, quantity
		FROM order_items
		WHERE order_item_id = ?
		FOR UPDATE`

	var item domain.OrderItem
	err := tx.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.OrderID, &item.PhoneID, &item.Quantity)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order item with id %d does not exist", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order item for update: %w", err)
	}

	return &item, nil
}

func (r *MySQLOrderItemRepository) FindAll(ctx context.Context) ([]domain.OrderItem, error) {
	query := `
		SELECT order_item_id, order_id, phone_id, quantity
		FROM order_items
		ORDER BY order_item_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	return collectOrderItems(rows)
}

func (r *MySQLOrderItemRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	query := `
		SELECT order_item_id, order_id, phone_id, quantity
		FROM order_items
		WHERE order_id = ?
		ORDER BY order_item_id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items by order id: %w", err)
	}
	defer rows.Close()

	return collectOrderItems(rows)
}

func (r *MySQLOrderItemRepository) Update(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error {
	query := `UPDATE order_items SET phone_id = ?, quantity = ? WHERE order_item_id = ?`

	if _, err := tx.ExecContext(ctx, query, item.PhoneID, item.Quantity, item.ID); err != nil {
		return fmt.Errorf("updating order item: %w", err)
	}

	return nil
}

func (r *MySQLOrderItemRepository) Delete(ctx context.Context, tx *sql.Tx, id uint) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_item_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order item with id %d does not exist", id))
	}

	return nil
}

func collectOrderItems(rows *sql.Rows) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.PhoneID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}
