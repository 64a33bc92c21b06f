package brand

import (
	"context"
	"database/sql"
	"fmt"

	"phonestore/internal/domain"
	"phonestore/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) FindAll(ctx context.Context) ([]domain.Brand, error) {
	query := `
		SELECT brand_id, name, created_at, updated_at
		FROM brands
		ORDER BY brand_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying brands: %w", err)
	}
	defer rows.Close()

	var brands []domain.Brand
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning brand row: %w", err)
		}
		brands = append(brands, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating brand rows: %w", err)
	}

	return brands, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id uint) (*domain.Brand, error) {
	query := `
		SELECT brand_id, name, created_at, updated_at
		FROM brands
		WHERE brand_id = ?`

	var b domain.Brand
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("brand with id %d was not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying brand by id: %w", err)
	}

	return &b, nil
}

func (r *MySQLRepository) FindByName(ctx context.Context, name string) (*domain.Brand, error) {
	query := `
		SELECT brand_id, name, created_at, updated_at
		FROM brands
		WHERE name = ?`

	var b domain.Brand
	err := r.db.QueryRowContext(ctx, query, name).Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("brand with name %s was not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("querying brand by name: %w", err)
	}

	return &b, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, brand domain.Brand) (uint, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO brands (name) VALUES (?)`, brand.Name)
	if err != nil {
		return 0, fmt.Errorf("inserting brand: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLRepository) Update(ctx context.Context, brand domain.Brand) error {
	result, err := r.db.ExecContext(ctx, `UPDATE brands SET name = ? WHERE brand_id = ?`, brand.Name, brand.ID)
	if err != nil {
		return fmt.Errorf("updating brand: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("brand with id %d was not found", brand.ID))
	}

	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id uint) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE brand_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting brand: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("brand with id %d was not found", id))
	}

	return nil
}
