package phone

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

const phoneColumns = `
	p.phone_id, p.brand_id, p.price, p.quantity, p.description, p.specification,
	p.discount, p.created_at, p.updated_at, b.brand_id, b.name, b.created_at, b.updated_at`

func scanPhone(row interface{ Scan(...any) error }) (*domain.Phone, error) {
	var p domain.Phone
	var b domain.Brand
	err := row.Scan(
		&p.ID, &p.BrandID, &p.Price, &p.Quantity, &p.Description, &p.Specification,
		&p.Discount, &p.CreatedAt, &p.UpdatedAt,
		&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Brand = &b
	return &p, nil
}

func (r *MySQLRepository) FindAll(ctx context.Context) ([]domain.Phone, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM phones p
		JOIN brands b ON b.brand_id = p.brand_id
		ORDER BY p.phone_id`, phoneColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying phones: %w", err)
	}
	defer rows.Close()

	var phones []domain.Phone
	for rows.Next() {
		p, err := scanPhone(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning phone row: %w", err)
		}
		phones = append(phones, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phone rows: %w", err)
	}

	return phones, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id uint) (*domain.Phone, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM phones p
		JOIN brands b ON b.brand_id = p.brand_id
		WHERE p.phone_id = ?`, phoneColumns)

	p, err := scanPhone(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("phone with id %d does not exist", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying phone by id: %w", err)
	}

	return p, nil
}

// FindByIDForUpdate locks the phone row for the remainder of tx. The
// inventory ledger relies on this lock for its read-modify-write on quantity.
func (r *MySQLRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Phone, error) {
	query := `
		SELECT phone_id, brand_id, price, quantity, description, specification,
		       discount, created_at, updated_at
		FROM phones
		WHERE phone_id = ?
		FOR UPDATE`

	var p domain.Phone
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.BrandID, &p.Price, &p.Quantity, &p.Description, &p.Specification,
		&p.Discount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("phone with id %d does not exist", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying phone for update: %w", err)
	}

	return &p, nil
}

func (r *MySQLRepository) FindByBrandName(ctx context.Context, name string) ([]domain.Phone, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM phones p
		JOIN brands b ON b.brand_id = p.brand_id
		WHERE b.name = ?
		ORDER BY p.phone_id`, phoneColumns)

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("querying phones by brand name: %w", err)
	}
	defer rows.Close()

	var phones []domain.Phone
	for rows.Next() {
		p, err := scanPhone(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning phone row: %w", err)
		}
		phones = append(phones, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phone rows: %w", err)
	}

	return phones, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, phone domain.Phone) (uint, error) {
	query := `
		INSERT INTO phones (brand_id, price, quantity, description, specification, discount)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		phone.BrandID, phone.Price, phone.Quantity, phone.Description,
		phone.Specification, phone.Discount,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting phone: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

// Update overwrites every mutable phone field. Partial updates are not
// supported; callers load the phone first and send the full row back.
func (r *MySQLRepository) Update(ctx context.Context, phone domain.Phone) error {
	query := `
		UPDATE phones
		SET brand_id = ?, price = ?, quantity = ?, description = ?,
		    specification = ?, discount = ?
		WHERE phone_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		phone.BrandID, phone.Price, phone.Quantity, phone.Description,
		phone.Specification, phone.Discount, phone.ID,
	)
	if err != nil {
		return fmt.Errorf("updating phone: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("phone with id %d does not exist", phone.ID))
	}

	return nil
}

// UpdateQuantity writes the new stock level inside tx. Callers have already
// locked the row via FindByIDForUpdate, so existence is not re-checked here;
// MySQL reports zero affected rows for a no-op write and that must not be
// mistaken for a missing phone.
func (r *MySQLRepository) UpdateQuantity(ctx context.Context, tx *sql.Tx, id uint, quantity int) error {
	query := `UPDATE phones SET quantity = ? WHERE phone_id = ?`

	if _, err := tx.ExecContext(ctx, query, quantity, id); err != nil {
		return fmt.Errorf("updating phone quantity: %w", err)
	}

	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id uint) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM phones WHERE phone_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting phone: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("phone with id %d does not exist", id))
	}

	return nil
}
