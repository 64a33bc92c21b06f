package user

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

const userColumns = `user_id, username, password, email, full_name, is_active, user_type, created_at, updated_at`

func (r *MySQLRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY user_id`, userColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		err := rows.Scan(
			&u.ID, &u.Username, &u.Password, &u.Email, &u.FullName,
			&u.IsActive, &u.UserType, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	return users, nil
}

func (r *MySQLRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = ?`, userColumns)

	var u domain.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Password, &u.Email, &u.FullName,
		&u.IsActive, &u.UserType, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no user with username %s exists", username))
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by username: %w", err)
	}

	return &u, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, user domain.User) (uint, error) {
	query := `
		INSERT INTO users (username, password, email, full_name, is_active, user_type)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Password, user.Email, user.FullName, user.IsActive, user.UserType,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLRepository) Update(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET password = ?, email = ?, full_name = ?, is_active = ?, user_type = ?
		WHERE username = ?`

	_, err := r.db.ExecContext(ctx, query,
		user.Password, user.Email, user.FullName, user.IsActive, user.UserType, user.Username,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, username string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("no user with username %s exists", username))
	}

	return nil
}
