package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/storage"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, company_name, contact_name, email, password_hash, tax_id, phone, user_type, registration_date`

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, company_name, contact_name, email, password_hash, tax_id, phone, user_type, registration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.CompanyName, user.ContactName, strings.ToLower(user.Email),
		user.PasswordHash, user.TaxID, user.Phone, user.Role, user.RegistrationDate)
	if storage.IsUniqueViolation(err) {
		return apperr.Conflict("email is already registered")
	}
	if err != nil {
		return apperr.Internal(err, "insert user")
	}
	return nil
}

func scanUser(scan func(...interface{}) error) (*User, error) {
	user := &User{}
	err := scan(
		&user.ID,
		&user.CompanyName,
		&user.ContactName,
		&user.Email,
		&user.PasswordHash,
		&user.TaxID,
		&user.Phone,
		&user.Role,
		&user.RegistrationDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "scan user")
	}
	return user, nil
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan)
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, parsedID).Scan)
}

func (r *postgresRepository) ListUsers(ctx context.Context, f Filter) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	if f.Role != "" {
		query += ` WHERE user_type = $1`
		args = append(args, f.Role)
	}
	query += ` ORDER BY registration_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err, "list users")
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "list users")
	}
	return users, nil
}

func (r *postgresRepository) UpdateUser(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET company_name = $1, contact_name = $2, tax_id = $3, phone = $4
		WHERE id = $5
	`
	res, err := r.db.ExecContext(ctx, query, user.CompanyName, user.ContactName, user.TaxID, user.Phone, user.ID)
	if err != nil {
		return apperr.Internal(err, "update user")
	}
	return requireAffected(res, "update user")
}

func (r *postgresRepository) DeleteUser(ctx context.Context, id string) error {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("user not found")
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, parsedID)
	if err != nil {
		return apperr.Internal(err, "delete user")
	}
	return requireAffected(res, "delete user")
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal(err, "%s", op)
	}
	if n == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
