package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository is the persistence surface the auth service depends on.
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, params UpdateUserParams) (*User, error)
}

const userColumns = "id, username, email, password, created_at"

// PostgresRepository implements Repository over database/sql.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a Repository backed by the given connection pool.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func (r *PostgresRepository) Create(ctx context.Context, params CreateUserParams) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		"INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING "+userColumns,
		params.Username, params.Email, params.Password)
	return scanUser(row)
}

func (r *PostgresRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR username = $2)",
		email, username).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id != $2)",
		username, excludeID).Scan(&taken)
	return taken, err
}

func (r *PostgresRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id != $2)",
		email, excludeID).Scan(&taken)
	return taken, err
}

// Update applies the non-nil fields of params and returns the updated row.
func (r *PostgresRepository) Update(ctx context.Context, params UpdateUserParams) (*User, error) {
	var (
		sets []string
		args []interface{}
	)
	add := func(column string, value string) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Username != nil {
		add("username", *params.Username)
	}
	if params.Email != nil {
		add("email", *params.Email)
	}
	if params.Password != nil {
		add("password", *params.Password)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, params.ID)
	}

	args = append(args, params.ID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), userColumns)
	return scanUser(r.db.QueryRowContext(ctx, query, args...))
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
