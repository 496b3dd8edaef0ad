package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/database"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
	"github.com/lib/pq"
)

const userColumns = `id, username, firstname, lastname, admin, password_hash, created_at, updated_at`

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Firstname, &user.Lastname,
		&user.Admin, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Firstname, user.Lastname,
		user.Admin, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return translatePQError("insert user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername retrieves a user by username
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByIDs retrieves all users whose id is in ids
func (r *userRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}
	return r.query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY username`, pq.Array(ids))
}

// List returns every user ordered by username
func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
}

// Count returns the total number of users
func (r *userRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *userRepo) queryOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

func (r *userRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
