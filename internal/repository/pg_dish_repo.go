package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/database"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
	"github.com/lib/pq"
)

const dishColumns = `id, name, image, category, label, price, featured, description, comments, created_at, updated_at`

// dishRepo keeps each dish in one row, comments in a JSONB column
type dishRepo struct {
	db *database.DB
}

// NewDishRepo creates a new PostgreSQL dish repository
func NewDishRepo(db *database.DB) DishRepository {
	return &dishRepo{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDish(row rowScanner) (*models.Dish, error) {
	var dish models.Dish
	err := row.Scan(
		&dish.ID, &dish.Name, &dish.Image, &dish.Category, &dish.Label,
		&dish.Price, &dish.Featured, &dish.Description, &dish.Comments,
		&dish.CreatedAt, &dish.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return normalize(&dish), nil
}

// List returns all dishes in creation order
func (r *dishRepo) List(ctx context.Context) ([]*models.Dish, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+dishColumns+` FROM dishes ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query dishes: %w", err)
	}
	defer rows.Close()

	dishes := make([]*models.Dish, 0)
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

// GetByID retrieves a dish by ID
func (r *dishRepo) GetByID(ctx context.Context, id string) (*models.Dish, error) {
	dish, err := scanDish(r.db.QueryRowContext(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query dish %s: %w", id, err)
	}
	return dish, nil
}

// Create inserts a new dish
func (r *dishRepo) Create(ctx context.Context, dish *models.Dish) error {
	query := `
		INSERT INTO dishes (` + dishColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	normalize(dish)
	_, err := r.db.ExecContext(ctx, query,
		dish.ID, dish.Name, dish.Image, dish.Category, dish.Label,
		dish.Price, dish.Featured, dish.Description, dish.Comments,
		dish.CreatedAt, dish.UpdatedAt,
	)
	if err != nil {
		return translatePQError("insert dish", err)
	}
	return nil
}

// Save overwrites every column of the stored row
func (r *dishRepo) Save(ctx context.Context, dish *models.Dish) error {
	query := `
		UPDATE dishes SET
			name = $2, image = $3, category = $4, label = $5, price = $6,
			featured = $7, description = $8, comments = $9, updated_at = $10
		WHERE id = $1
	`
	normalize(dish)
	res, err := r.db.ExecContext(ctx, query,
		dish.ID, dish.Name, dish.Image, dish.Category, dish.Label,
		dish.Price, dish.Featured, dish.Description, dish.Comments,
		dish.UpdatedAt,
	)
	if err != nil {
		return translatePQError("update dish "+dish.ID, err)
	}
	return requireAffected(res)
}

// Delete removes a dish and its comments
func (r *dishRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dish %s: %w", id, err)
	}
	return requireAffected(res)
}

// DeleteAll removes every dish
func (r *dishRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dishes`)
	if err != nil {
		return 0, fmt.Errorf("delete dishes: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the total number of dishes
func (r *dishRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM dishes").Scan(&count); err != nil {
		return 0, fmt.Errorf("count dishes: %w", err)
	}
	return count, nil
}

// uniqueViolation is the SQLSTATE for unique constraint failures
const uniqueViolation = "23505"

func translatePQError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
