package vacancy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the requested vacancy does not exist.
	ErrNotFound = errors.New("vacancy: not found")
	// ErrForbidden signals the caller does not own the vacancy.
	ErrForbidden = errors.New("vacancy: forbidden")
)

// Repository provides access to vacancies.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const vacancyColumns = `id::text, owner_user_id::text, title, institution_name, description, keywords, created_at`

// Create inserts the vacancy and returns the stored row.
func (r *Repository) Create(ctx context.Context, v Vacancy) (Vacancy, error) {
	const query = `
		INSERT INTO vacancies (id, owner_user_id, title, institution_name, description, keywords, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + vacancyColumns

	keywords := v.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	out, err := scanVacancy(r.pool.QueryRow(ctx, query,
		v.ID, v.OwnerUserID, v.Title, v.InstitutionName, v.Description, keywords, v.CreatedAt,
	))
	if err != nil {
		return Vacancy{}, fmt.Errorf("vacancy: create: %w", err)
	}
	return out, nil
}

// GetByID fetches a vacancy by its primary key.
func (r *Repository) GetByID(ctx context.Context, id string) (Vacancy, error) {
	const query = `SELECT ` + vacancyColumns + ` FROM vacancies WHERE id = $1`

	v, err := scanVacancy(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vacancy{}, ErrNotFound
		}
		return Vacancy{}, fmt.Errorf("vacancy: query by id: %w", err)
	}
	return v, nil
}

// List fetches up to filter.Limit vacancies, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Vacancy, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}

	query := `SELECT ` + vacancyColumns + ` FROM vacancies WHERE true`
	args := make([]any, 0, 3)
	if filter.OwnerUserID != "" {
		args = append(args, filter.OwnerUserID)
		query += fmt.Sprintf(" AND owner_user_id = $%d", len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (title ILIKE $%d OR institution_name ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(keywords) k WHERE k ILIKE $%d))`, n, n, n)
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("vacancy: list: %w", err)
	}
	defer rows.Close()

	out := make([]Vacancy, 0, 16)
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, fmt.Errorf("vacancy: scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vacancy: iterate: %w", err)
	}
	return out, nil
}

// LockForDelete loads the vacancy inside tx and holds a row lock until the
// transaction ends.
func (r *Repository) LockForDelete(ctx context.Context, tx pgx.Tx, id string) (Vacancy, error) {
	const query = `SELECT ` + vacancyColumns + ` FROM vacancies WHERE id = $1 FOR UPDATE`

	v, err := scanVacancy(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vacancy{}, ErrNotFound
		}
		return Vacancy{}, fmt.Errorf("vacancy: lock: %w", err)
	}
	return v, nil
}

// Delete removes the vacancy row inside tx.
func (r *Repository) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM vacancies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("vacancy: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanVacancy(row pgx.Row) (Vacancy, error) {
	var v Vacancy
	if err := row.Scan(&v.ID, &v.OwnerUserID, &v.Title, &v.InstitutionName, &v.Description, &v.Keywords, &v.CreatedAt); err != nil {
		return Vacancy{}, err
	}
	return v, nil
}
