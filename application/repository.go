package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("application: not found")
	ErrVacancyNotFound = errors.New("application: vacancy not found")
	ErrConflict        = errors.New("application: already applied to this vacancy")
	ErrForbidden       = errors.New("application: forbidden")
	ErrInvalidStatus   = errors.New("application: invalid status")
)

// Repository is the persistence contract of the ledger.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Application, error)
	GetByID(ctx context.Context, id string) (Application, error)
	ListByProfessional(ctx context.Context, professionalID string) ([]Summary, error)
	ListByVacancyOwner(ctx context.Context, ownerUserID string) ([]Received, error)
	UpdateStatus(ctx context.Context, params UpdateStatusParams) (StatusChange, error)
	Delete(ctx context.Context, id, professionalID string) error
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const applicationColumns = `a.id::text, a.professional_id::text, a.vacancy_id::text, a.submitted_at, a.attachment_ref, a.status`

// Create inserts the application only when the vacancy exists. A second row
// for the same professional and vacancy fails with ErrConflict.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Application, error) {
	const query = `
		INSERT INTO applications AS a (id, professional_id, vacancy_id, submitted_at, attachment_ref, status)
		SELECT $1, $2, v.id, $4, $5, $6
		FROM vacancies v
		WHERE v.id = $3
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.pool.QueryRow(ctx, query,
		params.ID,
		params.ProfessionalID,
		params.VacancyID,
		params.SubmittedAt,
		params.AttachmentRef,
		string(params.Status),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, ErrVacancyNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Application{}, ErrConflict
			case "23503":
				return Application{}, ErrVacancyNotFound
			}
		}
		return Application{}, fmt.Errorf("application: create: %w", err)
	}
	return app, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications a WHERE a.id = $1`

	app, err := scanApplication(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, fmt.Errorf("application: get: %w", err)
	}
	return app, nil
}

func (r *PGRepository) ListByProfessional(ctx context.Context, professionalID string) ([]Summary, error) {
	const query = `
		SELECT ` + applicationColumns + `, v.title, v.institution_name
		FROM applications a
		JOIN vacancies v ON v.id = a.vacancy_id
		WHERE a.professional_id = $1
		ORDER BY a.submitted_at DESC, a.id
	`

	rows, err := r.pool.Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("application: list by professional: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0, 8)
	for rows.Next() {
		var (
			s      Summary
			status string
		)
		if err := rows.Scan(&s.ID, &s.ProfessionalID, &s.VacancyID, &s.SubmittedAt, &s.AttachmentRef, &status, &s.VacancyTitle, &s.InstitutionName); err != nil {
			return nil, fmt.Errorf("application: scan summary: %w", err)
		}
		s.Status = Status(status)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("application: iterate summaries: %w", err)
	}
	return out, nil
}

// ListByVacancyOwner returns applications across every vacancy the owner
// holds. Owners without vacancies get an empty slice.
func (r *PGRepository) ListByVacancyOwner(ctx context.Context, ownerUserID string) ([]Received, error) {
	const query = `
		SELECT ` + applicationColumns + `, v.title, COALESCE(u.full_name, ''), COALESCE(u.email, '')
		FROM applications a
		JOIN vacancies v ON v.id = a.vacancy_id
		LEFT JOIN users u ON u.id = a.professional_id
		WHERE v.owner_user_id = $1
		ORDER BY a.submitted_at DESC, a.id
	`

	rows, err := r.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("application: list by owner: %w", err)
	}
	defer rows.Close()

	out := make([]Received, 0, 8)
	for rows.Next() {
		var (
			rec    Received
			status string
		)
		if err := rows.Scan(&rec.ID, &rec.ProfessionalID, &rec.VacancyID, &rec.SubmittedAt, &rec.AttachmentRef, &status, &rec.VacancyTitle, &rec.ApplicantName, &rec.ApplicantEmail); err != nil {
			return nil, fmt.Errorf("application: scan received: %w", err)
		}
		rec.Status = Status(status)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("application: iterate received: %w", err)
	}
	return out, nil
}

// UpdateStatus overwrites the status under a row lock after checking that the
// requester owns the vacancy.
func (r *PGRepository) UpdateStatus(ctx context.Context, params UpdateStatusParams) (StatusChange, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return StatusChange{}, fmt.Errorf("application: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		change StatusChange
		status string
	)
	err = tx.QueryRow(ctx, `
		SELECT `+applicationColumns+`, v.title, v.owner_user_id::text
		FROM applications a
		JOIN vacancies v ON v.id = a.vacancy_id
		WHERE a.id = $1
		FOR UPDATE OF a
	`, params.ApplicationID).Scan(
		&change.ID, &change.ProfessionalID, &change.VacancyID, &change.SubmittedAt, &change.AttachmentRef, &status,
		&change.VacancyTitle, &change.VacancyOwnerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StatusChange{}, ErrNotFound
		}
		return StatusChange{}, fmt.Errorf("application: fetch for update: %w", err)
	}
	if change.VacancyOwnerID != params.OwnerUserID {
		return StatusChange{}, ErrForbidden
	}

	if _, err := tx.Exec(ctx, `UPDATE applications SET status = $1 WHERE id = $2`, string(params.Status), params.ApplicationID); err != nil {
		return StatusChange{}, fmt.Errorf("application: update status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return StatusChange{}, fmt.Errorf("application: commit status: %w", err)
	}

	change.Previous = Status(status)
	change.Status = params.Status
	return change, nil
}

// Delete removes the application when professionalID submitted it.
func (r *PGRepository) Delete(ctx context.Context, id, professionalID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1 AND professional_id = $2`, id, professionalID)
	if err != nil {
		return fmt.Errorf("application: delete: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("application: delete check: %w", err)
	}
	if exists {
		return ErrForbidden
	}
	return ErrNotFound
}

// DeleteAllForVacancy removes every application of the vacancy inside tx.
// Running it twice is harmless.
func (r *PGRepository) DeleteAllForVacancy(ctx context.Context, tx pgx.Tx, vacancyID string) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM applications WHERE vacancy_id = $1`, vacancyID)
	if err != nil {
		return 0, fmt.Errorf("application: delete for vacancy: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanApplication(row pgx.Row) (Application, error) {
	var (
		app    Application
		status string
	)
	if err := row.Scan(&app.ID, &app.ProfessionalID, &app.VacancyID, &app.SubmittedAt, &app.AttachmentRef, &status); err != nil {
		return Application{}, err
	}
	app.Status = Status(status)
	return app, nil
}
