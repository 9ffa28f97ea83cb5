package vacancy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/auth"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrInvalidInput signals missing vacancy fields.
var ErrInvalidInput = errors.New("vacancy: title and institution_name are required")

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store is the data access used by Service.
type Store interface {
	Create(ctx context.Context, v Vacancy) (Vacancy, error)
	GetByID(ctx context.Context, id string) (Vacancy, error)
	List(ctx context.Context, filter ListFilter) ([]Vacancy, error)
	LockForDelete(ctx context.Context, tx pgx.Tx, id string) (Vacancy, error)
	Delete(ctx context.Context, tx pgx.Tx, id string) error
}

// ApplicationPurger removes every application that references a vacancy.
type ApplicationPurger interface {
	DeleteAllForVacancy(ctx context.Context, tx pgx.Tx, vacancyID string) (int64, error)
}

// Service exposes the vacancy directory.
type Service struct {
	pool        TxBeginner
	repo        Store
	purger      ApplicationPurger
	idGenerator func() string
	now         func() time.Time
}

// NewService builds a Service using the provided repository.
func NewService(pool TxBeginner, repo Store, purger ApplicationPurger) *Service {
	return &Service{
		pool:        pool,
		repo:        repo,
		purger:      purger,
		idGenerator: uuid.NewString,
		now:         time.Now,
	}
}

func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create publishes a vacancy owned by the institution.
func (s *Service) Create(ctx context.Context, owner auth.Institution, params CreateParams) (Vacancy, error) {
	title := strings.TrimSpace(params.Title)
	institution := strings.TrimSpace(params.InstitutionName)
	if title == "" || institution == "" {
		return Vacancy{}, ErrInvalidInput
	}

	keywords := make([]string, 0, len(params.Keywords))
	for _, k := range params.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	return s.repo.Create(ctx, Vacancy{
		ID:              s.idGenerator(),
		OwnerUserID:     owner.UserID,
		Title:           title,
		InstitutionName: institution,
		Description:     strings.TrimSpace(params.Description),
		Keywords:        keywords,
		CreatedAt:       s.now().UTC(),
	})
}

// GetByID resolves a vacancy. Malformed ids are reported as ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (Vacancy, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Vacancy{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// List returns vacancies matching filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Vacancy, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.List(ctx, filter)
}

// Delete removes a vacancy owned by the institution along with every
// application submitted to it. It returns how many applications were removed.
func (s *Service) Delete(ctx context.Context, owner auth.Institution, id string) (int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, ErrNotFound
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("vacancy: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	v, err := s.repo.LockForDelete(ctx, tx, id)
	if err != nil {
		return 0, err
	}
	if v.OwnerUserID != owner.UserID {
		return 0, ErrForbidden
	}

	removed, err := s.purger.DeleteAllForVacancy(ctx, tx, id)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Delete(ctx, tx, id); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("vacancy: commit delete: %w", err)
	}
	return removed, nil
}
