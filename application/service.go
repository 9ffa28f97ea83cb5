package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service is the application ledger.
type Service struct {
	repo        Repository
	idGenerator func() string
	now         func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:        repo,
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

// Create records a new Submitted application.
func (s *Service) Create(ctx context.Context, professionalID, vacancyID string, attachmentRef *string) (Application, error) {
	if professionalID == "" {
		return Application{}, errors.New("application: missing professional id")
	}
	if !validID(vacancyID) {
		return Application{}, ErrVacancyNotFound
	}

	return s.repo.Create(ctx, CreateParams{
		ID:             s.idGenerator(),
		ProfessionalID: professionalID,
		VacancyID:      vacancyID,
		SubmittedAt:    s.now().UTC(),
		AttachmentRef:  attachmentRef,
		Status:         StatusSubmitted,
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (Application, error) {
	if !validID(id) {
		return Application{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByProfessional(ctx context.Context, professionalID string) ([]Summary, error) {
	return s.repo.ListByProfessional(ctx, professionalID)
}

func (s *Service) ListByVacancyOwner(ctx context.Context, ownerUserID string) ([]Received, error) {
	return s.repo.ListByVacancyOwner(ctx, ownerUserID)
}

// UpdateStatus overwrites the status of an application on a vacancy owned by
// ownerUserID. Any recognised status may replace any other.
func (s *Service) UpdateStatus(ctx context.Context, applicationID string, status Status, ownerUserID string) (StatusChange, error) {
	parsed, err := ParseStatus(string(status))
	if err != nil {
		return StatusChange{}, err
	}
	if !validID(applicationID) {
		return StatusChange{}, ErrNotFound
	}
	return s.repo.UpdateStatus(ctx, UpdateStatusParams{
		ApplicationID: applicationID,
		Status:        parsed,
		OwnerUserID:   ownerUserID,
	})
}

// Delete removes an application submitted by professionalID.
func (s *Service) Delete(ctx context.Context, applicationID, professionalID string) error {
	if !validID(applicationID) {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, applicationID, professionalID)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
