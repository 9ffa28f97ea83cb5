package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"jobboard/application"
	"jobboard/auth"
	"jobboard/metrics"
	"jobboard/notification"
	"jobboard/vacancy"
)

//go:generate mockgen -source=service.go -destination=mocks/lifecycle_mocks.go -package=mocks

// ErrForbidden signals that the caller's role may not perform the operation.
var ErrForbidden = errors.New("lifecycle: forbidden for caller role")

const (
	// InstitutionInboxURL is where institutions review received applications.
	InstitutionInboxURL = "/institucion/postulaciones"
	// ProfessionalTrackingURL is where professionals follow their applications.
	ProfessionalTrackingURL = "/postulaciones"
)

type VacancyDirectory interface {
	GetByID(ctx context.Context, id string) (vacancy.Vacancy, error)
}

type Ledger interface {
	Create(ctx context.Context, professionalID, vacancyID string, attachmentRef *string) (application.Application, error)
	ListByProfessional(ctx context.Context, professionalID string) ([]application.Summary, error)
	ListByVacancyOwner(ctx context.Context, ownerUserID string) ([]application.Received, error)
	UpdateStatus(ctx context.Context, applicationID string, status application.Status, ownerUserID string) (application.StatusChange, error)
	Delete(ctx context.Context, applicationID, professionalID string) error
}

type Outbox interface {
	Append(ctx context.Context, recipientUserID, message, targetURL string) (notification.Notification, error)
	ListForRecipient(ctx context.Context, recipientUserID string) ([]notification.Notification, error)
	CountUnread(ctx context.Context, recipientUserID string) (int, error)
	MarkRead(ctx context.Context, id, requestingUserID string) (notification.Notification, error)
}

// Service coordinates the ledger and the outbox for each lifecycle event.
// The ledger write always lands first; a failed notification is logged and
// never undoes it.
type Service struct {
	vacancies VacancyDirectory
	ledger    Ledger
	outbox    Outbox
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(vacancies VacancyDirectory, ledger Ledger, outbox Outbox, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		vacancies: vacancies,
		ledger:    ledger,
		outbox:    outbox,
		logger:    logger.With("component", "lifecycle"),
		metrics:   m,
	}
}

// Submit records the caller's application to vacancyID and tells the vacancy
// owner about it. It returns the new application id.
func (s *Service) Submit(ctx context.Context, caller auth.Identity, vacancyID string, attachmentRef *string) (string, error) {
	professional, ok := caller.Professional()
	if !ok {
		return "", ErrForbidden
	}

	v, err := s.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		return "", err
	}

	app, err := s.ledger.Create(ctx, professional.UserID, v.ID, attachmentRef)
	if err != nil {
		if errors.Is(err, application.ErrConflict) {
			s.metrics.IncrementConflict()
		}
		return "", err
	}
	s.metrics.IncrementSubmitted()

	s.notify(ctx, v.OwnerUserID, SubmissionMessage(v.Title), InstitutionInboxURL, "application_id", app.ID)
	return app.ID, nil
}

// Transition overwrites the status of an application on one of the caller's
// vacancies and tells the applicant. Every committed write notifies, including
// a write of the current status.
func (s *Service) Transition(ctx context.Context, caller auth.Identity, applicationID, rawStatus string) (application.Status, error) {
	institution, ok := caller.Institution()
	if !ok {
		return "", ErrForbidden
	}

	status, err := application.ParseStatus(rawStatus)
	if err != nil {
		return "", err
	}

	change, err := s.ledger.UpdateStatus(ctx, applicationID, status, institution.UserID)
	if err != nil {
		return "", err
	}
	s.metrics.IncrementTransition(string(change.Status))

	s.notify(ctx, change.ProfessionalID, TransitionMessage(change.VacancyTitle, change.Status), ProfessionalTrackingURL,
		"application_id", change.ID, "previous_status", string(change.Previous))
	return change.Status, nil
}

// ListOwn returns the caller's applications.
func (s *Service) ListOwn(ctx context.Context, caller auth.Identity) ([]application.Summary, error) {
	professional, ok := caller.Professional()
	if !ok {
		return nil, ErrForbidden
	}
	return s.ledger.ListByProfessional(ctx, professional.UserID)
}

// Withdraw deletes one of the caller's applications. No notification is sent.
func (s *Service) Withdraw(ctx context.Context, caller auth.Identity, applicationID string) error {
	professional, ok := caller.Professional()
	if !ok {
		return ErrForbidden
	}
	return s.ledger.Delete(ctx, applicationID, professional.UserID)
}

// ListReceived returns applications to every vacancy the caller owns.
func (s *Service) ListReceived(ctx context.Context, caller auth.Identity) ([]application.Received, error) {
	institution, ok := caller.Institution()
	if !ok {
		return nil, ErrForbidden
	}
	return s.ledger.ListByVacancyOwner(ctx, institution.UserID)
}

// Inbox is the caller's notification feed.
type Inbox struct {
	Items  []notification.Notification
	Unread int
}

// Notifications returns the caller's notifications newest first.
func (s *Service) Notifications(ctx context.Context, caller auth.Identity) (Inbox, error) {
	items, err := s.outbox.ListForRecipient(ctx, caller.UserID)
	if err != nil {
		return Inbox{}, err
	}
	unread := 0
	for _, n := range items {
		if !n.Read {
			unread++
		}
	}
	return Inbox{Items: items, Unread: unread}, nil
}

// UnreadCount returns how many of the caller's notifications are unread.
func (s *Service) UnreadCount(ctx context.Context, caller auth.Identity) (int, error) {
	return s.outbox.CountUnread(ctx, caller.UserID)
}

// MarkNotificationRead flags one of the caller's notifications as read.
func (s *Service) MarkNotificationRead(ctx context.Context, caller auth.Identity, notificationID string) (notification.Notification, error) {
	return s.outbox.MarkRead(ctx, notificationID, caller.UserID)
}

func (s *Service) notify(ctx context.Context, recipientID, message, targetURL string, attrs ...any) {
	if _, err := s.outbox.Append(ctx, recipientID, message, targetURL); err != nil {
		s.metrics.IncrementNotificationFailed()
		args := append([]any{"recipient_id", recipientID, "target_url", targetURL, "error", err}, attrs...)
		s.logger.WarnContext(ctx, "notification append failed", args...)
		return
	}
	s.metrics.IncrementNotificationAppended()
}

// SubmissionMessage is the text sent to a vacancy owner on a new application.
func SubmissionMessage(vacancyTitle string) string {
	return fmt.Sprintf("New application received for %q", vacancyTitle)
}

// TransitionMessage is the text sent to an applicant when their status changes.
func TransitionMessage(vacancyTitle string, status application.Status) string {
	return fmt.Sprintf("Your application for %q is now %s", vacancyTitle, status)
}
