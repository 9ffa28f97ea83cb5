package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service is the notification outbox.
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

// Append stores an unread notification for recipientUserID.
func (s *Service) Append(ctx context.Context, recipientUserID, message, targetURL string) (Notification, error) {
	if recipientUserID == "" || message == "" {
		return Notification{}, errors.New("notification: recipient and message are required")
	}
	return s.repo.Append(ctx, AppendParams{
		ID:              s.idGenerator(),
		RecipientUserID: recipientUserID,
		Message:         message,
		TargetURL:       targetURL,
		CreatedAt:       s.now().UTC(),
	})
}

func (s *Service) ListForRecipient(ctx context.Context, recipientUserID string) ([]Notification, error) {
	return s.repo.ListForRecipient(ctx, recipientUserID)
}

func (s *Service) CountUnread(ctx context.Context, recipientUserID string) (int, error) {
	return s.repo.CountUnread(ctx, recipientUserID)
}

// MarkRead flags the notification as read. It is idempotent for the recipient
// and reports ErrNotFound to everyone else.
func (s *Service) MarkRead(ctx context.Context, id, requestingUserID string) (Notification, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Notification{}, ErrNotFound
	}
	return s.repo.MarkRead(ctx, id, requestingUserID)
}
