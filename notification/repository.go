package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound covers both a missing notification and one addressed to someone else.
var ErrNotFound = errors.New("notification: not found")

type Repository interface {
	Append(ctx context.Context, params AppendParams) (Notification, error)
	ListForRecipient(ctx context.Context, recipientUserID string) ([]Notification, error)
	MarkRead(ctx context.Context, id, recipientUserID string) (Notification, error)
	CountUnread(ctx context.Context, recipientUserID string) (int, error)
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const notificationColumns = `id::text, recipient_user_id::text, message, target_url, read, created_at`

func (r *PGRepository) Append(ctx context.Context, params AppendParams) (Notification, error) {
	const query = `
		INSERT INTO notifications (id, recipient_user_id, message, target_url, read, created_at)
		VALUES ($1, $2, $3, $4, false, $5)
		RETURNING ` + notificationColumns

	n, err := scanNotification(r.pool.QueryRow(ctx, query,
		params.ID, params.RecipientUserID, params.Message, params.TargetURL, params.CreatedAt,
	))
	if err != nil {
		return Notification{}, fmt.Errorf("notification: append: %w", err)
	}
	return n, nil
}

// ListForRecipient returns the recipient's notifications, newest first.
func (r *PGRepository) ListForRecipient(ctx context.Context, recipientUserID string) ([]Notification, error) {
	const query = `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE recipient_user_id = $1
		ORDER BY created_at DESC, seq DESC
	`

	rows, err := r.pool.Query(ctx, query, recipientUserID)
	if err != nil {
		return nil, fmt.Errorf("notification: list: %w", err)
	}
	defer rows.Close()

	out := make([]Notification, 0, 16)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("notification: scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notification: iterate: %w", err)
	}
	return out, nil
}

func (r *PGRepository) MarkRead(ctx context.Context, id, recipientUserID string) (Notification, error) {
	const query = `
		UPDATE notifications
		SET read = true
		WHERE id = $1 AND recipient_user_id = $2
		RETURNING ` + notificationColumns

	n, err := scanNotification(r.pool.QueryRow(ctx, query, id, recipientUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Notification{}, ErrNotFound
		}
		return Notification{}, fmt.Errorf("notification: mark read: %w", err)
	}
	return n, nil
}

func (r *PGRepository) CountUnread(ctx context.Context, recipientUserID string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE recipient_user_id = $1 AND NOT read`, recipientUserID).Scan(&n); err != nil {
		return 0, fmt.Errorf("notification: count unread: %w", err)
	}
	return n, nil
}

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	if err := row.Scan(&n.ID, &n.RecipientUserID, &n.Message, &n.TargetURL, &n.Read, &n.CreatedAt); err != nil {
		return Notification{}, err
	}
	return n, nil
}
