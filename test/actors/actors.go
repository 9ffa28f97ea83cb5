package actors

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"jobboard/application"
	"jobboard/auth"
	"jobboard/lifecycle"
	"jobboard/notification"
	"jobboard/vacancy"
)

// Stats counts actor outcomes. Unexpected holds errors outside each actor's
// expected set; under chaos those are mostly dropped connections.
type Stats struct {
	Submitted   atomic.Int64
	Conflicts   atomic.Int64
	Transitions atomic.Int64
	Withdrawn   atomic.Int64
	Reaped      atomic.Int64
	MarkedRead  atomic.Int64
	Unexpected  atomic.Int64

	mu        sync.Mutex
	lastError error
}

func (s *Stats) unexpected(err error) {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	s.Unexpected.Add(1)
	s.mu.Lock()
	s.lastError = err
	s.mu.Unlock()
}

// LastError returns the most recent unexpected error.
func (s *Stats) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Board is the shared set of live vacancy ids.
type Board struct {
	mu  sync.Mutex
	ids []string
}

func NewBoard(ids ...string) *Board {
	return &Board{ids: append([]string(nil), ids...)}
}

func (b *Board) pick() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.ids) == 0 {
		return "", false
	}
	return b.ids[rand.Intn(len(b.ids))], true
}

func (b *Board) replace(old, next string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, id := range b.ids {
		if id == old {
			b.ids[i] = next
			return
		}
	}
	b.ids = append(b.ids, next)
}

func stopped(ctx context.Context, stop <-chan struct{}) bool {
	select {
	case <-ctx.Done():
		return true
	case <-stop:
		return true
	default:
		return false
	}
}

func pause(minMS, spreadMS int) {
	time.Sleep(time.Duration(minMS+rand.Intn(spreadMS)) * time.Millisecond)
}

// Submitter applies to random vacancies as prof. Several submitters sharing
// one professional race on the same (professional, vacancy) pair.
func Submitter(ctx context.Context, svc *lifecycle.Service, prof auth.Identity, board *Board, stats *Stats, stop <-chan struct{}) error {
	for !stopped(ctx, stop) {
		vacancyID, ok := board.pick()
		if !ok {
			pause(10, 20)
			continue
		}
		_, err := svc.Submit(ctx, prof, vacancyID, nil)
		switch {
		case err == nil:
			stats.Submitted.Add(1)
		case errors.Is(err, application.ErrConflict):
			stats.Conflicts.Add(1)
		case errors.Is(err, application.ErrVacancyNotFound), errors.Is(err, vacancy.ErrNotFound):
		default:
			stats.unexpected(err)
		}
		pause(5, 20)
	}
	return nil
}

// Reviewer moves applications received by inst to random statuses.
func Reviewer(ctx context.Context, svc *lifecycle.Service, inst auth.Identity, stats *Stats, stop <-chan struct{}) error {
	statuses := application.Statuses()
	for !stopped(ctx, stop) {
		received, err := svc.ListReceived(ctx, inst)
		if err != nil {
			stats.unexpected(err)
			pause(20, 40)
			continue
		}
		if len(received) > 0 {
			target := received[rand.Intn(len(received))]
			status := statuses[rand.Intn(len(statuses))]
			_, err := svc.Transition(ctx, inst, target.ID, string(status))
			switch {
			case err == nil:
				stats.Transitions.Add(1)
			case errors.Is(err, application.ErrNotFound):
			default:
				stats.unexpected(err)
			}
		}
		pause(15, 35)
	}
	return nil
}

// Withdrawer occasionally deletes one of prof's applications.
func Withdrawer(ctx context.Context, svc *lifecycle.Service, prof auth.Identity, stats *Stats, stop <-chan struct{}) error {
	for !stopped(ctx, stop) {
		own, err := svc.ListOwn(ctx, prof)
		if err != nil {
			stats.unexpected(err)
			pause(50, 100)
			continue
		}
		if len(own) > 0 && rand.Intn(3) == 0 {
			err := svc.Withdraw(ctx, prof, own[rand.Intn(len(own))].ID)
			switch {
			case err == nil:
				stats.Withdrawn.Add(1)
			case errors.Is(err, application.ErrNotFound):
			default:
				stats.unexpected(err)
			}
		}
		pause(50, 100)
	}
	return nil
}

// Reaper deletes a random vacancy owned by owner, cascading its
// applications, and publishes a replacement.
func Reaper(ctx context.Context, vacancies *vacancy.Service, owner auth.Institution, board *Board, stats *Stats, stop <-chan struct{}) error {
	for !stopped(ctx, stop) {
		pause(300, 400)
		old, ok := board.pick()
		if !ok {
			continue
		}
		if _, err := vacancies.Delete(ctx, owner, old); err != nil {
			if !errors.Is(err, vacancy.ErrNotFound) && !errors.Is(err, vacancy.ErrForbidden) {
				stats.unexpected(err)
			}
			continue
		}
		stats.Reaped.Add(1)

		next, err := vacancies.Create(ctx, owner, vacancy.CreateParams{
			Title:           "Replacement " + old[:8],
			InstitutionName: "Stress Clinic",
		})
		if err != nil {
			stats.unexpected(err)
			continue
		}
		board.replace(old, next.ID)
	}
	return nil
}

// Reader marks the unread notifications of id as read.
func Reader(ctx context.Context, svc *lifecycle.Service, id auth.Identity, stats *Stats, stop <-chan struct{}) error {
	for !stopped(ctx, stop) {
		inbox, err := svc.Notifications(ctx, id)
		if err != nil {
			stats.unexpected(err)
			pause(50, 50)
			continue
		}
		for _, n := range inbox.Items {
			if n.Read {
				continue
			}
			if _, err := svc.MarkNotificationRead(ctx, id, n.ID); err != nil && !errors.Is(err, notification.ErrNotFound) {
				stats.unexpected(err)
				continue
			}
			stats.MarkedRead.Add(1)
		}
		pause(40, 60)
	}
	return nil
}
