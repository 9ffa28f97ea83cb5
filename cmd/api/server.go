package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobboard/application"
	"jobboard/auth"
	"jobboard/lifecycle"
	"jobboard/metrics"
	"jobboard/notification"
	"jobboard/ratelimit"
	"jobboard/vacancy"
)

type authService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResult, error)
	VerifyToken(token string) (auth.Identity, error)
}

type vacancyService interface {
	Create(ctx context.Context, owner auth.Institution, params vacancy.CreateParams) (vacancy.Vacancy, error)
	GetByID(ctx context.Context, id string) (vacancy.Vacancy, error)
	List(ctx context.Context, filter vacancy.ListFilter) ([]vacancy.Vacancy, error)
	Delete(ctx context.Context, owner auth.Institution, id string) (int64, error)
}

type lifecycleService interface {
	Submit(ctx context.Context, caller auth.Identity, vacancyID string, attachmentRef *string) (string, error)
	Transition(ctx context.Context, caller auth.Identity, applicationID, rawStatus string) (application.Status, error)
	ListOwn(ctx context.Context, caller auth.Identity) ([]application.Summary, error)
	Withdraw(ctx context.Context, caller auth.Identity, applicationID string) error
	ListReceived(ctx context.Context, caller auth.Identity) ([]application.Received, error)
	Notifications(ctx context.Context, caller auth.Identity) (lifecycle.Inbox, error)
	UnreadCount(ctx context.Context, caller auth.Identity) (int, error)
	MarkNotificationRead(ctx context.Context, caller auth.Identity, notificationID string) (notification.Notification, error)
}

type attachmentStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (*string, error)
	Remove(ref string) error
	MaxBytes() int64
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Server bundles the HTTP handlers and their collaborators.
type Server struct {
	authService      authService
	vacancyService   vacancyService
	lifecycleService lifecycleService
	attachments      attachmentStore
	limiter          ratelimit.Limiter
	submitLimit      int
	submitWindow     time.Duration
	requestTimeout   time.Duration
	db               pinger
	gatherer         prometheus.Gatherer
	metrics          *metrics.Metrics
	logger           *slog.Logger
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverer)
	r.Use(s.requestID)
	r.Use(s.accessLog)
	if s.requestTimeout > 0 {
		r.Use(s.timeout(s.requestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Get("/vacantes", s.handleListVacancies)
	r.Get("/vacantes/{id}", s.handleGetVacancy)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/vacantes", s.handleCreateVacancy)
		r.Delete("/vacantes/{id}", s.handleDeleteVacancy)

		r.Post("/postular/{vacancyId}", s.handleSubmitApplication)
		r.Get("/postulaciones", s.handleListOwnApplications)
		r.Delete("/postulaciones/{id}", s.handleWithdrawApplication)
		r.Put("/postulaciones/{id}/estado", s.handleTransitionStatus)
		r.Get("/institucion/postulaciones", s.handleListReceivedApplications)

		r.Get("/notificaciones", s.handleListNotifications)
		r.Get("/notificaciones/no-leidas", s.handleUnreadCount)
		r.Put("/notificaciones/{id}/leida", s.handleMarkNotificationRead)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			s.logger.ErrorContext(ctx, "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
