package main

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"jobboard/application"
	"jobboard/auth"
	"jobboard/lifecycle"
	"jobboard/notification"
	"jobboard/vacancy"
)

const maxJSONBody = 1 << 20

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type vacancyResponse struct {
	ID              string    `json:"id"`
	OwnerUserID     string    `json:"owner_user_id"`
	Title           string    `json:"title"`
	InstitutionName string    `json:"institution_name"`
	Description     string    `json:"description"`
	Keywords        []string  `json:"keywords"`
	CreatedAt       time.Time `json:"created_at"`
}

type applicationResponse struct {
	ID              string             `json:"id"`
	ProfessionalID  string             `json:"professional_id"`
	VacancyID       string             `json:"vacancy_id"`
	Status          application.Status `json:"status"`
	SubmittedAt     time.Time          `json:"submitted_at"`
	AttachmentRef   *string            `json:"attachment_ref,omitempty"`
	VacancyTitle    string             `json:"vacancy_title"`
	InstitutionName string             `json:"institution_name,omitempty"`
	ApplicantName   string             `json:"applicant_name,omitempty"`
	ApplicantEmail  string             `json:"applicant_email,omitempty"`
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	TargetURL string    `json:"target_url"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func toUserResponse(u auth.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role, CreatedAt: u.CreatedAt}
}

func toVacancyResponse(v vacancy.Vacancy) vacancyResponse {
	keywords := v.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return vacancyResponse{
		ID:              v.ID,
		OwnerUserID:     v.OwnerUserID,
		Title:           v.Title,
		InstitutionName: v.InstitutionName,
		Description:     v.Description,
		Keywords:        keywords,
		CreatedAt:       v.CreatedAt,
	}
}

func toNotificationResponse(n notification.Notification) notificationResponse {
	return notificationResponse{ID: n.ID, Message: n.Message, TargetURL: n.TargetURL, Read: n.Read, CreatedAt: n.CreatedAt}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := s.authService.Register(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(*user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := s.authService.Login(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: result.Token, User: toUserResponse(result.User)})
}

func (s *Server) handleListVacancies(w http.ResponseWriter, r *http.Request) {
	filter := vacancy.ListFilter{
		Query:       strings.TrimSpace(r.URL.Query().Get("q")),
		OwnerUserID: strings.TrimSpace(r.URL.Query().Get("owner")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	items, err := s.vacancyService.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := make([]vacancyResponse, 0, len(items))
	for _, v := range items {
		resp = append(resp, toVacancyResponse(v))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetVacancy(w http.ResponseWriter, r *http.Request) {
	v, err := s.vacancyService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVacancyResponse(v))
}

func (s *Server) handleCreateVacancy(w http.ResponseWriter, r *http.Request) {
	owner, ok := caller(r).Institution()
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden", "only institutions can publish vacancies")
		return
	}
	var params vacancy.CreateParams
	if !decodeJSON(w, r, &params) {
		return
	}
	v, err := s.vacancyService.Create(r.Context(), owner, params)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVacancyResponse(v))
}

func (s *Server) handleDeleteVacancy(w http.ResponseWriter, r *http.Request) {
	owner, ok := caller(r).Institution()
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden", "only institutions can delete vacancies")
		return
	}
	removed, err := s.vacancyService.Delete(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"applications_removed": removed})
}

// handleSubmitApplication accepts an optional multipart "cv" file alongside
// the submission. Bodies without multipart content submit with no attachment.
func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	id := caller(r)
	if _, ok := id.Professional(); !ok {
		writeError(w, http.StatusForbidden, "forbidden", "only professionals can apply")
		return
	}
	vacancyID := chi.URLParam(r, "vacancyId")

	if s.limiter != nil && !s.limiter.Allow(r.Context(), "apply:"+vacancyID+":"+id.UserID, s.submitLimit, s.submitWindow) {
		s.metrics.IncrementRateLimited()
		w.Header().Set("Retry-After", strconv.Itoa(int(s.submitWindow.Seconds())))
		writeError(w, http.StatusTooManyRequests, "rate_limited", "too many submissions, try again later")
		return
	}

	ref, ok := s.saveAttachment(w, r)
	if !ok {
		return
	}

	appID, err := s.lifecycleService.Submit(r.Context(), id, vacancyID, ref)
	if err != nil {
		if ref != nil {
			if rmErr := s.attachments.Remove(*ref); rmErr != nil {
				s.logger.WarnContext(r.Context(), "attachment cleanup failed", "ref", *ref, "error", rmErr)
			}
		}
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": appID, "status": string(application.StatusSubmitted)})
}

func (s *Server) saveAttachment(w http.ResponseWriter, r *http.Request) (*string, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" || s.attachments == nil {
		return nil, true
	}

	// Allow headroom for multipart framing on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.attachments.MaxBytes()+64<<10)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "attachment exceeds the size limit")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "bad_request", "invalid multipart body")
		return nil, false
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("cv")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid cv field")
		return nil, false
	}
	defer file.Close()

	ref, err := s.attachments.Save(r.Context(), header.Filename, file)
	if err != nil {
		s.writeServiceError(w, r, err)
		return nil, false
	}
	return ref, true
}

func (s *Server) handleListOwnApplications(w http.ResponseWriter, r *http.Request) {
	items, err := s.lifecycleService.ListOwn(r.Context(), caller(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := make([]applicationResponse, 0, len(items))
	for _, a := range items {
		resp = append(resp, applicationResponse{
			ID:              a.ID,
			ProfessionalID:  a.ProfessionalID,
			VacancyID:       a.VacancyID,
			Status:          a.Status,
			SubmittedAt:     a.SubmittedAt,
			AttachmentRef:   a.AttachmentRef,
			VacancyTitle:    a.VacancyTitle,
			InstitutionName: a.InstitutionName,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdrawApplication(w http.ResponseWriter, r *http.Request) {
	if err := s.lifecycleService.Withdraw(r.Context(), caller(r), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListReceivedApplications(w http.ResponseWriter, r *http.Request) {
	items, err := s.lifecycleService.ListReceived(r.Context(), caller(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := make([]applicationResponse, 0, len(items))
	for _, a := range items {
		resp = append(resp, applicationResponse{
			ID:             a.ID,
			ProfessionalID: a.ProfessionalID,
			VacancyID:      a.VacancyID,
			Status:         a.Status,
			SubmittedAt:    a.SubmittedAt,
			AttachmentRef:  a.AttachmentRef,
			VacancyTitle:   a.VacancyTitle,
			ApplicantName:  a.ApplicantName,
			ApplicantEmail: a.ApplicantEmail,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransitionStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	appID := chi.URLParam(r, "id")
	status, err := s.lifecycleService.Transition(r.Context(), caller(r), appID, req.Status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": appID, "status": string(status)})
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	inbox, err := s.lifecycleService.Notifications(r.Context(), caller(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	items := make([]notificationResponse, 0, len(inbox.Items))
	for _, n := range inbox.Items {
		items = append(items, toNotificationResponse(n))
	}
	writeJSON(w, http.StatusOK, struct {
		Items  []notificationResponse `json:"items"`
		Unread int                    `json:"unread"`
	}{Items: items, Unread: inbox.Unread})
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.lifecycleService.UnreadCount(r.Context(), caller(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	n, err := s.lifecycleService.MarkNotificationRead(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationResponse(n))
}

var _ lifecycleService = (*lifecycle.Service)(nil)
