package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobboard/application"
	"jobboard/attachment"
	"jobboard/auth"
	"jobboard/lifecycle"
	"jobboard/logging"
	"jobboard/notification"
	"jobboard/ratelimit"
	"jobboard/vacancy"
)

const (
	professionalToken = "prof-token"
	institutionToken  = "inst-token"
)

type stubAuthService struct {
	registered  *auth.User
	registerErr error
	login       auth.LoginResult
	loginErr    error
}

func (s *stubAuthService) Register(_ context.Context, _ auth.RegisterRequest) (*auth.User, error) {
	return s.registered, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, _ auth.LoginRequest) (auth.LoginResult, error) {
	return s.login, s.loginErr
}

func (s *stubAuthService) VerifyToken(token string) (auth.Identity, error) {
	switch token {
	case professionalToken:
		return auth.Identity{UserID: "p1", Role: auth.RoleProfessional}, nil
	case institutionToken:
		return auth.Identity{UserID: "i1", Role: auth.RoleInstitution}, nil
	}
	return auth.Identity{}, auth.ErrInvalidToken
}

type stubVacancyService struct {
	vacancy   vacancy.Vacancy
	vacancies []vacancy.Vacancy
	err       error
	filter    vacancy.ListFilter
	removed   int64
}

func (s *stubVacancyService) Create(_ context.Context, owner auth.Institution, params vacancy.CreateParams) (vacancy.Vacancy, error) {
	if s.err != nil {
		return vacancy.Vacancy{}, s.err
	}
	return vacancy.Vacancy{ID: "v-new", OwnerUserID: owner.UserID, Title: params.Title, InstitutionName: params.InstitutionName}, nil
}

func (s *stubVacancyService) GetByID(_ context.Context, _ string) (vacancy.Vacancy, error) {
	return s.vacancy, s.err
}

func (s *stubVacancyService) List(_ context.Context, filter vacancy.ListFilter) ([]vacancy.Vacancy, error) {
	s.filter = filter
	return s.vacancies, s.err
}

func (s *stubVacancyService) Delete(_ context.Context, _ auth.Institution, _ string) (int64, error) {
	return s.removed, s.err
}

type stubLifecycleService struct {
	submitID      string
	submitErr     error
	submitCalls   int
	submittedRef  *string
	submittedTo   string
	status        application.Status
	transitionErr error
	own           []application.Summary
	received      []application.Received
	inbox         lifecycle.Inbox
	unread        int
	marked        notification.Notification
	markErr       error
	withdrawErr   error
}

func (s *stubLifecycleService) Submit(_ context.Context, _ auth.Identity, vacancyID string, ref *string) (string, error) {
	s.submitCalls++
	s.submittedTo = vacancyID
	s.submittedRef = ref
	return s.submitID, s.submitErr
}

func (s *stubLifecycleService) Transition(_ context.Context, _ auth.Identity, _, _ string) (application.Status, error) {
	return s.status, s.transitionErr
}

func (s *stubLifecycleService) ListOwn(_ context.Context, _ auth.Identity) ([]application.Summary, error) {
	return s.own, nil
}

func (s *stubLifecycleService) Withdraw(_ context.Context, _ auth.Identity, _ string) error {
	return s.withdrawErr
}

func (s *stubLifecycleService) ListReceived(_ context.Context, _ auth.Identity) ([]application.Received, error) {
	return s.received, nil
}

func (s *stubLifecycleService) Notifications(_ context.Context, _ auth.Identity) (lifecycle.Inbox, error) {
	return s.inbox, nil
}

func (s *stubLifecycleService) UnreadCount(_ context.Context, _ auth.Identity) (int, error) {
	return s.unread, nil
}

func (s *stubLifecycleService) MarkNotificationRead(_ context.Context, _ auth.Identity, _ string) (notification.Notification, error) {
	return s.marked, s.markErr
}

type stubAttachmentStore struct {
	saved    map[string]string
	removed  []string
	maxBytes int64
}

func (s *stubAttachmentStore) Save(_ context.Context, filename string, r io.Reader) (*string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > s.maxBytes {
		return nil, attachment.ErrTooLarge
	}
	if s.saved == nil {
		s.saved = map[string]string{}
	}
	ref := "ref-" + filename
	s.saved[ref] = string(body)
	return &ref, nil
}

func (s *stubAttachmentStore) Remove(ref string) error {
	s.removed = append(s.removed, ref)
	return nil
}

func (s *stubAttachmentStore) MaxBytes() int64 { return s.maxBytes }

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func newTestServer(lc *stubLifecycleService) *Server {
	return &Server{
		authService:      &stubAuthService{},
		vacancyService:   &stubVacancyService{},
		lifecycleService: lc,
		attachments:      &stubAttachmentStore{maxBytes: 1 << 10},
		limiter:          ratelimit.Noop{},
		logger:           logging.New(io.Discard, 0),
	}
}

func do(t *testing.T, s *Server, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func TestAuthenticate_MissingOrInvalidToken(t *testing.T) {
	server := newTestServer(&stubLifecycleService{})

	rec := do(t, server, http.MethodGet, "/postulaciones", "", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = do(t, server, http.MethodGet, "/postulaciones", "garbage", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "unauthorized" {
		t.Fatalf("unexpected error code %q", resp.Error)
	}
}

func TestSubmit_WithoutAttachment(t *testing.T) {
	lc := &stubLifecycleService{submitID: "a1"}
	server := newTestServer(lc)

	rec := do(t, server, http.MethodPost, "/postular/v1", professionalToken, nil, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if lc.submittedTo != "v1" || lc.submittedRef != nil {
		t.Fatalf("unexpected submit args: vacancy=%q ref=%v", lc.submittedTo, lc.submittedRef)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["id"] != "a1" || resp["status"] != "Submitted" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func multipartCV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("cv", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestSubmit_WithAttachment(t *testing.T) {
	lc := &stubLifecycleService{submitID: "a1"}
	server := newTestServer(lc)
	store := server.attachments.(*stubAttachmentStore)

	body, contentType := multipartCV(t, "cv.pdf", "%PDF-1.7")
	rec := do(t, server, http.MethodPost, "/postular/v1", professionalToken, body, contentType)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if lc.submittedRef == nil || *lc.submittedRef != "ref-cv.pdf" {
		t.Fatalf("expected attachment ref to reach Submit, got %v", lc.submittedRef)
	}
	if store.saved["ref-cv.pdf"] != "%PDF-1.7" {
		t.Fatalf("attachment content not stored: %+v", store.saved)
	}
}

func TestSubmit_ConflictRemovesAttachment(t *testing.T) {
	lc := &stubLifecycleService{submitErr: application.ErrConflict}
	server := newTestServer(lc)
	store := server.attachments.(*stubAttachmentStore)

	body, contentType := multipartCV(t, "cv.txt", "hello")
	rec := do(t, server, http.MethodPost, "/postular/v1", professionalToken, body, contentType)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "conflict" {
		t.Fatalf("unexpected error code %q", resp.Error)
	}
	if len(store.removed) != 1 || store.removed[0] != "ref-cv.txt" {
		t.Fatalf("expected orphaned attachment to be removed, got %v", store.removed)
	}
}

func TestSubmit_AttachmentTooLarge(t *testing.T) {
	lc := &stubLifecycleService{submitID: "a1"}
	server := newTestServer(lc)

	body, contentType := multipartCV(t, "cv.pdf", strings.Repeat("x", 2<<10))
	rec := do(t, server, http.MethodPost, "/postular/v1", professionalToken, body, contentType)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if lc.submitCalls != 0 {
		t.Fatalf("submit must not run after a rejected upload")
	}
}

func TestSubmit_InstitutionForbidden(t *testing.T) {
	lc := &stubLifecycleService{}
	server := newTestServer(lc)

	rec := do(t, server, http.MethodPost, "/postular/v1", institutionToken, nil, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if lc.submitCalls != 0 {
		t.Fatalf("submit must not run for institutions")
	}
}

func TestSubmit_VacancyNotFound(t *testing.T) {
	server := newTestServer(&stubLifecycleService{submitErr: application.ErrVacancyNotFound})

	rec := do(t, server, http.MethodPost, "/postular/missing", professionalToken, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSubmit_RateLimited(t *testing.T) {
	lc := &stubLifecycleService{submitID: "a1"}
	server := newTestServer(lc)
	server.limiter = ratelimit.NewMemory()
	server.submitLimit = 1
	server.submitWindow = time.Minute

	if rec := do(t, server, http.MethodPost, "/postular/v1", professionalToken, nil, ""); rec.Code != http.StatusCreated {
		t.Fatalf("expected first submit to pass, got %d", rec.Code)
	}
	rec := do(t, server, http.MethodPost, "/postular/v1", professionalToken, nil, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
	}
	if lc.submitCalls != 1 {
		t.Fatalf("expected one submit call, got %d", lc.submitCalls)
	}

	if rec := do(t, server, http.MethodPost, "/postular/v2", professionalToken, nil, ""); rec.Code != http.StatusCreated {
		t.Fatalf("limit is per vacancy, got %d", rec.Code)
	}
}

func TestTransition_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{"invalid status", application.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
		{"not owner", application.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"wrong role", lifecycle.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"missing", application.ErrNotFound, http.StatusNotFound, "not_found"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(&stubLifecycleService{transitionErr: tc.err})
			rec := do(t, server, http.MethodPut, "/postulaciones/a1/estado", institutionToken, strings.NewReader(`{"status":"Accepted"}`), "application/json")
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if resp := decodeError(t, rec); resp.Error != tc.kind {
				t.Fatalf("expected error %q, got %q", tc.kind, resp.Error)
			}
		})
	}
}

func TestTransition_Success(t *testing.T) {
	server := newTestServer(&stubLifecycleService{status: application.StatusAccepted})

	rec := do(t, server, http.MethodPut, "/postulaciones/a1/estado", institutionToken, strings.NewReader(`{"status":"accepted"}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "Accepted" {
		t.Fatalf("expected canonical status, got %q", resp["status"])
	}
}

func TestTransition_BadJSON(t *testing.T) {
	server := newTestServer(&stubLifecycleService{})
	rec := do(t, server, http.MethodPut, "/postulaciones/a1/estado", institutionToken, strings.NewReader(`{`), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListReceived(t *testing.T) {
	submitted := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	server := newTestServer(&stubLifecycleService{received: []application.Received{{
		Application:    application.Application{ID: "a1", ProfessionalID: "p1", VacancyID: "v1", Status: application.StatusUnderReview, SubmittedAt: submitted},
		VacancyTitle:   "Nurse",
		ApplicantName:  "Ana",
		ApplicantEmail: "ana@example.com",
	}}})

	rec := do(t, server, http.MethodGet, "/institucion/postulaciones", institutionToken, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp []applicationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ApplicantEmail != "ana@example.com" || resp[0].Status != application.StatusUnderReview {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestListOwn_EmptyIsArray(t *testing.T) {
	server := newTestServer(&stubLifecycleService{})
	rec := do(t, server, http.MethodGet, "/postulaciones", professionalToken, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestWithdraw(t *testing.T) {
	server := newTestServer(&stubLifecycleService{})
	if rec := do(t, server, http.MethodDelete, "/postulaciones/a1", professionalToken, nil, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	server = newTestServer(&stubLifecycleService{withdrawErr: application.ErrForbidden})
	if rec := do(t, server, http.MethodDelete, "/postulaciones/a1", professionalToken, nil, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestNotifications(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	server := newTestServer(&stubLifecycleService{
		inbox: lifecycle.Inbox{
			Items: []notification.Notification{
				{ID: "n2", Message: "second", TargetURL: "/postulaciones", CreatedAt: now.Add(time.Minute)},
				{ID: "n1", Message: "first", TargetURL: "/postulaciones", Read: true, CreatedAt: now},
			},
			Unread: 1,
		},
		unread: 1,
	})

	rec := do(t, server, http.MethodGet, "/notificaciones", professionalToken, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Items  []notificationResponse `json:"items"`
		Unread int                    `json:"unread"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0].ID != "n2" || resp.Unread != 1 {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	rec = do(t, server, http.MethodGet, "/notificaciones/no-leidas", professionalToken, nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"unread":1`) {
		t.Fatalf("unexpected unread response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	server := newTestServer(&stubLifecycleService{markErr: notification.ErrNotFound})
	rec := do(t, server, http.MethodPut, "/notificaciones/n1/leida", professionalToken, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	server := newTestServer(&stubLifecycleService{})
	server.authService = &stubAuthService{registerErr: auth.ErrWeakPassword}

	rec := do(t, server, http.MethodPost, "/auth/register", "", strings.NewReader(`{"email":"a@b.c","password":"x"}`), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for weak password, got %d", rec.Code)
	}

	server.authService = &stubAuthService{login: auth.LoginResult{
		Token: "tok",
		User:  auth.User{ID: "u1", Email: "a@b.c", Role: auth.RoleInstitution},
	}}
	rec = do(t, server, http.MethodPost, "/auth/login", "", strings.NewReader(`{"email":"a@b.c","password":"password1"}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "tok" || resp.User.Role != auth.RoleInstitution {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestVacancyRoutes(t *testing.T) {
	vacancies := &stubVacancyService{vacancies: []vacancy.Vacancy{{ID: "v1", Title: "Nurse"}}, removed: 3}
	server := newTestServer(&stubLifecycleService{})
	server.vacancyService = vacancies

	rec := do(t, server, http.MethodGet, "/vacantes?q=nurse&limit=5", "", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if vacancies.filter.Query != "nurse" || vacancies.filter.Limit != 5 {
		t.Fatalf("unexpected filter: %+v", vacancies.filter)
	}

	rec = do(t, server, http.MethodPost, "/vacantes", professionalToken, strings.NewReader(`{"title":"x"}`), "application/json")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for professional publishing, got %d", rec.Code)
	}

	rec = do(t, server, http.MethodPost, "/vacantes", institutionToken, strings.NewReader(`{"title":"Nurse","institution_name":"Clinic"}`), "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = do(t, server, http.MethodDelete, "/vacantes/v1", institutionToken, nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"applications_removed":3`) {
		t.Fatalf("unexpected delete response %d: %s", rec.Code, rec.Body.String())
	}

	vacancies.err = vacancy.ErrNotFound
	if rec := do(t, server, http.MethodGet, "/vacantes/missing", "", nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	server := newTestServer(&stubLifecycleService{})
	server.db = stubPinger{}
	rec := do(t, server, http.MethodGet, "/healthz", "", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a generated request id")
	}

	server.db = stubPinger{err: errors.New("down")}
	if rec := do(t, server, http.MethodGet, "/healthz", "", nil, ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
