package application

import (
	"fmt"
	"strings"
	"time"
)

// Status is the review state of an application.
type Status string

const (
	StatusSubmitted   Status = "Submitted"
	StatusUnderReview Status = "UnderReview"
	StatusInterviewed Status = "Interviewed"
	StatusAccepted    Status = "Accepted"
	StatusRejected    Status = "Rejected"
)

// Statuses lists every recognised status in review order.
func Statuses() []Status {
	return []Status{StatusSubmitted, StatusUnderReview, StatusInterviewed, StatusAccepted, StatusRejected}
}

// ParseStatus matches raw case-insensitively against the recognised statuses.
func ParseStatus(raw string) (Status, error) {
	trimmed := strings.TrimSpace(raw)
	for _, s := range Statuses() {
		if strings.EqualFold(trimmed, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Terminal reports whether the status closes the review. Terminal statuses can
// still be overwritten by the owning institution.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Application is a professional's submission to a vacancy.
type Application struct {
	ID             string
	ProfessionalID string
	VacancyID      string
	SubmittedAt    time.Time
	AttachmentRef  *string
	Status         Status
}

// Summary is an application as seen by the professional who submitted it.
type Summary struct {
	Application
	VacancyTitle    string
	InstitutionName string
}

// Received is an application as seen by the institution owning the vacancy.
type Received struct {
	Application
	VacancyTitle   string
	ApplicantName  string
	ApplicantEmail string
}

// StatusChange describes a committed status overwrite.
type StatusChange struct {
	Application
	Previous       Status
	VacancyTitle   string
	VacancyOwnerID string
}

// CreateParams enumerates the fields of a new application row.
type CreateParams struct {
	ID             string
	ProfessionalID string
	VacancyID      string
	SubmittedAt    time.Time
	AttachmentRef  *string
	Status         Status
}

// UpdateStatusParams describes a status overwrite requested by a vacancy owner.
type UpdateStatusParams struct {
	ApplicationID string
	Status        Status
	OwnerUserID   string
}
