package vacancy

import "time"

// Vacancy is a job posting owned by an institution user.
type Vacancy struct {
	ID              string
	OwnerUserID     string
	Title           string
	InstitutionName string
	Description     string
	Keywords        []string
	CreatedAt       time.Time
}

// CreateParams carries the institution-supplied fields of a new vacancy.
type CreateParams struct {
	Title           string   `json:"title"`
	InstitutionName string   `json:"institution_name"`
	Description     string   `json:"description"`
	Keywords        []string `json:"keywords"`
}

// ListFilter narrows List. Query matches title, institution or keywords.
type ListFilter struct {
	Query       string
	OwnerUserID string
	Limit       int
}
