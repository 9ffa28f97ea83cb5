package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRole signals a role outside the closed set.
var ErrInvalidRole = errors.New("auth: invalid role")

// Role is the closed set of caller roles. Values are only produced by
// ParseRole, so a Role held by the rest of the code is always one of the
// constants below.
type Role string

const (
	RoleProfessional Role = "professional"
	RoleInstitution  Role = "institution"
)

// ParseRole converts the stored or claimed representation into a Role.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleProfessional:
		return RoleProfessional, nil
	case RoleInstitution:
		return RoleInstitution, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidRole, raw)
	}
}

// Identity is a verified caller.
type Identity struct {
	UserID string
	Role   Role
}

// Professional is the capability held by callers that may apply to vacancies.
type Professional struct {
	UserID string
}

// Institution is the capability held by callers that own vacancies.
type Institution struct {
	UserID string
}

// Professional returns the professional capability when the caller has it.
func (id Identity) Professional() (Professional, bool) {
	switch id.Role {
	case RoleProfessional:
		return Professional{UserID: id.UserID}, true
	case RoleInstitution:
		return Professional{}, false
	default:
		return Professional{}, false
	}
}

// Institution returns the institution capability when the caller has it.
func (id Identity) Institution() (Institution, bool) {
	switch id.Role {
	case RoleInstitution:
		return Institution{UserID: id.UserID}, true
	case RoleProfessional:
		return Institution{}, false
	default:
		return Institution{}, false
	}
}
