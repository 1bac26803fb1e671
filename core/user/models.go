package user

import (
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/guard"
)

// Account statuses as managed from the admin screen.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusBanned   = "BANNED"
	StatusPending  = "PENDING"
)

// AllRoles is the closed list of recognized role tags.
var AllRoles = []string{guard.RoleAdmin, guard.RoleInstructor, guard.RoleStudent}

type (
	// User is the admin view of an account. Only admin identities may
	// mutate it, and only through the service below.
	User struct {
		ID               string   `json:"id"`
		FullName         string   `json:"full_name"`
		Email            string   `json:"email"`
		AvatarURL        string   `json:"avatar_url"`
		Status           string   `json:"status"`
		Roles            []string `json:"roles"`
		CreatedAt        string   `json:"created_at"`
		EnrollmentsCount int      `json:"enrollments_count"`
	}

	ListMeta struct {
		Total      int `json:"total"`
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		TotalPages int `json:"totalPages"`
	}

	ListResult struct {
		Data []User   `json:"data"`
		Meta ListMeta `json:"meta"`
	}

	// ListFilter applies AND on its non-zero fields; Search matches name or
	// email case-insensitively server-side.
	ListFilter struct {
		Page   int
		Limit  int
		Search string
		Role   string
		Status string
	}
)

// UpdateUser defines what an admin may modify on an account.
type UpdateUser struct {
	FullName string   `json:"full_name,omitempty"`
	Status   string   `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE BANNED PENDING"`
	Roles    []string `json:"roles,omitempty" validate:"omitempty,dive,oneof=admin instructor student"`
}

func (uu *UpdateUser) Validate() error {
	uu.FullName = core.CleanString(uu.FullName)
	return core.TranslateValidationErrors(core.Validate.Struct(uu))
}
