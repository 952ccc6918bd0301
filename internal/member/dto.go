package member

import (
	"errors"
	"strings"

	"github.com/chamahub/chama-management/internal/core"
)

// RegisterMemberDTO represents the registration payload
type RegisterMemberDTO struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	PhotoURL  *string `json:"photo_url,omitempty"`
}

func (dto RegisterMemberDTO) Validate() error {
	if strings.TrimSpace(dto.FirstName) == "" {
		return errors.New("first name is required")
	}
	if strings.TrimSpace(dto.LastName) == "" {
		return errors.New("last name is required")
	}
	if strings.TrimSpace(dto.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(dto.Email, "@") {
		return errors.New("email is not valid")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// UpdateRoleDTO changes an active member's role. Role assignment after
// activation is unconstrained by the approval state machine.
type UpdateRoleDTO struct {
	Role string `json:"role"`
}

func (dto UpdateRoleDTO) Validate() error {
	r, err := core.ParseRole(dto.Role)
	if err != nil {
		return err
	}
	if r == core.RolePending {
		return errors.New("pending is not an assignable role")
	}
	return nil
}
