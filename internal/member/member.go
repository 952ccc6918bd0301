package member

import (
	"errors"
	"time"

	"github.com/chamahub/chama-management/internal/core"
)

const (
	StatusPending = "pending"
	StatusActive  = "active"
)

// Member carries the dual-approval activation state. A member is
// active if and only if both approval flags are set; the transition is
// applied inside a single storage transaction so a pair of concurrent
// approvals cannot fire the registration-fee side effect twice.
type Member struct {
	ID                  int64     `json:"id" gorm:"primaryKey"`
	FirstName           string    `json:"first_name" gorm:"column:first_name;not null"`
	LastName            string    `json:"last_name" gorm:"column:last_name;not null"`
	Email               string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash        string    `json:"-" gorm:"column:password_hash;not null"`
	PhotoURL            *string   `json:"photo_url,omitempty" gorm:"column:photo_url"`
	Role                string    `json:"role" gorm:"column:role;default:pending"`
	Status              string    `json:"status" gorm:"column:status;default:pending"`
	TreasurerApproved   bool      `json:"treasurer_approved" gorm:"column:treasurer_approved;default:false"`
	ChairpersonApproved bool      `json:"chairperson_approved" gorm:"column:chairperson_approved;default:false"`
	JoinedAt            time.Time `json:"joined_at" gorm:"column:joined_at"`
	CreatedAt           time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) IsPending() bool {
	return m.Status == StatusPending
}

func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// EffectiveRole hides the stored role while the member is pending.
func (m *Member) EffectiveRole() core.Role {
	if m.IsPending() {
		return core.RolePending
	}
	r, err := core.ParseRole(m.Role)
	if err != nil {
		return core.RolePending
	}
	return r
}

// ApplyApproval sets the flag owned by the approver's role; Admin sets
// both, short-circuiting the dual-control requirement. Returns true
// when the update completes the pair and the member activates.
func (m *Member) ApplyApproval(approver core.Role) bool {
	switch approver {
	case core.RoleTreasurer:
		m.TreasurerApproved = true
	case core.RoleChairperson:
		m.ChairpersonApproved = true
	case core.RoleAdmin:
		m.TreasurerApproved = true
		m.ChairpersonApproved = true
	}

	if m.TreasurerApproved && m.ChairpersonApproved {
		m.Status = StatusActive
		m.Role = string(core.RoleMember)
		return true
	}
	return false
}

// ApplyUnapproval resets the approver's flag and always demotes the
// member to pending, even when the other flag stays set. The inverse
// is deliberately asymmetric: one approval activates nothing, but one
// withdrawal deactivates.
func (m *Member) ApplyUnapproval(approver core.Role) {
	switch approver {
	case core.RoleTreasurer:
		m.TreasurerApproved = false
	case core.RoleChairperson:
		m.ChairpersonApproved = false
	case core.RoleAdmin:
		m.TreasurerApproved = false
		m.ChairpersonApproved = false
	}

	m.Status = StatusPending
	m.Role = string(core.RolePending)
}

func (m *Member) CanBeDeleted() bool {
	return m.IsPending()
}

// Domain errors
var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrMemberNotPending = errors.New("member is not pending")
	ErrMemberNotActive  = errors.New("member is not active")
	ErrMemberActive     = errors.New("member is already active")
	ErrEmailTaken       = errors.New("email is already registered")
)
