package member

import (
	"context"
	"log/slog"
	"time"

	"github.com/chamahub/chama-management/internal"
	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/core"
	"github.com/chamahub/chama-management/internal/core/events"
)

// Repository defines the data access methods for members. Approve and
// Unapprove are transactional read-modify-writes executed by the
// storage layer; see the postgres implementation.
type Repository interface {
	Create(m *Member) error
	GetByID(id int64) (*Member, error)
	List(limit, offset int) ([]*Member, error)
	ListActive() ([]*Member, error)
	Approve(memberID int64, approver core.Role, actorID int64, registrationFee float64) (m *Member, activated bool, err error)
	Unapprove(memberID int64, approver core.Role) (*Member, error)
	Delete(id int64) error
	UpdateRole(id int64, role core.Role) error
	EmailExists(email string) (bool, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo            Repository
	hasher          PasswordHasher
	bus             *events.EventBus
	logger          *slog.Logger
	registrationFee float64
}

func NewService(repo Repository, hasher PasswordHasher, bus *events.EventBus, logger *slog.Logger, registrationFee float64) *Service {
	return &Service{
		repo:            repo,
		hasher:          hasher,
		bus:             bus,
		logger:          logger,
		registrationFee: registrationFee,
	}
}

// Register creates a pending member with both approval flags cleared.
func (s *Service) Register(dto RegisterMemberDTO) (*Member, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("member registration validation failed", "error", err)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	taken, err := s.repo.EmailExists(dto.Email)
	if err != nil {
		s.logger.Error("failed to check email", "error", err, "email", dto.Email)
		return nil, err
	}
	if taken {
		return nil, internal.NewConflictError("email is already registered", internal.ErrCodeValidationFailed)
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	m := &Member{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		PasswordHash: hash,
		PhotoURL:     dto.PhotoURL,
		Role:         string(core.RolePending),
		Status:       StatusPending,
		JoinedAt:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(m); err != nil {
		s.logger.Error("failed to create member", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("member registered", "member_id", m.ID, "email", m.Email)
	s.bus.Publish(context.Background(), events.NewMemberRegisteredEvent(m.ID, m.Email))

	return m, nil
}

func (s *Service) GetMember(id int64) (*Member, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get member", "error", err, "member_id", id)
		return nil, ErrMemberNotFound
	}
	return m, nil
}

func (s *Service) ListMembers(limit, offset int) ([]*Member, error) {
	members, err := s.repo.List(limit, offset)
	if err != nil {
		s.logger.Error("failed to list members", "error", err)
		return nil, err
	}
	return members, nil
}

// Approve applies the actor's approval flag. Activation (both flags
// set) also records the registration-fee income row; both writes happen
// in one storage transaction. Approving an already-active member is a
// no-op: the flags are already true and the fee fired exactly once.
func (s *Service) Approve(actor *auth.Actor, memberID int64) (*Member, error) {
	if !actor.CanApproveMembers() {
		s.logger.Warn("approve member denied: insufficient role",
			"member_id", memberID,
			"actor_id", actor.ID,
			"role", actor.Role)
		return nil, internal.ErrInsufficientRole
	}

	m, activated, err := s.repo.Approve(memberID, actor.Role, actor.ID, s.registrationFee)
	if err != nil {
		s.logger.Error("member approval failed", "error", err, "member_id", memberID, "actor_id", actor.ID)
		return nil, err
	}

	if activated {
		s.logger.Info("member activated",
			"member_id", memberID,
			"approved_by", actor.ID,
			"registration_fee", s.registrationFee)
		s.bus.Publish(context.Background(), events.NewMemberActivatedEvent(memberID, actor.ID, s.registrationFee))
	} else {
		s.logger.Info("member approval recorded",
			"member_id", memberID,
			"approved_by", actor.ID,
			"treasurer_approved", m.TreasurerApproved,
			"chairperson_approved", m.ChairpersonApproved)
	}

	return m, nil
}

// Unapprove withdraws the actor's approval and always demotes the
// member back to pending regardless of the other flag.
func (s *Service) Unapprove(actor *auth.Actor, memberID int64) (*Member, error) {
	if !actor.CanApproveMembers() {
		s.logger.Warn("unapprove member denied: insufficient role",
			"member_id", memberID,
			"actor_id", actor.ID,
			"role", actor.Role)
		return nil, internal.ErrInsufficientRole
	}

	m, err := s.repo.Unapprove(memberID, actor.Role)
	if err != nil {
		s.logger.Error("member unapproval failed", "error", err, "member_id", memberID, "actor_id", actor.ID)
		return nil, err
	}

	s.logger.Info("member unapproved", "member_id", memberID, "unapproved_by", actor.ID)
	s.bus.Publish(context.Background(), events.NewMemberUnapprovedEvent(memberID, actor.ID))

	return m, nil
}

// Delete removes a registration that never activated. Active members
// are never hard-deleted.
func (s *Service) Delete(actor *auth.Actor, memberID int64) error {
	if !actor.IsAdmin() {
		s.logger.Warn("delete member denied: insufficient role",
			"member_id", memberID,
			"actor_id", actor.ID,
			"role", actor.Role)
		return internal.ErrInsufficientRole
	}

	m, err := s.repo.GetByID(memberID)
	if err != nil {
		return ErrMemberNotFound
	}

	if !m.CanBeDeleted() {
		s.logger.Warn("cannot delete active member", "member_id", memberID)
		return ErrMemberActive
	}

	if err := s.repo.Delete(memberID); err != nil {
		s.logger.Error("failed to delete member", "error", err, "member_id", memberID)
		return err
	}

	s.logger.Info("pending member deleted", "member_id", memberID, "deleted_by", actor.ID)
	return nil
}

// UpdateRole assigns a new role to an active member. This sits outside
// the activation state machine.
func (s *Service) UpdateRole(actor *auth.Actor, memberID int64, dto UpdateRoleDTO) (*Member, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrInsufficientRole
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidRole)
	}

	m, err := s.repo.GetByID(memberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	if !m.IsActive() {
		return nil, ErrMemberNotActive
	}

	role, _ := core.ParseRole(dto.Role)
	if err := s.repo.UpdateRole(memberID, role); err != nil {
		s.logger.Error("failed to update member role", "error", err, "member_id", memberID)
		return nil, err
	}

	m.Role = string(role)
	s.logger.Info("member role updated", "member_id", memberID, "role", role, "updated_by", actor.ID)
	return m, nil
}
