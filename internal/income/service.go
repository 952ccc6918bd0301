package income

import (
	"context"
	"log/slog"
	"time"

	"github.com/chamahub/chama-management/internal"
	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/core/events"
	"github.com/google/uuid"
)

// Repository defines the data access methods for the miscellaneous
// income ledger.
type Repository interface {
	Create(rec *MiscIncome) error
	GetByID(id string) (*MiscIncome, error)
	List(limit, offset int) ([]*MiscIncome, error)
	Update(rec *MiscIncome) error
	Delete(id string) error
}

type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

func (s *Service) RecordIncome(actor *auth.Actor, dto CreateIncomeDTO) (*MiscIncome, error) {
	if !actor.CanManageFinances() {
		s.logger.Warn("record income denied: insufficient role", "actor_id", actor.ID, "role", actor.Role)
		return nil, internal.ErrInsufficientRole
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("income validation failed", "error", err, "actor_id", actor.ID)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidIncomeType)
	}

	rec := &MiscIncome{
		ID:          uuid.NewString(),
		Type:        dto.Type,
		Description: dto.Description,
		Amount:      dto.Amount,
		Date:        dto.Date,
		MemberID:    dto.MemberID,
		RecordedBy:  actor.ID,
	}

	if err := s.repo.Create(rec); err != nil {
		s.logger.Error("failed to record income", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewMiscIncomeRecordedEvent(rec.ID, rec.Type, rec.Amount, actor.ID))

	s.logger.Info("income recorded",
		"income_id", rec.ID,
		"type", rec.Type,
		"amount", rec.Amount,
		"recorded_by", actor.ID)

	return rec, nil
}

func (s *Service) GetIncome(id string) (*MiscIncome, error) {
	rec, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get income record", "error", err, "income_id", id)
		return nil, ErrIncomeNotFound
	}
	return rec, nil
}

func (s *Service) ListIncomes(limit, offset int) ([]*MiscIncome, error) {
	records, err := s.repo.List(limit, offset)
	if err != nil {
		s.logger.Error("failed to list income records", "error", err)
		return nil, err
	}
	return records, nil
}

func (s *Service) UpdateIncome(actor *auth.Actor, id string, dto UpdateIncomeDTO) (*MiscIncome, error) {
	if !actor.CanManageFinances() {
		return nil, internal.ErrInsufficientRole
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidAmount)
	}

	rec, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrIncomeNotFound
	}

	rec.Description = dto.Description
	rec.Amount = dto.Amount
	rec.UpdatedAt = time.Now()

	if err := s.repo.Update(rec); err != nil {
		s.logger.Error("failed to update income record", "error", err, "income_id", id)
		return nil, err
	}

	s.logger.Info("income record updated", "income_id", id, "updated_by", actor.ID)
	return rec, nil
}

func (s *Service) DeleteIncome(actor *auth.Actor, id string) error {
	if !actor.CanManageFinances() {
		return internal.ErrInsufficientRole
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return ErrIncomeNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete income record", "error", err, "income_id", id)
		return err
	}

	s.logger.Info("income record deleted", "income_id", id, "deleted_by", actor.ID)
	return nil
}
