package expenditure

import (
	"context"
	"log/slog"
	"time"

	"github.com/chamahub/chama-management/internal"
	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/core/events"
)

// Repository defines data access for the expenditure ledger.
type Repository interface {
	Create(e *Expenditure) error
	GetByID(id int64) (*Expenditure, error)
	List(limit, offset int) ([]*Expenditure, error)
	Update(e *Expenditure) error
	Delete(id int64) error
}

type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

func (s *Service) RecordExpenditure(actor *auth.Actor, dto CreateExpenditureDTO) (*Expenditure, error) {
	if !actor.CanManageFinances() {
		s.logger.Warn("record expenditure denied: insufficient role", "actor_id", actor.ID, "role", actor.Role)
		return nil, internal.ErrInsufficientRole
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("expenditure validation failed", "error", err, "actor_id", actor.ID)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidAmount)
	}

	e := &Expenditure{
		Title:       dto.Title,
		Description: dto.Description,
		Amount:      dto.Amount,
		Date:        dto.Date,
		RecordedBy:  actor.ID,
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to record expenditure", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewExpenditureRecordedEvent(e.ID, e.Amount, actor.ID))

	s.logger.Info("expenditure recorded",
		"expenditure_id", e.ID,
		"title", e.Title,
		"amount", e.Amount,
		"recorded_by", actor.ID)

	return e, nil
}

func (s *Service) GetExpenditure(id int64) (*Expenditure, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrExpenditureNotFound
	}
	return e, nil
}

func (s *Service) ListExpenditures(limit, offset int) ([]*Expenditure, error) {
	records, err := s.repo.List(limit, offset)
	if err != nil {
		s.logger.Error("failed to list expenditures", "error", err)
		return nil, err
	}
	return records, nil
}

func (s *Service) UpdateExpenditure(actor *auth.Actor, id int64, dto UpdateExpenditureDTO) (*Expenditure, error) {
	if !actor.CanManageFinances() {
		return nil, internal.ErrInsufficientRole
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidAmount)
	}

	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrExpenditureNotFound
	}

	e.Title = dto.Title
	e.Description = dto.Description
	e.Amount = dto.Amount
	e.UpdatedAt = time.Now()

	if err := s.repo.Update(e); err != nil {
		s.logger.Error("failed to update expenditure", "error", err, "expenditure_id", id)
		return nil, err
	}

	s.logger.Info("expenditure updated", "expenditure_id", id, "updated_by", actor.ID)
	return e, nil
}

func (s *Service) DeleteExpenditure(actor *auth.Actor, id int64) error {
	if !actor.CanManageFinances() {
		return internal.ErrInsufficientRole
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return ErrExpenditureNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete expenditure", "error", err, "expenditure_id", id)
		return err
	}

	s.logger.Info("expenditure deleted", "expenditure_id", id, "deleted_by", actor.ID)
	return nil
}
