package contribution

import (
	"context"
	"log/slog"
	"time"

	"github.com/chamahub/chama-management/internal"
	"github.com/chamahub/chama-management/internal/auth"
	"github.com/chamahub/chama-management/internal/core/events"
	"github.com/google/uuid"
)

// Repository defines data access for both contribution ledgers.
type Repository interface {
	UpsertRegular(c *RegularContribution) (*RegularContribution, error)
	UpsertRegularBatch(batch []*RegularContribution) error
	RegularByMemberYear(memberID int64, year int) ([]*RegularContribution, error)
	CreateSpecial(c *SpecialContribution) error
	GetSpecial(id string) (*SpecialContribution, error)
	SpecialsByMember(memberID int64) ([]*SpecialContribution, error)
	UpdateSpecial(c *SpecialContribution) error
	DeleteSpecial(id string) error
}

type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

// RecordRegular upserts one member's due for a month. Repeated calls with
// the same (member, year, month) converge to the latest amount, including 0
// to mark a month unpaid again.
func (s *Service) RecordRegular(actor *auth.Actor, dto UpsertRegularDTO) (*RegularContribution, error) {
	if !actor.CanManageFinances() {
		s.logger.Warn("record regular contribution denied: insufficient role", "actor_id", actor.ID, "role", actor.Role)
		return nil, internal.ErrInsufficientRole
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("regular contribution validation failed", "error", err, "actor_id", actor.ID)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidMonth)
	}

	rec, err := s.repo.UpsertRegular(&RegularContribution{
		MemberID: dto.MemberID,
		Year:     dto.Year,
		Month:    dto.Month,
		Amount:   dto.Amount,
	})
	if err != nil {
		s.logger.Error("failed to upsert regular contribution", "error", err,
			"member_id", dto.MemberID, "year", dto.Year, "month", dto.Month)
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewContributionRecordedEvent(
		rec.MemberID, rec.Year, rec.Month, rec.Amount, actor.ID))

	s.logger.Info("regular contribution recorded",
		"member_id", rec.MemberID,
		"year", rec.Year,
		"month", rec.Month,
		"amount", rec.Amount,
		"recorded_by", actor.ID)

	return rec, nil
}

// RecordRegularBatch applies a full grid of monthly amounts in one commit.
// Cells are independent upserts; any failure rolls the whole batch back.
func (s *Service) RecordRegularBatch(actor *auth.Actor, dto BatchRegularDTO) error {
	if !actor.CanManageFinances() {
		s.logger.Warn("record contribution batch denied: insufficient role", "actor_id", actor.ID, "role", actor.Role)
		return internal.ErrInsufficientRole
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("contribution batch validation failed", "error", err, "actor_id", actor.ID)
		return internal.NewValidationError(err.Error(), internal.ErrCodeInvalidMonth)
	}

	batch := make([]*RegularContribution, 0, len(dto.Entries))
	for _, e := range dto.Entries {
		batch = append(batch, &RegularContribution{
			MemberID: e.MemberID,
			Year:     dto.Year,
			Month:    e.Month,
			Amount:   e.Amount,
		})
	}

	if err := s.repo.UpsertRegularBatch(batch); err != nil {
		s.logger.Error("failed to commit contribution batch", "error", err,
			"year", dto.Year, "cells", len(batch))
		return err
	}

	s.logger.Info("contribution batch committed",
		"year", dto.Year,
		"cells", len(batch),
		"recorded_by", actor.ID)

	return nil
}

// MemberRegularYear returns a member's regular contributions for one year.
func (s *Service) MemberRegularYear(memberID int64, year int) ([]*RegularContribution, error) {
	records, err := s.repo.RegularByMemberYear(memberID, year)
	if err != nil {
		s.logger.Error("failed to list regular contributions", "error", err, "member_id", memberID, "year", year)
		return nil, err
	}
	return records, nil
}

func (s *Service) RecordSpecial(actor *auth.Actor, dto RecordSpecialDTO) (*SpecialContribution, error) {
	if !actor.CanManageFinances() {
		s.logger.Warn("record special contribution denied: insufficient role", "actor_id", actor.ID, "role", actor.Role)
		return nil, internal.ErrInsufficientRole
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("special contribution validation failed", "error", err, "actor_id", actor.ID)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidAmount)
	}

	rec := &SpecialContribution{
		ID:              uuid.NewString(),
		MemberID:        dto.MemberID,
		Amount:          dto.Amount,
		Description:     dto.Description,
		Date:            dto.Date,
		Month:           int(dto.Date.Month()) - 1,
		Year:            dto.Date.Year(),
		FinancialYearID: FinancialYearID(dto.Date),
		RecordedBy:      actor.ID,
	}

	if err := s.repo.CreateSpecial(rec); err != nil {
		s.logger.Error("failed to record special contribution", "error", err, "member_id", dto.MemberID)
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewSpecialContributionEvent(rec.ID, rec.MemberID, rec.Amount, actor.ID))

	s.logger.Info("special contribution recorded",
		"contribution_id", rec.ID,
		"member_id", rec.MemberID,
		"amount", rec.Amount,
		"recorded_by", actor.ID)

	return rec, nil
}

func (s *Service) GetSpecial(id string) (*SpecialContribution, error) {
	rec, err := s.repo.GetSpecial(id)
	if err != nil {
		return nil, ErrContributionNotFound
	}
	return rec, nil
}

func (s *Service) MemberSpecials(memberID int64) ([]*SpecialContribution, error) {
	records, err := s.repo.SpecialsByMember(memberID)
	if err != nil {
		s.logger.Error("failed to list special contributions", "error", err, "member_id", memberID)
		return nil, err
	}
	return records, nil
}

// EditSpecial updates amount and description in place. Identity, date and
// period never change on edit.
func (s *Service) EditSpecial(actor *auth.Actor, id string, dto EditSpecialDTO) (*SpecialContribution, error) {
	if !actor.CanManageFinances() {
		return nil, internal.ErrInsufficientRole
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidAmount)
	}

	rec, err := s.repo.GetSpecial(id)
	if err != nil {
		return nil, ErrContributionNotFound
	}

	rec.Amount = dto.Amount
	rec.Description = dto.Description
	rec.UpdatedAt = time.Now()

	if err := s.repo.UpdateSpecial(rec); err != nil {
		s.logger.Error("failed to update special contribution", "error", err, "contribution_id", id)
		return nil, err
	}

	s.logger.Info("special contribution updated", "contribution_id", id, "updated_by", actor.ID)
	return rec, nil
}

func (s *Service) DeleteSpecial(actor *auth.Actor, id string) error {
	if !actor.CanManageFinances() {
		return internal.ErrInsufficientRole
	}

	if _, err := s.repo.GetSpecial(id); err != nil {
		return ErrContributionNotFound
	}

	if err := s.repo.DeleteSpecial(id); err != nil {
		s.logger.Error("failed to delete special contribution", "error", err, "contribution_id", id)
		return err
	}

	s.logger.Info("special contribution deleted", "contribution_id", id, "deleted_by", actor.ID)
	return nil
}

// FinancialYearID tags a contribution with its calendar-year bucket.
func FinancialYearID(t time.Time) string {
	return t.Format("2006")
}
