package contribution

import (
	"errors"
	"strings"
	"time"
)

type UpsertRegularDTO struct {
	MemberID int64   `json:"member_id"`
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Amount   float64 `json:"amount"`
}

func (dto UpsertRegularDTO) Validate() error {
	if dto.MemberID <= 0 {
		return errors.New("member_id is required")
	}
	if dto.Year < 2000 || dto.Year > 2200 {
		return errors.New("year is out of range")
	}
	if dto.Month < 0 || dto.Month > 11 {
		return errors.New("month must be between 0 and 11")
	}
	if dto.Amount < 0 {
		return errors.New("amount must not be negative")
	}
	return nil
}

// BatchRegularDTO carries a grid of per-member monthly amounts for one year.
// Cells are independent upserts but the batch commits as a whole.
type BatchRegularDTO struct {
	Year    int                 `json:"year"`
	Entries []BatchRegularEntry `json:"entries"`
}

type BatchRegularEntry struct {
	MemberID int64   `json:"member_id"`
	Month    int     `json:"month"`
	Amount   float64 `json:"amount"`
}

func (dto BatchRegularDTO) Validate() error {
	if dto.Year < 2000 || dto.Year > 2200 {
		return errors.New("year is out of range")
	}
	if len(dto.Entries) == 0 {
		return errors.New("entries must not be empty")
	}
	for _, e := range dto.Entries {
		cell := UpsertRegularDTO{MemberID: e.MemberID, Year: dto.Year, Month: e.Month, Amount: e.Amount}
		if err := cell.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type RecordSpecialDTO struct {
	MemberID    int64     `json:"member_id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

func (dto RecordSpecialDTO) Validate() error {
	if dto.MemberID <= 0 {
		return errors.New("member_id is required")
	}
	if dto.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	if strings.TrimSpace(dto.Description) == "" {
		return errors.New("description is required")
	}
	if dto.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

type EditSpecialDTO struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func (dto EditSpecialDTO) Validate() error {
	if dto.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	if strings.TrimSpace(dto.Description) == "" {
		return errors.New("description is required")
	}
	return nil
}
