package income

import (
	"errors"
	"strings"
	"time"
)

type CreateIncomeDTO struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	MemberID    *int64    `json:"member_id,omitempty"`
}

func (dto CreateIncomeDTO) Validate() error {
	if !ValidType(dto.Type) {
		return errors.New("type must be one of registration_fee, fine, loan_interest")
	}
	if strings.TrimSpace(dto.Description) == "" {
		return errors.New("description is required")
	}
	if dto.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	if dto.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

type UpdateIncomeDTO struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func (dto UpdateIncomeDTO) Validate() error {
	if strings.TrimSpace(dto.Description) == "" {
		return errors.New("description is required")
	}
	if dto.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	return nil
}
