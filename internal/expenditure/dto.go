package expenditure

import (
	"errors"
	"strings"
	"time"
)

type CreateExpenditureDTO struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

func (dto CreateExpenditureDTO) Validate() error {
	if strings.TrimSpace(dto.Title) == "" {
		return errors.New("title is required")
	}
	if dto.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	if dto.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

type UpdateExpenditureDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func (dto UpdateExpenditureDTO) Validate() error {
	if strings.TrimSpace(dto.Title) == "" {
		return errors.New("title is required")
	}
	if dto.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	return nil
}
