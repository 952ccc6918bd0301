package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeMemberRegistered     = "member.registered"
	EventTypeMemberActivated      = "member.activated"
	EventTypeMemberUnapproved     = "member.unapproved"
	EventTypeContributionRecorded = "contribution.recorded"
	EventTypeSpecialContribution  = "contribution.special.recorded"
	EventTypeMiscIncomeRecorded   = "income.recorded"
	EventTypeExpenditureRecorded  = "expenditure.recorded"
)

func NewMemberRegisteredEvent(memberID int64, email string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeMemberRegistered,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"member_id": memberID,
			"email":     email,
		},
	}
}

// NewMemberActivatedEvent fires once per member, on the approval that
// flips both flags; the registration fee row is already committed when
// subscribers see it.
func NewMemberActivatedEvent(memberID, approvedBy int64, registrationFee float64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeMemberActivated,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"member_id":        memberID,
			"approved_by":      approvedBy,
			"registration_fee": registrationFee,
		},
	}
}

func NewMemberUnapprovedEvent(memberID, unapprovedBy int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeMemberUnapproved,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"member_id":     memberID,
			"unapproved_by": unapprovedBy,
		},
	}
}

func NewContributionRecordedEvent(memberID int64, year, month int, amount float64, recordedBy int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeContributionRecorded,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"member_id":   memberID,
			"year":        year,
			"month":       month,
			"amount":      amount,
			"recorded_by": recordedBy,
		},
	}
}

func NewSpecialContributionEvent(contributionID string, memberID int64, amount float64, recordedBy int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeSpecialContribution,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"contribution_id": contributionID,
			"member_id":       memberID,
			"amount":          amount,
			"recorded_by":     recordedBy,
		},
	}
}

func NewMiscIncomeRecordedEvent(incomeID, incomeType string, amount float64, recordedBy int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeMiscIncomeRecorded,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"income_id":   incomeID,
			"income_type": incomeType,
			"amount":      amount,
			"recorded_by": recordedBy,
		},
	}
}

func NewExpenditureRecordedEvent(expenditureID int64, amount float64, recordedBy int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeExpenditureRecorded,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"expenditure_id": expenditureID,
			"amount":         amount,
			"recorded_by":    recordedBy,
		},
	}
}
