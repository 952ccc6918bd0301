package audit

import (
	"context"
	"log/slog"

	"github.com/chamahub/chama-management/internal/core/events"
)

// EventHandler writes one structured audit line per ledger event.
// Services publish after commit, so every line refers to durable state.
type EventHandler struct {
	logger *slog.Logger
}

func NewEventHandler(logger *slog.Logger) *EventHandler {
	return &EventHandler{logger: logger}
}

func (h *EventHandler) HandleEvent(ctx context.Context, event events.Event) error {
	h.logger.Info("audit",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"occurred_at", event.OccurredAt(),
		"payload", event.Payload())
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	types := []string{
		events.EventTypeMemberRegistered,
		events.EventTypeMemberActivated,
		events.EventTypeMemberUnapproved,
		events.EventTypeContributionRecorded,
		events.EventTypeSpecialContribution,
		events.EventTypeMiscIncomeRecorded,
		events.EventTypeExpenditureRecorded,
	}
	for _, t := range types {
		eventBus.Subscribe(t, h.HandleEvent)
	}

	h.logger.Info("audit event handlers registered", "handlers", types)
}
