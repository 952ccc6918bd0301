package audit_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/chamahub/chama-management/internal/audit"
	"github.com/chamahub/chama-management/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAudit(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Suite")
}

var _ = Describe("Audit EventHandler", func() {
	var (
		buf *bytes.Buffer
		bus *events.EventBus
		ctx context.Context
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		logger := slog.New(slog.NewTextHandler(buf, nil))
		bus = events.NewEventBus(logger)
		audit.NewEventHandler(logger).RegisterEventHandlers(bus)
		ctx = context.Background()

		// Drop the registration log lines so assertions only see what
		// the handler wrote for published events.
		buf.Reset()
	})

	It("should log a member activation with its payload", func() {
		event := events.NewMemberActivatedEvent(7, 2, 1000)
		Expect(bus.PublishSync(ctx, event)).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring(events.EventTypeMemberActivated))
		Expect(out).To(ContainSubstring("member_id"))
		Expect(out).To(ContainSubstring(event.EventID()))
	})

	It("should receive every ledger event type", func() {
		published := []events.Event{
			events.NewMemberRegisteredEvent(1, "amina@example.com"),
			events.NewMemberUnapprovedEvent(1, 2),
			events.NewContributionRecordedEvent(1, 2025, 0, 200, 2),
			events.NewSpecialContributionEvent("sc-1", 1, 500, 2),
			events.NewMiscIncomeRecordedEvent("mi-1", "Fine", 50, 2),
			events.NewExpenditureRecordedEvent(3, 120, 2),
		}
		for _, event := range published {
			Expect(bus.PublishSync(ctx, event)).To(Succeed())
		}

		out := buf.String()
		for _, event := range published {
			Expect(out).To(ContainSubstring(event.EventType()))
		}
	})
})
