package request

import (
	"context"

	"go.uber.org/zap"

	"github.com/sitestock/backend/internal/domain/request"
	"github.com/sitestock/backend/internal/domain/shared"
)

// LifecycleAuditHandler writes an audit log line for every request lifecycle
// event so state changes stay traceable without querying the database.
type LifecycleAuditHandler struct {
	logger *zap.Logger
}

// NewLifecycleAuditHandler creates a new LifecycleAuditHandler
func NewLifecycleAuditHandler(logger *zap.Logger) *LifecycleAuditHandler {
	return &LifecycleAuditHandler{logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *LifecycleAuditHandler) EventTypes() []string {
	return []string{
		request.EventTypeRequestCreated,
		request.EventTypeRequestApproved,
		request.EventTypeRequestRejected,
		request.EventTypeRequestIssued,
		request.EventTypeRequestAcknowledged,
		request.EventTypeRequestCompleted,
		request.EventTypeRequestCancelled,
	}
}

// Handle writes the audit entry for a lifecycle event
func (h *LifecycleAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("material request lifecycle event",
		zap.String("event_type", event.EventType()),
		zap.String("request_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

var _ shared.EventHandler = (*LifecycleAuditHandler)(nil)
