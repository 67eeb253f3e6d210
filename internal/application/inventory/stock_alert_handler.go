package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/sitestock/backend/internal/domain/inventory"
	"github.com/sitestock/backend/internal/domain/shared"
)

// StockAlertHandler reacts to ledger events that indicate a balance left its
// configured bounds. Alerts are log-only; the movements themselves already
// committed.
type StockAlertHandler struct {
	logger *zap.Logger
}

// NewStockAlertHandler creates a new StockAlertHandler
func NewStockAlertHandler(logger *zap.Logger) *StockAlertHandler {
	return &StockAlertHandler{logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *StockAlertHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeStockOutsideBounds,
		inventory.EventTypeStockBelowReorder,
	}
}

// Handle processes a stock alert event
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *inventory.StockOutsideBoundsEvent:
		h.logger.Warn("stock balance outside configured bounds",
			zap.String("material_id", e.MaterialID.String()),
			zap.String("location", e.Location.String()),
			zap.String("balance", e.Balance.String()),
			zap.String("minimum", e.Minimum.String()),
			zap.String("maximum", e.Maximum.String()),
		)
	default:
		h.logger.Warn("stock alert",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
		)
	}
	return nil
}

var _ shared.EventHandler = (*StockAlertHandler)(nil)
