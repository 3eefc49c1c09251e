package events

import (
	"context"
	"log/slog"

	"ordering/internal/core/domain/model/order"
)

// LogPublisher records transitions in the structured log. It is the sink used when
// no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "transition_log")}
}

func (p *LogPublisher) OnTransition(ctx context.Context, snapshot order.Snapshot, entry order.HistoryEntry) error {
	attrs := []any{
		"order_id", snapshot.ID.String(),
		"seq", entry.Seq,
		"event", string(entry.Event),
		"from", entry.From.String(),
		"to", entry.To.String(),
		"actor_role", string(entry.ActorRole),
		"actor_id", entry.ActorID,
	}
	if snapshot.CashDiscrepancy != nil {
		p.logger.WarnContext(ctx, "order completed with cash discrepancy",
			append(attrs, "discrepancy", snapshot.CashDiscrepancy.String())...)
		return nil
	}
	p.logger.InfoContext(ctx, "order status changed", attrs...)
	return nil
}
