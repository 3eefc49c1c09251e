package commands

import (
	"context"
	"log/slog"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// TransitionNotifier fans a committed history entry out to the read model and the
// event publishers. Listener failures are logged and otherwise ignored: the
// transition is already durable.
type TransitionNotifier struct {
	listeners []ports.TransitionListener
	logger    *slog.Logger
}

func NewTransitionNotifier(logger *slog.Logger, listeners ...ports.TransitionListener) *TransitionNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransitionNotifier{
		listeners: listeners,
		logger:    logger.With("component", "transition_notifier"),
	}
}

// Notify calls every listener in registration order. A nil notifier does nothing.
func (n *TransitionNotifier) Notify(ctx context.Context, snapshot order.Snapshot, entry order.HistoryEntry) {
	if n == nil {
		return
	}
	for _, l := range n.listeners {
		if err := l.OnTransition(ctx, snapshot, entry); err != nil {
			n.logger.ErrorContext(ctx, "Transition listener failed",
				"order_id", snapshot.ID.String(),
				"event", entry.Event.String(),
				"seq", entry.Seq,
				"error", err)
		}
	}
}
