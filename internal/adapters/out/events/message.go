// Package events announces committed transitions to the outside world. Publishers
// implement ports.TransitionListener and run after the transaction; a failed publish
// is reported to the caller's logger and never undoes the transition.
package events

import (
	"time"

	"ordering/internal/core/domain/model/order"
)

// OrderStatusChangedType is the value of the "type" header and field.
const OrderStatusChangedType = "OrderStatusChanged"

// OrderStatusChanged is the message body published for every history entry.
type OrderStatusChanged struct {
	Type           string            `json:"type"`
	OrderID        string            `json:"orderId"`
	Seq            int               `json:"seq"`
	FromState      string            `json:"fromState,omitempty"`
	ToState        string            `json:"toState"`
	Event          string            `json:"event"`
	ActorRole      string            `json:"actorRole"`
	ActorID        string            `json:"actorId"`
	At             time.Time         `json:"timestamp"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	AssignedDriver *string           `json:"assignedDriverId,omitempty"`
	Discrepancy    *string           `json:"cashDiscrepancy,omitempty"`
}

// NewOrderStatusChanged builds the message for entry of the order in snapshot.
func NewOrderStatusChanged(snapshot order.Snapshot, entry order.HistoryEntry) OrderStatusChanged {
	msg := OrderStatusChanged{
		Type:           OrderStatusChangedType,
		OrderID:        snapshot.ID.String(),
		Seq:            entry.Seq,
		ToState:        entry.To.String(),
		Event:          string(entry.Event),
		ActorRole:      string(entry.ActorRole),
		ActorID:        entry.ActorID,
		At:             entry.At,
		Metadata:       entry.Metadata,
		AssignedDriver: snapshot.AssignedDriverID,
	}
	if entry.From != order.Unknown {
		msg.FromState = entry.From.String()
	}
	if snapshot.CashDiscrepancy != nil {
		discrepancy := snapshot.CashDiscrepancy.String()
		msg.Discrepancy = &discrepancy
	}
	return msg
}
