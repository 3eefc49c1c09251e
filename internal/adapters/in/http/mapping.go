package http

import (
	"ordering/internal/adapters/in/http/api"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

func toOrder(s order.Snapshot) api.Order {
	result := api.Order{
		Id:               s.ID.Bytes(),
		Status:           s.Status.String(),
		Total:            s.Total.String(),
		PaymentMethod:    string(s.PaymentMethod),
		Fulfillment:      string(s.Fulfillment),
		AssignedDriverId: s.AssignedDriverID,
		RejectionReason:  s.RejectionReason,
		CashCollected:    moneyString(s.CashCollected),
		CashDiscrepancy:  moneyString(s.CashDiscrepancy),
		Version:          s.Version,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}

	if len(s.History) > 0 {
		result.History = make([]api.HistoryEntry, len(s.History))
		for i, e := range s.History {
			entry := api.HistoryEntry{
				Seq:       e.Seq,
				ToState:   e.To.String(),
				Event:     string(e.Event),
				ActorRole: string(e.ActorRole),
				ActorId:   e.ActorID,
				Timestamp: e.At,
				Metadata:  e.Metadata,
			}
			if e.From != order.Unknown {
				entry.FromState = e.From.String()
			}
			result.History[i] = entry
		}
	}

	return result
}

func moneyString(m *kernel.Money) *string {
	if m == nil {
		return nil
	}
	s := m.String()
	return &s
}
