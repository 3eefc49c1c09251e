package order

import (
	"maps"
	"time"

	"ordering/internal/core/domain/model/kernel"
)

// HistoryEntry is one committed transition. Entries are append-only; Seq starts at 1
// and equals the order version after the entry was recorded.
type HistoryEntry struct {
	Seq       int               `json:"seq"`
	From      Status            `json:"fromState"`
	To        Status            `json:"toState"`
	Event     Event             `json:"event"`
	ActorRole Role              `json:"actorRole"`
	ActorID   string            `json:"actorId"`
	At        time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (e HistoryEntry) clone() HistoryEntry {
	e.Metadata = maps.Clone(e.Metadata)
	return e
}

// Change carries the field updates that accompany a history entry.
// Zero fields leave the order untouched.
type Change struct {
	AssignDriver    string
	ReleaseDriver   bool
	RejectionReason string
	CashCollected   *kernel.Money
	CashDiscrepancy *kernel.Money
}
