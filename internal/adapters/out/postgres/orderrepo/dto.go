// Package orderrepo persists orders and their append-only history with GORM.
// One row in orders holds the status cache and the denormalised fields; history
// entries live in order_history keyed by (order_id, seq).
package orderrepo

import (
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Version equals the number of history rows.
type OrderDTO struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Status           int                 `gorm:"type:smallint;index"`
	Total            decimal.Decimal     `gorm:"type:numeric"`
	PaymentMethod    string              `gorm:"type:varchar(32)"`
	Fulfillment      string              `gorm:"type:varchar(16)"`
	AssignedDriverID *string             `gorm:"type:varchar(64);index"`
	RejectionReason  *string
	CashCollected    decimal.NullDecimal `gorm:"type:numeric"`
	CashDiscrepancy  decimal.NullDecimal `gorm:"type:numeric"`
	Version          int
	CreatedAt        time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// HistoryDTO is one order_history row.
type HistoryDTO struct {
	OrderID    uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Seq        int               `gorm:"primaryKey;autoIncrement:false"`
	FromStatus int               `gorm:"type:smallint"`
	ToStatus   int               `gorm:"type:smallint"`
	Event      string            `gorm:"type:varchar(32)"`
	ActorRole  string            `gorm:"type:varchar(16)"`
	ActorID    string            `gorm:"type:varchar(64)"`
	At         time.Time
	Metadata   map[string]string `gorm:"type:jsonb;serializer:json"`
}

func (HistoryDTO) TableName() string {
	return "order_history"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	return OrderDTO{
		ID:               s.ID.Bytes(),
		Status:           int(s.Status),
		Total:            s.Total.Decimal(),
		PaymentMethod:    string(s.PaymentMethod),
		Fulfillment:      string(s.Fulfillment),
		AssignedDriverID: s.AssignedDriverID,
		RejectionReason:  s.RejectionReason,
		CashCollected:    nullDecimal(s.CashCollected),
		CashDiscrepancy:  nullDecimal(s.CashDiscrepancy),
		Version:          s.Version,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// historyFromDomain maps the entries of o with Seq greater than after.
func historyFromDomain(o *order.Order, after int) []HistoryDTO {
	id := o.ID().Bytes()
	var rows []HistoryDTO
	for _, e := range o.History() {
		if e.Seq <= after {
			continue
		}
		rows = append(rows, HistoryDTO{
			OrderID:    id,
			Seq:        e.Seq,
			FromStatus: int(e.From),
			ToStatus:   int(e.To),
			Event:      string(e.Event),
			ActorRole:  string(e.ActorRole),
			ActorID:    e.ActorID,
			At:         e.At,
			Metadata:   e.Metadata,
		})
	}
	return rows
}

// snapshot maps the row back without touching invariants; toDomain checks them.
func (dto OrderDTO) snapshot(history []HistoryDTO) (order.Snapshot, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Snapshot{}, err
	}

	s := order.Snapshot{
		ID:               id,
		Status:           order.Status(dto.Status),
		Total:            kernel.NewMoney(dto.Total),
		PaymentMethod:    order.PaymentMethod(dto.PaymentMethod),
		Fulfillment:      order.Fulfillment(dto.Fulfillment),
		AssignedDriverID: dto.AssignedDriverID,
		RejectionReason:  dto.RejectionReason,
		CashCollected:    money(dto.CashCollected),
		CashDiscrepancy:  money(dto.CashDiscrepancy),
		Version:          dto.Version,
		CreatedAt:        dto.CreatedAt.UTC(),
		UpdatedAt:        dto.UpdatedAt.UTC(),
	}
	for _, h := range history {
		s.History = append(s.History, order.HistoryEntry{
			Seq:       h.Seq,
			From:      order.Status(h.FromStatus),
			To:        order.Status(h.ToStatus),
			Event:     order.Event(h.Event),
			ActorRole: order.Role(h.ActorRole),
			ActorID:   h.ActorID,
			At:        h.At.UTC(),
			Metadata:  h.Metadata,
		})
	}
	return s, nil
}

func toDomain(dto OrderDTO, history []HistoryDTO) (*order.Order, error) {
	s, err := dto.snapshot(history)
	if err != nil {
		return nil, err
	}
	return order.RestoreOrder(s)
}

func nullDecimal(m *kernel.Money) decimal.NullDecimal {
	if m == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: m.Decimal(), Valid: true}
}

func money(d decimal.NullDecimal) *kernel.Money {
	if !d.Valid {
		return nil
	}
	m := kernel.NewMoney(d.Decimal)
	return &m
}
