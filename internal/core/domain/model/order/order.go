package order

import (
	"errors"
	"fmt"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

// PlacedBy is the actor id of the initial history entry written by the ordering flow.
const PlacedBy = "ordering-flow"

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrHistoryIsCorrupted is returned by CheckInvariants when stored history breaks the chain.
	ErrHistoryIsCorrupted = errors.New("order history is corrupted")
)

// Order is the aggregate root of the workflow: one restaurant order from placement to
// settlement.
//
// Order follows these invariants:
//   - status always equals the To of the last history entry
//   - every entry's From equals the previous entry's To, and Seq increases by one
//   - a driver is assigned exactly while the status requires one (see Status.ValidateCanHaveDriver)
//   - total, payment method and fulfillment never change after construction
//   - Completed and Rejected orders accept no further entries
//
// The aggregate only guards these structural rules. Which edges exist, who may take
// them and the guards attached to them are decided by the transition engine in the
// domain services package, which then calls Record.
type Order struct {
	id            kernel.UUID
	total         kernel.Money
	paymentMethod PaymentMethod
	fulfillment   Fulfillment
	createdAt     time.Time

	// status is a cache of the last history entry's To.
	status  Status
	history []HistoryEntry

	// assignedDriverID is empty when no driver is assigned.
	assignedDriverID string
	rejectionReason  string
	cashCollected    *kernel.Money
	cashDiscrepancy  *kernel.Money

	guard guard.ConstructorGuard
}

// NewOrder creates a Pending order as handed over by the ordering flow.
//
// Parameters:
//   - id: order identifier (must be valid)
//   - total: amount owed, must be positive; fixed for the life of the order
//   - paymentMethod: CashOnDelivery or Prepaid
//   - fulfillment: Delivery or Pickup
//   - placedAt: timestamp of the initial history entry
//
// The initial history entry goes from Unknown to Pending, authored by RoleSystem,
// so the status cache is consistent from the first read.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), kernel.MoneyFromCents(2000),
//	    order.CashOnDelivery, order.Delivery, time.Now())
func NewOrder(
	id kernel.UUID,
	total kernel.Money,
	paymentMethod PaymentMethod,
	fulfillment Fulfillment,
	placedAt time.Time,
) (*Order, error) {
	o := &Order{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		o.setID(id),
		o.setTotal(total),
		o.setPaymentMethod(paymentMethod),
		o.setFulfillment(fulfillment),
		o.setCreatedAt(placedAt),
	); err != nil {
		return nil, err
	}

	o.status = Pending
	o.history = []HistoryEntry{{
		Seq:       1,
		From:      Unknown,
		To:        Pending,
		Event:     EventPlace,
		ActorRole: RoleSystem,
		ActorID:   PlacedBy,
		At:        o.createdAt,
	}}
	return o, nil
}

// RestoreOrder rebuilds an order from a snapshot read from storage.
// Unlike NewOrder it accepts any status, but the snapshot must satisfy every
// invariant checked by CheckInvariants.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		o.setID(s.ID),
		o.setTotal(s.Total),
		o.setPaymentMethod(s.PaymentMethod),
		o.setFulfillment(s.Fulfillment),
		o.setCreatedAt(s.CreatedAt),
	); err != nil {
		return nil, err
	}

	o.status = s.Status
	o.history = make([]HistoryEntry, 0, len(s.History))
	for _, entry := range s.History {
		o.history = append(o.history, entry.clone())
	}
	if s.AssignedDriverID != nil {
		o.assignedDriverID = *s.AssignedDriverID
	}
	if s.RejectionReason != nil {
		o.rejectionReason = *s.RejectionReason
	}
	o.cashCollected = copyMoney(s.CashCollected)
	o.cashDiscrepancy = copyMoney(s.CashDiscrepancy)

	if err := o.CheckInvariants(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate ensures the order was built by a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

func (o *Order) Fulfillment() Fulfillment {
	return o.fulfillment
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Version is the number of history entries. The store uses it, together with the
// status, as the compare-and-swap token.
func (o *Order) Version() int {
	return len(o.history)
}

// AssignedDriver returns the driver id and whether one is assigned.
func (o *Order) AssignedDriver() (string, bool) {
	return o.assignedDriverID, o.assignedDriverID != ""
}

// RejectionReason is empty unless the order was rejected.
func (o *Order) RejectionReason() string {
	return o.rejectionReason
}

// CashCollected returns the last amount reported by the driver or the coordinator.
func (o *Order) CashCollected() *kernel.Money {
	return copyMoney(o.cashCollected)
}

// CashDiscrepancy is set when verify-cash found collected != total beyond the epsilon.
func (o *Order) CashDiscrepancy() *kernel.Money {
	return copyMoney(o.cashDiscrepancy)
}

// History returns a copy of the audit trail.
func (o *Order) History() []HistoryEntry {
	out := make([]HistoryEntry, 0, len(o.history))
	for _, entry := range o.history {
		out = append(out, entry.clone())
	}
	return out
}

// LastEntry returns the most recent history entry.
func (o *Order) LastEntry() HistoryEntry {
	return o.history[len(o.history)-1].clone()
}

// Record appends a history entry and applies its field changes.
//
// Record enforces the structural invariants only:
//   - the order must not be terminal
//   - entry.From must equal the current status (no gaps in the chain)
//   - entry.To must be a valid status and entry.At must be set
//   - the resulting driver assignment must fit the resulting status
//
// Seq is assigned here. On error the order is left unchanged.
func (o *Order) Record(entry HistoryEntry, change Change) (HistoryEntry, error) {
	if err := o.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if o.status.IsTerminal() {
		return HistoryEntry{}, NewOrderTerminalError(o.status, entry.Event, entry.ActorRole)
	}
	if entry.From != o.status {
		return HistoryEntry{}, NewStaleStateConflictError(o.status, entry.Event, entry.ActorRole,
			fmt.Sprintf("entry starts at %s", entry.From))
	}
	if err := entry.To.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if entry.At.IsZero() {
		return HistoryEntry{}, errs.NewValueIsRequiredError("timestamp")
	}

	driver := o.assignedDriverID
	if change.AssignDriver != "" {
		driver = change.AssignDriver
	}
	if change.ReleaseDriver {
		driver = ""
	}
	if err := entry.To.ValidateCanHaveDriver(o.fulfillment, driver != ""); err != nil {
		return HistoryEntry{}, err
	}

	entry = entry.clone()
	entry.Seq = len(o.history) + 1

	o.history = append(o.history, entry)
	o.status = entry.To
	o.assignedDriverID = driver
	if change.RejectionReason != "" {
		o.rejectionReason = change.RejectionReason
	}
	if change.CashCollected != nil {
		o.cashCollected = copyMoney(change.CashCollected)
	}
	if change.CashDiscrepancy != nil {
		o.cashDiscrepancy = copyMoney(change.CashDiscrepancy)
	}

	return entry.clone(), nil
}

// CheckInvariants verifies the history chain, the status cache and the field rules.
// It runs on every restore, so corrupted storage is never loaded into the engine.
func (o *Order) CheckInvariants() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if len(o.history) == 0 {
		return fmt.Errorf("%w: history is empty", ErrHistoryIsCorrupted)
	}

	first := o.history[0]
	if first.From != Unknown || first.To != Pending {
		return fmt.Errorf("%w: first entry is %s -> %s", ErrHistoryIsCorrupted, first.From, first.To)
	}
	for i, entry := range o.history {
		if entry.Seq != i+1 {
			return fmt.Errorf("%w: entry %d has seq %d", ErrHistoryIsCorrupted, i+1, entry.Seq)
		}
		if i > 0 && entry.From != o.history[i-1].To {
			return fmt.Errorf("%w: entry %d starts at %s after %s",
				ErrHistoryIsCorrupted, entry.Seq, entry.From, o.history[i-1].To)
		}
	}

	if last := o.history[len(o.history)-1]; last.To != o.status {
		return fmt.Errorf("%w: status %s differs from last entry %s", ErrHistoryIsCorrupted, o.status, last.To)
	}
	if err := o.status.ValidateCanHaveDriver(o.fulfillment, o.assignedDriverID != ""); err != nil {
		return err
	}
	if o.rejectionReason != "" && o.status != Rejected {
		return errs.NewValueIsInvalidErrorWithCause("rejectionReason",
			fmt.Errorf("%s order cannot carry a rejection reason", o.status))
	}
	if o.cashDiscrepancy != nil && (o.status != Completed || !o.paymentMethod.IsCash()) {
		return errs.NewValueIsInvalidErrorWithCause("cashDiscrepancy",
			fmt.Errorf("%s %s order cannot carry a discrepancy", o.status, o.paymentMethod))
	}
	return nil
}

// Snapshot returns a deep copy of the order for read paths and persistence.
func (o *Order) Snapshot() Snapshot {
	s := Snapshot{
		ID:              o.id,
		Status:          o.status,
		Total:           o.total,
		PaymentMethod:   o.paymentMethod,
		Fulfillment:     o.fulfillment,
		CashCollected:   copyMoney(o.cashCollected),
		CashDiscrepancy: copyMoney(o.cashDiscrepancy),
		Version:         len(o.history),
		CreatedAt:       o.createdAt,
		History:         o.History(),
	}
	if len(o.history) > 0 {
		s.UpdatedAt = o.history[len(o.history)-1].At
	}
	if o.assignedDriverID != "" {
		driver := o.assignedDriverID
		s.AssignedDriverID = &driver
	}
	if o.rejectionReason != "" {
		reason := o.rejectionReason
		s.RejectionReason = &reason
	}
	return s
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setTotal(total kernel.Money) error {
	if !total.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("%s is not greater than 0", total))
	}
	o.total = total
	return nil
}

func (o *Order) setPaymentMethod(p PaymentMethod) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.paymentMethod = p
	return nil
}

func (o *Order) setFulfillment(f Fulfillment) error {
	if err := f.Validate(); err != nil {
		return err
	}
	o.fulfillment = f
	return nil
}

func (o *Order) setCreatedAt(t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = t.UTC()
	return nil
}

// Snapshot is the read shape of an order: what the engine returns, what the read
// model stores and what the store adapters persist. History may be nil in read-model
// copies.
type Snapshot struct {
	ID               kernel.UUID    `json:"id"`
	Status           Status         `json:"status"`
	Total            kernel.Money   `json:"total"`
	PaymentMethod    PaymentMethod  `json:"paymentMethod"`
	Fulfillment      Fulfillment    `json:"fulfillment"`
	AssignedDriverID *string        `json:"assignedDriverId"`
	RejectionReason  *string        `json:"rejectionReason,omitempty"`
	CashCollected    *kernel.Money  `json:"cashCollected,omitempty"`
	CashDiscrepancy  *kernel.Money  `json:"cashDiscrepancy,omitempty"`
	Version          int            `json:"version"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	History          []HistoryEntry `json:"history,omitempty"`
}

// WithoutHistory returns a copy of the snapshot with the history dropped.
func (s Snapshot) WithoutHistory() Snapshot {
	s.History = nil
	return s
}

// HasDiscrepancy reports whether verify-cash flagged the order for manual review.
func (s Snapshot) HasDiscrepancy() bool {
	return s.CashDiscrepancy != nil
}

// IsAssignedTo reports whether driverID is the order's current driver.
func (s Snapshot) IsAssignedTo(driverID string) bool {
	return s.AssignedDriverID != nil && *s.AssignedDriverID == driverID
}

func copyMoney(m *kernel.Money) *kernel.Money {
	if m == nil {
		return nil
	}
	v := *m
	return &v
}
