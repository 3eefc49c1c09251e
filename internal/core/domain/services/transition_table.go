package services

import (
	"errors"
	"fmt"
	"strings"

	"ordering/internal/core/domain/model/driver"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// Metadata keys written to history entries.
const (
	MetaReason         = "reason"
	MetaDriverID       = "driverId"
	MetaReleasedDriver = "releasedDriverId"
	MetaAcknowledged   = "acknowledged"
	MetaCollected      = "collected"
	MetaExpected       = "expected"
	MetaDiscrepancy    = "discrepancy"
	MetaReconciliation = "reconciliation"
)

// Values of MetaReconciliation.
const (
	ReconciliationMatched     = "matched"
	ReconciliationDiscrepancy = "discrepancy"
	ReconciliationPrepaid     = "prepaid"
)

// guardInput is what a guard may look at. Guards never mutate the order.
type guardInput struct {
	order      *order.Order
	req        TransitionRequest
	driver     *driver.Driver
	reconciler CashReconciler
}

// guardResult carries the field changes and history metadata produced by a passing guard.
type guardResult struct {
	change   order.Change
	metadata map[string]string
}

type guardFunc func(in guardInput) (guardResult, error)

// rule is one row of the transition table.
type rule struct {
	from  order.Status
	event order.Event
	role  order.Role
	to    order.Status
	guard guardFunc
}

type ruleKey struct {
	from  order.Status
	event order.Event
	role  order.Role
}

// transitionRules is the complete workflow. Every legal (state, event, role) triple
// is exactly one row; anything else is refused.
var transitionRules = []rule{
	{order.Pending, order.EventConfirm, order.RoleCoordinator, order.Confirmed, noGuard},
	{order.Pending, order.EventReject, order.RoleCoordinator, order.Rejected, requireRejectionReason},
	{order.Confirmed, order.EventSendToKitchen, order.RoleCoordinator, order.Preparing, noGuard},
	{order.Preparing, order.EventMarkReady, order.RoleKitchen, order.Ready, noGuard},
	{order.Ready, order.EventAssignDriver, order.RoleCoordinator, order.OutForDelivery, assignActiveDriver},
	{order.Ready, order.EventHandOver, order.RoleCoordinator, order.Delivered, handOverAtCounter},
	{order.OutForDelivery, order.EventStartDelivery, order.RoleDriver, order.OutForDelivery, acknowledgeDelivery},
	{order.OutForDelivery, order.EventCompleteDelivery, order.RoleDriver, order.Delivered, completeDelivery},
	{order.OutForDelivery, order.EventReleaseDriver, order.RoleCoordinator, order.Ready, releaseDriver},
	{order.Delivered, order.EventVerifyCash, order.RoleCoordinator, order.Completed, verifyCash},
}

var (
	rulesByKey   = indexRules(transitionRules)
	rolesByEvent = indexRoles(transitionRules)
	fromByEvent  = indexSources(transitionRules)
)

func indexRules(rules []rule) map[ruleKey]rule {
	index := make(map[ruleKey]rule, len(rules))
	for _, r := range rules {
		index[ruleKey{r.from, r.event, r.role}] = r
	}
	return index
}

func indexRoles(rules []rule) map[order.Event]map[order.Role]bool {
	index := make(map[order.Event]map[order.Role]bool)
	for _, r := range rules {
		if index[r.event] == nil {
			index[r.event] = make(map[order.Role]bool)
		}
		index[r.event][r.role] = true
	}
	return index
}

func indexSources(rules []rule) map[order.Event][]order.Status {
	index := make(map[order.Event][]order.Status)
	for _, r := range rules {
		index[r.event] = append(index[r.event], r.from)
	}
	return index
}

func lookupRule(from order.Status, event order.Event, role order.Role) (rule, bool) {
	r, ok := rulesByKey[ruleKey{from, event, role}]
	return r, ok
}

// Edge is the public view of a table row.
type Edge struct {
	From  order.Status
	Event order.Event
	Role  order.Role
	To    order.Status
}

// Edges returns the transition table in declaration order.
func Edges() []Edge {
	edges := make([]Edge, 0, len(transitionRules))
	for _, r := range transitionRules {
		edges = append(edges, Edge{From: r.from, Event: r.event, Role: r.role, To: r.to})
	}
	return edges
}

// AllowedEvents lists the events role may request while an order is in status,
// before guards are evaluated. Dashboards use it to decide which buttons to show.
func AllowedEvents(status order.Status, role order.Role) []order.Event {
	var events []order.Event
	for _, r := range transitionRules {
		if r.from == status && r.role == role {
			events = append(events, r.event)
		}
	}
	return events
}

func noGuard(guardInput) (guardResult, error) {
	return guardResult{}, nil
}

func requireRejectionReason(in guardInput) (guardResult, error) {
	reason := strings.TrimSpace(in.req.Reason)
	if reason == "" {
		return guardResult{}, invalidInput(in, errors.New("rejection reason is required"))
	}
	return guardResult{
		change:   order.Change{RejectionReason: reason},
		metadata: map[string]string{MetaReason: reason},
	}, nil
}

func assignActiveDriver(in guardInput) (guardResult, error) {
	if in.order.Fulfillment() != order.Delivery {
		return guardResult{}, forbidden(in, "pickup orders are handed over at the counter")
	}

	driverID := strings.TrimSpace(in.req.DriverID)
	if driverID == "" {
		return guardResult{}, invalidInput(in, errors.New("driver id is required"))
	}
	if in.driver == nil || in.driver.ID() != driverID {
		return guardResult{}, invalidInput(in, fmt.Errorf("driver %s is not registered", driverID))
	}
	if !in.driver.IsActive() {
		return guardResult{}, invalidInput(in, fmt.Errorf("driver %s is not active", driverID))
	}

	return guardResult{
		change:   order.Change{AssignDriver: driverID},
		metadata: map[string]string{MetaDriverID: driverID},
	}, nil
}

func handOverAtCounter(in guardInput) (guardResult, error) {
	if in.order.Fulfillment() != order.Pickup {
		return guardResult{}, forbidden(in, "delivery orders leave with a driver")
	}
	return recordCollected(in)
}

func acknowledgeDelivery(in guardInput) (guardResult, error) {
	if err := requireAssignedDriver(in); err != nil {
		return guardResult{}, err
	}
	return guardResult{metadata: map[string]string{MetaAcknowledged: "true"}}, nil
}

func completeDelivery(in guardInput) (guardResult, error) {
	if err := requireAssignedDriver(in); err != nil {
		return guardResult{}, err
	}
	return recordCollected(in)
}

func releaseDriver(in guardInput) (guardResult, error) {
	reason := strings.TrimSpace(in.req.Reason)
	if reason == "" {
		return guardResult{}, invalidInput(in, errors.New("release reason is required"))
	}
	released, _ := in.order.AssignedDriver()
	return guardResult{
		change: order.Change{ReleaseDriver: true},
		metadata: map[string]string{
			MetaReason:         reason,
			MetaReleasedDriver: released,
		},
	}, nil
}

// verifyCash settles the order. The driver, if any, is released on completion.
func verifyCash(in guardInput) (guardResult, error) {
	if !in.order.PaymentMethod().IsCash() {
		return guardResult{
			change:   order.Change{ReleaseDriver: true},
			metadata: map[string]string{MetaReconciliation: ReconciliationPrepaid},
		}, nil
	}

	collected, err := collectedForVerification(in)
	if err != nil {
		return guardResult{}, err
	}

	outcome := in.reconciler.Reconcile(in.order.Total(), collected)
	result := guardResult{
		change: order.Change{CashCollected: &collected, ReleaseDriver: true},
		metadata: map[string]string{
			MetaCollected:      collected.Decimal().String(),
			MetaExpected:       in.order.Total().Decimal().String(),
			MetaReconciliation: ReconciliationMatched,
		},
	}
	if outcome.Discrepancy != nil {
		result.change.CashDiscrepancy = outcome.Discrepancy
		result.metadata[MetaDiscrepancy] = outcome.Discrepancy.String()
		result.metadata[MetaReconciliation] = ReconciliationDiscrepancy
	}
	return result, nil
}

// collectedForVerification prefers the amount sent with verify-cash and falls back to
// the amount recorded when the order was delivered.
func collectedForVerification(in guardInput) (kernel.Money, error) {
	if strings.TrimSpace(in.req.Collected) != "" {
		return parseCollected(in)
	}
	if recorded := in.order.CashCollected(); recorded != nil {
		return *recorded, nil
	}
	return kernel.Money{}, reconciliationInput(in, errors.New("collected amount is required"))
}

// recordCollected stores the optional amount reported at the door or the counter.
// Prepaid orders ignore it.
func recordCollected(in guardInput) (guardResult, error) {
	if !in.order.PaymentMethod().IsCash() || strings.TrimSpace(in.req.Collected) == "" {
		return guardResult{}, nil
	}
	collected, err := parseCollected(in)
	if err != nil {
		return guardResult{}, err
	}
	return guardResult{
		change:   order.Change{CashCollected: &collected},
		metadata: map[string]string{MetaCollected: collected.Decimal().String()},
	}, nil
}

func parseCollected(in guardInput) (kernel.Money, error) {
	collected, err := kernel.MoneyFromString(in.req.Collected)
	if err != nil {
		return kernel.Money{}, reconciliationInput(in, err)
	}
	if collected.IsNegative() {
		return kernel.Money{}, reconciliationInput(in, fmt.Errorf("collected amount %s is negative", collected))
	}
	return collected, nil
}

func requireAssignedDriver(in guardInput) error {
	assigned, ok := in.order.AssignedDriver()
	if !ok || assigned != in.req.ActorID {
		return forbidden(in, "caller is not the assigned driver")
	}
	return nil
}

func forbidden(in guardInput, detail string) error {
	return order.NewForbiddenTransitionError(in.order.Status(), in.req.Event, in.req.Role, detail)
}

func invalidInput(in guardInput, cause error) error {
	return order.NewInvalidTransitionInputError(in.order.Status(), in.req.Event, in.req.Role, cause)
}

func reconciliationInput(in guardInput, cause error) error {
	return order.NewInvalidReconciliationInputError(in.order.Status(), in.req.Event, in.req.Role, cause)
}
