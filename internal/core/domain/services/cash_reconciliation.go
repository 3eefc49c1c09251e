package services

import (
	"ordering/internal/core/domain/model/kernel"
)

// DefaultCashEpsilon is the tolerance below which collected and expected cash are equal.
var DefaultCashEpsilon = kernel.MoneyFromCents(1)

// CashReconciler compares the cash a driver or the counter collected against the order
// total when a cash-on-delivery order is verified.
//
// Business rules:
//   - |collected - expected| < epsilon: reconciled, nothing recorded
//   - otherwise: reconciled with a discrepancy of collected - expected
//
// A discrepancy never blocks completion; it only flags the order for manual review.
// Input validation (missing or negative amounts) happens before Reconcile is called.
//
// Example usage:
//
//	r := services.NewCashReconciler()
//	outcome := r.Reconcile(kernel.MoneyFromCents(2000), kernel.MoneyFromCents(1850))
//	// outcome.Discrepancy == -1.50
type CashReconciler struct {
	epsilon kernel.Money
}

// NewCashReconciler returns a reconciler with DefaultCashEpsilon.
func NewCashReconciler() CashReconciler {
	return CashReconciler{epsilon: DefaultCashEpsilon}
}

// NewCashReconcilerWithEpsilon returns a reconciler with a custom tolerance.
// Non-positive values fall back to DefaultCashEpsilon.
func NewCashReconcilerWithEpsilon(epsilon kernel.Money) CashReconciler {
	if !epsilon.IsPositive() {
		epsilon = DefaultCashEpsilon
	}
	return CashReconciler{epsilon: epsilon}
}

// Epsilon returns the configured tolerance.
func (r CashReconciler) Epsilon() kernel.Money {
	if !r.epsilon.IsPositive() {
		return DefaultCashEpsilon
	}
	return r.epsilon
}

// Reconciliation is the outcome of comparing collected and expected cash.
type Reconciliation struct {
	Expected  kernel.Money
	Collected kernel.Money
	// Discrepancy is nil when the amounts match within the tolerance.
	Discrepancy *kernel.Money
}

// Reconcile compares collected against expected.
func (r CashReconciler) Reconcile(expected, collected kernel.Money) Reconciliation {
	result := Reconciliation{Expected: expected, Collected: collected}
	if collected.WithinEpsilon(expected, r.Epsilon()) {
		return result
	}
	discrepancy := collected.Sub(expected)
	result.Discrepancy = &discrepancy
	return result
}
