// Package order holds the Order aggregate of the restaurant workflow together with
// its value types: Status, Event, Role, PaymentMethod, Fulfillment and HistoryEntry.
//
// The aggregate owns the audit trail. Every change of status is a HistoryEntry
// appended through Order.Record, and the status field is only a cache of the last
// entry. Record checks the structural rules (no gaps, no writes after a terminal
// state, driver assignment consistent with status); the transition table with its
// roles and guards lives in the domain services package.
//
// Errors returned for refused transitions are *TransitionError values wrapping one
// of ErrStaleStateConflict, ErrForbiddenTransition, ErrOrderTerminal,
// ErrInvalidReconciliationInput or ErrInvalidTransitionInput.
package order
