// Package services holds the domain services of the order workflow.
//
// The package includes:
//   - TransitionEngine: applies the static transition table (state, event, role) -> state
//     with its guards, and records the history entry on the order
//   - CashReconciler: compares collected cash against the order total with a fixed epsilon
//
// The transition table is data: adding an edge is a new row in transitionRules, never a
// new branch in the engine.
package services
