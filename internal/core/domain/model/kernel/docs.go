// Package kernel holds the value objects shared by the order and driver models:
//   - UUID: validated identifier wrapping github.com/google/uuid
//   - Money: decimal amount wrapping github.com/shopspring/decimal, with the
//     fixed-epsilon comparison used by cash reconciliation
//
// Both are immutable and safe for concurrent use.
package kernel
