// Package api holds the HTTP contract of the ordering service: the OpenAPI document,
// its request and response types, and the echo bindings that decode path and header
// parameters before calling a ServerInterface.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error reason codes.
const (
	ReasonStaleStateConflict         = "STALE_STATE_CONFLICT"
	ReasonOrderTerminal              = "ORDER_TERMINAL"
	ReasonForbiddenTransition        = "FORBIDDEN_TRANSITION"
	ReasonInvalidReconciliationInput = "INVALID_RECONCILIATION_INPUT"
	ReasonInvalidTransitionInput     = "INVALID_TRANSITION_INPUT"
	ReasonValidationFailed           = "VALIDATION_FAILED"
	ReasonNotFound                   = "NOT_FOUND"
	ReasonBadRequest                 = "BAD_REQUEST"
	ReasonInternal                   = "INTERNAL"
)

// Error defines model for Error.
type Error struct {
	Code          int     `json:"code"`
	Reason        string  `json:"reason,omitempty"`
	Message       string  `json:"message"`
	CurrentStatus *string `json:"currentStatus,omitempty"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	Id            *openapi_types.UUID `json:"id,omitempty"`
	Total         string              `json:"total"`
	PaymentMethod string              `json:"paymentMethod"`
	Fulfillment   *string             `json:"fulfillment,omitempty"`
}

// TransitionRequest defines model for TransitionRequest.
type TransitionRequest struct {
	ExpectedStatus *string `json:"expectedStatus,omitempty"`
	Reason         *string `json:"reason,omitempty"`
	DriverId       *string `json:"driverId,omitempty"`
	Collected      *string `json:"collected,omitempty"`
}

// HistoryEntry defines model for HistoryEntry.
type HistoryEntry struct {
	Seq       int               `json:"seq"`
	FromState string            `json:"fromState,omitempty"`
	ToState   string            `json:"toState"`
	Event     string            `json:"event"`
	ActorRole string            `json:"actorRole"`
	ActorId   string            `json:"actorId"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Order defines model for Order.
type Order struct {
	Id               openapi_types.UUID `json:"id"`
	Status           string             `json:"status"`
	Total            string             `json:"total"`
	PaymentMethod    string             `json:"paymentMethod"`
	Fulfillment      string             `json:"fulfillment"`
	AssignedDriverId *string            `json:"assignedDriverId"`
	RejectionReason  *string            `json:"rejectionReason,omitempty"`
	CashCollected    *string            `json:"cashCollected,omitempty"`
	CashDiscrepancy  *string            `json:"cashDiscrepancy,omitempty"`
	Version          int                `json:"version"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
	History          []HistoryEntry     `json:"history,omitempty"`
}

// NewDriver defines model for NewDriver.
type NewDriver struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// Driver defines model for Driver.
type Driver struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// TransitionParams defines the header parameters shared by every transition operation.
type TransitionParams struct {
	XActorID string `json:"X-Actor-ID"`
}

// GetQueueParams defines parameters for GetQueue.
type GetQueueParams struct {
	XActorID *string `json:"X-Actor-ID,omitempty"`
}
