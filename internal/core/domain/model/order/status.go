package order

import (
	"fmt"
	"slices"

	"ordering/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Ready ──> OutForDelivery ──> Delivered ──> Completed
//	   │                                      │  ^          │                ^
//	   │                                      │  └──────────┘ (release)      │
//	   │                                      └────────── (pickup hand-over) ┘
//	   └──> Rejected
//
// Completed and Rejected are terminal. The persisted value is the integer, the
// wire value is the upper-case name.
type Status int

const (
	// Unknown is the zero value and the "from" state of an order's first history entry.
	Unknown Status = iota

	// Pending orders wait for the coordinator to confirm or reject them.
	Pending

	// Confirmed orders are accepted but not yet sent to the kitchen.
	Confirmed

	// Preparing orders are being cooked.
	Preparing

	// Ready orders wait for a driver (delivery) or the customer (pickup).
	Ready

	// OutForDelivery orders are carried by the assigned driver.
	OutForDelivery

	// Delivered orders reached the customer; cash, if any, is not yet verified.
	Delivered

	// Completed orders are financially settled. Terminal.
	Completed

	// Rejected orders were refused by the coordinator. Terminal.
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Pending:        "PENDING",
		Confirmed:      "CONFIRMED",
		Preparing:      "PREPARING",
		Ready:          "READY",
		OutForDelivery: "OUT_FOR_DELIVERY",
		Delivered:      "DELIVERED",
		Completed:      "COMPLETED",
		Rejected:       "REJECTED",
	}
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Confirmed, Preparing, Ready, OutForDelivery, Delivered, Completed, Rejected}
}

// ParseStatus converts a wire name such as "OUT_FOR_DELIVERY" into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values, e.g. integers read from storage.
func (s Status) Validate() error {
	if !slices.Contains(AllStatuses(), s) {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the order accepts no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Rejected
}

// ValidateCanHaveDriver checks status and driver assignment against each other.
//
// Business rules:
//   - pickup orders never have a driver
//   - delivery orders have a driver exactly while OutForDelivery or Delivered; the
//     assign-driver history entry keeps who delivered it
func (s Status) ValidateCanHaveDriver(fulfillment Fulfillment, hasDriver bool) error {
	if fulfillment == Pickup {
		if hasDriver {
			return errs.NewValueIsInvalidErrorWithCause(
				"assignedDriverId",
				fmt.Errorf("pickup order in %s cannot have a driver", s),
			)
		}
		return nil
	}

	needsDriver := s == OutForDelivery || s == Delivered
	if needsDriver && !hasDriver {
		return errs.NewValueIsInvalidErrorWithCause(
			"assignedDriverId",
			fmt.Errorf("%s is not a valid status to have no driver", s),
		)
	}
	if !needsDriver && hasDriver {
		return errs.NewValueIsInvalidErrorWithCause(
			"assignedDriverId",
			fmt.Errorf("%s is not a valid status to have a driver", s),
		)
	}
	return nil
}

// MarshalText writes the wire name; Unknown becomes the empty string.
func (s Status) MarshalText() ([]byte, error) {
	if s == Unknown {
		return []byte{}, nil
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *Status) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*s = Unknown
		return nil
	}
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
