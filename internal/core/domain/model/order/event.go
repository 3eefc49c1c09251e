package order

import (
	"fmt"
	"slices"

	"ordering/internal/pkg/errs"
)

// Event names a requested transition. Values match the HTTP route segments.
type Event string

const (
	// EventPlace is recorded by the ordering flow when the order is created; it
	// cannot be requested through the transition engine.
	EventPlace Event = "place"

	EventConfirm          Event = "confirm"
	EventReject           Event = "reject"
	EventSendToKitchen    Event = "send-to-kitchen"
	EventMarkReady        Event = "mark-ready"
	EventAssignDriver     Event = "assign-driver"
	EventStartDelivery    Event = "start-delivery"
	EventCompleteDelivery Event = "complete-delivery"
	EventVerifyCash       Event = "verify-cash"
	EventReleaseDriver    Event = "release-driver"
	EventHandOver         Event = "hand-over"
)

// AllEvents lists the events an actor may request.
func AllEvents() []Event {
	return []Event{
		EventConfirm,
		EventReject,
		EventSendToKitchen,
		EventMarkReady,
		EventAssignDriver,
		EventStartDelivery,
		EventCompleteDelivery,
		EventVerifyCash,
		EventReleaseDriver,
		EventHandOver,
	}
}

func (e Event) Validate() error {
	if !slices.Contains(AllEvents(), e) {
		return errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("%q is not a valid event", string(e)))
	}
	return nil
}

func (e Event) String() string {
	return string(e)
}

// Role is the kind of actor requesting a transition.
type Role string

const (
	RoleCoordinator Role = "coordinator"
	RoleKitchen     Role = "kitchen"
	RoleDriver      Role = "driver"

	// RoleSystem authors the initial history entry only.
	RoleSystem Role = "system"
)

// AllRoles lists the human actor roles.
func AllRoles() []Role {
	return []Role{RoleCoordinator, RoleKitchen, RoleDriver}
}

// ParseRole converts a route segment such as "kitchen" into a Role.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if err := role.Validate(); err != nil {
		return "", err
	}
	return role, nil
}

func (r Role) Validate() error {
	if !slices.Contains(AllRoles(), r) {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", string(r)))
	}
	return nil
}

func (r Role) String() string {
	return string(r)
}
