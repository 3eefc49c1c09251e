package queries

import (
	"errors"
	"strings"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var ErrGetRoleQueueQueryIsNotConstructed = errors.New(
	"GetRoleQueueQuery must be created via NewGetRoleQueueQuery constructor",
)

// GetRoleQueueQuery asks for the orders waiting on one actor. Drivers must identify
// themselves so the out-for-delivery part of their queue can be narrowed to their own
// orders.
//
// Example:
//
//	query, err := NewGetRoleQueueQuery(order.RoleDriver, "D1")
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetRoleQueueQuery struct {
	role    order.Role
	actorID string

	guard guard.ConstructorGuard
}

func NewGetRoleQueueQuery(role order.Role, actorID string) (GetRoleQueueQuery, error) {
	if err := role.Validate(); err != nil {
		return GetRoleQueueQuery{}, err
	}
	actorID = strings.TrimSpace(actorID)
	if role == order.RoleDriver && actorID == "" {
		return GetRoleQueueQuery{}, errs.NewValueIsRequiredError("actorId")
	}
	return GetRoleQueueQuery{role: role, actorID: actorID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRoleQueueQuery) Validate() error {
	return q.guard.Validate(ErrGetRoleQueueQueryIsNotConstructed)
}

func (q GetRoleQueueQuery) Role() order.Role {
	return q.role
}

func (q GetRoleQueueQuery) ActorID() string {
	return q.actorID
}
