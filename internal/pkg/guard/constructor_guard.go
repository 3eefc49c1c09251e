// Package guard provides ConstructorGuard, a marker that lets value objects,
// aggregates and commands tell a constructor-built instance from a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types that must only be created through
// their constructor. The zero value fails validation.
//
// Example:
//
//	type AssignDriverCommand struct {
//	    driverID string
//	    guard    guard.ConstructorGuard
//	}
//
//	func (c AssignDriverCommand) Validate() error {
//	    return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
