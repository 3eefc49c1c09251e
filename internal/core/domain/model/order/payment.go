package order

import (
	"fmt"

	"ordering/internal/pkg/errs"
)

// PaymentMethod decides whether the order goes through cash reconciliation.
type PaymentMethod string

const (
	CashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	Prepaid        PaymentMethod = "PREPAID"
)

func (p PaymentMethod) Validate() error {
	if p != CashOnDelivery && p != Prepaid {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not a valid payment method", string(p)))
	}
	return nil
}

// IsCash reports whether cash changes hands at the door or the counter.
func (p PaymentMethod) IsCash() bool {
	return p == CashOnDelivery
}

// Fulfillment decides whether the order leaves Ready with a driver or over the counter.
type Fulfillment string

const (
	Delivery Fulfillment = "DELIVERY"
	Pickup   Fulfillment = "PICKUP"
)

func (f Fulfillment) Validate() error {
	if f != Delivery && f != Pickup {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment", fmt.Errorf("%q is not a valid fulfillment", string(f)))
	}
	return nil
}
