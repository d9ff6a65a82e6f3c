// Package checkout turns a cart into an order: it validates the delivery
// form and payment details, resolves the shipping fee, and commits the order
// row, the stock decrements, and the order-number bump in one transaction.
package checkout

import (
	"regexp"
	"strings"

	"github.com/bakerist/bakerist/internal/orders"
	"github.com/bakerist/bakerist/internal/shared"
)

// Shipping rules. Orders above the threshold ship free; unmapped barangays
// fall back to the default fee.
const (
	FreeShippingThreshold = 300.0
	DefaultShippingFee    = 50.0
)

// phonePattern accepts Philippine numbers in +63 or 0 prefix form.
var phonePattern = regexp.MustCompile(`^(\+63|0)[0-9]{10}$`)

// ValidPhone reports whether s looks like a Philippine phone number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// DeliveryForm is the destination and contact section of the checkout form.
type DeliveryForm struct {
	FullName       string `json:"full_name"`
	Barangay       string `json:"barangay"`
	Sitio          string `json:"sitio"`
	Contact        string `json:"contact"`
	DeliveryMethod string `json:"delivery_method"`
	Instructions   string `json:"instructions"`
}

// PaymentForm carries method-specific payment details. Only the fields for
// the chosen method are consulted.
type PaymentForm struct {
	Method      string `json:"method"`
	GCashNumber string `json:"gcash_number,omitempty"`
	CardNumber  string `json:"card_number,omitempty"`
	CardExpiry  string `json:"card_expiry,omitempty"`
	CardCVV     string `json:"card_cvv,omitempty"`
	CardName    string `json:"card_name,omitempty"`
}

// FieldError points a validation failure at a specific form field.
type FieldError struct {
	Field  string
	Detail string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Detail }

// Unwrap lets callers match FieldError against shared.ErrValidation.
func (e *FieldError) Unwrap() error { return shared.ErrValidation }

// ValidateDelivery checks the required delivery fields and the contact
// number format.
func ValidateDelivery(form DeliveryForm) error {
	required := []struct {
		field string
		value string
	}{
		{"full_name", form.FullName},
		{"barangay", form.Barangay},
		{"sitio", form.Sitio},
		{"contact", form.Contact},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &FieldError{Field: f.field, Detail: "is required"}
		}
	}
	if !ValidPhone(form.Contact) {
		return &FieldError{Field: "contact", Detail: "must be a valid Philippine phone number"}
	}
	return nil
}

// ValidatePayment checks the method-specific payment details: a GCash number
// must look like a phone number, and card payments need all card fields.
func ValidatePayment(form PaymentForm) error {
	switch form.Method {
	case orders.PaymentCOD:
		return nil
	case orders.PaymentGCash:
		if !ValidPhone(form.GCashNumber) {
			return &FieldError{Field: "gcash_number", Detail: "must be a valid GCash number"}
		}
		return nil
	case orders.PaymentCreditCard:
		required := []struct {
			field string
			value string
		}{
			{"card_number", form.CardNumber},
			{"card_expiry", form.CardExpiry},
			{"card_cvv", form.CardCVV},
			{"card_name", form.CardName},
		}
		for _, f := range required {
			if strings.TrimSpace(f.value) == "" {
				return &FieldError{Field: f.field, Detail: "is required"}
			}
		}
		return nil
	default:
		return &FieldError{Field: "method", Detail: "unknown payment method"}
	}
}

// ShippingFee resolves the fee for a subtotal and a zone fee lookup result.
// The threshold is strict: a subtotal of exactly 300 still pays shipping.
func ShippingFee(subtotal float64, zoneFee float64, zoneKnown bool) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	if zoneKnown {
		return zoneFee
	}
	return DefaultShippingFee
}
