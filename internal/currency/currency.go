// Package currency converts amounts between the canonical storage unit
// (USD) and the alternate display unit (IDR) at a fixed rate.
package currency

import (
	"fmt"
	"strings"
)

// Unit identifies a currency unit understood by the converter.
type Unit string

const (
	// USD is the canonical unit; all stored prices are USD.
	USD Unit = "USD"
	// IDR is the alternate display unit.
	IDR Unit = "IDR"
)

// Rate is the fixed conversion rate: 1 USD = 15000 IDR.
const Rate = 15000.0

// ParseUnit maps a user-supplied unit string to a Unit. An empty string
// defaults to USD.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "USD":
		return USD, nil
	case "IDR":
		return IDR, nil
	}
	return "", fmt.Errorf("unknown currency unit %q", s)
}

// Symbol returns the display symbol for a unit.
func (u Unit) Symbol() string {
	if u == IDR {
		return "Rp"
	}
	return "$"
}

// ToDisplay converts a canonical amount into the given display unit.
func ToDisplay(amount float64, unit Unit) float64 {
	if unit == IDR {
		return amount * Rate
	}
	return amount
}

// ToCanonical converts an amount entered in the given unit back into the
// canonical unit.
func ToCanonical(amount float64, unit Unit) float64 {
	if unit == IDR {
		return amount / Rate
	}
	return amount
}

// Format renders an amount in the given display unit with the unit symbol
// and two decimal places. Rounding here is presentation only; stored
// amounts keep full precision.
func Format(amount float64, unit Unit) string {
	return fmt.Sprintf("%s%.2f", unit.Symbol(), ToDisplay(amount, unit))
}
