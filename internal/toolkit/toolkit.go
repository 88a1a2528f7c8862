// Package toolkit holds the field technician helpers: the SAE J1667
// opacity limit table, the OBD readiness checklist, and the quick
// receipt text.
package toolkit

import (
	"errors"
	"time"

	"carbcheck/internal/deeplink"
)

// OpacityLimit returns the maximum allowed smoke opacity percentage for
// an engine year. Any engine 2007 or newer, or any vehicle with a DPF
// retrofit regardless of year, is held to 5%.
func OpacityLimit(engineYear int, hasDPF bool) int {
	switch {
	case engineYear >= 2007 || hasDPF:
		return 5
	case engineYear >= 1996:
		return 20
	case engineYear >= 1991:
		return 30
	default:
		return 40
	}
}

// Monitor is one OBD readiness monitor on the pre-test checklist.
type Monitor struct {
	Name  string
	Ready bool
}

// NewChecklist returns the standard heavy-duty monitor list. The three
// continuous monitors start ready; the non-continuous ones need drive
// cycles and start not ready.
func NewChecklist() []Monitor {
	return []Monitor{
		{Name: "Misfire", Ready: true},
		{Name: "Fuel System", Ready: true},
		{Name: "Comprehensive Component", Ready: true},
		{Name: "NMHC Catalyst", Ready: false},
		{Name: "NOx Aftertreatment", Ready: false},
		{Name: "PM Filter", Ready: false},
		{Name: "Exhaust Gas Sensor", Ready: false},
		{Name: "Boost Pressure", Ready: false},
	}
}

// SetAll marks every monitor ready or not ready in place.
func SetAll(monitors []Monitor, ready bool) {
	for i := range monitors {
		monitors[i].Ready = ready
	}
}

// AllReady reports whether the official OBD run can start.
func AllReady(monitors []Monitor) bool {
	for _, m := range monitors {
		if !m.Ready {
			return false
		}
	}
	return true
}

var ErrIncompleteReceipt = errors.New("customer phone and amount are required")

// Receipt is the post-test payment confirmation texted to the customer.
type Receipt struct {
	CustomerPhone string
	Amount        string
	VINLast6      string
	Date          time.Time
}

// Message renders the receipt text. The layout is fixed; customers
// forward these to fleet managers as proof of payment.
func (r Receipt) Message() string {
	return "🧾 RECEIPT: Clean Truck Check\n" +
		"Amount Paid: $" + r.Amount + "\n" +
		"VIN (last 6): " + r.VINLast6 + "\n" +
		"Date: " + r.Date.Format("1/2/2006") + "\n" +
		"Status: COMPLETED\n\n" +
		"Thank you for choosing Mobile Carb Check."
}

// SMSLink is the sms: URI that sends the receipt to the customer.
func (r Receipt) SMSLink() (string, error) {
	if r.CustomerPhone == "" || r.Amount == "" {
		return "", ErrIncompleteReceipt
	}
	return deeplink.SMS(r.CustomerPhone, r.Message()), nil
}
