// Package locator handles mobile-tester requests. There is no dispatch
// backend; a request becomes a pre-filled text or email to the support
// line, so the message layout is an external contract with the staff
// workflow and must not drift.
package locator

import (
	"errors"
	"strings"

	"carbcheck/internal/deeplink"
	"carbcheck/internal/region"
)

// DefaultVehicleType matches the pre-selected option on the request form.
const DefaultVehicleType = "Heavy Duty (OBD + Smoke)"

var ErrMissingContact = errors.New("name and phone are required")

// Request is a tester visit request as entered by the user.
type Request struct {
	Name        string
	Phone       string
	Zip         string
	VehicleType string
	Date        string
	Time        string
	Notes       string
	WantAppLink bool
}

// Validate rejects requests that staff cannot act on.
func (r Request) Validate() error {
	if r.Name == "" || r.Phone == "" {
		return ErrMissingContact
	}
	return nil
}

// Region names the service area covering the request's zip code.
func (r Request) Region() string {
	return region.Lookup(r.Zip)
}

// Message renders the request in the fixed layout the support staff
// parse by eye. Field order and labels are load-bearing.
func (r Request) Message() string {
	requested := r.Date
	if r.Time != "" {
		requested += " @ " + r.Time
	}
	parts := []string{
		"TESTING REQUEST",
		"---------------",
		"Name: " + r.Name,
		"Phone: " + r.Phone,
		"Zip: " + r.Zip,
		"Vehicle: " + r.VehicleType,
		"Requested Date: " + requested,
		"",
		"Notes: " + r.Notes,
		"",
	}
	if r.WantAppLink {
		parts = append(parts, "[x] Please text me a link to the Mobile CARB App.")
	} else {
		parts = append(parts, "[] No app link.")
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// SMSLink is the sms: URI that sends the request to dispatch.
func (r Request) SMSLink() (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	return deeplink.SMS(deeplink.SupportPhone, r.Message()), nil
}

// EmailLink is the mailto: URI that sends the request to support.
func (r Request) EmailLink() (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	return deeplink.Mailto(deeplink.SupportEmail, "Testing Request - "+r.Name, r.Message()), nil
}
