// Package phone formats phone numbers for the country a résumé targets.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Formatter formats phone numbers with libphonenumber metadata
type Formatter struct{}

// NewFormatter creates a Formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format returns number in national format when it belongs to countryCode and in
// international format otherwise. Invalid or unparseable input is returned unchanged.
func (f *Formatter) Format(number, countryCode string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return number
	}
	region := strings.ToUpper(strings.TrimSpace(countryCode))

	parsed, err := phonenumbers.Parse(trimmed, region)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return number
	}

	if phonenumbers.GetRegionCodeForNumber(parsed) == region {
		return phonenumbers.Format(parsed, phonenumbers.NATIONAL)
	}
	return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL)
}
