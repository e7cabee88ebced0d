// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// FallbackRegion is used when the caller supplies no region. Lead contacts
// without a country prefix are interpreted in this region.
const FallbackRegion = "NL"

// NormalizeE164 formats a phone number to E.164, parsing prefix-less input
// in the given region. An empty region falls back to FallbackRegion. If
// parsing or validation fails, the trimmed input is returned unchanged.
func NormalizeE164(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}
	if region == "" {
		region = FallbackRegion
	}

	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
