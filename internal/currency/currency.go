// Package currency canonicalizes ISO-style currency codes. Stored records
// from older app versions may carry lowercase, padded, or missing currency
// fields, so every read and write path normalizes before comparing codes.
package currency

import "strings"

// DefaultCode is the fallback currency for blank or absent codes.
const DefaultCode = "EUR"

// Normalize trims and uppercases a currency code, returning DefaultCode
// when the result is empty. It never fails and is idempotent.
func Normalize(code string) string {
	v := strings.ToUpper(strings.TrimSpace(code))
	if v == "" {
		return DefaultCode
	}
	return v
}
