// Package phone validates and normalizes Dutch mobile numbers.
package phone

import "regexp"

// National mobile format: 06 followed by eight digits.
var nlMobile = regexp.MustCompile(`^06\d{8}$`)

// Validate reports whether s is a national-format Dutch mobile number.
func Validate(s string) bool {
	return nlMobile.MatchString(s)
}

// Normalize converts a national 06-number to the +31 international form used
// for storage and SMS sending. Input already in another form (including
// international) passes through unchanged.
func Normalize(s string) string {
	if len(s) >= 2 && s[0] == '0' && s[1] == '6' {
		return "+31" + s[1:]
	}
	return s
}
