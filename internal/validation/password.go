package validation

import "regexp"

var specialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

// HasSpecialChar reports whether the password contains at least one
// punctuation character from the accepted set.
func HasSpecialChar(s string) bool {
	return specialChars.MatchString(s)
}
