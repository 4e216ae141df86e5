// Package phn canonicalises Patient Health Numbers. Two PHNs identify the same
// patient when their digit sequences are equal, so "123-456-789",
// "123 456 789" and "123456789" are all the same identity.
package phn

import "strings"

// Normalize strips every character that is not an ASCII digit.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
