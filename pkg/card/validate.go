package card

import (
	"regexp"
	"time"
)

// emailPattern insists on a single @, a non-empty local part, and a
// domain containing a dot. Full RFC 5322 compliance is not attempted.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ExpirationInFuture reports whether month/year (two-digit year) is the
// current month or later. Two-digit years are always read as the current
// century; dates more than a century out cannot be expressed.
func ExpirationInFuture(month, year int, now time.Time) bool {
	if month < 1 || month > 12 {
		return false
	}
	if year < 0 || year > 99 {
		return false
	}
	currentYear := now.Year() % 100
	if year < currentYear {
		return false
	}
	if year == currentYear && month < int(now.Month()) {
		return false
	}
	return true
}

// ValidCVC accepts three or four digits, ignoring separators.
func ValidCVC(value string) bool {
	n := len(Digits(value))
	return n == 3 || n == 4
}

// ValidEmail applies the pragmatic email shape check.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}
