package card

import (
	"fmt"
	"strconv"
	"strings"
)

// maxFormattedNumberLen is 16 digits plus 3 separating spaces.
const maxFormattedNumberLen = 19

// FormatNumber strips non-digits from input, groups the digits into
// blocks of four joined by single spaces, and truncates the result to
// 19 characters. Applying it to its own output is a no-op.
func FormatNumber(input string) string {
	digits := Digits(input)
	var groups []string
	for len(digits) > 4 {
		groups = append(groups, digits[:4])
		digits = digits[4:]
	}
	if digits != "" {
		groups = append(groups, digits)
	}
	formatted := strings.Join(groups, " ")
	if len(formatted) > maxFormattedNumberLen {
		formatted = formatted[:maxFormattedNumberLen]
	}
	return formatted
}

// FormatExpiration incrementally formats an MM/YY expiration as the user
// types. previous is the field's value before this keystroke; comparing
// sanitized lengths tells us whether the user is deleting, which governs
// whether the trailing slash is auto-inserted.
func FormatExpiration(input, previous string) string {
	digits := Digits(input)
	deleting := len(digits) <= len(Digits(previous))

	switch {
	case len(digits) == 0:
		return ""
	case len(digits) == 1:
		if digits[0] > '1' && !deleting {
			return "0" + digits + "/"
		}
		return digits
	case len(digits) == 2:
		value, _ := strconv.Atoi(digits)
		if value > 12 {
			// First digit is the month, second starts the year.
			return "0" + digits[:1] + "/" + digits[1:]
		}
		if value == 0 {
			digits = "01"
		}
		if deleting {
			return digits
		}
		return digits + "/"
	default:
		month := clampMonth(digits[:2])
		year := digits[2:]
		if len(year) > 2 {
			year = year[:2]
		}
		return month + "/" + year
	}
}

func clampMonth(mm string) string {
	value, _ := strconv.Atoi(mm)
	if value < 1 {
		value = 1
	}
	if value > 12 {
		value = 12
	}
	return fmt.Sprintf("%02d", value)
}

// ParseExpiration splits a formatted MM/YY value into its numeric parts.
// The boolean result is false when either part is absent or non-numeric.
func ParseExpiration(value string) (month, year int, ok bool) {
	parts := strings.SplitN(value, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return 0, 0, false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return month, year, true
}
