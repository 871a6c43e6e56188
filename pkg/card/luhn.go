package card

// LuhnValid runs the standard Luhn checksum over the digits of number.
// Separators are stripped first. Numbers shorter than 13 or longer than
// 19 digits fail outright. There is no test-card bypass here; sandbox
// allowlisting is a checkout policy decision, not a checksum property.
func LuhnValid(number string) bool {
	digits := Digits(number)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// Digits returns value with every non-digit byte removed.
func Digits(value string) string {
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		if value[i] >= '0' && value[i] <= '9' {
			out = append(out, value[i])
		}
	}
	return string(out)
}
