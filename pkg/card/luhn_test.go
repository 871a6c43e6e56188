package card

import "testing"

func TestLuhnValidKnownNumbers(t *testing.T) {
	valid := []string{
		"4242424242424242",
		"4242 4242 4242 4242",
		"4000000000000002",
		"5555555555554444",
		"378282246310005", // 15-digit amex shape
	}
	for _, number := range valid {
		if !LuhnValid(number) {
			t.Fatalf("expected %q to pass the Luhn check", number)
		}
	}
}

func TestLuhnInvalidWhenLastDigitMutated(t *testing.T) {
	valid := "4242424242424242"
	digits := []byte(valid)
	last := digits[len(digits)-1] - '0'
	digits[len(digits)-1] = byte('0' + (last+1)%10)
	if LuhnValid(string(digits)) {
		t.Fatalf("expected mutated number %q to fail the Luhn check", digits)
	}
}

func TestLuhnRejectsOutOfRangeLengths(t *testing.T) {
	if LuhnValid("424242424242") {
		t.Fatal("12 digits should be rejected regardless of checksum")
	}
	if LuhnValid("42424242424242424242") {
		t.Fatal("20 digits should be rejected regardless of checksum")
	}
	if LuhnValid("") {
		t.Fatal("empty input should be rejected")
	}
}

func TestDigitsStripsSeparators(t *testing.T) {
	if got := Digits("42-42 42.42x"); got != "42424242" {
		t.Fatalf("unexpected digits %q", got)
	}
}
