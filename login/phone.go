package login

import "strings"

const (
	DefaultCountryCode = "+998"
	countryDigits      = "998"
	// CodeLength is the number of digits in an OTP
	CodeLength = 6
)

// Phone is the phone number as the backend expects it: the country code plus
// the full digit string, which repeats the country digits.
type Phone struct {
	CountryCode string `json:"countryCode"`
	PhoneNumber string `json:"phoneNumber"`
}

// NormalizePhone turns free-form input into a Phone.
//
//	"+998 90 123 45 67" -> {+998, 998901234567}
//	"901234567"         -> {+998, 998901234567}
//	"abc"               -> {+998, ""}
func NormalizePhone(raw string) Phone {
	digits := digitsOnly(raw)
	switch {
	case strings.HasPrefix(digits, countryDigits) && len(digits) >= 9:
		return Phone{CountryCode: DefaultCountryCode, PhoneNumber: digits}
	case digits != "":
		return Phone{CountryCode: DefaultCountryCode, PhoneNumber: countryDigits + digits}
	default:
		return Phone{CountryCode: DefaultCountryCode}
	}
}

// SanitizeCode strips non-digits and keeps at most CodeLength of them
func SanitizeCode(raw string) string {
	digits := digitsOnly(raw)
	if len(digits) > CodeLength {
		digits = digits[:CodeLength]
	}
	return digits
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
