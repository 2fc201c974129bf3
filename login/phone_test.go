package login_test

import (
	"testing"

	"github.com/secondbloom/admin-dashboard/login"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want login.Phone
	}{
		{name: "local number gets the country prefix", raw: "901234567", want: login.Phone{CountryCode: "+998", PhoneNumber: "998901234567"}},
		{name: "full international number", raw: "+998901234567", want: login.Phone{CountryCode: "+998", PhoneNumber: "998901234567"}},
		{name: "formatting is stripped", raw: "+998 (90) 123-45-67", want: login.Phone{CountryCode: "+998", PhoneNumber: "998901234567"}},
		{name: "short input starting with 998 is still prefixed", raw: "99812", want: login.Phone{CountryCode: "+998", PhoneNumber: "99899812"}},
		{name: "no digits", raw: "phone", want: login.Phone{CountryCode: "+998", PhoneNumber: ""}},
		{name: "empty", raw: "", want: login.Phone{CountryCode: "+998", PhoneNumber: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, login.NormalizePhone(tt.raw))
		})
	}
}

func TestSanitizeCode(t *testing.T) {
	require.Equal(t, "123456", login.SanitizeCode("123456"))
	require.Equal(t, "123456", login.SanitizeCode("12-34 56"))
	require.Equal(t, "123456", login.SanitizeCode("12345678"))
	require.Equal(t, "0000", login.SanitizeCode("00a00"))
	require.Empty(t, login.SanitizeCode("abc"))
}
