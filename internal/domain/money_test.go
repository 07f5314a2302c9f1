package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Amount
		err   bool
	}{
		{name: "whole rupees", input: "500", want: 50000},
		{name: "two decimals", input: "123.45", want: 12345},
		{name: "one decimal", input: "10.5", want: 1050},
		{name: "comma separator", input: "99,99", want: 9999},
		{name: "leading dot", input: ".50", want: 50},
		{name: "rounds half up", input: "1.005", want: 101},
		{name: "rounds down below half", input: "1.004", want: 100},
		{name: "surrounding spaces", input: "  42  ", want: 4200},
		{name: "empty", input: "", err: true},
		{name: "spaces only", input: "   ", err: true},
		{name: "letters", input: "abc", err: true},
		{name: "mixed", input: "12x", err: true},
		{name: "negative", input: "-5", err: true},
		{name: "explicit plus", input: "+5", err: true},
		{name: "zero", input: "0", err: true},
		{name: "zero with decimals", input: "0.00", err: true},
		{name: "two separators", input: "1.2.3", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.err {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmountRupees(t *testing.T) {
	assert.Equal(t, 123.45, Amount(12345).Rupees())
	assert.Equal(t, 0.0, Amount(0).Rupees())
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹500", FormatINR(50000, "en"))
	assert.Equal(t, "₹123.45", FormatINR(12345, "en"))
	// large values pick up locale digit grouping
	assert.Contains(t, FormatINR(1000000000, "en"), "₹")
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleVolunteer, ParseRole("volunteer"))
	assert.Equal(t, RoleUnknown, ParseRole(""))
	assert.Equal(t, RoleUnknown, ParseRole("superuser"))
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleVolunteer.IsAdmin())
	assert.False(t, RoleUnknown.IsAdmin())
}
