package factory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payables-engine/factory"
	"github.com/warp/payables-engine/payment"
)

func TestParseTerms_EmptyObject_UsesDefaults(t *testing.T) {
	terms, err := factory.ParseTerms(`{}`)

	require.NoError(t, err)
	assert.Equal(t, payment.DefaultTerms(), terms)
}

func TestParseTerms_PartialOverride(t *testing.T) {
	// GIVEN: A config overriding only the grace period and threshold
	// WHEN: Parsing
	// THEN: Overridden fields apply, everything else stays default

	terms, err := factory.ParseTerms(`{
		"automotive_grace_days": 3,
		"automotive_threshold": "2500.50"
	}`)

	require.NoError(t, err)
	assert.Equal(t, 14, terms.StandardTermDays)
	assert.Equal(t, 3, terms.AutomotiveGraceDays)
	assert.True(t, terms.AutomotiveThreshold.Equal(decimal.RequireFromString("2500.50")))
	assert.Equal(t, 10, terms.PayrollDayOfMonth)
}

func TestParseTerms_FullOverride(t *testing.T) {
	terms, err := factory.ParseTerms(`{
		"standard_term_days": 30,
		"automotive_grace_days": 0,
		"automotive_threshold": "500",
		"payroll_day_of_month": 25
	}`)

	require.NoError(t, err)
	assert.Equal(t, 30, terms.StandardTermDays)
	assert.Equal(t, 0, terms.AutomotiveGraceDays)
	assert.True(t, terms.AutomotiveThreshold.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 25, terms.PayrollDayOfMonth)
}

func TestParseTerms_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"malformed json", `{`},
		{"negative term", `{"standard_term_days": -1}`},
		{"negative grace", `{"automotive_grace_days": -5}`},
		{"bad threshold", `{"automotive_threshold": "lots"}`},
		{"payroll day zero", `{"payroll_day_of_month": 0}`},
		{"payroll day too late", `{"payroll_day_of_month": 29}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := factory.ParseTerms(tt.json)
			assert.ErrorIs(t, err, payment.ErrInvalidConfig)
		})
	}
}

func TestDefaultTermsJSON_RoundTrips(t *testing.T) {
	terms, err := factory.ParseTerms(factory.DefaultTermsJSON())

	require.NoError(t, err)
	assert.Equal(t, payment.DefaultTerms(), terms)
}

func TestNetTermsJSON_OverridesTermAndGrace(t *testing.T) {
	terms, err := factory.ParseTerms(factory.NetTermsJSON(30, 10))

	require.NoError(t, err)
	assert.Equal(t, 30, terms.StandardTermDays)
	assert.Equal(t, 10, terms.AutomotiveGraceDays)
	assert.Equal(t, 10, terms.PayrollDayOfMonth)
}
