package cmd

import (
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pflag writes a flag's default into its target variable at registration
// time, so a variable registered on several commands with different defaults
// would end up holding whichever default registered last. Every rate flag
// therefore has its own target variable; this test pins the advertised
// default of each rate flag to the value the command actually runs with.
func TestRateFlagDefaultsMatchRunValues(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		flag string
		got  *float64
	}{
		{gillespieCmd, "beta", &gillespieBeta},
		{gillespieCmd, "gamma", &gillespieGamma},
		{tauleapCmd, "beta", &tauleapBeta},
		{tauleapCmd, "gamma", &tauleapGamma},
		{chainCmd, "beta", &chainR0},
	}
	for _, tc := range tests {
		f := tc.cmd.Flags().Lookup(tc.flag)
		require.NotNil(t, f, "%s --%s not registered", tc.cmd.Use, tc.flag)
		advertised, err := strconv.ParseFloat(f.DefValue, 64)
		require.NoError(t, err)
		assert.Equal(t, advertised, *tc.got,
			"%s --%s: advertised default differs from the value the command runs with", tc.cmd.Use, tc.flag)
	}
}

func TestEngineRateDefaults(t *testing.T) {
	// Canonical demonstration scenario for the rate-based engines.
	assert.Equal(t, 0.5, gillespieBeta)
	assert.Equal(t, 1.0/7.0, gillespieGamma)
	assert.Equal(t, 0.5, tauleapBeta)
	assert.Equal(t, 1.0/7.0, tauleapGamma)
	// The chain binomial engine parameterizes by R0 instead.
	assert.Equal(t, 3.5, chainR0)
}
