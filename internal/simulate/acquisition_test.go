package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquisition_ReferenceCase(t *testing.T) {
	// $50B AUM, $1B revenue, default 20% cost synergies.
	result := Acquisition(50_000_000_000, 1_000_000_000, DefaultCostSynergyPct)

	t.Run("summary", func(t *testing.T) {
		assert.Equal(t, 50.0, result.SimulationSummary.TargetAUMBillions)
		assert.Equal(t, 1000.0, result.SimulationSummary.TargetRevenueMillions)
		assert.Equal(t, 20.0, result.SimulationSummary.CostSynergyAssumptionPct)
	})

	t.Run("year 1", func(t *testing.T) {
		// 350M operating income + 140M year-1 synergies + 7M revenue-synergy
		// margin - 30M integration = 467M
		assert.Equal(t, 467.0, result.Year1Projection.NetContributionMillions)
		assert.Equal(t, 9.34, result.Year1Projection.EPSImpactUSD)
		assert.Equal(t, 373.6, result.Year1Projection.EPSAccretionPct)
		assert.Equal(t, 140.0, result.Year1Projection.SynergiesMillions)
		assert.Equal(t, 30.0, result.Year1Projection.IntegrationCostsMillions)
	})

	t.Run("year 2", func(t *testing.T) {
		// Full 200M synergies, no integration cost: 557M
		assert.Equal(t, 557.0, result.Year2Projection.NetContributionMillions)
		assert.Equal(t, 200.0, result.Year2Projection.SynergiesMillions)
	})

	t.Run("strategic impact", func(t *testing.T) {
		assert.Equal(t, 62.5, result.StrategicImpact.CombinedAUMBillions)
		assert.Equal(t, 400.0, result.StrategicImpact.AUMGrowthPct)
		assert.Equal(t, 20.0, result.StrategicImpact.RevenueSynergiesMillions)
	})

	t.Run("risk", func(t *testing.T) {
		assert.Equal(t, "High", result.RiskAssessment.IntegrationRiskLevel)
		assert.Equal(t, 24, result.RiskAssessment.TimelineMonths)
		assert.Len(t, result.RiskAssessment.KeyRisks, 4)
	})

	t.Run("recommendation interpolates year 1 accretion", func(t *testing.T) {
		assert.Contains(t, result.Recommendation, "373.6% Year 1 EPS accretion")
	})
}

func TestAcquisition_RiskBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		aum      float64
		level    string
		timeline int
	}{
		{"below 5B is Low", 4_999_999_999, "Low", 12},
		{"exactly 5B is Medium", 5_000_000_000, "Medium", 18},
		{"below 20B is Medium", 19_999_999_999, "Medium", 18},
		{"exactly 20B is High", 20_000_000_000, "High", 24},
		{"above 20B is High", 75_000_000_000, "High", 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Acquisition(tt.aum, 500_000_000, DefaultCostSynergyPct)
			assert.Equal(t, tt.level, result.RiskAssessment.IntegrationRiskLevel)
			assert.Equal(t, tt.timeline, result.RiskAssessment.TimelineMonths)
		})
	}
}

func TestAcquisition_Year2NeverBelowYear1(t *testing.T) {
	// Year 2 realizes full synergies and drops the one-time integration
	// cost, so it dominates Year 1 whenever synergies are positive.
	cases := []struct {
		revenue    float64
		synergyPct float64
	}{
		{0, 0.20},
		{100_000_000, 0.05},
		{1_000_000_000, 0.20},
		{5_000_000_000, 0.50},
		{250_000_000, 0.01},
	}

	for _, c := range cases {
		result := Acquisition(10_000_000_000, c.revenue, c.synergyPct)
		require.GreaterOrEqual(t,
			result.Year2Projection.NetContributionMillions,
			result.Year1Projection.NetContributionMillions,
			"revenue=%v synergy=%v", c.revenue, c.synergyPct)
	}
}

func TestAcquisition_ZeroRevenue(t *testing.T) {
	// Only the integration cost moves Year 1; Year 2 is flat.
	result := Acquisition(1_000_000_000, 0, DefaultCostSynergyPct)
	assert.Equal(t, -30.0, result.Year1Projection.NetContributionMillions)
	assert.Equal(t, 0.0, result.Year2Projection.NetContributionMillions)
}
