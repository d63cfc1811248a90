package solar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energyai/solar-engine/solar"
)

func designInput() solar.DesignInput {
	return solar.DesignInput{
		MonthlyConsumptionKwh: 600,
		KwhPriceJOD:           0.1,
		SunHours:              5.5,
		SystemLossPct:         10,
		PanelWattage:          500,
		PanelWidthM:           1.1,
		PanelLengthM:          2.2,
		PanelVmpV:             41,
		PanelVocV:             49,
		PanelIscA:             13.5,
		CableRunM:             15,
		CostPerKwJOD:          700,
		Location:              solar.Amman,
		DegradationRatePct:    0.6,
	}
}

func TestOptimizeDesign_ConsumptionLimited(t *testing.T) {
	// GIVEN: 600kWh/month with no land or budget constraint
	// WHEN: Optimizing
	// THEN: consumptionKw = 20/(5.5*0.9) ≈ 4.04 pins the size; 9 panels of 500W

	result := solar.OptimizeDesign(designInput())

	assert.Equal(t, solar.LimitedByConsumption, result.LimitingFactor)
	assert.InDelta(t, 4.0404, result.ConsumptionBasedKw, 0.001)
	assert.Equal(t, 9, result.Array.PanelCount)
	assert.InDelta(t, 4.5, result.Array.TotalDcPowerKw, 1e-9)
	assert.Equal(t, 1, result.Array.ParallelStrings)
	assert.Equal(t, 9, result.Array.PanelsPerString)
}

func TestOptimizeDesign_AreaLimited(t *testing.T) {
	// GIVEN: The same demand on a plot that only fits a handful of panels
	// WHEN: Optimizing
	// THEN: The area constraint pins the size

	in := designInput()
	in.LandWidthM = 3
	in.LandLengthM = 7

	result := solar.OptimizeDesign(in)

	require.Equal(t, solar.LimitedByArea, result.LimitingFactor)
	assert.Less(t, result.Array.SystemSizeKw, result.ConsumptionBasedKw)
	assert.Greater(t, result.AreaBasedKw, 0.0)
}

func TestOptimizeDesign_BudgetLimited(t *testing.T) {
	// GIVEN: A 1400 JOD budget at 700 JOD/kW
	// WHEN: Optimizing
	// THEN: budgetKw = 2 pins the size below the 4.04kW demand

	in := designInput()
	in.BudgetJOD = 1400

	result := solar.OptimizeDesign(in)

	require.Equal(t, solar.LimitedByBudget, result.LimitingFactor)
	assert.InDelta(t, 2.0, result.BudgetBasedKw, 1e-9)
	assert.InDelta(t, 2.0, result.Array.SystemSizeKw, 1e-9)
}

func TestOptimizeDesign_BillTargetInvertsTariff(t *testing.T) {
	// GIVEN: A 32.56 JOD monthly bill instead of a consumption figure
	// WHEN: Optimizing with no user price
	// THEN: The bill inverts to 500kWh and the blended tariff rate is used

	in := designInput()
	in.MonthlyConsumptionKwh = 0
	in.MonthlyBillJOD = 32.56
	in.KwhPriceJOD = 0

	result := solar.OptimizeDesign(in)

	assert.InDelta(t, 500, result.MonthlyConsumptionKwh, 1e-6)
	assert.InDelta(t, 32.56/500, result.EffectiveKwhPriceJOD, 1e-9)
}

func TestOptimizeDesign_SplitsLargeArrays(t *testing.T) {
	// GIVEN: Demand requiring more than 20 panels
	// WHEN: Optimizing
	// THEN: The simplified layout splits into two parallel strings

	in := designInput()
	in.MonthlyConsumptionKwh = 2400

	result := solar.OptimizeDesign(in)

	require.Greater(t, result.Array.PanelCount, 20)
	assert.Equal(t, 2, result.Array.ParallelStrings)
	assert.GreaterOrEqual(t, result.Array.PanelsPerString*result.Array.ParallelStrings, result.Array.PanelCount)
}

func TestOptimizeDesign_BundleConsistency(t *testing.T) {
	// GIVEN: Any optimized design
	// WHEN: Inspecting the sub-results
	// THEN: The financial run uses the quantized DC power and the
	//       inverter window brackets it

	result := solar.OptimizeDesign(designInput())

	assert.InDelta(t, result.Array.TotalDcPowerKw*700, result.Financial.TotalInvestmentJOD, 1e-9)
	assert.InDelta(t, result.Array.TotalDcPowerKw*0.9, result.Inverter.MinAcPowerKw, 1e-9)
	assert.InDelta(t, result.Array.TotalDcPowerKw*1.1, result.Inverter.MaxAcPowerKw, 1e-9)

	// Wire recommendation always lands on the standard set.
	found := false
	for _, s := range solar.StandardWireSizes {
		if s == result.Wire.RecommendedSizeMM2 {
			found = true
		}
	}
	assert.True(t, found, "wire size %v not in the standard set", result.Wire.RecommendedSizeMM2)
}
