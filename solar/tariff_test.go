package solar_test

import (
	"testing"

	"github.com/energyai/solar-engine/solar"
)

func TestComputeBill_WalksTiers(t *testing.T) {
	// GIVEN: 500kWh of monthly consumption
	// WHEN: Walking the tariff ladder
	// THEN: 160@0.033 + 140@0.072 + 200@0.086 = 32.56 JOD

	bill := solar.ComputeBill(500)

	if !approx(bill.TotalJOD, 32.56, 1e-9) {
		t.Errorf("expected 32.56 JOD, got %v", bill.TotalJOD)
	}
	if len(bill.Tiers) != 3 {
		t.Fatalf("expected 3 tiers billed, got %d", len(bill.Tiers))
	}
	if !approx(bill.Tiers[1].ConsumptionKwh, 140, 1e-9) {
		t.Errorf("expected 140kWh in the second tier, got %v", bill.Tiers[1].ConsumptionKwh)
	}
	if !approx(bill.EffectiveRate, 32.56/500, 1e-9) {
		t.Errorf("expected blended rate %v, got %v", 32.56/500, bill.EffectiveRate)
	}
}

func TestComputeBill_ZeroConsumption(t *testing.T) {
	// GIVEN: No consumption
	// WHEN: Computing the bill
	// THEN: Zero bill and a zero effective rate, not NaN

	bill := solar.ComputeBill(0)

	if bill.TotalJOD != 0 || bill.EffectiveRate != 0 {
		t.Errorf("expected zeros, got total=%v rate=%v", bill.TotalJOD, bill.EffectiveRate)
	}
}

func TestComputeBill_UnboundedFinalTier(t *testing.T) {
	// GIVEN: Consumption past the last bounded bracket
	// WHEN: Computing the bill
	// THEN: The excess is billed at the top rate

	bill := solar.ComputeBill(1200)

	last := bill.Tiers[len(bill.Tiers)-1]
	if last.UpToKwh != 0 {
		t.Errorf("expected the unbounded tier last, got bound %v", last.UpToKwh)
	}
	if !approx(last.ConsumptionKwh, 200, 1e-9) {
		t.Errorf("expected 200kWh at the top rate, got %v", last.ConsumptionKwh)
	}
}

func TestEstimateConsumption_InvertsBill(t *testing.T) {
	// GIVEN: Bills produced by known consumptions across the ladder
	// WHEN: Inverting each bill
	// THEN: The original consumption is recovered

	for _, kwh := range []float64{80, 160, 250, 500, 1000, 1500} {
		bill := solar.ComputeBill(kwh)
		got := solar.EstimateConsumption(bill.TotalJOD)
		if !approx(got, kwh, 1e-6) {
			t.Errorf("kwh=%v: round trip gave %v", kwh, got)
		}
	}
}

func TestEstimateConsumption_ZeroBill(t *testing.T) {
	if got := solar.EstimateConsumption(0); got != 0 {
		t.Errorf("expected 0 consumption for 0 bill, got %v", got)
	}
}
