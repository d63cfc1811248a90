package solar_test

import (
	"testing"

	"github.com/energyai/solar-engine/solar"
)

func TestSizeBatteryBank_StandardScenario(t *testing.T) {
	// GIVEN: 10kWh/day, 1 day autonomy, 80% DoD, 12V/200Ah batteries, 48V system
	// WHEN: Sizing the bank
	// THEN: 12.5kWh, 260.42Ah, 4 in series x 2 strings = 8 batteries

	result := solar.SizeBatteryBank(solar.BatteryBankInput{
		DailyLoadKwh:      10,
		AutonomyDays:      1,
		DepthOfDischarge:  80,
		BatteryVoltageV:   12,
		BatteryCapacityAh: 200,
		SystemVoltageV:    48,
	})

	if !approx(result.RequiredBankEnergyKwh, 12.5, 1e-9) {
		t.Errorf("expected 12.5kWh, got %v", result.RequiredBankEnergyKwh)
	}
	if !approx(result.RequiredBankCapacityAh, 260.4166666, 1e-6) {
		t.Errorf("expected ~260.42Ah, got %v", result.RequiredBankCapacityAh)
	}
	if result.BatteriesInSeries != 4 {
		t.Errorf("expected 4 in series, got %d", result.BatteriesInSeries)
	}
	if result.ParallelStrings != 2 {
		t.Errorf("expected 2 parallel strings, got %d", result.ParallelStrings)
	}
	if result.TotalBatteries != 8 {
		t.Errorf("expected 8 batteries, got %d", result.TotalBatteries)
	}
}

func TestSizeBatteryBank_TopologyInvariant(t *testing.T) {
	// GIVEN: A sweep of load and battery combinations
	// WHEN: Sizing each bank
	// THEN: total == series x parallel and series == round(system/battery)

	for _, load := range []float64{2, 7.5, 18, 42} {
		for _, sysV := range []float64{12, 24, 48} {
			result := solar.SizeBatteryBank(solar.BatteryBankInput{
				DailyLoadKwh:      load,
				AutonomyDays:      2,
				DepthOfDischarge:  50,
				BatteryVoltageV:   12,
				BatteryCapacityAh: 150,
				SystemVoltageV:    sysV,
			})

			if result.TotalBatteries != result.BatteriesInSeries*result.ParallelStrings {
				t.Errorf("load=%v sysV=%v: total %d != series %d x parallel %d",
					load, sysV, result.TotalBatteries, result.BatteriesInSeries, result.ParallelStrings)
			}
			if result.BatteriesInSeries != int(sysV/12) {
				t.Errorf("sysV=%v: expected %d in series, got %d", sysV, int(sysV/12), result.BatteriesInSeries)
			}
		}
	}
}

func TestSizeBatteryBank_ApplianceListOverridesManualLoad(t *testing.T) {
	// GIVEN: A manual load of 5kWh and appliances summing to 3.6kWh
	// WHEN: Sizing the bank
	// THEN: The appliance aggregate wins

	result := solar.SizeBatteryBank(solar.BatteryBankInput{
		DailyLoadKwh:      5,
		AutonomyDays:      1,
		DepthOfDischarge:  100,
		BatteryVoltageV:   12,
		BatteryCapacityAh: 100,
		SystemVoltageV:    12,
		Appliances: []solar.Appliance{
			{PowerW: 100, Quantity: 3, HoursPerDay: 8}, // 2.4kWh
			{PowerW: 150, Quantity: 2, HoursPerDay: 4}, // 1.2kWh
		},
	})

	if !approx(result.DailyLoadKwh, 3.6, 1e-9) {
		t.Errorf("expected appliance load 3.6kWh, got %v", result.DailyLoadKwh)
	}
	if !approx(result.RequiredBankEnergyKwh, 3.6, 1e-9) {
		t.Errorf("expected 3.6kWh bank energy, got %v", result.RequiredBankEnergyKwh)
	}
}

func TestSizeBatteryBank_ZeroSumApplianceListKeepsManualLoad(t *testing.T) {
	// GIVEN: An appliance list whose aggregate is exactly zero
	// WHEN: Sizing the bank
	// THEN: The manual load is kept (zero does not override)

	result := solar.SizeBatteryBank(solar.BatteryBankInput{
		DailyLoadKwh:      5,
		AutonomyDays:      1,
		DepthOfDischarge:  100,
		BatteryVoltageV:   12,
		BatteryCapacityAh: 100,
		SystemVoltageV:    12,
		Appliances: []solar.Appliance{
			{PowerW: 100, Quantity: 2, HoursPerDay: 0},
			{PowerW: 0, Quantity: 1, HoursPerDay: 6},
		},
	})

	if !approx(result.DailyLoadKwh, 5, 1e-9) {
		t.Errorf("expected manual load 5kWh to survive, got %v", result.DailyLoadKwh)
	}
}
