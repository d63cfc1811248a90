/*
battery.go - Battery bank sizing and topology

PURPOSE:
  Converts a daily energy need into a physical battery bank: required
  stored energy given autonomy days and depth of discharge, the Ah
  capacity at system voltage, and the series/parallel layout.

APPLIANCE OVERRIDE:
  When an appliance list is supplied and its aggregate daily load is
  strictly positive, it replaces the manual DailyLoadKwh. A list that
  sums to exactly zero keeps the manual value.

CONTRACT:
  SystemVoltageV must be an integer multiple of BatteryVoltageV; the
  form layer validates that before calling in.
*/
package solar

import "math"

// Appliance is one load entry for the aggregate daily consumption.
type Appliance struct {
	PowerW      float64
	Quantity    int
	HoursPerDay float64
}

// BatteryBankInput describes the load and the battery model.
type BatteryBankInput struct {
	DailyLoadKwh      float64
	AutonomyDays      float64
	DepthOfDischarge  float64 // percent, (0, 100]
	BatteryVoltageV   float64
	BatteryCapacityAh float64
	SystemVoltageV    float64
	Appliances        []Appliance
}

// BatteryBankResult is the sized bank.
type BatteryBankResult struct {
	DailyLoadKwh           float64 // load actually used (manual or appliance aggregate)
	RequiredBankEnergyKwh  float64
	RequiredBankCapacityAh float64
	BatteriesInSeries      int
	ParallelStrings        int
	TotalBatteries         int
}

// ApplianceDailyLoadKwh sums power x quantity x hours over the list,
// in kWh. Entries with non-positive fields contribute nothing.
func ApplianceDailyLoadKwh(appliances []Appliance) float64 {
	total := 0.0
	for _, a := range appliances {
		if a.PowerW <= 0 || a.Quantity <= 0 || a.HoursPerDay <= 0 {
			continue
		}
		total += a.PowerW * float64(a.Quantity) * a.HoursPerDay / 1000
	}
	return total
}

// SizeBatteryBank computes the required bank energy, capacity and
// series/parallel topology.
func SizeBatteryBank(in BatteryBankInput) BatteryBankResult {
	dailyLoad := in.DailyLoadKwh
	if agg := ApplianceDailyLoadKwh(in.Appliances); agg > 0 {
		dailyLoad = agg
	}

	requiredEnergyKwh := dailyLoad * in.AutonomyDays / (in.DepthOfDischarge / 100)
	requiredAh := requiredEnergyKwh * 1000 / in.SystemVoltageV

	series := int(math.Round(in.SystemVoltageV / in.BatteryVoltageV))
	parallel := int(math.Ceil(requiredAh / in.BatteryCapacityAh))

	return BatteryBankResult{
		DailyLoadKwh:           dailyLoad,
		RequiredBankEnergyKwh:  requiredEnergyKwh,
		RequiredBankCapacityAh: requiredAh,
		BatteriesInSeries:      series,
		ParallelStrings:        parallel,
		TotalBatteries:         series * parallel,
	}
}
