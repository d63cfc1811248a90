/*
strings.go - Series/parallel string configuration

PURPOSE:
  Resolves how many panels go in series per string and how many strings
  in parallel. Two forms:
  - Basic: pure V/I ratios against a desired operating point.
  - Advanced: temperature-compensated, fitting the string into the
    inverter's MPPT window across the site's temperature extremes.

TEMPERATURE MODEL:
  Voltage is compensated linearly from STC (25 °C):
    v(T) = v_stc * (1 + (T - 25) * tempCoeff / 100)
  tempCoeff is negative for silicon, so cold raises Voc (binding at the
  inverter's max-voltage ceiling) and heat lowers Vmp (binding at the
  MPPT floor). The sign convention must be preserved.

FEASIBILITY:
  When the performance floor exceeds the safety ceiling no string
  length works. That is reported as an explicit Infeasible result with
  the conflicting bounds kept and all array fields zeroed - never as an
  error.
*/
package solar

import "math"

// stcTemperature is the standard test condition reference, in °C.
const stcTemperature = 25.0

// iscSafetyFactor is the standard short-circuit current margin.
const iscSafetyFactor = 1.25

// =============================================================================
// BASIC FORM
// =============================================================================

// StringConfigInput is the ratio-based form.
type StringConfigInput struct {
	PanelVoltageV   float64
	PanelCurrentA   float64
	DesiredVoltageV float64
	DesiredCurrentA float64
}

// StringConfigResult is the resolved layout, each count at least 1.
type StringConfigResult struct {
	PanelsPerString int
	ParallelStrings int
}

// ConfigureString resolves the series count (floor, voltage-driven)
// and the parallel count (ceil, current-driven).
func ConfigureString(in StringConfigInput) StringConfigResult {
	series := int(math.Floor(in.DesiredVoltageV / in.PanelVoltageV))
	if series < 1 {
		series = 1
	}
	parallel := int(math.Ceil(in.DesiredCurrentA / in.PanelCurrentA))
	if parallel < 1 {
		parallel = 1
	}
	return StringConfigResult{PanelsPerString: series, ParallelStrings: parallel}
}

// =============================================================================
// ADVANCED FORM
// =============================================================================

// AdvancedStringInput is the temperature-aware MPPT-range form.
type AdvancedStringInput struct {
	VmpV             float64
	VocV             float64
	TempCoeffPct     float64 // %/°C, negative for typical silicon
	MpptMinV         float64
	MpptMaxV         float64
	InverterMaxVoltV float64
	MinTempC         float64
	MaxTempC         float64
	TargetSystemKw   float64
	PanelWattage     float64
	IscA             float64
	InverterMaxCurrA float64
}

// ArrayConfig is the array layout derived from the target size.
type ArrayConfig struct {
	TotalPanels     int
	ParallelStrings int
	TotalCurrentA   float64 // includes the 1.25 safety factor
	CurrentSafe     bool
}

// AdvancedStringResult reports the feasible string-length window and,
// when one exists, the array built at the optimal length. Infeasible
// results keep the conflicting MinPanels > MaxPanels bounds and zero
// everything else.
type AdvancedStringResult struct {
	Feasible bool

	MinPanels     int // performance floor, binding at the hot extreme
	MaxPanels     int // safety ceiling, binding at the cold extreme
	OptimalPanels int

	MaxStringVocV float64 // optimal string Voc at the cold extreme
	MinStringVmpV float64 // optimal string Vmp at the hot extreme

	Array ArrayConfig
}

// compensate applies the linear temperature model from STC.
func compensate(voltage, tempC, coeffPct float64) float64 {
	return voltage * (1 + (tempC-stcTemperature)*coeffPct/100)
}

// ConfigureStringAdvanced resolves the temperature-compensated string
// length window and array layout.
func ConfigureStringAdvanced(in AdvancedStringInput) AdvancedStringResult {
	vocAtMinTemp := compensate(in.VocV, in.MinTempC, in.TempCoeffPct)
	vmpAtMaxTemp := compensate(in.VmpV, in.MaxTempC, in.TempCoeffPct)

	maxPanels := int(math.Floor(in.InverterMaxVoltV / vocAtMinTemp))
	minPanels := int(math.Ceil(in.MpptMinV / vmpAtMaxTemp))

	if minPanels > maxPanels {
		return AdvancedStringResult{
			Feasible:  false,
			MinPanels: minPanels,
			MaxPanels: maxPanels,
		}
	}

	optimal := int(math.Round((in.MpptMinV + in.MpptMaxV) / 2 / in.VmpV))
	if optimal < minPanels {
		optimal = minPanels
	}
	if optimal > maxPanels {
		optimal = maxPanels
	}

	totalPanels := int(math.Ceil(in.TargetSystemKw * 1000 / in.PanelWattage))
	parallel := int(math.Ceil(float64(totalPanels) / float64(optimal)))
	totalCurrent := float64(parallel) * in.IscA * iscSafetyFactor

	return AdvancedStringResult{
		Feasible:      true,
		MinPanels:     minPanels,
		MaxPanels:     maxPanels,
		OptimalPanels: optimal,
		MaxStringVocV: float64(optimal) * vocAtMinTemp,
		MinStringVmpV: float64(optimal) * vmpAtMaxTemp,
		Array: ArrayConfig{
			TotalPanels:     totalPanels,
			ParallelStrings: parallel,
			TotalCurrentA:   totalCurrent,
			CurrentSafe:     totalCurrent <= in.InverterMaxCurrA,
		},
	}
}
