/*
optimizer.go - Composite optimal design resolution

PURPOSE:
  Produces one coherent system design from a consumption (or bill)
  target, the available surface, an optional budget, and the technical
  and financial parameters. The system size is the minimum of the
  active constraints; the winner is recorded as the limiting factor.

PIPELINE:
  1. Resolve the effective kWh price: the user's own price if given,
     otherwise the tariff ladder's blended rate. A bill target is first
     inverted into a consumption estimate.
  2. Consumption-based size: dailyKwh / (sunHours * (1 - loss/100)).
  3. Area-based size from the geometry packer, budget-based size from
     budget / costPerKw, each only when its input is present.
  4. optimizedSize = min(active constraints), tagged.
  5. Panel count, DC power and footprint derive from the chosen size.
  6. Inverter and string sub-results: a single string up to 20 panels,
     two parallel strings beyond that.
  7. Financial projection at the final DC power.

ROUNDING:
  Callers round for display at the boundary only; everything in here
  stays full precision so dependent calculations never compound a
  rounding error.
*/
package solar

import "math"

// LimitingFactor identifies which constraint pinned the final size.
type LimitingFactor string

const (
	LimitedByConsumption LimitingFactor = "consumption"
	LimitedByArea        LimitingFactor = "area"
	LimitedByBudget      LimitingFactor = "budget"
)

// DesignInput is the composite design request. MonthlyConsumptionKwh
// and MonthlyBillJOD are alternatives; when the consumption is zero
// the bill is inverted through the tariff ladder. Land dimensions and
// budget are optional constraints (zero disables each).
type DesignInput struct {
	MonthlyConsumptionKwh float64
	MonthlyBillJOD        float64
	KwhPriceJOD           float64 // zero = derive from the tariff ladder

	LandWidthM  float64
	LandLengthM float64
	BudgetJOD   float64

	SunHours      float64
	SystemLossPct float64

	PanelWattage float64
	PanelWidthM  float64
	PanelLengthM float64
	PanelVmpV    float64
	PanelVocV    float64
	PanelIscA    float64

	CableRunM          float64 // one-way DC run for the wire recommendation
	CostPerKwJOD       float64
	Location           Location
	DegradationRatePct float64
}

// ArrayDesign is the panel/array portion of the bundle.
type ArrayDesign struct {
	SystemSizeKw    float64 // optimized size before panel quantization
	PanelCount      int
	PanelsPerString int
	ParallelStrings int
	TotalDcPowerKw  float64
	RequiredAreaM2  float64
}

// DesignResult is the full design bundle.
type DesignResult struct {
	LimitingFactor        LimitingFactor
	EffectiveKwhPriceJOD  float64
	MonthlyConsumptionKwh float64 // as used (entered or estimated from the bill)

	ConsumptionBasedKw float64
	AreaBasedKw        float64 // zero when no land constraint was active
	BudgetBasedKw      float64 // zero when no budget constraint was active

	Array     ArrayDesign
	Inverter  InverterResult
	Wire      WireSizeResult
	Financial FinancialResult
}

// maxPanelsPerSingleString is the panel count above which the
// simplified layout splits into two parallel strings.
const maxPanelsPerSingleString = 20

// OptimizeDesign resolves the constrained system size and drives the
// sub-calculators into one bundle.
func OptimizeDesign(in DesignInput) DesignResult {
	monthlyKwh := in.MonthlyConsumptionKwh
	if monthlyKwh <= 0 && in.MonthlyBillJOD > 0 {
		monthlyKwh = EstimateConsumption(in.MonthlyBillJOD)
	}

	price := in.KwhPriceJOD
	if price <= 0 {
		price = EffectiveRate(monthlyKwh)
	}

	dailyKwh := monthlyKwh / 30
	consumptionKw := dailyKwh / (in.SunHours * (1 - in.SystemLossPct/100))

	size := consumptionKw
	factor := LimitedByConsumption

	var areaKw float64
	if in.LandWidthM > 0 && in.LandLengthM > 0 {
		packing := PackPanels(AreaPackingInput{
			LandWidthM:   in.LandWidthM,
			LandLengthM:  in.LandLengthM,
			PanelWidthM:  in.PanelWidthM,
			PanelLengthM: in.PanelLengthM,
			PanelWattage: in.PanelWattage,
			SunHours:     in.SunHours,
			Orientation:  OrientationAuto,
		})
		areaKw = packing.TotalPowerKw
		if areaKw < size {
			size = areaKw
			factor = LimitedByArea
		}
	}

	var budgetKw float64
	if in.BudgetJOD > 0 && in.CostPerKwJOD > 0 {
		budgetKw = in.BudgetJOD / in.CostPerKwJOD
		if budgetKw < size {
			size = budgetKw
			factor = LimitedByBudget
		}
	}

	panelCount := int(math.Ceil(size * 1000 / in.PanelWattage))
	totalDcKw := float64(panelCount) * in.PanelWattage / 1000

	// Simplified string layout for the bundle; the advanced
	// configurator exists for temperature-aware work.
	parallel := 1
	if panelCount > maxPanelsPerSingleString {
		parallel = 2
	}
	perString := panelCount / parallel
	if panelCount%parallel != 0 {
		perString++
	}

	arrayVoc := float64(perString) * in.PanelVocV
	arrayIsc := float64(parallel) * in.PanelIscA

	inverter := SizeInverter(InverterInput{
		TotalDcPowerKw: totalDcKw,
		MaxVocV:        arrayVoc,
		MaxIscA:        arrayIsc,
	})

	wire := CalculateWireSize(WireSizeInput{
		CurrentA:       arrayIsc * iscSafetyFactor,
		VoltageV:       float64(perString) * in.PanelVmpV,
		DistanceM:      in.CableRunM,
		VoltageDropPct: 3,
	})

	financial := SimulateFinancials(FinancialInput{
		SystemSizeKw:       totalDcKw,
		SystemLossPct:      in.SystemLossPct,
		Location:           in.Location,
		CostPerKwJOD:       in.CostPerKwJOD,
		KwhPriceJOD:        price,
		DegradationRatePct: in.DegradationRatePct,
	})

	return DesignResult{
		LimitingFactor:        factor,
		EffectiveKwhPriceJOD:  price,
		MonthlyConsumptionKwh: monthlyKwh,
		ConsumptionBasedKw:    consumptionKw,
		AreaBasedKw:           areaKw,
		BudgetBasedKw:         budgetKw,
		Array: ArrayDesign{
			SystemSizeKw:    size,
			PanelCount:      panelCount,
			PanelsPerString: perString,
			ParallelStrings: parallel,
			TotalDcPowerKw:  totalDcKw,
			RequiredAreaM2:  float64(panelCount) * in.PanelWidthM * in.PanelLengthM * rowSpacingFactor,
		},
		Inverter:  inverter,
		Wire:      wire,
		Financial: financial,
	}
}
