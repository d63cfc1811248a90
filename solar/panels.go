/*
panels.go - Panel geometry packing and consumption-based counting

PURPOSE:
  Two independent ways to arrive at a panel count:
  - Area packing: how many panels physically fit on a rectangular plot,
    in portrait or landscape, with a 1.5x row pitch reserved against
    self-shading.
  - Consumption: how many panels are needed to cover a daily energy
    target after derating for system losses.

GEOMETRY:
  Rows run across the land width; the row pitch axis runs along the
  land length. Portrait pitches on the panel's long side, landscape on
  the short side. "auto" computes both and keeps the higher count,
  portrait preferred on ties.

CALENDAR:
  Energy figures use the simplified 30-day month / 365-day year, not
  true calendar months. The financial simulator has its own calendar.
*/
package solar

import "math"

// Orientation selects how panels are laid on the plot.
type Orientation string

const (
	OrientationAuto      Orientation = "auto"
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// Valid reports whether the orientation is one of the known values.
func (o Orientation) Valid() bool {
	return o == OrientationAuto || o == OrientationPortrait || o == OrientationLandscape
}

// rowSpacingFactor is the multiplier reserved along the row pitch axis
// to prevent one row from shading the next.
const rowSpacingFactor = 1.5

// AreaPackingInput describes the plot and the panel model.
type AreaPackingInput struct {
	LandWidthM   float64
	LandLengthM  float64
	PanelWidthM  float64
	PanelLengthM float64 // long side
	PanelWattage float64
	SunHours     float64
	Orientation  Orientation
}

// AreaPackingResult is the packing outcome for the chosen orientation.
type AreaPackingResult struct {
	MaxPanels         int
	TotalPowerKw      float64
	DailyEnergyKwh    float64
	MonthlyEnergyKwh  float64
	YearlyEnergyKwh   float64
	FinalOrientation  Orientation
	PanelsPerRow      int
	RowCount          int
}

// packRows computes the row layout for one orientation. pitchDim is
// the panel dimension along the land length, rowDim the one along the
// land width.
func packRows(landWidth, landLength, pitchDim, rowDim float64) (rows, perRow int) {
	rows = int(math.Floor(landLength / (pitchDim * rowSpacingFactor)))
	perRow = int(math.Floor(landWidth / rowDim))
	if rows < 0 {
		rows = 0
	}
	if perRow < 0 {
		perRow = 0
	}
	return rows, perRow
}

// PackPanels fits as many panels as possible on the plot.
func PackPanels(in AreaPackingInput) AreaPackingResult {
	// Portrait: the long side sits along the land length (pitch axis).
	pRows, pPerRow := packRows(in.LandWidthM, in.LandLengthM, in.PanelLengthM, in.PanelWidthM)
	// Landscape: transposed.
	lRows, lPerRow := packRows(in.LandWidthM, in.LandLengthM, in.PanelWidthM, in.PanelLengthM)

	portraitTotal := pRows * pPerRow
	landscapeTotal := lRows * lPerRow

	orientation := in.Orientation
	if orientation == OrientationAuto || orientation == "" {
		// Portrait wins ties.
		if landscapeTotal > portraitTotal {
			orientation = OrientationLandscape
		} else {
			orientation = OrientationPortrait
		}
	}

	rows, perRow := pRows, pPerRow
	if orientation == OrientationLandscape {
		rows, perRow = lRows, lPerRow
	}

	total := rows * perRow
	totalPowerKw := float64(total) * in.PanelWattage / 1000
	daily := totalPowerKw * in.SunHours

	return AreaPackingResult{
		MaxPanels:        total,
		TotalPowerKw:     totalPowerKw,
		DailyEnergyKwh:   daily,
		MonthlyEnergyKwh: daily * 30,
		YearlyEnergyKwh:  daily * 365,
		FinalOrientation: orientation,
		PanelsPerRow:     perRow,
		RowCount:         rows,
	}
}

// ConsumptionPanelsInput is the consumption-based sizing variant.
type ConsumptionPanelsInput struct {
	DailyConsumptionKwh float64
	PanelWattage        float64
	SunHours            float64
	SystemLossPct       float64
}

// CalculatePanelsFromConsumption returns the panel count needed to
// cover the daily target after loss derating, rounded up.
func CalculatePanelsFromConsumption(in ConsumptionPanelsInput) int {
	perPanelKwh := in.PanelWattage / 1000 * in.SunHours * (1 - in.SystemLossPct/100)
	if perPanelKwh <= 0 {
		return 0
	}
	return int(math.Ceil(in.DailyConsumptionKwh / perPanelKwh))
}
