/*
tables.go - Static lookup tables shared by the calculation functions

PURPOSE:
  Holds the immutable constant data the sizing and financial functions
  depend on: the standard copper conductor sizes, per-city monthly peak
  sun hour profiles, calendar day counts, and the residential tariff
  tiers. Initialized once at process start, never mutated.

DATA SOURCES:
  - Wire sizes: IEC standard cross-sections, 1.5 to 120 mm².
  - Peak sun hours: long-term monthly averages for the four supported
    Jordanian cities (kWh/m²/day, equivalent full-intensity hours).
  - Tariff tiers: Jordanian residential consumption brackets in JOD/kWh,
    ascending rates, final tier unbounded.

SEE ALSO:
  - wire.go: Consumes StandardWireSizes
  - finance.go: Consumes PeakSunHours and DaysInMonth
  - tariff.go: Consumes TariffTiers
*/
package solar

import "github.com/shopspring/decimal"

// =============================================================================
// CONDUCTORS
// =============================================================================

// CopperResistivity is the resistivity of copper in ohm·mm²/m.
const CopperResistivity = 0.0172

// StandardWireSizes is the ascending set of standard copper
// cross-sections (mm²) a recommendation is drawn from.
var StandardWireSizes = []float64{1.5, 2.5, 4, 6, 10, 16, 25, 35, 50, 70, 95, 120}

// =============================================================================
// LOCATIONS
// =============================================================================

// Location identifies one of the supported Jordanian cities.
type Location string

const (
	Amman Location = "amman"
	Zarqa Location = "zarqa"
	Irbid Location = "irbid"
	Aqaba Location = "aqaba"
)

// Locations lists the supported cities in a stable order.
var Locations = []Location{Amman, Zarqa, Irbid, Aqaba}

// PeakSunHours maps each city to its 12 monthly peak sun hour averages,
// January first.
var PeakSunHours = map[Location][12]float64{
	Amman: {3.6, 4.3, 5.4, 6.6, 7.6, 8.2, 8.1, 7.6, 6.6, 5.2, 4.0, 3.4},
	Zarqa: {3.7, 4.4, 5.5, 6.7, 7.7, 8.3, 8.2, 7.7, 6.7, 5.3, 4.1, 3.5},
	Irbid: {3.4, 4.1, 5.2, 6.3, 7.3, 8.0, 7.9, 7.4, 6.4, 5.0, 3.8, 3.2},
	Aqaba: {4.4, 5.1, 6.1, 7.1, 8.0, 8.5, 8.4, 8.0, 7.2, 5.9, 4.7, 4.1},
}

// Valid reports whether the location is one of the supported cities.
func (l Location) Valid() bool {
	_, ok := PeakSunHours[l]
	return ok
}

// DaysInMonth is the calendar used by the monthly production profile.
// February is fixed at 28; the simulation does not model leap years.
var DaysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// MonthNames is used for labeling the monthly breakdown.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// =============================================================================
// TARIFFS
// =============================================================================

// TariffTier is one residential consumption bracket. UpToKwh is the
// cumulative upper bound of the bracket; zero marks the unbounded
// final tier.
type TariffTier struct {
	UpToKwh float64
	Rate    decimal.Decimal // JOD per kWh
}

// TariffTiers is the Jordanian residential tariff ladder, ascending.
var TariffTiers = []TariffTier{
	{UpToKwh: 160, Rate: decimal.RequireFromString("0.033")},
	{UpToKwh: 300, Rate: decimal.RequireFromString("0.072")},
	{UpToKwh: 500, Rate: decimal.RequireFromString("0.086")},
	{UpToKwh: 1000, Rate: decimal.RequireFromString("0.114")},
	{UpToKwh: 0, Rate: decimal.RequireFromString("0.188")},
}
