/*
wire.go - Voltage-drop based conductor sizing

PURPOSE:
  Given the circuit current, system voltage, one-way cable run and the
  allowed voltage drop percentage, selects the minimum safe copper
  cross-section from the standard size set.

ALGORITHM:
  maxDrop = voltage * pct / 100
  area    = (2 * rho * distance * current) / maxDrop
  Pick the smallest standard size >= area; clamp to the largest size
  when even 120 mm² is theoretically insufficient (silent clamp, no
  error). The reported drop and power loss are recomputed with the
  chosen discrete size, not the theoretical area.

CONTRACT:
  Inputs must be positive; the form layer rejects anything else before
  calling in. No error paths here.
*/
package solar

// WireSizeInput describes one DC or AC cable run.
type WireSizeInput struct {
	CurrentA       float64
	VoltageV       float64
	DistanceM      float64 // one-way run; the round trip is accounted for internally
	VoltageDropPct float64
}

// WireSizeResult is the discrete conductor recommendation.
type WireSizeResult struct {
	RecommendedSizeMM2 float64
	VoltageDropV       float64 // actual drop at the recommended size
	VoltageDropPct     float64
	PowerLossW         float64
}

// CalculateWireSize selects the smallest standard copper section that
// keeps the run within the allowed voltage drop.
func CalculateWireSize(in WireSizeInput) WireSizeResult {
	maxDrop := in.VoltageV * in.VoltageDropPct / 100

	requiredArea := (2 * CopperResistivity * in.DistanceM * in.CurrentA) / maxDrop

	// Smallest standard size covering the theoretical area, clamped to
	// the table maximum when nothing qualifies.
	size := StandardWireSizes[len(StandardWireSizes)-1]
	for _, s := range StandardWireSizes {
		if s >= requiredArea {
			size = s
			break
		}
	}

	actualDrop := (2 * CopperResistivity * in.DistanceM * in.CurrentA) / size

	return WireSizeResult{
		RecommendedSizeMM2: size,
		VoltageDropV:       actualDrop,
		VoltageDropPct:     actualDrop / in.VoltageV * 100,
		PowerLossW:         actualDrop * in.CurrentA,
	}
}
