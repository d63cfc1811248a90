/*
inverter.go - Inverter AC window and rating margins

PURPOSE:
  Turns the array's DC power and electrical extremes into an inverter
  shopping window: the acceptable AC size range and the minimum voltage
  and current ratings with the standard safety margins applied.

MARGINS:
  AC window      = DC power x [0.9, 1.1]
  Voc rating     = array Voc x 1.15 (cold-morning margin)
  Isc rating     = array Isc x 1.25 (short-circuit margin)
  Grid phase     = caller-supplied, or inferred: above 6 kW, three-phase
*/
package solar

// GridPhase identifies the grid connection type.
type GridPhase string

const (
	SinglePhase GridPhase = "single"
	ThreePhase  GridPhase = "three"
)

// threePhaseThresholdKw is the DC size above which a three-phase
// connection is assumed when the caller does not specify one.
const threePhaseThresholdKw = 6.0

// InverterInput carries the array figures the sizing works from.
type InverterInput struct {
	TotalDcPowerKw float64
	MaxVocV        float64
	MaxIscA        float64
	Phase          GridPhase // empty = infer from DC power
}

// InverterResult is the recommended inverter envelope.
type InverterResult struct {
	MinAcPowerKw    float64
	MaxAcPowerKw    float64
	RecommendedVocV float64
	RecommendedIscA float64
	Phase           GridPhase
}

// SizeInverter computes the AC window and minimum ratings.
func SizeInverter(in InverterInput) InverterResult {
	phase := in.Phase
	if phase == "" {
		phase = SinglePhase
		if in.TotalDcPowerKw > threePhaseThresholdKw {
			phase = ThreePhase
		}
	}

	return InverterResult{
		MinAcPowerKw:    in.TotalDcPowerKw * 0.9,
		MaxAcPowerKw:    in.TotalDcPowerKw * 1.1,
		RecommendedVocV: in.MaxVocV * 1.15,
		RecommendedIscA: in.MaxIscA * 1.25,
		Phase:           phase,
	}
}
