/*
tariff.go - Tiered residential billing

PURPOSE:
  Walks the ascending tariff ladder to turn a monthly consumption
  figure into a bill and an effective blended per-kWh price, and the
  inverse: estimating consumption from a known monthly bill. Money
  accumulates in decimal to keep the per-tier charges exact.

SEE ALSO:
  - tables.go: TariffTiers
  - optimizer.go: Uses EffectiveRate / EstimateConsumption to resolve
    the kWh price a design is valued at
*/
package solar

import "github.com/shopspring/decimal"

// TierCharge is the billed portion of one bracket.
type TierCharge struct {
	UpToKwh        float64 // 0 for the unbounded final tier
	ConsumptionKwh float64
	RateJOD        float64 // per kWh
	ChargeJOD      float64
}

// BillBreakdown is the full tier walk for one month.
type BillBreakdown struct {
	ConsumptionKwh float64
	Tiers          []TierCharge
	TotalJOD       float64
	EffectiveRate  float64 // JOD/kWh, zero when consumption is zero
}

// ComputeBill walks the tariff ladder until consumption is exhausted.
func ComputeBill(consumptionKwh float64) BillBreakdown {
	breakdown := BillBreakdown{ConsumptionKwh: consumptionKwh}
	if consumptionKwh <= 0 {
		return breakdown
	}

	remaining := decimal.NewFromFloat(consumptionKwh)
	total := decimal.Zero
	prev := decimal.Zero

	for _, tier := range TariffTiers {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}

		take := remaining
		if tier.UpToKwh > 0 {
			width := decimal.NewFromFloat(tier.UpToKwh).Sub(prev)
			if take.GreaterThan(width) {
				take = width
			}
			prev = decimal.NewFromFloat(tier.UpToKwh)
		}

		charge := take.Mul(tier.Rate)
		total = total.Add(charge)
		remaining = remaining.Sub(take)

		rate, _ := tier.Rate.Float64()
		takeF, _ := take.Float64()
		chargeF, _ := charge.Float64()
		breakdown.Tiers = append(breakdown.Tiers, TierCharge{
			UpToKwh:        tier.UpToKwh,
			ConsumptionKwh: takeF,
			RateJOD:        rate,
			ChargeJOD:      chargeF,
		})
	}

	breakdown.TotalJOD, _ = total.Float64()
	breakdown.EffectiveRate = breakdown.TotalJOD / consumptionKwh
	return breakdown
}

// EffectiveRate is a convenience wrapper returning only the blended
// per-kWh price for a monthly consumption.
func EffectiveRate(consumptionKwh float64) float64 {
	return ComputeBill(consumptionKwh).EffectiveRate
}

// EstimateConsumption inverts the tier walk: given a monthly bill,
// returns the consumption that produces it. Spends the bill bracket by
// bracket; whatever remains after the bounded tiers buys energy at the
// final unbounded rate.
func EstimateConsumption(billJOD float64) float64 {
	if billJOD <= 0 {
		return 0
	}

	remaining := decimal.NewFromFloat(billJOD)
	consumed := decimal.Zero
	prev := decimal.Zero

	for _, tier := range TariffTiers {
		if tier.UpToKwh == 0 {
			// Unbounded tier absorbs the rest.
			consumed = consumed.Add(remaining.Div(tier.Rate))
			remaining = decimal.Zero
			break
		}

		width := decimal.NewFromFloat(tier.UpToKwh).Sub(prev)
		tierCost := width.Mul(tier.Rate)

		if remaining.LessThanOrEqual(tierCost) {
			consumed = consumed.Add(remaining.Div(tier.Rate))
			remaining = decimal.Zero
			break
		}

		consumed = consumed.Add(width)
		remaining = remaining.Sub(tierCost)
		prev = decimal.NewFromFloat(tier.UpToKwh)
	}

	out, _ := consumed.Float64()
	return out
}
