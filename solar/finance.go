/*
finance.go - 25-year financial viability simulation

PURPOSE:
  Turns a system size, location and price assumptions into a financial
  projection: the first-year monthly production profile, the 25-year
  degradation-adjusted cash flow, the interpolated payback period, and
  a ±10% cost/price sensitivity sweep.

MODEL:
  - Monthly production:
      size * psh[location][month] * (1 - loss/100) * daysInMonth[month]
    Revenue is production times the kWh price.
  - Cash flow: year 0 carries the full investment as a negative figure;
    years 1..25 degrade production by (1 - d/100)^(year-1) and
    accumulate revenue.
  - Payback: the first year whose cumulative revenue covers the
    investment, with months interpolated inside that year using its own
    monthly revenue rate. Never recovered within 25 years reports the
    NeverPaysBack sentinel; zero revenue reports +Inf.
  - Sensitivity: four extra runs at cost x 0.9 / 1.1 and price x 0.9 /
    1.1, each varied independently with the production profile fixed.

PRESENTATION:
  Callers must special-case the sentinels (display "more than 25
  years" / "∞"); they are results, not errors.
*/
package solar

import "math"

// simulationYears is the horizon of the cash flow analysis.
const simulationYears = 25

// NeverPaysBack is the payback sentinel reported when the investment
// is not recovered within the simulation horizon. It deliberately
// exceeds 25 years worth of months.
const NeverPaysBack = simulationYears*12 + 1

// FinancialInput is the projection's parameter set.
type FinancialInput struct {
	SystemSizeKw       float64
	SystemLossPct      float64
	Location           Location
	CostPerKwJOD       float64
	KwhPriceJOD        float64
	DegradationRatePct float64 // annual
}

// MonthlyFigure is one month of the first-year profile.
type MonthlyFigure struct {
	Month         string
	PeakSunHours  float64
	ProductionKwh float64
	RevenueJOD    float64
}

// YearCashFlow is one row of the cash flow analysis. Year 0 is the
// investment outlay.
type YearCashFlow struct {
	Year                 int
	ProductionKwh        float64
	RevenueJOD           float64
	CumulativeRevenueJOD float64
	CashFlowJOD          float64
}

// SensitivityCase is one run of the ±10% sweep.
type SensitivityCase struct {
	Label               string
	PaybackMonths       float64
	NetProfit25YearsJOD float64
}

// FinancialResult is the full projection bundle.
type FinancialResult struct {
	TotalInvestmentJOD       float64
	TotalAnnualProductionKwh float64 // first year, undegraded
	AnnualRevenueJOD         float64
	PaybackMonths            float64 // NeverPaysBack or +Inf sentinels possible
	NetProfit25YearsJOD      float64
	MonthlyBreakdown         [12]MonthlyFigure
	CashFlow                 [simulationYears + 1]YearCashFlow
	Sensitivity              []SensitivityCase
}

// SimulateFinancials produces the 25-year projection.
func SimulateFinancials(in FinancialInput) FinancialResult {
	psh := PeakSunHours[in.Location]
	derate := 1 - in.SystemLossPct/100

	var result FinancialResult
	result.TotalInvestmentJOD = in.SystemSizeKw * in.CostPerKwJOD

	for m := 0; m < 12; m++ {
		production := in.SystemSizeKw * psh[m] * derate * float64(DaysInMonth[m])
		result.MonthlyBreakdown[m] = MonthlyFigure{
			Month:         MonthNames[m],
			PeakSunHours:  psh[m],
			ProductionKwh: production,
			RevenueJOD:    production * in.KwhPriceJOD,
		}
		result.TotalAnnualProductionKwh += production
	}
	result.AnnualRevenueJOD = result.TotalAnnualProductionKwh * in.KwhPriceJOD

	result.CashFlow = cashFlowTable(result.TotalInvestmentJOD, result.TotalAnnualProductionKwh, in.KwhPriceJOD, in.DegradationRatePct)
	last := result.CashFlow[simulationYears]
	result.NetProfit25YearsJOD = last.CashFlowJOD

	result.PaybackMonths = paybackMonths(result.TotalInvestmentJOD, result.AnnualRevenueJOD, in.DegradationRatePct)

	// ±10% sweep, each parameter varied independently, production held
	// fixed.
	for _, c := range []struct {
		label       string
		costFactor  float64
		priceFactor float64
	}{
		{"cost -10%", 0.9, 1},
		{"cost +10%", 1.1, 1},
		{"price -10%", 1, 0.9},
		{"price +10%", 1, 1.1},
	} {
		investment := result.TotalInvestmentJOD * c.costFactor
		revenue := result.TotalAnnualProductionKwh * in.KwhPriceJOD * c.priceFactor
		flows := cashFlowTable(investment, result.TotalAnnualProductionKwh, in.KwhPriceJOD*c.priceFactor, in.DegradationRatePct)
		result.Sensitivity = append(result.Sensitivity, SensitivityCase{
			Label:               c.label,
			PaybackMonths:       paybackMonths(investment, revenue, in.DegradationRatePct),
			NetProfit25YearsJOD: flows[simulationYears].CashFlowJOD,
		})
	}

	return result
}

// cashFlowTable builds the year 0..25 cash flow rows.
func cashFlowTable(investment, firstYearProduction, kwhPrice, degradationPct float64) [simulationYears + 1]YearCashFlow {
	var flows [simulationYears + 1]YearCashFlow
	flows[0] = YearCashFlow{Year: 0, CashFlowJOD: -investment}

	cumulative := 0.0
	for year := 1; year <= simulationYears; year++ {
		production := firstYearProduction * math.Pow(1-degradationPct/100, float64(year-1))
		revenue := production * kwhPrice
		cumulative += revenue
		flows[year] = YearCashFlow{
			Year:                 year,
			ProductionKwh:        production,
			RevenueJOD:           revenue,
			CumulativeRevenueJOD: cumulative,
			CashFlowJOD:          cumulative - investment,
		}
	}
	return flows
}

// paybackMonths finds the first year whose cumulative revenue covers
// the investment and interpolates months within it.
func paybackMonths(investment, firstYearRevenue, degradationPct float64) float64 {
	if firstYearRevenue <= 0 {
		return math.Inf(1)
	}

	cumulative := 0.0
	for year := 1; year <= simulationYears; year++ {
		yearRevenue := firstYearRevenue * math.Pow(1-degradationPct/100, float64(year-1))
		if cumulative+yearRevenue >= investment {
			remaining := investment - cumulative
			monthsIntoYear := math.Ceil(remaining / (yearRevenue / 12))
			return float64(year-1)*12 + monthsIntoYear
		}
		cumulative += yearRevenue
	}
	return NeverPaysBack
}
