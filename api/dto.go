/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  domain structs in solar/ from the external contract. Responses are
  rounded here, at the boundary, after all dependent calculations have
  run at full precision.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *DTO: Response types returned to clients

SENTINELS:
  Infinite payback cannot be carried in a JSON number, so financial
  responses carry a nullable months figure plus a display string the
  UI can show directly ("more than 25 years").

SEE ALSO:
  - handlers.go: Uses these types
  - solar/: Domain structs these map from
*/
package api

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/energyai/solar-engine/solar"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// WireSizeRequest asks for a conductor recommendation.
type WireSizeRequest struct {
	CurrentA       float64 `json:"current_a"`
	VoltageV       float64 `json:"voltage_v"`
	DistanceM      float64 `json:"distance_m"`
	VoltageDropPct float64 `json:"voltage_drop_pct"`
}

// AreaPackingRequest asks how many panels fit on a plot.
type AreaPackingRequest struct {
	LandWidthM   float64 `json:"land_width_m"`
	LandLengthM  float64 `json:"land_length_m"`
	PanelWidthM  float64 `json:"panel_width_m"`
	PanelLengthM float64 `json:"panel_length_m"`
	PanelWattage float64 `json:"panel_wattage"`
	SunHours     float64 `json:"sun_hours"`
	Orientation  string  `json:"orientation"` // auto | portrait | landscape
}

// ConsumptionPanelsRequest asks for a consumption-based panel count.
type ConsumptionPanelsRequest struct {
	DailyConsumptionKwh float64 `json:"daily_consumption_kwh"`
	PanelWattage        float64 `json:"panel_wattage"`
	SunHours            float64 `json:"sun_hours"`
	SystemLossPct       float64 `json:"system_loss_pct"`
}

// InverterRequest asks for an inverter envelope.
type InverterRequest struct {
	TotalDcPowerKw float64 `json:"total_dc_power_kw"`
	MaxVocV        float64 `json:"max_voc_v"`
	MaxIscA        float64 `json:"max_isc_a"`
	Phase          string  `json:"phase,omitempty"` // single | three, empty = infer
}

// ApplianceEntry is one load row of a battery request.
type ApplianceEntry struct {
	PowerW      float64 `json:"power_w"`
	Quantity    int     `json:"quantity"`
	HoursPerDay float64 `json:"hours_per_day"`
}

// BatteryBankRequest asks for a battery bank layout.
type BatteryBankRequest struct {
	DailyLoadKwh      float64          `json:"daily_load_kwh"`
	AutonomyDays      float64          `json:"autonomy_days"`
	DepthOfDischarge  float64          `json:"depth_of_discharge_pct"`
	BatteryVoltageV   float64          `json:"battery_voltage_v"`
	BatteryCapacityAh float64          `json:"battery_capacity_ah"`
	SystemVoltageV    float64          `json:"system_voltage_v"`
	Appliances        []ApplianceEntry `json:"appliances,omitempty"`
}

// StringConfigRequest is the basic V/I ratio form.
type StringConfigRequest struct {
	PanelVoltageV   float64 `json:"panel_voltage_v"`
	PanelCurrentA   float64 `json:"panel_current_a"`
	DesiredVoltageV float64 `json:"desired_voltage_v"`
	DesiredCurrentA float64 `json:"desired_current_a"`
}

// AdvancedStringRequest is the temperature-aware form.
type AdvancedStringRequest struct {
	VmpV             float64 `json:"vmp_v"`
	VocV             float64 `json:"voc_v"`
	TempCoeffPct     float64 `json:"temp_coeff_pct"`
	MpptMinV         float64 `json:"mppt_min_v"`
	MpptMaxV         float64 `json:"mppt_max_v"`
	InverterMaxVoltV float64 `json:"inverter_max_volt_v"`
	MinTempC         float64 `json:"min_temp_c"`
	MaxTempC         float64 `json:"max_temp_c"`
	TargetSystemKw   float64 `json:"target_system_kw"`
	PanelWattage     float64 `json:"panel_wattage"`
	IscA             float64 `json:"isc_a"`
	InverterMaxCurrA float64 `json:"inverter_max_current_a"`
}

// TariffRequest asks for a tiered bill.
type TariffRequest struct {
	MonthlyConsumptionKwh float64 `json:"monthly_consumption_kwh"`
}

// FinancialRequest asks for the 25-year projection.
type FinancialRequest struct {
	SystemSizeKw       float64 `json:"system_size_kw"`
	SystemLossPct      float64 `json:"system_loss_pct"`
	Location           string  `json:"location"`
	CostPerKwJOD       float64 `json:"cost_per_kw_jod"`
	KwhPriceJOD        float64 `json:"kwh_price_jod"`
	DegradationRatePct float64 `json:"degradation_rate_pct"`
}

// DesignRequest asks for a full optimal design bundle.
type DesignRequest struct {
	MonthlyConsumptionKwh float64 `json:"monthly_consumption_kwh,omitempty"`
	MonthlyBillJOD        float64 `json:"monthly_bill_jod,omitempty"`
	KwhPriceJOD           float64 `json:"kwh_price_jod,omitempty"`
	LandWidthM            float64 `json:"land_width_m,omitempty"`
	LandLengthM           float64 `json:"land_length_m,omitempty"`
	BudgetJOD             float64 `json:"budget_jod,omitempty"`
	SunHours              float64 `json:"sun_hours"`
	SystemLossPct         float64 `json:"system_loss_pct"`
	PanelWattage          float64 `json:"panel_wattage"`
	PanelWidthM           float64 `json:"panel_width_m"`
	PanelLengthM          float64 `json:"panel_length_m"`
	PanelVmpV             float64 `json:"panel_vmp_v"`
	PanelVocV             float64 `json:"panel_voc_v"`
	PanelIscA             float64 `json:"panel_isc_a"`
	CableRunM             float64 `json:"cable_run_m"`
	CostPerKwJOD          float64 `json:"cost_per_kw_jod"`
	Location              string  `json:"location"`
	DegradationRatePct    float64 `json:"degradation_rate_pct"`
	Narrate               bool    `json:"narrate,omitempty"`
}

// ChatRequest is the opaque assistant passthrough.
type ChatRequest struct {
	Message string `json:"message"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// WireSizeDTO is the conductor recommendation.
type WireSizeDTO struct {
	RecommendedSizeMM2 float64 `json:"recommended_size_mm2"`
	VoltageDropV       float64 `json:"voltage_drop_v"`
	VoltageDropPct     float64 `json:"voltage_drop_pct"`
	PowerLossW         float64 `json:"power_loss_w"`
}

// AreaPackingDTO is the packing outcome.
type AreaPackingDTO struct {
	MaxPanels        int     `json:"max_panels"`
	TotalPowerKw     float64 `json:"total_power_kw"`
	DailyEnergyKwh   float64 `json:"daily_energy_kwh"`
	MonthlyEnergyKwh float64 `json:"monthly_energy_kwh"`
	YearlyEnergyKwh  float64 `json:"yearly_energy_kwh"`
	FinalOrientation string  `json:"final_orientation"`
	PanelsPerRow     int     `json:"panels_per_row"`
	RowCount         int     `json:"row_count"`
}

// ConsumptionPanelsDTO is the consumption-based count.
type ConsumptionPanelsDTO struct {
	PanelCount int `json:"panel_count"`
}

// InverterDTO is the inverter envelope.
type InverterDTO struct {
	MinAcPowerKw    float64 `json:"min_ac_power_kw"`
	MaxAcPowerKw    float64 `json:"max_ac_power_kw"`
	RecommendedVocV float64 `json:"recommended_voc_v"`
	RecommendedIscA float64 `json:"recommended_isc_a"`
	Phase           string  `json:"phase"`
}

// BatteryBankDTO is the sized bank.
type BatteryBankDTO struct {
	DailyLoadKwh           float64 `json:"daily_load_kwh"`
	RequiredBankEnergyKwh  float64 `json:"required_bank_energy_kwh"`
	RequiredBankCapacityAh float64 `json:"required_bank_capacity_ah"`
	BatteriesInSeries      int     `json:"batteries_in_series"`
	ParallelStrings        int     `json:"parallel_strings"`
	TotalBatteries         int     `json:"total_batteries"`
}

// StringConfigDTO is the basic layout.
type StringConfigDTO struct {
	PanelsPerString int `json:"panels_per_string"`
	ParallelStrings int `json:"parallel_strings"`
}

// ArrayConfigDTO is the derived array layout.
type ArrayConfigDTO struct {
	TotalPanels     int     `json:"total_panels"`
	ParallelStrings int     `json:"parallel_strings"`
	TotalCurrentA   float64 `json:"total_current_a"`
	CurrentSafe     bool    `json:"current_safe"`
}

// AdvancedStringDTO is the temperature-aware result.
type AdvancedStringDTO struct {
	Feasible      bool           `json:"feasible"`
	Reason        string         `json:"reason,omitempty"`
	MinPanels     int            `json:"min_panels"`
	MaxPanels     int            `json:"max_panels"`
	OptimalPanels int            `json:"optimal_panels"`
	MaxStringVocV float64        `json:"max_string_voc_v"`
	MinStringVmpV float64        `json:"min_string_vmp_v"`
	Array         ArrayConfigDTO `json:"array_config"`
}

// TierChargeDTO is one billed bracket.
type TierChargeDTO struct {
	UpToKwh        float64 `json:"up_to_kwh,omitempty"`
	ConsumptionKwh float64 `json:"consumption_kwh"`
	RateJOD        float64 `json:"rate_jod"`
	ChargeJOD      float64 `json:"charge_jod"`
}

// TariffDTO is the tier walk result.
type TariffDTO struct {
	ConsumptionKwh float64         `json:"consumption_kwh"`
	Tiers          []TierChargeDTO `json:"tiers"`
	TotalJOD       float64         `json:"total_jod"`
	EffectiveRate  float64         `json:"effective_rate_jod_kwh"`
}

// MonthlyFigureDTO is one month of the first-year profile.
type MonthlyFigureDTO struct {
	Month         string  `json:"month"`
	PeakSunHours  float64 `json:"peak_sun_hours"`
	ProductionKwh float64 `json:"production_kwh"`
	RevenueJOD    float64 `json:"revenue_jod"`
}

// YearCashFlowDTO is one cash flow row.
type YearCashFlowDTO struct {
	Year                 int     `json:"year"`
	ProductionKwh        float64 `json:"production_kwh"`
	RevenueJOD           float64 `json:"revenue_jod"`
	CumulativeRevenueJOD float64 `json:"cumulative_revenue_jod"`
	CashFlowJOD          float64 `json:"cash_flow_jod"`
}

// SensitivityCaseDTO is one ±10% run.
type SensitivityCaseDTO struct {
	Label               string   `json:"label"`
	PaybackMonths       *float64 `json:"payback_months"`
	PaybackDisplay      string   `json:"payback_display"`
	NetProfit25YearsJOD float64  `json:"net_profit_25_years_jod"`
}

// FinancialDTO is the projection bundle.
type FinancialDTO struct {
	TotalInvestmentJOD       float64              `json:"total_investment_jod"`
	TotalAnnualProductionKwh float64              `json:"total_annual_production_kwh"`
	AnnualRevenueJOD         float64              `json:"annual_revenue_jod"`
	PaybackMonths            *float64             `json:"payback_months"` // null when payback never occurs
	PaybackDisplay           string               `json:"payback_display"`
	NetProfit25YearsJOD      float64              `json:"net_profit_25_years_jod"`
	MonthlyBreakdown         []MonthlyFigureDTO   `json:"monthly_breakdown"`
	CashFlow                 []YearCashFlowDTO    `json:"cash_flow_analysis"`
	Sensitivity              []SensitivityCaseDTO `json:"sensitivity_analysis"`
}

// ArrayDesignDTO is the panel portion of a design bundle.
type ArrayDesignDTO struct {
	SystemSizeKw    float64 `json:"system_size_kw"`
	PanelCount      int     `json:"panel_count"`
	PanelsPerString int     `json:"panels_per_string"`
	ParallelStrings int     `json:"parallel_strings"`
	TotalDcPowerKw  float64 `json:"total_dc_power_kw"`
	RequiredAreaM2  float64 `json:"required_area_m2"`
}

// DesignDTO is the full bundle.
type DesignDTO struct {
	DesignID              string         `json:"design_id"`
	LimitingFactor        string         `json:"limiting_factor"`
	EffectiveKwhPriceJOD  float64        `json:"effective_kwh_price_jod"`
	MonthlyConsumptionKwh float64        `json:"monthly_consumption_kwh"`
	ConsumptionBasedKw    float64        `json:"consumption_based_kw"`
	AreaBasedKw           float64        `json:"area_based_kw,omitempty"`
	BudgetBasedKw         float64        `json:"budget_based_kw,omitempty"`
	Array                 ArrayDesignDTO `json:"array"`
	Inverter              InverterDTO    `json:"inverter"`
	Wire                  WireSizeDTO    `json:"wire"`
	Financial             FinancialDTO   `json:"financial"`
	Reasoning             string         `json:"reasoning,omitempty"`
}

// LocationDTO describes one supported city.
type LocationDTO struct {
	ID           string      `json:"id"`
	PeakSunHours [12]float64 `json:"peak_sun_hours"`
}

// ChatDTO is the assistant reply.
type ChatDTO struct {
	RequestID string `json:"request_id"`
	Reply     string `json:"reply"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

// round2 rounds for display. All dependent calculations have already
// run at full precision by the time a value reaches here.
func round2(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// round4 keeps per-kWh rates meaningful; two decimals would flatten
// them.
func round4(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}

func toWireDTO(r solar.WireSizeResult) WireSizeDTO {
	return WireSizeDTO{
		RecommendedSizeMM2: r.RecommendedSizeMM2,
		VoltageDropV:       round2(r.VoltageDropV),
		VoltageDropPct:     round2(r.VoltageDropPct),
		PowerLossW:         round2(r.PowerLossW),
	}
}

func toAreaPackingDTO(r solar.AreaPackingResult) AreaPackingDTO {
	return AreaPackingDTO{
		MaxPanels:        r.MaxPanels,
		TotalPowerKw:     round2(r.TotalPowerKw),
		DailyEnergyKwh:   round2(r.DailyEnergyKwh),
		MonthlyEnergyKwh: round2(r.MonthlyEnergyKwh),
		YearlyEnergyKwh:  round2(r.YearlyEnergyKwh),
		FinalOrientation: string(r.FinalOrientation),
		PanelsPerRow:     r.PanelsPerRow,
		RowCount:         r.RowCount,
	}
}

func toInverterDTO(r solar.InverterResult) InverterDTO {
	return InverterDTO{
		MinAcPowerKw:    round2(r.MinAcPowerKw),
		MaxAcPowerKw:    round2(r.MaxAcPowerKw),
		RecommendedVocV: round2(r.RecommendedVocV),
		RecommendedIscA: round2(r.RecommendedIscA),
		Phase:           string(r.Phase),
	}
}

func toBatteryDTO(r solar.BatteryBankResult) BatteryBankDTO {
	return BatteryBankDTO{
		DailyLoadKwh:           round2(r.DailyLoadKwh),
		RequiredBankEnergyKwh:  round2(r.RequiredBankEnergyKwh),
		RequiredBankCapacityAh: round2(r.RequiredBankCapacityAh),
		BatteriesInSeries:      r.BatteriesInSeries,
		ParallelStrings:        r.ParallelStrings,
		TotalBatteries:         r.TotalBatteries,
	}
}

func toAdvancedStringDTO(r solar.AdvancedStringResult) AdvancedStringDTO {
	dto := AdvancedStringDTO{
		Feasible:      r.Feasible,
		MinPanels:     r.MinPanels,
		MaxPanels:     r.MaxPanels,
		OptimalPanels: r.OptimalPanels,
		MaxStringVocV: round2(r.MaxStringVocV),
		MinStringVmpV: round2(r.MinStringVmpV),
		Array: ArrayConfigDTO{
			TotalPanels:     r.Array.TotalPanels,
			ParallelStrings: r.Array.ParallelStrings,
			TotalCurrentA:   round2(r.Array.TotalCurrentA),
			CurrentSafe:     r.Array.CurrentSafe,
		},
	}
	if !r.Feasible {
		dto.Reason = "no string length satisfies both the MPPT floor and the inverter voltage ceiling"
	}
	return dto
}

func toTariffDTO(b solar.BillBreakdown) TariffDTO {
	dto := TariffDTO{
		ConsumptionKwh: b.ConsumptionKwh,
		TotalJOD:       round2(b.TotalJOD),
		EffectiveRate:  round4(b.EffectiveRate),
		Tiers:          make([]TierChargeDTO, len(b.Tiers)),
	}
	for i, tier := range b.Tiers {
		dto.Tiers[i] = TierChargeDTO{
			UpToKwh:        tier.UpToKwh,
			ConsumptionKwh: round2(tier.ConsumptionKwh),
			RateJOD:        tier.RateJOD,
			ChargeJOD:      round2(tier.ChargeJOD),
		}
	}
	return dto
}

func toFinancialDTO(r solar.FinancialResult) FinancialDTO {
	dto := FinancialDTO{
		TotalInvestmentJOD:       round2(r.TotalInvestmentJOD),
		TotalAnnualProductionKwh: round2(r.TotalAnnualProductionKwh),
		AnnualRevenueJOD:         round2(r.AnnualRevenueJOD),
		NetProfit25YearsJOD:      round2(r.NetProfit25YearsJOD),
	}

	dto.PaybackMonths, dto.PaybackDisplay = paybackFields(r.PaybackMonths)

	dto.MonthlyBreakdown = make([]MonthlyFigureDTO, 12)
	for m, fig := range r.MonthlyBreakdown {
		dto.MonthlyBreakdown[m] = MonthlyFigureDTO{
			Month:         fig.Month,
			PeakSunHours:  fig.PeakSunHours,
			ProductionKwh: round2(fig.ProductionKwh),
			RevenueJOD:    round2(fig.RevenueJOD),
		}
	}

	dto.CashFlow = make([]YearCashFlowDTO, len(r.CashFlow))
	for y, row := range r.CashFlow {
		dto.CashFlow[y] = YearCashFlowDTO{
			Year:                 row.Year,
			ProductionKwh:        round2(row.ProductionKwh),
			RevenueJOD:           round2(row.RevenueJOD),
			CumulativeRevenueJOD: round2(row.CumulativeRevenueJOD),
			CashFlowJOD:          round2(row.CashFlowJOD),
		}
	}

	dto.Sensitivity = make([]SensitivityCaseDTO, len(r.Sensitivity))
	for i, c := range r.Sensitivity {
		months, display := paybackFields(c.PaybackMonths)
		dto.Sensitivity[i] = SensitivityCaseDTO{
			Label:               c.Label,
			PaybackMonths:       months,
			PaybackDisplay:      display,
			NetProfit25YearsJOD: round2(c.NetProfit25YearsJOD),
		}
	}

	return dto
}

// paybackFields maps the payback sentinels to the nullable-number +
// display-string pair the UI consumes.
func paybackFields(months float64) (*float64, string) {
	if math.IsInf(months, 1) {
		return nil, "∞"
	}
	m := months
	if months > 300 {
		return &m, "more than 25 years"
	}
	return &m, paybackDisplay(months)
}

func paybackDisplay(months float64) string {
	years := int(months) / 12
	rem := int(months) % 12
	switch {
	case years == 0:
		return plural(rem, "month")
	case rem == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + " " + plural(rem, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

func toDesignDTO(r solar.DesignResult) DesignDTO {
	return DesignDTO{
		LimitingFactor:        string(r.LimitingFactor),
		EffectiveKwhPriceJOD:  round4(r.EffectiveKwhPriceJOD),
		MonthlyConsumptionKwh: round2(r.MonthlyConsumptionKwh),
		ConsumptionBasedKw:    round2(r.ConsumptionBasedKw),
		AreaBasedKw:           round2(r.AreaBasedKw),
		BudgetBasedKw:         round2(r.BudgetBasedKw),
		Array: ArrayDesignDTO{
			SystemSizeKw:    round2(r.Array.SystemSizeKw),
			PanelCount:      r.Array.PanelCount,
			PanelsPerString: r.Array.PanelsPerString,
			ParallelStrings: r.Array.ParallelStrings,
			TotalDcPowerKw:  round2(r.Array.TotalDcPowerKw),
			RequiredAreaM2:  round2(r.Array.RequiredAreaM2),
		},
		Inverter:  toInverterDTO(r.Inverter),
		Wire:      toWireDTO(r.Wire),
		Financial: toFinancialDTO(r.Financial),
	}
}
