/*
handlers.go - HTTP API handlers for the sizing engine

PURPOSE:
  Exposes the calculation layer via REST. Handles HTTP request and
  response, JSON serialization, input validation, and delegates to the
  pure functions in solar/.

ENDPOINTS:
  Calculations:
    POST /api/calc/wire                Conductor sizing
    POST /api/calc/panels/area         Area packing
    POST /api/calc/panels/consumption  Consumption-based panel count
    POST /api/calc/inverter            Inverter envelope
    POST /api/calc/battery             Battery bank sizing
    POST /api/calc/strings             Basic string configuration
    POST /api/calc/strings/advanced    Temperature-aware configuration
    POST /api/calc/tariff              Tiered bill
    POST /api/calc/financial           25-year projection

  Composite:
    POST /api/design/optimal           Full design bundle (+ narration)

  Assistant:
    POST /api/assistant/chat           Opaque LLM passthrough

  Reference data:
    GET  /api/locations                Supported cities + PSH profiles
    GET  /api/tariffs                  Tariff tier table

VALIDATION:
  Positivity and range constraints live here; the calculation layer
  assumes validated input and does not re-check. Violations return 400
  with the field names.

ERROR HANDLING:
  - 400: Validation errors, invalid JSON
  - 500: Never produced by valid numeric input; calculation outcomes
         like infeasible string windows come back 200 with sentinel
         fields for the UI to branch on.

SEE ALSO:
  - dto.go: Request/response structures and boundary rounding
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/energyai/solar-engine/narrate"
	"github.com/energyai/solar-engine/solar"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Narrator *narrate.Narrator
}

// NewHandler creates a handler. The narrator may be nil; design
// narration then always uses the local fallback.
func NewHandler(narrator *narrate.Narrator) *Handler {
	return &Handler{Narrator: narrator}
}

// =============================================================================
// VALIDATION
// =============================================================================

// fieldCheck accumulates validation failures so a form gets every
// problem in one response.
type fieldCheck struct {
	bad []string
}

func (c *fieldCheck) positive(name string, v float64) {
	if v <= 0 {
		c.bad = append(c.bad, name+" must be positive")
	}
}

func (c *fieldCheck) nonNegative(name string, v float64) {
	if v < 0 {
		c.bad = append(c.bad, name+" must not be negative")
	}
}

func (c *fieldCheck) between(name string, v, lo, hi float64) {
	if v < lo || v > hi {
		c.bad = append(c.bad, fmt.Sprintf("%s must be between %v and %v", name, lo, hi))
	}
}

func (c *fieldCheck) err() error {
	if len(c.bad) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(c.bad, "; "))
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// CalculateWire sizes a conductor.
func (h *Handler) CalculateWire(w http.ResponseWriter, r *http.Request) {
	var req WireSizeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var check fieldCheck
	check.positive("current_a", req.CurrentA)
	check.positive("voltage_v", req.VoltageV)
	check.positive("distance_m", req.DistanceM)
	check.positive("voltage_drop_pct", req.VoltageDropPct)
	if err := check.err(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	result := solar.CalculateWireSize(solar.WireSizeInput{
		CurrentA:       req.CurrentA,
		VoltageV:       req.VoltageV,
		DistanceM:      req.DistanceM,
		VoltageDropPct: req.VoltageDropPct,
	})

	writeJSON(w, http.StatusOK, toWireDTO(result))
}

// PackPanels computes the area packing.
func (h *Handler) PackPanels(w http.ResponseWriter, r *http.Request) {
	var req AreaPackingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	orientation := solar.Orientation(req.Orientation)
	if orientation == "" {
		orientation = solar.OrientationAuto
	}

	var check fieldCheck
	check.positive("land_width_m", req.LandWidthM)
	check.positive("land_length_m", req.LandLengthM)
	check.positive("panel_width_m", req.PanelWidthM)
	check.positive("panel_length_m", req.PanelLengthM)
	check.positive("panel_wattage", req.PanelWattage)
	check.positive("sun_hours", req.SunHours)
	if !orientation.Valid() {
		check.bad = append(check.bad, "orientation must be auto, portrait or landscape")
	}
	if err := check.err(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	result := solar.PackPanels(solar.AreaPackingInput{
		LandWidthM:   req.LandWidthM,
		LandLengthM:  req.LandLengthM,
		PanelWidthM:  req.PanelWidthM,
		PanelLengthM: req.PanelLengthM,
		PanelWattage: req.PanelWattage,
		SunHours:     req.SunHours,
		Orientation:  orientation,
	})

	writeJSON(w, http.StatusOK, toAreaPackingDTO(result))
}

// PanelsFromConsumption computes the consumption-based panel count.
func (h *Handler) PanelsFromConsumption(w http.ResponseWriter, r *http.Request) {
	var req ConsumptionPanelsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var check fieldCheck
	check.positive("daily_consumption_kwh", req.DailyConsumptionKwh)
	check.positive("panel_wattage", req.PanelWattage)
	check.positive("sun_hours", req.SunHours)
	check.between("system_loss_pct", req.SystemLossPct, 0, 99)
	if err := check.err(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	count := solar.CalculatePanelsFromConsumption(solar.ConsumptionPanelsInput{
		DailyConsumptionKwh: req.DailyConsumptionKwh,
		PanelWattage:        req.PanelWattage,
		SunHours:            req.SunHours,
		SystemLossPct:       req.SystemLossPct,
	})

	writeJSON(w, http.StatusOK, ConsumptionPanelsDTO{PanelCount: count})
}

// SizeInverter computes the inverter envelope.
func (h *Handler) SizeInverter(w http.ResponseWriter, r *http.Request) {
	var req InverterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var check fieldCheck
	check.positive("total_dc_power_kw", req.TotalDcPowerKw)
	check.positive("max_voc_v", req.MaxVocV)
	check.positive("max_isc_a", req.MaxIscA)
	phase := solar.GridPhase(req.Phase)
	if phase != "" && phase != solar.SinglePhase && phase != solar.ThreePhase {
		check.bad = append(check.bad, "phase must be single or three")
	}
	if err := check.err(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	result := solar.SizeInverter(solar.InverterInput{
		TotalDcPowerKw: req.TotalDcPowerKw,
		MaxVocV:        req.MaxVocV,
		MaxIscA:        req.MaxIscA,
		Phase:          phase,
	})

	writeJSON(w, http.StatusOK, toInverterDTO(result))
}

// SizeBattery computes the battery bank.
func (h *Handler) SizeBattery(w http.ResponseWriter, r *http.Request) {
	var req BatteryBankRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var check fieldCheck
	check.nonNegative("daily_load_kwh", req.DailyLoadKwh)
	check.positive("autonomy_days", req.AutonomyDays)
	check.between("depth_of_discharge_pct", req.DepthOfDischarge, 1, 100)
	check.positive("battery_voltage_v", req.BatteryVoltageV)
	check.positive("battery_capacity_ah", req.BatteryCapacityAh)
	check.positive("system_voltage_v", req.SystemVoltageV)
	if req.BatteryVoltageV > 0 && req.SystemVoltageV > 0 {
		ratio := req.SystemVoltageV / req.BatteryVoltageV
		if ratio != float64(int(ratio)) {
			check.bad = append(check.bad, "system_voltage_v must be a multiple of battery_voltage_v")
		}
	}
	if err := check.err(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	appliances := make([]solar.Appliance, len(req.Appliances))
	for i, a := range req.Appliances {
		appliances[i] = solar.Appliance{
			PowerW:      a.PowerW,
			Quantity:    a.Quantity,
			HoursPerDay: a.HoursPerDay,
		}
	}

	result := solar.SizeBatteryBank(solar.BatteryBankInput{
		DailyLoadKwh:      req.DailyLoadKwh,
		AutonomyDays:      req.AutonomyDays,
		DepthOfDischarge:  req.DepthOfDischarge,
		BatteryVoltageV:   req.BatteryVoltageV,
		BatteryCapacityAh: req.BatteryCapacityAh,
		SystemVoltageV:    req.SystemVoltageV,
		Appliances:        appliances,
	})

	writeJSON(w, http.StatusOK, toBatteryDTO(result))
}

// ConfigureString resolves the basic string layout.
func (h *Handler) ConfigureString(w http.ResponseWriter, r *http.Request) {
	var req StringConfigRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var check fieldCheck
	check.positive("panel_voltage_v", req.PanelVoltageV)
	check.positive("panel_current_a", req.PanelCurrentA)
	check.positive("desired_voltage_v", req.DesiredVoltageV)
	check.positive("desired_current_a", req.DesiredCurrentA)
	if err := check.err(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	result := solar.ConfigureString(solar.StringConfigInput{
		PanelVoltageV:   req.PanelVoltageV,
		PanelCurrentA:   req.PanelCurrentA,
		DesiredVoltageV: req.DesiredVoltageV,
		DesiredCurrentA: req.DesiredCurrentA,
	})

	writeJSON(w, http.StatusOK, StringConfigDTO{
		PanelsPerString: result.PanelsPerString,
		ParallelStrings: result.ParallelStrings,
	})
}

// ConfigureStringAdvanced resolves the temperature-aware layout.
func (h *Handler) ConfigureStringAdvanced(w http.ResponseWriter, r *http.Request) {
	var req AdvancedStringRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var check fieldCheck
	check.positive("vmp_v", req.VmpV)
	check.positive("voc_v", req.VocV)
	check.positive("mppt_min_v", req.MpptMinV)
	check.positive("mppt_max_v", req.MpptMaxV)
	check.positive("inverter_max_volt_v", req.InverterMaxVoltV)
	check.positive("target_system_kw", req.TargetSystemKw)
	check.positive("panel_wattage", req.PanelWattage)
	check.positive("isc_a", req.IscA)
	check.positive("inverter_max_current_a", req.InverterMaxCurrA)
	if req.MinTempC >= req.MaxTempC {
		check.bad = append(check.bad, "min_temp_c must be below max_temp_c")
	}
	if err := check.err(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	result := solar.ConfigureStringAdvanced(solar.AdvancedStringInput{
		VmpV:             req.VmpV,
		VocV:             req.VocV,
		TempCoeffPct:     req.TempCoeffPct,
		MpptMinV:         req.MpptMinV,
		MpptMaxV:         req.MpptMaxV,
		InverterMaxVoltV: req.InverterMaxVoltV,
		MinTempC:         req.MinTempC,
		MaxTempC:         req.MaxTempC,
		TargetSystemKw:   req.TargetSystemKw,
		PanelWattage:     req.PanelWattage,
		IscA:             req.IscA,
		InverterMaxCurrA: req.InverterMaxCurrA,
	})

	writeJSON(w, http.StatusOK, toAdvancedStringDTO(result))
}

// ComputeTariff walks the tariff ladder.
func (h *Handler) ComputeTariff(w http.ResponseWriter, r *http.Request) {
	var req TariffRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var check fieldCheck
	check.nonNegative("monthly_consumption_kwh", req.MonthlyConsumptionKwh)
	if err := check.err(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	writeJSON(w, http.StatusOK, toTariffDTO(solar.ComputeBill(req.MonthlyConsumptionKwh)))
}

// RunFinancials produces the 25-year projection.
func (h *Handler) RunFinancials(w http.ResponseWriter, r *http.Request) {
	var req FinancialRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	location := solar.Location(req.Location)

	var check fieldCheck
	check.positive("system_size_kw", req.SystemSizeKw)
	check.between("system_loss_pct", req.SystemLossPct, 0, 99)
	check.positive("cost_per_kw_jod", req.CostPerKwJOD)
	check.nonNegative("kwh_price_jod", req.KwhPriceJOD)
	check.between("degradation_rate_pct", req.DegradationRatePct, 0, 100)
	if !location.Valid() {
		check.bad = append(check.bad, "location must be one of amman, zarqa, irbid, aqaba")
	}
	if err := check.err(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	result := solar.SimulateFinancials(solar.FinancialInput{
		SystemSizeKw:       req.SystemSizeKw,
		SystemLossPct:      req.SystemLossPct,
		Location:           location,
		CostPerKwJOD:       req.CostPerKwJOD,
		KwhPriceJOD:        req.KwhPriceJOD,
		DegradationRatePct: req.DegradationRatePct,
	})

	writeJSON(w, http.StatusOK, toFinancialDTO(result))
}

// =============================================================================
// DESIGN HANDLER
// =============================================================================

// OptimalDesign resolves the full design bundle and optionally attaches
// a narration. The numeric result is complete before narration starts
// and is never altered by it.
func (h *Handler) OptimalDesign(w http.ResponseWriter, r *http.Request) {
	var req DesignRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	location := solar.Location(req.Location)

	var check fieldCheck
	if req.MonthlyConsumptionKwh <= 0 && req.MonthlyBillJOD <= 0 {
		check.bad = append(check.bad, "either monthly_consumption_kwh or monthly_bill_jod is required")
	}
	check.positive("sun_hours", req.SunHours)
	check.between("system_loss_pct", req.SystemLossPct, 0, 99)
	check.positive("panel_wattage", req.PanelWattage)
	check.positive("panel_width_m", req.PanelWidthM)
	check.positive("panel_length_m", req.PanelLengthM)
	check.positive("panel_vmp_v", req.PanelVmpV)
	check.positive("panel_voc_v", req.PanelVocV)
	check.positive("panel_isc_a", req.PanelIscA)
	check.positive("cable_run_m", req.CableRunM)
	check.positive("cost_per_kw_jod", req.CostPerKwJOD)
	check.nonNegative("budget_jod", req.BudgetJOD)
	check.between("degradation_rate_pct", req.DegradationRatePct, 0, 100)
	if !location.Valid() {
		check.bad = append(check.bad, "location must be one of amman, zarqa, irbid, aqaba")
	}
	if err := check.err(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	result := solar.OptimizeDesign(solar.DesignInput{
		MonthlyConsumptionKwh: req.MonthlyConsumptionKwh,
		MonthlyBillJOD:        req.MonthlyBillJOD,
		KwhPriceJOD:           req.KwhPriceJOD,
		LandWidthM:            req.LandWidthM,
		LandLengthM:           req.LandLengthM,
		BudgetJOD:             req.BudgetJOD,
		SunHours:              req.SunHours,
		SystemLossPct:         req.SystemLossPct,
		PanelWattage:          req.PanelWattage,
		PanelWidthM:           req.PanelWidthM,
		PanelLengthM:          req.PanelLengthM,
		PanelVmpV:             req.PanelVmpV,
		PanelVocV:             req.PanelVocV,
		PanelIscA:             req.PanelIscA,
		CableRunM:             req.CableRunM,
		CostPerKwJOD:          req.CostPerKwJOD,
		Location:              location,
		DegradationRatePct:    req.DegradationRatePct,
	})

	dto := toDesignDTO(result)
	dto.DesignID = uuid.NewString()

	if req.Narrate {
		dto.Reasoning = h.Narrator.Narrate(r.Context(), narrate.DesignContext{
			SystemSizeKw:        result.Array.TotalDcPowerKw,
			PanelCount:          result.Array.PanelCount,
			LimitingFactor:      string(result.LimitingFactor),
			TotalInvestmentJOD:  result.Financial.TotalInvestmentJOD,
			AnnualRevenueJOD:    result.Financial.AnnualRevenueJOD,
			PaybackMonths:       result.Financial.PaybackMonths,
			NetProfit25YearsJOD: result.Financial.NetProfit25YearsJOD,
			Location:            string(location),
		})
	}

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// ASSISTANT HANDLER
// =============================================================================

// Chat forwards a free-text question to the assistant backend. Purely
// textual; no numeric feedback loop exists.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message is required", nil)
		return
	}

	reply := "المساعد غير متوفر حاليًا، الرجاء المحاولة لاحقًا."
	if h.Narrator != nil && h.Narrator.Gen != nil {
		if text, err := h.Narrator.Gen.Generate(r.Context(), req.Message,
			"أنت مساعد تقني لشركة طاقة شمسية في الأردن. أجب بالعربية."); err == nil && text != "" {
			reply = text
		}
	}

	writeJSON(w, http.StatusOK, ChatDTO{
		RequestID: uuid.NewString(),
		Reply:     reply,
	})
}

// =============================================================================
// REFERENCE DATA HANDLERS
// =============================================================================

// ListLocations returns the supported cities and their PSH profiles.
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	dtos := make([]LocationDTO, len(solar.Locations))
	for i, loc := range solar.Locations {
		dtos[i] = LocationDTO{
			ID:           string(loc),
			PeakSunHours: solar.PeakSunHours[loc],
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": dtos})
}

// ListTariffs returns the tariff ladder.
func (h *Handler) ListTariffs(w http.ResponseWriter, r *http.Request) {
	type tierDTO struct {
		UpToKwh float64 `json:"up_to_kwh,omitempty"`
		RateJOD float64 `json:"rate_jod"`
	}
	tiers := make([]tierDTO, len(solar.TariffTiers))
	for i, t := range solar.TariffTiers {
		rate, _ := t.Rate.Float64()
		tiers[i] = tierDTO{UpToKwh: t.UpToKwh, RateJOD: rate}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tiers": tiers})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
