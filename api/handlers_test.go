/*
handlers_test.go - Unit tests for API handlers

Tests for:
- JSON contract of each calculation endpoint
- Validation failures returning 400 with field details
- Design bundle identity and optional narration
- Payback sentinel rendering at the JSON boundary
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/energyai/solar-engine/narrate"
)

// stubGenerator returns canned text so design narration can be tested
// without a live backend.
type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt, system string) (string, error) {
	return s.reply, s.err
}

func newTestRouter(gen narrate.Generator) http.Handler {
	narrator := &narrate.Narrator{Gen: gen}
	return NewRouter(NewHandler(narrator))
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestCalculateWire_Success(t *testing.T) {
	// GIVEN: A 20A load at 48V over a 15m run with a 3% drop budget
	router := newTestRouter(nil)
	body := WireSizeRequest{CurrentA: 20, VoltageV: 48, DistanceM: 15, VoltageDropPct: 3}

	// WHEN: Requesting a wire size
	rec := postJSON(t, router, "/api/calc/wire", body)

	// THEN: The 10 mm² conductor is recommended
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dto WireSizeDTO
	decodeInto(t, rec, &dto)
	if dto.RecommendedSizeMM2 != 10 {
		t.Errorf("Expected 10 mm², got %v", dto.RecommendedSizeMM2)
	}
	if dto.VoltageDropV != 1.03 {
		t.Errorf("Expected rounded drop 1.03 V, got %v", dto.VoltageDropV)
	}
}

func TestCalculateWire_RejectsNonPositiveInput(t *testing.T) {
	// GIVEN: A request with a zero current
	router := newTestRouter(nil)
	body := WireSizeRequest{CurrentA: 0, VoltageV: 48, DistanceM: 15, VoltageDropPct: 3}

	// WHEN: Requesting a wire size
	rec := postJSON(t, router, "/api/calc/wire", body)

	// THEN: The request is rejected with the field named
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "current_a") {
		t.Errorf("Expected the offending field in the response, got %s", rec.Body.String())
	}
}

func TestCalculateWire_RejectsInvalidJSON(t *testing.T) {
	// GIVEN: A malformed body
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/calc/wire", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	// WHEN: Posting it
	router.ServeHTTP(rec, req)

	// THEN: 400, not a panic or 500
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestPackPanels_AutoOrientation(t *testing.T) {
	// GIVEN: A 10x20m plot and 1.1x2.2m panels
	router := newTestRouter(nil)
	body := AreaPackingRequest{
		LandWidthM: 10, LandLengthM: 20,
		PanelWidthM: 1.1, PanelLengthM: 2.2,
		PanelWattage: 550, SunHours: 5.5,
		Orientation: "auto",
	}

	// WHEN: Packing
	rec := postJSON(t, router, "/api/calc/panels/area", body)

	// THEN: 54 panels fit in portrait
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dto AreaPackingDTO
	decodeInto(t, rec, &dto)
	if dto.MaxPanels != 54 {
		t.Errorf("Expected 54 panels, got %d", dto.MaxPanels)
	}
	if dto.FinalOrientation != "portrait" {
		t.Errorf("Expected portrait, got %s", dto.FinalOrientation)
	}
}

func TestPackPanels_DefaultsToAuto(t *testing.T) {
	// GIVEN: A request with no orientation field
	router := newTestRouter(nil)
	body := map[string]any{
		"land_width_m": 10.0, "land_length_m": 20.0,
		"panel_width_m": 1.1, "panel_length_m": 2.2,
		"panel_wattage": 550.0, "sun_hours": 5.5,
	}

	// WHEN: Packing
	rec := postJSON(t, router, "/api/calc/panels/area", body)

	// THEN: Auto is assumed and the request succeeds
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPackPanels_RejectsUnknownOrientation(t *testing.T) {
	// GIVEN: An orientation outside the enum
	router := newTestRouter(nil)
	body := AreaPackingRequest{
		LandWidthM: 10, LandLengthM: 20,
		PanelWidthM: 1.1, PanelLengthM: 2.2,
		PanelWattage: 550, SunHours: 5.5,
		Orientation: "diagonal",
	}

	// WHEN: Packing
	rec := postJSON(t, router, "/api/calc/panels/area", body)

	// THEN: 400
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestSizeBattery_ScenarioResponse(t *testing.T) {
	// GIVEN: 5 kWh/day, 2 days autonomy, 80% DoD, 12V/200Ah units, 48V bus
	router := newTestRouter(nil)
	body := BatteryBankRequest{
		DailyLoadKwh: 5, AutonomyDays: 2, DepthOfDischarge: 80,
		BatteryVoltageV: 12, BatteryCapacityAh: 200, SystemVoltageV: 48,
	}

	// WHEN: Sizing the bank
	rec := postJSON(t, router, "/api/calc/battery", body)

	// THEN: 4 series x 2 parallel = 8 batteries
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dto BatteryBankDTO
	decodeInto(t, rec, &dto)
	if dto.BatteriesInSeries != 4 || dto.ParallelStrings != 2 || dto.TotalBatteries != 8 {
		t.Errorf("Expected 4s2p = 8, got %ds%dp = %d",
			dto.BatteriesInSeries, dto.ParallelStrings, dto.TotalBatteries)
	}
}

func TestSizeBattery_RejectsMisalignedVoltages(t *testing.T) {
	// GIVEN: A 48V system built from 18V batteries
	router := newTestRouter(nil)
	body := BatteryBankRequest{
		DailyLoadKwh: 5, AutonomyDays: 2, DepthOfDischarge: 80,
		BatteryVoltageV: 18, BatteryCapacityAh: 200, SystemVoltageV: 48,
	}

	// WHEN: Sizing the bank
	rec := postJSON(t, router, "/api/calc/battery", body)

	// THEN: 400, voltages must divide evenly
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestConfigureStringAdvanced_InfeasibleComesBackAs200(t *testing.T) {
	// GIVEN: An inverter ceiling too low for even one panel at min temp
	router := newTestRouter(nil)
	body := AdvancedStringRequest{
		VmpV: 41, VocV: 49, TempCoeffPct: -0.29,
		MpptMinV: 200, MpptMaxV: 800, InverterMaxVoltV: 150,
		MinTempC: -5, MaxTempC: 45,
		TargetSystemKw: 10, PanelWattage: 450,
		IscA: 13.8, InverterMaxCurrA: 40,
	}

	// WHEN: Configuring
	rec := postJSON(t, router, "/api/calc/strings/advanced", body)

	// THEN: Infeasibility is a result, not an HTTP error
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dto AdvancedStringDTO
	decodeInto(t, rec, &dto)
	if dto.Feasible {
		t.Error("Expected an infeasible configuration")
	}
	if dto.Reason == "" {
		t.Error("Expected a reason for the infeasible window")
	}
}

func TestComputeTariff_ScenarioBill(t *testing.T) {
	// GIVEN: 500 kWh of monthly consumption
	router := newTestRouter(nil)
	body := TariffRequest{MonthlyConsumptionKwh: 500}

	// WHEN: Computing the bill
	rec := postJSON(t, router, "/api/calc/tariff", body)

	// THEN: The ladder yields 32.56 JOD
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dto TariffDTO
	decodeInto(t, rec, &dto)
	if dto.TotalJOD != 32.56 {
		t.Errorf("Expected 32.56 JOD, got %v", dto.TotalJOD)
	}
	if len(dto.Tiers) != 3 {
		t.Errorf("Expected 3 occupied tiers, got %d", len(dto.Tiers))
	}
}

func TestRunFinancials_ZeroPriceRendersInfinitePayback(t *testing.T) {
	// GIVEN: A system that earns nothing
	router := newTestRouter(nil)
	body := FinancialRequest{
		SystemSizeKw: 5, SystemLossPct: 10, Location: "amman",
		CostPerKwJOD: 600, KwhPriceJOD: 0, DegradationRatePct: 0.5,
	}

	// WHEN: Simulating
	rec := postJSON(t, router, "/api/calc/financial", body)

	// THEN: Payback months is null and the display string is the sentinel
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dto FinancialDTO
	decodeInto(t, rec, &dto)
	if dto.PaybackMonths != nil {
		t.Errorf("Expected null payback months, got %v", *dto.PaybackMonths)
	}
	if dto.PaybackDisplay != "∞" {
		t.Errorf("Expected ∞ display, got %q", dto.PaybackDisplay)
	}
}

func TestRunFinancials_RejectsUnknownLocation(t *testing.T) {
	// GIVEN: A location outside the table
	router := newTestRouter(nil)
	body := FinancialRequest{
		SystemSizeKw: 5, SystemLossPct: 10, Location: "london",
		CostPerKwJOD: 600, KwhPriceJOD: 0.1, DegradationRatePct: 0.5,
	}

	// WHEN: Simulating
	rec := postJSON(t, router, "/api/calc/financial", body)

	// THEN: 400
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func designRequest() DesignRequest {
	return DesignRequest{
		MonthlyConsumptionKwh: 600,
		KwhPriceJOD:           0.1,
		SunHours:              5.5,
		SystemLossPct:         10,
		PanelWattage:          550,
		PanelWidthM:           1.1,
		PanelLengthM:          2.2,
		PanelVmpV:             41,
		PanelVocV:             49,
		PanelIscA:             13.8,
		CableRunM:             15,
		CostPerKwJOD:          600,
		Location:              "amman",
		DegradationRatePct:    0.5,
	}
}

func TestOptimalDesign_BundleWithoutNarration(t *testing.T) {
	// GIVEN: A consumption-limited design request without narration
	router := newTestRouter(nil)

	// WHEN: Requesting the design
	rec := postJSON(t, router, "/api/design/optimal", designRequest())

	// THEN: The bundle is complete, carries an ID, and has no reasoning
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dto DesignDTO
	decodeInto(t, rec, &dto)
	if dto.DesignID == "" {
		t.Error("Expected a design ID")
	}
	if dto.LimitingFactor != "consumption" {
		t.Errorf("Expected consumption-limited, got %s", dto.LimitingFactor)
	}
	if dto.Reasoning != "" {
		t.Errorf("Expected no reasoning without narrate flag, got %q", dto.Reasoning)
	}
	if dto.Array.PanelCount <= 0 {
		t.Error("Expected a positive panel count")
	}
	if dto.Financial.TotalInvestmentJOD <= 0 {
		t.Error("Expected a positive investment")
	}
}

func TestOptimalDesign_NarrationFromBackend(t *testing.T) {
	// GIVEN: A narration-enabled request and a working backend
	router := newTestRouter(&stubGenerator{reply: "تصميم ممتاز"})
	body := designRequest()
	body.Narrate = true

	// WHEN: Requesting the design
	rec := postJSON(t, router, "/api/design/optimal", body)

	// THEN: The backend text is attached verbatim
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dto DesignDTO
	decodeInto(t, rec, &dto)
	if dto.Reasoning != "تصميم ممتاز" {
		t.Errorf("Expected backend narration, got %q", dto.Reasoning)
	}
}

func TestOptimalDesign_NarrationFallsBackOnBackendError(t *testing.T) {
	// GIVEN: A narration-enabled request and a failing backend
	router := newTestRouter(&stubGenerator{err: errors.New("quota exceeded")})
	body := designRequest()
	body.Narrate = true

	// WHEN: Requesting the design
	rec := postJSON(t, router, "/api/design/optimal", body)

	// THEN: The numeric bundle still succeeds with the template narration
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dto DesignDTO
	decodeInto(t, rec, &dto)
	if dto.Reasoning == "" {
		t.Error("Expected fallback narration on backend failure")
	}
	if dto.Array.PanelCount <= 0 {
		t.Error("Numeric result must not depend on the narration backend")
	}
}

func TestOptimalDesign_RequiresConsumptionOrBill(t *testing.T) {
	// GIVEN: A request with neither consumption nor bill
	router := newTestRouter(nil)
	body := designRequest()
	body.MonthlyConsumptionKwh = 0
	body.MonthlyBillJOD = 0

	// WHEN: Requesting the design
	rec := postJSON(t, router, "/api/design/optimal", body)

	// THEN: 400
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestChat_ReturnsBackendReply(t *testing.T) {
	// GIVEN: A working assistant backend
	router := newTestRouter(&stubGenerator{reply: "الألواح أحادية البلورية أكثر كفاءة"})

	// WHEN: Asking a question
	rec := postJSON(t, router, "/api/assistant/chat", ChatRequest{Message: "ما أفضل نوع ألواح؟"})

	// THEN: The reply and a request ID come back
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dto ChatDTO
	decodeInto(t, rec, &dto)
	if dto.Reply != "الألواح أحادية البلورية أكثر كفاءة" {
		t.Errorf("Unexpected reply: %q", dto.Reply)
	}
	if dto.RequestID == "" {
		t.Error("Expected a request ID")
	}
}

func TestChat_RejectsEmptyMessage(t *testing.T) {
	// GIVEN: A blank message
	router := newTestRouter(&stubGenerator{reply: "x"})

	// WHEN: Posting it
	rec := postJSON(t, router, "/api/assistant/chat", ChatRequest{Message: "   "})

	// THEN: 400
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestListLocations_ReturnsAllCities(t *testing.T) {
	// GIVEN: The reference data endpoint
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/locations", nil)
	rec := httptest.NewRecorder()

	// WHEN: Listing locations
	router.ServeHTTP(rec, req)

	// THEN: All four cities with 12-month profiles
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Locations []LocationDTO `json:"locations"`
	}
	decodeInto(t, rec, &body)
	if len(body.Locations) != 4 {
		t.Fatalf("Expected 4 locations, got %d", len(body.Locations))
	}
	for _, loc := range body.Locations {
		for m, psh := range loc.PeakSunHours {
			if psh <= 0 {
				t.Errorf("Location %s month %d has non-positive PSH", loc.ID, m+1)
			}
		}
	}
}

func TestListTariffs_ReturnsLadder(t *testing.T) {
	// GIVEN: The tariff reference endpoint
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/tariffs", nil)
	rec := httptest.NewRecorder()

	// WHEN: Listing tariffs
	router.ServeHTTP(rec, req)

	// THEN: Five tiers, the last unbounded
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Tiers []struct {
			UpToKwh float64 `json:"up_to_kwh"`
			RateJOD float64 `json:"rate_jod"`
		} `json:"tiers"`
	}
	decodeInto(t, rec, &body)
	if len(body.Tiers) != 5 {
		t.Fatalf("Expected 5 tiers, got %d", len(body.Tiers))
	}
	if body.Tiers[4].UpToKwh != 0 {
		t.Errorf("Expected the last tier unbounded, got %v", body.Tiers[4].UpToKwh)
	}
	if body.Tiers[4].RateJOD != 0.188 {
		t.Errorf("Expected 0.188 for the top tier, got %v", body.Tiers[4].RateJOD)
	}
}

func TestHealth(t *testing.T) {
	// GIVEN: The router
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	// WHEN: Probing health
	router.ServeHTTP(rec, req)

	// THEN: ok
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}
