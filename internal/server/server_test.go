package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iwvelando/finance-calculator/internal/config"
	"github.com/iwvelando/finance-calculator/internal/settings"
	"github.com/iwvelando/finance-calculator/internal/store"
	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/finance"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	svc := settings.NewService(zap.NewNop(), store.NewMemory())
	return NewHandler(zap.NewNop(), svc, constants.DefaultMaxBodySizeBytes, "test")
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandleVersion(t *testing.T) {
	rr := doJSON(t, newTestHandler(t), http.MethodGet, "/api/version", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "test" {
		t.Fatalf("expected version test, got %q", resp["version"])
	}
}

func TestHandleVersionDefaultsToDev(t *testing.T) {
	h := NewHandler(nil, nil, 0, "  ")
	rr := doJSON(t, h, http.MethodGet, "/api/version", nil, nil)
	if !strings.Contains(rr.Body.String(), `"dev"`) {
		t.Fatalf("expected dev version, got %s", rr.Body.String())
	}
}

func TestHandleRates(t *testing.T) {
	rr := doJSON(t, newTestHandler(t), http.MethodGet, "/api/rates", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Rates []finance.RatePreset `json:"rates"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Rates) != 4 {
		t.Fatalf("expected 4 rate presets, got %d", len(resp.Rates))
	}
	if resp.Rates[3].Selector != finance.RateCustom || resp.Rates[3].AnnualRate != nil {
		t.Fatalf("expected custom preset last without a rate, got %+v", resp.Rates[3])
	}
}

func TestHandleInvestment(t *testing.T) {
	body := map[string]interface{}{
		"monthlyInvestment": 100,
		"years":             2,
		"selectedRate":      "custom",
		"customRate":        0,
		"lumpSums":          []map[string]interface{}{{"amount": 1000, "year": 1}},
		"totalGoal":         10000,
	}
	rr := doJSON(t, newTestHandler(t), http.MethodPost, "/api/investment/project", body, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Result   finance.InvestmentResult `json:"result"`
		CSV      string                   `json:"csv"`
		Duration string                   `json:"duration"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result.FinalValue != 3400 {
		t.Fatalf("expected final value 3400, got %.2f", resp.Result.FinalValue)
	}
	if len(resp.Result.Yearly) != 2 || resp.Result.Yearly[0].Value != 2200 {
		t.Fatalf("unexpected yearly series %+v", resp.Result.Yearly)
	}
	if resp.Result.Goal.EstimatedYears.Reachable {
		t.Fatalf("goal should be unreachable at a zero rate, got %+v", resp.Result.Goal.EstimatedYears)
	}
	if resp.CSV == "" || resp.Duration == "" {
		t.Fatal("expected CSV and duration in response")
	}
}

func TestHandleInvestmentConfigurationError(t *testing.T) {
	body := map[string]interface{}{"years": 10, "selectedRate": "moon"}
	rr := doJSON(t, newTestHandler(t), http.MethodPost, "/api/investment/project", body, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "selectedRate") {
		t.Fatalf("expected the failing field in the error, got %s", rr.Body.String())
	}
}

func TestHandleInvestmentOverflowingRate(t *testing.T) {
	body := map[string]interface{}{
		"monthlyInvestment": 500,
		"years":             50,
		"selectedRate":      "custom",
		"customRate":        100,
		"totalGoal":         1000,
	}
	rr := doJSON(t, newTestHandler(t), http.MethodPost, "/api/investment/project", body, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %q", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "annualRate") {
		t.Fatalf("expected the failing field in the error, got %s", rr.Body.String())
	}
}

func TestHandleInvestmentMissingFieldsUseDefaults(t *testing.T) {
	body := map[string]interface{}{"years": 5}
	rr := doJSON(t, newTestHandler(t), http.MethodPost, "/api/investment/project", body, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Result finance.InvestmentResult `json:"result"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Result.Yearly) != 5 {
		t.Fatalf("expected 5 years, got %d", len(resp.Result.Yearly))
	}
	wantInvested := constants.DefaultMonthlyInvestment * 12 * 5
	if resp.Result.TotalInvested != wantInvested {
		t.Fatalf("expected the default contribution to give %.0f invested, got %.2f", wantInvested, resp.Result.TotalInvested)
	}
	if resp.Result.Goal.Target != constants.DefaultTotalGoal {
		t.Fatalf("expected the default goal, got %.0f", resp.Result.Goal.Target)
	}
}

func TestWriteJSONUnencodablePayload(t *testing.T) {
	h := &handler{logger: zap.NewNop()}
	rr := httptest.NewRecorder()
	h.writeJSON(rr, http.StatusOK, map[string]float64{"value": math.Inf(1)})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected a JSON error body, got %q: %v", rr.Body.String(), err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected an error message, got %v", resp)
	}
}

func TestHandleBudgetZeroIncome(t *testing.T) {
	body := map[string]interface{}{
		"monthlyIncome": 0,
		"expenses":      []map[string]interface{}{{"category": "Rent", "amount": 1000}},
		"savingsGoal":   500,
	}
	rr := doJSON(t, newTestHandler(t), http.MethodPost, "/api/budget/project", body, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Result finance.BudgetResult `json:"result"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Result.MonthlySavings.Equal(decimal.NewFromInt(-1000)) {
		t.Fatalf("expected savings of -1000, got %s", resp.Result.MonthlySavings)
	}
	if !resp.Result.SavingsRate.Degenerate() {
		t.Fatal("expected a degenerate savings rate for zero income")
	}
	if resp.Result.MonthsToGoal != finance.Unreachable {
		t.Fatalf("expected unreachable goal, got %+v", resp.Result.MonthsToGoal)
	}
}

func TestHandleForecast(t *testing.T) {
	rr := doJSON(t, newTestHandler(t), http.MethodPost, "/api/forecast", config.DefaultSettings(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp forecastResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Investment == nil || resp.Budget == nil {
		t.Fatal("expected both projections")
	}
	if len(resp.Investment.Yearly) != constants.DefaultYears {
		t.Fatalf("expected %d years, got %d", constants.DefaultYears, len(resp.Investment.Yearly))
	}
	if resp.CSV == "" {
		t.Fatal("expected CSV data in response")
	}
}

func TestHandleForecastRejectsBadInput(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/forecast", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	rr = doJSON(t, h, http.MethodGet, "/api/forecast", nil, nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleForecastBodyTooLarge(t *testing.T) {
	h := NewHandler(zap.NewNop(), nil, 16, "test")
	rr := doJSON(t, h, http.MethodPost, "/api/forecast", config.DefaultSettings(), nil)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}
}

func TestHandleSettingsRequiresUser(t *testing.T) {
	h := newTestHandler(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rr := doJSON(t, h, method, "/api/settings", config.DefaultSettings(), nil)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected status 401, got %d", method, rr.Code)
		}
	}
}

func TestHandleSettingsLifecycle(t *testing.T) {
	h := newTestHandler(t)
	user := map[string]string{constants.UserIDHeader: "user-1"}

	rr := doJSON(t, h, http.MethodGet, "/api/settings", nil, user)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var first settingsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &first); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !first.Created || first.Settings.TotalGoal != constants.DefaultTotalGoal {
		t.Fatalf("expected freshly created defaults, got %+v", first)
	}

	updated := config.DefaultSettings()
	updated.MonthlyInvestment = 900
	rr = doJSON(t, h, http.MethodPut, "/api/settings", updated, user)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var saved settingsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &saved); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if saved.Revision == first.Revision {
		t.Fatal("expected a new revision after save")
	}

	rr = doJSON(t, h, http.MethodGet, "/api/settings", nil, user)
	var loaded settingsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if loaded.Settings.MonthlyInvestment != 900 || loaded.Created {
		t.Fatalf("expected stored settings, got %+v", loaded)
	}

	other := doJSON(t, h, http.MethodGet, "/api/settings", nil, map[string]string{constants.UserIDHeader: "user-2"})
	if strings.Contains(other.Body.String(), `"monthlyInvestment":900`) {
		t.Fatal("settings leaked across users")
	}

	rr = doJSON(t, h, http.MethodDelete, "/api/settings", nil, user)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
}

func TestHandleSettingsWithoutStore(t *testing.T) {
	h := NewHandler(zap.NewNop(), nil, 0, "test")
	rr := doJSON(t, h, http.MethodGet, "/api/settings", nil, map[string]string{constants.UserIDHeader: "user-1"})
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
}

func TestHandleSettingsExportOrdersKeys(t *testing.T) {
	body := map[string]interface{}{
		"savingsGoal":       1000,
		"zeta":              true,
		"monthlyInvestment": 500,
		"expenses":          []map[string]interface{}{{"category": "Food", "amount": 600}},
		"years":             30,
	}
	rr := doJSON(t, newTestHandler(t), http.MethodPost, "/api/settings/export", body, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	out := resp["settingsYaml"]

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(out), &node); err != nil {
		t.Fatalf("failed to parse exported YAML: %v", err)
	}
	mapping := node.Content[0]
	var keys []string
	for i := 0; i < len(mapping.Content); i += 2 {
		keys = append(keys, mapping.Content[i].Value)
	}

	expected := []string{"monthlyInvestment", "years", "expenses", "savingsGoal", "zeta"}
	if strings.Join(keys, ",") != strings.Join(expected, ",") {
		t.Fatalf("expected key order %v, got %v", expected, keys)
	}
}
