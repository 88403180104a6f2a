package safety

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/domain/clinical"
)

func newSafetyHandlerTest(chart *mockChart) (*echo.Echo, *Handler, *mockAlerts) {
	svc, alerts := newTestService(chart)
	return echo.New(), NewHandler(svc), alerts
}

func TestHandler_CheckDrug(t *testing.T) {
	chart := &mockChart{
		meds: map[string][]*clinical.Medication{
			"PAT-1001": {med("PAT-1001", "Warfarin")},
		},
	}
	e, h, alerts := newSafetyHandlerTest(chart)

	body := `{"drug_name":"aspirin"}`
	req := httptest.NewRequest(http.MethodPost, "/patients/PAT-1001/interactions/check", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues("PAT-1001")

	if err := h.CheckDrug(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res CheckResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if res.Safe {
		t.Error("expected unsafe verdict")
	}
	if len(res.Interactions) != 1 {
		t.Errorf("expected 1 interaction, got %d", len(res.Interactions))
	}
	if len(alerts.created) != 1 {
		t.Errorf("expected 1 alert, got %d", len(alerts.created))
	}
}

func TestHandler_CheckDrug_MissingDrugName(t *testing.T) {
	e, h, _ := newSafetyHandlerTest(&mockChart{})

	req := httptest.NewRequest(http.MethodPost, "/patients/PAT-1001/interactions/check", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues("PAT-1001")

	err := h.CheckDrug(c)
	if err == nil {
		t.Fatal("expected error for missing drug name")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_InteractionSummary(t *testing.T) {
	chart := &mockChart{
		meds: map[string][]*clinical.Medication{
			"PAT-1001": {
				med("PAT-1001", "Warfarin"),
				med("PAT-1001", "Aspirin"),
			},
		},
	}
	e, h, alerts := newSafetyHandlerTest(chart)

	req := httptest.NewRequest(http.MethodGet, "/patients/PAT-1001/interactions/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues("PAT-1001")

	if err := h.InteractionSummary(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res SummaryResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if res.PatientID != "PAT-1001" {
		t.Errorf("expected PAT-1001, got %s", res.PatientID)
	}
	if len(res.Interactions) != 1 {
		t.Errorf("expected 1 interaction, got %d", len(res.Interactions))
	}
	if len(alerts.created) != 0 {
		t.Error("summary endpoint must not create alerts")
	}
}
