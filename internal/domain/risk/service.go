package risk

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/domain/alert"
	"github.com/clinicore/clinicore/internal/domain/clinical"
	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/intelligence"
	"github.com/clinicore/clinicore/pkg/pagination"
)

// ChartReader supplies the vitals and chart tallies the dashboard reads.
// Satisfied by the clinical service.
type ChartReader interface {
	LatestVitals(ctx context.Context, patientID string) (*clinical.Vitals, error)
	ActiveCounts(ctx context.Context, patientID string) (clinical.ChartCounts, error)
}

// PatientDirectory resolves the ranking scope and display data. Satisfied by
// the patient service.
type PatientDirectory interface {
	ScopeIDs(ctx context.Context, practitionerID *string) ([]string, error)
	DisplayByIDs(ctx context.Context, patientIDs []string) (map[string]patient.Display, error)
	VisitSummary(ctx context.Context, patientID string) (patient.VisitSummary, error)
}

// AlertReader supplies per-patient counts and ward totals. Satisfied by the
// alert service.
type AlertReader interface {
	CountsByPatient(ctx context.Context, practitionerID *string) (map[string]alert.Counts, error)
	Stats(ctx context.Context) (*alert.Stats, error)
}

// AlertCreator raises NEWS2 threshold alerts. Satisfied by the alert service,
// which deduplicates recurring NEWS2 types on create.
type AlertCreator interface {
	Create(ctx context.Context, a *alert.ClinicalAlert) error
}

const alertSource = "news2"

// News2Service scores a patient's latest vitals and raises threshold alerts.
type News2Service struct {
	calc   *intelligence.Calculator
	chart  ChartReader
	alerts AlertCreator
}

func NewNews2Service(calc *intelligence.Calculator, chart ChartReader, alerts AlertCreator) *News2Service {
	return &News2Service{calc: calc, chart: chart, alerts: alerts}
}

// Score computes the NEWS2 result for the patient's most recent vitals. A
// HIGH result raises a NEWS2_CRITICAL alert, MEDIUM raises NEWS2_HIGH; the
// alert service supersedes any previous active alert of the same type.
func (s *News2Service) Score(ctx context.Context, patientID string) (intelligence.Result, error) {
	if patientID == "" {
		return intelligence.Result{}, fmt.Errorf("patient_id is required")
	}

	v, err := s.chart.LatestVitals(ctx, patientID)
	if err != nil {
		return intelligence.Result{}, err
	}

	var snap *intelligence.VitalsSnapshot
	var vitalsID *uuid.UUID
	if v != nil {
		snap = v.Snapshot()
		vitalsID = &v.ID
	}
	res := s.calc.Compute(snap, vitalsID)

	var alertType, severity, title string
	switch res.RiskLevel {
	case intelligence.RiskHigh:
		alertType = alert.TypeNews2Critical
		severity = alert.SeverityCritical
		title = fmt.Sprintf("NEWS2 Critical Risk (Score %d)", *res.TotalScore)
	case intelligence.RiskMedium:
		alertType = alert.TypeNews2High
		severity = alert.SeverityWarning
		title = fmt.Sprintf("NEWS2 High Risk (Score %d)", *res.TotalScore)
	default:
		return res, nil
	}

	trigger := strconv.Itoa(*res.TotalScore)
	a := &alert.ClinicalAlert{
		PatientID:    patientID,
		Type:         alertType,
		Severity:     severity,
		Title:        title,
		Description:  res.Recommendation,
		Source:       alertSource,
		TriggerValue: &trigger,
	}
	if err := s.alerts.Create(ctx, a); err != nil {
		return intelligence.Result{}, err
	}
	return res, nil
}

// DashboardService builds the ranked-patient view and ward stats.
type DashboardService struct {
	calc     *intelligence.Calculator
	chart    ChartReader
	patients PatientDirectory
	alerts   AlertReader
	fanOut   int
}

func NewDashboardService(calc *intelligence.Calculator, chart ChartReader, patients PatientDirectory, alerts AlertReader, fanOut int) *DashboardService {
	if fanOut < 1 {
		fanOut = 1
	}
	return &DashboardService{calc: calc, chart: chart, patients: patients, alerts: alerts, fanOut: fanOut}
}

// RankedPatients returns the scoped patient population ordered by critical
// alert count, then NEWS2 score (patients without a score rank lowest), then
// warning alert count. The full scope is sorted before the page is sliced.
func (s *DashboardService) RankedPatients(ctx context.Context, practitionerID *string, page pagination.Params) ([]*RankedPatient, int, error) {
	ids, err := s.patients.ScopeIDs(ctx, practitionerID)
	if err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []*RankedPatient{}, 0, nil
	}

	counts, err := s.alerts.CountsByPatient(ctx, practitionerID)
	if err != nil {
		return nil, 0, err
	}
	displays, err := s.patients.DisplayByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]*RankedPatient, len(ids))
	errs := make([]error, len(ids))
	sem := make(chan struct{}, s.fanOut)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()
			rows[i], errs[i] = s.buildRow(ctx, id, displays[id], counts[id])
		}(i, id)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, 0, err
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CriticalAlerts != rows[j].CriticalAlerts {
			return rows[i].CriticalAlerts > rows[j].CriticalAlerts
		}
		si, sj := scoreOrNegative(rows[i].News2Score), scoreOrNegative(rows[j].News2Score)
		if si != sj {
			return si > sj
		}
		return rows[i].WarningAlerts > rows[j].WarningAlerts
	})

	total := len(rows)
	return pagination.Slice(rows, page), total, nil
}

func (s *DashboardService) buildRow(ctx context.Context, patientID string, display patient.Display, alertCounts alert.Counts) (*RankedPatient, error) {
	row := &RankedPatient{
		PatientID:      patientID,
		Name:           display.Name,
		BloodGroup:     display.BloodGroup,
		CriticalAlerts: alertCounts.Critical,
		WarningAlerts:  alertCounts.Warning,
	}

	v, err := s.chart.LatestVitals(ctx, patientID)
	if err != nil {
		return nil, err
	}
	var snap *intelligence.VitalsSnapshot
	if v != nil {
		snap = v.Snapshot()
		recordedAt := v.RecordedAt
		row.LastVitalsAt = &recordedAt
	}
	res := s.calc.Compute(snap, nil)
	row.News2Score = res.TotalScore
	row.RiskLevel = res.RiskLevel
	row.RiskColour = res.RiskColour

	chartCounts, err := s.chart.ActiveCounts(ctx, patientID)
	if err != nil {
		return nil, err
	}
	row.ActiveMedications = chartCounts.Medications
	row.ActiveProblems = chartCounts.Problems
	row.ActiveAllergies = chartCounts.Allergies

	visits, err := s.patients.VisitSummary(ctx, patientID)
	if err != nil {
		return nil, err
	}
	row.LastVisitAt = visits.LastCompletedAt
	row.TotalVisits = visits.TotalVisits
	return row, nil
}

// Stats assembles the ward-level dashboard summary.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	ids, err := s.patients.ScopeIDs(ctx, nil)
	if err != nil {
		return nil, err
	}
	alertStats, err := s.alerts.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		ActivePatients:       len(ids),
		ActiveAlerts:         alertStats.ActiveTotal,
		CriticalAlerts:       alertStats.ActiveCritical,
		WarningAlerts:        alertStats.ActiveWarning,
		AlertsByType:         alertStats.ActiveByType,
		PatientsWithCritical: alertStats.PatientsWithCritical,
		PatientsOnNews2Watch: alertStats.PatientsWithActiveNews2,
		GeneratedAt:          time.Now().UTC(),
	}, nil
}

func scoreOrNegative(score *int) int {
	if score == nil {
		return -1
	}
	return *score
}
