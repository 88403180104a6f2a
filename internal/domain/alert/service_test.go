package alert

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// ── Mock Repository ──

type mockRepo struct {
	mu   sync.Mutex
	data map[uuid.UUID]*ClinicalAlert
}

func newMockRepo() *mockRepo {
	return &mockRepo{data: make(map[uuid.UUID]*ClinicalAlert)}
}

func (m *mockRepo) Create(_ context.Context, a *ClinicalAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	cp := *a
	m.data[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*ClinicalAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.data[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *mockRepo) UpdateStatus(_ context.Context, a *ClinicalAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	m.data[a.ID] = &cp
	return nil
}

func (m *mockRepo) FindActiveByPatientAndType(_ context.Context, patientID, alertType string) (*ClinicalAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.data {
		if a.PatientID == patientID && a.Type == alertType && a.Status == StatusActive {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID string, f ListFilter, limit, offset int) ([]*ClinicalAlert, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ClinicalAlert
	for _, a := range m.data {
		if a.PatientID != patientID {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		if f.Severity != nil && a.Severity != *f.Severity {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockRepo) ListGlobal(_ context.Context, f ListFilter, limit, offset int) ([]*ClinicalAlert, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ClinicalAlert
	for _, a := range m.data {
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		if f.Severity != nil && a.Severity != *f.Severity {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockRepo) CountsByPatient(_ context.Context, _ *string) (map[string]Counts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Counts)
	for _, a := range m.data {
		if a.Status != StatusActive {
			continue
		}
		c := out[a.PatientID]
		switch a.Severity {
		case SeverityCritical:
			c.Critical++
		case SeverityWarning:
			c.Warning++
		}
		out[a.PatientID] = c
	}
	return out, nil
}

func (m *mockRepo) Stats(_ context.Context) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Stats{ActiveByType: make(map[string]int)}
	critPatients := make(map[string]bool)
	news2Patients := make(map[string]bool)
	for _, a := range m.data {
		if a.Status != StatusActive {
			continue
		}
		s.ActiveTotal++
		s.ActiveByType[a.Type]++
		if a.Severity == SeverityCritical {
			s.ActiveCritical++
			critPatients[a.PatientID] = true
		} else {
			s.ActiveWarning++
		}
		if a.Type == TypeNews2Critical {
			news2Patients[a.PatientID] = true
		}
	}
	s.PatientsWithCritical = len(critPatients)
	s.PatientsWithActiveNews2 = len(news2Patients)
	return s, nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, nil), repo
}

func news2CriticalAlert(patientID string) *ClinicalAlert {
	return &ClinicalAlert{
		PatientID:   patientID,
		Type:        TypeNews2Critical,
		Severity:    SeverityCritical,
		Title:       "NEWS2 Critical Risk (Score 9)",
		Description: "Aggregate early warning score 9",
		Source:      "News2Service",
	}
}

// ── Create ──

func TestService_Create(t *testing.T) {
	svc, _ := newTestService()
	a := news2CriticalAlert("PAT-1001")
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if a.Status != StatusActive {
		t.Errorf("expected ACTIVE, got %s", a.Status)
	}
}

func TestService_Create_MissingPatient(t *testing.T) {
	svc, _ := newTestService()
	a := news2CriticalAlert("")
	if err := svc.Create(context.Background(), a); err == nil {
		t.Error("expected error for missing patient_id")
	}
}

func TestService_Create_InvalidType(t *testing.T) {
	svc, _ := newTestService()
	a := news2CriticalAlert("PAT-1001")
	a.Type = "VITALS_STALE"
	if err := svc.Create(context.Background(), a); err == nil {
		t.Error("expected error for invalid alert_type")
	}
}

func TestService_Create_InvalidSeverity(t *testing.T) {
	svc, _ := newTestService()
	a := news2CriticalAlert("PAT-1001")
	a.Severity = "INFO"
	if err := svc.Create(context.Background(), a); err == nil {
		t.Error("expected error for invalid severity")
	}
}

func TestService_Create_RecurringSupersedesActive(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	first := news2CriticalAlert("PAT-1001")
	if err := svc.Create(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := news2CriticalAlert("PAT-1001")
	if err := svc.Create(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active := 0
	for _, a := range repo.data {
		if a.Status == StatusActive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one ACTIVE alert, got %d", active)
	}
	old, _ := svc.GetByID(ctx, first.ID)
	if old.Status != StatusDismissed {
		t.Errorf("expected first alert DISMISSED, got %s", old.Status)
	}
	if old.DismissReason == nil || *old.DismissReason != AutoDismissReason {
		t.Errorf("expected auto-dismiss reason, got %v", old.DismissReason)
	}
}

func TestService_Create_AcknowledgedNotSuperseded(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	first := news2CriticalAlert("PAT-1001")
	svc.Create(ctx, first)
	if _, err := svc.Acknowledge(ctx, first.ID, "dr.jones"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := news2CriticalAlert("PAT-1001")
	if err := svc.Create(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the acknowledged alert is terminal and coexists with the new one
	if len(repo.data) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(repo.data))
	}
	acked, _ := svc.GetByID(ctx, first.ID)
	if acked.Status != StatusAcknowledged {
		t.Errorf("expected first alert still ACKNOWLEDGED, got %s", acked.Status)
	}
}

func TestService_Create_NonRecurringAccumulates(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		a := news2CriticalAlert("PAT-1001")
		a.Type = TypeDrugInteraction
		if err := svc.Create(ctx, a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	active := 0
	for _, a := range repo.data {
		if a.Status == StatusActive {
			active++
		}
	}
	if active != 2 {
		t.Errorf("expected 2 ACTIVE drug interaction alerts, got %d", active)
	}
}

func TestService_Create_ConcurrentRecurring(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Create(ctx, news2CriticalAlert("PAT-1001"))
		}()
	}
	wg.Wait()
	active := 0
	for _, a := range repo.data {
		if a.Status == StatusActive {
			active++
		}
	}
	if active != 1 {
		t.Errorf("expected exactly one ACTIVE alert after concurrent creates, got %d", active)
	}
}

// ── Acknowledge / Dismiss ──

func TestService_Acknowledge(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := news2CriticalAlert("PAT-1001")
	svc.Create(ctx, a)
	got, err := svc.Acknowledge(ctx, a.ID, "dr.jones")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusAcknowledged {
		t.Errorf("expected ACKNOWLEDGED, got %s", got.Status)
	}
	if got.AcknowledgedBy == nil || *got.AcknowledgedBy != "dr.jones" {
		t.Error("expected acknowledging actor recorded")
	}
	if got.AcknowledgedAt == nil {
		t.Error("expected acknowledge timestamp recorded")
	}
}

func TestService_Acknowledge_NotFound(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Acknowledge(context.Background(), uuid.New(), "dr.jones"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Acknowledge_Terminal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := news2CriticalAlert("PAT-1001")
	svc.Create(ctx, a)
	svc.Acknowledge(ctx, a.ID, "dr.jones")
	if _, err := svc.Acknowledge(ctx, a.ID, "dr.smith"); err == nil {
		t.Error("expected error acknowledging a terminal alert")
	}
}

func TestService_Dismiss(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := news2CriticalAlert("PAT-1001")
	svc.Create(ctx, a)
	got, err := svc.Dismiss(ctx, a.ID, "Patient reviewed", "dr.jones")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusDismissed {
		t.Errorf("expected DISMISSED, got %s", got.Status)
	}
	if got.DismissReason == nil || *got.DismissReason != "Patient reviewed" {
		t.Error("expected dismiss reason recorded")
	}
	if got.DismissedAt == nil {
		t.Error("expected dismiss timestamp recorded")
	}
}

func TestService_Dismiss_BlankReason(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	a := news2CriticalAlert("PAT-1001")
	svc.Create(ctx, a)
	for _, reason := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Dismiss(ctx, a.ID, reason, "dr.jones"); err == nil {
			t.Errorf("expected error for blank dismiss reason %q", reason)
		}
	}
	got, err := svc.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusActive {
		t.Errorf("expected alert still ACTIVE, got %s", got.Status)
	}
}

func TestService_Dismiss_NotFound(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Dismiss(context.Background(), uuid.New(), "reason", "dr.jones"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ── Lists / Counts ──

func TestService_ListByPatient_Filtered(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	crit := news2CriticalAlert("PAT-1001")
	svc.Create(ctx, crit)
	warn := news2CriticalAlert("PAT-1001")
	warn.Type = TypeLabAbnormal
	warn.Severity = SeverityWarning
	svc.Create(ctx, warn)
	other := news2CriticalAlert("PAT-2002")
	other.Type = TypeLabCritical
	svc.Create(ctx, other)

	sev := SeverityWarning
	items, total, err := svc.ListByPatient(ctx, "PAT-1001", ListFilter{Severity: &sev}, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 warning alert, got %d", total)
	}
	if items[0].Type != TypeLabAbnormal {
		t.Errorf("expected LAB_ABNORMAL, got %s", items[0].Type)
	}
}

func TestService_CountsByPatient(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	svc.Create(ctx, news2CriticalAlert("PAT-1001"))
	warn := news2CriticalAlert("PAT-1001")
	warn.Type = TypeLabAbnormal
	warn.Severity = SeverityWarning
	svc.Create(ctx, warn)

	counts, err := svc.CountsByPatient(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := counts["PAT-1001"]
	if c.Critical != 1 || c.Warning != 1 {
		t.Errorf("expected 1 critical + 1 warning, got %+v", c)
	}
}

func TestService_Stats_News2WatchCountsCriticalOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	svc.Create(ctx, news2CriticalAlert("PAT-1001"))
	high := &ClinicalAlert{
		PatientID:   "PAT-2002",
		Type:        TypeNews2High,
		Severity:    SeverityWarning,
		Title:       "NEWS2 High Risk (Score 5)",
		Description: "Aggregate early warning score 5",
		Source:      "News2Service",
	}
	svc.Create(ctx, high)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.ActiveTotal != 2 {
		t.Fatalf("expected 2 active alerts, got %d", stats.ActiveTotal)
	}
	if stats.PatientsWithCritical != 1 {
		t.Errorf("expected 1 patient with critical alerts, got %d", stats.PatientsWithCritical)
	}
	if stats.PatientsWithActiveNews2 != 1 {
		t.Errorf("expected only the NEWS2_CRITICAL patient on watch, got %d", stats.PatientsWithActiveNews2)
	}
}
