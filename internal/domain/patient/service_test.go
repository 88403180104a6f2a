package patient

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

// ── Mock Repositories ──

type mockRepo struct {
	data map[string]*Patient
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	m.data[p.PatientID] = p
	return nil
}
func (m *mockRepo) GetByPatientID(_ context.Context, patientID string) (*Patient, error) {
	if p, ok := m.data[patientID]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}
func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.data {
		out = append(out, p)
	}
	return out, len(out), nil
}
func (m *mockRepo) ActivePatientIDs(_ context.Context) ([]string, error) {
	var out []string
	for id, p := range m.data {
		if p.Status == StatusActive {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}
func (m *mockRepo) PatientIDsForPractitioner(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}
func (m *mockRepo) DisplayByIDs(_ context.Context, patientIDs []string) (map[string]Display, error) {
	out := make(map[string]Display)
	for _, id := range patientIDs {
		if p, ok := m.data[id]; ok {
			out[id] = Display{Name: p.FullName(), BloodGroup: p.BloodGroup}
		}
	}
	return out, nil
}

type mockVisitRepo struct {
	data []*Visit
}

func (m *mockVisitRepo) Create(_ context.Context, v *Visit) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now().UTC()
	m.data = append(m.data, v)
	return nil
}
func (m *mockVisitRepo) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*Visit, int, error) {
	var out []*Visit
	for _, v := range m.data {
		if v.PatientID == patientID {
			out = append(out, v)
		}
	}
	return out, len(out), nil
}
func (m *mockVisitRepo) Summary(_ context.Context, patientID string) (VisitSummary, error) {
	var s VisitSummary
	for _, v := range m.data {
		if v.PatientID != patientID {
			continue
		}
		s.TotalVisits++
		if v.Status == VisitCompleted {
			d := v.VisitDate
			if s.LastCompletedAt == nil || d.After(*s.LastCompletedAt) {
				s.LastCompletedAt = &d
			}
		}
	}
	return s, nil
}

func newTestService() *Service {
	return NewService(&mockRepo{data: make(map[string]*Patient)}, &mockVisitRepo{})
}

// ── Tests ──

func TestService_Register_Defaults(t *testing.T) {
	svc := newTestService()
	p := &Patient{PatientID: "PAT-1001", FirstName: "Ada", LastName: "Osei"}
	if err := svc.Register(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != StatusActive {
		t.Errorf("expected default ACTIVE status, got %s", p.Status)
	}
	if p.BloodGroup != "UNKNOWN" {
		t.Errorf("expected default UNKNOWN blood group, got %s", p.BloodGroup)
	}
}

func TestService_Register_InvalidBloodGroup(t *testing.T) {
	svc := newTestService()
	p := &Patient{PatientID: "PAT-1001", FirstName: "Ada", LastName: "Osei", BloodGroup: "Z+"}
	if err := svc.Register(context.Background(), p); err == nil {
		t.Error("expected error for invalid blood group")
	}
}

func TestService_Register_MissingName(t *testing.T) {
	svc := newTestService()
	p := &Patient{PatientID: "PAT-1001", FirstName: "Ada"}
	if err := svc.Register(context.Background(), p); err == nil {
		t.Error("expected error for missing last_name")
	}
}

func TestService_Get_NotFound(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Get(context.Background(), "PAT-9999"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ScopeIDs_ActiveOnly(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	svc.Register(ctx, &Patient{PatientID: "PAT-1001", FirstName: "Ada", LastName: "Osei"})
	inactive := &Patient{PatientID: "PAT-2002", FirstName: "Ben", LastName: "Li", Status: StatusInactive}
	svc.Register(ctx, inactive)

	ids, err := svc.ScopeIDs(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != "PAT-1001" {
		t.Errorf("expected only active patient in scope, got %v", ids)
	}
}

func TestService_VisitSummary(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	old := time.Now().UTC().Add(-48 * time.Hour)
	recent := time.Now().UTC().Add(-2 * time.Hour)
	svc.RecordVisit(ctx, &Visit{PatientID: "PAT-1001", PractitionerID: "DOC-1", VisitDate: old, Status: VisitCompleted})
	svc.RecordVisit(ctx, &Visit{PatientID: "PAT-1001", PractitionerID: "DOC-1", VisitDate: recent, Status: VisitCompleted})
	svc.RecordVisit(ctx, &Visit{PatientID: "PAT-1001", PractitionerID: "DOC-1", Status: VisitScheduled})

	s, err := svc.VisitSummary(ctx, "PAT-1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.TotalVisits != 3 {
		t.Errorf("expected 3 visits, got %d", s.TotalVisits)
	}
	if s.LastCompletedAt == nil || !s.LastCompletedAt.Equal(recent) {
		t.Error("expected most recent completed visit date")
	}
}

func TestService_RecordVisit_MissingPractitioner(t *testing.T) {
	svc := newTestService()
	v := &Visit{PatientID: "PAT-1001"}
	if err := svc.RecordVisit(context.Background(), v); err == nil {
		t.Error("expected error for missing practitioner_id")
	}
}
