package patient

import (
	"context"
	"fmt"
	"time"
)

var validBloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true, "UNKNOWN": true,
}

type Service struct {
	patients Repository
	visits   VisitRepository
}

func NewService(patients Repository, visits VisitRepository) *Service {
	return &Service{patients: patients, visits: visits}
}

func (s *Service) Register(ctx context.Context, p *Patient) error {
	if p.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if p.BloodGroup == "" {
		p.BloodGroup = "UNKNOWN"
	}
	if !validBloodGroups[p.BloodGroup] {
		return fmt.Errorf("invalid blood_group %q", p.BloodGroup)
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, patientID string) (*Patient, error) {
	return s.patients.GetByPatientID(ctx, patientID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// ScopeIDs resolves a ranking scope: all active patients when practitionerID
// is nil, otherwise the practitioner's patients.
func (s *Service) ScopeIDs(ctx context.Context, practitionerID *string) ([]string, error) {
	if practitionerID == nil {
		return s.patients.ActivePatientIDs(ctx)
	}
	return s.patients.PatientIDsForPractitioner(ctx, *practitionerID)
}

func (s *Service) DisplayByIDs(ctx context.Context, patientIDs []string) (map[string]Display, error) {
	return s.patients.DisplayByIDs(ctx, patientIDs)
}

func (s *Service) RecordVisit(ctx context.Context, v *Visit) error {
	if v.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if v.PractitionerID == "" {
		return fmt.Errorf("practitioner_id is required")
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = time.Now().UTC()
	}
	if v.Status == "" {
		v.Status = VisitScheduled
	}
	return s.visits.Create(ctx, v)
}

func (s *Service) ListVisits(ctx context.Context, patientID string, limit, offset int) ([]*Visit, int, error) {
	return s.visits.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) VisitSummary(ctx context.Context, patientID string) (VisitSummary, error) {
	return s.visits.Summary(ctx, patientID)
}
