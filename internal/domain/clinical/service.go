package clinical

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clinically plausible measurement bounds. Values outside are recording
// errors, rejected before they can reach the scorer.
const (
	minSystolicBP  = 30
	maxSystolicBP  = 300
	minHeartRate   = 0
	maxHeartRate   = 300
	minTemperature = 25.0
	maxTemperature = 45.0
	minRespRate    = 0
	maxRespRate    = 80
)

type Service struct {
	vitals      VitalsRepository
	medications MedicationRepository
	allergies   AllergyRepository
	problems    ProblemRepository
	counts      ChartCountsRepository
}

func NewService(
	vitals VitalsRepository,
	medications MedicationRepository,
	allergies AllergyRepository,
	problems ProblemRepository,
	counts ChartCountsRepository,
) *Service {
	return &Service{
		vitals:      vitals,
		medications: medications,
		allergies:   allergies,
		problems:    problems,
		counts:      counts,
	}
}

// -- Vitals --

func validateVitals(v *Vitals) error {
	if v.SystolicBP == nil && v.DiastolicBP == nil && v.HeartRate == nil &&
		v.Temperature == nil && v.OxygenSaturation == nil && v.RespiratoryRate == nil {
		return fmt.Errorf("at least one vital sign is required")
	}
	if v.OxygenSaturation != nil && (*v.OxygenSaturation < 0 || *v.OxygenSaturation > 100) {
		return fmt.Errorf("oxygen_saturation must be between 0 and 100")
	}
	if v.SystolicBP != nil && (*v.SystolicBP < minSystolicBP || *v.SystolicBP > maxSystolicBP) {
		return fmt.Errorf("systolic_bp must be between %d and %d", minSystolicBP, maxSystolicBP)
	}
	if v.SystolicBP != nil && v.DiastolicBP != nil && *v.DiastolicBP > *v.SystolicBP {
		return fmt.Errorf("diastolic_bp must not exceed systolic_bp")
	}
	if v.HeartRate != nil && (*v.HeartRate < minHeartRate || *v.HeartRate > maxHeartRate) {
		return fmt.Errorf("heart_rate must be between %d and %d", minHeartRate, maxHeartRate)
	}
	if v.Temperature != nil && (*v.Temperature < minTemperature || *v.Temperature > maxTemperature) {
		return fmt.Errorf("temperature must be between %.1f and %.1f", minTemperature, maxTemperature)
	}
	if v.RespiratoryRate != nil && (*v.RespiratoryRate < minRespRate || *v.RespiratoryRate > maxRespRate) {
		return fmt.Errorf("respiratory_rate must be between %d and %d", minRespRate, maxRespRate)
	}
	return nil
}

func (s *Service) RecordVitals(ctx context.Context, v *Vitals) error {
	if v.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if v.RecordedBy == "" {
		return fmt.Errorf("recorded_by is required")
	}
	if err := validateVitals(v); err != nil {
		return err
	}
	return s.vitals.Create(ctx, v)
}

func (s *Service) LatestVitals(ctx context.Context, patientID string) (*Vitals, error) {
	return s.vitals.LatestByPatient(ctx, patientID)
}

func (s *Service) ListVitals(ctx context.Context, patientID string, limit, offset int) ([]*Vitals, int, error) {
	return s.vitals.ListByPatient(ctx, patientID, limit, offset)
}

// -- Medications --

func (s *Service) AddMedication(ctx context.Context, m *Medication) error {
	if m.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("medication_name is required")
	}
	if m.Dosage == "" {
		return fmt.Errorf("dosage is required")
	}
	if m.Frequency == "" {
		return fmt.Errorf("frequency is required")
	}
	if m.Status == "" {
		m.Status = MedicationActive
	}
	if m.StartDate.IsZero() {
		m.StartDate = time.Now().UTC()
	}
	return s.medications.Create(ctx, m)
}

func (s *Service) DiscontinueMedication(ctx context.Context, id uuid.UUID) (*Medication, error) {
	m, err := s.medications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	m.Status = MedicationDiscontinued
	m.EndDate = &now
	if err := s.medications.UpdateStatus(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ActiveMedications(ctx context.Context, patientID string) ([]*Medication, error) {
	return s.medications.ListActiveByPatient(ctx, patientID)
}

func (s *Service) ListMedications(ctx context.Context, patientID string, limit, offset int) ([]*Medication, int, error) {
	return s.medications.ListByPatient(ctx, patientID, limit, offset)
}

// -- Allergies --

var validAllergySeverities = map[string]bool{
	AllergyMild: true, AllergyModerate: true, AllergySevere: true, AllergyLifeThreatening: true,
}

func (s *Service) RecordAllergy(ctx context.Context, a *Allergy) error {
	if a.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if a.Substance == "" {
		return fmt.Errorf("substance is required")
	}
	if !validAllergySeverities[a.Severity] {
		return fmt.Errorf("invalid allergy severity %q", a.Severity)
	}
	if a.Reaction == "" {
		return fmt.Errorf("reaction is required")
	}
	return s.allergies.Create(ctx, a)
}

func (s *Service) DeactivateAllergy(ctx context.Context, id uuid.UUID) error {
	if _, err := s.allergies.GetByID(ctx, id); err != nil {
		return err
	}
	return s.allergies.Deactivate(ctx, id)
}

func (s *Service) ActiveAllergies(ctx context.Context, patientID string) ([]*Allergy, error) {
	return s.allergies.ListActiveByPatient(ctx, patientID)
}

// -- Problems --

var validProblemStatuses = map[string]bool{
	ProblemActive: true, ProblemChronic: true, ProblemResolved: true,
}

func (s *Service) AddProblem(ctx context.Context, p *Problem) error {
	if p.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if p.Description == "" {
		return fmt.Errorf("description is required")
	}
	if p.Status == "" {
		p.Status = ProblemActive
	}
	if !validProblemStatuses[p.Status] {
		return fmt.Errorf("invalid problem status %q", p.Status)
	}
	return s.problems.Create(ctx, p)
}

func (s *Service) ResolveProblem(ctx context.Context, id uuid.UUID) (*Problem, error) {
	p, err := s.problems.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Status = ProblemResolved
	if err := s.problems.UpdateStatus(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ActiveProblems(ctx context.Context, patientID string) ([]*Problem, error) {
	return s.problems.ListActiveByPatient(ctx, patientID)
}

// ActiveCounts batches the chart tallies for one patient.
func (s *Service) ActiveCounts(ctx context.Context, patientID string) (ChartCounts, error) {
	return s.counts.ActiveCounts(ctx, patientID)
}
