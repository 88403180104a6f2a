package clinical

import (
	"context"

	"github.com/google/uuid"
)

type VitalsRepository interface {
	Create(ctx context.Context, v *Vitals) error
	// LatestByPatient returns the most recently recorded vitals, or nil when
	// the patient has none.
	LatestByPatient(ctx context.Context, patientID string) (*Vitals, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Vitals, int, error)
}

type MedicationRepository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	UpdateStatus(ctx context.Context, m *Medication) error
	ListActiveByPatient(ctx context.Context, patientID string) ([]*Medication, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Medication, int, error)
}

type AllergyRepository interface {
	Create(ctx context.Context, a *Allergy) error
	GetByID(ctx context.Context, id uuid.UUID) (*Allergy, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	ListActiveByPatient(ctx context.Context, patientID string) ([]*Allergy, error)
}

type ProblemRepository interface {
	Create(ctx context.Context, p *Problem) error
	GetByID(ctx context.Context, id uuid.UUID) (*Problem, error)
	UpdateStatus(ctx context.Context, p *Problem) error
	ListActiveByPatient(ctx context.Context, patientID string) ([]*Problem, error)
}

// ChartCountsRepository batches the active med/problem/allergy tallies the
// risk dashboard reads per patient.
type ChartCountsRepository interface {
	ActiveCounts(ctx context.Context, patientID string) (ChartCounts, error)
}
