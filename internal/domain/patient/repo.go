package patient

import "context"

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByPatientID(ctx context.Context, patientID string) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	// ActivePatientIDs resolves the "all active patients" ranking scope.
	ActivePatientIDs(ctx context.Context) ([]string, error)
	// PatientIDsForPractitioner resolves the practitioner-scoped ranking
	// scope: patients with at least one visit under the practitioner.
	PatientIDsForPractitioner(ctx context.Context, practitionerID string) ([]string, error)
	// DisplayByIDs batch-loads name and blood group, avoiding per-row lookups.
	DisplayByIDs(ctx context.Context, patientIDs []string) (map[string]Display, error)
}

type VisitRepository interface {
	Create(ctx context.Context, v *Visit) error
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Visit, int, error)
	// Summary returns the last completed visit date and total visit count.
	Summary(ctx context.Context, patientID string) (VisitSummary, error)
}
