package alert

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows alert list queries. Nil fields mean "any". When
// PractitionerID is set the global feed is restricted to patients with a
// visit under that practitioner.
type ListFilter struct {
	Status         *string
	Severity       *string
	PractitionerID *string
}

type Repository interface {
	Create(ctx context.Context, a *ClinicalAlert) error
	GetByID(ctx context.Context, id uuid.UUID) (*ClinicalAlert, error)
	// UpdateStatus persists the lifecycle fields (status, acknowledge and
	// dismiss metadata) of an existing alert.
	UpdateStatus(ctx context.Context, a *ClinicalAlert) error
	// FindActiveByPatientAndType is the dedup probe for recurring types.
	FindActiveByPatientAndType(ctx context.Context, patientID, alertType string) (*ClinicalAlert, error)
	ListByPatient(ctx context.Context, patientID string, f ListFilter, limit, offset int) ([]*ClinicalAlert, int, error)
	ListGlobal(ctx context.Context, f ListFilter, limit, offset int) ([]*ClinicalAlert, int, error)
	// CountsByPatient returns active critical/warning tallies keyed by
	// patient id, optionally scoped to a practitioner's patients.
	CountsByPatient(ctx context.Context, practitionerID *string) (map[string]Counts, error)
	Stats(ctx context.Context) (*Stats, error)
}
