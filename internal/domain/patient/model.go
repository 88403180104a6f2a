package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient statuses.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusDeceased = "DECEASED"
)

// Visit statuses.
const (
	VisitScheduled = "SCHEDULED"
	VisitCompleted = "COMPLETED"
	VisitCancelled = "CANCELLED"
	VisitNoShow    = "NO_SHOW"
)

// Patient maps to the patient table. PatientID is the human-facing business
// identifier carried by every chart record; ID is the row key.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   string     `db:"patient_id" json:"patient_id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string    `db:"gender" json:"gender,omitempty"`
	BloodGroup  string     `db:"blood_group" json:"blood_group"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// FullName joins the name parts for display surfaces.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Visit maps to the visit table.
type Visit struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      string    `db:"patient_id" json:"patient_id"`
	PractitionerID string    `db:"practitioner_id" json:"practitioner_id"`
	VisitDate      time.Time `db:"visit_date" json:"visit_date"`
	Status         string    `db:"status" json:"status"`
	Reason         *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Display is the batch-loaded projection shown on dashboard rows.
type Display struct {
	Name       string `json:"name"`
	BloodGroup string `json:"blood_group"`
}

// VisitSummary is the last-visit projection the risk dashboard reads.
type VisitSummary struct {
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
	TotalVisits     int        `json:"total_visits"`
}
