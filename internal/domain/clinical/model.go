package clinical

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/intelligence"
)

// Medication statuses.
const (
	MedicationActive       = "ACTIVE"
	MedicationDiscontinued = "DISCONTINUED"
	MedicationCompleted    = "COMPLETED"
)

// Allergy severities.
const (
	AllergyMild            = "MILD"
	AllergyModerate        = "MODERATE"
	AllergySevere          = "SEVERE"
	AllergyLifeThreatening = "LIFE_THREATENING"
)

// Problem statuses.
const (
	ProblemActive   = "ACTIVE"
	ProblemChronic  = "CHRONIC"
	ProblemResolved = "RESOLVED"
)

// Vitals maps to the patient_vitals table. All measurements are optional but
// at least one must be present on record.
type Vitals struct {
	ID               uuid.UUID `db:"id" json:"id"`
	PatientID        string    `db:"patient_id" json:"patient_id"`
	SystolicBP       *int      `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP      *int      `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	HeartRate        *int      `db:"heart_rate" json:"heart_rate,omitempty"`
	Temperature      *float64  `db:"temperature" json:"temperature,omitempty"`
	OxygenSaturation *int      `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	RespiratoryRate  *int      `db:"respiratory_rate" json:"respiratory_rate,omitempty"`
	RecordedBy       string    `db:"recorded_by" json:"recorded_by"`
	RecordedAt       time.Time `db:"recorded_at" json:"recorded_at"`
}

// Snapshot projects the scoring-relevant fields for the NEWS2 calculator.
func (v *Vitals) Snapshot() *intelligence.VitalsSnapshot {
	if v == nil {
		return nil
	}
	return &intelligence.VitalsSnapshot{
		RespiratoryRate:  v.RespiratoryRate,
		OxygenSaturation: v.OxygenSaturation,
		SystolicBP:       v.SystolicBP,
		HeartRate:        v.HeartRate,
		Temperature:      v.Temperature,
	}
}

// Medication maps to the patient_medication table.
type Medication struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    string     `db:"patient_id" json:"patient_id"`
	Name         string     `db:"medication_name" json:"medication_name"`
	GenericName  *string    `db:"generic_name" json:"generic_name,omitempty"`
	Dosage       string     `db:"dosage" json:"dosage"`
	Frequency    string     `db:"frequency" json:"frequency"`
	PrescribedBy string     `db:"prescribed_by" json:"prescribed_by"`
	Status       string     `db:"status" json:"status"`
	StartDate    time.Time  `db:"start_date" json:"start_date"`
	EndDate      *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Allergy maps to the patient_allergy table.
type Allergy struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	Substance string    `db:"substance" json:"substance"`
	Severity  string    `db:"severity" json:"severity"`
	Reaction  string    `db:"reaction" json:"reaction"`
	Active    bool      `db:"active" json:"active"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Problem maps to the patient_problem table.
type Problem struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   string    `db:"patient_id" json:"patient_id"`
	Description string    `db:"description" json:"description"`
	Severity    *string   `db:"severity" json:"severity,omitempty"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ChartCounts is the per-patient active record tally consumed by the risk
// dashboard.
type ChartCounts struct {
	Medications int `json:"medications"`
	Problems    int `json:"problems"`
	Allergies   int `json:"allergies"`
}
