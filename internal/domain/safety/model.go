package safety

import (
	"time"

	"github.com/clinicore/clinicore/internal/intelligence"
)

// CheckResult is the verdict for one candidate drug against a patient's
// active medications and allergies.
type CheckResult struct {
	DrugName                 string                      `json:"drug_name"`
	Interactions             []*intelligence.Interaction `json:"interactions"`
	AllergyContraindications []string                    `json:"allergy_contraindications"`
	Safe                     bool                        `json:"safe"`
	CheckedAt                time.Time                   `json:"checked_at"`
}

// SummaryResult is the patient-wide read-only interaction report: every
// pairwise hit across active medications plus every medication-allergy
// conflict. Computing it never creates alerts.
type SummaryResult struct {
	PatientID                string                      `json:"patient_id"`
	Interactions             []*intelligence.Interaction `json:"interactions"`
	AllergyContraindications []string                    `json:"allergy_contraindications"`
	Safe                     bool                        `json:"safe"`
	CheckedAt                time.Time                   `json:"checked_at"`
}
