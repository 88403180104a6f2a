package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Alert types.
const (
	TypeLabCritical             = "LAB_CRITICAL"
	TypeLabAbnormal             = "LAB_ABNORMAL"
	TypeNews2High               = "NEWS2_HIGH"
	TypeNews2Critical           = "NEWS2_CRITICAL"
	TypeDrugInteraction         = "DRUG_INTERACTION"
	TypeAllergyContraindication = "ALLERGY_CONTRAINDICATION"
)

// Alert severities.
const (
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// Alert statuses. ACKNOWLEDGED and DISMISSED are terminal.
const (
	StatusActive       = "ACTIVE"
	StatusAcknowledged = "ACKNOWLEDGED"
	StatusDismissed    = "DISMISSED"
)

// Lifecycle actions applied to an alert.
const (
	ActionAcknowledge = "ACKNOWLEDGE"
	ActionDismiss     = "DISMISS"
)

// AutoDismissReason is recorded when a recurring alert is superseded by a
// fresh trigger for the same patient and type.
const AutoDismissReason = "Auto-dismissed — replaced by updated score"

var validTypes = map[string]bool{
	TypeLabCritical: true, TypeLabAbnormal: true,
	TypeNews2High: true, TypeNews2Critical: true,
	TypeDrugInteraction: true, TypeAllergyContraindication: true,
}

var validSeverities = map[string]bool{
	SeverityWarning: true, SeverityCritical: true,
}

// recurringTypes holds the alert types that are deduplicated: at most one
// ACTIVE alert per (patient, type), older ones auto-dismissed on re-trigger.
var recurringTypes = map[string]bool{
	TypeNews2High:     true,
	TypeNews2Critical: true,
}

// TypeIsRecurring reports whether the alert type participates in
// supersession dedup.
func TypeIsRecurring(alertType string) bool {
	return recurringTypes[alertType]
}

// transitionTable maps each action to its target status and allowed source
// statuses. Terminal statuses appear in no source set, so no reverse
// transitions exist.
var transitionTable = map[string]struct {
	target  string
	sources map[string]bool
}{
	ActionAcknowledge: {StatusAcknowledged, map[string]bool{StatusActive: true}},
	ActionDismiss:     {StatusDismissed, map[string]bool{StatusActive: true}},
}

// Transition computes the status resulting from applying an action to an
// alert in the given status. The alert record itself is untouched; the caller
// persists the new status.
func Transition(status, action string) (string, error) {
	t, ok := transitionTable[action]
	if !ok {
		return "", fmt.Errorf("unknown alert action %q", action)
	}
	if !t.sources[status] {
		return "", fmt.Errorf("alert in status %s cannot be %s", status, strings.ToLower(t.target))
	}
	return t.target, nil
}

// ClinicalAlert maps to the clinical_alert table. PatientID is the business
// patient identifier, not a row id.
type ClinicalAlert struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      string     `db:"patient_id" json:"patient_id"`
	Type           string     `db:"alert_type" json:"alert_type"`
	Severity       string     `db:"severity" json:"severity"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	Source         string     `db:"source" json:"source"`
	TriggerValue   *string    `db:"trigger_value" json:"trigger_value,omitempty"`
	Status         string     `db:"status" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	AcknowledgedAt *time.Time `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	AcknowledgedBy *string    `db:"acknowledged_by" json:"acknowledged_by,omitempty"`
	DismissedAt    *time.Time `db:"dismissed_at" json:"dismissed_at,omitempty"`
	DismissReason  *string    `db:"dismiss_reason" json:"dismiss_reason,omitempty"`
}

// Counts is the per-patient active alert tally used by the risk dashboard.
type Counts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
}

// Stats is an aggregate snapshot of the alert store for dashboards.
type Stats struct {
	ActiveTotal              int            `json:"active_total"`
	ActiveCritical           int            `json:"active_critical"`
	ActiveWarning            int            `json:"active_warning"`
	ActiveByType             map[string]int `json:"active_by_type"`
	PatientsWithCritical     int            `json:"patients_with_critical"`
	PatientsWithActiveNews2  int            `json:"patients_with_active_news2"`
}
