package safety

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicore/clinicore/internal/domain/alert"
	"github.com/clinicore/clinicore/internal/domain/clinical"
	"github.com/clinicore/clinicore/internal/intelligence"
)

// ChartReader supplies the active chart records the evaluator reads.
// Satisfied by the clinical service.
type ChartReader interface {
	ActiveMedications(ctx context.Context, patientID string) ([]*clinical.Medication, error)
	ActiveAllergies(ctx context.Context, patientID string) ([]*clinical.Allergy, error)
}

// AlertCreator raises clinical alerts for unsafe verdicts. Satisfied by the
// alert service.
type AlertCreator interface {
	Create(ctx context.Context, a *alert.ClinicalAlert) error
}

const alertSource = "drug-safety"

type Service struct {
	kb     *intelligence.InteractionKB
	chart  ChartReader
	alerts AlertCreator
}

func NewService(kb *intelligence.InteractionKB, chart ChartReader, alerts AlertCreator) *Service {
	return &Service{kb: kb, chart: chart, alerts: alerts}
}

// CheckDrug evaluates a candidate drug against the patient's active
// medications and allergies. MAJOR or CONTRAINDICATED interactions, or any
// allergy hit, raise a CRITICAL alert; an unknown drug simply contributes no
// interaction.
func (s *Service) CheckDrug(ctx context.Context, patientID, drugName string) (*CheckResult, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	if intelligence.Normalize(drugName) == "" {
		return nil, fmt.Errorf("drug_name is required")
	}

	meds, err := s.chart.ActiveMedications(ctx, patientID)
	if err != nil {
		return nil, err
	}
	allergies, err := s.chart.ActiveAllergies(ctx, patientID)
	if err != nil {
		return nil, err
	}

	res := &CheckResult{
		DrugName:  drugName,
		CheckedAt: time.Now().UTC(),
	}
	for _, med := range meds {
		if hit := s.kb.Lookup(drugName, med.Name); hit != nil {
			res.Interactions = append(res.Interactions, hit)
		}
	}
	for _, a := range allergies {
		if intelligence.Contraindicated(drugName, a.Substance) {
			res.AllergyContraindications = append(res.AllergyContraindications,
				fmt.Sprintf("Allergy to %s (cross-reaction with %s)", a.Substance, drugName))
		}
	}
	res.Safe = len(res.Interactions) == 0 && len(res.AllergyContraindications) == 0

	if s.alertWorthy(res.Interactions, res.AllergyContraindications) {
		alertType := alert.TypeDrugInteraction
		if len(res.AllergyContraindications) > 0 {
			alertType = alert.TypeAllergyContraindication
		}
		trigger := drugName
		a := &alert.ClinicalAlert{
			PatientID:    patientID,
			Type:         alertType,
			Severity:     alert.SeverityCritical,
			Title:        "Drug Safety Alert: " + drugName,
			Description:  buildAlertDescription(drugName, res.Interactions, res.AllergyContraindications),
			Source:       alertSource,
			TriggerValue: &trigger,
		}
		if err := s.alerts.Create(ctx, a); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// InteractionSummary cross-checks every pair of active medications and every
// medication against every allergy. Read-only; duplicate pair hits collapse
// to one record, preserving first-seen order.
func (s *Service) InteractionSummary(ctx context.Context, patientID string) (*SummaryResult, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}

	meds, err := s.chart.ActiveMedications(ctx, patientID)
	if err != nil {
		return nil, err
	}
	allergies, err := s.chart.ActiveAllergies(ctx, patientID)
	if err != nil {
		return nil, err
	}

	res := &SummaryResult{
		PatientID: patientID,
		CheckedAt: time.Now().UTC(),
	}

	seen := make(map[*intelligence.Interaction]bool)
	for i := 0; i < len(meds); i++ {
		for j := i + 1; j < len(meds); j++ {
			hit := s.kb.Lookup(meds[i].Name, meds[j].Name)
			if hit == nil || seen[hit] {
				continue
			}
			seen[hit] = true
			res.Interactions = append(res.Interactions, hit)
		}
	}
	for _, med := range meds {
		for _, a := range allergies {
			if intelligence.Contraindicated(med.Name, a.Substance) {
				res.AllergyContraindications = append(res.AllergyContraindications,
					fmt.Sprintf("Patient allergic to %s — cross-reaction risk with %s", a.Substance, med.Name))
			}
		}
	}

	res.Safe = len(res.AllergyContraindications) == 0 && !s.alertWorthy(res.Interactions, nil)
	return res, nil
}

func (s *Service) alertWorthy(interactions []*intelligence.Interaction, allergyHits []string) bool {
	if len(allergyHits) > 0 {
		return true
	}
	for _, i := range interactions {
		if intelligence.SeverityTriggersAlert(i.Severity) {
			return true
		}
	}
	return false
}

func buildAlertDescription(drugName string, interactions []*intelligence.Interaction, allergyHits []string) string {
	desc := fmt.Sprintf("Drug safety check for %s: ", drugName)
	if len(interactions) > 0 {
		major := 0
		for _, i := range interactions {
			if intelligence.SeverityTriggersAlert(i.Severity) {
				major++
			}
		}
		desc += fmt.Sprintf("%d major/contraindicated interaction(s) detected. ", major)
	}
	if len(allergyHits) > 0 {
		desc += fmt.Sprintf("%d allergy contraindication(s) detected.", len(allergyHits))
	}
	return desc
}
