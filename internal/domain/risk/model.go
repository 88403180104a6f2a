package risk

import "time"

// RankedPatient is one row of the risk dashboard: the patient's latest NEWS2
// result plus alert counts and chart context, ordered most-at-risk first.
type RankedPatient struct {
	PatientID         string     `json:"patient_id"`
	Name              string     `json:"name"`
	BloodGroup        string     `json:"blood_group"`
	News2Score        *int       `json:"news2_score,omitempty"`
	RiskLevel         string     `json:"risk_level"`
	RiskColour        string     `json:"risk_colour,omitempty"`
	CriticalAlerts    int        `json:"critical_alerts"`
	WarningAlerts     int        `json:"warning_alerts"`
	ActiveMedications int        `json:"active_medications"`
	ActiveProblems    int        `json:"active_problems"`
	ActiveAllergies   int        `json:"active_allergies"`
	LastVitalsAt      *time.Time `json:"last_vitals_at,omitempty"`
	LastVisitAt       *time.Time `json:"last_visit_at,omitempty"`
	TotalVisits       int        `json:"total_visits"`
}

// DashboardStats is the ward-level summary shown above the ranking.
type DashboardStats struct {
	ActivePatients       int            `json:"active_patients"`
	ActiveAlerts         int            `json:"active_alerts"`
	CriticalAlerts       int            `json:"critical_alerts"`
	WarningAlerts        int            `json:"warning_alerts"`
	AlertsByType         map[string]int `json:"alerts_by_type"`
	PatientsWithCritical int            `json:"patients_with_critical"`
	PatientsOnNews2Watch int            `json:"patients_on_news2_watch"`
	GeneratedAt          time.Time      `json:"generated_at"`
}
