package intelligence

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Risk levels produced by the NEWS2 calculator.
const (
	RiskLow       = "LOW"
	RiskLowMedium = "LOW_MEDIUM"
	RiskMedium    = "MEDIUM"
	RiskHigh      = "HIGH"
	RiskNoData    = "NO_DATA"
)

// VitalsSnapshot is the read-only input to a scoring call. Every field is
// independently optional; the snapshot is owned by the caller and never
// mutated here.
type VitalsSnapshot struct {
	RespiratoryRate  *int
	OxygenSaturation *int
	SystolicBP       *int
	HeartRate        *int
	Temperature      *float64
}

// ComponentScore is the scored contribution of a single NEWS2 parameter.
// Defaulted is true when the vitals field was absent and a safe score of 0 was
// assumed, or for the fixed consciousness contribution.
type ComponentScore struct {
	Parameter string  `json:"parameter"`
	Value     *string `json:"value,omitempty"`
	Score     int     `json:"score"`
	Unit      *string `json:"unit,omitempty"`
	Defaulted bool    `json:"defaulted"`
}

// Result is a computed NEWS2 early-warning score. When RiskLevel is NO_DATA
// all numeric fields are nil and Message explains why nothing was computed.
// Results are value objects: recomputed on every request, never cached.
type Result struct {
	TotalScore       *int             `json:"total_score,omitempty"`
	RiskLevel        string           `json:"risk_level"`
	RiskColour       string           `json:"risk_colour,omitempty"`
	Recommendation   string           `json:"recommendation,omitempty"`
	Components       []ComponentScore `json:"components"`
	BasedOnVitalsID  *uuid.UUID       `json:"based_on_vitals_id,omitempty"`
	ComputedAt       time.Time        `json:"computed_at"`
	Message          string           `json:"message,omitempty"`
}

// Calculator is a stateless NHS NEWS2 (National Early Warning Score 2)
// implementation. Scoring tables follow the Royal College of Physicians NEWS2
// clinical guide (2017). The consciousness parameter is fixed at ALERT
// (score 0) because no AVPU field is recorded.
type Calculator struct{}

func NewCalculator() *Calculator { return &Calculator{} }

// Compute scores the given snapshot. A nil snapshot yields a NO_DATA result.
// vitalsID identifies the underlying vitals record, if any.
func (Calculator) Compute(snapshot *VitalsSnapshot, vitalsID *uuid.UUID) Result {
	if snapshot == nil {
		return Result{
			RiskLevel:  RiskNoData,
			Components: []ComponentScore{},
			ComputedAt: time.Now().UTC(),
			Message:    "No vitals on record",
		}
	}

	components := make([]ComponentScore, 0, 6)
	total := 0
	anyThree := false

	score := func(param string, unit string, value *string, s int, defaulted bool) {
		u := unit
		comp := ComponentScore{Parameter: param, Value: value, Score: s, Defaulted: defaulted}
		if unit != "" {
			comp.Unit = &u
		}
		components = append(components, comp)
		if !defaulted {
			total += s
			if s == 3 {
				anyThree = true
			}
		}
	}

	if rr := snapshot.RespiratoryRate; rr != nil {
		score("RESPIRATORY_RATE", "breaths/min", intText(*rr), scoreRespiratoryRate(*rr), false)
	} else {
		score("RESPIRATORY_RATE", "breaths/min", nil, 0, true)
	}

	if spo2 := snapshot.OxygenSaturation; spo2 != nil {
		score("SPO2", "%", intText(*spo2), scoreOxygenSaturation(*spo2), false)
	} else {
		score("SPO2", "%", nil, 0, true)
	}

	if sbp := snapshot.SystolicBP; sbp != nil {
		score("SYSTOLIC_BP", "mmHg", intText(*sbp), scoreSystolicBP(*sbp), false)
	} else {
		score("SYSTOLIC_BP", "mmHg", nil, 0, true)
	}

	if hr := snapshot.HeartRate; hr != nil {
		score("HEART_RATE", "bpm", intText(*hr), scoreHeartRate(*hr), false)
	} else {
		score("HEART_RATE", "bpm", nil, 0, true)
	}

	if temp := snapshot.Temperature; temp != nil {
		score("TEMPERATURE", "°C", tempText(*temp), scoreTemperature(*temp), false)
	} else {
		score("TEMPERATURE", "°C", nil, 0, true)
	}

	// Consciousness is always ALERT (no AVPU input modelled).
	alert := "ALERT"
	components = append(components, ComponentScore{
		Parameter: "CONSCIOUSNESS", Value: &alert, Score: 0, Defaulted: true,
	})

	riskLevel := classifyRisk(total, anyThree)
	t := total
	return Result{
		TotalScore:      &t,
		RiskLevel:       riskLevel,
		RiskColour:      riskColour(riskLevel),
		Recommendation:  recommendation(riskLevel),
		Components:      components,
		BasedOnVitalsID: vitalsID,
		ComputedAt:      time.Now().UTC(),
	}
}

func intText(v int) *string {
	s := strconv.Itoa(v)
	return &s
}

func tempText(v float64) *string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return &s
}

// NHS scoring tables

func scoreRespiratoryRate(rr int) int {
	switch {
	case rr <= 8:
		return 3
	case rr <= 11:
		return 1
	case rr <= 20:
		return 0
	case rr <= 24:
		return 2
	default: // >= 25
		return 3
	}
}

func scoreOxygenSaturation(spo2 int) int {
	switch {
	case spo2 <= 91:
		return 3
	case spo2 <= 93:
		return 2
	case spo2 <= 95:
		return 1
	default: // >= 96
		return 0
	}
}

func scoreSystolicBP(sbp int) int {
	switch {
	case sbp <= 90:
		return 3
	case sbp <= 100:
		return 2
	case sbp <= 110:
		return 1
	case sbp <= 219:
		return 0
	default: // >= 220
		return 3
	}
}

func scoreHeartRate(hr int) int {
	switch {
	case hr <= 40:
		return 3
	case hr <= 50:
		return 1
	case hr <= 90:
		return 0
	case hr <= 110:
		return 1
	case hr <= 130:
		return 2
	default: // >= 131
		return 3
	}
}

func scoreTemperature(t float64) int {
	switch {
	case t <= 35.0:
		return 3
	case t <= 36.0:
		return 1
	case t <= 38.0:
		return 0
	case t <= 39.0:
		return 1
	default: // >= 39.1
		return 2
	}
}

// classifyRisk buckets the aggregate score. A single parameter scoring 3
// escalates a low aggregate to MEDIUM.
func classifyRisk(total int, anyThree bool) string {
	switch {
	case total == 0:
		return RiskLow
	case total <= 4:
		if anyThree {
			return RiskMedium
		}
		return RiskLowMedium
	case total <= 6:
		return RiskMedium
	default: // >= 7
		return RiskHigh
	}
}

func riskColour(riskLevel string) string {
	switch riskLevel {
	case RiskLow:
		return "green"
	case RiskLowMedium:
		return "yellow"
	case RiskMedium:
		return "orange"
	case RiskHigh:
		return "red"
	default:
		return ""
	}
}

func recommendation(riskLevel string) string {
	switch riskLevel {
	case RiskLow:
		return "Routine ward monitoring"
	case RiskLowMedium:
		return "Monitoring every 4–6 hours"
	case RiskMedium:
		return "Urgent review within 1 hour"
	case RiskHigh:
		return "Emergency clinical assessment required immediately"
	default:
		return ""
	}
}
