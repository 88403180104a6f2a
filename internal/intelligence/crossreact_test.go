package intelligence

import "testing"

func TestContraindicated_DirectSubstring(t *testing.T) {
	if !Contraindicated("Aspirin", "aspirin") {
		t.Error("exact match expected to flag")
	}
	if !Contraindicated("amoxicillin/clavulanate", "amoxicillin") {
		t.Error("substance contained in drug name expected to flag")
	}
	if !Contraindicated("codeine", "codeine phosphate") {
		t.Error("drug contained in substance name expected to flag")
	}
}

func TestContraindicated_CrossClass(t *testing.T) {
	cases := []struct {
		drug      string
		substance string
	}{
		{"amoxicillin", "Penicillin"},
		{"flucloxacillin", "penicillin allergy"},
		{"sulfamethoxazole", "sulfa drugs"},
		{"ceftriaxone", "cephalosporin"},
		{"morphine", "codeine"},
		{"tramadol", "Codeine"},
	}
	for _, c := range cases {
		if !Contraindicated(c.drug, c.substance) {
			t.Errorf("expected %s to be contraindicated for %s allergy", c.drug, c.substance)
		}
	}
}

func TestContraindicated_NoMatch(t *testing.T) {
	if Contraindicated("paracetamol", "penicillin") {
		t.Error("paracetamol is not a penicillin-class drug")
	}
	if Contraindicated("amoxicillin", "latex") {
		t.Error("unrelated substance must not flag")
	}
	if Contraindicated("", "penicillin") || Contraindicated("amoxicillin", "") {
		t.Error("blank input must not flag")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  WarFarin "); got != "warfarin" {
		t.Errorf("expected warfarin, got %q", got)
	}
}
