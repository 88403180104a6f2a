package intelligence

import "strings"

// crossClassAllergy maps an allergy substance class to the set of drugs it
// flags. A recorded allergy whose substance mentions the class key marks
// every member drug as contraindicated even when the names share no
// substring (penicillin allergy flags amoxicillin).
var crossClassAllergy = map[string]map[string]bool{
	"penicillin": {
		"amoxicillin": true, "ampicillin": true, "amoxicillin/clavulanate": true,
		"piperacillin": true, "flucloxacillin": true, "dicloxacillin": true,
		"phenoxymethylpenicillin": true, "benzylpenicillin": true,
	},
	"sulfa": {
		"sulfamethoxazole": true, "sulfadiazine": true, "sulfasalazine": true,
		"trimethoprim/sulfamethoxazole": true, "co-trimoxazole": true,
	},
	"cephalosporin": {
		"cefalexin": true, "cefuroxime": true, "ceftriaxone": true,
		"cefotaxime": true, "ceftazidime": true, "cefixime": true,
	},
	"codeine": {
		"morphine": true, "tramadol": true, "oxycodone": true,
		"hydrocodone": true, "fentanyl": true, "buprenorphine": true,
	},
}

// Contraindicated reports whether prescribing the drug conflicts with a
// patient allergy to the given substance. Matching is two-stage: a
// bidirectional case-insensitive substring match between the two names, then
// the cross-class allergy map. Inputs are normalized here so callers may pass
// raw names.
func Contraindicated(drug, substance string) bool {
	normDrug := Normalize(drug)
	normSubstance := Normalize(substance)
	if normDrug == "" || normSubstance == "" {
		return false
	}
	if strings.Contains(normDrug, normSubstance) || strings.Contains(normSubstance, normDrug) {
		return true
	}
	for class, members := range crossClassAllergy {
		if strings.Contains(normSubstance, class) && members[normDrug] {
			return true
		}
	}
	return false
}
