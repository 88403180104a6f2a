package intelligence

import "strings"

// Interaction severities. MAJOR and CONTRAINDICATED trigger a critical
// clinical alert.
const (
	SeverityModerate        = "MODERATE"
	SeverityMajor           = "MAJOR"
	SeverityContraindicated = "CONTRAINDICATED"
)

// SeverityTriggersAlert reports whether an interaction of the given severity
// warrants a critical clinical alert.
func SeverityTriggersAlert(severity string) bool {
	return severity == SeverityMajor || severity == SeverityContraindicated
}

// Interaction is one curated drug-pair interaction record. The pair is
// unordered: DrugA/DrugB reflect curation order only.
type Interaction struct {
	DrugA          string `json:"drug_a"`
	DrugB          string `json:"drug_b"`
	Severity       string `json:"severity"`
	Mechanism      string `json:"mechanism"`
	ClinicalEffect string `json:"clinical_effect"`
	Recommendation string `json:"recommendation"`
}

// InteractionKB is a static curated drug-interaction knowledge base, built
// once at startup and read-only thereafter, so concurrent readers need no
// locking. Pairs are indexed under a canonical sorted key, making lookups
// order-independent. No partial or fuzzy name matching is performed; callers
// must normalize drug names first.
type InteractionKB struct {
	byPair map[string]*Interaction
}

// Normalize lowercases and trims a drug or substance name. Every knowledge
// base and resolver entry point expects pre-normalized input.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// pairKey builds the canonical key: lexicographically lower name first.
func pairKey(a, b string) string {
	if a <= b {
		return a + "|" + b
	}
	return b + "|" + a
}

// Lookup returns the interaction between two normalized drug names, or nil.
// Argument order never matters.
func (kb *InteractionKB) Lookup(drugA, drugB string) *Interaction {
	return kb.byPair[pairKey(Normalize(drugA), Normalize(drugB))]
}

// FindAllInvolving returns every record in which the normalized drug
// participates. A table scan is fine at this entry count.
func (kb *InteractionKB) FindAllInvolving(drug string) []*Interaction {
	norm := Normalize(drug)
	var out []*Interaction
	for key, rec := range kb.byPair {
		if strings.HasPrefix(key, norm+"|") || strings.HasSuffix(key, "|"+norm) {
			out = append(out, rec)
		}
	}
	return out
}

// Size returns the number of curated entries.
func (kb *InteractionKB) Size() int {
	return len(kb.byPair)
}

// NewInteractionKB builds the curated knowledge base. Entries cover
// clinically significant pairs across anticoagulants, cardiac drugs, CNS
// drugs, diabetes medications, antibiotics, respiratory medications, NSAIDs,
// and common OTC risks.
func NewInteractionKB() *InteractionKB {
	kb := &InteractionKB{byPair: make(map[string]*Interaction)}

	add := func(a, b, severity, mechanism, effect, recommendation string) {
		kb.byPair[pairKey(a, b)] = &Interaction{
			DrugA: a, DrugB: b, Severity: severity,
			Mechanism: mechanism, ClinicalEffect: effect, Recommendation: recommendation,
		}
	}

	// Anticoagulants
	add("warfarin", "ibuprofen", SeverityMajor,
		"NSAID inhibits platelet aggregation and increases gastric bleeding risk; warfarin potentiated",
		"Significantly increased risk of serious bleeding",
		"Avoid combination; use paracetamol (acetaminophen) for analgesia if possible")
	add("warfarin", "naproxen", SeverityMajor,
		"NSAID inhibits platelet aggregation; warfarin anticoagulant effect potentiated",
		"Increased risk of GI and intracranial bleeding",
		"Avoid combination; monitor INR closely if unavoidable")
	add("warfarin", "aspirin", SeverityMajor,
		"Aspirin inhibits platelet aggregation and displaces warfarin from plasma proteins",
		"Significantly increased bleeding risk",
		"Use low-dose aspirin only when benefit clearly outweighs risk; monitor INR")
	add("warfarin", "clopidogrel", SeverityMajor,
		"Dual antiplatelet + anticoagulant combination",
		"Very high risk of major bleeding events",
		"Triple therapy (warfarin + aspirin + clopidogrel) requires specialist oversight")
	add("warfarin", "amiodarone", SeverityMajor,
		"Amiodarone inhibits CYP2C9 and CYP3A4, substantially increasing warfarin exposure",
		"INR can double or triple within days; severe bleeding risk",
		"Reduce warfarin dose by 30-50% and monitor INR twice weekly when starting amiodarone")
	add("warfarin", "fluconazole", SeverityMajor,
		"Fluconazole strongly inhibits CYP2C9 metabolism of warfarin",
		"INR markedly elevated; major bleeding risk",
		"Reduce warfarin dose; monitor INR closely during and after course")
	add("warfarin", "metronidazole", SeverityMajor,
		"Metronidazole inhibits CYP2C9, reducing warfarin clearance",
		"INR elevation and bleeding risk",
		"Monitor INR during metronidazole course; consider dose reduction")

	// Cardiac drugs
	add("digoxin", "amiodarone", SeverityMajor,
		"Amiodarone inhibits P-glycoprotein and reduces renal clearance of digoxin",
		"Digoxin toxicity: bradycardia, heart block, nausea, visual disturbances",
		"Reduce digoxin dose by 50%; monitor serum digoxin levels and ECG")
	add("digoxin", "verapamil", SeverityMajor,
		"Verapamil inhibits P-glycoprotein-mediated elimination of digoxin",
		"Digoxin toxicity: bradycardia, AV block",
		"Reduce digoxin dose; monitor serum levels and heart rate")
	add("digoxin", "spironolactone", SeverityModerate,
		"Spironolactone may alter digoxin renal clearance and interfere with assay",
		"Risk of digoxin toxicity; spuriously elevated digoxin levels in some assays",
		"Monitor digoxin levels using assay unaffected by spironolactone")
	add("lisinopril", "spironolactone", SeverityMajor,
		"Both drugs reduce potassium excretion by different mechanisms",
		"Severe hyperkalaemia, potentially fatal cardiac arrhythmias",
		"Avoid unless heart failure protocol with careful K+ monitoring; start low dose")
	add("ramipril", "spironolactone", SeverityMajor,
		"ACE inhibitor + K-sparing diuretic → additive hyperkalaemia",
		"Life-threatening hyperkalaemia",
		"Monitor K+ closely; avoid combination unless clinically necessary")
	add("enalapril", "potassium", SeverityMajor,
		"ACE inhibitor reduces aldosterone, increasing K+ retention",
		"Hyperkalaemia risk, especially with K+ supplements",
		"Monitor serum K+; avoid routine K+ supplementation")
	add("atenolol", "verapamil", SeverityMajor,
		"Additive negative chronotropic and dromotropic effects",
		"Severe bradycardia, AV block, or asystole",
		"Avoid combination; if necessary, use with telemetry monitoring")
	add("amlodipine", "simvastatin", SeverityModerate,
		"Amlodipine inhibits CYP3A4, increasing simvastatin exposure",
		"Increased risk of myopathy and rhabdomyolysis",
		"Do not exceed simvastatin 20mg daily; consider alternative statin")

	// CNS / psychiatry
	add("ssri", "maoi", SeverityContraindicated,
		"Both drugs increase serotonergic neurotransmission by different mechanisms",
		"Serotonin syndrome: hyperthermia, rigidity, myoclonus, autonomic instability",
		"Contraindicated: allow 14-day washout after stopping MAOI before starting SSRI")
	add("fluoxetine", "phenelzine", SeverityContraindicated,
		"Fluoxetine (SSRI) + phenelzine (MAOI) → serotonin syndrome",
		"Life-threatening serotonin syndrome",
		"Contraindicated; 5-week washout after fluoxetine due to long half-life")
	add("sertraline", "tramadol", SeverityMajor,
		"Sertraline (SSRI) reduces CYP2D6 metabolism of tramadol; additive serotonergic effect",
		"Serotonin syndrome; seizures",
		"Avoid combination or use lowest effective doses with close monitoring")
	add("fluoxetine", "tramadol", SeverityMajor,
		"Fluoxetine inhibits CYP2D6, reducing tramadol conversion to active metabolite and increasing parent drug",
		"Serotonin syndrome risk; paradoxical reduced analgesia",
		"Avoid; use alternative analgesic")
	add("lithium", "ibuprofen", SeverityMajor,
		"NSAIDs reduce renal clearance of lithium",
		"Lithium toxicity: tremor, confusion, renal damage",
		"Avoid NSAIDs with lithium; use paracetamol (acetaminophen) instead")
	add("lithium", "naproxen", SeverityMajor,
		"NSAID reduces renal prostaglandin synthesis, decreasing lithium excretion",
		"Lithium toxicity",
		"Avoid; monitor lithium levels if NSAID unavoidable")
	add("clozapine", "ciprofloxacin", SeverityMajor,
		"Ciprofloxacin inhibits CYP1A2, the primary metabolic pathway for clozapine",
		"Clozapine toxicity: sedation, seizures, agranulocytosis risk",
		"Avoid or reduce clozapine dose by 50%; monitor closely")

	// Diabetes
	add("metformin", "contrast", SeverityMajor,
		"Iodinated contrast media cause transient renal impairment, reducing metformin clearance",
		"Lactic acidosis — potentially fatal",
		"Withhold metformin 48h before and after IV contrast; ensure renal function normal before restarting")
	add("metformin", "alcohol", SeverityMajor,
		"Alcohol potentiates metformin inhibition of hepatic gluconeogenesis",
		"Increased risk of lactic acidosis",
		"Avoid excessive alcohol use with metformin")
	add("glibenclamide", "fluconazole", SeverityMajor,
		"Fluconazole inhibits CYP2C9 metabolism of glibenclamide (glyburide)",
		"Severe prolonged hypoglycaemia",
		"Avoid combination; monitor blood glucose closely if unavoidable")

	// Antibiotics
	add("ciprofloxacin", "antacids", SeverityModerate,
		"Divalent cations (Al, Mg, Ca) chelate ciprofloxacin in gut lumen",
		"Reduced ciprofloxacin absorption by up to 85%; treatment failure",
		"Separate administration by at least 2 hours (ciprofloxacin first)")
	add("metronidazole", "alcohol", SeverityMajor,
		"Metronidazole inhibits aldehyde dehydrogenase (disulfiram-like reaction)",
		"Flushing, tachycardia, nausea, vomiting (disulfiram reaction)",
		"Avoid alcohol during treatment and 48h after completion")
	add("trimethoprim", "methotrexate", SeverityMajor,
		"Additive antifolate effect; trimethoprim inhibits dihydrofolate reductase",
		"Severe myelosuppression, megaloblastic anaemia",
		"Avoid combination or use with folinic acid supplementation under specialist guidance")
	add("doxycycline", "antacids", SeverityModerate,
		"Divalent cations chelate tetracyclines in gut",
		"Reduced absorption of doxycycline; treatment failure",
		"Take doxycycline 2 hours before or 6 hours after antacids")
	add("rifampicin", "warfarin", SeverityMajor,
		"Rifampicin is a potent CYP inducer; dramatically increases warfarin metabolism",
		"Markedly reduced anticoagulant effect; thrombosis risk",
		"Monitor INR very frequently; may need to double or triple warfarin dose")
	add("rifampicin", "oral contraceptive", SeverityMajor,
		"Rifampicin induces CYP3A4 and UGT enzymes, reducing oestrogen and progestogen levels",
		"Contraceptive failure; unintended pregnancy",
		"Use additional non-hormonal contraception during and 4 weeks after rifampicin")

	// Respiratory
	add("theophylline", "ciprofloxacin", SeverityMajor,
		"Ciprofloxacin inhibits CYP1A2 — the primary metabolic pathway for theophylline",
		"Theophylline toxicity: tachycardia, seizures, hypokalaemia",
		"Reduce theophylline dose by 50% when starting ciprofloxacin; monitor levels")
	add("theophylline", "erythromycin", SeverityMajor,
		"Erythromycin inhibits CYP3A4 and CYP1A2, increasing theophylline levels",
		"Theophylline toxicity",
		"Use alternative antibiotic if possible; monitor levels closely")

	// NSAIDs + ACE inhibitors / ARBs
	add("ibuprofen", "lisinopril", SeverityModerate,
		"NSAIDs reduce renal prostaglandin synthesis; impair ACE inhibitor renal effects",
		"Reduced antihypertensive effect; risk of acute kidney injury",
		"Avoid regular NSAID use; monitor renal function and blood pressure")
	add("ibuprofen", "ramipril", SeverityModerate,
		"NSAID reduces ACE inhibitor efficacy and increases renal injury risk",
		"Blood pressure elevation; acute kidney injury in susceptible patients",
		"Use paracetamol instead; monitor renal function if unavoidable")
	add("naproxen", "lisinopril", SeverityModerate,
		"Same mechanism as ibuprofen/ACE inhibitor interaction",
		"Reduced antihypertensive efficacy; renal impairment",
		"Avoid; prefer alternative analgesic")

	// Antiplatelet / anticoagulant + NSAID
	add("aspirin", "methotrexate", SeverityMajor,
		"Aspirin (NSAID) reduces renal tubular secretion of methotrexate",
		"Methotrexate toxicity: severe myelosuppression, mucositis",
		"Avoid combination; if necessary, use with leucovorin rescue and frequent monitoring")
	add("clopidogrel", "omeprazole", SeverityModerate,
		"Omeprazole inhibits CYP2C19, reducing conversion of clopidogrel to active metabolite",
		"Reduced antiplatelet effect; possible increased cardiovascular events",
		"Use pantoprazole (lower CYP2C19 inhibition) as alternative PPI")

	// Additional clinically significant pairs
	add("simvastatin", "erythromycin", SeverityMajor,
		"Erythromycin inhibits CYP3A4-mediated statin metabolism",
		"Severe myopathy and rhabdomyolysis",
		"Withhold simvastatin during course of erythromycin; use azithromycin instead")
	add("sildenafil", "nitrate", SeverityContraindicated,
		"Both drugs lower blood pressure via different mechanisms (cGMP pathway)",
		"Life-threatening hypotension",
		"Contraindicated; do not use together")
	add("ssri", "tramadol", SeverityMajor,
		"Additive serotonergic effect; SSRI inhibits CYP2D6 metabolism of tramadol",
		"Serotonin syndrome; seizures",
		"Avoid; use non-serotonergic analgesic")
	add("tacrolimus", "fluconazole", SeverityMajor,
		"Fluconazole inhibits CYP3A4 and CYP2C19; tacrolimus levels increase greatly",
		"Tacrolimus toxicity: nephrotoxicity, neurotoxicity, QT prolongation",
		"Reduce tacrolimus dose by 50%; monitor levels closely")

	return kb
}
