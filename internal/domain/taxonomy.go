package domain

// DefectCategory is one entry of the closed defect taxonomy the classifier
// is allowed to choose from.
type DefectCategory struct {
	Type     string
	Subtypes []string
}

// DefectTaxonomy is the fixed classification vocabulary. Order matters: it is
// the order the taxonomy is presented to the model.
var DefectTaxonomy = []DefectCategory{
	{Type: "solder_defect", Subtypes: []string{"solder void", "cold solder", "bridging", "insufficient solder"}},
	{Type: "dimensional", Subtypes: []string{"out of tolerance", "warpage", "misalignment"}},
	{Type: "contamination", Subtypes: []string{"foreign particle", "residue", "oxidation"}},
	{Type: "electrical", Subtypes: []string{"open circuit", "short circuit", "high resistance"}},
	{Type: "mechanical", Subtypes: []string{"bent pin", "crack", "delamination"}},
	{Type: "biocompatibility", Subtypes: []string{"cytotoxicity", "sensitization", "irritation"}},
	{Type: "packaging_delivery", Subtypes: []string{"damage in transit", "wrong quantity", "labeling error"}},
}

// SeverityCriteria maps each severity level to its decision criterion as
// given to the model.
var SeverityCriteria = []struct {
	Level    string
	Criteria string
}{
	{SeverityCritical, "Safety risk or regulatory impact, immediate action required"},
	{SeverityMajor, "Significant functional impact, corrective action needed"},
	{SeverityMinor, "Cosmetic or minor functional impact, monitoring"},
}
