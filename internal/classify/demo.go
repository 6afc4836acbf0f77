package classify

import (
	"context"

	"vocanalyzer/internal/domain"
)

// DemoClassifier serves pre-baked classifications keyed by complaint ID when
// no live service is configured. An unknown ID yields an all-empty result
// with an empty Error: unknown, not failed.
type DemoClassifier struct{}

func (DemoClassifier) Classify(_ context.Context, rec domain.ComplaintRecord) domain.ClassificationResult {
	return demoClassifications[rec.ComplaintID]
}

var demoClassifications = map[string]domain.ClassificationResult{
	"C-001": {DefectType: "solder_defect", DefectSubtype: "solder void", Severity: "major", RootCauseHypothesis: "Incomplete reflow profile or paste deposition issue", Sentiment: "negative", Summary: "Solder voids on flex connector pads affecting 12% of units"},
	"C-002": {DefectType: "dimensional", DefectSubtype: "out of tolerance", Severity: "major", RootCauseHypothesis: "Electrode deposition process parameter drift", Sentiment: "negative", Summary: "Inconsistent biosensor electrode thickness outside spec range"},
	"C-003": {DefectType: "mechanical", DefectSubtype: "bent pin", Severity: "minor", RootCauseHypothesis: "Insufficient packaging protection during shipping", Sentiment: "negative", Summary: "Bent pins found on 4% of microconnectors after unpacking"},
	"C-004": {DefectType: "dimensional", DefectSubtype: "out of tolerance", Severity: "critical", RootCauseHypothesis: "Die cutting or etching process drift", Sentiment: "negative", Summary: "Flex circuit width 5.12 mm exceeds tolerance, entire lot rejected"},
	"C-005": {DefectType: "electrical", DefectSubtype: "high resistance", Severity: "major", RootCauseHypothesis: "Trace plating deficiency or micro-crack in conductor", Sentiment: "negative", Summary: "High resistance on PCB trace, 4.6x above specification limit"},
	"C-006": {DefectType: "contamination", DefectSubtype: "foreign particle", Severity: "major", RootCauseHypothesis: "Cleanroom process excursion or material contamination", Sentiment: "negative", Summary: "Metallic particle contamination on biosensor assemblies"},
	"C-007": {DefectType: "solder_defect", DefectSubtype: "cold solder", Severity: "major", RootCauseHypothesis: "Reflow temperature profile too low or solder paste issue", Sentiment: "negative", Summary: "Cold solder joints on flex connector, pull test failures"},
	"C-008": {DefectType: "mechanical", DefectSubtype: "crack", Severity: "critical", RootCauseHypothesis: "Material fatigue or molding defect in connector housing", Sentiment: "negative", Summary: "Connector housing crack at 150 vs 500 thermal cycles required"},
	"C-009": {DefectType: "electrical", DefectSubtype: "short circuit", Severity: "major", RootCauseHypothesis: "Etching defect or solder bridging between traces", Sentiment: "negative", Summary: "Short circuits on 5% of PCB modules at incoming inspection"},
	"C-010": {DefectType: "biocompatibility", DefectSubtype: "cytotoxicity", Severity: "critical", RootCauseHypothesis: "Material leachable or processing residue issue", Sentiment: "negative", Summary: "Cytotoxicity failure: cell viability 62% vs 80% min per ISO 10993"},
	"C-011": {DefectType: "contamination", DefectSubtype: "oxidation", Severity: "minor", RootCauseHypothesis: "Gold plating thickness insufficient or exposure to corrosive environment", Sentiment: "negative", Summary: "Surface oxidation on gold-plated contacts, 20% affected"},
	"C-012": {DefectType: "packaging_delivery", DefectSubtype: "wrong quantity", Severity: "minor", RootCauseHypothesis: "Counting or packaging error at shipment stage", Sentiment: "negative", Summary: "Quantity discrepancy: 4200 shipped vs 5000 ordered"},
	"C-013": {DefectType: "mechanical", DefectSubtype: "delamination", Severity: "major", RootCauseHypothesis: "Lamination pressure or temperature parameter issue", Sentiment: "negative", Summary: "PCB layer delamination after reflow on 15% of boards"},
	"C-014": {DefectType: "dimensional", DefectSubtype: "warpage", Severity: "major", RootCauseHypothesis: "Thermal stress during manufacturing or material CTE mismatch", Sentiment: "negative", Summary: "Flex connector warpage 3x above specification limit"},
	"C-015": {DefectType: "packaging_delivery", DefectSubtype: "labeling error", Severity: "major", RootCauseHypothesis: "Label printing or application process error", Sentiment: "negative", Summary: "Lot number mismatch between box and unit labels, traceability risk"},
	"C-016": {DefectType: "dimensional", DefectSubtype: "misalignment", Severity: "major", RootCauseHypothesis: "Stamping die wear or press alignment drift", Sentiment: "negative", Summary: "Pin pitch 0.52 mm vs 0.50 mm nominal, mating failure"},
	"C-017": {DefectType: "solder_defect", DefectSubtype: "bridging", Severity: "major", RootCauseHypothesis: "Solder paste excess or stencil aperture issue", Sentiment: "negative", Summary: "Solder bridging causing electrical shorts on flex connector"},
	"C-018": {DefectType: "contamination", DefectSubtype: "residue", Severity: "major", RootCauseHypothesis: "Cleaning process inadequacy or contaminated rinse water", Sentiment: "negative", Summary: "Ionic contamination 35% above specification limit on PCB"},
	"C-019": {DefectType: "biocompatibility", DefectSubtype: "sensitization", Severity: "critical", RootCauseHypothesis: "Material biocompatibility issue or adhesive reaction", Sentiment: "negative", Summary: "Patient skin sensitization reported near biosensor site"},
	"C-020": {DefectType: "packaging_delivery", DefectSubtype: "damage in transit", Severity: "minor", RootCauseHypothesis: "Inadequate packaging for shipping conditions", Sentiment: "negative", Summary: "Crushed packaging with bent leads on flex connectors"},
	"C-021": {DefectType: "solder_defect", DefectSubtype: "solder void", Severity: "major", RootCauseHypothesis: "Reflow profile issue on Line 2, possible temperature excursion", Sentiment: "negative", Summary: "Solder voids exceeding 25% pad area on Line 2 production"},
	"C-022": {DefectType: "solder_defect", DefectSubtype: "cold solder", Severity: "major", RootCauseHypothesis: "Line 2 reflow oven temperature profile degradation", Sentiment: "negative", Summary: "Cold solder joints on microconnectors from Line 2, 15% failure"},
	"C-023": {DefectType: "solder_defect", DefectSubtype: "insufficient solder", Severity: "major", RootCauseHypothesis: "Line 2 solder paste printer calibration drift", Sentiment: "negative", Summary: "Insufficient solder on flex connector, 40% below nominal volume"},
	"C-024": {DefectType: "electrical", DefectSubtype: "open circuit", Severity: "major", RootCauseHypothesis: "Solder reflow issue on Line 2 causing open traces", Sentiment: "negative", Summary: "Open circuits on PCB module from Line 2, 8% ICT failure rate"},
	"C-025": {DefectType: "solder_defect", DefectSubtype: "bridging", Severity: "major", RootCauseHypothesis: "Line 2 stencil misalignment or paste excess on fine pitch", Sentiment: "negative", Summary: "Solder bridging on fine-pitch flex connector pads from Line 2"},
	"C-026": {DefectType: "mechanical", DefectSubtype: "delamination", Severity: "major", RootCauseHypothesis: "Adhesion process parameter or surface preparation issue", Sentiment: "negative", Summary: "Electrode delamination on biosensor, peel strength 53% of spec"},
	"C-027": {DefectType: "solder_defect", DefectSubtype: "cold solder", Severity: "major", RootCauseHypothesis: "Ongoing Line 2 reflow temperature issue, pattern confirmed", Sentiment: "negative", Summary: "Cold solder on flex connector from Line 2, 22% visually defective"},
	"C-028": {DefectType: "dimensional", DefectSubtype: "out of tolerance", Severity: "major", RootCauseHypothesis: "Stamping or forming tool wear causing length variation", Sentiment: "negative", Summary: "Connector pin length variation 4x above specification tolerance"},
	"C-029": {DefectType: "biocompatibility", DefectSubtype: "irritation", Severity: "critical", RootCauseHypothesis: "Device material or adhesive causing skin irritation", Sentiment: "negative", Summary: "End user irritation at device contact, ISO 10993-10 retest needed"},
	"C-030": {DefectType: "contamination", DefectSubtype: "foreign particle", Severity: "critical", RootCauseHypothesis: "Foreign material inclusion during flex circuit lamination", Sentiment: "negative", Summary: "Embedded particle in flex circuit dielectric, production halted"},
}
