package scoring

// Risk classification labels.
const (
	RiskHighIntegrity = "High Decision Integrity"
	RiskBalanced      = "Balanced but Needs Reflection"
	RiskElevated      = "Elevated Distortion Risk"
)

// ClassifyRisk maps a distortion risk score onto its label. Boundaries are
// strict less-than checks.
func ClassifyRisk(risk float64) string {
	if risk < 0.30 {
		return RiskHighIntegrity
	}
	if risk < 0.60 {
		return RiskBalanced
	}
	return RiskElevated
}
