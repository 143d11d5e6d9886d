package report

import (
	"math"

	"github.com/gu00col/ross-sub000/internal/catalog"
)

// RiskAssessment is the severity-weighted risk summary of one contract.
// Findings in the risk-clause section weigh 3 points, inconsistencies weigh
// 2; MaxScore models every finding being high severity, which normalizes
// contracts with very different finding counts onto one 0-100 scale.
type RiskAssessment struct {
	HighRiskCount   int `json:"highRiskCount"`
	MediumRiskCount int `json:"mediumRiskCount"`
	CurrentScore    int `json:"currentScore"`
	MaxScore        int `json:"maxScore"`
	Percentage      int `json:"riskPercentage"`
}

const (
	highRiskWeight   = 3
	mediumRiskWeight = 2
)

// ScoreRisk computes the risk assessment from the grouped findings. A
// contract with no risk items scores 0%, never NaN: the zero MaxScore case
// is guarded explicitly.
func ScoreRisk(g *Grouped) RiskAssessment {
	high := len(g.SectionRecords(catalog.SectionRiskClauses))
	medium := len(g.SectionRecords(catalog.SectionInconsistencies))

	a := RiskAssessment{
		HighRiskCount:   high,
		MediumRiskCount: medium,
		CurrentScore:    high*highRiskWeight + medium*mediumRiskWeight,
		MaxScore:        (high + medium) * highRiskWeight,
	}
	if a.MaxScore == 0 {
		return a
	}
	a.Percentage = int(math.Round(float64(a.CurrentScore) / float64(a.MaxScore) * 100))
	return a
}
