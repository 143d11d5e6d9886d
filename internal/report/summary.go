package report

import (
	"regexp"
	"strings"

	"github.com/gu00col/ross-sub000/internal/catalog"
)

// ExecutiveSummary previews the top attention points of a contract.
type ExecutiveSummary struct {
	KeyPoints            []AnalysisRecord
	RecommendationsCount int
}

// maxKeyPoints bounds the risk-clause preview on the summary card.
const maxKeyPoints = 3

var numberedItemRe = regexp.MustCompile(`^\s*\d+\.\s`)

// isNumberedItem reports whether a line is a numbered-list marker of the
// form "N. text". Kept as its own predicate so the recommendation counting
// rule lives in exactly one place.
func isNumberedItem(line string) bool {
	return numberedItemRe.MatchString(line)
}

// BuildSummary selects up to three leading risk-clause findings, in the
// order the workflow assigned, and counts the numbered recommendations in
// the final opinion. An absent final opinion means zero recommendations,
// not an error.
func BuildSummary(g *Grouped) ExecutiveSummary {
	s := ExecutiveSummary{}

	risks := g.SectionRecords(catalog.SectionRiskClauses)
	if len(risks) > maxKeyPoints {
		risks = risks[:maxKeyPoints]
	}
	s.KeyPoints = risks

	// The workflow writes exactly one final-opinion record; if several
	// exist the first one carries the recommendations.
	if opinions := g.SectionRecords(catalog.SectionFinalOpinion); len(opinions) > 0 {
		for _, line := range strings.Split(opinions[0].Content, "\n") {
			if isNumberedItem(line) {
				s.RecommendationsCount++
			}
		}
	}
	return s
}
