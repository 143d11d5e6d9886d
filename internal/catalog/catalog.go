// Package catalog holds the fixed taxonomy of analysis sections. The
// analysis workflow only ever writes findings into sections 1-4; section 0
// is synthesized at report time and never stored.
package catalog

import "fmt"

// Section IDs as written by the analysis workflow.
const (
	SectionSummary         = 0 // synthesized executive summary
	SectionEssentials      = 1
	SectionRiskClauses     = 2
	SectionInconsistencies = 3
	SectionFinalOpinion    = 4
)

// Section describes the static presentation metadata of one analysis
// category. This is configuration, not derived data.
type Section struct {
	ID          int
	Title       string
	Description string
	StyleClass  string
	Icon        string
}

// DisplayOrder lists the stored sections in the order they appear on the
// report page. Section 0 is always rendered ahead of these.
var DisplayOrder = []int{
	SectionEssentials,
	SectionRiskClauses,
	SectionInconsistencies,
	SectionFinalOpinion,
}

var sections = map[int]Section{
	SectionSummary: {
		ID:          SectionSummary,
		Title:       "Resumo Executivo",
		Description: "Principais pontos de atenção e recomendações do contrato",
		StyleClass:  "section-summary",
		Icon:        "clipboard",
	},
	SectionEssentials: {
		ID:          SectionEssentials,
		Title:       "Dados Essenciais",
		Description: "Partes, objeto, prazos e valores identificados no contrato",
		StyleClass:  "section-essentials",
		Icon:        "file-text",
	},
	SectionRiskClauses: {
		ID:          SectionRiskClauses,
		Title:       "Cláusulas de Risco",
		Description: "Cláusulas leoninas ou desproporcionais a uma das partes",
		StyleClass:  "section-risk",
		Icon:        "alert-triangle",
	},
	SectionInconsistencies: {
		ID:          SectionInconsistencies,
		Title:       "Inconsistências",
		Description: "Contradições e omissões encontradas entre cláusulas",
		StyleClass:  "section-inconsistency",
		Icon:        "alert-circle",
	},
	SectionFinalOpinion: {
		ID:          SectionFinalOpinion,
		Title:       "Parecer Final",
		Description: "Avaliação geral e recomendações do analista",
		StyleClass:  "section-opinion",
		Icon:        "check-circle",
	},
}

// Lookup returns the metadata for a section ID.
func Lookup(id int) (Section, bool) {
	s, ok := sections[id]
	return s, ok
}

// Known reports whether the workflow may legitimately write to this section.
func Known(id int) bool {
	return id >= SectionEssentials && id <= SectionFinalOpinion
}

// Validate ensures the catalog covers every section that can appear on a
// report. Run at startup; a hole here is a deployment error, not a per
// request condition.
func Validate() error {
	for id := SectionSummary; id <= SectionFinalOpinion; id++ {
		if _, ok := sections[id]; !ok {
			return fmt.Errorf("section catalog missing entry for section %d", id)
		}
	}
	return nil
}
