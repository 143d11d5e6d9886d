package report

import (
	"errors"
	"fmt"
	"html/template"

	"github.com/gu00col/ross-sub000/internal/catalog"
	"github.com/gu00col/ross-sub000/internal/render"
)

// ErrNoRecords marks the explicit empty-report state: the contract exists
// but the workflow has not written any findings yet. Callers show a
// "analysis pending" page instead of a report full of zeroes.
var ErrNoRecords = errors.New("report: contract has no analysis records")

// ReportView is the complete view model consumed by the report page and
// the JSON API.
type ReportView struct {
	ContractID     string         `json:"contractId"`
	Sections       []SectionView  `json:"sections"`
	Risk           RiskAssessment `json:"risk"`
	RiskPercentage int            `json:"riskPercentage"`
	Summary        SummaryView    `json:"executiveSummary"`
}

// SectionView is one rendered report section in display order.
type SectionView struct {
	SectionID    int        `json:"sectionId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	StyleClass   string     `json:"styleClass"`
	Icon         string     `json:"icon"`
	Uncatalogued bool       `json:"uncatalogued,omitempty"`
	Items        []ItemView `json:"items"`
}

// ItemView is one finding with its content already rendered to safe HTML.
type ItemView struct {
	Label       string        `json:"label"`
	ContentHTML template.HTML `json:"contentHtml"`
	Details     []DetailView  `json:"details,omitempty"`
}

// DetailView is one rendered details sub-field.
type DetailView struct {
	Name      string        `json:"name"`
	ValueHTML template.HTML `json:"valueHtml"`
}

// SummaryView carries the executive summary for the synthetic section 0.
type SummaryView struct {
	KeyPoints            []ItemView `json:"keyPoints"`
	RecommendationsCount int        `json:"recommendationsCount"`
}

// BuildReport assembles the full view model for one contract: synthetic
// executive summary first, the four catalog sections in fixed order, then
// any uncatalogued findings. Everything is derived fresh from the records;
// nothing is cached between requests.
func BuildReport(contractID string, records []AnalysisRecord) (*ReportView, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	grouped := Aggregate(records)
	risk := ScoreRisk(grouped)
	summary := BuildSummary(grouped)

	view := &ReportView{
		ContractID:     contractID,
		Risk:           risk,
		RiskPercentage: risk.Percentage,
		Summary: SummaryView{
			KeyPoints:            renderItems(summary.KeyPoints, render.ModeInline),
			RecommendationsCount: summary.RecommendationsCount,
		},
	}

	summarySection, _ := catalog.Lookup(catalog.SectionSummary)
	view.Sections = append(view.Sections, SectionView{
		SectionID:   summarySection.ID,
		Title:       summarySection.Title,
		Description: summarySection.Description,
		StyleClass:  summarySection.StyleClass,
		Icon:        summarySection.Icon,
		Items:       view.Summary.KeyPoints,
	})

	for _, id := range catalog.DisplayOrder {
		recs := grouped.SectionRecords(id)
		if len(recs) == 0 {
			continue
		}
		meta, ok := catalog.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("report: no catalog entry for section %d", id)
		}
		mode := render.ModeInline
		if id == catalog.SectionFinalOpinion {
			mode = render.ModeDocument
		}
		view.Sections = append(view.Sections, SectionView{
			SectionID:   id,
			Title:       meta.Title,
			Description: meta.Description,
			StyleClass:  meta.StyleClass,
			Icon:        meta.Icon,
			Items:       renderItems(recs, mode),
		})
	}

	if len(grouped.Uncatalogued) > 0 {
		view.Sections = append(view.Sections, SectionView{
			SectionID:    -1,
			Title:        "Não Categorizado",
			Description:  "Itens fora das seções conhecidas do catálogo",
			StyleClass:   "section-unknown",
			Icon:         "help-circle",
			Uncatalogued: true,
			Items:        renderItems(grouped.Uncatalogued, render.ModeInline),
		})
	}

	return view, nil
}

func renderItems(records []AnalysisRecord, mode render.Mode) []ItemView {
	items := make([]ItemView, 0, len(records))
	for _, rec := range records {
		item := ItemView{
			Label:       rec.Label,
			ContentHTML: template.HTML(render.Render(rec.Content, mode)),
		}
		for _, d := range rec.Details {
			item.Details = append(item.Details, DetailView{
				Name:      d.Name,
				ValueHTML: template.HTML(render.Inline(d.Value)),
			})
		}
		items = append(items, item)
	}
	return items
}
