package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_EmptyIsExplicitState(t *testing.T) {
	view, err := BuildReport("c-1", nil)

	assert.Nil(t, view)
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestBuildReport_SummarySectionFirst(t *testing.T) {
	view, err := BuildReport("c-1", []AnalysisRecord{
		rec(1, 1, "partes"),
		rec(2, 1, "multa"),
	})
	require.NoError(t, err)

	require.NotEmpty(t, view.Sections)
	assert.Equal(t, 0, view.Sections[0].SectionID)
	assert.Equal(t, "Resumo Executivo", view.Sections[0].Title)
}

func TestBuildReport_SectionsInCatalogOrder(t *testing.T) {
	view, err := BuildReport("c-1", []AnalysisRecord{
		rec(4, 1, "parecer"),
		rec(1, 1, "dados"),
		rec(3, 1, "contradição"),
	})
	require.NoError(t, err)

	var ids []int
	for _, s := range view.Sections {
		ids = append(ids, s.SectionID)
	}
	// Section 2 has no findings and is skipped entirely.
	assert.Equal(t, []int{0, 1, 3, 4}, ids)
}

func TestBuildReport_RiskAndSummaryWired(t *testing.T) {
	view, err := BuildReport("c-1", []AnalysisRecord{
		rec(2, 1, "alta 1"),
		rec(2, 2, "alta 2"),
		rec(3, 1, "média"),
		{SectionID: 4, DisplayOrder: 1, Label: "Parecer", Content: "1. Revisar\n2. Assinar"},
	})
	require.NoError(t, err)

	assert.Equal(t, 89, view.RiskPercentage)
	assert.Equal(t, 2, view.Summary.RecommendationsCount)
	require.Len(t, view.Summary.KeyPoints, 2)
	assert.Equal(t, "alta 1", view.Summary.KeyPoints[0].Label)
}

func TestBuildReport_FinalOpinionUsesDocumentMode(t *testing.T) {
	view, err := BuildReport("c-1", []AnalysisRecord{
		{SectionID: 4, DisplayOrder: 1, Label: "Parecer", Content: "1. Revisar tudo\n2. Assinar"},
		{SectionID: 1, DisplayOrder: 1, Label: "Partes", Content: "linha um\nlinha dois"},
	})
	require.NoError(t, err)

	byID := sectionsByID(view)
	assert.Contains(t, string(byID[4].Items[0].ContentHTML), "<ol>")
	assert.Contains(t, string(byID[1].Items[0].ContentHTML), "<br>")
	assert.NotContains(t, string(byID[1].Items[0].ContentHTML), "<p>")
}

func TestBuildReport_UncataloguedSectionFlagged(t *testing.T) {
	view, err := BuildReport("c-1", []AnalysisRecord{
		rec(1, 1, "ok"),
		rec(42, 1, "stray"),
	})
	require.NoError(t, err)

	last := view.Sections[len(view.Sections)-1]
	assert.True(t, last.Uncatalogued)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "stray", last.Items[0].Label)
}

func TestBuildReport_DetailsRendered(t *testing.T) {
	view, err := BuildReport("c-1", []AnalysisRecord{{
		SectionID:    2,
		DisplayOrder: 1,
		Label:        "Multa",
		Content:      "Ver **Cláusula 3.2**",
		Details: []DetailField{
			{Name: "Trecho Citado", Value: "texto <b>bruto</b>"},
		},
	}})
	require.NoError(t, err)

	item := sectionsByID(view)[2].Items[0]
	assert.Equal(t,
		`Ver <strong><span class="clause-ref">Cláusula 3.2</span></strong>`,
		string(item.ContentHTML))
	require.Len(t, item.Details, 1)
	assert.NotContains(t, string(item.Details[0].ValueHTML), "<b>")
}

func TestBuildReport_RecordWithoutDetailsHasNoPanel(t *testing.T) {
	view, err := BuildReport("c-1", []AnalysisRecord{rec(1, 1, "sem detalhes")})
	require.NoError(t, err)

	assert.Empty(t, sectionsByID(view)[1].Items[0].Details)
}

func sectionsByID(view *ReportView) map[int]SectionView {
	out := make(map[int]SectionView, len(view.Sections))
	for _, s := range view.Sections {
		out[s.SectionID] = s
	}
	return out
}
