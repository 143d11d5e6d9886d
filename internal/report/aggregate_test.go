package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(section, order int, label string) AnalysisRecord {
	return AnalysisRecord{SectionID: section, DisplayOrder: order, Label: label}
}

func TestAggregate_GroupsAndSorts(t *testing.T) {
	g := Aggregate([]AnalysisRecord{
		rec(2, 3, "c"),
		rec(1, 1, "a"),
		rec(2, 1, "b"),
		rec(1, 2, "d"),
	})

	require.Len(t, g.Sections, 2)
	assert.Equal(t, []string{"a", "d"}, labels(g.SectionRecords(1)))
	assert.Equal(t, []string{"b", "c"}, labels(g.SectionRecords(2)))
}

func TestAggregate_MissingSectionIsAbsent(t *testing.T) {
	g := Aggregate([]AnalysisRecord{rec(1, 1, "a")})

	_, ok := g.Sections[3]
	assert.False(t, ok)
	assert.Nil(t, g.SectionRecords(3), "missing section means no findings, not an error")
}

func TestAggregate_StableOnDuplicateOrder(t *testing.T) {
	g := Aggregate([]AnalysisRecord{
		rec(2, 5, "first"),
		rec(2, 5, "second"),
		rec(2, 5, "third"),
	})

	assert.Equal(t, []string{"first", "second", "third"}, labels(g.SectionRecords(2)))
}

func TestAggregate_UncataloguedKeptAndFlagged(t *testing.T) {
	g := Aggregate([]AnalysisRecord{
		rec(1, 1, "a"),
		rec(9, 1, "stray"),
		rec(0, 1, "zero"), // section 0 is synthesized, never stored
	})

	require.Len(t, g.Uncatalogued, 2)
	assert.Equal(t, "stray", g.Uncatalogued[0].Label)
	assert.Equal(t, "zero", g.Uncatalogued[1].Label)
}

func TestAggregate_NoRecordsDropped(t *testing.T) {
	in := []AnalysisRecord{
		rec(1, 2, "a"), rec(2, 1, "b"), rec(3, 1, "c"),
		rec(4, 1, "d"), rec(7, 1, "e"), rec(2, 2, "f"),
	}
	g := Aggregate(in)

	total := len(g.Uncatalogued)
	for _, grp := range g.Sections {
		total += len(grp.Records)
	}
	assert.Equal(t, len(in), total)
	assert.Equal(t, len(in), g.Total)
}

func labels(recs []AnalysisRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Label)
	}
	return out
}
