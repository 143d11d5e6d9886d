package report

import (
	"sort"

	"github.com/gu00col/ross-sub000/internal/catalog"
)

// SectionGroup holds the findings of one catalogued section, ordered for
// display.
type SectionGroup struct {
	SectionID int
	Records   []AnalysisRecord
}

// Grouped is the aggregation result. Sections with no findings are simply
// absent from the map; a missing key means "no findings", not an error.
// Records whose section ID falls outside the catalog are never dropped:
// they are carried in Uncatalogued so the presenter can flag them.
type Grouped struct {
	Sections     map[int]*SectionGroup
	Uncatalogued []AnalysisRecord
	Total        int
}

// Aggregate groups records by section and sorts each group by display
// order, ascending. The sort is stable, so duplicate (section, order) pairs
// keep their input order.
func Aggregate(records []AnalysisRecord) *Grouped {
	g := &Grouped{
		Sections: make(map[int]*SectionGroup),
		Total:    len(records),
	}
	for _, rec := range records {
		if !catalog.Known(rec.SectionID) {
			g.Uncatalogued = append(g.Uncatalogued, rec)
			continue
		}
		grp, ok := g.Sections[rec.SectionID]
		if !ok {
			grp = &SectionGroup{SectionID: rec.SectionID}
			g.Sections[rec.SectionID] = grp
		}
		grp.Records = append(grp.Records, rec)
	}
	for _, grp := range g.Sections {
		sort.SliceStable(grp.Records, func(i, j int) bool {
			return grp.Records[i].DisplayOrder < grp.Records[j].DisplayOrder
		})
	}
	return g
}

// SectionRecords returns the ordered records of one section, or nil when
// the section has no findings.
func (g *Grouped) SectionRecords(sectionID int) []AnalysisRecord {
	grp, ok := g.Sections[sectionID]
	if !ok {
		return nil
	}
	return grp.Records
}
