package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Validate())
}

func TestLookup(t *testing.T) {
	s, ok := Lookup(SectionRiskClauses)
	require.True(t, ok)
	assert.Equal(t, "Cláusulas de Risco", s.Title)

	_, ok = Lookup(99)
	assert.False(t, ok)
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(SectionEssentials))
	assert.True(t, Known(SectionFinalOpinion))
	assert.False(t, Known(SectionSummary), "section 0 is synthesized, never stored")
	assert.False(t, Known(5))
	assert.False(t, Known(-1))
}

func TestDisplayOrderCovered(t *testing.T) {
	for _, id := range DisplayOrder {
		_, ok := Lookup(id)
		assert.True(t, ok, "display order references section %d without catalog entry", id)
	}
}
