package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDetails_PreservesOrder(t *testing.T) {
	raw := `{"Descrição do Risco":"Multa unilateral","Trecho Citado":"Cláusula 8.1","Impacto Potencial":"Alto"}`

	fields := ParseDetails(raw)
	require.Len(t, fields, 3)
	assert.Equal(t, "Descrição do Risco", fields[0].Name)
	assert.Equal(t, "Trecho Citado", fields[1].Name)
	assert.Equal(t, "Impacto Potencial", fields[2].Name)
	assert.Equal(t, "Multa unilateral", fields[0].Value)
}

func TestParseDetails_EmptyInputs(t *testing.T) {
	assert.Nil(t, ParseDetails(""))
	assert.Nil(t, ParseDetails("  "))
	assert.Nil(t, ParseDetails("null"))
	assert.Nil(t, ParseDetails("{}"))
}

func TestParseDetails_MalformedIsNil(t *testing.T) {
	// Recovered locally: the details panel for the record is omitted, the
	// report itself still renders.
	assert.Nil(t, ParseDetails("not json"))
	assert.Nil(t, ParseDetails(`["a","b"]`))
	assert.Nil(t, ParseDetails(`{"k": {"nested": true}}`))
	assert.Nil(t, ParseDetails(`{"k": 42}`))
}

func TestParseDetails_TruncatedAndTrailing(t *testing.T) {
	// The token walk stops on EOF as readily as on "}", so a truncated
	// object must be rejected explicitly rather than returned half-parsed.
	assert.Nil(t, ParseDetails(`{"k": "v"`))
	assert.Nil(t, ParseDetails(`{"a": "b", "c": "d"`))
	assert.Nil(t, ParseDetails(`{"a": "b"}junk`))
	assert.Nil(t, ParseDetails(`{"a": "b"}{"c": "d"}`))
}
