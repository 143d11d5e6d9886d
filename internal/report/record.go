// Package report reassembles the flat analysis rows written by the external
// workflow into the structured contract report: grouped sections, the
// weighted risk score, the executive summary and the final view model.
package report

import (
	"encoding/json"
	"io"
	"strings"
)

// AnalysisRecord is one finding produced by the analysis workflow. Records
// are written once by the workflow and read-only afterwards.
type AnalysisRecord struct {
	ID           int64
	SectionID    int
	DisplayOrder int
	Label        string
	Content      string
	Details      []DetailField
}

// DetailField is one named sub-field of a finding's details panel. Order
// follows the order the workflow wrote the fields in.
type DetailField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ParseDetails decodes the stored details JSON into ordered name/value
// pairs. Details are all-or-nothing: empty, null or malformed input yields
// nil, which callers treat as "no details panel". A bad details blob must
// never fail the whole report.
func ParseDetails(raw string) []DetailField {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	// Maps in Go do not keep key order, so walk the tokens instead of
	// unmarshalling into map[string]string.
	dec := json.NewDecoder(strings.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}
	var fields []DetailField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil
		}
		val, ok := valTok.(string)
		if !ok {
			return nil
		}
		fields = append(fields, DetailField{Name: key, Value: val})
	}
	// More() also stops on EOF, so a truncated object falls out of the loop
	// without error. Demand the closing brace and nothing after it.
	end, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := end.(json.Delim); !ok || d != '}' {
		return nil
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil
	}
	return fields
}
