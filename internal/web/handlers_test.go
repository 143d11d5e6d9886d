package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gu00col/ross-sub000/internal/middleware"
	"github.com/gu00col/ross-sub000/internal/store"
)

func getReportJSON(srv *Server, contractID string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/api/contracts/"+contractID+"/report", nil)
	req = mux.SetURLVars(req, map[string]string{"id": contractID})
	req = req.WithContext(middleware.WithUser(req.Context(), &store.User{ID: userID, Email: "ana@example.com"}))
	w := httptest.NewRecorder()
	srv.contractReportJSON(w, req)
	return w
}

func TestContractReportJSON_NotFound(t *testing.T) {
	srv, st := testServer(t)
	uid, err := st.CreateUser(context.Background(), "ana@example.com", "Ana", "hash")
	require.NoError(t, err)

	w := getReportJSON(srv, "ghost", uid)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Owned by someone else looks exactly like missing.
	require.NoError(t, st.CreateContract(context.Background(), &store.Contract{
		ID:       "c-1",
		UserID:   uid,
		Filename: "contrato.pdf",
	}))
	other, err := st.CreateUser(context.Background(), "bea@example.com", "Bea", "hash")
	require.NoError(t, err)
	w = getReportJSON(srv, "c-1", other)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContractReportJSON_Pending(t *testing.T) {
	srv, st := testServer(t)
	seedContract(t, st, "c-1")
	c, err := st.ContractByID(context.Background(), "c-1")
	require.NoError(t, err)

	w := getReportJSON(srv, "c-1", c.UserID)
	require.Equal(t, http.StatusAccepted, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "pending", body["status"])
}

func TestContractReportJSON_FullReport(t *testing.T) {
	srv, st := testServer(t)
	seedContract(t, st, "c-1")
	c, err := st.ContractByID(context.Background(), "c-1")
	require.NoError(t, err)

	raw := []store.RawRecord{
		{SectionID: 1, DisplayOrder: 1, Label: "Partes", Content: "Empresa A e Empresa B"},
		{SectionID: 2, DisplayOrder: 1, Label: "Multa excessiva", Content: "Ver **Cláusula 3.2**",
			Details: json.RawMessage(`{"Nível de Risco":"Alto"}`)},
		{SectionID: 4, DisplayOrder: 1, Label: "Parecer", Content: "1. Revisar cláusula X\n\n2. Notificar parte Y"},
	}
	require.NoError(t, st.SaveAnalysisRaw(context.Background(), "c-1", raw))

	w := getReportJSON(srv, "c-1", c.UserID)
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		ContractID string `json:"contractId"`
		Sections   []struct {
			SectionID int    `json:"sectionId"`
			Title     string `json:"title"`
			Items     []struct {
				ContentHTML string `json:"contentHtml"`
			} `json:"items"`
		} `json:"sections"`
		RiskPercentage int `json:"riskPercentage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	assert.Equal(t, "c-1", view.ContractID)
	assert.Equal(t, 100, view.RiskPercentage)
	require.NotEmpty(t, view.Sections)
	// Synthesized executive summary always leads.
	assert.Equal(t, 0, view.Sections[0].SectionID)

	var clauseHTML string
	for _, sec := range view.Sections {
		if sec.SectionID == 2 {
			require.Len(t, sec.Items, 1)
			clauseHTML = sec.Items[0].ContentHTML
		}
	}
	assert.Equal(t, `Ver <strong><span class="clause-ref">Cláusula 3.2</span></strong>`, clauseHTML)
}
