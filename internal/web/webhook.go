package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gu00col/ross-sub000/internal/logging"
	"github.com/gu00col/ross-sub000/internal/store"
)

// SignatureHeader carries the workflow engine's HMAC over the raw request
// body, as "sha256=<hex>".
const SignatureHeader = "X-Signature"

const maxWebhookBodyBytes = 5 << 20 // 5MB

// SignBody computes the signature header value for a payload. The engine
// computes the same; tests use it to build valid requests.
func SignBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the signature header against the raw body using a
// constant-time comparison.
func VerifySignature(secret string, body []byte, signatureHeader string) bool {
	sig := strings.TrimSpace(signatureHeader)
	if sig == "" || secret == "" {
		return false
	}
	if strings.HasPrefix(strings.ToLower(sig), "sha256=") {
		sig = sig[len("sha256="):]
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

type analysisPayload struct {
	ContractID string            `json:"contract_id"`
	Records    []store.RawRecord `json:"records"`
}

// analysisWebhook receives the workflow engine's findings for one contract.
// The upload relay registered the callback URL; this is the only write path
// for analysis records.
func (s *Server) analysisWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	if !VerifySignature(s.cfg.Workflow.Secret, body, r.Header.Get(SignatureHeader)) {
		logging.Log.Warn("analysis webhook with bad signature rejected")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var payload analysisPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if payload.ContractID == "" {
		http.Error(w, "contract_id is required", http.StatusBadRequest)
		return
	}

	if _, err := s.store.ContractByID(r.Context(), payload.ContractID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "unknown contract", http.StatusNotFound)
			return
		}
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	if err := s.store.SaveAnalysisRaw(r.Context(), payload.ContractID, payload.Records); err != nil {
		logging.Log.Errorf("saving analysis for contract %s: %v", payload.ContractID, err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	logging.Log.WithFields(map[string]interface{}{
		"contract": payload.ContractID,
		"records":  len(payload.Records),
	}).Info("analysis results stored")
	w.WriteHeader(http.StatusNoContent)
}
