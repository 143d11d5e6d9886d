// Package web exposes the HTTP surface: login, contract upload and listing,
// the report pages and the workflow results webhook. All report content is
// rendered server-side by internal/report; the JSON API returns the same
// pre-rendered HTML so client-side re-renders cannot drift.
package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/gu00col/ross-sub000/internal/auth"
	"github.com/gu00col/ross-sub000/internal/config"
	"github.com/gu00col/ross-sub000/internal/logging"
	"github.com/gu00col/ross-sub000/internal/middleware"
	"github.com/gu00col/ross-sub000/internal/objects"
	"github.com/gu00col/ross-sub000/internal/relay"
	"github.com/gu00col/ross-sub000/internal/report"
	"github.com/gu00col/ross-sub000/internal/store"
)

const contractsPageSize = 10

type Server struct {
	cfg      *config.Config
	store    *store.Store
	sessions *auth.Manager
	relay    *relay.Client
	uploader *objects.Uploader // nil when object storage is disabled
	tmpl     *template.Template
}

func NewServer(cfg *config.Config, st *store.Store, sessions *auth.Manager, rl *relay.Client, up *objects.Uploader) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{
		cfg:      cfg,
		store:    st,
		sessions: sessions,
		relay:    rl,
		uploader: up,
		tmpl:     tmpl,
	}, nil
}

// Register mounts all routes. Public routes go first; everything under the
// trailing prefix subrouter requires a session.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/login", s.loginForm).Methods("GET")
	r.HandleFunc("/login", s.login).Methods("POST")
	r.HandleFunc("/webhooks/analysis", s.analysisWebhook).Methods("POST")

	protected := r.PathPrefix("/").Subrouter()
	protected.Use(middleware.RequireSession(s.sessions, s.cfg.Session.CookieName))
	protected.HandleFunc("/", s.home).Methods("GET")
	protected.HandleFunc("/logout", s.logout).Methods("POST")
	protected.HandleFunc("/contracts", s.listContracts).Methods("GET")
	protected.HandleFunc("/contracts", s.uploadContract).Methods("POST")
	protected.HandleFunc("/contracts/{id}", s.contractReport).Methods("GET")
	protected.HandleFunc("/api/contracts/{id}/report", s.contractReportJSON).Methods("GET")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/contracts", http.StatusSeeOther)
}

// --- Auth ---

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "login.html", map[string]any{
		"Title":  "Entrar",
		"Failed": r.URL.Query().Get("failed") != "",
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	token, expires, err := s.sessions.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		http.Redirect(w, r, "/login?failed=1", http.StatusSeeOther)
		return
	}
	if err != nil {
		logging.Log.Errorf("login: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, CookieForSession(s.cfg.Session.CookieName, token, expires))
	http.Redirect(w, r, "/contracts", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
		if err := s.sessions.Logout(r.Context(), cookie.Value); err != nil {
			logging.Log.Warnf("logout: %v", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:   s.cfg.Session.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// --- Contracts ---

func (s *Server) listContracts(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	contracts, total, err := s.store.ListContracts(r.Context(), user.ID, page, contractsPageSize)
	if err != nil {
		logging.Log.Errorf("listing contracts: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	totalPages := (total + contractsPageSize - 1) / contractsPageSize
	s.renderPage(w, "contracts.html", map[string]any{
		"Title":      "Meus Contratos",
		"User":       user,
		"Contracts":  contracts,
		"Page":       page,
		"TotalPages": totalPages,
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
		"HasPrev":    page > 1,
		"HasNext":    page < totalPages,
	})
}

func (s *Server) uploadContract(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	maxBytes := s.cfg.Upload.MaxSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		http.Error(w, "upload too large or malformed", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("contract")
	if err != nil {
		http.Error(w, "contract file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		http.Error(w, "only PDF contracts are accepted", http.StatusUnsupportedMediaType)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "reading upload", http.StatusBadRequest)
		return
	}

	contract := &store.Contract{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		Filename: header.Filename,
		Status:   store.StatusPending,
	}
	if s.uploader != nil {
		contract.ObjectKey = objects.ObjectKey(contract.ID)
	}
	if err := s.store.CreateContract(r.Context(), contract); err != nil {
		logging.Log.Errorf("creating contract: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// The archival copy is best effort; the workflow hand-off below is the
	// critical path.
	if s.uploader != nil {
		if _, err := s.uploader.PutContract(r.Context(), contract.ID, bytes.NewReader(data), int64(len(data))); err != nil {
			logging.Log.Warnf("archiving contract %s: %v", contract.ID, err)
		}
	}

	if err := s.relay.SubmitContract(r.Context(), contract.ID, user.ID, header.Filename, bytes.NewReader(data)); err != nil {
		logging.Log.Errorf("relaying contract %s: %v", contract.ID, err)
		http.Error(w, "analysis engine unavailable", http.StatusBadGateway)
		return
	}

	http.Redirect(w, r, "/contracts/"+contract.ID, http.StatusSeeOther)
}

// --- Reports ---

func (s *Server) contractReport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	contractID := mux.Vars(r)["id"]

	contract, err := s.store.Contract(r.Context(), contractID, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logging.Log.Errorf("loading contract %s: %v", contractID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	records, err := s.store.RecordsForContract(r.Context(), contractID, user.ID)
	if err != nil {
		logging.Log.Errorf("loading records for %s: %v", contractID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view, err := report.BuildReport(contractID, records)
	if errors.Is(err, report.ErrNoRecords) {
		s.renderPage(w, "pending.html", map[string]any{"Title": contract.Filename, "User": user, "Contract": contract})
		return
	}
	if err != nil {
		logging.Log.Errorf("building report for %s: %v", contractID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.renderPage(w, "report.html", map[string]any{
		"Title":    contract.Filename,
		"User":     user,
		"Contract": contract,
		"Report":   view,
	})
}

func (s *Server) contractReportJSON(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	contractID := mux.Vars(r)["id"]

	records, err := s.store.RecordsForContract(r.Context(), contractID, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "contract not found"})
		return
	}
	if err != nil {
		logging.Log.Errorf("loading records for %s: %v", contractID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	view, err := report.BuildReport(contractID, records)
	if errors.Is(err, report.ErrNoRecords) {
		// Explicit empty-report state: analysis has not arrived yet.
		writeJSON(w, http.StatusAccepted, map[string]string{
			"contractId": contractID,
			"status":     "pending",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Log.Errorf("encoding response: %v", err)
	}
}

// CookieForSession builds the session cookie; shared between login and
// tests so attributes stay in one place.
func CookieForSession(name, token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
