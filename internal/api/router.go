package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/toanvet/farmaudit/internal/middleware"
	"github.com/toanvet/farmaudit/internal/models"
	"github.com/toanvet/farmaudit/internal/services"
)

type Router struct {
	store     Store
	checklist *services.ChecklistService
	settings  *services.SettingsService
	audits    *services.AuditService
	dashboard *services.DashboardService
	auth      *services.AuthService
}

func NewRouter(store Store) *Router {
	return &Router{
		store:     store,
		checklist: services.NewChecklistService(store),
		settings:  services.NewSettingsService(store),
		audits:    services.NewAuditService(store),
		dashboard: services.NewDashboardService(store),
		auth:      services.NewAuthService(store, middleware.SignToken),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/seed", rt.handleSeed)                    // POST
	mux.HandleFunc("/api/checklist", rt.handleChecklist)          // GET, POST
	mux.HandleFunc("/api/checklist/", rt.handleChecklistItem)     // PUT, DELETE /api/checklist/{id}
	mux.HandleFunc("/api/settings", rt.handleSettings)            // GET, PUT
	mux.HandleFunc("/api/config/scoring", rt.handleScoringConfig) // GET, PUT
	mux.HandleFunc("/api/config/modules", rt.handleModuleConfigs) // GET, PUT
	mux.HandleFunc("/api/score", rt.handleScorePreview)           // POST
	mux.HandleFunc("/api/audits", rt.handleAudits)                // POST
	mux.HandleFunc("/api/audits/history", rt.handleHistory)       // GET
	mux.HandleFunc("/api/audits/", rt.handleAuditScoped)          // GET /api/audits/{id}/details|session|export
	mux.HandleFunc("/api/dashboard", rt.handleDashboard)          // GET
	mux.HandleFunc("/api/auth/register", rt.handleRegister)       // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)             // POST
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusBadRequest
		switch se.Code {
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, map[string]any{"error": se.Message, "code": se.Code})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := middleware.ClaimsFromContext(r.Context()); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return false
	}
	return true
}

// POST /api/seed — load a small demo catalog for first-run evaluation.
func (rt *Router) handleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	items := seedChecklist()
	created := 0
	for _, it := range items {
		if existing, err := rt.store.GetChecklistItem(it.ID); err == nil && existing == nil {
			if _, err := rt.checklist.CreateItem(it); err == nil {
				created++
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "created": created})
}

// GET /api/checklist — catalog items plus the derived module/category scope.
// POST /api/checklist — create an item (admin).
func (rt *Router) handleChecklist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cat, err := rt.checklist.Catalog()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": cat.Items(),
			"scope": services.DeriveScope(cat.Items()),
		})
	case http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		var it models.ChecklistItem
		if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created, err := rt.checklist.CreateItem(&it)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// PUT/DELETE /api/checklist/{id}
func (rt *Router) handleChecklistItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/checklist/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if !requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodPut:
		var it models.ChecklistItem
		if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		it.ID = id
		if err := rt.checklist.UpdateItem(&it); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, it)
	case http.MethodDelete:
		if err := rt.checklist.DeleteItem(id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET/PUT /api/settings — farm and role lists.
func (rt *Router) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		st, err := rt.settings.GetSettings()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	case http.MethodPut:
		if !requireAdmin(w, r) {
			return
		}
		var req models.Settings
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		st, err := rt.settings.SaveSettings(req.Farms, req.Roles)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET/PUT /api/config/scoring — critical rule and rating thresholds.
func (rt *Router) handleScoringConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := rt.settings.GetScoringConfig()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	case http.MethodPut:
		if !requireAdmin(w, r) {
			return
		}
		var cfg models.ScoringConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := rt.settings.SaveScoringConfig(cfg); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET/PUT /api/config/modules — module weight table.
func (rt *Router) handleModuleConfigs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cat, err := rt.checklist.Catalog()
		if err != nil {
			writeError(w, err)
			return
		}
		configs, err := rt.settings.ModuleConfigsFor(cat.Items())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"modules": configs})
	case http.MethodPut:
		if !requireAdmin(w, r) {
			return
		}
		var req struct {
			Modules []models.ModuleConfig `json:"modules"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := rt.settings.SaveModuleConfigs(req.Modules); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"modules": req.Modules})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type answerPayload struct {
	ItemID      string `json:"item_id"`
	Value       string `json:"value"`
	EvidenceURL string `json:"evidence_url,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type auditPayload struct {
	Farm           string          `json:"farm"`
	AuditorName    string          `json:"auditor_name"`
	Role           string          `json:"role"`
	StartTime      time.Time       `json:"start_time"`
	GeneralComment string          `json:"general_comment,omitempty"`
	Categories     []string        `json:"categories,omitempty"`
	Answers        []answerPayload `json:"answers"`
}

// buildSession replays the submitted answers through the scoring engine so
// the server derives every status itself and never trusts client verdicts.
func (rt *Router) buildSession(p *auditPayload) (*services.Catalog, *models.AuditSession, error) {
	cat, err := rt.checklist.Catalog()
	if err != nil {
		return nil, nil, err
	}
	if len(p.Categories) > 0 {
		sel := services.Selection{}
		for _, c := range p.Categories {
			sel[c] = struct{}{}
		}
		cat = services.NewCatalog(services.FilterItems(cat.Items(), sel))
	}
	session := services.NewSession(p.Farm, p.AuditorName, p.Role, p.StartTime)
	session.GeneralComment = p.GeneralComment
	for _, a := range p.Answers {
		session = services.UpdateItem(cat, session, a.ItemID, a.Value)
		if a.EvidenceURL != "" {
			session = services.AttachEvidence(session, a.ItemID, a.EvidenceURL)
		}
		if a.Notes != "" {
			session = services.SetNotes(session, a.ItemID, a.Notes)
		}
	}
	return cat, session, nil
}

// POST /api/audits — score the submitted answers and persist the audit.
func (rt *Router) handleAudits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var p auditPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cat, session, err := rt.buildSession(&p)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg, err := rt.settings.GetScoringConfig()
	if err != nil {
		writeError(w, err)
		return
	}
	moduleConfigs, err := rt.settings.ModuleConfigsFor(cat.Items())
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := rt.audits.Submit(cat, session, moduleConfigs, cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// POST /api/score — stateless scoring preview, nothing is persisted.
func (rt *Router) handleScorePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var p auditPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cat, session, err := rt.buildSession(&p)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg, err := rt.settings.GetScoringConfig()
	if err != nil {
		writeError(w, err)
		return
	}
	moduleConfigs, err := rt.settings.ModuleConfigsFor(cat.Items())
	if err != nil {
		writeError(w, err)
		return
	}
	result := services.ComputeResult(cat.Items(), session.Items, moduleConfigs, cfg)
	writeJSON(w, http.StatusOK, map[string]any{
		"result":   result,
		"rating":   services.RatingLabel(result.FinalScore, cfg),
		"answered": services.AnsweredCount(session, cat.Items()),
	})
}

// GET /api/audits/history — submitted audits, newest first. ?format=csv
// streams the same rows as a CSV download.
func (rt *Router) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	recs, err := rt.audits.History()
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		b, err := services.ExportHistoryCSV(recs)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=audit_history.csv")
		_, _ = w.Write(b)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": recs})
}

// GET /api/audits/{id}/details | /session | /export
func (rt *Router) handleAuditScoped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/audits/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	sessionID := parts[0]
	switch parts[1] {
	case "details":
		rows, err := rt.audits.Details(sessionID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"session_id": sessionID, "details": rows})
	case "session":
		cat, err := rt.checklist.Catalog()
		if err != nil {
			writeError(w, err)
			return
		}
		session, rec, err := rt.audits.Replay(cat, sessionID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"record": rec, "session": session})
	case "export":
		rec, err := rt.store.GetHistory(sessionID)
		if err != nil {
			writeError(w, err)
			return
		}
		if rec == nil {
			writeError(w, services.NewNotFoundError("audit not found"))
			return
		}
		rows, err := rt.audits.Details(sessionID)
		if err != nil {
			writeError(w, err)
			return
		}
		b, err := services.ExportDetailsCSV(rec, rows)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=audit_%s.csv", sessionID))
		_, _ = w.Write(b)
	default:
		http.NotFound(w, r)
	}
}

// GET /api/dashboard
func (rt *Router) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sum, err := rt.dashboard.Summary()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

type authPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// POST /api/auth/register
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var p authPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Register(p.Email, p.Password, p.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"token": res.Token, "user_id": res.UserID, "email": res.Email, "name": res.Name})
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var p authPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Login(p.Email, p.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "user_id": res.UserID, "email": res.Email, "name": res.Name})
}
