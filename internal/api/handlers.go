package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pulse/internal/logging"
	"pulse/internal/report"
)

const defaultRunLimit = 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx := r.Context()

	customers, err := s.store.CountCustomers(ctx)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	products, err := s.store.CountProducts(ctx)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	opportunities, err := s.store.CountOpportunities(ctx)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	latest, err := s.store.LatestRun(ctx)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := StatusResponse{
		Daemon:        s.info(),
		DatabasePath:  s.dbPath,
		CachePath:     s.cache.Path(),
		Customers:     customers,
		Products:      products,
		Opportunities: opportunities,
	}
	if latest != nil {
		resp.LatestRun = NewRunSummary(latest)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	loaded, err := s.cache.Load()
	if err != nil {
		s.writeJSON(w, http.StatusOK, ReportResponse{
			Available:      false,
			ContextSummary: report.DegradationMarker(err),
		})
		return
	}
	intelligence := loaded.Intelligence
	if intelligence.ContextSummary == "" && len(intelligence.Signals) == 0 {
		s.writeJSON(w, http.StatusOK, ReportResponse{
			Available:      false,
			ContextSummary: report.ContextIncomplete,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, ReportResponse{
		Available:      true,
		ContextSummary: intelligence.ContextSummary,
		Report:         &loaded,
	})
}

func (s *Server) handleOpportunity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/api/sales-opportunities/")
	if idStr == "" || strings.Contains(idStr, "/") {
		s.writeError(w, http.StatusNotFound, "opportunity not found")
		return
	}
	customerID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	opportunity, err := s.store.OpportunityByCustomerID(r.Context(), customerID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if opportunity == nil {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no sales opportunity for customer %d", customerID))
		return
	}
	s.writeJSON(w, http.StatusOK, NewOpportunityResponse(opportunity))
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultRunLimit
	}
	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	summaries := make([]RunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, *NewRunSummary(run))
	}
	s.writeJSON(w, http.StatusOK, RunListResponse{Runs: summaries})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
