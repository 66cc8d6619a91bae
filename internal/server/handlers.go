package server

import (
	"encoding/json"
	"net/http"

	"auditdesk/internal/domain"
)

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	report, err := s.audit.GetAuditReport(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), err, "Failed to compute audit report")
		writeError(w, http.StatusInternalServerError, "failed to compute audit report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSaveAudit(w http.ResponseWriter, r *http.Request) {
	var payload domain.AuditReport
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid report payload")
		return
	}
	saved, err := s.audit.SaveAuditOverride(r.Context(), &payload)
	if err != nil {
		s.logger.Error(r.Context(), err, "Failed to save audit override")
		writeError(w, http.StatusInternalServerError, "failed to save audit override")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
