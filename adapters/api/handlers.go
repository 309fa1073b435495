package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fieldready/adapters/excel"
	"fieldready/domain/core"
	"fieldready/domain/metrics"
	"fieldready/domain/score"
	"fieldready/ports"
)

// rawDataKeys are payload keys that signal a raw biometric stream. The
// sync contract carries computed results only; anything raw is rejected
// before decoding.
var rawDataKeys = []string{"samples", "series", "ecg", "raw_oxygen"}

const maxBodyBytes = 1 << 20

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Warn("encode response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps domain sentinels onto HTTP statuses
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInsufficientData):
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
	case core.IsNotFoundError(err):
		s.respondError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("request failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return false
	}
	return true
}

// pathUser reads {userID} and checks the token may touch that user
func (s *Server) pathUser(w http.ResponseWriter, r *http.Request) (core.UserID, bool) {
	userID := chi.URLParam(r, "userID")
	claims, _ := ClaimsFrom(r.Context())
	if !claims.canReadUser(userID) {
		s.respondError(w, http.StatusForbidden, "not permitted for this user")
		return "", false
	}
	return core.UserID(userID), true
}

// queryDay reads the date query param, defaulting to today (UTC)
func (s *Server) queryDay(w http.ResponseWriter, r *http.Request) (core.Day, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return core.DayOf(time.Now()), true
	}
	day, err := core.ParseDay(raw)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return core.Day{}, false
	}
	return day, true
}

// queryRange parses the required start/end query params as days
func (s *Server) queryRange(w http.ResponseWriter, r *http.Request) (core.Day, core.Day, bool) {
	start, err := core.ParseDay(r.URL.Query().Get("start"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "start: "+err.Error())
		return core.Day{}, core.Day{}, false
	}
	end, err := core.ParseDay(r.URL.Query().Get("end"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "end: "+err.Error())
		return core.Day{}, core.Day{}, false
	}
	if end.Before(start) {
		s.respondError(w, http.StatusBadRequest, "end precedes start")
		return core.Day{}, core.Day{}, false
	}
	return start, end, true
}

func (s *Server) handlePostSamples(w http.ResponseWriter, r *http.Request) {
	var samples []metrics.RawSample
	if !s.decodeBody(w, r, &samples) {
		return
	}
	if len(samples) == 0 {
		s.respondError(w, http.StatusBadRequest, "empty sample batch")
		return
	}

	claims, _ := ClaimsFrom(r.Context())
	for i := range samples {
		if claims.Role != RoleAdmin {
			samples[i].UserID = core.UserID(claims.UserID)
		}
		if err := samples[i].Validate(); err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("sample %d: %v", i, err))
			return
		}
	}

	if err := s.samples.SaveSamples(r.Context(), samples); err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]int{"accepted": len(samples)})
}

func (s *Server) handleSyncResult(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}
	for _, key := range rawDataKeys {
		if _, present := envelope[key]; present {
			s.respondError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("raw data key %q not accepted: sync carries computed results only", key))
			return
		}
	}

	encoded, err := json.Marshal(envelope)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	var result score.ComprehensiveReadinessResult
	if err := json.Unmarshal(encoded, &result); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid result: %v", err))
		return
	}

	claims, _ := ClaimsFrom(r.Context())
	if claims.Role != RoleAdmin {
		result.UserID = core.UserID(claims.UserID)
	}
	if result.UserID == "" || result.Date == (core.Day{}) {
		s.respondError(w, http.StatusBadRequest, "result requires user_id and date")
		return
	}

	if err := s.scores.Store(r.Context(), result); err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{
		"user_id": result.UserID.String(),
		"date":    result.Date.String(),
	})
}

func (s *Server) handlePostManual(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUser(w, r)
	if !ok {
		return
	}
	var entry metrics.ManualEntry
	if !s.decodeBody(w, r, &entry) {
		return
	}
	switch entry.Kind {
	case metrics.EntryActivity, metrics.EntrySleep, metrics.EntryStress,
		metrics.EntryNutrition, metrics.EntryHydration:
	default:
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown entry kind %q", entry.Kind))
		return
	}
	entry.UserID = userID
	if entry.Day == (core.Day{}) {
		entry.Day = core.DayOf(time.Now())
	}

	if err := s.manual.SaveEntry(r.Context(), entry); err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{
		"user_id": userID.String(),
		"day":     entry.Day.String(),
		"kind":    string(entry.Kind),
	})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUser(w, r)
	if !ok {
		return
	}
	day, ok := s.queryDay(w, r)
	if !ok {
		return
	}

	started := time.Now()
	result, err := s.engine.CalculateAll(r.Context(), userID, day)
	s.metrics.RecordCalculation(time.Since(started), err)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUser(w, r)
	if !ok {
		return
	}

	result, err := s.scores.GetLatestScore(r.Context(), userID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUser(w, r)
	if !ok {
		return
	}
	start, end, ok := s.queryRange(w, r)
	if !ok {
		return
	}

	s.recordAudit(r, "VIEW_HISTORY", userID)

	results, err := s.scores.GetScoresInRange(r.Context(), userID, start, end)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, results)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUser(w, r)
	if !ok {
		return
	}
	start, end, ok := s.queryRange(w, r)
	if !ok {
		return
	}

	// buffer the workbook so a build failure can still return JSON
	var buf bytes.Buffer
	exporter := excel.NewHistoryExporter(s.scores)
	if err := exporter.ExportTo(r.Context(), userID, start, end, &buf); err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.recordAudit(r, "EXPORT_DATA", userID)

	filename := fmt.Sprintf("readiness_%s_%s_%s.xlsx", userID, start, end)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn("stream export for %s: %v", userID, err)
	}
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUser(w, r)
	if !ok {
		return
	}
	day, ok := s.queryDay(w, r)
	if !ok {
		return
	}

	availability, err := s.engine.Availability(r.Context(), userID, day)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, availability)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUser(w, r)
	if !ok {
		return
	}
	day, ok := s.queryDay(w, r)
	if !ok {
		return
	}

	insights, err := s.engine.GenerateInsights(r.Context(), userID, day)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, insights)
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUser(w, r)
	if !ok {
		return
	}
	day, ok := s.queryDay(w, r)
	if !ok {
		return
	}

	alerts, err := s.engine.DetectAnomalies(r.Context(), userID, day)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.metrics.RecordAnomalies(len(alerts))
	s.respondJSON(w, http.StatusOK, alerts)
}

// userSummaryRow is one dashboard line: a user's most recent result
type userSummaryRow struct {
	UserID           core.UserID    `json:"user_id"`
	Date             core.Day       `json:"date"`
	OverallReadiness float64        `json:"overall_readiness"`
	Category         score.Category `json:"category"`
}

func (s *Server) handleUserSummary(w http.ResponseWriter, r *http.Request) {
	users, err := s.scores.ListUsers(r.Context())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	rows := make([]userSummaryRow, 0, len(users))
	for _, userID := range users {
		latest, err := s.scores.GetLatestScore(r.Context(), userID)
		if err != nil {
			if errors.Is(err, core.ErrResultNotFound) {
				continue
			}
			s.respondDomainError(w, err)
			return
		}
		rows = append(rows, userSummaryRow{
			UserID:           userID,
			Date:             latest.Date,
			OverallReadiness: latest.OverallReadiness,
			Category:         latest.Category,
		})
	}
	s.respondJSON(w, http.StatusOK, rows)
}

// recordAudit logs privileged access; audit failure never blocks reads
func (s *Server) recordAudit(r *http.Request, action string, subject core.UserID) {
	claims, _ := ClaimsFrom(r.Context())
	err := s.audit.Record(r.Context(), ports.AuditEvent{
		ActorID:   claims.UserID,
		ActorRole: string(claims.Role),
		Action:    action,
		SubjectID: subject,
		SourceIP:  r.RemoteAddr,
	})
	if err != nil {
		s.log.Warn("audit %s for %s: %v", action, subject, err)
	}
}
