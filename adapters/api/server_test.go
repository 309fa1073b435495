package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fieldready/app"
	"fieldready/domain/core"
	"fieldready/domain/metrics"
	"fieldready/domain/score"
	"fieldready/internal"
	"fieldready/internal/telemetry"
	"fieldready/internal/testkit"
)

type apiFixture struct {
	server *Server
	router http.Handler
	issuer *TokenIssuer
	scores *testkit.InMemoryScoreStore
	store  *testkit.InMemoryMetricStore
	manual *testkit.InMemoryManualStore
	audit  *testkit.InMemoryAuditLog
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	store := testkit.NewInMemoryMetricStore()
	manual := testkit.NewInMemoryManualStore()
	profiles := testkit.NewInMemoryProfileStore()
	scores := testkit.NewInMemoryScoreStore()
	audit := testkit.NewInMemoryAuditLog()
	logger := internal.NewLogger(internal.LogLevelError)

	engine := app.NewReadinessEngine(store, manual, profiles, scores, logger)
	issuer := NewTokenIssuer("test-secret", time.Hour)
	server := NewServer(engine, store, manual, scores, audit, issuer,
		telemetry.NewMetrics(), logger)

	return &apiFixture{
		server: server,
		router: server.Router(),
		issuer: issuer,
		scores: scores,
		store:  store,
		manual: manual,
		audit:  audit,
	}
}

func (f *apiFixture) request(t *testing.T, method, path string, body interface{}, userID string, role Role) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if role != "" {
		token, err := f.issuer.Issue(core.UserID(userID), role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) seedResult(t *testing.T, userID, day string, overall float64) {
	t.Helper()
	d, err := core.ParseDay(day)
	require.NoError(t, err)
	result := score.ComprehensiveReadinessResult{
		ID:               core.NewResultID(),
		UserID:           core.UserID(userID),
		Date:             d,
		Scores:           map[score.Name]float64{score.Recovery: overall},
		OverallReadiness: overall,
		Category:         score.CategoryFor(overall),
		Confidence:       score.ConfidenceHigh,
		CalculatedAt:     core.Now(),
	}
	require.NoError(t, f.scores.Store(context.Background(), result))
}

func todayStr() string {
	return core.DayOf(time.Now()).String()
}

func TestHealthNeedsNoToken(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.request(t, http.MethodGet, "/healthz", nil, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.request(t, http.MethodGet, "/api/v1/users/u1/latest", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeviceCanPushSamples(t *testing.T) {
	f := newAPIFixture(t)
	samples := []metrics.RawSample{{
		UserID:    "ignored",
		Type:      metrics.MetricHeartRate,
		Value:     61,
		Unit:      "bpm",
		Timestamp: time.Now().UTC(),
		Source:    "chest_strap",
	}}

	rec := f.request(t, http.MethodPost, "/api/v1/samples", samples, "dev-7", RoleDevice)
	require.Equal(t, http.StatusAccepted, rec.Code)

	// samples are rebound to the token's user
	stored, err := f.store.GetRecentMetrics(context.Background(), core.UserID("dev-7"), 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, core.UserID("dev-7"), stored[0].UserID)
}

func TestMalformedSampleRejected(t *testing.T) {
	f := newAPIFixture(t)
	samples := []metrics.RawSample{{
		Type:      metrics.MetricHeartRate,
		Value:     61,
		Unit:      "bpm",
		Source:    "chest_strap",
		Timestamp: time.Time{},
	}}

	rec := f.request(t, http.MethodPost, "/api/v1/samples", samples, "dev-7", RoleDevice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeviceCannotReadHistory(t *testing.T) {
	f := newAPIFixture(t)
	f.seedResult(t, "dev-7", "2026-03-15", 82)

	rec := f.request(t, http.MethodGet,
		"/api/v1/users/dev-7/history?start=2026-03-01&end=2026-03-31", nil, "dev-7", RoleDevice)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSoldierReadsOnlyThemself(t *testing.T) {
	f := newAPIFixture(t)
	f.seedResult(t, "s1", todayStr(), 82)
	f.seedResult(t, "s2", todayStr(), 64)

	own := f.request(t, http.MethodGet, "/api/v1/users/s1/latest", nil, "s1", RoleSoldier)
	assert.Equal(t, http.StatusOK, own.Code)

	other := f.request(t, http.MethodGet, "/api/v1/users/s2/latest", nil, "s1", RoleSoldier)
	assert.Equal(t, http.StatusForbidden, other.Code)

	admin := f.request(t, http.MethodGet, "/api/v1/users/s2/latest", nil, "medic", RoleAdmin)
	assert.Equal(t, http.StatusOK, admin.Code)
}

func TestSyncRejectsRawDataKeys(t *testing.T) {
	f := newAPIFixture(t)
	payload := map[string]interface{}{
		"user_id": "s1",
		"date":    "2026-03-15",
		"samples": []int{1, 2, 3},
	}

	rec := f.request(t, http.MethodPost, "/api/v1/readiness", payload, "s1", RoleSoldier)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "computed results only")
}

func TestSyncStoresComputedResult(t *testing.T) {
	f := newAPIFixture(t)
	payload := map[string]interface{}{
		"user_id":           "s1",
		"date":              "2026-03-15",
		"overall_readiness": 77.5,
		"category":          "CAUTION",
	}

	rec := f.request(t, http.MethodPost, "/api/v1/readiness", payload, "s1", RoleSoldier)
	require.Equal(t, http.StatusAccepted, rec.Code)

	day, err := core.ParseDay("2026-03-15")
	require.NoError(t, err)
	stored, err := f.scores.GetScore(context.Background(), core.UserID("s1"), day)
	require.NoError(t, err)
	assert.Equal(t, 77.5, stored.OverallReadiness)
}

func TestHistoryRecordsAudit(t *testing.T) {
	f := newAPIFixture(t)
	f.seedResult(t, "s2", "2026-03-14", 71)

	rec := f.request(t, http.MethodGet,
		"/api/v1/users/s2/history?start=2026-03-01&end=2026-03-31", nil, "medic", RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	events, err := f.audit.ListBySubject(context.Background(), core.UserID("s2"), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "VIEW_HISTORY", events[0].Action)
	assert.Equal(t, "medic", events[0].ActorID)
}

func TestHistoryValidatesRange(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.request(t, http.MethodGet,
		"/api/v1/users/s1/history?start=2026-03-31&end=2026-03-01", nil, "s1", RoleSoldier)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLatestMissingUserIs404(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.request(t, http.MethodGet, "/api/v1/users/ghost/latest", nil, "ghost", RoleSoldier)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalculateWithoutHistoryIsUnprocessable(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/users/s1/calculate?date=%s", todayStr()), nil, "s1", RoleSoldier)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdminUserSummary(t *testing.T) {
	f := newAPIFixture(t)
	f.seedResult(t, "s1", todayStr(), 82)
	f.seedResult(t, "s2", todayStr(), 55)

	rec := f.request(t, http.MethodGet, "/api/v1/users", nil, "medic", RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []userSummaryRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, score.CategoryGo, rows[0].Category)
	assert.Equal(t, score.CategoryLimited, rows[1].Category)

	forbidden := f.request(t, http.MethodGet, "/api/v1/users", nil, "s1", RoleSoldier)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)
}

func TestManualEntryUpserts(t *testing.T) {
	f := newAPIFixture(t)
	entry := map[string]interface{}{
		"kind":          "sleep",
		"day":           "2026-03-15",
		"override":      true,
		"sleep_minutes": 480,
	}

	rec := f.request(t, http.MethodPost, "/api/v1/users/s1/manual", entry, "s1", RoleSoldier)
	require.Equal(t, http.StatusAccepted, rec.Code)

	day, err := core.ParseDay("2026-03-15")
	require.NoError(t, err)
	stored, err := f.manual.GetEntry(context.Background(), core.UserID("s1"), day, metrics.EntrySleep)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 480.0, stored.SleepMinutes)
	assert.True(t, stored.Override)
}

func TestUnknownEntryKindRejected(t *testing.T) {
	f := newAPIFixture(t)
	entry := map[string]interface{}{"kind": "mood", "day": "2026-03-15"}
	rec := f.request(t, http.MethodPost, "/api/v1/users/s1/manual", entry, "s1", RoleSoldier)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	f := newAPIFixture(t)
	issuer := NewTokenIssuer("test-secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := issuer.Issue(core.UserID("s1"), RoleSoldier)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/s1/latest", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExportStreamsWorkbookAndAudits(t *testing.T) {
	f := newAPIFixture(t)
	f.seedResult(t, "s1", "2026-03-14", 83.0)
	f.seedResult(t, "s1", "2026-03-15", 61.5)

	rec := f.request(t, http.MethodGet,
		"/api/v1/users/s1/export?start=2026-03-14&end=2026-03-15", nil, "medic", RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "readiness_s1_2026-03-14_2026-03-15.xlsx")

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Readiness")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "2026-03-14", rows[1][0])

	events, err := f.audit.ListBySubject(context.Background(), core.UserID("s1"), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "EXPORT_DATA", events[0].Action)
	assert.Equal(t, "medic", events[0].ActorID)
}

func TestDeviceCannotExport(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.request(t, http.MethodGet,
		"/api/v1/users/s1/export?start=2026-03-14&end=2026-03-15", nil, "d1", RoleDevice)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func (f *apiFixture) scrapeMetrics(t *testing.T) string {
	t.Helper()
	rec := f.request(t, http.MethodGet, "/metrics", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestCalculateRecordsEngineMetrics(t *testing.T) {
	f := newAPIFixture(t)
	day, err := core.ParseDay("2026-03-15")
	require.NoError(t, err)
	cfg := testkit.DefaultBiometricConfig(core.UserID("s1"), day)
	cfg.Days = 14
	cfg.Jitter = 0
	samples := testkit.NewBiometricGenerator(cfg).GenerateSamples()
	require.NoError(t, f.store.SaveSamples(context.Background(), samples))

	rec := f.request(t, http.MethodPost,
		"/api/v1/users/s1/calculate?date=2026-03-15", nil, "s1", RoleSoldier)
	require.Equal(t, http.StatusOK, rec.Code)

	body := f.scrapeMetrics(t)
	assert.Contains(t, body, "fieldready_engine_calculations_total 1")
	assert.Contains(t, body, "fieldready_engine_calculation_errors_total 0")
}

func TestFailedCalculateCountsAsError(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/users/s1/calculate?date=%s", todayStr()), nil, "s1", RoleSoldier)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := f.scrapeMetrics(t)
	assert.Contains(t, body, "fieldready_engine_calculation_errors_total 1")
	assert.Contains(t, body, "fieldready_engine_calculations_total 0")
}

func TestLatestIgnoresResultAge(t *testing.T) {
	f := newAPIFixture(t)
	f.seedResult(t, "s1", "2025-12-01", 50)
	f.seedResult(t, "s1", "2026-01-02", 77)

	rec := f.request(t, http.MethodGet, "/api/v1/users/s1/latest", nil, "s1", RoleSoldier)
	require.Equal(t, http.StatusOK, rec.Code)

	var result score.ComprehensiveReadinessResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "2026-01-02", result.Date.String())
	assert.InDelta(t, 77.0, result.OverallReadiness, 0.001)
}
