package testkit

import (
	"context"
	"sort"
	"sync"
	"time"

	"fieldready/domain/core"
	"fieldready/domain/metrics"
	"fieldready/domain/score"
	"fieldready/ports"
)

// InMemoryMetricStore is a ports.MetricReader backed by a slice.
// Safe for concurrent use.
type InMemoryMetricStore struct {
	mu      sync.RWMutex
	samples []metrics.RawSample
}

// NewInMemoryMetricStore creates an empty store
func NewInMemoryMetricStore() *InMemoryMetricStore {
	return &InMemoryMetricStore{}
}

// Seed replaces the stored samples
func (s *InMemoryMetricStore) Seed(samples []metrics.RawSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append([]metrics.RawSample(nil), samples...)
}

func (s *InMemoryMetricStore) SaveSamples(_ context.Context, samples []metrics.RawSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, samples...)
	return nil
}

func (s *InMemoryMetricStore) GetRecentMetrics(ctx context.Context, userID core.UserID, window time.Duration, types ...metrics.MetricType) ([]metrics.RawSample, error) {
	end := time.Now().UTC()
	return s.GetMetricsInRange(ctx, userID, end.Add(-window), end, types...)
}

func (s *InMemoryMetricStore) GetMetricsInRange(_ context.Context, userID core.UserID, start, end time.Time, types ...metrics.MetricType) ([]metrics.RawSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []metrics.RawSample
	for _, sample := range s.samples {
		if sample.UserID != userID {
			continue
		}
		if sample.Timestamp.Before(start) || !sample.Timestamp.Before(end) {
			continue
		}
		if len(types) > 0 && !containsType(types, sample.Type) {
			continue
		}
		out = append(out, sample)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func containsType(types []metrics.MetricType, t metrics.MetricType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// InMemoryManualStore is a ports.ManualEntryRepository backed by maps
type InMemoryManualStore struct {
	mu      sync.RWMutex
	entries []metrics.ManualEntry
}

// NewInMemoryManualStore creates an empty store
func NewInMemoryManualStore() *InMemoryManualStore {
	return &InMemoryManualStore{}
}

func (s *InMemoryManualStore) SaveEntry(_ context.Context, entry metrics.ManualEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.Kind != metrics.EntryActivity {
		for i, existing := range s.entries {
			if existing.UserID == entry.UserID && existing.Day.Equal(entry.Day) && existing.Kind == entry.Kind {
				s.entries[i] = entry
				return nil
			}
		}
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryManualStore) ListActivity(_ context.Context, userID core.UserID, day core.Day) ([]metrics.ManualEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []metrics.ManualEntry
	for _, e := range s.entries {
		if e.UserID == userID && e.Day.Equal(day) && e.Kind == metrics.EntryActivity {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *InMemoryManualStore) GetEntry(_ context.Context, userID core.UserID, day core.Day, kind metrics.EntryKind) (*metrics.ManualEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.UserID == userID && e.Day.Equal(day) && e.Kind == kind {
			entry := e
			return &entry, nil
		}
	}
	return nil, nil
}

// InMemoryProfileStore is a ports.ProfileRepository backed by a map
type InMemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[core.UserID]metrics.UserProfile
}

// NewInMemoryProfileStore creates an empty store
func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: make(map[core.UserID]metrics.UserProfile)}
}

func (s *InMemoryProfileStore) Load(_ context.Context, userID core.UserID) (metrics.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return metrics.UserProfile{}, core.ErrProfileNotFound
}

func (s *InMemoryProfileStore) Save(_ context.Context, profile metrics.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

// scoreKey identifies one stored result
type scoreKey struct {
	userID core.UserID
	day    core.Day
}

// InMemoryScoreStore is a ports.ScoreStore backed by a map
type InMemoryScoreStore struct {
	mu      sync.RWMutex
	results map[scoreKey]score.ComprehensiveReadinessResult
}

// NewInMemoryScoreStore creates an empty store
func NewInMemoryScoreStore() *InMemoryScoreStore {
	return &InMemoryScoreStore{results: make(map[scoreKey]score.ComprehensiveReadinessResult)}
}

func (s *InMemoryScoreStore) Store(_ context.Context, result score.ComprehensiveReadinessResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[scoreKey{userID: result.UserID, day: result.Date}] = result
	return nil
}

func (s *InMemoryScoreStore) GetScore(_ context.Context, userID core.UserID, day core.Day) (score.ComprehensiveReadinessResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.results[scoreKey{userID: userID, day: day}]; ok {
		return r, nil
	}
	return score.ComprehensiveReadinessResult{}, core.ErrResultNotFound
}

func (s *InMemoryScoreStore) GetLatestScore(_ context.Context, userID core.UserID) (score.ComprehensiveReadinessResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest score.ComprehensiveReadinessResult
	found := false
	for key, r := range s.results {
		if key.userID != userID {
			continue
		}
		if !found || latest.Date.Before(key.day) {
			latest = r
			found = true
		}
	}
	if !found {
		return score.ComprehensiveReadinessResult{}, core.ErrResultNotFound
	}
	return latest, nil
}

func (s *InMemoryScoreStore) GetScoresInRange(_ context.Context, userID core.UserID, start, end core.Day) ([]score.ComprehensiveReadinessResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []score.ComprehensiveReadinessResult
	for key, r := range s.results {
		if key.userID != userID {
			continue
		}
		if key.day.Before(start) || end.Before(key.day) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *InMemoryScoreStore) GetTrend(ctx context.Context, userID core.UserID, days int, endDay core.Day) ([]score.ComprehensiveReadinessResult, error) {
	return s.GetScoresInRange(ctx, userID, endDay.AddDays(-(days-1)), endDay)
}

func (s *InMemoryScoreStore) ListUsers(_ context.Context) ([]core.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[core.UserID]bool)
	var out []core.UserID
	for key := range s.results {
		if !seen[key.userID] {
			seen[key.userID] = true
			out = append(out, key.userID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// InMemoryAuditLog is a ports.AuditLog backed by a slice
type InMemoryAuditLog struct {
	mu     sync.RWMutex
	events []ports.AuditEvent
}

// NewInMemoryAuditLog creates an empty log
func NewInMemoryAuditLog() *InMemoryAuditLog {
	return &InMemoryAuditLog{}
}

func (l *InMemoryAuditLog) Record(_ context.Context, event ports.AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *InMemoryAuditLog) ListBySubject(_ context.Context, subjectID core.UserID, limit int) ([]ports.AuditEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []ports.AuditEvent
	for i := len(l.events) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if l.events[i].SubjectID == subjectID {
			out = append(out, l.events[i])
		}
	}
	return out, nil
}
