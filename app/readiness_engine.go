package app

import (
	"context"
	goerrors "errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fieldready/domain/anomaly"
	"fieldready/domain/baseline"
	"fieldready/domain/core"
	"fieldready/domain/insight"
	"fieldready/domain/metrics"
	"fieldready/domain/score"
	"fieldready/domain/signal"
	"fieldready/internal"
	"fieldready/ports"
)

// TrendDays is the trailing-result window fed to the anomaly detector
// and insight generator.
const TrendDays = 7

// normalizeLookbackDays bounds how far back a point metric's most
// recent sample may come from. Sparse metrics like VO2max and weight
// are measured every few days, not daily.
const normalizeLookbackDays = 7

// minutesPerAwakening approximates awake minutes from a self-reported
// awakening count when a manual sleep log overrides device data.
const minutesPerAwakening = 5.0

// ReadinessEngine is the single public computation entrypoint: one call
// per (user, day) reads a consistent snapshot, scores it, and upserts
// the result. Calls are independent; the engine holds no per-user
// state, so concurrent invocations for different users are safe.
type ReadinessEngine struct {
	metricReader ports.MetricReader
	manualRepo   ports.ManualEntryRepository
	profileRepo  ports.ProfileRepository
	scoreStore   ports.ScoreStore

	normalizer *signal.Normalizer
	estimator  *baseline.Estimator
	detector   *anomaly.Detector
	log        *internal.Logger
	now        func() time.Time
}

// NewReadinessEngine wires the engine to its collaborators
func NewReadinessEngine(
	metricReader ports.MetricReader,
	manualRepo ports.ManualEntryRepository,
	profileRepo ports.ProfileRepository,
	scoreStore ports.ScoreStore,
	logger *internal.Logger,
) *ReadinessEngine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	log := logger.Named("engine")
	e := &ReadinessEngine{
		metricReader: metricReader,
		manualRepo:   manualRepo,
		profileRepo:  profileRepo,
		scoreStore:   scoreStore,
		estimator:    baseline.NewEstimator(),
		detector:     anomaly.NewDetector(),
		log:          log,
		now:          time.Now,
	}
	e.normalizer = signal.NewNormalizer(func(s metrics.RawSample, err error) {
		log.Warn("skipping malformed sample type=%s user=%s: %v", s.Type, s.UserID, err)
	})
	return e
}

// dayInputs is the consistent snapshot one calculation reads
type dayInputs struct {
	samples   []metrics.RawSample
	activity  []metrics.ManualEntry
	sleep     *metrics.ManualEntry
	stress    *metrics.ManualEntry
	hydration *metrics.ManualEntry
	nutrition *metrics.ManualEntry
}

// CalculateAll computes the complete readiness result for a user-day
// and upserts it. Missing data never fails the call; the result's
// confidence fields communicate quality. The only outright failures are
// an insufficient-history gate (wrapping core.ErrInsufficientData) and
// storage errors, which the caller retries on its next trigger.
func (e *ReadinessEngine) CalculateAll(ctx context.Context, userID core.UserID, day core.Day) (score.ComprehensiveReadinessResult, error) {
	profile, err := e.loadProfile(ctx, userID)
	if err != nil {
		return score.ComprehensiveReadinessResult{}, err
	}

	in, err := e.readSnapshot(ctx, userID, day)
	if err != nil {
		return score.ComprehensiveReadinessResult{}, err
	}

	avail := availabilityOf(in.samples, day)
	if !avail.CanCalculate {
		return score.ComprehensiveReadinessResult{}, fmt.Errorf(
			"user %s has %d day(s) of data, status %s: %w",
			userID, avail.DaysOfData, avail.Status, core.ErrInsufficientData)
	}

	result := e.scoreSnapshot(userID, day, profile, in)

	if err := e.scoreStore.Store(ctx, result); err != nil {
		return score.ComprehensiveReadinessResult{}, core.NewStorageError("store result", err)
	}
	e.log.Info("scored user=%s day=%s overall=%.1f category=%s confidence=%s",
		userID, day, result.OverallReadiness, result.Category, result.Confidence)
	return result, nil
}

// scoreSnapshot is the pure portion of a calculation: no I/O, no clock
// reads except the result stamp, deterministic for a fixed snapshot.
func (e *ReadinessEngine) scoreSnapshot(userID core.UserID, day core.Day, profile metrics.UserProfile, in dayInputs) score.ComprehensiveReadinessResult {
	var today, history []metrics.RawSample
	lookback := day.AddDays(-normalizeLookbackDays).Start()
	for _, s := range in.samples {
		switch {
		case day.Contains(s.Timestamp):
			today = append(today, s)
		case s.Timestamp.Before(day.Start()):
			history = append(history, s)
			if !s.Timestamp.Before(lookback) {
				today = append(today, s)
			}
		}
	}

	signals := e.normalizer.Normalize(userID, day, today)
	baselines := e.estimator.EstimateSet(userID, day, baseline.DailyHistory(history))

	if in.sleep != nil && in.sleep.Override {
		overrideSleepSignals(signals, *in.sleep)
	}

	inputs := score.Inputs{
		Signals:   signals,
		Baselines: baselines,
		Profile:   profile,
		Manual: score.Manual{
			Activity:  in.activity,
			Sleep:     in.sleep,
			Stress:    in.stress,
			Hydration: in.hydration,
			Nutrition: in.nutrition,
		},
	}

	results := make(map[score.Name]score.ScoreResult, len(score.AllNames))
	for _, c := range score.All() {
		results[c.Name] = c.Score(inputs)
	}
	composite := score.Compose(results)
	return score.NewResult(userID, day, results, composite, core.NewTimestamp(e.now()))
}

// readSnapshot fans out the collaborator reads. Whatever each read
// returns at this moment is the snapshot; concurrent sample appends by
// a sync process land in the next calculation.
func (e *ReadinessEngine) readSnapshot(ctx context.Context, userID core.UserID, day core.Day) (dayInputs, error) {
	var in dayInputs
	start := day.AddDays(-baseline.WindowDays).Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		samples, err := e.metricReader.GetMetricsInRange(gctx, userID, start, day.End())
		if err != nil {
			return core.NewStorageError("read samples", err)
		}
		in.samples = samples
		return nil
	})
	g.Go(func() error {
		activity, err := e.manualRepo.ListActivity(gctx, userID, day)
		if err != nil {
			return core.NewStorageError("read manual activity", err)
		}
		in.activity = activity
		return nil
	})
	type entrySlot struct {
		kind metrics.EntryKind
		dst  **metrics.ManualEntry
	}
	for _, slot := range []entrySlot{
		{metrics.EntrySleep, &in.sleep},
		{metrics.EntryStress, &in.stress},
		{metrics.EntryHydration, &in.hydration},
		{metrics.EntryNutrition, &in.nutrition},
	} {
		slot := slot
		g.Go(func() error {
			entry, err := e.manualRepo.GetEntry(gctx, userID, day, slot.kind)
			if err != nil {
				if core.IsNotFoundError(err) {
					return nil
				}
				return core.NewStorageError("read manual "+string(slot.kind), err)
			}
			*slot.dst = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dayInputs{}, err
	}
	return in, nil
}

func (e *ReadinessEngine) loadProfile(ctx context.Context, userID core.UserID) (metrics.UserProfile, error) {
	profile, err := e.profileRepo.Load(ctx, userID)
	if err != nil {
		if goerrors.Is(err, core.ErrProfileNotFound) || core.IsNotFoundError(err) {
			e.log.Warn("no profile for user=%s, using defaults", userID)
			return metrics.DefaultProfile(userID), nil
		}
		return metrics.UserProfile{}, core.NewStorageError("load profile", err)
	}
	return profile.Normalize(), nil
}

// overrideSleepSignals replaces device sleep-stage signals with the
// user's asserted log. Core sleep is whatever remains of the reported
// total after deep and REM.
func overrideSleepSignals(signals *signal.Set, entry metrics.ManualEntry) {
	coreMinutes := entry.SleepMinutes - entry.DeepMinutes - entry.REMMinutes
	if coreMinutes < 0 {
		coreMinutes = 0
	}
	stages := map[metrics.MetricType]float64{
		metrics.MetricSleepDeep:  entry.DeepMinutes,
		metrics.MetricSleepREM:   entry.REMMinutes,
		metrics.MetricSleepCore:  coreMinutes,
		metrics.MetricSleepAwake: float64(entry.Awakenings) * minutesPerAwakening,
	}
	for t, v := range stages {
		signals.Put(signal.Signal{
			Type:      t,
			Latest:    v,
			Aggregate: v,
			Samples:   1,
			Coverage:  1,
			State:     signal.StatePresent,
		})
	}
}

// DetectAnomalies flags today's result against the trailing trend
func (e *ReadinessEngine) DetectAnomalies(ctx context.Context, userID core.UserID, day core.Day) ([]anomaly.Alert, error) {
	result, err := e.scoreStore.GetScore(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	trend, err := e.scoreStore.GetTrend(ctx, userID, TrendDays, day.AddDays(-1))
	if err != nil {
		return nil, core.NewStorageError("read trend", err)
	}
	return e.detector.Detect(result, trend), nil
}

// GenerateInsights phrases today's result against the trailing trend
func (e *ReadinessEngine) GenerateInsights(ctx context.Context, userID core.UserID, day core.Day) (insight.Insights, error) {
	result, err := e.scoreStore.GetScore(ctx, userID, day)
	if err != nil {
		return insight.Insights{}, err
	}
	trend, err := e.scoreStore.GetTrend(ctx, userID, TrendDays, day.AddDays(-1))
	if err != nil {
		return insight.Insights{}, core.NewStorageError("read trend", err)
	}
	return insight.Generate(result, trend), nil
}
