package minituna

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

//////
// Const, vars, types.
//////

// Study runs the optimization loop and answers best-trial queries. It owns
// one Storage and one Sampler for its whole lifetime.
type Study struct {
	id           uuid.UUID
	name         string
	storage      Storage
	sampler      Sampler
	logger       *slog.Logger
	concurrency  int
	progressChan chan<- ProgressUpdate
}

// progressTracker counts outcomes of one Optimize call.
type progressTracker struct {
	mu        sync.Mutex
	total     int
	completed int
	failed    int
}

//////
// Exported functionalities.
//////

// DefaultConfig returns a default configuration: in-memory storage, a
// clock-seeded random sampler, the default logger and sequential evaluation.
func DefaultConfig() Config {
	return Config{
		Storage:      NewInMemoryStorage(),
		Sampler:      NewRandomSampler(),
		Logger:       slog.Default(),
		Concurrency:  1,
		ProgressChan: nil, // Default to no progress updates.
	}
}

// NewStudy creates a Study from config, filling unset fields with defaults.
func NewStudy(config Config) *Study {
	id := uuid.New()

	s := &Study{
		id:           id,
		name:         config.Name,
		storage:      config.Storage,
		sampler:      config.Sampler,
		logger:       config.Logger,
		concurrency:  config.Concurrency,
		progressChan: config.ProgressChan,
	}

	if s.name == "" {
		s.name = "study-" + id.String()[:8]
	}

	if s.storage == nil {
		s.storage = NewInMemoryStorage()
	}

	if s.sampler == nil {
		s.sampler = NewRandomSampler()
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	if s.concurrency < 1 {
		s.concurrency = 1
	}

	return s
}

// CreateStudy creates a Study with DefaultConfig.
func CreateStudy() *Study {
	return NewStudy(DefaultConfig())
}

// Minimize is a shortcut that creates a default Study, runs nTrials trials
// and returns the best one.
//
// Usage example:
//
//	best, err := Minimize(ctx, func(trial *Trial) (float64, error) {
//	    x, err := trial.SuggestFloat("x", 0, 10)
//	    if err != nil {
//	        return 0, err
//	    }
//
//	    return (x - 3) * (x - 3), nil
//	}, 100)
func Minimize(ctx context.Context, objective ObjectiveFunc, nTrials int) (FrozenTrial, error) {
	study := CreateStudy()

	if err := study.Optimize(ctx, objective, nTrials); err != nil {
		return FrozenTrial{}, err
	}

	return study.BestTrial()
}

//////
// Methods.
//////

// ID returns the unique identifier of the study.
func (s *Study) ID() uuid.UUID { return s.id }

// Name returns the study name.
func (s *Study) Name() string { return s.name }

// Storage returns the study's storage.
func (s *Study) Storage() Storage { return s.storage }

// Trials returns snapshots of all trials, ordered by identifier.
func (s *Study) Trials() []FrozenTrial { return s.storage.AllTrials() }

// BestTrial returns the completed trial with the lowest objective value;
// ties go to the earliest trial. ErrNoCompletedTrials is returned when no
// trial completed.
func (s *Study) BestTrial() (FrozenTrial, error) { return s.storage.BestTrial() }

// BestValue returns the objective value of the best trial.
func (s *Study) BestValue() (float64, error) {
	best, err := s.storage.BestTrial()
	if err != nil {
		return 0, err
	}

	v, _ := best.ObjectiveValue()

	return v, nil
}

// BestParams returns the parameter values of the best trial.
func (s *Study) BestParams() (map[string]Value, error) {
	best, err := s.storage.BestTrial()
	if err != nil {
		return nil, err
	}

	return best.ParamValues(), nil
}

// Optimize runs nTrials trials of objective.
//
// For each trial:
// 1. a running trial is created in Storage
// 2. objective is called with a Trial handle bound to it
// 3. a returned score completes the trial; an error, a panic or a NaN score
// fails it
//
// A failed trial never stops the loop and its cause is not returned. The
// returned error is non-nil only when:
// - nTrials is negative or objective is nil
// - ctx is done; no new trial starts after that, running ones finish
// - Storage rejected finalizing a trial, meaning an invariant is broken
//
// With Concurrency > 1 up to that many trials are evaluated at once.
// Identifiers still cover 0..nTrials-1.
func (s *Study) Optimize(ctx context.Context, objective ObjectiveFunc, nTrials int) error {
	if nTrials < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTrialCount, nTrials)
	}

	if objective == nil {
		return ErrNilObjective
	}

	progress := &progressTracker{total: nTrials}

	if s.concurrency == 1 || nTrials <= 1 {
		for i := 0; i < nTrials; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			if err := s.runTrial(ctx, objective, progress); err != nil {
				return err
			}
		}

		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := 0; i < nTrials; i++ {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			return s.runTrial(gctx, objective, progress)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// runTrial creates, evaluates and finalizes one trial.
func (s *Study) runTrial(ctx context.Context, objective ObjectiveFunc, progress *progressTracker) error {
	id := s.storage.CreateTrial()

	logger := s.logger.With(slog.String("study", s.name), slog.Int("trial_id", id))
	logger.Info("trial created")

	ctx, span := startTrialSpan(ctx, s.name, id)
	defer span.End()

	trial := newTrial(ctx, s, id)

	start := time.Now()
	value, objErr := evaluate(objective, trial)
	duration := time.Since(start)

	trial.finish()

	if objErr == nil && math.IsNaN(value) {
		objErr = ErrNaNValue
	}

	state := TrialCompleted

	if objErr != nil {
		state = TrialFailed

		if err := s.storage.SetTrialState(id, TrialFailed, objErr.Error()); err != nil {
			return fmt.Errorf("finalize trial %d: %w", id, err)
		}

		logger.Warn("trial failed", slog.Any("error", objErr), slog.Duration("duration", duration))
	} else {
		if err := s.storage.SetTrialValue(id, value); err != nil {
			return fmt.Errorf("finalize trial %d: %w", id, err)
		}

		if err := s.storage.SetTrialState(id, TrialCompleted, ""); err != nil {
			return fmt.Errorf("finalize trial %d: %w", id, err)
		}

		logger.Info("trial completed", slog.Float64("value", value), slog.Duration("duration", duration))
	}

	setTrialSpanResult(span, state, value, objErr)
	recordTrialMetrics(ctx, s.name, duration, state)

	s.sendProgress(progress, id, state, value, duration)

	return nil
}

// sendProgress pushes a ProgressUpdate without blocking.
func (s *Study) sendProgress(progress *progressTracker, id int, state TrialState, value float64, duration time.Duration) {
	progress.mu.Lock()
	if state == TrialCompleted {
		progress.completed++
	} else {
		progress.failed++
		value = 0
	}

	update := ProgressUpdate{
		TrialID:     id,
		State:       state,
		Value:       value,
		Completed:   progress.completed,
		Failed:      progress.failed,
		Total:       progress.total,
		BestTrialID: -1,
		BestValue:   math.MaxFloat64,
		Duration:    duration,
	}
	progress.mu.Unlock()

	if s.progressChan == nil {
		return
	}

	if best, err := s.storage.BestTrial(); err == nil {
		update.BestTrialID = best.ID
		update.BestValue, _ = best.ObjectiveValue()
	}

	select {
	case s.progressChan <- update:
	default:
		// Skip update if channel is full.
	}
}

//////
// Helper functions.
//////

// evaluate calls objective, turning a panic into an error.
func evaluate(objective ObjectiveFunc, trial *Trial) (value float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrObjectivePanic, r)
		}
	}()

	return objective(trial)
}
