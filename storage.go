package minituna

import (
	"fmt"
	"sync"
	"time"
)

//////
// Const, vars, types.
//////

// Storage is the single source of truth for trial state. It is an
// append-only ledger of trials indexed by sequential identifiers; every
// mutation of a trial goes through it.
//
// Implementations must:
// - assign identifiers 0, 1, 2, ... in creation order, never reusing one
// - reject parameter, value and state mutation of finished trials
// - return deep copies from Trial and AllTrials
// - be safe for concurrent use
type Storage interface {
	// CreateTrial appends a running trial and returns its identifier.
	CreateTrial() int

	// Trial returns a snapshot of trial id.
	Trial(id int) (FrozenTrial, error)

	// AllTrials returns snapshots of every trial, ordered by identifier.
	AllTrials() []FrozenTrial

	// Len returns the number of trials created so far.
	Len() int

	// SetTrialParam records a sampled parameter; the last write for a name
	// wins.
	SetTrialParam(id int, name string, dist Distribution, internal float64) error

	// SetTrialValue records the objective value of a running trial.
	SetTrialValue(id int, value float64) error

	// SetTrialState moves a running trial to a terminal state. reason is kept
	// for failed trials.
	SetTrialState(id int, state TrialState, reason string) error

	// BestTrial returns the completed trial with the lowest value, ties going
	// to the lowest identifier.
	BestTrial() (FrozenTrial, error)
}

// InMemoryStorage is a Storage backed by a dense slice. Trials live as long
// as the value does.
type InMemoryStorage struct {
	// mu protects trials.
	mu sync.RWMutex

	// trials[i] is the trial with identifier i.
	trials []FrozenTrial

	// now is swappable for tests.
	now func() time.Time
}

//////
// Factory.
//////

// NewInMemoryStorage returns an empty InMemoryStorage.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{now: time.Now}
}

//////
// Methods.
//////

// CreateTrial implements Storage.
func (s *InMemoryStorage) CreateTrial() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := len(s.trials)
	s.trials = append(s.trials, FrozenTrial{
		ID:        id,
		State:     TrialRunning,
		Params:    map[string]Param{},
		StartedAt: s.now(),
	})

	return id
}

// Trial implements Storage.
func (s *InMemoryStorage) Trial(id int) (FrozenTrial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.get(id)
	if err != nil {
		return FrozenTrial{}, err
	}

	return t.clone(), nil
}

// AllTrials implements Storage.
func (s *InMemoryStorage) AllTrials() []FrozenTrial {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]FrozenTrial, len(s.trials))
	for i, t := range s.trials {
		out[i] = t.clone()
	}

	return out
}

// Len implements Storage.
func (s *InMemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.trials)
}

// SetTrialParam implements Storage.
func (s *InMemoryStorage) SetTrialParam(id int, name string, dist Distribution, internal float64) error {
	if dist == nil {
		return fmt.Errorf("%w: nil distribution for %q", ErrUnknownDistribution, name)
	}

	value, err := dist.ToExternal(internal)
	if err != nil {
		return fmt.Errorf("param %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getRunning(id)
	if err != nil {
		return err
	}

	t.Params[name] = Param{
		Distribution: cloneDistribution(dist),
		Internal:     internal,
		Value:        value,
	}

	return nil
}

// SetTrialValue implements Storage.
func (s *InMemoryStorage) SetTrialValue(id int, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getRunning(id)
	if err != nil {
		return err
	}

	t.Value = &value

	return nil
}

// SetTrialState implements Storage.
func (s *InMemoryStorage) SetTrialState(id int, state TrialState, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getRunning(id)
	if err != nil {
		return err
	}

	switch state {
	case TrialCompleted:
		if t.Value == nil {
			return fmt.Errorf("trial %d: %w", id, ErrValueNotSet)
		}
	case TrialFailed:
		// A failed trial never exposes a value, even one set provisionally.
		t.Value = nil
		t.FailReason = reason
	default:
		return fmt.Errorf("trial %d: %w: %s -> %s", id, ErrInvalidTransition, t.State, state)
	}

	t.State = state
	t.FinishedAt = s.now()

	return nil
}

// BestTrial implements Storage.
func (s *InMemoryStorage) BestTrial() (FrozenTrial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := -1
	for i, t := range s.trials {
		if t.State != TrialCompleted {
			continue
		}

		// Strict comparison keeps the earliest trial on ties.
		if best < 0 || *t.Value < *s.trials[best].Value {
			best = i
		}
	}

	if best < 0 {
		return FrozenTrial{}, ErrNoCompletedTrials
	}

	return s.trials[best].clone(), nil
}

//////
// Helpers. Callers must hold mu.
//////

func (s *InMemoryStorage) get(id int) (*FrozenTrial, error) {
	if id < 0 || id >= len(s.trials) {
		return nil, fmt.Errorf("%w: id %d (have %d trials)", ErrTrialNotFound, id, len(s.trials))
	}

	return &s.trials[id], nil
}

func (s *InMemoryStorage) getRunning(id int) (*FrozenTrial, error) {
	t, err := s.get(id)
	if err != nil {
		return nil, err
	}

	if t.State.IsFinished() {
		return nil, fmt.Errorf("trial %d is %s: %w", id, t.State, ErrTrialFinished)
	}

	return t, nil
}
