package operations

import (
	"sync"
	"time"

	"workshopcli/internal/exporter"
	"workshopcli/internal/files"
	"workshopcli/pkg/contracts/domain"
)

// RunState carries the inputs, intermediate results and step states of one
// report run. Each step reads what earlier steps left behind.
type RunState struct {
	mu        sync.RWMutex
	ID        string
	StartTime time.Time
	EndTime   *time.Time

	InputDir   string
	OutputPath string

	Files   []files.FileInfo
	Results []domain.ParticipantResult
	Failed  int
	Report  *domain.WorkshopReport
	Tables  []exporter.Table

	steps []*StepState
	index map[string]*StepState
}

// NewRunState creates the state for one run
func NewRunState(id, inputDir, outputPath string) *RunState {
	return &RunState{
		ID:         id,
		StartTime:  time.Now(),
		InputDir:   inputDir,
		OutputPath: outputPath,
		index:      make(map[string]*StepState),
	}
}

// registerStep adds the state of a step, keeping pipeline order
func (r *RunState) registerStep(step Step) *StepState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.index[step.ID()]; ok {
		return existing
	}
	state := NewStepState(step.ID(), step.Name())
	r.steps = append(r.steps, state)
	r.index[step.ID()] = state
	return state
}

// GetStep returns the state of a step, or nil when unknown
func (r *RunState) GetStep(id string) *StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index[id]
}

// Steps returns the step states in pipeline order
func (r *RunState) Steps() []*StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*StepState, len(r.steps))
	copy(out, r.steps)
	return out
}

// Finish records the run end time
func (r *RunState) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.EndTime = &now
}

// Duration returns how long the run took, or has taken so far
func (r *RunState) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	return time.Since(r.StartTime)
}
