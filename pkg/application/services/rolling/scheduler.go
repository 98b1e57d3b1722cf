package rolling

import (
	"context"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/cohort"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/model"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/planning"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/warmstart"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/events"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/logging"
)

// State is the scheduler's warm-start state
type State int

const (
	// Cold means the next solve runs without a warm start.
	Cold State = iota
	// Warm means the next solve consumes the prior day's shifted solution.
	Warm
)

// String method for State enum
func (s State) String() string {
	if s == Warm {
		return "warm"
	}
	return "cold"
}

// Config controls the rolling loop
type Config struct {
	// HorizonDays is the fixed length of each re-solved window.
	HorizonDays int
	// ColdOnLowQuality discards below-threshold warm starts instead of
	// applying them.
	ColdOnLowQuality bool
}

// StepResult reports one daily re-solve
type StepResult struct {
	Today        time.Time
	Horizon      cohort.Horizon
	State        State
	Outcome      *planning.Outcome
	OverlapRatio float64
}

// Scheduler drives a sequence of daily re-solves, each warm-started from the
// shifted prior solution. The only state carried between solves is the
// explicitly held snapshot; Reset clears it before an unrelated sequence.
type Scheduler struct {
	planner *planning.Planner
	config  Config
	log     logging.Logger
	events  *events.Log

	state       State
	snapshot    *warmstart.Snapshot
	lastHorizon cohort.Horizon
}

// NewScheduler creates a scheduler in the Cold state
func NewScheduler(planner *planning.Planner, config Config, log logging.Logger, eventLog *events.Log) *Scheduler {
	if config.HorizonDays <= 0 {
		config.HorizonDays = 28
	}
	if log == nil {
		log = logging.Noop()
	}
	if eventLog == nil {
		eventLog = events.NewLog()
	}
	return &Scheduler{planner: planner, config: config, log: log, events: eventLog, state: Cold}
}

// CurrentState returns the scheduler's current warm-start state
func (s *Scheduler) CurrentState() State {
	return s.state
}

// Reset clears all carried warm-start state, returning to Cold. Call it
// before reusing the scheduler for an unrelated solve sequence.
func (s *Scheduler) Reset() {
	s.state = Cold
	s.snapshot = nil
	s.lastHorizon = cohort.Horizon{}
	s.events.Append("scheduler", events.SchedulerResetEvent, nil)
}

// Step re-solves the fixed-length horizon anchored at today. In the Warm
// state the prior snapshot is shifted to the new horizon and offered as a
// hint; a failed or unusable solve reverts the scheduler to Cold so that no
// warm start is ever derived from a failed solve.
func (s *Scheduler) Step(ctx context.Context, today time.Time) (*StepResult, error) {
	today = entities.DayOf(today)
	horizon := cohort.Horizon{Start: today, End: entities.AddDays(today, s.config.HorizonDays-1)}

	step := &StepResult{Today: today, Horizon: horizon, State: s.state}

	flexModel, ix, err := s.planner.BuildModel(horizon, model.FlexiblePhase)
	if err != nil {
		s.demote()
		return nil, err
	}

	var hints model.Assignment
	if s.state == Warm && s.snapshot != nil {
		shiftDays := entities.DaysBetween(s.lastHorizon.Start, today)
		shifted := s.planner.Warmstart().ShiftForward(s.snapshot, shiftDays, flexModel, horizon)
		step.OverlapRatio = shifted.OverlapRatio
		if shifted.LowQuality && s.config.ColdOnLowQuality {
			s.log.Info("discarding low-quality warm start", "overlap", shifted.OverlapRatio)
		} else {
			hints = shifted.Hints
		}
	}
	// Snapshots are consumed once; a fresh one is extracted below.
	s.snapshot = nil

	res, err := s.planner.Solve(ctx, flexModel, hints)
	if err != nil {
		s.demote()
		return nil, err
	}

	step.Outcome = &planning.Outcome{Index: ix, Model: flexModel, Result: res}

	if res.Status.Usable() {
		step.Outcome.Snapshot = s.planner.Warmstart().Extract(flexModel, res, horizon)
		s.snapshot = step.Outcome.Snapshot
		s.lastHorizon = horizon
		s.state = Warm
		s.events.Append("scheduler", events.HorizonRolledEvent, map[string]any{
			"today":  today.Format("2006-01-02"),
			"status": res.Status.String(),
		})
	} else {
		// Infeasible or errored solves contribute nothing to the next day.
		s.demote()
		s.log.Warn("solve unusable, reverting to cold start",
			"today", today.Format("2006-01-02"),
			"status", res.Status.String())
	}

	return step, nil
}

// Run executes count daily steps starting at start, advancing one day per
// step. Unusable solves demote the scheduler to Cold and the loop continues;
// adapter errors abort the run and return the steps completed so far.
func (s *Scheduler) Run(ctx context.Context, start time.Time, count int) ([]*StepResult, error) {
	var steps []*StepResult
	for i := 0; i < count; i++ {
		today := entities.AddDays(start, i)
		step, err := s.Step(ctx, today)
		if err != nil {
			return steps, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (s *Scheduler) demote() {
	s.state = Cold
	s.snapshot = nil
}
