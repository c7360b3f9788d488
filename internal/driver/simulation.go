package driver

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/logging"
)

// DefaultBoatsPerDay is the number of arrivals per simulated day.
const DefaultBoatsPerDay = 5

// maxCodeAttempts bounds how often a colliding identity code is redrawn.
const maxCodeAttempts = 10

// Target receives simulated traffic. Each call must be applied atomically
// with respect to other callers.
type Target interface {
	Admit(b *boat.Boat) (bool, error)
	Tick()
}

// DayReport summarizes one simulated day.
type DayReport struct {
	Arrived    int
	TurnedAway int
	Skipped    int
}

// Simulation admits random boats and then advances the day, once per
// interval.
type Simulation struct {
	target      Target
	interval    time.Duration
	boatsPerDay int
	rand        *rand.Rand
	onDay       func(DayReport)
}

// SimulationOption configures a Simulation.
type SimulationOption func(*Simulation)

// WithBoatsPerDay sets the number of arrivals per day.
func WithBoatsPerDay(n int) SimulationOption {
	return func(s *Simulation) {
		s.boatsPerDay = n
	}
}

// WithRand sets the random source used to generate boats.
func WithRand(r *rand.Rand) SimulationOption {
	return func(s *Simulation) {
		s.rand = r
	}
}

// OnDay registers a callback run after every simulated day.
func OnDay(fn func(DayReport)) SimulationOption {
	return func(s *Simulation) {
		s.onDay = fn
	}
}

// NewSimulation creates a simulation driving target every interval.
func NewSimulation(target Target, interval time.Duration, opts ...SimulationOption) *Simulation {
	s := &Simulation{
		target:      target,
		interval:    interval,
		boatsPerDay: DefaultBoatsPerDay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run simulates one day per interval until ctx is done.
func (s *Simulation) Run(ctx context.Context) error {
	logging.Debug("starting simulation", "interval", s.interval, "boatsPerDay", s.boatsPerDay)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Day(ctx)
		}
	}
}

// Day runs one simulated day. Cancellation is honoured between arrivals;
// once the arrivals are done the tick always runs.
func (s *Simulation) Day(ctx context.Context) DayReport {
	var report DayReport
	for i := 0; i < s.boatsPerDay; i++ {
		if ctx.Err() != nil {
			return report
		}
		ok, err := s.arrive()
		switch {
		case err != nil:
			report.Skipped++
			logging.Debug("simulated arrival skipped", "error", err)
		case ok:
			report.Arrived++
		default:
			report.TurnedAway++
		}
	}
	s.target.Tick()

	if s.onDay != nil {
		s.onDay(report)
	}
	return report
}

// arrive admits one random boat, redrawing its code on identity clashes.
func (s *Simulation) arrive() (bool, error) {
	_, b := boat.Random(s.rand)
	var err error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		var ok bool
		ok, err = s.target.Admit(b)
		if !errors.IsDuplicateIdentity(err) {
			return ok, err
		}
		b.RegenerateCode(s.rand)
	}
	return false, err
}
