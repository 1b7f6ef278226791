package sim

import (
	"errors"
	"fmt"

	"github.com/factory-sim/factory-sim/sim/trace"
)

var (
	// ErrInvalidParameter reports a configuration value outside its
	// allowed range. Raised by Config.Validate before any simulation
	// state is built.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidDelay reports an event scheduled before the current
	// clock. That would drag the clock backward, so it is a defect in
	// the caller and is raised as a panic, not returned.
	ErrInvalidDelay = errors.New("invalid event delay")

	// ErrNoProduction reports that no stage interval completed within
	// the horizon. It is a recognized outcome, not a failure.
	ErrNoProduction = errors.New("no production within horizon")
)

// StageParams holds one stage's server count and mean service time.
type StageParams struct {
	Capacity int     // parallel machine slots, must be >= 1
	MeanTime float64 // mean service time in minutes, must be > 0
}

// Config groups every knob of a single run. It is read-only once the
// simulator is built; nothing carries over between runs.
type Config struct {
	Prep      StageParams
	Machining StageParams
	QC        StageParams

	ArrivalInterval float64 // mean part inter-arrival interval in minutes, must be > 0
	Horizon         float64 // shift length in minutes, must be >= 0

	PricePerUnit       float64 // selling price per finished unit
	CostPerMachineHour float64 // operating cost per machine-hour (labor + energy)
	RawMaterialCost    float64 // material cost per finished unit
}

// StageParams returns the parameters configured for a stage.
func (c Config) StageParams(s trace.Stage) StageParams {
	switch s {
	case trace.StagePrep:
		return c.Prep
	case trace.StageMachining:
		return c.Machining
	default:
		return c.QC
	}
}

// TotalCapacity is the installed machine count across all stages.
func (c Config) TotalCapacity() int {
	return c.Prep.Capacity + c.Machining.Capacity + c.QC.Capacity
}

// Validate checks every field against its allowed range and reports the
// first violation, wrapping ErrInvalidParameter. A zero horizon is
// accepted: it simply yields the no-production outcome.
func (c Config) Validate() error {
	for _, s := range trace.Stages() {
		p := c.StageParams(s)
		if p.Capacity < 1 {
			return fmt.Errorf("%w: %s capacity is %d, must be >= 1", ErrInvalidParameter, s, p.Capacity)
		}
		if p.MeanTime <= 0 {
			return fmt.Errorf("%w: %s mean time is %.4f, must be > 0", ErrInvalidParameter, s, p.MeanTime)
		}
	}
	if c.ArrivalInterval <= 0 {
		return fmt.Errorf("%w: arrival interval is %.4f, must be > 0", ErrInvalidParameter, c.ArrivalInterval)
	}
	if c.Horizon < 0 {
		return fmt.Errorf("%w: horizon is %.4f, must be >= 0", ErrInvalidParameter, c.Horizon)
	}
	if c.PricePerUnit < 0 {
		return fmt.Errorf("%w: price per unit is %.4f, must be >= 0", ErrInvalidParameter, c.PricePerUnit)
	}
	if c.CostPerMachineHour < 0 {
		return fmt.Errorf("%w: cost per machine-hour is %.4f, must be >= 0", ErrInvalidParameter, c.CostPerMachineHour)
	}
	if c.RawMaterialCost < 0 {
		return fmt.Errorf("%w: raw material cost is %.4f, must be >= 0", ErrInvalidParameter, c.RawMaterialCost)
	}
	return nil
}
