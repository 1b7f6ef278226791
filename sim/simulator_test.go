package sim

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/factory-sim/factory-sim/sim/trace"
)

// probeEvent is a minimal Event for exercising the scheduler directly.
type probeEvent struct {
	time float64
	fn   func(sim *Simulator)
}

func (e *probeEvent) Timestamp() float64 { return e.time }
func (e *probeEvent) Execute(sim *Simulator) {
	if e.fn != nil {
		e.fn(sim)
	}
}

// quietConfig pushes the first arrival far past the horizon so scheduler
// tests observe only their own probe events.
func quietConfig(horizon float64) Config {
	cfg := validConfig()
	cfg.ArrivalInterval = 1e12
	cfg.Horizon = horizon
	return cfg
}

func TestSimulator_Run_EqualTimeEvents_FireInScheduleOrder(t *testing.T) {
	// GIVEN three events scheduled at the same timestamp
	s, err := NewSimulator(quietConfig(10), 1)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		s.Schedule(&probeEvent{time: 5, fn: func(*Simulator) { order = append(order, name) }})
	}

	// WHEN the simulation runs
	s.Run()

	// THEN equal-time events fire in insertion order
	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("fired events: got %d, want %d", len(order), len(want))
	}
	for i, name := range order {
		if name != want[i] {
			t.Errorf("fire order[%d]: got %s, want %s", i, name, want[i])
		}
	}
}

func TestSimulator_Run_ClockIsNonDecreasing(t *testing.T) {
	// GIVEN events scheduled out of insertion order
	s, err := NewSimulator(quietConfig(100), 1)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	var clocks []float64
	record := func(sim *Simulator) { clocks = append(clocks, sim.Clock) }
	for _, at := range []float64{30, 5, 70, 5, 50} {
		s.Schedule(&probeEvent{time: at, fn: record})
	}

	// WHEN the simulation runs
	s.Run()

	// THEN observed clocks never go backward
	if len(clocks) != 5 {
		t.Fatalf("fired events: got %d, want 5", len(clocks))
	}
	for i := 1; i < len(clocks); i++ {
		if clocks[i] < clocks[i-1] {
			t.Errorf("clock went backward at event %d: %.2f after %.2f", i, clocks[i], clocks[i-1])
		}
	}
}

func TestSimulator_Run_DiscardsEventsPastHorizon(t *testing.T) {
	// GIVEN one event inside the horizon and one past it
	s, err := NewSimulator(quietConfig(10), 1)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	var fired []float64
	record := func(sim *Simulator) { fired = append(fired, sim.Clock) }
	s.Schedule(&probeEvent{time: 5, fn: record})
	s.Schedule(&probeEvent{time: 15, fn: record})

	// WHEN the simulation runs
	s.Run()

	// THEN only the in-horizon event fires and the clock lands on the horizon
	if len(fired) != 1 || fired[0] != 5 {
		t.Errorf("fired events: got %v, want [5]", fired)
	}
	if s.Clock != 10 {
		t.Errorf("final clock: got %.2f, want 10", s.Clock)
	}
}

func TestSimulator_Schedule_PastEvent_Panics(t *testing.T) {
	s, err := NewSimulator(quietConfig(100), 1)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	s.Clock = 10

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for event scheduled in the past")
		}
		perr, ok := r.(error)
		if !ok || !errors.Is(perr, ErrInvalidDelay) {
			t.Errorf("panic value: got %v, want ErrInvalidDelay", r)
		}
	}()
	s.Schedule(&probeEvent{time: 5})
}

func TestNewSimulator_InvalidConfig_ReturnsError(t *testing.T) {
	cfg := validConfig()
	cfg.Machining.Capacity = 0
	s, err := NewSimulator(cfg, 1)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSimulator_Run_SameSeed_IdenticalResults(t *testing.T) {
	cfg := validConfig()
	cfg.Horizon = 240

	run := func() (*trace.TraceLog, *MetricsSummary) {
		s, err := NewSimulator(cfg, 42)
		if err != nil {
			t.Fatalf("NewSimulator: %v", err)
		}
		s.Run()
		m, err := ComputeMetrics(s.Trace, cfg)
		if err != nil {
			t.Fatalf("ComputeMetrics: %v", err)
		}
		return s.Trace, m
	}

	trace1, summary1 := run()
	trace2, summary2 := run()

	assert.Equal(t, trace1.Records(), trace2.Records())
	assert.Equal(t, summary1, summary2)
}

func TestSimulator_Run_ZeroHorizon_NoProduction(t *testing.T) {
	cfg := validConfig()
	cfg.Horizon = 0

	s, err := NewSimulator(cfg, 42)
	assert.NoError(t, err)
	s.Run()

	assert.Equal(t, 0, s.Trace.Len())
	_, err = ComputeMetrics(s.Trace, cfg)
	assert.ErrorIs(t, err, ErrNoProduction)
}

func TestSimulator_Run_PartsWalkStagesInOrder(t *testing.T) {
	// GIVEN a busy shift
	cfg := validConfig()
	cfg.Horizon = 480
	s, err := NewSimulator(cfg, 7)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}

	// WHEN the simulation runs
	s.Run()
	if s.Trace.Len() == 0 {
		t.Fatal("expected production within a full shift")
	}

	// THEN each part has at most one interval per stage, in line order,
	// with no overlap between consecutive stages
	type partIntervals map[trace.Stage]trace.StageRecord
	parts := make(map[int]partIntervals)
	for _, r := range s.Trace.Records() {
		if r.Finish < r.Start {
			t.Fatalf("part %d %s: finish %.4f before start %.4f", r.Part, r.Stage, r.Finish, r.Start)
		}
		if parts[r.Part] == nil {
			parts[r.Part] = make(partIntervals)
		}
		if _, dup := parts[r.Part][r.Stage]; dup {
			t.Fatalf("part %d has two %s intervals", r.Part, r.Stage)
		}
		parts[r.Part][r.Stage] = r
	}
	for id, intervals := range parts {
		prep, hasPrep := intervals[trace.StagePrep]
		mach, hasMach := intervals[trace.StageMachining]
		qc, hasQC := intervals[trace.StageQC]
		if hasMach && !hasPrep {
			t.Errorf("part %d machined without prep", id)
		}
		if hasQC && !hasMach {
			t.Errorf("part %d inspected without machining", id)
		}
		if hasPrep && hasMach && mach.Start < prep.Finish {
			t.Errorf("part %d machining started %.4f before prep finished %.4f", id, mach.Start, prep.Finish)
		}
		if hasMach && hasQC && qc.Start < mach.Finish {
			t.Errorf("part %d qc started %.4f before machining finished %.4f", id, qc.Start, mach.Finish)
		}
	}
}

func TestSimulator_Run_ConcurrencyNeverExceedsCapacity(t *testing.T) {
	// GIVEN a shift with a single machining center under heavy load
	cfg := validConfig()
	cfg.ArrivalInterval = 2
	cfg.Horizon = 480
	s, err := NewSimulator(cfg, 11)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}

	// WHEN the simulation runs
	s.Run()

	// THEN for every stage, the recorded intervals never overlap more
	// deeply than the stage's capacity
	for _, st := range trace.Stages() {
		capacity := cfg.StageParams(st).Capacity
		type edge struct {
			at    float64
			delta int
		}
		var edges []edge
		for _, r := range s.Trace.ByStage(st) {
			edges = append(edges, edge{r.Start, +1}, edge{r.Finish, -1})
		}
		// at equal times a freed slot is reusable, so releases sort first
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].at != edges[j].at {
				return edges[i].at < edges[j].at
			}
			return edges[i].delta < edges[j].delta
		})
		busy := 0
		for _, e := range edges {
			busy += e.delta
			if busy > capacity {
				t.Fatalf("%s: %d concurrent intervals exceed capacity %d at t=%.4f", st, busy, capacity, e.at)
			}
		}
	}
}
