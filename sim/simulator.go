// sim/simulator.go
package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim/trace"
)

// scheduledEvent pairs an event with its insertion sequence number so
// that equal-time events fire in the order they were scheduled.
type scheduledEvent struct {
	ev  Event
	seq uint64
}

// EventQueue implements heap.Interface and orders events by
// (timestamp, insertion sequence). The sequence tie-break makes
// dispatch order — and with it the whole run — deterministic for a
// fixed seed.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []*scheduledEvent

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	ti, tj := eq[i].ev.Timestamp(), eq[j].ev.Timestamp()
	if ti != tj {
		return ti < tj
	}
	return eq[i].seq < eq[j].seq
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(*scheduledEvent))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator is the core object that holds simulated time, line state,
// and the event loop. It is logically single-threaded and cooperative:
// exactly one event callback runs to completion at a time and callbacks
// never interleave, so the pools and the trace need no locking.
type Simulator struct {
	Clock   float64 // simulated minutes; non-decreasing for the whole run
	Config  Config
	Variate *RandomVariate
	Trace   *trace.TraceLog

	eventQueue EventQueue
	pools      [3]*ResourcePool // indexed by trace.Stage
	nextSeq    uint64
	nextPartID int
}

// NewSimulator validates cfg and builds a single run: fresh clock,
// pools, trace, and a sampler seeded with seed. Nothing survives the
// run except the trace.
func NewSimulator(cfg Config, seed int64) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		Config:     cfg,
		Variate:    NewRandomVariate(seed),
		Trace:      trace.NewTraceLog(),
		eventQueue: make(EventQueue, 0),
	}
	for _, st := range trace.Stages() {
		s.pools[st] = NewResourcePool(st, cfg.StageParams(st).Capacity)
	}
	return s, nil
}

// Pool returns the resource pool serving a stage.
func (sim *Simulator) Pool(st trace.Stage) *ResourcePool {
	return sim.pools[st]
}

// NewPart mints the next part in arrival order.
func (sim *Simulator) NewPart(now float64) *Part {
	sim.nextPartID++
	return &Part{ID: sim.nextPartID, CreatedAt: now}
}

// Schedule registers ev to fire at its timestamp. An event scheduled
// before the current clock would drag the clock backward; that breaks
// the monotonicity invariant and aborts the run.
func (sim *Simulator) Schedule(ev Event) {
	if ev.Timestamp() < sim.Clock {
		panic(fmt.Errorf("%w: event at %.4f scheduled while clock is at %.4f",
			ErrInvalidDelay, ev.Timestamp(), sim.Clock))
	}
	heap.Push(&sim.eventQueue, &scheduledEvent{ev: ev, seq: sim.nextSeq})
	sim.nextSeq++
}

// Run seeds the arrival stream and drives the event loop: repeatedly
// pop the earliest event, advance the clock to it, execute it. The loop
// stops when the queue is empty or the next event lies past the
// horizon; events past the horizon are discarded unexecuted (not
// cancelled mid-flight — they simply never fire) and the clock lands
// exactly on the horizon.
func (sim *Simulator) Run() {
	sim.Schedule(&ArrivalEvent{
		time: sim.Variate.SampleExponential(sim.Config.ArrivalInterval),
	})

	for sim.eventQueue.Len() > 0 {
		if sim.eventQueue[0].ev.Timestamp() > sim.Config.Horizon {
			break
		}
		// get the next event to be simulated
		ev := heap.Pop(&sim.eventQueue).(*scheduledEvent).ev
		// advance the clock
		sim.Clock = ev.Timestamp()
		logrus.Debugf("[%9.3f] executing %T", sim.Clock, ev)
		// process the event
		ev.Execute(sim)
	}

	sim.Clock = sim.Config.Horizon
	logrus.Infof("[%9.3f] simulation ended, %d stage intervals recorded", sim.Clock, sim.Trace.Len())
}
