package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim/trace"
)

// Part is one unit of work flowing through the line. It is owned
// exclusively by its PartProcess; no other component mutates it.
type Part struct {
	ID        int     // monotonic sequence number, first part is 1
	CreatedAt float64 // arrival time in simulated minutes
}

// PartState tags where a PartProcess currently stands in its lifecycle.
type PartState int

const (
	PartArrived PartState = iota
	PartAwaitingPrep
	PartInPrep
	PartAwaitingMachining
	PartInMachining
	PartAwaitingQC
	PartInQC
	PartDeparted
)

func (s PartState) String() string {
	switch s {
	case PartArrived:
		return "Arrived"
	case PartAwaitingPrep:
		return "AwaitingPrep"
	case PartInPrep:
		return "InPrep"
	case PartAwaitingMachining:
		return "AwaitingMachining"
	case PartInMachining:
		return "InMachining"
	case PartAwaitingQC:
		return "AwaitingQC"
	case PartInQC:
		return "InQC"
	case PartDeparted:
		return "Departed"
	default:
		return fmt.Sprintf("PartState(%d)", int(s))
	}
}

// awaitingState maps a stage to the state of a part queued for it.
func awaitingState(st trace.Stage) PartState {
	switch st {
	case trace.StagePrep:
		return PartAwaitingPrep
	case trace.StageMachining:
		return PartAwaitingMachining
	default:
		return PartAwaitingQC
	}
}

// serviceState maps a stage to the state of a part being processed.
func serviceState(st trace.Stage) PartState {
	switch st {
	case trace.StagePrep:
		return PartInPrep
	case trace.StageMachining:
		return PartInMachining
	default:
		return PartInQC
	}
}

// PartProcess is the state machine a single part executes: for each
// stage in fixed line order, acquire one slot, hold it for a sampled
// service time, record the interval, release. Suspension is modeled as
// explicit continuations — a queued grant callback while awaiting a
// slot, a ServiceCompletionEvent while in service — so the part holds
// at most one slot at any time and emits no events after departing.
type PartProcess struct {
	part         *Part
	state        PartState
	stage        trace.Stage // stage currently awaited or occupied
	serviceStart float64     // service start time at the current stage
}

func newPartProcess(part *Part) *PartProcess {
	return &PartProcess{part: part, state: PartArrived}
}

// start queues the part at the first stage.
func (pp *PartProcess) start(sim *Simulator) {
	pp.enterStage(sim, trace.StagePrep)
}

// enterStage requests a slot at st. The process stays suspended until
// the pool grants one; the grant may fire immediately.
func (pp *PartProcess) enterStage(sim *Simulator, st trace.Stage) {
	pp.stage = st
	pp.state = awaitingState(st)
	sim.Pool(st).Acquire(func() {
		pp.beginService(sim)
	})
}

// beginService runs once a slot is granted: stamp the start time and
// suspend until the sampled service duration elapses.
func (pp *PartProcess) beginService(sim *Simulator) {
	pp.state = serviceState(pp.stage)
	pp.serviceStart = sim.Clock
	duration := sim.Variate.SampleExponential(sim.Config.StageParams(pp.stage).MeanTime)
	sim.Schedule(&ServiceCompletionEvent{time: sim.Clock + duration, proc: pp})
}

// completeService records the finished interval, releases the slot, and
// either advances the part to the next stage or departs it.
func (pp *PartProcess) completeService(sim *Simulator) {
	st := pp.stage
	sim.Trace.Append(trace.StageRecord{
		Part:   pp.part.ID,
		Stage:  st,
		Start:  pp.serviceStart,
		Finish: sim.Clock,
	})
	sim.Pool(st).Release()

	next, ok := st.Next()
	if !ok {
		pp.state = PartDeparted
		logrus.Infof("[%9.3f] >> departed: part-%03d", sim.Clock, pp.part.ID)
		return
	}
	pp.enterStage(sim, next)
}

// State returns the process's current lifecycle state.
func (pp *PartProcess) State() PartState {
	return pp.state
}
