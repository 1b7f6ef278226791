package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in simulated minutes) and an Execute
// method that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	Execute(*Simulator)
}

// ArrivalEvent represents the arrival of a new part at the line. It is
// a perpetual generator: each arrival schedules its own successor, so
// the stream ends only because the horizon stops event dispatch, never
// by an end condition of its own.
type ArrivalEvent struct {
	time float64
}

// Timestamp returns the scheduled time of the ArrivalEvent.
func (e *ArrivalEvent) Timestamp() float64 {
	return e.time
}

// Execute mints the next part, schedules the following arrival, and
// starts the part walking the line.
func (e *ArrivalEvent) Execute(sim *Simulator) {
	part := sim.NewPart(e.time)
	logrus.Infof("[%9.3f] << arrival: part-%03d", e.time, part.ID)

	sim.Schedule(&ArrivalEvent{
		time: e.time + sim.Variate.SampleExponential(sim.Config.ArrivalInterval),
	})

	newPartProcess(part).start(sim)
}

// ServiceCompletionEvent fires when a part's sampled service time at its
// current stage elapses. It resumes the suspended PartProcess.
type ServiceCompletionEvent struct {
	time float64
	proc *PartProcess
}

// Timestamp returns the scheduled time of the ServiceCompletionEvent.
func (e *ServiceCompletionEvent) Timestamp() float64 {
	return e.time
}

// Execute the ServiceCompletionEvent.
func (e *ServiceCompletionEvent) Execute(sim *Simulator) {
	e.proc.completeService(sim)
}
