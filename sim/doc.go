// Package sim provides the discrete-event simulation engine for a
// three-stage manufacturing line and the metrics derived from its trace.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - simulator.go: the event loop, clock, and (time, sequence) ordered event queue
//   - part.go: the PartProcess state machine (Arrived → ... → Departed)
//   - resource.go: capacity-limited stage pools with FIFO grant queues
//
// # Architecture
//
// The engine is single-threaded and cooperative: one event callback runs
// to completion at a time, so pools and the trace need no locking. A
// part "suspends" by leaving a continuation behind — a queued grant
// callback while it waits for a machine slot, a ServiceCompletionEvent
// while a sampled service time elapses.
//
// Pure data lives in a sub-package:
//   - sim/trace/: Stage, StageRecord, and the append-only TraceLog
//
// metrics.go consumes the finished trace exactly once per run and is a
// pure function of the trace and the configuration.
package sim
