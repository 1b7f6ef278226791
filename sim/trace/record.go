// Package trace provides the production log shared between the simulator
// and the reporting layer. This package has no dependencies on sim/ — it
// stores pure data types.
package trace

import "fmt"

// Stage identifies one of the three sequential processing steps a part
// passes through. Declaration order is the line order, and it doubles as
// the fixed precedence used to break utilization ties deterministically.
type Stage int

const (
	StagePrep Stage = iota
	StageMachining
	StageQC
)

// Stages returns all stages in line order.
func Stages() []Stage {
	return []Stage{StagePrep, StageMachining, StageQC}
}

func (s Stage) String() string {
	switch s {
	case StagePrep:
		return "Prep"
	case StageMachining:
		return "Machining"
	case StageQC:
		return "QC"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Next returns the stage following s on the line, and false when s is
// the final stage.
func (s Stage) Next() (Stage, bool) {
	if s >= StageQC {
		return s, false
	}
	return s + 1, true
}

// StageRecord captures one completed processing interval: part Part held
// one Stage slot from Start to Finish (simulated minutes). Records are
// immutable once appended to a TraceLog.
type StageRecord struct {
	Part   int
	Stage  Stage
	Start  float64
	Finish float64
}

// Duration returns the interval length in simulated minutes.
func (r StageRecord) Duration() float64 {
	return r.Finish - r.Start
}

// PartName formats the part's display name, e.g. "part-007".
func (r StageRecord) PartName() string {
	return fmt.Sprintf("part-%03d", r.Part)
}
