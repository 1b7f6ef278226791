package trace

// TraceLog is the append-only record of completed stage intervals
// produced during a run. Insertion order is completion order, which is
// not necessarily part order: stages with different capacities and
// speeds let parts overtake each other between stages.
type TraceLog struct {
	records []StageRecord
}

// NewTraceLog creates an empty TraceLog ready for recording.
func NewTraceLog() *TraceLog {
	return &TraceLog{records: make([]StageRecord, 0)}
}

// Append adds a completed interval to the log.
func (tl *TraceLog) Append(r StageRecord) {
	tl.records = append(tl.records, r)
}

// Len returns the number of recorded intervals.
func (tl *TraceLog) Len() int {
	return len(tl.records)
}

// Records returns the log contents for iteration. The returned slice is
// the log's internal storage -- callers may iterate over it but MUST NOT
// modify it.
func (tl *TraceLog) Records() []StageRecord {
	return tl.records
}

// ByStage returns the intervals recorded for one stage, in completion
// order.
func (tl *TraceLog) ByStage(s Stage) []StageRecord {
	out := make([]StageRecord, 0)
	for _, r := range tl.records {
		if r.Stage == s {
			out = append(out, r)
		}
	}
	return out
}

// BusyTime returns the summed interval duration for one stage.
func (tl *TraceLog) BusyTime(s Stage) float64 {
	var total float64
	for _, r := range tl.records {
		if r.Stage == s {
			total += r.Duration()
		}
	}
	return total
}
