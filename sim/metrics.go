// Derives operational and financial indicators from a completed run's
// production trace.

package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/factory-sim/factory-sim/sim/trace"
)

// MetricsSummary holds the indicators derived from one run's TraceLog.
// It is recomputed fresh from the log each time — never persisted or
// mutated incrementally.
type MetricsSummary struct {
	FinishedParts int // parts that cleared QC within the horizon

	Utilization           map[trace.Stage]float64 // percent of capacity-time spent busy
	Bottleneck            trace.Stage
	BottleneckUtilization float64

	AvgLeadTime       float64 // mean duration across all stage intervals (min)
	P95LeadTime       float64 // 95th percentile of stage interval durations (min)
	AvgFlowTime       float64 // mean first-Prep-start to QC-finish over finished parts (min)
	ThroughputPerHour float64 // finished units per shift-hour

	TotalRevenue       float64
	TotalOperatingCost float64
	TotalMaterialCost  float64
	NetProfit          float64
	MarginPercent      float64 // 0 when there is no revenue
}

// ComputeMetrics derives a MetricsSummary from a run's trace and its
// configuration. It is pure and idempotent: the same log and config
// always produce the same summary. An empty log yields ErrNoProduction
// instead of ratios computed over no data.
func ComputeMetrics(tl *trace.TraceLog, cfg Config) (*MetricsSummary, error) {
	if tl == nil || tl.Len() == 0 {
		return nil, ErrNoProduction
	}

	m := &MetricsSummary{
		Utilization: make(map[trace.Stage]float64, len(trace.Stages())),
	}

	// Only parts that cleared QC count as finished output.
	m.FinishedParts = len(tl.ByStage(trace.StageQC))

	// Utilization measures busy-time against the full horizon, so 100%
	// means every slot was busy for the entire shift. A part still in
	// service at the trace end cannot inflate this past 100%. A zero
	// horizon leaves no capacity-time to measure against, so the stage
	// reads 0 rather than dividing by zero.
	for _, st := range trace.Stages() {
		capacityTime := float64(cfg.StageParams(st).Capacity) * cfg.Horizon
		if capacityTime > 0 {
			m.Utilization[st] = tl.BusyTime(st) / capacityTime * 100
		}
	}

	// Bottleneck is the argmax over utilization. The strict comparison
	// keeps the earlier stage on ties, so the result is deterministic:
	// Prep before Machining before QC.
	m.Bottleneck = trace.StagePrep
	for _, st := range trace.Stages() {
		if m.Utilization[st] > m.Utilization[m.Bottleneck] {
			m.Bottleneck = st
		}
	}
	m.BottleneckUtilization = m.Utilization[m.Bottleneck]

	durations := make([]float64, 0, tl.Len())
	for _, r := range tl.Records() {
		durations = append(durations, r.Duration())
	}
	// Flat mean across stage intervals, not a part's end-to-end time;
	// AvgFlowTime below carries the end-to-end view.
	m.AvgLeadTime = stat.Mean(durations, nil)
	sort.Float64s(durations)
	m.P95LeadTime = stat.Quantile(0.95, stat.Empirical, durations, nil)

	m.AvgFlowTime = meanFlowTime(tl)

	shiftHours := cfg.Horizon / 60
	if shiftHours > 0 {
		m.ThroughputPerHour = float64(m.FinishedParts) / shiftHours
	}

	// Financials: revenue over finished units, operating cost over
	// every installed machine for the whole shift, material cost per
	// finished unit.
	m.TotalRevenue = float64(m.FinishedParts) * cfg.PricePerUnit
	m.TotalOperatingCost = float64(cfg.TotalCapacity()) * cfg.CostPerMachineHour * shiftHours
	m.TotalMaterialCost = float64(m.FinishedParts) * cfg.RawMaterialCost
	m.NetProfit = m.TotalRevenue - (m.TotalOperatingCost + m.TotalMaterialCost)
	if m.TotalRevenue > 0 {
		m.MarginPercent = m.NetProfit / m.TotalRevenue * 100
	}

	return m, nil
}

// meanFlowTime averages first-Prep-start to QC-finish over parts that
// completed QC. Parts still mid-line at the horizon are excluded. Flows
// accumulate in trace order, never map order, so the floating-point sum
// is identical on every call over the same log.
func meanFlowTime(tl *trace.TraceLog) float64 {
	prepStart := make(map[int]float64)
	flows := make([]float64, 0)
	for _, r := range tl.Records() {
		switch r.Stage {
		case trace.StagePrep:
			prepStart[r.Part] = r.Start
		case trace.StageQC:
			if start, ok := prepStart[r.Part]; ok {
				flows = append(flows, r.Finish-start)
			}
		}
	}
	if len(flows) == 0 {
		return 0
	}
	return stat.Mean(flows, nil)
}

// Print displays the report at the end of a run: financial performance
// first, then operational KPIs, then per-stage utilization.
func (m *MetricsSummary) Print() {
	fmt.Println("=== Financial Performance ===")
	fmt.Printf("Total Revenue        : %10.2f\n", m.TotalRevenue)
	fmt.Printf("Operating Cost       : %10.2f\n", m.TotalOperatingCost)
	fmt.Printf("Material Cost        : %10.2f\n", m.TotalMaterialCost)
	fmt.Printf("Net Profit           : %10.2f (%.1f%% margin)\n", m.NetProfit, m.MarginPercent)

	fmt.Println("=== Operational KPIs ===")
	fmt.Printf("Production Output    : %d units\n", m.FinishedParts)
	fmt.Printf("Throughput Rate      : %.1f units/hr\n", m.ThroughputPerHour)
	fmt.Printf("Avg Stage Lead Time  : %.1f min (p95 %.1f min)\n", m.AvgLeadTime, m.P95LeadTime)
	fmt.Printf("Avg Part Flow Time   : %.1f min\n", m.AvgFlowTime)
	fmt.Printf("Bottleneck Station   : %s (%.1f%% utilization)\n", m.Bottleneck, m.BottleneckUtilization)
	for _, st := range trace.Stages() {
		fmt.Printf("Utilization %-9s: %.1f%%\n", st.String(), m.Utilization[st])
	}
}
