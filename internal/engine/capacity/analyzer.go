// Package capacity derives utilization efficiency and bottleneck
// diagnoses from observed flow statistics and the modeled topology.
package capacity

import (
	"MPTCPSpectra/internal/model"
	"fmt"
	"strings"
)

// Utilization status thresholds. Boundaries belong to the lower bucket:
// an efficiency of exactly 80 is Good, not Excellent.
const (
	excellentThreshold = 80
	goodThreshold      = 60
	moderateThreshold  = 40
)

// A flow below this efficiency is flagged as bottlenecked.
const bottleneckThreshold = 70

// Analyze combines per-flow statistics with the topology descriptor.
//
// Flow i is paired with paths[min(i, len(paths)-1)]: when an experiment
// produced more flows than the topology models paths, the excess flows
// reuse the last path's capacity. This is a documented approximation, not
// a per-flow path attribution.
//
// Bottleneck causes are a display heuristic keyed on the same name
// substrings as topology classification; they are not measured root
// causes.
func Analyze(experimentName string, topo model.TopologyDescriptor, flowStats []model.FlowStatistics) model.CapacityAnalysis {
	analysis := model.CapacityAnalysis{
		TheoreticalCapacity: topo.TheoreticalMax,
	}

	for _, fs := range flowStats {
		analysis.ActualThroughput += fs.AvgThroughput
	}
	if topo.TheoreticalMax > 0 {
		analysis.AggregationEfficiency = analysis.ActualThroughput / topo.TheoreticalMax * 100
	}

	lowerName := strings.ToLower(experimentName)
	for i, fs := range flowStats {
		pathIdx := i
		if pathIdx > len(topo.Paths)-1 {
			pathIdx = len(topo.Paths) - 1
		}
		path := topo.Paths[pathIdx]

		efficiency := 0.0
		if path.Capacity > 0 {
			efficiency = fs.AvgThroughput / path.Capacity * 100
		}

		analysis.SubflowBreakdown = append(analysis.SubflowBreakdown, model.SubflowBreakdown{
			FlowID:              i + 1,
			PathName:            path.Name,
			TheoreticalCapacity: path.Capacity,
			ActualThroughput:    fs.AvgThroughput,
			Efficiency:          efficiency,
			UtilizationStatus:   utilizationStatus(efficiency),
		})

		if efficiency < bottleneckThreshold {
			analysis.Bottlenecks = append(analysis.Bottlenecks,
				fmt.Sprintf("Flow %d: %s (efficiency: %.1f%%)", i+1, bottleneckCause(lowerName), efficiency))
		}
	}

	return analysis
}

func utilizationStatus(efficiency float64) string {
	switch {
	case efficiency > excellentThreshold:
		return "Excellent"
	case efficiency > goodThreshold:
		return "Good"
	case efficiency > moderateThreshold:
		return "Moderate"
	default:
		return "Poor"
	}
}

func bottleneckCause(lowerName string) string {
	switch {
	case strings.Contains(lowerName, "mega"):
		return "Network congestion"
	case strings.Contains(lowerName, "wireless"):
		return "Packet loss"
	default:
		return "Path limitations"
	}
}
