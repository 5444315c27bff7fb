package model

// FlowTrace is the ordered sample sequence for one flow of an experiment.
// Rates are throughput samples in Mbit/s, Timestamps in seconds, both kept
// in file order and never re-sorted. The two may have different lengths: a
// record that carries a rate but no parseable timestamp still contributes
// to Rates. Timestamps exist only so a renderer can draw a time axis;
// statistics are computed over Rates alone.
type FlowTrace struct {
	Key        string    `json:"key"`
	Rates      []float64 `json:"rates"`
	Timestamps []float64 `json:"timestamps"`
}

// FlowStatistics is the read-only summary over one FlowTrace.
type FlowStatistics struct {
	FlowKey          string  `json:"flow"`
	AvgThroughput    float64 `json:"avg_throughput"`
	MinThroughput    float64 `json:"min_throughput"`
	MaxThroughput    float64 `json:"max_throughput"`
	MedianThroughput float64 `json:"median_throughput"`
	StdThroughput    float64 `json:"std_throughput"`
	FinalThroughput  float64 `json:"final_throughput"`
	Percentile95     float64 `json:"percentile_95"`
	Percentile5      float64 `json:"percentile_5"`
	Samples          int     `json:"samples"`
	// CoefficientVariation is std/mean*100. It is forced to 0 when the mean
	// is 0; a zero-mean flow is not the same thing as a constant flow.
	CoefficientVariation float64 `json:"coefficient_variation"`
	// Duration approximates seconds assuming one sample per second. It is
	// not wall-clock time when the sampling interval differs.
	Duration int `json:"duration"`
}

// PathDescriptor is one network path of a modeled topology. Capacity is the
// nominal capacity in Mbit/s; Latency and Loss are descriptive.
type PathDescriptor struct {
	Name     string  `json:"name"`
	Capacity float64 `json:"capacity"`
	Latency  string  `json:"latency"`
	Loss     string  `json:"loss"`
}

// TopologyDescriptor is the classification result for an experiment name.
// TheoreticalMax equals the sum of the constituent path capacities.
type TopologyDescriptor struct {
	Type             string           `json:"type"`
	Description      string           `json:"description"`
	Paths            []PathDescriptor `json:"paths"`
	TheoreticalMax   float64          `json:"theoretical_max"`
	BackboneCapacity string           `json:"backbone_capacity"`
}

// SubflowBreakdown compares one flow against the path it is mapped to.
type SubflowBreakdown struct {
	FlowID              int     `json:"flow_id"`
	PathName            string  `json:"path_name"`
	TheoreticalCapacity float64 `json:"theoretical_capacity"`
	ActualThroughput    float64 `json:"actual_throughput"`
	Efficiency          float64 `json:"efficiency"`
	UtilizationStatus   string  `json:"utilization_status"`
}

// CapacityAnalysis aggregates observed throughput against the topology's
// theoretical capacity.
type CapacityAnalysis struct {
	TheoreticalCapacity   float64            `json:"theoretical_capacity"`
	ActualThroughput      float64            `json:"actual_throughput"`
	AggregationEfficiency float64            `json:"aggregation_efficiency"`
	SubflowBreakdown      []SubflowBreakdown `json:"subflow_breakdown"`
	Bottlenecks           []string           `json:"bottlenecks_identified"`
}

// MonitorSummary reports the established-subflow and established-connection
// events found in the mptcp monitor logs. Counts cover the whole files;
// Subflows and Connections keep only a bounded prefix for display.
type MonitorSummary struct {
	SubflowCount    int      `json:"subflow_count"`
	ConnectionCount int      `json:"connection_count"`
	Subflows        []string `json:"subflows"`
	Connections     []string `json:"connections"`
}

// SubflowCapture is the per-subflow tally of an optional packet capture.
type SubflowCapture struct {
	Key     string `json:"key"`
	Packets uint64 `json:"packets"`
	Bytes   uint64 `json:"bytes"`
}

// CaptureSummary summarizes a pcap found next to the netperf dump. Subflows
// are sorted by key so repeated runs produce identical results.
type CaptureSummary struct {
	Packets  uint64           `json:"packets"`
	Bytes    uint64           `json:"bytes"`
	Duration float64          `json:"duration"`
	Subflows []SubflowCapture `json:"subflows"`
}

// ExperimentResult is the self-contained analysis of one experiment dump.
// It is immutable after the aggregator assembles it and is the sole
// contract with downstream report renderers.
type ExperimentResult struct {
	Name                string             `json:"name"`
	DumpDir             string             `json:"dump_dir"`
	Flows               []FlowTrace        `json:"flows"`
	FlowStats           []FlowStatistics   `json:"flow_stats"`
	TotalAvgThroughput  float64            `json:"total_avg_throughput"`
	TotalPeakThroughput float64            `json:"total_peak_throughput"`
	Monitor             MonitorSummary     `json:"mptcp_info"`
	Topology            TopologyDescriptor `json:"topology_info"`
	Capacity            CapacityAnalysis   `json:"subflow_capacities"`
	// Capture is nil when the dump contains no readable pcap.
	Capture *CaptureSummary `json:"capture,omitempty"`
}
