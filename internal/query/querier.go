package query

import (
	"MPTCPSpectra/internal/config"
	"MPTCPSpectra/internal/model"
	"MPTCPSpectra/internal/storage"
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ExperimentSummary is one row of the experiment listing.
type ExperimentSummary struct {
	Experiment            string    `json:"experiment"`
	TopologyType          string    `json:"topology_type"`
	TheoreticalMax        float64   `json:"theoretical_max"`
	AggregationEfficiency float64   `json:"aggregation_efficiency"`
	FlowCount             uint64    `json:"flow_count"`
	TotalAvgThroughput    float64   `json:"total_avg_throughput"`
	LastAnalyzed          time.Time `json:"last_analyzed"`
}

// Querier defines the interface for querying stored experiment metrics.
type Querier interface {
	// ListExperiments returns one summary per experiment, based on the
	// most recent batch each experiment appears in.
	ListExperiments(ctx context.Context) ([]ExperimentSummary, error)

	// ExperimentFlows returns the per-flow breakdown rows of the most
	// recent batch for one experiment.
	ExperimentFlows(ctx context.Context, experiment string) ([]model.SubflowBreakdown, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn driver.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := storage.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

// Rows are restricted to each experiment's most recent batch first, so the
// aggregates describe the latest analysis only.
const listExperimentsQuery = `
SELECT
    Experiment,
    any(TopologyType)          AS TopologyType,
    any(TheoreticalMax)        AS TheoreticalMax,
    any(AggregationEfficiency) AS AggregationEfficiency,
    count()                    AS FlowCount,
    sum(AvgThroughput)         AS TotalAvgThroughput,
    max(Timestamp)             AS LastAnalyzed
FROM subflow_metrics
WHERE (Experiment, Timestamp) IN (
    SELECT Experiment, max(Timestamp)
    FROM subflow_metrics
    GROUP BY Experiment
)
GROUP BY Experiment
ORDER BY Experiment
`

func (q *clickhouseQuerier) ListExperiments(ctx context.Context) ([]ExperimentSummary, error) {
	rows, err := q.conn.Query(ctx, listExperimentsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query experiments: %w", err)
	}
	defer rows.Close()

	var summaries []ExperimentSummary
	for rows.Next() {
		var s ExperimentSummary
		if err := rows.Scan(&s.Experiment, &s.TopologyType, &s.TheoreticalMax,
			&s.AggregationEfficiency, &s.FlowCount, &s.TotalAvgThroughput, &s.LastAnalyzed); err != nil {
			return nil, fmt.Errorf("failed to scan experiment summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

const experimentFlowsQuery = `
SELECT
    FlowID,
    PathName,
    PathCapacity,
    AvgThroughput,
    Efficiency,
    UtilizationStatus
FROM subflow_metrics
WHERE Experiment = ?
  AND Timestamp = (SELECT max(Timestamp) FROM subflow_metrics WHERE Experiment = ?)
ORDER BY FlowID
`

func (q *clickhouseQuerier) ExperimentFlows(ctx context.Context, experiment string) ([]model.SubflowBreakdown, error) {
	rows, err := q.conn.Query(ctx, experimentFlowsQuery, experiment, experiment)
	if err != nil {
		return nil, fmt.Errorf("failed to query flows for '%s': %w", experiment, err)
	}
	defer rows.Close()

	var flows []model.SubflowBreakdown
	for rows.Next() {
		var flowID uint32
		var b model.SubflowBreakdown
		if err := rows.Scan(&flowID, &b.PathName, &b.TheoreticalCapacity,
			&b.ActualThroughput, &b.Efficiency, &b.UtilizationStatus); err != nil {
			return nil, fmt.Errorf("failed to scan flow breakdown: %w", err)
		}
		b.FlowID = int(flowID)
		flows = append(flows, b)
	}
	return flows, rows.Err()
}
