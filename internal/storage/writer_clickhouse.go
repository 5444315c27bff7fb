package storage

import (
	"MPTCPSpectra/internal/config"
	"MPTCPSpectra/internal/model"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS subflow_metrics (
    Timestamp             DateTime,
    Experiment            String,
    TopologyType          String,
    TheoreticalMax        Float64,
    AggregationEfficiency Float64,
    FlowID                UInt32,
    FlowKey               String,
    PathName              String,
    PathCapacity          Float64,
    AvgThroughput         Float64,
    MinThroughput         Float64,
    MaxThroughput         Float64,
    MedianThroughput      Float64,
    StdThroughput         Float64,
    Percentile5           Float64,
    Percentile95          Float64,
    CoefficientVariation  Float64,
    FinalThroughput       Float64,
    Samples               UInt64,
    Efficiency            Float64,
    UtilizationStatus     String
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Experiment, Timestamp, FlowID);
`

// ClickHouseWriter implements the model.Writer interface for ClickHouse.
// Each batch inserts one row per flow per experiment into subflow_metrics.
type ClickHouseWriter struct {
	conn driver.Conn
}

// NewClickHouseWriter creates a new ClickHouse writer.
func NewClickHouseWriter(cfg config.ClickHouseConfig) (model.Writer, error) {
	conn, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured table exists.")

	return &ClickHouseWriter{conn: conn}, nil
}

// Connect opens a ClickHouse connection and verifies it with a ping.
func Connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// Write inserts the per-flow metrics of a batch into ClickHouse.
func (w *ClickHouseWriter) Write(results []*model.ExperimentResult, timestamp string) error {
	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO subflow_metrics")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	batchTime, _ := time.Parse("2006-01-02_15-04-05", timestamp)
	rowCount := 0

	for _, result := range results {
		for i, fs := range result.FlowStats {
			breakdown := result.Capacity.SubflowBreakdown[i]
			rowCount++
			err = batch.Append(
				batchTime,
				result.Name,
				result.Topology.Type,
				result.Topology.TheoreticalMax,
				result.Capacity.AggregationEfficiency,
				uint32(breakdown.FlowID),
				fs.FlowKey,
				breakdown.PathName,
				breakdown.TheoreticalCapacity,
				fs.AvgThroughput,
				fs.MinThroughput,
				fs.MaxThroughput,
				fs.MedianThroughput,
				fs.StdThroughput,
				fs.Percentile5,
				fs.Percentile95,
				fs.CoefficientVariation,
				fs.FinalThroughput,
				uint64(fs.Samples),
				breakdown.Efficiency,
				breakdown.UtilizationStatus,
			)
			if err != nil {
				return fmt.Errorf("failed to append flow to batch: %w", err)
			}
		}
	}

	if rowCount == 0 {
		return nil // Nothing to write
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Wrote %d flow rows to ClickHouse for %d experiments", rowCount, len(results))
	return nil
}
