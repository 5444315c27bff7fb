package storage

import (
	"MPTCPSpectra/internal/model"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SummaryData holds the metadata for a stored batch, internal to the writer.
type SummaryData struct {
	Experiments    int     `json:"experiments"`
	TotalFlows     int     `json:"total_flows"`
	AvgThroughput  float64 `json:"avg_throughput"`
	PeakThroughput float64 `json:"peak_throughput"`
	Timestamp      string  `json:"timestamp"`
}

// GobWriter persists analysis batches to disk in gob format, one file per
// experiment under a timestamped batch directory. It implements the
// model.Writer interface.
type GobWriter struct {
	rootPath string
}

// NewGobWriter creates a new writer for analysis results.
func NewGobWriter(rootPath string) model.Writer {
	return &GobWriter{rootPath: rootPath}
}

// Write serializes every experiment result of a batch to disk and drops a
// summary.json next to them.
func (w *GobWriter) Write(results []*model.ExperimentResult, timestamp string) error {
	if len(results) == 0 {
		return nil // Nothing to write
	}

	batchDir := filepath.Join(w.rootPath, timestamp)
	if err := os.MkdirAll(batchDir, 0755); err != nil {
		return fmt.Errorf("failed to create batch directory: %w", err)
	}

	totalFlows := 0
	avgThroughput, peakThroughput := 0.0, 0.0
	for _, result := range results {
		totalFlows += len(result.Flows)
		avgThroughput += result.TotalAvgThroughput
		if result.TotalPeakThroughput > peakThroughput {
			peakThroughput = result.TotalPeakThroughput
		}

		filePath := filepath.Join(batchDir, result.Name+".dat")
		if err := writeResultFile(filePath, result); err != nil {
			return err
		}
	}

	summary := SummaryData{
		Experiments:    len(results),
		TotalFlows:     totalFlows,
		AvgThroughput:  avgThroughput / float64(len(results)),
		PeakThroughput: peakThroughput,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	summaryFile, err := os.Create(filepath.Join(batchDir, "summary.json"))
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer summaryFile.Close()

	jsonEncoder := json.NewEncoder(summaryFile)
	jsonEncoder.SetIndent("", "  ")
	if err := jsonEncoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary to json: %w", err)
	}

	return nil
}

func writeResultFile(filePath string, result *model.ExperimentResult) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create result file '%s': %w", filePath, err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(result); err != nil {
		return fmt.Errorf("failed to encode result to gob for file '%s': %w", filePath, err)
	}
	return nil
}
