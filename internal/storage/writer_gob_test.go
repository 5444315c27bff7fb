package storage

import (
	"MPTCPSpectra/internal/model"
	"encoding/gob"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleResult() *model.ExperimentResult {
	return &model.ExperimentResult{
		Name:    "test_wireless_mptcp",
		DumpDir: "test_wireless_mptcp_dump",
		Flows: []model.FlowTrace{
			{Key: "10.0.0.2:5001", Rates: []float64{4.8, 5.0}, Timestamps: []float64{1, 2}},
		},
		FlowStats: []model.FlowStatistics{
			{FlowKey: "10.0.0.2:5001", AvgThroughput: 4.9, MinThroughput: 4.8, MaxThroughput: 5.0, Samples: 2, Duration: 2},
		},
		TotalAvgThroughput:  4.9,
		TotalPeakThroughput: 5.0,
		Topology:            model.TopologyDescriptor{Type: "Wireless-like Dual Path", TheoreticalMax: 18},
		Capacity: model.CapacityAnalysis{
			TheoreticalCapacity:   18,
			ActualThroughput:      4.9,
			AggregationEfficiency: 4.9 / 18 * 100,
			SubflowBreakdown: []model.SubflowBreakdown{
				{FlowID: 1, PathName: "Path 1 (Reliable)", TheoreticalCapacity: 10, ActualThroughput: 4.9, Efficiency: 49, UtilizationStatus: "Moderate"},
			},
			Bottlenecks: []string{"Flow 1: Packet loss (efficiency: 49.0%)"},
		},
	}
}

func TestGobWriter_Write(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "gob_writer_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	result := sampleResult()
	writer := NewGobWriter(tmpDir)
	if err := writer.Write([]*model.ExperimentResult{result}, "2025-01-01_12-00-00"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	batchDir := filepath.Join(tmpDir, "2025-01-01_12-00-00")

	// Verify the result file round-trips.
	resultPath := filepath.Join(batchDir, "test_wireless_mptcp.dat")
	file, err := os.Open(resultPath)
	if err != nil {
		t.Fatalf("Result file was not created: %v", err)
	}
	defer file.Close()

	var decoded model.ExperimentResult
	if err := gob.NewDecoder(file).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode result file: %v", err)
	}
	if !reflect.DeepEqual(&decoded, result) {
		t.Error("Decoded result differs from the written one")
	}

	// Verify summary content.
	summaryBytes, err := os.ReadFile(filepath.Join(batchDir, "summary.json"))
	if err != nil {
		t.Fatalf("summary.json was not created: %v", err)
	}
	var summary SummaryData
	if err := json.Unmarshal(summaryBytes, &summary); err != nil {
		t.Fatalf("Failed to unmarshal summary.json: %v", err)
	}
	if summary.Experiments != 1 || summary.TotalFlows != 1 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if summary.PeakThroughput != 5.0 {
		t.Errorf("Expected peak 5.0 in summary, got %v", summary.PeakThroughput)
	}
}

func TestGobWriter_EmptyBatch(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "gob_writer_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	writer := NewGobWriter(tmpDir)
	if err := writer.Write(nil, "2025-01-01_12-00-00"); err != nil {
		t.Fatalf("Write of empty batch failed: %v", err)
	}

	// No batch directory should appear for an empty run.
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no output for an empty batch, found %d entries", len(entries))
	}
}
