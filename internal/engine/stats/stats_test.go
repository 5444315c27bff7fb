package stats

import (
	"MPTCPSpectra/internal/model"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompute(t *testing.T) {
	trace := model.FlowTrace{
		Key:   "10.0.0.2:5001",
		Rates: []float64{4, 8, 6, 2, 10},
	}

	fs := Compute(trace)

	if fs.Samples != 5 || fs.Duration != 5 {
		t.Errorf("Expected 5 samples/duration, got %d/%d", fs.Samples, fs.Duration)
	}
	if !almostEqual(fs.AvgThroughput, 6) {
		t.Errorf("Expected mean 6, got %v", fs.AvgThroughput)
	}
	if fs.MinThroughput != 2 || fs.MaxThroughput != 10 {
		t.Errorf("Expected min/max 2/10, got %v/%v", fs.MinThroughput, fs.MaxThroughput)
	}
	if !almostEqual(fs.MedianThroughput, 6) {
		t.Errorf("Expected median 6, got %v", fs.MedianThroughput)
	}
	// Population standard deviation: sqrt(40/5).
	if !almostEqual(fs.StdThroughput, math.Sqrt(8)) {
		t.Errorf("Expected std %v, got %v", math.Sqrt(8), fs.StdThroughput)
	}
	if !almostEqual(fs.CoefficientVariation, math.Sqrt(8)/6*100) {
		t.Errorf("Unexpected CV %v", fs.CoefficientVariation)
	}
	// Linear interpolation over sorted [2 4 6 8 10].
	if !almostEqual(fs.Percentile5, 2.4) {
		t.Errorf("Expected p5 2.4, got %v", fs.Percentile5)
	}
	if !almostEqual(fs.Percentile95, 9.6) {
		t.Errorf("Expected p95 9.6, got %v", fs.Percentile95)
	}
	if fs.FinalThroughput != 10 {
		t.Errorf("Expected final sample 10, got %v", fs.FinalThroughput)
	}

	// Ordering invariants.
	if fs.MinThroughput > fs.MedianThroughput || fs.MedianThroughput > fs.MaxThroughput {
		t.Error("min <= median <= max violated")
	}
	if fs.MinThroughput > fs.AvgThroughput || fs.AvgThroughput > fs.MaxThroughput {
		t.Error("min <= mean <= max violated")
	}
}

func TestCompute_SingleSample(t *testing.T) {
	fs := Compute(model.FlowTrace{Key: "x:1", Rates: []float64{7.5}})

	if fs.Samples != 1 {
		t.Fatalf("Expected 1 sample, got %d", fs.Samples)
	}
	for name, got := range map[string]float64{
		"mean":   fs.AvgThroughput,
		"min":    fs.MinThroughput,
		"max":    fs.MaxThroughput,
		"median": fs.MedianThroughput,
		"p5":     fs.Percentile5,
		"p95":    fs.Percentile95,
		"final":  fs.FinalThroughput,
	} {
		if got != 7.5 {
			t.Errorf("Expected %s 7.5, got %v", name, got)
		}
	}
	if fs.StdThroughput != 0 {
		t.Errorf("Expected std 0, got %v", fs.StdThroughput)
	}
}

func TestCompute_ZeroMeanGuardsCV(t *testing.T) {
	fs := Compute(model.FlowTrace{Key: "idle:1", Rates: []float64{0, 0, 0}})

	if fs.AvgThroughput != 0 {
		t.Fatalf("Expected mean 0, got %v", fs.AvgThroughput)
	}
	if fs.CoefficientVariation != 0 {
		t.Errorf("CV of a zero-mean flow must be 0, got %v", fs.CoefficientVariation)
	}
}

func TestTotals(t *testing.T) {
	flowStats := []model.FlowStatistics{
		{AvgThroughput: 4.8, MaxThroughput: 6.1},
		{AvgThroughput: 4.2, MaxThroughput: 9.3},
	}

	if got := TotalAverage(flowStats); !almostEqual(got, 9.0) {
		t.Errorf("Expected total average 9.0, got %v", got)
	}
	if got := TotalPeak(flowStats); !almostEqual(got, 9.3) {
		t.Errorf("Expected total peak 9.3, got %v", got)
	}
}
