// Package aggregator orchestrates the analysis pipeline over a batch of
// experiment dump directories.
package aggregator

import (
	"MPTCPSpectra/internal/config"
	"MPTCPSpectra/internal/engine/capacity"
	"MPTCPSpectra/internal/engine/stats"
	"MPTCPSpectra/internal/engine/topology"
	"MPTCPSpectra/internal/engine/trace"
	"MPTCPSpectra/internal/model"
	"MPTCPSpectra/pkg/capture"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
)

// Aggregator discovers experiment dumps and runs the full analysis
// pipeline on each of them.
type Aggregator struct {
	cfg config.AnalyzerConfig
}

// New creates a new Aggregator.
func New(cfg config.AnalyzerConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Run analyzes every discovered experiment dump in order and returns the
// results sorted by dump path. Dumps without flow data are skipped, not
// failed. A fatal error (unreadable file, structural mismatch) aborts the
// batch; results collected before the failure are still returned so the
// caller can report them.
//
// Processing is sequential on purpose: the inputs are static files, the
// experiments are independent, and downstream consumers expect the exact
// same result list for the same inputs on every run.
func (a *Aggregator) Run() ([]*model.ExperimentResult, error) {
	dumpDirs, err := a.discover()
	if err != nil {
		return nil, err
	}

	var results []*model.ExperimentResult
	for _, dir := range dumpDirs {
		result, err := a.analyzeExperiment(dir)
		if err != nil {
			return results, fmt.Errorf("failed to analyze experiment dump '%s': %w", dir, err)
		}
		if result == nil {
			log.Printf("No flow data in '%s', skipping.", dir)
			continue
		}
		log.Printf("Analyzed: %s (%d flows, %.2f Mbit/s avg)", result.Name, len(result.Flows), result.TotalAvgThroughput)
		results = append(results, result)
	}
	return results, nil
}

// discover expands the configured dump globs and returns the matching
// directories, deduplicated and sorted.
func (a *Aggregator) discover() ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range a.cfg.DumpGlobs {
		matches, err := filepath.Glob(filepath.Join(a.cfg.RootDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid dump glob '%s': %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				dirs = append(dirs, m)
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// analyzeExperiment runs parser, statistics, classifier and capacity
// analyzer for a single dump directory. It returns (nil, nil) when the
// dump holds no usable flow data.
func (a *Aggregator) analyzeExperiment(dir string) (*model.ExperimentResult, error) {
	flows, err := trace.ParseNetperf(filepath.Join(dir, a.cfg.NetperfFile))
	if err != nil {
		return nil, err
	}
	if len(flows) == 0 {
		return nil, nil
	}

	monitorFiles, err := filepath.Glob(filepath.Join(dir, a.cfg.MonitorGlob))
	if err != nil {
		return nil, fmt.Errorf("invalid monitor glob '%s': %w", a.cfg.MonitorGlob, err)
	}
	sort.Strings(monitorFiles)
	monitor, err := trace.ScanMonitorLogs(monitorFiles)
	if err != nil {
		return nil, err
	}

	flowStats := make([]model.FlowStatistics, len(flows))
	for i, flow := range flows {
		flowStats[i] = stats.Compute(flow)
	}

	name := strings.ReplaceAll(filepath.Base(dir), "_dump", "")
	topo := topology.Classify(name)

	result := &model.ExperimentResult{
		Name:                name,
		DumpDir:             dir,
		Flows:               flows,
		FlowStats:           flowStats,
		TotalAvgThroughput:  stats.TotalAverage(flowStats),
		TotalPeakThroughput: stats.TotalPeak(flowStats),
		Monitor:             monitor,
		Topology:            topo,
		Capacity:            capacity.Analyze(name, topo, flowStats),
	}

	result.Capture = a.summarizeCapture(dir)
	return result, nil
}

// summarizeCapture attaches a pcap summary when the dump contains one.
// Captures are advisory: a missing or unreadable pcap is logged and the
// summary omitted, it never fails the experiment.
func (a *Aggregator) summarizeCapture(dir string) *model.CaptureSummary {
	matches, err := filepath.Glob(filepath.Join(dir, a.cfg.CaptureGlob))
	if err != nil || len(matches) == 0 {
		return nil
	}
	sort.Strings(matches)

	summary, err := capture.SummarizeFile(matches[0])
	if err != nil {
		log.Printf("Failed to summarize capture '%s': %v", matches[0], err)
		return nil
	}
	return summary
}
