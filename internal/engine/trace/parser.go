package trace

import (
	"MPTCPSpectra/internal/model"
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Markers emitted by the mptcp monitor for established subflows and
// established connections. A line is counted once: subflow lines are not
// also counted as connections.
const (
	subflowMarker    = "SF_ESTABLISHED"
	connectionMarker = "ESTABLISHED"
)

// Bounded prefixes kept for display; counts always cover the full files.
const (
	maxSubflowLines    = 5
	maxConnectionLines = 3
)

// ParseNetperf reads a netperf JSON dump and extracts one FlowTrace per
// flow entry. The dump maps node names to lists of entries; an entry that
// is itself an object containing a key with a colon is a flow, and its
// value is the list of sample records for that flow.
//
// Flows are returned in document order, which is why this walks the JSON
// with a token decoder instead of unmarshalling into maps. A missing file
// or a dump with no non-empty flow is reported as (nil, nil): the caller
// skips the experiment, it is not an error.
func ParseNetperf(path string) ([]model.FlowTrace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read netperf dump '%s': %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("unexpected netperf dump structure in '%s': %w", path, err)
	}

	var flows []model.FlowTrace
	for dec.More() {
		if _, err := dec.Token(); err != nil { // node name
			return nil, fmt.Errorf("failed to decode netperf dump '%s': %w", path, err)
		}
		nodeFlows, err := parseNodeEntries(dec)
		if err != nil {
			return nil, fmt.Errorf("failed to decode netperf dump '%s': %w", path, err)
		}
		flows = append(flows, nodeFlows...)
	}

	if len(flows) == 0 {
		return nil, nil
	}
	return flows, nil
}

// parseNodeEntries consumes the entry list of one node and returns the
// flow traces found in it, in document order.
func parseNodeEntries(dec *json.Decoder) ([]model.FlowTrace, error) {
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var flows []model.FlowTrace
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		// Entries that are not objects carry no flow structure and are skipped.
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}
		entryFlows, err := parseFlowEntry(raw)
		if err != nil {
			return nil, err
		}
		flows = append(flows, entryFlows...)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return flows, nil
}

// parseFlowEntry walks one entry object in key order and extracts a trace
// for every colon-separated flow key with at least one numeric rate.
func parseFlowEntry(raw json.RawMessage) ([]model.FlowTrace, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var flows []model.FlowTrace
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		if !strings.Contains(key, ":") {
			// Not a flow key; discard the value.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}

		var records []map[string]interface{}
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("flow '%s' does not map to a sample list: %w", key, err)
		}

		ft := model.FlowTrace{Key: key}
		for _, rec := range records {
			// A malformed field is dropped; the record itself survives.
			if rate, ok := numeric(rec["sending_rate"]); ok {
				ft.Rates = append(ft.Rates, rate)
			}
			if ts, ok := numeric(rec["timestamp"]); ok {
				ft.Timestamps = append(ft.Timestamps, ts)
			}
		}
		if len(ft.Rates) > 0 {
			flows = append(flows, ft)
		}
	}
	return flows, nil
}

// numeric coerces a decoded JSON value to float64. Rates and timestamps
// appear both as JSON numbers and as numeric strings in netperf dumps.
func numeric(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	case float64:
		return val, true
	default:
		return 0, false
	}
}

func expectDelim(dec *json.Decoder, want rune) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || rune(d) != want {
		return fmt.Errorf("expected '%c', got %v", want, tok)
	}
	return nil
}

// ScanMonitorLogs scans mptcp monitor logs line by line and summarizes the
// established-subflow and established-connection events. Only a bounded
// prefix of the matching lines is retained for display.
func ScanMonitorLogs(paths []string) (model.MonitorSummary, error) {
	summary := model.MonitorSummary{}

	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return summary, fmt.Errorf("failed to open monitor log '%s': %w", path, err)
		}

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch {
			case strings.Contains(line, subflowMarker):
				summary.SubflowCount++
				if len(summary.Subflows) < maxSubflowLines {
					summary.Subflows = append(summary.Subflows, line)
				}
			case strings.Contains(line, connectionMarker):
				summary.ConnectionCount++
				if len(summary.Connections) < maxConnectionLines {
					summary.Connections = append(summary.Connections, line)
				}
			}
		}
		err = scanner.Err()
		file.Close()
		if err != nil {
			return summary, fmt.Errorf("failed to scan monitor log '%s': %w", path, err)
		}
	}

	return summary, nil
}
