package alerter

import (
	"MPTCPSpectra/internal/config"
	"MPTCPSpectra/internal/model"
	"strings"
	"testing"
)

type fakeNotifier struct {
	subjects []string
	bodies   []string
}

func (f *fakeNotifier) Send(subject, body string) error {
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return nil
}

func resultWithEfficiency(name string, efficiency float64, bottlenecks ...string) *model.ExperimentResult {
	return &model.ExperimentResult{
		Name: name,
		Capacity: model.CapacityAnalysis{
			AggregationEfficiency: efficiency,
			Bottlenecks:           bottlenecks,
		},
	}
}

func TestEvaluate(t *testing.T) {
	cfg := &config.AlerterConfig{
		Enabled: true,
		Rules: []config.AlerterRule{
			{Name: "Low efficiency", Metric: "aggregation_efficiency", Operator: "<", Threshold: 50},
			{Name: "Bottlenecks", Metric: "bottleneck_count", Operator: ">", Threshold: 0},
		},
	}
	a := NewAlerter(cfg, nil)

	results := []*model.ExperimentResult{
		resultWithEfficiency("healthy_run", 90),
		resultWithEfficiency("degraded_wireless_run", 42, "Flow 1: Packet loss (efficiency: 42.0%)"),
	}

	messages := a.Evaluate(results)
	if len(messages) != 2 {
		t.Fatalf("Expected 2 triggered alerts, got %d", len(messages))
	}
	for _, msg := range messages {
		if !strings.Contains(msg, "degraded_wireless_run") {
			t.Errorf("Alert should name the degraded experiment: %q", msg)
		}
	}
}

func TestEvaluate_UnknownMetricIsIgnored(t *testing.T) {
	cfg := &config.AlerterConfig{
		Rules: []config.AlerterRule{{Name: "Bogus", Metric: "no_such_metric", Operator: ">", Threshold: 0}},
	}
	messages := NewAlerter(cfg, nil).Evaluate([]*model.ExperimentResult{resultWithEfficiency("run", 10)})
	if len(messages) != 0 {
		t.Errorf("Unknown metrics must not trigger, got %v", messages)
	}
}

func TestEvaluateAndNotify(t *testing.T) {
	notifier := &fakeNotifier{}
	cfg := &config.AlerterConfig{
		Rules: []config.AlerterRule{
			{Name: "Low efficiency", Metric: "aggregation_efficiency", Operator: "<=", Threshold: 50},
		},
	}
	a := NewAlerter(cfg, notifier)

	err := a.EvaluateAndNotify([]*model.ExperimentResult{resultWithEfficiency("bad_run", 30)})
	if err != nil {
		t.Fatalf("EvaluateAndNotify failed: %v", err)
	}
	if len(notifier.subjects) != 1 {
		t.Fatalf("Expected one consolidated notification, got %d", len(notifier.subjects))
	}
	if !strings.Contains(notifier.subjects[0], "1 Triggered") {
		t.Errorf("Unexpected subject: %q", notifier.subjects[0])
	}
	// The markdown summary is rendered to HTML for the email body.
	if !strings.Contains(notifier.bodies[0], "<h3>") || !strings.Contains(notifier.bodies[0], "bad_run") {
		t.Errorf("Body should contain rendered alert details: %q", notifier.bodies[0])
	}
}

func TestEvaluateAndNotify_NoAlertsSendsNothing(t *testing.T) {
	notifier := &fakeNotifier{}
	cfg := &config.AlerterConfig{
		Rules: []config.AlerterRule{
			{Name: "Low efficiency", Metric: "aggregation_efficiency", Operator: "<", Threshold: 50},
		},
	}
	err := NewAlerter(cfg, notifier).EvaluateAndNotify([]*model.ExperimentResult{resultWithEfficiency("fine_run", 85)})
	if err != nil {
		t.Fatalf("EvaluateAndNotify failed: %v", err)
	}
	if len(notifier.subjects) != 0 {
		t.Errorf("No notification expected, got %d", len(notifier.subjects))
	}
}

func TestCheck(t *testing.T) {
	cases := []struct {
		value, threshold float64
		operator         string
		want             bool
	}{
		{5, 4, ">", true},
		{4, 4, ">", false},
		{3, 4, "<", true},
		{4, 4, "=", true},
		{4, 4, ">=", true},
		{4, 4, "<=", true},
		{4, 4, "!?", false},
	}
	for _, tc := range cases {
		if got := check(tc.value, tc.threshold, tc.operator); got != tc.want {
			t.Errorf("check(%v, %v, %q) = %v, want %v", tc.value, tc.threshold, tc.operator, got, tc.want)
		}
	}
}
