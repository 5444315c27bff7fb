package alerter

import (
	"MPTCPSpectra/internal/config"
	"MPTCPSpectra/internal/model"
	"fmt"
	"log"
	"strings"

	"github.com/gomarkdown/markdown"
)

// Alerter evaluates a finished analysis batch against configured rules and
// sends one consolidated notification when any rule triggers. Unlike a
// live monitoring loop there is nothing to poll here: a batch is evaluated
// exactly once, right after it completes.
type Alerter struct {
	rules    []config.AlerterRule
	notifier model.Notifier
}

// NewAlerter creates a new Alerter instance.
func NewAlerter(cfg *config.AlerterConfig, notifier model.Notifier) *Alerter {
	return &Alerter{rules: cfg.Rules, notifier: notifier}
}

// Evaluate checks every experiment against every rule and returns the
// triggered alert messages in markdown.
func (a *Alerter) Evaluate(results []*model.ExperimentResult) []string {
	var messages []string
	for _, result := range results {
		for _, rule := range a.rules {
			value, unit, ok := metricValue(rule.Metric, result)
			if !ok {
				log.Printf("Warning: unknown metric '%s' in alerter rule '%s'", rule.Metric, rule.Name)
				continue
			}
			if check(value, rule.Threshold, rule.Operator) {
				messages = append(messages, fmt.Sprintf(
					"### Alert: %s\n\n"+
						"- **Experiment:** `%s`\n"+
						"- **Metric:** `%s`\n"+
						"- **Condition:** `%s %.2f`\n"+
						"- **Observed Value:** `%.2f %s`\n",
					rule.Name, result.Name, rule.Metric, rule.Operator, rule.Threshold, value, unit))
			}
		}
	}
	return messages
}

// EvaluateAndNotify evaluates the batch and, if anything triggered, sends
// a single consolidated email with the rendered summary.
func (a *Alerter) EvaluateAndNotify(results []*model.ExperimentResult) error {
	messages := a.Evaluate(results)
	if len(messages) == 0 {
		return nil
	}
	log.Printf("Alerter evaluation completed. %d alert(s) triggered.", len(messages))

	if a.notifier == nil {
		return nil
	}

	md := "# MPTCPSpectra Alert Summary\n\n" +
		"The following alerts were triggered by the last analysis batch:\n\n" +
		strings.Join(messages, "\n---\n\n")
	body := string(markdown.ToHTML([]byte(md), nil, nil))

	subject := fmt.Sprintf("MPTCPSpectra Alert Summary (%d Triggered)", len(messages))
	if err := a.notifier.Send(subject, body); err != nil {
		return fmt.Errorf("failed to send alert notification: %w", err)
	}
	log.Println("Consolidated alert notification sent successfully.")
	return nil
}

// metricValue extracts the value a rule evaluates for one experiment.
func metricValue(metric string, result *model.ExperimentResult) (float64, string, bool) {
	switch metric {
	case "aggregation_efficiency":
		return result.Capacity.AggregationEfficiency, "%", true
	case "bottleneck_count":
		return float64(len(result.Capacity.Bottlenecks)), "bottlenecks", true
	case "min_subflow_efficiency":
		minEff := 0.0
		for i, sf := range result.Capacity.SubflowBreakdown {
			if i == 0 || sf.Efficiency < minEff {
				minEff = sf.Efficiency
			}
		}
		return minEff, "%", true
	case "total_avg_throughput":
		return result.TotalAvgThroughput, "Mbit/s", true
	default:
		return 0, "", false
	}
}

// check compares a value against a threshold based on an operator.
func check(value, threshold float64, operator string) bool {
	switch operator {
	case ">":
		return value > threshold
	case "<":
		return value < threshold
	case "=":
		return value == threshold
	case ">=":
		return value >= threshold
	case "<=":
		return value <= threshold
	default:
		log.Printf("Warning: unknown operator '%s' in alerter rule", operator)
		return false
	}
}
