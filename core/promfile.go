package core

import (
	"fmt"

	"github.com/huangsam/composeguard/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// checkGauges holds the gauges written after a check, registered on a private registry.
type checkGauges struct {
	functions            *prometheus.GaugeVec
	restartableNotSkip   *prometheus.GaugeVec
	unstableTypes        *prometheus.GaugeVec
	unstableParams       *prometheus.GaugeVec
	parseErrors          *prometheus.GaugeVec
	violations           *prometheus.GaugeVec
	passed               *prometheus.GaugeVec
	checkDurationSeconds *prometheus.GaugeVec
}

func newCheckGauges(reg prometheus.Registerer) *checkGauges {
	factory := promauto.With(reg)
	return &checkGauges{
		functions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "composeguard_functions_total",
			Help: "Composable functions in the current reports.",
		}, []string{"variant"}),
		restartableNotSkip: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "composeguard_restartable_not_skippable_total",
			Help: "Composables that are restartable but not skippable.",
		}, []string{"variant"}),
		unstableTypes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "composeguard_unstable_types_total",
			Help: "Classes the compiler inferred as unstable.",
		}, []string{"variant"}),
		unstableParams: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "composeguard_unstable_params_total",
			Help: "Composable parameters with unstable types.",
		}, []string{"variant"}),
		parseErrors: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "composeguard_parse_errors_total",
			Help: "Report segments that could not be parsed.",
		}, []string{"variant"}),
		violations: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "composeguard_violations_total",
			Help: "Offending items per regression rule.",
		}, []string{"variant", "rule"}),
		passed: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "composeguard_check_passed",
			Help: "1 when the check passed, 0 otherwise.",
		}, []string{"variant"}),
		checkDurationSeconds: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "composeguard_check_duration_seconds",
			Help: "Wall time of the check.",
		}, []string{"variant"}),
	}
}

func (g *checkGauges) observe(r schema.CheckResult) {
	variant := r.Variant
	g.functions.WithLabelValues(variant).Set(float64(r.Current.Functions))
	g.restartableNotSkip.WithLabelValues(variant).Set(float64(r.Current.RestartableButNotSkippable))
	g.unstableTypes.WithLabelValues(variant).Set(float64(r.Current.UnstableTypes))
	g.unstableParams.WithLabelValues(variant).Set(float64(r.Current.UnstableParams))
	g.parseErrors.WithLabelValues(variant).Set(float64(r.Current.ParseErrors))
	g.checkDurationSeconds.WithLabelValues(variant).Set(r.Duration.Seconds())

	// Every checked rule gets a series so dashboards see explicit zeros
	for _, rule := range r.CheckedRules {
		g.violations.WithLabelValues(variant, string(rule)).Set(0)
	}
	for _, v := range r.Violations {
		g.violations.WithLabelValues(variant, string(v.Rule)).Set(float64(len(v.Items)))
	}

	passed := 0.0
	if r.Passed {
		passed = 1
	}
	g.passed.WithLabelValues(variant).Set(passed)
}

// WriteMetricsFile writes check gauges in the node exporter textfile format.
func WriteMetricsFile(results []schema.CheckResult, path string) error {
	reg := prometheus.NewRegistry()
	gauges := newCheckGauges(reg)
	for _, r := range results {
		gauges.observe(r)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
