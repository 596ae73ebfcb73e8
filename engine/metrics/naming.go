// Package metrics instruments the router and executor with
// OpenTelemetry counters and histograms (spec's ambient observability
// concerns, carried regardless of the Non-goals scoping the surface API
// out of this engine).
package metrics

import "strings"

// MetricPrefix namespaces every instrument this engine registers.
const MetricPrefix = "rosflow_"

// MetricName normalises name into a Prometheus/OTel-safe identifier
// under the engine's namespace.
func MetricName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '-', '/', ':':
			return '_'
		default:
			return r
		}
	}, strings.TrimSpace(name))
	clean = strings.ToLower(clean)
	if clean == "" {
		return MetricPrefix
	}
	if strings.HasPrefix(clean, MetricPrefix) {
		return clean
	}
	return MetricPrefix + clean
}

// MetricNameWithSubsystem formats name as rosflow_<subsystem>_<name>.
func MetricNameWithSubsystem(subsystem, name string) string {
	subsystem = strings.Trim(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(subsystem), " ", "_")), "_")
	base := strings.Trim(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_")), "_")
	switch {
	case subsystem != "" && base != "":
		base = subsystem + "_" + base
	case subsystem != "":
		base = subsystem
	}
	return MetricName(base)
}
