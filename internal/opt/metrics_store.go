package opt

import "sync"

type runKey struct {
	City string
	Mode string
}

var (
	mu       sync.Mutex
	lastRuns = map[runKey]Metrics{}
)

// RecordMetrics stores the metrics of the most recent planning run for a
// (city, mode) pair. Surfaced by the admin plan-metrics endpoint.
func RecordMetrics(city, mode string, m Metrics) {
	mu.Lock()
	lastRuns[runKey{City: city, Mode: mode}] = m
	mu.Unlock()
}

// MetricsFor returns the recorded runs for a city, keyed by mode. The empty
// mode key holds distance-costed runs.
func MetricsFor(city string) map[string]Metrics {
	mu.Lock()
	defer mu.Unlock()
	out := map[string]Metrics{}
	for k, v := range lastRuns {
		if k.City == city {
			out[k.Mode] = v
		}
	}
	return out
}
