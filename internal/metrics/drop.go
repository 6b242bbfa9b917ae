package metrics

var (
	entriesStored = LazyLoadCounterVec("entries_stored_total", []string{"kind"})
	entriesGone   = LazyLoadCounterVec("entries_removed_total", []string{"kind", "reason"})
	entriesLive   = LazyLoadGaugeVec("entries_live", nil)

	requestDuration = LazyLoadHistogramVec(
		"http_request_duration_seconds",
		[]string{"family", "route", "status"},
		[]float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	)
)

// EntryStored records one successful ingest of the given kind ("memory"
// or "persistent").
func EntryStored(kind string) {
	entriesStored.WithLabelValues(kind).Inc()
	entriesLive.WithLabelValues().Inc()
}

// EntryRemoved records one entry leaving the table, tagged by why
// ("expired", "replaced", "removed").
func EntryRemoved(kind, reason string) {
	entriesGone.WithLabelValues(kind, reason).Inc()
	entriesLive.WithLabelValues().Dec()
}

// ObserveRequest records one HTTP request's latency, grouped by content
// family ("app", "api", "txt"), route template, and response status.
func ObserveRequest(family, route, status string, seconds float64) {
	requestDuration.WithLabelValues(family, route, status).Observe(seconds)
}
