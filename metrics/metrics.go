package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Status is the status of a measurable metric (feed polls, message
// sends, translations, etc)
type Status string

// Common status values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	pollCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "newsflow_feed_polls_total",
		Help: "The number of feed poll attempts, by outcome",
	}, []string{"status"})
	newEntriesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "newsflow_new_entries_total",
		Help: "The number of new entries stored after dedup",
	})
	sendCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "newsflow_messages_sent_total",
		Help: "The number of message deliveries to chat platforms",
	}, []string{"platform", "status"})
	translationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "newsflow_translations_total",
		Help: "The number of translation lookups, by provider and cache outcome",
	}, []string{"provider", "cache"})
	dispatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "newsflow_dispatch_cycle_seconds",
		Help:    "Wall time of full dispatch cycles",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)

// IncrementPoll increments the feed poll counter
func IncrementPoll(st Status) {
	pollCounter.With(prometheus.Labels{"status": string(st)}).Inc()
}

// AddNewEntries adds to the stored-entry counter
func AddNewEntries(n int) {
	newEntriesCounter.Add(float64(n))
}

// IncrementSend increments the message delivery counter
func IncrementSend(platform string, st Status) {
	sendCounter.With(prometheus.Labels{"platform": platform, "status": string(st)}).Inc()
}

// IncrementTranslation increments the translation counter; cache is
// "hit" or "miss"
func IncrementTranslation(provider, cache string) {
	translationCounter.With(prometheus.Labels{"provider": provider, "cache": cache}).Inc()
}

// ObserveDispatchDuration records one dispatch cycle's wall time
func ObserveDispatchDuration(seconds float64) {
	dispatchDuration.Observe(seconds)
}

func init() {
	prometheus.MustRegister(pollCounter)
	prometheus.MustRegister(newEntriesCounter)
	prometheus.MustRegister(sendCounter)
	prometheus.MustRegister(translationCounter)
	prometheus.MustRegister(dispatchDuration)
}
