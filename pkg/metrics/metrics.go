// Package metrics exposes prometheus counters for the request-execution
// engine, wired in at the same points the original C source logs
// (blacklist_node, in3_ctx_execute's retry branch, find_valid_result's
// success path). Metrics are a carried ambient concern even though
// spec.md's Non-goals never name one (SPEC_FULL.md §3 DOMAIN STACK).
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// NodesPicked counts every node selection made by the picker.
	NodesPicked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "in3go_nodes_picked_total",
		Help: "Total number of nodes selected by the node picker.",
	})

	// NodesBlacklisted counts blacklisting events.
	NodesBlacklisted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "in3go_nodes_blacklisted_total",
		Help: "Total number of nodes blacklisted for misbehavior or a bad response.",
	})

	// Retries counts execute() attempt-counter increments.
	Retries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "in3go_retries_total",
		Help: "Total number of request-context retry attempts.",
	})

	// RequestsSucceeded counts contexts that reached SUCCESS.
	RequestsSucceeded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "in3go_requests_succeeded_total",
		Help: "Total number of request contexts that reached SUCCESS.",
	})

	// RequestsFailed counts contexts that reached a terminal ERROR.
	RequestsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "in3go_requests_failed_total",
		Help: "Total number of request contexts that reached a terminal error.",
	})

	// NodeListRefreshes counts in3_nodeList refresh cycles.
	NodeListRefreshes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "in3go_nodelist_refreshes_total",
		Help: "Total number of nodelist refresh cycles run.",
	})

	// WhiteListRefreshes counts in3_whiteList refresh cycles.
	WhiteListRefreshes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "in3go_whitelist_refreshes_total",
		Help: "Total number of whitelist refresh cycles run.",
	})
)

// MustRegister registers every metric against reg. Call once per registry;
// a second call against the same registry panics. No cmd/in3cli subcommand
// calls it.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		NodesPicked,
		NodesBlacklisted,
		Retries,
		RequestsSucceeded,
		RequestsFailed,
		NodeListRefreshes,
		WhiteListRefreshes,
	)
}
