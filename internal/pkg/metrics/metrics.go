package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ToolExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herald_tool_executions_total",
			Help: "Total number of tool executions by outcome",
		},
		[]string{"tool", "outcome"},
	)

	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "herald_tool_duration_seconds",
			Help: "Tool execution duration in seconds",
		},
		[]string{"tool"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herald_tool_cache_lookups_total",
			Help: "Tool result cache lookups by result",
		},
		[]string{"result"},
	)

	PipelineResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herald_pipeline_results_total",
			Help: "Query pipeline runs by terminal state",
		},
		[]string{"state"},
	)

	PipelineLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "herald_pipeline_latency_seconds",
			Help: "End-to-end query pipeline latency in seconds",
		},
	)

	ChainRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herald_chain_runs_total",
			Help: "Tool chains attempted by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)
