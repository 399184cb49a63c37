package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "fincompare"

// Metrics holds all fincompare metric instruments.
type Metrics struct {
	TasksCompleted metric.Int64Counter
	TasksFailed    metric.Int64Counter
	TasksRefused   metric.Int64Counter
	ToolCalls      metric.Int64Counter
	ModelCalls     metric.Int64Counter
	TurnDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TasksCompleted, err = meter.Int64Counter("fincompare.tasks.completed",
		metric.WithDescription("Number of comparison tasks completed"))
	if err != nil {
		return nil, err
	}

	m.TasksFailed, err = meter.Int64Counter("fincompare.tasks.failed",
		metric.WithDescription("Number of comparison tasks failed"))
	if err != nil {
		return nil, err
	}

	m.TasksRefused, err = meter.Int64Counter("fincompare.tasks.refused",
		metric.WithDescription("Number of requests refused as non-comparison queries"))
	if err != nil {
		return nil, err
	}

	m.ToolCalls, err = meter.Int64Counter("fincompare.toolcalls",
		metric.WithDescription("Number of tool calls dispatched"))
	if err != nil {
		return nil, err
	}

	m.ModelCalls, err = meter.Int64Counter("fincompare.modelcalls",
		metric.WithDescription("Number of chat-completion round-trips"))
	if err != nil {
		return nil, err
	}

	m.TurnDuration, err = meter.Float64Histogram("fincompare.turn.duration_seconds",
		metric.WithDescription("Conversation turn duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
