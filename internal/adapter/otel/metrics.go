package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "personaforge"

// Metrics holds all personaforge metric instruments.
type Metrics struct {
	Compositions         metric.Int64Counter
	CompositionCacheHits metric.Int64Counter
	TokensCreated        metric.Int64Counter
	Reorders             metric.Int64Counter
	SuggestionCalls      metric.Int64Counter
	SuggestionFailures   metric.Int64Counter
	SuggestionDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Compositions, err = meter.Int64Counter("personaforge.compositions",
		metric.WithDescription("Number of prompt compositions"))
	if err != nil {
		return nil, err
	}

	m.CompositionCacheHits, err = meter.Int64Counter("personaforge.compositions.cache_hits",
		metric.WithDescription("Number of compositions served from cache"))
	if err != nil {
		return nil, err
	}

	m.TokensCreated, err = meter.Int64Counter("personaforge.tokens.created",
		metric.WithDescription("Number of tokens created"))
	if err != nil {
		return nil, err
	}

	m.Reorders, err = meter.Int64Counter("personaforge.tokens.reorders",
		metric.WithDescription("Number of reorder operations applied"))
	if err != nil {
		return nil, err
	}

	m.SuggestionCalls, err = meter.Int64Counter("personaforge.suggestions.calls",
		metric.WithDescription("Number of suggestion requests sent to the LLM proxy"))
	if err != nil {
		return nil, err
	}

	m.SuggestionFailures, err = meter.Int64Counter("personaforge.suggestions.failures",
		metric.WithDescription("Number of failed suggestion requests"))
	if err != nil {
		return nil, err
	}

	m.SuggestionDuration, err = meter.Float64Histogram("personaforge.suggestions.duration_seconds",
		metric.WithDescription("Suggestion request duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
