package intent

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/swasthyasathi/internal/observability/metrics"
	"github.com/wolfman30/swasthyasathi/pkg/logging"
)

var extractorTracer = otel.Tracer("swasthyasathi.internal.intent")

// Extractor turns one normalized query into an intent record. Each call is
// a single stateless request; nothing is remembered between queries.
type Extractor struct {
	client  LLMClient
	model   string
	timeout time.Duration
	logger  *logging.Logger
	metrics *metrics.AssistantMetrics
}

// NewExtractor creates an extractor that asks model through client, bounding
// each call by timeout.
func NewExtractor(client LLMClient, model string, timeout time.Duration, logger *logging.Logger, m *metrics.AssistantMetrics) *Extractor {
	if client == nil {
		panic("intent: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
		metrics: m,
	}
}

// Extract never returns a Go error; every failure comes back as Failed.
func (e *Extractor) Extract(ctx context.Context, text string) Result {
	ctx, span := extractorTracer.Start(ctx, "intent.extract", trace.WithAttributes(
		attribute.String("llm.model", e.model),
	))
	defer span.End()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := e.client.Complete(ctx, LLMRequest{
		Model:    e.model,
		System:   []string{SystemPrompt},
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: text}},
	})
	e.metrics.ObserveLLMLatency(err != nil, time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "llm request failed")
		e.metrics.ObserveExtraction("failed")
		e.logger.Warn("intent extraction failed", "error", err)
		return Failed{Err: fmt.Errorf("intent: language model request: %w", err)}
	}

	result := Parse(resp.Text)
	switch res := result.(type) {
	case Parsed:
		span.SetAttributes(attribute.String("intent", res.Intent))
		e.metrics.ObserveExtraction("parsed")
	case Failed:
		span.RecordError(res.Err)
		e.metrics.ObserveExtraction("failed")
		e.logger.Warn("model output not parseable", "error", res.Err, "output_len", len(resp.Text))
	}
	return result
}
