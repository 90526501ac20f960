package intent

import (
	"context"
	"log/slog"
)

// FallbackLLMClient tries a secondary provider when the primary fails.
// With a nil fallback it behaves exactly like the primary.
type FallbackLLMClient struct {
	primary  LLMClient
	fallback LLMClient
	logger   *slog.Logger
}

// NewFallbackLLMClient creates a new fallback-enabled LLM client.
func NewFallbackLLMClient(primary, fallback LLMClient, logger *slog.Logger) *FallbackLLMClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackLLMClient{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FallbackLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	resp, err := c.primary.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}
	if c.fallback == nil {
		return LLMResponse{}, err
	}

	c.logger.Warn("primary LLM failed, attempting fallback", "error", err.Error())

	fallbackResp, fallbackErr := c.fallback.Complete(ctx, req)
	if fallbackErr != nil {
		c.logger.Error("fallback LLM also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return LLMResponse{}, fallbackErr
	}
	return fallbackResp, nil
}

// PinnedModelClient sends every request to a fixed model, so a fallback
// provider can use its own model name.
type PinnedModelClient struct {
	inner LLMClient
	model string
}

// NewPinnedModelClient overrides the request model with model when model is set.
func NewPinnedModelClient(inner LLMClient, model string) *PinnedModelClient {
	return &PinnedModelClient{inner: inner, model: model}
}

func (c *PinnedModelClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	if c.model != "" {
		req.Model = c.model
	}
	return c.inner.Complete(ctx, req)
}
