package bootstrap

import (
	"context"
	"fmt"

	"github.com/wolfman30/swasthyasathi/internal/assistant"
	appconfig "github.com/wolfman30/swasthyasathi/internal/config"
	"github.com/wolfman30/swasthyasathi/internal/intent"
	"github.com/wolfman30/swasthyasathi/internal/observability/metrics"
	"github.com/wolfman30/swasthyasathi/pkg/logging"
)

// BuildAssistant wires the table store, the intent extractor and the query
// service from config. The returned func releases every opened client.
func BuildAssistant(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, m *metrics.AssistantMetrics) (*assistant.Service, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	store, closeStore, err := BuildStore(ctx, cfg, logger.Component("records"), m)
	if err != nil {
		return nil, nil, err
	}
	client, model, closeLLM, err := BuildLLMClient(ctx, cfg, logger.Component("intent"))
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	extractor := intent.NewExtractor(client, model, cfg.LLMTimeout, logger.Component("intent"), m)
	svc := assistant.NewService(store, TableNames(cfg), extractor,
		assistant.WithLogger(logger.Component("assistant")),
		assistant.WithMetrics(m),
		assistant.WithLocation(cfg.Location()),
	)
	return svc, func() {
		closeLLM()
		closeStore()
	}, nil
}
