package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/wolfman30/swasthyasathi/cmd/mainconfig"
	appconfig "github.com/wolfman30/swasthyasathi/internal/config"
	"github.com/wolfman30/swasthyasathi/internal/intent"
	"github.com/wolfman30/swasthyasathi/pkg/logging"
)

// LLM providers accepted in LLM_PROVIDER and LLM_FALLBACK_PROVIDER.
const (
	ProviderOllama  = "ollama"
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
	ProviderGemini  = "gemini"
)

// BuildLLMClient builds the primary provider and, when LLM_FALLBACK_PROVIDER
// is set, wraps it with a fallback pinned to LLM_FALLBACK_MODEL. It also
// returns the model name the extractor should request.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (intent.LLMClient, string, func(), error) {
	if cfg == nil {
		return nil, "", nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers cleanups
	primary, model, err := buildProvider(ctx, cfg, cfg.LLMProvider, cfg.LLMModel, &closers)
	if err != nil {
		closers.run()
		return nil, "", nil, err
	}
	logger.Info("llm provider configured", "provider", providerName(cfg.LLMProvider), "model", model)

	if strings.TrimSpace(cfg.LLMFallbackProvider) == "" {
		return primary, model, closers.run, nil
	}

	fallback, fallbackModel, err := buildProvider(ctx, cfg, cfg.LLMFallbackProvider, cfg.LLMFallbackModel, &closers)
	if err != nil {
		closers.run()
		return nil, "", nil, fmt.Errorf("bootstrap: fallback provider: %w", err)
	}
	logger.Info("llm fallback configured", "provider", cfg.LLMFallbackProvider, "model", fallbackModel)
	client := intent.NewFallbackLLMClient(primary, intent.NewPinnedModelClient(fallback, fallbackModel), logger.Logger)
	return client, model, closers.run, nil
}

func providerName(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return ProviderOllama
	}
	return provider
}

func buildProvider(ctx context.Context, cfg *appconfig.Config, provider, model string, closers *cleanups) (intent.LLMClient, string, error) {
	switch providerName(provider) {
	case ProviderOllama:
		baseURL := cfg.LLMBaseURL
		if strings.TrimSpace(baseURL) == "" {
			baseURL = intent.DefaultOllamaBaseURL
		}
		return intent.NewOpenAICompatibleClient("ollama", baseURL), model, nil

	case ProviderOpenAI:
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			return nil, "", fmt.Errorf("bootstrap: OPENAI_API_KEY is required for the openai provider")
		}
		return intent.NewOpenAICompatibleClient(cfg.OpenAIAPIKey, cfg.LLMBaseURL), model, nil

	case ProviderBedrock:
		if id := strings.TrimSpace(cfg.BedrockModelID); id != "" {
			model = id
		}
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		return intent.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg)), model, nil

	case ProviderGemini:
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return nil, "", fmt.Errorf("bootstrap: GEMINI_API_KEY is required for the gemini provider")
		}
		client, err := intent.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, model)
		if err != nil {
			return nil, "", fmt.Errorf("bootstrap: gemini client: %w", err)
		}
		closers.add(func() { _ = client.Close() })
		return client, model, nil

	default:
		return nil, "", fmt.Errorf("bootstrap: unknown llm provider %q", provider)
	}
}
