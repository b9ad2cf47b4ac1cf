package translate

import (
	log "github.com/sirupsen/logrus"

	"github.com/newsflow-bot/newsflow/cache"
	"github.com/newsflow-bot/newsflow/config"
)

// NewProvider builds the provider named in cfg, or nil when translation
// is disabled or the provider's key is missing.
func NewProvider(cfg *config.Settings) Provider {
	if !cfg.CanTranslate() {
		log.Debug("Translation is disabled or not configured")
		return nil
	}
	switch cfg.TranslationProvider {
	case "deepl":
		if cfg.DeepLAPIKey != "" {
			log.Info("Using DeepL translation provider")
			return NewDeepLProvider(cfg.DeepLAPIKey)
		}
	case "google":
		if cfg.GoogleAPIKey != "" {
			log.Info("Using Google translation provider")
			return NewGoogleProvider(cfg.GoogleAPIKey)
		}
	case "openai":
		if cfg.OpenAIAPIKey != "" {
			log.Info("Using OpenAI translation provider")
			return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		}
	}
	log.WithField("provider", cfg.TranslationProvider).Warn(
		"Translation provider is configured but its API key is missing")
	return nil
}

// NewServiceFromConfig builds the cached translation service, or nil
// when translation is disabled.
func NewServiceFromConfig(cfg *config.Settings, c cache.Cache) *Service {
	provider := NewProvider(cfg)
	if provider == nil {
		return nil
	}
	return NewService(provider, c, cfg.TranslationCacheTTL())
}
