// Package translate renders feed text into a subscriber's language. A
// Provider speaks to one machine-translation API; the Service wraps a
// provider with caching so repeated titles only pay for one API call.
package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/newsflow-bot/newsflow/cache"
)

// Result is a completed translation.
type Result struct {
	Text           string
	SourceLanguage string
	FromCache      bool
}

// Provider speaks to one translation API.
type Provider interface {
	Name() string
	// Translate renders text into targetLang. Empty sourceLang means
	// auto-detect.
	Translate(ctx context.Context, text, targetLang, sourceLang string) (Result, error)
	SupportsLanguage(langCode string) bool
	NormalizeLanguageCode(langCode string) string
}

// Shared by the HTTP providers.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// DefaultCacheTTL is how long translations stay cached.
const DefaultCacheTTL = 7 * 24 * time.Hour

// BatchConcurrency caps parallel provider calls in TranslateBatch.
const BatchConcurrency = 3

// Service is a Provider with a cache in front of it.
type Service struct {
	provider Provider
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewService wraps provider with cache. A nil cache disables caching; a
// non-positive ttl means DefaultCacheTTL.
func NewService(provider Provider, c cache.Cache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{provider: provider, cache: c, cacheTTL: ttl}
}

// ProviderName returns the wrapped provider's name.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// SupportsLanguage reports whether the wrapped provider can produce
// langCode.
func (s *Service) SupportsLanguage(langCode string) bool {
	return s.provider.SupportsLanguage(langCode)
}

func (s *Service) cacheKey(text, targetLang string) string {
	sum := sha256.Sum256([]byte(text))
	return "trans:" + s.provider.Name() + ":" + targetLang + ":" + hex.EncodeToString(sum[:])[:16]
}

// Translate renders text into targetLang, consulting the cache first.
// Empty or whitespace-only input short-circuits to an empty result.
func (s *Service) Translate(ctx context.Context, text, targetLang, sourceLang string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, nil
	}

	key := s.cacheKey(text, targetLang)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return Result{Text: cached, FromCache: true}, nil
		}
	}

	result, err := s.provider.Translate(ctx, text, targetLang, sourceLang)
	if err != nil {
		return Result{}, err
	}

	if s.cache != nil && result.Text != "" {
		s.cache.Set(ctx, key, result.Text, s.cacheTTL)
		log.WithFields(log.Fields{
			"provider": s.provider.Name(),
			"target":   targetLang,
		}).Debug("Translation cached")
	}
	return result, nil
}

// TranslateBatch translates texts concurrently, at most BatchConcurrency
// provider calls in flight, preserving input order. The first provider
// error cancels the batch.
func (s *Service) TranslateBatch(ctx context.Context, texts []string, targetLang, sourceLang string) ([]Result, error) {
	results := make([]Result, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(BatchConcurrency)
	for i := range texts {
		i := i
		text := texts[i]
		g.Go(func() error {
			result, err := s.Translate(ctx, text, targetLang, sourceLang)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
