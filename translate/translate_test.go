package translate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsflow-bot/newsflow/cache"
)

// fakeProvider records calls and "translates" by prefixing the target
// language.
type fakeProvider struct {
	mutex sync.Mutex
	calls []string
	fail  bool
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Translate(ctx context.Context, text, targetLang, sourceLang string) (Result, error) {
	p.mutex.Lock()
	p.calls = append(p.calls, text)
	p.mutex.Unlock()
	if p.fail {
		return Result{}, fmt.Errorf("provider down")
	}
	return Result{Text: "[" + targetLang + "] " + text, SourceLanguage: "en"}, nil
}

func (p *fakeProvider) SupportsLanguage(langCode string) bool { return true }

func (p *fakeProvider) NormalizeLanguageCode(langCode string) string { return langCode }

func (p *fakeProvider) callCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.calls)
}

func TestServiceCachesTranslations(t *testing.T) {
	provider := &fakeProvider{}
	service := NewService(provider, cache.NewMemoryCache(100), 0)
	ctx := context.Background()

	first, err := service.Translate(ctx, "Hello", "zh-CN", "")
	require.NoError(t, err)
	assert.Equal(t, "[zh-CN] Hello", first.Text)
	assert.False(t, first.FromCache)

	second, err := service.Translate(ctx, "Hello", "zh-CN", "")
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, provider.callCount(), "expected the second call to hit the cache")

	// A different target language misses.
	_, err = service.Translate(ctx, "Hello", "ja", "")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.callCount())
}

func TestServiceEmptyInput(t *testing.T) {
	provider := &fakeProvider{}
	service := NewService(provider, cache.NewMemoryCache(100), 0)

	for _, text := range []string{"", "   ", "\n\t"} {
		result, err := service.Translate(context.Background(), text, "zh-CN", "")
		require.NoError(t, err)
		assert.Empty(t, result.Text)
	}
	assert.Equal(t, 0, provider.callCount(), "expected no provider calls for empty input")
}

func TestServiceWithoutCache(t *testing.T) {
	provider := &fakeProvider{}
	service := NewService(provider, nil, 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := service.Translate(ctx, "Hello", "zh-CN", "")
		require.NoError(t, err)
		assert.False(t, result.FromCache)
	}
	assert.Equal(t, 2, provider.callCount())
}

func TestServiceProviderError(t *testing.T) {
	provider := &fakeProvider{fail: true}
	service := NewService(provider, cache.NewMemoryCache(100), 0)

	_, err := service.Translate(context.Background(), "Hello", "zh-CN", "")
	assert.Error(t, err)
}

func TestTranslateBatchPreservesOrder(t *testing.T) {
	provider := &fakeProvider{}
	service := NewService(provider, cache.NewMemoryCache(100), 0)

	texts := []string{"one", "two", "three", "four", "five", "six"}
	results, err := service.TranslateBatch(context.Background(), texts, "ja", "")
	require.NoError(t, err)
	require.Len(t, results, len(texts))
	for i, result := range results {
		assert.Equal(t, "[ja] "+texts[i], result.Text)
	}
}

func TestCacheKeyShape(t *testing.T) {
	service := NewService(&fakeProvider{}, nil, 0)
	key := service.cacheKey("some text", "zh-CN")
	parts := strings.Split(key, ":")
	require.Len(t, parts, 4)
	assert.Equal(t, "trans", parts[0])
	assert.Equal(t, "fake", parts[1])
	assert.Equal(t, "zh-CN", parts[2])
	assert.Len(t, parts[3], 16)

	// Same text, same key; different text, different key.
	assert.Equal(t, key, service.cacheKey("some text", "zh-CN"))
	assert.NotEqual(t, key, service.cacheKey("other text", "zh-CN"))
}

func TestDeepLEndpointSelection(t *testing.T) {
	assert.Equal(t, "https://api-free.deepl.com/v2/translate", NewDeepLProvider("key:fx").endpoint())
	assert.Equal(t, "https://api.deepl.com/v2/translate", NewDeepLProvider("key").endpoint())
}

func TestDeepLLanguageNormalization(t *testing.T) {
	p := NewDeepLProvider("key")
	assert.Equal(t, "ZH", p.NormalizeLanguageCode("zh-CN"))
	assert.Equal(t, "EN-GB", p.NormalizeLanguageCode("en-gb"))
	assert.Equal(t, "XX", p.NormalizeLanguageCode("xx"))
	assert.True(t, p.SupportsLanguage("zh-cn"))
	assert.False(t, p.SupportsLanguage("xx"))
}

func TestGoogleLanguageNormalization(t *testing.T) {
	p := NewGoogleProvider("key")
	assert.Equal(t, "zh-CN", p.NormalizeLanguageCode("zh-cn"))
	assert.Equal(t, "zh-TW", p.NormalizeLanguageCode("zh-Hant"))
	assert.Equal(t, "ja", p.NormalizeLanguageCode("JA"))
	assert.True(t, p.SupportsLanguage("zh-CN"))
	assert.False(t, p.SupportsLanguage("xx"))
}
