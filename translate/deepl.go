package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// deeplLanguages maps lowercase language codes to DeepL's target codes.
var deeplLanguages = map[string]string{
	"bg":      "BG",
	"cs":      "CS",
	"da":      "DA",
	"de":      "DE",
	"el":      "EL",
	"en":      "EN",
	"en-gb":   "EN-GB",
	"en-us":   "EN-US",
	"es":      "ES",
	"et":      "ET",
	"fi":      "FI",
	"fr":      "FR",
	"hu":      "HU",
	"id":      "ID",
	"it":      "IT",
	"ja":      "JA",
	"ko":      "KO",
	"lt":      "LT",
	"lv":      "LV",
	"nb":      "NB",
	"nl":      "NL",
	"pl":      "PL",
	"pt":      "PT",
	"pt-br":   "PT-BR",
	"pt-pt":   "PT-PT",
	"ro":      "RO",
	"ru":      "RU",
	"sk":      "SK",
	"sl":      "SL",
	"sv":      "SV",
	"tr":      "TR",
	"uk":      "UK",
	"zh":      "ZH",
	"zh-cn":   "ZH",
	"zh-hans": "ZH",
}

// DeepLProvider translates through the DeepL v2 REST API.
type DeepLProvider struct {
	APIKey string
}

// NewDeepLProvider makes a provider for the given API key. Keys issued
// for the free tier (":fx" suffix) are routed to the free API host.
func NewDeepLProvider(apiKey string) *DeepLProvider {
	return &DeepLProvider{APIKey: apiKey}
}

// Name implements Provider.
func (p *DeepLProvider) Name() string { return "deepl" }

func (p *DeepLProvider) endpoint() string {
	if strings.HasSuffix(p.APIKey, ":fx") {
		return "https://api-free.deepl.com/v2/translate"
	}
	return "https://api.deepl.com/v2/translate"
}

// NormalizeLanguageCode converts a language code to DeepL's format.
func (p *DeepLProvider) NormalizeLanguageCode(langCode string) string {
	code := strings.ToLower(langCode)
	if deepl, ok := deeplLanguages[code]; ok {
		return deepl
	}
	return strings.ToUpper(code)
}

// SupportsLanguage reports whether DeepL can produce langCode.
func (p *DeepLProvider) SupportsLanguage(langCode string) bool {
	_, ok := deeplLanguages[strings.ToLower(langCode)]
	return ok
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate implements Provider.
func (p *DeepLProvider) Translate(ctx context.Context, text, targetLang, sourceLang string) (Result, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", p.NormalizeLanguageCode(targetLang))
	if sourceLang != "" {
		form.Set("source_lang", p.NormalizeLanguageCode(sourceLang))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+p.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("deepl: unexpected HTTP status %d", resp.StatusCode)
	}

	var body deeplResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("deepl: decoding response: %w", err)
	}
	if len(body.Translations) == 0 {
		return Result{}, fmt.Errorf("deepl: empty translations in response")
	}
	return Result{
		Text:           body.Translations[0].Text,
		SourceLanguage: body.Translations[0].DetectedSourceLanguage,
	}, nil
}
