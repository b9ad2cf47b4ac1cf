package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// googleLanguages is the set of base language codes the v2 API accepts.
var googleLanguages = map[string]bool{
	"af": true, "sq": true, "am": true, "ar": true, "hy": true, "az": true,
	"eu": true, "be": true, "bn": true, "bs": true, "bg": true, "ca": true,
	"ceb": true, "zh": true, "co": true, "hr": true, "cs": true, "da": true,
	"nl": true, "en": true, "eo": true, "et": true, "fi": true, "fr": true,
	"fy": true, "gl": true, "ka": true, "de": true, "el": true, "gu": true,
	"ht": true, "ha": true, "haw": true, "he": true, "hi": true, "hmn": true,
	"hu": true, "is": true, "ig": true, "id": true, "ga": true, "it": true,
	"ja": true, "jv": true, "kn": true, "kk": true, "km": true, "rw": true,
	"ko": true, "ku": true, "ky": true, "lo": true, "la": true, "lv": true,
	"lt": true, "lb": true, "mk": true, "mg": true, "ms": true, "ml": true,
	"mt": true, "mi": true, "mr": true, "mn": true, "my": true, "ne": true,
	"no": true, "ny": true, "or": true, "ps": true, "fa": true, "pl": true,
	"pt": true, "pa": true, "ro": true, "ru": true, "sm": true, "gd": true,
	"sr": true, "st": true, "sn": true, "sd": true, "si": true, "sk": true,
	"sl": true, "so": true, "es": true, "su": true, "sw": true, "sv": true,
	"tl": true, "tg": true, "ta": true, "tt": true, "te": true, "th": true,
	"tr": true, "tk": true, "uk": true, "ur": true, "ug": true, "uz": true,
	"vi": true, "cy": true, "xh": true, "yi": true, "yo": true, "zu": true,
}

const googleEndpoint = "https://translation.googleapis.com/language/translate/v2"

// GoogleProvider translates through the Cloud Translation v2 REST API
// with API-key auth.
type GoogleProvider struct {
	APIKey string
}

// NewGoogleProvider makes a provider for the given API key.
func NewGoogleProvider(apiKey string) *GoogleProvider {
	return &GoogleProvider{APIKey: apiKey}
}

// Name implements Provider.
func (p *GoogleProvider) Name() string { return "google" }

// NormalizeLanguageCode maps the Chinese variants onto Google's casing.
func (p *GoogleProvider) NormalizeLanguageCode(langCode string) string {
	switch code := strings.ToLower(langCode); code {
	case "zh-cn", "zh-hans":
		return "zh-CN"
	case "zh-tw", "zh-hant":
		return "zh-TW"
	default:
		return code
	}
}

// SupportsLanguage reports whether Google can produce langCode.
func (p *GoogleProvider) SupportsLanguage(langCode string) bool {
	base := strings.SplitN(strings.ToLower(langCode), "-", 2)[0]
	return googleLanguages[base]
}

type googleResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate implements Provider.
func (p *GoogleProvider) Translate(ctx context.Context, text, targetLang, sourceLang string) (Result, error) {
	form := url.Values{}
	form.Set("q", text)
	form.Set("target", p.NormalizeLanguageCode(targetLang))
	form.Set("format", "text")
	if sourceLang != "" {
		form.Set("source", p.NormalizeLanguageCode(sourceLang))
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		googleEndpoint+"?key="+url.QueryEscape(p.APIKey), strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("google translate: unexpected HTTP status %d", resp.StatusCode)
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("google translate: decoding response: %w", err)
	}
	if len(body.Data.Translations) == 0 {
		return Result{}, fmt.Errorf("google translate: empty translations in response")
	}
	return Result{
		Text:           body.Data.Translations[0].TranslatedText,
		SourceLanguage: body.Data.Translations[0].DetectedSourceLanguage,
	}, nil
}
