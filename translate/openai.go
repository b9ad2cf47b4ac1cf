package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// languageNames gives the model a readable language name in the prompt.
var languageNames = map[string]string{
	"zh":      "Simplified Chinese",
	"zh-cn":   "Simplified Chinese",
	"zh-hans": "Simplified Chinese",
	"zh-tw":   "Traditional Chinese",
	"zh-hant": "Traditional Chinese",
	"en":      "English",
	"ja":      "Japanese",
	"ko":      "Korean",
	"fr":      "French",
	"de":      "German",
	"es":      "Spanish",
	"pt":      "Portuguese",
	"ru":      "Russian",
	"ar":      "Arabic",
	"hi":      "Hindi",
	"it":      "Italian",
	"nl":      "Dutch",
	"pl":      "Polish",
	"tr":      "Turkish",
	"vi":      "Vietnamese",
	"th":      "Thai",
	"id":      "Indonesian",
	"ms":      "Malay",
}

// DefaultOpenAIModel is used when the config leaves the model blank.
const DefaultOpenAIModel = "gpt-4o-mini"

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIProvider translates with a chat-completion model. BaseURL can
// point at any OpenAI-compatible server.
type OpenAIProvider struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewOpenAIProvider makes a provider. Empty model and baseURL fall back
// to the defaults.
func NewOpenAIProvider(apiKey, model, baseURL string) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIProvider{APIKey: apiKey, Model: model, BaseURL: baseURL}
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return "openai" }

// NormalizeLanguageCode implements Provider. The model takes language
// names in the prompt, so codes pass through unchanged.
func (p *OpenAIProvider) NormalizeLanguageCode(langCode string) string {
	return langCode
}

// SupportsLanguage implements Provider. The models handle effectively
// every language.
func (p *OpenAIProvider) SupportsLanguage(langCode string) bool { return true }

func languageName(langCode string) string {
	if name, ok := languageNames[strings.ToLower(langCode)]; ok {
		return name
	}
	return langCode
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Translate implements Provider.
func (p *OpenAIProvider) Translate(ctx context.Context, text, targetLang, sourceLang string) (Result, error) {
	targetName := languageName(targetLang)
	var systemPrompt string
	if sourceLang != "" {
		systemPrompt = fmt.Sprintf(
			"You are a professional translator. Translate the following text from %s to %s. "+
				"Preserve the original meaning and tone. Only output the translated text, nothing else.",
			languageName(sourceLang), targetName)
	} else {
		systemPrompt = fmt.Sprintf(
			"You are a professional translator. Translate the following text to %s. "+
				"Preserve the original meaning and tone. Only output the translated text, nothing else.",
			targetName)
	}

	payload, err := json.Marshal(chatRequest{
		Model: p.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
		MaxTokens:   2000,
	})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		strings.TrimRight(p.BaseURL, "/")+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("openai: unexpected HTTP status %d", resp.StatusCode)
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("openai: decoding response: %w", err)
	}
	if len(body.Choices) == 0 {
		return Result{}, fmt.Errorf("openai: empty choices in response")
	}
	return Result{Text: strings.TrimSpace(body.Choices[0].Message.Content)}, nil
}
