package types

import "time"

// Message is the platform-agnostic payload handed to delivery adapters.
// Adapters render it into platform-native form (embed card, HTML text).
type Message struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`

	TitleTranslated   string `json:"title_translated,omitempty"`
	SummaryTranslated string `json:"summary_translated,omitempty"`
}

// DisplayTitle prefers the translated title when present.
func (m *Message) DisplayTitle() string {
	if m.TitleTranslated != "" {
		return m.TitleTranslated
	}
	return m.Title
}

// DisplaySummary prefers the translated summary when present.
func (m *Message) DisplaySummary() string {
	if m.SummaryTranslated != "" {
		return m.SummaryTranslated
	}
	return m.Summary
}
