// Package types contains the data records shared between the NewsFlow
// components, the platform-agnostic Message payload and the delivery
// adapter interface.
package types

import "time"

// ErrorThreshold is the number of consecutive fetch failures after which a
// feed is deactivated.
const ErrorThreshold = 10

// Feed is one upstream syndication URL with its fetch state.
type Feed struct {
	ID          int64  `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SiteURL     string `json:"site_url"`

	IsActive   bool   `json:"is_active"`
	ErrorCount int    `json:"error_count"`
	LastError  string `json:"last_error,omitempty"`

	// Validators for conditional GET, opaque strings from upstream.
	ETag         string `json:"-"`
	LastModified string `json:"-"`

	LastFetchedAt         *time.Time `json:"last_fetched_at"`
	LastSuccessfulFetchAt *time.Time `json:"last_successful_fetch_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the feed title, falling back to the URL.
func (f *Feed) DisplayName() string {
	if f.Title != "" {
		return f.Title
	}
	return f.URL
}

// FeedEntry is one article under a Feed. Entries are immutable after
// insertion except for the translation cache columns.
type FeedEntry struct {
	ID     int64  `json:"id"`
	FeedID int64  `json:"feed_id"`
	GUID   string `json:"guid"`

	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Summary     string     `json:"summary,omitempty"`
	Content     string     `json:"content,omitempty"`
	Author      string     `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at"`
	ImageURL    string     `json:"image_url,omitempty"`

	// Translation cache, valid only for TranslationLanguage.
	TitleTranslated     string `json:"title_translated,omitempty"`
	SummaryTranslated   string `json:"summary_translated,omitempty"`
	TranslationLanguage string `json:"translation_language,omitempty"`

	// Per-feed hint, set once the entry has been delivered to any
	// subscription. The sent_receipts table is authoritative for dedup.
	IsSent bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayTitle prefers the translated title when present.
func (e *FeedEntry) DisplayTitle() string {
	if e.TitleTranslated != "" {
		return e.TitleTranslated
	}
	return e.Title
}

// DisplaySummary prefers the translated summary when present.
func (e *FeedEntry) DisplaySummary() string {
	if e.SummaryTranslated != "" {
		return e.SummaryTranslated
	}
	return e.Summary
}

// Subscription binds one (platform, channel) to a feed, with per-channel
// delivery preferences.
type Subscription struct {
	ID                int64  `json:"id"`
	Platform          string `json:"platform"`
	PlatformUserID    string `json:"platform_user_id,omitempty"`
	PlatformChannelID string `json:"platform_channel_id"`
	PlatformGuildID   string `json:"platform_guild_id,omitempty"`
	FeedID            int64  `json:"feed_id"`

	IsActive       bool   `json:"is_active"`
	Translate      bool   `json:"translate"`
	TargetLanguage string `json:"target_language"`
	ShowSummary    bool   `json:"show_summary"`
	ShowImage      bool   `json:"show_image"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Feed is eagerly loaded by the subscription queries that need it.
	Feed *Feed `json:"feed,omitempty"`
}

// SentReceipt is the delivery ledger row: this entry was observably
// delivered to this subscription's sink.
type SentReceipt struct {
	ID             int64
	SubscriptionID int64
	EntryID        int64
	SentAt         time.Time
}

// Stats is a point-in-time snapshot of table sizes for the ops API.
type Stats struct {
	Feeds         int `json:"feeds"`
	ActiveFeeds   int `json:"active_feeds"`
	Entries       int `json:"entries"`
	Subscriptions int `json:"subscriptions"`
	SentReceipts  int `json:"sent_receipts"`
}
