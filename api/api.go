// Package api contains the JSON request and response types of the
// admin HTTP API.
//
// See package "api/handlers" for the paths which consume them.
package api

import "github.com/newsflow-bot/newsflow/types"

// SubscribeRequest is the body of POST /admin/subscribe.
type SubscribeRequest struct {
	// Platform is the delivery platform name, e.g. "console" or "discord".
	Platform string `json:"platform"`
	// UserID is the platform user who asked for the subscription. Optional.
	UserID string `json:"user_id"`
	// ChannelID is the platform channel which will receive entries.
	ChannelID string `json:"channel_id"`
	// GuildID is the platform server/guild, where the platform has one. Optional.
	GuildID string `json:"guild_id"`
	// FeedURL is the RSS/Atom document URL to subscribe to.
	FeedURL string `json:"feed_url"`
	// Translate overrides the default translation setting. Optional.
	Translate *bool `json:"translate"`
	// TargetLanguage overrides the default target language. Optional.
	TargetLanguage string `json:"target_language"`
}

// SubscribeResponse is the body of a successful subscribe.
type SubscribeResponse struct {
	Subscription types.Subscription `json:"subscription"`
	IsNew        bool               `json:"is_new"`
}

// UnsubscribeRequest is the body of POST /admin/unsubscribe.
type UnsubscribeRequest struct {
	Platform  string `json:"platform"`
	ChannelID string `json:"channel_id"`
	FeedURL   string `json:"feed_url"`
}

// SubscriptionsResponse is the body of GET /admin/subscriptions.
type SubscriptionsResponse struct {
	Subscriptions []types.Subscription `json:"subscriptions"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	OK bool `json:"ok"`
}
