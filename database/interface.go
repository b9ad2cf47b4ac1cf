package database

import (
	"time"

	"github.com/newsflow-bot/newsflow/types"
)

// SubscriptionSettings carries partial updates for a subscription. Nil
// fields are left untouched.
type SubscriptionSettings struct {
	Translate      *bool
	TargetLanguage *string
	ShowSummary    *bool
	ShowImage      *bool
}

// Storer is the interface which needs to be conformed to in order to
// persist NewsFlow data.
type Storer interface {
	FeedByID(feedID int64) (types.Feed, error)
	FeedByURL(url string) (types.Feed, error)
	ActiveFeeds() ([]types.Feed, error)
	FeedsNeedingFetch(interval time.Duration) ([]types.Feed, error)
	InsertFeed(feed *types.Feed) error
	GetOrCreateFeed(url, title, description, siteURL string) (feed types.Feed, created bool, err error)
	MarkFeedSuccess(feedID int64, title, description, siteURL, etag, lastModified string) error
	MarkFeedNotModified(feedID int64) error
	MarkFeedError(feedID int64, fetchErr string) error
	DeleteFeed(feedID int64) error
	CountEntries(feedID int64) (int, error)

	EntryByGUID(feedID int64, guid string) (types.FeedEntry, error)
	InsertEntries(feedID int64, entries []types.FeedEntry) ([]types.FeedEntry, error)
	UnsentEntries(feedID int64, limit int) ([]types.FeedEntry, error)
	RecentEntries(feedID int64, limit int) ([]types.FeedEntry, error)
	SetEntryTranslation(entryID int64, title, summary, language string) error
	DeleteEntriesBefore(cutoff time.Time) (int64, error)

	Subscription(platform, channelID string, feedID int64) (types.Subscription, error)
	SubscriptionByID(subscriptionID int64) (types.Subscription, error)
	ChannelSubscriptions(platform, channelID string) ([]types.Subscription, error)
	FeedSubscriptions(feedID int64) ([]types.Subscription, error)
	ActiveSubscriptions() ([]types.Subscription, error)
	GetOrCreateSubscription(sub *types.Subscription) (created bool, err error)
	UpdateSubscriptionSettings(subscriptionID int64, settings SubscriptionSettings) error
	DeactivateSubscription(platform, channelID string, feedID int64) (bool, error)
	DeleteSubscription(platform, channelID string, feedID int64) (bool, error)
	CountChannelSubscriptions(platform, channelID string) (int, error)

	IsEntrySent(subscriptionID, entryID int64) (bool, error)
	MarkEntrySent(subscriptionID, entryID int64) error
	UnsentEntriesForSubscription(subscriptionID int64, limit int) ([]types.FeedEntry, error)
	DeleteReceiptsBefore(cutoff time.Time) (int64, error)

	Stats() (types.Stats, error)
}

// NopStorage nops every store API call. This is intended to be embedded
// into derived structs in tests.
type NopStorage struct{}

// FeedByID NOP
func (s *NopStorage) FeedByID(feedID int64) (feed types.Feed, err error) { return }

// FeedByURL NOP
func (s *NopStorage) FeedByURL(url string) (feed types.Feed, err error) { return }

// ActiveFeeds NOP
func (s *NopStorage) ActiveFeeds() (feeds []types.Feed, err error) { return }

// FeedsNeedingFetch NOP
func (s *NopStorage) FeedsNeedingFetch(interval time.Duration) (feeds []types.Feed, err error) {
	return
}

// InsertFeed NOP
func (s *NopStorage) InsertFeed(feed *types.Feed) (err error) { return }

// GetOrCreateFeed NOP
func (s *NopStorage) GetOrCreateFeed(url, title, description, siteURL string) (feed types.Feed, created bool, err error) {
	return
}

// MarkFeedSuccess NOP
func (s *NopStorage) MarkFeedSuccess(feedID int64, title, description, siteURL, etag, lastModified string) (err error) {
	return
}

// MarkFeedNotModified NOP
func (s *NopStorage) MarkFeedNotModified(feedID int64) (err error) { return }

// MarkFeedError NOP
func (s *NopStorage) MarkFeedError(feedID int64, fetchErr string) (err error) { return }

// DeleteFeed NOP
func (s *NopStorage) DeleteFeed(feedID int64) (err error) { return }

// CountEntries NOP
func (s *NopStorage) CountEntries(feedID int64) (n int, err error) { return }

// EntryByGUID NOP
func (s *NopStorage) EntryByGUID(feedID int64, guid string) (entry types.FeedEntry, err error) {
	return
}

// InsertEntries NOP
func (s *NopStorage) InsertEntries(feedID int64, entries []types.FeedEntry) (created []types.FeedEntry, err error) {
	return
}

// UnsentEntries NOP
func (s *NopStorage) UnsentEntries(feedID int64, limit int) (entries []types.FeedEntry, err error) {
	return
}

// RecentEntries NOP
func (s *NopStorage) RecentEntries(feedID int64, limit int) (entries []types.FeedEntry, err error) {
	return
}

// SetEntryTranslation NOP
func (s *NopStorage) SetEntryTranslation(entryID int64, title, summary, language string) (err error) {
	return
}

// DeleteEntriesBefore NOP
func (s *NopStorage) DeleteEntriesBefore(cutoff time.Time) (n int64, err error) { return }

// Subscription NOP
func (s *NopStorage) Subscription(platform, channelID string, feedID int64) (sub types.Subscription, err error) {
	return
}

// SubscriptionByID NOP
func (s *NopStorage) SubscriptionByID(subscriptionID int64) (sub types.Subscription, err error) {
	return
}

// ChannelSubscriptions NOP
func (s *NopStorage) ChannelSubscriptions(platform, channelID string) (subs []types.Subscription, err error) {
	return
}

// FeedSubscriptions NOP
func (s *NopStorage) FeedSubscriptions(feedID int64) (subs []types.Subscription, err error) {
	return
}

// ActiveSubscriptions NOP
func (s *NopStorage) ActiveSubscriptions() (subs []types.Subscription, err error) { return }

// GetOrCreateSubscription NOP
func (s *NopStorage) GetOrCreateSubscription(sub *types.Subscription) (created bool, err error) {
	return
}

// UpdateSubscriptionSettings NOP
func (s *NopStorage) UpdateSubscriptionSettings(subscriptionID int64, settings SubscriptionSettings) (err error) {
	return
}

// DeactivateSubscription NOP
func (s *NopStorage) DeactivateSubscription(platform, channelID string, feedID int64) (ok bool, err error) {
	return
}

// DeleteSubscription NOP
func (s *NopStorage) DeleteSubscription(platform, channelID string, feedID int64) (ok bool, err error) {
	return
}

// CountChannelSubscriptions NOP
func (s *NopStorage) CountChannelSubscriptions(platform, channelID string) (n int, err error) {
	return
}

// IsEntrySent NOP
func (s *NopStorage) IsEntrySent(subscriptionID, entryID int64) (sent bool, err error) { return }

// MarkEntrySent NOP
func (s *NopStorage) MarkEntrySent(subscriptionID, entryID int64) (err error) { return }

// UnsentEntriesForSubscription NOP
func (s *NopStorage) UnsentEntriesForSubscription(subscriptionID int64, limit int) (entries []types.FeedEntry, err error) {
	return
}

// DeleteReceiptsBefore NOP
func (s *NopStorage) DeleteReceiptsBefore(cutoff time.Time) (n int64, err error) { return }

// Stats NOP
func (s *NopStorage) Stats() (stats types.Stats, err error) { return }
