// Package subscriptions binds chat channels to feeds and manages their
// per-channel display and translation settings.
package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/newsflow-bot/newsflow/database"
	"github.com/newsflow-bot/newsflow/feeds"
	"github.com/newsflow-bot/newsflow/types"
)

// ErrSubscriptionNotFound is returned when unsubscribing a channel that
// never subscribed to the feed.
var ErrSubscriptionNotFound = errors.New("Subscription not found")

// SubscribeRequest identifies the channel and feed to bind, plus
// optional initial settings.
type SubscribeRequest struct {
	Platform       string
	UserID         string
	ChannelID      string
	GuildID        string
	FeedURL        string
	Translate      *bool
	TargetLanguage string
}

// Service implements the subscription operations on top of the store
// and the feed service.
type Service struct {
	DB            database.Storer
	Feeds         *feeds.Service
	MaxPerChannel int
}

// NewService makes a subscription service. Non-positive maxPerChannel
// means no per-channel quota.
func NewService(db database.Storer, feedService *feeds.Service, maxPerChannel int) *Service {
	return &Service{DB: db, Feeds: feedService, MaxPerChannel: maxPerChannel}
}

// Subscribe binds a channel to a feed, registering the feed first when
// it is unknown. Re-subscribing an active binding returns it with
// isNew=false; re-subscribing an inactive one reactivates it.
func (s *Service) Subscribe(ctx context.Context, req SubscribeRequest) (sub types.Subscription, isNew bool, err error) {
	if s.MaxPerChannel > 0 {
		var count int
		count, err = s.DB.CountChannelSubscriptions(req.Platform, req.ChannelID)
		if err != nil {
			return
		}
		if count >= s.MaxPerChannel {
			err = fmt.Errorf("Maximum feeds (%d) reached", s.MaxPerChannel)
			return
		}
	}

	feed, err := s.DB.FeedByURL(req.FeedURL)
	if err == sql.ErrNoRows {
		feed, err = s.Feeds.AddFeed(ctx, req.FeedURL)
	}
	if err != nil {
		return
	}

	sub = types.Subscription{
		Platform:          req.Platform,
		PlatformUserID:    req.UserID,
		PlatformChannelID: req.ChannelID,
		PlatformGuildID:   req.GuildID,
		FeedID:            feed.ID,
		IsActive:          true,
		Translate:         true,
		TargetLanguage:    "zh-CN",
		ShowSummary:       true,
		ShowImage:         true,
	}
	if req.Translate != nil {
		sub.Translate = *req.Translate
	}
	if req.TargetLanguage != "" {
		sub.TargetLanguage = req.TargetLanguage
	}

	isNew, err = s.DB.GetOrCreateSubscription(&sub)
	if err != nil {
		return
	}
	if sub.Feed == nil {
		sub.Feed = &feed
	}
	log.WithFields(log.Fields{
		"platform": req.Platform,
		"channel":  req.ChannelID,
		"feed_id":  feed.ID,
		"is_new":   isNew,
	}).Info("Channel subscribed to feed")
	return
}

// Unsubscribe removes a channel's binding to a feed. Returns
// feeds.ErrFeedNotFound for an unknown URL and ErrSubscriptionNotFound
// when the binding does not exist.
func (s *Service) Unsubscribe(platform, channelID, feedURL string) error {
	feed, err := s.DB.FeedByURL(feedURL)
	if err == sql.ErrNoRows {
		return feeds.ErrFeedNotFound
	} else if err != nil {
		return err
	}

	ok, err := s.DB.DeleteSubscription(platform, channelID, feed.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSubscriptionNotFound
	}
	log.WithFields(log.Fields{
		"platform": platform,
		"channel":  channelID,
		"feed_id":  feed.ID,
	}).Info("Channel unsubscribed from feed")
	return nil
}

// List returns the channel's active subscriptions, feeds included.
func (s *Service) List(platform, channelID string) ([]types.Subscription, error) {
	return s.DB.ChannelSubscriptions(platform, channelID)
}

// UpdateSettings applies a partial settings update to the channel's
// binding for feedURL, or to all of the channel's bindings when feedURL
// is empty.
func (s *Service) UpdateSettings(platform, channelID, feedURL string, settings database.SubscriptionSettings) error {
	if feedURL != "" {
		feed, err := s.DB.FeedByURL(feedURL)
		if err == sql.ErrNoRows {
			return feeds.ErrFeedNotFound
		} else if err != nil {
			return err
		}
		sub, err := s.DB.Subscription(platform, channelID, feed.ID)
		if err == sql.ErrNoRows {
			return ErrSubscriptionNotFound
		} else if err != nil {
			return err
		}
		return s.DB.UpdateSubscriptionSettings(sub.ID, settings)
	}

	subs, err := s.DB.ChannelSubscriptions(platform, channelID)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if err := s.DB.UpdateSubscriptionSettings(sub.ID, settings); err != nil {
			return err
		}
	}
	return nil
}
