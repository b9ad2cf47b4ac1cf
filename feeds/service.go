// Package feeds owns the feed lifecycle: registering new feeds,
// refreshing known ones on the poll schedule and pruning old entries.
package feeds

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/newsflow-bot/newsflow/database"
	"github.com/newsflow-bot/newsflow/fetcher"
	"github.com/newsflow-bot/newsflow/metrics"
	"github.com/newsflow-bot/newsflow/types"
)

// Validation failures surfaced to end users; anything else is an
// internal error.
var (
	ErrFeedExists    = errors.New("Feed already exists")
	ErrFeedNoEntries = errors.New("Feed has no entries")
	ErrFeedNotFound  = errors.New("Feed not found")
)

// Service coordinates the fetcher and the store.
type Service struct {
	DB      database.Storer
	Fetcher *fetcher.Fetcher
}

// NewService makes a feed service.
func NewService(db database.Storer, f *fetcher.Fetcher) *Service {
	return &Service{DB: db, Fetcher: f}
}

// AddFeed validates url by fetching it, then registers the feed and
// stores its initial entries. Returns ErrFeedExists when the URL is
// already registered and ErrFeedNoEntries when the document parses but
// has no items.
func (s *Service) AddFeed(ctx context.Context, url string) (types.Feed, error) {
	if _, err := s.DB.FeedByURL(url); err == nil {
		return types.Feed{}, ErrFeedExists
	}

	result, err := s.Fetcher.Fetch(ctx, url, "", "")
	if err != nil {
		metrics.IncrementPoll(metrics.StatusFailure)
		return types.Feed{}, err
	}
	metrics.IncrementPoll(metrics.StatusSuccess)
	if len(result.Entries) == 0 {
		return types.Feed{}, ErrFeedNoEntries
	}

	feed, created, err := s.DB.GetOrCreateFeed(url, result.Title, result.Description, result.SiteURL)
	if err != nil {
		return types.Feed{}, err
	}
	if !created {
		return types.Feed{}, ErrFeedExists
	}
	if err := s.DB.MarkFeedSuccess(feed.ID, result.Title, result.Description, result.SiteURL,
		result.ETag, result.LastModified); err != nil {
		return types.Feed{}, err
	}

	stored, err := s.DB.InsertEntries(feed.ID, result.Entries)
	if err != nil {
		return types.Feed{}, err
	}
	metrics.AddNewEntries(len(stored))
	log.WithFields(log.Fields{
		"feed_id": feed.ID,
		"url":     url,
		"entries": len(stored),
	}).Info("Registered new feed")

	feed, err = s.DB.FeedByID(feed.ID)
	return feed, err
}

// FetchAndStore refreshes one feed with a conditional GET and stores any
// new entries, returning them. A 304 and a fetch error both return an
// empty slice; errors are recorded against the feed rather than
// propagated so one bad feed never stops a cycle.
func (s *Service) FetchAndStore(ctx context.Context, feed types.Feed) []types.FeedEntry {
	result, err := s.Fetcher.Fetch(ctx, feed.URL, feed.ETag, feed.LastModified)
	return s.storeOutcome(fetcher.Outcome{Feed: feed, Result: result, Err: err})
}

// FetchAll refreshes every feed due for a fetch and returns the total
// number of new entries stored. fetched reports how many feeds were
// polled.
func (s *Service) FetchAll(ctx context.Context, interval time.Duration) (fetched, newEntries int, err error) {
	due, err := s.DB.FeedsNeedingFetch(interval)
	if err != nil {
		return 0, 0, err
	}
	outcomes := s.Fetcher.FetchMany(ctx, due)
	for _, outcome := range outcomes {
		fetched++
		newEntries += len(s.storeOutcome(outcome))
	}
	return fetched, newEntries, nil
}

// storeOutcome applies one FetchMany outcome to the store, mirroring
// FetchAndStore for pre-fetched results.
func (s *Service) storeOutcome(outcome fetcher.Outcome) []types.FeedEntry {
	feed := outcome.Feed
	if outcome.Err != nil {
		metrics.IncrementPoll(metrics.StatusFailure)
		log.WithError(outcome.Err).WithFields(log.Fields{
			"feed_id": feed.ID,
			"url":     feed.URL,
			"kind":    fetcher.KindOf(outcome.Err),
		}).Warn("Feed fetch failed")
		if dbErr := s.DB.MarkFeedError(feed.ID, outcome.Err.Error()); dbErr != nil {
			log.WithError(dbErr).WithField("feed_id", feed.ID).Error("Failed to record feed error")
		}
		return nil
	}
	metrics.IncrementPoll(metrics.StatusSuccess)
	result := outcome.Result
	if result.NotModified {
		if err := s.DB.MarkFeedNotModified(feed.ID); err != nil {
			log.WithError(err).WithField("feed_id", feed.ID).Error("Failed to record 304")
		}
		return nil
	}
	if err := s.DB.MarkFeedSuccess(feed.ID, result.Title, result.Description, result.SiteURL,
		result.ETag, result.LastModified); err != nil {
		log.WithError(err).WithField("feed_id", feed.ID).Error("Failed to record feed success")
		return nil
	}
	stored, err := s.DB.InsertEntries(feed.ID, result.Entries)
	if err != nil {
		log.WithError(err).WithField("feed_id", feed.ID).Error("Failed to store entries")
		return nil
	}
	if len(stored) > 0 {
		metrics.AddNewEntries(len(stored))
		log.WithFields(log.Fields{
			"feed_id": feed.ID,
			"entries": len(stored),
		}).Info("Stored new entries")
	}
	return stored
}

// CleanupOldEntries removes entries stored more than retention ago and
// returns the number deleted.
func (s *Service) CleanupOldEntries(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	n, err := s.DB.DeleteEntriesBefore(cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.WithField("deleted", n).Info("Cleaned up old entries")
	}
	return n, nil
}
