// Package database persists feeds, entries, subscriptions and sent
// receipts behind the Storer interface. It is backed by database/sql and
// supports the sqlite3 and postgres drivers.
package database

import (
	"database/sql"
	"time"

	"github.com/newsflow-bot/newsflow/types"
)

// A ServiceDB stores the NewsFlow state.
type ServiceDB struct {
	db *sql.DB
}

// Open a SQL database to use as a ServiceDB. This will automatically create
// the necessary database tables if they aren't already present.
func Open(databaseType, databaseURL string) (serviceDB *ServiceDB, err error) {
	db, err := sql.Open(databaseType, databaseURL)
	if err != nil {
		return
	}
	if databaseType == "sqlite3" {
		// Fix for "database is locked" errors, and keeps :memory:
		// databases on the single connection that holds their schema
		// https://github.com/mattn/go-sqlite3/issues/274
		db.SetMaxOpenConns(1)
		// SQLite ships with foreign keys off; the cascades on feed and
		// subscription deletion depend on them.
		if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return
		}
	}
	if _, err = db.Exec(schemaSQL(databaseType)); err != nil {
		return
	}
	serviceDB = &ServiceDB{db: db}
	return
}

// Close closes the underlying connection pool.
func (d *ServiceDB) Close() error {
	return d.db.Close()
}

// FeedByID loads a feed by its ID.
// Returns sql.ErrNoRows if the feed isn't in the database.
func (d *ServiceDB) FeedByID(feedID int64) (feed types.Feed, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		feed, err = selectFeedByIDTxn(txn, feedID)
		return err
	})
	return
}

// FeedByURL loads a feed by its unique URL.
// Returns sql.ErrNoRows if the feed isn't in the database.
func (d *ServiceDB) FeedByURL(url string) (feed types.Feed, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		feed, err = selectFeedByURLTxn(txn, url)
		return err
	})
	return
}

// ActiveFeeds loads all feeds which have not been deactivated.
func (d *ServiceDB) ActiveFeeds() (feeds []types.Feed, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		feeds, err = selectActiveFeedsTxn(txn)
		return err
	})
	return
}

// FeedsNeedingFetch loads active feeds that were never fetched or whose
// last fetch is older than interval.
func (d *ServiceDB) FeedsNeedingFetch(interval time.Duration) (feeds []types.Feed, err error) {
	cutoff := time.Now().UTC().Add(-interval)
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		feeds, err = selectFeedsNeedingFetchTxn(txn, cutoff)
		return err
	})
	return
}

// InsertFeed inserts a new feed and fills in its ID and timestamps.
func (d *ServiceDB) InsertFeed(feed *types.Feed) error {
	return runTransaction(d.db, func(txn *sql.Tx) error {
		return insertFeedTxn(txn, time.Now(), feed)
	})
}

// GetOrCreateFeed returns the feed for url, creating it when absent.
// The created flag reports whether a new row was inserted.
func (d *ServiceDB) GetOrCreateFeed(url, title, description, siteURL string) (feed types.Feed, created bool, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		feed, err = selectFeedByURLTxn(txn, url)
		if err == sql.ErrNoRows {
			feed = types.Feed{
				URL:         url,
				Title:       title,
				Description: description,
				SiteURL:     siteURL,
				IsActive:    true,
			}
			created = true
			return insertFeedTxn(txn, time.Now(), &feed)
		}
		return err
	})
	return
}

// MarkFeedSuccess records a successful fetch: clears the error state,
// stores fresh metadata and validators, and bumps the fetch timestamps.
// Empty metadata/validator values leave the stored ones untouched.
func (d *ServiceDB) MarkFeedSuccess(feedID int64, title, description, siteURL, etag, lastModified string) error {
	return runTransaction(d.db, func(txn *sql.Tx) error {
		return updateFeedSuccessTxn(txn, time.Now(), feedID, title, description, siteURL, etag, lastModified)
	})
}

// MarkFeedNotModified records a 304 fetch: error state is cleared and the
// fetch timestamps bumped, but validators and metadata stay as they were.
func (d *ServiceDB) MarkFeedNotModified(feedID int64) error {
	return runTransaction(d.db, func(txn *sql.Tx) error {
		return updateFeedSuccessTxn(txn, time.Now(), feedID, "", "", "", "", "")
	})
}

// MarkFeedError increments the feed's error count and records the error.
// After types.ErrorThreshold consecutive errors the feed is deactivated.
func (d *ServiceDB) MarkFeedError(feedID int64, fetchErr string) error {
	return runTransaction(d.db, func(txn *sql.Tx) error {
		return updateFeedErrorTxn(txn, time.Now(), feedID, fetchErr)
	})
}

// DeleteFeed deletes the feed along with its entries, subscriptions and
// receipts (cascade).
func (d *ServiceDB) DeleteFeed(feedID int64) error {
	return runTransaction(d.db, func(txn *sql.Tx) error {
		return deleteFeedTxn(txn, feedID)
	})
}

// CountEntries counts the stored entries for a feed.
func (d *ServiceDB) CountEntries(feedID int64) (n int, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		n, err = countEntriesTxn(txn, feedID)
		return err
	})
	return
}

// EntryByGUID loads an entry by its (feed, guid) natural key.
// Returns sql.ErrNoRows if the entry isn't in the database.
func (d *ServiceDB) EntryByGUID(feedID int64, guid string) (entry types.FeedEntry, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		entry, err = selectEntryByGUIDTxn(txn, feedID, guid)
		return err
	})
	return
}

// InsertEntries bulk inserts entries for a feed. Entries whose (feed, guid)
// already exists are silently skipped; only the newly created entries are
// returned, with IDs filled in.
func (d *ServiceDB) InsertEntries(feedID int64, entries []types.FeedEntry) (created []types.FeedEntry, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		now := time.Now()
		for i := range entries {
			entry := entries[i]
			entry.FeedID = feedID
			inserted, err := insertEntryTxn(txn, now, &entry)
			if err != nil {
				return err
			}
			if inserted {
				created = append(created, entry)
			}
		}
		return nil
	})
	return
}

// UnsentEntries loads entries of a feed which have not yet been delivered
// to any subscription, newest first.
func (d *ServiceDB) UnsentEntries(feedID int64, limit int) (entries []types.FeedEntry, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		entries, err = selectUnsentEntriesTxn(txn, feedID, limit)
		return err
	})
	return
}

// RecentEntries loads the most recent entries for a feed, ordered by
// published_at descending with unknown dates last.
func (d *ServiceDB) RecentEntries(feedID int64, limit int) (entries []types.FeedEntry, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		entries, err = selectRecentEntriesTxn(txn, feedID, limit)
		return err
	})
	return
}

// SetEntryTranslation stores the translation cache columns for an entry.
func (d *ServiceDB) SetEntryTranslation(entryID int64, title, summary, language string) error {
	return runTransaction(d.db, func(txn *sql.Tx) error {
		return updateEntryTranslationTxn(txn, time.Now(), entryID, title, summary, language)
	})
}

// DeleteEntriesBefore deletes entries created before cutoff and returns
// the number of rows removed. Used by the janitor.
func (d *ServiceDB) DeleteEntriesBefore(cutoff time.Time) (n int64, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		n, err = deleteEntriesBeforeTxn(txn, cutoff)
		return err
	})
	return
}

// Subscription loads one (platform, channel, feed) binding with its feed.
// Returns sql.ErrNoRows if the subscription isn't in the database.
func (d *ServiceDB) Subscription(platform, channelID string, feedID int64) (sub types.Subscription, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		sub, err = selectSubscriptionTxn(txn, platform, channelID, feedID)
		return err
	})
	return
}

// SubscriptionByID loads a subscription by ID with its feed.
// Returns sql.ErrNoRows if the subscription isn't in the database.
func (d *ServiceDB) SubscriptionByID(subscriptionID int64) (sub types.Subscription, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		sub, err = selectSubscriptionByIDTxn(txn, subscriptionID)
		return err
	})
	return
}

// ChannelSubscriptions loads the active subscriptions of one channel with
// their feeds.
func (d *ServiceDB) ChannelSubscriptions(platform, channelID string) (subs []types.Subscription, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		subs, err = selectChannelSubscriptionsTxn(txn, platform, channelID)
		return err
	})
	return
}

// FeedSubscriptions loads the active subscriptions of one feed.
func (d *ServiceDB) FeedSubscriptions(feedID int64) (subs []types.Subscription, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		subs, err = selectFeedSubscriptionsTxn(txn, feedID)
		return err
	})
	return
}

// ActiveSubscriptions loads every active subscription with its feed.
func (d *ServiceDB) ActiveSubscriptions() (subs []types.Subscription, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		subs, err = selectActiveSubscriptionsTxn(txn)
		return err
	})
	return
}

// GetOrCreateSubscription returns the binding for sub's natural key,
// creating it when absent and reactivating it when inactive. The created
// flag is true only for a brand new row.
func (d *ServiceDB) GetOrCreateSubscription(sub *types.Subscription) (created bool, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		existing, err := selectSubscriptionTxn(txn, sub.Platform, sub.PlatformChannelID, sub.FeedID)
		if err == sql.ErrNoRows {
			created = true
			return insertSubscriptionTxn(txn, time.Now(), sub)
		} else if err != nil {
			return err
		}
		if !existing.IsActive {
			if err := updateSubscriptionActiveTxn(txn, time.Now(), existing.ID, true); err != nil {
				return err
			}
			existing.IsActive = true
		}
		*sub = existing
		return nil
	})
	return
}

// UpdateSubscriptionSettings applies a partial settings update.
func (d *ServiceDB) UpdateSubscriptionSettings(subscriptionID int64, settings SubscriptionSettings) error {
	return runTransaction(d.db, func(txn *sql.Tx) error {
		return updateSubscriptionSettingsTxn(txn, time.Now(), subscriptionID, settings)
	})
}

// DeactivateSubscription flips the binding inactive, keeping its history.
func (d *ServiceDB) DeactivateSubscription(platform, channelID string, feedID int64) (ok bool, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		sub, err := selectSubscriptionTxn(txn, platform, channelID, feedID)
		if err == sql.ErrNoRows {
			return nil
		} else if err != nil {
			return err
		}
		ok = true
		return updateSubscriptionActiveTxn(txn, time.Now(), sub.ID, false)
	})
	return
}

// DeleteSubscription removes the binding and its receipts (cascade).
func (d *ServiceDB) DeleteSubscription(platform, channelID string, feedID int64) (ok bool, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		ok, err = deleteSubscriptionTxn(txn, platform, channelID, feedID)
		return err
	})
	return
}

// CountChannelSubscriptions counts a channel's active subscriptions, for
// quota enforcement.
func (d *ServiceDB) CountChannelSubscriptions(platform, channelID string) (n int, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		n, err = countChannelSubscriptionsTxn(txn, platform, channelID)
		return err
	})
	return
}

// IsEntrySent reports whether a receipt exists for (subscription, entry).
func (d *ServiceDB) IsEntrySent(subscriptionID, entryID int64) (sent bool, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		sent, err = selectReceiptExistsTxn(txn, subscriptionID, entryID)
		return err
	})
	return
}

// MarkEntrySent writes the delivery receipt for (subscription, entry).
// Writing the same receipt twice is a no-op.
func (d *ServiceDB) MarkEntrySent(subscriptionID, entryID int64) error {
	return runTransaction(d.db, func(txn *sql.Tx) error {
		return insertReceiptTxn(txn, time.Now(), subscriptionID, entryID)
	})
}

// UnsentEntriesForSubscription is the core dispatch query: entries of the
// subscription's feed with no receipt for this subscription, ordered by
// published_at descending with unknown dates last, capped at limit.
func (d *ServiceDB) UnsentEntriesForSubscription(subscriptionID int64, limit int) (entries []types.FeedEntry, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		entries, err = selectUnsentForSubscriptionTxn(txn, subscriptionID, limit)
		return err
	})
	return
}

// DeleteReceiptsBefore deletes receipts sent before cutoff and returns the
// number of rows removed. Used by the janitor.
func (d *ServiceDB) DeleteReceiptsBefore(cutoff time.Time) (n int64, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		n, err = deleteReceiptsBeforeTxn(txn, cutoff)
		return err
	})
	return
}

// Stats counts the main tables for the ops API.
func (d *ServiceDB) Stats() (stats types.Stats, err error) {
	err = runTransaction(d.db, func(txn *sql.Tx) error {
		stats, err = selectStatsTxn(txn)
		return err
	})
	return
}

func runTransaction(db *sql.DB, fn func(txn *sql.Tx) error) (err error) {
	txn, err := db.Begin()
	if err != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			txn.Rollback()
			panic(r)
		} else if err != nil {
			txn.Rollback()
		} else {
			err = txn.Commit()
		}
	}()
	err = fn(txn)
	return
}
