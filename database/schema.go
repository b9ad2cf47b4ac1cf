package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/newsflow-bot/newsflow/types"
)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS feeds (
	id $PRIMARY_KEY,
	url TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	site_url TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	error_count INTEGER NOT NULL DEFAULT 0,
	last_error TEXT NOT NULL DEFAULT '',
	etag TEXT NOT NULL DEFAULT '',
	last_modified TEXT NOT NULL DEFAULT '',
	last_fetched_ms BIGINT,
	last_success_ms BIGINT,
	time_added_ms BIGINT NOT NULL,
	time_updated_ms BIGINT NOT NULL,
	UNIQUE(url)
);

CREATE TABLE IF NOT EXISTS feed_entries (
	id $PRIMARY_KEY,
	feed_id BIGINT NOT NULL REFERENCES feeds(id) ON DELETE CASCADE,
	guid TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	link TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	published_ms BIGINT,
	image_url TEXT NOT NULL DEFAULT '',
	title_translated TEXT NOT NULL DEFAULT '',
	summary_translated TEXT NOT NULL DEFAULT '',
	translation_language TEXT NOT NULL DEFAULT '',
	is_sent BOOLEAN NOT NULL DEFAULT FALSE,
	time_added_ms BIGINT NOT NULL,
	time_updated_ms BIGINT NOT NULL,
	UNIQUE(feed_id, guid)
);
CREATE INDEX IF NOT EXISTS feed_entries_published_idx ON feed_entries(published_ms);

CREATE TABLE IF NOT EXISTS subscriptions (
	id $PRIMARY_KEY,
	platform TEXT NOT NULL,
	platform_user_id TEXT NOT NULL DEFAULT '',
	platform_channel_id TEXT NOT NULL,
	platform_guild_id TEXT NOT NULL DEFAULT '',
	feed_id BIGINT NOT NULL REFERENCES feeds(id) ON DELETE CASCADE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	translate BOOLEAN NOT NULL DEFAULT TRUE,
	target_language TEXT NOT NULL DEFAULT 'zh-CN',
	show_summary BOOLEAN NOT NULL DEFAULT TRUE,
	show_image BOOLEAN NOT NULL DEFAULT TRUE,
	time_added_ms BIGINT NOT NULL,
	time_updated_ms BIGINT NOT NULL,
	UNIQUE(platform, platform_channel_id, feed_id)
);
CREATE INDEX IF NOT EXISTS subscriptions_channel_idx ON subscriptions(platform, platform_channel_id);
CREATE INDEX IF NOT EXISTS subscriptions_active_idx ON subscriptions(is_active);

CREATE TABLE IF NOT EXISTS sent_receipts (
	id $PRIMARY_KEY,
	subscription_id BIGINT NOT NULL REFERENCES subscriptions(id) ON DELETE CASCADE,
	entry_id BIGINT NOT NULL REFERENCES feed_entries(id) ON DELETE CASCADE,
	sent_ms BIGINT NOT NULL,
	UNIQUE(subscription_id, entry_id)
);
CREATE INDEX IF NOT EXISTS sent_receipts_sent_idx ON sent_receipts(sent_ms);
`

// schemaSQL renders the DDL for the given driver. The only difference
// between the supported engines is the autoincrement primary key syntax.
func schemaSQL(databaseType string) string {
	pk := "BIGSERIAL PRIMARY KEY"
	if databaseType == "sqlite3" {
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return strings.Replace(schemaTemplate, "$PRIMARY_KEY", pk, -1)
}

const feedColumns = `id, url, title, description, site_url, is_active, error_count, last_error,
	etag, last_modified, last_fetched_ms, last_success_ms, time_added_ms, time_updated_ms`

const entryColumns = `id, feed_id, guid, title, link, summary, content, author, published_ms,
	image_url, title_translated, summary_translated, translation_language, is_sent,
	time_added_ms, time_updated_ms`

const subscriptionColumns = `s.id, s.platform, s.platform_user_id, s.platform_channel_id,
	s.platform_guild_id, s.feed_id, s.is_active, s.translate, s.target_language,
	s.show_summary, s.show_image, s.time_added_ms, s.time_updated_ms`

func msFromTime(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

func timeFromMs(ms int64) time.Time {
	return time.Unix(0, ms*int64(time.Millisecond)).UTC()
}

func nullableMs(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return msFromTime(*t)
}

func timeFromNullMs(ms sql.NullInt64) *time.Time {
	if !ms.Valid {
		return nil
	}
	t := timeFromMs(ms.Int64)
	return &t
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFeed(row rowScanner) (feed types.Feed, err error) {
	var lastFetched, lastSuccess sql.NullInt64
	var addedMs, updatedMs int64
	err = row.Scan(&feed.ID, &feed.URL, &feed.Title, &feed.Description, &feed.SiteURL,
		&feed.IsActive, &feed.ErrorCount, &feed.LastError, &feed.ETag, &feed.LastModified,
		&lastFetched, &lastSuccess, &addedMs, &updatedMs)
	if err != nil {
		return
	}
	feed.LastFetchedAt = timeFromNullMs(lastFetched)
	feed.LastSuccessfulFetchAt = timeFromNullMs(lastSuccess)
	feed.CreatedAt = timeFromMs(addedMs)
	feed.UpdatedAt = timeFromMs(updatedMs)
	return
}

func scanEntry(row rowScanner) (entry types.FeedEntry, err error) {
	var published sql.NullInt64
	var addedMs, updatedMs int64
	err = row.Scan(&entry.ID, &entry.FeedID, &entry.GUID, &entry.Title, &entry.Link,
		&entry.Summary, &entry.Content, &entry.Author, &published, &entry.ImageURL,
		&entry.TitleTranslated, &entry.SummaryTranslated, &entry.TranslationLanguage,
		&entry.IsSent, &addedMs, &updatedMs)
	if err != nil {
		return
	}
	entry.PublishedAt = timeFromNullMs(published)
	entry.CreatedAt = timeFromMs(addedMs)
	entry.UpdatedAt = timeFromMs(updatedMs)
	return
}

func scanSubscription(row rowScanner) (sub types.Subscription, err error) {
	var addedMs, updatedMs int64
	err = row.Scan(&sub.ID, &sub.Platform, &sub.PlatformUserID, &sub.PlatformChannelID,
		&sub.PlatformGuildID, &sub.FeedID, &sub.IsActive, &sub.Translate,
		&sub.TargetLanguage, &sub.ShowSummary, &sub.ShowImage, &addedMs, &updatedMs)
	if err != nil {
		return
	}
	sub.CreatedAt = timeFromMs(addedMs)
	sub.UpdatedAt = timeFromMs(updatedMs)
	return
}

// scanSubscriptionWithFeed expects subscriptionColumns followed by
// feedColumns (aliased f.*) in the select list.
func scanSubscriptionWithFeed(row rowScanner) (sub types.Subscription, err error) {
	var feed types.Feed
	var subAddedMs, subUpdatedMs int64
	var lastFetched, lastSuccess sql.NullInt64
	var feedAddedMs, feedUpdatedMs int64
	err = row.Scan(&sub.ID, &sub.Platform, &sub.PlatformUserID, &sub.PlatformChannelID,
		&sub.PlatformGuildID, &sub.FeedID, &sub.IsActive, &sub.Translate,
		&sub.TargetLanguage, &sub.ShowSummary, &sub.ShowImage, &subAddedMs, &subUpdatedMs,
		&feed.ID, &feed.URL, &feed.Title, &feed.Description, &feed.SiteURL,
		&feed.IsActive, &feed.ErrorCount, &feed.LastError, &feed.ETag, &feed.LastModified,
		&lastFetched, &lastSuccess, &feedAddedMs, &feedUpdatedMs)
	if err != nil {
		return
	}
	sub.CreatedAt = timeFromMs(subAddedMs)
	sub.UpdatedAt = timeFromMs(subUpdatedMs)
	feed.LastFetchedAt = timeFromNullMs(lastFetched)
	feed.LastSuccessfulFetchAt = timeFromNullMs(lastSuccess)
	feed.CreatedAt = timeFromMs(feedAddedMs)
	feed.UpdatedAt = timeFromMs(feedUpdatedMs)
	sub.Feed = &feed
	return
}

// ===== Feeds =====

func selectFeedByIDTxn(txn *sql.Tx, feedID int64) (types.Feed, error) {
	return scanFeed(txn.QueryRow(
		`SELECT `+feedColumns+` FROM feeds WHERE id = $1`, feedID,
	))
}

func selectFeedByURLTxn(txn *sql.Tx, url string) (types.Feed, error) {
	return scanFeed(txn.QueryRow(
		`SELECT `+feedColumns+` FROM feeds WHERE url = $1`, url,
	))
}

func selectFeedsTxn(txn *sql.Tx, query string, args ...interface{}) (feeds []types.Feed, err error) {
	rows, err := txn.Query(query, args...)
	if err != nil {
		return
	}
	defer rows.Close()
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}
	err = rows.Err()
	return
}

func selectActiveFeedsTxn(txn *sql.Tx) ([]types.Feed, error) {
	return selectFeedsTxn(txn,
		`SELECT `+feedColumns+` FROM feeds WHERE is_active = TRUE ORDER BY id`,
	)
}

func selectFeedsNeedingFetchTxn(txn *sql.Tx, cutoff time.Time) ([]types.Feed, error) {
	return selectFeedsTxn(txn,
		`SELECT `+feedColumns+` FROM feeds
		 WHERE is_active = TRUE AND (last_fetched_ms IS NULL OR last_fetched_ms < $1)
		 ORDER BY id`,
		msFromTime(cutoff),
	)
}

func insertFeedTxn(txn *sql.Tx, now time.Time, feed *types.Feed) error {
	nowMs := msFromTime(now)
	err := txn.QueryRow(
		`INSERT INTO feeds (url, title, description, site_url, is_active, error_count,
			last_error, etag, last_modified, time_added_ms, time_updated_ms)
		 VALUES ($1, $2, $3, $4, $5, 0, '', $6, $7, $8, $8)
		 RETURNING id`,
		feed.URL, feed.Title, feed.Description, feed.SiteURL, feed.IsActive,
		feed.ETag, feed.LastModified, nowMs,
	).Scan(&feed.ID)
	if err != nil {
		return err
	}
	feed.CreatedAt = timeFromMs(nowMs)
	feed.UpdatedAt = feed.CreatedAt
	return nil
}

func updateFeedSuccessTxn(txn *sql.Tx, now time.Time, feedID int64, title, description, siteURL, etag, lastModified string) error {
	nowMs := msFromTime(now)
	_, err := txn.Exec(
		`UPDATE feeds SET
			title = CASE WHEN $1 = '' THEN title ELSE $1 END,
			description = CASE WHEN $2 = '' THEN description ELSE $2 END,
			site_url = CASE WHEN $3 = '' THEN site_url ELSE $3 END,
			etag = CASE WHEN $4 = '' THEN etag ELSE $4 END,
			last_modified = CASE WHEN $5 = '' THEN last_modified ELSE $5 END,
			error_count = 0, last_error = '',
			last_fetched_ms = $6, last_success_ms = $6, time_updated_ms = $6
		 WHERE id = $7`,
		title, description, siteURL, etag, lastModified, nowMs, feedID,
	)
	return err
}

func updateFeedErrorTxn(txn *sql.Tx, now time.Time, feedID int64, fetchErr string) error {
	nowMs := msFromTime(now)
	_, err := txn.Exec(
		`UPDATE feeds SET
			error_count = error_count + 1,
			last_error = $1,
			is_active = CASE WHEN error_count + 1 >= $2 THEN FALSE ELSE is_active END,
			last_fetched_ms = $3, time_updated_ms = $3
		 WHERE id = $4`,
		fetchErr, types.ErrorThreshold, nowMs, feedID,
	)
	return err
}

func deleteFeedTxn(txn *sql.Tx, feedID int64) error {
	_, err := txn.Exec(`DELETE FROM feeds WHERE id = $1`, feedID)
	return err
}

func countEntriesTxn(txn *sql.Tx, feedID int64) (n int, err error) {
	err = txn.QueryRow(
		`SELECT COUNT(*) FROM feed_entries WHERE feed_id = $1`, feedID,
	).Scan(&n)
	return
}

// ===== Entries =====

func selectEntryByGUIDTxn(txn *sql.Tx, feedID int64, guid string) (types.FeedEntry, error) {
	return scanEntry(txn.QueryRow(
		`SELECT `+entryColumns+` FROM feed_entries WHERE feed_id = $1 AND guid = $2`,
		feedID, guid,
	))
}

func selectEntriesTxn(txn *sql.Tx, query string, args ...interface{}) (entries []types.FeedEntry, err error) {
	rows, err := txn.Query(query, args...)
	if err != nil {
		return
	}
	defer rows.Close()
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	err = rows.Err()
	return
}

// insertEntryTxn inserts one entry, relying on the (feed_id, guid) unique
// index to collapse duplicates. Returns false when the entry already
// existed; on insert the entry's ID and timestamps are filled in.
func insertEntryTxn(txn *sql.Tx, now time.Time, entry *types.FeedEntry) (inserted bool, err error) {
	nowMs := msFromTime(now)
	res, err := txn.Exec(
		`INSERT INTO feed_entries (feed_id, guid, title, link, summary, content, author,
			published_ms, image_url, title_translated, summary_translated,
			translation_language, is_sent, time_added_ms, time_updated_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, '', '', '', FALSE, $10, $10)
		 ON CONFLICT (feed_id, guid) DO NOTHING`,
		entry.FeedID, entry.GUID, entry.Title, entry.Link, entry.Summary, entry.Content,
		entry.Author, nullableMs(entry.PublishedAt), entry.ImageURL, nowMs,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil || affected == 0 {
		return false, err
	}
	stored, err := selectEntryByGUIDTxn(txn, entry.FeedID, entry.GUID)
	if err != nil {
		return false, err
	}
	*entry = stored
	return true, nil
}

func selectUnsentEntriesTxn(txn *sql.Tx, feedID int64, limit int) ([]types.FeedEntry, error) {
	return selectEntriesTxn(txn,
		`SELECT `+entryColumns+` FROM feed_entries
		 WHERE feed_id = $1 AND is_sent = FALSE
		 ORDER BY published_ms IS NULL, published_ms DESC
		 LIMIT $2`,
		feedID, limit,
	)
}

func selectRecentEntriesTxn(txn *sql.Tx, feedID int64, limit int) ([]types.FeedEntry, error) {
	return selectEntriesTxn(txn,
		`SELECT `+entryColumns+` FROM feed_entries
		 WHERE feed_id = $1
		 ORDER BY published_ms IS NULL, published_ms DESC
		 LIMIT $2`,
		feedID, limit,
	)
}

func updateEntryTranslationTxn(txn *sql.Tx, now time.Time, entryID int64, title, summary, language string) error {
	_, err := txn.Exec(
		`UPDATE feed_entries SET title_translated = $1, summary_translated = $2,
			translation_language = $3, time_updated_ms = $4
		 WHERE id = $5`,
		title, summary, language, msFromTime(now), entryID,
	)
	return err
}

func deleteEntriesBeforeTxn(txn *sql.Tx, cutoff time.Time) (int64, error) {
	res, err := txn.Exec(
		`DELETE FROM feed_entries WHERE time_added_ms < $1`, msFromTime(cutoff),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ===== Subscriptions =====

const subscriptionWithFeedSelect = `SELECT ` + subscriptionColumns + `, ` +
	`f.id, f.url, f.title, f.description, f.site_url, f.is_active, f.error_count,
	 f.last_error, f.etag, f.last_modified, f.last_fetched_ms, f.last_success_ms,
	 f.time_added_ms, f.time_updated_ms
	 FROM subscriptions s JOIN feeds f ON f.id = s.feed_id`

func selectSubscriptionTxn(txn *sql.Tx, platform, channelID string, feedID int64) (types.Subscription, error) {
	return scanSubscriptionWithFeed(txn.QueryRow(
		subscriptionWithFeedSelect+
			` WHERE s.platform = $1 AND s.platform_channel_id = $2 AND s.feed_id = $3`,
		platform, channelID, feedID,
	))
}

func selectSubscriptionByIDTxn(txn *sql.Tx, subscriptionID int64) (types.Subscription, error) {
	return scanSubscriptionWithFeed(txn.QueryRow(
		subscriptionWithFeedSelect+` WHERE s.id = $1`, subscriptionID,
	))
}

func selectSubscriptionsWithFeedTxn(txn *sql.Tx, query string, args ...interface{}) (subs []types.Subscription, err error) {
	rows, err := txn.Query(query, args...)
	if err != nil {
		return
	}
	defer rows.Close()
	for rows.Next() {
		sub, err := scanSubscriptionWithFeed(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	err = rows.Err()
	return
}

func selectChannelSubscriptionsTxn(txn *sql.Tx, platform, channelID string) ([]types.Subscription, error) {
	return selectSubscriptionsWithFeedTxn(txn,
		subscriptionWithFeedSelect+
			` WHERE s.platform = $1 AND s.platform_channel_id = $2 AND s.is_active = TRUE
			  ORDER BY s.id`,
		platform, channelID,
	)
}

func selectFeedSubscriptionsTxn(txn *sql.Tx, feedID int64) (subs []types.Subscription, err error) {
	rows, err := txn.Query(
		`SELECT `+subscriptionColumns+` FROM subscriptions s
		 WHERE s.feed_id = $1 AND s.is_active = TRUE ORDER BY s.id`,
		feedID,
	)
	if err != nil {
		return
	}
	defer rows.Close()
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	err = rows.Err()
	return
}

func selectActiveSubscriptionsTxn(txn *sql.Tx) ([]types.Subscription, error) {
	return selectSubscriptionsWithFeedTxn(txn,
		subscriptionWithFeedSelect+` WHERE s.is_active = TRUE ORDER BY s.id`,
	)
}

func insertSubscriptionTxn(txn *sql.Tx, now time.Time, sub *types.Subscription) error {
	nowMs := msFromTime(now)
	err := txn.QueryRow(
		`INSERT INTO subscriptions (platform, platform_user_id, platform_channel_id,
			platform_guild_id, feed_id, is_active, translate, target_language,
			show_summary, show_image, time_added_ms, time_updated_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		 RETURNING id`,
		sub.Platform, sub.PlatformUserID, sub.PlatformChannelID, sub.PlatformGuildID,
		sub.FeedID, sub.IsActive, sub.Translate, sub.TargetLanguage,
		sub.ShowSummary, sub.ShowImage, nowMs,
	).Scan(&sub.ID)
	if err != nil {
		return err
	}
	sub.CreatedAt = timeFromMs(nowMs)
	sub.UpdatedAt = sub.CreatedAt
	return nil
}

func updateSubscriptionActiveTxn(txn *sql.Tx, now time.Time, subscriptionID int64, active bool) error {
	_, err := txn.Exec(
		`UPDATE subscriptions SET is_active = $1, time_updated_ms = $2 WHERE id = $3`,
		active, msFromTime(now), subscriptionID,
	)
	return err
}

func updateSubscriptionSettingsTxn(txn *sql.Tx, now time.Time, subscriptionID int64, settings SubscriptionSettings) error {
	assignments := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if settings.Translate != nil {
		assignments = append(assignments, "translate = "+arg(*settings.Translate))
	}
	if settings.TargetLanguage != nil {
		assignments = append(assignments, "target_language = "+arg(*settings.TargetLanguage))
	}
	if settings.ShowSummary != nil {
		assignments = append(assignments, "show_summary = "+arg(*settings.ShowSummary))
	}
	if settings.ShowImage != nil {
		assignments = append(assignments, "show_image = "+arg(*settings.ShowImage))
	}
	if len(assignments) == 0 {
		return nil
	}
	assignments = append(assignments, "time_updated_ms = "+arg(msFromTime(now)))
	query := `UPDATE subscriptions SET ` + strings.Join(assignments, ", ") +
		` WHERE id = ` + arg(subscriptionID)
	_, err := txn.Exec(query, args...)
	return err
}

func deleteSubscriptionTxn(txn *sql.Tx, platform, channelID string, feedID int64) (bool, error) {
	res, err := txn.Exec(
		`DELETE FROM subscriptions
		 WHERE platform = $1 AND platform_channel_id = $2 AND feed_id = $3`,
		platform, channelID, feedID,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func countChannelSubscriptionsTxn(txn *sql.Tx, platform, channelID string) (n int, err error) {
	err = txn.QueryRow(
		`SELECT COUNT(*) FROM subscriptions
		 WHERE platform = $1 AND platform_channel_id = $2 AND is_active = TRUE`,
		platform, channelID,
	).Scan(&n)
	return
}

// ===== Sent receipts =====

func selectReceiptExistsTxn(txn *sql.Tx, subscriptionID, entryID int64) (sent bool, err error) {
	var n int
	err = txn.QueryRow(
		`SELECT COUNT(*) FROM sent_receipts WHERE subscription_id = $1 AND entry_id = $2`,
		subscriptionID, entryID,
	).Scan(&n)
	return n > 0, err
}

func insertReceiptTxn(txn *sql.Tx, now time.Time, subscriptionID, entryID int64) error {
	_, err := txn.Exec(
		`INSERT INTO sent_receipts (subscription_id, entry_id, sent_ms)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (subscription_id, entry_id) DO NOTHING`,
		subscriptionID, entryID, msFromTime(now),
	)
	if err != nil {
		return err
	}
	// Keep the per-feed hint in step with the receipts.
	_, err = txn.Exec(`UPDATE feed_entries SET is_sent = TRUE WHERE id = $1`, entryID)
	return err
}

// selectUnsentForSubscriptionTxn is the dispatch anti-join: entries of the
// subscription's feed with no receipt for this subscription.
func selectUnsentForSubscriptionTxn(txn *sql.Tx, subscriptionID int64, limit int) ([]types.FeedEntry, error) {
	return selectEntriesTxn(txn,
		`SELECT `+entryColumns+` FROM feed_entries
		 WHERE feed_id = (SELECT feed_id FROM subscriptions WHERE id = $1)
		   AND id NOT IN (
			SELECT entry_id FROM sent_receipts WHERE subscription_id = $1
		   )
		 ORDER BY published_ms IS NULL, published_ms DESC
		 LIMIT $2`,
		subscriptionID, limit,
	)
}

func deleteReceiptsBeforeTxn(txn *sql.Tx, cutoff time.Time) (int64, error) {
	res, err := txn.Exec(
		`DELETE FROM sent_receipts WHERE sent_ms < $1`, msFromTime(cutoff),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ===== Stats =====

func selectStatsTxn(txn *sql.Tx) (stats types.Stats, err error) {
	err = txn.QueryRow(
		`SELECT
			(SELECT COUNT(*) FROM feeds),
			(SELECT COUNT(*) FROM feeds WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM feed_entries),
			(SELECT COUNT(*) FROM subscriptions WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM sent_receipts)`,
	).Scan(&stats.Feeds, &stats.ActiveFeeds, &stats.Entries, &stats.Subscriptions, &stats.SentReceipts)
	return
}
