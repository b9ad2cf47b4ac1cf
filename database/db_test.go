package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/newsflow-bot/newsflow/types"
)

func mustOpen(t *testing.T) *ServiceDB {
	t.Helper()
	db, err := Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustAddFeed(t *testing.T, db *ServiceDB, url string) types.Feed {
	t.Helper()
	feed, created, err := db.GetOrCreateFeed(url, "Test Feed", "", "https://example.com")
	if err != nil {
		t.Fatalf("GetOrCreateFeed: %v", err)
	}
	if !created {
		t.Fatalf("GetOrCreateFeed: feed %s already existed", url)
	}
	return feed
}

func mustSubscribe(t *testing.T, db *ServiceDB, channelID string, feedID int64) types.Subscription {
	t.Helper()
	sub := types.Subscription{
		Platform:          "console",
		PlatformChannelID: channelID,
		FeedID:            feedID,
		IsActive:          true,
		Translate:         true,
		TargetLanguage:    "zh-CN",
		ShowSummary:       true,
		ShowImage:         true,
	}
	if _, err := db.GetOrCreateSubscription(&sub); err != nil {
		t.Fatalf("GetOrCreateSubscription: %v", err)
	}
	return sub
}

func TestGetOrCreateFeed(t *testing.T) {
	db := mustOpen(t)

	feed := mustAddFeed(t, db, "https://example.com/rss.xml")
	if feed.ID == 0 {
		t.Error("expected feed ID to be assigned")
	}
	if !feed.IsActive {
		t.Error("expected new feed to be active")
	}

	again, created, err := db.GetOrCreateFeed("https://example.com/rss.xml", "Other Title", "", "")
	if err != nil {
		t.Fatalf("GetOrCreateFeed: %v", err)
	}
	if created {
		t.Error("expected created=false for existing URL")
	}
	if again.ID != feed.ID {
		t.Errorf("expected same feed ID, got %d and %d", feed.ID, again.ID)
	}
	if again.Title != "Test Feed" {
		t.Errorf("expected original title to be kept, got %q", again.Title)
	}
}

func TestInsertEntriesDedup(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")

	batch := []types.FeedEntry{
		{GUID: "a", Title: "A"},
		{GUID: "b", Title: "B"},
	}
	created, err := db.InsertEntries(feed.ID, batch)
	if err != nil {
		t.Fatalf("InsertEntries: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created entries, got %d", len(created))
	}
	for _, entry := range created {
		if entry.ID == 0 {
			t.Error("expected entry ID to be assigned")
		}
	}

	// Replay the batch plus one new item: only the new one survives.
	batch = append(batch, types.FeedEntry{GUID: "c", Title: "C"})
	created, err = db.InsertEntries(feed.ID, batch)
	if err != nil {
		t.Fatalf("InsertEntries: %v", err)
	}
	if len(created) != 1 || created[0].GUID != "c" {
		t.Fatalf("expected only entry c to be created, got %+v", created)
	}

	n, err := db.CountEntries(feed.ID)
	if err != nil {
		t.Fatalf("CountEntries: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 stored entries, got %d", n)
	}
}

func TestSameGUIDAcrossFeeds(t *testing.T) {
	db := mustOpen(t)
	feedA := mustAddFeed(t, db, "https://a.example.com/rss.xml")
	feedB := mustAddFeed(t, db, "https://b.example.com/rss.xml")

	for _, feed := range []types.Feed{feedA, feedB} {
		created, err := db.InsertEntries(feed.ID, []types.FeedEntry{{GUID: "shared", Title: "X"}})
		if err != nil {
			t.Fatalf("InsertEntries: %v", err)
		}
		if len(created) != 1 {
			t.Errorf("expected guid to be scoped per feed, got %d created for feed %d", len(created), feed.ID)
		}
	}
}

func TestMarkFeedErrorThreshold(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")

	for i := 0; i < types.ErrorThreshold-1; i++ {
		if err := db.MarkFeedError(feed.ID, "timeout"); err != nil {
			t.Fatalf("MarkFeedError: %v", err)
		}
	}
	loaded, err := db.FeedByID(feed.ID)
	if err != nil {
		t.Fatalf("FeedByID: %v", err)
	}
	if !loaded.IsActive {
		t.Fatalf("feed deactivated after %d errors, threshold is %d", loaded.ErrorCount, types.ErrorThreshold)
	}

	if err := db.MarkFeedError(feed.ID, "timeout"); err != nil {
		t.Fatalf("MarkFeedError: %v", err)
	}
	loaded, err = db.FeedByID(feed.ID)
	if err != nil {
		t.Fatalf("FeedByID: %v", err)
	}
	if loaded.IsActive {
		t.Error("expected feed to be deactivated at the error threshold")
	}
	if loaded.ErrorCount != types.ErrorThreshold {
		t.Errorf("expected error count %d, got %d", types.ErrorThreshold, loaded.ErrorCount)
	}
	if loaded.LastError != "timeout" {
		t.Errorf("expected last error to be recorded, got %q", loaded.LastError)
	}
}

func TestMarkFeedSuccessResetsErrors(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")

	if err := db.MarkFeedError(feed.ID, "boom"); err != nil {
		t.Fatalf("MarkFeedError: %v", err)
	}
	if err := db.MarkFeedSuccess(feed.ID, "", "", "", `W/"etag"`, "Mon, 02 Jan 2006 15:04:05 GMT"); err != nil {
		t.Fatalf("MarkFeedSuccess: %v", err)
	}

	loaded, err := db.FeedByID(feed.ID)
	if err != nil {
		t.Fatalf("FeedByID: %v", err)
	}
	if loaded.ErrorCount != 0 || loaded.LastError != "" {
		t.Errorf("expected error state cleared, got count=%d last=%q", loaded.ErrorCount, loaded.LastError)
	}
	if loaded.ETag != `W/"etag"` {
		t.Errorf("expected etag stored, got %q", loaded.ETag)
	}
	if loaded.Title != "Test Feed" {
		t.Errorf("expected empty title to leave stored title untouched, got %q", loaded.Title)
	}
	if loaded.LastSuccessfulFetchAt == nil {
		t.Error("expected last successful fetch timestamp to be set")
	}
}

func TestMarkFeedNotModifiedKeepsValidators(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")
	if err := db.MarkFeedSuccess(feed.ID, "", "", "", "etag-1", "lm-1"); err != nil {
		t.Fatalf("MarkFeedSuccess: %v", err)
	}

	if err := db.MarkFeedNotModified(feed.ID); err != nil {
		t.Fatalf("MarkFeedNotModified: %v", err)
	}
	loaded, err := db.FeedByID(feed.ID)
	if err != nil {
		t.Fatalf("FeedByID: %v", err)
	}
	if loaded.ETag != "etag-1" || loaded.LastModified != "lm-1" {
		t.Errorf("expected validators kept across a 304, got etag=%q lm=%q", loaded.ETag, loaded.LastModified)
	}
}

func TestSubscriptionReactivation(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")
	sub := mustSubscribe(t, db, "room1", feed.ID)

	ok, err := db.DeactivateSubscription("console", "room1", feed.ID)
	if err != nil || !ok {
		t.Fatalf("DeactivateSubscription: ok=%v err=%v", ok, err)
	}

	resub := types.Subscription{
		Platform:          "console",
		PlatformChannelID: "room1",
		FeedID:            feed.ID,
		IsActive:          true,
		TargetLanguage:    "zh-CN",
	}
	created, err := db.GetOrCreateSubscription(&resub)
	if err != nil {
		t.Fatalf("GetOrCreateSubscription: %v", err)
	}
	if created {
		t.Error("expected reactivation, not a new row")
	}
	if resub.ID != sub.ID {
		t.Errorf("expected same subscription ID %d, got %d", sub.ID, resub.ID)
	}
	if !resub.IsActive {
		t.Error("expected subscription to be active again")
	}
}

func TestUpdateSubscriptionSettingsPartial(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")
	sub := mustSubscribe(t, db, "room1", feed.ID)

	translate := false
	lang := "ja"
	err := db.UpdateSubscriptionSettings(sub.ID, SubscriptionSettings{
		Translate:      &translate,
		TargetLanguage: &lang,
	})
	if err != nil {
		t.Fatalf("UpdateSubscriptionSettings: %v", err)
	}

	loaded, err := db.SubscriptionByID(sub.ID)
	if err != nil {
		t.Fatalf("SubscriptionByID: %v", err)
	}
	if loaded.Translate {
		t.Error("expected translate=false")
	}
	if loaded.TargetLanguage != "ja" {
		t.Errorf("expected target language ja, got %q", loaded.TargetLanguage)
	}
	if !loaded.ShowSummary || !loaded.ShowImage {
		t.Error("expected untouched settings to keep their values")
	}
	if loaded.Feed == nil || loaded.Feed.ID != feed.ID {
		t.Error("expected subscription to be loaded with its feed")
	}
}

func TestReceiptsExactlyOnce(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")
	sub := mustSubscribe(t, db, "room1", feed.ID)
	created, err := db.InsertEntries(feed.ID, []types.FeedEntry{{GUID: "a", Title: "A"}})
	if err != nil {
		t.Fatalf("InsertEntries: %v", err)
	}
	entry := created[0]

	sent, err := db.IsEntrySent(sub.ID, entry.ID)
	if err != nil {
		t.Fatalf("IsEntrySent: %v", err)
	}
	if sent {
		t.Error("expected entry to start unsent")
	}

	// Writing the receipt twice must not error or duplicate.
	if err := db.MarkEntrySent(sub.ID, entry.ID); err != nil {
		t.Fatalf("MarkEntrySent: %v", err)
	}
	if err := db.MarkEntrySent(sub.ID, entry.ID); err != nil {
		t.Fatalf("MarkEntrySent (replay): %v", err)
	}

	sent, err = db.IsEntrySent(sub.ID, entry.ID)
	if err != nil {
		t.Fatalf("IsEntrySent: %v", err)
	}
	if !sent {
		t.Error("expected entry to be marked sent")
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.SentReceipts != 1 {
		t.Errorf("expected exactly 1 receipt, got %d", stats.SentReceipts)
	}
}

func TestUnsentEntriesForSubscriptionOrdering(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")
	sub := mustSubscribe(t, db, "room1", feed.ID)

	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mid := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	created, err := db.InsertEntries(feed.ID, []types.FeedEntry{
		{GUID: "old", Title: "Old", PublishedAt: &old},
		{GUID: "undated", Title: "Undated"},
		{GUID: "recent", Title: "Recent", PublishedAt: &recent},
		{GUID: "mid", Title: "Mid", PublishedAt: &mid},
	})
	if err != nil {
		t.Fatalf("InsertEntries: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("expected 4 created entries, got %d", len(created))
	}

	entries, err := db.UnsentEntriesForSubscription(sub.ID, 10)
	if err != nil {
		t.Fatalf("UnsentEntriesForSubscription: %v", err)
	}
	var got []string
	for _, entry := range entries {
		got = append(got, entry.GUID)
	}
	want := []string{"recent", "mid", "old", "undated"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected order %v, got %v", want, got)
	}

	// Receipts filter per subscription: marking one entry sent removes
	// only that entry from the next query.
	if err := db.MarkEntrySent(sub.ID, entries[0].ID); err != nil {
		t.Fatalf("MarkEntrySent: %v", err)
	}
	entries, err = db.UnsentEntriesForSubscription(sub.ID, 10)
	if err != nil {
		t.Fatalf("UnsentEntriesForSubscription: %v", err)
	}
	if len(entries) != 3 || entries[0].GUID != "mid" {
		t.Errorf("expected 3 remaining starting with mid, got %+v", entries)
	}

	// A second subscription on the same feed still sees everything.
	other := mustSubscribe(t, db, "room2", feed.ID)
	entries, err = db.UnsentEntriesForSubscription(other.ID, 10)
	if err != nil {
		t.Fatalf("UnsentEntriesForSubscription: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("expected 4 unsent entries for second subscription, got %d", len(entries))
	}
}

func TestUnsentEntriesForSubscriptionLimit(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")
	sub := mustSubscribe(t, db, "room1", feed.ID)

	var batch []types.FeedEntry
	for i := 0; i < 15; i++ {
		published := time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
		batch = append(batch, types.FeedEntry{GUID: fmt.Sprintf("e%d", i), PublishedAt: &published})
	}
	if _, err := db.InsertEntries(feed.ID, batch); err != nil {
		t.Fatalf("InsertEntries: %v", err)
	}

	entries, err := db.UnsentEntriesForSubscription(sub.ID, 10)
	if err != nil {
		t.Fatalf("UnsentEntriesForSubscription: %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("expected the limit to cap at 10 entries, got %d", len(entries))
	}
	if entries[0].GUID != "e14" {
		t.Errorf("expected newest entry first, got %q", entries[0].GUID)
	}
}

func TestJanitorDeletes(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")
	sub := mustSubscribe(t, db, "room1", feed.ID)
	created, err := db.InsertEntries(feed.ID, []types.FeedEntry{{GUID: "a"}, {GUID: "b"}})
	if err != nil {
		t.Fatalf("InsertEntries: %v", err)
	}
	if err := db.MarkEntrySent(sub.ID, created[0].ID); err != nil {
		t.Fatalf("MarkEntrySent: %v", err)
	}

	// Nothing is old enough yet.
	n, err := db.DeleteEntriesBefore(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("DeleteEntriesBefore: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no deletions for old cutoff, got %d", n)
	}

	// A future cutoff removes everything, and receipts cascade.
	n, err = db.DeleteEntriesBefore(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteEntriesBefore: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 entries deleted, got %d", n)
	}
	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("expected 0 entries left, got %d", stats.Entries)
	}
	if stats.SentReceipts != 0 {
		t.Errorf("expected receipts to cascade with entries, got %d", stats.SentReceipts)
	}
}

func TestDeleteSubscription(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")
	sub := mustSubscribe(t, db, "room1", feed.ID)
	created, err := db.InsertEntries(feed.ID, []types.FeedEntry{{GUID: "a"}})
	if err != nil {
		t.Fatalf("InsertEntries: %v", err)
	}
	if err := db.MarkEntrySent(sub.ID, created[0].ID); err != nil {
		t.Fatalf("MarkEntrySent: %v", err)
	}

	ok, err := db.DeleteSubscription("console", "room1", feed.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteSubscription: ok=%v err=%v", ok, err)
	}
	if _, err := db.Subscription("console", "room1", feed.ID); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows after delete, got %v", err)
	}
	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.SentReceipts != 0 {
		t.Errorf("expected receipts to cascade with the subscription, got %d", stats.SentReceipts)
	}

	ok, err = db.DeleteSubscription("console", "room1", feed.ID)
	if err != nil {
		t.Fatalf("DeleteSubscription (replay): %v", err)
	}
	if ok {
		t.Error("expected ok=false when deleting a missing subscription")
	}
}

func TestCountChannelSubscriptions(t *testing.T) {
	db := mustOpen(t)
	feedA := mustAddFeed(t, db, "https://a.example.com/rss.xml")
	feedB := mustAddFeed(t, db, "https://b.example.com/rss.xml")
	mustSubscribe(t, db, "room1", feedA.ID)
	mustSubscribe(t, db, "room1", feedB.ID)
	mustSubscribe(t, db, "room2", feedA.ID)

	n, err := db.CountChannelSubscriptions("console", "room1")
	if err != nil {
		t.Fatalf("CountChannelSubscriptions: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 subscriptions for room1, got %d", n)
	}

	// Deactivated bindings do not count against the quota.
	if _, err := db.DeactivateSubscription("console", "room1", feedA.ID); err != nil {
		t.Fatalf("DeactivateSubscription: %v", err)
	}
	n, err = db.CountChannelSubscriptions("console", "room1")
	if err != nil {
		t.Fatalf("CountChannelSubscriptions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 active subscription for room1, got %d", n)
	}
}

func TestInsertFeed(t *testing.T) {
	db := mustOpen(t)

	feed := types.Feed{URL: "https://example.com/rss.xml", Title: "Direct", IsActive: true}
	if err := db.InsertFeed(&feed); err != nil {
		t.Fatalf("InsertFeed: %v", err)
	}
	if feed.ID == 0 {
		t.Error("expected feed ID to be assigned")
	}
	if feed.CreatedAt.IsZero() || feed.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be filled in")
	}

	loaded, err := db.FeedByURL("https://example.com/rss.xml")
	if err != nil {
		t.Fatalf("FeedByURL: %v", err)
	}
	if loaded.Title != "Direct" {
		t.Errorf("expected stored title, got %q", loaded.Title)
	}

	dup := types.Feed{URL: "https://example.com/rss.xml"}
	if err := db.InsertFeed(&dup); err == nil {
		t.Error("expected an error inserting a duplicate URL")
	}
}

func TestActiveFeeds(t *testing.T) {
	db := mustOpen(t)
	feedA := mustAddFeed(t, db, "https://a.example.com/rss.xml")
	feedB := mustAddFeed(t, db, "https://b.example.com/rss.xml")

	for i := 0; i < types.ErrorThreshold; i++ {
		if err := db.MarkFeedError(feedB.ID, "gone"); err != nil {
			t.Fatalf("MarkFeedError: %v", err)
		}
	}

	active, err := db.ActiveFeeds()
	if err != nil {
		t.Fatalf("ActiveFeeds: %v", err)
	}
	if len(active) != 1 || active[0].ID != feedA.ID {
		t.Errorf("expected only the healthy feed, got %+v", active)
	}
}

func TestRecentEntriesOrdering(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")

	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := db.InsertEntries(feed.ID, []types.FeedEntry{
		{GUID: "undated", Title: "Undated"},
		{GUID: "old", Title: "Old", PublishedAt: &old},
		{GUID: "recent", Title: "Recent", PublishedAt: &recent},
	}); err != nil {
		t.Fatalf("InsertEntries: %v", err)
	}

	entries, err := db.RecentEntries(feed.ID, 10)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}
	var got []string
	for _, entry := range entries {
		got = append(got, entry.GUID)
	}
	// An entry with no published date sorts after every dated one.
	want := []string{"recent", "old", "undated"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected order %v, got %v", want, got)
	}

	entries, err = db.RecentEntries(feed.ID, 2)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}
	if len(entries) != 2 || entries[1].GUID != "old" {
		t.Errorf("expected the limit to drop the undated entry, got %+v", entries)
	}
}

func TestUnsentEntriesTracksDeliveries(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")
	sub := mustSubscribe(t, db, "room1", feed.ID)
	created, err := db.InsertEntries(feed.ID, []types.FeedEntry{{GUID: "a"}, {GUID: "b"}})
	if err != nil {
		t.Fatalf("InsertEntries: %v", err)
	}

	entries, err := db.UnsentEntries(feed.ID, 10)
	if err != nil {
		t.Fatalf("UnsentEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 undelivered entries, got %d", len(entries))
	}

	// A receipt marks the entry delivered at the feed level too.
	if err := db.MarkEntrySent(sub.ID, created[0].ID); err != nil {
		t.Fatalf("MarkEntrySent: %v", err)
	}
	entries, err = db.UnsentEntries(feed.ID, 10)
	if err != nil {
		t.Fatalf("UnsentEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].GUID != "b" {
		t.Errorf("expected only entry b left, got %+v", entries)
	}
}

func TestFeedSubscriptions(t *testing.T) {
	db := mustOpen(t)
	feedA := mustAddFeed(t, db, "https://a.example.com/rss.xml")
	feedB := mustAddFeed(t, db, "https://b.example.com/rss.xml")
	mustSubscribe(t, db, "room1", feedA.ID)
	mustSubscribe(t, db, "room2", feedA.ID)
	mustSubscribe(t, db, "room3", feedB.ID)

	if _, err := db.DeactivateSubscription("console", "room2", feedA.ID); err != nil {
		t.Fatalf("DeactivateSubscription: %v", err)
	}

	subs, err := db.FeedSubscriptions(feedA.ID)
	if err != nil {
		t.Fatalf("FeedSubscriptions: %v", err)
	}
	if len(subs) != 1 || subs[0].PlatformChannelID != "room1" {
		t.Errorf("expected only room1's active subscription, got %+v", subs)
	}
}

func TestSetEntryTranslation(t *testing.T) {
	db := mustOpen(t)
	feed := mustAddFeed(t, db, "https://example.com/rss.xml")
	created, err := db.InsertEntries(feed.ID, []types.FeedEntry{{GUID: "a", Title: "Hello"}})
	if err != nil {
		t.Fatalf("InsertEntries: %v", err)
	}

	if err := db.SetEntryTranslation(created[0].ID, "你好", "摘要", "zh-CN"); err != nil {
		t.Fatalf("SetEntryTranslation: %v", err)
	}
	entry, err := db.EntryByGUID(feed.ID, "a")
	if err != nil {
		t.Fatalf("EntryByGUID: %v", err)
	}
	if entry.TitleTranslated != "你好" || entry.TranslationLanguage != "zh-CN" {
		t.Errorf("expected stored translation, got %+v", entry)
	}
}
