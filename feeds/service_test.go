package feeds

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/newsflow-bot/newsflow/database"
	"github.com/newsflow-bot/newsflow/fetcher"
	"github.com/newsflow-bot/newsflow/testutils"
	"github.com/newsflow-bot/newsflow/types"
)

const feedBody = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Test Feed</title><description>About tests</description>
<link>https://example.com</link>
<item><guid>a</guid><title>A</title><link>https://example.com/a</link></item>
<item><guid>b</guid><title>B</title><link>https://example.com/b</link></item>
</channel></rss>`

const emptyFeedBody = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Empty Feed</title></channel></rss>`

type fakeUpstream struct {
	mutex   sync.Mutex
	status  int
	body    string
	etag    string
	serve   func(req *http.Request) (*http.Response, error)
	fetches int
}

func (u *fakeUpstream) respond(req *http.Request) (*http.Response, error) {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	u.fetches++
	if u.serve != nil {
		return u.serve(req)
	}
	return testutils.XMLResponse(u.status, u.body, map[string]string{"ETag": u.etag}), nil
}

func newService(t *testing.T, upstream *fakeUpstream) (*Service, *database.ServiceDB) {
	t.Helper()
	db, err := database.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	feedFetcher := fetcher.New(2)
	feedFetcher.Client = &http.Client{Transport: testutils.NewRoundTripper(upstream.respond)}
	return NewService(db, feedFetcher), db
}

func TestAddFeed(t *testing.T) {
	upstream := &fakeUpstream{status: 200, body: feedBody, etag: `W/"v1"`}
	service, db := newService(t, upstream)

	feed, err := service.AddFeed(context.Background(), "https://example.com/rss.xml")
	if err != nil {
		t.Fatalf("AddFeed: %v", err)
	}
	if feed.Title != "Test Feed" || feed.SiteURL != "https://example.com" {
		t.Errorf("expected feed metadata stored, got %+v", feed)
	}
	if feed.ETag != `W/"v1"` {
		t.Errorf("expected validator stored, got %q", feed.ETag)
	}

	n, err := db.CountEntries(feed.ID)
	if err != nil {
		t.Fatalf("CountEntries: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 initial entries, got %d", n)
	}

	if _, err := service.AddFeed(context.Background(), "https://example.com/rss.xml"); err != ErrFeedExists {
		t.Errorf("expected ErrFeedExists, got %v", err)
	}
}

func TestAddFeedRejectsEmptyFeed(t *testing.T) {
	upstream := &fakeUpstream{status: 200, body: emptyFeedBody}
	service, _ := newService(t, upstream)

	if _, err := service.AddFeed(context.Background(), "https://example.com/rss.xml"); err != ErrFeedNoEntries {
		t.Errorf("expected ErrFeedNoEntries, got %v", err)
	}
}

func TestAddFeedPropagatesFetchErrors(t *testing.T) {
	upstream := &fakeUpstream{status: 404}
	service, _ := newService(t, upstream)

	_, err := service.AddFeed(context.Background(), "https://example.com/rss.xml")
	if fetcher.KindOf(err) != fetcher.ErrorHTTPStatus {
		t.Errorf("expected an http_status fetch error, got %v", err)
	}
}

func TestFetchAndStoreRecordsErrors(t *testing.T) {
	upstream := &fakeUpstream{status: 200, body: feedBody}
	service, db := newService(t, upstream)
	feed, err := service.AddFeed(context.Background(), "https://example.com/rss.xml")
	if err != nil {
		t.Fatalf("AddFeed: %v", err)
	}

	// The upstream starts failing; each cycle bumps the error count.
	upstream.mutex.Lock()
	upstream.status = 500
	upstream.mutex.Unlock()

	for i := 0; i < types.ErrorThreshold; i++ {
		if entries := service.FetchAndStore(context.Background(), feed); entries != nil {
			t.Fatalf("expected no entries from a failing upstream, got %d", len(entries))
		}
	}

	loaded, err := db.FeedByID(feed.ID)
	if err != nil {
		t.Fatalf("FeedByID: %v", err)
	}
	if loaded.IsActive {
		t.Error("expected feed deactivated after repeated failures")
	}
}

func TestFetchAllSkipsRecentlyFetched(t *testing.T) {
	upstream := &fakeUpstream{status: 200, body: feedBody, etag: `W/"v1"`}
	service, _ := newService(t, upstream)
	if _, err := service.AddFeed(context.Background(), "https://example.com/rss.xml"); err != nil {
		t.Fatalf("AddFeed: %v", err)
	}
	before := upstream.fetches

	// AddFeed just fetched; within a long interval nothing is due.
	fetched, _, err := service.FetchAll(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if fetched != 0 {
		t.Errorf("expected no feeds due, got %d", fetched)
	}
	if upstream.fetches != before {
		t.Error("expected no upstream requests")
	}
}

func TestFetchAndStoreNotModified(t *testing.T) {
	upstream := &fakeUpstream{status: 200, body: feedBody, etag: `W/"v1"`}
	upstream.serve = func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("If-None-Match") == `W/"v1"` {
			return testutils.XMLResponse(304, "", nil), nil
		}
		return testutils.XMLResponse(200, feedBody, map[string]string{"ETag": `W/"v1"`}), nil
	}
	service, db := newService(t, upstream)
	feed, err := service.AddFeed(context.Background(), "https://example.com/rss.xml")
	if err != nil {
		t.Fatalf("AddFeed: %v", err)
	}

	entries := service.FetchAndStore(context.Background(), feed)
	if len(entries) != 0 {
		t.Errorf("expected no entries from a 304, got %d", len(entries))
	}

	loaded, err := db.FeedByID(feed.ID)
	if err != nil {
		t.Fatalf("FeedByID: %v", err)
	}
	if loaded.ETag != `W/"v1"` {
		t.Errorf("expected validator kept across the 304, got %q", loaded.ETag)
	}
	if loaded.ErrorCount != 0 {
		t.Errorf("expected a 304 to count as success, got error count %d", loaded.ErrorCount)
	}
}
