// Package fetcher downloads and parses RSS/Atom feeds with conditional
// GET support. It never touches the database; callers decide what to do
// with the parsed result.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/newsflow-bot/newsflow/types"
)

// ErrorKind classifies a failed fetch for logging and metrics.
type ErrorKind string

// The fetch error kinds.
const (
	ErrorTimeout    ErrorKind = "timeout"
	ErrorNetwork    ErrorKind = "network_error"
	ErrorHTTPStatus ErrorKind = "http_status"
	ErrorParse      ErrorKind = "parse_error"
	ErrorUnexpected ErrorKind = "unexpected"
)

// A FetchError wraps the underlying failure with its kind and, for
// ErrorHTTPStatus, the response code.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == ErrorHTTPStatus {
		return fmt.Sprintf("%s: HTTP %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind of err, or ErrorUnexpected for errors
// which did not come from a fetch.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ErrorUnexpected
}

// Result is a successfully completed fetch. When NotModified is set the
// server returned 304 and every other field is zero.
type Result struct {
	NotModified bool

	Title       string
	Description string
	SiteURL     string

	// Validators from the response, for the next conditional GET.
	ETag         string
	LastModified string

	Entries []types.FeedEntry
}

const userAgent = "NewsFlow-Bot/1.0 (+https://github.com/newsflow-bot/newsflow)"

type userAgentRoundTripper struct {
	Transport http.RoundTripper
}

func (rt userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return rt.Transport.RoundTrip(req)
}

// A Fetcher downloads feeds with a bounded amount of concurrency.
type Fetcher struct {
	Client *http.Client
	sem    *semaphore.Weighted
}

// DefaultMaxConcurrent is the fetch permit count used when the caller
// passes a non-positive limit.
const DefaultMaxConcurrent = 10

// New makes a Fetcher which will run at most maxConcurrent downloads at
// once.
func New(maxConcurrent int) *Fetcher {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Fetcher{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: userAgentRoundTripper{&http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			}},
		},
		sem: semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Fetch performs one conditional GET of url. Pass the validators from
// the previous successful fetch, or empty strings for an unconditional
// request.
func (f *Fetcher) Fetch(ctx context.Context, url, etag, lastModified string) (*Result, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, &FetchError{Kind: ErrorUnexpected, Err: err}
	}
	defer f.sem.Release(1)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, &FetchError{Kind: ErrorUnexpected, Err: err}
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastModified != "" {
		req.Header.Set("If-Modified-Since", lastModified)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: transportErrorKind(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return &Result{NotModified: true}, nil
	}
	if resp.StatusCode/100 != 2 {
		return nil, &FetchError{
			Kind:       ErrorHTTPStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected HTTP status %d from %s", resp.StatusCode, url),
		}
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: ErrorParse, Err: err}
	}

	result := &Result{
		Title:        feed.Title,
		Description:  feed.Description,
		SiteURL:      feed.Link,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		result.Entries = append(result.Entries, entryFromItem(item))
	}
	return result, nil
}

func transportErrorKind(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTimeout
	}
	return ErrorNetwork
}

// Outcome pairs a feed with the result of fetching it.
type Outcome struct {
	Feed   types.Feed
	Result *Result
	Err    error
}

// FetchMany fetches every feed concurrently, bounded by the fetcher's
// permit count, and returns outcomes in input order. Individual failures
// land in the outcome, never in the group error.
func (f *Fetcher) FetchMany(ctx context.Context, feeds []types.Feed) []Outcome {
	outcomes := make([]Outcome, len(feeds))
	g, ctx := errgroup.WithContext(ctx)
	for i := range feeds {
		i := i
		feed := feeds[i]
		g.Go(func() error {
			result, err := f.Fetch(ctx, feed.URL, feed.ETag, feed.LastModified)
			outcomes[i] = Outcome{Feed: feed, Result: result, Err: err}
			return nil
		})
	}
	g.Wait()
	return outcomes
}

// entryFromItem maps a parsed feed item onto the storage shape, deriving
// the dedup GUID, the published time and a representative image.
func entryFromItem(item *gofeed.Item) types.FeedEntry {
	entry := types.FeedEntry{
		GUID:     entryGUID(item),
		Title:    item.Title,
		Link:     item.Link,
		Summary:  item.Description,
		Content:  item.Content,
		ImageURL: entryImage(item),
	}
	if item.Author != nil {
		entry.Author = item.Author.Name
	}
	if entry.Summary == "" {
		entry.Summary = item.Content
	}
	entry.PublishedAt = entryPublished(item)
	return entry
}

// entryGUID falls back from the item's own ID to its link, then to a
// title/date composite. Feeds which omit all three collapse to a single
// entry, which is the best available behaviour.
func entryGUID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	if item.Link != "" {
		return item.Link
	}
	return item.Title + "|" + item.Published
}

func entryPublished(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		t := item.PublishedParsed.UTC()
		return &t
	}
	if item.UpdatedParsed != nil {
		t := item.UpdatedParsed.UTC()
		return &t
	}
	// gofeed gives up on some real-world date formats; dateparse handles
	// most of the stragglers.
	for _, raw := range []string{item.Published, item.Updated} {
		if raw == "" {
			continue
		}
		if t, err := dateparse.ParseAny(raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// entryImage picks a representative image: media:content, then
// media:thumbnail, then an image enclosure, then an image link, then the
// item's own image.
func entryImage(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				url := ext.Attrs["url"]
				if url == "" {
					continue
				}
				medium := ext.Attrs["medium"]
				if name == "content" && medium != "" && medium != "image" {
					continue
				}
				if isHTTPURL(url) {
					return url
				}
			}
		}
	}
	for _, enc := range item.Enclosures {
		if enc == nil || !isHTTPURL(enc.URL) {
			continue
		}
		if strings.HasPrefix(enc.Type, "image/") || hasImageExtension(enc.URL) {
			return enc.URL
		}
	}
	for _, link := range item.Links {
		if isHTTPURL(link) && hasImageExtension(link) {
			return link
		}
	}
	if item.Image != nil && isHTTPURL(item.Image.URL) {
		return item.Image.URL
	}
	return ""
}

func isHTTPURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func hasImageExtension(url string) bool {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	url = strings.ToLower(url)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(url, ext) {
			return true
		}
	}
	return false
}
