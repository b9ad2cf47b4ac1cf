// Package dispatch runs the poll-translate-deliver cycle: refresh the
// feeds, walk the active subscriptions and hand unseen entries to the
// platform adapters, writing a receipt per delivery.
package dispatch

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/newsflow-bot/newsflow/content"
	"github.com/newsflow-bot/newsflow/database"
	"github.com/newsflow-bot/newsflow/feeds"
	"github.com/newsflow-bot/newsflow/metrics"
	"github.com/newsflow-bot/newsflow/translate"
	"github.com/newsflow-bot/newsflow/types"
)

// EntriesPerSubscription caps how many entries one subscription gets
// per cycle; the rest wait for the next one.
const EntriesPerSubscription = 10

// DefaultSendDelay paces deliveries to keep under platform rate limits.
const DefaultSendDelay = 500 * time.Millisecond

// maxTranslateLength caps how much summary text is sent to a
// translation provider per entry.
const maxTranslateLength = 1000

// Result tallies one dispatch cycle.
type Result struct {
	FeedsFetched int
	NewEntries   int
	MessagesSent int
	Errors       int
}

// Dispatcher wires the feed service, the store, the optional translator
// and the adapter registry together.
type Dispatcher struct {
	DB            database.Storer
	Feeds         *feeds.Service
	Translator    *translate.Service
	FetchInterval time.Duration
	SendDelay     time.Duration

	runMutex sync.Mutex
}

// NewDispatcher makes a dispatcher. translator may be nil, which
// disables translation globally. A negative sendDelay means
// DefaultSendDelay; zero disables pacing (tests).
func NewDispatcher(db database.Storer, feedService *feeds.Service, translator *translate.Service,
	fetchInterval, sendDelay time.Duration) *Dispatcher {
	if sendDelay < 0 {
		sendDelay = DefaultSendDelay
	}
	return &Dispatcher{
		DB:            db,
		Feeds:         feedService,
		Translator:    translator,
		FetchInterval: fetchInterval,
		SendDelay:     sendDelay,
	}
}

// DispatchOnce runs one full cycle and reports what it did. Per-feed
// and per-entry failures are counted, logged and skipped; only a store
// failure that invalidates the whole cycle is returned.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (Result, error) {
	// Cycles never overlap: two concurrent cycles would both read the
	// unsent anti-join before either writes a receipt and double-send.
	d.runMutex.Lock()
	defer d.runMutex.Unlock()

	started := time.Now()
	var result Result

	fetched, newEntries, err := d.Feeds.FetchAll(ctx, d.FetchInterval)
	if err != nil {
		return result, err
	}
	result.FeedsFetched = fetched
	result.NewEntries = newEntries

	subs, err := d.DB.ActiveSubscriptions()
	if err != nil {
		return result, err
	}
	for _, sub := range subs {
		if ctx.Err() != nil {
			break
		}
		sent, errs := d.dispatchSubscription(ctx, sub)
		result.MessagesSent += sent
		result.Errors += errs
	}

	metrics.ObserveDispatchDuration(time.Since(started).Seconds())
	log.WithFields(log.Fields{
		"feeds_fetched": result.FeedsFetched,
		"new_entries":   result.NewEntries,
		"messages_sent": result.MessagesSent,
		"errors":        result.Errors,
		"duration":      time.Since(started),
	}).Info("Dispatch cycle complete")
	return result, nil
}

// dispatchSubscription delivers up to EntriesPerSubscription unseen
// entries to one subscription.
func (d *Dispatcher) dispatchSubscription(ctx context.Context, sub types.Subscription) (sent, errs int) {
	adapter := types.Adapter(sub.Platform)
	if adapter == nil {
		log.WithField("platform", sub.Platform).Debug("No adapter registered, skipping subscription")
		return 0, 0
	}

	entries, err := d.DB.UnsentEntriesForSubscription(sub.ID, EntriesPerSubscription)
	if err != nil {
		log.WithError(err).WithField("subscription_id", sub.ID).Error("Failed to load unsent entries")
		return 0, 1
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return sent, errs
		}
		msg := d.composeMessage(ctx, sub, &entry)
		if !adapter.SendMessage(ctx, sub.PlatformChannelID, msg) {
			metrics.IncrementSend(sub.Platform, metrics.StatusFailure)
			log.WithFields(log.Fields{
				"subscription_id": sub.ID,
				"entry_id":        entry.ID,
				"platform":        sub.Platform,
			}).Warn("Delivery failed, will retry next cycle")
			errs++
			continue
		}
		metrics.IncrementSend(sub.Platform, metrics.StatusSuccess)
		if err := d.DB.MarkEntrySent(sub.ID, entry.ID); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"subscription_id": sub.ID,
				"entry_id":        entry.ID,
			}).Error("Failed to write delivery receipt")
			errs++
			continue
		}
		sent++
		if d.SendDelay > 0 {
			time.Sleep(d.SendDelay)
		}
	}
	return sent, errs
}

// composeMessage builds the platform-agnostic payload for one entry,
// translating on demand and reusing translations already stored on the
// entry when the language matches.
func (d *Dispatcher) composeMessage(ctx context.Context, sub types.Subscription, entry *types.FeedEntry) types.Message {
	title := content.CleanTitle(entry.Title)
	summary, summaryImages := content.CleanSummary(entry.Summary)

	msg := types.Message{
		Title:       title,
		Link:        entry.Link,
		PublishedAt: entry.PublishedAt,
		Source:      content.SourceName(entry.Link, sub.TargetLanguage),
	}
	if sub.ShowSummary {
		msg.Summary = summary
	}
	if sub.ShowImage {
		image := entry.ImageURL
		if image == "" && len(summaryImages) > 0 {
			image = summaryImages[0]
		}
		if content.IsValidImageURL(image) {
			msg.ImageURL = image
		}
	}

	if sub.Translate && d.Translator != nil {
		msg.TitleTranslated, msg.SummaryTranslated = d.translateEntry(ctx, sub, entry, title, summary)
		if !sub.ShowSummary {
			msg.SummaryTranslated = ""
		}
	}
	return msg
}

// translateEntry returns the translated title and summary for the
// subscription's target language, hitting the provider only when the
// entry has no stored translation for that language.
func (d *Dispatcher) translateEntry(ctx context.Context, sub types.Subscription, entry *types.FeedEntry, title, summary string) (string, string) {
	if entry.TranslationLanguage == sub.TargetLanguage && entry.TitleTranslated != "" {
		metrics.IncrementTranslation(d.Translator.ProviderName(), "hit")
		return entry.TitleTranslated, entry.SummaryTranslated
	}

	toTranslate := summary
	if len([]rune(toTranslate)) > maxTranslateLength {
		toTranslate = content.Truncate(toTranslate, maxTranslateLength)
	}
	results, err := d.Translator.TranslateBatch(ctx, []string{title, toTranslate}, sub.TargetLanguage, "")
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"entry_id": entry.ID,
			"target":   sub.TargetLanguage,
		}).Warn("Translation failed, delivering untranslated")
		return "", ""
	}
	titleTranslated, summaryTranslated := results[0].Text, results[1].Text
	if results[0].FromCache {
		metrics.IncrementTranslation(d.Translator.ProviderName(), "hit")
	} else {
		metrics.IncrementTranslation(d.Translator.ProviderName(), "miss")
	}

	if titleTranslated != "" {
		if err := d.DB.SetEntryTranslation(entry.ID, titleTranslated, summaryTranslated, sub.TargetLanguage); err != nil {
			log.WithError(err).WithField("entry_id", entry.ID).Error("Failed to store translation")
		} else {
			entry.TitleTranslated = titleTranslated
			entry.SummaryTranslated = summaryTranslated
			entry.TranslationLanguage = sub.TargetLanguage
		}
	}
	return titleTranslated, summaryTranslated
}
