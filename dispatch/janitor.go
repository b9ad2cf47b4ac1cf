package dispatch

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/newsflow-bot/newsflow/database"
)

// Janitor prunes aged entries and receipts on the cleanup schedule.
type Janitor struct {
	DB        database.Storer
	Retention time.Duration
}

// NewJanitor makes a janitor keeping retention's worth of history.
func NewJanitor(db database.Storer, retention time.Duration) *Janitor {
	return &Janitor{DB: db, Retention: retention}
}

// CleanupOnce removes entries and receipts older than the retention
// window and returns the counts removed.
func (j *Janitor) CleanupOnce() (entries, receipts int64, err error) {
	cutoff := time.Now().UTC().Add(-j.Retention)
	entries, err = j.DB.DeleteEntriesBefore(cutoff)
	if err != nil {
		return
	}
	receipts, err = j.DB.DeleteReceiptsBefore(cutoff)
	if err != nil {
		return
	}
	if entries > 0 || receipts > 0 {
		log.WithFields(log.Fields{
			"entries":  entries,
			"receipts": receipts,
		}).Info("Janitor pruned old rows")
	}
	return
}
