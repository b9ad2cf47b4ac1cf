// Package scheduler runs the recurring jobs (dispatch, cleanup) on
// fixed intervals. At most one instance of a job runs at a time; a tick
// that lands while the previous run is still going is skipped.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type job struct {
	entryID  cron.EntryID
	interval time.Duration
	fn       func()
}

// Scheduler owns a cron runner and tracks jobs by caller-chosen IDs so
// they can be rescheduled or removed.
type Scheduler struct {
	cron  *cron.Cron
	mutex sync.Mutex
	jobs  map[string]*job
}

// New makes a stopped Scheduler. Call Start to begin ticking.
func New() *Scheduler {
	logger := cron.PrintfLogger(log.StandardLogger())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(logger),
			cron.Recover(logger),
		)),
		jobs: make(map[string]*job),
	}
}

// Add schedules fn to run every interval under jobID. Adding an
// existing jobID replaces its schedule.
func (s *Scheduler) Add(jobID string, interval time.Duration, fn func()) error {
	if interval <= 0 {
		return fmt.Errorf("scheduler: job %q has non-positive interval %v", jobID, interval)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if existing, ok := s.jobs[jobID]; ok {
		s.cron.Remove(existing.entryID)
	}
	entryID := s.cron.Schedule(cron.Every(interval), cron.FuncJob(fn))
	s.jobs[jobID] = &job{entryID: entryID, interval: interval, fn: fn}
	log.WithFields(log.Fields{
		"job":      jobID,
		"interval": interval,
	}).Info("Scheduled job")
	return nil
}

// Reschedule changes a job's interval, keeping its function.
func (s *Scheduler) Reschedule(jobID string, interval time.Duration) error {
	s.mutex.Lock()
	existing, ok := s.jobs[jobID]
	s.mutex.Unlock()
	if !ok {
		return fmt.Errorf("scheduler: no job %q", jobID)
	}
	return s.Add(jobID, interval, existing.fn)
}

// Remove unschedules a job. Removing an unknown jobID is a no-op.
func (s *Scheduler) Remove(jobID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if existing, ok := s.jobs[jobID]; ok {
		s.cron.Remove(existing.entryID)
		delete(s.jobs, jobID)
	}
}

// Interval returns a job's configured interval, or zero for an unknown
// jobID.
func (s *Scheduler) Interval(jobID string) time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if existing, ok := s.jobs[jobID]; ok {
		return existing.interval
	}
	return 0
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Shutdown stops scheduling and waits for any running job to finish.
func (s *Scheduler) Shutdown() {
	<-s.cron.Stop().Done()
}
