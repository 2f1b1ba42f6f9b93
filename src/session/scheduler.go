package session

import (
	"fmt"

	"index-dashboard/src/logger"

	"github.com/robfig/cron/v3"
)

// ResetScheduler ends the session on a cron schedule so a long-running
// process picks up changes to the index.
type ResetScheduler struct {
	Cron    *cron.Cron
	Session *Session
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

// NewResetScheduler registers the reset task. schedule uses the six-field
// (seconds first) cron format.
func NewResetScheduler(s *Session, schedule string, log *logger.Logger) (*ResetScheduler, error) {
	rs := &ResetScheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Session: s,
		Logger:  log,
	}
	if _, err := rs.Cron.AddFunc(schedule, rs.reset); err != nil {
		return nil, fmt.Errorf("register session reset %q: %w", schedule, err)
	}
	return rs, nil
}

func (rs *ResetScheduler) reset() {
	rs.Logger.Info("Scheduled session reset")
	rs.Session.Reset()
}

// Start runs the scheduler in its own goroutine.
func (rs *ResetScheduler) Start() {
	rs.Cron.Start()
}

// Stop halts the scheduler and waits for a running reset to finish.
func (rs *ResetScheduler) Stop() {
	<-rs.Cron.Stop().Done()
}
