package workers

import (
	"context"
	"fmt"
	"time"

	"donutsmp/service"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// DefaultSchedule runs maintenance at the top of every hour
const DefaultSchedule = "@hourly"

// SessionPurger removes expired login sessions
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Maintenance runs periodic cleanup on a cron schedule
type Maintenance struct {
	cron        *cron.Cron
	schedule    string
	timeout     time.Duration
	sessions    SessionPurger
	maintenance service.MaintenanceService
}

// NewMaintenance creates the maintenance worker. An empty schedule means
// DefaultSchedule.
func NewMaintenance(schedule string, sessions SessionPurger, maintenance service.MaintenanceService) *Maintenance {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	cronLogger := cron.PrintfLogger(log.StandardLogger())
	return &Maintenance{
		cron:        cron.New(cron.WithChain(cron.Recover(cronLogger))),
		schedule:    schedule,
		timeout:     time.Minute,
		sessions:    sessions,
		maintenance: maintenance,
	}
}

// Start registers the job and starts the scheduler
func (m *Maintenance) Start() error {
	if _, err := m.cron.AddFunc(m.schedule, m.run); err != nil {
		return fmt.Errorf("failed to schedule maintenance job %q: %w", m.schedule, err)
	}
	m.cron.Start()
	log.WithField("schedule", m.schedule).Info("Scheduled maintenance job")
	return nil
}

// Stop stops the scheduler. The returned context is done once a running job
// has finished.
func (m *Maintenance) Stop() context.Context {
	return m.cron.Stop()
}

func (m *Maintenance) run() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	m.RunOnce(ctx)
}

// RunOnce purges expired sessions and expires stale quiz attempts. A failing
// step is logged and does not stop the other.
func (m *Maintenance) RunOnce(ctx context.Context) {
	if m.sessions != nil {
		purged, err := m.sessions.PurgeExpired(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to purge expired sessions")
		} else if purged > 0 {
			log.WithField("count", purged).Info("Purged expired sessions")
		}
	}

	if m.maintenance != nil {
		expired, err := m.maintenance.ExpireStaleQuizAttempts(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to expire stale quiz attempts")
		} else if expired > 0 {
			log.WithField("count", expired).Info("Expired stale quiz attempts")
		}
	}
}
