package scheduler

import (
	"database/sql"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StatsSource exposes connection pool statistics. *sql.DB satisfies it.
type StatsSource interface {
	Stats() sql.DBStats
}

// PoolReporter periodically logs database connection pool usage
type PoolReporter struct {
	cron *cron.Cron
	db   StatsSource
	log  *logrus.Logger
}

// NewPoolReporter schedules a pool report on schedule, a standard cron
// expression or descriptor such as "@every 5m". An empty schedule returns a
// nil reporter; Start and Stop on a nil reporter do nothing.
func NewPoolReporter(db StatsSource, log *logrus.Logger, schedule string) (*PoolReporter, error) {
	if schedule == "" {
		return nil, nil
	}
	p := &PoolReporter{
		cron: cron.New(cron.WithLogger(cron.PrintfLogger(log))),
		db:   db,
		log:  log,
	}
	if _, err := p.cron.AddFunc(schedule, p.Report); err != nil {
		return nil, fmt.Errorf("invalid pool stats schedule %q: %w", schedule, err)
	}
	return p, nil
}

// Report writes one log entry with the current pool statistics
func (p *PoolReporter) Report() {
	stats := p.db.Stats()
	p.log.WithFields(logrus.Fields{
		"open":           stats.OpenConnections,
		"in_use":         stats.InUse,
		"idle":           stats.Idle,
		"wait_count":     stats.WaitCount,
		"wait_duration":  stats.WaitDuration.String(),
		"max_open":       stats.MaxOpenConnections,
		"max_idle_close": stats.MaxIdleClosed,
	}).Info("Database pool stats")
}

func (p *PoolReporter) Start() {
	if p == nil {
		return
	}
	p.cron.Start()
	p.log.Info("Pool reporter started")
}

// Stop halts the schedule and waits for a running report to finish
func (p *PoolReporter) Stop() {
	if p == nil {
		return
	}
	<-p.cron.Stop().Done()
	p.log.Info("Pool reporter stopped")
}
