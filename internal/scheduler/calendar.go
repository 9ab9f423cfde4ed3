// Package scheduler runs the periodic payroll jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron"
)

// CalendarService creates the period rows for the current and next month.
type CalendarService interface {
	EnsureCalendar(ctx context.Context, now time.Time) ([]string, error)
}

// Calendar keeps the period table ahead of the wall clock.
type Calendar struct {
	service CalendarService
	cron    *cron.Cron
	timeout time.Duration
	now     func() time.Time
}

// NewCalendar returns a Calendar that runs the job on schedule, a cron spec
// with a leading seconds field.
func NewCalendar(service CalendarService, schedule string) (*Calendar, error) {
	c := &Calendar{
		service: service,
		cron:    cron.New(),
		timeout: time.Minute,
		now:     time.Now,
	}
	if err := c.cron.AddFunc(schedule, c.run); err != nil {
		return nil, err
	}
	return c, nil
}

// Start runs the job once and then launches the cron.
func (c *Calendar) Start() {
	c.run()
	log.Infof("Launch calendar cron job")
	c.cron.Start()
}

// Stop stops the cron. A running job is not interrupted.
func (c *Calendar) Stop() {
	c.cron.Stop()
}

func (c *Calendar) run() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	created, err := c.service.EnsureCalendar(ctx, c.now())
	if err != nil {
		log.Errorf("Calendar: %v", err)
		return
	}
	if len(created) > 0 {
		log.Infof("Calendar opened periods %v", created)
	}
}
