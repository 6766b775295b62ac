// Package jobs holds background maintenance run on a cron schedule.
package jobs

import (
	"context"
	"time"

	"go-blog-backend/database"
	"go-blog-backend/logger"

	"github.com/robfig/cron/v3"
)

// RecountJob rebuilds every user's post counter from the posts table, repairing drift left
// by requests that failed halfway.
type RecountJob struct {
	store   *database.Store
	timeout time.Duration
}

func NewRecountJob(store *database.Store) *RecountJob {
	return &RecountJob{store: store, timeout: time.Minute}
}

// Run satisfies cron.Job
func (j *RecountJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.store.RecountPosts(ctx)
	if err != nil {
		logger.Warning("recount posts failed:", err)
		return
	}
	logger.Debugf("recounted posts for %d users", n)
}

// StartScheduler registers job under spec and starts the scheduler. Stop it on shutdown.
func StartScheduler(spec string, job cron.Job) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, err
	}
	c.Start()
	logger.Infof("post counter reconciliation scheduled at %q", spec)
	return c, nil
}

// StopScheduler stops c and waits for any job still running, so the store it uses can be
// closed afterwards.
func StopScheduler(c *cron.Cron) {
	<-c.Stop().Done()
}
