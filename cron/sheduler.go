package cron

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"stocksync.GO/config"
)

// StartCron schedules every job from config.CronJobs plus the registry
// and starts the scheduler. A bad schedule expression is fatal: a sync
// job that silently never runs is worse than a crash at startup.
func StartCron() *cron.Cron {
	c := cron.New()

	schedule := func(name, spec string, run func()) {
		if _, err := c.AddFunc(spec, run); err != nil {
			config.Log.Fatalf("cron: cannot schedule job %s (%q): %v", name, spec, err)
		}
		config.Log.WithFields(logrus.Fields{"job": name, "schedule": spec}).Info("cron job scheduled")
	}

	for name, j := range config.CronJobs {
		job := j.Job
		schedule(name, j.Schedule, func() { job() })
	}
	for name, j := range Jobs() {
		run := j.Run
		schedule(name, j.Schedule, func() { run() })
	}

	c.Start()
	return c
}
