package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"cavina.GO/config"
)

// StartCron builds the scheduler from the static config map plus every job
// registered through Register, then starts it. A bad schedule expression is
// a deployment error, so it aborts the process.
func StartCron() *cron.Cron {
	c := cron.New()
	for name, entry := range config.CronJobs {
		job := entry.Job
		if _, err := c.AddFunc(entry.Schedule, func() { job() }); err != nil {
			log.Fatalf("cron: cannot schedule %s: %v", name, err)
		}
	}
	for name, entry := range Jobs() {
		run := entry.Run
		if _, err := c.AddFunc(entry.Schedule, func() { run() }); err != nil {
			log.Fatalf("cron: cannot schedule %s: %v", name, err)
		}
	}
	c.Start()
	return c
}
