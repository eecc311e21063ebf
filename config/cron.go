package config

// CronJob pairs a cron schedule expression with the function to run.
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs holds statically configured jobs. Packages that ship their own
// jobs register through the cron registry instead, so config stays free of
// job imports.
var CronJobs = map[string]CronJob{}
