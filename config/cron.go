package config

// CronJob maps a schedule to a job function.
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs holds statically configured jobs. Packages may also self-register
// via cron.Register from init(); the scheduler merges both sources.
var CronJobs = map[string]CronJob{
	// Add more jobs here
}
