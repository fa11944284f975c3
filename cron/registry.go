package cron

import (
	"sync"

	"stocksync.GO/core/registry"
)

// Job is a named scheduled task. Run takes optional args so jobs can be
// invoked manually from the CLI with parameters.
type Job struct {
	Schedule string
	Run      func(...string)
}

var mu sync.Mutex

// Register adds a scheduled job under a unique name. Must run during
// init(), before StartCron seals the registry.
func Register(name string, schedule string, run func(...string)) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		panic("cron: job registry locked, register during init only")
	}
	jobs := getJobs()
	if _, ok := jobs[name]; ok {
		panic("cron: job " + name + " registered twice")
	}
	jobs[name] = Job{Schedule: schedule, Run: run}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Unregister removes a job and reopens the registry. Test helper.
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryCron)
	jobs := getJobs()
	delete(jobs, name)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

func getJobs() map[string]Job {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCron); ok && v != nil {
		return v.(map[string]Job)
	}
	return make(map[string]Job)
}

// Jobs returns a copy of all registered jobs and seals the registry on
// first call. Callers merge the result with config.CronJobs.
func Jobs() map[string]Job {
	out := make(map[string]Job, len(getJobs()))
	for name, job := range getJobs() {
		out[name] = job
	}
	if !registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		registry.GlobalRegistry.Lock(registry.KeyRegistryCron)
	}
	return out
}
