package cron

import (
	"sync"

	"cavina.GO/core/registry"
)

// Job is a named schedule entry. Run may accept optional arguments so the
// same function can serve both the scheduler and manual CLI invocation.
type Job struct {
	Schedule string
	Run      func(...string)
}

var registerMu sync.Mutex

// Register queues a job under a unique name. Call from init() in job
// packages; panics after StartCron has sealed the registry or on a name
// collision.
func Register(name string, schedule string, run func(...string)) {
	registerMu.Lock()
	defer registerMu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		panic("cron/registry: job set sealed, Register must run during init")
	}
	jobs := registeredJobs()
	if _, ok := jobs[name]; ok {
		panic("cron/registry: job name already taken: " + name)
	}
	jobs[name] = Job{Schedule: schedule, Run: run}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Unregister drops a job and reopens the registry. Test helper only.
func Unregister(name string) {
	registerMu.Lock()
	defer registerMu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryCron)
	jobs := registeredJobs()
	delete(jobs, name)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

func registeredJobs() map[string]Job {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCron); ok && v != nil {
		return v.(map[string]Job)
	}
	return make(map[string]Job)
}

// Jobs returns a copy of the registered jobs and seals the registry on first
// use, so the job set is immutable once the scheduler reads it.
func Jobs() map[string]Job {
	out := make(map[string]Job, len(registeredJobs()))
	for name, job := range registeredJobs() {
		out[name] = job
	}
	if !registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		registry.GlobalRegistry.Lock(registry.KeyRegistryCron)
	}
	return out
}
