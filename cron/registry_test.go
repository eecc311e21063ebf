package cron

import (
	"testing"
)

func TestRegister_JobVisibleAndRunnable(t *testing.T) {
	invoked := false
	Register("nightlysweep", "30 2 * * *", func(args ...string) {
		invoked = true
	})
	defer Unregister("nightlysweep")

	job, ok := Jobs()["nightlysweep"]
	if !ok {
		t.Fatal("nightlysweep missing from Jobs()")
	}
	if job.Schedule != "30 2 * * *" {
		t.Errorf("Schedule = %q, want 30 2 * * *", job.Schedule)
	}
	job.Run()
	if !invoked {
		t.Error("registered function never ran")
	}
}

func TestRegister_NameCollisionPanics(t *testing.T) {
	Register("sweep", "@midnight", func(...string) {})
	defer Unregister("sweep")
	defer func() {
		if recover() == nil {
			t.Error("second Register with same name should panic")
		}
	}()
	Register("sweep", "@weekly", func(...string) {})
}
