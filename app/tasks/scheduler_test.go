package tasks

import (
	"net/http"
	"os"
	"testing"

	"github.com/MinPika/ignition-automation/app/cfg"
	"github.com/MinPika/ignition-automation/app/config"
	"github.com/MinPika/ignition-automation/app/document"
	"github.com/MinPika/ignition-automation/app/topics"
)

func setupTestConfig() {
	// Clear os.Args to prevent config parsing from failing
	oldArgs := os.Args
	os.Args = []string{"test"}
	defer func() { os.Args = oldArgs }()

	cfg.Load()
}

func newTestScheduler(t *testing.T) TaskSchedulerInterface {
	t.Helper()
	setupTestConfig()

	siteCache := config.NewSiteCache(t.TempDir())
	if err := siteCache.Run(); err != nil {
		t.Fatal(err)
	}

	return NewScheduler(siteCache, nil, nil, nil, &http.Client{},
		document.NewConverter(), topics.NewDiscoverer(), topics.NewSummaryExtractor())
}

func TestSchedulerStartStop(t *testing.T) {
	scheduler := newTestScheduler(t)

	scheduler.Start()
	scheduler.Stop()
}

func TestSchedulerEnqueueAfterStop(t *testing.T) {
	scheduler := newTestScheduler(t)

	scheduler.Start()
	scheduler.Stop()

	// A retry goroutine scheduled before shutdown can fire after Stop
	// returns. Enqueueing then must not panic on a closed queue.
	task := NewSyncSiteConfigTask("example", &config.SiteConfig{Name: "example"}, nil)
	for i := 0; i < 10; i++ {
		_ = scheduler.EnqueueTask(task)
	}
}

func TestSchedulerEnqueueBeforeStart(t *testing.T) {
	scheduler := newTestScheduler(t)

	task := NewSyncSiteConfigTask("example", &config.SiteConfig{Name: "example"}, nil)
	if err := scheduler.EnqueueTask(task); err != nil {
		t.Errorf("Expected enqueue to succeed on a running queue, got %v", err)
	}

	scheduler.Stop()
}

func TestSchedulerEnqueueQueueFull(t *testing.T) {
	scheduler := newTestScheduler(t)

	// Workers are not started, so the buffer fills up
	task := NewSyncSiteConfigTask("example", &config.SiteConfig{Name: "example"}, nil)
	var fullErr error
	for i := 0; i < 301; i++ {
		if err := scheduler.EnqueueTask(task); err != nil {
			fullErr = err
			break
		}
	}

	if fullErr == nil {
		t.Error("Expected an error once the task queue is full")
	}

	scheduler.Stop()
}

func TestTaskRetryBookkeeping(t *testing.T) {
	task := NewSyncSiteConfigTask("example", &config.SiteConfig{Name: "example"}, nil)

	if task.GetRetryCount() != 0 {
		t.Errorf("Expected zero retries on a fresh task, got %d", task.GetRetryCount())
	}
	if !task.CanRetry() {
		t.Error("Expected a fresh task to be retryable")
	}

	for task.CanRetry() {
		task.IncrementRetryCount()
	}
	if task.GetRetryCount() != task.GetMaxRetries() {
		t.Errorf("Expected retry count %d at exhaustion, got %d", task.GetMaxRetries(), task.GetRetryCount())
	}

	task.Start()
	if task.GetDuration() < 0 {
		t.Error("Expected non-negative duration after Start")
	}
}
