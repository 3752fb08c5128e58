package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background task processing.
// This interface provides task queue management, worker pool control, and
// scheduling of publishing, discovery, and configuration sync tasks.
// Example usage:
//
//	scheduler := NewScheduler(siteCache, siteRepo, postRepo, topicRepo, httpClient, ...)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewPublishPostTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
