package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/MinPika/ignition-automation/app/cfg"
	"github.com/MinPika/ignition-automation/app/config"
	"github.com/MinPika/ignition-automation/app/database"
	"github.com/MinPika/ignition-automation/app/document"
	"github.com/MinPika/ignition-automation/app/topics"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	siteRepo         database.SiteRepository
	postRepo         database.PostRepository
	topicRepo        database.TopicRepository
	siteCache        *config.SiteCache
	httpClient       *http.Client
	converter        *document.Converter
	discoverer       *topics.Discoverer
	summaryExtractor *topics.SummaryExtractor
	userAgent        string
	cmsAccessKey     string
	interval         time.Duration
	workerCount      int
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface
}

func NewScheduler(siteCache *config.SiteCache, siteRepo database.SiteRepository,
	postRepo database.PostRepository, topicRepo database.TopicRepository,
	httpClient *http.Client, converter *document.Converter,
	discoverer *topics.Discoverer, summaryExtractor *topics.SummaryExtractor) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		siteRepo:         siteRepo,
		postRepo:         postRepo,
		topicRepo:        topicRepo,
		siteCache:        siteCache,
		httpClient:       httpClient,
		converter:        converter,
		discoverer:       discoverer,
		summaryExtractor: summaryExtractor,
		userAgent:        cfg.UserAgent,
		cmsAccessKey:     cfg.CMSAccessKey,
		interval:         time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:      cfg.WorkerCount,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	// The queue is left open: a late retry goroutine may still call
	// EnqueueTask, and a send on a closed channel would panic. Workers
	// exit on ctx cancellation, so the channel just gets collected.
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	siteConfigs := s.siteCache.GetConfigs()
	if len(siteConfigs) == 0 {
		slog.Debug("No site configurations found")
		return
	}

	slog.Debug("Processing site configurations", "count", len(siteConfigs))

	for _, siteConfig := range siteConfigs {
		syncTask := NewSyncSiteConfigTask(siteConfig.Name, siteConfig, s.siteRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncSiteConfigTask", "site", siteConfig.Name, "error", err)
			continue
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	siteConfigs := s.siteCache.GetEnabledConfigs()
	if len(siteConfigs) == 0 {
		slog.Debug("No enabled site configurations found")
		return
	}

	slog.Debug("Processing enabled site configurations for task scheduling", "count", len(siteConfigs))

	for _, siteConfig := range siteConfigs {
		site, err := s.siteRepo.GetSite(siteConfig.Name)
		if err != nil {
			slog.Warn("Failed to get site from database, skipping", "site", siteConfig.Name, "error", err)
			continue
		}
		if site == nil {
			slog.Warn("Site not found in database, skipping", "site", siteConfig.Name)
			continue
		}

		now := time.Now().UTC()
		if site.NextPublishAt != nil && site.NextPublishAt.After(now) {
			slog.Debug("Site not due for publishing yet", "site", siteConfig.Name, "next_publish_at", site.NextPublishAt)
		} else {
			publishTask := NewPublishPostTask(siteConfig.Name, siteConfig, s.httpClient, s.converter, s.siteRepo, s.postRepo, s.userAgent, s.cmsAccessKey)
			if err := s.EnqueueTask(publishTask); err != nil {
				slog.Warn("Failed to enqueue PublishPostTask", "site", siteConfig.Name, "error", err)
			}
		}

		if siteConfig.Settings.DiscoverTopics && len(siteConfig.Sources) > 0 {
			if site.NextDiscoverAt != nil && site.NextDiscoverAt.After(now) {
				slog.Debug("Site not due for topic discovery yet", "site", siteConfig.Name, "next_discover_at", site.NextDiscoverAt)
				continue
			}
			discoverTask := NewDiscoverTopicsTask(siteConfig.Name, siteConfig, s.httpClient, s.discoverer, s.summaryExtractor, s.siteRepo, s.topicRepo, s.userAgent)
			if err := s.EnqueueTask(discoverTask); err != nil {
				slog.Warn("Failed to enqueue DiscoverTopicsTask", "site", siteConfig.Name, "error", err)
			}
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "site", task.GetSiteName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
