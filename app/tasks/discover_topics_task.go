package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MinPika/ignition-automation/app/config"
	"github.com/MinPika/ignition-automation/app/database"
	"github.com/MinPika/ignition-automation/app/topics"
)

// DiscoverTopicsTask fetches the site's source feeds and records topic
// candidates that have not been covered before.
type DiscoverTopicsTask struct {
	Task
	SiteConfig       *config.SiteConfig
	httpClient       *http.Client
	discoverer       *topics.Discoverer
	summaryExtractor *topics.SummaryExtractor
	siteRepo         database.SiteRepository
	topicRepo        database.TopicRepository
	userAgent        string
}

func NewDiscoverTopicsTask(siteName string, siteConfig *config.SiteConfig, httpClient *http.Client, discoverer *topics.Discoverer, summaryExtractor *topics.SummaryExtractor, siteRepo database.SiteRepository, topicRepo database.TopicRepository, userAgent string) *DiscoverTopicsTask {
	return &DiscoverTopicsTask{
		Task:             NewTask(TaskTypeDiscoverTopics, siteName),
		SiteConfig:       siteConfig,
		httpClient:       httpClient,
		discoverer:       discoverer,
		summaryExtractor: summaryExtractor,
		siteRepo:         siteRepo,
		topicRepo:        topicRepo,
		userAgent:        userAgent,
	}
}

func (t *DiscoverTopicsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	recordedCount := 0
	skippedCount := 0
	sourceErrors := 0

	for _, source := range t.SiteConfig.Sources {
		data, err := t.fetchSource(ctx, source)
		if err != nil {
			slog.Warn("Failed to fetch source feed", "site", t.SiteName, "source", source, "error", err)
			sourceErrors++
			continue
		}

		candidates, err := t.discoverer.Run(data, t.SiteConfig.Settings.MaxFeedItems)
		if err != nil {
			slog.Warn("Failed to parse source feed", "site", t.SiteName, "source", source, "error", err)
			sourceErrors++
			continue
		}

		for _, candidate := range candidates {
			used, err := t.topicRepo.IsUsed(t.SiteName, candidate.ContentHash)
			if err != nil {
				return fmt.Errorf("failed to check topic history: %w", err)
			}
			if used {
				skippedCount++
				continue
			}

			summary := candidate.Summary
			if summary == "" {
				summary = t.extractSummary(ctx, candidate.Link)
			}

			topic := database.Topic{
				Title:       candidate.Title,
				Keyword:     candidate.Keyword,
				SourceURL:   candidate.Link,
				Summary:     summary,
				ContentHash: candidate.ContentHash,
				Status:      database.TopicStatusAvailable,
			}
			if err := t.topicRepo.Record(t.SiteName, topic); err != nil {
				return fmt.Errorf("failed to record topic: %w", err)
			}
			recordedCount++
		}
	}

	if sourceErrors == len(t.SiteConfig.Sources) && len(t.SiteConfig.Sources) > 0 {
		return fmt.Errorf("all %d source feeds failed", sourceErrors)
	}

	next := time.Now().UTC().Add(t.SiteConfig.Settings.GetDiscoverInterval())
	if err := t.siteRepo.UpdateNextDiscover(t.SiteName, next); err != nil {
		return fmt.Errorf("failed to update next discover time: %w", err)
	}

	slog.Info("Task completed",
		"type", "DiscoverTopics",
		"site", t.SiteName,
		"duration", t.GetDuration(),
		"sources", len(t.SiteConfig.Sources),
		"recorded", recordedCount,
		"skipped", skippedCount)

	return nil
}

// extractSummary pulls a plain-text summary from the linked article. Best
// effort; discovery proceeds without one.
func (t *DiscoverTopicsTask) extractSummary(ctx context.Context, url string) string {
	data, err := t.fetchSource(ctx, url)
	if err != nil {
		slog.Debug("Failed to fetch article for summary", "site", t.SiteName, "url", url, "error", err)
		return ""
	}

	summary, err := t.summaryExtractor.Run(data)
	if err != nil {
		slog.Debug("Failed to extract article summary", "site", t.SiteName, "url", url, "error", err)
		return ""
	}
	return summary
}

func (t *DiscoverTopicsTask) fetchSource(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.SiteConfig.Settings.GetTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
