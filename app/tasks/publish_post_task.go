package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MinPika/ignition-automation/app/cms"
	"github.com/MinPika/ignition-automation/app/config"
	"github.com/MinPika/ignition-automation/app/content"
	"github.com/MinPika/ignition-automation/app/database"
	"github.com/MinPika/ignition-automation/app/document"
)

// PublishPostTask runs pending drafts for one site through the quality gate
// and publishes the first one that passes to the site's CMS.
type PublishPostTask struct {
	Task
	SiteConfig   *config.SiteConfig
	httpClient   *http.Client
	converter    *document.Converter
	siteRepo     database.SiteRepository
	postRepo     database.PostRepository
	userAgent    string
	cmsAccessKey string
}

func NewPublishPostTask(siteName string, siteConfig *config.SiteConfig, httpClient *http.Client, converter *document.Converter, siteRepo database.SiteRepository, postRepo database.PostRepository, userAgent, cmsAccessKey string) *PublishPostTask {
	return &PublishPostTask{
		Task:         NewTask(TaskTypePublishPost, siteName),
		SiteConfig:   siteConfig,
		httpClient:   httpClient,
		converter:    converter,
		siteRepo:     siteRepo,
		postRepo:     postRepo,
		userAgent:    userAgent,
		cmsAccessKey: cmsAccessKey,
	}
}

func (t *PublishPostTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SiteConfig.Settings.Enabled {
		slog.Debug("Site disabled, skipping", "site", t.SiteName)
		return nil
	}

	posts, err := t.postRepo.GetPendingPosts(t.SiteName, t.SiteConfig.Settings.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending posts: %w", err)
	}

	validator := content.NewValidator(t.SiteConfig.Policy(), t.httpClient, t.userAgent)

	rejectedCount := 0
	publishedCount := 0

	for _, post := range posts {
		result := validator.Run(ctx, t.postContent(post), t.imageDescriptor(post))

		if !result.Valid {
			err := t.postRepo.UpdateValidation(post.ID, database.PostStatusRejected, result.Errors, result.Warnings, result.Metrics.WordCount)
			if err != nil {
				return fmt.Errorf("failed to record validation result: %w", err)
			}
			rejectedCount++
			slog.Debug("Post rejected by quality gate", "site", t.SiteName, "post_id", post.ID, "errors", len(result.Errors))
			continue
		}

		err := t.postRepo.UpdateValidation(post.ID, database.PostStatusPending, result.Errors, result.Warnings, result.Metrics.WordCount)
		if err != nil {
			return fmt.Errorf("failed to record validation result: %w", err)
		}

		if publishedCount > 0 {
			// One post per publish cycle; the rest stay pending for the next one
			continue
		}

		if err := t.publishPost(ctx, post); err != nil {
			if markErr := t.postRepo.MarkFailed(post.ID, err.Error()); markErr != nil {
				slog.Error("Failed to mark post as failed", "post_id", post.ID, "error", markErr)
			}
			return fmt.Errorf("failed to publish post: %w", err)
		}
		publishedCount++
	}

	now := time.Now().UTC()
	next := now.Add(t.SiteConfig.Settings.GetPublishInterval())

	if publishedCount > 0 {
		if err := t.siteRepo.RecordPublish(t.SiteName, now, next); err != nil {
			return fmt.Errorf("failed to record publish: %w", err)
		}
	} else {
		if err := t.siteRepo.UpdateNextPublish(t.SiteName, next); err != nil {
			return fmt.Errorf("failed to update next publish time: %w", err)
		}
	}

	slog.Info("Task completed",
		"type", "PublishPost",
		"site", t.SiteName,
		"duration", t.GetDuration(),
		"total", len(posts),
		"rejected", rejectedCount,
		"published", publishedCount)

	return nil
}

func (t *PublishPostTask) publishPost(ctx context.Context, post database.Post) error {
	blocks := t.converter.Run(post.HTML)
	nodes := cms.Serialize(blocks)

	client := cms.NewClient(t.SiteConfig.CMS.URL, t.cmsAccessKey, t.userAgent, t.httpClient)

	req := cms.PublishRequest{
		Title:           post.Title,
		Slug:            post.Slug,
		MetaTitle:       post.MetaTitle,
		MetaDescription: post.MetaDescription,
		Keyword:         post.Keyword,
		Status:          cms.StatusPublished,
		Content:         nodes,
	}
	if post.ImageURL != "" {
		req.FeaturedImage = &cms.Image{URL: post.ImageURL, AltText: post.ImageAlt}
	}

	remoteID, err := client.PublishPost(ctx, req)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := t.postRepo.MarkPublished(post.ID, remoteID, now); err != nil {
		return fmt.Errorf("failed to mark post as published: %w", err)
	}

	slog.Debug("Post published", "site", t.SiteName, "post_id", post.ID, "remote_id", remoteID, "blocks", len(blocks))
	return nil
}

func (t *PublishPostTask) postContent(post database.Post) content.PostContent {
	return content.PostContent{
		Title:           post.Title,
		HTML:            post.HTML,
		MetaTitle:       post.MetaTitle,
		MetaDescription: post.MetaDescription,
		Keyword:         post.Keyword,
		TemplateType:    content.TemplateType(post.TemplateType),
	}
}

func (t *PublishPostTask) imageDescriptor(post database.Post) *content.ImageDescriptor {
	if post.ImageURL == "" {
		return nil
	}
	return &content.ImageDescriptor{URL: post.ImageURL, AltText: post.ImageAlt}
}
