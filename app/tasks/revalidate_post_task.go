package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MinPika/ignition-automation/app/config"
	"github.com/MinPika/ignition-automation/app/content"
	"github.com/MinPika/ignition-automation/app/database"
)

// RevalidatePostTask re-runs the quality gate over a site's unpublished
// posts, typically after its validation thresholds changed. Rejected posts
// that now pass return to the pending pool.
type RevalidatePostTask struct {
	Task
	SiteConfig *config.SiteConfig
	httpClient *http.Client
	postRepo   database.PostRepository
	userAgent  string
}

func NewRevalidatePostTask(siteName string, siteConfig *config.SiteConfig, httpClient *http.Client, postRepo database.PostRepository, userAgent string) *RevalidatePostTask {
	return &RevalidatePostTask{
		Task:       NewTask(TaskTypeRevalidatePost, siteName),
		SiteConfig: siteConfig,
		httpClient: httpClient,
		postRepo:   postRepo,
		userAgent:  userAgent,
	}
}

func (t *RevalidatePostTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	posts, err := t.postRepo.GetAllPosts(t.SiteName)
	if err != nil {
		return fmt.Errorf("failed to get posts: %w", err)
	}

	validator := content.NewValidator(t.SiteConfig.Policy(), t.httpClient, t.userAgent)

	updatedCount := 0
	errorCount := 0

	for _, post := range posts {
		if post.Status != database.PostStatusPending && post.Status != database.PostStatusRejected {
			continue
		}

		postContent := content.PostContent{
			Title:           post.Title,
			HTML:            post.HTML,
			MetaTitle:       post.MetaTitle,
			MetaDescription: post.MetaDescription,
			Keyword:         post.Keyword,
			TemplateType:    content.TemplateType(post.TemplateType),
		}
		var image *content.ImageDescriptor
		if post.ImageURL != "" {
			image = &content.ImageDescriptor{URL: post.ImageURL, AltText: post.ImageAlt}
		}

		result := validator.Run(ctx, postContent, image)

		status := database.PostStatusPending
		if !result.Valid {
			status = database.PostStatusRejected
		}

		if status == post.Status && len(result.Errors) == len(post.ValidationErrors) {
			continue
		}

		err := t.postRepo.UpdateValidation(post.ID, status, result.Errors, result.Warnings, result.Metrics.WordCount)
		if err != nil {
			slog.Error("Failed to update post validation", "post_id", post.ID, "error", err)
			errorCount++
		} else {
			updatedCount++
		}
	}

	slog.Info("Task completed",
		"type", "RevalidatePost",
		"site", t.SiteName,
		"duration", t.GetDuration(),
		"success", updatedCount,
		"errors", errorCount)

	return nil
}
