package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MinPika/ignition-automation/app/config"
	"github.com/MinPika/ignition-automation/app/database"
)

type SyncSiteConfigTask struct {
	Task
	SiteName   string
	SiteConfig *config.SiteConfig
	siteRepo   database.SiteRepository
}

func NewSyncSiteConfigTask(siteName string, siteConfig *config.SiteConfig, siteRepo database.SiteRepository) *SyncSiteConfigTask {
	return &SyncSiteConfigTask{
		Task:       NewTask(TaskTypeSyncSiteConfig, siteName),
		SiteName:   siteName,
		SiteConfig: siteConfig,
		siteRepo:   siteRepo,
	}
}

func (t *SyncSiteConfigTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := t.siteRepo.UpsertSite(
		t.SiteConfig.Name,
		t.SiteConfig.CMS.URL,
		t.SiteConfig.Site.URL,
		t.SiteConfig.Site.Title,
		t.SiteConfig.Site.Description)
	if err != nil {
		slog.Error("Task failed", "type", "SyncSiteConfig", "site", t.SiteName, "error", err)
		return fmt.Errorf("failed to sync site config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncSiteConfig",
		"site", t.SiteName,
		"duration", t.GetDuration())

	return nil
}
