package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ SiteRepository = (*siteRepository)(nil)

type siteRepository struct {
	db *DB
}

func NewSiteRepository(db *DB) SiteRepository {
	return &siteRepository{db: db}
}

// UpsertSite registers a site from its configuration file, updating CMS and
// presentation fields when the config changed.
func (r *siteRepository) UpsertSite(name, cmsURL, siteURL, title, description string) error {
	_, err := r.db.Exec(`
		INSERT INTO sites (name, cms_url, site_url, title, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			cms_url = EXCLUDED.cms_url,
			site_url = EXCLUDED.site_url,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			updated_at = NOW()
	`, name, cmsURL, siteURL, title, description)

	if err != nil {
		return fmt.Errorf("failed to upsert site: %w", err)
	}

	return nil
}

func (r *siteRepository) GetSite(name string) (*Site, error) {
	var site Site
	err := r.db.QueryRow(`
		SELECT id, name, cms_url, COALESCE(site_url, ''), COALESCE(title, ''),
		       COALESCE(description, ''), last_published_at, next_publish_at,
		       next_discover_at, created_at, updated_at
		FROM sites
		WHERE name = $1
	`, name).Scan(
		&site.ID, &site.Name, &site.CMSURL, &site.SiteURL, &site.Title,
		&site.Description, &site.LastPublishedAt, &site.NextPublishAt,
		&site.NextDiscoverAt, &site.CreatedAt, &site.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	return &site, nil
}

func (r *siteRepository) GetSiteCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sites").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get site count: %w", err)
	}
	return count, nil
}

func (r *siteRepository) UpdateNextPublish(name string, next time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sites
		SET next_publish_at = $2, updated_at = NOW()
		WHERE name = $1
	`, name, next)

	if err != nil {
		return fmt.Errorf("failed to update next publish time: %w", err)
	}

	return nil
}

func (r *siteRepository) UpdateNextDiscover(name string, next time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sites
		SET next_discover_at = $2, updated_at = NOW()
		WHERE name = $1
	`, name, next)

	if err != nil {
		return fmt.Errorf("failed to update next discover time: %w", err)
	}

	return nil
}

// RecordPublish advances the publish schedule after a successful publish.
func (r *siteRepository) RecordPublish(name string, publishedAt, next time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sites
		SET last_published_at = $2, next_publish_at = $3, updated_at = NOW()
		WHERE name = $1
	`, name, publishedAt, next)

	if err != nil {
		return fmt.Errorf("failed to record publish: %w", err)
	}

	return nil
}
