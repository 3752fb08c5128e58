package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ TopicRepository = (*topicRepository)(nil)

type topicRepository struct {
	db *DB
}

func NewTopicRepository(db *DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) IsUsed(siteName, contentHash string) (bool, error) {
	var id string
	err := r.db.QueryRow(`
		SELECT id FROM topics
		WHERE site_id = (SELECT id FROM sites WHERE name = $1) AND content_hash = $2
		LIMIT 1
	`, siteName, contentHash).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check topic usage: %w", err)
	}

	// Any recorded topic counts as covered, available candidates included:
	// the discoverer must not queue the same subject twice.
	return true, nil
}

func (r *topicRepository) Record(siteName string, topic Topic) error {
	_, err := r.db.Exec(`
		INSERT INTO topics (site_id, title, keyword, source_url, summary, content_hash, status, used_at)
		SELECT id, $2, $3, $4, $5, $6, $7, $8
		FROM sites WHERE name = $1
		ON CONFLICT (site_id, content_hash) DO NOTHING
	`, siteName, topic.Title, topic.Keyword, topic.SourceURL, topic.Summary,
		topic.ContentHash, topic.Status, topic.UsedAt)

	if err != nil {
		return fmt.Errorf("failed to record topic: %w", err)
	}

	return nil
}

// PickAvailable returns the oldest unused candidate, or nil when the pool is
// empty.
func (r *topicRepository) PickAvailable(siteName string) (*Topic, error) {
	var topic Topic
	err := r.db.QueryRow(`
		SELECT id, site_id, COALESCE(title, ''), COALESCE(keyword, ''),
		       COALESCE(source_url, ''), COALESCE(summary, ''),
		       COALESCE(content_hash, ''), status, discovered_at, used_at
		FROM topics
		WHERE site_id = (SELECT id FROM sites WHERE name = $1) AND status = $2
		ORDER BY discovered_at ASC
		LIMIT 1
	`, siteName, TopicStatusAvailable).Scan(
		&topic.ID, &topic.SiteID, &topic.Title, &topic.Keyword,
		&topic.SourceURL, &topic.Summary, &topic.ContentHash,
		&topic.Status, &topic.DiscoveredAt, &topic.UsedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick available topic: %w", err)
	}

	return &topic, nil
}

func (r *topicRepository) MarkUsed(topicID string, usedAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE topics
		SET status = $2, used_at = $3
		WHERE id = $1
	`, topicID, TopicStatusUsed, usedAt)

	if err != nil {
		return fmt.Errorf("failed to mark topic used: %w", err)
	}

	return nil
}

func (r *topicRepository) GetTopicStats(siteName string) (total, used int, err error) {
	err = r.db.QueryRow(`
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN status = $2 THEN 1 ELSE 0 END), 0) as used
		FROM topics
		WHERE site_id = (SELECT id FROM sites WHERE name = $1)
	`, siteName, TopicStatusUsed).Scan(&total, &used)

	if err != nil {
		return 0, 0, fmt.Errorf("failed to get topic stats: %w", err)
	}

	return total, used, nil
}
