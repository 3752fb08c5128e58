package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

var _ PostRepository = (*postRepository)(nil)

type postRepository struct {
	db *DB
}

func NewPostRepository(db *DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `
	id, site_id, COALESCE(title, ''), COALESCE(slug, ''), COALESCE(html, ''),
	COALESCE(meta_title, ''), COALESCE(meta_description, ''), COALESCE(keyword, ''),
	COALESCE(template_type, ''), status, COALESCE(validation_errors, '{}'),
	COALESCE(validation_warnings, '{}'), word_count, COALESCE(content_hash, ''),
	COALESCE(remote_id, ''), COALESCE(image_url, ''), COALESCE(image_alt, ''),
	published_at, created_at, updated_at`

// InsertPost stores a generated draft in pending state and returns its ID.
// The (site, content hash) pair is unique, so re-submitting the same draft
// fails instead of queueing a duplicate.
func (r *postRepository) InsertPost(siteName string, post Post) (string, error) {
	var id string
	err := r.db.QueryRow(`
		INSERT INTO posts (
			site_id, title, slug, html, meta_title, meta_description,
			keyword, template_type, status, content_hash, image_url, image_alt
		)
		SELECT id, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		FROM sites WHERE name = $1
		RETURNING id
	`, siteName, post.Title, post.Slug, post.HTML, post.MetaTitle,
		post.MetaDescription, post.Keyword, post.TemplateType,
		PostStatusPending, post.ContentHash, post.ImageURL, post.ImageAlt,
	).Scan(&id)

	if err == sql.ErrNoRows {
		return "", fmt.Errorf("site '%s' is not registered", siteName)
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert post: %w", err)
	}

	return id, nil
}

func (r *postRepository) GetPendingPosts(siteName string, limit int) ([]Post, error) {
	return r.queryPosts(`
		SELECT `+postColumns+`
		FROM posts
		WHERE site_id = (SELECT id FROM sites WHERE name = $1) AND status = $2
		ORDER BY created_at ASC
		LIMIT $3
	`, siteName, PostStatusPending, limit)
}

func (r *postRepository) GetAllPosts(siteName string) ([]Post, error) {
	return r.queryPosts(`
		SELECT `+postColumns+`
		FROM posts
		WHERE site_id = (SELECT id FROM sites WHERE name = $1)
		ORDER BY created_at DESC
	`, siteName)
}

func (r *postRepository) GetPublishedPosts(siteName string, limit int) ([]Post, error) {
	return r.queryPosts(`
		SELECT `+postColumns+`
		FROM posts
		WHERE site_id = (SELECT id FROM sites WHERE name = $1) AND status = $2
		ORDER BY published_at DESC
		LIMIT $3
	`, siteName, PostStatusPublished, limit)
}

func (r *postRepository) queryPosts(query string, args ...interface{}) ([]Post, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		err := rows.Scan(
			&post.ID, &post.SiteID, &post.Title, &post.Slug, &post.HTML,
			&post.MetaTitle, &post.MetaDescription, &post.Keyword,
			&post.TemplateType, &post.Status, pq.Array(&post.ValidationErrors),
			pq.Array(&post.ValidationWarnings), &post.WordCount, &post.ContentHash,
			&post.RemoteID, &post.ImageURL, &post.ImageAlt,
			&post.PublishedAt, &post.CreatedAt, &post.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

func (r *postRepository) GetPostStats(siteName string) (total, published, rejected int, err error) {
	err = r.db.QueryRow(`
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN status = $2 THEN 1 ELSE 0 END), 0) as published,
			COALESCE(SUM(CASE WHEN status = $3 THEN 1 ELSE 0 END), 0) as rejected
		FROM posts
		WHERE site_id = (SELECT id FROM sites WHERE name = $1)
	`, siteName, PostStatusPublished, PostStatusRejected).Scan(&total, &published, &rejected)

	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get post stats: %w", err)
	}

	return total, published, rejected, nil
}

// UpdateValidation stores a gate verdict on the post.
func (r *postRepository) UpdateValidation(postID, status string, errors, warnings []string, wordCount int) error {
	_, err := r.db.Exec(`
		UPDATE posts
		SET status = $2, validation_errors = $3, validation_warnings = $4,
		    word_count = $5, updated_at = NOW()
		WHERE id = $1
	`, postID, status, pq.Array(errors), pq.Array(warnings), wordCount)

	if err != nil {
		return fmt.Errorf("failed to update post validation: %w", err)
	}

	return nil
}

func (r *postRepository) MarkPublished(postID, remoteID string, publishedAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE posts
		SET status = $2, remote_id = $3, published_at = $4, updated_at = NOW()
		WHERE id = $1
	`, postID, PostStatusPublished, remoteID, publishedAt)

	if err != nil {
		return fmt.Errorf("failed to mark post published: %w", err)
	}

	return nil
}

func (r *postRepository) MarkFailed(postID, reason string) error {
	_, err := r.db.Exec(`
		UPDATE posts
		SET status = $2, validation_errors = array_append(COALESCE(validation_errors, '{}'), $3),
		    updated_at = NOW()
		WHERE id = $1
	`, postID, PostStatusFailed, reason)

	if err != nil {
		return fmt.Errorf("failed to mark post failed: %w", err)
	}

	return nil
}

func (r *postRepository) CheckDuplicate(siteName, contentHash string) (bool, error) {
	var id string
	err := r.db.QueryRow(`
		SELECT id FROM posts
		WHERE site_id = (SELECT id FROM sites WHERE name = $1) AND content_hash = $2
		LIMIT 1
	`, siteName, contentHash).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}

	return true, nil
}
