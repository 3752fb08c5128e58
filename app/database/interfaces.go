package database

import (
	"time"
)

type SiteRepository interface {
	UpsertSite(name, cmsURL, siteURL, title, description string) error
	GetSite(name string) (*Site, error)
	GetSiteCount() (int, error)
	UpdateNextPublish(name string, next time.Time) error
	UpdateNextDiscover(name string, next time.Time) error
	RecordPublish(name string, publishedAt, next time.Time) error
}

type PostRepository interface {
	InsertPost(siteName string, post Post) (string, error)
	GetPendingPosts(siteName string, limit int) ([]Post, error)
	GetAllPosts(siteName string) ([]Post, error)
	GetPublishedPosts(siteName string, limit int) ([]Post, error)
	GetPostStats(siteName string) (total, published, rejected int, err error)
	UpdateValidation(postID, status string, errors, warnings []string, wordCount int) error
	MarkPublished(postID, remoteID string, publishedAt time.Time) error
	MarkFailed(postID, reason string) error
	CheckDuplicate(siteName, contentHash string) (bool, error)
}

// TopicRepository is the topic history store: it answers "have we covered
// this before", records what got covered, and hands out the next available
// candidate.
type TopicRepository interface {
	IsUsed(siteName, contentHash string) (bool, error)
	Record(siteName string, topic Topic) error
	PickAvailable(siteName string) (*Topic, error)
	MarkUsed(topicID string, usedAt time.Time) error
	GetTopicStats(siteName string) (total, used int, err error)
}
