package database

import (
	"time"
)

// Site represents a target blog registered from a site configuration file.
type Site struct {
	ID              string // Database UUID
	Name            string // Configuration identifier derived from filename
	CMSURL          string
	SiteURL         string // Public site URL, used for feed links
	Title           string
	Description     string
	LastPublishedAt *time.Time
	NextPublishAt   *time.Time
	NextDiscoverAt  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Post represents a generated draft moving through the publish pipeline.
// Status transitions: pending -> rejected | published | failed.
type Post struct {
	ID                 string
	SiteID             string
	Title              string
	Slug               string
	HTML               string
	MetaTitle          string
	MetaDescription    string
	Keyword            string
	TemplateType       string
	Status             string
	ValidationErrors   []string
	ValidationWarnings []string
	WordCount          int
	ContentHash        string
	RemoteID           string // ID assigned by the CMS on publish
	ImageURL           string
	ImageAlt           string
	PublishedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const (
	PostStatusPending   = "pending"
	PostStatusRejected  = "rejected"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

// Topic is a candidate or used subject for a site, discovered from source
// feeds or recorded when a post publishes.
type Topic struct {
	ID           string
	SiteID       string
	Title        string
	Keyword      string
	SourceURL    string
	Summary      string
	ContentHash  string
	Status       string // available, used, rejected
	DiscoveredAt time.Time
	UsedAt       *time.Time
}

const (
	TopicStatusAvailable = "available"
	TopicStatusUsed      = "used"
)
