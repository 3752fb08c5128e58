package config

import (
	"time"
)

// GetPublishInterval returns the publish cadence as time.Duration
func (s *SiteSettings) GetPublishInterval() time.Duration {
	if s.PublishInterval <= 0 {
		return 24 * time.Hour // default one post per day
	}
	return time.Duration(s.PublishInterval) * time.Second
}

// GetDiscoverInterval returns the topic discovery cadence as time.Duration
func (s *SiteSettings) GetDiscoverInterval() time.Duration {
	if s.DiscoverInterval <= 0 {
		return 6 * time.Hour
	}
	return time.Duration(s.DiscoverInterval) * time.Second
}

// GetTimeout returns the per-request timeout as time.Duration
func (s *SiteSettings) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}
