package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/MinPika/ignition-automation/app/content"
)

type SiteCache struct {
	sitesDir string
	cache    map[string]*SiteConfig
	mu       sync.RWMutex
}

func NewSiteCache(sitesDir string) *SiteCache {
	return &SiteCache{
		sitesDir: sitesDir,
		cache:    make(map[string]*SiteConfig),
	}
}

func (sc *SiteCache) Run() error {
	if _, err := os.Stat(sc.sitesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(sc.sitesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		// Derive site name from filename (remove .yml extension)
		fileName := filepath.Base(file)
		siteName := fileName[:len(fileName)-4]

		siteConfig, err := sc.LoadConfig(siteName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Site configuration loaded", "site", siteName,
			"enabled", siteConfig.Settings.Enabled,
			"publish_interval", siteConfig.Settings.PublishInterval,
			"sources", len(siteConfig.Sources))
	}

	return nil
}

func (sc *SiteCache) LoadConfig(siteName string) (*SiteConfig, error) {
	configFile := sc.getConfigFilePath(siteName)
	siteConfig, err := sc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	// Set site name from parameter
	siteConfig.Name = siteName

	if err := sc.validateConfig(siteConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	// Store in cache
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache[siteConfig.Name] = siteConfig

	return siteConfig, nil
}

func (sc *SiteCache) GetConfig(siteName string) (*SiteConfig, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	siteConfig, ok := sc.cache[siteName]
	if !ok {
		return nil, fmt.Errorf("site config with name '%s' not found", siteName)
	}
	return siteConfig, nil
}

func (sc *SiteCache) GetConfigs() map[string]*SiteConfig {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	configsCopy := make(map[string]*SiteConfig, len(sc.cache))
	for k, v := range sc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (sc *SiteCache) GetEnabledConfigs() map[string]*SiteConfig {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	enabledConfigs := make(map[string]*SiteConfig)
	for k, v := range sc.cache {
		if v.Settings.Enabled {
			enabledConfigs[k] = v
		}
	}
	return enabledConfigs
}

func (sc *SiteCache) GetConfigCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.cache)
}

func (sc *SiteCache) parseConfig(configFile string) (*SiteConfig, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var siteConfig SiteConfig
	if err := yaml.Unmarshal(data, &siteConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if siteConfig.Settings.PublishInterval == 0 {
		siteConfig.Settings.PublishInterval = 86400
	}
	if siteConfig.Settings.DiscoverInterval == 0 {
		siteConfig.Settings.DiscoverInterval = 21600
	}
	if siteConfig.Settings.Timeout == 0 {
		siteConfig.Settings.Timeout = 30
	}
	if siteConfig.Settings.BatchSize == 0 {
		siteConfig.Settings.BatchSize = 5
	}
	if siteConfig.Settings.MaxFeedItems == 0 {
		siteConfig.Settings.MaxFeedItems = 50
	}

	return &siteConfig, nil
}

func (sc *SiteCache) validateConfig(siteConfig *SiteConfig) error {
	if siteConfig == nil {
		return fmt.Errorf("siteConfig is nil")
	}

	if siteConfig.Name == "" {
		return fmt.Errorf("site name is required")
	}
	if siteConfig.CMS.URL == "" {
		return fmt.Errorf("CMS URL is required")
	}

	nonNegativeFields := map[string]int{
		"publish interval":  siteConfig.Settings.PublishInterval,
		"discover interval": siteConfig.Settings.DiscoverInterval,
		"timeout":           siteConfig.Settings.Timeout,
		"batch size":        siteConfig.Settings.BatchSize,
		"max feed items":    siteConfig.Settings.MaxFeedItems,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if t := siteConfig.Settings.TemplateType; t != "" {
		valid := map[content.TemplateType]bool{
			content.TemplateHowTo:      true,
			content.TemplateListicle:   true,
			content.TemplateComparison: true,
			content.TemplateFAQ:        true,
			content.TemplateGuide:      true,
		}
		if !valid[content.TemplateType(t)] {
			return fmt.Errorf("invalid template type: %s", t)
		}
	}

	for i, source := range siteConfig.Sources {
		if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
			return fmt.Errorf("source at index %d must be an absolute http(s) URL: %s", i, source)
		}
	}

	return nil
}

func (sc *SiteCache) getConfigFilePath(siteName string) string {
	return filepath.Join(sc.sitesDir, siteName+".yml")
}
