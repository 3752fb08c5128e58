package config

import (
	"github.com/MinPika/ignition-automation/app/content"
)

// SiteConfig is one target blog, loaded from <name>.yml in the sites
// directory.
type SiteConfig struct {
	Name       string              // Derived from filename (without .yml extension)
	CMS        CMSConfig           `yaml:"cms"`
	Site       SiteInfo            `yaml:"site"`
	Settings   SiteSettings        `yaml:"settings"`
	Sources    []string            `yaml:"sources"`
	Validation ValidationOverrides `yaml:"validation"`
}

type CMSConfig struct {
	URL string `yaml:"url"`
}

// SiteInfo describes the public blog, used for the published-posts feed.
type SiteInfo struct {
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type SiteSettings struct {
	Enabled          bool   `yaml:"enabled"`
	TemplateType     string `yaml:"template_type"`
	PublishInterval  int    `yaml:"publish_interval"`  // seconds
	DiscoverInterval int    `yaml:"discover_interval"` // seconds
	Timeout          int    `yaml:"timeout"`           // seconds
	BatchSize        int    `yaml:"batch_size"`        // posts per publish run
	MaxFeedItems     int    `yaml:"max_feed_items"`
	DiscoverTopics   bool   `yaml:"discover_topics"`
}

// ValidationOverrides carries per-site quality gate thresholds. Zero values
// mean "keep the default"; booleans and lists apply as given.
type ValidationOverrides struct {
	TitleMinLength     int      `yaml:"title_min_length"`
	TitleMaxLength     int      `yaml:"title_max_length"`
	MinWords           int      `yaml:"min_words"`
	MaxWords           int      `yaml:"max_words"`
	MinParagraphs      int      `yaml:"min_paragraphs"`
	MaxSentenceWords   int      `yaml:"max_sentence_words"`
	LongSentenceLimit  int      `yaml:"long_sentence_limit"`
	MinH2Count         int      `yaml:"min_h2"`
	MinFirstPerson     int      `yaml:"min_first_person"`
	PassiveVoiceLimit  int      `yaml:"passive_voice_limit"`
	BannedPhrases      []string `yaml:"banned_phrases"`
	RequireRegional    bool     `yaml:"require_regional"`
	Regions            []string `yaml:"regions"`
	MetaTitleMaxLength int      `yaml:"meta_title_max_length"`
	MetaDescMinLength  int      `yaml:"meta_desc_min_length"`
	MetaDescMaxLength  int      `yaml:"meta_desc_max_length"`
	KeywordDensityMin  float64  `yaml:"keyword_density_min"`
	KeywordDensityMax  float64  `yaml:"keyword_density_max"`
	AltTextMinLength   int      `yaml:"alt_text_min_length"`
	AltTextMaxLength   int      `yaml:"alt_text_max_length"`
	MinLinks           int      `yaml:"min_links"`
	LinkCheckLimit     int      `yaml:"link_check_limit"`
	ConclusionMinWords int      `yaml:"conclusion_min_words"`
	ConclusionMaxWords int      `yaml:"conclusion_max_words"`
}

// Policy builds the effective gate policy for this site: the defaults with
// every non-zero override applied.
func (c *SiteConfig) Policy() content.Policy {
	p := content.DefaultPolicy()
	o := c.Validation

	setInt := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}

	setInt(&p.TitleMinLength, o.TitleMinLength)
	setInt(&p.TitleMaxLength, o.TitleMaxLength)
	setInt(&p.MinWords, o.MinWords)
	setInt(&p.MaxWords, o.MaxWords)
	setInt(&p.MinParagraphs, o.MinParagraphs)
	setInt(&p.MaxSentenceWords, o.MaxSentenceWords)
	setInt(&p.LongSentenceLimit, o.LongSentenceLimit)
	setInt(&p.MinH2Count, o.MinH2Count)
	setInt(&p.MinFirstPerson, o.MinFirstPerson)
	setInt(&p.PassiveVoiceLimit, o.PassiveVoiceLimit)
	setInt(&p.MetaTitleMaxLength, o.MetaTitleMaxLength)
	setInt(&p.MetaDescMinLength, o.MetaDescMinLength)
	setInt(&p.MetaDescMaxLength, o.MetaDescMaxLength)
	setInt(&p.AltTextMinLength, o.AltTextMinLength)
	setInt(&p.AltTextMaxLength, o.AltTextMaxLength)
	setInt(&p.MinLinks, o.MinLinks)
	setInt(&p.LinkCheckLimit, o.LinkCheckLimit)
	setInt(&p.ConclusionMinWords, o.ConclusionMinWords)
	setInt(&p.ConclusionMaxWords, o.ConclusionMaxWords)

	if o.KeywordDensityMin > 0 {
		p.KeywordDensityMin = o.KeywordDensityMin
	}
	if o.KeywordDensityMax > 0 {
		p.KeywordDensityMax = o.KeywordDensityMax
	}

	p.RequireRegional = o.RequireRegional
	if len(o.Regions) > 0 {
		p.Regions = o.Regions
	}
	if len(o.BannedPhrases) > 0 {
		p.BannedPhrases = o.BannedPhrases
	}

	return p
}

// TemplateType returns the configured template, defaulting to the guide
// layout.
func (c *SiteConfig) TemplateType() content.TemplateType {
	if c.Settings.TemplateType == "" {
		return content.TemplateGuide
	}
	return content.TemplateType(c.Settings.TemplateType)
}
