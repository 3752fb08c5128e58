package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MinPika/ignition-automation/app/cfg"
	"github.com/MinPika/ignition-automation/app/cms"
	"github.com/MinPika/ignition-automation/app/config"
	"github.com/MinPika/ignition-automation/app/content"
	"github.com/MinPika/ignition-automation/app/database"
	"github.com/MinPika/ignition-automation/app/document"
	"github.com/MinPika/ignition-automation/app/tasks"
)

func NewHandler(siteCache *config.SiteCache, siteRepo database.SiteRepository,
	postRepo database.PostRepository, topicRepo database.TopicRepository,
	converter *document.Converter, httpClient *http.Client,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		siteRepo:   siteRepo,
		postRepo:   postRepo,
		topicRepo:  topicRepo,
		generator:  NewGenerator(),
		siteCache:  siteCache,
		converter:  converter,
		httpClient: httpClient,
		scheduler:  scheduler,
		userAgent:  cfg.Get().UserAgent,
	}
}

// postPayload is the draft intake body, shared by the submit and ad-hoc
// validate endpoints.
type postPayload struct {
	Title           string `json:"title" binding:"required"`
	HTML            string `json:"html" binding:"required"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Keyword         string `json:"keyword"`
	TemplateType    string `json:"template_type"`
	ImageURL        string `json:"image_url"`
	ImageAlt        string `json:"image_alt"`
}

func (p *postPayload) content() content.PostContent {
	return content.PostContent{
		Title:           p.Title,
		HTML:            p.HTML,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Keyword:         p.Keyword,
		TemplateType:    content.TemplateType(p.TemplateType),
	}
}

func (p *postPayload) image() *content.ImageDescriptor {
	if p.ImageURL == "" {
		return nil
	}
	return &content.ImageDescriptor{URL: p.ImageURL, AltText: p.ImageAlt}
}

func (h *Handler) GetSiteFeed(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	siteConfig, err := h.siteCache.GetConfig(name)
	if err != nil {
		slog.Error("Site configuration not found", "site", name, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	site, err := h.siteRepo.GetSite(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_site", "site", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if site == nil {
		slog.Error("Site not found in database", "site", name)
		c.Status(http.StatusNotFound)
		return
	}

	posts, err := h.postRepo.GetPublishedPosts(name, siteConfig.Settings.MaxFeedItems)
	if err != nil {
		slog.Error("Database error", "operation", "get_posts", "site", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(*site, posts)
	if err != nil {
		slog.Error("RSS generation error", "site", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(posts)))
	c.Header("X-Site-Name", name)
	c.Header("X-Last-Updated", site.UpdatedAt.Format(time.RFC3339))

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if siteCount, err := h.siteRepo.GetSiteCount(); err == nil {
		health["sites"] = siteCount
	}

	health["loaded_configurations"] = h.siteCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	configs := h.siteCache.GetConfigs()

	sites := make([]map[string]interface{}, 0, len(configs))

	for _, siteConfig := range configs {
		siteStats := map[string]interface{}{
			"name":    siteConfig.Name,
			"enabled": siteConfig.Settings.Enabled,
		}

		if total, published, rejected, err := h.postRepo.GetPostStats(siteConfig.Name); err == nil {
			siteStats["posts"] = map[string]interface{}{
				"total":     total,
				"published": published,
				"rejected":  rejected,
			}
		}

		if total, used, err := h.topicRepo.GetTopicStats(siteConfig.Name); err == nil {
			siteStats["topics"] = map[string]interface{}{
				"total": total,
				"used":  used,
			}
		}

		sites = append(sites, siteStats)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sites": sites,
		"total": len(sites),
	})
}

func (h *Handler) APIListSites(c *gin.Context) {
	configs := h.siteCache.GetConfigs()

	sites := make([]map[string]interface{}, 0, len(configs))

	for _, siteConfig := range configs {
		siteInfo := map[string]interface{}{
			"name":             siteConfig.Name,
			"cms_url":          siteConfig.CMS.URL,
			"title":            siteConfig.Site.Title,
			"enabled":          siteConfig.Settings.Enabled,
			"template_type":    string(siteConfig.TemplateType()),
			"publish_interval": siteConfig.Settings.GetPublishInterval().String(),
			"sources":          len(siteConfig.Sources),
		}

		if site, err := h.siteRepo.GetSite(siteConfig.Name); err == nil && site != nil {
			siteInfo["last_published_at"] = site.LastPublishedAt
			siteInfo["next_publish_at"] = site.NextPublishAt
			siteInfo["updated_at"] = site.UpdatedAt
		}

		if total, published, _, err := h.postRepo.GetPostStats(siteConfig.Name); err == nil {
			siteInfo["post_count"] = total
			siteInfo["published_count"] = published
		}

		sites = append(sites, siteInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sites": sites,
		"total": len(sites),
	})
}

func (h *Handler) APIGetSiteDetails(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing site name parameter"})
		return
	}

	siteConfig, err := h.siteCache.GetConfig(name)
	if err != nil {
		slog.Error("Site configuration not found", "site", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Site configuration not found"})
		return
	}

	site, err := h.siteRepo.GetSite(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_site", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if site == nil {
		slog.Error("Site not found in database", "site", name)
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found in database"})
		return
	}

	details := map[string]interface{}{
		"name":              name,
		"cms_url":           siteConfig.CMS.URL,
		"site_url":          siteConfig.Site.URL,
		"title":             siteConfig.Site.Title,
		"enabled":           siteConfig.Settings.Enabled,
		"template_type":     string(siteConfig.TemplateType()),
		"publish_interval":  siteConfig.Settings.GetPublishInterval().String(),
		"discover_interval": siteConfig.Settings.GetDiscoverInterval().String(),
		"timeout":           siteConfig.Settings.GetTimeout().String(),
		"sources":           siteConfig.Sources,
	}

	details["database"] = map[string]interface{}{
		"id":                site.ID,
		"name":              site.Name,
		"last_published_at": site.LastPublishedAt,
		"next_publish_at":   site.NextPublishAt,
		"next_discover_at":  site.NextDiscoverAt,
		"created_at":        site.CreatedAt,
		"updated_at":        site.UpdatedAt,
	}

	if total, published, rejected, err := h.postRepo.GetPostStats(name); err == nil {
		details["posts"] = map[string]interface{}{
			"total":     total,
			"published": published,
			"rejected":  rejected,
		}
	}

	if total, used, err := h.topicRepo.GetTopicStats(name); err == nil {
		details["topics"] = map[string]interface{}{
			"total": total,
			"used":  used,
		}
	}

	c.JSON(http.StatusOK, details)
}

// APISubmitPost accepts a generated draft and stores it as pending. The
// quality gate runs later, inside the publish task.
func (h *Handler) APISubmitPost(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing site name parameter"})
		return
	}

	siteConfig, err := h.siteCache.GetConfig(name)
	if err != nil {
		slog.Error("Site configuration not found", "site", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Site configuration not found"})
		return
	}

	var payload postPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if payload.TemplateType == "" {
		payload.TemplateType = string(siteConfig.TemplateType())
	}

	contentHash := generateContentHash(payload.Title, payload.HTML)

	duplicate, err := h.postRepo.CheckDuplicate(name, contentHash)
	if err != nil {
		slog.Error("Database error", "operation", "check_duplicate", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if duplicate {
		c.JSON(http.StatusConflict, gin.H{"error": "A post with the same content already exists"})
		return
	}

	post := database.Post{
		Title:           payload.Title,
		Slug:            content.Slugify(payload.Title),
		HTML:            payload.HTML,
		MetaTitle:       payload.MetaTitle,
		MetaDescription: payload.MetaDescription,
		Keyword:         payload.Keyword,
		TemplateType:    payload.TemplateType,
		Status:          database.PostStatusPending,
		ContentHash:     contentHash,
		ImageURL:        payload.ImageURL,
		ImageAlt:        payload.ImageAlt,
	}

	postID, err := h.postRepo.InsertPost(name, post)
	if err != nil {
		slog.Error("Database error", "operation", "insert_post", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     postID,
		"slug":   post.Slug,
		"status": post.Status,
	})
}

// APIValidateContent runs the quality gate on submitted content without
// storing anything. The response carries the verdict plus the converted
// block document so callers can preview what the CMS would receive.
func (h *Handler) APIValidateContent(c *gin.Context) {
	var payload struct {
		postPayload
		Site string `json:"site"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	policy := content.DefaultPolicy()
	if payload.Site != "" {
		siteConfig, err := h.siteCache.GetConfig(payload.Site)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site configuration not found"})
			return
		}
		policy = siteConfig.Policy()
		if payload.TemplateType == "" {
			payload.TemplateType = string(siteConfig.TemplateType())
		}
	}

	validator := content.NewValidator(policy, h.httpClient, h.userAgent)
	result := validator.Run(c.Request.Context(), payload.content(), payload.image())

	blocks := h.converter.Run(payload.HTML)

	c.JSON(http.StatusOK, gin.H{
		"valid":    result.Valid,
		"errors":   result.Errors,
		"warnings": result.Warnings,
		"metrics":  result.Metrics,
		"document": cms.Serialize(blocks),
	})
}

// APINextTopic hands out the oldest available topic candidate and marks it
// used, so the external generator never receives the same subject twice.
func (h *Handler) APINextTopic(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing site name parameter"})
		return
	}

	_, err := h.siteCache.GetConfig(name)
	if err != nil {
		slog.Error("Site configuration not found", "site", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Site configuration not found"})
		return
	}

	topic, err := h.topicRepo.PickAvailable(name)
	if err != nil {
		slog.Error("Database error", "operation", "pick_topic", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if topic == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No available topics for this site"})
		return
	}

	if err := h.topicRepo.MarkUsed(topic.ID, time.Now().UTC()); err != nil {
		slog.Error("Database error", "operation", "mark_topic_used", "site", name, "topic_id", topic.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark topic as used"})
		return
	}

	slog.Info("Topic handed out", "site", name, "topic_id", topic.ID, "title", topic.Title)

	c.JSON(http.StatusOK, gin.H{
		"id":            topic.ID,
		"title":         topic.Title,
		"keyword":       topic.Keyword,
		"source_url":    topic.SourceURL,
		"summary":       topic.Summary,
		"discovered_at": topic.DiscoveredAt,
	})
}

func (h *Handler) APITriggerPublish(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing site name parameter"})
		return
	}

	siteConfig, err := h.siteCache.GetConfig(name)
	if err != nil {
		slog.Error("Site configuration not found", "site", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Site configuration not found"})
		return
	}

	appCfg := cfg.Get()
	publishTask := tasks.NewPublishPostTask(name, siteConfig, h.httpClient, h.converter, h.siteRepo, h.postRepo, appCfg.UserAgent, appCfg.CMSAccessKey)
	if err := h.scheduler.EnqueueTask(publishTask); err != nil {
		slog.Error("Error enqueueing publish task", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue publish task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Publish task enqueued successfully",
		"task": gin.H{
			"id":   publishTask.ID,
			"type": publishTask.Type,
		},
	})
}

func (h *Handler) APIRevalidateSite(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing site name parameter"})
		return
	}

	_, err := h.siteCache.GetConfig(name)
	if err != nil {
		slog.Error("Site configuration not found", "site", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Site configuration not found"})
		return
	}

	site, err := h.siteRepo.GetSite(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_site", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if site == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found in database"})
		return
	}

	siteConfig, err := h.siteCache.LoadConfig(name)
	if err != nil {
		slog.Error("Error reloading configuration", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	syncTask := tasks.NewSyncSiteConfigTask(name, siteConfig, h.siteRepo)
	if err := h.scheduler.EnqueueTask(syncTask); err != nil {
		slog.Error("Error enqueueing sync task", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	revalidateTask := tasks.NewRevalidatePostTask(name, siteConfig, h.httpClient, h.postRepo, cfg.Get().UserAgent)
	if err := h.scheduler.EnqueueTask(revalidateTask); err != nil {
		slog.Error("Error enqueueing revalidate task", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue revalidate task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded and tasks enqueued successfully",
		"site": gin.H{
			"name":    name,
			"title":   site.Title,
			"cms_url": siteConfig.CMS.URL,
		},
		"tasks": []gin.H{
			{
				"id":   syncTask.ID,
				"type": syncTask.Type,
			},
			{
				"id":   revalidateTask.ID,
				"type": revalidateTask.Type,
			},
		},
	})
}

func generateContentHash(title, html string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s", title, html)))
	return hex.EncodeToString(hash[:])
}
