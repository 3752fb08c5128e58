package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MinPika/ignition-automation/app/config"
	"github.com/MinPika/ignition-automation/app/database"
)

type fakeTopicRepo struct {
	topics []database.Topic
	used   []string
}

func (f *fakeTopicRepo) IsUsed(siteName, contentHash string) (bool, error) {
	return false, nil
}

func (f *fakeTopicRepo) Record(siteName string, topic database.Topic) error {
	f.topics = append(f.topics, topic)
	return nil
}

func (f *fakeTopicRepo) PickAvailable(siteName string) (*database.Topic, error) {
	for i := range f.topics {
		if f.topics[i].Status == database.TopicStatusAvailable {
			topic := f.topics[i]
			return &topic, nil
		}
	}
	return nil, nil
}

func (f *fakeTopicRepo) MarkUsed(topicID string, usedAt time.Time) error {
	f.used = append(f.used, topicID)
	for i := range f.topics {
		if f.topics[i].ID == topicID {
			f.topics[i].Status = database.TopicStatusUsed
			f.topics[i].UsedAt = &usedAt
		}
	}
	return nil
}

func (f *fakeTopicRepo) GetTopicStats(siteName string) (total, used int, err error) {
	for _, topic := range f.topics {
		total++
		if topic.Status == database.TopicStatusUsed {
			used++
		}
	}
	return total, used, nil
}

func setupTopicTestRouter(t *testing.T, topicRepo database.TopicRepository) *gin.Engine {
	t.Helper()
	setupTestConfig()

	tempDir := t.TempDir()
	configContent := `
cms:
  url: "https://blog.example.com"

settings:
  enabled: true
`
	if err := os.WriteFile(filepath.Join(tempDir, "example.yml"), []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	siteCache := config.NewSiteCache(tempDir)
	if err := siteCache.Run(); err != nil {
		t.Fatal(err)
	}

	handler := &Handler{
		siteCache: siteCache,
		topicRepo: topicRepo,
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/sites/:name/topics/next", handler.APINextTopic)
	return router
}

func TestAPINextTopic(t *testing.T) {
	discovered := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	topicRepo := &fakeTopicRepo{
		topics: []database.Topic{
			{
				ID:           "topic-1-uuid",
				Title:        "Improve Landing Page Conversion",
				Keyword:      "improve landing page",
				SourceURL:    "https://news.example.com/landing",
				Summary:      "A short summary.",
				Status:       database.TopicStatusAvailable,
				DiscoveredAt: discovered,
			},
			{
				ID:     "topic-2-uuid",
				Title:  "Second Candidate",
				Status: database.TopicStatusAvailable,
			},
		},
	}
	router := setupTopicTestRouter(t, topicRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sites/example/topics/next", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["id"] != "topic-1-uuid" {
		t.Errorf("Expected oldest candidate first, got %v", body["id"])
	}
	if body["title"] != "Improve Landing Page Conversion" {
		t.Errorf("Expected topic title in response, got %v", body["title"])
	}
	if body["keyword"] != "improve landing page" {
		t.Errorf("Expected topic keyword in response, got %v", body["keyword"])
	}

	if len(topicRepo.used) != 1 || topicRepo.used[0] != "topic-1-uuid" {
		t.Errorf("Expected the handed-out topic marked used, got %v", topicRepo.used)
	}

	// The next request returns the next candidate, never the same one
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/sites/example/topics/next", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["id"] != "topic-2-uuid" {
		t.Errorf("Expected second candidate on second request, got %v", body["id"])
	}
}

func TestAPINextTopicPoolEmpty(t *testing.T) {
	router := setupTopicTestRouter(t, &fakeTopicRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sites/example/topics/next", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for an empty pool, got %d", w.Code)
	}
}

func TestAPINextTopicUnknownSite(t *testing.T) {
	router := setupTopicTestRouter(t, &fakeTopicRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sites/missing/topics/next", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for an unknown site, got %d", w.Code)
	}
}
