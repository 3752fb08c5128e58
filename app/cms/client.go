package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

type PublishRequest struct {
	Title           string     `json:"title"`
	Slug            string     `json:"slug,omitempty"`
	MetaTitle       string     `json:"metaTitle"`
	MetaDescription string     `json:"metaDescription"`
	Keyword         string     `json:"keyword,omitempty"`
	Status          string     `json:"status"`
	PublishAt       *time.Time `json:"publishAt,omitempty"`
	FeaturedImage   *Image     `json:"featuredImage,omitempty"`
	Content         []Node     `json:"content"`
}

type publishResponse struct {
	ID string `json:"id"`
}

// Client talks to the publishing system's HTTP API.
type Client struct {
	baseURL    string
	accessKey  string
	userAgent  string
	httpClient *http.Client
}

func NewClient(baseURL, accessKey, userAgent string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		accessKey:  accessKey,
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

// PublishPost creates a post on the CMS and returns its remote ID. A
// scheduled publish is just a status plus PublishAt; the CMS owns the
// calendar arithmetic.
func (c *Client) PublishPost(ctx context.Context, req PublishRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode publish request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/posts", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessKey)
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to reach CMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("CMS returned HTTP %d: %s", resp.StatusCode, string(data))
	}

	var parsed publishResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode CMS response: %w", err)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("CMS response is missing the post ID")
	}

	return parsed.ID, nil
}
