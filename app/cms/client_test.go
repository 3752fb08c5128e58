package cms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPublishPost(t *testing.T) {
	var gotPath, gotAuth, gotContentType, gotUserAgent string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotUserAgent = r.Header.Get("User-Agent")
		gotBody, _ = io.ReadAll(r.Body)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"remote-post-id"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key", "Ignition/1.0", server.Client())

	req := PublishRequest{
		Title:           "Test Post",
		Slug:            "test-post",
		MetaTitle:       "Test Post Meta",
		MetaDescription: "A test post description",
		Status:          StatusPublished,
		Content: []Node{
			{Type: "paragraph", Children: []Node{{Type: "text", Text: "Body."}}},
		},
	}

	id, err := client.PublishPost(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if id != "remote-post-id" {
		t.Errorf("Expected remote post ID, got %q", id)
	}
	if gotPath != "/api/posts" {
		t.Errorf("Expected /api/posts path, got %q", gotPath)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Expected JSON content type, got %q", gotContentType)
	}
	if gotUserAgent != "Ignition/1.0" {
		t.Errorf("Expected user agent header, got %q", gotUserAgent)
	}

	var decoded PublishRequest
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Title != "Test Post" || decoded.Status != StatusPublished {
		t.Errorf("Expected request fields preserved, got %+v", decoded)
	}
	if len(decoded.Content) != 1 || decoded.Content[0].Type != "paragraph" {
		t.Errorf("Expected content nodes preserved, got %+v", decoded.Content)
	}
}

func TestPublishPostServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"slug already exists"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key", "Ignition/1.0", server.Client())

	_, err := client.PublishPost(context.Background(), PublishRequest{Title: "Duplicate"})
	if err == nil {
		t.Fatal("Expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "HTTP 422") {
		t.Errorf("Expected status code in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "slug already exists") {
		t.Errorf("Expected response body in error, got %v", err)
	}
}

func TestPublishPostMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key", "Ignition/1.0", server.Client())

	_, err := client.PublishPost(context.Background(), PublishRequest{Title: "No ID"})
	if err == nil {
		t.Fatal("Expected error for response without ID")
	}
	if !strings.Contains(err.Error(), "missing the post ID") {
		t.Errorf("Expected missing ID error, got %v", err)
	}
}

func TestPublishPostUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "secret-key", "Ignition/1.0", &http.Client{})

	_, err := client.PublishPost(context.Background(), PublishRequest{Title: "Down"})
	if err == nil {
		t.Fatal("Expected error for unreachable CMS")
	}
	if !strings.Contains(err.Error(), "failed to reach CMS") {
		t.Errorf("Expected reachability error, got %v", err)
	}
}
