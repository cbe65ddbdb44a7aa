// ABOUTME: Tests for the illustration cache
// ABOUTME: Tests inline saves, HTTP downloads, and file naming
package artwork

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCache(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	if _, err := os.Stat(cache.cacheDir); os.IsNotExist(err) {
		t.Error("cache directory was not created")
	}
}

func TestSave(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	path, err := cache.Save("Apple Pie", []byte("fake png data"), "image/png")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if filepath.Base(path) != "apple-pie.png" {
		t.Errorf("unexpected file name: %s", filepath.Base(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if string(content) != "fake png data" {
		t.Errorf("unexpected content: %q", content)
	}

	if cache.CurrentPath() != path {
		t.Errorf("expected CurrentPath %s, got %s", path, cache.CurrentPath())
	}
}

func TestSaveEmpty(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	if _, err := cache.Save("word", nil, "image/png"); err == nil {
		t.Fatal("expected error for empty image data, got nil")
	}
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("fake image data"))
	}))
	defer server.Close()

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	path, err := cache.Download(server.URL + "/art.jpg")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(content) != "fake image data" {
		t.Errorf("unexpected content: %q", content)
	}
}

func TestDownloadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	if _, err := cache.Download(server.URL + "/missing.png"); err == nil {
		t.Fatal("expected error for 404 response, got nil")
	}
	if cache.CurrentPath() != "" {
		t.Error("expected CurrentPath to stay empty after failed download")
	}
}

func TestCleanup(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	if _, err := cache.Save("word", []byte("data"), "image/png"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := cache.Cleanup(); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	if _, err := os.Stat(cache.cacheDir); !os.IsNotExist(err) {
		t.Error("expected cache dir to be removed")
	}
}

func TestGetExtension(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"http://example.com/a.png", ".png"},
		{"http://example.com/a.jpg?size=large", ".jpg"},
		{"http://example.com/noext", ".jpg"},
	}

	for _, tt := range tests {
		if got := getExtension(tt.url); got != tt.expected {
			t.Errorf("%s: expected %s, got %s", tt.url, tt.expected, got)
		}
	}

	if !strings.HasPrefix(extForMime("image/jpeg"), ".jpg") {
		t.Error("expected .jpg for image/jpeg")
	}
}
