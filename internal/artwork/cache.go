// ABOUTME: Cache for generated word illustrations
// ABOUTME: Saves inline image bytes and downloads URL-hosted images
package artwork

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Cache stores word illustrations on disk
type Cache struct {
	cacheDir    string
	currentPath string
}

// NewCache creates an illustration cache under the data dir
func NewCache(dataDir string) (*Cache, error) {
	cacheDir := filepath.Join(dataDir, "artwork")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	return &Cache{cacheDir: cacheDir}, nil
}

// Save writes inline image bytes for a word and returns the file path.
// The backend returns generated images as inline data with a mime type
// such as "image/png".
func (c *Cache) Save(word string, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image data for %q", word)
	}

	path := filepath.Join(c.cacheDir, sanitize(word)+extForMime(mimeType))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save illustration: %w", err)
	}

	log.Printf("Illustration saved: %s", path)
	c.currentPath = path
	return path, nil
}

// Download fetches an image by URL for backends that return links
func (c *Cache) Download(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download illustration: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("illustration download failed: status %d", resp.StatusCode)
	}

	path := filepath.Join(c.cacheDir, "download"+getExtension(url))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save illustration: %w", err)
	}

	c.currentPath = path
	return path, nil
}

// CurrentPath returns the path of the most recent illustration
func (c *Cache) CurrentPath() string {
	return c.currentPath
}

// Cleanup removes all cached illustrations
func (c *Cache) Cleanup() error {
	return os.RemoveAll(c.cacheDir)
}

// sanitize makes a word safe to use as a file name
func sanitize(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r == ' ':
			return '-'
		default:
			return '_'
		}
	}, word)
}

// extForMime maps an image mime type to a file extension
func extForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// getExtension extracts a file extension from a URL
func getExtension(url string) string {
	url = strings.Split(url, "?")[0]

	ext := filepath.Ext(url)
	if ext == "" {
		ext = ".jpg"
	}

	return ext
}
