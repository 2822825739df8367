package devdocs

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultManifest is the manifest filename looked up in the working directory.
	DefaultManifest = "docs.json"

	// DefaultOutputDir is where downloaded documents are written.
	DefaultOutputDir = "docs"

	downloadTimeout = 30 * time.Second
)

// Manifest is the docs.json shape: a list of documents to fetch.
type Manifest struct {
	Docs []Doc `json:"docs"`
}

// Doc names one document: the title becomes the local filename.
type Doc struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Updater downloads manifest documents into an output directory.
type Updater struct {
	client *http.Client
	logger *slog.Logger
}

// NewUpdater returns an Updater with a timeout-bounded HTTP client.
func NewUpdater(logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		client: &http.Client{Timeout: downloadTimeout},
		logger: logger,
	}
}

// LoadManifest reads and parses a docs.json manifest. A missing manifest is
// an error so the caller can print a usage hint.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("manifest %s not found: create it with {\"docs\": [{\"title\": ..., \"url\": ...}]}", path)
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &manifest, nil
}

// Update downloads every well-formed manifest entry into outputDir.
// Malformed entries and failed downloads are logged and skipped; the
// returned count is the number of documents written.
func (u *Updater) Update(manifest *Manifest, outputDir string) (int, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	updated := 0
	for i, doc := range manifest.Docs {
		if doc.Title == "" || doc.URL == "" {
			u.logger.Warn("skipping malformed manifest entry",
				slog.Int("index", i),
				slog.String("title", doc.Title),
				slog.String("url", doc.URL))
			continue
		}

		path := filepath.Join(outputDir, sanitizeTitle(doc.Title))
		if err := u.download(doc.URL, path); err != nil {
			u.logger.Warn("failed to download document",
				slog.String("title", doc.Title),
				slog.String("url", doc.URL),
				slog.String("error", err.Error()))
			continue
		}

		u.logger.Info("updated document",
			slog.String("title", doc.Title),
			slog.String("path", path))
		updated++
	}
	return updated, nil
}

// sanitizeTitle keeps manifest titles from escaping the output directory.
func sanitizeTitle(title string) string {
	title = strings.ReplaceAll(title, "/", "_")
	title = strings.ReplaceAll(title, "\\", "_")
	title = strings.ReplaceAll(title, "..", "_")
	return title
}

func (u *Updater) download(url, path string) error {
	resp, err := u.client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return os.WriteFile(path, body, 0644)
}
