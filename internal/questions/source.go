package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Source lists and fetches raw question bank resources.
type Source interface {
	// List returns the JSON file names available under a bank folder.
	List(ctx context.Context, folder string) ([]string, error)
	// Fetch returns the raw payload for a source reference
	// (folder/filename as produced by List).
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// GitHubSource loads question banks from a GitHub repository: the contents
// API for listing, raw file URLs for fetching.
type GitHubSource struct {
	apiURL string // e.g. https://api.github.com/repos/<owner>/<repo>/contents
	rawURL string // e.g. https://raw.githubusercontent.com/<owner>/<repo>/main
	client *http.Client
}

func NewGitHubSource(apiURL, rawURL string) *GitHubSource {
	return &GitHubSource{
		apiURL: strings.TrimRight(apiURL, "/"),
		rawURL: strings.TrimRight(rawURL, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *GitHubSource) List(ctx context.Context, folder string) ([]string, error) {
	body, err := s.get(ctx, s.apiURL+"/"+folder)
	if err != nil {
		return nil, err
	}

	var entries []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode contents listing: %v", ErrInvalidFormat, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type == "file" && strings.HasSuffix(e.Name, ".json") {
			names = append(names, e.Name)
		}
	}

	return names, nil
}

func (s *GitHubSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return s.get(ctx, s.rawURL+"/"+ref)
}

func (s *GitHubSource) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrSetNotFound, url)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrSourceUnavailable, err)
	}

	return body, nil
}

// LocalSource loads question banks from a local directory tree laid out the
// same way as the remote repository.
type LocalSource struct {
	dir string
}

func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

func (s *LocalSource) List(_ context.Context, folder string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, folder))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSetNotFound, folder)
		}
		return nil, fmt.Errorf("list local folder: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}

	return names, nil
}

func (s *LocalSource) Fetch(_ context.Context, ref string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(ref)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSetNotFound, ref)
		}
		return nil, fmt.Errorf("read local set: %w", err)
	}

	return data, nil
}
