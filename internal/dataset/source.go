package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is where the card looks for its dataset when none is configured.
const DefaultPath = "./DATA/data.csv"

// Source fetches the raw dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads the dataset from disk. A relative Path is resolved
// against BaseDir.
type FileSource struct {
	Path    string
	BaseDir string
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.resolved())
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	return f, nil
}

func (s FileSource) String() string { return s.resolved() }

func (s FileSource) resolved() string {
	if filepath.IsAbs(s.Path) || s.BaseDir == "" {
		return s.Path
	}
	return filepath.Join(s.BaseDir, s.Path)
}

// HTTPSource fetches the dataset over HTTP. Non-2xx responses are errors.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build dataset request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch dataset: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s HTTPSource) String() string { return s.URL }

// NewSource picks an HTTPSource for http(s) references and a FileSource
// for everything else.
func NewSource(ref, baseDir string, client *http.Client) Source {
	if ref == "" {
		ref = DefaultPath
	}
	if u, err := url.Parse(ref); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return HTTPSource{URL: ref, Client: client}
		case "file":
			return FileSource{Path: u.Path}
		}
	}
	return FileSource{Path: ref, BaseDir: baseDir}
}
