// Package source abstracts where static catalog files are read from: a local
// data directory or a static HTTP root.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/litescript/ls-obstars/internal/version"
)

// ErrNotFound indicates the requested resource does not exist.
var ErrNotFound = errors.New("source: not found")

// DefaultTimeout for HTTP requests.
const DefaultTimeout = 30 * time.Second

// Source fetches named static resources.
type Source interface {
	// Fetch returns the raw bytes of the named resource. Names are slash
	// separated and relative to the source root.
	Fetch(ctx context.Context, name string) ([]byte, error)

	// Describe returns a human-readable location for logs and status lines.
	Describe() string
}

// Dir reads resources from a local directory.
type Dir struct {
	root string
}

// NewDir creates a directory-backed source.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the directory being served.
func (d *Dir) Root() string {
	return d.root
}

// Describe implements Source.
func (d *Dir) Describe() string {
	return d.root
}

// Fetch implements Source.
func (d *Dir) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if isAbsoluteURL(name) {
		return nil, fmt.Errorf("read %s: absolute URLs need an HTTP source: %w", name, ErrNotFound)
	}

	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(name, "/")))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("read %s: path escapes data directory", name)
	}

	data, err := os.ReadFile(filepath.Join(d.root, clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// HTTP fetches resources relative to a base URL.
type HTTP struct {
	client    *http.Client
	base      string
	timeout   time.Duration
	userAgent string
}

// HTTPOption configures an HTTP source.
type HTTPOption func(*HTTP)

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.client = client
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(h *HTTP) {
		h.userAgent = ua
	}
}

// NewHTTP creates a source rooted at base (e.g. "https://host/static/data").
func NewHTTP(base string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		base:      strings.TrimRight(base, "/"),
		timeout:   DefaultTimeout,
		userAgent: version.UserAgent,
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.client == nil {
		h.client = &http.Client{
			Timeout: h.timeout,
		}
	}

	return h
}

// Describe implements Source.
func (h *HTTP) Describe() string {
	return h.base
}

// URL resolves name against the base URL.
func (h *HTTP) URL(name string) string {
	if isAbsoluteURL(name) {
		return name
	}
	return h.base + "/" + strings.TrimLeft(name, "/")
}

// Fetch implements Source.
func (h *HTTP) Fetch(ctx context.Context, name string) ([]byte, error) {
	url := h.URL(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetch %s: %w", url, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch %s: unexpected status code: %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}

func isAbsoluteURL(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

// New returns an HTTP source when dataURL is set and a directory source otherwise.
func New(dataDir, dataURL string, timeout time.Duration) Source {
	if dataURL != "" {
		return NewHTTP(dataURL, WithTimeout(timeout))
	}
	return NewDir(dataDir)
}
