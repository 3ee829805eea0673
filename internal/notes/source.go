package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotFound is returned when a resource does not exist.
var ErrNotFound = errors.New("note not found")

// ErrTooLarge is returned for documents over the size cap. They are never
// truncated.
var ErrTooLarge = errors.New("note too large")

// maxDocumentBytes caps a single fetched document.
const maxDocumentBytes = 8 << 20

// Source reads a resource such as "docs/Intro.md".
type Source interface {
	Fetch(ctx context.Context, resource string) ([]byte, error)
}

// FSSource reads resources from a filesystem rooted at the site directory.
type FSSource struct {
	fs afero.Fs
}

// NewFSSource returns a Source over fsys.
func NewFSSource(fsys afero.Fs) *FSSource {
	return &FSSource{fs: fsys}
}

// NewDirSource returns a Source reading from dir on the OS filesystem.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Fetch implements Source.
func (s *FSSource) Fetch(ctx context.Context, resource string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, resource)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, resource)
		}
		return nil, fmt.Errorf("reading %s: %w", resource, err)
	}
	return data, nil
}

// HTTPSource fetches resources relative to a base URL, the way a browser
// fetches static files from the site that served it.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource returns a Source issuing GET requests below baseURL. A nil
// client means http.DefaultClient.
func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing content url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("content url %q: scheme must be http or https", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{base: u, client: client}, nil
}

// URL returns the address resource is fetched from. Each path segment is
// escaped, so identifiers with spaces become %20.
func (s *HTTPSource) URL(resource string) string {
	segments := strings.Split(resource, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.base.JoinPath(segments...).String()
}

// Fetch implements Source. Any non-2xx status is an error; 404 maps to
// ErrNotFound.
func (s *HTTPSource) Fetch(ctx context.Context, resource string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(resource), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, resource)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", resource, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", resource, err)
	}
	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, resource, maxDocumentBytes)
	}
	return data, nil
}
