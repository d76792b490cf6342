package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxDocumentBytes    = 4 << 20
)

// ErrTransport marks fetch failures: unreachable source, non-success status,
// missing file. Callers recover by substituting a fallback document.
var ErrTransport = errors.New("documents: transport failure")

// Loader fetches one-shot JSON documents from a local file, an http(s) URL,
// or a gs:// object. There is no retry policy: a failed fetch falls through
// to the caller's fallback value.
type Loader struct {
	httpClient *http.Client
	gcs        *storage.Client
	timeout    time.Duration
}

// Option customises the Loader.
type Option func(*Loader)

// WithHTTPClient overrides the HTTP client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.httpClient = client
		}
	}
}

// WithStorageClient supplies the Cloud Storage client used for gs:// sources.
func WithStorageClient(client *storage.Client) Option {
	return func(l *Loader) {
		l.gcs = client
	}
}

// WithTimeout bounds a single fetch.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

// NewLoader constructs a Loader with sane defaults.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		httpClient: http.DefaultClient,
		timeout:    defaultFetchTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Fetch retrieves the raw bytes of the document at source.
func (l *Loader) Fetch(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", ErrTransport)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	switch {
	case strings.HasPrefix(source, "gs://"):
		return l.fetchObject(ctx, source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.fetchURL(ctx, source)
	default:
		return l.fetchFile(source)
	}
}

func (l *Loader) fetchURL(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrTransport, source, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return data, nil
}

func (l *Loader) fetchObject(ctx context.Context, source string) ([]byte, error) {
	if l.gcs == nil {
		return nil, fmt.Errorf("%w: storage client not configured for %s", ErrTransport, source)
	}
	parsed, err := url.Parse(source)
	if err != nil || parsed.Host == "" || strings.Trim(parsed.Path, "/") == "" {
		return nil, fmt.Errorf("%w: invalid object reference %s", ErrTransport, source)
	}

	reader, err := l.gcs.Bucket(parsed.Host).Object(strings.TrimPrefix(parsed.Path, "/")).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(io.LimitReader(reader, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return data, nil
}

func (l *Loader) fetchFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return data, nil
}
