package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
)

const (
	UserAgent = "catalog-import/1.0 (github.com/fivec-maps/catalog-import)"
	Timeout   = 30 * time.Second
)

// Loader reads catalog pages from disk or over HTTP.
type Loader struct {
	client    *http.Client
	userAgent string
	retries   int
	interval  time.Duration
}

// NewLoader creates a Loader. Zero values fall back to Timeout and UserAgent.
func NewLoader(timeout time.Duration, userAgent string) *Loader {
	if timeout <= 0 {
		timeout = Timeout
	}
	if userAgent == "" {
		userAgent = UserAgent
	}
	return &Loader{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		interval:  backoff.DefaultInitialInterval,
	}
}

// WithRetries makes remote loads retry up to n times on network errors and 5xx
// responses, waiting an exponentially growing interval starting at initial.
func (l *Loader) WithRetries(n int, initial time.Duration) *Loader {
	if n < 0 {
		n = 0
	}
	l.retries = n
	if initial > 0 {
		l.interval = initial
	}
	return l
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load returns the full page at source. Every failure wraps apperrors.ErrSourceUnavailable.
func (l *Loader) Load(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", apperrors.ErrSourceUnavailable)
	}
	if IsRemote(source) {
		return l.fetch(ctx, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w: %w", source, apperrors.ErrSourceUnavailable, err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = l.interval
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(l.retries)), ctx)

	var data []byte
	err := backoff.Retry(func() error {
		var err error
		data, err = l.fetchOnce(ctx, url)
		return err
	}, b)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSourceUnavailable) {
			err = fmt.Errorf("fetching page: %w: %w", apperrors.ErrSourceUnavailable, err)
		}
		return nil, err
	}
	return data, nil
}

// fetchOnce performs one GET. Client errors are permanent.
func (l *Loader) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w: %w", apperrors.ErrSourceUnavailable, err))
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w: %w", apperrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: unexpected status code: %d", apperrors.ErrSourceUnavailable, resp.StatusCode)
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w: %w", apperrors.ErrSourceUnavailable, err)
	}
	return data, nil
}
