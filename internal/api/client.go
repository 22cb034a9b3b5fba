package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/swilhoit/sunbeam/internal/metrics"
)

const (
	DefaultStoreURL = "https://sunbeamvintage.com"
	DefaultPageSize = 250
	userAgent       = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
)

// PageError reports a listing page the storefront did not serve.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("fetching page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// Options configures a Client. Zero values take the defaults.
type Options struct {
	BaseURL     string
	PageSize    int
	PageDelay   time.Duration
	MaxAttempts int
	RetryWait   time.Duration
	Timeout     time.Duration
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

// Client reads the storefront product listing.
type Client struct {
	httpClient *retryablehttp.Client
	baseURL    string
	pageSize   int
	pageDelay  time.Duration
	log        *zap.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a storefront client. Failed requests are retried up to
// MaxAttempts in total, waiting RetryWait, then twice that, and so on.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultStoreURL
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = opts.Timeout
	rc.RetryMax = opts.MaxAttempts - 1
	rc.RetryWaitMin = opts.RetryWait
	rc.RetryWaitMax = opts.RetryWait * time.Duration(opts.MaxAttempts)
	rc.Backoff = linearBackoff
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveledLogger{opts.Logger.Sugar()}

	return &Client{
		httpClient: rc,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		pageSize:   opts.PageSize,
		pageDelay:  opts.PageDelay,
		log:        opts.Logger,
		metrics:    opts.Metrics,
	}
}

func linearBackoff(waitMin, waitMax time.Duration, attemptNum int, _ *http.Response) time.Duration {
	wait := waitMin * time.Duration(attemptNum+1)
	if wait > waitMax {
		return waitMax
	}
	return wait
}

func (c *Client) getAndDecode(ctx context.Context, reqURL string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, reqURL)
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if err := dec.Decode(new(struct{})); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding response: trailing JSON content")
	}
	return nil
}

// FetchPage fetches one listing page. Pages start at 1.
func (c *Client) FetchPage(ctx context.Context, page int) ([]Product, error) {
	params := url.Values{
		"limit": {strconv.Itoa(c.pageSize)},
		"page":  {strconv.Itoa(page)},
	}

	var resp ProductsResponse
	if err := c.getAndDecode(ctx, c.baseURL+"/products.json?"+params.Encode(), &resp); err != nil {
		c.metrics.Page("error")
		return nil, &PageError{Page: page, Err: err}
	}
	c.metrics.Page("ok")
	return resp.Products, nil
}

// FetchAllProducts walks listing pages until an empty or short page and
// returns the products in page order. When limit > 0 the result is cut to
// limit products.
func (c *Client) FetchAllProducts(ctx context.Context, limit int) ([]Product, error) {
	var products []Product
	for page := 1; ; page++ {
		batch, err := c.FetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		products = append(products, batch...)
		c.log.Debug("fetched listing page", zap.Int("page", page), zap.Int("count", len(batch)), zap.Int("total", len(products)))

		if len(batch) < c.pageSize || (limit > 0 && len(products) >= limit) {
			break
		}
		if err := sleep(ctx, c.pageDelay); err != nil {
			return nil, err
		}
	}

	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type leveledLogger struct{ s *zap.SugaredLogger }

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
