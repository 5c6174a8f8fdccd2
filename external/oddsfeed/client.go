package oddsfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/oddspulse/oddspulse/internal/platform/logging"
	"github.com/oddspulse/oddspulse/internal/platform/resilience"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultLang        = "pl-PL"
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultBackoffBase = time.Second
	defaultIncludeOnly = "fixture,inPlayStats,inPlayStatsMetadata,results"
	maxResponseBytes   = 6 << 20
)

var errFeedTransient = crerr.New("odds feed transient failure")

// ErrUnavailable is returned when the circuit breaker rejects a call.
var ErrUnavailable = crerr.New("odds feed is temporarily unavailable")

// ErrNotFound is returned for HTTP 404; callers usually treat it as
// "no data available" rather than a failure.
var ErrNotFound = crerr.New("odds feed resource not found")

type ClientConfig struct {
	HTTPClient *http.Client
	// OfferBaseURL serves the catalog structure, events-by-date, event
	// detail and market group endpoints.
	OfferBaseURL string
	// SubscriptionBaseURL serves the server-sent-event result stream.
	SubscriptionBaseURL string
	// CatalogURL serves the flat {key, group, title} catalog listing.
	CatalogURL           string
	Lang                 string
	Timeout              time.Duration
	MaxAttempts          int
	BackoffBase          time.Duration
	MarketGroupBlockList []string
	MarketNameBlockList  []string
	Logger               *logging.Logger
	CircuitBreaker       resilience.BreakerConfig
}

// Client talks to the upstream odds provider. All calls retry transient
// failures with exponential backoff and pass through a shared circuit breaker.
type Client struct {
	httpClient          *http.Client
	offerBaseURL        string
	subscriptionBaseURL string
	catalogURL          string
	lang                string
	maxAttempts         int
	backoffBase         time.Duration
	groupBlockList      []string
	nameBlockList       []string
	logger              *logging.Logger
	breaker             *resilience.Breaker
	circuitEnabled      bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	backoffBase := cfg.BackoffBase
	if backoffBase <= 0 {
		backoffBase = defaultBackoffBase
	}
	lang := strings.TrimSpace(cfg.Lang)
	if lang == "" {
		lang = defaultLang
	}
	breakerCfg := resilience.NormalizeBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:          httpClient,
		offerBaseURL:        strings.TrimRight(strings.TrimSpace(cfg.OfferBaseURL), "/"),
		subscriptionBaseURL: strings.TrimRight(strings.TrimSpace(cfg.SubscriptionBaseURL), "/"),
		catalogURL:          strings.TrimSpace(cfg.CatalogURL),
		lang:                lang,
		maxAttempts:         maxAttempts,
		backoffBase:         backoffBase,
		groupBlockList:      append([]string(nil), cfg.MarketGroupBlockList...),
		nameBlockList:       append([]string(nil), cfg.MarketNameBlockList...),
		logger:              logger,
		breaker:             resilience.NewBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled:      breakerCfg.Enabled,
	}
}

func (c *Client) offerURL(path string) string {
	return c.offerBaseURL + "/" + c.lang + path
}

func (c *Client) getJSON(ctx context.Context, fullURL string, query url.Values, target any) error {
	raw, err := c.get(ctx, fullURL, query)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, fullURL string, query url.Values) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "odds feed circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if encoded := query.Encode(); encoded != "" {
		if strings.Contains(fullURL, "?") {
			fullURL += "&" + encoded
		} else {
			fullURL += "?" + encoded
		}
	}

	raw, err := c.executeRequest(ctx, fullURL)
	c.recordCircuitResult(err)
	return raw, err
}

// executeRequest retries transient failures (connection errors, timeouts,
// 5xx, 429) with backoff base*2^(attempt-1). Other 4xx return immediately
// and the last observed error is surfaced after the final attempt.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFeedTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFeedTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFeedTransient, resp.StatusCode, abbreviateBody(raw))
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: url=%s", ErrNotFound, fullURL)
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxAttempts {
			break
		}
		backoff := c.backoffBase * (1 << (attempt - 1))
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "odds feed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err != nil && isFeedCircuitFailure(err) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isFeedCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFeedTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 512 {
		return body[:512] + "...(truncated)"
	}
	return body
}
