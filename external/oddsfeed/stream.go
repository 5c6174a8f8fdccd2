package oddsfeed

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// FetchResults opens the server-sent-event result feed for one game and
// returns the tuples of the first parseable JSON message. A nil slice with a
// nil error means the stream closed without delivering a message.
func (c *Client) FetchResults(ctx context.Context, eventID string) ([]ResultEntry, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "odds feed circuit breaker rejected stream", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	query := url.Values{}
	query.Set("events", eventID)
	query.Set("includeOnly", defaultIncludeOnly)
	fullURL := c.subscriptionBaseURL + "/" + c.lang + "/events?" + query.Encode()

	message, err := c.readFirstStreamMessage(ctx, fullURL)
	c.recordCircuitResult(err)
	if err != nil {
		return nil, fmt.Errorf("fetch results event_id=%s: %w", eventID, err)
	}
	if message == nil {
		c.logger.WarnContext(ctx, "no data received from result stream", "event_id", eventID)
		return nil, nil
	}

	var parsed resultMessage
	if err := sonic.Unmarshal(message, &parsed); err != nil {
		return nil, fmt.Errorf("decode result message event_id=%s: %w", eventID, err)
	}

	out := make([]ResultEntry, 0, 16)
	for _, item := range parsed {
		for _, result := range item.Results {
			for _, odd := range result.Odds {
				uuid := strings.TrimSpace(odd.UUID)
				if uuid == "" {
					continue
				}
				out = append(out, ResultEntry{
					UUID:   uuid,
					Status: odd.Status,
					Price:  odd.Price,
				})
			}
		}
	}
	return out, nil
}

// readFirstStreamMessage retries the stream connection like any other call
// and scans the event feed until the first line that parses as JSON. Lines
// prefixed "data:" are unwrapped first; comment lines are skipped.
func (c *Client) readFirstStreamMessage(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		message, err := c.scanStreamOnce(ctx, fullURL)
		if err == nil {
			return message, nil
		}
		if !isFeedCircuitFailure(err) {
			return nil, err
		}
		lastErr = err

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

	c.logger.WarnContext(ctx, "result stream failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) scanStreamOnce(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: open stream: %v", errFeedTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isRetryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("%w: stream status=%d", errFeedTransient, resp.StatusCode)
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: url=%s", ErrNotFound, fullURL)
		}
		return nil, fmt.Errorf("stream status=%d", resp.StatusCode)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), maxResponseBytes)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "data:"):
			buf.Reset()
			_, _ = buf.WriteString(strings.TrimSpace(line[len("data:"):]))
		case strings.TrimSpace(line) != "" && !strings.HasPrefix(line, ":"):
			buf.Reset()
			_, _ = buf.WriteString(strings.TrimSpace(line))
		default:
			continue
		}

		if buf.Len() == 0 || !sonic.Valid(buf.Bytes()) {
			continue
		}
		message := make([]byte, buf.Len())
		copy(message, buf.Bytes())
		return message, nil
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: read stream: %v", errFeedTransient, err)
	}

	return nil, nil
}
