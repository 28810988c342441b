package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

const (
	maxAttempts     = 3
	maxErrorBodyLen = 512
	maxBodyLen      = 10 << 20
)

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new USDA API client
func NewClient(apiKey, baseURL string) *Client {
	// USDA allows 1000 requests per hour
	// rate.Limit is requests per second, so 1000/3600 ≈ 0.278 requests/sec
	return NewClientWithLimit(apiKey, baseURL, 1000)
}

// NewClientWithLimit creates a client allowing requestsPerHour requests with a burst of 10
func NewClientWithLimit(apiKey, baseURL string, requestsPerHour int) *Client {
	if requestsPerHour <= 0 {
		requestsPerHour = 1000
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[USDA] "+format, args...)
	}
}

// exponentialBackoff returns the wait before retrying after the given attempt: 500ms, 1s, 2s...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// readLimitedBody reads at most limit bytes
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Dishco/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFoodLookupFailure, err)
	}

	return resp, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// SearchFoods searches for foods in the USDA database
func (c *Client) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	c.debugLog("SearchFoods called with query: %q", query)

	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", "Survey (FNDDS),Foundation,Branded")
	params.Add("pageSize", "10")

	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	// Retry 5xx and 429 up to maxAttempts times
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, exponentialBackoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			log.Printf("[USDA] Rate limiter error: %v", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[USDA] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			if ctx.Err() != nil {
				return nil, err
			}
			continue
		}

		body, readErr := readLimitedBody(resp.Body, maxBodyLen)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%w: read body: %v", domain.ErrFoodLookupFailure, readErr)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			snippet := body
			if len(snippet) > maxErrorBodyLen {
				snippet = snippet[:maxErrorBodyLen]
			}
			log.Printf("[USDA] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(snippet))

			if resp.StatusCode == http.StatusNotFound {
				return nil, domain.ErrFoodNotFound
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrFoodLookupFailure, resp.StatusCode)
			if !retryable(resp.StatusCode) {
				return nil, lastErr
			}
			continue
		}

		var searchResp domain.USDASearchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			log.Printf("[USDA] JSON decode error: %v", err)
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if len(searchResp.Foods) == 0 {
			c.debugLog("No foods found for query: %q", query)
			return nil, domain.ErrFoodNotFound
		}

		c.debugLog("Found %d foods for query: %q", len(searchResp.Foods), query)
		return &searchResp, nil
	}

	log.Printf("[USDA] All retries failed for query: %q", query)
	return nil, lastErr
}

// GetFoodDetails retrieves detailed nutrition information for a specific food by FDC ID
func (c *Client) GetFoodDetails(ctx context.Context, fdcID string) (*domain.USDAFood, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	params := url.Values{}
	params.Add("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/v1/food/%s?%s", c.baseURL, url.PathEscape(fdcID), params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrFoodNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := readLimitedBody(resp.Body, maxErrorBodyLen)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrFoodLookupFailure, resp.StatusCode, string(body))
	}

	var food domain.USDAFood
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyLen)).Decode(&food); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &food, nil
}
