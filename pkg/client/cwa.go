package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cwaproxy/internal/models"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const forecastDataset = "F-C0032-001"

// ErrUpstreamUnreachable means the outbound call produced no response at
// all (connect failure, timeout, DNS) or the circuit breaker is open.
var ErrUpstreamUnreachable = errors.New("upstream weather service unreachable")

// UpstreamError carries a non-2xx response from the CWA API. The status
// code is forwarded verbatim to the caller.
type UpstreamError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d: %s", e.StatusCode, e.Message)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CWAClient fetches the 36-hour forecast dataset from the CWA open-data
// API. One outbound GET per call, no retries.
type CWAClient struct {
	client         HTTPClient
	logger         *zap.Logger
	circuitBreaker *gobreaker.CircuitBreaker
	baseURL        string
	apiKey         string
}

func NewCWAClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *CWAClient {
	breakerSettings := gobreaker.Settings{
		Name:        "cwa",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("client", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &CWAClient{
		client:         &http.Client{Timeout: timeout},
		logger:         logger,
		circuitBreaker: gobreaker.NewCircuitBreaker(breakerSettings),
		baseURL:        baseURL,
		apiKey:         apiKey,
	}
}

// GetForecast36h fetches the forecast document for one canonical location
// name. Upstream HTTP errors come back as *UpstreamError; transport
// failures and an open breaker come back as ErrUpstreamUnreachable.
func (c *CWAClient) GetForecast36h(ctx context.Context, locationName string) (*models.CWAResponse, error) {
	query := url.Values{}
	query.Set("Authorization", c.apiKey)
	query.Set("locationName", locationName)
	requestURL := fmt.Sprintf("%s/%s?%s", c.baseURL, forecastDataset, query.Encode())

	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doGet(ctx, requestURL)
	})
	if err != nil {
		var upstreamErr *UpstreamError
		if errors.As(err, &upstreamErr) {
			return nil, err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("Circuit breaker rejected upstream call",
				zap.String("location", locationName))
			return nil, ErrUpstreamUnreachable
		}
		return nil, err
	}

	return result.(*models.CWAResponse), nil
}

func (c *CWAClient) doGet(ctx context.Context, requestURL string) (*models.CWAResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("HTTP request failed", zap.Error(err))
		return nil, ErrUpstreamUnreachable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrUpstreamUnreachable
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := "Upstream weather service error"
		var errBody models.CWAErrorBody
		if json.Unmarshal(body, &errBody) == nil && errBody.Message != "" {
			message = errBody.Message
		}
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Body:       string(body),
		}
	}

	var response models.CWAResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &response, nil
}
