package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/FrenchMajesty/pr-monitor/internal/retry"
)

// isRetryableError determines if an error should trigger a retry
func (c *OpenAIClient) isRetryableError(err error, statusCode int, _ []byte) bool {
	// Retry on server errors (5xx)
	if statusCode >= 500 {
		return true
	}

	// Retry on rate limiting (429)
	if statusCode == 429 {
		return true
	}

	// Retry on network errors; API errors carry a status code and were
	// handled above.
	if err != nil && statusCode == 0 {
		return true
	}

	return false
}

// createAndRunRetryableRequest executes an HTTP request with retry logic
func (c *OpenAIClient) createAndRunRetryableRequest(ctx context.Context, url string, requestBody any, apiName string) ([]byte, error) {
	opts := retry.Options{
		Config:       c.RetryConfig,
		ErrorChecker: c.isRetryableError,
		Logger:       log.Printf,
		APIName:      "OpenAI " + apiName,
	}

	return retry.Execute(ctx, opts, func(attempt int) ([]byte, int, error) {
		body, err := json.Marshal(requestBody)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal %s request: %w", apiName, err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create HTTP request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTPClient.Do(httpReq)
		if err != nil {
			return nil, 0, err
		}
		defer resp.Body.Close()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, resp.StatusCode, fmt.Errorf("failed to read %s response body: %w", apiName, err)
		}

		if resp.StatusCode != http.StatusOK {
			return bodyBytes, resp.StatusCode, &APIError{
				Message:    fmt.Sprintf("openai %s API error %d", apiName, resp.StatusCode),
				StatusCode: resp.StatusCode,
				RawBody:    json.RawMessage(bodyBytes),
			}
		}

		return bodyBytes, resp.StatusCode, nil
	})
}
