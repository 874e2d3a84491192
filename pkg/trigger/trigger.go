package trigger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/orientame/onboarding-api/pkg/httpclient"
	"github.com/orientame/onboarding-api/pkg/logger"
	"github.com/orientame/onboarding-api/pkg/metrics"
	"github.com/orientame/onboarding-api/pkg/retry"
	"go.uber.org/zap"
)

// asyncTimeout bounds a background trigger call including its retries
const asyncTimeout = 30 * time.Second

// Call performs a GET on triggerURL with recordID appended, retrying
// transport errors and 5xx responses. A 4xx response is not retried.
func Call(ctx context.Context, triggerURL, recordID string, httpClient httpclient.Client, config retry.Config) error {
	targetURL := triggerURL + url.QueryEscape(recordID)

	err := retry.Do(ctx, config, "trigger", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, http.NoBody)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to build trigger request: %w", err))
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("trigger request failed: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("trigger returned status %d", resp.StatusCode)
		default:
			return retry.Permanent(fmt.Errorf("trigger returned status %d", resp.StatusCode))
		}
	})

	if err != nil {
		metrics.TriggerCalls.WithLabelValues("error").Inc()
		logger.Error("Failed to call trigger URL",
			zap.Error(err),
			zap.String("url", triggerURL),
			zap.String("record_id", recordID))
		return err
	}

	metrics.TriggerCalls.WithLabelValues("success").Inc()
	logger.Info("Trigger URL called successfully",
		zap.String("url", triggerURL),
		zap.String("record_id", recordID))
	return nil
}

// CallAsync calls a trigger URL in the background. Failures are logged but
// don't block the operation. An empty triggerURL is a no-op.
func CallAsync(triggerURL, recordID string, httpClient httpclient.Client) {
	if triggerURL == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()
		_ = Call(ctx, triggerURL, recordID, httpClient, retry.TriggerConfig()) //nolint:errcheck // logged in Call
	}()
}
