// Copyright 2025 Casaseek Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"syscall"
	"time"
)

// RetryWithBackoff retries an operation with exponential backoff.
// maxAttempts: maximum number of attempts (must be > 0)
// baseDelay: base delay between retries (doubles on each retry)
// retryable: predicate deciding whether an error is worth another attempt;
// a nil predicate retries every error.
// Returns the error from the last attempt if all attempts fail, or the
// first non-retryable error immediately.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration, retryable func(error) bool) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil // Success
		}

		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}

		slog.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", maxAttempts, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == maxAttempts {
			break
		}

		// Calculate exponential backoff: baseDelay * 2^(attempt-1)
		delay := baseDelay
		for i := 1; i < attempt; i++ {
			delay *= 2
		}

		// Sleep with context awareness
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// Continue to next attempt
		}
	}

	return lastErr
}

// transientMarkers are substrings of backend error messages that indicate a
// retryable condition. Backend SDKs flatten HTTP status into message text,
// so classification has to work on the rendered error.
var transientMarkers = []string{
	"429",
	"rate limit",
	"too many requests",
	"500",
	"502",
	"503",
	"504",
	"internal server error",
	"bad gateway",
	"service unavailable",
	"gateway timeout",
	"connection refused",
	"connection reset",
	"timeout",
	"timed out",
	"temporarily unavailable",
	"overloaded",
}

// IsTransient reports whether err is worth retrying against the same backend:
// timeouts, refused connections, rate limits and server-side failures.
// Auth failures and other 4xx conditions are not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
