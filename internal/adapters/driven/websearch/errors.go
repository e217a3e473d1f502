package websearch

import (
	"fmt"
	"net/http"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

// providerError maps a non-OK provider response onto domain error
// categories so the fallback chain can log them uniformly.
func providerError(provider string, status int, detail string) error {
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%s error (status %d): %s: %w", provider, status, detail, domain.ErrRateLimited)
	}
	return fmt.Errorf("%s error (status %d): %s: %w", provider, status, detail, domain.ErrProviderFailure)
}
