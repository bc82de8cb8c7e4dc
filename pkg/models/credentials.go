package models

// Credentials is a frozen per-platform mapping from canonical
// credential keys (e.g. Jira: url/email/token; Azure DevOps:
// organization/pat) to their values, plus whether the platform is
// configured at all and an actionable error message to show when it
// is not.
type Credentials struct {
	Platform      PlatformTag
	Values        map[string]string
	IsConfigured  bool
	ErrorMessage  string
}

// Get returns the value for a canonical credential key, or "" if
// absent. Credentials consumed by a Handler flow only into outbound
// HTTP requests — never into logs.
func (c Credentials) Get(key string) string {
	if c.Values == nil {
		return ""
	}
	return c.Values[key]
}

// RateLimitConfig describes the retry policy the (out-of-scope)
// workflow layer applies around backend subprocess calls. The core
// itself never retries, and no handler consults RetryableStatusCodes:
// every non-2xx platform response becomes the same PlatformApi error
// (404 aside, which is PlatformNotFound).
type RateLimitConfig struct {
	MaxRetries           int
	BaseDelaySeconds     float64
	MaxDelaySeconds      float64
	JitterFactor         float64
	RetryableStatusCodes []int
}

// DefaultRateLimitConfig mirrors common provider guidance: retry on
// 429 and 5xx, back off exponentially starting at half a second.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRetries:           3,
		BaseDelaySeconds:     0.5,
		MaxDelaySeconds:      8,
		JitterFactor:         0.2,
		RetryableStatusCodes: []int{429, 500, 502, 503, 504},
	}
}

// IsRetryableStatus reports whether status is in the configured set.
func (c RateLimitConfig) IsRetryableStatus(status int) bool {
	for _, s := range c.RetryableStatusCodes {
		if s == status {
			return true
		}
	}
	return false
}
