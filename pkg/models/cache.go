package models

import (
	"fmt"
	"strings"
	"time"
)

// CacheKey is the pair (platform, ticket_id) every cache variant is
// keyed by.
type CacheKey struct {
	Platform PlatformTag
	TicketID string
}

// String renders the canonical form PLATFORMNAME:<percent-encoded-id>,
// percent-encoding every byte of TicketID — the cache key treats no
// character as "safe" to leave unescaped, unlike net/url's
// QueryEscape which exempts the RFC 3986 unreserved set.
func (k CacheKey) String() string {
	return k.Platform.String() + ":" + percentEncodeAll(k.TicketID)
}

const upperhex = "0123456789ABCDEF"

func percentEncodeAll(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

// CacheEntry wraps a Ticket with its cache bookkeeping: when it was
// cached, when it expires, and an optional opaque validator tag
// reserved for future conditional-request support.
type CacheEntry struct {
	Ticket        *Ticket
	CachedAt      time.Time
	ExpiresAt     time.Time
	ValidatorTag  string
}

// IsExpired reports whether the entry's TTL has elapsed as of now.
func (e CacheEntry) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// CacheFileName is the on-disk filename a FileCache entry uses:
// PLATFORM_<sha256(id)[:32]>.json.
func CacheFileName(key CacheKey, hexDigest32 string) string {
	return fmt.Sprintf("%s_%s.json", key.Platform.String(), hexDigest32)
}
