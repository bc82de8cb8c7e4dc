// Package detector classifies a free-form ticket reference string to
// the platform tag most likely to own it, by shape alone — it never
// inspects network or platform content.
package detector

import (
	"regexp"
	"strings"

	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

// MatchKind distinguishes a URL match from a bare-id match.
type MatchKind string

const (
	MatchURL MatchKind = "url"
	MatchID  MatchKind = "id"
)

// rule is one platform's detection patterns. URL patterns are tried
// first across all platforms (declared order), then ID patterns —
// this is the detector's two-tier priority policy.
type rule struct {
	platform    models.PlatformTag
	urlPatterns []*regexp.Regexp
	idPattern   *regexp.Regexp
}

// Detector holds the ordered, declared set of platform detection
// rules. It is stateless and safe to share across goroutines.
type Detector struct {
	rules []rule
}

// New builds the Detector with the default, spec-declared pattern
// set. Declaration order matters: it is the tie-break for platforms
// whose patterns could otherwise claim the same string.
func New() *Detector {
	return &Detector{
		rules: []rule{
			{
				platform: models.PlatformJira,
				urlPatterns: []*regexp.Regexp{
					regexp.MustCompile(`^https://[a-zA-Z0-9.-]+\.atlassian\.net/browse/([A-Z][A-Z0-9]*-\d+)$`),
				},
				idPattern: regexp.MustCompile(`^[A-Z][A-Z0-9]*-\d+$`),
			},
			{
				platform: models.PlatformGitHub,
				urlPatterns: []*regexp.Regexp{
					regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/issues/(\d+)$`),
					regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/pull/(\d+)$`),
				},
				idPattern: regexp.MustCompile(`^([^/]+/[^/]+#\d+|#\d+)$`),
			},
			{
				platform: models.PlatformLinear,
				urlPatterns: []*regexp.Regexp{
					regexp.MustCompile(`^https://linear\.app/[a-zA-Z0-9-]+/issue/([A-Z][A-Z0-9]*-\d+)`),
				},
				idPattern: regexp.MustCompile(`^[A-Z][A-Z0-9]*-\d+$`),
			},
			{
				platform: models.PlatformAzureDevOps,
				urlPatterns: []*regexp.Regexp{
					regexp.MustCompile(`^https://dev\.azure\.com/([^/]+)/([^/]+)/_workitems/edit/(\d+)`),
					regexp.MustCompile(`^https://[a-zA-Z0-9-]+\.visualstudio\.com/([^/]+)/_workitems/edit/(\d+)`),
				},
				idPattern: regexp.MustCompile(`^AB#\d+$`),
			},
			{
				platform: models.PlatformMonday,
				urlPatterns: []*regexp.Regexp{
					regexp.MustCompile(`^https://([a-zA-Z0-9-]+)\.monday\.com/boards/(\d+)/pulses/(\d+)$`),
				},
				idPattern: nil, // Monday is URL-only per SPEC_FULL.md §4.3
			},
			{
				platform: models.PlatformTrello,
				urlPatterns: []*regexp.Regexp{
					regexp.MustCompile(`^https://trello\.com/c/([A-Za-z0-9]{8})`),
				},
				idPattern: regexp.MustCompile(`^[A-Za-z0-9]{8}$`),
			},
		},
	}
}

// Detect classifies input, trimming surrounding whitespace first.
// URL patterns are checked in declared order across all platforms
// before any ID pattern is tried; ID patterns must match the whole
// (trimmed) string. Returns UnsupportedInput if nothing matches.
func (d *Detector) Detect(input string) (models.PlatformTag, MatchKind, error) {
	trimmed := strings.TrimSpace(input)

	for _, r := range d.rules {
		for _, pat := range r.urlPatterns {
			if pat.MatchString(trimmed) {
				return r.platform, MatchURL, nil
			}
		}
	}

	for _, r := range d.rules {
		if r.idPattern != nil && r.idPattern.MatchString(trimmed) {
			return r.platform, MatchID, nil
		}
	}

	known := models.SortedPlatformNames(d.KnownPlatforms())
	return "", "", ticketerrors.NewUnsupportedInput(trimmed, known)
}

// KnownPlatforms returns the platforms the detector has rules for, in
// declaration order.
func (d *Detector) KnownPlatforms() []models.PlatformTag {
	out := make([]models.PlatformTag, 0, len(d.rules))
	for _, r := range d.rules {
		out = append(out, r.platform)
	}
	return out
}
