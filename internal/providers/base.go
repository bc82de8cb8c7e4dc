package providers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SafeNestedGet walks a dot-separated path ("fields.status.name")
// through nested map[string]any values, tolerating nil, scalar, or
// wrong-shaped intermediates by returning def instead of panicking —
// the shared defensive-read utility every provider's Normalize uses.
// This resolves SPEC_FULL.md §9's open question in favor of a single
// implementation (no per-provider variant).
func SafeNestedGet(obj map[string]any, path string, def any) any {
	if obj == nil {
		return def
	}
	keys := strings.Split(path, ".")
	var cur any = obj
	for i, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		v, present := m[k]
		if !present {
			return def
		}
		if i == len(keys)-1 {
			if v == nil {
				return def
			}
			return v
		}
		cur = v
	}
	return def
}

// SafeNestedGetString is SafeNestedGet with "always string-coerce"
// semantics: a non-string leaf (number, bool, nested structure) is
// rendered with fmt.Sprint rather than discarded, per the base
// provider's resolved behavior.
func SafeNestedGetString(obj map[string]any, path string, def string) string {
	v := SafeNestedGet(obj, path, nil)
	if v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// isoNoColonOffset matches a trailing "+hhmm"/"-hhmm" offset written
// without a colon, so it can be rewritten to the RFC 3339 "+hh:mm" form.
var isoNoColonOffset = regexp.MustCompile(`([+-]\d{2})(\d{2})$`)

// ParseISOTimestamp parses an ISO-8601 timestamp accepting a literal
// "Z" suffix or a "+hhmm"/"-hhmm" offset without a colon, in addition
// to the formats time.Parse(time.RFC3339, ...) already accepts. A
// parse failure yields (nil, false) rather than an error — callers
// treat that as "timestamp absent".
func ParseISOTimestamp(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	candidates := []string{s}
	if isoNoColonOffset.MatchString(s) {
		candidates = append(candidates, isoNoColonOffset.ReplaceAllString(s, "$1:$2"))
	}
	formats := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999999Z0700", "2006-01-02T15:04:05Z0700"}
	for _, c := range candidates {
		for _, f := range formats {
			if t, err := time.Parse(f, c); err == nil {
				utc := t.UTC()
				return &utc, true
			}
		}
	}
	return nil, false
}

// DedupeLabels trims and deduplicates labels by value, dropping
// whitespace-only entries, preserving first-seen order.
func DedupeLabels(raw []any) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			s = fmt.Sprint(r)
		}
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// ParseIntLoose parses s as an int after trimming surrounding whitespace
// and a single leading "#". Returns 0, false on failure.
func ParseIntLoose(s string) (int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
