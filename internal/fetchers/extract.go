package fetchers

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/amiad5298/ingot/internal/ticketerrors"
)

var (
	fencedJSONBlock = regexp.MustCompile("(?s)```json\\s*\\n(.*?)```")
	fencedAnyBlock  = regexp.MustCompile("(?s)```\\w*\\s*\\n(.*?)```")
)

// ExtractJSON pulls a JSON object out of an AI agent's free-form reply,
// trying progressively looser strategies until one decodes cleanly:
//
//  1. a ```json fenced code block (the agent followed instructions)
//  2. any other fenced code block (the agent forgot the "json" tag)
//  3. the first balanced {...} substring in the whole reply (the agent
//     wrote prose around inline JSON, or skipped fencing entirely)
//
// Every strategy that fails to decode falls through to the next one
// rather than returning its parse error; only exhausting all three
// yields an AgentResponseParse error.
func ExtractJSON(platform, reply string) (map[string]any, error) {
	for _, candidate := range candidates(reply) {
		var out map[string]any
		if err := json.Unmarshal([]byte(candidate), &out); err == nil {
			return out, nil
		}
	}
	return nil, ticketerrors.NewAgentResponseParse(platform, "no well-formed JSON object found in agent reply")
}

func candidates(reply string) []string {
	var out []string
	if m := fencedJSONBlock.FindStringSubmatch(reply); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if m := fencedAnyBlock.FindStringSubmatch(reply); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if obj, ok := firstBalancedObject(reply); ok {
		out = append(out, obj)
	}
	return out
}

// firstBalancedObject scans for the first top-level {...} substring
// with balanced braces, correctly skipping braces inside string
// literals (including escaped quotes) so a title like "Use {braces}"
// does not truncate the match early.
func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
