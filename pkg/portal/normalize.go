package portal

import (
	"encoding/json"
	"strings"
)

// DecodeStringList parses a list-valued form field that admin clients
// send either as a JSON-encoded array or as a single bare value.
// Malformed JSON degrades to an empty list rather than failing the
// request; this tolerance is part of the update contract.
func DecodeStringList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return []string{}
		}
		return trimStringList(list)
	}
	return []string{raw}
}

func trimStringList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
