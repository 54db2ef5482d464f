// Copyright (c) 2025 CiscoDevNet All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"encoding/json"
	"fmt"
	"strings"
)

// normalizeTargets turns a single-or-list tool argument into an ordered
// slice of non-empty strings. Accepted shapes:
//
//   - a plain string ("router-1")
//   - a JSON array literal passed as a string (`["router-1","router-2"]`)
//   - a native JSON array from the client ([]any of strings)
//
// Order is preserved and surrounding whitespace is trimmed. An empty
// result or a non-string element is an error naming the offending field.
func normalizeTargets(raw any, field string) ([]string, error) {
	var values []string

	switch v := raw.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "[") {
			var parsed []string
			if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
				return nil, fmt.Errorf("%s: invalid JSON array: %w", field, err)
			}
			values = parsed
		} else if trimmed != "" {
			values = []string{trimmed}
		}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: list elements must be strings, got %T", field, item)
			}
			values = append(values, s)
		}
	case nil:
		return nil, fmt.Errorf("%s parameter required", field)
	default:
		return nil, fmt.Errorf("%s: expected a string or a list of strings, got %T", field, raw)
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s parameter required", field)
	}
	return out, nil
}

// truncateRaw caps raw terminal output at maxLines and appends a trailing
// truncation note. maxLines <= 0 means unlimited.
func truncateRaw(output string, maxLines int) string {
	if maxLines <= 0 {
		return output
	}
	lines := strings.Split(output, "\n")
	if len(lines) <= maxLines {
		return output
	}
	kept := strings.Join(lines[:maxLines], "\n")
	return kept + fmt.Sprintf("\n[Truncated: %d of %d lines shown]", maxLines, len(lines))
}

// truncateStructured caps structured command output at maxLines, prepending
// an omission note when truncation occurs. It reports whether truncation
// happened along with the total and displayed line counts so callers can
// surface them in the result record. maxLines <= 0 means unlimited.
func truncateStructured(output string, maxLines int) (string, bool, int, int) {
	lines := strings.Split(output, "\n")
	total := len(lines)
	if maxLines <= 0 || total <= maxLines {
		return output, false, total, total
	}
	kept := strings.Join(lines[:maxLines], "\n")
	note := fmt.Sprintf("[OUTPUT TRUNCATED: %d lines omitted, showing first %d of %d lines]",
		total-maxLines, maxLines, total)
	return note + "\n" + kept, true, total, maxLines
}
