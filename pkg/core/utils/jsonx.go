// Package utils holds parsing helpers for model output. Providers are
// asked for JSON but routinely wrap it in markdown fences, use single
// quotes, or drop trailing brackets; SmartParse absorbs those defects
// without ever inventing data.
package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// StripFences removes a leading/trailing markdown code fence if present.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i >= 0 {
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// RepairJSON fixes common model JSON defects (unquoted keys, single
// quotes, unclosed brackets, trailing commas, comments).
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// SmartParse decodes model output into target, trying strategies from
// strictest to most lenient: standard JSON, repaired JSON, then Hjson.
// Returns the canonical JSON that decoded successfully.
func SmartParse(raw string, target interface{}) (string, error) {
	input := StripFences(raw)

	if err := json.Unmarshal([]byte(input), target); err == nil {
		return input, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), target); err == nil {
			return repaired, nil
		}
	}

	var loose interface{}
	if err := hjson.Unmarshal([]byte(input), &loose); err == nil {
		if b, err := json.Marshal(loose); err == nil {
			if err := json.Unmarshal(b, target); err == nil {
				return string(b), nil
			}
		}
	}

	return "", fmt.Errorf("output is not parseable as the expected JSON value")
}
