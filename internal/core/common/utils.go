package common

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseJSON cleans and unmarshals a JSON string into a type T.
// It handles common LLM quirks: markdown fences, extra prose around the
// object, and mildly malformed JSON (repaired before giving up).
func ParseJSON[T any](response string) (T, error) {
	var zero T
	jsonStr := StripFences(response)

	// Find first '{' and last '}'
	start := -1
	end := -1

	for i, c := range jsonStr {
		if c == '{' {
			start = i
			break
		}
	}
	for i := len(jsonStr) - 1; i >= 0; i-- {
		if c := jsonStr[i]; c == '}' {
			end = i + 1
			break
		}
	}

	if start != -1 && end != -1 && start < end {
		jsonStr = jsonStr[start:end]
	} else if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err == nil {
		return result, nil
	}

	// Last resort: repair malformed output (unquoted keys, trailing commas)
	// before parsing again.
	repaired, repairErr := jsonrepair.JSONRepair(jsonStr)
	if repairErr != nil {
		return zero, fmt.Errorf("failed to repair JSON: %w\nData: %s", repairErr, jsonStr)
	}
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, repaired)
	}

	return result, nil
}

// StripFences removes markdown code fences from an LLM response.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
