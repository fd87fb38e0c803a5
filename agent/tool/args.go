package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Tool-call arguments arrive as decoded JSON and are not trusted to be
// well-typed; everything is checked here before it reaches a backend.

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s must not be empty", key)
	}
	return value, nil
}

func intArg(args map[string]any, key string) (int64, error) {
	raw, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch value := raw.(type) {
	case float64:
		if value != math.Trunc(value) {
			return 0, fmt.Errorf("%s must be a whole number", key)
		}
		// int64 conversion is unspecified outside this range; the upper
		// bound is strict because float64(MaxInt64) rounds to 2^63.
		if value < math.MinInt64 || value >= math.MaxInt64 {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int64(value), nil
	case int:
		return int64(value), nil
	case int64:
		return value, nil
	case json.Number:
		n, err := value.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number", key)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}

func optionalIntArg(args map[string]any, key string, fallback int64) (int64, error) {
	if _, ok := args[key]; !ok {
		return fallback, nil
	}
	return intArg(args, key)
}
