// Package common provides shared helpers for MCP tool handlers: argument
// extraction and instrumentation wrappers.
package common

import (
	"fmt"
)

// UserIDArg is the argument name carrying the target account email.
const UserIDArg = "user_id"

// GetUserID extracts the required user_id argument.
func GetUserID(args map[string]interface{}) (string, error) {
	userID, ok := args[UserIDArg].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%s is required", UserIDArg)
	}
	return userID, nil
}

// GetString extracts an optional string argument, returning def when absent.
func GetString(args map[string]interface{}, name, def string) string {
	if v, ok := args[name].(string); ok && v != "" {
		return v
	}
	return def
}

// GetInt extracts an optional integer argument. JSON numbers arrive as
// float64, so both representations are accepted.
func GetInt(args map[string]interface{}, name string, def int64) int64 {
	switch v := args[name].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return def
}

// GetBool extracts an optional boolean argument, returning def when absent.
func GetBool(args map[string]interface{}, name string, def bool) bool {
	if v, ok := args[name].(bool); ok {
		return v
	}
	return def
}

// GetStringSlice extracts an optional array-of-strings argument.
// Non-string elements are ignored.
func GetStringSlice(args map[string]interface{}, name string) []string {
	raw, ok := args[name].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
