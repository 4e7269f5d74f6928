package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kasi-noc/incident-tickets/internal/domain"
)

// stringValue renders a decoded payload value as column text. nil is empty.
func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case []string:
		return strings.Join(val, domain.ListSeparator)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, stringValue(item))
		}
		return strings.Join(parts, domain.ListSeparator)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

// flagValue normalizes a boolean-like input to Yes or No.
func flagValue(v any) string {
	if truthy(v) {
		return domain.FlagYes
	}
	return domain.FlagNo
}

func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "yes", "y", "true", "1", "on":
			return true
		}
	}
	return false
}

// columnValue normalizes one payload value for the named column.
func columnValue(name string, v any) string {
	switch name {
	case domain.FieldPostReview, domain.FieldSLABreach:
		return flagValue(v)
	default:
		return stringValue(v)
	}
}
