package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/onfuse/planner/internal/model"
)

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseDateFlag parses an ISO date flag value, treating the empty string as
// unset.
func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := model.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected %s", value, model.DateLayout)
	}
	return &d, nil
}

// parseFilterFlags converts repeated field=value flags into a filter map.
func parseFilterFlags(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid filter %q: expected field=value", pair)
		}
		filters[field] = coerceFilterValue(value)
	}
	return filters, nil
}

// coerceFilterValue maps a flag value onto the JSON type stored in the
// record fields, so filters on numeric and boolean fields match. Quoting
// the value keeps it a string: --block-filter 'code="16"'.
func coerceFilterValue(value string) any {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}
