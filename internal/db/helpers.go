package db

import (
	"database/sql"
	"encoding/json"
)

func marshalStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return string(data)
}

func unmarshalStrings(raw string) []string {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil || values == nil {
		return []string{}
	}
	return values
}

func marshalDetails(details map[string]string) string {
	if details == nil {
		details = map[string]string{}
	}
	data, _ := json.Marshal(details)
	return string(data)
}

func unmarshalDetails(raw string) map[string]string {
	details := map[string]string{}
	_ = json.Unmarshal([]byte(raw), &details)
	return details
}

func dedupeStrings(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func nullableValue[T any](value *T) any {
	if value == nil {
		return nil
	}
	return *value
}

// likePattern escapes LIKE metacharacters in a user query and wraps it for
// substring matching. Callers pass ESCAPE '\' alongside it.
func likePattern(query string) string {
	escaped := make([]byte, 0, len(query)+8)
	for i := 0; i < len(query); i++ {
		c := query[i]
		if c == '%' || c == '_' || c == '\\' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, c)
	}
	return "%" + string(escaped) + "%"
}
