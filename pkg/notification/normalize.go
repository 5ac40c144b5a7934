package notification

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Normalize converts an arbitrary-shaped transport payload into a canonical
// Notification. It is a pure function: no I/O, fully deterministic given its
// input, and it never fails - unknown types coerce to TypeInfo, unparsable
// timestamps fall back to the current time, and missing fields get zero
// values.
//
// Field names are resolved case-insensitively with PascalCase preferred over
// camelCase, since upstream serializers disagree on casing (`Id` vs `id`,
// `Title` vs `title`).
func Normalize(raw map[string]any) Notification {
	n := Notification{
		ID:        asInt64(field(raw, "Id", "id", "ID")),
		Title:     asString(field(raw, "Title", "title")),
		Message:   asString(field(raw, "Message", "message")),
		Type:      normalizeType(field(raw, "Type", "type")),
		CreatedAt: asTime(field(raw, "CreatedAt", "createdAt", "created_at")),
		ActionURL: asString(field(raw, "ActionUrl", "actionUrl", "ActionURL", "action_url")),
		Metadata:  field(raw, "Metadata", "metadata"),
	}
	// Arriving notifications are never pre-marked read, regardless of the
	// payload contents.
	n.IsRead = false
	return n
}

// field returns the first value found under the given keys, falling back to
// a case-insensitive scan so unanticipated casings still resolve.
func field(raw map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			return v
		}
	}
	if len(keys) == 0 {
		return nil
	}
	target := strings.ToLower(keys[0])
	for k, v := range raw {
		if strings.ToLower(k) == target {
			return v
		}
	}
	return nil
}

func normalizeType(v any) Type {
	t := Type(strings.ToLower(strings.TrimSpace(asString(v))))
	if !t.Valid() {
		return TypeInfo
	}
	return t
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asInt64 coerces the id field from any numeric shape a JSON decoder may
// produce. Unrecognized shapes yield zero.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0
		}
		return i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return i
	}
	return 0
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	case float64:
		if t > 0 {
			return time.Unix(int64(t), 0)
		}
	case int64:
		if t > 0 {
			return time.Unix(t, 0)
		}
	case json.Number:
		if sec, err := t.Int64(); err == nil && sec > 0 {
			return time.Unix(sec, 0)
		}
	}
	return time.Now()
}
