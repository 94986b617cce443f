package schema

import "time"

type defaultRule func(now time.Time) map[string]any

var defaultRules = map[string]defaultRule{
	"notices": func(now time.Time) map[string]any {
		return map[string]any{
			"type":      "info",
			"is_active": 1,
			"date":      now.UTC().Format(time.RFC3339),
		}
	},
	"weekly_schedules": func(time.Time) map[string]any {
		return map[string]any{
			"day_of_week": "monday",
			"start_time":  "08:00",
			"activity":    "Treino",
			"duration":    60,
			"capacity":    10,
			"color":       "#3b82f6",
		}
	},
	"maintenance_requests": func(time.Time) map[string]any {
		return map[string]any{"status": "open"}
	},
	"posts": func(time.Time) map[string]any {
		return map[string]any{"likes": 0}
	},
	"condominiums": func(time.Time) map[string]any {
		return map[string]any{"areas": "[]", "is_active": 1}
	},
}

// DefaultsFor returns the fallback values for columns absent from payload.
// A key present in payload, even with a nil value, suppresses its default.
func DefaultsFor(table string, payload map[string]any, now time.Time) map[string]any {
	rule, ok := defaultRules[table]
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any)
	for column, value := range rule(now) {
		if _, present := payload[column]; present {
			continue
		}
		out[column] = value
	}
	return out
}
