package placeholder

import (
	"fmt"
	"strings"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

var formatLayouts = map[string]string{
	"date":          "2006-01-02",
	"time":          "15:04:05",
	"time_full":     "15:04:05.000",
	"datetime":      "2006-01-02 15:04:05",
	"datetime_full": "2006-01-02 15:04:05.000",
	"pg_date":       "2006-01-02",
	"pg_datetime":   "2006-01-02 15:04:05",
}

func formattingModifiers() map[string]ModifierFunc {
	return map[string]ModifierFunc{
		"format": func(cur any, arg string, _ value.Map) any {
			if arg == "timestamp" {
				t, ok := parseDatetimeValue(cur)
				if !ok {
					return cur
				}
				return t.Unix()
			}
			if arg == "currency" {
				f, ok := value.AsFloat(cur)
				if !ok {
					return cur
				}
				return fmt.Sprintf("$%.2f", f)
			}
			if arg == "percent" {
				f, ok := value.AsFloat(cur)
				if !ok {
					return cur
				}
				return fmt.Sprintf("%.0f%%", f*100)
			}
			if arg == "number" {
				f, ok := value.AsFloat(cur)
				if !ok {
					return cur
				}
				return formatThousands(f)
			}
			layout, ok := formatLayouts[arg]
			if !ok {
				return cur
			}
			t, ok := parseDatetimeValue(cur)
			if !ok {
				return cur
			}
			return t.Format(layout)
		},
		"tags": func(cur any, _ string, _ value.Map) any {
			list, ok := cur.(value.List)
			if !ok {
				return cur
			}
			parts := make([]string, len(list))
			for i, item := range list {
				parts[i] = "#" + value.AsString(item)
			}
			return strings.Join(parts, " ")
		},
		"list": func(cur any, _ string, _ value.Map) any {
			list, ok := cur.(value.List)
			if !ok {
				return cur
			}
			parts := make([]string, len(list))
			for i, item := range list {
				parts[i] = "- " + value.AsString(item)
			}
			return strings.Join(parts, "\n")
		},
		"comma": func(cur any, _ string, _ value.Map) any {
			list, ok := cur.(value.List)
			if !ok {
				return cur
			}
			parts := make([]string, len(list))
			for i, item := range list {
				parts[i] = value.AsString(item)
			}
			return strings.Join(parts, ", ")
		},
	}
}

func formatThousands(f float64) string {
	whole := int64(f)
	s := fmt.Sprintf("%d", whole)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)
	out := strings.Join(groups, ",")
	if neg {
		out = "-" + out
	}
	return out
}
