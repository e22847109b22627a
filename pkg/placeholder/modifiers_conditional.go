package placeholder

import (
	"strings"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

func conditionalModifiers() map[string]ModifierFunc {
	return map[string]ModifierFunc{
		"equals": func(cur any, arg string, _ value.Map) any {
			return value.AsString(cur) == arg
		},
		"in_list": func(cur any, arg string, _ value.Map) any {
			for _, item := range strings.Split(arg, ",") {
				if value.AsString(cur) == strings.TrimSpace(item) {
					return true
				}
			}
			return false
		},
		"true": func(cur any, _ string, _ value.Map) any {
			return isTruthy(cur)
		},
		"exists": func(cur any, _ string, _ value.Map) any {
			return cur != nil
		},
		"is_null": func(cur any, _ string, _ value.Map) any {
			return value.IsNullish(cur)
		},
		"value": func(cur any, arg string, _ value.Map) any {
			if isTruthy(cur) {
				return arg
			}
			return ""
		},
	}
}

func isTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "null" && t != "false"
	case float64:
		return t != 0
	case int64:
		return t != 0
	case value.List:
		return len(t) > 0
	case value.Map:
		return len(t) > 0
	default:
		return true
	}
}
