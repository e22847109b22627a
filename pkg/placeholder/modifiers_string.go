package placeholder

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

func stringModifiers() map[string]ModifierFunc {
	return map[string]ModifierFunc{
		"upper": func(cur any, _ string, _ value.Map) any {
			return strings.ToUpper(value.AsString(cur))
		},
		"lower": func(cur any, _ string, _ value.Map) any {
			return strings.ToLower(value.AsString(cur))
		},
		"title": func(cur any, _ string, _ value.Map) any {
			return titleCase(value.AsString(cur))
		},
		"capitalize": func(cur any, _ string, _ value.Map) any {
			s := value.AsString(cur)
			if s == "" {
				return s
			}
			r := []rune(s)
			r[0] = unicode.ToUpper(r[0])
			return string(r)
		},
		"truncate": func(cur any, arg string, _ value.Map) any {
			s := value.AsString(cur)
			r := []rune(s)
			n := parseIntArg(arg, len(r))
			if n < 0 || len(r) <= n {
				return s
			}
			if n <= 3 {
				return string(r[:n])
			}
			return string(r[:n-3]) + "..."
		},
		"length": func(cur any, _ string, _ value.Map) any {
			if list, ok := cur.(value.List); ok {
				return int64(len(list))
			}
			return int64(len([]rune(value.AsString(cur))))
		},
		"case": func(cur any, arg string, event value.Map) any {
			switch arg {
			case "upper":
				return strings.ToUpper(value.AsString(cur))
			case "lower":
				return strings.ToLower(value.AsString(cur))
			case "title":
				return titleCase(value.AsString(cur))
			case "capitalize":
				fn := stringModifiers()["capitalize"]
				return fn(cur, "", event)
			default:
				return cur
			}
		},
		"regex": func(cur any, arg string, _ value.Map) any {
			re, err := regexp.Compile(arg)
			if err != nil {
				return ""
			}
			m := re.FindStringSubmatch(value.AsString(cur))
			if m == nil {
				return ""
			}
			if len(m) > 1 {
				return m[1]
			}
			return m[0]
		},
		"code": func(cur any, _ string, _ value.Map) any {
			if cur == nil {
				return "<code></code>"
			}
			if list, ok := cur.(value.List); ok {
				parts := make([]string, len(list))
				for i, item := range list {
					parts[i] = "<code>" + value.AsString(item) + "</code>"
				}
				return strings.Join(parts, "\n")
			}
			return "<code>" + value.AsString(cur) + "</code>"
		},
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
			for j := 1; j < len(r); j++ {
				r[j] = unicode.ToLower(r[j])
			}
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func parseIntArg(arg string, fallback int) int {
	n := 0
	neg := false
	i := 0
	if len(arg) > 0 && arg[0] == '-' {
		neg = true
		i = 1
	}
	if i >= len(arg) {
		return fallback
	}
	for ; i < len(arg); i++ {
		if arg[i] < '0' || arg[i] > '9' {
			return fallback
		}
		n = n*10 + int(arg[i]-'0')
	}
	if neg {
		n = -n
	}
	return n
}
