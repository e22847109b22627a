package placeholder

import (
	"strconv"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// arithmeticModifiers implements the +n/-n/*n/%n family. Results that
// come out whole are returned as int64 so downstream JSON/templating does
// not pick up a spurious ".0".
func arithmeticModifiers() map[string]ModifierFunc {
	apply := func(op byte) ModifierFunc {
		return func(cur any, arg string, _ value.Map) any {
			base, ok := value.AsFloat(cur)
			if !ok {
				return cur
			}
			n, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return cur
			}
			var result float64
			switch op {
			case '+':
				result = base + n
			case '-':
				result = base - n
			case '*':
				result = base * n
			case '/':
				if n == 0 {
					return cur
				}
				result = base / n
			case '%':
				if n == 0 {
					return cur
				}
				result = float64(int64(base) % int64(n))
			}
			if value.IsWhole(result) {
				return int64(result)
			}
			return result
		}
	}
	return map[string]ModifierFunc{
		"+": apply('+'),
		"-": apply('-'),
		"*": apply('*'),
		"/": apply('/'),
		"%": apply('%'),
	}
}
