package placeholder

import (
	"sort"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// Awaitable is implemented by actionbus.Handle, the async action handle the
// executor stores under _async_action. Declared here so this package does
// not import pkg/actionbus.
type Awaitable interface {
	Ready() bool
}

func arrayModifiers() map[string]ModifierFunc {
	return map[string]ModifierFunc{
		// "expand" itself is handled specially by the list processor when
		// it is the final modifier on a whole-element placeholder; as a
		// plain chained modifier on a non-list-element value it is a no-op
		// pass-through so a misplaced |expand never errors.
		"expand": func(cur any, _ string, _ value.Map) any {
			return cur
		},
		"keys": func(cur any, _ string, _ value.Map) any {
			m, ok := cur.(value.Map)
			if !ok {
				return nil
			}
			keys := make(value.List, 0, len(m))
			names := make([]string, 0, len(m))
			for k := range m {
				names = append(names, k)
			}
			sort.Strings(names)
			for _, k := range names {
				keys = append(keys, k)
			}
			return keys
		},
	}
}

func asyncModifiers() map[string]ModifierFunc {
	return map[string]ModifierFunc{
		"ready": func(cur any, _ string, _ value.Map) any {
			h, ok := cur.(Awaitable)
			if !ok {
				return false
			}
			return h.Ready()
		},
		"not_ready": func(cur any, _ string, _ value.Map) any {
			h, ok := cur.(Awaitable)
			if !ok {
				return true
			}
			return !h.Ready()
		},
	}
}

func fallbackModifiers() map[string]ModifierFunc {
	return map[string]ModifierFunc{
		"fallback": func(cur any, arg string, _ value.Map) any {
			if value.IsNullish(cur) {
				return arg
			}
			return cur
		},
	}
}

func defaultModifiers() map[string]ModifierFunc {
	all := map[string]ModifierFunc{}
	for _, family := range []map[string]ModifierFunc{
		arithmeticModifiers(),
		stringModifiers(),
		conditionalModifiers(),
		formattingModifiers(),
		dateMathModifiers(),
		arrayModifiers(),
		asyncModifiers(),
		fallbackModifiers(),
	} {
		for k, v := range family {
			all[k] = v
		}
	}
	return all
}
