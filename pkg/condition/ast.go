package condition

import (
	"regexp"
	"strconv"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// Predicate is the compiled, AST-walking form of a condition. It never
// panics at evaluation time: every internal failure degrades to false,
// per the no-throw contract of component B.
type Predicate func(event value.Map) bool

// operand resolves to a dynamic value given the current event.
type operand interface {
	resolve(event value.Map) any
}

type fieldOperand struct{ path string }

func (f fieldOperand) resolve(event value.Map) any {
	v, ok := value.GetPath(event, f.path)
	if !ok {
		return nil
	}
	return v
}

type literalOperand struct{ v any }

func (l literalOperand) resolve(value.Map) any { return l.v }

type listOperand struct{ items []operand }

func (l listOperand) resolve(event value.Map) any {
	out := make(value.List, len(l.items))
	for i, it := range l.items {
		out[i] = it.resolve(event)
	}
	return out
}

// exprNode is a boolean-valued AST node.
type exprNode interface {
	eval(event value.Map) bool
}

type andNode struct{ left, right exprNode }

func (n andNode) eval(e value.Map) bool { return n.left.eval(e) && n.right.eval(e) }

type orNode struct{ left, right exprNode }

func (n orNode) eval(e value.Map) bool { return n.left.eval(e) || n.right.eval(e) }

type notNode struct{ inner exprNode }

func (n notNode) eval(e value.Map) bool { return !n.inner.eval(e) }

// comparisonNode applies a single binary or unary comparison operator.
type comparisonNode struct {
	op  string
	lhs operand
	rhs operand // nil for unary operators (is_null, not is_null)
}

func (n comparisonNode) eval(event value.Map) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			result = false
		}
	}()

	lv := n.lhs.resolve(event)

	switch n.op {
	case "is_null":
		return value.IsNullish(lv)
	case "not is_null":
		return !value.IsNullish(lv)
	}

	rv := n.rhs.resolve(event)

	switch n.op {
	case "==":
		if lv == nil || rv == nil {
			return lv == nil && rv == nil
		}
		return value.Equal(lv, rv)
	case "!=":
		if lv == nil || rv == nil {
			return !(lv == nil && rv == nil)
		}
		return !value.Equal(lv, rv)
	case ">", "<", ">=", "<=":
		lf, lok := value.AsFloat(lv)
		rf, rok := value.AsFloat(rv)
		if !lok || !rok {
			return false
		}
		switch n.op {
		case ">":
			return lf > rf
		case "<":
			return lf < rf
		case ">=":
			return lf >= rf
		default:
			return lf <= rf
		}
	case "~":
		return containsSubstring(lv, rv)
	case "!~":
		return !containsSubstring(lv, rv)
	case "in":
		return inList(lv, rv)
	case "not in":
		return !inList(lv, rv)
	case "regex":
		re, err := regexp.Compile(value.AsString(rv))
		if err != nil {
			return false
		}
		return re.MatchString(value.AsString(lv))
	default:
		return false
	}
}

func containsSubstring(lhs, rhs any) bool {
	return len(value.AsString(rhs)) > 0 && stringContains(value.AsString(lhs), value.AsString(rhs))
}

func stringContains(s, substr string) bool {
	return len(substr) == 0 || indexOf(s, substr) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func inList(lhs, rhs any) bool {
	list, ok := rhs.(value.List)
	if !ok {
		return false
	}
	for _, item := range list {
		if value.Equal(lhs, item) {
			return true
		}
	}
	return false
}

func parseNumberLiteral(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return float64(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return f
}
