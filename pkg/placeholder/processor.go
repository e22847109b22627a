// Package placeholder implements component D: a recursive template
// substitution engine over the dynamic value tree (pkg/value), supporting
// chained modifiers, nested-placeholder resolution in paths, and type
// preservation when an entire string is exactly one placeholder.
package placeholder

import (
	"strings"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// DefaultMaxNestingDepth bounds recursive placeholder resolution, matching
// the configuration-derived invariant of §6.
const DefaultMaxNestingDepth = 10

// Processor resolves placeholders against a value map, applying a
// configurable set of named modifiers.
type Processor struct {
	MaxNestingDepth int
	modifiers       map[string]ModifierFunc
}

// ModifierFunc transforms the current chain value. event is the full data
// map the placeholder is being resolved against, for modifiers (like the
// async family) that need more than the immediate value.
type ModifierFunc func(current any, arg string, event value.Map) any

// New builds a Processor with the full built-in modifier set wired in.
func New() *Processor {
	p := &Processor{MaxNestingDepth: DefaultMaxNestingDepth}
	p.modifiers = defaultModifiers()
	return p
}

// RegisterModifier adds or overrides a named modifier.
func (p *Processor) RegisterModifier(name string, fn ModifierFunc) {
	if p.modifiers == nil {
		p.modifiers = defaultModifiers()
	}
	p.modifiers[name] = fn
}

// Process resolves placeholders anywhere inside v (a string, map, list, or
// scalar), returning a new value tree. Maps and lists are processed
// recursively, element by element; scalars other than strings pass through
// unchanged.
func (p *Processor) Process(v any, event value.Map) any {
	return p.processValue(v, event, 0)
}

func (p *Processor) processValue(v any, event value.Map, depth int) any {
	switch t := v.(type) {
	case string:
		return p.processString(t, event, depth)
	case value.Map:
		return p.processMap(t, event, depth)
	case value.List:
		return p.processList(t, event, depth)
	default:
		return v
	}
}

func (p *Processor) processMap(m value.Map, event value.Map, depth int) value.Map {
	out := make(value.Map, len(m))
	for k, v := range m {
		out[k] = p.processValue(v, event, depth)
	}
	return out
}

func (p *Processor) processList(l value.List, event value.Map, depth int) value.List {
	out := make(value.List, 0, len(l))
	for _, item := range l {
		if s, ok := item.(string); ok {
			if inner, isExpand, ok2 := entireExpandPlaceholder(s); ok2 {
				resolved := p.resolveChain(inner, event, depth+1)
				if nested, ok3 := resolved.(value.List); ok3 && isExpand {
					for _, sub := range nested {
						if subList, ok4 := sub.(value.List); ok4 {
							out = append(out, subList...)
						} else {
							out = append(out, sub)
						}
					}
					continue
				}
			}
		}
		out = append(out, p.processValue(item, event, depth))
	}
	return out
}

// entireExpandPlaceholder reports whether s is exactly one placeholder
// whose final modifier is |expand, per component D's expand semantics.
func entireExpandPlaceholder(s string) (inner string, isExpand bool, ok bool) {
	if !isEntirePlaceholder(s) {
		return "", false, false
	}
	inner = s[1 : len(s)-1]
	segs := splitChain(inner)
	if len(segs) == 0 {
		return inner, false, true
	}
	last := segs[len(segs)-1]
	name, _ := splitModifier(last)
	return inner, name == "expand", true
}

// processString resolves every placeholder occurring in s. When s is
// exactly one placeholder end-to-end, the native resolved type is
// returned (type preservation); otherwise every placeholder is replaced
// by its string form and the rest of s is left intact. A placeholder that
// resolves to nil is left verbatim in the output.
func (p *Processor) processString(s string, event value.Map, depth int) any {
	if depth >= p.MaxNestingDepth {
		return s
	}
	if isEntirePlaceholder(s) {
		inner := s[1 : len(s)-1]
		result := p.resolveChain(inner, event, depth+1)
		if result == nil {
			return s
		}
		return result
	}
	if !strings.Contains(s, "{") {
		return s
	}

	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '{' {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := matchingBrace(s, i)
		if end < 0 {
			b.WriteString(s[i:])
			break
		}
		chain := s[i+1 : end]
		result := p.resolveChain(chain, event, depth+1)
		if result == nil {
			b.WriteString(s[i : end+1])
		} else {
			b.WriteString(value.AsString(result))
		}
		i = end + 1
	}
	return b.String()
}

// isEntirePlaceholder reports whether s is, start to end, exactly one
// balanced-brace placeholder with nothing outside it.
func isEntirePlaceholder(s string) bool {
	if len(s) < 2 || s[0] != '{' {
		return false
	}
	end := matchingBrace(s, 0)
	return end == len(s)-1
}

// matchingBrace returns the index of the '}' matching the '{' at open, or
// -1 if unbalanced.
func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// resolveChain resolves one placeholder's full `path|mod:arg|...` body.
func (p *Processor) resolveChain(chain string, event value.Map, depth int) any {
	segs := splitChain(chain)
	if len(segs) == 0 {
		return nil
	}

	path := p.expandNestedInPath(segs[0], event, depth)
	cur, ok := value.GetPath(event, path)
	if !ok {
		cur = nil
	}

	for _, seg := range segs[1:] {
		name, arg := splitModifier(seg)
		fn, ok := p.modifiers[name]
		if !ok {
			continue
		}
		cur = fn(cur, arg, event)
	}
	return cur
}

// expandNestedInPath resolves any placeholders nested inside a path
// segment (e.g. "items[{idx}].name") before the path is used for lookup.
func (p *Processor) expandNestedInPath(path string, event value.Map, depth int) string {
	if depth >= p.MaxNestingDepth || !strings.Contains(path, "{") {
		return path
	}
	var b strings.Builder
	i := 0
	for i < len(path) {
		if path[i] != '{' {
			b.WriteByte(path[i])
			i++
			continue
		}
		end := matchingBrace(path, i)
		if end < 0 {
			b.WriteString(path[i:])
			break
		}
		resolved := p.resolveChain(path[i+1:end], event, depth+1)
		b.WriteString(value.AsString(resolved))
		i = end + 1
	}
	return b.String()
}

// splitChain splits a placeholder body on top-level '|' characters,
// ignoring pipes inside single- or double-quoted segments so that string
// literals and regex arguments may contain '|' safely.
func splitChain(s string) []string {
	var segs []string
	var cur strings.Builder
	var quote byte
	braceDepth := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			cur.WriteByte(ch)
			if ch == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
			cur.WriteByte(ch)
		case ch == '{':
			braceDepth++
			cur.WriteByte(ch)
		case ch == '}':
			braceDepth--
			cur.WriteByte(ch)
		case ch == '|' && braceDepth == 0:
			segs = append(segs, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	segs = append(segs, cur.String())
	return segs
}

// splitModifier splits "name:arg" into its parts, and recognises the
// bare arithmetic modifiers (+n, -n, *n, /n, %n) that carry their operator
// and operand in the name itself rather than after a colon.
func splitModifier(seg string) (name, arg string) {
	if len(seg) > 0 && strings.ContainsRune("+-*/%", rune(seg[0])) && len(seg) > 1 && isNumericStart(seg[1]) {
		return string(seg[0]), seg[1:]
	}
	if idx := strings.Index(seg, ":"); idx >= 0 {
		return seg[:idx], seg[idx+1:]
	}
	return seg, ""
}

func isNumericStart(b byte) bool {
	return b == '-' || (b >= '0' && b <= '9')
}
