package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

func TestProcess_NoPlaceholdersReturnsInputUnchanged(t *testing.T) {
	p := New()
	out := p.Process("plain text", value.Map{})
	assert.Equal(t, "plain text", out)
}

func TestProcess_TypePreservationForEntirePlaceholder(t *testing.T) {
	p := New()
	data := value.Map{"count": 3.0}
	out := p.Process("{count}", data)
	assert.Equal(t, 3.0, out)
}

func TestProcess_EmbeddedPlaceholderCoercesToString(t *testing.T) {
	p := New()
	data := value.Map{"system": value.Map{"tenant_id": 1.0}}
	out := p.Process("pong from {system.tenant_id}", data)
	assert.Equal(t, "pong from 1", out)
}

func TestProcess_UnresolvedPlaceholderLeftVerbatim(t *testing.T) {
	p := New()
	out := p.Process("hello {missing.path}", value.Map{})
	assert.Equal(t, "hello {missing.path}", out)
}

func TestProcess_ChainedModifiers(t *testing.T) {
	p := New()
	data := value.Map{"name": "ada lovelace"}
	assert.Equal(t, "ADA LOVELACE", p.Process("{name|upper}", data))
	assert.Equal(t, "Ada Lovelace", p.Process("{name|title}", data))
}

func TestProcess_ArithmeticModifierPreservesIntegerWhenWhole(t *testing.T) {
	p := New()
	out := p.Process("{count|+5}", value.Map{"count": 10.0})
	assert.Equal(t, int64(15), out)
}

func TestProcess_FallbackDoesNotTriggerOnFalseOrZero(t *testing.T) {
	p := New()
	assert.Equal(t, false, p.Process("{flag|fallback:default}", value.Map{"flag": false}))
	assert.Equal(t, int64(0), p.Process("{zero|fallback:default}", value.Map{"zero": int64(0)}))
	assert.Equal(t, "default", p.Process("{missing|fallback:default}", value.Map{}))
}

func TestProcess_ValueModifierFallsThroughToFallbackWhenFalsy(t *testing.T) {
	p := New()
	data := value.Map{"status": "active"}
	out := p.Process("{status|equals:active|value:Активен|fallback:Неактивен}", data)
	assert.Equal(t, "Активен", out)

	data["status"] = "inactive"
	out = p.Process("{status|equals:active|value:Активен|fallback:Неактивен}", data)
	assert.Equal(t, "Неактивен", out)
}

func TestProcess_TruncateAppendsEllipsisWhenShortened(t *testing.T) {
	p := New()
	out := p.Process("{text|truncate:10}", value.Map{"text": "hello world"})
	assert.Equal(t, "hello w...", out)

	out = p.Process("{text|truncate:20}", value.Map{"text": "hello"})
	assert.Equal(t, "hello", out)
}

func TestProcess_RegexReturnsEmptyStringOnNoMatch(t *testing.T) {
	p := New()
	out := p.Process("{text|regex:\\d+}", value.Map{"text": "no digits here"})
	assert.Equal(t, "", out)
}

func TestProcess_NestedPlaceholderInPath(t *testing.T) {
	p := New()
	data := value.Map{
		"idx":   0.0,
		"items": value.List{"first", "second"},
	}
	out := p.Process("{items[{idx}]}", data)
	assert.Equal(t, "first", out)
}

func TestProcess_ExpandFlattensListOfListsOnSoleElement(t *testing.T) {
	p := New()
	data := value.Map{"groups": value.List{
		value.List{"a", "b"},
		value.List{"c"},
	}}
	out := p.Process(value.List{"{groups|expand}"}, data)
	list, ok := out.(value.List)
	assert.True(t, ok)
	assert.Equal(t, value.List{"a", "b", "c"}, list)
}

func TestProcess_InListAndEquals(t *testing.T) {
	p := New()
	assert.Equal(t, true, p.Process("{status|in_list:open,pending}", value.Map{"status": "open"}))
	assert.Equal(t, false, p.Process("{status|equals:closed}", value.Map{"status": "open"}))
}

func TestProcess_ShiftIsCalendarAwareForMonths(t *testing.T) {
	p := New()
	out := p.Process("{ts|shift:+1 month|format:date}", value.Map{"ts": "2024-01-31"})
	assert.Equal(t, "2024-02-29", out) // leap year, calendar-aware month shift
}

func TestProcess_MaxNestingDepthStopsRecursion(t *testing.T) {
	p := New()
	p.MaxNestingDepth = 1
	data := value.Map{"idx": 0.0, "items": value.List{"first"}}
	out := p.Process("{items[{idx}]}", data)
	// depth exceeded before the inner {idx} placeholder could resolve, so
	// the literal path is used (and fails to resolve), leaving the
	// original template text intact.
	assert.Equal(t, "{items[{idx}]}", out)
}
