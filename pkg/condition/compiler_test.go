package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

func TestCompile_EqualityMatch(t *testing.T) {
	c, err := Compile(`$system.tenant_id == 1 and $text == "/ping"`)
	require.NoError(t, err)

	event := value.Map{
		"system": value.Map{"tenant_id": 1.0},
		"text":   "/ping",
	}
	assert.True(t, c.Predicate(event))

	event["text"] = "/pong"
	assert.False(t, c.Predicate(event))
}

func TestCompile_SearchPathFlatEqualityOnly(t *testing.T) {
	c, err := Compile(`$system.tenant_id == 1 and $text == "/ping"`)
	require.NoError(t, err)
	// system.tenant_id is a nested field, so the whole trigger gets an empty
	// search path and is attached at the tree root.
	assert.Equal(t, map[string]string{}, c.SearchPath)
}

func TestCompile_OrDisablesSearchPath(t *testing.T) {
	c, err := Compile(`$a == "x" or $b == "y"`)
	require.NoError(t, err)
	assert.Empty(t, c.SearchPath)
	assert.True(t, c.Predicate(value.Map{"a": "x", "b": "z"}))
	assert.True(t, c.Predicate(value.Map{"a": "q", "b": "y"}))
	assert.False(t, c.Predicate(value.Map{"a": "q", "b": "z"}))
}

func TestCompile_InAndRegexAndNumericCompare(t *testing.T) {
	c, err := Compile(`$status in ["open", "pending"] and $score > 5`)
	require.NoError(t, err)
	assert.True(t, c.Predicate(value.Map{"status": "open", "score": 6.0}))
	assert.False(t, c.Predicate(value.Map{"status": "closed", "score": 6.0}))

	re, err := Compile(`$text regex 'ping$'`)
	require.NoError(t, err)
	assert.True(t, re.Predicate(value.Map{"text": "/ping"}))
	assert.False(t, re.Predicate(value.Map{"text": "/ping/extra"}))
}

func TestCompile_IsNullAndNotIsNull(t *testing.T) {
	c, err := Compile(`$missing is_null`)
	require.NoError(t, err)
	assert.True(t, c.Predicate(value.Map{}))

	c2, err := Compile(`$present not is_null`)
	require.NoError(t, err)
	assert.True(t, c2.Predicate(value.Map{"present": "x"}))
}

func TestCompile_NeverPanicsOnMissingFields(t *testing.T) {
	c, err := Compile(`$a.b.c == "x" and $d[0] == 1`)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		assert.False(t, c.Predicate(value.Map{}))
	})
}

func TestAddAndSearchTree_DedupsDuplicateInsert(t *testing.T) {
	root := NewNode()
	c, err := Compile(`$text == "/ping"`)
	require.NoError(t, err)

	AddToTree(root, 1, c)
	AddToTree(root, 1, c) // duplicate insert must not double the match

	matches := SearchInTree(root, value.Map{"text": "/ping"})
	assert.Equal(t, []int64{1}, matches)
}

func TestAddToTree_DistinctScenariosWithSameConditionBothMatch(t *testing.T) {
	root := NewNode()
	c, err := Compile(`$text == "/ping"`)
	require.NoError(t, err)

	AddToTree(root, 1, c)
	AddToTree(root, 2, c) // same condition, different scenario — both must register

	matches := SearchInTree(root, value.Map{"text": "/ping"})
	assert.ElementsMatch(t, []int64{1, 2}, matches)
}

func TestSearchInTree_RootConditionAlwaysEvaluated(t *testing.T) {
	root := NewNode()
	nested, err := Compile(`$a.b == "x"`) // has a dot, so it lands at root
	require.NoError(t, err)
	AddToTree(root, 42, nested)

	matches := SearchInTree(root, value.Map{"a": value.Map{"b": "x"}})
	assert.Equal(t, []int64{42}, matches)

	matches = SearchInTree(root, value.Map{"a": value.Map{"b": "y"}})
	assert.Empty(t, matches)
}
