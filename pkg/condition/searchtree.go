package condition

import (
	"sort"
	"strconv"

	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// ConditionEntry is a single compiled trigger attached to a search-tree
// node, carrying enough to both match the owning scenario and to dedup
// re-insertion of the same trigger.
type ConditionEntry struct {
	ScenarioID int64
	Predicate  Predicate
	Hash       string
}

// Node is one level of the nested prefix tree described in component C:
// a list of conditions attached directly at this level, plus a field-name
// keyed fan-out into value-keyed children.
type Node struct {
	Conditions []ConditionEntry
	Children   map[string]map[string]*Node // field -> literal value -> child
	seen       map[string]bool             // hash+scenario dedup guard for this node
}

// NewNode returns an empty search-tree node.
func NewNode() *Node {
	return &Node{
		Children: make(map[string]map[string]*Node),
		seen:     make(map[string]bool),
	}
}

// AddToTree inserts a compiled trigger into root. When compiled.SearchPath
// is empty, the condition is attached directly at root so it is always
// considered (component C: "a trigger with no equality atoms is stored
// directly at the root's conditions"). Otherwise it walks the path in
// sorted field-name order, creating intermediate nodes as needed, and
// appends to the destination leaf. Duplicate (hash, scenarioID) pairs are
// silently suppressed.
func AddToTree(root *Node, scenarioID int64, compiled *Compiled) {
	fields := make([]string, 0, len(compiled.SearchPath))
	for f := range compiled.SearchPath {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	node := root
	for _, field := range fields {
		literal := compiled.SearchPath[field]
		byValue, ok := node.Children[field]
		if !ok {
			byValue = make(map[string]*Node)
			node.Children[field] = byValue
		}
		child, ok := byValue[literal]
		if !ok {
			child = NewNode()
			byValue[literal] = child
		}
		node = child
	}

	dedupKey := compiled.Hash + "\x00" + strconv.FormatInt(scenarioID, 10)
	if node.seen[dedupKey] {
		return
	}
	node.seen[dedupKey] = true
	node.Conditions = append(node.Conditions, ConditionEntry{
		ScenarioID: scenarioID,
		Predicate:  compiled.Predicate,
		Hash:       compiled.Hash,
	})
}

// SearchInTree evaluates event against root per component C: at every
// node visited, every attached condition's predicate is checked against
// the full event (not just the path that led here — the path is a
// routing hint, the predicate is the ground truth), and the walk also
// descends into any child keyed by a field whose concrete value in event
// matches one of that field's indexed literals. The result is the
// deduped list of matching scenario ids in the order they were first
// reached; ids found under different child branches have no fixed
// relative order, since children are visited in map order.
func SearchInTree(root *Node, event value.Map) []int64 {
	var ordered []int64
	seen := make(map[int64]bool)
	walk(root, event, &ordered, seen)
	return ordered
}

func walk(node *Node, event value.Map, ordered *[]int64, seen map[int64]bool) {
	if node == nil {
		return
	}
	for _, cond := range node.Conditions {
		if !safeInvoke(cond.Predicate, event) {
			continue
		}
		if !seen[cond.ScenarioID] {
			seen[cond.ScenarioID] = true
			*ordered = append(*ordered, cond.ScenarioID)
		}
	}
	for field, byValue := range node.Children {
		eventVal, ok := value.GetPath(event, field)
		if !ok {
			continue
		}
		if child, ok := byValue[value.AsString(eventVal)]; ok {
			walk(child, event, ordered, seen)
		}
	}
}

func safeInvoke(pred Predicate, event value.Map) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			result = false
		}
	}()
	return pred(event)
}
