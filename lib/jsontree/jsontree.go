// Package jsontree navigates untyped JSON values whose shape is not
// contractually fixed. Lookups never panic: a missing key, wrong type, or
// out-of-range index yields an empty node that keeps absorbing lookups, so
// extraction code can chain probes and check the result once at the end.
package jsontree

import (
	"encoding/json"
	"sort"
)

type Node struct {
	value any
	valid bool
}

func Parse(data []byte) (Node, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Node{}, err
	}
	return Node{value: v, valid: true}, nil
}

func From(v any) Node {
	return Node{value: v, valid: true}
}

func (n Node) Exists() bool {
	return n.valid
}

func (n Node) Value() any {
	return n.value
}

// Get walks an object path, returning the empty node as soon as a segment
// is missing.
func (n Node) Get(keys ...string) Node {
	current := n
	for _, key := range keys {
		obj, ok := current.value.(map[string]any)
		if !current.valid || !ok {
			return Node{}
		}
		v, ok := obj[key]
		if !ok {
			return Node{}
		}
		current = Node{value: v, valid: true}
	}
	return current
}

// First returns the value of the first direct key that exists. This is the
// shape-probe primitive: each key names one known historical spelling of
// the same field.
func (n Node) First(keys ...string) Node {
	obj, ok := n.value.(map[string]any)
	if !n.valid || !ok {
		return Node{}
	}
	for _, key := range keys {
		if v, exists := obj[key]; exists {
			return Node{value: v, valid: true}
		}
	}
	return Node{}
}

func (n Node) Index(i int) Node {
	arr, ok := n.value.([]any)
	if !n.valid || !ok || i < 0 || i >= len(arr) {
		return Node{}
	}
	return Node{value: arr[i], valid: true}
}

// Arr returns the element nodes, or nil when the node is not an array.
func (n Node) Arr() []Node {
	arr, ok := n.value.([]any)
	if !n.valid || !ok {
		return nil
	}
	nodes := make([]Node, len(arr))
	for i, v := range arr {
		nodes[i] = Node{value: v, valid: true}
	}
	return nodes
}

func (n Node) Str() (string, bool) {
	s, ok := n.value.(string)
	if !n.valid {
		return "", false
	}
	return s, ok
}

func (n Node) StrOr(def string) string {
	if s, ok := n.Str(); ok {
		return s
	}
	return def
}

func (n Node) Float() (float64, bool) {
	f, ok := n.value.(float64)
	if !n.valid {
		return 0, false
	}
	return f, ok
}

func (n Node) Int() (int, bool) {
	f, ok := n.Float()
	if !ok {
		return 0, false
	}
	return int(f), true
}

func (n Node) Bool() (bool, bool) {
	b, ok := n.value.(bool)
	if !n.valid {
		return false, false
	}
	return b, ok
}

// Find runs a depth-first search for the first node matching the
// predicate. maxDepth bounds recursion against pathological trees.
func (n Node) Find(maxDepth int, match func(Node) bool) Node {
	if !n.valid || maxDepth <= 0 {
		return Node{}
	}
	if match(n) {
		return n
	}
	switch v := n.value.(type) {
	case map[string]any:
		// Map iteration order is randomized; walking keys sorted keeps
		// Find deterministic when several subtrees match.
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if found := (Node{value: v[key], valid: true}).Find(maxDepth-1, match); found.valid {
				return found
			}
		}
	case []any:
		for _, child := range v {
			if found := (Node{value: child, valid: true}).Find(maxDepth-1, match); found.valid {
				return found
			}
		}
	}
	return Node{}
}
