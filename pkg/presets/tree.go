// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package presets

import (
	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/cmakepresets/cmakepresets/pkg/utils/stringset"
	"github.com/samber/lo"
)

// Forest is the inheritance graph of one preset type, parents to children.
// With multiple inheritance a preset is a child of each of its parents, so
// this is a DAG rather than a strict forest.
type Forest struct {
	Type     presettype.Type     `json:"type" yaml:"type"`
	Roots    []string            `json:"roots" yaml:"roots"`
	Children map[string][]string `json:"children" yaml:"children"`

	store *Store
}

// Node is one occurrence of a preset in the expanded forest.
type Node struct {
	Name   string  `json:"name" yaml:"name"`
	Hidden bool    `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Nodes  []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// BuildTree derives the inheritance forest of one preset type. Roots are the
// presets without inherits, plus presets none of whose parents exist.
// Roots and children keep declaration order.
func (s *Store) BuildTree(t presettype.Type) *Forest {
	f := &Forest{
		Type:     t,
		Roots:    []string{},
		Children: map[string][]string{},
		store:    s,
	}

	for _, p := range s.presets[t] {
		known := lo.Filter(lo.Uniq(p.Inherits()), func(parent string, _ int) bool {
			_, ok := s.index[t][parent]
			return ok
		})
		if len(known) == 0 {
			f.Roots = append(f.Roots, p.Name())
			continue
		}
		for _, parent := range known {
			f.Children[parent] = append(f.Children[parent], p.Name())
		}
	}
	return f
}

// Expand turns the forest into nodes, repeating a preset under every parent.
// The visited set is kept per path, so repeated presets are expanded each
// time while inheritance cycles terminate.
func (f *Forest) Expand() []*Node {
	var expand func(name string, path stringset.StringSet) *Node
	expand = func(name string, path stringset.StringSet) *Node {
		n := &Node{Name: name}
		if p, ok := f.store.index[f.Type][name]; ok {
			n.Hidden = p.Hidden()
		}
		path = path.Clone().Add(name)
		for _, child := range f.Children[name] {
			if path.Contains(child) {
				continue
			}
			n.Nodes = append(n.Nodes, expand(child, path))
		}
		return n
	}

	return lo.Map(f.Roots, func(root string, _ int) *Node {
		return expand(root, stringset.New())
	})
}

// Walk visits the expanded forest depth-first. Returning false from fn skips
// the children of that node.
func (f *Forest) Walk(fn func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, child := range n.Nodes {
			walk(child, depth+1)
		}
	}
	for _, root := range f.Expand() {
		walk(root, 0)
	}
}
