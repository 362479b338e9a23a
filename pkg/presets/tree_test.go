// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package presets

import (
	"strings"
	"testing"

	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(f *Forest) string {
	var sb strings.Builder
	f.Walk(func(n *Node, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(n.Name)
		if n.Hidden {
			sb.WriteString(" (hidden)")
		}
		sb.WriteString("\n")
		return true
	})
	return sb.String()
}

func TestBuildTree(t *testing.T) {
	s := mustParse(t, inheritanceDoc)

	f := s.BuildTree(presettype.Configure)
	assert.Equal(t, []string{"base", "b1", "b2"}, f.Roots)
	assert.Equal(t, []string{"child"}, f.Children["base"])
	assert.Equal(t, []string{"multi", "multi-override"}, f.Children["b1"])
	assert.Equal(t, []string{"multi", "multi-override"}, f.Children["b2"])
	assert.Equal(t, []string{"diamond"}, f.Children["child"])
	assert.Equal(t, []string{"diamond"}, f.Children["multi"])

	expected := `base (hidden)
  child
    diamond
b1 (hidden)
  multi
    diamond
  multi-override
b2 (hidden)
  multi
    diamond
  multi-override
`
	assert.Equal(t, expected, render(f))
}

func TestBuildTreeOrphansAreRoots(t *testing.T) {
	s := mustParse(t, `{"buildPresets": [
		{"name": "orphan", "inherits": "ghost"},
		{"name": "half", "inherits": ["ghost", "orphan"]}
	]}`)

	f := s.BuildTree(presettype.Build)
	assert.Equal(t, []string{"orphan"}, f.Roots)
	assert.Equal(t, "orphan\n  half\n", render(f))
}

func TestBuildTreeCycleTerminates(t *testing.T) {
	s := mustParse(t, `{"configurePresets": [
		{"name": "root"},
		{"name": "A", "inherits": ["root", "B"]},
		{"name": "B", "inherits": "A"}
	]}`)

	f := s.BuildTree(presettype.Configure)
	require.Equal(t, []string{"root"}, f.Roots)
	assert.Equal(t, "root\n  A\n    B\n", render(f))
}

func TestBuildTreeEmptyType(t *testing.T) {
	s := mustParse(t, inheritanceDoc)

	f := s.BuildTree(presettype.Package)
	assert.Empty(t, f.Roots)
	assert.Empty(t, f.Expand())
}

func TestWalkSkipsChildren(t *testing.T) {
	s := mustParse(t, inheritanceDoc)

	var visited []string
	s.BuildTree(presettype.Configure).Walk(func(n *Node, depth int) bool {
		visited = append(visited, n.Name)
		return depth == 0 && n.Name == "base"
	})
	assert.Equal(t, []string{"base", "child", "b1", "b2"}, visited)
}
