// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package presetview renders presets for the terminal.
package presetview

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/cmakepresets/cmakepresets/pkg/presets"
	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/cmakepresets/cmakepresets/pkg/presetvalue"
	"github.com/cmakepresets/cmakepresets/pkg/utils/stringset"
	"github.com/fatih/color"
	"github.com/samber/lo"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	nameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	hiddenStyle = lipgloss.NewStyle().Faint(true)
	sourceStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	trueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	columnStyles = map[presettype.Type]lipgloss.Style{
		presettype.Configure: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		presettype.Build:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		presettype.Test:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
)

const NoPresetsMessage = "No presets found matching your criteria"

// Section renders a bold section title.
func Section(title string) string {
	return titleStyle.Render(title)
}

func presetName(p *presets.Preset) string {
	if p.Hidden() {
		return hiddenStyle.Render(p.Name())
	}
	return p.Name()
}

// DependentsTable shows every configure preset next to the build and test
// presets that use it, sorted by configure preset name.
func DependentsTable(deps []presets.Dependents, showHidden bool) string {
	deps = lo.Filter(deps, func(d presets.Dependents, _ int) bool {
		return showHidden || !d.Configure.Hidden()
	})
	if len(deps) == 0 {
		return color.YellowString(NoPresetsMessage)
	}
	deps = sortedDependents(deps)

	columns := []presettype.Type{presettype.Configure, presettype.Build, presettype.Test}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderRow(true).
		Headers(lo.Map(columns, func(c presettype.Type, _ int) string { return c.Title() })...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			return columnStyles[columns[col]].Padding(0, 1)
		}).
		Rows(lo.Map(deps, func(d presets.Dependents, _ int) []string {
			return []string{
				configureCell(d),
				dependentsCell(d.Related[presettype.Build]),
				dependentsCell(d.Related[presettype.Test]),
			}
		})...)

	return titleStyle.Render("CMake Presets") + "\n" + t.String()
}

func sortedDependents(deps []presets.Dependents) []presets.Dependents {
	sorted := slices.Clone(deps)
	slices.SortStableFunc(sorted, func(a, b presets.Dependents) int {
		return strings.Compare(a.Configure.Name(), b.Configure.Name())
	})
	return sorted
}

func configureCell(d presets.Dependents) string {
	cell := presetName(d.Configure)
	var counts []string
	if n := d.Count(presettype.Build); n > 1 {
		counts = append(counts, fmt.Sprintf("%d builds", n))
	}
	if n := d.Count(presettype.Test); n > 1 {
		counts = append(counts, fmt.Sprintf("%d tests", n))
	}
	if len(counts) > 0 {
		cell += " " + hiddenStyle.Render("("+strings.Join(counts, ", ")+")")
	}
	return cell
}

func dependentsCell(ps []*presets.Preset) string {
	return strings.Join(lo.Map(ps, func(p *presets.Preset, _ int) string { return presetName(p) }), "\n")
}

// FlatList lists presets per type with their descriptions.
func FlatList(store *presets.Store, types []presettype.Type, showHidden bool) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("CMake Presets:"))
	sb.WriteString("\n")

	found := false
	for _, t := range types {
		ps := lo.Filter(store.All(t), func(p *presets.Preset, _ int) bool {
			return showHidden || !p.Hidden()
		})
		if len(ps) == 0 {
			continue
		}
		found = true
		fmt.Fprintf(&sb, "\n%s\n", titleStyle.Render(t.Title()+" Presets:"))
		for _, p := range ps {
			fmt.Fprintf(&sb, "  • %s\n", nameStyle.Render(presetName(p)))
			if d := p.Description(); d != "" {
				fmt.Fprintf(&sb, "    %s\n", d)
			}
		}
	}

	if !found {
		sb.WriteString(color.YellowString(NoPresetsMessage))
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// InheritanceTree draws a preset above its ancestors, each parent branching
// into its own parents. Cycles and unknown parents end a branch.
func InheritanceTree(store *presets.Store, t presettype.Type, name string) string {
	var build func(name string, path stringset.StringSet) *tree.Tree
	build = func(name string, path stringset.StringSet) *tree.Tree {
		node := tree.Root(name)
		p, err := store.Get(t, name)
		if err != nil || path.Contains(name) {
			return node
		}
		path = path.Clone().Add(name)
		for _, parent := range p.Inherits() {
			node.Child(build(parent, path))
		}
		return node
	}

	root := build(name, stringset.New())
	root.Root(nameStyle.Render(name)).EnumeratorStyle(hiddenStyle)
	return root.String()
}

// Forest draws the inheritance forest of one preset type.
func Forest(f *presets.Forest) string {
	var build func(n *presets.Node) *tree.Tree
	build = func(n *presets.Node) *tree.Tree {
		label := n.Name
		if n.Hidden {
			label = hiddenStyle.Render(label)
		}
		node := tree.Root(label)
		for _, child := range n.Nodes {
			node.Child(build(child))
		}
		return node
	}

	roots := lo.Map(f.Expand(), func(n *presets.Node, _ int) string {
		return build(n).EnumeratorStyle(hiddenStyle).String()
	})
	if len(roots) == 0 {
		return color.YellowString("No %s presets found", f.Type)
	}
	return titleStyle.Render(f.Type.Title()+" Presets:") + "\n" + strings.Join(roots, "\n")
}

// Related lists the presets using a configure preset, per type.
func Related(configureName string, related map[presettype.Type][]*presets.Preset, types []presettype.Type) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", titleStyle.Render("Presets using configure preset"), nameStyle.Render(configureName))
	for _, t := range types {
		ps := related[t]
		fmt.Fprintf(&sb, "\n%s\n", titleStyle.Render(fmt.Sprintf("%s Presets (%d):", t.Title(), len(ps))))
		if len(ps) == 0 {
			sb.WriteString("  " + hiddenStyle.Render("none") + "\n")
			continue
		}
		for _, p := range ps {
			fmt.Fprintf(&sb, "  • %s\n", presetName(p))
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Details shows the fields of a preset as a property table. sources maps
// field paths to the preset that supplied them; a source equal to the
// preset's own name is left blank.
func Details(p *presets.Preset, sources map[string]string) string {
	rows := [][]string{}
	own := p.Name()

	source := func(path string) string {
		s := sources[path]
		if s == "" || s == own {
			return ""
		}
		return sourceStyle.Render(s)
	}

	var add func(obj *presetvalue.Object, prefix string, depth int)
	add = func(obj *presetvalue.Object, prefix string, depth int) {
		indent := strings.Repeat("  ", depth)
		for key, v := range obj.All() {
			if depth == 0 && key == presets.NameField {
				continue
			}
			path := prefix + key
			switch v.Kind() {
			case presetvalue.KindObject:
				nested, _ := v.AsObject()
				rows = append(rows, []string{indent + key, "", source(path)})
				add(nested, path+".", depth+1)
			case presetvalue.KindList:
				items, _ := v.AsList()
				if !lo.SomeBy(items, isContainer) {
					rows = append(rows, []string{indent + key, v.String(), source(path)})
					continue
				}
				rows = append(rows, []string{indent + key, "", source(path)})
				for i, item := range items {
					itemPath := fmt.Sprintf("%s[%d]", path, i)
					if nested, ok := item.AsObject(); ok {
						rows = append(rows, []string{fmt.Sprintf("%s  [%d]", indent, i), "", ""})
						add(nested, itemPath+".", depth+2)
						continue
					}
					rows = append(rows, []string{fmt.Sprintf("%s  [%d]", indent, i), item.String(), source(itemPath)})
				}
			case presetvalue.KindBool:
				b, _ := v.AsBool()
				rows = append(rows, []string{indent + key, lo.Ternary(b, trueStyle.Render("true"), falseStyle.Render("false")), source(path)})
			default:
				rows = append(rows, []string{indent + key, v.String(), source(path)})
			}
		}
	}
	add(p.Fields, "", 0)

	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return titleStyle.PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingRight(1)
		}).
		Rows(rows...).
		String()
}

func isContainer(v presetvalue.Value) bool {
	return v.Kind() == presetvalue.KindObject || v.Kind() == presetvalue.KindList
}

// Heading is the title line of a single preset.
func Heading(p *presets.Preset, note string) string {
	heading := fmt.Sprintf("%s %s (%s)", titleStyle.Render("Preset:"), nameStyle.Render(p.Name()), p.Type)
	if note != "" {
		heading += " " + hiddenStyle.Render(note)
	}
	return heading
}
