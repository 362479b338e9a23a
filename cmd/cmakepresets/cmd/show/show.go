// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package show

import (
	"fmt"

	"github.com/cmakepresets/cmakepresets/pkg/builtincommand"
	"github.com/cmakepresets/cmakepresets/pkg/inspector"
	"github.com/cmakepresets/cmakepresets/pkg/macros"
	"github.com/cmakepresets/cmakepresets/pkg/presets"
	"github.com/cmakepresets/cmakepresets/pkg/presetsconfig"
	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/cmakepresets/cmakepresets/pkg/presetview"
	"github.com/spf13/cobra"
)

func Cmd(session *inspector.Session) *cobra.Command {
	var typeName, output, binaryDir string
	var flatten, resolve, asJSON bool

	cmd := &cobra.Command{
		Use:   string(builtincommand.Show) + " <preset>",
		Short: "show the details of a preset",
		Long: `show the details of a preset

	without --type the preset is looked up in configure, build, test, package and
	workflow presets, in that order. the table view shows the inheritance tree
	and every inherited property next to the preset that supplied it.

	--flatten merges inherited properties into the preset. --resolve flattens
	and then substitutes macros such as ${sourceDir} and $env{NAME}.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			name := args[0]

			format, err := session.OutputFormat(output)
			if err != nil {
				return err
			}
			if asJSON {
				format = presetsconfig.OutputJSON
			}

			project, err := session.Open()
			if err != nil {
				return session.Fail(cmd, format, err)
			}
			store := project.Store

			p, err := find(store, typeName, name)
			if err != nil {
				return session.Fail(cmd, format, err)
			}

			var note string
			switch {
			case resolve:
				ctx := session.MacroContext(project.Root)
				ctx.BinaryDir = binaryDir
				p, err = macros.ResolvePreset(store, p.Type, name, ctx)
				note = "(resolved)"
			case flatten:
				p, err = store.Flatten(p.Type, name)
				note = "(flattened)"
			}
			if err != nil {
				return session.Fail(cmd, format, err)
			}

			if format != presetsconfig.OutputTable {
				out, err := presetview.Marshal(format, p)
				if err != nil {
					return err
				}
				cmd.Println(out)
				return nil
			}

			cmd.Println(presetview.Heading(p, note))
			cmd.Println()
			if note != "" {
				cmd.Println(presetview.Details(p, nil))
				return nil
			}

			if len(p.Inherits()) > 0 {
				cmd.Println(presetview.Section("Inheritance tree:"))
				cmd.Println(presetview.InheritanceTree(store, p.Type, name))
				cmd.Println()
			}
			flat, err := store.Flatten(p.Type, name)
			if err != nil {
				return err
			}
			sources, err := store.Provenance(p.Type, name)
			if err != nil {
				return err
			}
			cmd.Println(presetview.Details(flat, sources))
			return nil
		},
	}

	cmd.ValidArgsFunction = session.PresetCompletions(func() presettype.Type {
		t, _ := presettype.Parse(typeName)
		return t
	})
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "type of the preset, required when the name is used by several types")
	cmd.Flags().BoolVar(&flatten, "flatten", false, "merge inherited properties into the preset")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "flatten the preset and substitute macros")
	cmd.Flags().StringVar(&binaryDir, "binary-dir", "", "binary directory to assume with --resolve, instead of the preset's binaryDir")
	cmd.Flags().BoolVar(&asJSON, "json", false, "shorthand for --output json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json, yaml")
	cmd.MarkFlagsMutuallyExclusive("json", "output")
	_ = cmd.RegisterFlagCompletionFunc("type", inspector.TypeCompletions(false))
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(presetsconfig.OutputFormats, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func find(store *presets.Store, typeName, name string) (*presets.Preset, error) {
	if typeName == "" {
		return store.Find(name)
	}
	t, err := presettype.Parse(typeName)
	if err != nil {
		return nil, fmt.Errorf("invalid --type: %w", err)
	}
	return store.Get(t, name)
}
