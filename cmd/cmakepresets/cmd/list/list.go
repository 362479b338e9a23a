// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package list

import (
	"strings"

	"github.com/cmakepresets/cmakepresets/pkg/builtincommand"
	"github.com/cmakepresets/cmakepresets/pkg/inspector"
	"github.com/cmakepresets/cmakepresets/pkg/presetsconfig"
	"github.com/cmakepresets/cmakepresets/pkg/presetview"
	"github.com/spf13/cobra"
)

func Cmd(session *inspector.Session) *cobra.Command {
	var typeName, output string
	var showHidden, flat bool

	cmd := &cobra.Command{
		Use:   string(builtincommand.List),
		Short: "list presets",
		Long: `list presets

	with --type all (the default) configure presets are shown in a table next to
	the build and test presets that use them. --flat, or any other type, lists
	presets per type with their descriptions instead.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			format, err := session.OutputFormat(output)
			if err != nil {
				return err
			}
			types, err := inspector.ParseTypes(typeName)
			if err != nil {
				return err
			}
			showHidden = showHidden || session.Config.ShowHidden

			project, err := session.Open()
			if err != nil {
				return session.Fail(cmd, format, err)
			}
			store := project.Store

			switch {
			case format != presetsconfig.OutputTable:
				out, err := presetview.Marshal(format, presetview.FilterSummaries(store.List(types...), showHidden))
				if err != nil {
					return err
				}
				cmd.Println(out)
			case !flat && strings.EqualFold(typeName, inspector.AllTypes):
				deps, err := store.AllDependents()
				if err != nil {
					return session.Fail(cmd, format, err)
				}
				cmd.Println(presetview.DependentsTable(deps, showHidden))
			default:
				cmd.Println(presetview.FlatList(store, types, showHidden))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", inspector.AllTypes, "type of presets to list: configure, build, test, package, workflow or all")
	cmd.Flags().BoolVar(&showHidden, "show-hidden", false, "include hidden presets")
	cmd.Flags().BoolVar(&flat, "flat", false, "list presets per type instead of the configure preset table")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("type", inspector.TypeCompletions(true))
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(presetsconfig.OutputFormats, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}
