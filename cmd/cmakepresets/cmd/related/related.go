// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package related

import (
	"github.com/cmakepresets/cmakepresets/pkg/builtincommand"
	"github.com/cmakepresets/cmakepresets/pkg/inspector"
	"github.com/cmakepresets/cmakepresets/pkg/presetsconfig"
	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/cmakepresets/cmakepresets/pkg/presetview"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func Cmd(session *inspector.Session) *cobra.Command {
	var typeNames []string
	var output string

	cmd := &cobra.Command{
		Use:   string(builtincommand.Related) + " <configure preset>",
		Short: "show the presets that use a configure preset",
		Long: `show the presets that use a configure preset

	build, test and package presets are searched by default. workflow presets
	are searched only when asked for with --type workflow. a preset that does
	not set configurePreset itself is matched on the value it inherits.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			name := args[0]

			format, err := session.OutputFormat(output)
			if err != nil {
				return err
			}

			types := presettype.Downstream
			if len(typeNames) > 0 {
				types, err = parseTypes(typeNames)
				if err != nil {
					return err
				}
			}

			project, err := session.Open()
			if err != nil {
				return session.Fail(cmd, format, err)
			}
			related, err := project.Store.FindRelated(name, types...)
			if err != nil {
				return session.Fail(cmd, format, err)
			}

			if format != presetsconfig.OutputTable {
				out, err := presetview.Marshal(format, presetview.NewRelatedOutput(name, related))
				if err != nil {
					return err
				}
				cmd.Println(out)
				return nil
			}
			cmd.Println(presetview.Related(name, related, types))
			return nil
		},
	}

	cmd.ValidArgsFunction = session.PresetCompletions(func() presettype.Type { return presettype.Configure })
	cmd.Flags().StringSliceVarP(&typeNames, "type", "t", nil, "types of presets to search: build, test, package, workflow (default build,test,package)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(
		lo.Map([]presettype.Type{presettype.Build, presettype.Test, presettype.Package, presettype.Workflow}, func(t presettype.Type, _ int) string { return t.String() }),
		cobra.ShellCompDirectiveNoFileComp,
	))
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(presetsconfig.OutputFormats, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func parseTypes(names []string) ([]presettype.Type, error) {
	types := make([]presettype.Type, 0, len(names))
	for _, name := range names {
		t, err := presettype.Parse(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return lo.Uniq(types), nil
}
