// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"strings"

	"github.com/cmakepresets/cmakepresets/pkg/builtincommand"
	"github.com/cmakepresets/cmakepresets/pkg/inspector"
	"github.com/cmakepresets/cmakepresets/pkg/presets"
	"github.com/cmakepresets/cmakepresets/pkg/presetsconfig"
	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/cmakepresets/cmakepresets/pkg/presetview"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func Cmd(session *inspector.Session) *cobra.Command {
	var typeName, output string

	cmd := &cobra.Command{
		Use:   string(builtincommand.Tree),
		Short: "show the inheritance tree of presets",
		Long: `show the inheritance tree of presets

	presets inheriting from several parents appear under each of them. presets
	whose parents are all unknown are shown as roots.
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

			project, err := session.Open()
			if err != nil {
				return session.Fail(cmd, format, err)
			}
			forests := lo.Map(types, func(t presettype.Type, _ int) *presets.Forest {
				return project.Store.BuildTree(t)
			})

			if format != presetsconfig.OutputTable {
				out, err := presetview.Marshal(format, forests)
				if err != nil {
					return err
				}
				cmd.Println(out)
				return nil
			}
			cmd.Println(strings.Join(lo.Map(forests, func(f *presets.Forest, _ int) string {
				return presetview.Forest(f)
			}), "\n\n"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", presettype.Configure.String(), "type of presets: configure, build, test, package, workflow or all")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("type", inspector.TypeCompletions(true))
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(presetsconfig.OutputFormats, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}
