// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/cmakepresets/cmakepresets/cmd/cmakepresets/cmd/list"
	"github.com/cmakepresets/cmakepresets/cmd/cmakepresets/cmd/related"
	"github.com/cmakepresets/cmakepresets/cmd/cmakepresets/cmd/show"
	"github.com/cmakepresets/cmakepresets/cmd/cmakepresets/cmd/tree"
	"github.com/cmakepresets/cmakepresets/pkg/buildinfo"
	"github.com/cmakepresets/cmakepresets/pkg/inspector"
	"github.com/cmakepresets/cmakepresets/pkg/logging"
	"github.com/cmakepresets/cmakepresets/pkg/presetsconfig"
	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

const (
	inspectGroupId   = "inspect"
	CmakePresetsName = "cmakepresets"
)

func RootCmd(ctx context.Context, in *inspector.Inspector) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   CmakePresetsName,
		Short: "inspect CMakePresets.json files",
		Long: `inspect CMakePresets.json files

	presets are read from CMakePresets.json, CMakeUserPresets.json next to it
	and every file they include. without --file or --directory the current
	directory is used, falling back to the root of the enclosing git worktree.
`,
	}

	defer in.SetOutputStreams(cmd)

	if len(in.OsArgs) == 0 {
		return nil, fmt.Errorf("Inspector.OsArgs must contain at least one entry similar to os.Args")
	}

	cmd.SetArgs(in.OsArgs[1:])
	cmd.SetContext(ctx)
	cmd.AddGroup(&cobra.Group{
		ID:    inspectGroupId,
		Title: "Inspection Commands",
	})

	config, err := presetsconfig.Get()
	if err != nil {
		return nil, err
	}
	session := &inspector.Session{Config: config, Environ: in.Env()}

	var verbosity int
	cmd.PersistentFlags().StringVarP(&session.Source.File, "file", "f", "", "path to a CMakePresets.json file")
	cmd.PersistentFlags().StringVarP(&session.Source.Directory, "directory", "d", "", "directory containing CMakePresets.json (default: current directory)")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (can be used multiple times)")
	cmd.MarkFlagsMutuallyExclusive("file", "directory")
	_ = cmd.MarkPersistentFlagFilename("file", "json")
	_ = cmd.MarkPersistentFlagDirname("directory")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := logging.InitLogging(config.LogLevel, verbosity); err != nil {
			return fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
		}
		if config.NoColor {
			color.NoColor = true
			lipgloss.SetColorProfile(termenv.Ascii)
		}
		slog.Debug("configuration", "home", config.HomePath, "output", config.Output, "showHidden", config.ShowHidden)
		return nil
	}

	cmd.AddCommand(
		setCmdInspectGroup(list.Cmd(session)),
		setCmdInspectGroup(show.Cmd(session)),
		setCmdInspectGroup(related.Cmd(session)),
		setCmdInspectGroup(tree.Cmd(session)),
	)

	version, err := yaml.Marshal(buildinfo.Get())
	if err != nil {
		return nil, err
	}
	cmd.Version = string(version)
	cmd.SetVersionTemplate("{{.Version}}")

	return cmd, nil
}

func setCmdInspectGroup(cmd *cobra.Command) *cobra.Command {
	cmd.GroupID = inspectGroupId
	return cmd
}
