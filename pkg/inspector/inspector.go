// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cmakepresets/cmakepresets/pkg/macros"
	"github.com/cmakepresets/cmakepresets/pkg/presets"
	"github.com/cmakepresets/cmakepresets/pkg/presetsconfig"
	"github.com/cmakepresets/cmakepresets/pkg/presetsfile"
	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/cmakepresets/cmakepresets/pkg/presetview"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// AllTypes selects every preset type in --type flags
const AllTypes = "all"

type Inspector struct {
	Stderr, Stdout, Stdin *os.File
	// must contain at least one argument, namely the binary name, similar to os.Args
	OsArgs []string
	// Environ is the parent environment seen by macros, os.Environ() when nil
	Environ []string
}

func (in *Inspector) SetOutputStreams(cmd *cobra.Command) {
	cmd.SetOut(in.Stdout)
	cmd.SetErr(in.Stderr)
	cmd.SetIn(in.Stdin)

	lo.ForEach(cmd.Commands(), func(sub *cobra.Command, _ int) {
		in.SetOutputStreams(sub)
	})
}

func (in *Inspector) Env() []string {
	if in.Environ == nil {
		return os.Environ()
	}
	return in.Environ
}

// Source is where to look for presets, as given by --file or --directory.
type Source struct {
	File      string
	Directory string
}

// Path is the file, else the directory, else the working directory.
func (s Source) Path() string {
	return lo.CoalesceOrEmpty(s.File, s.Directory, ".")
}

// Session carries what every subcommand shares: the effective configuration,
// the presets source and the process environment.
type Session struct {
	Config  *presetsconfig.Config
	Source  Source
	Environ []string
}

func (s *Session) Open() (*presetsfile.Project, error) {
	path, err := filepath.Abs(s.Source.Path())
	if err != nil {
		return nil, err
	}

	slog.Info("loading presets", "path", path)
	project, err := presetsfile.Open(path)
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded presets",
		"file", project.Root.PresetsFile,
		"version", project.Version,
		"files", len(project.Files),
		"configure", project.Store.Len(presettype.Configure),
		"build", project.Store.Len(presettype.Build),
		"test", project.Store.Len(presettype.Test),
	)
	return project, nil
}

// OutputFormat resolves the -o flag against the configured default.
func (s *Session) OutputFormat(flag string) (string, error) {
	output := lo.CoalesceOrEmpty(flag, s.Config.Output, presetsconfig.OutputTable)
	if err := presetsconfig.ValidateOutput(output); err != nil {
		return "", err
	}
	return output, nil
}

// MacroContext describes the host for macro expansion of presets below root.
func (s *Session) MacroContext(root *presetsfile.Root) macros.Context {
	return macros.NewContext(root.SourceDir, s.Environ, runtime.GOOS)
}

// Fail prints err as a structured report when the output is machine readable,
// leaving cobra's own error line for table output.
func (s *Session) Fail(cmd *cobra.Command, output string, err error) error {
	if output == presetsconfig.OutputTable {
		return err
	}

	report, marshalErr := presetview.Marshal(output, presets.Report(err))
	if marshalErr != nil {
		return err
	}
	cmd.Println(report)
	cmd.SilenceErrors = true
	return err
}

// ParseTypes turns a --type value into preset types. Empty and "all" select
// every type.
func ParseTypes(name string) ([]presettype.Type, error) {
	if name == "" || strings.EqualFold(name, AllTypes) {
		return presettype.All, nil
	}
	t, err := presettype.Parse(name)
	if err != nil {
		return nil, err
	}
	return []presettype.Type{t}, nil
}

// TypeCompletions completes --type flags.
func TypeCompletions(withAll bool) cobra.CompletionFunc {
	names := presettype.Names()
	if withAll {
		names = append(names, AllTypes)
	}
	return cobra.FixedCompletions(names, cobra.ShellCompDirectiveNoFileComp)
}

// PresetCompletions completes preset names of the given type, or of every
// type when t is empty.
func (s *Session) PresetCompletions(t func() presettype.Type) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		project, err := s.Open()
		if err != nil {
			cobra.CompDebugln(fmt.Sprintf("loading presets: %v", err), true)
			return nil, cobra.ShellCompDirectiveError
		}

		var types []presettype.Type
		if typ := t(); typ != "" {
			types = []presettype.Type{typ}
		}
		summaries := presetview.FilterSummaries(project.Store.List(types...), s.Config.ShowHidden)
		return lo.Uniq(lo.FilterMap(summaries, func(summary presets.Summary, _ int) (cobra.Completion, bool) {
			completion := lo.Ternary(summary.Description == "", summary.Name, cobra.CompletionWithDesc(summary.Name, summary.Description))
			return completion, strings.HasPrefix(summary.Name, toComplete)
		})), cobra.ShellCompDirectiveNoFileComp
	}
}
