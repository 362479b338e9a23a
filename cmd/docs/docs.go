// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	cmd "github.com/cmakepresets/cmakepresets/cmd/cmakepresets/cmd"
	"github.com/cmakepresets/cmakepresets/pkg/inspector"
	"github.com/cmakepresets/cmakepresets/pkg/presetsconfig"
	"github.com/cmakepresets/cmakepresets/pkg/utils"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func main() {
	ctx, cancelFn := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancelFn()

	if err := getDocsCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}

}

func getDocsCmd() *cobra.Command {
	var format string

	docsCmd := &cobra.Command{
		Use:   "docs <output dir>",
		Short: "generate cmakepresets CLI commands reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]

			var useRst bool
			switch format {
			case "rst":
				useRst = true
			case "md":
				useRst = false
			default:
				return fmt.Errorf("only --format md or --format rst are supported")
			}

			if err := genDocs(cmd.Context(), dir, useRst); err != nil {
				cmd.SilenceUsage = true
				return err
			}

			cmd.Printf("successfully generated at %s\n", dir)
			return nil
		},
	}

	docsCmd.Flags().StringVar(&format, "format", "", "(required) md or rst")
	_ = docsCmd.MarkFlagRequired("format")

	return docsCmd
}

func genDocs(ctx context.Context, dir string, useRst bool) error {
	tmp, deleteFn, err := utils.MkdirTemp("", "")
	if err != nil {
		return err
	}
	defer func() { _ = deleteFn() }()

	// an empty home keeps a personal config.yaml out of the generated defaults
	if err := os.Setenv(presetsconfig.HomeEnvVar, tmp); err != nil {
		return err
	}

	in := &inspector.Inspector{OsArgs: []string{cmd.CmakePresetsName}, Environ: []string{}}
	root, err := cmd.RootCmd(ctx, in)
	if err != nil {
		return err
	}
	root.DisableAutoGenTag = true

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, c := range root.Commands() {
		c.Hidden = false
	}

	if useRst {
		if err := doc.GenReSTTreeCustom(root, dir, prependRSTHeader, linkHandler); err != nil {
			return err
		}
		slog.Info("generating index", "file", tocFileName)
		return generateTOC(dir)
	}
	return doc.GenMarkdownTreeCustom(root, dir, prependFrontMatter, func(s string) string {
		return s
	})
}

// add a Jekyll/Just-the-Docs front-matter block
func prependFrontMatter(filename string) string {
	return fmt.Sprintf(`---
layout: default
title: %s
parent: CLI reference
---

`, fileTitle(filename))
}

func prependRSTHeader(filename string) string {
	title := fileTitle(filename)
	return fmt.Sprintf("%s\n%s\n\n", title, strings.Repeat("=", len(title)))
}

// fileTitle turns a generated file name like "cmakepresets_show.md" into "Cmakepresets Show"
func fileTitle(filename string) string {
	base := filepath.Base(filename)
	return titleCase(strings.TrimSuffix(base, filepath.Ext(base)))
}

func titleCase(cmdKey string) string {
	words := strings.Fields(strings.ReplaceAll(cmdKey, "_", " "))
	return strings.Join(lo.Map(words, func(w string, _ int) string {
		return strings.ToUpper(w[:1]) + w[1:]
	}), " ")
}

func linkHandler(name, ref string) string {
	return fmt.Sprintf(":ref:`%s <%s>`", name, ref)
}

const tocFileName = "index.rst"

// generateTOC lists every generated page in index.rst
func generateTOC(outputDir string) error {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return fmt.Errorf("error reading output directory: %w", err)
	}
	pages := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		name := e.Name()
		return strings.TrimSuffix(name, ".rst"), filepath.Ext(name) == ".rst" && name != tocFileName
	})

	var sb strings.Builder
	sb.WriteString(`.. toctree::
   :maxdepth: 2
   :caption: CLI Reference:

`)
	for _, page := range pages {
		fmt.Fprintf(&sb, "   %s\n", page)
	}
	return os.WriteFile(filepath.Join(outputDir, tocFileName), []byte(sb.String()), 0o644)
}
