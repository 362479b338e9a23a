// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cmakepresets/cmakepresets/pkg/builtincommand"
	"github.com/cmakepresets/cmakepresets/pkg/inspector"
	"github.com/cmakepresets/cmakepresets/pkg/presets"
	"github.com/cmakepresets/cmakepresets/pkg/presetsconfig"
	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/cmakepresets/cmakepresets/pkg/presetview"
	"github.com/cmakepresets/cmakepresets/pkg/testutil"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MainSuite struct {
	testutil.CommonSetupSuite
}

func TestSuite(t *testing.T) {
	suite.Run(t, &MainSuite{})
}

func (suite *MainSuite) SetupTest() {
	suite.CommonSetupSuite.SetupTest()
	suite.T().Setenv(presetsconfig.NoColorEnvVar, "1")
}

func (suite *MainSuite) TestBuiltinCommandsAreRegistered() {
	t := suite.T()
	cmd, _, _ := createTestRootCmd(t)

	names := lo.Map(cmd.Commands(), func(c *cobra.Command, _ int) string { return c.Name() })
	for _, c := range builtincommand.BuiltinCommands {
		assert.Contains(t, names, string(c))
	}
}

func (suite *MainSuite) TestVersion() {
	t := suite.T()

	output, err := run(t, "--version")
	require.NoError(t, err)

	info := map[string]any{}
	require.NoError(t, yaml.Unmarshal([]byte(output), &info))
	assert.Equal(t, "unknown", info["version"])
	assert.Contains(t, info, "schemaVersions")
}

func (suite *MainSuite) TestListTable() {
	t := suite.T()

	output, err := run(t, "-d", projectDir(t), "list")
	require.NoError(t, err)
	assert.Contains(t, output, "CMake Presets")
	assert.Contains(t, output, "dev (2 builds)")
	assert.Contains(t, output, "dev-build")
	assert.Contains(t, output, "my-build")
	assert.Contains(t, output, "dev-test")
	assert.NotContains(t, output, "common")

	output, err = run(t, "-d", projectDir(t), "list", "--show-hidden")
	require.NoError(t, err)
	assert.Contains(t, output, "common")
	assert.Contains(t, output, "base")
}

func (suite *MainSuite) TestListFlat() {
	t := suite.T()

	output, err := run(t, "-d", projectDir(t), "list", "--flat")
	require.NoError(t, err)
	assert.Contains(t, output, "Configure Presets:")
	assert.Contains(t, output, "• dev\n    Developer build")
	assert.Contains(t, output, "Test Presets:")
	assert.NotContains(t, output, "Package Presets:")

	output, err = run(t, "-d", projectDir(t), "list", "-t", "build")
	require.NoError(t, err)
	assert.Contains(t, output, "Build Presets:")
	assert.NotContains(t, output, "Configure Presets:")
}

func (suite *MainSuite) TestListJSON() {
	t := suite.T()

	output, err := run(t, "-f", filepath.Join(projectDir(t), "CMakePresets.json"), "list", "-t", "build", "-o", "json")
	require.NoError(t, err)

	var summaries []presets.Summary
	require.NoError(t, json.Unmarshal([]byte(output), &summaries))
	assert.Equal(t, []string{"dev-build", "my-build"}, lo.Map(summaries, func(s presets.Summary, _ int) string { return s.Name }))
	assert.Equal(t, "dev", summaries[1].ConfigurePreset)
}

func (suite *MainSuite) TestListOutputFromConfigFile() {
	t := suite.T()
	home := os.Getenv(presetsconfig.HomeEnvVar)
	testutil.WriteFiles(t, home, map[string]string{presetsconfig.ConfigFileName: "output: yaml\nshow-hidden: true\n"})

	output, err := run(t, "-d", projectDir(t), "list", "-t", "configure")
	require.NoError(t, err)

	var summaries []presets.Summary
	require.NoError(t, yaml.Unmarshal([]byte(output), &summaries))
	assert.Len(t, summaries, 3)
}

func (suite *MainSuite) TestListInvalidFlags() {
	t := suite.T()

	_, err := run(t, "-d", projectDir(t), "list", "-t", "install")
	assert.ErrorContains(t, err, "unknown preset type")

	_, err = run(t, "-d", projectDir(t), "list", "-o", "xml")
	assert.ErrorIs(t, err, presetsconfig.ErrUnknownOutput)

	_, err = run(t, "-d", projectDir(t), "-f", "CMakePresets.json", "list")
	assert.Error(t, err)
}

func (suite *MainSuite) TestShow() {
	t := suite.T()

	output, err := run(t, "-d", projectDir(t), "show", "dev")
	require.NoError(t, err)
	assert.Contains(t, output, "Preset: dev (configure)")
	assert.Contains(t, output, "Inheritance tree:")

	generator := lineContaining(t, output, "generator")
	assert.Contains(t, generator, "Ninja")
	assert.Contains(t, generator, "base")
	installDir := lineContaining(t, output, "installDir")
	assert.Contains(t, installDir, "common")
	assert.NotContains(t, lineContaining(t, output, "binaryDir"), "common")
}

func (suite *MainSuite) TestShowFlattenJSON() {
	t := suite.T()

	output, err := run(t, "-d", projectDir(t), "show", "dev", "--flatten", "--json")
	require.NoError(t, err)

	preset := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(output), &preset))
	assert.Equal(t, "dev", preset["name"])
	assert.Equal(t, "Ninja", preset["generator"])
	assert.Equal(t, "${fileDir}/install", preset["installDir"])
	assert.NotContains(t, preset, "inherits")
	assert.NotContains(t, preset, "hidden")
}

func (suite *MainSuite) TestShowResolve() {
	t := suite.T()
	dir := projectDir(t)

	output, err := run(t, "-d", dir, "show", "dev", "--resolve", "-o", "json")
	require.NoError(t, err)

	preset := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(output), &preset))
	assert.Equal(t, dir+"/build/dev", preset["binaryDir"])
	assert.Equal(t, map[string]any{"TOOLS": "/home/tester/tools"}, preset["environment"])

	output, err = run(t, "-d", dir, "show", "dev", "--resolve", "--binary-dir", "/tmp/out", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(output), &preset))
	assert.Equal(t, "/tmp/out", preset["binaryDir"])

	output, err = run(t, "-d", dir, "show", "dev", "--resolve")
	require.NoError(t, err)
	assert.Contains(t, output, "(resolved)")
	assert.NotContains(t, output, "Inheritance tree:")
}

func (suite *MainSuite) TestShowErrors() {
	t := suite.T()

	output, err := run(t, "-d", projectDir(t), "show", "ghost", "-o", "json")
	require.Error(t, err)
	report := presets.ErrorReport{}
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	assert.Equal(t, presets.NotFoundErrorCode, report.Code)
	assert.Equal(t, "ghost", report.Name)

	output, err = run(t, "-d", projectDir(t), "show", "dev", "--type", "build")
	var notFound *presets.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, output, "Error:")

	_, err = run(t, "-d", projectDir(t), "show", "dev", "--json", "-o", "yaml")
	assert.Error(t, err)
}

func (suite *MainSuite) TestShowCycleReport() {
	t := suite.T()
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"CMakePresets.json": `{"version": 6, "configurePresets": [
			{"name": "a", "inherits": "b"},
			{"name": "b", "inherits": "a"}
		]}`,
	})

	output, err := run(t, "-d", dir, "show", "a", "--flatten", "-o", "yaml")
	require.Error(t, err)
	report := presets.ErrorReport{}
	require.NoError(t, yaml.Unmarshal([]byte(output), &report))
	assert.Equal(t, presets.CycleErrorCode, report.Code)
	assert.Equal(t, []string{"a", "b", "a"}, report.Cycle)
}

func (suite *MainSuite) TestRelated() {
	t := suite.T()

	output, err := run(t, "-d", projectDir(t), "related", "dev")
	require.NoError(t, err)
	assert.Contains(t, output, "Build Presets (2):")
	assert.Contains(t, output, "• my-build")
	assert.Contains(t, output, "Test Presets (1):")
	assert.Contains(t, output, "Package Presets (0):")

	output, err = run(t, "-d", projectDir(t), "related", "dev", "-t", "test,workflow", "-o", "json")
	require.NoError(t, err)
	related := presetview.RelatedOutput{}
	require.NoError(t, json.Unmarshal([]byte(output), &related))
	assert.Equal(t, "dev", related.ConfigurePreset)
	assert.Equal(t, []string{"dev-test"}, related.Related[presettype.Test])
	assert.Empty(t, related.Related[presettype.Workflow])
	assert.NotContains(t, related.Related, presettype.Build)

	_, err = run(t, "-d", projectDir(t), "related", "dev-build")
	var notFound *presets.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func (suite *MainSuite) TestTree() {
	t := suite.T()

	output, err := run(t, "-d", projectDir(t), "tree")
	require.NoError(t, err)
	assert.Contains(t, output, "Configure Presets:")
	base, common, dev := strings.Index(output, "base"), strings.Index(output, "common"), strings.Index(output, "dev")
	assert.Less(t, base, common)
	assert.Less(t, common, dev)

	output, err = run(t, "-d", projectDir(t), "tree", "-t", "all", "-o", "json")
	require.NoError(t, err)
	var forests []presets.Forest
	require.NoError(t, json.Unmarshal([]byte(output), &forests))
	require.Len(t, forests, 5)
	assert.Equal(t, []string{"base"}, forests[0].Roots)
	assert.Equal(t, []string{"dev-build", "my-build"}, forests[1].Roots)
	assert.Empty(t, forests[4].Roots)
}

func (suite *MainSuite) TestNoPresetsFile() {
	t := suite.T()

	_, err := run(t, "-d", t.TempDir(), "list")
	assert.Error(t, err)
}

func projectDir(t *testing.T) string {
	return testutil.TestdataPath(t, "project")
}

func lineContaining(t *testing.T, output, s string) string {
	line, ok := lo.Find(strings.Split(output, "\n"), func(l string) bool {
		return strings.HasPrefix(strings.TrimSpace(l), s)
	})
	require.True(t, ok, "no line starting with %q in\n%s", s, output)
	return line
}

// run executes the root command and returns what it wrote to stdout and stderr
func run(t *testing.T, args ...string) (string, error) {
	cmd, r, w := createTestRootCmd(t, args...)
	execErr := cmd.Execute()
	require.NoError(t, w.Close())

	output, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(output), execErr
}

func createTestRootCmd(t *testing.T, args ...string) (rootCmd *cobra.Command, r *os.File, w *os.File) {
	ctx := testutil.Context(t)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})

	in := inspector.Inspector{
		Stderr:  w,
		Stdout:  w,
		Stdin:   nil,
		OsArgs:  append([]string{CmakePresetsName}, args...),
		Environ: []string{"HOME=/home/tester"},
	}

	rootCmd, err = RootCmd(ctx, &in)
	require.NoError(t, err)

	return
}
