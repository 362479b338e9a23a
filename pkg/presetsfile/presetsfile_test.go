// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package presetsfile

import (
	"path/filepath"
	"testing"

	"github.com/cmakepresets/cmakepresets/pkg/presets"
	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/cmakepresets/cmakepresets/pkg/testutil"
	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenProject(t *testing.T) {
	dir := testutil.TestdataPath(t, "project")

	p, err := Open(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, p.Root.SourceDir)
	assert.Equal(t, filepath.Join(dir, PresetsFileName), p.Root.PresetsFile)
	assert.Equal(t, filepath.Join(dir, UserPresetsFileName), p.Root.UserPresetsFile)
	assert.Equal(t, 6, p.Version)
	require.NotNil(t, p.CMakeMinimumRequired)
	assert.Equal(t, "3.25.0", p.CMakeMinimumRequired.String())
	assert.Equal(t, []string{
		filepath.Join(dir, PresetsFileName),
		filepath.Join(dir, UserPresetsFileName),
		filepath.Join(dir, "presets", "common.json"),
		filepath.Join(dir, "presets", "base.json"),
	}, p.Files)

	mine, err := p.Store.Get(presettype.Build, "my-build")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, UserPresetsFileName), mine.File)

	flat, err := p.Store.Flatten(presettype.Configure, "dev")
	require.NoError(t, err)
	generator, _ := flat.Get(presets.GeneratorField)
	assert.Equal(t, "Ninja", generator.String())

	common, err := p.Store.Get(presettype.Configure, "common")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "presets", "common.json"), common.File)
}

func TestOpenPresetsFile(t *testing.T) {
	file := testutil.TestdataPath(t, "project", PresetsFileName)

	p, err := Open(file)
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(file), p.Root.SourceDir)
	assert.Equal(t, file, p.Root.PresetsFile)
}

func TestLocateGitWorktreeFallback(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	testutil.WriteFiles(t, dir, map[string]string{
		PresetsFileName: `{"version": 3, "configurePresets": [{"name": "dev"}]}`,
		"src/lib/a.cpp": "",
	})

	root, err := Locate(filepath.Join(dir, "src", "lib"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, PresetsFileName), root.PresetsFile)
	assert.Equal(t, dir, root.SourceDir)
	assert.Empty(t, root.UserPresetsFile)
	assert.Equal(t, filepath.Join("src", "lib", "a.cpp"), root.RelativePath(filepath.Join(dir, "src", "lib", "a.cpp")))
	assert.Equal(t, "/elsewhere", root.RelativePath("/elsewhere"))
}

func TestLocateNoPresets(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	testutil.WriteFiles(t, dir, map[string]string{"src/a.cpp": ""})

	_, err = Locate(filepath.Join(dir, "src"))
	assert.ErrorIs(t, err, ErrNoPresetsFile)

	_, err = Locate(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestOpenVersionChecks(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		sentinel error
	}{
		{name: "too old", content: `{"version": 1, "configurePresets": []}`, sentinel: ErrUnsupportedVersion},
		{name: "missing", content: `{"configurePresets": []}`, sentinel: ErrUnsupportedVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.WriteFiles(t, dir, map[string]string{PresetsFileName: tt.content})

			_, err := Open(dir)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{PresetsFileName: `{"version": "six"}`})
	_, err := Open(dir)
	var schemaErr *presets.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "version", schemaErr.Path)
}

func TestOpenUserPresetsVersion(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		PresetsFileName:     `{"version": 4}`,
		UserPresetsFileName: `{"version": 1}`,
	})

	_, err := Open(dir)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
	assert.ErrorContains(t, err, UserPresetsFileName)
}

func TestOpenMalformed(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{PresetsFileName: `{"version": 4, "configurePresets": [`})

	_, err := Open(dir)
	var schemaErr *presets.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, filepath.Join(dir, PresetsFileName), schemaErr.File)

	testutil.WriteFiles(t, dir, map[string]string{PresetsFileName: `[]`})
	_, err = Open(dir)
	require.ErrorAs(t, err, &schemaErr)
}

func TestOpenIncludeErrors(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{PresetsFileName: `{"version": 4, "include": ["missing.json"]}`})
	_, err := Open(dir)
	assert.ErrorContains(t, err, "missing.json")

	testutil.WriteFiles(t, dir, map[string]string{PresetsFileName: `{"version": 4, "include": [3]}`})
	_, err = Open(dir)
	var schemaErr *presets.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "include[0]", schemaErr.Path)

	testutil.WriteFiles(t, dir, map[string]string{
		PresetsFileName: `{"version": 4, "include": ["dup.json"], "configurePresets": [{"name": "a"}]}`,
		"dup.json":      `{"version": 4, "configurePresets": [{"name": "a"}]}`,
	})
	_, err = Open(dir)
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, filepath.Join(dir, "dup.json"), schemaErr.File)
}

func TestOpenOldMinimumRequiredOnlyWarns(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		PresetsFileName: `{
			"version": 6,
			"cmakeMinimumRequired": {"major": 3, "minor": 20},
			"configurePresets": [{"name": "dev"}]
		}`,
	})

	p, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, "3.20.0", p.CMakeMinimumRequired.String())
	assert.Equal(t, 1, p.Store.Len(presettype.Configure))

	testutil.WriteFiles(t, dir, map[string]string{
		PresetsFileName: `{"version": 6, "cmakeMinimumRequired": {"major": -3}}`,
	})
	_, err = Open(dir)
	var schemaErr *presets.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "cmakeMinimumRequired.major", schemaErr.Path)
}
