// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cmakepresets/cmakepresets/pkg/presetsconfig"
	"github.com/cmakepresets/cmakepresets/pkg/utils"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TestdataPath gives absolute path within the common 'testdata'
func TestdataPath(t *testing.T, path ...string) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	p := []string{filepath.Dir(file), "testdata"}
	p = append(p, path...)
	return filepath.Join(p...)
}

// WriteFiles creates files below dir, keyed by slash separated relative path
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

type CommonSetupSuite struct {
	suite.Suite
}

func (suite *CommonSetupSuite) SetupTest() {
	// point CMAKEPRESETS_HOME to a randomized temp dir before every test,
	// otherwise a config.yaml in the real ~/.cmakepresets leaks into the tests.
	tmpHome, deleteFn, err := utils.MkdirTemp("", "")
	suite.Require().NoError(err)
	suite.T().Setenv(presetsconfig.HomeEnvVar, tmpHome)
	for _, v := range []string{presetsconfig.OutputEnvVar, presetsconfig.ShowHiddenEnvVar, presetsconfig.LogLevelEnvVar, presetsconfig.NoColorEnvVar} {
		suite.T().Setenv(v, "")
		os.Unsetenv(v)
	}
	suite.T().Cleanup(func() {
		deleteFn()
	})
}

func Context(t *testing.T) context.Context {
	ctx, stopFn := context.WithCancel(context.Background())
	t.Cleanup(stopFn)
	return ctx
}
