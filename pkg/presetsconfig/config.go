// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package presetsconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cmakepresets/cmakepresets/pkg/utils"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

const (
	ConfigFileName = "config.yaml"

	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"

	DefaultLogLevel = "error"
)

var (
	OutputFormats = []string{OutputTable, OutputJSON, OutputYAML}

	ErrUnknownOutput = fmt.Errorf("unknown output format")
)

type Config struct {
	HomePath string `yaml:"-"`

	// Output is the default output format of every command
	Output     string `yaml:"output,omitempty"`
	ShowHidden bool   `yaml:"show-hidden,omitempty"`
	LogLevel   string `yaml:"log-level,omitempty"`
	NoColor    bool   `yaml:"no-color,omitempty"`
}

// ValidateOutput rejects output formats other than table, json and yaml
func ValidateOutput(output string) error {
	if !lo.Contains(OutputFormats, output) {
		return fmt.Errorf("%w %q, must be one of %v", ErrUnknownOutput, output, OutputFormats)
	}
	return nil
}

func Get() (*Config, error) {
	homePath, err := getHomePath()
	if err != nil {
		return nil, err
	}
	return GetWithCustomHome(homePath)
}

func GetWithCustomHome(homePath string) (*Config, error) {
	config := Config{}

	// config.yaml is optional
	configFilePath := filepath.Join(homePath, ConfigFileName)
	fileInfo, err := os.Stat(configFilePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		if fileInfo.IsDir() {
			return nil, fmt.Errorf("%q is directory and not a file", configFilePath)
		}

		bytes, err := os.ReadFile(configFilePath)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(bytes, &config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", configFilePath, err)
		}
		slog.Debug("read config file", "path", configFilePath)
	}

	if output, ok := os.LookupEnv(OutputEnvVar); ok && output != "" {
		config.Output = output
	}
	if config.Output == "" {
		config.Output = OutputTable
	}
	if err := ValidateOutput(config.Output); err != nil {
		return nil, err
	}

	showHidden, ok, err := utils.BoolEnvVar(ShowHiddenEnvVar)
	if err != nil {
		return nil, err
	}
	if ok {
		config.ShowHidden = showHidden
	}

	if utils.StringEnvVar(NoColorEnvVar, "") != "" {
		config.NoColor = true
	}

	config.LogLevel = utils.StringEnvVar(LogLevelEnvVar, lo.CoalesceOrEmpty(config.LogLevel, DefaultLogLevel))

	config.HomePath = homePath
	return &config, nil
}

func getHomePath() (string, error) {
	if v, ok := os.LookupEnv(HomeEnvVar); ok && v != "" {
		return v, nil
	}

	return getAppUserDataDirectory("cmakepresets")
}

func getAppUserDataDirectory(appName string) (string, error) {
	switch runtime.GOOS {
	case "windows":
		dir, ok := os.LookupEnv("APPDATA")
		if !ok {
			return "", fmt.Errorf("APPDATA environment variable is not set")
		}
		return filepath.Join(dir, appName), nil
	default:
		dir, ok := os.LookupEnv("HOME")
		if !ok {
			return "", fmt.Errorf("HOME environment variable is not set")
		}
		return filepath.Join(dir, "."+appName), nil
	}
}
