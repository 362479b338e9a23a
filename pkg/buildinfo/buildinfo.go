// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package buildinfo

import (
	"github.com/cmakepresets/cmakepresets/pkg/schemaversion"
)

// To be populated at build-time, e.g.:
// go build -ldflags "-X 'github.com/cmakepresets/cmakepresets/pkg/buildinfo.Version=1.2.3'"
var (
	Version   string
	Build     string
	BuildDate string
)

type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Build     string `json:"build" yaml:"build"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	// SchemaVersions lists the presets schema versions this build understands
	SchemaVersions []int `json:"schemaVersions" yaml:"schemaVersions,flow"`
}

func defaultUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func Get() VersionInfo {
	return VersionInfo{
		Version:        defaultUnknown(Version),
		Build:          defaultUnknown(Build),
		BuildDate:      defaultUnknown(BuildDate),
		SchemaVersions: supportedSchemaVersions(),
	}
}

func supportedSchemaVersions() []int {
	var versions []int
	for _, v := range schemaversion.Known() {
		if v >= schemaversion.Minimum {
			versions = append(versions, v)
		}
	}
	return versions
}
