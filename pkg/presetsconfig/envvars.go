// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package presetsconfig

const (
	HomeEnvVar       = "CMAKEPRESETS_HOME"
	OutputEnvVar     = "CMAKEPRESETS_OUTPUT"
	ShowHiddenEnvVar = "CMAKEPRESETS_SHOW_HIDDEN"
	LogLevelEnvVar   = "CMAKEPRESETS_LOG_LEVEL"

	// NoColorEnvVar follows https://no-color.org: any non-empty value disables colors
	NoColorEnvVar = "NO_COLOR"
)
