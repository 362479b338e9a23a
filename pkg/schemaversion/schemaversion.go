// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package schemaversion

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"
)

const (
	// Minimum is the oldest presets version with inherits, hidden and configurePreset
	Minimum = 2
	// Latest is the newest presets version with a known CMake release
	Latest = 10
)

var (
	ErrUnknownVersion = errors.New("unknown presets schema version")
	ErrCMakeTooOld    = errors.New("cmakeMinimumRequired is older than the presets version requires")
)

// cmake release that introduced each presets schema version
var cmakeVersions = map[int]*semver.Version{
	1:  semver.New(3, 19, 0, "", ""),
	2:  semver.New(3, 20, 0, "", ""),
	3:  semver.New(3, 21, 0, "", ""),
	4:  semver.New(3, 23, 0, "", ""),
	5:  semver.New(3, 24, 0, "", ""),
	6:  semver.New(3, 25, 0, "", ""),
	7:  semver.New(3, 27, 0, "", ""),
	8:  semver.New(3, 28, 0, "", ""),
	9:  semver.New(3, 30, 0, "", ""),
	10: semver.New(3, 31, 0, "", ""),
}

// first presets version allowing each top-level field
var topLevelFields = map[string]int{
	"version":              1,
	"cmakeMinimumRequired": 1,
	"vendor":               1,
	"configurePresets":     1,
	"buildPresets":         2,
	"testPresets":          2,
	"include":              4,
	"packagePresets":       6,
	"workflowPresets":      6,
	"$schema":              8,
}

// RequiredCMake returns the CMake release that introduced a presets version.
func RequiredCMake(version int) (*semver.Version, error) {
	v, ok := cmakeVersions[version]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownVersion, version)
	}
	return v, nil
}

// Known lists the presets versions with a known CMake release, ascending.
func Known() []int {
	versions := lo.Keys(cmakeVersions)
	slices.Sort(versions)
	return versions
}

// CheckMinimumRequired verifies that a document's cmakeMinimumRequired is
// recent enough for its presets version. A nil minimum is never an error.
func CheckMinimumRequired(version int, minimum *semver.Version) error {
	required, err := RequiredCMake(version)
	if err != nil {
		return err
	}
	if minimum == nil || !minimum.LessThan(required) {
		return nil
	}
	return fmt.Errorf("%w: presets version %d requires CMake %s or higher, but cmakeMinimumRequired is %s",
		ErrCMakeTooOld, version, required, minimum)
}

// FieldsTooNew returns the top-level fields that need a newer presets
// version, mapped to the first version that allows them.
func FieldsTooNew(version int, fields []string) map[string]int {
	return lo.PickBy(lo.SliceToMap(fields, func(f string) (string, int) {
		return f, topLevelFields[f]
	}), func(_ string, introduced int) bool {
		return introduced > version
	})
}
