// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package presettype

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type Type string

const (
	Configure Type = "configure"
	Build     Type = "build"
	Test      Type = "test"
	Package   Type = "package"
	Workflow  Type = "workflow"
)

// All preset types in document order
var All = []Type{Configure, Build, Test, Package, Workflow}

// Downstream types reference a configure preset through their configurePreset field
var Downstream = []Type{Build, Test, Package}

// Key is the top-level document key holding presets of this type, e.g. "configurePresets"
func (t Type) Key() string {
	return string(t) + "Presets"
}

func (t Type) String() string {
	return string(t)
}

// Title is the capitalized type name, e.g. "Configure"
func (t Type) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

func Parse(s string) (Type, error) {
	t := Type(strings.ToLower(s))
	if !lo.Contains(All, t) {
		return "", fmt.Errorf("unknown preset type %q. expected one of: %s", s, strings.Join(Names(), ", "))
	}
	return t, nil
}

func Names() []string {
	return lo.Map(All, func(t Type, _ int) string {
		return string(t)
	})
}
