// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package presets

import (
	"testing"

	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const relatedDoc = `{
  "configurePresets": [
    {"name": "my-config"},
    {"name": "other"}
  ],
  "buildPresets": [
    {"name": "direct", "configurePreset": "my-config"},
    {"name": "build-base", "hidden": true, "configurePreset": "my-config"},
    {"name": "inherited", "inherits": "build-base"},
    {"name": "overridden", "inherits": "build-base", "configurePreset": "other"}
  ],
  "testPresets": [
    {"name": "other-tests", "configurePreset": "other"}
  ],
  "workflowPresets": [
    {"name": "ci", "steps": [
      {"type": "configure", "name": "my-config"},
      {"type": "build", "name": "direct"}
    ]}
  ]
}`

func names(ps []*Preset) []string {
	return lo.Map(ps, func(p *Preset, _ int) string { return p.Name() })
}

func TestFindRelatedDirectReference(t *testing.T) {
	s := mustParse(t, `{
		"configurePresets": [{"name": "my-config"}],
		"buildPresets": [{"name": "b", "configurePreset": "my-config"}]
	}`)

	related, err := s.FindRelated("my-config")
	require.NoError(t, err)
	require.Len(t, related, 3)
	assert.Equal(t, []string{"b"}, names(related[presettype.Build]))
	assert.Empty(t, related[presettype.Test])
	assert.NotNil(t, related[presettype.Test])
	assert.Empty(t, related[presettype.Package])
}

func TestFindRelatedInheritedReference(t *testing.T) {
	s := mustParse(t, relatedDoc)

	related, err := s.FindRelated("my-config")
	require.NoError(t, err)
	assert.Equal(t, []string{"direct", "build-base", "inherited"}, names(related[presettype.Build]))
	assert.Empty(t, related[presettype.Test])
	assert.NotContains(t, related, presettype.Workflow)

	related, err = s.FindRelated("other")
	require.NoError(t, err)
	assert.Equal(t, []string{"overridden"}, names(related[presettype.Build]))
	assert.Equal(t, []string{"other-tests"}, names(related[presettype.Test]))
}

func TestFindRelatedWorkflow(t *testing.T) {
	s := mustParse(t, relatedDoc)

	related, err := s.FindRelated("my-config", presettype.Workflow)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, []string{"ci"}, names(related[presettype.Workflow]))

	related, err = s.FindRelated("other", presettype.Workflow)
	require.NoError(t, err)
	assert.Empty(t, related[presettype.Workflow])
}

func TestFindRelatedErrors(t *testing.T) {
	s := mustParse(t, relatedDoc)

	_, err := s.FindRelated("ghost")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, presettype.Configure, notFound.Type)

	_, err = s.FindRelated("my-config", presettype.Configure)
	assert.ErrorIs(t, err, ErrConfigureNotRelated)
}

func TestFindRelatedSkipsUnresolvableInheritance(t *testing.T) {
	s := mustParse(t, `{
		"configurePresets": [{"name": "my-config"}],
		"buildPresets": [
			{"name": "b1", "configurePreset": "my-config"},
			{"name": "broken", "inherits": "ghost"}
		]
	}`)

	related, err := s.FindRelated("my-config")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, names(related[presettype.Build]))

	deps, err := s.AllDependents()
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, 1, deps[0].Count(presettype.Build))
}

func TestAllDependents(t *testing.T) {
	s := mustParse(t, relatedDoc)

	deps, err := s.AllDependents()
	require.NoError(t, err)
	require.Len(t, deps, 2)

	assert.Equal(t, "my-config", deps[0].Configure.Name())
	assert.Equal(t, 3, deps[0].Count(presettype.Build))
	assert.Equal(t, 0, deps[0].Count(presettype.Test))

	assert.Equal(t, "other", deps[1].Configure.Name())
	assert.Equal(t, 1, deps[1].Count(presettype.Build))
	assert.Equal(t, 1, deps[1].Count(presettype.Test))
}
