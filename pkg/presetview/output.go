// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package presetview

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cmakepresets/cmakepresets/pkg/presets"
	"github.com/cmakepresets/cmakepresets/pkg/presetsconfig"
	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

// Marshal renders v as json or yaml.
func Marshal(output string, v any) (string, error) {
	switch output {
	case presetsconfig.OutputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case presetsconfig.OutputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(string(data), "\n"), nil
	}
	return "", fmt.Errorf("%w: %s", presetsconfig.ErrUnknownOutput, output)
}

// RelatedOutput is the machine readable form of a FindRelated result.
type RelatedOutput struct {
	ConfigurePreset string                       `json:"configurePreset" yaml:"configurePreset"`
	Related         map[presettype.Type][]string `json:"related" yaml:"related"`
}

func NewRelatedOutput(configureName string, related map[presettype.Type][]*presets.Preset) RelatedOutput {
	return RelatedOutput{
		ConfigurePreset: configureName,
		Related: lo.MapValues(related, func(ps []*presets.Preset, _ presettype.Type) []string {
			return lo.Map(ps, func(p *presets.Preset, _ int) string { return p.Name() })
		}),
	}
}

// FilterSummaries drops hidden presets unless showHidden is set.
func FilterSummaries(summaries []presets.Summary, showHidden bool) []presets.Summary {
	return lo.Filter(summaries, func(s presets.Summary, _ int) bool {
		return showHidden || !s.Hidden
	})
}
