// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package presets

import (
	"log/slog"

	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/samber/lo"
)

// FindRelated returns, per requested type, the presets that build on the
// given configure preset. Without types it searches build, test and package
// presets; workflow presets are searched only when asked for.
//
// A preset matches when its own configurePreset field names the configure
// preset. A preset without its own configurePreset that inherits one matches
// on its flattened value. A workflow matches when its configure step names the
// configure preset.
func (s *Store) FindRelated(configureName string, types ...presettype.Type) (map[presettype.Type][]*Preset, error) {
	if _, err := s.Get(presettype.Configure, configureName); err != nil {
		return nil, err
	}
	if len(types) == 0 {
		types = presettype.Downstream
	}

	related := make(map[presettype.Type][]*Preset, len(types))
	for _, t := range types {
		if t == presettype.Configure {
			return nil, ErrConfigureNotRelated
		}
		related[t] = lo.Filter(s.presets[t], func(p *Preset, _ int) bool {
			return s.references(p, configureName)
		})
	}
	return related, nil
}

// references reports whether p builds on the configure preset. A preset whose
// inheritance cannot be flattened references nothing.
func (s *Store) references(p *Preset, configureName string) bool {
	if p.Type == presettype.Workflow {
		return workflowConfigurePreset(p) == configureName
	}

	if _, ok := p.Fields.Get(ConfigurePresetField); ok {
		name, _ := p.ConfigurePreset()
		return name == configureName
	}
	if len(p.Inherits()) == 0 {
		return false
	}

	flat, err := s.Flatten(p.Type, p.Name())
	if err != nil {
		slog.Warn("cannot resolve configurePreset", "type", p.Type, "preset", p.Name(), "err", err)
		return false
	}
	name, _ := flat.ConfigurePreset()
	return name == configureName
}

// workflowConfigurePreset returns the name of the first configure step.
func workflowConfigurePreset(p *Preset) string {
	v, ok := p.Fields.Get(StepsField)
	if !ok {
		return ""
	}
	steps, _ := v.AsList()
	for _, step := range steps {
		obj, ok := step.AsObject()
		if !ok {
			continue
		}
		typ, _ := obj.Get("type")
		if s, _ := typ.AsString(); s != presettype.Configure.String() {
			continue
		}
		name, _ := obj.Get(NameField)
		s, _ := name.AsString()
		return s
	}
	return ""
}

// Dependents pairs a configure preset with the presets that build on it.
type Dependents struct {
	Configure *Preset
	Related   map[presettype.Type][]*Preset
}

func (d Dependents) Count(t presettype.Type) int {
	return len(d.Related[t])
}

// AllDependents computes the related presets of every configure preset, in
// declaration order.
func (s *Store) AllDependents(types ...presettype.Type) ([]Dependents, error) {
	var err error
	result := lo.Map(s.presets[presettype.Configure], func(p *Preset, _ int) Dependents {
		if err != nil {
			return Dependents{}
		}
		var related map[presettype.Type][]*Preset
		related, err = s.FindRelated(p.Name(), types...)
		return Dependents{Configure: p, Related: related}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
