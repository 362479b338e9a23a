// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package presets

import (
	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/cmakepresets/cmakepresets/pkg/presetvalue"
	"github.com/samber/lo"
)

const (
	NameField            = "name"
	InheritsField        = "inherits"
	HiddenField          = "hidden"
	DisplayNameField     = "displayName"
	DescriptionField     = "description"
	ConfigurePresetField = "configurePreset"
	CacheVariablesField  = "cacheVariables"
	EnvironmentField     = "environment"
	GeneratorField       = "generator"
	BinaryDirField       = "binaryDir"
	InstallDirField      = "installDir"
	StepsField           = "steps"
)

// Preset is one named preset record. Fields holds every key of the preset
// as written, including type specific and vendor keys.
type Preset struct {
	Type presettype.Type
	// File is the presets file that declared this preset, empty for in-memory documents
	File   string
	Fields *presetvalue.Object
}

func (p *Preset) Name() string {
	return p.stringField(NameField)
}

// Inherits normalizes the inherits field to an ordered list of names.
func (p *Preset) Inherits() []string {
	v, ok := p.Fields.Get(InheritsField)
	if !ok {
		return nil
	}
	if s, ok := v.AsString(); ok {
		return []string{s}
	}
	items, _ := v.AsList()
	return lo.FilterMap(items, func(item presetvalue.Value, _ int) (string, bool) {
		return item.AsString()
	})
}

func (p *Preset) Hidden() bool {
	v, ok := p.Fields.Get(HiddenField)
	if !ok {
		return false
	}
	b, _ := v.AsBool()
	return b
}

func (p *Preset) DisplayName() string {
	return p.stringField(DisplayNameField)
}

func (p *Preset) Description() string {
	return p.stringField(DescriptionField)
}

// ConfigurePreset returns the preset's own configurePreset field.
func (p *Preset) ConfigurePreset() (string, bool) {
	v, ok := p.Fields.Get(ConfigurePresetField)
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (p *Preset) Get(key string) (presetvalue.Value, bool) {
	return p.Fields.Get(key)
}

func (p *Preset) Clone() *Preset {
	return &Preset{Type: p.Type, File: p.File, Fields: p.Fields.Clone()}
}

func (p *Preset) MarshalJSON() ([]byte, error) {
	return p.Fields.MarshalJSON()
}

func (p *Preset) MarshalYAML() (interface{}, error) {
	return p.Fields.MarshalYAML()
}

func (p *Preset) stringField(key string) string {
	v, ok := p.Fields.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.AsString()
	return s
}

// Summary is the short description of a preset used by listings.
type Summary struct {
	Type            presettype.Type `json:"type" yaml:"type"`
	Name            string          `json:"name" yaml:"name"`
	DisplayName     string          `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description     string          `json:"description,omitempty" yaml:"description,omitempty"`
	Hidden          bool            `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Inherits        []string        `json:"inherits,omitempty" yaml:"inherits,omitempty"`
	ConfigurePreset string          `json:"configurePreset,omitempty" yaml:"configurePreset,omitempty"`
	File            string          `json:"file,omitempty" yaml:"file,omitempty"`
}

func (p *Preset) Summary() Summary {
	configurePreset, _ := p.ConfigurePreset()
	return Summary{
		Type:            p.Type,
		Name:            p.Name(),
		DisplayName:     p.DisplayName(),
		Description:     p.Description(),
		Hidden:          p.Hidden(),
		Inherits:        p.Inherits(),
		ConfigurePreset: configurePreset,
		File:            p.File,
	}
}
