// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package presets is the preset resolution engine: an immutable store of the
// presets declared by one or more presets documents, inheritance flattening,
// configure preset relationships and the inheritance forest.
package presets

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/cmakepresets/cmakepresets/pkg/presetvalue"
	"github.com/samber/lo"
)

// Document is one parsed presets file.
type Document struct {
	Path    string
	Content presetvalue.Value
}

// Store indexes presets by type and name. It is never modified after
// construction, so it may be shared between goroutines.
type Store struct {
	presets map[presettype.Type][]*Preset
	index   map[presettype.Type]map[string]*Preset
}

// Parse decodes a single JSON presets document.
func Parse(data []byte) (*Store, error) {
	v, err := presetvalue.Parse(data)
	if err != nil {
		return nil, &SchemaError{Reason: "malformed JSON", Cause: err}
	}
	return Load(v)
}

// Load builds a store from one in-memory document.
func Load(document presetvalue.Value) (*Store, error) {
	return LoadDocuments(Document{Content: document})
}

// LoadDocuments builds a store from several documents, e.g. a presets file,
// its user presets file and their includes. Presets keep document order.
func LoadDocuments(docs ...Document) (*Store, error) {
	s := &Store{
		presets: map[presettype.Type][]*Preset{},
		index:   map[presettype.Type]map[string]*Preset{},
	}
	for _, t := range presettype.All {
		s.index[t] = map[string]*Preset{}
	}

	for _, doc := range docs {
		if err := s.add(doc); err != nil {
			return nil, err
		}
	}

	slog.Debug("loaded presets", lo.Map(presettype.All, func(t presettype.Type, _ int) any {
		return slog.Int(t.String(), len(s.presets[t]))
	})...)
	return s, nil
}

func (s *Store) add(doc Document) error {
	root, ok := doc.Content.AsObject()
	if !ok {
		return &SchemaError{File: doc.Path, Reason: fmt.Sprintf("expected a JSON object, got %s", doc.Content.Kind())}
	}

	for _, t := range presettype.All {
		raw, ok := root.Get(t.Key())
		if !ok {
			continue
		}
		items, ok := raw.AsList()
		if !ok {
			return &SchemaError{File: doc.Path, Path: t.Key(), Reason: fmt.Sprintf("expected an array, got %s", raw.Kind())}
		}

		for i, item := range items {
			path := fmt.Sprintf("%s[%d]", t.Key(), i)
			fields, ok := item.AsObject()
			if !ok {
				return &SchemaError{File: doc.Path, Path: path, Reason: fmt.Sprintf("expected an object, got %s", item.Kind())}
			}
			p := &Preset{Type: t, File: doc.Path, Fields: fields}
			if err := validatePreset(p, doc.Path, path); err != nil {
				return err
			}
			if prev, ok := s.index[t][p.Name()]; ok {
				return &SchemaError{
					File:   doc.Path,
					Path:   path,
					Reason: fmt.Sprintf("duplicate %s preset name %q (first declared in %s)", t, p.Name(), lo.Ternary(prev.File == "", "the same document", prev.File)),
				}
			}
			s.presets[t] = append(s.presets[t], p)
			s.index[t][p.Name()] = p
		}
	}
	return nil
}

func validatePreset(p *Preset, file, path string) error {
	name, ok := p.Fields.Get(NameField)
	if !ok {
		return &SchemaError{File: file, Path: path, Reason: "missing required field 'name'"}
	}
	if s, ok := name.AsString(); !ok || s == "" {
		return &SchemaError{File: file, Path: path + "." + NameField, Reason: "expected a non-empty string"}
	}

	inherits, ok := p.Fields.Get(InheritsField)
	if !ok {
		return nil
	}
	if _, ok := inherits.AsString(); ok {
		return nil
	}
	items, ok := inherits.AsList()
	if !ok {
		return &SchemaError{File: file, Path: path + "." + InheritsField, Reason: fmt.Sprintf("expected a string or an array of strings, got %s", inherits.Kind())}
	}
	for i, item := range items {
		if _, ok := item.AsString(); !ok {
			return &SchemaError{File: file, Path: fmt.Sprintf("%s.%s[%d]", path, InheritsField, i), Reason: fmt.Sprintf("expected a string, got %s", item.Kind())}
		}
	}
	return nil
}

// Get returns the raw preset. The result is shared with the store and must
// not be modified.
func (s *Store) Get(t presettype.Type, name string) (*Preset, error) {
	p, ok := s.index[t][name]
	if !ok {
		return nil, &NotFoundError{Type: t, Name: name}
	}
	return p, nil
}

// All returns the presets of one type in declaration order.
func (s *Store) All(t presettype.Type) []*Preset {
	return slices.Clone(s.presets[t])
}

// Find looks a name up in every preset type, in type order.
func (s *Store) Find(name string) (*Preset, error) {
	for _, t := range presettype.All {
		if p, ok := s.index[t][name]; ok {
			return p, nil
		}
	}
	return nil, &NotFoundError{Name: name}
}

// List summarizes the presets of the given types, all types when none are given.
func (s *Store) List(types ...presettype.Type) []Summary {
	if len(types) == 0 {
		types = presettype.All
	}
	return lo.FlatMap(types, func(t presettype.Type, _ int) []Summary {
		return lo.Map(s.presets[t], func(p *Preset, _ int) Summary {
			return p.Summary()
		})
	})
}

// Len counts the presets of one type.
func (s *Store) Len(t presettype.Type) int {
	return len(s.presets[t])
}
