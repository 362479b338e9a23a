// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package presets

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/cmakepresets/cmakepresets/pkg/presetvalue"
	"github.com/cmakepresets/cmakepresets/pkg/utils/stringset"
	"github.com/samber/lo"
)

// accumulatedFields are merged key by key along the inheritance chain
var accumulatedFields = []string{CacheVariablesField, EnvironmentField}

// only the preset's own value of these fields survives flattening
var ownOnlyFields = []string{NameField, HiddenField}

// Flatten merges a preset with all of its ancestors.
//
// Merge rules:
//   - ancestors are flattened depth-first and applied in inherits order,
//     then the preset itself; later values replace earlier ones
//   - cacheVariables and environment are merged key by key, later keys win
//   - inherits is dropped, name and hidden are never inherited
//
// The result shares no data with the store.
func (s *Store) Flatten(t presettype.Type, name string) (*Preset, error) {
	p, err := s.Get(t, name)
	if err != nil {
		return nil, err
	}
	r, err := s.newFlattener(t).flatten(name, "")
	if err != nil {
		return nil, err
	}
	return &Preset{Type: t, File: p.File, Fields: r.fields}, nil
}

// Provenance maps every field path of the flattened preset to the name of the
// preset that supplied its value. Nested paths look like "cacheVariables.FOO"
// or "vendor.acme/tool[0].mode".
func (s *Store) Provenance(t presettype.Type, name string) (map[string]string, error) {
	if _, err := s.Get(t, name); err != nil {
		return nil, err
	}
	r, err := s.newFlattener(t).flatten(name, "")
	if err != nil {
		return nil, err
	}
	return r.sources, nil
}

// InheritanceChain lists the ancestors of a preset in merge order, each once,
// without the preset itself.
func (s *Store) InheritanceChain(t presettype.Type, name string) ([]*Preset, error) {
	p, err := s.Get(t, name)
	if err != nil {
		return nil, err
	}

	var chain []*Preset
	seen := stringset.New()
	inProgress := stringset.New(name)
	stack := []string{name}

	var visit func(cur *Preset) error
	visit = func(cur *Preset) error {
		for _, parentName := range cur.Inherits() {
			if inProgress.Contains(parentName) {
				return newCycleError(t, stack, parentName)
			}
			if seen.Contains(parentName) {
				continue
			}
			parent, ok := s.index[t][parentName]
			if !ok {
				return &NotFoundError{Type: t, Name: parentName, ReferencedBy: cur.Name()}
			}

			inProgress.Add(parentName)
			stack = append(stack, parentName)
			err := visit(parent)
			stack = stack[:len(stack)-1]
			inProgress.Remove(parentName)
			if err != nil {
				return err
			}

			seen.Add(parentName)
			chain = append(chain, parent)
		}
		return nil
	}

	if err := visit(p); err != nil {
		return nil, err
	}
	return chain, nil
}

type flattened struct {
	fields  *presetvalue.Object
	sources map[string]string
}

func newFlattened() *flattened {
	return &flattened{fields: presetvalue.NewObject(), sources: map[string]string{}}
}

// flattener resolves presets of one type. Results are memoized for the
// lifetime of a single call so diamonds resolve each ancestor once.
type flattener struct {
	store      *Store
	typ        presettype.Type
	done       map[string]*flattened
	inProgress stringset.StringSet
	stack      []string
}

func (s *Store) newFlattener(t presettype.Type) *flattener {
	return &flattener{
		store:      s,
		typ:        t,
		done:       map[string]*flattened{},
		inProgress: stringset.New(),
	}
}

func (f *flattener) flatten(name, referencedBy string) (*flattened, error) {
	if r, ok := f.done[name]; ok {
		return r, nil
	}
	if f.inProgress.Contains(name) {
		return nil, newCycleError(f.typ, f.stack, name)
	}
	p, ok := f.store.index[f.typ][name]
	if !ok {
		return nil, &NotFoundError{Type: f.typ, Name: name, ReferencedBy: referencedBy}
	}

	f.inProgress.Add(name)
	f.stack = append(f.stack, name)
	defer func() {
		f.inProgress.Remove(name)
		f.stack = f.stack[:len(f.stack)-1]
	}()

	inherited := newFlattened()
	for _, parentName := range p.Inherits() {
		parent, err := f.flatten(parentName, name)
		if err != nil {
			return nil, err
		}
		for k, v := range parent.fields.All() {
			if lo.Contains(ownOnlyFields, k) {
				continue
			}
			inherited.apply(k, v, parent.sources)
		}
	}

	own := map[string]string{}
	for k, v := range p.Fields.All() {
		recordSources(own, k, v, name)
	}

	// own keys keep their order, inherited-only keys follow
	result := newFlattened()
	for k, v := range p.Fields.All() {
		if k == InheritsField {
			continue
		}
		if base, ok := inherited.fields.Get(k); ok {
			result.apply(k, base, inherited.sources)
		}
		result.apply(k, v, own)
	}
	for k, v := range inherited.fields.All() {
		if !result.fields.Has(k) {
			result.apply(k, v, inherited.sources)
		}
	}

	f.done[name] = result
	return result, nil
}

// apply writes field key into dst. Accumulated object fields are merged key
// by key, anything else replaces the previous value.
func (dst *flattened) apply(key string, v presetvalue.Value, sources map[string]string) {
	if lo.Contains(accumulatedFields, key) {
		cur, _ := dst.fields.Get(key)
		curObj, curOk := cur.AsObject()
		newObj, newOk := v.AsObject()
		if curOk && newOk {
			merged := curObj.Clone()
			for k, sub := range newObj.All() {
				merged.Set(k, sub.Clone())
				copySources(dst.sources, sources, key+"."+k)
			}
			dst.fields.Set(key, presetvalue.NewObjectValue(merged))
			dst.sources[key] = sources[key]
			return
		}
	}
	dst.fields.Set(key, v.Clone())
	copySources(dst.sources, sources, key)
}

// copySources replaces every entry of dst under prefix with the entries of src under prefix
func copySources(dst, src map[string]string, prefix string) {
	for path := range dst {
		if underPath(path, prefix) {
			delete(dst, path)
		}
	}
	for path, name := range src {
		if underPath(path, prefix) {
			dst[path] = name
		}
	}
}

func underPath(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '.' || rest[0] == '['
}

func recordSources(sources map[string]string, path string, v presetvalue.Value, name string) {
	sources[path] = name
	if obj, ok := v.AsObject(); ok {
		for k, sub := range obj.All() {
			recordSources(sources, path+"."+k, sub, name)
		}
	}
	if items, ok := v.AsList(); ok {
		for i, item := range items {
			recordSources(sources, fmt.Sprintf("%s[%d]", path, i), item, name)
		}
	}
}

func newCycleError(t presettype.Type, stack []string, name string) *CycleError {
	start := max(slices.Index(stack, name), 0)
	path := append(slices.Clone(stack[start:]), name)
	return &CycleError{Type: t, Path: path}
}
