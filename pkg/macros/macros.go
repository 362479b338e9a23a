// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package macros substitutes preset macros such as ${sourceDir} or $env{HOME}
// with concrete values. Resolution is best effort: unknown macros are kept
// verbatim and never fail the call.
//
// Recognized forms:
//
//	${sourceDir} ${sourceParentDir} ${sourceDirName} ${presetName}
//	${generator} ${hostSystemName} ${fileDir} ${dollar} ${pathListSep}
//	$env{NAME}    or ${env:NAME}     preset environment over the parent environment
//	$penv{NAME}   or ${penv:NAME}    parent environment only
//	$vendor{KEY}  or ${vendor:KEY}   left as is
package macros

import (
	"log/slog"
	"maps"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cmakepresets/cmakepresets/pkg/presets"
	"github.com/cmakepresets/cmakepresets/pkg/presettype"
	"github.com/cmakepresets/cmakepresets/pkg/presetvalue"
	"github.com/cmakepresets/cmakepresets/pkg/utils/stringset"
)

const (
	envNamespace    = "env"
	penvNamespace   = "penv"
	vendorNamespace = "vendor"

	cacheSourceDir      = "CMAKE_SOURCE_DIR"
	cacheHostSystemName = "CMAKE_HOST_SYSTEM_NAME"
)

var macroPattern = regexp.MustCompile(`\$(env|penv|vendor)?\{([^{}]+)\}`)

// Context carries the facts macros resolve to. The resolver never reads the
// process environment itself; Env must be filled in by the caller.
type Context struct {
	SourceDir string
	// BinaryDir, when set, replaces the binaryDir of the preset
	BinaryDir string
	// PresetName defaults to the name of the resolved preset
	PresetName string
	// Generator defaults to the generator field of the resolved preset
	Generator      string
	HostSystemName string
	// FileDir defaults to SourceDir
	FileDir string
	// PathListSep defaults to ";" on Windows hosts and ":" elsewhere
	PathListSep string
	// Env is the parent process environment
	Env map[string]string
}

// NewContext builds a context from environ, formatted like os.Environ, and a
// GOOS value.
func NewContext(sourceDir string, environ []string, goos string) Context {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return Context{
		SourceDir:      sourceDir,
		HostSystemName: HostSystemName(goos),
		Env:            env,
	}
}

// HostSystemName maps a GOOS value to the name CMake reports for the host.
func HostSystemName(goos string) string {
	switch goos {
	case "windows":
		return "Windows"
	case "darwin":
		return "Darwin"
	case "linux":
		return "Linux"
	case "freebsd":
		return "FreeBSD"
	case "netbsd":
		return "NetBSD"
	case "openbsd":
		return "OpenBSD"
	case "":
		return ""
	}
	return strings.ToUpper(goos[:1]) + goos[1:]
}

// ResolvePreset flattens a preset and resolves its macros. When the context
// has no FileDir, the directory of the file declaring the preset is used.
func ResolvePreset(store *presets.Store, t presettype.Type, name string, ctx Context) (*presets.Preset, error) {
	flat, err := store.Flatten(t, name)
	if err != nil {
		return nil, err
	}
	if ctx.FileDir == "" && flat.File != "" {
		ctx.FileDir = filepath.Dir(flat.File)
	}
	return Resolve(flat, ctx), nil
}

// Resolve returns a copy of p with macros substituted in every string value,
// at any depth.
//
// Order of evaluation:
//  1. environment, whose values may reference the parent environment and
//     each other; a self reference reads the parent environment and a null
//     value unsets the variable
//  2. cacheVariables; CMAKE_SOURCE_DIR and CMAKE_HOST_SYSTEM_NAME override
//     the context for the remaining fields
//  3. every other field
func Resolve(p *presets.Preset, ctx Context) *presets.Preset {
	out := p.Clone()
	fields := out.Fields

	vars := ctx.variables(p)
	penv := maps.Clone(ctx.Env)
	if penv == nil {
		penv = map[string]string{}
	}

	var environment *presetvalue.Object
	if v, ok := fields.Get(presets.EnvironmentField); ok {
		environment, _ = v.AsObject()
	}
	env, resolvedEnvironment := resolveEnvironment(environment, penv, vars)
	if resolvedEnvironment != nil {
		fields.Set(presets.EnvironmentField, presetvalue.NewObjectValue(resolvedEnvironment))
	}

	e := &expander{
		vars:       vars,
		lookupEnv:  func(name string) string { return env[name] },
		lookupPenv: func(name string) string { return penv[name] },
	}

	if v, ok := fields.Get(presets.CacheVariablesField); ok {
		resolved := e.expandValue(v)
		fields.Set(presets.CacheVariablesField, resolved)
		applyCacheOverrides(vars, resolved)
	}

	for k, v := range fields.All() {
		if k == presets.EnvironmentField || k == presets.CacheVariablesField {
			continue
		}
		fields.Set(k, e.expandValue(v))
	}

	if ctx.BinaryDir != "" && fields.Has(presets.BinaryDirField) {
		fields.Set(presets.BinaryDirField, presetvalue.NewString(ctx.BinaryDir))
	}
	for _, k := range []string{presets.BinaryDirField, presets.InstallDirField} {
		absolutize(fields, k, vars[sourceDirVar])
	}

	return out
}

const (
	sourceDirVar       = "sourceDir"
	sourceParentDirVar = "sourceParentDir"
	sourceDirNameVar   = "sourceDirName"
	presetNameVar      = "presetName"
	generatorVar       = "generator"
	hostSystemNameVar  = "hostSystemName"
	fileDirVar         = "fileDir"
	dollarVar          = "dollar"
	pathListSepVar     = "pathListSep"
)

func (ctx Context) variables(p *presets.Preset) map[string]string {
	vars := map[string]string{
		presetNameVar:     ctx.PresetName,
		generatorVar:      ctx.Generator,
		hostSystemNameVar: ctx.HostSystemName,
		fileDirVar:        ctx.FileDir,
		dollarVar:         "$",
		pathListSepVar:    ctx.PathListSep,
	}
	setSourceDir(vars, ctx.SourceDir)

	if vars[presetNameVar] == "" {
		vars[presetNameVar] = p.Name()
	}
	if vars[generatorVar] == "" {
		if v, ok := p.Get(presets.GeneratorField); ok {
			vars[generatorVar], _ = v.AsString()
		}
	}
	if vars[fileDirVar] == "" {
		vars[fileDirVar] = ctx.SourceDir
	}
	if vars[pathListSepVar] == "" {
		vars[pathListSepVar] = ":"
		if ctx.HostSystemName == "Windows" {
			vars[pathListSepVar] = ";"
		}
	}
	return vars
}

func setSourceDir(vars map[string]string, dir string) {
	vars[sourceDirVar] = dir
	if dir == "" {
		vars[sourceParentDirVar] = ""
		vars[sourceDirNameVar] = ""
		return
	}
	vars[sourceParentDirVar] = filepath.Dir(dir)
	vars[sourceDirNameVar] = filepath.Base(dir)
}

func applyCacheOverrides(vars map[string]string, cacheVariables presetvalue.Value) {
	obj, ok := cacheVariables.AsObject()
	if !ok {
		return
	}
	if v, ok := obj.Get(cacheSourceDir); ok {
		if dir := cacheValue(v); dir != "" {
			slog.Debug("sourceDir overridden by cache variable", "variable", cacheSourceDir, "value", dir)
			setSourceDir(vars, dir)
		}
	}
	if v, ok := obj.Get(cacheHostSystemName); ok {
		if name := cacheValue(v); name != "" {
			vars[hostSystemNameVar] = name
		}
	}
}

// cacheValue reads a cache variable given either as a plain string or as a
// {"type": ..., "value": ...} object.
func cacheValue(v presetvalue.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	if obj, ok := v.AsObject(); ok {
		inner, _ := obj.Get("value")
		s, _ := inner.AsString()
		return s
	}
	return ""
}

func absolutize(fields *presetvalue.Object, key, sourceDir string) {
	v, ok := fields.Get(key)
	if !ok || sourceDir == "" {
		return
	}
	s, ok := v.AsString()
	if !ok || s == "" || filepath.IsAbs(s) || strings.Contains(s, "$") {
		return
	}
	fields.Set(key, presetvalue.NewString(filepath.Join(sourceDir, s)))
}

// resolveEnvironment expands the preset environment over the parent
// environment. It returns the effective environment and the expanded
// environment field, nil when the preset has none.
func resolveEnvironment(environment *presetvalue.Object, penv, vars map[string]string) (map[string]string, *presetvalue.Object) {
	env := maps.Clone(penv)
	if environment == nil {
		return env, nil
	}

	resolved := stringset.New()
	inProgress := stringset.New()
	e := &expander{
		vars:       vars,
		lookupPenv: func(name string) string { return penv[name] },
	}

	var resolve func(name string)
	e.lookupEnv = func(name string) string {
		if environment.Has(name) && !resolved.Contains(name) {
			if inProgress.Contains(name) {
				return penv[name]
			}
			resolve(name)
		}
		return env[name]
	}
	resolve = func(name string) {
		inProgress.Add(name)
		defer inProgress.Remove(name)

		v, _ := environment.Get(name)
		switch {
		case v.IsNull():
			delete(env, name)
		case v.Kind() == presetvalue.KindString:
			s, _ := v.AsString()
			env[name] = e.expand(s)
		default:
			env[name] = v.String()
		}
		resolved.Add(name)
	}

	out := presetvalue.NewObject()
	for name, v := range environment.All() {
		if !resolved.Contains(name) {
			resolve(name)
		}
		if v.IsNull() {
			out.Set(name, presetvalue.Null())
			continue
		}
		out.Set(name, presetvalue.NewString(env[name]))
	}
	return env, out
}

type expander struct {
	vars       map[string]string
	lookupEnv  func(name string) string
	lookupPenv func(name string) string
}

// expand substitutes the macros of s in a single left to right pass, so
// substituted text such as the result of ${dollar} is never expanded again.
func (e *expander) expand(s string) string {
	if !strings.Contains(s, "{") {
		return s
	}
	return macroPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := macroPattern.FindStringSubmatch(match)
		namespace, key := parts[1], parts[2]
		if namespace == "" {
			if prefix, rest, ok := strings.Cut(key, ":"); ok && rest != "" {
				switch prefix {
				case envNamespace, penvNamespace, vendorNamespace:
					namespace, key = prefix, rest
				}
			}
		}

		switch namespace {
		case envNamespace:
			return e.lookupEnv(key)
		case penvNamespace:
			return e.lookupPenv(key)
		case vendorNamespace:
			slog.Warn("vendor macros cannot be resolved", "macro", match)
			return match
		}
		if v, ok := e.vars[key]; ok {
			return v
		}
		return match
	})
}

func (e *expander) expandValue(v presetvalue.Value) presetvalue.Value {
	switch v.Kind() {
	case presetvalue.KindString:
		s, _ := v.AsString()
		return presetvalue.NewString(e.expand(s))
	case presetvalue.KindList:
		items, _ := v.AsList()
		out := make([]presetvalue.Value, len(items))
		for i, item := range items {
			out[i] = e.expandValue(item)
		}
		return presetvalue.NewList(out...)
	case presetvalue.KindObject:
		obj, _ := v.AsObject()
		out := presetvalue.NewObject()
		for k, sub := range obj.All() {
			out.Set(k, e.expandValue(sub))
		}
		return presetvalue.NewObjectValue(out)
	}
	return v
}
