// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package presetsfile locates and reads presets files from disk: the main
// CMakePresets.json, the CMakeUserPresets.json next to it, and every file
// reachable through include arrays.
package presetsfile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/cmakepresets/cmakepresets/pkg/presets"
	"github.com/cmakepresets/cmakepresets/pkg/presetvalue"
	"github.com/cmakepresets/cmakepresets/pkg/schemaversion"
	"github.com/cmakepresets/cmakepresets/pkg/utils"
	"github.com/cmakepresets/cmakepresets/pkg/utils/stringset"
	"github.com/go-git/go-git/v5"
	"github.com/tidwall/jsonc"
)

const (
	PresetsFileName     = "CMakePresets.json"
	UserPresetsFileName = "CMakeUserPresets.json"

	versionField              = "version"
	cmakeMinimumRequiredField = "cmakeMinimumRequired"
	includeField              = "include"
)

var (
	ErrNoPresetsFile      = errors.New("no " + PresetsFileName + " found")
	ErrUnsupportedVersion = errors.New("unsupported presets version")
)

// Root describes where a project's presets live.
type Root struct {
	SourceDir   string
	PresetsFile string
	// UserPresetsFile is empty when the project has none
	UserPresetsFile string
}

// Locate finds the presets of a project. path is either a presets file or a
// directory containing CMakePresets.json. When the directory has none, the
// top of the enclosing git worktree is tried.
func Locate(path string) (*Root, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path = utils.ResolvePath(cwd, path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return newRoot(filepath.Dir(path), path)
	}

	candidate := filepath.Join(path, PresetsFileName)
	if ok, err := utils.FileExists(candidate); err != nil {
		return nil, err
	} else if ok {
		return newRoot(path, candidate)
	}

	top, err := worktreeRoot(path)
	if err != nil {
		return nil, fmt.Errorf("%w in %s", ErrNoPresetsFile, path)
	}
	candidate = filepath.Join(top, PresetsFileName)
	if ok, err := utils.FileExists(candidate); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w in %s or at the top of its git worktree %s", ErrNoPresetsFile, path, top)
	}
	slog.Debug("using presets at the top of the git worktree", "dir", path, "worktree", top)
	return newRoot(top, candidate)
}

func newRoot(sourceDir, presetsFile string) (*Root, error) {
	r := &Root{SourceDir: sourceDir, PresetsFile: presetsFile}
	userFile := filepath.Join(sourceDir, UserPresetsFileName)
	ok, err := utils.FileExists(userFile)
	if err != nil {
		return nil, err
	}
	if ok && userFile != presetsFile {
		r.UserPresetsFile = userFile
	}
	return r, nil
}

func worktreeRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

// RelativePath is path relative to the source directory when it lies below it.
func (r *Root) RelativePath(path string) string {
	rel, err := filepath.Rel(r.SourceDir, path)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}
	return rel
}

// Project is a loaded set of presets files.
type Project struct {
	Root    *Root
	Version int
	// CMakeMinimumRequired is nil when the main file does not declare it
	CMakeMinimumRequired *semver.Version
	// Files lists every loaded file in load order
	Files []string
	Store *presets.Store
}

// Open locates and loads the presets of a project.
func Open(path string) (*Project, error) {
	root, err := Locate(path)
	if err != nil {
		return nil, err
	}
	return Load(root)
}

// Load reads the presets files of root.
func Load(root *Root) (*Project, error) {
	slog.Info("loading presets", "file", root.PresetsFile)

	l := &loader{loaded: stringset.New()}
	main, err := l.load(root.PresetsFile)
	if err != nil {
		return nil, err
	}

	p := &Project{Root: root}
	if p.Version, err = readVersion(root.PresetsFile, main); err != nil {
		return nil, err
	}
	if p.CMakeMinimumRequired, err = readMinimumRequired(root.PresetsFile, main); err != nil {
		return nil, err
	}
	checkCompatibility(root.PresetsFile, p.Version, p.CMakeMinimumRequired, main)

	if root.UserPresetsFile != "" {
		user, err := l.load(root.UserPresetsFile)
		if err != nil {
			return nil, err
		}
		if _, err := readVersion(root.UserPresetsFile, user); err != nil {
			return nil, err
		}
	}

	if err := l.processIncludes(); err != nil {
		return nil, err
	}

	p.Files = l.order
	if p.Store, err = presets.LoadDocuments(l.docs...); err != nil {
		return nil, err
	}
	slog.Info("loaded presets files", "count", len(p.Files))
	return p, nil
}

type loader struct {
	loaded stringset.StringSet
	order  []string
	docs   []presets.Document
}

func (l *loader) load(path string) (*presetvalue.Object, error) {
	slog.Debug("reading presets file", "file", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	v, err := presetvalue.Parse(jsonc.ToJSON(data))
	if err != nil {
		return nil, &presets.SchemaError{File: path, Reason: "malformed JSON", Cause: err}
	}
	obj, ok := v.AsObject()
	if !ok {
		return nil, &presets.SchemaError{File: path, Reason: fmt.Sprintf("expected a JSON object, got %s", v.Kind())}
	}

	l.loaded.Add(path)
	l.order = append(l.order, path)
	l.docs = append(l.docs, presets.Document{Path: path, Content: v})
	return obj, nil
}

// processIncludes follows include arrays breadth first. Each file is read
// once, so include cycles are harmless.
func (l *loader) processIncludes() error {
	for i := 0; i < len(l.docs); i++ {
		doc := l.docs[i]
		obj, _ := doc.Content.AsObject()
		raw, ok := obj.Get(includeField)
		if !ok {
			continue
		}
		items, ok := raw.AsList()
		if !ok {
			return &presets.SchemaError{File: doc.Path, Path: includeField, Reason: fmt.Sprintf("expected an array, got %s", raw.Kind())}
		}

		for j, item := range items {
			rel, ok := item.AsString()
			if !ok {
				return &presets.SchemaError{File: doc.Path, Path: fmt.Sprintf("%s[%d]", includeField, j), Reason: fmt.Sprintf("expected a string, got %s", item.Kind())}
			}
			path := utils.ResolvePath(filepath.Dir(doc.Path), rel)
			if l.loaded.Contains(path) {
				slog.Debug("include already loaded", "file", path, "from", doc.Path)
				continue
			}
			slog.Debug("including presets file", "file", path, "from", doc.Path)
			if _, err := l.load(path); err != nil {
				return err
			}
		}
	}
	return nil
}

func readVersion(file string, doc *presetvalue.Object) (int, error) {
	raw, ok := doc.Get(versionField)
	if !ok {
		return 0, fmt.Errorf("%w: missing version in %s; minimum required is %d", ErrUnsupportedVersion, file, schemaversion.Minimum)
	}
	n, ok := raw.AsNumber()
	if !ok {
		return 0, &presets.SchemaError{File: file, Path: versionField, Reason: fmt.Sprintf("expected an integer, got %s", raw.Kind())}
	}
	version, err := n.Int64()
	if err != nil {
		return 0, &presets.SchemaError{File: file, Path: versionField, Reason: "expected an integer", Cause: err}
	}
	if version < schemaversion.Minimum {
		return 0, fmt.Errorf("%w %d in %s, minimum required is %d", ErrUnsupportedVersion, version, file, schemaversion.Minimum)
	}
	return int(version), nil
}

func readMinimumRequired(file string, doc *presetvalue.Object) (*semver.Version, error) {
	raw, ok := doc.Get(cmakeMinimumRequiredField)
	if !ok {
		return nil, nil
	}
	obj, ok := raw.AsObject()
	if !ok {
		return nil, &presets.SchemaError{File: file, Path: cmakeMinimumRequiredField, Reason: fmt.Sprintf("expected an object, got %s", raw.Kind())}
	}

	var parts [3]uint64
	for i, key := range []string{"major", "minor", "patch"} {
		v, ok := obj.Get(key)
		if !ok {
			continue
		}
		n, _ := v.AsNumber()
		i64, err := n.Int64()
		if err != nil || i64 < 0 {
			return nil, &presets.SchemaError{File: file, Path: cmakeMinimumRequiredField + "." + key, Reason: "expected a non-negative integer"}
		}
		parts[i] = uint64(i64)
	}
	return semver.New(parts[0], parts[1], parts[2], "", ""), nil
}

func checkCompatibility(file string, version int, minimum *semver.Version, doc *presetvalue.Object) {
	if err := schemaversion.CheckMinimumRequired(version, minimum); errors.Is(err, schemaversion.ErrUnknownVersion) {
		slog.Warn("presets version is newer than any known CMake release", "file", file, "version", version)
	} else if err != nil {
		slog.Warn(err.Error(), "file", file)
	}

	for field, introduced := range schemaversion.FieldsTooNew(version, doc.Keys()) {
		slog.Warn("field requires a newer presets version", "file", file, "field", field, "version", version, "requires", introduced)
	}
}
