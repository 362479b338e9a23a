// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"os"
	"path/filepath"
)

// ResolvePath makes p absolute against basePath, unless it already is
func ResolvePath(basePath, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(basePath, p))
}

// FileExists reports whether path exists and is not a directory
func FileExists(path string) (bool, error) {
	s, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !s.IsDir(), nil
}

// MkdirTemp is like os.MkdirTemp but returns a cleanup function for deleting the created dir
func MkdirTemp(dir, pattern string) (string, func() error, error) {
	d, err := os.MkdirTemp(dir, pattern)
	if err != nil {
		return "", nil, err
	}
	fn := func() error {
		return os.RemoveAll(d)
	}
	return d, fn, err
}
