// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cmakepresets/cmakepresets/pkg/presettype"
)

const (
	SchemaErrorCode   = "SCHEMA_ERROR"
	NotFoundErrorCode = "NOT_FOUND"
	CycleErrorCode    = "CYCLE"
	UnknownErrorCode  = "UNKNOWN_ERROR"
)

// SchemaError reports a presets document whose top-level structure is unusable.
type SchemaError struct {
	// File is empty for in-memory documents
	File string
	// Path locates the offending value, e.g. "configurePresets[2].name"
	Path   string
	Reason string
	Cause  error
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid presets document")
	if e.File != "" {
		fmt.Fprintf(&sb, " %s", e.File)
	}
	if e.Path != "" {
		fmt.Fprintf(&sb, " at %s", e.Path)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

func (e *SchemaError) Code() string {
	return SchemaErrorCode
}

// NotFoundError reports a preset name that is absent from its collection.
type NotFoundError struct {
	Type presettype.Type
	Name string
	// ReferencedBy names the preset whose inherits list pointed at Name, if any
	ReferencedBy string
}

func (e *NotFoundError) Error() string {
	what := "preset"
	if e.Type != "" {
		what = e.Type.String() + " preset"
	}
	if e.ReferencedBy != "" {
		return fmt.Sprintf("%s %q referenced by %q not found", what, e.Name, e.ReferencedBy)
	}
	return fmt.Sprintf("%s %q not found", what, e.Name)
}

func (e *NotFoundError) Code() string {
	return NotFoundErrorCode
}

// CycleError reports an inheritance cycle. Path starts and ends with the same name.
type CycleError struct {
	Type presettype.Type
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("inheritance cycle between %s presets: %s", e.Type, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Code() string {
	return CycleErrorCode
}

// ErrConfigureNotRelated is returned when related configure presets are asked for.
var ErrConfigureNotRelated = errors.New("configure presets cannot reference other configure presets")

var (
	_ error = (*SchemaError)(nil)
	_ error = (*NotFoundError)(nil)
	_ error = (*CycleError)(nil)
)

// ErrorReport is the structured form of an error, for machine readable output.
type ErrorReport struct {
	Code    string          `json:"code" yaml:"code"`
	Message string          `json:"message" yaml:"message"`
	Type    presettype.Type `json:"type,omitempty" yaml:"type,omitempty"`
	Name    string          `json:"name,omitempty" yaml:"name,omitempty"`
	Cycle   []string        `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	File    string          `json:"file,omitempty" yaml:"file,omitempty"`
}

// Report classifies err by the first preset error found in its chain.
func Report(err error) *ErrorReport {
	if err == nil {
		return nil
	}

	var (
		schemaErr   *SchemaError
		notFoundErr *NotFoundError
		cycleErr    *CycleError
	)
	switch {
	case errors.As(err, &cycleErr):
		return &ErrorReport{Code: CycleErrorCode, Message: err.Error(), Type: cycleErr.Type, Cycle: cycleErr.Path}
	case errors.As(err, &notFoundErr):
		return &ErrorReport{Code: NotFoundErrorCode, Message: err.Error(), Type: notFoundErr.Type, Name: notFoundErr.Name}
	case errors.As(err, &schemaErr):
		return &ErrorReport{Code: SchemaErrorCode, Message: err.Error(), File: schemaErr.File}
	}
	return &ErrorReport{Code: UnknownErrorCode, Message: err.Error()}
}

func (r *ErrorReport) JSON() string {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"code": %q}`, r.Code)
	}
	return string(b)
}
