// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package builtincommand

type BuiltinCommand string

const (
	List    BuiltinCommand = "list"
	Show    BuiltinCommand = "show"
	Related BuiltinCommand = "related"
	Tree    BuiltinCommand = "tree"
)

var BuiltinCommands = []BuiltinCommand{List, Show, Related, Tree}
