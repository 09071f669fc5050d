// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assemble turns raw appended input text into complete,
// delimiter-terminated statement candidates.
//
// The assembler is deliberately ignorant of SQL: it only tracks enough
// quote and comment state to know which semicolons and newlines can act
// as statement boundaries. Whether a proposed candidate really ends a
// statement is decided by the command that will execute it, through the
// consumed/cont protocol.
package assemble
