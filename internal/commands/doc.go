// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the built-in shell commands: session
// control, variables, aliases, script loading, spooling, and the
// wildcard SQL handler that receives everything no other command
// claims.
//
// Commands are registered by the entry point, not by this package, so
// the shell core stays free of a dependency on its own builtins.
//
// # Built-in Commands
//
//   - help, ?: describe available commands
//   - connect, disconnect, switch: session management
//   - sessions: list open sessions
//   - set, unset: substitution variables
//   - alias, unalias: user-defined command shortcuts
//   - load, source, @: execute statements from files
//   - spool: copy output to a file
//   - history: browse the persistent statement log
//   - echo, prompt: print text
//   - exit, quit: leave the shell
package commands
