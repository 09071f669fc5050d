// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jeranaias/sqlrun/internal/session"
	"github.com/jeranaias/sqlrun/internal/ui/styles"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// ConfigError reports a broken command registration, such as a duplicate
// name. It is a startup/plugin-load fault, not a runtime condition: the
// caller is expected to abort the registration step.
type ConfigError struct {
	Name    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("command registration: %s: %s", e.Name, e.Message)
}

// =============================================================================
// DISPATCHER
// =============================================================================

// Dispatcher owns the command registry and applies the execution
// protocol. Commands are resolved by longest registered prefix of the
// lower-cased input, falling back to the "" wildcard binding.
type Dispatcher struct {
	commands []Command // registration order, for help and shutdown
	names    []string  // sorted name index
	byName   map[string]Command

	listeners []ExecutionListener
	batch     int

	printer *styles.Printer
}

// New creates an empty dispatcher reporting through printer.
func New(printer *styles.Printer) *Dispatcher {
	return &Dispatcher{
		byName:  make(map[string]Command),
		printer: printer,
	}
}

// =============================================================================
// REGISTRY
// =============================================================================

// Register binds every name the command declares. A name collision is a
// configuration error and leaves the registry unchanged: no name of the
// offending command is bound.
func (d *Dispatcher) Register(c Command) error {
	names := c.CommandList()
	for _, name := range names {
		if _, taken := d.byName[name]; taken {
			return &ConfigError{Name: name, Message: "name already registered"}
		}
	}
	d.commands = append(d.commands, c)
	for _, name := range names {
		d.bind(name, c)
	}
	return nil
}

// MustRegister is Register for the static builtin table; it panics on a
// configuration error.
func (d *Dispatcher) MustRegister(c Command) {
	if err := d.Register(c); err != nil {
		panic(err)
	}
}

// Unregister removes every binding pointing at exactly this command
// instance. The linear scan is fine: registries are small and mutated
// rarely.
func (d *Dispatcher) Unregister(c Command) {
	for i, have := range d.commands {
		if have == c {
			d.commands = append(d.commands[:i], d.commands[i+1:]...)
			break
		}
	}
	kept := d.names[:0]
	for _, name := range d.names {
		if d.byName[name] == c {
			delete(d.byName, name)
			continue
		}
		kept = append(kept, name)
	}
	d.names = kept
}

// RegisterAlias binds a single extra name out of band. Aliases may
// intentionally shadow nothing or replace a previous alias, so the
// duplicate-name check does not apply.
func (d *Dispatcher) RegisterAlias(name string, c Command) {
	if _, exists := d.byName[name]; exists {
		d.byName[name] = c
		return
	}
	d.bind(name, c)
}

// UnregisterAlias removes a single name binding.
func (d *Dispatcher) UnregisterAlias(name string) {
	if _, exists := d.byName[name]; !exists {
		return
	}
	delete(d.byName, name)
	i := sort.SearchStrings(d.names, name)
	if i < len(d.names) && d.names[i] == name {
		d.names = append(d.names[:i], d.names[i+1:]...)
	}
}

// HasCommand reports whether the exact name is bound.
func (d *Dispatcher) HasCommand(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// Commands returns the registered commands in registration order.
func (d *Dispatcher) Commands() []Command {
	out := make([]Command, len(d.commands))
	copy(out, d.commands)
	return out
}

// CommandNames returns all bound names in lexical order.
func (d *Dispatcher) CommandNames() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// NamesFrom returns a resumable sequence over the sorted name index,
// starting at the first name >= key. This is the prefix-scoped iteration
// both resolution and completion are built on.
func (d *Dispatcher) NamesFrom(key string) Candidates {
	i := sort.SearchStrings(d.names, key)
	return func() (string, bool) {
		if i >= len(d.names) {
			return "", false
		}
		name := d.names[i]
		i++
		return name, true
	}
}

func (d *Dispatcher) bind(name string, c Command) {
	d.byName[name] = c
	i := sort.SearchStrings(d.names, name)
	d.names = append(d.names, "")
	copy(d.names[i+1:], d.names[i:])
	d.names[i] = name
}

// =============================================================================
// NAME RESOLUTION
// =============================================================================

// statement delimiters and whitespace for the last-resort token split
const tokenSeparators = " ;\t\n\r\f"

// ResolveName extracts the command name from a complete input. It works
// even without a separator between name and arguments (needed for names
// like "?" or "@"): the longest registered name that prefixes the
// lower-cased input wins. Sorted order bounds the scan to names sharing
// the input's first character. With no registered prefix, the first
// whitespace/delimiter-separated token is returned as a diagnostic
// label. Empty input resolves to "".
func (d *Dispatcher) ResolveName(input string) string {
	if input == "" {
		return ""
	}
	lowered := strings.ToLower(input)
	startChar := lowered[:1]

	longest := ""
	found := false
	next := d.NamesFrom(startChar)
	for {
		name, ok := next()
		if !ok {
			break
		}
		if strings.HasPrefix(lowered, name) {
			longest = name
			found = true
		} else if !strings.HasPrefix(name, startChar) {
			break
		}
	}
	if found {
		return longest
	}

	fields := strings.FieldsFunc(input, func(r rune) bool {
		return strings.ContainsRune(tokenSeparators, r)
	})
	if len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// ResolveCommand returns the command addressed by the input, falling
// back to the "" wildcard binding for anything unclaimed. Empty or
// all-separator input resolves to nil.
func (d *Dispatcher) ResolveCommand(input string) Command {
	name := d.ResolveName(input)
	return d.commandFor(name, input)
}

func (d *Dispatcher) commandFor(name, input string) Command {
	if name == "" && strings.IndexFunc(input, func(r rune) bool {
		return !strings.ContainsRune(tokenSeparators, r)
	}) < 0 {
		return nil
	}
	if c, ok := d.byName[name]; ok {
		return c
	}
	return d.byName[""] // wildcard matches everything else
}

// =============================================================================
// BATCH MODE
// =============================================================================

// StartBatch enters batch mode. While reading from a non-interactive
// source, per-command echo is suppressed; failed commands are echoed so
// the operator can see which line failed. Reentrant.
func (d *Dispatcher) StartBatch() { d.batch++ }

// EndBatch leaves one level of batch mode.
func (d *Dispatcher) EndBatch() {
	if d.batch > 0 {
		d.batch--
	}
}

// InBatch reports whether any batch level is active.
func (d *Dispatcher) InBatch() bool { return d.batch > 0 }

// =============================================================================
// EXECUTION
// =============================================================================

// Execute resolves and runs one command unit under the execution
// protocol. A panic inside the command is contained here: listeners
// observe ExecFailed and the shell loop continues.
func (d *Dispatcher) Execute(s *session.Session, given string) {
	cmd := strings.TrimSpace(given)
	cmd = strings.TrimRightFunc(cmd, func(r rune) bool {
		return r == ';' || unicode.IsSpace(r)
	})
	if cmd == "" {
		return
	}

	name := d.ResolveName(cmd)
	c := d.commandFor(name, cmd)
	if c == nil {
		return
	}
	params := cmd[len(name):]

	if s == nil && c.RequiresSession(name) {
		d.printer.Errorf("not connected.")
		return
	}

	d.informBefore(s, given)
	result := d.run(c, s, name, params)
	d.informAfter(s, given, result)

	switch result {
	case SyntaxError:
		if synopsis := c.Synopsis(name); synopsis != "" {
			d.printer.Errorf("usage: %s", synopsis)
		} else {
			d.printer.Errorf("syntax error.")
		}
	case ExecFailed:
		// batch mode suppresses normal echo, so without this the
		// operator would not know which line failed
		if d.InBatch() {
			d.printer.Errorf("-- failed command:")
			d.printer.Errorf("%s", given)
		}
	}
}

func (d *Dispatcher) run(c Command, s *session.Session, name, params string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			d.printer.Errorf("error in command execution: %v", r)
			result = ExecFailed
		}
	}()
	return c.Execute(s, name, params)
}

// Shutdown calls every registered command's Shutdown, containing panics
// so one misbehaving command cannot block the others' cleanup.
func (d *Dispatcher) Shutdown() {
	for _, c := range d.commands {
		func() {
			defer func() { recover() }()
			c.Shutdown()
		}()
	}
}
