// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import "strings"

// =============================================================================
// VARIABLE SUBSTITUTION
// =============================================================================

// Substitute expands $NAME and ${NAME} references in the input using the
// given variable map. "$$" escapes to a literal "$". References to unset
// variables stay verbatim in the output and are reported through warnf
// when non-nil, as is a "${" missing its closing brace.
func Substitute(in string, vars map[string]string, warnf func(format string, a ...any)) string {
	if vars == nil {
		return in
	}

	var out strings.Builder
	pos := 0
	endpos := 0
	for {
		i := strings.IndexByte(in[pos:], '$')
		if i < 0 {
			break
		}
		pos += i
		if pos+1 >= len(in) {
			break // lone trailing '$'
		}
		startVar := pos

		if in[pos+1] == '$' {
			out.WriteString(in[endpos:pos])
			endpos = pos + 1
			pos += 2
			continue
		}

		hasBrace := in[pos+1] == '{'
		out.WriteString(in[endpos:pos])
		if hasBrace {
			pos++
		}

		endpos = pos + 1
		for endpos < len(in) && isIdentPart(in[endpos]) {
			endpos++
		}
		name := in[pos+1 : endpos]

		if hasBrace {
			for endpos < len(in) && in[endpos] != '}' {
				endpos++
			}
			endpos++
			if endpos > len(in) {
				if _, known := vars[name]; known && warnf != nil {
					warnf("warning: missing '}' for variable '%s'.", name)
				}
				out.WriteString(in[startVar:])
				endpos = len(in)
				break
			}
		}

		if value, known := vars[name]; known {
			out.WriteString(value)
		} else {
			if warnf != nil {
				warnf("warning: variable '%s' not set.", name)
			}
			out.WriteString(in[startVar:endpos])
		}
		pos = endpos
	}

	if endpos < len(in) {
		out.WriteString(in[endpos:])
	}
	return out.String()
}

func isIdentPart(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}
