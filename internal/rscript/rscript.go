// Package rscript builds non-interactive R invocations from structured call
// descriptions. Callers add named arguments to a Call; optional arguments
// that are absent are omitted from the rendered call rather than passed as
// empty values. Values are double-quoted verbatim — no escaping is applied,
// so a value containing a quote passes through into the command unchanged.
package rscript

import (
	"strings"
)

// arg is a single named argument of an R call.
type arg struct {
	key   string
	value string
	raw   bool
}

// Call describes one R function call with named arguments.
type Call struct {
	function string
	args     []arg
}

// NewCall returns a Call for the given R function name.
func NewCall(function string) *Call {
	return &Call{function: function}
}

// Add appends a named argument whose value is rendered double-quoted.
func (c *Call) Add(key, value string) *Call {
	c.args = append(c.args, arg{key: key, value: value})
	return c
}

// AddRaw appends a named argument whose value is rendered verbatim,
// for R literals such as FALSE or numeric constants.
func (c *Call) AddRaw(key, value string) *Call {
	c.args = append(c.args, arg{key: key, value: value, raw: true})
	return c
}

// AddOptional appends a quoted named argument, or nothing when the value is
// empty. Absent optional settings therefore disappear from the call.
func (c *Call) AddOptional(key, value string) *Call {
	if value == "" {
		return c
	}
	return c.Add(key, value)
}

// String renders the call as `function(key="value", key2=RAW)`.
func (c *Call) String() string {
	parts := make([]string, 0, len(c.args))
	for _, a := range c.args {
		if a.raw {
			parts = append(parts, a.key+"="+a.value)
		} else {
			parts = append(parts, a.key+`="`+a.value+`"`)
		}
	}
	return c.function + "(" + strings.Join(parts, ", ") + ")"
}

// Library returns a `library(name)` statement.
func Library(name string) string {
	return "library(" + name + ")"
}

// Print returns a `print("message")` statement.
func Print(message string) string {
	return `print("` + message + `")`
}

// Invocation wraps the given R statements in a single shell command that
// runs them non-interactively. Statements are joined with "; " inside a
// single-quoted -e expression. With noSave set, the session is started with
// --no-save so R never prompts to persist its workspace.
func Invocation(noSave bool, statements ...string) string {
	var b strings.Builder
	b.WriteString("R ")
	if noSave {
		b.WriteString("--no-save ")
	}
	b.WriteString("-e '")
	b.WriteString(strings.Join(statements, "; "))
	b.WriteString("'")
	return b.String()
}
