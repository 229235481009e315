// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package dialog synthesizes and patches the dialog-definition documents
// Copilot Studio stores in a bot component's data field. Documents are edited
// at the line level so that untouched content survives byte-identical; the
// platform parses these documents with its own strict loader, so a
// parse/re-serialize round trip is not an option.
package dialog

import (
	"fmt"
	"strings"

	"github.com/braydonk/yaml"
)

// Document is an ordered sequence of raw lines. Edits locate anchor lines and
// splice around them; everything else is preserved exactly.
type Document struct {
	lines          []string
	trailingNewline bool
}

func ParseDocument(text string) *Document {
	trailing := strings.HasSuffix(text, "\n")
	if trailing {
		text = strings.TrimSuffix(text, "\n")
	}

	return &Document{
		lines:          strings.Split(text, "\n"),
		trailingNewline: trailing,
	}
}

func (d *Document) Text() string {
	text := strings.Join(d.lines, "\n")
	if d.trailingNewline {
		text += "\n"
	}

	return text
}

func (d *Document) Lines() []string {
	return d.lines
}

// findTopLevelKey returns the index of the line starting the given top-level
// key, or -1.
func (d *Document) findTopLevelKey(key string) int {
	prefix := key + ":"
	for i, line := range d.lines {
		if line == prefix || strings.HasPrefix(line, prefix+" ") {
			return i
		}
	}

	return -1
}

// blockEnd returns the index one past the last line belonging to the block
// that starts at index start. A block ends at the next line with an
// indentation depth less than or equal to the start line's.
func (d *Document) blockEnd(start int) int {
	startIndent := indentOf(d.lines[start])

	for i := start + 1; i < len(d.lines); i++ {
		line := d.lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}

		if indentOf(line) <= startIndent {
			return i
		}
	}

	return len(d.lines)
}

func (d *Document) insertAfter(index int, lines ...string) {
	updated := make([]string, 0, len(d.lines)+len(lines))
	updated = append(updated, d.lines[:index+1]...)
	updated = append(updated, lines...)
	updated = append(updated, d.lines[index+1:]...)
	d.lines = updated
}

func (d *Document) removeRange(start int, end int) {
	d.lines = append(d.lines[:start], d.lines[end:]...)
}

func (d *Document) setLine(index int, line string) {
	d.lines[index] = line
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

// setScalarValue rewrites the value portion of a "key: value" line while
// preserving the line's indentation and key.
func setScalarValue(line string, value string) string {
	indent := line[:indentOf(line)]
	key, _, _ := strings.Cut(strings.TrimLeft(line, " "), ":")

	return fmt.Sprintf("%s%s: %s", indent, key, value)
}

// quote renders a double-quoted scalar, escaping backslashes, double quotes
// and newlines.
func quote(value string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
	)

	return `"` + replacer.Replace(value) + `"`
}

// Validate checks that text is a well-formed tool document: parseable YAML
// with kind TaskDialog, a schemaName, an action block with a kind, and
// inputType/outputType present.
func Validate(text string) error {
	var doc struct {
		Kind       string `yaml:"kind"`
		SchemaName string `yaml:"schemaName"`
		Action     struct {
			Kind string `yaml:"kind"`
		} `yaml:"action"`
		InputType  map[string]any `yaml:"inputType"`
		OutputType map[string]any `yaml:"outputType"`
	}

	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return fmt.Errorf("parsing dialog document: %w", err)
	}

	if doc.Kind != "TaskDialog" {
		return fmt.Errorf("dialog document kind must be TaskDialog, got %q", doc.Kind)
	}

	if doc.SchemaName == "" {
		return fmt.Errorf("dialog document is missing a schemaName")
	}

	if doc.Action.Kind == "" {
		return fmt.Errorf("dialog document is missing an action kind")
	}

	if doc.InputType == nil || doc.OutputType == nil {
		return fmt.Errorf("dialog document is missing inputType or outputType")
	}

	return nil
}
