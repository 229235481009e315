// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dialog

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultConfirmationMessage is used when confirmation is enabled without an
// explicit message.
const DefaultConfirmationMessage = "Do you want to run this tool?"

// ConfirmationEdit adjusts the confirmation block of a tool document. A nil
// Enabled with a non-nil Message updates the message of an existing block
// without toggling the feature.
type ConfirmationEdit struct {
	Enabled *bool
	Message *string
}

// Edits is a sparse set of changes to apply to a tool document. Nil fields
// are left untouched.
type Edits struct {
	DisplayName  *string
	Description  *string
	Availability *bool
	Confirmation *ConfirmationEdit

	// InputDefaults maps input property names to new default values.
	InputDefaults map[string]string
}

// PatchResult reports the outcome of applying Edits. When no anchor for a
// requested edit could be located the edit is skipped and a warning recorded;
// Changed is false when the document text is byte-identical to the input.
type PatchResult struct {
	Document *Document
	Changed  bool
	Warnings []string
}

// Patch applies edits to a tool document, touching only the lines each edit
// targets.
func Patch(text string, edits Edits) *PatchResult {
	doc := ParseDocument(text)
	result := &PatchResult{Document: doc}

	if edits.DisplayName != nil {
		patchDisplayName(doc, *edits.DisplayName, result)
	}

	if edits.Description != nil {
		patchDescription(doc, *edits.Description, result)
	}

	if edits.Availability != nil {
		patchAvailability(doc, *edits.Availability, result)
	}

	if edits.Confirmation != nil {
		patchConfirmation(doc, *edits.Confirmation, result)
	}

	if len(edits.InputDefaults) > 0 {
		patchInputDefaults(doc, edits.InputDefaults, result)
	}

	result.Changed = doc.Text() != text

	return result
}

func patchDisplayName(doc *Document, name string, result *PatchResult) {
	index := doc.findTopLevelKey("modelDisplayName")
	if index < 0 {
		result.warn("no modelDisplayName line found; display name left unchanged")
		return
	}

	doc.setLine(index, setScalarValue(doc.lines[index], quote(name)))
}

// patchDescription updates both the description and modelDescription lines
// when present. At least one must exist for the edit to take effect.
func patchDescription(doc *Document, description string, result *PatchResult) {
	updated := false

	for _, key := range []string{"description", "modelDescription"} {
		index := doc.findTopLevelKey(key)
		if index < 0 {
			continue
		}

		doc.setLine(index, setScalarValue(doc.lines[index], quote(description)))
		updated = true
	}

	if !updated {
		result.warn("no description or modelDescription line found; description left unchanged")
	}
}

func patchAvailability(doc *Document, available bool, result *PatchResult) {
	value := fmt.Sprintf("%t", available)

	if index := doc.findTopLevelKey("allowDynamicInvocation"); index >= 0 {
		doc.setLine(index, setScalarValue(doc.lines[index], value))
		return
	}

	kindIndex := doc.findTopLevelKey("kind")
	if kindIndex < 0 {
		result.warn("no kind line found; availability left unchanged")
		return
	}

	doc.insertAfter(kindIndex, fmt.Sprintf("allowDynamicInvocation: %s", value))
}

func patchConfirmation(doc *Document, edit ConfirmationEdit, result *PatchResult) {
	existing := doc.findTopLevelKey("confirmation")

	// A message-only edit adjusts an existing block and is otherwise a no-op.
	if edit.Enabled == nil {
		if edit.Message == nil {
			return
		}

		if existing < 0 {
			result.warn("no confirmation block found; confirmation message left unchanged")
			return
		}

		end := doc.blockEnd(existing)
		for i := existing + 1; i < end; i++ {
			if strings.HasPrefix(strings.TrimLeft(doc.lines[i], " "), "activity:") {
				doc.setLine(i, setScalarValue(doc.lines[i], quote(*edit.Message)))
				return
			}
		}

		doc.insertAfter(existing, fmt.Sprintf("  activity: %s", quote(*edit.Message)))
		return
	}

	if !*edit.Enabled {
		if existing >= 0 {
			doc.removeRange(existing, doc.blockEnd(existing))
		}
		return
	}

	message := DefaultConfirmationMessage
	if edit.Message != nil {
		message = *edit.Message
	}

	block := []string{
		"confirmation:",
		fmt.Sprintf("  activity: %s", quote(message)),
		"  mode: Strict",
	}

	if existing >= 0 {
		end := doc.blockEnd(existing)
		doc.removeRange(existing, end)
		doc.insertAfter(existing-1, block...)
		return
	}

	anchor := doc.findTopLevelKey("allowDynamicInvocation")
	if anchor < 0 {
		anchor = doc.findTopLevelKey("kind")
	}

	if anchor < 0 {
		result.warn("no kind line found; confirmation left unchanged")
		return
	}

	doc.insertAfter(anchor, block...)
}

func patchInputDefaults(doc *Document, defaults map[string]string, result *PatchResult) {
	for _, name := range sortedKeys(defaults) {
		patchInputDefault(doc, name, defaults[name], result)
	}
}

func patchInputDefault(doc *Document, name string, value string, result *PatchResult) {
	quoted := quote(value)

	inputsIndex := doc.findTopLevelKey("inputs")
	if inputsIndex < 0 {
		kindIndex := doc.findTopLevelKey("kind")
		if kindIndex < 0 {
			result.warn(fmt.Sprintf("no kind line found; default for input %q left unchanged", name))
			return
		}

		doc.insertAfter(kindIndex,
			"inputs:",
			fmt.Sprintf("  - propertyName: %s", name),
			fmt.Sprintf("    defaultValue: %s", quoted),
		)
		return
	}

	inputsEnd := doc.blockEnd(inputsIndex)
	entryIndex := -1
	for i := inputsIndex + 1; i < inputsEnd; i++ {
		if strings.TrimSpace(doc.lines[i]) == fmt.Sprintf("- propertyName: %s", name) {
			entryIndex = i
			break
		}
	}

	if entryIndex < 0 {
		doc.insertAfter(inputsEnd-1,
			fmt.Sprintf("  - propertyName: %s", name),
			fmt.Sprintf("    defaultValue: %s", quoted),
		)
		return
	}

	// The entry runs until the next list item or the end of the section.
	entryEnd := inputsEnd
	for i := entryIndex + 1; i < inputsEnd; i++ {
		if strings.HasPrefix(strings.TrimLeft(doc.lines[i], " "), "- ") {
			entryEnd = i
			break
		}
	}

	for i := entryIndex + 1; i < entryEnd; i++ {
		if strings.HasPrefix(strings.TrimLeft(doc.lines[i], " "), "defaultValue:") {
			doc.setLine(i, setScalarValue(doc.lines[i], quoted))
			return
		}
	}

	doc.insertAfter(entryIndex, fmt.Sprintf("    defaultValue: %s", quoted))
}

func (r *PatchResult) warn(message string) {
	r.Warnings = append(r.Warnings, message)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
