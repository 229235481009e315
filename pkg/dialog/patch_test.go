// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dialog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// sampleTool carries deliberately irregular formatting (comment, blank line,
// unquoted scalars) that edits must leave untouched.
const sampleTool = `kind: TaskDialog
schemaName: cr83c_bot1234.action.Asana-GetTask_a1b
modelDisplayName: Get Task
modelDescription: "Retrieves a task"

# maintained by hand
inputs:
  - propertyName: taskId
    description: "The task id"
    isRequired: true
  - propertyName: workspace
    defaultValue: "default-ws"
action:
  kind: InvokeConnectorTaskAction
  connectorId: shared_asana
  operationId: GetTask
inputType: {}
outputType: {}
`

func ptr[T any](v T) *T {
	return &v
}

func TestPatchNoEditsIsByteIdentical(t *testing.T) {
	result := Patch(sampleTool, Edits{})

	require.False(t, result.Changed)
	require.Empty(t, result.Warnings)
	require.Equal(t, sampleTool, result.Document.Text())
}

func TestPatchDescriptionTouchesOnlyDescriptionLines(t *testing.T) {
	result := Patch(sampleTool, Edits{Description: ptr("Fetches one task")})

	require.True(t, result.Changed)
	require.Contains(t, result.Document.Text(), `modelDescription: "Fetches one task"`)

	// Every line other than the one edited survives byte for byte.
	before := strings.Split(sampleTool, "\n")
	after := strings.Split(result.Document.Text(), "\n")
	require.Len(t, after, len(before))
	for i := range before {
		if strings.HasPrefix(before[i], "modelDescription:") {
			continue
		}
		require.Equal(t, before[i], after[i], "line %d changed", i)
	}
}

func TestPatchDescriptionUpdatesBothDescriptionKeys(t *testing.T) {
	doc := "kind: TaskDialog\ndescription: \"old\"\nmodelDescription: \"old\"\n"
	result := Patch(doc, Edits{Description: ptr(`say "hi" \ bye`)})

	require.True(t, result.Changed)
	require.Equal(t,
		"kind: TaskDialog\ndescription: \"say \\\"hi\\\" \\\\ bye\"\nmodelDescription: \"say \\\"hi\\\" \\\\ bye\"\n",
		result.Document.Text(),
	)
}

func TestPatchDescriptionWithoutAnchorWarns(t *testing.T) {
	doc := "kind: TaskDialog\ninputType: {}\noutputType: {}\n"
	result := Patch(doc, Edits{Description: ptr("new")})

	require.False(t, result.Changed)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.Warnings[0], "description left unchanged")
	require.Equal(t, doc, result.Document.Text())
}

func TestPatchAvailabilityRewritesExistingLine(t *testing.T) {
	doc := "kind: TaskDialog\nallowDynamicInvocation: true\ninputType: {}\n"
	result := Patch(doc, Edits{Availability: ptr(false)})

	require.True(t, result.Changed)
	require.Equal(t, "kind: TaskDialog\nallowDynamicInvocation: false\ninputType: {}\n", result.Document.Text())
}

func TestPatchAvailabilityInsertsAfterKindLine(t *testing.T) {
	result := Patch(sampleTool, Edits{Availability: ptr(true)})

	require.True(t, result.Changed)
	lines := result.Document.Lines()
	require.Equal(t, "kind: TaskDialog", lines[0])
	require.Equal(t, "allowDynamicInvocation: true", lines[1])
	require.Equal(t, "schemaName: cr83c_bot1234.action.Asana-GetTask_a1b", lines[2])
}

func TestPatchConfirmationInsertsAfterAllowDynamicInvocation(t *testing.T) {
	doc := "kind: TaskDialog\nallowDynamicInvocation: true\nmodelDisplayName: T\n"
	result := Patch(doc, Edits{Confirmation: &ConfirmationEdit{
		Enabled: ptr(true),
		Message: ptr("Run this?"),
	}})

	require.True(t, result.Changed)
	require.Equal(t, strings.Join([]string{
		"kind: TaskDialog",
		"allowDynamicInvocation: true",
		"confirmation:",
		`  activity: "Run this?"`,
		"  mode: Strict",
		"modelDisplayName: T",
		"",
	}, "\n"), result.Document.Text())
}

func TestPatchConfirmationInsertsAfterKindWhenNoAvailabilityLine(t *testing.T) {
	result := Patch(sampleTool, Edits{Confirmation: &ConfirmationEdit{Enabled: ptr(true)}})

	require.True(t, result.Changed)
	lines := result.Document.Lines()
	require.Equal(t, "kind: TaskDialog", lines[0])
	require.Equal(t, "confirmation:", lines[1])
	require.Equal(t, `  activity: "`+DefaultConfirmationMessage+`"`, lines[2])
	require.Equal(t, "  mode: Strict", lines[3])
}

func TestPatchConfirmationReplacesExistingBlock(t *testing.T) {
	doc := strings.Join([]string{
		"kind: TaskDialog",
		"confirmation:",
		`  activity: "old message"`,
		"  mode: Relaxed",
		"modelDisplayName: T",
		"",
	}, "\n")

	result := Patch(doc, Edits{Confirmation: &ConfirmationEdit{
		Enabled: ptr(true),
		Message: ptr("new message"),
	}})

	require.True(t, result.Changed)
	require.Equal(t, strings.Join([]string{
		"kind: TaskDialog",
		"confirmation:",
		`  activity: "new message"`,
		"  mode: Strict",
		"modelDisplayName: T",
		"",
	}, "\n"), result.Document.Text())
}

func TestPatchConfirmationRemoveAndRemoveAgain(t *testing.T) {
	doc := strings.Join([]string{
		"kind: TaskDialog",
		"confirmation:",
		`  activity: "are you sure"`,
		"  mode: Strict",
		"modelDisplayName: T",
		"",
	}, "\n")

	result := Patch(doc, Edits{Confirmation: &ConfirmationEdit{Enabled: ptr(false)}})
	require.True(t, result.Changed)
	require.Equal(t, "kind: TaskDialog\nmodelDisplayName: T\n", result.Document.Text())

	// Disabling when no block exists is a clean no-op.
	again := Patch(result.Document.Text(), Edits{Confirmation: &ConfirmationEdit{Enabled: ptr(false)}})
	require.False(t, again.Changed)
	require.Empty(t, again.Warnings)
}

func TestPatchConfirmationMessageOnly(t *testing.T) {
	doc := strings.Join([]string{
		"kind: TaskDialog",
		"confirmation:",
		`  activity: "old"`,
		"  mode: Strict",
		"",
	}, "\n")

	result := Patch(doc, Edits{Confirmation: &ConfirmationEdit{Message: ptr("updated")}})
	require.True(t, result.Changed)
	require.Contains(t, result.Document.Text(), `  activity: "updated"`)
	require.Contains(t, result.Document.Text(), "  mode: Strict")

	// Without an existing block a message-only edit warns and changes nothing.
	noBlock := Patch(sampleTool, Edits{Confirmation: &ConfirmationEdit{Message: ptr("updated")}})
	require.False(t, noBlock.Changed)
	require.Len(t, noBlock.Warnings, 1)
	require.Contains(t, noBlock.Warnings[0], "confirmation message left unchanged")
}

func TestPatchInputDefaultOverwritesExistingValue(t *testing.T) {
	result := Patch(sampleTool, Edits{InputDefaults: map[string]string{"workspace": "eng-ws"}})

	require.True(t, result.Changed)
	require.Contains(t, result.Document.Text(), `    defaultValue: "eng-ws"`)
	require.NotContains(t, result.Document.Text(), "default-ws")
}

func TestPatchInputDefaultInsertsIntoExistingEntry(t *testing.T) {
	result := Patch(sampleTool, Edits{InputDefaults: map[string]string{"taskId": "42"}})

	require.True(t, result.Changed)
	lines := result.Document.Lines()
	for i, line := range lines {
		if strings.TrimSpace(line) == "- propertyName: taskId" {
			require.Equal(t, `    defaultValue: "42"`, lines[i+1])
			return
		}
	}
	t.Fatal("taskId entry not found")
}

func TestPatchInputDefaultAppendsMissingEntry(t *testing.T) {
	result := Patch(sampleTool, Edits{InputDefaults: map[string]string{"project": "apollo"}})

	require.True(t, result.Changed)
	require.Contains(t, result.Document.Text(), strings.Join([]string{
		"  - propertyName: project",
		`    defaultValue: "apollo"`,
		"action:",
	}, "\n"))
}

func TestPatchInputDefaultCreatesInputsSection(t *testing.T) {
	doc := "kind: TaskDialog\nmodelDisplayName: T\n"
	result := Patch(doc, Edits{InputDefaults: map[string]string{"region": "west"}})

	require.True(t, result.Changed)
	require.Equal(t, strings.Join([]string{
		"kind: TaskDialog",
		"inputs:",
		"  - propertyName: region",
		`    defaultValue: "west"`,
		"modelDisplayName: T",
		"",
	}, "\n"), result.Document.Text())
}

func TestPatchDisplayName(t *testing.T) {
	result := Patch(sampleTool, Edits{DisplayName: ptr("Fetch Task")})

	require.True(t, result.Changed)
	require.Contains(t, result.Document.Text(), `modelDisplayName: "Fetch Task"`)
}

func TestPatchCombinedEditsRemainValid(t *testing.T) {
	result := Patch(sampleTool, Edits{
		Description:  ptr("Fetches a task by id"),
		Availability: ptr(true),
		Confirmation: &ConfirmationEdit{Enabled: ptr(true), Message: ptr("Proceed?")},
		InputDefaults: map[string]string{
			"workspace": "eng",
			"project":   "apollo",
		},
	})

	require.True(t, result.Changed)
	require.Empty(t, result.Warnings)
	require.NoError(t, Validate(result.Document.Text()))
}
