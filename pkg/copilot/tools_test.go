// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package copilot_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/require"

	"github.com/microsoft/copilot-studio-cli/pkg/copilot"
	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
	"github.com/microsoft/copilot-studio-cli/pkg/dialog"
	"github.com/microsoft/copilot-studio-cli/pkg/powerplatform"
	"github.com/microsoft/copilot-studio-cli/test/mocks"
	"github.com/microsoft/copilot-studio-cli/test/mocks/mockhttp"
)

const (
	testOrgURL        = "https://contoso.crm.dynamics.com"
	testEnvironmentID = "Default-00000000-0000-0000-0000-000000000000"
)

var testBot = &dataverse.Bot{
	ID:         "bbbbbbbb-0000-0000-0000-000000000001",
	Name:       "Support Agent",
	SchemaName: "cr83c_supportAgent",
}

func createTestService(mockHttp *mockhttp.MockHttpClient) *copilot.Service {
	options := func() *azcore.ClientOptions {
		return &azcore.ClientOptions{Transport: mockHttp}
	}

	return copilot.NewService(
		dataverse.NewClient(testOrgURL, &mocks.MockCredentials{}, options()),
		powerplatform.NewClient(testEnvironmentID, &mocks.MockCredentials{}, options()),
	)
}

func mustJSON(obj any) string {
	raw, err := json.Marshal(obj)
	if err != nil {
		panic(err)
	}

	return string(raw)
}

const connectorToolData = `kind: TaskDialog
schemaName: cr83c_supportAgent.action.Asana-GetTask_a1b
modelDisplayName: "Get Task"
modelDescription: "Retrieves a task"
action:
  kind: InvokeConnectorTaskAction
  connectorId: shared_asana
  operationId: GetTask
  connectionReference: cr83c_supportAgent.shared_asana.conn1
  connectionProperties:
    mode: Invoker
inputType: {}
outputType: {}
`

func componentJSON(id string, name string, componentType int, data string) map[string]any {
	return map[string]any{
		"botcomponentid": id,
		"name":           name,
		"schemaname":     "cr83c_supportAgent.component." + id,
		"componenttype":  componentType,
		"data":           data,
	}
}

func TestUpdateToolSkipsWriteWhenNothingChanges(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	// Only the read is mocked. If the service issued a PATCH the unmatched
	// request would panic.
	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet &&
			strings.Contains(req.URL.Path, "botcomponents(comp1)")
	}).RespondJSON(http.StatusOK, componentJSON("comp1", "Get Task", dataverse.ComponentTypeTopicV2, connectorToolData))

	service := createTestService(mockHttp)

	disabled := false
	result, err := service.UpdateTool(context.Background(), "comp1", dialog.Edits{
		Confirmation: &dialog.ConfirmationEdit{Enabled: &disabled},
	})
	require.NoError(t, err)
	require.False(t, result.Changed)
	require.Empty(t, result.Warnings)
}

func TestUpdateToolWritesPatchedDocument(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet &&
			strings.Contains(req.URL.Path, "botcomponents(comp1)")
	}).RespondJSON(http.StatusOK, componentJSON("comp1", "Get Task", dataverse.ComponentTypeTopicV2, connectorToolData))

	var patchBody map[string]any
	mockHttp.When(func(req *http.Request) bool {
		if req.Method != http.MethodPatch || !strings.Contains(req.URL.Path, "botcomponents(comp1)") {
			return false
		}
		raw, _ := io.ReadAll(req.Body)
		require.NoError(t, json.Unmarshal(raw, &patchBody))
		return true
	}).Respond(http.StatusNoContent, "")

	service := createTestService(mockHttp)

	description := "Fetches one Asana task"
	result, err := service.UpdateTool(context.Background(), "comp1", dialog.Edits{
		Description: &description,
	})
	require.NoError(t, err)
	require.True(t, result.Changed)

	require.Equal(t, description, patchBody["description"])
	require.Contains(t, patchBody["data"], `modelDescription: "Fetches one Asana task"`)
	// Untouched lines survive byte for byte.
	require.Contains(t, patchBody["data"], "  connectionReference: cr83c_supportAgent.shared_asana.conn1\n")
}

func TestUpdateToolRejectsNonTools(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()
	mockHttp.When(func(req *http.Request) bool {
		return strings.Contains(req.URL.Path, "botcomponents(topic1)")
	}).RespondJSON(http.StatusOK, componentJSON("topic1", "Greeting", dataverse.ComponentTypeTopicV2, "kind: AdaptiveDialog\n"))

	service := createTestService(mockHttp)

	name := "New name"
	_, err := service.UpdateTool(context.Background(), "topic1", dialog.Edits{DisplayName: &name})

	var validationErr *copilot.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, err.Error(), "not a tool")
}

func TestRemoveToolDeletesToolBeforeReleasingReference(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	var order []string

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.Contains(req.URL.Path, "botcomponents(comp1)")
	}).RespondJSON(http.StatusOK, componentJSON("comp1", "Get Task", dataverse.ComponentTypeTopicV2, connectorToolData))

	mockHttp.When(func(req *http.Request) bool {
		if req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "botcomponents(comp1)") {
			order = append(order, "delete-tool")
			return true
		}
		return false
	}).Respond(http.StatusNoContent, "")

	mockHttp.When(func(req *http.Request) bool {
		if req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "connectionreferences") {
			order = append(order, "lookup-reference")
			return true
		}
		return false
	}).RespondJSON(http.StatusOK, map[string]any{
		"value": []map[string]any{{
			"connectionreferenceid":          "ref1",
			"connectionreferencelogicalname": "cr83c_supportAgent.shared_asana.conn1",
		}},
	})

	// No other component mentions the reference, so it is orphaned.
	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "botcomponents")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{}})

	mockHttp.When(func(req *http.Request) bool {
		if req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "connectionreferences(ref1)") {
			order = append(order, "delete-reference")
			return true
		}
		return false
	}).Respond(http.StatusNoContent, "")

	service := createTestService(mockHttp)

	result, err := service.RemoveTool(context.Background(), testBot, "comp1")
	require.NoError(t, err)
	require.True(t, result.Changed)
	require.Empty(t, result.Warnings)

	// The tool must be gone before the orphan check runs, so the tool being
	// removed never counts as a holder of its own reference.
	require.Equal(t, []string{"delete-tool", "lookup-reference", "delete-reference"}, order)
}

func TestRemoveToolKeepsReferenceStillInUse(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.Contains(req.URL.Path, "botcomponents(comp1)")
	}).RespondJSON(http.StatusOK, componentJSON("comp1", "Get Task", dataverse.ComponentTypeTopicV2, connectorToolData))

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "botcomponents(comp1)")
	}).Respond(http.StatusNoContent, "")

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "connectionreferences")
	}).RespondJSON(http.StatusOK, map[string]any{
		"value": []map[string]any{{
			"connectionreferenceid":          "ref1",
			"connectionreferencelogicalname": "cr83c_supportAgent.shared_asana.conn1",
		}},
	})

	// Another tool still mentions the reference; no delete is mocked, so an
	// attempted delete would panic.
	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "botcomponents")
	}).RespondJSON(http.StatusOK, map[string]any{
		"value": []map[string]any{
			componentJSON("comp2", "Other Tool", dataverse.ComponentTypeTopicV2, connectorToolData),
		},
	})

	service := createTestService(mockHttp)

	result, err := service.RemoveTool(context.Background(), testBot, "comp1")
	require.NoError(t, err)
	require.Empty(t, result.Warnings)
}

func TestRemoveToolNeverDeletesManagedReferences(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	managedToolData := strings.ReplaceAll(
		connectorToolData,
		"cr83c_supportAgent.shared_asana.conn1",
		"msdyn_sharedconnection",
	)

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.Contains(req.URL.Path, "botcomponents(comp1)")
	}).RespondJSON(http.StatusOK, componentJSON("comp1", "Get Task", dataverse.ComponentTypeTopicV2, managedToolData))

	// Only the component delete is mocked; any reference traffic would panic.
	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "botcomponents(comp1)")
	}).Respond(http.StatusNoContent, "")

	service := createTestService(mockHttp)

	result, err := service.RemoveTool(context.Background(), testBot, "comp1")
	require.NoError(t, err)
	require.Empty(t, result.Warnings)
}

func TestRemoveToolSwallowsReleaseFailures(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.Contains(req.URL.Path, "botcomponents(comp1)")
	}).RespondJSON(http.StatusOK, componentJSON("comp1", "Get Task", dataverse.ComponentTypeTopicV2, connectorToolData))

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "botcomponents(comp1)")
	}).Respond(http.StatusNoContent, "")

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "connectionreferences")
	}).RespondJSON(http.StatusBadRequest, map[string]any{
		"error": map[string]any{"message": "reference lookup failed"},
	})

	service := createTestService(mockHttp)

	result, err := service.RemoveTool(context.Background(), testBot, "comp1")
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.Warnings[0], "reference lookup failed")
}

func TestListToolsFiltersOutTopics(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "botcomponents")
	}).RespondJSON(http.StatusOK, map[string]any{
		"value": []map[string]any{
			componentJSON("comp1", "Get Task", dataverse.ComponentTypeTopicV2, connectorToolData),
			componentJSON("topic1", "Greeting", dataverse.ComponentTypeTopicV2, "kind: AdaptiveDialog\n"),
		},
	})

	service := createTestService(mockHttp)

	tools, err := service.ListTools(context.Background(), testBot.ID)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	require.Equal(t, "Get Task", tools[0].Name)
	require.Equal(t, "connector", tools[0].Kind)
}

func TestAddConnectedAgentToolRejectsSelf(t *testing.T) {
	service := createTestService(mockhttp.NewMockHttpClient())

	_, err := service.AddConnectedAgentTool(context.Background(), testBot, testBot, "", true)

	var validationErr *copilot.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestAddConnectorToolRequiresConnection(t *testing.T) {
	service := createTestService(mockhttp.NewMockHttpClient())

	_, err := service.AddConnectorTool(context.Background(), testBot, copilot.AddConnectorToolOptions{
		Target: "shared_asana:GetTask",
	})

	var validationErr *copilot.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.ErrorContains(t, err, "connection is required")
}

func TestAddConnectorToolValidatesOperationAndReconcilesReference(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	mockHttp.When(func(req *http.Request) bool {
		return req.URL.Host == "api.powerapps.com" && strings.Contains(req.URL.Path, "apis/shared_asana")
	}).RespondJSON(http.StatusOK, map[string]any{
		"name": "shared_asana",
		"properties": map[string]any{
			"displayName": "Asana",
			"swagger": map[string]any{
				"paths": map[string]any{
					"/tasks/{taskId}": map[string]any{
						"get": map[string]any{
							"operationId": "GetTask",
							"summary":     "Get a task",
							"responses":   map[string]any{},
						},
					},
				},
			},
		},
	})

	// No reference exists yet, so one is created.
	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "connectionreferences")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{}})

	var createdReference map[string]any
	mockHttp.When(func(req *http.Request) bool {
		if req.Method != http.MethodPost || !strings.HasSuffix(req.URL.Path, "connectionreferences") {
			return false
		}
		raw, _ := io.ReadAll(req.Body)
		require.NoError(t, json.Unmarshal(raw, &createdReference))
		return true
	}).RespondWithHeaders(http.StatusNoContent, "", http.Header{
		"OData-EntityId": []string{testOrgURL + "/api/data/v9.2/connectionreferences(ref1)"},
	})

	var createdComponent map[string]any
	mockHttp.When(func(req *http.Request) bool {
		if req.Method != http.MethodPost || !strings.HasSuffix(req.URL.Path, "botcomponents") {
			return false
		}
		raw, _ := io.ReadAll(req.Body)
		require.NoError(t, json.Unmarshal(raw, &createdComponent))
		return true
	}).RespondWithHeaders(http.StatusNoContent, "", http.Header{
		"OData-EntityId": []string{testOrgURL + "/api/data/v9.2/botcomponents(comp1)"},
	})

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodPost && strings.Contains(req.URL.Path, "botcomponent_connectionreference")
	}).Respond(http.StatusNoContent, "")

	service := createTestService(mockHttp)

	result, err := service.AddConnectorTool(context.Background(), testBot, copilot.AddConnectorToolOptions{
		Target:       "shared_asana:GetTask",
		ConnectionID: "conn1",
	})
	require.NoError(t, err)
	require.Equal(t, "comp1", result.ID)
	require.Empty(t, result.Warnings)

	logicalName := "cr83c_supportAgent.shared_asana.conn1"
	require.Equal(t, logicalName, createdReference["connectionreferencelogicalname"])
	require.Equal(t, logicalName, createdReference["connectionreferencedisplayname"])

	data, ok := createdComponent["data"].(string)
	require.True(t, ok)
	require.Contains(t, data, "connectionReference: "+logicalName+"\n")
	require.Contains(t, data, "operationId: GetTask\n")
	require.NoError(t, dialog.Validate(data))
}

func TestAddConnectorToolRejectsUnknownOperation(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	mockHttp.When(func(req *http.Request) bool {
		return req.URL.Host == "api.powerapps.com"
	}).RespondJSON(http.StatusOK, map[string]any{
		"name": "shared_asana",
		"properties": map[string]any{
			"displayName": "Asana",
			"swagger": map[string]any{
				"paths": map[string]any{
					"/tasks/{taskId}": map[string]any{
						"get": map[string]any{
							"operationId": "GetTask",
							"responses":   map[string]any{},
						},
					},
				},
			},
		},
	})

	service := createTestService(mockHttp)

	_, err := service.AddConnectorTool(context.Background(), testBot, copilot.AddConnectorToolOptions{
		Target:       "shared_asana:get_task",
		ConnectionID: "conn1",
	})
	require.ErrorContains(t, err, "Did you mean: GetTask")
}
