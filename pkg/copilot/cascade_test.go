// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package copilot_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/microsoft/copilot-studio-cli/pkg/copilot"
	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
	"github.com/microsoft/copilot-studio-cli/test/mocks/mockhttp"
)

func TestDeleteAgentFailsClosedWithoutCascade(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	components := make([]map[string]any, 0, 13)
	for i := 0; i < 12; i++ {
		components = append(components, componentJSON(
			fmt.Sprintf("tool%d", i),
			fmt.Sprintf("Tool %02d", i),
			dataverse.ComponentTypeTopicV2,
			connectorToolData,
		))
	}
	components = append(components, componentJSON("topic1", "Greeting", dataverse.ComponentTypeTopicV2, "kind: AdaptiveDialog\n"))

	// Only the component listing is mocked; a delete would panic.
	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "botcomponents")
	}).RespondJSON(http.StatusOK, map[string]any{"value": components})

	service := createTestService(mockHttp)

	_, err := service.DeleteAgent(context.Background(), testBot, false)

	var conflict *copilot.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Blockers, 2)

	tools := conflict.Blockers[0]
	require.Equal(t, "tools", tools.Category)
	require.Len(t, tools.Names, 10)
	require.Equal(t, 2, tools.More)

	topics := conflict.Blockers[1]
	require.Equal(t, "topics", topics.Category)
	require.Equal(t, []string{"Greeting"}, topics.Names)

	require.Contains(t, err.Error(), "+2 more")
	require.Contains(t, err.Error(), "--cascade")
}

func TestDeleteAgentCascadeToleratesComponentFailures(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "botcomponents")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{
		componentJSON("comp1", "Tool A", dataverse.ComponentTypeTopicV2, connectorToolData),
		componentJSON("comp2", "Stubborn", dataverse.ComponentTypeTopicV2, connectorToolData),
		componentJSON("comp3", "Topic", dataverse.ComponentTypeTopicV2, "kind: AdaptiveDialog\n"),
	}})

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "botcomponents(comp2)")
	}).RespondJSON(http.StatusBadRequest, map[string]any{
		"error": map[string]any{"message": "component is locked"},
	})

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "botcomponents(")
	}).Respond(http.StatusNoContent, "")

	var agentDeleted bool
	mockHttp.When(func(req *http.Request) bool {
		if req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "bots(") {
			agentDeleted = true
			return true
		}
		return false
	}).Respond(http.StatusNoContent, "")

	service := createTestService(mockHttp)

	result, err := service.DeleteAgent(context.Background(), testBot, true)
	require.NoError(t, err)
	require.True(t, agentDeleted)
	require.Equal(t, 2, result.Deleted)
	require.Equal(t, 1, result.Failed)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.Warnings[0], "component is locked")
}

func TestDeleteAgentWithoutComponents(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "botcomponents")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{}})

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "bots(")
	}).Respond(http.StatusNoContent, "")

	service := createTestService(mockHttp)

	result, err := service.DeleteAgent(context.Background(), testBot, false)
	require.NoError(t, err)
	require.Equal(t, 0, result.Deleted)
	require.Equal(t, 0, result.Failed)
}

func testConnector() *dataverse.Connector {
	return &dataverse.Connector{
		ID:          "cccccccc-0000-0000-0000-000000000001",
		Name:        "cr83c_myapi",
		DisplayName: "My API",
	}
}

func TestDeleteConnectorFailsClosedWithoutCascade(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "bots")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{
		{"botid": testBot.ID, "name": testBot.Name, "schemaname": testBot.SchemaName},
	}})

	toolData := strings.ReplaceAll(connectorToolData, "shared_asana", "cr83c_myapi")
	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "botcomponents")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{
		componentJSON("comp1", "My API Tool", dataverse.ComponentTypeTopicV2, toolData),
	}})

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "connectionreferences")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{{
		"connectionreferenceid":          "ref1",
		"connectionreferencelogicalname": "cr83c_supportAgent.cr83c_myapi.conn1",
		"connectorid":                    "/providers/Microsoft.PowerApps/apis/cr83c_myapi",
	}}})

	mockHttp.When(func(req *http.Request) bool {
		return req.URL.Host == "api.powerapps.com" && strings.Contains(req.URL.Path, "apis/cr83c_myapi/connections")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{
		{"name": "conn1", "properties": map[string]any{"displayName": "My API conn"}},
	}})

	service := createTestService(mockHttp)

	_, err := service.DeleteConnector(context.Background(), testConnector(), false)

	var conflict *copilot.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Blockers, 3)
	require.Equal(t, "tools", conflict.Blockers[0].Category)
	require.Equal(t, "connection references", conflict.Blockers[1].Category)
	require.Equal(t, "connections", conflict.Blockers[2].Category)
}

func TestDeleteConnectorCascadeOrdersDependents(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	var order []string

	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "bots")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{
		{"botid": testBot.ID, "name": testBot.Name},
	}})

	toolData := strings.ReplaceAll(connectorToolData, "shared_asana", "cr83c_myapi")
	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "botcomponents")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{
		componentJSON("comp1", "My API Tool", dataverse.ComponentTypeTopicV2, toolData),
	}})

	// One deletable reference and one platform-managed one that must survive.
	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "connectionreferences")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{
		{
			"connectionreferenceid":          "ref1",
			"connectionreferencelogicalname": "cr83c_supportAgent.cr83c_myapi.conn1",
			"connectorid":                    "/providers/Microsoft.PowerApps/apis/cr83c_myapi",
		},
		{
			"connectionreferenceid":          "ref2",
			"connectionreferencelogicalname": "msdyn_platform_ref",
			"connectorid":                    "/providers/Microsoft.PowerApps/apis/cr83c_myapi",
		},
	}})

	mockHttp.When(func(req *http.Request) bool {
		return req.URL.Host == "api.powerapps.com" &&
			req.Method == http.MethodGet &&
			strings.Contains(req.URL.Path, "connections")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{
		{"name": "conn1", "properties": map[string]any{"displayName": "My API conn"}},
	}})

	mockHttp.When(func(req *http.Request) bool {
		if req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "botcomponents(comp1)") {
			order = append(order, "tool")
			return true
		}
		return false
	}).Respond(http.StatusNoContent, "")

	mockHttp.When(func(req *http.Request) bool {
		if req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "connectionreferences(ref1)") {
			order = append(order, "reference")
			return true
		}
		return false
	}).Respond(http.StatusNoContent, "")

	mockHttp.When(func(req *http.Request) bool {
		if req.URL.Host == "api.powerapps.com" && req.Method == http.MethodDelete {
			order = append(order, "connection")
			return true
		}
		return false
	}).Respond(http.StatusOK, "")

	mockHttp.When(func(req *http.Request) bool {
		if req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "connectors(") {
			order = append(order, "connector")
			return true
		}
		return false
	}).Respond(http.StatusNoContent, "")

	service := createTestService(mockHttp)

	result, err := service.DeleteConnector(context.Background(), testConnector(), true)
	require.NoError(t, err)
	require.Equal(t, 3, result.Deleted)
	require.Equal(t, 0, result.Failed)

	// Tools fall first so nothing ever points at a missing connection, and
	// the msdyn_ reference is skipped entirely.
	require.Equal(t, []string{"tool", "reference", "connection", "connector"}, order)
}
