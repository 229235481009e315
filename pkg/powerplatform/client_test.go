// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package powerplatform_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/require"

	"github.com/microsoft/copilot-studio-cli/pkg/powerplatform"
	"github.com/microsoft/copilot-studio-cli/test/mocks"
	"github.com/microsoft/copilot-studio-cli/test/mocks/mockhttp"
)

const testEnvironmentID = "Default-00000000-0000-0000-0000-000000000000"

func createTestClient(mockHttp *mockhttp.MockHttpClient) *powerplatform.Client {
	return powerplatform.NewClient(testEnvironmentID, &mocks.MockCredentials{}, &azcore.ClientOptions{
		Transport: mockHttp,
	})
}

func TestListConnections(t *testing.T) {
	t.Run("ScopedToConnectorAndEnvironment", func(t *testing.T) {
		mockHttp := mockhttp.NewMockHttpClient()

		var captured *http.Request
		mockHttp.When(func(req *http.Request) bool {
			captured = req
			return strings.Contains(req.URL.Path, "apis/shared_asana/connections")
		}).RespondJSON(http.StatusOK, map[string]any{
			"value": []map[string]any{
				{
					"name": "c1",
					"properties": map[string]any{
						"displayName": "Asana work",
						"statuses":    []map[string]any{{"status": "Connected"}},
					},
				},
			},
		})

		client := createTestClient(mockHttp)
		connections, err := client.ListConnections(context.Background(), "shared_asana")
		require.NoError(t, err)
		require.Len(t, connections, 1)
		require.Equal(t, "Connected", connections[0].Status())

		query := captured.URL.Query()
		require.Equal(t, "2016-11-01", query.Get("api-version"))
		require.Contains(t, query.Get("$filter"), testEnvironmentID)
	})

	t.Run("StatusUnknownWhenMissing", func(t *testing.T) {
		connection := &powerplatform.Connection{Name: "c2"}
		require.Equal(t, "Unknown", connection.Status())
	})
}

func TestCreateKeyConnection(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	var captured *http.Request
	mockHttp.When(func(req *http.Request) bool {
		captured = req
		return req.Method == http.MethodPut &&
			strings.Contains(req.URL.Path, "apis/shared_azureaisearch/connections/")
	}).RespondJSON(http.StatusCreated, map[string]any{
		"name": "generated-id",
		"properties": map[string]any{
			"displayName": "Search connection",
		},
	})

	client := createTestClient(mockHttp)
	connection, err := client.CreateKeyConnection(
		context.Background(),
		"shared_azureaisearch",
		"Search connection",
		map[string]any{
			"name": "adminkey",
			"values": map[string]any{
				"ConnectionEndpoint": map[string]any{"value": "https://search.example.net"},
				"AdminKey":           map[string]any{"value": "key"},
			},
		},
	)
	require.NoError(t, err)
	require.Equal(t, "generated-id", connection.Name)

	// A fresh connection id is generated per call.
	segments := strings.Split(captured.URL.Path, "/")
	require.NotEmpty(t, segments[len(segments)-1])
}

func TestConnectorIsCustom(t *testing.T) {
	cases := []struct {
		name      string
		connector powerplatform.Connector
		expected  bool
	}{
		{
			name: "EnvironmentScoped",
			connector: powerplatform.Connector{
				Properties: powerplatform.ConnectorProperties{
					Environment: map[string]any{"name": testEnvironmentID},
				},
			},
			expected: true,
		},
		{
			name: "MicrosoftManaged",
			connector: powerplatform.Connector{
				Properties: powerplatform.ConnectorProperties{
					Publisher: "Microsoft",
					Tier:      "Standard",
				},
			},
			expected: false,
		},
		{
			name: "ThirdPartyNoTier",
			connector: powerplatform.Connector{
				Properties: powerplatform.ConnectorProperties{
					Publisher: "Contoso Ltd",
					Tier:      "NotSpecified",
				},
			},
			expected: true,
		},
		{
			name: "ThirdPartyWithTier",
			connector: powerplatform.Connector{
				Properties: powerplatform.ConnectorProperties{
					Publisher: "Contoso Ltd",
					Tier:      "Premium",
				},
			},
			expected: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.connector.IsCustom())
		})
	}
}

func TestListMCPServers(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	mockHttp.When(func(req *http.Request) bool {
		return strings.Contains(req.URL.Path, "providers/Microsoft.PowerApps/apis")
	}).RespondJSON(http.StatusOK, map[string]any{
		"value": []map[string]any{
			{
				"name": "shared_microsoftlearndocsmcpserver",
				"properties": map[string]any{
					"displayName": "Microsoft Learn Docs MCP",
					"publisher":   "Microsoft",
					"releaseTag":  "Preview",
				},
			},
			{
				"name": "shared_asana",
				"properties": map[string]any{
					"displayName": "Asana",
				},
			},
		},
	})

	client := createTestClient(mockHttp)
	servers, err := client.ListMCPServers(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 1)
	require.Equal(t, "shared_microsoftlearndocsmcpserver", servers[0].Name)
	require.Equal(t, "Preview", servers[0].Properties.ReleaseTag)
	require.True(t, servers[0].IsMCPServer())
}

func TestGetEnvironment(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()
	mockHttp.When(func(req *http.Request) bool {
		return strings.Contains(req.URL.Path, "Microsoft.BusinessAppPlatform/environments/")
	}).RespondJSON(http.StatusOK, map[string]any{
		"name": testEnvironmentID,
		"properties": map[string]any{
			"displayName":    "Contoso (default)",
			"environmentSku": "Default",
			"linkedEnvironmentMetadata": map[string]any{
				"instanceUrl": "https://contoso.crm.dynamics.com/",
			},
		},
	})

	client := createTestClient(mockHttp)
	environment, err := client.GetEnvironment(context.Background(), testEnvironmentID)
	require.NoError(t, err)
	require.Equal(t, "Default", environment.Properties.EnvironmentSku)
	require.Equal(t, "https://contoso.crm.dynamics.com/", environment.Properties.LinkedMetadata.InstanceURL)
}
