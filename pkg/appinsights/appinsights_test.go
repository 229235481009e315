// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appinsights_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/require"

	"github.com/microsoft/copilot-studio-cli/pkg/appinsights"
	"github.com/microsoft/copilot-studio-cli/test/mocks"
	"github.com/microsoft/copilot-studio-cli/test/mocks/mockhttp"
)

func createTestClient(mockHttp *mockhttp.MockHttpClient) *appinsights.Client {
	return appinsights.NewClient(&mocks.MockCredentials{}, &azcore.ClientOptions{
		Transport: mockHttp,
	})
}

func TestQuery(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockHttp := mockhttp.NewMockHttpClient()
		mockHttp.When(func(req *http.Request) bool {
			return req.Method == http.MethodPost && strings.Contains(req.URL.Path, "/v1/apps/app-1/query")
		}).RespondJSON(http.StatusOK, map[string]any{
			"tables": []map[string]any{
				{
					"name":    "PrimaryResult",
					"columns": []map[string]any{{"name": "timestamp"}, {"name": "message"}},
					"rows":    [][]any{{"2026-08-01T10:00:00Z", "turn started"}},
				},
			},
		})

		client := createTestClient(mockHttp)
		result, err := client.Query(context.Background(), "app-1", "union traces", "PT24H")
		require.NoError(t, err)
		require.Len(t, result.Tables, 1)
		require.Equal(t, "message", result.Tables[0].Columns[1].Name)
		require.Len(t, result.Tables[0].Rows, 1)
	})

	t.Run("MissingTableIsEmptyResult", func(t *testing.T) {
		mockHttp := mockhttp.NewMockHttpClient()
		mockHttp.When(func(req *http.Request) bool {
			return true
		}).Respond(http.StatusBadRequest,
			`{"error": {"code": "BadArgumentError", "message": "Failed to resolve table or column expression named 'customEvents'"}}`)

		client := createTestClient(mockHttp)
		result, err := client.Query(context.Background(), "app-1", "customEvents", "PT1H")
		require.NoError(t, err)
		require.Empty(t, result.Tables)
	})

	t.Run("OtherErrorsSurface", func(t *testing.T) {
		mockHttp := mockhttp.NewMockHttpClient()
		mockHttp.When(func(req *http.Request) bool {
			return true
		}).Respond(http.StatusForbidden, `{"error": {"message": "The provided credentials have insufficient access"}}`)

		client := createTestClient(mockHttp)
		_, err := client.Query(context.Background(), "app-1", "traces", "PT1H")

		var queryErr *appinsights.QueryError
		require.ErrorAs(t, err, &queryErr)
		require.Equal(t, http.StatusForbidden, queryErr.StatusCode)
		require.Contains(t, queryErr.Message, "insufficient access")
	})
}

func TestConvertTimespan(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"24h", "PT24H"},
		{"1h", "PT1H"},
		{"7d", "P7D"},
		{"30d", "P30D"},
		{"pt12h", "PT12H"},
		{"P3D", "P3D"},
	}

	for _, tc := range cases {
		actual, err := appinsights.ConvertTimespan(tc.input)
		require.NoError(t, err)
		require.Equal(t, tc.expected, actual)
	}

	_, err := appinsights.ConvertTimespan("yesterday")
	require.Error(t, err)

	_, err = appinsights.ConvertTimespan("24m")
	require.Error(t, err)
}
