// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/require"

	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
	"github.com/microsoft/copilot-studio-cli/test/mocks"
	"github.com/microsoft/copilot-studio-cli/test/mocks/mockhttp"
)

const testOrgURL = "https://contoso.crm.dynamics.com"

func createTestClient(mockHttp *mockhttp.MockHttpClient) *dataverse.Client {
	return dataverse.NewClient(testOrgURL, &mocks.MockCredentials{}, &azcore.ClientOptions{
		Transport: mockHttp,
	})
}

func TestListBots(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockHttp := mockhttp.NewMockHttpClient()
		mockHttp.When(func(req *http.Request) bool {
			return req.Method == http.MethodGet && strings.Contains(req.URL.Path, "/api/data/v9.2/bots")
		}).RespondJSON(http.StatusOK, map[string]any{
			"value": []map[string]any{
				{"botid": "11111111-1111-1111-1111-111111111111", "name": "Support Agent"},
				{"botid": "22222222-2222-2222-2222-222222222222", "name": "Sales Agent"},
			},
		})

		client := createTestClient(mockHttp)
		bots, err := client.ListBots(context.Background())
		require.NoError(t, err)
		require.Len(t, bots, 2)
		require.Equal(t, "Support Agent", bots[0].Name)
	})

	t.Run("SetsODataHeaders", func(t *testing.T) {
		mockHttp := mockhttp.NewMockHttpClient()

		var captured *http.Request
		mockHttp.When(func(req *http.Request) bool {
			captured = req
			return true
		}).RespondJSON(http.StatusOK, map[string]any{"value": []any{}})

		client := createTestClient(mockHttp)
		_, err := client.ListBots(context.Background())
		require.NoError(t, err)

		require.Equal(t, "4.0", captured.Header.Get("OData-MaxVersion"))
		require.Equal(t, "4.0", captured.Header.Get("OData-Version"))
		require.Equal(t, `odata.include-annotations="*"`, captured.Header.Get("Prefer"))
	})
}

func TestErrorTranslation(t *testing.T) {
	t.Run("ODataErrorMessage", func(t *testing.T) {
		mockHttp := mockhttp.NewMockHttpClient()
		mockHttp.When(func(req *http.Request) bool {
			return true
		}).Respond(http.StatusBadRequest, `{"error": {"message": "The entity is locked"}}`)

		client := createTestClient(mockHttp)
		_, err := client.GetBot(context.Background(), "11111111-1111-1111-1111-111111111111")
		require.Error(t, err)

		var reqErr *dataverse.RequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
		require.Equal(t, "The entity is locked", reqErr.Message)
	})

	t.Run("RawBodyTruncated", func(t *testing.T) {
		mockHttp := mockhttp.NewMockHttpClient()
		mockHttp.When(func(req *http.Request) bool {
			return true
		}).Respond(http.StatusBadRequest, strings.Repeat("x", 600))

		client := createTestClient(mockHttp)
		_, err := client.GetBot(context.Background(), "11111111-1111-1111-1111-111111111111")

		var reqErr *dataverse.RequestError
		require.ErrorAs(t, err, &reqErr)
		require.Len(t, reqErr.Message, 500)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockHttp := mockhttp.NewMockHttpClient()
		mockHttp.When(func(req *http.Request) bool {
			return true
		}).Respond(http.StatusNotFound, `{"error": {"message": "Does not exist"}}`)

		client := createTestClient(mockHttp)
		_, err := client.GetBot(context.Background(), "11111111-1111-1111-1111-111111111111")
		require.True(t, dataverse.IsNotFound(err))
		require.False(t, dataverse.IsUnauthorized(err))
	})
}

func TestEntityIDFromResponse(t *testing.T) {
	res := mockhttp.NewResponse(http.StatusNoContent, "", http.Header{
		"Odata-Entityid": []string{
			testOrgURL + "/api/data/v9.2/botcomponents(33333333-3333-3333-3333-333333333333)",
		},
	})

	require.Equal(t, "33333333-3333-3333-3333-333333333333", dataverse.EntityIDFromResponse(res))
}

func TestEntityIDFromResponseMissingHeader(t *testing.T) {
	res := mockhttp.NewResponse(http.StatusNoContent, "", nil)
	require.Equal(t, "", dataverse.EntityIDFromResponse(res))
}

func TestGetBotByName(t *testing.T) {
	t.Run("PrefersExactMatch", func(t *testing.T) {
		mockHttp := mockhttp.NewMockHttpClient()
		mockHttp.When(func(req *http.Request) bool {
			return strings.Contains(req.URL.RawQuery, "contains")
		}).RespondJSON(http.StatusOK, map[string]any{
			"value": []map[string]any{
				{"botid": "1", "name": "Helpdesk Agent Extended"},
				{"botid": "2", "name": "helpdesk agent"},
			},
		})

		client := createTestClient(mockHttp)
		bot, err := client.GetBotByName(context.Background(), "Helpdesk Agent")
		require.NoError(t, err)
		require.Equal(t, "2", bot.ID)
	})

	t.Run("FallsBackToFirstPartialMatch", func(t *testing.T) {
		mockHttp := mockhttp.NewMockHttpClient()
		mockHttp.When(func(req *http.Request) bool {
			return true
		}).RespondJSON(http.StatusOK, map[string]any{
			"value": []map[string]any{
				{"botid": "1", "name": "Helpdesk Agent Extended"},
			},
		})

		client := createTestClient(mockHttp)
		bot, err := client.GetBotByName(context.Background(), "Helpdesk")
		require.NoError(t, err)
		require.Equal(t, "1", bot.ID)
	})

	t.Run("NoMatch", func(t *testing.T) {
		mockHttp := mockhttp.NewMockHttpClient()
		mockHttp.When(func(req *http.Request) bool {
			return true
		}).RespondJSON(http.StatusOK, map[string]any{"value": []any{}})

		client := createTestClient(mockHttp)
		bot, err := client.GetBotByName(context.Background(), "Missing")
		require.NoError(t, err)
		require.Nil(t, bot)
	})
}

func TestCreateBot(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	var captured *http.Request
	mockHttp.When(func(req *http.Request) bool {
		captured = req
		return req.Method == http.MethodPost && strings.HasSuffix(req.URL.Path, "/bots")
	}).RespondWithHeaders(http.StatusNoContent, "", http.Header{
		"Odata-Entityid": []string{testOrgURL + "/api/data/v9.2/bots(44444444-4444-4444-4444-444444444444)"},
	})

	client := createTestClient(mockHttp)
	botID, err := client.CreateBot(context.Background(), dataverse.BotCreateOptions{
		Name:          "My Support Agent!",
		Orchestration: true,
	})
	require.NoError(t, err)
	require.Equal(t, "44444444-4444-4444-4444-444444444444", botID)
	require.NotNil(t, captured)
}

func TestListTopicsClassification(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()
	mockHttp.When(func(req *http.Request) bool {
		return strings.Contains(req.URL.Path, "botcomponents")
	}).RespondJSON(http.StatusOK, map[string]any{
		"value": []map[string]any{
			{"botcomponentid": "1", "name": "Greeting", "componenttype": 9},
			{"botcomponentid": "2", "name": "Order Status", "componenttype": 9},
			{"botcomponentid": "3", "name": "Refunds", "componenttype": 0, "category": "SYSTEM"},
			{"botcomponentid": "4", "name": "Billing", "componenttype": 9, "schemaname": "system.billing"},
		},
	})

	client := createTestClient(mockHttp)

	topics, err := client.ListTopics(context.Background(), "bot-1", false, true)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	require.Equal(t, "Order Status", topics[0].Name)

	topics, err = client.ListTopics(context.Background(), "bot-1", true, false)
	require.NoError(t, err)
	require.Len(t, topics, 3)
	for _, topic := range topics {
		require.True(t, topic.IsSystem)
	}
}
