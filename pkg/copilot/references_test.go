// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package copilot_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/microsoft/copilot-studio-cli/pkg/copilot"
	"github.com/microsoft/copilot-studio-cli/test/mocks/mockhttp"
)

func TestReferenceLogicalName(t *testing.T) {
	require.Equal(t,
		"cr83c_supportAgent.shared_asana.conn1",
		copilot.ReferenceLogicalName("cr83c_supportAgent", "shared_asana", "conn1"),
	)
}

func TestEnsureConnectionReferenceReturnsExisting(t *testing.T) {
	mockHttp := mockhttp.NewMockHttpClient()

	// Only the lookup is mocked; a create attempt would panic.
	mockHttp.When(func(req *http.Request) bool {
		return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "connectionreferences")
	}).RespondJSON(http.StatusOK, map[string]any{"value": []map[string]any{{
		"connectionreferenceid":          "ref1",
		"connectionreferencelogicalname": "cr83c_supportAgent.shared_asana.conn1",
	}}})

	service := createTestService(mockHttp)

	first, err := service.EnsureConnectionReference(
		context.Background(), "cr83c_supportAgent", "shared_asana", "conn1")
	require.NoError(t, err)
	require.Equal(t, "ref1", first.ID)

	// Repeating the reconciliation resolves to the same reference.
	second, err := service.EnsureConnectionReference(
		context.Background(), "cr83c_supportAgent", "shared_asana", "conn1")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestEnsureConnectionReferenceRequiresSchemaName(t *testing.T) {
	service := createTestService(mockhttp.NewMockHttpClient())

	_, err := service.EnsureConnectionReference(context.Background(), "", "shared_asana", "conn1")

	var validationErr *copilot.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestReleaseIfUnusedSkipsManagedNamespace(t *testing.T) {
	// No HTTP traffic is mocked at all; any request would panic.
	service := createTestService(mockhttp.NewMockHttpClient())

	released, warnings := service.ReleaseConnectionReferenceIfUnused(
		context.Background(), testBot.ID, "msdyn_platform_ref")
	require.False(t, released)
	require.Empty(t, warnings)
}
