// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package powerplatform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/google/uuid"
)

// Client issues requests against the Power Apps and BAP APIs for a single
// environment.
type Client struct {
	credential    azcore.TokenCredential
	options       *azcore.ClientOptions
	pipeline      runtime.Pipeline
	environmentID string
}

func NewClient(
	environmentID string,
	credential azcore.TokenCredential,
	options *azcore.ClientOptions,
) *Client {
	if options == nil {
		options = &azcore.ClientOptions{}
	}

	options.PerCallPolicies = append(options.PerCallPolicies, NewApiVersionPolicy(nil))
	pipeline := NewPipeline(credential, ServiceConfig, options)

	return &Client{
		credential:    credential,
		options:       options,
		pipeline:      pipeline,
		environmentID: environmentID,
	}
}

func (c *Client) EnvironmentID() string {
	return c.environmentID
}

func (c *Client) createRequest(
	ctx context.Context,
	httpMethod string,
	host string,
	path string,
) (*policy.Request, error) {
	req, err := runtime.NewRequest(ctx, httpMethod, fmt.Sprintf("https://%s/%s", host, path))
	if err != nil {
		return nil, fmt.Errorf("failed creating request: %w", err)
	}

	return req, nil
}

// environmentFilter is the $filter expression scoping a request to the
// client's environment.
func (c *Client) environmentFilter() string {
	return fmt.Sprintf("environment eq '%s'", c.environmentID)
}

// ListConnectors returns the connectors visible in the environment.
func (c *Client) ListConnectors(ctx context.Context) ([]*Connector, error) {
	req, err := c.createRequest(ctx, http.MethodGet, PowerAppsHostName, "providers/Microsoft.PowerApps/apis")
	if err != nil {
		return nil, err
	}

	c.setQuery(req, url.Values{"$filter": []string{c.environmentFilter()}})

	res, err := c.pipeline.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK) {
		return nil, newRequestError(res)
	}

	response, err := readJSON[listResponse[Connector]](res)
	if err != nil {
		return nil, err
	}

	return response.Value, nil
}

// ListMCPServers returns the catalog connectors that are Model Context
// Protocol servers, available to agents as tools.
func (c *Client) ListMCPServers(ctx context.Context) ([]*Connector, error) {
	connectors, err := c.ListConnectors(ctx)
	if err != nil {
		return nil, err
	}

	servers := make([]*Connector, 0, len(connectors))
	for _, connector := range connectors {
		if connector.IsMCPServer() {
			servers = append(servers, connector)
		}
	}

	return servers, nil
}

// GetConnector returns one connector including its swagger document.
func (c *Client) GetConnector(ctx context.Context, connectorID string) (*Connector, error) {
	req, err := c.createRequest(ctx, http.MethodGet, PowerAppsHostName,
		fmt.Sprintf("providers/Microsoft.PowerApps/apis/%s", connectorID))
	if err != nil {
		return nil, err
	}

	c.setQuery(req, url.Values{"$filter": []string{c.environmentFilter()}})

	res, err := c.pipeline.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK) {
		return nil, newRequestError(res)
	}

	return readJSON[Connector](res)
}

// ListConnections returns connections in the environment, all of them or
// those of a single connector.
func (c *Client) ListConnections(ctx context.Context, connectorID string) ([]*Connection, error) {
	path := "providers/Microsoft.PowerApps/connections"
	if connectorID != "" {
		path = fmt.Sprintf("providers/Microsoft.PowerApps/apis/%s/connections", connectorID)
	}

	req, err := c.createRequest(ctx, http.MethodGet, PowerAppsHostName, path)
	if err != nil {
		return nil, err
	}

	c.setQuery(req, url.Values{"$filter": []string{c.environmentFilter()}})

	res, err := c.pipeline.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK) {
		return nil, newRequestError(res)
	}

	response, err := readJSON[listResponse[Connection]](res)
	if err != nil {
		return nil, err
	}

	return response.Value, nil
}

// CreateKeyConnection creates a key-authenticated connection with a generated
// id and returns the created connection. parameterSet carries the connector's
// connection parameter set name and values, e.g. adminkey for Azure AI
// Search.
func (c *Client) CreateKeyConnection(
	ctx context.Context,
	connectorID string,
	displayName string,
	parameterSet map[string]any,
) (*Connection, error) {
	connectionID := uuid.NewString()

	req, err := c.createRequest(ctx, http.MethodPut, PowerAppsHostName,
		fmt.Sprintf("providers/Microsoft.PowerApps/apis/%s/connections/%s", connectorID, connectionID))
	if err != nil {
		return nil, err
	}

	c.setQuery(req, url.Values{"$filter": []string{c.environmentFilter()}})

	body := map[string]any{
		"properties": map[string]any{
			"environment": map[string]any{
				"id":   fmt.Sprintf("/providers/Microsoft.PowerApps/environments/%s", c.environmentID),
				"name": c.environmentID,
			},
			"displayName":             displayName,
			"connectionParametersSet": parameterSet,
		},
	}

	if err := runtime.MarshalAsJSON(req, body); err != nil {
		return nil, fmt.Errorf("marshalling request body: %w", err)
	}

	res, err := c.pipeline.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK, http.StatusCreated) {
		return nil, newRequestError(res)
	}

	return readJSON[Connection](res)
}

func (c *Client) DeleteConnection(ctx context.Context, connectorID string, connectionID string) error {
	req, err := c.createRequest(ctx, http.MethodDelete, PowerAppsHostName,
		fmt.Sprintf("providers/Microsoft.PowerApps/apis/%s/connections/%s", connectorID, connectionID))
	if err != nil {
		return err
	}

	c.setQuery(req, url.Values{"$filter": []string{c.environmentFilter()}})

	res, err := c.pipeline.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK, http.StatusNoContent) {
		return newRequestError(res)
	}

	return nil
}

// ListEnvironments returns the tenant's Power Platform environments.
func (c *Client) ListEnvironments(ctx context.Context) ([]*Environment, error) {
	req, err := c.createRequest(ctx, http.MethodGet, BapHostName,
		"providers/Microsoft.BusinessAppPlatform/environments")
	if err != nil {
		return nil, err
	}

	res, err := c.pipeline.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK) {
		return nil, newRequestError(res)
	}

	response, err := readJSON[listResponse[Environment]](res)
	if err != nil {
		return nil, err
	}

	return response.Value, nil
}

func (c *Client) GetEnvironment(ctx context.Context, environmentID string) (*Environment, error) {
	req, err := c.createRequest(ctx, http.MethodGet, BapHostName,
		fmt.Sprintf("providers/Microsoft.BusinessAppPlatform/environments/%s", environmentID))
	if err != nil {
		return nil, err
	}

	res, err := c.pipeline.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if !runtime.HasStatusCode(res, http.StatusOK) {
		return nil, newRequestError(res)
	}

	return readJSON[Environment](res)
}

func (c *Client) setQuery(req *policy.Request, values url.Values) {
	raw := req.Raw()
	query := raw.URL.Query()
	for key, list := range values {
		for _, value := range list {
			query.Set(key, value)
		}
	}
	raw.URL.RawQuery = query.Encode()
}

func readJSON[T any](res *http.Response) (*T, error) {
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	instance := new(T)
	if err := json.Unmarshal(data, instance); err != nil {
		return nil, fmt.Errorf("failed unmarshalling JSON from response: %w", err)
	}

	return instance, nil
}
