// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) ListConnectionReferences(ctx context.Context) ([]*ConnectionReference, error) {
	return newListRequestBuilder[ConnectionReference](c, "connectionreferences").
		OrderBy("connectionreferencedisplayname").
		Get(ctx)
}

func (c *Client) GetConnectionReference(ctx context.Context, referenceID string) (*ConnectionReference, error) {
	return get[ConnectionReference](ctx, c, fmt.Sprintf("connectionreferences(%s)", referenceID))
}

// GetConnectionReferenceByLogicalName returns the reference with the given
// logical name, or nil when none exists.
func (c *Client) GetConnectionReferenceByLogicalName(
	ctx context.Context,
	logicalName string,
) (*ConnectionReference, error) {
	references, err := newListRequestBuilder[ConnectionReference](c, "connectionreferences").
		Filter(fmt.Sprintf("connectionreferencelogicalname eq '%s'", strings.ReplaceAll(logicalName, "'", "''"))).
		Get(ctx)
	if err != nil {
		return nil, err
	}

	if len(references) == 0 {
		return nil, nil
	}

	return references[0], nil
}

// CreateConnectionReference creates a reference and returns its id.
func (c *Client) CreateConnectionReference(ctx context.Context, reference *ConnectionReference) (string, error) {
	body := map[string]any{
		"connectionreferencedisplayname": reference.DisplayName,
		"connectionreferencelogicalname": reference.LogicalName,
		"connectorid":                    reference.ConnectorID,
		"connectionid":                   reference.ConnectionID,
	}

	if reference.Description != "" {
		body["description"] = reference.Description
	}

	return c.post(ctx, "connectionreferences", body)
}

func (c *Client) UpdateConnectionReference(ctx context.Context, referenceID string, fields map[string]any) error {
	return c.patch(ctx, fmt.Sprintf("connectionreferences(%s)", referenceID), fields)
}

func (c *Client) DeleteConnectionReference(ctx context.Context, referenceID string) error {
	return c.delete(ctx, fmt.Sprintf("connectionreferences(%s)", referenceID))
}

// AssociateComponentConnectionReference links a bot component to a connection
// reference through the collection-valued navigation property.
func (c *Client) AssociateComponentConnectionReference(
	ctx context.Context,
	componentID string,
	referenceID string,
) error {
	body := map[string]any{
		"@odata.id": fmt.Sprintf("%s/connectionreferences(%s)", c.baseURL, referenceID),
	}

	_, err := c.post(
		ctx,
		fmt.Sprintf("botcomponents(%s)/botcomponent_connectionreference/$ref", componentID),
		body,
	)

	return err
}
