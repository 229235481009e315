// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"context"
	"fmt"
)

// ListCustomConnectors returns the custom connector records stored in the
// environment's Dataverse organization.
func (c *Client) ListCustomConnectors(ctx context.Context) ([]*Connector, error) {
	return newListRequestBuilder[Connector](c, "connectors").
		Select("connectorid,name,displayname,description,connectortype,connectorinternalid,createdon").
		OrderBy("displayname").
		Get(ctx)
}

func (c *Client) GetCustomConnector(ctx context.Context, connectorID string) (*Connector, error) {
	return get[Connector](ctx, c, fmt.Sprintf("connectors(%s)", connectorID))
}

func (c *Client) DeleteCustomConnector(ctx context.Context, connectorID string) error {
	return c.delete(ctx, fmt.Sprintf("connectors(%s)", connectorID))
}
