// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package powerplatform

import "strings"

type Connection struct {
	Name       string               `json:"name"`
	ID         string               `json:"id,omitempty"`
	Properties ConnectionProperties `json:"properties"`
}

type ConnectionProperties struct {
	DisplayName string             `json:"displayName,omitempty"`
	ApiID       string             `json:"apiId,omitempty"`
	CreatedTime string             `json:"createdTime,omitempty"`
	Statuses    []ConnectionStatus `json:"statuses,omitempty"`
}

type ConnectionStatus struct {
	Status string           `json:"status,omitempty"`
	Error  *ConnectionError `json:"error,omitempty"`
}

type ConnectionError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Status returns the connection's first reported status, e.g. Connected or
// Error.
func (c *Connection) Status() string {
	if len(c.Properties.Statuses) == 0 {
		return "Unknown"
	}

	return c.Properties.Statuses[0].Status
}

type Connector struct {
	Name       string              `json:"name"`
	ID         string              `json:"id,omitempty"`
	Properties ConnectorProperties `json:"properties"`
}

type ConnectorProperties struct {
	DisplayName string         `json:"displayName,omitempty"`
	Description string         `json:"description,omitempty"`
	Publisher   string         `json:"publisher,omitempty"`
	Tier        string         `json:"tier,omitempty"`
	ReleaseTag  string         `json:"releaseTag,omitempty"`
	Environment map[string]any `json:"environment,omitempty"`
	Swagger     map[string]any `json:"swagger,omitempty"`
}

// IsCustom classifies a connector as custom rather than Microsoft-managed.
// Custom connectors are environment-scoped; third-party publishers with no
// tier are treated as custom as well.
func (c *Connector) IsCustom() bool {
	if c.Properties.Environment != nil {
		return true
	}

	switch c.Properties.Publisher {
	case "", "Microsoft", "Microsoft Corporation", "Azure":
		return false
	}

	return c.Properties.Tier == "" || c.Properties.Tier == "NotSpecified"
}

// IsMCPServer reports whether the connector is a Model Context Protocol
// server. MCP connectors in the Power Apps catalog carry an "mcpserver"
// suffix on their internal name, e.g. shared_microsoftlearndocsmcpserver.
func (c *Connector) IsMCPServer() bool {
	return strings.HasSuffix(strings.ToLower(c.Name), "mcpserver")
}

type Environment struct {
	Name       string                `json:"name"`
	ID         string                `json:"id,omitempty"`
	Properties EnvironmentProperties `json:"properties"`
}

type EnvironmentProperties struct {
	DisplayName    string                     `json:"displayName,omitempty"`
	EnvironmentSku string                     `json:"environmentSku,omitempty"`
	IsDefault      bool                       `json:"isDefault,omitempty"`
	LinkedMetadata *LinkedEnvironmentMetadata `json:"linkedEnvironmentMetadata,omitempty"`
}

type LinkedEnvironmentMetadata struct {
	InstanceURL  string `json:"instanceUrl,omitempty"`
	FriendlyName string `json:"friendlyName,omitempty"`
	UniqueName   string `json:"uniqueName,omitempty"`
}

type listResponse[T any] struct {
	Value []*T `json:"value"`
}
