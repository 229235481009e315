// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dialog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Action markers embedded in tool schema names. The marker identifies the
// action kind a tool dispatches to.
const (
	MarkerConnectedAgent = "InvokeConnectedAgentTaskAction"
	MarkerConnector      = "InvokeConnectorTaskAction"
	MarkerPrompt         = "InvokePromptTaskAction"
	MarkerFlow           = "InvokeFlowTaskAction"
	MarkerHTTP           = "InvokeHttpTaskAction"
)

// CleanName strips a display name down to the ASCII letters and digits that
// are valid inside a component schema name. When nothing survives, a
// generated placeholder is returned so the schema name stays well formed.
func CleanName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}

	if sb.Len() == 0 {
		return fmt.Sprintf("Tool_%s", uuid.NewString()[:4])
	}

	return sb.String()
}

// ToolSchemaName builds the schema name for a tool component:
// {botSchemaName}.{marker}.{cleanedName}.
func ToolSchemaName(botSchemaName string, marker string, displayName string) string {
	return fmt.Sprintf("%s.%s.%s", botSchemaName, marker, CleanName(displayName))
}

// TopicSchemaName builds the schema name for a custom topic:
// {botSchemaName}.topic.{cleanedName}.
func TopicSchemaName(botSchemaName string, name string) string {
	return fmt.Sprintf("%s.topic.%s", botSchemaName, CleanName(name))
}

// ConnectorToolSchemaName builds the schema name for a connector tool:
// {botSchemaName}.action.{connectorDisplay}-{operationId}_{suffix}. The
// random suffix keeps repeated additions of the same operation distinct.
func ConnectorToolSchemaName(botSchemaName string, connectorDisplayName string, operationID string) string {
	return fmt.Sprintf(
		"%s.action.%s-%s_%s",
		botSchemaName,
		CleanName(connectorDisplayName),
		operationID,
		uuid.NewString()[:3],
	)
}
