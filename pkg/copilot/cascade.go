// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package copilot

import (
	"context"
	"fmt"
	"strings"

	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
	"github.com/microsoft/copilot-studio-cli/pkg/powerplatform"
)

// CascadeResult reports a cascading delete. Individual component failures do
// not abort the cascade; they are counted and surfaced as warnings.
type CascadeResult struct {
	Deleted  int      `json:"deleted"`
	Failed   int      `json:"failed"`
	Warnings []string `json:"warnings,omitempty"`
}

// DeleteAgent deletes an agent. Without cascade the delete fails closed when
// any components exist, listing what blocks it. With cascade, components are
// deleted first and the agent last.
func (s *Service) DeleteAgent(ctx context.Context, bot *dataverse.Bot, cascade bool) (*CascadeResult, error) {
	components, err := s.dataverse.ListBotComponents(ctx, bot.ID)
	if err != nil {
		return nil, fmt.Errorf("listing components of agent %q: %w", bot.Name, err)
	}

	if !cascade && len(components) > 0 {
		return nil, agentConflict(bot, components)
	}

	result := &CascadeResult{}
	for _, component := range components {
		if err := s.dataverse.DeleteBotComponent(ctx, component.ID); err != nil {
			result.Failed++
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"could not delete component %q: %s", componentLabel(component), err))
			continue
		}
		result.Deleted++
	}

	if err := s.dataverse.DeleteBot(ctx, bot.ID); err != nil {
		return result, fmt.Errorf("deleting agent %q: %w", bot.Name, err)
	}

	return result, nil
}

func agentConflict(bot *dataverse.Bot, components []*dataverse.BotComponent) *ConflictError {
	byCategory := map[string][]string{}
	for _, component := range components {
		byCategory[componentCategory(component)] = append(
			byCategory[componentCategory(component)], componentLabel(component))
	}

	conflict := &ConflictError{Resource: fmt.Sprintf("agent %q", bot.Name)}
	for _, category := range []string{"tools", "topics", "knowledge sources", "components"} {
		if names, ok := byCategory[category]; ok {
			conflict.Blockers = append(conflict.Blockers, newBlockerGroup(category, names))
		}
	}

	return conflict
}

func componentCategory(component *dataverse.BotComponent) string {
	switch component.ComponentType {
	case dataverse.ComponentTypeTopic:
		return "topics"
	case dataverse.ComponentTypeTopicV2:
		if _, ok := parseToolDocument(component.Data); ok {
			return "tools"
		}
		return "topics"
	case dataverse.ComponentTypeFileKnowledge, dataverse.ComponentTypeKnowledgeConnector:
		return "knowledge sources"
	default:
		return "components"
	}
}

func componentLabel(component *dataverse.BotComponent) string {
	if component.Name != "" {
		return component.Name
	}

	return component.SchemaName
}

// DeleteConnector deletes a custom connector. The cascade removes dependents
// in the order tools, connection references, connections, connector, so a
// partial failure never leaves a tool pointing at a deleted connector.
func (s *Service) DeleteConnector(
	ctx context.Context,
	connector *dataverse.Connector,
	cascade bool,
) (*CascadeResult, error) {
	tools, err := s.connectorTools(ctx, connector.Name)
	if err != nil {
		return nil, err
	}

	references, err := s.connectorReferences(ctx, connector.Name)
	if err != nil {
		return nil, err
	}

	connections, err := s.power.ListConnections(ctx, connector.Name)
	if err != nil {
		return nil, fmt.Errorf("listing connections of connector %s: %w", connector.Name, err)
	}

	if !cascade {
		if conflict := connectorConflict(connector, tools, references, connections); conflict != nil {
			return nil, conflict
		}
	}

	result := &CascadeResult{}

	for _, tool := range tools {
		if err := s.dataverse.DeleteBotComponent(ctx, tool.ID); err != nil {
			result.Failed++
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"could not delete tool %q: %s", componentLabel(tool), err))
			continue
		}
		result.Deleted++
	}

	for _, reference := range references {
		if strings.HasPrefix(reference.LogicalName, "msdyn_") {
			continue
		}

		if err := s.dataverse.DeleteConnectionReference(ctx, reference.ID); err != nil {
			result.Failed++
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"could not delete connection reference %s: %s", reference.LogicalName, err))
			continue
		}
		result.Deleted++
	}

	for _, connection := range connections {
		if err := s.power.DeleteConnection(ctx, connector.Name, connection.Name); err != nil {
			result.Failed++
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"could not delete connection %s: %s", connection.Name, err))
			continue
		}
		result.Deleted++
	}

	if err := s.dataverse.DeleteCustomConnector(ctx, connector.ID); err != nil {
		return result, fmt.Errorf("deleting connector %q: %w", connector.DisplayName, err)
	}

	return result, nil
}

// connectorTools finds tool components across all agents whose document
// targets the given connector.
func (s *Service) connectorTools(ctx context.Context, connectorName string) ([]*dataverse.BotComponent, error) {
	bots, err := s.dataverse.ListBots(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}

	marker := fmt.Sprintf("connectorId: %s", connectorName)

	var tools []*dataverse.BotComponent
	for _, bot := range bots {
		components, err := s.dataverse.ListBotComponentsByType(ctx, bot.ID, dataverse.ComponentTypeTopicV2)
		if err != nil {
			return nil, fmt.Errorf("listing components of agent %q: %w", bot.Name, err)
		}

		for _, component := range components {
			if strings.Contains(component.Data, marker) {
				tools = append(tools, component)
			}
		}
	}

	return tools, nil
}

func (s *Service) connectorReferences(
	ctx context.Context,
	connectorName string,
) ([]*dataverse.ConnectionReference, error) {
	references, err := s.dataverse.ListConnectionReferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing connection references: %w", err)
	}

	var matched []*dataverse.ConnectionReference
	for _, reference := range references {
		if strings.HasSuffix(reference.ConnectorID, "/"+connectorName) || reference.ConnectorID == connectorName {
			matched = append(matched, reference)
		}
	}

	return matched, nil
}

func connectorConflict(
	connector *dataverse.Connector,
	tools []*dataverse.BotComponent,
	references []*dataverse.ConnectionReference,
	connections []*powerplatform.Connection,
) *ConflictError {
	if len(tools) == 0 && len(references) == 0 && len(connections) == 0 {
		return nil
	}

	conflict := &ConflictError{Resource: fmt.Sprintf("connector %q", connector.DisplayName)}

	if len(tools) > 0 {
		names := make([]string, 0, len(tools))
		for _, tool := range tools {
			names = append(names, componentLabel(tool))
		}
		conflict.Blockers = append(conflict.Blockers, newBlockerGroup("tools", names))
	}

	if len(references) > 0 {
		names := make([]string, 0, len(references))
		for _, reference := range references {
			names = append(names, reference.LogicalName)
		}
		conflict.Blockers = append(conflict.Blockers, newBlockerGroup("connection references", names))
	}

	if len(connections) > 0 {
		names := make([]string, 0, len(connections))
		for _, connection := range connections {
			name := connection.Properties.DisplayName
			if name == "" {
				name = connection.Name
			}
			names = append(names, name)
		}
		conflict.Blockers = append(conflict.Blockers, newBlockerGroup("connections", names))
	}

	return conflict
}
