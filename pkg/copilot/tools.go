// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package copilot

import (
	"context"
	"fmt"
	"strings"

	"github.com/braydonk/yaml"
	"github.com/microsoft/copilot-studio-cli/pkg/connectors"
	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
	"github.com/microsoft/copilot-studio-cli/pkg/dialog"
)

// Tool is a listing view over a tool component.
type Tool struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SchemaName  string `json:"schemaName"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
}

// ToolResult reports a tool mutation. Warnings carry best-effort failures
// that did not abort the operation.
type ToolResult struct {
	ID         string   `json:"id,omitempty"`
	SchemaName string   `json:"schemaName,omitempty"`
	Changed    bool     `json:"changed"`
	Warnings   []string `json:"warnings,omitempty"`
}

// toolDocument is the subset of a component's data needed to recognize and
// classify tools.
type toolDocument struct {
	Kind   string `yaml:"kind"`
	Action struct {
		Kind                string `yaml:"kind"`
		ConnectionReference string `yaml:"connectionReference"`
	} `yaml:"action"`
}

func parseToolDocument(data string) (*toolDocument, bool) {
	if data == "" {
		return nil, false
	}

	var doc toolDocument
	if err := yaml.Unmarshal([]byte(data), &doc); err != nil {
		return nil, false
	}

	if doc.Kind != "TaskDialog" {
		return nil, false
	}

	return &doc, true
}

func toolKindName(actionKind string) string {
	switch actionKind {
	case dialog.MarkerConnectedAgent:
		return string(dialog.ToolKindConnectedAgent)
	case dialog.MarkerConnector:
		return string(dialog.ToolKindConnector)
	case dialog.MarkerPrompt:
		return string(dialog.ToolKindPrompt)
	case dialog.MarkerFlow:
		return string(dialog.ToolKindFlow)
	case dialog.MarkerHTTP:
		return string(dialog.ToolKindHTTP)
	default:
		return actionKind
	}
}

// ListTools returns the tool components of an agent. Topics share the same
// component type; only TaskDialog documents are tools.
func (s *Service) ListTools(ctx context.Context, botID string) ([]*Tool, error) {
	components, err := s.dataverse.ListBotComponentsByType(ctx, botID, dataverse.ComponentTypeTopicV2)
	if err != nil {
		return nil, err
	}

	var tools []*Tool
	for _, component := range components {
		doc, ok := parseToolDocument(component.Data)
		if !ok {
			continue
		}

		tools = append(tools, &Tool{
			ID:          component.ID,
			Name:        component.Name,
			SchemaName:  component.SchemaName,
			Kind:        toolKindName(doc.Action.Kind),
			Description: component.Description,
		})
	}

	return tools, nil
}

// AddTool synthesizes a tool document for spec and creates it as a component
// of the agent.
func (s *Service) AddTool(ctx context.Context, bot *dataverse.Bot, spec dialog.ToolSpec) (*ToolResult, error) {
	if bot.SchemaName == "" {
		return nil, newValidationError("agent %q has no schema name", bot.Name)
	}

	spec.BotSchemaName = bot.SchemaName

	tool, err := dialog.Synthesize(spec)
	if err != nil {
		return nil, newValidationError("cannot synthesize tool: %s", err)
	}

	componentID, err := s.dataverse.CreateBotComponent(ctx, bot.ID, &dataverse.BotComponent{
		Name:          spec.DisplayName,
		SchemaName:    tool.SchemaName,
		ComponentType: dataverse.ComponentTypeTopicV2,
		Data:          tool.Content,
		Description:   spec.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("creating tool component: %w", err)
	}

	return &ToolResult{ID: componentID, SchemaName: tool.SchemaName, Changed: true}, nil
}

// AddConnectorToolOptions configures AddConnectorTool. Target has the form
// connectorId:operationId.
type AddConnectorToolOptions struct {
	Target       string
	DisplayName  string
	Description  string
	ConnectionID string
	Mode         dialog.ConnectionMode
	Force        bool
}

// AddConnectorTool validates the targeted connector operation against its
// swagger, reconciles a connection reference when a connection is supplied,
// and creates the tool component.
func (s *Service) AddConnectorTool(
	ctx context.Context,
	bot *dataverse.Bot,
	options AddConnectorToolOptions,
) (*ToolResult, error) {
	connectorID, operationID, err := connectors.ParseTarget(options.Target)
	if err != nil {
		return nil, newValidationError("%s", err)
	}

	if options.ConnectionID == "" {
		return nil, newValidationError("a connection is required for a connector tool")
	}

	connector, err := s.power.GetConnector(ctx, connectorID)
	if err != nil {
		return nil, fmt.Errorf("fetching connector %s: %w", connectorID, err)
	}

	catalog, err := connectors.ParseSwagger(connector.Properties.Swagger)
	if err != nil {
		return nil, fmt.Errorf("connector %s: %w", connectorID, err)
	}

	operation, err := catalog.Validate(operationID, options.Force)
	if err != nil {
		return nil, err
	}

	displayName := options.DisplayName
	if displayName == "" {
		displayName = operation.Summary
	}
	if displayName == "" {
		displayName = operation.OperationID
	}

	description := options.Description
	if description == "" {
		description = operation.Description
	}
	if description == "" {
		description = operation.Summary
	}

	reference, err := s.EnsureConnectionReference(ctx, bot.SchemaName, connectorID, options.ConnectionID)
	if err != nil {
		return nil, err
	}

	inputs := make([]dialog.Parameter, 0, len(operation.Inputs))
	for _, input := range operation.Inputs {
		inputs = append(inputs, dialog.Parameter{
			Name:        input.Name,
			Type:        input.Type,
			Description: input.Description,
			Required:    input.Required,
		})
	}

	outputs := make([]dialog.Parameter, 0, len(operation.Outputs))
	for _, output := range operation.Outputs {
		outputs = append(outputs, dialog.Parameter{Name: output.Name, Type: output.Type})
	}

	result, err := s.AddTool(ctx, bot, dialog.ToolSpec{
		Kind:        dialog.ToolKindConnector,
		DisplayName: displayName,
		Description: description,
		Connector: &dialog.ConnectorParams{
			ConnectorID:          connectorID,
			ConnectorDisplayName: connector.Properties.DisplayName,
			OperationID:          operation.OperationID,
			ConnectionReference:  reference.LogicalName,
			Mode:                 options.Mode,
			Inputs:               inputs,
			Outputs:              outputs,
		},
	})
	if err != nil {
		return nil, err
	}

	// Linking the component to its reference is best effort; the tool still
	// works once the reference is bound at publish time.
	if err := s.dataverse.AssociateComponentConnectionReference(ctx, result.ID, reference.ID); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"could not associate connection reference %s with the tool: %s", reference.LogicalName, err))
	}

	return result, nil
}

// AddConnectedAgentTool creates a tool that hands off to another agent in the
// same environment.
func (s *Service) AddConnectedAgentTool(
	ctx context.Context,
	bot *dataverse.Bot,
	target *dataverse.Bot,
	description string,
	passConversationHistory bool,
) (*ToolResult, error) {
	if target.ID == bot.ID {
		return nil, newValidationError("an agent cannot be connected to itself")
	}

	return s.AddTool(ctx, bot, dialog.ToolSpec{
		Kind:        dialog.ToolKindConnectedAgent,
		DisplayName: target.Name,
		Description: description,
		ConnectedAgent: &dialog.ConnectedAgentParams{
			AgentID:                 target.ID,
			AgentName:               target.Name,
			PassConversationHistory: passConversationHistory,
		},
	})
}

// AddPromptTool creates a tool that runs an AI Builder prompt. The prompt
// lookup enriches the tool's name and is best effort; a failure falls back to
// the supplied display name.
func (s *Service) AddPromptTool(
	ctx context.Context,
	bot *dataverse.Bot,
	promptID string,
	displayName string,
	description string,
) (*ToolResult, error) {
	var warnings []string
	params := &dialog.PromptParams{PromptID: promptID}

	prompt, err := s.dataverse.GetPrompt(ctx, promptID)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("could not look up prompt %s: %s", promptID, err))
	} else {
		params.PromptName = prompt.Name
		if displayName == "" {
			displayName = prompt.Name
		}
	}

	if displayName == "" {
		displayName = promptID
	}

	result, err := s.AddTool(ctx, bot, dialog.ToolSpec{
		Kind:        dialog.ToolKindPrompt,
		DisplayName: displayName,
		Description: description,
		Prompt:      params,
	})
	if err != nil {
		return nil, err
	}

	result.Warnings = append(result.Warnings, warnings...)

	return result, nil
}

// AddFlowTool creates a tool that runs a cloud flow.
func (s *Service) AddFlowTool(
	ctx context.Context,
	bot *dataverse.Bot,
	flowID string,
	environmentID string,
	displayName string,
	description string,
) (*ToolResult, error) {
	var warnings []string

	if displayName == "" {
		flow, err := s.dataverse.GetFlow(ctx, flowID)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("could not look up flow %s: %s", flowID, err))
			displayName = flowID
		} else {
			displayName = flow.Name
		}
	}

	result, err := s.AddTool(ctx, bot, dialog.ToolSpec{
		Kind:        dialog.ToolKindFlow,
		DisplayName: displayName,
		Description: description,
		Flow: &dialog.FlowParams{
			FlowID:        flowID,
			EnvironmentID: environmentID,
		},
	})
	if err != nil {
		return nil, err
	}

	result.Warnings = append(result.Warnings, warnings...)

	return result, nil
}

// AddHTTPTool creates a tool that calls an HTTP endpoint directly.
func (s *Service) AddHTTPTool(
	ctx context.Context,
	bot *dataverse.Bot,
	displayName string,
	description string,
	params dialog.HTTPParams,
) (*ToolResult, error) {
	if !strings.HasPrefix(params.URL, "https://") && !strings.HasPrefix(params.URL, "http://") {
		return nil, newValidationError("tool url must be an absolute http(s) url, got %q", params.URL)
	}

	return s.AddTool(ctx, bot, dialog.ToolSpec{
		Kind:        dialog.ToolKindHTTP,
		DisplayName: displayName,
		Description: description,
		HTTP:        &params,
	})
}

// UpdateTool applies sparse edits to a tool document. When the edits resolve
// to no textual change the service write is skipped entirely.
func (s *Service) UpdateTool(ctx context.Context, componentID string, edits dialog.Edits) (*ToolResult, error) {
	component, err := s.dataverse.GetBotComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}

	if _, ok := parseToolDocument(component.Data); !ok {
		return nil, newValidationError("component %s is not a tool", componentID)
	}

	patched := dialog.Patch(component.Data, edits)
	result := &ToolResult{
		ID:         component.ID,
		SchemaName: component.SchemaName,
		Changed:    patched.Changed,
		Warnings:   patched.Warnings,
	}

	if !patched.Changed {
		return result, nil
	}

	fields := map[string]any{"data": patched.Document.Text()}
	if edits.DisplayName != nil {
		fields["name"] = *edits.DisplayName
	}
	if edits.Description != nil {
		fields["description"] = *edits.Description
	}

	if err := s.dataverse.UpdateBotComponent(ctx, componentID, fields); err != nil {
		return nil, fmt.Errorf("updating tool component: %w", err)
	}

	return result, nil
}

// RemoveTool deletes a tool component and then releases its connection
// reference when no other component still uses it. The tool is deleted first
// so the orphan check never counts the tool being removed.
func (s *Service) RemoveTool(ctx context.Context, bot *dataverse.Bot, componentID string) (*ToolResult, error) {
	component, err := s.dataverse.GetBotComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}

	doc, ok := parseToolDocument(component.Data)
	if !ok {
		return nil, newValidationError("component %s is not a tool", componentID)
	}

	if err := s.dataverse.DeleteBotComponent(ctx, componentID); err != nil {
		return nil, fmt.Errorf("deleting tool component: %w", err)
	}

	result := &ToolResult{ID: componentID, SchemaName: component.SchemaName, Changed: true}

	if doc.Action.ConnectionReference != "" {
		_, warnings := s.ReleaseConnectionReferenceIfUnused(ctx, bot.ID, doc.Action.ConnectionReference)
		result.Warnings = warnings
	}

	return result, nil
}
