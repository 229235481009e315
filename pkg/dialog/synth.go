// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dialog

import (
	"fmt"
	"sort"
	"strings"
)

// ToolKind selects which action a synthesized tool dispatches to.
type ToolKind string

const (
	ToolKindConnectedAgent ToolKind = "connected-agent"
	ToolKindConnector      ToolKind = "connector"
	ToolKindPrompt         ToolKind = "prompt"
	ToolKindFlow           ToolKind = "flow"
	ToolKindHTTP           ToolKind = "http"
)

// ConnectionMode selects whose connection a connector tool runs under.
type ConnectionMode string

const (
	ConnectionModeInvoker ConnectionMode = "Invoker"
	ConnectionModeMaker   ConnectionMode = "Maker"
)

// Parameter describes one input or output of a tool.
type Parameter struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Default     string
}

// ConnectedAgentParams configures a tool that hands the conversation to
// another agent.
type ConnectedAgentParams struct {
	AgentID                 string
	AgentName               string
	AgentDescription        string
	PassConversationHistory bool
}

// ConnectorParams configures a tool that invokes a Power Platform connector
// operation through a connection reference.
type ConnectorParams struct {
	ConnectorID          string
	ConnectorDisplayName string
	OperationID          string
	ConnectionReference  string
	Mode                 ConnectionMode
	Inputs               []Parameter
	Outputs              []Parameter
}

// PromptParams configures a tool that runs an AI Builder prompt.
type PromptParams struct {
	PromptID          string
	PromptName        string
	PromptDescription string
}

// FlowParams configures a tool that runs a Power Automate cloud flow.
type FlowParams struct {
	FlowID        string
	EnvironmentID string
}

// HTTPParams configures a tool that calls an arbitrary HTTP endpoint.
type HTTPParams struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string
}

// ToolSpec is the input to Synthesize. Exactly one of the per-kind parameter
// structs must be populated, matching Kind.
type ToolSpec struct {
	Kind          ToolKind
	BotSchemaName string
	DisplayName   string
	Description   string

	ConnectedAgent *ConnectedAgentParams
	Connector      *ConnectorParams
	Prompt         *PromptParams
	Flow           *FlowParams
	HTTP           *HTTPParams
}

// Tool is a synthesized dialog document together with the schema name the
// component should be created under.
type Tool struct {
	SchemaName string
	Content    string
}

// Synthesize renders a complete TaskDialog document for the given spec. The
// returned document always carries inputType and outputType blocks, an empty
// object when the tool takes or produces nothing.
func Synthesize(spec ToolSpec) (*Tool, error) {
	if spec.BotSchemaName == "" {
		return nil, fmt.Errorf("a bot schema name is required")
	}

	if spec.DisplayName == "" {
		return nil, fmt.Errorf("a tool display name is required")
	}

	switch spec.Kind {
	case ToolKindConnectedAgent:
		return synthesizeConnectedAgent(spec)
	case ToolKindConnector:
		return synthesizeConnector(spec)
	case ToolKindPrompt:
		return synthesizePrompt(spec)
	case ToolKindFlow:
		return synthesizeFlow(spec)
	case ToolKindHTTP:
		return synthesizeHTTP(spec)
	default:
		return nil, fmt.Errorf("unsupported tool kind: %s", spec.Kind)
	}
}

func synthesizeConnectedAgent(spec ToolSpec) (*Tool, error) {
	params := spec.ConnectedAgent
	if params == nil || params.AgentID == "" {
		return nil, fmt.Errorf("a target agent id is required for a connected-agent tool")
	}

	description := spec.Description
	if description == "" {
		description = params.AgentDescription
	}

	var sb strings.Builder
	schemaName := ToolSchemaName(spec.BotSchemaName, MarkerConnectedAgent, spec.DisplayName)
	writeHeader(&sb, schemaName, spec.DisplayName, description)
	sb.WriteString("action:\n")
	fmt.Fprintf(&sb, "  kind: %s\n", MarkerConnectedAgent)
	fmt.Fprintf(&sb, "  agentId: %s\n", params.AgentID)
	if params.AgentName != "" {
		fmt.Fprintf(&sb, "  agentName: %s\n", quote(params.AgentName))
	}
	fmt.Fprintf(&sb, "  passConversationHistory: %t\n", params.PassConversationHistory)
	writeTypes(&sb, nil, nil)

	return &Tool{SchemaName: schemaName, Content: sb.String()}, nil
}

func synthesizeConnector(spec ToolSpec) (*Tool, error) {
	params := spec.Connector
	if params == nil || params.ConnectorID == "" || params.OperationID == "" {
		return nil, fmt.Errorf("a connector id and operation id are required for a connector tool")
	}
	if params.ConnectionReference == "" {
		return nil, fmt.Errorf("a connection reference is required for a connector tool")
	}

	mode := params.Mode
	if mode == "" {
		mode = ConnectionModeInvoker
	}

	var sb strings.Builder
	schemaName := ConnectorToolSchemaName(spec.BotSchemaName, params.ConnectorDisplayName, params.OperationID)
	writeHeader(&sb, schemaName, spec.DisplayName, spec.Description)
	writeInputs(&sb, params.Inputs)
	sb.WriteString("action:\n")
	fmt.Fprintf(&sb, "  kind: %s\n", MarkerConnector)
	fmt.Fprintf(&sb, "  connectorId: %s\n", params.ConnectorID)
	fmt.Fprintf(&sb, "  operationId: %s\n", params.OperationID)
	fmt.Fprintf(&sb, "  connectionReference: %s\n", params.ConnectionReference)
	sb.WriteString("  connectionProperties:\n")
	fmt.Fprintf(&sb, "    mode: %s\n", mode)
	writeTypes(&sb, params.Inputs, params.Outputs)

	return &Tool{SchemaName: schemaName, Content: sb.String()}, nil
}

func synthesizePrompt(spec ToolSpec) (*Tool, error) {
	params := spec.Prompt
	if params == nil || params.PromptID == "" {
		return nil, fmt.Errorf("a prompt id is required for a prompt tool")
	}

	description := spec.Description
	if description == "" {
		description = params.PromptDescription
	}

	var sb strings.Builder
	schemaName := ToolSchemaName(spec.BotSchemaName, MarkerPrompt, spec.DisplayName)
	writeHeader(&sb, schemaName, spec.DisplayName, description)
	sb.WriteString("action:\n")
	fmt.Fprintf(&sb, "  kind: %s\n", MarkerPrompt)
	fmt.Fprintf(&sb, "  promptId: %s\n", params.PromptID)
	if params.PromptName != "" {
		fmt.Fprintf(&sb, "  promptName: %s\n", quote(params.PromptName))
	}
	writeTypes(&sb, nil, nil)

	return &Tool{SchemaName: schemaName, Content: sb.String()}, nil
}

func synthesizeFlow(spec ToolSpec) (*Tool, error) {
	params := spec.Flow
	if params == nil || params.FlowID == "" {
		return nil, fmt.Errorf("a flow id is required for a flow tool")
	}

	var sb strings.Builder
	schemaName := ToolSchemaName(spec.BotSchemaName, MarkerFlow, spec.DisplayName)
	writeHeader(&sb, schemaName, spec.DisplayName, spec.Description)
	sb.WriteString("action:\n")
	fmt.Fprintf(&sb, "  kind: %s\n", MarkerFlow)
	fmt.Fprintf(&sb, "  flowId: %s\n", NormalizeFlowID(params.FlowID, params.EnvironmentID))
	writeTypes(&sb, nil, nil)

	return &Tool{SchemaName: schemaName, Content: sb.String()}, nil
}

func synthesizeHTTP(spec ToolSpec) (*Tool, error) {
	params := spec.HTTP
	if params == nil || params.URL == "" {
		return nil, fmt.Errorf("a url is required for an http tool")
	}

	method := strings.ToUpper(params.Method)
	if method == "" {
		method = "GET"
	}

	var sb strings.Builder
	schemaName := ToolSchemaName(spec.BotSchemaName, MarkerHTTP, spec.DisplayName)
	writeHeader(&sb, schemaName, spec.DisplayName, spec.Description)
	sb.WriteString("action:\n")
	fmt.Fprintf(&sb, "  kind: %s\n", MarkerHTTP)
	fmt.Fprintf(&sb, "  url: %s\n", params.URL)
	fmt.Fprintf(&sb, "  method: %s\n", method)

	if len(params.Headers) > 0 {
		sb.WriteString("  headers:\n")
		names := make([]string, 0, len(params.Headers))
		for name := range params.Headers {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Fprintf(&sb, "    %s: %s\n", name, quote(params.Headers[name]))
		}
	}

	if params.Body != "" {
		sb.WriteString("  body: |\n")
		for _, line := range strings.Split(strings.TrimSuffix(params.Body, "\n"), "\n") {
			fmt.Fprintf(&sb, "    %s\n", line)
		}
	}

	writeTypes(&sb, nil, nil)

	return &Tool{SchemaName: schemaName, Content: sb.String()}, nil
}

// NormalizeFlowID expands a bare flow GUID into the full provider resource
// path a tool action expects. Already-qualified paths pass through.
func NormalizeFlowID(flowID string, environmentID string) string {
	if strings.HasPrefix(flowID, "/providers/") {
		return flowID
	}

	return fmt.Sprintf(
		"/providers/Microsoft.ProcessSimple/environments/%s/flows/%s",
		environmentID,
		flowID,
	)
}

func writeHeader(sb *strings.Builder, schemaName string, displayName string, description string) {
	sb.WriteString("kind: TaskDialog\n")
	fmt.Fprintf(sb, "schemaName: %s\n", schemaName)
	fmt.Fprintf(sb, "modelDisplayName: %s\n", quote(displayName))
	if description != "" {
		fmt.Fprintf(sb, "modelDescription: %s\n", quote(description))
	}
}

func writeInputs(sb *strings.Builder, inputs []Parameter) {
	if len(inputs) == 0 {
		return
	}

	sb.WriteString("inputs:\n")
	for _, input := range inputs {
		fmt.Fprintf(sb, "  - propertyName: %s\n", input.Name)
		if input.Description != "" {
			fmt.Fprintf(sb, "    description: %s\n", quote(input.Description))
		}
		if input.Required {
			sb.WriteString("    isRequired: true\n")
		}
		if input.Default != "" {
			fmt.Fprintf(sb, "    defaultValue: %s\n", quote(input.Default))
		}
	}
}

// writeTypes renders the inputType and outputType blocks. Both are always
// present; an empty parameter list renders as an empty object.
func writeTypes(sb *strings.Builder, inputs []Parameter, outputs []Parameter) {
	writeTypeBlock(sb, "inputType", inputs)
	writeTypeBlock(sb, "outputType", outputs)
}

func writeTypeBlock(sb *strings.Builder, key string, params []Parameter) {
	if len(params) == 0 {
		fmt.Fprintf(sb, "%s: {}\n", key)
		return
	}

	fmt.Fprintf(sb, "%s:\n", key)
	sb.WriteString("  properties:\n")
	for _, param := range params {
		fmt.Fprintf(sb, "    %s:\n", param.Name)
		fmt.Fprintf(sb, "      displayName: %s\n", param.Name)
		fmt.Fprintf(sb, "      type: %s\n", typeName(param.Type))
	}
}

func typeName(t string) string {
	switch strings.ToLower(t) {
	case "integer", "number":
		return "Number"
	case "boolean":
		return "Boolean"
	default:
		return "String"
	}
}
