// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/copilot"
	"github.com/microsoft/copilot-studio-cli/pkg/dialog"
	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

func newToolCommand() *cobra.Command {
	toolCmd := &cobra.Command{
		Use:   "tool",
		Short: "Manage an agent's tools",
	}

	toolCmd.AddCommand(newToolListCommand())
	toolCmd.AddCommand(newToolAddCommand())
	toolCmd.AddCommand(newToolUpdateCommand())
	toolCmd.AddCommand(newToolRemoveCommand())

	return toolCmd
}

var toolTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "ID", ValueTemplate: "{{.ID}}"},
		{Heading: "NAME", ValueTemplate: "{{.Name}}"},
		{Heading: "KIND", ValueTemplate: "{{.Kind}}"},
		{Heading: "SCHEMA NAME", ValueTemplate: "{{.SchemaName}}"},
	},
}

func newToolListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <agent>",
		Short: "List the agent's tools.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tools, err := session.service.ListTools(cmd.Context(), bot.ID)
			if err != nil {
				return err
			}

			return display(cmd, tools, toolTableOptions)
		},
	}
}

func newToolAddCommand() *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a tool to an agent",
	}

	addCmd.AddCommand(newToolAddConnectorCommand())
	addCmd.AddCommand(newToolAddAgentCommand())
	addCmd.AddCommand(newToolAddPromptCommand())
	addCmd.AddCommand(newToolAddFlowCommand())
	addCmd.AddCommand(newToolAddHTTPCommand())

	return addCmd
}

func newToolAddConnectorCommand() *cobra.Command {
	var flags struct {
		displayName  string
		description  string
		connectionID string
		makerMode    bool
		force        bool
	}

	connectorCmd := &cobra.Command{
		Use:   "connector <agent> <connectorId:operationId>",
		Short: "Add a Power Platform connector operation as a tool.",
		Long: heredoc.Doc(`
			Add a connector operation as a tool. The operation is validated
			against the connector's swagger; internal operations require --force.
			The tool is bound to the given connection through a connection
			reference, created on first use and shared afterwards.
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			mode := dialog.ConnectionModeInvoker
			if flags.makerMode {
				mode = dialog.ConnectionModeMaker
			}

			result, err := session.service.AddConnectorTool(cmd.Context(), bot, copilot.AddConnectorToolOptions{
				Target:       args[1],
				DisplayName:  flags.displayName,
				Description:  flags.description,
				ConnectionID: flags.connectionID,
				Mode:         mode,
				Force:        flags.force,
			})
			if err != nil {
				return err
			}

			warn(cmd, result.Warnings)
			status(cmd, "Tool '%s' added to '%s'.", result.SchemaName, bot.Name)

			return display(cmd, result, toolResultTableOptions)
		},
	}

	connectorCmd.Flags().StringVar(&flags.displayName, "name", "", "Display name (defaults to the operation summary)")
	connectorCmd.Flags().StringVar(&flags.description, "description", "", "Tool description")
	connectorCmd.Flags().StringVar(&flags.connectionID, "connection", "", "Connection id to bind the tool to")
	_ = connectorCmd.MarkFlagRequired("connection")
	connectorCmd.Flags().BoolVar(&flags.makerMode, "maker-connection", false,
		"Run under the maker's connection instead of the invoker's")
	connectorCmd.Flags().BoolVar(&flags.force, "force", false, "Allow internal operations")

	return connectorCmd
}

func newToolAddAgentCommand() *cobra.Command {
	var flags struct {
		description string
		passHistory bool
	}

	agentCmd := &cobra.Command{
		Use:   "agent <agent> <target-agent>",
		Short: "Add another agent as a connected-agent tool.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			target, err := session.resolveAgent(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			result, err := session.service.AddConnectedAgentTool(
				cmd.Context(), bot, target, flags.description, flags.passHistory)
			if err != nil {
				return err
			}

			status(cmd, "Agent '%s' connected as a tool of '%s'.", target.Name, bot.Name)

			return display(cmd, result, toolResultTableOptions)
		},
	}

	agentCmd.Flags().StringVar(&flags.description, "description", "", "When the orchestrator should hand off")
	agentCmd.Flags().BoolVar(&flags.passHistory, "pass-history", false, "Share the conversation history with the target")

	return agentCmd
}

func newToolAddPromptCommand() *cobra.Command {
	var flags struct {
		displayName string
		description string
	}

	promptCmd := &cobra.Command{
		Use:   "prompt <agent> <prompt-id>",
		Short: "Add an AI Builder prompt as a tool.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			result, err := session.service.AddPromptTool(
				cmd.Context(), bot, args[1], flags.displayName, flags.description)
			if err != nil {
				return err
			}

			warn(cmd, result.Warnings)
			status(cmd, "Prompt tool '%s' added to '%s'.", result.SchemaName, bot.Name)

			return display(cmd, result, toolResultTableOptions)
		},
	}

	promptCmd.Flags().StringVar(&flags.displayName, "name", "", "Display name (defaults to the prompt's name)")
	promptCmd.Flags().StringVar(&flags.description, "description", "", "Tool description")

	return promptCmd
}

func newToolAddFlowCommand() *cobra.Command {
	var flags struct {
		displayName string
		description string
	}

	flowCmd := &cobra.Command{
		Use:   "flow <agent> <flow-id>",
		Short: "Add a Power Automate cloud flow as a tool.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			result, err := session.service.AddFlowTool(
				cmd.Context(), bot, args[1], session.power.EnvironmentID(), flags.displayName, flags.description)
			if err != nil {
				return err
			}

			warn(cmd, result.Warnings)
			status(cmd, "Flow tool '%s' added to '%s'.", result.SchemaName, bot.Name)

			return display(cmd, result, toolResultTableOptions)
		},
	}

	flowCmd.Flags().StringVar(&flags.displayName, "name", "", "Display name (defaults to the flow's name)")
	flowCmd.Flags().StringVar(&flags.description, "description", "", "Tool description")

	return flowCmd
}

func newToolAddHTTPCommand() *cobra.Command {
	var flags struct {
		displayName string
		description string
		method      string
		headers     []string
		body        string
	}

	httpCmd := &cobra.Command{
		Use:   "http <agent> <url>",
		Short: "Add a direct HTTP endpoint as a tool.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			headers := map[string]string{}
			for _, header := range flags.headers {
				name, value, found := strings.Cut(header, ":")
				if !found {
					return fmt.Errorf("invalid header %q: expected name:value", header)
				}
				headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
			}

			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			displayName := flags.displayName
			if displayName == "" {
				displayName = args[1]
			}

			result, err := session.service.AddHTTPTool(cmd.Context(), bot, displayName, flags.description,
				dialog.HTTPParams{
					URL:     args[1],
					Method:  flags.method,
					Headers: headers,
					Body:    flags.body,
				})
			if err != nil {
				return err
			}

			status(cmd, "HTTP tool '%s' added to '%s'.", result.SchemaName, bot.Name)

			return display(cmd, result, toolResultTableOptions)
		},
	}

	httpCmd.Flags().StringVar(&flags.displayName, "name", "", "Display name (defaults to the url)")
	httpCmd.Flags().StringVar(&flags.description, "description", "", "Tool description")
	httpCmd.Flags().StringVar(&flags.method, "method", "GET", "HTTP method")
	httpCmd.Flags().StringArrayVar(&flags.headers, "header", nil, "Request header as name:value (repeatable)")
	httpCmd.Flags().StringVar(&flags.body, "body", "", "Request body")

	return httpCmd
}

var toolResultTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "ID", ValueTemplate: "{{.ID}}"},
		{Heading: "SCHEMA NAME", ValueTemplate: "{{.SchemaName}}"},
		{Heading: "CHANGED", ValueTemplate: "{{.Changed}}"},
	},
}

func newToolUpdateCommand() *cobra.Command {
	var defaults []string

	updateCmd := &cobra.Command{
		Use:   "update <tool-id>",
		Short: "Update a tool in place.",
		Long: heredoc.Doc(`
			Apply sparse edits to a tool. Only the requested fields are touched;
			the rest of the tool document is preserved byte for byte. When the
			edits resolve to no change, nothing is written.

			Input defaults are given as property=value pairs, repeatable.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits := dialog.Edits{
				DisplayName: flagValue[string](cmd.Flags(), "name"),
				Description: flagValue[string](cmd.Flags(), "description"),
			}

			if enabled := flagValue[bool](cmd.Flags(), "enabled"); enabled != nil {
				edits.Availability = enabled
			}

			confirmation := flagValue[bool](cmd.Flags(), "confirmation")
			message := flagValue[string](cmd.Flags(), "confirmation-message")
			if confirmation != nil || message != nil {
				edits.Confirmation = &dialog.ConfirmationEdit{Enabled: confirmation, Message: message}
			}

			if len(defaults) > 0 {
				edits.InputDefaults = map[string]string{}
				for _, pair := range defaults {
					name, value, found := strings.Cut(pair, "=")
					if !found || name == "" {
						return fmt.Errorf("invalid default %q: expected property=value", pair)
					}
					edits.InputDefaults[name] = value
				}
			}

			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			result, err := session.service.UpdateTool(cmd.Context(), args[0], edits)
			if err != nil {
				return err
			}

			warn(cmd, result.Warnings)
			if result.Changed {
				status(cmd, "Tool updated.")
			} else {
				status(cmd, "Tool already up to date; nothing written.")
			}

			return display(cmd, result, toolResultTableOptions)
		},
	}

	updateCmd.Flags().String("name", "", "New display name")
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().Bool("enabled", false, "Make the tool available to the orchestrator")
	updateCmd.Flags().Bool("confirmation", false, "Require user confirmation before the tool runs")
	updateCmd.Flags().String("confirmation-message", "", "Confirmation prompt shown to the user")
	updateCmd.Flags().StringArrayVar(&defaults, "default", nil, "Input default as property=value (repeatable)")

	return updateCmd
}

func newToolRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <agent> <tool-id>",
		Short: "Remove a tool from an agent.",
		Long: heredoc.Doc(`
			Remove a tool. When the tool was the last user of its connection
			reference, the reference is deleted too; failures there surface as
			warnings, not errors.
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			result, err := session.service.RemoveTool(cmd.Context(), bot, args[1])
			if err != nil {
				return err
			}

			warn(cmd, result.Warnings)
			status(cmd, "Tool removed from '%s'.", bot.Name)

			return nil
		},
	}
}
