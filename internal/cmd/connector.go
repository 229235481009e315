// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/connectors"
	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

func newConnectorCommand() *cobra.Command {
	connectorCmd := &cobra.Command{
		Use:   "connector",
		Short: "Manage custom connectors",
	}

	connectorCmd.AddCommand(newConnectorListCommand())
	connectorCmd.AddCommand(newConnectorShowCommand())
	connectorCmd.AddCommand(newConnectorDeleteCommand())

	return connectorCmd
}

var connectorTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "ID", ValueTemplate: "{{.ID}}"},
		{Heading: "NAME", ValueTemplate: "{{.Name}}"},
		{Heading: "DISPLAY NAME", ValueTemplate: "{{.DisplayName}}"},
		{Heading: "CREATED", ValueTemplate: "{{.CreatedOn}}"},
	},
}

func newConnectorListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the environment's custom connectors.",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			customConnectors, err := session.dataverse.ListCustomConnectors(cmd.Context())
			if err != nil {
				return err
			}

			return display(cmd, customConnectors, connectorTableOptions)
		},
	}
}

// operationView is the listing row for one connector operation.
type operationView struct {
	OperationID string `json:"operationId"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Summary     string `json:"summary,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
}

func newConnectorShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <connector-id>",
		Short: "Show a connector's operations.",
		Long: heredoc.Doc(`
			Show the operations a connector exposes, parsed from its swagger.
			These are the operation ids accepted by 'tool add connector'.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			connector, err := session.power.GetConnector(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			catalog, err := connectors.ParseSwagger(connector.Properties.Swagger)
			if err != nil {
				return fmt.Errorf("connector %s: %w", args[0], err)
			}

			operations := catalog.Operations()
			views := make([]operationView, 0, len(operations))
			for _, operation := range operations {
				views = append(views, operationView{
					OperationID: operation.OperationID,
					Method:      strings.ToUpper(operation.Method),
					Path:        operation.Path,
					Summary:     operation.Summary,
					Visibility:  operation.Visibility,
				})
			}

			return display(cmd, views, output.TableFormatterOptions{
				Columns: []output.Column{
					{Heading: "OPERATION", ValueTemplate: "{{.OperationID}}"},
					{Heading: "METHOD", ValueTemplate: "{{.Method}}"},
					{Heading: "PATH", ValueTemplate: "{{.Path}}"},
					{Heading: "SUMMARY", ValueTemplate: "{{.Summary}}"},
				},
			})
		},
	}
}

func newConnectorDeleteCommand() *cobra.Command {
	var cascade bool

	deleteCmd := &cobra.Command{
		Use:   "delete <connector>",
		Short: "Delete a custom connector.",
		Long: heredoc.Doc(`
			Delete a custom connector by id or name. Without --cascade the
			delete fails when tools, connection references or connections still
			depend on the connector, listing what blocks it. With --cascade the
			dependents are deleted first: tools, then connection references,
			then connections, then the connector itself.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			connector, err := resolveConnector(cmd.Context(), session, args[0])
			if err != nil {
				return err
			}

			status(cmd, "Deleting connector '%s'...", connector.DisplayName)

			result, err := session.service.DeleteConnector(cmd.Context(), connector, cascade)
			if result != nil {
				warn(cmd, result.Warnings)
			}
			if err != nil {
				return err
			}

			if result.Deleted > 0 || result.Failed > 0 {
				status(cmd, "Deleted %d dependent resources (%d failed).", result.Deleted, result.Failed)
			}
			status(cmd, "Connector '%s' deleted.", connector.DisplayName)

			return nil
		},
	}

	deleteCmd.Flags().BoolVar(&cascade, "cascade", false, "Delete dependent tools, references and connections first")

	return deleteCmd
}

func resolveConnector(ctx context.Context, session *session, idOrName string) (*dataverse.Connector, error) {
	if dataverse.IsGUID(idOrName) {
		return session.dataverse.GetCustomConnector(ctx, idOrName)
	}

	customConnectors, err := session.dataverse.ListCustomConnectors(ctx)
	if err != nil {
		return nil, err
	}

	for _, connector := range customConnectors {
		if connector.Name == idOrName || connector.DisplayName == idOrName {
			return connector, nil
		}
	}

	return nil, fmt.Errorf("no custom connector found matching %q", idOrName)
}
