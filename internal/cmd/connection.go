// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/output"
	"github.com/microsoft/copilot-studio-cli/pkg/powerplatform"
)

func newConnectionCommand() *cobra.Command {
	connectionCmd := &cobra.Command{
		Use:   "connection",
		Short: "Manage Power Platform connections",
	}

	connectionCmd.AddCommand(newConnectionListCommand())
	connectionCmd.AddCommand(newConnectionShowCommand())
	connectionCmd.AddCommand(newConnectionCreateCommand())
	connectionCmd.AddCommand(newConnectionDeleteCommand())

	return connectionCmd
}

var connectionTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "NAME", ValueTemplate: "{{.Name}}"},
		{Heading: "DISPLAY NAME", ValueTemplate: "{{.Properties.DisplayName}}"},
		{Heading: "CONNECTOR", ValueTemplate: "{{.Properties.ApiID}}"},
		{Heading: "STATUS", ValueTemplate: "{{.Status}}"},
	},
}

func newConnectionListCommand() *cobra.Command {
	var connectorID string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the environment's connections.",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			connections, err := session.power.ListConnections(cmd.Context(), connectorID)
			if err != nil {
				return err
			}

			return display(cmd, connections, connectionTableOptions)
		},
	}

	listCmd.Flags().StringVar(&connectorID, "connector", "", "Only connections of this connector")

	return listCmd
}

func newConnectionShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <connector-id> <connection-id>",
		Short: "Show a connection.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			connections, err := session.power.ListConnections(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, connection := range connections {
				if connection.Name == args[1] {
					return display(cmd, []*powerplatform.Connection{connection}, connectionTableOptions)
				}
			}

			return fmt.Errorf("no connection %q found for connector %s", args[1], args[0])
		},
	}
}

func newConnectionCreateCommand() *cobra.Command {
	var flags struct {
		displayName  string
		parameterSet string
		key          string
	}

	createCmd := &cobra.Command{
		Use:   "create <connector-id>",
		Short: "Create a key-authenticated connection.",
		Long: heredoc.Doc(`
			Create a connection for a connector that authenticates with an api
			key. The parameter set name comes from the connector's security
			definition, e.g. adminkey for Azure AI Search connectors.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			connection, err := session.power.CreateKeyConnection(
				cmd.Context(), args[0], flags.displayName, map[string]any{
					"name": flags.parameterSet,
					"values": map[string]any{
						flags.parameterSet: map[string]any{"value": flags.key},
					},
				})
			if err != nil {
				return err
			}

			status(cmd, "Connection '%s' created.", connection.Name)

			return display(cmd, []*powerplatform.Connection{connection}, connectionTableOptions)
		},
	}

	createCmd.Flags().StringVar(&flags.displayName, "name", "", "Connection display name")
	createCmd.Flags().StringVar(&flags.parameterSet, "parameter-set", "", "Connection parameter set name")
	createCmd.Flags().StringVar(&flags.key, "key", "", "Api key value")
	_ = createCmd.MarkFlagRequired("parameter-set")
	_ = createCmd.MarkFlagRequired("key")

	return createCmd
}

func newConnectionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <connector-id> <connection-id>",
		Short: "Delete a connection.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			if err := session.power.DeleteConnection(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			status(cmd, "Connection deleted.")

			return nil
		},
	}
}
