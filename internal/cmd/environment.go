// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

func newEnvironmentCommand() *cobra.Command {
	environmentCmd := &cobra.Command{
		Use:   "environment",
		Short: "Inspect Power Platform environments",
	}

	environmentCmd.AddCommand(newEnvironmentListCommand())
	environmentCmd.AddCommand(newEnvironmentShowCommand())

	return environmentCmd
}

var environmentTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "NAME", ValueTemplate: "{{.Name}}"},
		{Heading: "DISPLAY NAME", ValueTemplate: "{{.Properties.DisplayName}}"},
		{Heading: "SKU", ValueTemplate: "{{.Properties.EnvironmentSku}}"},
		{Heading: "DEFAULT", ValueTemplate: "{{.Properties.IsDefault}}"},
	},
}

func newEnvironmentListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tenant's environments.",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			environments, err := session.power.ListEnvironments(cmd.Context())
			if err != nil {
				return err
			}

			return display(cmd, environments, environmentTableOptions)
		},
	}
}

func newEnvironmentShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [environment-id]",
		Short: "Show an environment; defaults to the configured one.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			environmentID := session.power.EnvironmentID()
			if len(args) > 0 {
				environmentID = args[0]
			}

			environment, err := session.power.GetEnvironment(cmd.Context(), environmentID)
			if err != nil {
				return err
			}

			return display(cmd, environment, environmentTableOptions)
		},
	}
}
