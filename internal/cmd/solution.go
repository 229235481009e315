// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

func newSolutionCommand() *cobra.Command {
	solutionCmd := &cobra.Command{
		Use:   "solution",
		Short: "Manage Dataverse solutions",
	}

	solutionCmd.AddCommand(newSolutionListCommand())
	solutionCmd.AddCommand(newSolutionShowCommand())
	solutionCmd.AddCommand(newSolutionCreateCommand())
	solutionCmd.AddCommand(newSolutionDeleteCommand())
	solutionCmd.AddCommand(newSolutionComponentsCommand())
	solutionCmd.AddCommand(newSolutionAddComponentCommand())
	solutionCmd.AddCommand(newSolutionRemoveComponentCommand())

	return solutionCmd
}

var solutionTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "ID", ValueTemplate: "{{.ID}}"},
		{Heading: "UNIQUE NAME", ValueTemplate: "{{.UniqueName}}"},
		{Heading: "NAME", ValueTemplate: "{{.FriendlyName}}"},
		{Heading: "VERSION", ValueTemplate: "{{.Version}}"},
		{Heading: "MANAGED", ValueTemplate: "{{.IsManaged}}"},
	},
}

func newSolutionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the environment's solutions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			solutions, err := session.dataverse.ListSolutions(cmd.Context())
			if err != nil {
				return err
			}

			return display(cmd, solutions, solutionTableOptions)
		},
	}
}

func newSolutionShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <solution>",
		Short: "Show a solution by id or unique name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			solution, err := session.dataverse.GetSolution(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return display(cmd, solution, solutionTableOptions)
		},
	}
}

func newSolutionCreateCommand() *cobra.Command {
	var flags struct {
		friendlyName string
		publisher    string
		version      string
		description  string
	}

	createCmd := &cobra.Command{
		Use:   "create <unique-name>",
		Short: "Create an unmanaged solution.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			friendlyName := flags.friendlyName
			if friendlyName == "" {
				friendlyName = args[0]
			}

			solutionID, err := session.dataverse.CreateSolution(
				cmd.Context(), args[0], friendlyName, flags.publisher, flags.version, flags.description)
			if err != nil {
				return err
			}

			status(cmd, "Solution '%s' created (%s).", args[0], solutionID)

			return nil
		},
	}

	createCmd.Flags().StringVar(&flags.friendlyName, "name", "", "Friendly name (defaults to the unique name)")
	createCmd.Flags().StringVar(&flags.publisher, "publisher", "", "Publisher id or unique name")
	createCmd.Flags().StringVar(&flags.version, "version", "1.0.0.0", "Solution version")
	createCmd.Flags().StringVar(&flags.description, "description", "", "Solution description")
	_ = createCmd.MarkFlagRequired("publisher")

	return createCmd
}

func newSolutionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <solution>",
		Short: "Delete a solution.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			if err := session.dataverse.DeleteSolution(cmd.Context(), args[0]); err != nil {
				return err
			}

			status(cmd, "Solution deleted.")

			return nil
		},
	}
}

func newSolutionComponentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "components <solution>",
		Short: "List a solution's components.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			solution, err := session.dataverse.GetSolution(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			components, err := session.dataverse.ListSolutionComponents(cmd.Context(), solution.ID, nil)
			if err != nil {
				return err
			}

			return display(cmd, components, output.TableFormatterOptions{
				Columns: []output.Column{
					{Heading: "OBJECT ID", ValueTemplate: "{{.ObjectID}}"},
					{Heading: "TYPE", ValueTemplate: "{{.ComponentType}}"},
				},
			})
		},
	}
}

func newSolutionAddComponentCommand() *cobra.Command {
	var flags struct {
		entity      string
		addRequired bool
	}

	addCmd := &cobra.Command{
		Use:   "add-component <solution-unique-name> <component-id>",
		Short: "Add a component to an unmanaged solution.",
		Long: heredoc.Doc(`
			Add a component to a solution by its entity id. The component type
			is resolved from the entity's logical name, e.g. bot,
			connectionreference or connector.
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			componentType, err := session.dataverse.SolutionComponentType(cmd.Context(), flags.entity)
			if err != nil {
				return err
			}

			err = session.dataverse.AddSolutionComponent(
				cmd.Context(), args[0], args[1], componentType, flags.addRequired)
			if err != nil {
				return err
			}

			status(cmd, "Component added to solution '%s'.", args[0])

			return nil
		},
	}

	addCmd.Flags().StringVar(&flags.entity, "entity", "bot", "Entity logical name of the component")
	addCmd.Flags().BoolVar(&flags.addRequired, "add-required", false, "Also add required components")

	return addCmd
}

func newSolutionRemoveComponentCommand() *cobra.Command {
	var entity string

	removeCmd := &cobra.Command{
		Use:   "remove-component <solution-unique-name> <component-id>",
		Short: "Remove a component from an unmanaged solution.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			componentType, err := session.dataverse.SolutionComponentType(cmd.Context(), entity)
			if err != nil {
				return err
			}

			err = session.dataverse.RemoveSolutionComponent(cmd.Context(), args[0], args[1], componentType)
			if err != nil {
				return err
			}

			status(cmd, "Component removed from solution '%s'.", args[0])

			return nil
		},
	}

	removeCmd.Flags().StringVar(&entity, "entity", "bot", "Entity logical name of the component")

	return removeCmd
}
