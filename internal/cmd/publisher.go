// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

func newPublisherCommand() *cobra.Command {
	publisherCmd := &cobra.Command{
		Use:   "publisher",
		Short: "Manage Dataverse solution publishers",
	}

	publisherCmd.AddCommand(newPublisherListCommand())
	publisherCmd.AddCommand(newPublisherShowCommand())
	publisherCmd.AddCommand(newPublisherCreateCommand())
	publisherCmd.AddCommand(newPublisherDeleteCommand())

	return publisherCmd
}

var publisherTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "ID", ValueTemplate: "{{.ID}}"},
		{Heading: "UNIQUE NAME", ValueTemplate: "{{.UniqueName}}"},
		{Heading: "NAME", ValueTemplate: "{{.FriendlyName}}"},
		{Heading: "PREFIX", ValueTemplate: "{{.CustomizationPrefix}}"},
	},
}

func newPublisherListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the environment's publishers.",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			publishers, err := session.dataverse.ListPublishers(cmd.Context())
			if err != nil {
				return err
			}

			return display(cmd, publishers, publisherTableOptions)
		},
	}
}

func newPublisherShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <publisher>",
		Short: "Show a publisher by id or unique name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			publisher, err := session.dataverse.GetPublisher(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return display(cmd, publisher, publisherTableOptions)
		},
	}
}

func newPublisherCreateCommand() *cobra.Command {
	var flags struct {
		friendlyName string
		prefix       string
		optionPrefix int
		description  string
	}

	createCmd := &cobra.Command{
		Use:   "create <unique-name>",
		Short: "Create a solution publisher.",
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

			publisherID, err := session.dataverse.CreatePublisher(
				cmd.Context(), args[0], friendlyName, flags.prefix, flags.optionPrefix, flags.description)
			if err != nil {
				return err
			}

			status(cmd, "Publisher '%s' created (%s).", args[0], publisherID)

			return nil
		},
	}

	createCmd.Flags().StringVar(&flags.friendlyName, "name", "", "Friendly name (defaults to the unique name)")
	createCmd.Flags().StringVar(&flags.prefix, "prefix", "", "Customization prefix, e.g. contoso")
	createCmd.Flags().IntVar(&flags.optionPrefix, "option-prefix", 10000, "Option value prefix")
	createCmd.Flags().StringVar(&flags.description, "description", "", "Publisher description")
	_ = createCmd.MarkFlagRequired("prefix")

	return createCmd
}

func newPublisherDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <publisher>",
		Short: "Delete a publisher by id or unique name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			if err := session.dataverse.DeletePublisher(cmd.Context(), args[0]); err != nil {
				return err
			}

			status(cmd, "Publisher deleted.")

			return nil
		},
	}
}
