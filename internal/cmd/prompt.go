// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

func newPromptCommand() *cobra.Command {
	promptCmd := &cobra.Command{
		Use:   "prompt",
		Short: "Manage AI Builder prompts",
	}

	promptCmd.AddCommand(newPromptListCommand())
	promptCmd.AddCommand(newPromptShowCommand())
	promptCmd.AddCommand(newPromptUpdateCommand())
	promptCmd.AddCommand(newPromptPublishCommand())

	return promptCmd
}

var promptTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "ID", ValueTemplate: "{{.ID}}"},
		{Heading: "NAME", ValueTemplate: "{{.Name}}"},
		{Heading: "OWNER", ValueTemplate: "{{.OwnerDisplay}}"},
		{Heading: "MODIFIED", ValueTemplate: "{{.ModifiedOn}}"},
	},
}

func newPromptListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the AI Builder prompts in the environment.",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			prompts, err := session.dataverse.ListPrompts(cmd.Context())
			if err != nil {
				return err
			}

			return display(cmd, prompts, promptTableOptions)
		},
	}
}

func newPromptShowCommand() *cobra.Command {
	var raw bool

	showCmd := &cobra.Command{
		Use:   "show <prompt-id>",
		Short: "Show a prompt and its latest configuration.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			configuration, err := session.dataverse.GetPromptConfiguration(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if raw {
				cmd.Println(configuration.Configuration)
				return nil
			}

			return display(cmd, configuration, output.TableFormatterOptions{
				Columns: []output.Column{
					{Heading: "ID", ValueTemplate: "{{.ID}}"},
					{Heading: "NAME", ValueTemplate: "{{.Name}}"},
					{Heading: "STATUS", ValueTemplate: "{{.StatusCode}}"},
				},
			})
		},
	}

	showCmd.Flags().BoolVar(&raw, "raw", false, "Print the raw prompt configuration")

	return showCmd
}

func newPromptUpdateCommand() *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update <prompt-id>",
		Short: "Update a prompt's configuration.",
		Long: heredoc.Doc(`
			Update the prompt's latest configuration. Published prompts are
			unpublished first and republished afterwards; the command waits for
			each state transition to land before continuing.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]any{}
			if name := flagValue[string](cmd.Flags(), "name"); name != nil {
				fields["msdyn_name"] = *name
			}
			if configuration := flagValue[string](cmd.Flags(), "configuration"); configuration != nil {
				fields["msdyn_customconfiguration"] = *configuration
			}
			if len(fields) == 0 {
				return fmt.Errorf("nothing to update: pass --name or --configuration")
			}

			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			status(cmd, "Updating prompt configuration...")

			result, err := session.service.UpdatePrompt(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}

			if result.Republished {
				status(cmd, "Prompt updated and republished.")
			} else {
				status(cmd, "Prompt updated.")
			}

			return display(cmd, result, output.TableFormatterOptions{
				Columns: []output.Column{
					{Heading: "CONFIGURATION", ValueTemplate: "{{.ConfigurationID}}"},
					{Heading: "REPUBLISHED", ValueTemplate: "{{.Republished}}"},
				},
			})
		},
	}

	updateCmd.Flags().String("name", "", "New prompt name")
	updateCmd.Flags().String("configuration", "", "New prompt configuration document")

	return updateCmd
}

func newPromptPublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <prompt-id>",
		Short: "Publish a prompt's draft configuration.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			status(cmd, "Publishing prompt...")

			if err := session.service.PublishPrompt(cmd.Context(), args[0]); err != nil {
				return err
			}

			status(cmd, "Prompt published.")

			return nil
		},
	}
}
