// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

func newKnowledgeCommand() *cobra.Command {
	knowledgeCmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Manage an agent's knowledge sources",
	}

	knowledgeCmd.AddCommand(newKnowledgeListCommand())
	knowledgeCmd.AddCommand(newKnowledgeAddFileCommand())
	knowledgeCmd.AddCommand(newKnowledgeAddSearchCommand())
	knowledgeCmd.AddCommand(newKnowledgeRemoveCommand())

	return knowledgeCmd
}

var knowledgeTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "ID", ValueTemplate: "{{.ID}}"},
		{Heading: "NAME", ValueTemplate: "{{.Name}}"},
		{Heading: "SCHEMA NAME", ValueTemplate: "{{.SchemaName}}"},
		{Heading: "DESCRIPTION", ValueTemplate: "{{.Description}}"},
	},
}

func newKnowledgeListCommand() *cobra.Command {
	var sourceType string

	listCmd := &cobra.Command{
		Use:   "list <agent>",
		Short: "List the agent's knowledge sources.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sourceType != "" && sourceType != "file" && sourceType != "connector" {
				return fmt.Errorf("invalid --type %q: expected file or connector", sourceType)
			}

			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			sources, err := session.dataverse.ListKnowledgeSources(cmd.Context(), bot.ID, sourceType)
			if err != nil {
				return err
			}

			return display(cmd, sources, knowledgeTableOptions)
		},
	}

	listCmd.Flags().StringVar(&sourceType, "type", "", "Filter by source type (file, connector)")

	return listCmd
}

func newKnowledgeAddFileCommand() *cobra.Command {
	var flags struct {
		name        string
		description string
	}

	addCmd := &cobra.Command{
		Use:   "add-file <agent> <path>",
		Short: "Upload a text file as a knowledge source.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[1], err)
			}

			name := flags.name
			if name == "" {
				name = filepath.Base(args[1])
			}

			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			componentID, err := session.dataverse.AddFileKnowledgeSource(
				cmd.Context(), bot.ID, name, string(content), flags.description)
			if err != nil {
				return err
			}

			status(cmd, "Knowledge source '%s' added to '%s' (%s).", name, bot.Name, componentID)

			return nil
		},
	}

	addCmd.Flags().StringVar(&flags.name, "name", "", "Source name (defaults to the file name)")
	addCmd.Flags().StringVar(&flags.description, "description", "", "What the source contains")

	return addCmd
}

func newKnowledgeAddSearchCommand() *cobra.Command {
	var flags struct {
		endpoint    string
		index       string
		apiKey      string
		description string
	}

	addCmd := &cobra.Command{
		Use:   "add-search <agent> <name>",
		Short: "Attach an Azure AI Search index as a knowledge source.",
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

			componentID, err := session.dataverse.AddAzureAISearchKnowledgeSource(
				cmd.Context(), bot.ID, args[1], flags.endpoint, flags.index, flags.apiKey, flags.description)
			if err != nil {
				return err
			}

			status(cmd, "Knowledge source '%s' added to '%s' (%s).", args[1], bot.Name, componentID)

			return nil
		},
	}

	addCmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "Azure AI Search endpoint url")
	addCmd.Flags().StringVar(&flags.index, "index", "", "Index name")
	addCmd.Flags().StringVar(&flags.apiKey, "api-key", "", "Query api key")
	addCmd.Flags().StringVar(&flags.description, "description", "", "What the index contains")
	_ = addCmd.MarkFlagRequired("endpoint")
	_ = addCmd.MarkFlagRequired("index")

	return addCmd
}

func newKnowledgeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <source-id>",
		Short: "Remove a knowledge source.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			if err := session.dataverse.RemoveKnowledgeSource(cmd.Context(), args[0]); err != nil {
				return err
			}

			status(cmd, "Knowledge source removed.")

			return nil
		},
	}
}
