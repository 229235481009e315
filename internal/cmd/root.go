// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package cmd wires the copilot CLI commands. Commands write data to stdout
// through the configured formatter; progress and status messages go to
// stderr so that piped output stays machine readable.
package cmd

import (
	"io"
	"log"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

type rootFlagsDefinition struct {
	Debug  bool
	Output string
}

var rootFlags rootFlagsDefinition

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "copilot <command> [options]",
		Short: "Manage Microsoft Copilot Studio agents from the command line.",
		Long: heredoc.Doc(`
			Manage Microsoft Copilot Studio agents from the command line: agents,
			topics, tools, knowledge sources, prompts, connectors, connections and
			the solutions that package them.

			The CLI talks to the Dataverse Web API of the organization given by
			DATAVERSE_URL, authenticating with a service principal when
			AZURE_TENANT_ID, AZURE_CLIENT_ID and AZURE_CLIENT_SECRET are set, and
			with the Azure CLI login otherwise.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if rootFlags.Debug {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}

			formatter, err := output.NewFormatter(rootFlags.Output)
			if err != nil {
				return err
			}

			ctx := output.WithFormatter(cmd.Context(), formatter)
			ctx = output.WithWriter(ctx, os.Stdout)
			cmd.SetContext(ctx)

			return nil
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.PersistentFlags().BoolVar(&rootFlags.Debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(
		&rootFlags.Output, "output", "o", string(output.TableFormat),
		"Output format: json, table or none")

	rootCmd.AddCommand(newAgentCommand())
	rootCmd.AddCommand(newTopicCommand())
	rootCmd.AddCommand(newToolCommand())
	rootCmd.AddCommand(newKnowledgeCommand())
	rootCmd.AddCommand(newTranscriptCommand())
	rootCmd.AddCommand(newPromptCommand())
	rootCmd.AddCommand(newFlowCommand())
	rootCmd.AddCommand(newConnectorCommand())
	rootCmd.AddCommand(newConnectionCommand())
	rootCmd.AddCommand(newMCPCommand())
	rootCmd.AddCommand(newSolutionCommand())
	rootCmd.AddCommand(newPublisherCommand())
	rootCmd.AddCommand(newEnvironmentCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
