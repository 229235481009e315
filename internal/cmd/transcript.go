// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

func newTranscriptCommand() *cobra.Command {
	transcriptCmd := &cobra.Command{
		Use:   "transcript",
		Short: "Inspect agent conversation transcripts",
	}

	transcriptCmd.AddCommand(newTranscriptListCommand())
	transcriptCmd.AddCommand(newTranscriptShowCommand())

	return transcriptCmd
}

var transcriptTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "ID", ValueTemplate: "{{.ID}}"},
		{Heading: "NAME", ValueTemplate: "{{.Name}}"},
		{Heading: "STARTED", ValueTemplate: "{{.StartTime}}"},
	},
}

func newTranscriptListCommand() *cobra.Command {
	var limit int

	listCmd := &cobra.Command{
		Use:   "list <agent>",
		Short: "List recent conversation transcripts for an agent.",
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

			transcripts, err := session.dataverse.ListTranscripts(cmd.Context(), bot.ID, limit)
			if err != nil {
				return err
			}

			return display(cmd, transcripts, transcriptTableOptions)
		},
	}

	listCmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of transcripts")

	return listCmd
}

func newTranscriptShowCommand() *cobra.Command {
	var raw bool

	showCmd := &cobra.Command{
		Use:   "show <transcript-id>",
		Short: "Show a conversation transcript.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			transcript, err := session.dataverse.GetTranscript(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if raw {
				cmd.Println(transcript.Content)
				return nil
			}

			return display(cmd, transcript, transcriptTableOptions)
		},
	}

	showCmd.Flags().BoolVar(&raw, "raw", false, "Print the raw transcript content")

	return showCmd
}
