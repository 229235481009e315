// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/internal/version"
	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of this CLI.",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := struct {
				Version   string `json:"version"`
				Commit    string `json:"commit"`
				BuildDate string `json:"buildDate"`
			}{
				Version:   version.Version,
				Commit:    version.Commit,
				BuildDate: version.BuildDate,
			}

			return display(cmd, info, output.TableFormatterOptions{
				Columns: []output.Column{
					{Heading: "VERSION", ValueTemplate: "{{.Version}}"},
					{Heading: "COMMIT", ValueTemplate: "{{.Commit}}"},
					{Heading: "BUILD DATE", ValueTemplate: "{{.BuildDate}}"},
				},
			})
		},
	}
}
