// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

func newFlowCommand() *cobra.Command {
	flowCmd := &cobra.Command{
		Use:   "flow",
		Short: "Inspect Power Automate cloud flows",
	}

	flowCmd.AddCommand(newFlowListCommand())
	flowCmd.AddCommand(newFlowShowCommand())

	return flowCmd
}

// flowView adds the category display name to a workflow record.
type flowView struct {
	*dataverse.Workflow
	CategoryName string `json:"categoryName"`
}

func flowViews(flows []*dataverse.Workflow) []flowView {
	views := make([]flowView, 0, len(flows))
	for _, flow := range flows {
		views = append(views, flowView{
			Workflow:     flow,
			CategoryName: dataverse.WorkflowCategoryName(flow.Category),
		})
	}

	return views
}

var flowTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "ID", ValueTemplate: "{{.ID}}"},
		{Heading: "NAME", ValueTemplate: "{{.Name}}"},
		{Heading: "CATEGORY", ValueTemplate: "{{.CategoryName}}"},
		{Heading: "MODIFIED", ValueTemplate: "{{.ModifiedOn}}"},
	},
}

func newFlowListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the environment's cloud flows.",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			flows, err := session.dataverse.ListFlows(cmd.Context())
			if err != nil {
				return err
			}

			return display(cmd, flowViews(flows), flowTableOptions)
		},
	}
}

func newFlowShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <flow-id>",
		Short: "Show a cloud flow.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			flow, err := session.dataverse.GetFlow(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return display(cmd, flowViews([]*dataverse.Workflow{flow}), flowTableOptions)
		},
	}
}
