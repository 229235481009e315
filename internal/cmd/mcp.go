// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/output"
	"github.com/microsoft/copilot-studio-cli/pkg/powerplatform"
)

func newMCPCommand() *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "List Model Context Protocol servers available as agent tools",
	}

	mcpCmd.AddCommand(newMCPListCommand())
	mcpCmd.AddCommand(newMCPShowCommand())

	return mcpCmd
}

// mcpView is the listing row for one MCP server connector.
type mcpView struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	Publisher   string `json:"publisher,omitempty"`
	Tier        string `json:"tier,omitempty"`
	Release     string `json:"release,omitempty"`
	Description string `json:"description,omitempty"`
}

func mcpViews(servers []*powerplatform.Connector) []mcpView {
	views := make([]mcpView, 0, len(servers))
	for _, server := range servers {
		name := server.Properties.DisplayName
		if name == "" {
			name = server.Name
		}

		description := server.Properties.Description
		if len(description) > 60 {
			description = description[:57] + "..."
		}

		views = append(views, mcpView{
			Name:        name,
			ID:          server.Name,
			Publisher:   server.Properties.Publisher,
			Tier:        server.Properties.Tier,
			Release:     server.Properties.ReleaseTag,
			Description: description,
		})
	}

	sort.Slice(views, func(i, j int) bool {
		return strings.ToLower(views[i].Name) < strings.ToLower(views[j].Name)
	})

	return views
}

var mcpTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "NAME", ValueTemplate: "{{.Name}}"},
		{Heading: "ID", ValueTemplate: "{{.ID}}"},
		{Heading: "PUBLISHER", ValueTemplate: "{{.Publisher}}"},
		{Heading: "TIER", ValueTemplate: "{{.Tier}}"},
		{Heading: "RELEASE", ValueTemplate: "{{.Release}}"},
		{Heading: "DESCRIPTION", ValueTemplate: "{{.Description}}"},
	},
}

func newMCPListCommand() *cobra.Command {
	var filter string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the MCP servers in the connector catalog.",
		Long: heredoc.Doc(`
			List the Model Context Protocol servers available to agents. MCP
			servers are connectors that give an agent structured access to
			external resources, tools and prompts; add one to an agent with
			'tool add connector'.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			servers, err := session.power.ListMCPServers(cmd.Context())
			if err != nil {
				return err
			}

			if filter != "" {
				servers = filterMCPServers(servers, filter)
			}

			if len(servers) == 0 {
				status(cmd, "No MCP servers found.")
				return nil
			}

			return display(cmd, mcpViews(servers), mcpTableOptions)
		},
	}

	listCmd.Flags().StringVarP(&filter, "filter", "f", "",
		"Filter by name, publisher or description (case-insensitive)")

	return listCmd
}

func filterMCPServers(servers []*powerplatform.Connector, filter string) []*powerplatform.Connector {
	filter = strings.ToLower(filter)
	matched := make([]*powerplatform.Connector, 0, len(servers))
	for _, server := range servers {
		if strings.Contains(strings.ToLower(server.Name), filter) ||
			strings.Contains(strings.ToLower(server.Properties.DisplayName), filter) ||
			strings.Contains(strings.ToLower(server.Properties.Publisher), filter) ||
			strings.Contains(strings.ToLower(server.Properties.Description), filter) {
			matched = append(matched, server)
		}
	}

	return matched
}

func newMCPShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <connector-id>",
		Short: "Show an MCP server connector.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			server, err := session.power.GetConnector(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return display(cmd, mcpViews([]*powerplatform.Connector{server}), mcpTableOptions)
		},
	}
}
