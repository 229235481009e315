// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/microsoft/copilot-studio-cli/pkg/appinsights"
	"github.com/microsoft/copilot-studio-cli/pkg/copilot"
	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

func newAgentCommand() *cobra.Command {
	agentCmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage Copilot Studio agents",
	}

	agentCmd.AddCommand(newAgentListCommand())
	agentCmd.AddCommand(newAgentShowCommand())
	agentCmd.AddCommand(newAgentCreateCommand())
	agentCmd.AddCommand(newAgentUpdateCommand())
	agentCmd.AddCommand(newAgentDeleteCommand())
	agentCmd.AddCommand(newAgentAnalyticsCommand())
	agentCmd.AddCommand(newAgentAuthCommand())

	return agentCmd
}

var agentTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "ID", ValueTemplate: "{{.ID}}"},
		{Heading: "NAME", ValueTemplate: "{{.Name}}"},
		{Heading: "SCHEMA NAME", ValueTemplate: "{{.SchemaName}}"},
		{Heading: "CREATED", ValueTemplate: "{{.CreatedOn}}"},
	},
}

func newAgentListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the agents in the environment.",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bots, err := session.dataverse.ListBots(cmd.Context())
			if err != nil {
				return err
			}

			return display(cmd, bots, agentTableOptions)
		},
	}
}

func newAgentShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <agent>",
		Short: "Show an agent by id or name.",
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

			return display(cmd, bot, agentTableOptions)
		},
	}
}

func newAgentCreateCommand() *cobra.Command {
	var flags struct {
		schemaName    string
		language      int
		instructions  string
		description   string
		orchestration bool
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new agent.",
		Long: heredoc.Doc(`
			Create a new agent with generative orchestration settings. The schema
			name is derived from the display name unless one is given explicitly.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			status(cmd, "Creating agent '%s'...", args[0])

			botID, err := session.dataverse.CreateBot(cmd.Context(), dataverse.BotCreateOptions{
				Name:          args[0],
				SchemaName:    flags.schemaName,
				Language:      flags.language,
				Instructions:  flags.instructions,
				Description:   flags.description,
				Orchestration: flags.orchestration,
			})
			if err != nil {
				return err
			}

			bot, err := session.dataverse.GetBot(cmd.Context(), botID)
			if err != nil {
				return err
			}

			return display(cmd, bot, agentTableOptions)
		},
	}

	createCmd.Flags().StringVar(&flags.schemaName, "schema-name", "", "Schema name for the agent")
	createCmd.Flags().IntVar(&flags.language, "language", 0, "Language code (default 1033, English)")
	createCmd.Flags().StringVar(&flags.instructions, "instructions", "", "System instructions for the agent")
	createCmd.Flags().StringVar(&flags.description, "description", "", "Agent description")
	createCmd.Flags().BoolVar(&flags.orchestration, "orchestration", true, "Enable generative orchestration")

	return createCmd
}

func newAgentUpdateCommand() *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update <agent>",
		Short: "Update an agent's name, instructions or settings.",
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

			name := flagValue[string](cmd.Flags(), "name")
			instructions := flagValue[string](cmd.Flags(), "instructions")
			description := flagValue[string](cmd.Flags(), "description")
			orchestration := flagValue[bool](cmd.Flags(), "orchestration")

			if name == nil && instructions == nil && description == nil && orchestration == nil {
				return fmt.Errorf("nothing to update: pass at least one of --name, --instructions, --description, --orchestration")
			}

			if err := session.dataverse.UpdateBot(
				cmd.Context(), bot.ID, name, instructions, description, orchestration,
			); err != nil {
				return err
			}

			status(cmd, "Agent '%s' updated.", bot.Name)

			return nil
		},
	}

	updateCmd.Flags().String("name", "", "New display name")
	updateCmd.Flags().String("instructions", "", "New system instructions")
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().Bool("orchestration", false, "Enable or disable generative orchestration")

	return updateCmd
}

func newAgentDeleteCommand() *cobra.Command {
	var cascade bool

	deleteCmd := &cobra.Command{
		Use:   "delete <agent>",
		Short: "Delete an agent.",
		Long: heredoc.Doc(`
			Delete an agent. Without --cascade the delete fails when the agent
			still has components (topics, tools, knowledge sources), listing what
			blocks it. With --cascade the components are deleted first; individual
			component failures do not stop the cascade.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			status(cmd, "Deleting agent '%s'...", bot.Name)

			result, err := session.service.DeleteAgent(cmd.Context(), bot, cascade)
			if result != nil {
				warn(cmd, result.Warnings)
			}
			if err != nil {
				return err
			}

			if result.Deleted > 0 || result.Failed > 0 {
				status(cmd, "Deleted %d components (%d failed).", result.Deleted, result.Failed)
			}
			status(cmd, "Agent '%s' deleted.", bot.Name)

			return nil
		},
	}

	deleteCmd.Flags().BoolVar(&cascade, "cascade", false, "Delete the agent's components first")

	return deleteCmd
}

func newAgentAnalyticsCommand() *cobra.Command {
	analyticsCmd := &cobra.Command{
		Use:   "analytics",
		Short: "Manage Application Insights telemetry for an agent",
	}

	analyticsCmd.AddCommand(newAnalyticsShowCommand())
	analyticsCmd.AddCommand(newAnalyticsEnableCommand())
	analyticsCmd.AddCommand(newAnalyticsDisableCommand())
	analyticsCmd.AddCommand(newAnalyticsUpdateCommand())
	analyticsCmd.AddCommand(newAnalyticsQueryCommand())

	return analyticsCmd
}

func newAnalyticsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <agent>",
		Short: "Show the agent's Application Insights settings.",
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

			settings, err := session.dataverse.GetAppInsightsSettings(cmd.Context(), bot.ID)
			if err != nil {
				return err
			}

			return display(cmd, settings, output.TableFormatterOptions{
				Columns: []output.Column{
					{Heading: "ENABLED", ValueTemplate: "{{.Enabled}}"},
					{Heading: "LOG ACTIVITIES", ValueTemplate: "{{.LogActivities}}"},
					{Heading: "LOG SENSITIVE", ValueTemplate: "{{.LogSensitiveProperties}}"},
				},
			})
		},
	}
}

func newAnalyticsEnableCommand() *cobra.Command {
	var flags struct {
		connectionString string
		logActivities    bool
		logSensitive     bool
	}

	enableCmd := &cobra.Command{
		Use:   "enable <agent>",
		Short: "Enable Application Insights telemetry export.",
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

			err = session.dataverse.UpdateAppInsightsSettings(cmd.Context(), bot.ID, &dataverse.AppInsightsSettings{
				Enabled:                true,
				ConnectionString:       flags.connectionString,
				LogActivities:          flags.logActivities,
				LogSensitiveProperties: flags.logSensitive,
			})
			if err != nil {
				return err
			}

			status(cmd, "Application Insights enabled for '%s'.", bot.Name)
			status(cmd, "Note: the agent may need to be republished for changes to take effect.")

			return nil
		},
	}

	enableCmd.Flags().StringVar(&flags.connectionString, "connection-string", "",
		"Application Insights connection string")
	enableCmd.Flags().BoolVar(&flags.logActivities, "log-activities", false,
		"Log messages and events")
	enableCmd.Flags().BoolVar(&flags.logSensitive, "log-sensitive", false,
		"Log sensitive properties")
	_ = enableCmd.MarkFlagRequired("connection-string")

	return enableCmd
}

func newAnalyticsDisableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <agent>",
		Short: "Disable Application Insights telemetry export.",
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

			err = session.dataverse.UpdateAppInsightsSettings(
				cmd.Context(), bot.ID, &dataverse.AppInsightsSettings{})
			if err != nil {
				return err
			}

			status(cmd, "Application Insights disabled for '%s'.", bot.Name)

			return nil
		},
	}
}

func newAnalyticsUpdateCommand() *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update <agent>",
		Short: "Update Application Insights logging options.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logActivities := flagValue[bool](cmd.Flags(), "log-activities")
			logSensitive := flagValue[bool](cmd.Flags(), "log-sensitive")
			if logActivities == nil && logSensitive == nil {
				return fmt.Errorf("nothing to update: pass --log-activities or --log-sensitive")
			}

			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			settings, err := session.dataverse.GetAppInsightsSettings(cmd.Context(), bot.ID)
			if err != nil {
				return err
			}

			if logActivities != nil {
				settings.LogActivities = *logActivities
			}
			if logSensitive != nil {
				settings.LogSensitiveProperties = *logSensitive
			}

			if err := session.dataverse.UpdateAppInsightsSettings(cmd.Context(), bot.ID, settings); err != nil {
				return err
			}

			status(cmd, "Application Insights settings updated for '%s'.", bot.Name)

			return nil
		},
	}

	updateCmd.Flags().Bool("log-activities", false, "Log messages and events")
	updateCmd.Flags().Bool("log-sensitive", false, "Log sensitive properties")

	return updateCmd
}

// Authentication modes stored on the bot record.
var authModeNames = map[int]string{
	1: "None",
	2: "Integrated",
	3: "Custom Azure AD",
}

func newAgentAuthCommand() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage agent authentication configuration",
	}

	authCmd.AddCommand(&cobra.Command{
		Use:   "show <agent>",
		Short: "Show the agent's authentication configuration.",
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

			view := struct {
				Mode          string `json:"mode"`
				Trigger       int    `json:"trigger"`
				Configuration string `json:"configuration,omitempty"`
			}{
				Mode:          authModeNames[bot.AuthenticationMode],
				Trigger:       bot.AuthTrigger,
				Configuration: bot.AuthConfiguration,
			}
			if view.Mode == "" {
				view.Mode = fmt.Sprintf("Unknown (%d)", bot.AuthenticationMode)
			}

			return display(cmd, view, output.TableFormatterOptions{
				Columns: []output.Column{
					{Heading: "MODE", ValueTemplate: "{{.Mode}}"},
					{Heading: "TRIGGER", ValueTemplate: "{{.Trigger}}"},
				},
			})
		},
	})

	var mode int
	updateCmd := &cobra.Command{
		Use:   "update <agent>",
		Short: "Set the agent's authentication mode.",
		Long: heredoc.Doc(`
			Set the agent's authentication mode:
			  1  None (no authentication required)
			  2  Integrated (Microsoft Entra ID)
			  3  Custom Azure AD
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := authModeNames[mode]; !ok {
				return fmt.Errorf("invalid authentication mode %d: expected 1, 2 or 3", mode)
			}

			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			err = session.dataverse.UpdateBotFields(cmd.Context(), bot.ID, map[string]any{
				"authenticationmode": mode,
			})
			if err != nil {
				return err
			}

			status(cmd, "Authentication mode for '%s' set to %s.", bot.Name, authModeNames[mode])

			return nil
		},
	}
	updateCmd.Flags().IntVar(&mode, "mode", 0, "Authentication mode (1, 2 or 3)")
	_ = updateCmd.MarkFlagRequired("mode")
	authCmd.AddCommand(updateCmd)

	return authCmd
}

// telemetryRow is the flattened view of one telemetry record.
type telemetryRow struct {
	Timestamp string `json:"timestamp"`
	Table     string `json:"table"`
	Name      string `json:"name,omitempty"`
	Message   string `json:"message,omitempty"`
}

func newAnalyticsQueryCommand() *cobra.Command {
	var flags struct {
		appID      string
		timespan   string
		eventsOnly bool
		limit      int
	}

	queryCmd := &cobra.Command{
		Use:   "query <agent>",
		Short: "Query Application Insights telemetry for an agent.",
		Long: heredoc.Doc(`
			Query the Application Insights instance configured for an agent.
			Timespans accept a short form (1h, 24h, 7d, 30d) or an ISO 8601
			duration. Apps that have not emitted a telemetry table yet return an
			empty result instead of an error.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timespan, err := appinsights.ConvertTimespan(flags.timespan)
			if err != nil {
				return err
			}

			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			bot, err := session.resolveAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			status(cmd, "Querying Application Insights for '%s' (%s)...", bot.Name, flags.timespan)

			client := appinsights.NewClient(session.credential, nil)
			result, err := client.Query(
				cmd.Context(),
				flags.appID,
				copilot.TelemetryQuery(flags.eventsOnly, flags.limit),
				timespan,
			)
			if err != nil {
				return err
			}

			rows := flattenTelemetry(result)
			if len(rows) == 0 {
				status(cmd, "No telemetry data found for the specified time range.")
			}

			return display(cmd, rows, output.TableFormatterOptions{
				Columns: []output.Column{
					{Heading: "TIMESTAMP", ValueTemplate: "{{.Timestamp}}"},
					{Heading: "TABLE", ValueTemplate: "{{.Table}}"},
					{Heading: "NAME", ValueTemplate: "{{.Name}}"},
					{Heading: "MESSAGE", ValueTemplate: "{{.Message}}"},
				},
			})
		},
	}

	queryCmd.Flags().StringVar(&flags.appID, "app-id", "", "Application Insights application id")
	queryCmd.Flags().StringVarP(&flags.timespan, "timespan", "t", "24h", "Time range to query (e.g. 1h, 24h, 7d)")
	queryCmd.Flags().BoolVarP(&flags.eventsOnly, "events", "e", false, "Query only the customEvents table")
	queryCmd.Flags().IntVarP(&flags.limit, "limit", "l", 100, "Maximum number of rows")
	_ = queryCmd.MarkFlagRequired("app-id")

	return queryCmd
}

func flattenTelemetry(result *appinsights.QueryResult) []telemetryRow {
	rows := []telemetryRow{}
	for _, table := range result.Tables {
		index := map[string]int{}
		for i, column := range table.Columns {
			index[column.Name] = i
		}

		for _, raw := range table.Rows {
			row := telemetryRow{Table: "event"}
			row.Timestamp = stringCell(raw, index, "timestamp")
			if name := stringCell(raw, index, "_table"); name != "" {
				row.Table = name
			}
			row.Name = stringCell(raw, index, "name")
			row.Message = stringCell(raw, index, "message")
			rows = append(rows, row)
		}
	}

	return rows
}

func stringCell(row []any, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(row) {
		return ""
	}

	value, _ := row[i].(string)

	return value
}

// flagValue returns the flag's value only when the user set it, so sparse
// updates can tell "not provided" apart from a zero value.
func flagValue[T any](flags *pflag.FlagSet, name string) *T {
	if !flags.Changed(name) {
		return nil
	}

	var value T
	switch typed := any(&value).(type) {
	case *string:
		*typed, _ = flags.GetString(name)
	case *bool:
		*typed, _ = flags.GetBool(name)
	case *int:
		*typed, _ = flags.GetInt(name)
	default:
		raw := flags.Lookup(name).Value.String()
		_ = json.Unmarshal([]byte(raw), &value)
	}

	return &value
}
