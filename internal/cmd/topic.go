// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
	"github.com/microsoft/copilot-studio-cli/pkg/dialog"
	"github.com/microsoft/copilot-studio-cli/pkg/output"
)

func newTopicCommand() *cobra.Command {
	topicCmd := &cobra.Command{
		Use:   "topic",
		Short: "Manage an agent's topics",
	}

	topicCmd.AddCommand(newTopicListCommand())
	topicCmd.AddCommand(newTopicShowCommand())
	topicCmd.AddCommand(newTopicCreateCommand())
	topicCmd.AddCommand(newTopicUpdateCommand())
	topicCmd.AddCommand(newTopicEnableCommand())
	topicCmd.AddCommand(newTopicDisableCommand())
	topicCmd.AddCommand(newTopicDeleteCommand())

	return topicCmd
}

var topicTableOptions = output.TableFormatterOptions{
	Columns: []output.Column{
		{Heading: "ID", ValueTemplate: "{{.ID}}"},
		{Heading: "NAME", ValueTemplate: "{{.Name}}"},
		{Heading: "SCHEMA NAME", ValueTemplate: "{{.SchemaName}}"},
		{Heading: "MODIFIED", ValueTemplate: "{{.ModifiedOn}}"},
	},
}

func newTopicListCommand() *cobra.Command {
	var flags struct {
		system bool
		custom bool
	}

	listCmd := &cobra.Command{
		Use:   "list <agent>",
		Short: "List the agent's topics.",
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

			// Without a filter both groups are listed.
			includeSystem := flags.system || !flags.custom
			includeCustom := flags.custom || !flags.system

			topics, err := session.dataverse.ListTopics(cmd.Context(), bot.ID, includeSystem, includeCustom)
			if err != nil {
				return err
			}

			return display(cmd, topics, topicTableOptions)
		},
	}

	listCmd.Flags().BoolVar(&flags.system, "system", false, "Only system topics")
	listCmd.Flags().BoolVar(&flags.custom, "custom", false, "Only custom topics")

	return listCmd
}

func newTopicShowCommand() *cobra.Command {
	var raw bool

	showCmd := &cobra.Command{
		Use:   "show <topic-id>",
		Short: "Show a topic, including its dialog definition.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			topic, err := session.dataverse.GetBotComponent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if raw {
				cmd.Print(topic.Data)
				return nil
			}

			return display(cmd, topic, topicTableOptions)
		},
	}

	showCmd.Flags().BoolVar(&raw, "raw", false, "Print the raw dialog definition")

	return showCmd
}

func newTopicCreateCommand() *cobra.Command {
	var flags struct {
		triggers []string
		message  string
	}

	createCmd := &cobra.Command{
		Use:   "create <agent> <name>",
		Short: "Create a topic that replies with a fixed message.",
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

			content, err := dialog.SynthesizeTopic(args[1], flags.triggers, flags.message)
			if err != nil {
				return err
			}

			componentID, err := session.dataverse.CreateBotComponent(cmd.Context(), bot.ID, &dataverse.BotComponent{
				Name:          args[1],
				SchemaName:    dialog.TopicSchemaName(bot.SchemaName, args[1]),
				ComponentType: dataverse.ComponentTypeTopicV2,
				Data:          content,
			})
			if err != nil {
				return err
			}

			status(cmd, "Topic '%s' created (%s).", args[1], componentID)

			return nil
		},
	}

	createCmd.Flags().StringArrayVar(&flags.triggers, "trigger", nil, "Trigger phrase (repeatable)")
	createCmd.Flags().StringVar(&flags.message, "message", "", "Message the topic replies with")
	_ = createCmd.MarkFlagRequired("trigger")
	_ = createCmd.MarkFlagRequired("message")

	return createCmd
}

func newTopicUpdateCommand() *cobra.Command {
	var flags struct {
		triggers []string
		message  string
		file     string
	}

	updateCmd := &cobra.Command{
		Use:   "update <topic-id>",
		Short: "Update a topic's name, description or dialog content.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			topic, err := session.dataverse.GetBotComponent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fields := map[string]any{}
			if name := flagValue[string](cmd.Flags(), "name"); name != nil {
				fields["name"] = *name
			}
			if description := flagValue[string](cmd.Flags(), "description"); description != nil {
				fields["description"] = *description
			}

			switch {
			case flags.file != "":
				content, err := os.ReadFile(flags.file)
				if err != nil {
					return fmt.Errorf("reading %s: %w", flags.file, err)
				}
				fields["data"] = string(content)
			case len(flags.triggers) > 0 || flags.message != "":
				name := topic.Name
				if renamed, ok := fields["name"].(string); ok {
					name = renamed
				}
				content, err := dialog.SynthesizeTopic(name, flags.triggers, flags.message)
				if err != nil {
					return err
				}
				fields["data"] = content
			}

			if len(fields) == 0 {
				return fmt.Errorf("nothing to update: pass --name, --description, --file or --trigger/--message")
			}

			if err := session.dataverse.UpdateBotComponent(cmd.Context(), args[0], fields); err != nil {
				return err
			}

			status(cmd, "Topic '%s' updated.", topic.Name)

			return nil
		},
	}

	updateCmd.Flags().String("name", "", "New display name")
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().StringArrayVar(&flags.triggers, "trigger", nil, "Replacement trigger phrase (repeatable)")
	updateCmd.Flags().StringVar(&flags.message, "message", "", "Replacement response message")
	updateCmd.Flags().StringVar(&flags.file, "file", "", "Replace the dialog content from a file")

	return updateCmd
}

func newTopicEnableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <topic-id>",
		Short: "Enable a topic so it triggers during conversations.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTopicState(cmd, args[0], true)
		},
	}
}

func newTopicDisableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <topic-id>",
		Short: "Disable a topic.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTopicState(cmd, args[0], false)
		},
	}
}

func setTopicState(cmd *cobra.Command, topicID string, enabled bool) error {
	session, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	topic, err := session.dataverse.GetBotComponent(cmd.Context(), topicID)
	if err != nil {
		return err
	}

	fields := map[string]any{"statecode": 1, "statuscode": 2}
	if enabled {
		fields = map[string]any{"statecode": 0, "statuscode": 1}
	}

	if err := session.dataverse.UpdateBotComponent(cmd.Context(), topicID, fields); err != nil {
		return err
	}

	if enabled {
		status(cmd, "Topic '%s' enabled.", topic.Name)
	} else {
		status(cmd, "Topic '%s' disabled.", topic.Name)
	}

	return nil
}

func newTopicDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <topic-id>",
		Short: "Delete a topic.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}

			if err := session.dataverse.DeleteBotComponent(cmd.Context(), args[0]); err != nil {
				return err
			}

			status(cmd, "Topic deleted.")

			return nil
		},
	}
}
