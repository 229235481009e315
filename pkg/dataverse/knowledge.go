// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ListKnowledgeSources returns the agent's knowledge source components.
// sourceType is "file", "connector" or empty for both.
func (c *Client) ListKnowledgeSources(ctx context.Context, botID string, sourceType string) ([]*BotComponent, error) {
	switch sourceType {
	case "file":
		return c.ListBotComponentsByType(ctx, botID, ComponentTypeFileKnowledge)
	case "connector":
		return c.ListBotComponentsByType(ctx, botID, ComponentTypeKnowledgeConnector)
	default:
		return c.ListBotComponentsByType(ctx, botID, ComponentTypeFileKnowledge, ComponentTypeKnowledgeConnector)
	}
}

// AddFileKnowledgeSource attaches text content as a file knowledge source and
// returns the created component id.
func (c *Client) AddFileKnowledgeSource(
	ctx context.Context,
	botID string,
	name string,
	content string,
	description string,
) (string, error) {
	botSchema, err := c.botSchemaName(ctx, botID)
	if err != nil {
		return "", err
	}

	if description == "" {
		description = fmt.Sprintf("This knowledge source searches information contained in %s", name)
	}

	return c.CreateBotComponent(ctx, botID, &BotComponent{
		ComponentType: ComponentTypeFileKnowledge,
		Name:          name,
		SchemaName:    fmt.Sprintf("%s.file.%s", botSchema, nonAlphanumeric.ReplaceAllString(name, "")),
		Description:   description,
		Content:       content,
	})
}

// AddAzureAISearchKnowledgeSource attaches an Azure AI Search index as a
// knowledge source and returns the created component id.
func (c *Client) AddAzureAISearchKnowledgeSource(
	ctx context.Context,
	botID string,
	name string,
	searchEndpoint string,
	searchIndex string,
	apiKey string,
	description string,
) (string, error) {
	botSchema, err := c.botSchemaName(ctx, botID)
	if err != nil {
		return "", err
	}

	if description == "" {
		description = fmt.Sprintf("Azure AI Search knowledge source: %s", name)
	}

	config, err := json.Marshal(map[string]string{
		"$kind":     "AzureAISearchKnowledgeSource",
		"endpoint":  searchEndpoint,
		"indexName": searchIndex,
		"apiKey":    apiKey,
	})
	if err != nil {
		return "", err
	}

	return c.CreateBotComponent(ctx, botID, &BotComponent{
		ComponentType: ComponentTypeKnowledgeConnector,
		Name:          name,
		SchemaName:    fmt.Sprintf("%s.knowledge.%s", botSchema, nonAlphanumeric.ReplaceAllString(name, "")),
		Description:   description,
		Data:          string(config),
	})
}

func (c *Client) RemoveKnowledgeSource(ctx context.Context, componentID string) error {
	return c.DeleteBotComponent(ctx, componentID)
}

// botSchemaName resolves the agent's schema name, falling back to a derived
// name so component schema names stay well-formed.
func (c *Client) botSchemaName(ctx context.Context, botID string) (string, error) {
	bot, err := c.GetBot(ctx, botID)
	if err != nil {
		return "", err
	}

	if bot.SchemaName != "" {
		return bot.SchemaName, nil
	}

	short := botID
	if len(short) > 8 {
		short = short[:8]
	}

	return fmt.Sprintf("%sbot%s", DefaultPublisherPrefix, short), nil
}
