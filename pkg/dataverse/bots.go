// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Default publisher prefix for schema names when the caller does not supply
// one. Dataverse requires a customization prefix on custom entities.
const DefaultPublisherPrefix = "cr83c_"

var alphanumericSpace = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// BotCreateOptions are the caller-settable fields for a new agent.
type BotCreateOptions struct {
	Name          string
	SchemaName    string
	Language      int
	Instructions  string
	Description   string
	Orchestration bool
}

func (c *Client) ListBots(ctx context.Context) ([]*Bot, error) {
	return newListRequestBuilder[Bot](c, "bots").
		OrderBy("name").
		Get(ctx)
}

func (c *Client) GetBot(ctx context.Context, botID string) (*Bot, error) {
	return get[Bot](ctx, c, fmt.Sprintf("bots(%s)", botID))
}

// GetBotByName finds an agent by display name. An exact (case-insensitive)
// match wins over partial matches; with only partial matches the first one is
// returned.
func (c *Client) GetBotByName(ctx context.Context, name string) (*Bot, error) {
	bots, err := newListRequestBuilder[Bot](c, "bots").
		Filter(fmt.Sprintf("contains(name, '%s')", strings.ReplaceAll(name, "'", "''"))).
		Get(ctx)
	if err != nil {
		return nil, err
	}

	if len(bots) == 0 {
		return nil, nil
	}

	for _, bot := range bots {
		if strings.EqualFold(bot.Name, name) {
			return bot, nil
		}
	}

	return bots[0], nil
}

// CreateBot creates a new agent and returns its id. The schema name is
// generated from the display name when not supplied, and always carries the
// publisher prefix.
func (c *Client) CreateBot(ctx context.Context, options BotCreateOptions) (string, error) {
	schemaName := options.SchemaName
	if schemaName == "" {
		schemaName = camelCaseSchemaName(options.Name)
	}

	if !strings.HasPrefix(schemaName, DefaultPublisherPrefix) {
		schemaName = DefaultPublisherPrefix + schemaName
	}

	language := options.Language
	if language == 0 {
		language = 1033
	}

	configuration, err := botConfiguration(schemaName, options)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"name":                options.Name,
		"schemaname":          schemaName,
		"language":            language,
		"runtimeprovider":     0,
		"accesscontrolpolicy": 1,
		"authenticationmode":  2,
		"authenticationtrigger": 1,
		"template":            "default-2.1.0",
		"configuration":       configuration,
	}

	return c.post(ctx, "bots", body)
}

// UpdateBot applies a sparse update, merging configuration changes into the
// agent's current configuration document.
func (c *Client) UpdateBot(
	ctx context.Context,
	botID string,
	name *string,
	instructions *string,
	description *string,
	orchestration *bool,
) error {
	body := map[string]any{}

	if name != nil {
		body["name"] = *name
	}

	if instructions != nil || description != nil || orchestration != nil {
		current, err := c.GetBot(ctx, botID)
		if err != nil {
			return err
		}

		config := map[string]any{}
		if current.Configuration != "" {
			if err := json.Unmarshal([]byte(current.Configuration), &config); err != nil {
				return fmt.Errorf("parsing agent configuration: %w", err)
			}
		}

		if orchestration != nil {
			settings, _ := config["settings"].(map[string]any)
			if settings == nil {
				settings = map[string]any{}
			}
			settings["GenerativeActionsEnabled"] = *orchestration
			config["settings"] = settings
		}

		if instructions != nil {
			gptSettings, _ := config["gPTSettings"].(map[string]any)
			if gptSettings == nil {
				gptSettings = map[string]any{"$kind": "GPTSettings"}
			}
			gptSettings["systemPrompt"] = *instructions
			config["gPTSettings"] = gptSettings
		}

		if description != nil {
			config["description"] = *description
		}

		raw, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return err
		}

		body["configuration"] = string(raw)
	}

	if len(body) == 0 {
		return fmt.Errorf("no updates provided, specify at least one field to update")
	}

	return c.patch(ctx, fmt.Sprintf("bots(%s)", botID), body)
}

// UpdateBotFields applies a raw attribute update, used for settings that map
// directly to bot columns such as authentication mode.
func (c *Client) UpdateBotFields(ctx context.Context, botID string, fields map[string]any) error {
	if len(fields) == 0 {
		return fmt.Errorf("no updates provided, specify at least one field to update")
	}

	return c.patch(ctx, fmt.Sprintf("bots(%s)", botID), fields)
}

func (c *Client) DeleteBot(ctx context.Context, botID string) error {
	return c.delete(ctx, fmt.Sprintf("bots(%s)", botID))
}

// camelCaseSchemaName converts a display name to a camelCase schema name,
// dropping anything outside ASCII alphanumerics and spaces.
func camelCaseSchemaName(displayName string) string {
	clean := alphanumericSpace.ReplaceAllString(displayName, "")
	words := strings.Fields(clean)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.ToLower(words[0]))
	for _, word := range words[1:] {
		sb.WriteString(strings.ToUpper(word[:1]))
		sb.WriteString(strings.ToLower(word[1:]))
	}

	return sb.String()
}

func botConfiguration(schemaName string, options BotCreateOptions) (string, error) {
	config := map[string]any{
		"$kind": "BotConfiguration",
		"settings": map[string]any{
			"GenerativeActionsEnabled": options.Orchestration,
		},
		"isAgentConnectable": true,
		"gPTSettings": map[string]any{
			"$kind":             "GPTSettings",
			"defaultSchemaName": fmt.Sprintf("%s.gpt.default", schemaName),
		},
		"aISettings": map[string]any{
			"$kind":                  "AISettings",
			"useModelKnowledge":      true,
			"isFileAnalysisEnabled":  true,
			"isSemanticSearchEnabled": true,
			"contentModeration":      "High",
			"optInUseLatestModels":   false,
		},
		"recognizer": map[string]any{
			"$kind": "GenerativeAIRecognizer",
		},
	}

	if options.Instructions != "" {
		config["gPTSettings"].(map[string]any)["systemPrompt"] = options.Instructions
	}

	if options.Description != "" {
		config["description"] = options.Description
	}

	raw, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return "", err
	}

	return string(raw), nil
}
