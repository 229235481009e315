// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"context"
	"encoding/json"
	"fmt"
)

// AppInsightsSettings is the telemetry export configuration carried in the
// agent's configuration document.
type AppInsightsSettings struct {
	Enabled                bool   `json:"enabled"`
	ConnectionString       string `json:"connectionString"`
	LogActivities          bool   `json:"logActivities"`
	LogSensitiveProperties bool   `json:"logSensitiveProperties"`
}

// GetAppInsightsSettings reads the agent's telemetry export configuration.
func (c *Client) GetAppInsightsSettings(ctx context.Context, botID string) (*AppInsightsSettings, error) {
	bot, err := c.GetBot(ctx, botID)
	if err != nil {
		return nil, err
	}

	settings := &AppInsightsSettings{}

	config := map[string]any{}
	if bot.Configuration != "" {
		if err := json.Unmarshal([]byte(bot.Configuration), &config); err != nil {
			return nil, fmt.Errorf("parsing agent configuration: %w", err)
		}
	}

	integration, _ := config["runtimeIntegration"].(map[string]any)
	if integration == nil {
		return settings, nil
	}

	if value, ok := integration["applicationInsightsConnectionString"].(string); ok {
		settings.ConnectionString = value
		settings.Enabled = value != ""
	}
	if value, ok := integration["logActivities"].(bool); ok {
		settings.LogActivities = value
	}
	if value, ok := integration["logSensitiveProperties"].(bool); ok {
		settings.LogSensitiveProperties = value
	}

	return settings, nil
}

// UpdateAppInsightsSettings merges telemetry export settings into the agent's
// configuration document. An empty connection string disables export.
func (c *Client) UpdateAppInsightsSettings(
	ctx context.Context,
	botID string,
	settings *AppInsightsSettings,
) error {
	bot, err := c.GetBot(ctx, botID)
	if err != nil {
		return err
	}

	config := map[string]any{}
	if bot.Configuration != "" {
		if err := json.Unmarshal([]byte(bot.Configuration), &config); err != nil {
			return fmt.Errorf("parsing agent configuration: %w", err)
		}
	}

	config["runtimeIntegration"] = map[string]any{
		"applicationInsightsConnectionString": settings.ConnectionString,
		"logActivities":                       settings.LogActivities,
		"logSensitiveProperties":              settings.LogSensitiveProperties,
	}

	raw, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return c.patch(ctx, fmt.Sprintf("bots(%s)", botID), map[string]any{
		"configuration": string(raw),
	})
}
