// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Topic wraps a topic component with its system/custom classification.
type Topic struct {
	*BotComponent
	IsSystem bool `json:"isSystem"`
}

// Display names Copilot Studio gives its built-in topics.
var systemTopicNames = []string{
	"Greeting",
	"Goodbye",
	"Escalate",
	"Start over",
	"Thank you",
	"Fallback",
	"Multiple topics matched",
	"Conversational boosting",
	"On Error",
}

func (c *Client) ListBotComponents(ctx context.Context, botID string) ([]*BotComponent, error) {
	return newListRequestBuilder[BotComponent](c, "botcomponents").
		Filter(fmt.Sprintf("_parentbotid_value eq %s", botID)).
		Get(ctx)
}

func (c *Client) ListBotComponentsByType(
	ctx context.Context,
	botID string,
	componentTypes ...int,
) ([]*BotComponent, error) {
	clauses := make([]string, 0, len(componentTypes))
	for _, componentType := range componentTypes {
		clauses = append(clauses, fmt.Sprintf("componenttype eq %d", componentType))
	}

	filter := fmt.Sprintf("_parentbotid_value eq %s", botID)
	if len(clauses) == 1 {
		filter += " and " + clauses[0]
	} else if len(clauses) > 1 {
		filter += " and (" + strings.Join(clauses, " or ") + ")"
	}

	return newListRequestBuilder[BotComponent](c, "botcomponents").
		Filter(filter).
		Get(ctx)
}

func (c *Client) GetBotComponent(ctx context.Context, componentID string) (*BotComponent, error) {
	return get[BotComponent](ctx, c, fmt.Sprintf("botcomponents(%s)", componentID))
}

// CreateBotComponent creates a component under the given agent and returns
// the new component id from the OData-EntityId header.
func (c *Client) CreateBotComponent(ctx context.Context, botID string, component *BotComponent) (string, error) {
	body := map[string]any{
		"name":                   component.Name,
		"componenttype":          component.ComponentType,
		"parentbotid@odata.bind": fmt.Sprintf("/bots(%s)", botID),
	}

	if component.SchemaName != "" {
		body["schemaname"] = component.SchemaName
	}
	if component.Data != "" {
		body["data"] = component.Data
	}
	if component.Content != "" {
		body["content"] = component.Content
	}
	if component.Description != "" {
		body["description"] = component.Description
	}
	if component.Language != 0 {
		body["language"] = component.Language
	}

	return c.post(ctx, "botcomponents", body)
}

func (c *Client) UpdateBotComponent(ctx context.Context, componentID string, fields map[string]any) error {
	return c.patch(ctx, fmt.Sprintf("botcomponents(%s)", componentID), fields)
}

func (c *Client) DeleteBotComponent(ctx context.Context, componentID string) error {
	return c.delete(ctx, fmt.Sprintf("botcomponents(%s)", componentID))
}

// ListTopics returns the agent's topic components (legacy and V2) with each
// topic classified as system or custom.
func (c *Client) ListTopics(
	ctx context.Context,
	botID string,
	includeSystem bool,
	includeCustom bool,
) ([]*Topic, error) {
	components, err := newListRequestBuilder[BotComponent](c, "botcomponents").
		Filter(fmt.Sprintf(
			"_parentbotid_value eq %s and (componenttype eq %d or componenttype eq %d)",
			botID, ComponentTypeTopic, ComponentTypeTopicV2)).
		OrderBy("name").
		Get(ctx)
	if err != nil {
		return nil, err
	}

	topics := []*Topic{}
	for _, component := range components {
		isSystem := isSystemTopic(component)

		if (isSystem && includeSystem) || (!isSystem && includeCustom) {
			topics = append(topics, &Topic{BotComponent: component, IsSystem: isSystem})
		}
	}

	return topics, nil
}

func isSystemTopic(component *BotComponent) bool {
	return strings.EqualFold(component.Category, "SYSTEM") ||
		strings.HasPrefix(strings.ToLower(component.SchemaName), "system.") ||
		strings.HasPrefix(component.Name, "System:") ||
		slices.Contains(systemTopicNames, component.Name)
}
