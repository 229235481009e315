// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

import (
	"context"
	"fmt"
)

// GptPowerPromptTemplateID identifies AI Builder prompts among AI models.
const GptPowerPromptTemplateID = "edfdb190-3791-45d8-9a6c-8f90a37c278a"

// AI configuration status codes used by the publish lifecycle.
const (
	AIConfigurationStatusDraft         = 1
	AIConfigurationStatusPublished     = 6
	AIConfigurationStatusPublishFailed = 9
)

// ListPrompts returns the environment's AI Builder prompts.
func (c *Client) ListPrompts(ctx context.Context) ([]*AIModel, error) {
	return newListRequestBuilder[AIModel](c, "msdyn_aimodels").
		Filter(fmt.Sprintf("_msdyn_templateid_value eq %s", GptPowerPromptTemplateID)).
		OrderBy("msdyn_name").
		Get(ctx)
}

func (c *Client) GetPrompt(ctx context.Context, promptID string) (*AIModel, error) {
	return get[AIModel](ctx, c, fmt.Sprintf("msdyn_aimodels(%s)", promptID))
}

// GetPromptConfiguration returns the active AI configuration for a prompt.
func (c *Client) GetPromptConfiguration(ctx context.Context, promptID string) (*AIConfiguration, error) {
	configurations, err := newListRequestBuilder[AIConfiguration](c, "msdyn_aiconfigurations").
		Filter(fmt.Sprintf("_msdyn_aimodelid_value eq %s", promptID)).
		OrderBy("modifiedon desc").
		Top(1).
		Get(ctx)
	if err != nil {
		return nil, err
	}

	if len(configurations) == 0 {
		return nil, fmt.Errorf("prompt %s has no AI configuration", promptID)
	}

	return configurations[0], nil
}

func (c *Client) GetAIConfiguration(ctx context.Context, configurationID string) (*AIConfiguration, error) {
	return get[AIConfiguration](ctx, c, fmt.Sprintf("msdyn_aiconfigurations(%s)", configurationID))
}

func (c *Client) UpdateAIConfiguration(ctx context.Context, configurationID string, fields map[string]any) error {
	return c.patch(ctx, fmt.Sprintf("msdyn_aiconfigurations(%s)", configurationID), fields)
}

// PublishAIConfiguration starts publishing; completion is observed by polling
// the configuration's status code.
func (c *Client) PublishAIConfiguration(ctx context.Context, configurationID string) error {
	_, err := c.post(ctx,
		fmt.Sprintf("msdyn_aiconfigurations(%s)/Microsoft.Dynamics.CRM.PublishAIConfiguration", configurationID),
		map[string]any{})

	return err
}

// UnpublishAIConfiguration starts unpublishing; completion is observed by
// polling for the draft status.
func (c *Client) UnpublishAIConfiguration(ctx context.Context, configurationID string) error {
	_, err := c.post(ctx,
		fmt.Sprintf("msdyn_aiconfigurations(%s)/Microsoft.Dynamics.CRM.UnpublishAIConfiguration", configurationID),
		map[string]any{})

	return err
}
