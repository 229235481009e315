// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package copilot

import (
	"context"
	"fmt"
	"time"

	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
)

// Published prompt configurations cannot be edited in place. Editing one
// walks a small state machine: unpublish, wait for the draft state, apply
// the edit, republish, wait for the published state.
const (
	promptPollInterval      = time.Second
	promptUnpublishAttempts = 15
	promptPublishAttempts   = 30
)

// PromptUpdateResult reports a prompt edit and whether a republish round trip
// was needed.
type PromptUpdateResult struct {
	ConfigurationID string `json:"configurationId"`
	Republished     bool   `json:"republished"`
}

// UpdatePrompt applies fields to the prompt's latest configuration,
// unpublishing and republishing around the edit when the configuration is
// live.
func (s *Service) UpdatePrompt(
	ctx context.Context,
	promptID string,
	fields map[string]any,
) (*PromptUpdateResult, error) {
	if len(fields) == 0 {
		return nil, newValidationError("no prompt fields to update")
	}

	configuration, err := s.dataverse.GetPromptConfiguration(ctx, promptID)
	if err != nil {
		return nil, err
	}

	published := configuration.StatusCode == dataverse.AIConfigurationStatusPublished
	if published {
		if err := s.dataverse.UnpublishAIConfiguration(ctx, configuration.ID); err != nil {
			return nil, fmt.Errorf("unpublishing prompt configuration: %w", err)
		}

		if err := s.waitForPromptStatus(
			ctx, configuration.ID, dataverse.AIConfigurationStatusDraft, promptUnpublishAttempts,
		); err != nil {
			return nil, err
		}
	}

	if err := s.dataverse.UpdateAIConfiguration(ctx, configuration.ID, fields); err != nil {
		return nil, fmt.Errorf("updating prompt configuration: %w", err)
	}

	if published {
		if err := s.dataverse.PublishAIConfiguration(ctx, configuration.ID); err != nil {
			return nil, fmt.Errorf("republishing prompt configuration: %w", err)
		}

		if err := s.waitForPromptStatus(
			ctx, configuration.ID, dataverse.AIConfigurationStatusPublished, promptPublishAttempts,
		); err != nil {
			return nil, err
		}
	}

	return &PromptUpdateResult{ConfigurationID: configuration.ID, Republished: published}, nil
}

// PublishPrompt publishes the prompt's latest configuration and waits for the
// published state.
func (s *Service) PublishPrompt(ctx context.Context, promptID string) error {
	configuration, err := s.dataverse.GetPromptConfiguration(ctx, promptID)
	if err != nil {
		return err
	}

	if configuration.StatusCode == dataverse.AIConfigurationStatusPublished {
		return nil
	}

	if err := s.dataverse.PublishAIConfiguration(ctx, configuration.ID); err != nil {
		return fmt.Errorf("publishing prompt configuration: %w", err)
	}

	return s.waitForPromptStatus(
		ctx, configuration.ID, dataverse.AIConfigurationStatusPublished, promptPublishAttempts)
}

func (s *Service) waitForPromptStatus(
	ctx context.Context,
	configurationID string,
	status int,
	attempts int,
) error {
	for attempt := 0; attempt < attempts; attempt++ {
		configuration, err := s.dataverse.GetAIConfiguration(ctx, configurationID)
		if err != nil {
			return fmt.Errorf("polling prompt configuration: %w", err)
		}

		if configuration.StatusCode == status {
			return nil
		}

		if configuration.StatusCode == dataverse.AIConfigurationStatusPublishFailed {
			return fmt.Errorf("prompt configuration %s failed to publish", configurationID)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(promptPollInterval):
		}
	}

	return fmt.Errorf(
		"prompt configuration %s did not reach the expected state after %s",
		configurationID,
		time.Duration(attempts)*promptPollInterval,
	)
}
