// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/spf13/cobra"

	"github.com/microsoft/copilot-studio-cli/pkg/auth"
	"github.com/microsoft/copilot-studio-cli/pkg/config"
	"github.com/microsoft/copilot-studio-cli/pkg/copilot"
	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
	"github.com/microsoft/copilot-studio-cli/pkg/output"
	"github.com/microsoft/copilot-studio-cli/pkg/powerplatform"
)

// session bundles the authenticated clients a command needs.
type session struct {
	config     *config.Config
	credential azcore.TokenCredential
	dataverse  *dataverse.Client
	power      *powerplatform.Client
	service    *copilot.Service
}

func newSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	credential, err := auth.NewCredential(cfg)
	if err != nil {
		return nil, err
	}

	environmentID := cfg.EnvironmentID
	if environmentID == "" {
		tenantID, err := auth.TenantID(ctx, credential, powerplatform.ServiceConfig.Audience)
		if err != nil {
			return nil, fmt.Errorf("resolving environment id: %w", err)
		}
		environmentID = fmt.Sprintf("Default-%s", tenantID)
	}

	dataverseClient := dataverse.NewClient(cfg.DataverseURL, credential, nil)
	powerClient := powerplatform.NewClient(environmentID, credential, nil)

	return &session{
		config:     cfg,
		credential: credential,
		dataverse:  dataverseClient,
		power:      powerClient,
		service:    copilot.NewService(dataverseClient, powerClient),
	}, nil
}

// resolveAgent accepts either an agent id or a display name.
func (s *session) resolveAgent(ctx context.Context, idOrName string) (*dataverse.Bot, error) {
	if dataverse.IsGUID(idOrName) {
		return s.dataverse.GetBot(ctx, idOrName)
	}

	bot, err := s.dataverse.GetBotByName(ctx, idOrName)
	if err != nil {
		return nil, err
	}

	if bot == nil {
		return nil, fmt.Errorf("no agent found matching %q", idOrName)
	}

	return bot, nil
}

// display writes obj to stdout using the formatter selected by --output.
func display(cmd *cobra.Command, obj any, tableOptions output.TableFormatterOptions) error {
	ctx := cmd.Context()
	formatter := output.GetFormatter(ctx)
	writer := output.GetWriter(ctx)

	if formatter.Kind() == output.TableFormat {
		return formatter.Format(obj, writer, tableOptions)
	}

	return formatter.Format(obj, writer, nil)
}

// status prints a progress message to stderr, keeping stdout clean for data.
func status(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

// warn surfaces best-effort warnings on stderr.
func warn(cmd *cobra.Command, warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", warning)
	}
}
