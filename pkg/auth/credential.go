// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package auth selects the token credential used for all service calls.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/golang-jwt/jwt/v5"

	"github.com/microsoft/copilot-studio-cli/pkg/config"
)

// NewCredential returns a service principal credential when one is fully
// configured, otherwise the Azure CLI credential of the signed-in user.
func NewCredential(cfg *config.Config) (azcore.TokenCredential, error) {
	if cfg.HasServicePrincipal() {
		credential, err := azidentity.NewClientSecretCredential(
			cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("creating service principal credential: %w", err)
		}

		return credential, nil
	}

	credential, err := azidentity.NewAzureCLICredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating Azure CLI credential: %w", err)
	}

	return credential, nil
}

// TenantID extracts the tenant id (tid claim) from a token issued to the
// given credential. Used to derive the Default-{tenantId} environment id when
// none is configured.
func TenantID(ctx context.Context, credential azcore.TokenCredential, audience string) (string, error) {
	token, err := credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{fmt.Sprintf("%s/.default", strings.TrimSuffix(audience, "/"))},
	})
	if err != nil {
		return "", fmt.Errorf("acquiring token: %w", err)
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token.Token, claims); err != nil {
		return "", fmt.Errorf("parsing access token: %w", err)
	}

	tid, ok := claims["tid"].(string)
	if !ok || tid == "" {
		return "", fmt.Errorf("access token does not carry a tenant id")
	}

	return tid, nil
}
