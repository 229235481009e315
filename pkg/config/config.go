// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package config resolves tool settings from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the environment and credential settings the CLI operates
// against. DataverseURL is the only required value; everything else has a
// usable default or is resolved lazily.
type Config struct {
	// DataverseURL is the organization URL, e.g. https://org.crm.dynamics.com
	DataverseURL string

	// EnvironmentID is the Power Platform environment id. When empty it is
	// derived from the signed-in tenant as Default-{tenantId}.
	EnvironmentID string

	// Service principal credentials. All three must be set together; when
	// absent the Azure CLI credential is used.
	TenantID     string
	ClientID     string
	ClientSecret string
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	dataverseURL := os.Getenv("DATAVERSE_URL")
	if dataverseURL == "" {
		return nil, fmt.Errorf("DATAVERSE_URL environment variable is not set")
	}

	environmentID := os.Getenv("POWERPLATFORM_ENVIRONMENT_ID")
	if environmentID == "" {
		environmentID = os.Getenv("DATAVERSE_ENVIRONMENT_ID")
	}

	return &Config{
		DataverseURL:  strings.TrimSuffix(dataverseURL, "/"),
		EnvironmentID: environmentID,
		TenantID:      os.Getenv("AZURE_TENANT_ID"),
		ClientID:      os.Getenv("AZURE_CLIENT_ID"),
		ClientSecret:  os.Getenv("AZURE_CLIENT_SECRET"),
	}, nil
}

// HasServicePrincipal reports whether a complete service principal identity
// was configured.
func (c *Config) HasServicePrincipal() bool {
	return c.TenantID != "" && c.ClientID != "" && c.ClientSecret != ""
}
