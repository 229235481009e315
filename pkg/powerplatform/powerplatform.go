// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package powerplatform is a hand-written client for the Power Apps and
// Business Application Platform APIs: connectors, connections and
// environments.
package powerplatform

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// Host names for the Power Apps and BAP APIs.
const (
	PowerAppsHostName = "api.powerapps.com"
	BapHostName       = "api.bap.microsoft.com"
)

var ServiceConfig cloud.ServiceConfiguration = cloud.ServiceConfiguration{
	Audience: "https://service.powerapps.com",
}

// NewPipeline creates the HTTP pipeline for Power Platform clients.
func NewPipeline(
	credential azcore.TokenCredential,
	serviceConfig cloud.ServiceConfiguration,
	clientOptions *azcore.ClientOptions,
) runtime.Pipeline {
	scopes := []string{
		fmt.Sprintf("%s/.default", serviceConfig.Audience),
	}

	authPolicy := runtime.NewBearerTokenPolicy(credential, scopes, nil)
	pipelineOptions := runtime.PipelineOptions{
		PerRetry: []policy.Policy{authPolicy},
	}

	return runtime.NewPipeline("powerplatform", "1.0.0", pipelineOptions, clientOptions)
}
