// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package dataverse is a hand-written client for the subset of the Dataverse
// Web API used by Copilot Studio agents: bots, bot components, connection
// references, solutions, workflows, AI models and conversation transcripts.
package dataverse

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// The Web API version all requests are issued against.
const apiVersion = "v9.2"

// Bot component types as stored on the botcomponent entity.
const (
	ComponentTypeTopic              = 0
	ComponentTypeTopicV2            = 9
	ComponentTypeFileKnowledge      = 14
	ComponentTypeKnowledgeConnector = 16
)

// NewPipeline creates the HTTP pipeline for a Dataverse organization. The
// token audience is the organization URL itself.
func NewPipeline(
	credential azcore.TokenCredential,
	organizationURL string,
	clientOptions *azcore.ClientOptions,
) runtime.Pipeline {
	scopes := []string{
		fmt.Sprintf("%s/.default", organizationURL),
	}

	authPolicy := runtime.NewBearerTokenPolicy(credential, scopes, nil)
	pipelineOptions := runtime.PipelineOptions{
		PerRetry: []policy.Policy{authPolicy},
	}

	return runtime.NewPipeline("dataverse", "1.0.0", pipelineOptions, clientOptions)
}
