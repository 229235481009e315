// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package copilot orchestrates agent management across the Dataverse and
// Power Platform APIs: tool lifecycle, connection reference reconciliation,
// cascading deletes and the prompt publish state machine.
package copilot

import (
	"github.com/benbjohnson/clock"
	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
	"github.com/microsoft/copilot-studio-cli/pkg/powerplatform"
)

type Service struct {
	dataverse *dataverse.Client
	power     *powerplatform.Client
	clock     clock.Clock
}

func NewService(dataverseClient *dataverse.Client, powerClient *powerplatform.Client) *Service {
	return &Service{
		dataverse: dataverseClient,
		power:     powerClient,
		clock:     clock.New(),
	}
}

// NewServiceWithClock is intended for tests that drive polling loops with a
// mock clock.
func NewServiceWithClock(
	dataverseClient *dataverse.Client,
	powerClient *powerplatform.Client,
	clk clock.Clock,
) *Service {
	return &Service{
		dataverse: dataverseClient,
		power:     powerClient,
		clock:     clk,
	}
}
