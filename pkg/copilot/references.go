// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package copilot

import (
	"context"
	"fmt"
	"strings"

	"github.com/microsoft/copilot-studio-cli/pkg/dataverse"
)

// ReferenceLogicalName derives the deterministic logical name a connection
// reference is reconciled under. Repeating the same agent, connector and
// connection always lands on the same reference.
func ReferenceLogicalName(botSchemaName string, connectorID string, connectionID string) string {
	return fmt.Sprintf("%s.%s.%s", botSchemaName, connectorID, connectionID)
}

// EnsureConnectionReference returns the reference for the given connection,
// creating it when it does not exist yet. The operation is idempotent.
func (s *Service) EnsureConnectionReference(
	ctx context.Context,
	botSchemaName string,
	connectorID string,
	connectionID string,
) (*dataverse.ConnectionReference, error) {
	if botSchemaName == "" {
		return nil, newValidationError("agent has no schema name; cannot derive a connection reference")
	}

	logicalName := ReferenceLogicalName(botSchemaName, connectorID, connectionID)

	existing, err := s.dataverse.GetConnectionReferenceByLogicalName(ctx, logicalName)
	if err != nil {
		return nil, fmt.Errorf("looking up connection reference %s: %w", logicalName, err)
	}

	if existing != nil {
		return existing, nil
	}

	reference := &dataverse.ConnectionReference{
		DisplayName:  logicalName,
		LogicalName:  logicalName,
		ConnectorID:  fmt.Sprintf("/providers/Microsoft.PowerApps/apis/%s", connectorID),
		ConnectionID: connectionID,
	}

	id, err := s.dataverse.CreateConnectionReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("creating connection reference %s: %w", logicalName, err)
	}

	reference.ID = id

	return reference, nil
}

// ReleaseConnectionReferenceIfUnused deletes the reference when no component
// of the agent still mentions it. References in the msdyn_ namespace are
// platform managed and never deleted. All failures degrade to warnings.
func (s *Service) ReleaseConnectionReferenceIfUnused(
	ctx context.Context,
	botID string,
	logicalName string,
) (released bool, warnings []string) {
	if strings.HasPrefix(logicalName, "msdyn_") {
		return false, nil
	}

	reference, err := s.dataverse.GetConnectionReferenceByLogicalName(ctx, logicalName)
	if err != nil {
		return false, []string{fmt.Sprintf(
			"could not check connection reference %s for release: %s", logicalName, err)}
	}

	if reference == nil {
		return false, nil
	}

	components, err := s.dataverse.ListBotComponentsByType(ctx, botID, dataverse.ComponentTypeTopicV2)
	if err != nil {
		return false, []string{fmt.Sprintf(
			"could not check connection reference %s for release: %s", logicalName, err)}
	}

	for _, component := range components {
		if strings.Contains(component.Data, logicalName) {
			return false, nil
		}
	}

	if err := s.dataverse.DeleteConnectionReference(ctx, reference.ID); err != nil {
		return false, []string{fmt.Sprintf(
			"could not delete orphaned connection reference %s: %s", logicalName, err)}
	}

	return true, nil
}
